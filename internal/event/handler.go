package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dashboard/internal/event/model"
	"dashboard/internal/event/service"
	"dashboard/pkg/apperror"
	"dashboard/pkg/logger"
	"dashboard/pkg/respond"
)

type EventHandler struct {
	Service *service.EventService
}

func NewEventHandler(service *service.EventService) *EventHandler {
	return &EventHandler{Service: service}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.List(r.Context())
	if err != nil {
		fail(w, "list events", err)
		return
	}
	respond.JSON(w, http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.Validation("Invalid request body"))
		return
	}

	event, err := h.Service.Create(r.Context(), req)
	if err != nil {
		fail(w, "create event", err)
		return
	}
	respond.JSON(w, http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		apperror.Write(w, apperror.Validation("Invalid event id"))
		return
	}

	var req model.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.Validation("Invalid request body"))
		return
	}

	event, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		fail(w, "update event", err)
		return
	}
	respond.JSON(w, http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		apperror.Write(w, apperror.Validation("Invalid event id"))
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		fail(w, "delete event", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Event deleted successfully"})
}

func fail(w http.ResponseWriter, op string, err error) {
	if apperror.Is(err, apperror.KindStore) {
		logger.Sugar.Errorf("Handler: Failed to %s: %v", op, err)
	}
	apperror.Write(w, err)
}
