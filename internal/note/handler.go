package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dashboard/internal/note/model"
	"dashboard/internal/note/service"
	"dashboard/internal/visibility"
	"dashboard/pkg/apperror"
	"dashboard/pkg/logger"
	"dashboard/pkg/respond"
)

type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: service}
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	filter, err := model.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		apperror.Write(w, apperror.Validation(err.Error()))
		return
	}

	notes, err := h.Service.List(r.Context(), visibility.FromContext(r.Context()), filter)
	if err != nil {
		h.fail(w, "list notes", err)
		return
	}
	respond.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.Validation("Invalid request body"))
		return
	}

	note, err := h.Service.Create(r.Context(), visibility.FromContext(r.Context()), req)
	if err != nil {
		h.fail(w, "create note", err)
		return
	}
	respond.JSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	note, err := h.Service.Get(r.Context(), visibility.FromContext(r.Context()), id)
	if err != nil {
		h.fail(w, "get note", err)
		return
	}
	respond.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, apperror.Validation("Invalid request body"))
		return
	}

	note, err := h.Service.Update(r.Context(), visibility.FromContext(r.Context()), id, req)
	if err != nil {
		h.fail(w, "update note", err)
		return
	}
	respond.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), visibility.FromContext(r.Context()), id); err != nil {
		h.fail(w, "delete note", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Note deleted successfully"})
}

func (h *NoteHandler) fail(w http.ResponseWriter, op string, err error) {
	if apperror.Is(err, apperror.KindStore) {
		logger.Sugar.Errorf("Handler: Failed to %s: %v", op, err)
	}
	apperror.Write(w, err)
}

// pathID reads the {id} wildcard, writing a 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		apperror.Write(w, apperror.Validation("Invalid note id"))
		return 0, false
	}
	return id, true
}
