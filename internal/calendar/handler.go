package calendar

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata" // tz lookups must work in scratch images

	eventmodel "dashboard/internal/event/model"
	notemodel "dashboard/internal/note/model"
	"dashboard/internal/visibility"
	"dashboard/pkg/apperror"
	"dashboard/pkg/logger"
	"dashboard/pkg/respond"
)

type NoteLister interface {
	List(ctx context.Context, viewer visibility.Viewer, filter notemodel.Filter) ([]notemodel.Note, error)
}

type EventLister interface {
	Between(ctx context.Context, from, to time.Time) ([]eventmodel.Event, error)
}

type Handler struct {
	Notes  NoteLister
	Events EventLister
	Now    func() time.Time
}

func NewHandler(notes NoteLister, events EventLister) *Handler {
	return &Handler{Notes: notes, Events: events, Now: time.Now}
}

// Month serves GET /calendar?month=YYYY-MM&tz=Area/City.
func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	loc, err := location(r)
	if err != nil {
		apperror.Write(w, err)
		return
	}
	now := h.Now()
	start, err := ParseMonth(r.URL.Query().Get("month"), loc, now)
	if err != nil {
		apperror.Write(w, apperror.Validation(err.Error()))
		return
	}

	entries, err := h.entries(r.Context(), start, start.AddDate(0, 1, 0))
	if err != nil {
		fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, BuildMonth(start, loc, entries, now))
}

// Day serves GET /calendar/day?date=YYYY-MM-DD&tz=Area/City.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	loc, err := location(r)
	if err != nil {
		apperror.Write(w, err)
		return
	}
	date, err := ParseDate(r.URL.Query().Get("date"), loc, h.Now())
	if err != nil {
		apperror.Write(w, apperror.Validation(err.Error()))
		return
	}

	entries, err := h.entries(r.Context(), date, date.AddDate(0, 0, 1))
	if err != nil {
		fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, BuildDay(date, loc, entries))
}

// entries collects the viewer's event notes and the events starting in
// [from, to). Notes go through the same visibility gate as GET /notes.
func (h *Handler) entries(ctx context.Context, from, to time.Time) ([]Entry, error) {
	notes, err := h.Notes.List(ctx, visibility.FromContext(ctx), notemodel.FilterEvent)
	if err != nil {
		return nil, err
	}
	events, err := h.Events.Between(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return append(FromNotes(notes), FromEvents(events)...), nil
}

func location(r *http.Request) (*time.Location, error) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperror.Validation("Invalid tz: " + tz)
	}
	return loc, nil
}

func fail(w http.ResponseWriter, err error) {
	if apperror.Is(err, apperror.KindStore) {
		logger.Sugar.Errorf("Handler: Failed to build calendar: %v", err)
	}
	apperror.Write(w, err)
}
