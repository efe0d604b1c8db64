package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"dashboard/config"
	"dashboard/internal/calendar"
	eventHandler "dashboard/internal/event"
	eventRepository "dashboard/internal/event/repository"
	eventService "dashboard/internal/event/service"
	"dashboard/internal/feed"
	noteHandler "dashboard/internal/note"
	noteRepository "dashboard/internal/note/repository"
	noteService "dashboard/internal/note/service"
	"dashboard/internal/notify"
	"dashboard/middleware"
	"dashboard/pkg/metrics"
	"dashboard/pkg/respond"
	"dashboard/socket"
)

// Setup wires every endpoint onto one mux. Changes are published to the hub
// and to notifier, which may be nil.
func Setup(cfg *config.Config, db *sql.DB, hub *socket.Hub, notifier notify.Publisher) http.Handler {
	mux := http.NewServeMux()

	publishers := notify.Fanout{hub}
	if notifier != nil {
		publishers = append(publishers, notifier)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r)
	})

	// Notes
	notes := noteService.NewNoteService(noteRepository.NewNoteRepository(db), publishers)
	nh := noteHandler.NewNoteHandler(notes)
	mux.HandleFunc("GET /notes", nh.ListNotes)
	mux.HandleFunc("POST /notes", nh.CreateNote)
	mux.HandleFunc("GET /notes/{id}", nh.GetNote)
	mux.HandleFunc("PUT /notes/{id}", nh.UpdateNote)
	mux.HandleFunc("DELETE /notes/{id}", nh.DeleteNote)

	// Events
	events := eventService.NewEventService(eventRepository.NewEventRepository(db), publishers)
	eh := eventHandler.NewEventHandler(events)
	mux.HandleFunc("GET /events", eh.ListEvents)
	mux.HandleFunc("POST /events", eh.CreateEvent)
	mux.HandleFunc("PUT /events/{id}", eh.UpdateEvent)
	mux.HandleFunc("DELETE /events/{id}", eh.DeleteEvent)

	// Calendar
	ch := calendar.NewHandler(notes, events)
	mux.HandleFunc("GET /calendar", ch.Month)
	mux.HandleFunc("GET /calendar/day", ch.Day)

	// RSS
	fh := feed.NewHandler(feed.NewFetcher(cfg.RSS))
	mux.HandleFunc("GET /rss", fh.Feed)

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// AccessLog sits directly on the mux so the matched pattern is visible to it.
	var handler http.Handler = middleware.AccessLog(mux)
	handler = middleware.RequestID(handler)
	handler = middleware.Session(cfg.JWTSecret)(handler)
	return middleware.CORSMiddleware(cfg.CORSOrigin)(handler)
}
