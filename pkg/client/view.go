package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	notemodel "dashboard/internal/note/model"
	"dashboard/internal/visibility"
)

// View keeps the full note list a dashboard renders. Every mutation is
// followed by a re-fetch; the list is never patched locally.
type View struct {
	Client *Client

	mu    sync.RWMutex
	notes []notemodel.Note
}

func NewView(c *Client) *View {
	return &View{Client: c, notes: []notemodel.Note{}}
}

// Refresh reloads every note. Without a session it also drops secret notes
// locally; the server has already withheld them, this only keeps the view
// consistent if it is handed a stale list.
func (v *View) Refresh(ctx context.Context) error {
	notes, err := v.Client.ListNotes(ctx, notemodel.FilterAll)
	if err != nil {
		return err
	}
	viewer := visibility.Anonymous
	if v.Client.Authenticated() {
		viewer = visibility.Viewer{Authenticated: true}
	}
	notes = visibility.Filter(viewer, notes, func(n notemodel.Note) bool { return n.Secret })

	v.mu.Lock()
	v.notes = notes
	v.mu.Unlock()
	return nil
}

// Notes returns a copy of the loaded list.
func (v *View) Notes() []notemodel.Note {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]notemodel.Note(nil), v.notes...)
}

// Visible applies filter to the loaded list. It does no I/O.
func (v *View) Visible(filter notemodel.Filter) []notemodel.Note {
	return notemodel.Apply(v.Notes(), filter)
}

// SetToken switches the session and reloads, since the visible set depends on it.
func (v *View) SetToken(ctx context.Context, token string) error {
	v.Client.SetToken(token)
	return v.Refresh(ctx)
}

func (v *View) Create(ctx context.Context, req notemodel.CreateNoteRequest) (*notemodel.Note, error) {
	note, err := v.Client.CreateNote(ctx, req)
	return note, v.settle(ctx, err)
}

func (v *View) Update(ctx context.Context, id int64, req notemodel.UpdateNoteRequest) (*notemodel.Note, error) {
	note, err := v.Client.UpdateNote(ctx, id, req)
	return note, v.settle(ctx, err)
}

func (v *View) Delete(ctx context.Context, id int64) error {
	return v.settle(ctx, v.Client.DeleteNote(ctx, id))
}

// ToggleComplete flips the completed flag of a loaded note, resubmitting its
// other fields unchanged.
func (v *View) ToggleComplete(ctx context.Context, id int64) (*notemodel.Note, error) {
	var current *notemodel.Note
	for _, n := range v.Notes() {
		if n.ID == id {
			current = &n
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("note %d is not loaded", id)
	}
	return v.Update(ctx, id, UpdateRequestFrom(*current, !current.Completed))
}

// settle re-fetches after a mutation whether or not it succeeded.
func (v *View) settle(ctx context.Context, mutationErr error) error {
	return errors.Join(mutationErr, v.Refresh(ctx))
}

// UpdateRequestFrom builds a full-row update that keeps n as it is apart
// from the completed flag.
func UpdateRequestFrom(n notemodel.Note, completed bool) notemodel.UpdateNoteRequest {
	req := notemodel.UpdateNoteRequest{
		Title:     n.Title,
		Content:   n.Content,
		Type:      n.Type,
		Priority:  n.Priority,
		Completed: completed,
		Secret:    n.Secret,
	}
	if n.DueDate != nil {
		due := n.DueDate.UTC().Format(time.RFC3339)
		req.DueDate = &due
	}
	return req
}
