package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"dashboard/internal/note/model"
	"dashboard/internal/notify"
	"dashboard/internal/visibility"
	"dashboard/pkg/apperror"
	"dashboard/pkg/metrics"
	"dashboard/pkg/timestamp"
)

type Repository interface {
	List(ctx context.Context, includeSecret bool, filter model.Filter) ([]model.Note, error)
	Get(ctx context.Context, id int64) (*model.Note, error)
	Create(ctx context.Context, in model.NoteInput) (*model.Note, error)
	Update(ctx context.Context, id int64, in model.NoteInput) (*model.Note, error)
	Delete(ctx context.Context, id int64) error
}

// NoteService is the single authorization gate for notes: every operation
// applies the visibility rules before it returns or writes anything.
type NoteService struct {
	Repo     Repository
	Notifier notify.Publisher
}

func NewNoteService(repo Repository, notifier notify.Publisher) *NoteService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &NoteService{Repo: repo, Notifier: notifier}
}

func (s *NoteService) List(ctx context.Context, viewer visibility.Viewer, filter model.Filter) ([]model.Note, error) {
	notes, err := s.Repo.List(ctx, visibility.IncludeSecret(viewer), filter)
	if err != nil {
		return nil, apperror.Store("Failed to fetch notes", err)
	}
	for i := range notes {
		notes[i].Snippet = snippetFromContent(notes[i].Content)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, viewer visibility.Viewer, id int64) (*model.Note, error) {
	n, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanView(viewer, n.Secret); err != nil {
		metrics.Denied.WithLabelValues("read").Inc()
		return nil, err
	}
	n.Snippet = snippetFromContent(n.Content)
	return n, nil
}

func (s *NoteService) Create(ctx context.Context, viewer visibility.Viewer, req model.CreateNoteRequest) (*model.Note, error) {
	in, err := validate(req.Title, req.Content, req.Type, req.Priority, false, req.DueDate, req.Secret)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanCreate(viewer, in.Secret); err != nil {
		metrics.Denied.WithLabelValues("create").Inc()
		return nil, err
	}

	n, err := s.Repo.Create(ctx, in)
	if err != nil {
		return nil, apperror.Store("Failed to create note", err)
	}
	n.Snippet = snippetFromContent(n.Content)
	s.publish(ctx, notify.ActionCreated, n.ID, n.Secret)
	return n, nil
}

// Update replaces the editable fields of a note. The stored row is read
// first because its secret flag takes part in the authorization decision; a
// delete landing between the read and the write surfaces as NotFound.
func (s *NoteService) Update(ctx context.Context, viewer visibility.Viewer, id int64, req model.UpdateNoteRequest) (*model.Note, error) {
	in, err := validate(req.Title, req.Content, req.Type, req.Priority, req.Completed, req.DueDate, req.Secret)
	if err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanUpdate(viewer, existing.Secret, in.Secret); err != nil {
		metrics.Denied.WithLabelValues("update").Inc()
		return nil, err
	}

	n, err := s.Repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			return nil, apperror.NotFound("Note not found")
		}
		return nil, apperror.Store("Failed to update note", err)
	}
	n.Snippet = snippetFromContent(n.Content)
	s.publish(ctx, notify.ActionUpdated, n.ID, existing.Secret || n.Secret)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, viewer visibility.Viewer, id int64) error {
	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := visibility.CanDelete(viewer, existing.Secret); err != nil {
		metrics.Denied.WithLabelValues("delete").Inc()
		return err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			return apperror.NotFound("Note not found")
		}
		return apperror.Store("Failed to delete note", err)
	}
	s.publish(ctx, notify.ActionDeleted, id, existing.Secret)
	return nil
}

func (s *NoteService) load(ctx context.Context, id int64) (*model.Note, error) {
	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			return nil, apperror.NotFound("Note not found")
		}
		return nil, apperror.Store("Failed to fetch note", err)
	}
	return n, nil
}

func (s *NoteService) publish(ctx context.Context, action notify.Action, id int64, secret bool) {
	metrics.Mutations.WithLabelValues(string(notify.EntityNote), string(action)).Inc()
	s.Notifier.Publish(ctx, notify.Change{
		Entity: notify.EntityNote,
		Action: action,
		ID:     id,
		Secret: secret,
		At:     time.Now().UTC(),
	})
}

func validate(title, content string, typ model.Type, priority model.Priority, completed bool, dueDate *string, secret bool) (model.NoteInput, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.NoteInput{}, apperror.Validation("Missing required field: title")
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return model.NoteInput{}, apperror.Validation(fmt.Sprintf("title must be at most %d characters", model.MaxTitleLength))
	}
	t, err := model.ParseType(string(typ))
	if err != nil {
		return model.NoteInput{}, apperror.Validation(err.Error())
	}
	p, err := model.ParsePriority(string(priority))
	if err != nil {
		return model.NoteInput{}, apperror.Validation(err.Error())
	}
	due, err := timestamp.ParseOptional(dueDate, time.UTC)
	if err != nil {
		return model.NoteInput{}, apperror.Validation("Invalid due_date: " + err.Error())
	}
	return model.NoteInput{
		Title:     title,
		Content:   content,
		Type:      t,
		Priority:  p,
		Completed: completed,
		DueDate:   due,
		Secret:    secret,
	}, nil
}
