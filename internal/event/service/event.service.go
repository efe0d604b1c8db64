package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"dashboard/internal/event/model"
	"dashboard/internal/notify"
	"dashboard/pkg/apperror"
	"dashboard/pkg/metrics"
	"dashboard/pkg/timestamp"
)

type Repository interface {
	List(ctx context.Context, from, to time.Time) ([]model.Event, error)
	Create(ctx context.Context, in model.EventInput) (*model.Event, error)
	Update(ctx context.Context, id int64, in model.EventInput) (*model.Event, error)
	Delete(ctx context.Context, id int64) error
}

type EventService struct {
	Repo     Repository
	Notifier notify.Publisher
}

func NewEventService(repo Repository, notifier notify.Publisher) *EventService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &EventService{Repo: repo, Notifier: notifier}
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.Between(ctx, time.Time{}, time.Time{})
}

// Between lists events starting in [from, to); zero bounds are open.
func (s *EventService) Between(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	events, err := s.Repo.List(ctx, from, to)
	if err != nil {
		return nil, apperror.Store("Failed to fetch events", err)
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	in, err := validate(req)
	if err != nil {
		return nil, err
	}
	e, err := s.Repo.Create(ctx, in)
	if err != nil {
		return nil, apperror.Store("Failed to create event", err)
	}
	s.publish(ctx, notify.ActionCreated, e.ID)
	return e, nil
}

func (s *EventService) Update(ctx context.Context, id int64, req model.EventRequest) (*model.Event, error) {
	in, err := validate(req)
	if err != nil {
		return nil, err
	}
	e, err := s.Repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return nil, apperror.NotFound("Event not found")
		}
		return nil, apperror.Store("Failed to update event", err)
	}
	s.publish(ctx, notify.ActionUpdated, e.ID)
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return apperror.NotFound("Event not found")
		}
		return apperror.Store("Failed to delete event", err)
	}
	s.publish(ctx, notify.ActionDeleted, id)
	return nil
}

func (s *EventService) publish(ctx context.Context, action notify.Action, id int64) {
	metrics.Mutations.WithLabelValues(string(notify.EntityEvent), string(action)).Inc()
	s.Notifier.Publish(ctx, notify.Change{
		Entity: notify.EntityEvent,
		Action: action,
		ID:     id,
		At:     time.Now().UTC(),
	})
}

func validate(req model.EventRequest) (model.EventInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.EventInput{}, apperror.Validation("Missing required field: title")
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return model.EventInput{}, apperror.Validation(fmt.Sprintf("title must be at most %d characters", model.MaxTitleLength))
	}
	start, err := timestamp.ParseOptional(req.StartTime, time.UTC)
	if err != nil {
		return model.EventInput{}, apperror.Validation("Invalid start_time: " + err.Error())
	}
	if start == nil {
		return model.EventInput{}, apperror.Validation("Missing required field: start_time")
	}
	end, err := timestamp.ParseOptional(req.EndTime, time.UTC)
	if err != nil {
		return model.EventInput{}, apperror.Validation("Invalid end_time: " + err.Error())
	}
	if end != nil && end.Before(*start) {
		return model.EventInput{}, apperror.Validation("end_time must not be before start_time")
	}
	var description *string
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		description = req.Description
	}
	return model.EventInput{
		Title:       title,
		Description: description,
		StartTime:   *start,
		EndTime:     end,
		AllDay:      req.AllDay,
	}, nil
}
