package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dashboard/internal/event/model"
	"dashboard/pkg/logger"
	"dashboard/pkg/tracing"

	"github.com/Masterminds/squirrel"
)

const eventColumns = "id, title, description, start_time, end_time, all_day, created_at"

type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	var description sql.NullString
	var endTime sql.NullTime
	if err := row.Scan(&e.ID, &e.Title, &description, &e.StartTime, &endTime, &e.AllDay, &e.CreatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		e.Description = &description.String
	}
	if endTime.Valid {
		t := endTime.Time
		e.EndTime = &t
	}
	return &e, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// List returns events ordered by start time. A zero from or to leaves that
// side of the range open; the range is half-open [from, to).
func (r *EventRepository) List(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	ctx, span := tracing.StartSpan(ctx, "event.repository.List")
	defer span.End()

	query := squirrel.Select(eventColumns).From("events")
	if !from.IsZero() {
		query = query.Where(squirrel.GtOrEq{"start_time": from})
	}
	if !to.IsZero() {
		query = query.Where(squirrel.Lt{"start_time": to})
	}
	sqlStr, args, err := query.OrderBy("start_time ASC").PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to list events: %v", err)
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	ctx, span := tracing.StartSpan(ctx, "event.repository.Create")
	defer span.End()

	e, err := scanEvent(r.DB.QueryRowContext(ctx, `
		INSERT INTO events (title, description, start_time, end_time, all_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+eventColumns,
		in.Title, nullString(in.Description), in.StartTime, nullTime(in.EndTime), in.AllDay,
	))
	if err != nil {
		logger.Sugar.Errorf("Failed to create event: %v", err)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Update(ctx context.Context, id int64, in model.EventInput) (*model.Event, error) {
	ctx, span := tracing.StartSpan(ctx, "event.repository.Update")
	defer span.End()

	e, err := scanEvent(r.DB.QueryRowContext(ctx, `
		UPDATE events
		SET title = $1, description = $2, start_time = $3, end_time = $4, all_day = $5
		WHERE id = $6
		RETURNING `+eventColumns,
		in.Title, nullString(in.Description), in.StartTime, nullTime(in.EndTime), in.AllDay, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrEventNotFound
		}
		logger.Sugar.Errorf("Failed to update event %d: %v", id, err)
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	return e, nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "event.repository.Delete")
	defer span.End()

	result, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete event %d: %v", id, err)
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if affected == 0 {
		return model.ErrEventNotFound
	}
	return nil
}
