package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dashboard/internal/note/model"
	"dashboard/pkg/logger"
	"dashboard/pkg/tracing"

	"github.com/Masterminds/squirrel"
)

const noteColumns = `id, title, COALESCE(content, '') AS content, type, priority, completed, due_date, secret, created_at, updated_at`

type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*model.Note, error) {
	var n model.Note
	var dueDate sql.NullTime
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &n.Priority, &n.Completed, &dueDate, &n.Secret, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		n.DueDate = &t
	}
	return &n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// List returns notes newest first. Secret rows are excluded in the query
// itself unless includeSecret is set.
func (r *NoteRepository) List(ctx context.Context, includeSecret bool, filter model.Filter) ([]model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "note.repository.List")
	defer span.End()

	query := squirrel.Select(noteColumns).From("notes")
	if !includeSecret {
		query = query.Where(squirrel.Eq{"secret": false})
	}
	switch filter {
	case model.FilterAll, "":
	case model.FilterCompleted:
		query = query.Where(squirrel.Eq{"completed": true})
	case model.FilterActive:
		query = query.Where(squirrel.Eq{"completed": false})
	default:
		query = query.Where(squirrel.Eq{"type": string(filter)})
	}

	sqlStr, args, err := query.OrderBy("created_at DESC").PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes: %v", err)
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Get(ctx context.Context, id int64) (*model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "note.repository.Get")
	defer span.End()

	n, err := scanNote(r.DB.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoteNotFound
		}
		logger.Sugar.Errorf("Failed to get note %d: %v", id, err)
		return nil, fmt.Errorf("failed to get note %d: %w", id, err)
	}
	return n, nil
}

func (r *NoteRepository) Create(ctx context.Context, in model.NoteInput) (*model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "note.repository.Create")
	defer span.End()

	n, err := scanNote(r.DB.QueryRowContext(ctx, `
		INSERT INTO notes (title, content, type, priority, completed, due_date, secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+noteColumns,
		in.Title, in.Content, in.Type, in.Priority, in.Completed, nullTime(in.DueDate), in.Secret,
	))
	if err != nil {
		logger.Sugar.Errorf("Failed to create note: %v", err)
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return n, nil
}

// Update replaces every editable column. The last write wins.
func (r *NoteRepository) Update(ctx context.Context, id int64, in model.NoteInput) (*model.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "note.repository.Update")
	defer span.End()

	n, err := scanNote(r.DB.QueryRowContext(ctx, `
		UPDATE notes
		SET title = $1, content = $2, type = $3, priority = $4, completed = $5,
			due_date = $6, secret = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+noteColumns,
		in.Title, in.Content, in.Type, in.Priority, in.Completed, nullTime(in.DueDate), in.Secret, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoteNotFound
		}
		logger.Sugar.Errorf("Failed to update note %d: %v", id, err)
		return nil, fmt.Errorf("failed to update note %d: %w", id, err)
	}
	return n, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "note.repository.Delete")
	defer span.End()

	result, err := r.DB.ExecContext(ctx, "DELETE FROM notes WHERE id = $1", id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete note %d: %v", id, err)
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	if affected == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}
