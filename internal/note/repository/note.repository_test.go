package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"dashboard/internal/note/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "title", "content", "type", "priority", "completed", "due_date", "secret", "created_at", "updated_at"}

func newMock(t *testing.T) (*NoteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNoteRepository(db), mock
}

func TestListExcludesSecretForAnonymous(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notes WHERE secret = $1 ORDER BY created_at DESC")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "Public", "body", "note", "low", false, nil, false, created, created))

	notes, err := repo.List(context.Background(), false, model.FilterAll)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Public", notes[0].Title)
	assert.Nil(t, notes[0].DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithSecretAndFilter(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, title, COALESCE\(content, ''\) AS content, .* FROM notes WHERE type = \$1 ORDER BY created_at DESC`).
		WithArgs("goal").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(3, "Run", "", "goal", "high", true, due, true, created, created))

	notes, err := repo.List(context.Background(), true, model.FilterGoal)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Secret)
	require.NotNil(t, notes[0].DueDate)
	assert.True(t, due.Equal(*notes[0].DueDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCompletedForAnonymous(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE secret = $1 AND completed = $2")).
		WithArgs(false, true).
		WillReturnRows(sqlmock.NewRows(columns))

	notes, err := repo.List(context.Background(), false, model.FilterCompleted)
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notes WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrNoteNotFound)
}

func TestCreateReturnsRow(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	due := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notes (title, content, type, priority, completed, due_date, secret)")).
		WithArgs("T", "C", "goal", "high", false, sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "T", "C", "goal", "high", false, due, false, now, now))

	n, err := repo.Create(context.Background(), model.NoteInput{
		Title: "T", Content: "C", Type: model.TypeGoal, Priority: model.PriorityHigh, DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
	assert.Equal(t, model.TypeGoal, n.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE notes")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Update(context.Background(), 5, model.NoteInput{Title: "x", Type: model.TypeNote, Priority: model.PriorityLow})
	assert.ErrorIs(t, err, model.ErrNoteNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), model.ErrNoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorIsWrapped(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, err := repo.List(context.Background(), true, model.FilterAll)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrNoteNotFound)
}
