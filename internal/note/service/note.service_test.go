package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"dashboard/internal/note/model"
	"dashboard/internal/notify"
	"dashboard/internal/visibility"
	"dashboard/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory Repository that mirrors the SQL semantics.
type memoryRepo struct {
	rows   map[int64]model.Note
	nextID int64
	clock  time.Time
	err    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]model.Note{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryRepo) List(_ context.Context, includeSecret bool, filter model.Filter) ([]model.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Note{}
	for _, n := range m.rows {
		if (!n.Secret || includeSecret) && filter.Match(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*model.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.rows[id]
	if !ok {
		return nil, model.ErrNoteNotFound
	}
	return &n, nil
}

func (m *memoryRepo) Create(_ context.Context, in model.NoteInput) (*model.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	n := model.Note{
		ID: m.nextID, Title: in.Title, Content: in.Content, Type: in.Type, Priority: in.Priority,
		Completed: in.Completed, DueDate: in.DueDate, Secret: in.Secret, CreatedAt: m.clock, UpdatedAt: m.clock,
	}
	m.rows[n.ID] = n
	return &n, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, in model.NoteInput) (*model.Note, error) {
	n, ok := m.rows[id]
	if !ok {
		return nil, model.ErrNoteNotFound
	}
	n.Title, n.Content, n.Type, n.Priority = in.Title, in.Content, in.Type, in.Priority
	n.Completed, n.DueDate, n.Secret = in.Completed, in.DueDate, in.Secret
	m.rows[id] = n
	return &n, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return model.ErrNoteNotFound
	}
	delete(m.rows, id)
	return nil
}

type changeLog struct{ changes []notify.Change }

func (c *changeLog) Publish(_ context.Context, ch notify.Change) { c.changes = append(c.changes, ch) }

var (
	anon   = visibility.Anonymous
	member = visibility.Viewer{Authenticated: true, Subject: "u1"}
	ctx    = context.Background()
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, svc *NoteService, title string, secret bool) *model.Note {
	t.Helper()
	n, err := svc.Create(ctx, member, model.CreateNoteRequest{Title: title, Secret: secret})
	require.NoError(t, err)
	return n
}

func TestListHidesSecretFromAnonymous(t *testing.T) {
	svc := NewNoteService(newMemoryRepo(), nil)
	seed(t, svc, "public-1", false)
	seed(t, svc, "secret-1", true)
	seed(t, svc, "public-2", false)

	anonNotes, err := svc.List(ctx, anon, model.FilterAll)
	require.NoError(t, err)
	titles := []string{}
	for _, n := range anonNotes {
		assert.False(t, n.Secret)
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"public-2", "public-1"}, titles)

	memberNotes, err := svc.List(ctx, member, model.FilterAll)
	require.NoError(t, err)
	assert.Len(t, memberNotes, 3)
	assert.Equal(t, "public-2", memberNotes[0].Title)
}

func TestGetSecret(t *testing.T) {
	svc := NewNoteService(newMemoryRepo(), nil)
	secret := seed(t, svc, "diary", true)

	_, err := svc.Get(ctx, anon, secret.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	got, err := svc.Get(ctx, member, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, "diary", got.Title)

	_, err = svc.Get(ctx, anon, 404)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAnonymousSecretCreateIsNotPersisted(t *testing.T) {
	repo := newMemoryRepo()
	log := &changeLog{}
	svc := NewNoteService(repo, log)

	_, err := svc.Create(ctx, anon, model.CreateNoteRequest{Title: "hidden", Secret: true})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Empty(t, repo.rows)
	assert.Empty(t, log.changes)
}

func TestCreateValidation(t *testing.T) {
	svc := NewNoteService(newMemoryRepo(), nil)

	cases := map[string]model.CreateNoteRequest{
		"blank title": {Title: "   "},
		"bad type":    {Title: "x", Type: "task"},
		"bad prio":    {Title: "x", Priority: "urgent"},
		"bad date":    {Title: "x", DueDate: strPtr("next week")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, member, req)
			assert.True(t, apperror.Is(err, apperror.KindValidation), err)
		})
	}
}

func TestTitleLengthLimit(t *testing.T) {
	repo := newMemoryRepo()
	log := &changeLog{}
	svc := NewNoteService(repo, log)

	_, err := svc.Create(ctx, member, model.CreateNoteRequest{Title: strings.Repeat("a", 300)})
	assert.True(t, apperror.Is(err, apperror.KindValidation), err)
	assert.Empty(t, repo.rows)
	assert.Empty(t, log.changes)

	// The limit counts characters, not bytes.
	n, err := svc.Create(ctx, member, model.CreateNoteRequest{Title: strings.Repeat("é", model.MaxTitleLength)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, member, n.ID, model.UpdateNoteRequest{Title: strings.Repeat("b", model.MaxTitleLength+1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation), err)
	assert.Equal(t, strings.Repeat("é", model.MaxTitleLength), repo.rows[n.ID].Title)
}

func TestCreateDefaultsAndRoundTrip(t *testing.T) {
	svc := NewNoteService(newMemoryRepo(), nil)

	created, err := svc.Create(ctx, anon, model.CreateNoteRequest{
		Title: "T", Content: "C", Type: model.TypeGoal, Priority: model.PriorityHigh,
		DueDate: strPtr("2025-01-15T10:00:00Z"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, anon, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, model.TypeGoal, got.Type)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.False(t, got.Secret)
	require.NotNil(t, got.DueDate)
	assert.True(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC).Equal(*got.DueDate))

	plain, err := svc.Create(ctx, anon, model.CreateNoteRequest{Title: "defaults"})
	require.NoError(t, err)
	assert.Equal(t, model.TypeNote, plain.Type)
	assert.Equal(t, model.PriorityMedium, plain.Priority)
	assert.Nil(t, plain.DueDate)
}

func TestUpdateSecretRules(t *testing.T) {
	svc := NewNoteService(newMemoryRepo(), nil)
	secret := seed(t, svc, "secret", true)
	public := seed(t, svc, "public", false)

	for _, requested := range []bool{true, false} {
		_, err := svc.Update(ctx, anon, secret.ID, model.UpdateNoteRequest{Title: "leak", Secret: requested})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	}
	stored, err := svc.Get(ctx, member, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", stored.Title)
	assert.True(t, stored.Secret)

	_, err = svc.Update(ctx, anon, public.ID, model.UpdateNoteRequest{Title: "hide", Secret: true})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	updated, err := svc.Update(ctx, anon, public.ID, model.UpdateNoteRequest{Title: "edited", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
	assert.True(t, updated.Completed)

	revealed, err := svc.Update(ctx, member, secret.ID, model.UpdateNoteRequest{Title: "secret", Secret: false})
	require.NoError(t, err)
	assert.False(t, revealed.Secret)

	_, err = svc.Update(ctx, member, 999, model.UpdateNoteRequest{Title: "x"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteRules(t *testing.T) {
	log := &changeLog{}
	svc := NewNoteService(newMemoryRepo(), log)
	secret := seed(t, svc, "secret", true)
	public := seed(t, svc, "public", false)
	log.changes = nil

	err := svc.Delete(ctx, anon, secret.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	require.NoError(t, svc.Delete(ctx, anon, public.ID))
	err = svc.Delete(ctx, anon, public.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, svc.Delete(ctx, member, secret.ID))

	require.Len(t, log.changes, 2)
	assert.Equal(t, notify.ActionDeleted, log.changes[0].Action)
	assert.Equal(t, public.ID, log.changes[0].ID)
	assert.True(t, log.changes[1].Secret)
}

func TestStoreFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.err = errors.New("connection refused")
	svc := NewNoteService(repo, nil)

	_, err := svc.List(ctx, anon, model.FilterAll)
	assert.True(t, apperror.Is(err, apperror.KindStore))
	assert.Contains(t, err.Error(), "connection refused")

	err = svc.Delete(ctx, member, 1)
	assert.True(t, apperror.Is(err, apperror.KindStore))
}

func TestSnippetFromContent(t *testing.T) {
	assert.Equal(t, "", snippetFromContent("  "))
	assert.Equal(t, "Groceries Buy milk and eggs", snippetFromContent("# Groceries\n\nBuy **milk** and\n_eggs_"))
	assert.Equal(t, "run the tests", snippetFromContent("run `the` tests\n\n```\ncode block\n```"))

	long := ""
	for i := 0; i < 30; i++ {
		long += "word "
	}
	s := snippetFromContent(long)
	assert.Equal(t, 103, len([]rune(s)))
	assert.Contains(t, s, "...")
}
