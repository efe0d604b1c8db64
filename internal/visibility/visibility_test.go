package visibility

import (
	"context"
	"testing"

	"dashboard/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

var member = Viewer{Authenticated: true, Subject: "user-1"}

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	assert.Equal(t, Anonymous, FromContext(context.Background()))

	ctx := WithViewer(context.Background(), member)
	assert.Equal(t, member, FromContext(ctx))
	assert.True(t, IncludeSecret(FromContext(ctx)))
	assert.False(t, IncludeSecret(Anonymous))
}

func TestCanView(t *testing.T) {
	assert.NoError(t, CanView(Anonymous, false))
	assert.NoError(t, CanView(member, true))
	assert.True(t, apperror.Is(CanView(Anonymous, true), apperror.KindForbidden))
}

func TestCanCreate(t *testing.T) {
	assert.NoError(t, CanCreate(Anonymous, false))
	assert.NoError(t, CanCreate(member, true))
	assert.True(t, apperror.Is(CanCreate(Anonymous, true), apperror.KindForbidden))
}

func TestCanUpdateChecksStoredAndRequested(t *testing.T) {
	tests := []struct {
		name      string
		viewer    Viewer
		stored    bool
		requested bool
		denied    bool
	}{
		{"anonymous plain edit", Anonymous, false, false, false},
		{"anonymous reveals secret", Anonymous, true, false, true},
		{"anonymous keeps secret", Anonymous, true, true, true},
		{"anonymous hides public", Anonymous, false, true, true},
		{"member reveals secret", member, true, false, false},
		{"member hides public", member, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanUpdate(tt.viewer, tt.stored, tt.requested)
			if tt.denied {
				assert.True(t, apperror.Is(err, apperror.KindForbidden))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	assert.NoError(t, CanDelete(Anonymous, false))
	assert.NoError(t, CanDelete(member, true))
	assert.True(t, apperror.Is(CanDelete(Anonymous, true), apperror.KindForbidden))
}

func TestFilter(t *testing.T) {
	type row struct {
		id     int
		secret bool
	}
	rows := []row{{1, false}, {2, true}, {3, false}}
	isSecret := func(r row) bool { return r.secret }

	assert.Equal(t, []row{{1, false}, {3, false}}, Filter(Anonymous, rows, isSecret))
	assert.Equal(t, rows, Filter(member, rows, isSecret))
	assert.Empty(t, Filter(Anonymous, []row{{4, true}}, isSecret))
}
