package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayouts(t *testing.T) {
	want := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	for _, in := range []string{"2025-01-15T10:00:00Z", "2025-01-15T10:00", "2025-01-15T10:00:00", " 2025-01-15T11:00:00+01:00 "} {
		got, err := Parse(in, time.UTC)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	day, err := Parse("2025-01-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), day)

	_, err = Parse("15/01/2025", time.UTC)
	assert.Error(t, err)
}

func TestParseOptional(t *testing.T) {
	got, err := ParseOptional(nil, time.UTC)
	assert.NoError(t, err)
	assert.Nil(t, got)

	blank := "  "
	got, err = ParseOptional(&blank, time.UTC)
	assert.NoError(t, err)
	assert.Nil(t, got)

	bad := "tomorrow"
	_, err = ParseOptional(&bad, time.UTC)
	assert.Error(t, err)
}
