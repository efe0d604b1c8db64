// Package timestamp parses the date formats dashboard clients submit.
package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted by Parse, in order. The second is what an HTML
// datetime-local input produces.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse reads s in any accepted layout. Layouts without a zone are read in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ParseOptional treats nil and blank strings as "no value".
func ParseOptional(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := Parse(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
