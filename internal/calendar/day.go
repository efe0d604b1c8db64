package calendar

import (
	"fmt"
	"time"
)

// The agenda covers 06:00 to 22:00. Timed entries outside the window are
// shown in the first or last bucket.
const (
	AgendaStartHour = 6
	AgendaEndHour   = 22
)

type Agenda struct {
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	AllDay []Entry `json:"all_day"`
	Hours  []Hour  `json:"hours"`
}

type Hour struct {
	Hour    int     `json:"hour"`
	Label   string  `json:"label"`
	Entries []Entry `json:"entries"`
}

// DayStart returns local midnight of date in loc.
func DayStart(date time.Time, loc *time.Location) time.Time {
	date = date.In(loc)
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// ParseDate reads "YYYY-MM-DD" in loc. An empty string means today.
func ParseDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return DayStart(now, loc), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func BuildDay(date time.Time, loc *time.Location, entries []Entry) Agenda {
	start := DayStart(date, loc)
	key := start.Format(dateLayout)

	agenda := Agenda{
		Date:   key,
		Label:  start.Format("Monday, January 2, 2006"),
		AllDay: []Entry{},
	}
	for h := AgendaStartHour; h < AgendaEndHour; h++ {
		agenda.Hours = append(agenda.Hours, Hour{
			Hour:    h,
			Label:   fmt.Sprintf("%02d:00", h),
			Entries: []Entry{},
		})
	}

	for _, e := range EntriesByDate(entries, loc)[key] {
		if e.AllDay {
			agenda.AllDay = append(agenda.AllDay, e)
			continue
		}
		h := min(max(e.At.In(loc).Hour(), AgendaStartHour), AgendaEndHour-1)
		bucket := &agenda.Hours[h-AgendaStartHour]
		bucket.Entries = append(bucket.Entries, e)
	}
	return agenda
}
