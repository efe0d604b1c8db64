// Package calendar projects schedulable items onto month grids and day agendas.
package calendar

import (
	"sort"
	"time"

	eventmodel "dashboard/internal/event/model"
	notemodel "dashboard/internal/note/model"
)

type Source string

const (
	SourceNote  Source = "note"
	SourceEvent Source = "event"
)

// Entry is anything that can be placed on the calendar.
type Entry struct {
	Source Source     `json:"source"`
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	At     time.Time  `json:"at"`
	End    *time.Time `json:"end,omitempty"`
	AllDay bool       `json:"all_day"`
}

// FromNotes keeps event-type notes that have a due date.
func FromNotes(notes []notemodel.Note) []Entry {
	entries := []Entry{}
	for _, n := range notes {
		if n.Type != notemodel.TypeEvent || n.DueDate == nil {
			continue
		}
		entries = append(entries, Entry{Source: SourceNote, ID: n.ID, Title: n.Title, At: *n.DueDate})
	}
	return entries
}

func FromEvents(events []eventmodel.Event) []Entry {
	entries := make([]Entry, 0, len(events))
	for _, e := range events {
		entries = append(entries, Entry{
			Source: SourceEvent,
			ID:     e.ID,
			Title:  e.Title,
			At:     e.StartTime,
			End:    e.EndTime,
			AllDay: e.AllDay,
		})
	}
	return entries
}

const dateLayout = "2006-01-02"

// EntriesByDate groups entries by their calendar date in loc, ignoring the
// time of day. Each group is sorted by time, all-day entries first.
func EntriesByDate(entries []Entry, loc *time.Location) map[string][]Entry {
	byDate := map[string][]Entry{}
	for _, e := range entries {
		key := e.At.In(loc).Format(dateLayout)
		byDate[key] = append(byDate[key], e)
	}
	for _, group := range byDate {
		sortEntries(group)
	}
	return byDate
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AllDay != entries[j].AllDay {
			return entries[i].AllDay
		}
		return entries[i].At.Before(entries[j].At)
	})
}
