package calendar

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

type Month struct {
	Label string `json:"label"`
	Month string `json:"month"`
	Prev  string `json:"prev"`
	Next  string `json:"next"`
	Weeks []Week `json:"weeks"`
}

type Week struct {
	Days []Day `json:"days"`
}

type Day struct {
	Date    string  `json:"date"`
	Day     int     `json:"day"`
	InMonth bool    `json:"in_month"`
	Today   bool    `json:"today"`
	Entries []Entry `json:"entries"`
}

// MonthStart returns midnight on the first of ref's month in loc.
func MonthStart(ref time.Time, loc *time.Location) time.Time {
	ref = ref.In(loc)
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
}

// NextMonth and PrevMonth step from the first of the month, so Jan 31 moves
// to Feb 1 rather than overflowing into March.
func NextMonth(ref time.Time, loc *time.Location) time.Time {
	return MonthStart(ref, loc).AddDate(0, 1, 0)
}

func PrevMonth(ref time.Time, loc *time.Location) time.Time {
	return MonthStart(ref, loc).AddDate(0, -1, 0)
}

// ParseMonth reads "YYYY-MM" in loc. An empty string means the month of now.
func ParseMonth(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return MonthStart(now, loc), nil
	}
	t, err := time.ParseInLocation(monthLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t, nil
}

// BuildMonth lays out ref's month as Sunday-first weeks. Leading and trailing
// days from the neighbouring months fill the first and last week but never
// carry entries.
func BuildMonth(ref time.Time, loc *time.Location, entries []Entry, now time.Time) Month {
	monthStart := MonthStart(ref, loc)
	monthEnd := monthStart.AddDate(0, 1, -1)
	today := now.In(loc).Format(dateLayout)
	byDate := EntriesByDate(entries, loc)

	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))

	var weeks []Week
	var days []Day
	for day := gridStart; ; day = day.AddDate(0, 0, 1) {
		dateKey := day.Format(dateLayout)
		inMonth := day.Month() == monthStart.Month()
		dayEntries := []Entry{}
		if inMonth {
			dayEntries = append(dayEntries, byDate[dateKey]...)
		}
		days = append(days, Day{
			Date:    dateKey,
			Day:     day.Day(),
			InMonth: inMonth,
			Today:   dateKey == today,
			Entries: dayEntries,
		})

		if len(days) == 7 {
			weeks = append(weeks, Week{Days: days})
			days = nil
			if !day.Before(monthEnd) && day.Weekday() == time.Saturday {
				break
			}
		}
	}

	return Month{
		Label: monthStart.Format("January 2006"),
		Month: monthStart.Format(monthLayout),
		Prev:  PrevMonth(monthStart, loc).Format(monthLayout),
		Next:  NextMonth(monthStart, loc).Format(monthLayout),
		Weeks: weeks,
	}
}
