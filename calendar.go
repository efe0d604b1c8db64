package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dashboard/internal/calendar"
	notemodel "dashboard/internal/note/model"

	"github.com/spf13/cobra"
)

var calendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month of scheduled notes and events in the local time zone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		ref, err := calendar.ParseMonth(calendarMonth, time.Local, now)
		if err != nil {
			return err
		}

		c := newClient()
		notes, err := c.ListNotes(cmd.Context(), notemodel.FilterEvent)
		if err != nil {
			return err
		}
		events, err := c.ListEvents(cmd.Context())
		if err != nil {
			return err
		}

		entries := append(calendar.FromNotes(notes), calendar.FromEvents(events)...)
		printMonth(cmd.OutOrStdout(), calendar.BuildMonth(ref, time.Local, entries, now))
		return nil
	},
}

func printMonth(w io.Writer, m calendar.Month) {
	fmt.Fprintf(w, "%s\n", m.Label)
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")

	var listed []calendar.Day
	for _, week := range m.Weeks {
		var row strings.Builder
		for _, d := range week.Days {
			switch {
			case !d.InMonth:
				row.WriteString("    ")
			case len(d.Entries) > 0:
				fmt.Fprintf(&row, "%3d*", d.Day)
			case d.Today:
				fmt.Fprintf(&row, "[%2d]", d.Day)
			default:
				fmt.Fprintf(&row, "%3d ", d.Day)
			}
			if len(d.Entries) > 0 {
				listed = append(listed, d)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}

	for _, d := range listed {
		fmt.Fprintf(w, "\n%s\n", d.Date)
		for _, e := range d.Entries {
			when := "all day"
			if !e.AllDay {
				when = e.At.Local().Format("15:04")
			}
			fmt.Fprintf(w, "  %-7s %s [%s %d]\n", when, e.Title, e.Source, e.ID)
		}
	}
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show as YYYY-MM (default current month)")
}
