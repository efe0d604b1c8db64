package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	notemodel "dashboard/internal/note/model"
	"dashboard/pkg/client"

	"github.com/spf13/cobra"
)

var (
	listFilter string
	listJSON   bool

	addTitle    string
	addContent  string
	addType     string
	addPriority string
	addDue      string
	addSecret   bool
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List and edit notes on a running server",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := notemodel.ParseFilter(listFilter)
		if err != nil {
			return err
		}
		view := client.NewView(newClient())
		if err := view.Refresh(cmd.Context()); err != nil {
			return err
		}
		notes := view.Visible(filter)

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tPRIORITY\tDONE\tDUE\tTITLE")
		for _, n := range notes {
			due := "-"
			if n.DueDate != nil {
				due = n.DueDate.Local().Format("2006-01-02 15:04")
			}
			title := n.Title
			if n.Secret {
				title += " (secret)"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, n.Priority, check(n.Completed), due, title)
		}
		return tw.Flush()
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := notemodel.CreateNoteRequest{
			Title:    addTitle,
			Content:  addContent,
			Type:     notemodel.Type(addType),
			Priority: notemodel.Priority(addPriority),
			Secret:   addSecret,
		}
		if addDue != "" {
			req.DueDate = &addDue
		}
		note, err := newClient().CreateNote(cmd.Context(), req)
		if err != nil {
			return err
		}
		printf(cmd, "Note created: %d\n", note.ID)
		return nil
	},
}

var notesDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Toggle the completed flag of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		view := client.NewView(newClient())
		if err := view.Refresh(cmd.Context()); err != nil {
			return err
		}
		note, err := view.ToggleComplete(cmd.Context(), id)
		if err != nil {
			return err
		}
		printf(cmd, "Note %d completed: %t\n", note.ID, note.Completed)
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := newClient().DeleteNote(cmd.Context(), id); err != nil {
			return err
		}
		printf(cmd, "Note deleted: %d\n", id)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func check(b bool) string {
	if b {
		return "x"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesDoneCmd, notesRmCmd)

	notesListCmd.Flags().StringVar(&listFilter, "filter", "all", "all, note, goal, event, completed or active")
	notesListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")

	notesAddCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	notesAddCmd.Flags().StringVar(&addContent, "content", "", "Markdown content")
	notesAddCmd.Flags().StringVar(&addType, "type", "note", "note, goal or event")
	notesAddCmd.Flags().StringVar(&addPriority, "priority", "medium", "low, medium or high")
	notesAddCmd.Flags().StringVar(&addDue, "due", "", "Due date (RFC 3339, YYYY-MM-DDTHH:MM or YYYY-MM-DD)")
	notesAddCmd.Flags().BoolVar(&addSecret, "secret", false, "Hide the note from anonymous viewers")
	_ = notesAddCmd.MarkFlagRequired("title")
}
