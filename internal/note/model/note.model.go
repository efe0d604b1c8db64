package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNoteNotFound = errors.New("note not found")

type Type string

const (
	TypeNote  Type = "note"
	TypeGoal  Type = "goal"
	TypeEvent Type = "event"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// MaxTitleLength matches the VARCHAR(255) title column.
const MaxTitleLength = 255

type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Snippet   string     `json:"snippet"`
	Type      Type       `json:"type"`
	Priority  Priority   `json:"priority"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"due_date"`
	Secret    bool       `json:"secret"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Type     Type     `json:"type"`
	Priority Priority `json:"priority"`
	DueDate  *string  `json:"due_date"`
	Secret   bool     `json:"secret"`
}

// UpdateNoteRequest carries the complete set of editable fields. Fields the
// client leaves out are written as their zero value.
type UpdateNoteRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Type      Type     `json:"type"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
	DueDate   *string  `json:"due_date"`
	Secret    bool     `json:"secret"`
}

// NoteInput is a validated row ready to be written.
type NoteInput struct {
	Title     string
	Content   string
	Type      Type
	Priority  Priority
	Completed bool
	DueDate   *time.Time
	Secret    bool
}

// ParseType defaults an empty value to TypeNote.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TypeNote, nil
	case TypeNote, TypeGoal, TypeEvent:
		return t, nil
	default:
		return "", fmt.Errorf("invalid type %q: must be note, goal or event", s)
	}
}

// ParsePriority defaults an empty value to PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q: must be low, medium or high", s)
	}
}
