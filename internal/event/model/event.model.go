package model

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

// MaxTitleLength matches the VARCHAR(255) title column.
const MaxTitleLength = 255

type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	AllDay      bool       `json:"all_day"`
	CreatedAt   time.Time  `json:"created_at"`
}

// EventRequest is the body of both create and full-row update.
type EventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	AllDay      bool    `json:"all_day"`
}

type EventInput struct {
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     *time.Time
	AllDay      bool
}
