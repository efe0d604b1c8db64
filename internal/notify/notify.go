// Package notify carries record change notifications from the services to
// live subscribers and the optional Kafka change stream.
package notify

import (
	"context"
	"time"
)

type Entity string

const (
	EntityNote  Entity = "note"
	EntityEvent Entity = "event"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change says that a record was written. It never carries record fields, so
// receivers re-fetch through the regular, visibility-checked endpoints.
type Change struct {
	Entity Entity    `json:"entity"`
	Action Action    `json:"action"`
	ID     int64     `json:"id"`
	Secret bool      `json:"secret"`
	At     time.Time `json:"at"`
}

// Publisher delivers changes. Implementations must not block the caller for
// long and report their own failures; a failed publish never fails a write.
type Publisher interface {
	Publish(ctx context.Context, c Change)
}

type Nop struct{}

func (Nop) Publish(context.Context, Change) {}

// Fanout publishes every change to each publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, c Change) {
	for _, p := range f {
		p.Publish(ctx, c)
	}
}
