package obstacle

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	// EventCreated is published after a new obstacle has been written
	EventCreated EventKind = "created"

	// EventUpdated is published after an existing obstacle's fields were replaced
	EventUpdated EventKind = "updated"

	// EventDeleted is published after an obstacle was removed
	EventDeleted EventKind = "deleted"
)

// Event describes one successful mutation of the obstacle list.
type Event struct {
	ID       string    `json:"id"`       // UUID of the event itself
	Kind     EventKind `json:"kind"`     // created, updated or deleted
	Obstacle Obstacle  `json:"obstacle"` // Obstacle after the mutation (before it, for deletes)
	AtMs     int64     `json:"at_ms"`    // Unix timestamp in milliseconds
}

// Publisher receives change events after the store has written them.
// Publish failures never fail the mutation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

func newEvent(kind EventKind, o Obstacle, at time.Time) Event {
	return Event{
		ID:       uuid.New().String(),
		Kind:     kind,
		Obstacle: o,
		AtMs:     at.UnixMilli(),
	}
}
