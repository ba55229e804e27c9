package report

import (
	"context"
	"fmt"
	"io"

	"github.com/dyluth/roadlog/pkg/obstacle"
)

// Getter is the single-record read side of the obstacle store.
type Getter interface {
	Get(ctx context.Context, id string) (*obstacle.Obstacle, bool)
}

// ShowObstacle writes one obstacle as pretty-printed JSON.
// Returns an ObstacleNotFoundError if no obstacle has the ID.
func ShowObstacle(ctx context.Context, store Getter, id string, w io.Writer) error {
	o, ok := store.Get(ctx, id)
	if !ok {
		return &ObstacleNotFoundError{ObstacleID: id}
	}

	if err := FormatSingleJSON(w, o); err != nil {
		return fmt.Errorf("failed to format obstacle: %w", err)
	}
	return nil
}

// ObstacleNotFoundError represents a specific "obstacle not found" error.
type ObstacleNotFoundError struct {
	ObstacleID string
}

func (e *ObstacleNotFoundError) Error() string {
	return fmt.Sprintf("obstacle with ID '%s' not found", e.ObstacleID)
}

// IsNotFound returns true if the error is an ObstacleNotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*ObstacleNotFoundError)
	return ok
}
