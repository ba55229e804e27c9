// Package watch renders obstacle change events as they are published.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/roadlog/pkg/obstacle"
	"go.uber.org/zap"
)

// OutputFormat specifies how streamed events are written.
type OutputFormat string

const (
	// OutputFormatDefault writes one human-readable line per event
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON writes line-delimited JSON events
	OutputFormatJSON OutputFormat = "json"
)

// Stream is an active source of obstacle events, such as a Redis subscription.
type Stream interface {
	Events() <-chan obstacle.Event
	Errors() <-chan error
}

// StreamEvents writes events from the stream until ctx is cancelled or the stream ends.
// Undecodable messages are logged and skipped.
func StreamEvents(ctx context.Context, stream Stream, format OutputFormat, w io.Writer, logger *zap.Logger) error {
	if format != OutputFormatDefault && format != OutputFormatJSON {
		return fmt.Errorf("unknown output format: %s", format)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	events := stream.Events()
	errs := stream.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("Skipping undecodable event", zap.Error(err))

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeEvent(w, ev, format); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w io.Writer, ev obstacle.Event, format OutputFormat) error {
	if format == OutputFormatJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	_, err := fmt.Fprintf(w, "[%s] %s\n", time.UnixMilli(ev.AtMs).Format("15:04:05"), FormatEvent(ev))
	return err
}

// FormatEvent renders an event as a single human-readable line (without timestamp).
func FormatEvent(ev obstacle.Event) string {
	o := ev.Obstacle

	position := "no position"
	if o.HasPosition() {
		position = fmt.Sprintf("%.5f,%.5f", o.Latitude, o.Longitude)
	}

	switch ev.Kind {
	case obstacle.EventCreated:
		return fmt.Sprintf("🚧 Obstacle recorded: %s id=%s (%s)", o.Name, o.ID, position)
	case obstacle.EventUpdated:
		return fmt.Sprintf("✏️  Obstacle updated: %s id=%s (%s)", o.Name, o.ID, position)
	case obstacle.EventDeleted:
		return fmt.Sprintf("🗑️  Obstacle removed: %s id=%s", o.Name, o.ID)
	default:
		return fmt.Sprintf("❓ Unknown event '%s' for obstacle id=%s", ev.Kind, o.ID)
	}
}
