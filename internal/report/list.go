package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/roadlog/internal/filter"
	"github.com/dyluth/roadlog/pkg/obstacle"
)

// OutputFormat specifies how to format the obstacle list output.
type OutputFormat string

const (
	// OutputFormatDefault uses a table format with truncated descriptions
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs complete obstacles as line-delimited JSON
	OutputFormatJSONL OutputFormat = "jsonl"

	// OutputFormatJSON outputs a single JSON array
	OutputFormatJSON OutputFormat = "json"
)

// ParseFormat validates a user-supplied output format.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatDefault, OutputFormatJSONL, OutputFormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format '%s': must be one of default, jsonl, json", s)
	}
}

// Lister is the read side of the obstacle store.
type Lister interface {
	List(ctx context.Context) []obstacle.Obstacle
}

// ListObstacles reads every obstacle, applies the filter criteria if provided, and writes
// the result to w. Storage order (insertion order) is preserved.
// Unreadable or malformed storage shows as an empty list; the store logs the cause.
func ListObstacles(ctx context.Context, store Lister, criteria *filter.Criteria, format OutputFormat, w io.Writer) error {
	list := filter.Apply(criteria, store.List(ctx))

	switch format {
	case OutputFormatDefault:
		FormatTable(w, list, time.Now())
	case OutputFormatJSONL:
		if err := FormatJSONL(w, list); err != nil {
			return fmt.Errorf("failed to format JSONL output: %w", err)
		}
	case OutputFormatJSON:
		if err := FormatJSON(w, list); err != nil {
			return fmt.Errorf("failed to format JSON output: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}
