package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyluth/roadlog/pkg/obstacle"
)

// FormatTable writes obstacles as a formatted table to the provided writer.
// The table includes columns: ID, NAME, AGE, POSITION and DESCRIPTION (truncated).
// Returns the number of obstacles formatted.
func FormatTable(w io.Writer, list []obstacle.Obstacle, now time.Time) int {
	if len(list) == 0 {
		fmt.Fprintln(w, "No obstacles recorded")
		return 0
	}

	fmt.Fprintf(w, "%-13s %-20s %-8s %-21s %s\n",
		"ID", "NAME", "AGE", "POSITION", "DESCRIPTION")
	fmt.Fprintf(w, "%-13s %-20s %-8s %-21s %s\n",
		"-------------", "--------------------", "--------", "---------------------", "----------------------------------------")

	for i := range list {
		o := &list[i]
		fmt.Fprintf(w, "%-13s %-20s %-8s %-21s %s\n",
			formatID(o.ID),
			formatName(o.Name),
			formatAge(o, now),
			formatPosition(o),
			formatDescription(o.Description),
		)
	}

	countMsg := "obstacle"
	if len(list) != 1 {
		countMsg = "obstacles"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(list), countMsg)

	return len(list)
}

// FormatJSONL writes obstacles as line-delimited JSON (JSONL) to the provided writer.
// Each obstacle is written as a single JSON object on its own line.
func FormatJSONL(w io.Writer, list []obstacle.Obstacle) error {
	for i := range list {
		data, err := json.Marshal(&list[i])
		if err != nil {
			return fmt.Errorf("failed to marshal obstacle to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatJSON writes obstacles as one pretty-printed JSON array, the same shape as the
// persisted layout. An empty list is written as [].
func FormatJSON(w io.Writer, list []obstacle.Obstacle) error {
	if list == nil {
		list = []obstacle.Obstacle{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal obstacles to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// FormatSingleJSON writes a single obstacle as pretty-printed JSON to the provided writer.
func FormatSingleJSON(w io.Writer, o *obstacle.Obstacle) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal obstacle to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// formatID keeps full IDs up to 13 characters (a millisecond timestamp), truncating longer ones.
func formatID(id string) string {
	if len(id) > 13 {
		return id[:10] + "..."
	}
	return id
}

// formatName truncates names to 20 characters.
func formatName(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) == 0 {
		return "-"
	}
	if len(r) > 20 {
		return string(r[:17]) + "..."
	}
	return string(r)
}

// formatDescription truncates the description to its first line with max 40 characters.
// Empty descriptions return "-".
func formatDescription(desc string) string {
	var firstLine string
	for _, line := range strings.Split(desc, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			firstLine = trimmed
			break
		}
	}
	if firstLine == "" {
		return "-"
	}

	r := []rune(firstLine)
	if len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return firstLine
}

// formatPosition renders latitude,longitude with 5 decimals (about a metre).
// Obstacles recorded without a location fix show "-".
func formatPosition(o *obstacle.Obstacle) string {
	if !o.HasPosition() {
		return "-"
	}
	return fmt.Sprintf("%.5f,%.5f", o.Latitude, o.Longitude)
}

// formatAge shows the time since creation like "2m ago", "1h ago", etc.
// IDs that carry no timestamp return "-".
func formatAge(o *obstacle.Obstacle, now time.Time) string {
	created, ok := o.CreatedAt()
	if !ok {
		return "-"
	}

	diff := now.Sub(created)
	if diff < 0 {
		diff = 0
	}

	if diff < time.Minute {
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
