package resolver

import (
	"fmt"
	"strings"

	"github.com/dyluth/roadlog/pkg/obstacle"
)

// MinShortIDLength is the minimum length of an ID suffix.
// Time-derived IDs share their leading digits, so the tail is what tells them apart.
const MinShortIDLength = 4

// ResolveObstacleID resolves a full ID or a unique ID suffix against the listed obstacles.
//
// An exact match always wins. Otherwise ref must be at least MinShortIDLength characters
// and match the end of exactly one ID.
func ResolveObstacleID(list []obstacle.Obstacle, ref string) (string, error) {
	for i := range list {
		if list[i].ID == ref {
			return ref, nil
		}
	}

	if len(ref) < MinShortIDLength {
		return "", &NotFoundError{ShortID: ref}
	}

	var matches []string
	for i := range list {
		if strings.HasSuffix(list[i].ID, ref) {
			matches = append(matches, list[i].ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: ref}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: ref, Matches: matches}
	}
}

// NotFoundError indicates no obstacle matched the reference.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no obstacle found matching '%s'", e.ShortID)
}

// AmbiguousError indicates multiple obstacles matched the suffix.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d obstacles", e.ShortID, len(e.Matches))
}

// FormatAmbiguousError creates a user-friendly message listing the matching IDs
// (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: ambiguous short ID '%s' matches %d obstacles:\n", err.ShortID, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}
	for i := 0; i < displayCount; i++ {
		fmt.Fprintf(&b, "  %s\n", err.Matches[i])
	}
	if len(err.Matches) > 10 {
		fmt.Fprintf(&b, "  ...and %d more\n", len(err.Matches)-10)
	}

	b.WriteString("\nUse a longer suffix to uniquely identify the obstacle.")
	return b.String()
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
