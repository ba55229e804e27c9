package obstacle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Obstacle is a physical obstacle recorded on a route.
// All obstacles live together in one ordered JSON array under a single storage key.
type Obstacle struct {
	ID          string  `json:"id"`          // Time-derived token, assigned by the store on create
	Name        string  `json:"name"`        // Display name (required)
	Description string  `json:"description"` // Free text, may be empty
	Longitude   float64 `json:"longitude"`   // Captured from the device at create/edit time
	Latitude    float64 `json:"latitude"`    // Captured from the device at create/edit time
}

// Fields is an obstacle without its ID: the payload of create and update.
type Fields struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
}

// Fields returns the obstacle's mutable fields.
func (o *Obstacle) Fields() Fields {
	return Fields{
		Name:        o.Name,
		Description: o.Description,
		Longitude:   o.Longitude,
		Latitude:    o.Latitude,
	}
}

// apply replaces every field except the ID.
func (o *Obstacle) apply(f Fields) {
	o.Name = f.Name
	o.Description = f.Description
	o.Longitude = f.Longitude
	o.Latitude = f.Latitude
}

// HasPosition reports whether the obstacle carries a non-default position.
// Obstacles recorded without a location fix are stored at (0,0).
func (o *Obstacle) HasPosition() bool {
	return o.Longitude != 0 || o.Latitude != 0
}

// CreatedAt decodes the creation time from a time-derived ID.
// Returns false for IDs that are not millisecond timestamps.
func (o *Obstacle) CreatedAt() (time.Time, bool) {
	ms, err := strconv.ParseInt(o.ID, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// Validate checks the fields before they are written.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !finite(f.Longitude) {
		return fmt.Errorf("longitude must be a finite number")
	}
	if !finite(f.Latitude) {
		return fmt.Errorf("latitude must be a finite number")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
