package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dyluth/roadlog/internal/config"
	"go.uber.org/zap"
)

// ErrUnavailable means no position could be determined.
var ErrUnavailable = errors.New("location unavailable")

// Position is a geographic fix in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator reports the device's current position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// Static always reports the same position.
type Static Position

// Locate returns the configured position.
func (s Static) Locate(ctx context.Context) (Position, error) {
	return Position(s), nil
}

// File reads the latest fix from a JSON file kept up to date by a GPS daemon:
//
//	{"latitude": 48.8566, "longitude": 2.3522, "timestamp": "2025-06-10T08:00:00Z"}
//
// Fixes older than MaxAge are rejected when MaxAge is set and the file carries a timestamp.
type File struct {
	Path   string
	MaxAge time.Duration
	now    func() time.Time
}

type fileFix struct {
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Locate reads and validates the fix file.
func (f File) Locate(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var fix fileFix
	if err := json.Unmarshal(data, &fix); err != nil {
		return Position{}, fmt.Errorf("%w: malformed fix file %s: %v", ErrUnavailable, f.Path, err)
	}
	if fix.Latitude == nil || fix.Longitude == nil {
		return Position{}, fmt.Errorf("%w: fix file %s has no coordinates", ErrUnavailable, f.Path)
	}

	if f.MaxAge > 0 && !fix.Timestamp.IsZero() {
		now := time.Now
		if f.now != nil {
			now = f.now
		}
		if age := now().Sub(fix.Timestamp); age > f.MaxAge {
			return Position{}, fmt.Errorf("%w: fix is %s old", ErrUnavailable, age.Round(time.Second))
		}
	}

	return Position{Latitude: *fix.Latitude, Longitude: *fix.Longitude}, nil
}

// FromConfig builds the locator described by the location section.
// Returns nil when no location source is configured.
func FromConfig(cfg *config.LocationConfig) Locator {
	if cfg == nil {
		return nil
	}
	if cfg.File != "" {
		return File{Path: cfg.File, MaxAge: 10 * time.Minute}
	}
	if cfg.Latitude != nil && cfg.Longitude != nil {
		return Static{Latitude: *cfg.Latitude, Longitude: *cfg.Longitude}
	}
	return nil
}

// Resolve asks the locator for the current position.
// Any failure, including a nil locator, yields (0,0); the failure is logged, never returned.
func Resolve(ctx context.Context, locator Locator, logger *zap.Logger) Position {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locator == nil {
		logger.Debug("No location source configured, using default coordinates")
		return Position{}
	}

	pos, err := locator.Locate(ctx)
	if err != nil {
		logger.Warn("Location unavailable, using default coordinates", zap.Error(err))
		return Position{}
	}
	return pos
}
