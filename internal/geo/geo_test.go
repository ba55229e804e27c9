package geo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyluth/roadlog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingLocator struct{}

func (failingLocator) Locate(ctx context.Context) (Position, error) {
	return Position{}, errors.New("permission denied")
}

func writeFix(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fix.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStatic(t *testing.T) {
	pos, err := Static{Latitude: 1, Longitude: 2}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Position{Latitude: 1, Longitude: 2}, pos)
}

func TestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("reads a fix", func(t *testing.T) {
		path := writeFix(t, `{"latitude": 48.8566, "longitude": 2.3522}`)
		pos, err := File{Path: path}.Locate(ctx)
		require.NoError(t, err)
		assert.Equal(t, Position{Latitude: 48.8566, Longitude: 2.3522}, pos)
	})

	t.Run("missing file is unavailable", func(t *testing.T) {
		_, err := File{Path: filepath.Join(t.TempDir(), "absent.json")}.Locate(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("malformed file is unavailable", func(t *testing.T) {
		_, err := File{Path: writeFix(t, "not json")}.Locate(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("missing coordinates are unavailable", func(t *testing.T) {
		_, err := File{Path: writeFix(t, `{"latitude": 1}`)}.Locate(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "has no coordinates")
	})

	t.Run("stale fix is unavailable", func(t *testing.T) {
		path := writeFix(t, `{"latitude": 1, "longitude": 2, "timestamp": "2025-06-10T08:00:00Z"}`)
		loc := File{
			Path:   path,
			MaxAge: time.Minute,
			now:    func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) },
		}
		_, err := loc.Locate(ctx)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "1h0m0s old")
	})

	t.Run("fresh fix is accepted", func(t *testing.T) {
		path := writeFix(t, `{"latitude": 1, "longitude": 2, "timestamp": "2025-06-10T08:00:00Z"}`)
		loc := File{
			Path:   path,
			MaxAge: time.Minute,
			now:    func() time.Time { return time.Date(2025, 6, 10, 8, 0, 30, 0, time.UTC) },
		}
		pos, err := loc.Locate(ctx)
		require.NoError(t, err)
		assert.Equal(t, Position{Latitude: 1, Longitude: 2}, pos)
	})
}

func TestFromConfig(t *testing.T) {
	lat, lon := 45.0, 5.0

	assert.Nil(t, FromConfig(nil))
	assert.Nil(t, FromConfig(&config.LocationConfig{}))
	assert.Equal(t, Static{Latitude: 45, Longitude: 5},
		FromConfig(&config.LocationConfig{Latitude: &lat, Longitude: &lon}))

	loc := FromConfig(&config.LocationConfig{File: "/run/gps/fix.json"})
	require.IsType(t, File{}, loc)
	assert.Equal(t, "/run/gps/fix.json", loc.(File).Path)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the fix", func(t *testing.T) {
		pos := Resolve(ctx, Static{Latitude: 3, Longitude: 4}, nil)
		assert.Equal(t, Position{Latitude: 3, Longitude: 4}, pos)
	})

	t.Run("nil locator defaults to origin", func(t *testing.T) {
		assert.Equal(t, Position{}, Resolve(ctx, nil, nil))
	})

	t.Run("failure defaults to origin and is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		pos := Resolve(ctx, failingLocator{}, zap.New(core))
		assert.Equal(t, Position{}, pos)
		assert.Equal(t, 1, logs.FilterMessage("Location unavailable, using default coordinates").Len())
	})
}
