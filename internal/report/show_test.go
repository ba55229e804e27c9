package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowObstacle(t *testing.T) {
	ctx := context.Background()

	t.Run("existing obstacle", func(t *testing.T) {
		store := setupStore(t)
		created, err := store.CreateObstacle(ctx, obstacle.Fields{Name: "Pothole", Description: "Deep hole", Latitude: 48.85})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, ShowObstacle(ctx, store, created.ID, &buf))

		var result obstacle.Obstacle
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, *created, result)
	})

	t.Run("obstacle not found", func(t *testing.T) {
		var buf bytes.Buffer
		err := ShowObstacle(ctx, setupStore(t, "Pothole"), "missing", &buf)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "obstacle with ID 'missing' not found")
		assert.Empty(t, buf.String())
	})

	t.Run("IsNotFound with other errors", func(t *testing.T) {
		assert.False(t, IsNotFound(assert.AnError))
		assert.False(t, IsNotFound(nil))
	})
}
