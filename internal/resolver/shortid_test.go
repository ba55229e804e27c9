package resolver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveObstacleID(t *testing.T) {
	list := []obstacle.Obstacle{
		{ID: "1718000001234"},
		{ID: "1718000005678"},
		{ID: "1718000095678"},
		{ID: "42"},
	}

	t.Run("exact match", func(t *testing.T) {
		id, err := ResolveObstacleID(list, "1718000001234")
		require.NoError(t, err)
		assert.Equal(t, "1718000001234", id)
	})

	t.Run("exact match shorter than minimum", func(t *testing.T) {
		id, err := ResolveObstacleID(list, "42")
		require.NoError(t, err)
		assert.Equal(t, "42", id)
	})

	t.Run("unique suffix", func(t *testing.T) {
		id, err := ResolveObstacleID(list, "1234")
		require.NoError(t, err)
		assert.Equal(t, "1718000001234", id)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ResolveObstacleID(list, "234")
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ResolveObstacleID(list, "9999")
		assert.True(t, IsNotFoundError(err))
		assert.Contains(t, err.Error(), "no obstacle found matching '9999'")
	})

	t.Run("ambiguous suffix", func(t *testing.T) {
		_, err := ResolveObstacleID(list, "5678")
		require.True(t, IsAmbiguousError(err))
		ambig := err.(*AmbiguousError)
		assert.Equal(t, []string{"1718000005678", "1718000095678"}, ambig.Matches)
	})
}

func TestFormatAmbiguousError(t *testing.T) {
	matches := make([]string, 12)
	for i := range matches {
		matches[i] = fmt.Sprintf("17180000%05d", i)
	}

	msg := FormatAmbiguousError(&AmbiguousError{ShortID: "0000", Matches: matches})
	assert.Contains(t, msg, "matches 12 obstacles")
	assert.Contains(t, msg, "...and 2 more")
	assert.Equal(t, 10, strings.Count(msg, "\n  1718"))
	assert.True(t, strings.HasSuffix(msg, "uniquely identify the obstacle."))
}
