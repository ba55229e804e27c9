package obstacle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFieldsValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		wantErr string
	}{
		{"valid", Fields{Name: "Pothole", Longitude: 1, Latitude: 2}, ""},
		{"empty description is fine", Fields{Name: "Pothole"}, ""},
		{"empty name", Fields{}, "name is required"},
		{"blank name", Fields{Name: " \t"}, "name is required"},
		{"NaN longitude", Fields{Name: "x", Longitude: math.NaN()}, "longitude"},
		{"infinite latitude", Fields{Name: "x", Latitude: math.Inf(1)}, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestObstacleCreatedAt(t *testing.T) {
	o := Obstacle{ID: "1718000000000"}
	at, ok := o.CreatedAt()
	assert.True(t, ok)
	assert.Equal(t, time.UnixMilli(1718000000000), at)

	for _, id := range []string{"", "abc", "-5", "0"} {
		o := Obstacle{ID: id}
		_, ok := o.CreatedAt()
		assert.False(t, ok, id)
	}
}

func TestObstacleHasPosition(t *testing.T) {
	assert.False(t, (&Obstacle{}).HasPosition())
	assert.True(t, (&Obstacle{Latitude: 0.1}).HasPosition())
	assert.True(t, (&Obstacle{Longitude: -3}).HasPosition())
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "obstacles", StorageKey(""))
	assert.Equal(t, "roadlog:fleet:obstacles", StorageKey("fleet"))
	assert.Equal(t, "roadlog:obstacle_events", EventsChannel(""))
	assert.Equal(t, "roadlog:fleet:obstacle_events", EventsChannel("fleet"))
}
