package filter

import (
	"testing"

	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	paris = Point{Latitude: 48.8566, Longitude: 2.3522}
	lyon  = Point{Latitude: 45.7640, Longitude: 4.8357}
)

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 392, DistanceKm(paris, lyon), 2)
	assert.InDelta(t, 0, DistanceKm(paris, paris), 1e-9)
	assert.InDelta(t, DistanceKm(paris, lyon), DistanceKm(lyon, paris), 1e-9)
}

func TestCriteria_Matches(t *testing.T) {
	pothole := &obstacle.Obstacle{ID: "1718000000000", Name: "Pothole", Latitude: paris.Latitude, Longitude: paris.Longitude}
	legacy := &obstacle.Obstacle{ID: "abc", Name: "Fallen tree"}

	tests := []struct {
		name     string
		criteria Criteria
		o        *obstacle.Obstacle
		want     bool
	}{
		{"empty criteria match all", Criteria{}, legacy, true},
		{"since before creation", Criteria{SinceTimestampMs: 1717000000000}, pothole, true},
		{"since after creation", Criteria{SinceTimestampMs: 1719000000000}, pothole, false},
		{"until after creation", Criteria{UntilTimestampMs: 1719000000000}, pothole, true},
		{"until before creation", Criteria{UntilTimestampMs: 1717000000000}, pothole, false},
		{"time bound excludes non-time IDs", Criteria{SinceTimestampMs: 1}, legacy, false},
		{"name glob case-insensitive", Criteria{NameGlob: "pot*"}, pothole, true},
		{"name glob mismatch", Criteria{NameGlob: "tree*"}, pothole, false},
		{"malformed glob", Criteria{NameGlob: "[", RadiusKm: 1}, pothole, false},
		{"within radius", Criteria{Near: &paris, RadiusKm: 1}, pothole, true},
		{"outside radius", Criteria{Near: &lyon, RadiusKm: 100}, pothole, false},
		{"radius excludes unpositioned", Criteria{Near: &paris, RadiusKm: 20000}, legacy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.o))
		})
	}
}

func TestApply(t *testing.T) {
	list := []obstacle.Obstacle{
		{ID: "1", Name: "Pothole"},
		{ID: "2", Name: "Roadworks"},
		{ID: "3", Name: "pothole cluster"},
	}

	got := Apply(&Criteria{NameGlob: "pothole*"}, list)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Equal(t, list, Apply(nil, list))
}
