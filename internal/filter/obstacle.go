package filter

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/dyluth/roadlog/pkg/obstacle"
)

const earthRadiusKm = 6371.0

// Criteria defines filtering criteria for obstacles.
// All filters are ANDed together - an obstacle must match ALL criteria to pass.
type Criteria struct {
	SinceTimestampMs int64   // Unix timestamp in milliseconds, 0 = no filter
	UntilTimestampMs int64   // Unix timestamp in milliseconds, 0 = no filter
	NameGlob         string  // Case-insensitive glob on the name, empty = no filter
	Near             *Point  // Centre of the radius filter, nil = no filter
	RadiusKm         float64 // Radius around Near in kilometres
}

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Matches returns true if the obstacle matches all filter criteria.
//
// Time bounds use the creation time encoded in the ID; obstacles whose ID carries no
// timestamp are excluded whenever a time bound is set. Obstacles without a position
// are excluded by the radius filter.
func (c *Criteria) Matches(o *obstacle.Obstacle) bool {
	if c.SinceTimestampMs > 0 || c.UntilTimestampMs > 0 {
		created, ok := o.CreatedAt()
		if !ok {
			return false
		}
		ms := created.UnixMilli()
		if c.SinceTimestampMs > 0 && ms < c.SinceTimestampMs {
			return false
		}
		if c.UntilTimestampMs > 0 && ms > c.UntilTimestampMs {
			return false
		}
	}

	if c.NameGlob != "" {
		matched, err := filepath.Match(strings.ToLower(c.NameGlob), strings.ToLower(o.Name))
		if err != nil || !matched {
			return false
		}
	}

	if c.Near != nil {
		if !o.HasPosition() {
			return false
		}
		if DistanceKm(*c.Near, Point{Latitude: o.Latitude, Longitude: o.Longitude}) > c.RadiusKm {
			return false
		}
	}

	return true
}

// Apply returns the obstacles matching the criteria, preserving order.
// A nil Criteria matches everything.
func Apply(c *Criteria, list []obstacle.Obstacle) []obstacle.Obstacle {
	if c == nil {
		return list
	}
	out := make([]obstacle.Obstacle, 0, len(list))
	for i := range list {
		if c.Matches(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// DistanceKm is the great-circle (haversine) distance between two points.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
