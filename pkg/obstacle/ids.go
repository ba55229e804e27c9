package obstacle

import (
	"math"
	"strconv"
	"time"
)

// idSequence hands out time-derived IDs.
//
// IDs are the creation time in Unix milliseconds rendered as a decimal string, bumped
// forward when needed so that every new ID is greater than the previous one issued by
// this sequence and greater than every numeric ID already stored.
type idSequence struct {
	now  func() time.Time
	last int64
}

// next returns an ID distinct from every ID in existing.
func (s *idSequence) next(existing []Obstacle) string {
	candidate := s.now().UnixMilli()
	if candidate <= s.last {
		candidate = s.last + 1
	}

	taken := make(map[string]struct{}, len(existing))
	for i := range existing {
		taken[existing[i].ID] = struct{}{}
		// An ID at the int64 ceiling cannot be followed; it only joins the taken set.
		if n, err := strconv.ParseInt(existing[i].ID, 10, 64); err == nil && n >= candidate && n < math.MaxInt64 {
			candidate = n + 1
		}
	}

	for {
		id := strconv.FormatInt(candidate, 10)
		if _, ok := taken[id]; !ok {
			s.last = candidate
			return id
		}
		candidate++
	}
}
