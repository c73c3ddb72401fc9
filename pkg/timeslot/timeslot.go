package timeslot

import (
	"fmt"
	"time"
)

// ErrInvalidStep is returned when a grid is requested with a
// non-positive step. Internal callers always pass configured steps, so
// hitting this is a programming error.
var ErrInvalidStep = fmt.Errorf("grid step must be positive")

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count. Every
// collision check in the system routes through this predicate.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// OverlapsAny reports whether the interval intersects any of the given
// busy intervals.
func (i Interval) OverlapsAny(busy []Interval) bool {
	for _, b := range busy {
		if i.Overlaps(b) {
			return true
		}
	}
	return false
}

// Grid produces the candidate start instants start, start+step,
// start+2*step, ... strictly below end. Pure function of its inputs.
func Grid(start, end time.Time, stepMinutes int) ([]time.Time, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, stepMinutes)
	}

	step := time.Duration(stepMinutes) * time.Minute
	var out []time.Time
	for cur := start; cur.Before(end); cur = cur.Add(step) {
		out = append(out, cur)
	}
	return out, nil
}

// AlignForward rounds t up to the next multiple of stepMinutes within
// the hour, leaving t unchanged when it already sits on the grid.
func AlignForward(t time.Time, stepMinutes int) time.Time {
	t = t.Truncate(time.Minute)
	mod := t.Minute() % stepMinutes
	if mod == 0 {
		return t
	}
	return t.Add(time.Duration(stepMinutes-mod) * time.Minute)
}
