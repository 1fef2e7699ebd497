// Package interval provides closed-interval arithmetic over float64 endpoints.
// Unbounded ends are represented with ±Inf.
package interval

import (
	"errors"
	"fmt"
	"math"
)

// ErrInverted indicates an interval whose lower endpoint exceeds its upper.
var ErrInverted = errors.New("interval: lower bound exceeds upper bound")

// Interval is a closed interval [Lower, Upper].
type Interval struct {
	Lower float64
	Upper float64
}

// New returns the interval [lo, hi]. It fails if lo > hi or either endpoint
// is NaN.
func New(lo, hi float64) (Interval, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Interval{}, fmt.Errorf("interval: NaN endpoint [%v, %v]", lo, hi)
	}
	if lo > hi {
		return Interval{}, fmt.Errorf("%w: [%v, %v]", ErrInverted, lo, hi)
	}
	return Interval{Lower: lo, Upper: hi}, nil
}

// Unbounded returns (-Inf, +Inf).
func Unbounded() Interval {
	return Interval{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return i.Lower <= other.Lower && other.Upper <= i.Upper
}

// ContainsValue reports whether v lies within i.
func (i Interval) ContainsValue(v float64) bool {
	return i.Lower <= v && v <= i.Upper
}

// IsPoint reports whether the interval has collapsed to a single value.
func (i Interval) IsPoint() bool {
	return i.Lower == i.Upper
}

// Intersect returns the overlap of a and b. The second return value is false
// when the intervals are disjoint.
func Intersect(a, b Interval) (Interval, bool) {
	lo := math.Max(a.Lower, b.Lower)
	hi := math.Min(a.Upper, b.Upper)
	if lo > hi {
		return Interval{}, false
	}
	return Interval{Lower: lo, Upper: hi}, true
}

// String renders the interval in bracket notation.
func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Lower, i.Upper)
}
