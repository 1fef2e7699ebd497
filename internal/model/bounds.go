package model

import (
	"fmt"
	"maps"

	"github.com/vk/infiniopt/internal/interval"
)

// Bounds restricts where a variable or constraint is defined: a map from
// scalar parameter index to sub-domain interval. Array-valued parameters are
// always exploded into one entry per scalar member before a Bounds value is
// built, so keys are scalar indices only.
//
// Equality is pure map equality; insertion order carries no meaning.
type Bounds map[int64]interval.Interval

// Clone returns a copy of the bounds map. A nil receiver stays nil.
func (b Bounds) Clone() Bounds {
	if b == nil {
		return nil
	}
	out := make(Bounds, len(b))
	maps.Copy(out, b)
	return out
}

// Equal reports map equality with other.
func (b Bounds) Equal(other Bounds) bool {
	return maps.Equal(b, other)
}

// IntersectBounds merges two bound sets: keys present in only one side are
// taken as-is, shared keys take the interval intersection. Fails with
// ErrDisjointBounds when a shared key has no overlap.
func IntersectBounds(a, b Bounds) (Bounds, error) {
	if a == nil {
		return b.Clone(), nil
	}
	if b == nil {
		return a.Clone(), nil
	}
	out := a.Clone()
	for param, iv := range b {
		existing, ok := out[param]
		if !ok {
			out[param] = iv
			continue
		}
		merged, ok := interval.Intersect(existing, iv)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d has %s and %s", ErrDisjointBounds, param, existing, iv)
		}
		out[param] = merged
	}
	return out, nil
}
