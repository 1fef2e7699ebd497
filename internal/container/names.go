package container

import (
	"fmt"

	"github.com/vk/infiniopt/internal/model"
)

// ambiguousIndex marks a cache entry whose name belongs to more than one
// entity. Live indices start at 1, so the sentinel can never collide.
const ambiguousIndex int64 = -1

// buildNameCache scans all current names of one kind. Duplicate names are
// recorded with the ambiguous sentinel rather than either candidate.
func buildNameCache(indices []int64, nameOf func(int64) string) map[string]int64 {
	cache := make(map[string]int64, len(indices))
	for _, idx := range indices {
		name := nameOf(idx)
		if name == "" {
			continue
		}
		if _, dup := cache[name]; dup {
			cache[name] = ambiguousIndex
		} else {
			cache[name] = idx
		}
	}
	return cache
}

func lookupName(cache map[string]int64, name string) (int64, error) {
	idx, ok := cache[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", model.ErrNotFound, name)
	}
	if idx == ambiguousIndex {
		return 0, fmt.Errorf("%w: %q", model.ErrAmbiguousName, name)
	}
	return idx, nil
}

// FindParameter resolves a parameter by display name. The reverse map is
// rebuilt lazily on first use after any rename, add or delete; a nil cache
// means "not built", distinct from "built but empty".
func (m *Model) FindParameter(name string) (int64, error) {
	if m.paramNames == nil {
		m.paramNames = buildNameCache(m.parameters.Indices(), func(i int64) string {
			p, _ := m.parameters.Get(i)
			return p.Name
		})
	}
	return lookupName(m.paramNames, name)
}

// FindVariable resolves a variable by display name.
func (m *Model) FindVariable(name string) (int64, error) {
	if m.varNames == nil {
		m.varNames = buildNameCache(m.variables.Indices(), func(i int64) string {
			v, _ := m.variables.Get(i)
			return v.VariableName()
		})
	}
	return lookupName(m.varNames, name)
}

// FindMeasure resolves a measure by display name.
func (m *Model) FindMeasure(name string) (int64, error) {
	if m.measNames == nil {
		m.measNames = buildNameCache(m.measures.Indices(), func(i int64) string {
			ms, _ := m.measures.Get(i)
			return ms.Name
		})
	}
	return lookupName(m.measNames, name)
}

// FindConstraint resolves a constraint by display name.
func (m *Model) FindConstraint(name string) (int64, error) {
	if m.constrNames == nil {
		m.constrNames = buildNameCache(m.constraints.Indices(), func(i int64) string {
			c, _ := m.constraints.Get(i)
			return c.Name
		})
	}
	return lookupName(m.constrNames, name)
}
