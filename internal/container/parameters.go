package container

import (
	"fmt"
	"sort"

	"github.com/vk/infiniopt/internal/model"
)

// AddParameter stores an independent scalar parameter, assigning it a fresh
// group id, and returns its index.
func (m *Model) AddParameter(p model.Parameter) (int64, error) {
	if err := validateParameterPayload(p); err != nil {
		return 0, err
	}
	m.nextGroup++
	p.GroupID = m.nextGroup
	p.Supports = normalizeSupports(p.Supports)
	idx := m.parameters.Add(p)
	p.Handle = m.handleFor(idx)
	m.parameters.Replace(idx, p)
	m.groupMembers[p.GroupID] = []int64{idx}
	m.paramNames = nil
	m.markDirty()
	return idx, nil
}

// AddParameterGroup stores a jointly indexed (vector) parameter: every
// element shares one fresh group id. Returns the member indices in order.
func (m *Model) AddParameterGroup(ps []model.Parameter) ([]int64, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("%w: empty parameter group", model.ErrShapeMismatch)
	}
	for _, p := range ps {
		if err := validateParameterPayload(p); err != nil {
			return nil, err
		}
	}
	m.nextGroup++
	group := m.nextGroup
	indices := make([]int64, 0, len(ps))
	for _, p := range ps {
		p.GroupID = group
		p.Supports = normalizeSupports(p.Supports)
		idx := m.parameters.Add(p)
		p.Handle = m.handleFor(idx)
		m.parameters.Replace(idx, p)
		indices = append(indices, idx)
	}
	m.groupMembers[group] = append([]int64(nil), indices...)
	m.paramNames = nil
	m.markDirty()
	return indices, nil
}

// Parameter returns the payload at index.
func (m *Model) Parameter(index int64) (model.Parameter, error) {
	p, ok := m.parameters.Get(index)
	if !ok {
		return model.Parameter{}, fmt.Errorf("%w: parameter %d", model.ErrInvalidReference, index)
	}
	return p, nil
}

// GroupMembers returns the parameter indices sharing the given group id.
func (m *Model) GroupMembers(group int64) []int64 {
	return append([]int64(nil), m.groupMembers[group]...)
}

// AddSupports accumulates discretization points on a parameter. Points must
// lie within an interval domain; distribution domains accept any value.
func (m *Model) AddSupports(index int64, values ...float64) error {
	p, ok := m.parameters.Get(index)
	if !ok {
		return fmt.Errorf("%w: parameter %d", model.ErrInvalidReference, index)
	}
	if p.Domain.Kind == model.IntervalDomain {
		for _, v := range values {
			if !p.Domain.Interval.ContainsValue(v) {
				return fmt.Errorf("%w: support %g outside domain %s of parameter %q",
					model.ErrBoundViolation, v, p.Domain.Interval, p.Name)
			}
		}
	}
	p.Supports = normalizeSupports(append(append([]float64(nil), p.Supports...), values...))
	m.parameters.Replace(index, p)
	m.markDirty()
	return nil
}

// registerSupport records a single point without re-validating; callers have
// already checked domain containment.
func (m *Model) registerSupport(index int64, value float64) {
	p, ok := m.parameters.Get(index)
	if !ok {
		return
	}
	p.Supports = normalizeSupports(append(append([]float64(nil), p.Supports...), value))
	m.parameters.Replace(index, p)
}

// SetParameterName renames a parameter and invalidates the name cache.
func (m *Model) SetParameterName(index int64, name string) error {
	p, ok := m.parameters.Get(index)
	if !ok {
		return fmt.Errorf("%w: parameter %d", model.ErrInvalidReference, index)
	}
	p.Name = name
	m.parameters.Replace(index, p)
	m.paramNames = nil
	return nil
}

// ParameterUsed reports whether any variable, measure or constraint still
// references the parameter. Querying a dead index is itself an error.
func (m *Model) ParameterUsed(index int64) (bool, error) {
	if !m.parameters.Has(index) {
		return false, fmt.Errorf("%w: parameter %d", model.ErrInvalidReference, index)
	}
	return m.paramToVars.IsUsed(index) ||
		m.paramToMeasures.IsUsed(index) ||
		m.paramToConstraints.IsUsed(index), nil
}

// DeleteParameter removes an unused parameter. Deleting a parameter that
// still has dependents is forbidden; delete or rewrite the dependents first.
func (m *Model) DeleteParameter(index int64) error {
	used, err := m.ParameterUsed(index)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: parameter %d is still in use", model.ErrDependencyConflict, index)
	}
	p, _ := m.parameters.Get(index)
	members := m.groupMembers[p.GroupID]
	for i, mi := range members {
		if mi == index {
			members = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(members) == 0 {
		delete(m.groupMembers, p.GroupID)
	} else {
		m.groupMembers[p.GroupID] = members
	}
	m.parameters.Remove(index)
	m.paramNames = nil
	m.markDirty()
	return nil
}

// CopyParameterTo re-homes a copy of the parameter into another container.
// The copy gets a fresh index, a fresh group id and a rewritten handle in
// the target; the source entity is untouched.
func (m *Model) CopyParameterTo(dst *Model, index int64) (int64, error) {
	p, ok := m.parameters.Get(index)
	if !ok {
		return 0, fmt.Errorf("%w: parameter %d", model.ErrInvalidReference, index)
	}
	p.Supports = append([]float64(nil), p.Supports...)
	p.Domain.DistArgs = append([]float64(nil), p.Domain.DistArgs...)
	dst.nextGroup++
	p.GroupID = dst.nextGroup
	idx := dst.parameters.Add(p)
	p.Handle = dst.handleFor(idx)
	dst.parameters.Replace(idx, p)
	dst.groupMembers[p.GroupID] = []int64{idx}
	dst.paramNames = nil
	dst.markDirty()
	return idx, nil
}

func validateParameterPayload(p model.Parameter) error {
	if p.Domain.Kind == model.IntervalDomain {
		if p.Domain.Interval.Lower > p.Domain.Interval.Upper {
			return fmt.Errorf("%w: inverted domain %s for parameter %q",
				model.ErrBoundViolation, p.Domain.Interval, p.Name)
		}
		for _, s := range p.Supports {
			if !p.Domain.Interval.ContainsValue(s) {
				return fmt.Errorf("%w: support %g outside domain %s of parameter %q",
					model.ErrBoundViolation, s, p.Domain.Interval, p.Name)
			}
		}
	}
	return nil
}

// normalizeSupports sorts and deduplicates support points. The input is
// copied first, so stored payloads never alias a caller's slice.
func normalizeSupports(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	vals = append([]float64(nil), vals...)
	sort.Float64s(vals)
	out := vals[:1]
	for _, v := range vals[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
