package container

import (
	"fmt"

	"github.com/vk/infiniopt/internal/model"
)

// validateBounds checks every (parameter, interval) pair against the
// parameter's own declared domain. Distribution-domain parameters accept any
// interval.
func (m *Model) validateBounds(b model.Bounds) error {
	for pi, iv := range b {
		p, ok := m.parameters.Get(pi)
		if !ok {
			return fmt.Errorf("%w: parameter %d in bounds", model.ErrInvalidReference, pi)
		}
		if iv.Lower > iv.Upper {
			return fmt.Errorf("%w: inverted interval %s for parameter %q", model.ErrBoundViolation, iv, p.Name)
		}
		if p.Domain.Kind == model.IntervalDomain && !p.Domain.Interval.Contains(iv) {
			return fmt.Errorf("%w: %s exceeds domain %s of parameter %q",
				model.ErrBoundViolation, iv, p.Domain.Interval, p.Name)
		}
	}
	return nil
}

// registerPointSupports records collapsed intervals (lower == upper) as
// parameter supports, so discretization will include those exact points.
func (m *Model) registerPointSupports(b model.Bounds) {
	for pi, iv := range b {
		if iv.IsPoint() {
			m.registerSupport(pi, iv.Lower)
		}
	}
}

// collectHoldBounds gathers the intersection of sub-domain restrictions of
// every hold variable an expression reaches. Measures mask their free
// variables until expanded, so the walk recurses through measure
// expressions. overrides substitutes prospective bounds for specific
// variables; an override entry holding nil means "treat as unbounded".
func (m *Model) collectHoldBounds(e model.Expr, overrides map[int64]model.Bounds, seen map[int64]bool) (model.Bounds, error) {
	var acc model.Bounds
	for _, r := range e.Refs() {
		switch r.Kind {
		case model.RefVariable:
			v, ok := m.variables.Get(r.Index)
			if !ok {
				continue
			}
			hv, ok := v.(model.HoldVariable)
			if !ok {
				continue
			}
			sub := hv.SubDomain
			if ov, has := overrides[r.Index]; has {
				sub = ov
			}
			if len(sub) == 0 {
				continue
			}
			merged, err := model.IntersectBounds(acc, sub)
			if err != nil {
				return nil, err
			}
			acc = merged
		case model.RefMeasure:
			if seen[r.Index] {
				continue
			}
			seen[r.Index] = true
			ms, ok := m.measures.Get(r.Index)
			if !ok {
				continue
			}
			inner, err := m.collectHoldBounds(ms.Expr, overrides, seen)
			if err != nil {
				return nil, err
			}
			merged, err := model.IntersectBounds(acc, inner)
			if err != nil {
				return nil, err
			}
			acc = merged
		}
	}
	return acc, nil
}

// checkMeasureDomains verifies that every measure an expression reaches has
// an integration domain contained within the imposed bounds. An
// already-defined integral cannot be retroactively restricted by an
// unrelated bound.
func (m *Model) checkMeasureDomains(e model.Expr, b model.Bounds, seen map[int64]bool) error {
	if len(b) == 0 {
		return nil
	}
	for _, r := range e.Refs() {
		if r.Kind != model.RefMeasure || seen[r.Index] {
			continue
		}
		seen[r.Index] = true
		ms, ok := m.measures.Get(r.Index)
		if !ok {
			continue
		}
		for _, pi := range ms.Data.ParameterIndexes() {
			iv, bounded := b[pi]
			if !bounded {
				continue
			}
			span, ok := ms.Data.SupportRange(pi)
			if ok && !iv.Contains(span) {
				return fmt.Errorf("%w: measure %q integrates over %s but bounds restrict parameter %d to %s",
					model.ErrBoundViolation, ms.Name, span, pi, iv)
			}
		}
		if err := m.checkMeasureDomains(ms.Expr, b, seen); err != nil {
			return err
		}
	}
	return nil
}

// computeConstraintBounds derives a constraint's effective sub-domain: the
// user-given original form intersected with the bounds of every hold
// variable its expression reaches, validated against parameter domains and
// against the integration domains of referenced measures.
func (m *Model) computeConstraintBounds(c model.Constraint, overrides map[int64]model.Bounds) (model.Bounds, error) {
	hold, err := m.collectHoldBounds(c.Expr, overrides, make(map[int64]bool))
	if err != nil {
		return nil, err
	}
	acc, err := model.IntersectBounds(c.OrigSubDomain, hold)
	if err != nil {
		return nil, err
	}
	if len(acc) == 0 {
		return nil, nil
	}
	if err := m.validateBounds(acc); err != nil {
		return nil, err
	}
	if err := m.checkMeasureDomains(c.Expr, acc, make(map[int64]bool)); err != nil {
		return nil, err
	}
	return acc, nil
}

// relaxConstraints recomputes the derived sub-domain of each listed
// constraint from its current expression and user form, validating every
// recomputation before committing any. Called after a cascade strips a
// bounded entity out of constraint expressions, so the stripped entity's
// restriction does not linger.
func (m *Model) relaxConstraints(cis []int64) error {
	type update struct {
		ci int64
		nb model.Bounds
	}
	var pending []update
	for _, ci := range cis {
		c, ok := m.constraints.Get(ci)
		if !ok {
			continue
		}
		nb, err := m.computeConstraintBounds(c, nil)
		if err != nil {
			return err
		}
		pending = append(pending, update{ci: ci, nb: nb})
	}
	for _, u := range pending {
		c, _ := m.constraints.Get(u.ci)
		c.SubDomain = u.nb
		m.constraints.Replace(u.ci, c)
	}
	return nil
}

// validateExprRefs checks that every entity an expression references is live
// in this container.
func (m *Model) validateExprRefs(e model.Expr) error {
	for _, r := range e.Refs() {
		var ok bool
		switch r.Kind {
		case model.RefParameter:
			ok = m.parameters.Has(r.Index)
		case model.RefVariable:
			ok = m.variables.Has(r.Index)
		case model.RefReduced:
			ok = m.reduced.Has(r.Index)
		case model.RefMeasure:
			ok = m.measures.Has(r.Index)
		}
		if !ok {
			return fmt.Errorf("%w: %s in expression", model.ErrInvalidReference, r)
		}
	}
	return nil
}
