package container

import (
	"fmt"

	"github.com/vk/infiniopt/internal/model"
)

// AddConstraint validates and stores a scalar constraint. A sub-domain given
// on the payload is preserved as the original user form; the effective
// sub-domain additionally intersects the bounds of every hold variable the
// expression reaches.
func (m *Model) AddConstraint(c model.Constraint) (int64, error) {
	if err := m.validateExprRefs(c.Expr); err != nil {
		return 0, err
	}
	if c.SubDomain != nil {
		if err := m.validateBounds(c.SubDomain); err != nil {
			return 0, err
		}
	}
	c.OrigSubDomain = c.SubDomain.Clone()
	return m.addConstraintRecord(c)
}

// addConstraintRecord finishes constraint admission: tighten, then commit.
func (m *Model) addConstraintRecord(c model.Constraint) (int64, error) {
	tightened, err := m.computeConstraintBounds(c, nil)
	if err != nil {
		return 0, err
	}
	c.SubDomain = tightened
	return m.commitConstraintRecord(c), nil
}

// commitConstraintRecord stores a fully validated constraint: assign index
// and handle, link references, register supports. Cannot fail; every check
// happens before this point. Shared by AddConstraint and the numeric-info
// constraint path.
func (m *Model) commitConstraintRecord(c model.Constraint) int64 {
	idx := m.constraints.Add(c)
	c.Handle = m.handleFor(idx)
	m.constraints.Replace(idx, c)
	m.linkConstraintRefs(idx, c)
	m.registerPointSupports(c.SubDomain)
	m.constrNames = nil
	m.markDirty()
	return idx
}

// linkConstraintRefs wires the reverse adjacency entries for a constraint:
// one link per distinct expression reference, plus the parameters named by
// the original sub-domain (links for the derived intersection stay with the
// hold variables that contribute them).
func (m *Model) linkConstraintRefs(index int64, c model.Constraint) {
	for _, r := range c.Expr.Refs() {
		switch r.Kind {
		case model.RefParameter:
			m.paramToConstraints.Link(r.Index, index)
		case model.RefVariable:
			m.varToConstraints.Link(r.Index, index)
		case model.RefReduced:
			m.reducedToConstraints.Link(r.Index, index)
		case model.RefMeasure:
			m.measureToConstraints.Link(r.Index, index)
		}
	}
	for pi := range c.OrigSubDomain {
		m.paramToConstraints.Link(pi, index)
	}
}

// Constraint returns the payload at index.
func (m *Model) Constraint(index int64) (model.Constraint, error) {
	c, ok := m.constraints.Get(index)
	if !ok {
		return model.Constraint{}, fmt.Errorf("%w: constraint %d", model.ErrInvalidReference, index)
	}
	return c, nil
}

// SetConstraintName renames a constraint and invalidates the name cache.
func (m *Model) SetConstraintName(index int64, name string) error {
	c, ok := m.constraints.Get(index)
	if !ok {
		return fmt.Errorf("%w: constraint %d", model.ErrInvalidReference, index)
	}
	c.Name = name
	m.constraints.Replace(index, c)
	m.constrNames = nil
	return nil
}

// SetConstraintBounds replaces a constraint's user-given sub-domain and
// recomputes the effective restriction. Without force, a constraint that
// already carries an original sub-domain is left untouched.
func (m *Model) SetConstraintBounds(index int64, b model.Bounds, force bool) error {
	c, ok := m.constraints.Get(index)
	if !ok {
		return fmt.Errorf("%w: constraint %d", model.ErrInvalidReference, index)
	}
	if len(c.OrigSubDomain) > 0 && !force {
		return fmt.Errorf("%w: constraint %d already has bounds (use force to overwrite)", model.ErrDependencyConflict, index)
	}
	if b != nil {
		if err := m.validateBounds(b); err != nil {
			return err
		}
	}
	old := c.OrigSubDomain
	probe := c
	probe.OrigSubDomain = b.Clone()
	tightened, err := m.computeConstraintBounds(probe, nil)
	if err != nil {
		return err
	}
	c.OrigSubDomain = b.Clone()
	c.SubDomain = tightened
	m.constraints.Replace(index, c)
	for pi := range old {
		if _, still := c.OrigSubDomain[pi]; !still && !c.Expr.ContainsRef(model.Ref{Kind: model.RefParameter, Index: pi}) {
			m.paramToConstraints.Unlink(pi, index)
		}
	}
	for pi := range c.OrigSubDomain {
		m.paramToConstraints.Link(pi, index)
	}
	m.registerPointSupports(tightened)
	m.markDirty()
	return nil
}

// DeleteConstraintBounds removes a constraint's user-given sub-domain; the
// effective restriction collapses to whatever the expression's hold
// variables still impose.
func (m *Model) DeleteConstraintBounds(index int64) error {
	return m.SetConstraintBounds(index, nil, true)
}

// ConstraintIsInfo reports whether the constraint is an internal
// numeric-info constraint of some variable.
func (m *Model) ConstraintIsInfo(index int64) (bool, error) {
	if !m.constraints.Has(index) {
		return false, fmt.Errorf("%w: constraint %d", model.ErrInvalidReference, index)
	}
	_, isInfo := m.infoOwner[index]
	return isInfo, nil
}

// SetObjective replaces the model's optimization target.
func (m *Model) SetObjective(sense model.ObjectiveSense, e model.Expr) error {
	if err := m.validateExprRefs(e); err != nil {
		return err
	}
	m.objective = model.Objective{Sense: sense, Expr: e.Clone()}
	m.markDirty()
	return nil
}
