package container

import (
	"fmt"
	"sort"

	"github.com/vk/infiniopt/internal/model"
)

// AddVariable validates and stores a variable of any variant, wires its
// cross-references, and materializes its numeric info as internal
// constraints. Returns the new index.
func (m *Model) AddVariable(v model.Variable) (int64, error) {
	if err := v.Info().Validate(); err != nil {
		return 0, err
	}

	switch tv := v.(type) {
	case model.InfiniteVariable:
		if err := m.validateParameterTuple(tv.ParameterRefs); err != nil {
			return 0, err
		}
		tv.ParameterRefs = cloneTuple(tv.ParameterRefs)
		v = tv
	case model.PointVariable:
		parent, err := m.infiniteParent(tv.Infinite)
		if err != nil {
			return 0, err
		}
		if err := m.validatePointValues(parent, tv.Values); err != nil {
			return 0, err
		}
		// One-way snapshot: absent numeric info is filled from the parent
		// at creation time and never tracks later parent changes.
		v = tv.WithInfo(mergePointInfo(tv.VarInfo, parent.VarInfo))
	case model.HoldVariable:
		if tv.SubDomain != nil {
			if err := m.validateBounds(tv.SubDomain); err != nil {
				return 0, err
			}
			tv.SubDomain = tv.SubDomain.Clone()
		}
		v = tv
	default:
		return 0, fmt.Errorf("%w: unsupported variable payload %T", model.ErrInvalidReference, v)
	}

	idx := m.variables.Add(v)
	v = v.Rehomed(m.handleFor(idx))
	m.variables.Replace(idx, v)

	switch tv := v.(type) {
	case model.InfiniteVariable:
		for _, p := range tv.ScalarParameters() {
			m.paramToVars.Link(p, idx)
		}
	case model.PointVariable:
		m.varToPoints.Link(tv.Infinite, idx)
	case model.HoldVariable:
		for p := range tv.SubDomain {
			m.paramToVars.Link(p, idx)
		}
		m.registerPointSupports(tv.SubDomain)
	}

	m.varNames = nil
	m.markDirty()
	m.createInfoConstraints(idx, v)
	return idx, nil
}

// Variable returns the payload at index.
func (m *Model) Variable(index int64) (model.Variable, error) {
	v, ok := m.variables.Get(index)
	if !ok {
		return nil, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	return v, nil
}

// SetVariableName renames a variable and invalidates the name cache.
func (m *Model) SetVariableName(index int64, name string) error {
	v, ok := m.variables.Get(index)
	if !ok {
		return fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	m.variables.Replace(index, v.Renamed(name))
	m.varNames = nil
	return nil
}

// SetInfiniteParameterRefs replaces an infinite variable's parameter tuple.
// Rejected while point or reduced variables depend on the variable, since
// their shapes are tied to the current tuple.
func (m *Model) SetInfiniteParameterRefs(index int64, refs [][]int64) error {
	v, ok := m.variables.Get(index)
	if !ok {
		return fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	iv, ok := v.(model.InfiniteVariable)
	if !ok {
		return fmt.Errorf("%w: variable %d is not infinite", model.ErrInvalidReference, index)
	}
	if m.varToPoints.IsUsed(index) || m.varToReduced.IsUsed(index) {
		return fmt.Errorf("%w: variable %d has point or reduced dependents", model.ErrDependencyConflict, index)
	}
	if err := m.validateParameterTuple(refs); err != nil {
		return err
	}
	for _, p := range iv.ScalarParameters() {
		m.paramToVars.Unlink(p, index)
	}
	iv.ParameterRefs = cloneTuple(refs)
	for _, p := range iv.ScalarParameters() {
		m.paramToVars.Link(p, index)
	}
	m.variables.Replace(index, iv)
	m.markDirty()
	return nil
}

// SetHoldBounds attaches a sub-domain restriction to a hold variable and
// retightens every dependent constraint. Without force, a variable that
// already has bounds is left untouched and the call fails.
func (m *Model) SetHoldBounds(index int64, b model.Bounds, force bool) error {
	v, ok := m.variables.Get(index)
	if !ok {
		return fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	hv, ok := v.(model.HoldVariable)
	if !ok {
		return fmt.Errorf("%w: variable %d is not a hold variable", model.ErrInvalidReference, index)
	}
	if len(hv.SubDomain) > 0 && !force {
		return fmt.Errorf("%w: variable %d already has bounds (use force to overwrite)", model.ErrDependencyConflict, index)
	}
	if err := m.validateBounds(b); err != nil {
		return err
	}
	return m.replaceHoldBounds(index, hv, b.Clone())
}

// DeleteHoldBounds removes a hold variable's sub-domain restriction and
// recomputes dependent constraints from their original user-given forms.
func (m *Model) DeleteHoldBounds(index int64) error {
	v, ok := m.variables.Get(index)
	if !ok {
		return fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	hv, ok := v.(model.HoldVariable)
	if !ok {
		return fmt.Errorf("%w: variable %d is not a hold variable", model.ErrInvalidReference, index)
	}
	return m.replaceHoldBounds(index, hv, nil)
}

// replaceHoldBounds validates all dependent-constraint retightenings against
// the prospective bounds, then commits variable payload, parameter links,
// support registration and constraint sub-domains together.
func (m *Model) replaceHoldBounds(index int64, hv model.HoldVariable, b model.Bounds) error {
	overrides := map[int64]model.Bounds{index: b}
	type retighten struct {
		ci int64
		nb model.Bounds
	}
	var pending []retighten
	for _, ci := range m.constraintsTouchingVariable(index) {
		c, _ := m.constraints.Get(ci)
		nb, err := m.computeConstraintBounds(c, overrides)
		if err != nil {
			return err
		}
		pending = append(pending, retighten{ci: ci, nb: nb})
	}

	old := hv.SubDomain
	hv = hv.WithSubDomain(b)
	m.variables.Replace(index, hv)
	for p := range old {
		if _, still := b[p]; !still {
			m.paramToVars.Unlink(p, index)
		}
	}
	for p := range b {
		m.paramToVars.Link(p, index)
	}
	m.registerPointSupports(b)
	for _, r := range pending {
		c, _ := m.constraints.Get(r.ci)
		c.SubDomain = r.nb
		m.constraints.Replace(r.ci, c)
		m.registerPointSupports(r.nb)
	}
	m.markDirty()
	return nil
}

// constraintsTouchingVariable returns every constraint whose expression
// reaches the variable directly or through measures, in ascending order.
func (m *Model) constraintsTouchingVariable(index int64) []int64 {
	found := make(map[int64]bool)
	for _, ci := range m.varToConstraints.Dependents(index) {
		found[ci] = true
	}
	seen := make(map[int64]bool)
	queue := m.varToMeasures.Dependents(index)
	for len(queue) > 0 {
		mi := queue[0]
		queue = queue[1:]
		if seen[mi] {
			continue
		}
		seen[mi] = true
		for _, ci := range m.measureToConstraints.Dependents(mi) {
			found[ci] = true
		}
		queue = append(queue, m.measureToMeasures.Dependents(mi)...)
	}
	out := make([]int64, 0, len(found))
	for ci := range found {
		out = append(out, ci)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// VariableUsedByPoint reports whether point variables reference the variable.
func (m *Model) VariableUsedByPoint(index int64) (bool, error) {
	if !m.variables.Has(index) {
		return false, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	return m.varToPoints.IsUsed(index), nil
}

// VariableUsedByReduced reports whether reduced variables reference the
// variable.
func (m *Model) VariableUsedByReduced(index int64) (bool, error) {
	if !m.variables.Has(index) {
		return false, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	return m.varToReduced.IsUsed(index), nil
}

// VariableUsedByMeasure reports whether any measure expression references
// the variable.
func (m *Model) VariableUsedByMeasure(index int64) (bool, error) {
	if !m.variables.Has(index) {
		return false, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	return m.varToMeasures.IsUsed(index), nil
}

// VariableUsedByConstraint reports whether any user constraint references
// the variable. The variable's own numeric-info constraints do not count.
func (m *Model) VariableUsedByConstraint(index int64) (bool, error) {
	if !m.variables.Has(index) {
		return false, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	for _, ci := range m.varToConstraints.Dependents(index) {
		if owner, isInfo := m.infoOwner[ci]; isInfo && owner.Variable == index {
			continue
		}
		return true, nil
	}
	return false, nil
}

// VariableUsedByObjective reports whether the objective references the
// variable.
func (m *Model) VariableUsedByObjective(index int64) (bool, error) {
	if !m.variables.Has(index) {
		return false, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	return m.objective.Expr.ContainsRef(model.Ref{Kind: model.RefVariable, Index: index}), nil
}

// VariableUsed reports whether anything outside the variable's own numeric
// info still depends on it.
func (m *Model) VariableUsed(index int64) (bool, error) {
	for _, probe := range []func(int64) (bool, error){
		m.VariableUsedByPoint,
		m.VariableUsedByReduced,
		m.VariableUsedByMeasure,
		m.VariableUsedByConstraint,
		m.VariableUsedByObjective,
	} {
		used, err := probe(index)
		if err != nil || used {
			return used, err
		}
	}
	return false, nil
}

// createInfoConstraints materializes a variable's numeric info as internal
// constraints so the deletion cascade and the transcription backend see one
// uniform constraint set. Infallible: each constraint is a unit expression
// over the just-admitted variable, and its only possible sub-domain is the
// hold variable's own, validated before the variable was committed.
func (m *Model) createInfoConstraints(index int64, v model.Variable) {
	ref := model.Ref{Kind: model.RefVariable, Index: index}
	unit := model.Expr{Terms: []model.Term{{Ref: ref, Coeff: 1}}}
	var sub model.Bounds
	if hv, ok := v.(model.HoldVariable); ok {
		sub = hv.SubDomain
	}
	var set infoConstraintSet

	add := func(sense model.Sense, rhs float64, slot infoSlot) {
		ci := m.commitConstraintRecord(model.Constraint{
			Expr:      unit.Clone(),
			Sense:     sense,
			RHS:       rhs,
			SubDomain: sub.Clone(),
		})
		m.infoOwner[ci] = infoOwnerRef{Variable: index, Slot: slot}
		switch slot {
		case slotLower:
			set.Lower = ci
		case slotUpper:
			set.Upper = ci
		case slotFix:
			set.Fix = ci
		case slotIntegrality:
			set.Integrality = ci
		}
	}

	info := v.Info()
	if info.HasLower {
		add(model.SenseGE, info.Lower, slotLower)
	}
	if info.HasUpper {
		add(model.SenseLE, info.Upper, slotUpper)
	}
	if info.HasFix {
		add(model.SenseEQ, info.FixValue, slotFix)
	}
	if info.Binary {
		add(model.SenseBinary, 0, slotIntegrality)
	} else if info.Integer {
		add(model.SenseInteger, 0, slotIntegrality)
	}
	if set != (infoConstraintSet{}) {
		m.infoConstraints[index] = set
	}
}

// infiniteParent resolves an index that must name a live infinite variable.
func (m *Model) infiniteParent(index int64) (model.InfiniteVariable, error) {
	v, ok := m.variables.Get(index)
	if !ok {
		return model.InfiniteVariable{}, fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	iv, ok := v.(model.InfiniteVariable)
	if !ok {
		return model.InfiniteVariable{}, fmt.Errorf("%w: variable %d is not infinite", model.ErrInvalidReference, index)
	}
	return iv, nil
}

// validateParameterTuple checks an infinite variable's parameter slots: every
// index live, array slots drawn from one group, and no group used twice.
func (m *Model) validateParameterTuple(refs [][]int64) error {
	if len(refs) == 0 {
		return fmt.Errorf("%w: infinite variable needs at least one parameter", model.ErrShapeMismatch)
	}
	seenGroups := make(map[int64]bool)
	for si, slot := range refs {
		if len(slot) == 0 {
			return fmt.Errorf("%w: empty parameter slot %d", model.ErrShapeMismatch, si)
		}
		var group int64
		for i, pi := range slot {
			p, ok := m.parameters.Get(pi)
			if !ok {
				return fmt.Errorf("%w: parameter %d in slot %d", model.ErrInvalidReference, pi, si)
			}
			if i == 0 {
				group = p.GroupID
				continue
			}
			if p.GroupID != group {
				return fmt.Errorf("%w: slot %d mixes groups %d and %d", model.ErrDuplicateGroup, si, group, p.GroupID)
			}
		}
		if seenGroups[group] {
			return fmt.Errorf("%w: group %d appears in more than one slot", model.ErrDuplicateGroup, group)
		}
		seenGroups[group] = true
	}
	return nil
}

// validatePointValues checks a point variable's value tuple against the
// parent's slot shape and each parameter's domain.
func (m *Model) validatePointValues(parent model.InfiniteVariable, values [][]float64) error {
	if len(values) != len(parent.ParameterRefs) {
		return fmt.Errorf("%w: %d value slots for %d parameter slots",
			model.ErrShapeMismatch, len(values), len(parent.ParameterRefs))
	}
	for si, slot := range parent.ParameterRefs {
		if len(values[si]) != len(slot) {
			return fmt.Errorf("%w: slot %d has %d values for %d parameters",
				model.ErrShapeMismatch, si, len(values[si]), len(slot))
		}
		for i, pi := range slot {
			p, _ := m.parameters.Get(pi)
			if p.Domain.Kind == model.IntervalDomain && !p.Domain.Interval.ContainsValue(values[si][i]) {
				return fmt.Errorf("%w: value %g outside domain %s of parameter %q",
					model.ErrBoundViolation, values[si][i], p.Domain.Interval, p.Name)
			}
		}
	}
	return nil
}

// mergePointInfo fills numeric info a point variable did not specify from
// its parent's info. The merge is a creation-time snapshot only.
func mergePointInfo(own, parent model.VariableInfo) model.VariableInfo {
	if !own.HasFix && !own.HasLower && parent.HasLower {
		own.HasLower, own.Lower = true, parent.Lower
	}
	if !own.HasFix && !own.HasUpper && parent.HasUpper {
		own.HasUpper, own.Upper = true, parent.Upper
	}
	if !own.HasFix && !own.HasLower && !own.HasUpper && parent.HasFix {
		own.HasFix, own.FixValue = true, parent.FixValue
	}
	if !own.HasStart && parent.HasStart {
		own.HasStart, own.Start = true, parent.Start
	}
	if !own.Binary && !own.Integer {
		own.Binary, own.Integer = parent.Binary, parent.Integer
	}
	return own
}

func cloneTuple(refs [][]int64) [][]int64 {
	out := make([][]int64, len(refs))
	for i, slot := range refs {
		out[i] = append([]int64(nil), slot...)
	}
	return out
}
