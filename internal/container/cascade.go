package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/infiniopt/internal/ctxlog"
	"github.com/vk/infiniopt/internal/model"
)

// DeleteVariable removes a variable of any variant and repairs everything
// that referenced it: numeric-info constraints are deleted first, measure
// and constraint expressions are rewritten in place (and measures renamed),
// the objective is rewritten, point and reduced dependents of an infinite
// variable are fully deleted, and every reverse-index entry is unlinked.
//
// The index is validated before any mutation; a dead index aborts with
// ErrInvalidReference and the model unchanged.
func (m *Model) DeleteVariable(ctx context.Context, index int64) error {
	v, ok := m.variables.Get(index)
	if !ok {
		return fmt.Errorf("%w: variable %d", model.ErrInvalidReference, index)
	}
	ctxlog.FromContext(ctx).Debug("deleting variable", "index", index, "kind", v.Kind().String())

	// Numeric-info constraints never have further dependents, so this
	// recursion terminates in one hop.
	if set, ok := m.infoConstraints[index]; ok {
		for _, ci := range []int64{set.Lower, set.Upper, set.Fix, set.Integrality} {
			if ci != 0 && m.constraints.Has(ci) {
				if err := m.DeleteConstraint(ctx, ci); err != nil {
					return err
				}
			}
		}
	}

	ref := model.Ref{Kind: model.RefVariable, Index: index}
	m.rewriteMeasures(m.varToMeasures.Dependents(index), ref)
	m.rewriteConstraints(m.varToConstraints.Dependents(index), ref)
	m.rewriteObjective(ref)

	switch tv := v.(type) {
	case model.InfiniteVariable:
		for _, p := range tv.ScalarParameters() {
			m.paramToVars.Unlink(p, index)
		}
		// Point and reduced variables cannot exist without their parent:
		// full deletion, not rewriting. Dependents lists are snapshots, so
		// unlinking inside the recursion is safe.
		for _, pi := range m.varToPoints.Dependents(index) {
			if err := m.DeleteVariable(ctx, pi); err != nil {
				return err
			}
		}
		for _, ri := range m.varToReduced.Dependents(index) {
			if err := m.deleteReducedVariable(ctx, ri); err != nil {
				return err
			}
		}
	case model.PointVariable:
		m.varToPoints.Unlink(tv.Infinite, index)
	case model.HoldVariable:
		// The rewrites above removed the variable from dependent
		// expressions; its sub-domain contribution must go with it.
		if len(tv.SubDomain) > 0 {
			if err := m.relaxConstraints(m.constraintsTouchingVariable(index)); err != nil {
				return err
			}
		}
		for p := range tv.SubDomain {
			m.paramToVars.Unlink(p, index)
		}
	}

	m.varToMeasures.RemoveOwner(index)
	m.varToConstraints.RemoveOwner(index)
	m.varToPoints.RemoveOwner(index)
	m.varToReduced.RemoveOwner(index)
	delete(m.infoConstraints, index)
	m.variables.Remove(index)
	m.varNames = nil
	m.markDirty()
	return nil
}

// deleteReducedVariable removes a reduced variable, rewriting the measures
// and constraints that reference it.
func (m *Model) deleteReducedVariable(ctx context.Context, index int64) error {
	rv, ok := m.reduced.Get(index)
	if !ok {
		return fmt.Errorf("%w: reduced variable %d", model.ErrInvalidReference, index)
	}
	ctxlog.FromContext(ctx).Debug("deleting reduced variable", "index", index, "parent", rv.Infinite)

	ref := model.Ref{Kind: model.RefReduced, Index: index}
	m.rewriteMeasures(m.reducedToMeasures.Dependents(index), ref)
	m.rewriteConstraints(m.reducedToConstraints.Dependents(index), ref)
	m.rewriteObjective(ref)

	m.varToReduced.Unlink(rv.Infinite, index)
	m.reducedToMeasures.RemoveOwner(index)
	m.reducedToConstraints.RemoveOwner(index)
	m.reduced.Remove(index)
	m.markDirty()
	return nil
}

// DeleteMeasure removes a measure, rewriting dependent measures, constraints
// and the objective, and unlinking everything its own expression and
// integration rule referenced.
func (m *Model) DeleteMeasure(ctx context.Context, index int64) error {
	ms, ok := m.measures.Get(index)
	if !ok {
		return fmt.Errorf("%w: measure %d", model.ErrInvalidReference, index)
	}
	ctxlog.FromContext(ctx).Debug("deleting measure", "index", index, "name", ms.Name)

	ref := model.Ref{Kind: model.RefMeasure, Index: index}
	m.rewriteMeasures(m.measureToMeasures.Dependents(index), ref)
	m.rewriteConstraints(m.measureToConstraints.Dependents(index), ref)
	m.rewriteObjective(ref)

	// Hold bounds the measure's expression carried into dependent
	// constraints are gone with the reference.
	if err := m.relaxConstraints(m.constraintsTouchingMeasure(index)); err != nil {
		return err
	}

	for _, r := range ms.Expr.Refs() {
		switch r.Kind {
		case model.RefParameter:
			m.paramToMeasures.Unlink(r.Index, index)
		case model.RefVariable:
			m.varToMeasures.Unlink(r.Index, index)
		case model.RefReduced:
			m.reducedToMeasures.Unlink(r.Index, index)
		case model.RefMeasure:
			m.measureToMeasures.Unlink(r.Index, index)
		}
	}
	for _, pi := range ms.Data.ParameterIndexes() {
		m.paramToMeasures.Unlink(pi, index)
	}

	m.measureToMeasures.RemoveOwner(index)
	m.measureToConstraints.RemoveOwner(index)
	m.measures.Remove(index)
	m.measNames = nil
	m.markDirty()
	return nil
}

// DeleteConstraint removes a constraint and unlinks every reverse-index
// entry its expression and original sub-domain created. Deleting a
// numeric-info constraint also clears the matching flag on its variable.
func (m *Model) DeleteConstraint(ctx context.Context, index int64) error {
	c, ok := m.constraints.Get(index)
	if !ok {
		return fmt.Errorf("%w: constraint %d", model.ErrInvalidReference, index)
	}
	ctxlog.FromContext(ctx).Debug("deleting constraint", "index", index, "name", c.Name)

	for _, r := range c.Expr.Refs() {
		switch r.Kind {
		case model.RefParameter:
			m.paramToConstraints.Unlink(r.Index, index)
		case model.RefVariable:
			m.varToConstraints.Unlink(r.Index, index)
		case model.RefReduced:
			m.reducedToConstraints.Unlink(r.Index, index)
		case model.RefMeasure:
			m.measureToConstraints.Unlink(r.Index, index)
		}
	}
	for pi := range c.OrigSubDomain {
		m.paramToConstraints.Unlink(pi, index)
	}

	if owner, isInfo := m.infoOwner[index]; isInfo {
		m.clearInfoSlot(owner)
		delete(m.infoOwner, index)
	}

	m.constraints.Remove(index)
	m.constrNames = nil
	m.markDirty()
	return nil
}

// clearInfoSlot resets the variable flag backed by a deleted numeric-info
// constraint and drops the bookkeeping entry for that slot.
func (m *Model) clearInfoSlot(owner infoOwnerRef) {
	set, ok := m.infoConstraints[owner.Variable]
	if !ok {
		return
	}
	v, live := m.variables.Get(owner.Variable)
	var info model.VariableInfo
	if live {
		info = v.Info()
	}
	switch owner.Slot {
	case slotLower:
		set.Lower = 0
		info.HasLower, info.Lower = false, 0
	case slotUpper:
		set.Upper = 0
		info.HasUpper, info.Upper = false, 0
	case slotFix:
		set.Fix = 0
		info.HasFix, info.FixValue = false, 0
	case slotIntegrality:
		set.Integrality = 0
		info.Binary, info.Integer = false, false
	}
	if set == (infoConstraintSet{}) {
		delete(m.infoConstraints, owner.Variable)
	} else {
		m.infoConstraints[owner.Variable] = set
	}
	if live {
		m.variables.Replace(owner.Variable, v.WithInfo(info))
	}
}

// rewriteMeasures strips a reference from each listed measure's expression,
// zeroing expressions that were exactly that entity, and renames the
// measures to reflect their new expressions.
func (m *Model) rewriteMeasures(deps []int64, ref model.Ref) {
	for _, mi := range deps {
		ms, ok := m.measures.Get(mi)
		if !ok {
			continue
		}
		ms.Expr = stripRef(ms.Expr, ref)
		ms.Name = measureLabel(ms)
		m.measures.Replace(mi, ms)
	}
	if len(deps) > 0 {
		m.measNames = nil
	}
}

// rewriteConstraints strips a reference from each listed constraint's
// expression. Constraints keep their names.
func (m *Model) rewriteConstraints(deps []int64, ref model.Ref) {
	for _, ci := range deps {
		c, ok := m.constraints.Get(ci)
		if !ok {
			continue
		}
		c.Expr = stripRef(c.Expr, ref)
		m.constraints.Replace(ci, c)
	}
}

// rewriteObjective strips a reference from the objective expression.
func (m *Model) rewriteObjective(ref model.Ref) {
	if !m.objective.Expr.ContainsRef(ref) {
		return
	}
	m.objective.Expr = stripRef(m.objective.Expr, ref)
}

// stripRef zeroes an expression that is exactly the removed entity,
// otherwise removes just that entity's terms.
func stripRef(e model.Expr, ref model.Ref) model.Expr {
	if e.IsSingleRef(ref) {
		return model.ZeroExpr()
	}
	return e.WithoutRef(ref)
}

// measureLabel derives a measure's display name from its integration rule
// and current expression, preserving the base name before any parenthesis.
func measureLabel(ms model.Measure) string {
	base := ms.Name
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		base = "measure"
	}
	return base + "(" + exprDigest(ms.Expr) + ")"
}

// exprDigest renders a compact structural summary of an expression.
func exprDigest(e model.Expr) string {
	if e.IsZero() {
		return "0"
	}
	var parts []string
	for _, t := range e.Terms {
		parts = append(parts, fmt.Sprintf("%g*%s", t.Coeff, t.Ref))
	}
	for _, q := range e.Quad {
		parts = append(parts, fmt.Sprintf("%g*%s*%s", q.Coeff, q.A, q.B))
	}
	if e.Constant != 0 {
		parts = append(parts, fmt.Sprintf("%g", e.Constant))
	}
	return strings.Join(parts, " + ")
}
