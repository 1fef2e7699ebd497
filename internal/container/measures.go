package container

import (
	"fmt"
	"sort"

	"github.com/vk/infiniopt/internal/model"
)

// AddMeasure validates and stores a measure, wires its cross-references and
// synchronizes its support points onto the integrated parameters. Returns
// the new index.
func (m *Model) AddMeasure(ms model.Measure) (int64, error) {
	if err := m.validateExprRefs(ms.Expr); err != nil {
		return 0, err
	}
	if err := m.validateMeasureData(ms.Data); err != nil {
		return 0, err
	}

	idx := m.measures.Add(ms)
	ms.Handle = m.handleFor(idx)
	m.measures.Replace(idx, ms)

	for _, r := range ms.Expr.Refs() {
		switch r.Kind {
		case model.RefParameter:
			m.paramToMeasures.Link(r.Index, idx)
		case model.RefVariable:
			m.varToMeasures.Link(r.Index, idx)
		case model.RefReduced:
			m.reducedToMeasures.Link(r.Index, idx)
		case model.RefMeasure:
			m.measureToMeasures.Link(r.Index, idx)
		}
	}
	for _, pi := range ms.Data.ParameterIndexes() {
		m.paramToMeasures.Link(pi, idx)
	}
	m.syncMeasureSupports(ms.Data)

	m.measNames = nil
	m.markDirty()
	return idx, nil
}

// Measure returns the payload at index.
func (m *Model) Measure(index int64) (model.Measure, error) {
	ms, ok := m.measures.Get(index)
	if !ok {
		return model.Measure{}, fmt.Errorf("%w: measure %d", model.ErrInvalidReference, index)
	}
	return ms, nil
}

// SetMeasureName renames a measure and invalidates the name cache.
func (m *Model) SetMeasureName(index int64, name string) error {
	ms, ok := m.measures.Get(index)
	if !ok {
		return fmt.Errorf("%w: measure %d", model.ErrInvalidReference, index)
	}
	ms.Name = name
	m.measures.Replace(index, ms)
	m.measNames = nil
	return nil
}

// MeasureUsedByMeasure reports whether other measures reference the measure.
func (m *Model) MeasureUsedByMeasure(index int64) (bool, error) {
	if !m.measures.Has(index) {
		return false, fmt.Errorf("%w: measure %d", model.ErrInvalidReference, index)
	}
	return m.measureToMeasures.IsUsed(index), nil
}

// MeasureUsedByConstraint reports whether constraints reference the measure.
func (m *Model) MeasureUsedByConstraint(index int64) (bool, error) {
	if !m.measures.Has(index) {
		return false, fmt.Errorf("%w: measure %d", model.ErrInvalidReference, index)
	}
	return m.measureToConstraints.IsUsed(index), nil
}

// MeasureUsedByObjective reports whether the objective references the
// measure.
func (m *Model) MeasureUsedByObjective(index int64) (bool, error) {
	if !m.measures.Has(index) {
		return false, fmt.Errorf("%w: measure %d", model.ErrInvalidReference, index)
	}
	return m.objective.Expr.ContainsRef(model.Ref{Kind: model.RefMeasure, Index: index}), nil
}

// MeasureUsed reports whether anything still depends on the measure.
func (m *Model) MeasureUsed(index int64) (bool, error) {
	for _, probe := range []func(int64) (bool, error){
		m.MeasureUsedByMeasure,
		m.MeasureUsedByConstraint,
		m.MeasureUsedByObjective,
	} {
		used, err := probe(index)
		if err != nil || used {
			return used, err
		}
	}
	return false, nil
}

// AddReducedVariable stores a partial evaluation of an infinite variable.
// Created by the transcription backend while expanding measures.
func (m *Model) AddReducedVariable(rv model.ReducedVariable) (int64, error) {
	parent, err := m.infiniteParent(rv.Infinite)
	if err != nil {
		return 0, err
	}
	if len(rv.Eval) == 0 {
		return 0, fmt.Errorf("%w: reduced variable pins no slots", model.ErrShapeMismatch)
	}
	for slot, val := range rv.Eval {
		if slot < 0 || slot >= len(parent.ParameterRefs) {
			return 0, fmt.Errorf("%w: slot %d outside tuple of length %d",
				model.ErrShapeMismatch, slot, len(parent.ParameterRefs))
		}
		refs := parent.ParameterRefs[slot]
		if len(refs) == 1 {
			p, _ := m.parameters.Get(refs[0])
			if p.Domain.Kind == model.IntervalDomain && !p.Domain.Interval.ContainsValue(val) {
				return 0, fmt.Errorf("%w: value %g outside domain %s of parameter %q",
					model.ErrBoundViolation, val, p.Domain.Interval, p.Name)
			}
		}
	}

	eval := make(map[int]float64, len(rv.Eval))
	for k, v := range rv.Eval {
		eval[k] = v
	}
	rv.Eval = eval
	idx := m.reduced.Add(rv)
	rv.Handle = m.handleFor(idx)
	m.reduced.Replace(idx, rv)
	m.varToReduced.Link(rv.Infinite, idx)
	m.markDirty()
	return idx, nil
}

// ReducedVariable returns the payload at index.
func (m *Model) ReducedVariable(index int64) (model.ReducedVariable, error) {
	rv, ok := m.reduced.Get(index)
	if !ok {
		return model.ReducedVariable{}, fmt.Errorf("%w: reduced variable %d", model.ErrInvalidReference, index)
	}
	return rv, nil
}

// constraintsTouchingMeasure returns every constraint whose expression
// reaches the measure directly or through other measures, in ascending order.
func (m *Model) constraintsTouchingMeasure(index int64) []int64 {
	found := make(map[int64]bool)
	seen := map[int64]bool{index: true}
	queue := []int64{index}
	for len(queue) > 0 {
		mi := queue[0]
		queue = queue[1:]
		for _, ci := range m.measureToConstraints.Dependents(mi) {
			found[ci] = true
		}
		for _, next := range m.measureToMeasures.Dependents(mi) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	out := make([]int64, 0, len(found))
	for ci := range found {
		out = append(out, ci)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// validateMeasureData checks the integration rule: live parameters, matching
// coefficient/support shapes, and supports inside interval domains.
func (m *Model) validateMeasureData(d model.MeasureData) error {
	switch data := d.(type) {
	case model.SingleMeasureData:
		p, ok := m.parameters.Get(data.Parameter)
		if !ok {
			return fmt.Errorf("%w: parameter %d in measure data", model.ErrInvalidReference, data.Parameter)
		}
		if len(data.Supports) == 0 || len(data.Coefficients) != len(data.Supports) {
			return fmt.Errorf("%w: %d coefficients for %d supports",
				model.ErrShapeMismatch, len(data.Coefficients), len(data.Supports))
		}
		if p.Domain.Kind == model.IntervalDomain {
			for _, s := range data.Supports {
				if !p.Domain.Interval.ContainsValue(s) {
					return fmt.Errorf("%w: support %g outside domain %s of parameter %q",
						model.ErrBoundViolation, s, p.Domain.Interval, p.Name)
				}
			}
		}
	case model.MultiMeasureData:
		if len(data.Parameters) == 0 {
			return fmt.Errorf("%w: measure data names no parameters", model.ErrShapeMismatch)
		}
		params := make([]model.Parameter, len(data.Parameters))
		for i, pi := range data.Parameters {
			p, ok := m.parameters.Get(pi)
			if !ok {
				return fmt.Errorf("%w: parameter %d in measure data", model.ErrInvalidReference, pi)
			}
			params[i] = p
		}
		if len(data.SupportRows) == 0 || len(data.Coefficients) != len(data.SupportRows) {
			return fmt.Errorf("%w: %d coefficients for %d support rows",
				model.ErrShapeMismatch, len(data.Coefficients), len(data.SupportRows))
		}
		for _, row := range data.SupportRows {
			if len(row) != len(data.Parameters) {
				return fmt.Errorf("%w: support row has %d values for %d parameters",
					model.ErrShapeMismatch, len(row), len(data.Parameters))
			}
			for i, v := range row {
				if params[i].Domain.Kind == model.IntervalDomain && !params[i].Domain.Interval.ContainsValue(v) {
					return fmt.Errorf("%w: support %g outside domain %s of parameter %q",
						model.ErrBoundViolation, v, params[i].Domain.Interval, params[i].Name)
				}
			}
		}
	default:
		return fmt.Errorf("%w: unsupported measure data %T", model.ErrInvalidReference, d)
	}
	return nil
}

// syncMeasureSupports folds an integration rule's support points into the
// parameters' own support lists so discretization sees them.
func (m *Model) syncMeasureSupports(d model.MeasureData) {
	switch data := d.(type) {
	case model.SingleMeasureData:
		for _, s := range data.Supports {
			m.registerSupport(data.Parameter, s)
		}
	case model.MultiMeasureData:
		for _, row := range data.SupportRows {
			for i, v := range row {
				m.registerSupport(data.Parameters[i], v)
			}
		}
	}
}
