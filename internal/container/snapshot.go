package container

import "github.com/vk/infiniopt/internal/model"

// ParameterRecord pairs a live index with its payload.
type ParameterRecord struct {
	Index     int64
	Parameter model.Parameter
}

// VariableRecord pairs a live index with its payload.
type VariableRecord struct {
	Index    int64
	Variable model.Variable
}

// ReducedRecord pairs a live index with its payload.
type ReducedRecord struct {
	Index   int64
	Reduced model.ReducedVariable
}

// MeasureRecord pairs a live index with its payload.
type MeasureRecord struct {
	Index   int64
	Measure model.Measure
}

// ConstraintRecord pairs a live index with its payload.
type ConstraintRecord struct {
	Index      int64
	Constraint model.Constraint
}

// Snapshot is the deterministic export consumed by the transcription
// backend: every entity in ascending index order, with payloads carrying
// sub-domain bounds and resolved support lists, plus the readiness flag the
// backend may consult to decide whether to rebuild its cached
// discretization.
type Snapshot struct {
	Parameters  []ParameterRecord
	Variables   []VariableRecord
	Reduced     []ReducedRecord
	Measures    []MeasureRecord
	Constraints []ConstraintRecord
	Objective   model.Objective
	Ready       bool
}

// Snapshot exports the full model state sorted by index.
func (m *Model) Snapshot() Snapshot {
	snap := Snapshot{
		Objective: m.objective,
		Ready:     m.ready,
	}
	for _, idx := range m.parameters.Indices() {
		p, _ := m.parameters.Get(idx)
		snap.Parameters = append(snap.Parameters, ParameterRecord{Index: idx, Parameter: p})
	}
	for _, idx := range m.variables.Indices() {
		v, _ := m.variables.Get(idx)
		snap.Variables = append(snap.Variables, VariableRecord{Index: idx, Variable: v})
	}
	for _, idx := range m.reduced.Indices() {
		rv, _ := m.reduced.Get(idx)
		snap.Reduced = append(snap.Reduced, ReducedRecord{Index: idx, Reduced: rv})
	}
	for _, idx := range m.measures.Indices() {
		ms, _ := m.measures.Get(idx)
		snap.Measures = append(snap.Measures, MeasureRecord{Index: idx, Measure: ms})
	}
	for _, idx := range m.constraints.Indices() {
		c, _ := m.constraints.Get(idx)
		snap.Constraints = append(snap.Constraints, ConstraintRecord{Index: idx, Constraint: c})
	}
	return snap
}
