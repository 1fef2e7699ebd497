// Package container implements the model container: the unit of ownership
// for every parameter, variable, measure and constraint, together with the
// bookkeeping that keeps the entity graph consistent under arbitrary
// sequences of add, update and delete operations.
//
// A Model owns one entity store per kind, the reverse adjacency indices that
// form the dependency graph, the sub-domain bound engine, the deletion
// cascade, and the lazily rebuilt name registry. It is single-threaded by
// contract: callers needing concurrent access must serialize externally.
package container

import (
	"github.com/google/uuid"

	"github.com/vk/infiniopt/internal/entitystore"
	"github.com/vk/infiniopt/internal/model"
	"github.com/vk/infiniopt/internal/xref"
)

// infoSlot identifies which numeric-info constraint a constraint index backs.
type infoSlot int

const (
	slotLower infoSlot = iota
	slotUpper
	slotFix
	slotIntegrality
)

// infoConstraintSet records the constraint indices created for a variable's
// numeric info. Zero means the slot is absent.
type infoConstraintSet struct {
	Lower       int64
	Upper       int64
	Fix         int64
	Integrality int64
}

// infoOwnerRef points from an info constraint back to its variable slot.
type infoOwnerRef struct {
	Variable int64
	Slot     infoSlot
}

// Model aggregates all entity state for one optimization model.
type Model struct {
	id uuid.UUID

	parameters  *entitystore.Store[model.Parameter]
	variables   *entitystore.Store[model.Variable]
	reduced     *entitystore.Store[model.ReducedVariable]
	measures    *entitystore.Store[model.Measure]
	constraints *entitystore.Store[model.Constraint]

	// Parameter grouping. Group ids are assigned once at creation.
	nextGroup    int64
	groupMembers map[int64][]int64

	// Reverse adjacency: owner kind -> dependent kind.
	paramToVars          *xref.Index
	paramToMeasures      *xref.Index
	paramToConstraints   *xref.Index
	varToPoints          *xref.Index
	varToReduced         *xref.Index
	varToMeasures        *xref.Index
	varToConstraints     *xref.Index
	reducedToMeasures    *xref.Index
	reducedToConstraints *xref.Index
	measureToMeasures    *xref.Index
	measureToConstraints *xref.Index

	// Numeric-info constraints per variable, and the reverse mapping.
	infoConstraints map[int64]infoConstraintSet
	infoOwner       map[int64]infoOwnerRef

	// Name registry caches. nil means "not built"; an empty map means
	// "built, no names". Entries holding ambiguousIndex mark duplicates.
	paramNames  map[string]int64
	varNames    map[string]int64
	measNames   map[string]int64
	constrNames map[string]int64

	objective model.Objective
	ready     bool
}

// New creates an empty model container with a fresh identity.
func New() *Model {
	return &Model{
		id:                   uuid.New(),
		parameters:           entitystore.New[model.Parameter](),
		variables:            entitystore.New[model.Variable](),
		reduced:              entitystore.New[model.ReducedVariable](),
		measures:             entitystore.New[model.Measure](),
		constraints:          entitystore.New[model.Constraint](),
		groupMembers:         make(map[int64][]int64),
		paramToVars:          xref.New(),
		paramToMeasures:      xref.New(),
		paramToConstraints:   xref.New(),
		varToPoints:          xref.New(),
		varToReduced:         xref.New(),
		varToMeasures:        xref.New(),
		varToConstraints:     xref.New(),
		reducedToMeasures:    xref.New(),
		reducedToConstraints: xref.New(),
		measureToMeasures:    xref.New(),
		measureToConstraints: xref.New(),
		infoConstraints:      make(map[int64]infoConstraintSet),
		infoOwner:            make(map[int64]infoOwnerRef),
	}
}

// ID returns the container's identity, used in entity back-reference handles.
func (m *Model) ID() uuid.UUID {
	return m.id
}

// IsReady reports whether the model is ready to optimize: no structural
// mutation has happened since SetReady.
func (m *Model) IsReady() bool {
	return m.ready
}

// SetReady marks the model ready to optimize. The transcription backend
// calls this after rebuilding its cached discretization.
func (m *Model) SetReady() {
	m.ready = true
}

// markDirty clears readiness. Every structural mutation path ends here.
func (m *Model) markDirty() {
	m.ready = false
}

// HasHoldBounds reports whether any hold variable carries a sub-domain
// restriction.
func (m *Model) HasHoldBounds() bool {
	for _, idx := range m.variables.Indices() {
		v, _ := m.variables.Get(idx)
		if hv, ok := v.(model.HoldVariable); ok && len(hv.SubDomain) > 0 {
			return true
		}
	}
	return false
}

// handleFor builds the back-reference handle for an entity of this model.
func (m *Model) handleFor(index int64) model.Handle {
	return model.Handle{Container: m.id, Index: index}
}

// Objective returns the current optimization target.
func (m *Model) Objective() model.Objective {
	return m.objective
}

// NumParameters returns the number of live parameters.
func (m *Model) NumParameters() int { return m.parameters.Len() }

// NumVariables returns the number of live variables across all variants.
func (m *Model) NumVariables() int { return m.variables.Len() }

// NumReduced returns the number of live reduced variables.
func (m *Model) NumReduced() int { return m.reduced.Len() }

// NumMeasures returns the number of live measures.
func (m *Model) NumMeasures() int { return m.measures.Len() }

// NumConstraints returns the number of live constraints, including the
// internal numeric-info constraints.
func (m *Model) NumConstraints() int { return m.constraints.Len() }
