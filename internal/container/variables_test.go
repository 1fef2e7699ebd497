package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/interval"
	"github.com/vk/infiniopt/internal/model"
)

func TestAddVariable_InfiniteLinksParameters(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	g := addInfiniteVar(t, m, "g", p)

	used, err := m.ParameterUsed(p)
	require.NoError(t, err)
	assert.True(t, used)

	v, err := m.Variable(g)
	require.NoError(t, err)
	assert.Equal(t, model.InfiniteKind, v.Kind())
	assert.Equal(t, m.ID(), v.HandleOf().Container)
}

func TestAddVariable_InfiniteNeedsParameters(t *testing.T) {
	m := container.New()
	_, err := m.AddVariable(model.InfiniteVariable{Name: "g"})
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestAddVariable_DeadParameterRef(t *testing.T) {
	m := container.New()
	_, err := m.AddVariable(model.InfiniteVariable{Name: "g", ParameterRefs: [][]int64{{42}}})
	assert.ErrorIs(t, err, model.ErrInvalidReference)
}

func TestAddVariable_GroupInTwoSlots(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)

	_, err := m.AddVariable(model.InfiniteVariable{Name: "g", ParameterRefs: [][]int64{{p}, {p}}})
	assert.ErrorIs(t, err, model.ErrDuplicateGroup)
}

func TestAddVariable_SlotMixingGroups(t *testing.T) {
	m := container.New()
	p1 := addIntervalParam(t, m, "t", 0, 10)
	p2 := addIntervalParam(t, m, "s", 0, 1)

	_, err := m.AddVariable(model.InfiniteVariable{Name: "g", ParameterRefs: [][]int64{{p1, p2}}})
	assert.ErrorIs(t, err, model.ErrDuplicateGroup)
}

func TestAddVariable_PointShapeMismatch(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	g := addInfiniteVar(t, m, "g", p)

	_, err := m.AddVariable(model.PointVariable{Name: "g0", Infinite: g, Values: [][]float64{{0}, {1}}})
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestAddVariable_PointValueOutsideDomain(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	g := addInfiniteVar(t, m, "g", p)

	_, err := m.AddVariable(model.PointVariable{Name: "g0", Infinite: g, Values: [][]float64{{12}}})
	assert.ErrorIs(t, err, model.ErrBoundViolation)
}

func TestAddVariable_PointParentMustBeInfinite(t *testing.T) {
	m := container.New()
	x := addHoldVar(t, m, "x", nil)

	_, err := m.AddVariable(model.PointVariable{Name: "x0", Infinite: x, Values: [][]float64{{0}}})
	assert.ErrorIs(t, err, model.ErrInvalidReference)
}

func TestAddVariable_PointInheritsParentInfo(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	g, err := m.AddVariable(model.InfiniteVariable{
		Name:          "g",
		ParameterRefs: [][]int64{{p}},
		VarInfo:       model.VariableInfo{HasLower: true, Lower: 0, HasUpper: true, Upper: 1},
	})
	require.NoError(t, err)

	pt, err := m.AddVariable(model.PointVariable{Name: "g5", Infinite: g, Values: [][]float64{{5}}})
	require.NoError(t, err)

	v, err := m.Variable(pt)
	require.NoError(t, err)
	info := v.Info()
	assert.True(t, info.HasLower)
	assert.Equal(t, 0.0, info.Lower)
	assert.True(t, info.HasUpper)
	assert.Equal(t, 1.0, info.Upper)

	// The snapshot is one-way: tightening the parent later must not
	// propagate to the already-created point.
	require.NoError(t, m.SetVariableName(g, "g"))
	v2, err := m.Variable(pt)
	require.NoError(t, err)
	assert.Equal(t, info, v2.Info())
}

func TestAddVariable_InvalidInfo(t *testing.T) {
	m := container.New()
	_, err := m.AddVariable(model.HoldVariable{
		Name:    "x",
		VarInfo: model.VariableInfo{HasFix: true, FixValue: 1, HasLower: true},
	})
	assert.ErrorIs(t, err, model.ErrDependencyConflict)
}

func TestAddVariable_MaterializesInfoConstraints(t *testing.T) {
	m := container.New()
	x, err := m.AddVariable(model.HoldVariable{
		Name:    "x",
		VarInfo: model.VariableInfo{HasLower: true, Lower: 0, HasUpper: true, Upper: 1, Integer: true},
	})
	require.NoError(t, err)

	snap := m.Snapshot()
	require.Len(t, snap.Constraints, 3)

	senses := make(map[model.Sense]float64)
	for _, cr := range snap.Constraints {
		isInfo, err := m.ConstraintIsInfo(cr.Index)
		require.NoError(t, err)
		assert.True(t, isInfo)
		assert.True(t, cr.Constraint.Expr.IsSingleRef(varRef(x)))
		senses[cr.Constraint.Sense] = cr.Constraint.RHS
	}
	assert.Equal(t, map[model.Sense]float64{
		model.SenseGE:      0,
		model.SenseLE:      1,
		model.SenseInteger: 0,
	}, senses)

	// Info constraints never count as external usage of their variable.
	used, err := m.VariableUsedByConstraint(x)
	require.NoError(t, err)
	assert.False(t, used)
}

func TestAddVariable_InfoConstraintsCarryHoldBounds(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	_, err := m.AddVariable(model.HoldVariable{
		Name:      "x",
		VarInfo:   model.VariableInfo{HasLower: true, Lower: 0},
		SubDomain: model.Bounds{p: {Lower: 0, Upper: 2}},
	})
	require.NoError(t, err)

	snap := m.Snapshot()
	require.Len(t, snap.Constraints, 1)
	assert.True(t, snap.Constraints[0].Constraint.SubDomain.Equal(model.Bounds{p: {Lower: 0, Upper: 2}}))
}

func TestSetInfiniteParameterRefs_Replaces(t *testing.T) {
	m := container.New()
	p1 := addIntervalParam(t, m, "t", 0, 10)
	p2 := addIntervalParam(t, m, "s", 0, 1)
	g := addInfiniteVar(t, m, "g", p1)

	require.NoError(t, m.SetInfiniteParameterRefs(g, [][]int64{{p2}}))

	used, err := m.ParameterUsed(p1)
	require.NoError(t, err)
	assert.False(t, used)
	used, err = m.ParameterUsed(p2)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestSetInfiniteParameterRefs_WithPointDependent(t *testing.T) {
	m := container.New()
	p1 := addIntervalParam(t, m, "t", 0, 10)
	p2 := addIntervalParam(t, m, "s", 0, 1)
	g := addInfiniteVar(t, m, "g", p1)
	_, err := m.AddVariable(model.PointVariable{Name: "g0", Infinite: g, Values: [][]float64{{0}}})
	require.NoError(t, err)

	err = m.SetInfiniteParameterRefs(g, [][]int64{{p2}})
	assert.ErrorIs(t, err, model.ErrDependencyConflict)
}

func TestSetHoldBounds_OutsideDomain(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	x := addHoldVar(t, m, "x", nil)

	err := m.SetHoldBounds(x, model.Bounds{p: {Lower: 3, Upper: 12}}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBoundViolation)

	// Validate-before-mutate: the variable must be exactly as before.
	v, err := m.Variable(x)
	require.NoError(t, err)
	assert.Nil(t, v.(model.HoldVariable).SubDomain)
}

func TestSetHoldBounds_AlreadyBoundedNeedsForce(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	x := addHoldVar(t, m, "x", model.Bounds{p: {Lower: 1, Upper: 3}})

	err := m.SetHoldBounds(x, model.Bounds{p: {Lower: 0, Upper: 2}}, false)
	assert.ErrorIs(t, err, model.ErrDependencyConflict)

	require.NoError(t, m.SetHoldBounds(x, model.Bounds{p: {Lower: 0, Upper: 2}}, true))
	v, err := m.Variable(x)
	require.NoError(t, err)
	assert.True(t, v.(model.HoldVariable).SubDomain.Equal(model.Bounds{p: {Lower: 0, Upper: 2}}))
}

func TestSetHoldBounds_RetightensDependentConstraints(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	x := addHoldVar(t, m, "x", nil)

	ci, err := m.AddConstraint(model.Constraint{
		Name: "cap", Expr: linear(varRef(x)), Sense: model.SenseLE, RHS: 5,
	})
	require.NoError(t, err)

	require.NoError(t, m.SetHoldBounds(x, model.Bounds{p: {Lower: 0, Upper: 2}}, false))

	c, err := m.Constraint(ci)
	require.NoError(t, err)
	assert.True(t, c.SubDomain.Equal(model.Bounds{p: {Lower: 0, Upper: 2}}))
	assert.Nil(t, c.OrigSubDomain)
}

func TestDeleteHoldBounds_RestoresOriginalForm(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	x := addHoldVar(t, m, "x", model.Bounds{p: {Lower: 0, Upper: 2}})

	ci, err := m.AddConstraint(model.Constraint{
		Name: "cap", Expr: linear(varRef(x)), Sense: model.SenseLE, RHS: 5,
		SubDomain: model.Bounds{p: {Lower: 1, Upper: 5}},
	})
	require.NoError(t, err)

	c, err := m.Constraint(ci)
	require.NoError(t, err)
	require.True(t, c.SubDomain.Equal(model.Bounds{p: {Lower: 1, Upper: 2}}))

	require.NoError(t, m.DeleteHoldBounds(x))

	c, err = m.Constraint(ci)
	require.NoError(t, err)
	assert.True(t, c.SubDomain.Equal(model.Bounds{p: {Lower: 1, Upper: 5}}))
	assert.True(t, c.OrigSubDomain.Equal(model.Bounds{p: {Lower: 1, Upper: 5}}))
	assert.False(t, m.HasHoldBounds())
}

func TestHoldBounds_PointIntervalRegistersSupport(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	addHoldVar(t, m, "x", model.Bounds{p: {Lower: 5, Upper: 5}})

	got, err := m.Parameter(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, got.Supports)
}

func TestSetHoldBounds_NotHoldVariable(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	g := addInfiniteVar(t, m, "g", p)

	err := m.SetHoldBounds(g, model.Bounds{p: interval.Unbounded()}, false)
	assert.ErrorIs(t, err, model.ErrInvalidReference)
}
