package container_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/model"
)

func TestSnapshot_SortedByIndex(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	g := addInfiniteVar(t, m, "g", p)
	x := addHoldVar(t, m, "x", nil)
	y := addHoldVar(t, m, "y", nil)
	require.NoError(t, m.DeleteVariable(context.Background(), x))

	snap := m.Snapshot()
	require.Len(t, snap.Variables, 2)
	assert.Equal(t, g, snap.Variables[0].Index)
	assert.Equal(t, y, snap.Variables[1].Index)
	require.Len(t, snap.Parameters, 1)
	assert.Equal(t, p, snap.Parameters[0].Index)
}

func TestSnapshot_CarriesObjectiveAndReady(t *testing.T) {
	m := container.New()
	x := addHoldVar(t, m, "x", nil)
	require.NoError(t, m.SetObjective(model.Maximize, linear(varRef(x))))

	snap := m.Snapshot()
	assert.Equal(t, model.Maximize, snap.Objective.Sense)
	assert.False(t, snap.Ready)

	m.SetReady()
	assert.True(t, m.Snapshot().Ready)
}

func TestSnapshot_Deterministic(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	x := addHoldVar(t, m, "x", model.Bounds{p: {Lower: 0, Upper: 2}})
	_, err := m.AddConstraint(model.Constraint{
		Name: "cap", Expr: linear(varRef(x)), Sense: model.SenseLE, RHS: 5,
	})
	require.NoError(t, err)

	a := m.Snapshot()
	b := m.Snapshot()
	assert.Equal(t, a, b)
}
