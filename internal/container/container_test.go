package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/interval"
	"github.com/vk/infiniopt/internal/model"
)

// addIntervalParam stores an independent parameter over [lo, hi].
func addIntervalParam(t *testing.T, m *container.Model, name string, lo, hi float64) int64 {
	t.Helper()
	idx, err := m.AddParameter(model.Parameter{
		Name: name,
		Domain: model.Domain{
			Kind:     model.IntervalDomain,
			Interval: interval.Interval{Lower: lo, Upper: hi},
		},
	})
	require.NoError(t, err)
	return idx
}

// addInfiniteVar stores an infinite variable with one scalar parameter per
// slot.
func addInfiniteVar(t *testing.T, m *container.Model, name string, params ...int64) int64 {
	t.Helper()
	refs := make([][]int64, len(params))
	for i, p := range params {
		refs[i] = []int64{p}
	}
	idx, err := m.AddVariable(model.InfiniteVariable{Name: name, ParameterRefs: refs})
	require.NoError(t, err)
	return idx
}

// addHoldVar stores a hold variable, optionally restricted to a sub-domain.
func addHoldVar(t *testing.T, m *container.Model, name string, sub model.Bounds) int64 {
	t.Helper()
	idx, err := m.AddVariable(model.HoldVariable{Name: name, SubDomain: sub})
	require.NoError(t, err)
	return idx
}

func varRef(index int64) model.Ref {
	return model.Ref{Kind: model.RefVariable, Index: index}
}

func measRef(index int64) model.Ref {
	return model.Ref{Kind: model.RefMeasure, Index: index}
}

func linear(refs ...model.Ref) model.Expr {
	e := model.Expr{}
	for _, r := range refs {
		e.Terms = append(e.Terms, model.Term{Ref: r, Coeff: 1})
	}
	return e
}

func TestNew_EmptyModel(t *testing.T) {
	m := container.New()

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", m.ID().String())
	assert.Zero(t, m.NumParameters())
	assert.Zero(t, m.NumVariables())
	assert.Zero(t, m.NumConstraints())
	assert.False(t, m.IsReady())
	assert.False(t, m.HasHoldBounds())
}

func TestReadyFlag_ClearedByStructuralMutation(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)

	m.SetReady()
	require.True(t, m.IsReady())

	addInfiniteVar(t, m, "g", p)
	assert.False(t, m.IsReady())
}

func TestRename_DoesNotClearReady(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	v := addHoldVar(t, m, "x", nil)

	m.SetReady()
	require.NoError(t, m.SetParameterName(p, "time"))
	require.NoError(t, m.SetVariableName(v, "y"))
	assert.True(t, m.IsReady())
}
