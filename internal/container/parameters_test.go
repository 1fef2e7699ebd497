package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/interval"
	"github.com/vk/infiniopt/internal/model"
)

func TestAddParameter_FreshGroups(t *testing.T) {
	m := container.New()
	p1 := addIntervalParam(t, m, "t", 0, 10)
	p2 := addIntervalParam(t, m, "s", 0, 1)

	a, err := m.Parameter(p1)
	require.NoError(t, err)
	b, err := m.Parameter(p2)
	require.NoError(t, err)

	assert.NotEqual(t, a.GroupID, b.GroupID)
	assert.Equal(t, []int64{p1}, m.GroupMembers(a.GroupID))
	assert.Equal(t, m.ID(), a.Handle.Container)
	assert.Equal(t, p1, a.Handle.Index)
}

func TestAddParameterGroup_SharedGroup(t *testing.T) {
	m := container.New()
	dom := model.Domain{Kind: model.IntervalDomain, Interval: interval.Interval{Lower: 0, Upper: 1}}

	indices, err := m.AddParameterGroup([]model.Parameter{
		{Name: "xi[1]", Domain: dom},
		{Name: "xi[2]", Domain: dom},
		{Name: "xi[3]", Domain: dom},
	})
	require.NoError(t, err)
	require.Len(t, indices, 3)

	first, err := m.Parameter(indices[0])
	require.NoError(t, err)
	assert.Equal(t, indices, m.GroupMembers(first.GroupID))
}

func TestAddParameterGroup_Empty(t *testing.T) {
	m := container.New()
	_, err := m.AddParameterGroup(nil)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestAddParameter_SupportOutsideDomain(t *testing.T) {
	m := container.New()
	_, err := m.AddParameter(model.Parameter{
		Name: "t",
		Domain: model.Domain{
			Kind:     model.IntervalDomain,
			Interval: interval.Interval{Lower: 0, Upper: 10},
		},
		Supports: []float64{12},
	})
	assert.ErrorIs(t, err, model.ErrBoundViolation)
}

func TestAddParameter_CopiesCallerSupports(t *testing.T) {
	m := container.New()
	supports := []float64{5, 0}
	p, err := m.AddParameter(model.Parameter{
		Name: "t",
		Domain: model.Domain{
			Kind:     model.IntervalDomain,
			Interval: interval.Interval{Lower: 0, Upper: 10},
		},
		Supports: supports,
	})
	require.NoError(t, err)

	// The caller keeps its slice; the stored payload must not alias it.
	assert.Equal(t, []float64{5, 0}, supports)
	supports[0] = 9
	got, err := m.Parameter(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5}, got.Supports)
}

func TestAddSupports_SortsAndDedupes(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)

	require.NoError(t, m.AddSupports(p, 5, 0, 5, 10))
	got, err := m.Parameter(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 10}, got.Supports)
}

func TestAddSupports_OutsideDomain(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)

	err := m.AddSupports(p, 11)
	assert.ErrorIs(t, err, model.ErrBoundViolation)
}

func TestDeleteParameter_InUse(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)
	addInfiniteVar(t, m, "g", p)

	err := m.DeleteParameter(p)
	assert.ErrorIs(t, err, model.ErrDependencyConflict)

	used, err := m.ParameterUsed(p)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestDeleteParameter_Unused(t *testing.T) {
	m := container.New()
	p := addIntervalParam(t, m, "t", 0, 10)

	require.NoError(t, m.DeleteParameter(p))
	_, err := m.Parameter(p)
	assert.ErrorIs(t, err, model.ErrInvalidReference)

	// Usage queries on a dead index are themselves errors, never "false".
	_, err = m.ParameterUsed(p)
	assert.ErrorIs(t, err, model.ErrInvalidReference)
}

func TestDeleteParameter_IndexNeverReused(t *testing.T) {
	m := container.New()
	p1 := addIntervalParam(t, m, "t", 0, 10)
	require.NoError(t, m.DeleteParameter(p1))

	p2 := addIntervalParam(t, m, "s", 0, 1)
	assert.Greater(t, p2, p1)
}

func TestCopyParameterTo_Rehomes(t *testing.T) {
	src := container.New()
	dst := container.New()
	p := addIntervalParam(t, src, "t", 0, 10)
	require.NoError(t, src.AddSupports(p, 5))

	copied, err := src.CopyParameterTo(dst, p)
	require.NoError(t, err)

	got, err := dst.Parameter(copied)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Name)
	assert.Equal(t, dst.ID(), got.Handle.Container)
	assert.Equal(t, []float64{5}, got.Supports)

	// The source entity stays untouched and keeps its own home.
	orig, err := src.Parameter(p)
	require.NoError(t, err)
	assert.Equal(t, src.ID(), orig.Handle.Container)
}
