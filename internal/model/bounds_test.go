package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/infiniopt/internal/interval"
)

func TestBounds_Clone(t *testing.T) {
	assert.Nil(t, Bounds(nil).Clone())

	b := Bounds{1: {Lower: 0, Upper: 2}}
	c := b.Clone()
	c[1] = interval.Interval{Lower: 5, Upper: 6}
	assert.Equal(t, interval.Interval{Lower: 0, Upper: 2}, b[1])
}

func TestBounds_Equal_IgnoresInsertionOrder(t *testing.T) {
	a := Bounds{1: {Lower: 0, Upper: 2}, 2: {Lower: 1, Upper: 3}}
	b := Bounds{2: {Lower: 1, Upper: 3}, 1: {Lower: 0, Upper: 2}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Bounds{1: {Lower: 0, Upper: 2}}))
}

func TestIntersectBounds_NilSides(t *testing.T) {
	b := Bounds{1: {Lower: 0, Upper: 2}}

	got, err := IntersectBounds(nil, b)
	require.NoError(t, err)
	assert.True(t, got.Equal(b))

	got, err = IntersectBounds(b, nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(b))
}

func TestIntersectBounds_SharedKeys(t *testing.T) {
	a := Bounds{1: {Lower: 0, Upper: 5}, 2: {Lower: 0, Upper: 1}}
	b := Bounds{1: {Lower: 3, Upper: 10}, 3: {Lower: 7, Upper: 8}}

	got, err := IntersectBounds(a, b)
	require.NoError(t, err)
	want := Bounds{
		1: {Lower: 3, Upper: 5},
		2: {Lower: 0, Upper: 1},
		3: {Lower: 7, Upper: 8},
	}
	assert.True(t, got.Equal(want))
}

func TestIntersectBounds_Disjoint(t *testing.T) {
	a := Bounds{1: {Lower: 0, Upper: 2}}
	b := Bounds{1: {Lower: 3, Upper: 10}}

	_, err := IntersectBounds(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDisjointBounds)
}
