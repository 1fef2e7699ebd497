package entitystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_AssignsMonotonicIndices(t *testing.T) {
	s := New[string]()

	assert.Equal(t, int64(1), s.Add("a"))
	assert.Equal(t, int64(2), s.Add("b"))
	assert.Equal(t, int64(3), s.Add("c"))
}

func TestAdd_NeverReusesIndices(t *testing.T) {
	s := New[string]()
	first := s.Add("a")
	require.True(t, s.Remove(first))

	second := s.Add("b")
	assert.NotEqual(t, first, second)
	assert.Equal(t, first+1, second)
}

func TestGet_Missing(t *testing.T) {
	s := New[string]()
	_, ok := s.Get(42)
	assert.False(t, ok)
}

func TestReplace_KeepsIndexStable(t *testing.T) {
	s := New[string]()
	idx := s.Add("old")

	require.True(t, s.Replace(idx, "new"))
	got, ok := s.Get(idx)
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestReplace_MissingIndex(t *testing.T) {
	s := New[string]()
	assert.False(t, s.Replace(7, "x"))
}

func TestRemove(t *testing.T) {
	s := New[string]()
	idx := s.Add("a")

	require.True(t, s.Remove(idx))
	assert.False(t, s.Has(idx))
	assert.False(t, s.Remove(idx))
	assert.Equal(t, 0, s.Len())
}

func TestIndices_Sorted(t *testing.T) {
	s := New[int]()
	for i := 0; i < 5; i++ {
		s.Add(i)
	}
	require.True(t, s.Remove(3))

	assert.Equal(t, []int64{1, 2, 4, 5}, s.Indices())
}
