// Package entitystore provides the index-keyed storage backend for model
// entities. Each store hands out monotonically increasing indices and never
// reuses an index after removal, so a live index uniquely identifies one
// entity for the lifetime of its container.
package entitystore

import "sort"

// Store maps int64 indices to payloads of one entity kind.
type Store[T any] struct {
	next  int64
	items map[int64]T
}

// New creates an empty store. The first assigned index is 1.
func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[int64]T)}
}

// Add stores v under a fresh index and returns that index.
func (s *Store[T]) Add(v T) int64 {
	s.next++
	s.items[s.next] = v
	return s.next
}

// Get returns the payload at index, and whether it exists.
func (s *Store[T]) Get(index int64) (T, bool) {
	v, ok := s.items[index]
	return v, ok
}

// Has reports whether index currently holds a payload.
func (s *Store[T]) Has(index int64) bool {
	_, ok := s.items[index]
	return ok
}

// Replace swaps the payload stored at index. The index must be live; payload
// mutation is always modeled as full replacement at a stable index.
func (s *Store[T]) Replace(index int64, v T) bool {
	if _, ok := s.items[index]; !ok {
		return false
	}
	s.items[index] = v
	return true
}

// Remove purges the payload at index. The index is never handed out again.
func (s *Store[T]) Remove(index int64) bool {
	if _, ok := s.items[index]; !ok {
		return false
	}
	delete(s.items, index)
	return true
}

// Len returns the number of live entities.
func (s *Store[T]) Len() int {
	return len(s.items)
}

// Indices returns all live indices in ascending order.
func (s *Store[T]) Indices() []int64 {
	out := make([]int64, 0, len(s.items))
	for i := range s.items {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
