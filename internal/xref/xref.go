// Package xref maintains one many-to-many adjacency relation between two
// entity kinds: owner index -> dependent indices. A container holds one Index
// per ordered pair of kinds that can reference each other; together they form
// the model's dependency graph.
package xref

// Index is a single owner->dependents relation.
//
// Absence of a key means "no dependents"; an entry is deleted outright when
// its list empties, so usage checks are a plain key lookup.
type Index struct {
	deps map[int64][]int64
}

// New creates an empty relation.
func New() *Index {
	return &Index{deps: make(map[int64][]int64)}
}

// Link records dependent under owner. Linking the same pair twice is a no-op.
func (x *Index) Link(owner, dependent int64) {
	for _, d := range x.deps[owner] {
		if d == dependent {
			return
		}
	}
	x.deps[owner] = append(x.deps[owner], dependent)
}

// Unlink removes dependent from owner's list, deleting the entry entirely
// when the list becomes empty.
func (x *Index) Unlink(owner, dependent int64) {
	list, ok := x.deps[owner]
	if !ok {
		return
	}
	for i, d := range list {
		if d == dependent {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(x.deps, owner)
		return
	}
	x.deps[owner] = list
}

// Dependents returns a copy of owner's dependent list. Cascades iterate this
// snapshot while unlinking, so the backing list must never be aliased out.
func (x *Index) Dependents(owner int64) []int64 {
	list, ok := x.deps[owner]
	if !ok {
		return nil
	}
	out := make([]int64, len(list))
	copy(out, list)
	return out
}

// IsUsed reports whether owner has any dependents.
func (x *Index) IsUsed(owner int64) bool {
	_, ok := x.deps[owner]
	return ok
}

// RemoveOwner drops owner's entire entry, if any.
func (x *Index) RemoveOwner(owner int64) {
	delete(x.deps, owner)
}
