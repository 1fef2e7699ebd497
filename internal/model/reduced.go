package model

// ReducedVariable is an internal partial evaluation of an infinite variable:
// some parameter slots are pinned to fixed support values while the rest stay
// free. Produced when a measure over a subset of a variable's parameters is
// expanded; it cannot exist without its parent.
type ReducedVariable struct {
	Handle   Handle
	Infinite int64           // parent infinite variable index
	Eval     map[int]float64 // slot position -> pinned value
}
