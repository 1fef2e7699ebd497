package model

import "fmt"

// VariableKind discriminates the closed set of variable variants.
type VariableKind int

const (
	// InfiniteKind marks a variable parameterized over infinite domains.
	InfiniteKind VariableKind = iota
	// PointKind marks an infinite variable evaluated at one support tuple.
	PointKind
	// HoldKind marks a finite variable, optionally restricted to a
	// parameter sub-domain.
	HoldKind
)

func (k VariableKind) String() string {
	switch k {
	case InfiniteKind:
		return "infinite"
	case PointKind:
		return "point"
	case HoldKind:
		return "hold"
	}
	return fmt.Sprintf("VariableKind(%d)", int(k))
}

// VariableInfo is the numeric description shared by every variable variant.
// At most one of fix and the bound pair may be active, and Binary and
// Integer are mutually exclusive.
type VariableInfo struct {
	HasLower bool
	Lower    float64
	HasUpper bool
	Upper    float64
	HasFix   bool
	FixValue float64
	HasStart bool
	Start    float64
	Binary   bool
	Integer  bool
}

// Validate checks the internal consistency of the info block.
func (info VariableInfo) Validate() error {
	if info.HasFix && (info.HasLower || info.HasUpper) {
		return fmt.Errorf("%w: fixed value excludes explicit bounds", ErrDependencyConflict)
	}
	if info.Binary && info.Integer {
		return fmt.Errorf("%w: binary and integer are mutually exclusive", ErrDependencyConflict)
	}
	if info.HasLower && info.HasUpper && info.Lower > info.Upper {
		return fmt.Errorf("%w: lower bound %g exceeds upper bound %g", ErrBoundViolation, info.Lower, info.Upper)
	}
	return nil
}

// Variable is the tagged union over the three variable variants. All
// implementations are immutable value payloads; mutation is modeled as
// payload replacement at a stable index.
type Variable interface {
	Kind() VariableKind
	VariableName() string
	Info() VariableInfo
	HandleOf() Handle
	// Renamed returns a copy of the payload carrying the new display name.
	Renamed(name string) Variable
	// Rehomed returns a copy bound to a new owning handle.
	Rehomed(h Handle) Variable
	// WithInfo returns a copy carrying replaced numeric info.
	WithInfo(info VariableInfo) Variable
}

// InfiniteVariable depends on an ordered tuple of parameter groups. Each slot
// holds either one scalar parameter index or the indices of one whole group.
type InfiniteVariable struct {
	Handle        Handle
	Name          string
	ParameterRefs [][]int64
	VarInfo       VariableInfo
}

func (v InfiniteVariable) Kind() VariableKind   { return InfiniteKind }
func (v InfiniteVariable) VariableName() string { return v.Name }
func (v InfiniteVariable) Info() VariableInfo   { return v.VarInfo }
func (v InfiniteVariable) HandleOf() Handle     { return v.Handle }

func (v InfiniteVariable) Renamed(name string) Variable {
	v.Name = name
	return v
}

func (v InfiniteVariable) Rehomed(h Handle) Variable {
	v.Handle = h
	return v
}

func (v InfiniteVariable) WithInfo(info VariableInfo) Variable {
	v.VarInfo = info
	return v
}

// ScalarParameters returns the flattened parameter indices of the tuple.
func (v InfiniteVariable) ScalarParameters() []int64 {
	var out []int64
	for _, slot := range v.ParameterRefs {
		out = append(out, slot...)
	}
	return out
}

// PointVariable is an infinite variable evaluated at one concrete value
// tuple. Numeric info is a one-way snapshot merged from the parent at
// creation time.
type PointVariable struct {
	Handle   Handle
	Name     string
	Infinite int64       // parent infinite variable index
	Values   [][]float64 // matches the parent's slot shape
	VarInfo  VariableInfo
}

func (v PointVariable) Kind() VariableKind   { return PointKind }
func (v PointVariable) VariableName() string { return v.Name }
func (v PointVariable) Info() VariableInfo   { return v.VarInfo }
func (v PointVariable) HandleOf() Handle     { return v.Handle }

func (v PointVariable) Renamed(name string) Variable {
	v.Name = name
	return v
}

func (v PointVariable) Rehomed(h Handle) Variable {
	v.Handle = h
	return v
}

func (v PointVariable) WithInfo(info VariableInfo) Variable {
	v.VarInfo = info
	return v
}

// HoldVariable is a finite decision variable. SubDomain, when non-nil,
// restricts where the variable is meaningful; every interval must be tighter
// than the keyed parameter's own domain.
type HoldVariable struct {
	Handle    Handle
	Name      string
	VarInfo   VariableInfo
	SubDomain Bounds
}

func (v HoldVariable) Kind() VariableKind   { return HoldKind }
func (v HoldVariable) VariableName() string { return v.Name }
func (v HoldVariable) Info() VariableInfo   { return v.VarInfo }
func (v HoldVariable) HandleOf() Handle     { return v.Handle }

func (v HoldVariable) Renamed(name string) Variable {
	v.Name = name
	return v
}

func (v HoldVariable) Rehomed(h Handle) Variable {
	v.Handle = h
	return v
}

func (v HoldVariable) WithInfo(info VariableInfo) Variable {
	v.VarInfo = info
	return v
}

// WithSubDomain returns a copy carrying the replaced sub-domain restriction.
func (v HoldVariable) WithSubDomain(b Bounds) HoldVariable {
	v.SubDomain = b
	return v
}
