package model

import "fmt"

// Sense encodes the relation a constraint imposes on its expression.
type Sense int

const (
	// SenseLE is expr <= RHS.
	SenseLE Sense = iota
	// SenseGE is expr >= RHS.
	SenseGE
	// SenseEQ is expr == RHS.
	SenseEQ
	// SenseInteger restricts the expression (a single variable) to integers.
	SenseInteger
	// SenseBinary restricts the expression (a single variable) to {0, 1}.
	SenseBinary
)

func (s Sense) String() string {
	switch s {
	case SenseLE:
		return "<="
	case SenseGE:
		return ">="
	case SenseEQ:
		return "=="
	case SenseInteger:
		return "integer"
	case SenseBinary:
		return "binary"
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// Constraint is a scalar relation over an expression. SubDomain, when
// non-nil, restricts where the relation must hold; OrigSubDomain preserves
// the user-specified form before any hold-variable intersection so the
// restriction can be recomputed when hold bounds change later.
type Constraint struct {
	Handle        Handle
	Name          string
	Expr          Expr
	Sense         Sense
	RHS           float64
	SubDomain     Bounds
	OrigSubDomain Bounds
}

// IsBounded reports whether the constraint carries a sub-domain restriction.
func (c Constraint) IsBounded() bool {
	return len(c.SubDomain) > 0
}
