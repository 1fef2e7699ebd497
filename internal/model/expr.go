package model

import "fmt"

// RefKind discriminates what an expression term points at.
type RefKind int

const (
	// RefParameter points at an infinite parameter.
	RefParameter RefKind = iota
	// RefVariable points at a variable of any variant.
	RefVariable
	// RefReduced points at a reduced variable.
	RefReduced
	// RefMeasure points at a measure.
	RefMeasure
)

func (k RefKind) String() string {
	switch k {
	case RefParameter:
		return "p"
	case RefVariable:
		return "v"
	case RefReduced:
		return "r"
	case RefMeasure:
		return "m"
	}
	return fmt.Sprintf("RefKind(%d)", int(k))
}

// Ref identifies one entity inside an expression.
type Ref struct {
	Kind  RefKind
	Index int64
}

func (r Ref) String() string {
	return fmt.Sprintf("%s[%d]", r.Kind, r.Index)
}

// Term is one linear summand.
type Term struct {
	Ref   Ref
	Coeff float64
}

// QuadTerm is one quadratic summand Coeff * A * B.
type QuadTerm struct {
	A, B  Ref
	Coeff float64
}

// Expr is an affine or quadratic expression over entity references. The zero
// value is the zero expression.
type Expr struct {
	Constant float64
	Terms    []Term
	Quad     []QuadTerm
}

// ZeroExpr returns the zero expression.
func ZeroExpr() Expr {
	return Expr{}
}

// IsZero reports whether the expression has no terms and a zero constant.
func (e Expr) IsZero() bool {
	return e.Constant == 0 && len(e.Terms) == 0 && len(e.Quad) == 0
}

// IsSingleRef reports whether the expression is exactly the given entity:
// one unit-coefficient linear term, no constant, no quadratic part.
func (e Expr) IsSingleRef(r Ref) bool {
	return e.Constant == 0 && len(e.Quad) == 0 &&
		len(e.Terms) == 1 && e.Terms[0].Ref == r && e.Terms[0].Coeff == 1
}

// ContainsRef reports whether any term references r.
func (e Expr) ContainsRef(r Ref) bool {
	for _, t := range e.Terms {
		if t.Ref == r {
			return true
		}
	}
	for _, q := range e.Quad {
		if q.A == r || q.B == r {
			return true
		}
	}
	return false
}

// WithoutRef returns a copy of the expression with every term touching r
// removed. Quadratic terms are dropped when either factor matches.
func (e Expr) WithoutRef(r Ref) Expr {
	out := Expr{Constant: e.Constant}
	for _, t := range e.Terms {
		if t.Ref != r {
			out.Terms = append(out.Terms, t)
		}
	}
	for _, q := range e.Quad {
		if q.A != r && q.B != r {
			out.Quad = append(out.Quad, q)
		}
	}
	return out
}

// Refs returns the distinct references appearing in the expression, in
// first-appearance order.
func (e Expr) Refs() []Ref {
	seen := make(map[Ref]bool)
	var out []Ref
	add := func(r Ref) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, t := range e.Terms {
		add(t.Ref)
	}
	for _, q := range e.Quad {
		add(q.A)
		add(q.B)
	}
	return out
}

// Clone returns a deep copy of the expression.
func (e Expr) Clone() Expr {
	out := Expr{Constant: e.Constant}
	out.Terms = append(out.Terms, e.Terms...)
	out.Quad = append(out.Quad, e.Quad...)
	return out
}
