package model

// ObjectiveSense is the optimization direction.
type ObjectiveSense int

const (
	// Feasibility means no objective has been set.
	Feasibility ObjectiveSense = iota
	// Minimize the objective expression.
	Minimize
	// Maximize the objective expression.
	Maximize
)

// Objective is the model's optimization target.
type Objective struct {
	Sense ObjectiveSense
	Expr  Expr
}
