package hclmodel

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// modelFile is the top-level structure of one .hcl model file for decoding.
type modelFile struct {
	Parameters  []*parameterBlock  `hcl:"parameter,block"`
	Variables   []*variableBlock   `hcl:"variable,block"`
	Measures    []*measureBlock    `hcl:"measure,block"`
	Constraints []*constraintBlock `hcl:"constraint,block"`
	Objective   *objectiveBlock    `hcl:"objective,block"`
}

// parameterBlock declares an infinite parameter: either an interval domain
// or a named distribution.
type parameterBlock struct {
	Name         string    `hcl:"name,label"`
	Domain       []float64 `hcl:"domain,optional"` // [lower, upper]
	Distribution string    `hcl:"distribution,optional"`
	DistArgs     []float64 `hcl:"dist_args,optional"`
	Supports     []float64 `hcl:"supports,optional"`
	Independent  bool      `hcl:"independent,optional"`
}

// boundsBlock holds parameter-name -> [lower, upper] attribute pairs as a
// remain body, since the attribute names are user-chosen.
type boundsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// variableBlock declares a variable of any variant. The front-end stays
// structural: term maps and value tuples, no expression grammar.
type variableBlock struct {
	Name       string       `hcl:"name,label"`
	Kind       string       `hcl:"kind"`
	Parameters []string     `hcl:"parameters,optional"` // infinite: dependency tuple
	Of         string       `hcl:"of,optional"`         // point: parent infinite variable
	At         []float64    `hcl:"at,optional"`         // point: one value per parent slot
	Lower      *float64     `hcl:"lower,optional"`
	Upper      *float64     `hcl:"upper,optional"`
	Fix        *float64     `hcl:"fix,optional"`
	Start      *float64     `hcl:"start,optional"`
	Binary     bool         `hcl:"binary,optional"`
	Integer    bool         `hcl:"integer,optional"`
	Bounds     *boundsBlock `hcl:"bounds,block"`
}

// measureBlock declares a single-parameter integral of a term map.
type measureBlock struct {
	Name         string    `hcl:"name,label"`
	Of           cty.Value `hcl:"of"` // entity name -> coefficient
	Constant     float64   `hcl:"constant,optional"`
	Over         string    `hcl:"over"`
	Supports     []float64 `hcl:"supports"`
	Coefficients []float64 `hcl:"coefficients"`
	Weight       string    `hcl:"weight,optional"`
}

// constraintBlock declares a scalar relation over a term map.
type constraintBlock struct {
	Name     string       `hcl:"name,label"`
	Terms    cty.Value    `hcl:"terms"`
	Constant float64      `hcl:"constant,optional"`
	Sense    string       `hcl:"sense"`
	RHS      float64      `hcl:"rhs,optional"`
	Bounds   *boundsBlock `hcl:"bounds,block"`
}

// objectiveBlock declares the optimization target.
type objectiveBlock struct {
	Sense    string    `hcl:"sense"`
	Terms    cty.Value `hcl:"terms"`
	Constant float64   `hcl:"constant,optional"`
}
