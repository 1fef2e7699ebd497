package model

import "github.com/vk/infiniopt/internal/interval"

// DomainKind tags the characterizing set of a parameter.
type DomainKind int

const (
	// IntervalDomain characterizes the parameter by a closed interval.
	IntervalDomain DomainKind = iota
	// DistributionDomain characterizes the parameter by a probability
	// distribution. Sampling is the front-end's business; the core only
	// records the description.
	DistributionDomain
)

// Domain is a parameter's characterizing set: either an interval or a named
// distribution with numeric arguments.
type Domain struct {
	Kind         DomainKind
	Interval     interval.Interval
	Distribution string
	DistArgs     []float64
}

// Parameter is an infinite-domain placeholder over which variables, measures
// and constraints may be defined.
//
// GroupID is assigned once at creation and never changes; parameters sharing
// a group id are jointly indexed (a vector parameter).
type Parameter struct {
	Handle      Handle
	Name        string
	Domain      Domain
	Supports    []float64 // sorted, deduplicated discretization points
	Independent bool
	GroupID     int64
}
