package model

import (
	"github.com/vk/infiniopt/internal/interval"
)

// MeasureData is the integration rule attached to a measure: coefficient and
// support pairs over the integrated parameter(s) plus a weighting function
// tag. The single- and multi-parameter shapes differ only in dimensionality.
type MeasureData interface {
	// ParameterIndexes returns the scalar parameters integrated over.
	ParameterIndexes() []int64
	// SupportRange returns the span of the rule's support points for one
	// integrated parameter, and whether that parameter is integrated at all.
	SupportRange(param int64) (interval.Interval, bool)
}

// SingleMeasureData integrates over one scalar parameter.
type SingleMeasureData struct {
	Parameter    int64
	Coefficients []float64
	Supports     []float64
	Weight       string
}

func (d SingleMeasureData) ParameterIndexes() []int64 {
	return []int64{d.Parameter}
}

func (d SingleMeasureData) SupportRange(param int64) (interval.Interval, bool) {
	if param != d.Parameter || len(d.Supports) == 0 {
		return interval.Interval{}, false
	}
	return supportSpan(d.Supports), true
}

// MultiMeasureData integrates over a vector of parameters; SupportRows holds
// one value per parameter for each support point.
type MultiMeasureData struct {
	Parameters   []int64
	Coefficients []float64
	SupportRows  [][]float64
	Weight       string
}

func (d MultiMeasureData) ParameterIndexes() []int64 {
	out := make([]int64, len(d.Parameters))
	copy(out, d.Parameters)
	return out
}

func (d MultiMeasureData) SupportRange(param int64) (interval.Interval, bool) {
	col := -1
	for i, p := range d.Parameters {
		if p == param {
			col = i
			break
		}
	}
	if col < 0 || len(d.SupportRows) == 0 {
		return interval.Interval{}, false
	}
	vals := make([]float64, 0, len(d.SupportRows))
	for _, row := range d.SupportRows {
		if col < len(row) {
			vals = append(vals, row[col])
		}
	}
	if len(vals) == 0 {
		return interval.Interval{}, false
	}
	return supportSpan(vals), true
}

func supportSpan(vals []float64) interval.Interval {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return interval.Interval{Lower: lo, Upper: hi}
}

// Measure is a named integral abstraction: one expression integrated under
// one rule. Its free variables stay masked until the transcription backend
// expands it.
type Measure struct {
	Handle Handle
	Name   string
	Expr   Expr
	Data   MeasureData
}
