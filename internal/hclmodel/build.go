package hclmodel

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/ctxlog"
	"github.com/vk/infiniopt/internal/interval"
	"github.com/vk/infiniopt/internal/model"
)

// builder tracks the name -> index mapping accumulated while feeding a
// container, so later blocks can reference earlier ones.
type builder struct {
	model  *container.Model
	params map[string]int64
	vars   map[string]int64
	meas   map[string]int64
}

// build feeds the merged blocks into a fresh container, leaf kinds first:
// parameters, then variables, measures, constraints, objective.
func build(ctx context.Context, mf *modelFile) (*container.Model, error) {
	b := &builder{
		model:  container.New(),
		params: make(map[string]int64),
		vars:   make(map[string]int64),
		meas:   make(map[string]int64),
	}

	for _, pb := range mf.Parameters {
		if err := b.addParameter(pb); err != nil {
			return nil, err
		}
	}
	for _, vb := range mf.Variables {
		if err := b.addVariable(vb); err != nil {
			return nil, err
		}
	}
	for _, mb := range mf.Measures {
		if err := b.addMeasure(mb); err != nil {
			return nil, err
		}
	}
	for _, cb := range mf.Constraints {
		if err := b.addConstraint(cb); err != nil {
			return nil, err
		}
	}
	if mf.Objective != nil {
		if err := b.setObjective(mf.Objective); err != nil {
			return nil, err
		}
	}

	ctxlog.FromContext(ctx).Debug("model built",
		"parameters", b.model.NumParameters(),
		"variables", b.model.NumVariables(),
		"measures", b.model.NumMeasures(),
		"constraints", b.model.NumConstraints(),
	)
	return b.model, nil
}

func (b *builder) addParameter(pb *parameterBlock) error {
	p := model.Parameter{
		Name:        pb.Name,
		Supports:    pb.Supports,
		Independent: pb.Independent,
	}
	switch {
	case len(pb.Domain) == 2 && pb.Distribution == "":
		iv, err := interval.New(pb.Domain[0], pb.Domain[1])
		if err != nil {
			return fmt.Errorf("parameter %q: %w", pb.Name, err)
		}
		p.Domain = model.Domain{Kind: model.IntervalDomain, Interval: iv}
	case len(pb.Domain) == 0 && pb.Distribution != "":
		p.Domain = model.Domain{
			Kind:         model.DistributionDomain,
			Distribution: pb.Distribution,
			DistArgs:     pb.DistArgs,
		}
	default:
		return fmt.Errorf("parameter %q: exactly one of domain = [lo, hi] or distribution must be given", pb.Name)
	}

	idx, err := b.model.AddParameter(p)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", pb.Name, err)
	}
	b.params[pb.Name] = idx
	return nil
}

func (b *builder) addVariable(vb *variableBlock) error {
	info := model.VariableInfo{Binary: vb.Binary, Integer: vb.Integer}
	if vb.Lower != nil {
		info.HasLower, info.Lower = true, *vb.Lower
	}
	if vb.Upper != nil {
		info.HasUpper, info.Upper = true, *vb.Upper
	}
	if vb.Fix != nil {
		info.HasFix, info.FixValue = true, *vb.Fix
	}
	if vb.Start != nil {
		info.HasStart, info.Start = true, *vb.Start
	}

	var payload model.Variable
	switch vb.Kind {
	case "infinite":
		if len(vb.Parameters) == 0 {
			return fmt.Errorf("variable %q: infinite kind needs parameters", vb.Name)
		}
		refs := make([][]int64, 0, len(vb.Parameters))
		for _, name := range vb.Parameters {
			pi, ok := b.params[name]
			if !ok {
				return fmt.Errorf("variable %q: %w: parameter %q", vb.Name, model.ErrNotFound, name)
			}
			refs = append(refs, []int64{pi})
		}
		payload = model.InfiniteVariable{Name: vb.Name, ParameterRefs: refs, VarInfo: info}
	case "point":
		parent, ok := b.vars[vb.Of]
		if !ok {
			return fmt.Errorf("variable %q: %w: variable %q", vb.Name, model.ErrNotFound, vb.Of)
		}
		values := make([][]float64, len(vb.At))
		for i, v := range vb.At {
			values[i] = []float64{v}
		}
		payload = model.PointVariable{Name: vb.Name, Infinite: parent, Values: values, VarInfo: info}
	case "hold":
		hv := model.HoldVariable{Name: vb.Name, VarInfo: info}
		if vb.Bounds != nil {
			bounds, err := b.decodeBounds(vb.Bounds)
			if err != nil {
				return fmt.Errorf("variable %q: %w", vb.Name, err)
			}
			hv.SubDomain = bounds
		}
		payload = hv
	default:
		return fmt.Errorf("variable %q: unknown kind %q (want infinite, point or hold)", vb.Name, vb.Kind)
	}

	idx, err := b.model.AddVariable(payload)
	if err != nil {
		return fmt.Errorf("variable %q: %w", vb.Name, err)
	}
	b.vars[vb.Name] = idx
	return nil
}

func (b *builder) addMeasure(mb *measureBlock) error {
	pi, ok := b.params[mb.Over]
	if !ok {
		return fmt.Errorf("measure %q: %w: parameter %q", mb.Name, model.ErrNotFound, mb.Over)
	}
	expr, err := b.termsToExpr(mb.Of, mb.Constant)
	if err != nil {
		return fmt.Errorf("measure %q: %w", mb.Name, err)
	}
	ms := model.Measure{
		Name: mb.Name,
		Expr: expr,
		Data: model.SingleMeasureData{
			Parameter:    pi,
			Coefficients: mb.Coefficients,
			Supports:     mb.Supports,
			Weight:       mb.Weight,
		},
	}
	idx, err := b.model.AddMeasure(ms)
	if err != nil {
		return fmt.Errorf("measure %q: %w", mb.Name, err)
	}
	b.meas[mb.Name] = idx
	return nil
}

func (b *builder) addConstraint(cb *constraintBlock) error {
	expr, err := b.termsToExpr(cb.Terms, cb.Constant)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", cb.Name, err)
	}
	sense, err := parseSense(cb.Sense)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", cb.Name, err)
	}
	c := model.Constraint{Name: cb.Name, Expr: expr, Sense: sense, RHS: cb.RHS}
	if cb.Bounds != nil {
		bounds, err := b.decodeBounds(cb.Bounds)
		if err != nil {
			return fmt.Errorf("constraint %q: %w", cb.Name, err)
		}
		c.SubDomain = bounds
	}
	if _, err := b.model.AddConstraint(c); err != nil {
		return fmt.Errorf("constraint %q: %w", cb.Name, err)
	}
	return nil
}

func (b *builder) setObjective(ob *objectiveBlock) error {
	expr, err := b.termsToExpr(ob.Terms, ob.Constant)
	if err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	var sense model.ObjectiveSense
	switch ob.Sense {
	case "min", "minimize":
		sense = model.Minimize
	case "max", "maximize":
		sense = model.Maximize
	default:
		return fmt.Errorf("objective: unknown sense %q (want min or max)", ob.Sense)
	}
	if err := b.model.SetObjective(sense, expr); err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	return nil
}

// termsToExpr converts a name -> coefficient object into an expression,
// resolving names against variables, then measures, then parameters.
func (b *builder) termsToExpr(val cty.Value, constant float64) (model.Expr, error) {
	e := model.Expr{Constant: constant}
	if val.IsNull() || !val.CanIterateElements() {
		return model.Expr{}, fmt.Errorf("terms must be an object of name = coefficient pairs")
	}
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()
		coeff, err := ctyFloat(v)
		if err != nil {
			return model.Expr{}, fmt.Errorf("coefficient of %q: %w", name, err)
		}
		ref, err := b.resolveRef(name)
		if err != nil {
			return model.Expr{}, err
		}
		e.Terms = append(e.Terms, model.Term{Ref: ref, Coeff: coeff})
	}
	return e, nil
}

func (b *builder) resolveRef(name string) (model.Ref, error) {
	if idx, ok := b.vars[name]; ok {
		return model.Ref{Kind: model.RefVariable, Index: idx}, nil
	}
	if idx, ok := b.meas[name]; ok {
		return model.Ref{Kind: model.RefMeasure, Index: idx}, nil
	}
	if idx, ok := b.params[name]; ok {
		return model.Ref{Kind: model.RefParameter, Index: idx}, nil
	}
	return model.Ref{}, fmt.Errorf("%w: %q", model.ErrNotFound, name)
}

// decodeBounds reads a bounds block: each attribute is a parameter name
// assigned a [lower, upper] tuple.
func (b *builder) decodeBounds(bb *boundsBlock) (model.Bounds, error) {
	attrs, diags := bb.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid bounds block: %w", diags)
	}
	bounds := make(model.Bounds, len(attrs))
	for name, attr := range attrs {
		pi, ok := b.params[name]
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q in bounds", model.ErrNotFound, name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("bounds of %q: %w", name, diags)
		}
		iv, err := tupleToInterval(val)
		if err != nil {
			return nil, fmt.Errorf("bounds of %q: %w", name, err)
		}
		bounds[pi] = iv
	}
	return bounds, nil
}

func tupleToInterval(val cty.Value) (interval.Interval, error) {
	if val.IsNull() || !val.CanIterateElements() || val.LengthInt() != 2 {
		return interval.Interval{}, fmt.Errorf("want a [lower, upper] pair")
	}
	var ends []float64
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		f, err := ctyFloat(v)
		if err != nil {
			return interval.Interval{}, err
		}
		ends = append(ends, f)
	}
	return interval.New(ends[0], ends[1])
}

func ctyFloat(val cty.Value) (float64, error) {
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	f, _ := num.AsBigFloat().Float64()
	return f, nil
}

func parseSense(s string) (model.Sense, error) {
	switch s {
	case "<=", "le":
		return model.SenseLE, nil
	case ">=", "ge":
		return model.SenseGE, nil
	case "==", "=", "eq":
		return model.SenseEQ, nil
	}
	return 0, fmt.Errorf("unknown sense %q (want <=, >= or ==)", s)
}
