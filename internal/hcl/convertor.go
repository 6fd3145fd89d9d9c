package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether an expression was written in the source. The
// decoder fills omitted optional attributes with zero-width null expressions.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}

func evalValue(expr hcl.Expression, evalCtx *hcl.EvalContext) (cty.Value, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !val.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("%s: value is not known", expr.Range())
	}
	return val, nil
}

// evalString evaluates expr into a Go string. Null becomes "".
func evalString(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, error) {
	val, err := evalValue(expr, evalCtx)
	if err != nil {
		return "", err
	}
	if val.IsNull() {
		return "", nil
	}
	val, err = convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return val.AsString(), nil
}

// evalStringList accepts either a single string or a list of strings. Null
// becomes an empty list.
func evalStringList(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	val, err := evalValue(expr, evalCtx)
	if err != nil {
		return nil, err
	}
	if val.IsNull() {
		return nil, nil
	}
	if val.Type() == cty.String {
		return []string{val.AsString()}, nil
	}

	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%s: expected a string or a list of strings: %w", expr.Range(), err)
	}
	var out []string
	if err := gocty.FromCtyValue(list, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return out, nil
}

// evalStringMap evaluates an object or map into a map of strings.
func evalStringMap(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	val, err := evalValue(expr, evalCtx)
	if err != nil {
		return nil, err
	}
	if val.IsNull() {
		return nil, nil
	}
	m, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%s: expected a map of strings: %w", expr.Range(), err)
	}
	out := map[string]string{}
	if err := gocty.FromCtyValue(m, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return out, nil
}

func evalBool(expr hcl.Expression, evalCtx *hcl.EvalContext) (bool, error) {
	val, err := evalValue(expr, evalCtx)
	if err != nil {
		return false, err
	}
	if val.IsNull() {
		return false, nil
	}
	val, err = convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return val.True(), nil
}

// stringListVal builds a cty list, keeping an empty input typed.
func stringListVal(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
