package manifest

import (
	"github.com/zclconf/go-cty/cty"
)

// GoValue converts a decoded cty value into plain Go values: objects and maps
// become map[string]any, lists and tuples become []any, numbers become int or
// float64. Unknown or null values become nil.
func GoValue(v cty.Value) any {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		f := v.AsBigFloat()
		if f.IsInt() {
			i, _ := f.Int64()
			return int(i)
		}
		out, _ := f.Float64()
		return out
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for key, val := range v.AsValueMap() {
			out[key] = GoValue(val)
		}
		return out
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var out []any
		for _, val := range v.AsValueSlice() {
			out = append(out, GoValue(val))
		}
		return out
	default:
		return nil
	}
}

// Attr extracts one attribute from an object-typed cty value.
func Attr(v cty.Value, name string) (cty.Value, bool) {
	if v == cty.NilVal || v.IsNull() || !v.Type().IsObjectType() {
		return cty.NilVal, false
	}
	if !v.Type().HasAttribute(name) {
		return cty.NilVal, false
	}
	return v.GetAttr(name), true
}
