package sitehttp

import (
	"math"
	"reflect"
	"strings"

	"buddyfarm/internal/pkg/convert"
)

// finiteFields flattens a struct of numbers into its JSON field names. JSON
// has no literal for non-finite numbers, so those are rendered as the strings
// Infinity, -Infinity and NaN.
func finiteFields(v any) map[string]any {
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		val := rv.Field(i).Interface()
		if x, ok := val.(float64); ok && (math.IsInf(x, 0) || math.IsNaN(x)) {
			val, _ = convert.ToString(x)
		}
		out[name] = val
	}
	return out
}
