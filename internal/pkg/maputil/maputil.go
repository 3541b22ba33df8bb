// Package maputil converts loosely typed request maps.
package maputil

import (
	"net/url"

	"buddyfarm/internal/pkg/convert"
)

// Strings renders every value of params in its settings string form. Nil
// values become the empty string so the key still reads as present.
func Strings(params map[string]any) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		s, _ := convert.ToString(v)
		out[k] = s
	}
	return out
}

// First keeps the first value of each multi-valued key, as a query string or
// form body carries them.
func First(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
