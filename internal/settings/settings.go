// Package settings holds user overrides for calculator defaults.
//
// A Settings value is a flat string-to-string mapping and is never mutated in
// place: Merge always hands back a new mapping, so a caller holding an older
// value keeps seeing exactly what it had.
package settings

import (
	"sort"

	"buddyfarm/internal/pkg/convert"
)

// Settings maps an override key to its string value. A missing key means "use the default".
type Settings map[string]string

// Get returns the stored value for key.
func (s Settings) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s[key]
	return v, ok
}

// Clone returns an independent copy. The copy of a nil Settings is an empty, non-nil mapping.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a new Settings equal to s except for key.
// A nil value (including a nil pointer) removes key; anything else is stored
// in its string form.
func (s Settings) Merge(key string, value any) Settings {
	out := s.Clone()
	str, ok := convert.ToString(value)
	if !ok {
		delete(out, key)
		return out
	}
	out[key] = str
	return out
}

// Keys returns the keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
