package calculator

import (
	"strings"

	"buddyfarm/internal/pkg/convert"
)

// Field ids double as settings keys and request parameter names.
const (
	FieldAppleTrees    = "appleTrees"
	FieldOrangeTrees   = "orangeTrees"
	FieldLemonTrees    = "lemonTrees"
	FieldMaxInventory  = "maxInventory"
	FieldForester      = "forester"
	FieldResourceSaver = "resourceSaver"
	FieldWanderer      = "wanderer"
	FieldLemonSqueezer = "lemonSqueezer"
	FieldLocation      = "location"
	FieldMakeCiders    = "makeCiders"
	FieldMakePalmers   = "makePalmers"
)

// OrchardPersistedKeys are the perk fields remembered across sessions.
var OrchardPersistedKeys = []string{
	FieldForester,
	FieldResourceSaver,
	FieldWanderer,
	FieldLemonSqueezer,
}

// OrchardOverrides carries optional replacements for OrchardInput fields.
// A nil field is absent and leaves the lower layer in place.
type OrchardOverrides struct {
	AppleTrees    *int
	OrangeTrees   *int
	LemonTrees    *int
	MaxInventory  *int
	Forester      *int
	ResourceSaver *int
	Wanderer      *int
	LemonSqueezer *bool
	Location      *string
	MakeCiders    *bool
	MakePalmers   *bool
}

// ParseOrchardOverrides reads overrides from string values keyed by field id.
// Empty or unparsable values are treated as absent; this never fails.
func ParseOrchardOverrides(values map[string]string) OrchardOverrides {
	var o OrchardOverrides
	if len(values) == 0 {
		return o
	}
	o.AppleTrees = parseInt(values, FieldAppleTrees)
	o.OrangeTrees = parseInt(values, FieldOrangeTrees)
	o.LemonTrees = parseInt(values, FieldLemonTrees)
	o.MaxInventory = parseInt(values, FieldMaxInventory)
	o.Forester = parseInt(values, FieldForester)
	o.ResourceSaver = parseInt(values, FieldResourceSaver)
	o.Wanderer = parseInt(values, FieldWanderer)
	o.LemonSqueezer = parseBool(values, FieldLemonSqueezer)
	o.MakeCiders = parseBool(values, FieldMakeCiders)
	o.MakePalmers = parseBool(values, FieldMakePalmers)
	if raw, ok := values[FieldLocation]; ok {
		if name := strings.TrimSpace(raw); name != "" {
			o.Location = &name
		}
	}
	return o
}

// ResolveOrchardInput applies layers over defaults field by field; later
// layers win, and an absent field never clears a value set below it.
func ResolveOrchardInput(defaults OrchardInput, layers ...OrchardOverrides) OrchardInput {
	in := defaults
	for _, o := range layers {
		overrideInt(&in.AppleTrees, o.AppleTrees)
		overrideInt(&in.OrangeTrees, o.OrangeTrees)
		overrideInt(&in.LemonTrees, o.LemonTrees)
		overrideInt(&in.MaxInventory, o.MaxInventory)
		overrideInt(&in.Forester, o.Forester)
		overrideInt(&in.ResourceSaver, o.ResourceSaver)
		overrideInt(&in.Wanderer, o.Wanderer)
		overrideBool(&in.LemonSqueezer, o.LemonSqueezer)
		overrideBool(&in.MakeCiders, o.MakeCiders)
		overrideBool(&in.MakePalmers, o.MakePalmers)
		if o.Location != nil {
			in.Location = *o.Location
		}
	}
	return in
}

// Persisted returns the value to store for each persisted perk key. Absent
// overrides come back as typed nil pointers, which settings treat as removal.
func (o OrchardOverrides) Persisted() map[string]any {
	return map[string]any{
		FieldForester:      o.Forester,
		FieldResourceSaver: o.ResourceSaver,
		FieldWanderer:      o.Wanderer,
		FieldLemonSqueezer: o.LemonSqueezer,
	}
}

func parseInt(values map[string]string, key string) *int {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	n, ok := convert.ToInt(raw)
	if !ok {
		return nil
	}
	return &n
}

func parseBool(values map[string]string, key string) *bool {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	b, ok := convert.ToBool(raw)
	if !ok {
		return nil
	}
	return &b
}

func overrideInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func overrideBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
