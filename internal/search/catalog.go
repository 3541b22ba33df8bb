// Package search turns typed entity sources into the flat, ordered catalog the
// site search box matches against.
package search

import (
	"encoding/json"
	"strings"
)

// Node is one entity as supplied by a data source.
type Node struct {
	Name   string     `json:"name"`
	Image  string     `json:"image"`
	Fields NodeFields `json:"fields"`
}

// NodeFields holds the generated route of a node.
type NodeFields struct {
	Path string `json:"path"`
}

// Entry is one searchable catalog item. Type is nil for untyped sources and
// encodes as JSON null.
type Entry struct {
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Href       string  `json:"href"`
	Type       *string `json:"type"`
	SearchText string  `json:"searchText"`
}

// Source is a named, ordered list of nodes. A non-empty Type tags every entry
// built from it.
type Source struct {
	Name  string
	Type  string
	Nodes []Node
}

// Catalog is an immutable ordered list of entries.
type Catalog struct {
	entries []Entry
}

// NewCatalog wraps a copy of entries without rewriting them.
func NewCatalog(entries []Entry) Catalog {
	return Catalog{entries: cloneEntries(entries)}
}

// Build seeds the catalog with synthetic entries, then appends one entry per
// node, source by source in the order given. Nothing is deduplicated.
func Build(synthetic []Entry, sources ...Source) Catalog {
	size := len(synthetic)
	for _, src := range sources {
		size += len(src.Nodes)
	}
	entries := make([]Entry, 0, size)
	entries = append(entries, cloneEntries(synthetic)...)
	for _, src := range sources {
		var typ *string
		if src.Type != "" {
			t := src.Type
			typ = &t
		}
		for _, node := range src.Nodes {
			entries = append(entries, Entry{
				Name:       node.Name,
				Image:      node.Image,
				Href:       node.Fields.Path,
				Type:       typ,
				SearchText: strings.ToLower(node.Name),
			})
		}
	}
	return Catalog{entries: entries}
}

// DefaultSynthetic returns the hard-coded entries that precede every source.
func DefaultSynthetic() []Entry {
	return DefaultManifest().SyntheticEntries()
}

// SyntheticEntry builds a static entry with the usual lower-cased search text.
func SyntheticEntry(name, image, href, typ string) Entry {
	e := Entry{Name: name, Image: image, Href: href, SearchText: strings.ToLower(name)}
	if typ != "" {
		e.Type = &typ
	}
	return e
}

// Len returns the number of entries.
func (c Catalog) Len() int { return len(c.entries) }

// At returns entry i. It panics when i is out of range, like a slice index.
func (c Catalog) At(i int) Entry {
	return cloneEntry(c.entries[i])
}

// Entries returns a copy of all entries in catalog order.
func (c Catalog) Entries() []Entry {
	return cloneEntries(c.entries)
}

// MarshalJSON encodes the catalog as a JSON array; an empty catalog is [].
func (c Catalog) MarshalJSON() ([]byte, error) {
	if c.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.entries)
}

func cloneEntries(src []Entry) []Entry {
	out := make([]Entry, len(src))
	for i, e := range src {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneEntry(e Entry) Entry {
	if e.Type != nil {
		t := *e.Type
		e.Type = &t
	}
	return e
}
