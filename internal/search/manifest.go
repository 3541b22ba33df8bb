package search

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists the sources in catalog order and the synthetic entries
// placed before them.
type Manifest struct {
	Sources   []SourceSpec    `yaml:"sources"`
	Synthetic []SyntheticSpec `yaml:"synthetic"`
}

// SyntheticSpec is a static catalog entry declared in the manifest.
type SyntheticSpec struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	Href  string `yaml:"href"`
	Type  string `yaml:"type"`
}

// DefaultManifest is the catalog layout used when no manifest file is given.
func DefaultManifest() Manifest {
	return Manifest{
		Sources: []SourceSpec{
			{Name: "locations"},
			{Name: "items"},
			{Name: "pets"},
			{Name: "quests", ImageField: "fromImage"},
			{Name: "questlines", Type: "Questline"},
		},
		Synthetic: []SyntheticSpec{
			{Name: "XP Calculator", Image: "/img/items/7210.png", Href: "/xpcalc/"},
		},
	}
}

// SyntheticEntries converts the declared synthetic entries.
func (m Manifest) SyntheticEntries() []Entry {
	out := make([]Entry, 0, len(m.Synthetic))
	for _, s := range m.Synthetic {
		out = append(out, SyntheticEntry(s.Name, s.Image, s.Href, s.Type))
	}
	return out
}

// LoadManifest reads a YAML manifest. Unknown keys are rejected. An empty
// path yields DefaultManifest.
func LoadManifest(path string) (Manifest, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultManifest(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read search manifest failed: %w", err)
	}
	return ParseManifest(raw)
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(raw []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("parse search manifest failed: %w", err)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	seen := make(map[string]bool, len(m.Sources))
	for i, src := range m.Sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			return fmt.Errorf("search manifest: sources[%d] missing name", i)
		}
		if seen[name] {
			return fmt.Errorf("search manifest: duplicate source %q", name)
		}
		seen[name] = true
	}
	for i, s := range m.Synthetic {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("search manifest: synthetic[%d] missing name", i)
		}
		if !strings.HasPrefix(s.Href, "/") {
			return fmt.Errorf("search manifest: synthetic %q href must start with /", s.Name)
		}
	}
	return nil
}
