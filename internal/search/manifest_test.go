package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultManifest(t *testing.T) {
	m, err := LoadManifest("")
	require.NoError(t, err)

	var order []string
	for _, s := range m.Sources {
		order = append(order, s.Name)
	}
	assert.Equal(t, []string{"locations", "items", "pets", "quests", "questlines"}, order)
	assert.Equal(t, "fromImage", m.Sources[3].imageField())
	assert.Equal(t, "image", m.Sources[0].imageField())
	assert.Equal(t, "Questline", m.Sources[4].Type)
	assert.Equal(t, "questlines.json", m.Sources[4].file())

	synthetic := m.SyntheticEntries()
	require.Len(t, synthetic, 1)
	assert.Equal(t, "xp calculator", synthetic[0].SearchText)
	assert.Nil(t, synthetic[0].Type)
}

func TestParseManifest(t *testing.T) {
	raw := []byte(`
sources:
  - name: items
    file: items.json
  - name: questlines
    type: Questline
synthetic:
  - name: Orchard Calculator
    image: /img/items/orchard_sm.png
    href: /orchardcalc/
`)
	m, err := ParseManifest(raw)
	require.NoError(t, err)
	assert.Len(t, m.Sources, 2)
	assert.Equal(t, "/orchardcalc/", m.SyntheticEntries()[0].Href)
}

func TestParseManifestRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "sources:\n  - name: items\n    colour: red\n",
		"missing name":   "sources:\n  - file: items.json\n",
		"duplicate":      "sources:\n  - name: items\n  - name: items\n",
		"relative href":  "synthetic:\n  - name: X\n    href: x/\n",
		"synthetic name": "synthetic:\n  - href: /x/\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(raw))
			assert.Error(t, err)
		})
	}
}
