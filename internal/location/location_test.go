package location

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `[
  {"name": "Whispering Creek", "jsonId": "10", "image": "/img/items/wc.png", "type": "explore",
   "extra": {"baseDropRate": 0.14}, "fields": {"path": "/locations/whispering-creek/"}},
  {"name": "Small Cave", "jsonId": "2", "image": "/img/items/cave.png", "type": "explore",
   "extra": {"baseDropRate": 0.4}, "fields": {"path": "/locations/small-cave/"}},
  {"name": "Small Pond", "jsonId": 3, "image": "/img/items/pond.png", "type": "fishing",
   "extra": {"baseDropRate": 0.2}, "fields": {"path": "/locations/small-pond/"}},
  {"name": "Forest", "jsonId": "7", "image": "/img/items/forest.png", "type": "explore",
   "extra": {"baseDropRate": 0.3}, "fields": {"path": "/locations/forest/"}}
]`

func TestDecodeFiltersByType(t *testing.T) {
	table, err := Decode([]byte(fixture), "explore")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = table.Lookup("Small Pond")
	assert.Error(t, err)

	all, err := Decode([]byte(fixture), "")
	require.NoError(t, err)
	assert.Equal(t, 4, all.Len())
}

func TestLookupExactMatch(t *testing.T) {
	table, err := Decode([]byte(fixture), "explore")
	require.NoError(t, err)

	row, err := table.Lookup("Whispering Creek")
	require.NoError(t, err)
	assert.Equal(t, 0.14, row.BaseDropRate)
	assert.Equal(t, "10", row.ID)
	assert.Equal(t, "/locations/whispering-creek/", row.Path)

	_, err = table.Lookup("whispering creek")
	var unknown *UnknownError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Whispering Creek", unknown.Suggestion)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestLookupWithoutSuggestion(t *testing.T) {
	table, err := Decode([]byte(fixture), "explore")
	require.NoError(t, err)

	_, err = table.Lookup("Mount Banon")
	var unknown *UnknownError
	require.True(t, errors.As(err, &unknown))
	assert.Empty(t, unknown.Suggestion)
	assert.Equal(t, `unknown location "Mount Banon"`, err.Error())
}

func TestMustLookupPanics(t *testing.T) {
	table, err := Decode([]byte(fixture), "explore")
	require.NoError(t, err)
	assert.Panics(t, func() { table.MustLookup("Nowhere") })
	assert.NotPanics(t, func() { table.MustLookup("Forest") })
}

func TestSortedByNumericID(t *testing.T) {
	table, err := NewTable([]Row{
		{ID: "10", Name: "Whispering Creek", BaseDropRate: 1},
		{ID: "x", Name: "Zeta", BaseDropRate: 1},
		{ID: "2", Name: "Small Cave", BaseDropRate: 1},
		{ID: "7", Name: "Forest", BaseDropRate: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Small Cave", "Forest", "Whispering Creek", "Zeta"}, table.Names())

	sorted := table.Sorted()
	sorted[0].Name = "mutated"
	assert.Equal(t, "Small Cave", table.Sorted()[0].Name)
}

func TestDecodeRejectsMalformedRows(t *testing.T) {
	cases := map[string]string{
		"not array":    `{"name": "x"}`,
		"invalid json": `[{"name": }]`,
		"missing name": `[{"extra": {"baseDropRate": 0.1}}]`,
		"missing rate": `[{"name": "Forest"}]`,
		"zero rate":    `[{"name": "Forest", "extra": {"baseDropRate": 0}}]`,
		"duplicate":    `[{"name": "A", "extra": {"baseDropRate": 1}}, {"name": "A", "extra": {"baseDropRate": 2}}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw), "")
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	table, err := LoadFile(path, "explore")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}
