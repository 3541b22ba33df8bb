package search

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "searchables.json")
	c := Build(DefaultSynthetic(), Source{Name: "items", Nodes: []Node{node("Apple", "/items/apple/")}})

	require.NoError(t, WriteJSONFile(path, c))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal(raw, &entries))
	assert.Equal(t, c.Entries(), entries)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".catalog-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWriteJSONFileRequiresPath(t *testing.T) {
	assert.Error(t, WriteJSONFile("", Catalog{}))
}
