package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"buddyfarm/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLocations = `[
	{"jsonId":"10","name":"Whispering Creek","image":"/img/items/wc.png","type":"explore","extra":{"baseDropRate":0.14},"fields":{"path":"/locations/whispering-creek/"}},
	{"jsonId":"2","name":"Small Cave","image":"/img/items/cave.png","type":"explore","extra":{"baseDropRate":0.5},"fields":{"path":"/locations/small-cave/"}},
	{"jsonId":"3","name":"Small Pond","image":"/img/items/pond.png","type":"fishing","extra":{"baseDropRate":0.3},"fields":{"path":"/locations/small-pond/"}}
]`

func writeData(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"locations.json":  testLocations,
		"items.json":      `[{"name":"Apple","image":"/img/items/apple.png","fields":{"path":"/items/apple/"}}]`,
		"pets.json":       `[{"name":"Cat","image":"/img/pets/cat.png","fields":{"path":"/pets/cat/"}}]`,
		"quests.json":     `[{"name":"Quest 1","fromImage":"/img/npc/rosalie.png","fields":{"path":"/quests/1/"}}]`,
		"questlines.json": `[{"name":"Fishing","image":"/img/items/fish.png","fields":{"path":"/questlines/fishing/"}}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func testConfig(dir string) config.DataConfig {
	return config.DataConfig{
		Dir:           dir,
		LocationsFile: "locations.json",
		LocationType:  "explore",
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)

	snap, err := Load(context.Background(), testConfig(dir))
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Locations.Len())
	row, err := snap.Locations.Lookup("Whispering Creek")
	require.NoError(t, err)
	assert.Equal(t, 0.14, row.BaseDropRate)

	var names []string
	for _, e := range snap.Catalog.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"XP Calculator", "Whispering Creek", "Small Cave", "Small Pond", "Apple", "Cat", "Quest 1", "Fishing"}, names)
	assert.Equal(t, "/locations/whispering-creek/", snap.Catalog.At(1).Href)
	assert.Equal(t, "/locations/small-pond/", snap.Catalog.At(3).Href)
	assert.Equal(t, "/img/npc/rosalie.png", snap.Catalog.At(6).Image)
	assert.Nil(t, snap.Catalog.At(6).Type)
	require.NotNil(t, snap.Catalog.At(7).Type)
	assert.Equal(t, "Questline", *snap.Catalog.At(7).Type)
}

func TestLoadCatalogLocationsKeepFileOrderAndAllTypes(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)
	// A location without a drop rate is searchable but not calculable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locations.json"), []byte(`[
		{"jsonId":"9","name":"Mine","image":"/img/items/mine.png","type":"explore","extra":{"baseDropRate":0.2},"fields":{"path":"/locations/mine/"}},
		{"jsonId":"4","name":"Lake","image":"/img/items/lake.png","type":"fishing","fields":{"path":"/locations/lake/"}},
		{"jsonId":"1","name":"Cave","image":"/img/items/cave.png","type":"explore","extra":{"baseDropRate":0.5},"fields":{"path":"/locations/cave/"}}
	]`), 0o644))

	snap, err := Load(context.Background(), testConfig(dir))
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Locations.Len())
	assert.Equal(t, "Cave", snap.Locations.Sorted()[0].Name)
	_, err = snap.Locations.Lookup("Lake")
	assert.Error(t, err)

	entries := snap.Catalog.Entries()
	require.GreaterOrEqual(t, len(entries), 4)
	assert.Equal(t, []string{"Mine", "Lake", "Cave"}, []string{entries[1].Name, entries[2].Name, entries[3].Name})
	assert.Equal(t, "lake", entries[2].SearchText)
}

func TestLoadLocationsSourceHonorsManifestFile(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "places.json"),
		[]byte(`[{"name":"Shore","icon":"/img/items/shore.png","fields":{"path":"/locations/shore/"}}]`), 0o644))
	manifest := filepath.Join(dir, "search.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("sources:\n  - name: locations\n    file: places.json\n    image_field: icon\n"), 0o644))

	cfg := testConfig(dir)
	cfg.Manifest = manifest
	snap, err := Load(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Locations.Len())
	require.Equal(t, 1, snap.Catalog.Len())
	assert.Equal(t, "Shore", snap.Catalog.At(0).Name)
	assert.Equal(t, "/img/items/shore.png", snap.Catalog.At(0).Image)
}

func TestLoadMalformedSourceFails(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.json"), []byte(`[{"name":"Cat"}]`), 0o644))

	_, err := Load(context.Background(), testConfig(dir))
	assert.Error(t, err)
}

func TestRegistryReload(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)
	reg, err := NewRegistry(context.Background(), testConfig(dir))
	require.NoError(t, err)
	assert.Equal(t, int64(1), reg.Snapshot().Version)

	got := make(chan Snapshot, 1)
	reg.Subscribe(func(s Snapshot) { got <- s })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pets.json"), []byte(`[]`), 0o644))
	require.NoError(t, reg.Reload(context.Background()))

	select {
	case s := <-got:
		assert.Equal(t, int64(2), s.Version)
		assert.Equal(t, 7, s.Catalog.Len())
	case <-time.After(2 * time.Second):
		t.Fatal("listener not called")
	}
}

func TestRegistryKeepsSnapshotOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)
	reg, err := NewRegistry(context.Background(), testConfig(dir))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "locations.json"), []byte(`not json`), 0o644))
	assert.Error(t, reg.Reload(context.Background()))

	snap := reg.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, 8, snap.Catalog.Len())
}

func TestNewRegistryFailsWithoutData(t *testing.T) {
	_, err := NewRegistry(context.Background(), testConfig(t.TempDir()))
	assert.Error(t, err)
}

func TestRegistryWatch(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir)
	reg, err := NewRegistry(context.Background(), testConfig(dir))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Watch(ctx) }()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "items.json"),
			[]byte(`[{"name":"Pear","image":"/img/items/pear.png","fields":{"path":"/items/pear/"}}]`), 0o644)
		return reg.Snapshot().Version > 1
	}, 10*time.Second, 400*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, "Pear", reg.Snapshot().Catalog.At(4).Name)
}

func TestRegistryReloadsRunOneAtATime(t *testing.T) {
	var (
		calls   atomic.Int32
		release = make(chan struct{})
	)
	reg := &Registry{load: func(context.Context, config.DataConfig) (Snapshot, error) {
		n := calls.Add(1)
		if n == 1 {
			<-release
		}
		return Snapshot{LoadedAt: time.Unix(int64(n), 0)}, nil
	}}

	first := make(chan error, 1)
	go func() { first <- reg.Reload(context.Background()) }()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- reg.Reload(context.Background()) }()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "second reload waits for the first")

	close(release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	snap := reg.Snapshot()
	assert.Equal(t, int64(2), snap.Version)
	assert.Equal(t, time.Unix(2, 0), snap.LoadedAt)
}
