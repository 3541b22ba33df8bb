package settings

import (
	"context"
	"path/filepath"
	"testing"

	"buddyfarm/internal/store/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStoreBackend(t *testing.T) *StoreBackend {
	t.Helper()
	st, err := sqlite.NewSqliteStore(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewStoreBackend(st)
}

func TestStoreBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newTestStoreBackend(t)

	empty, err := backend.Load(ctx, "ns:missing")
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := Settings{"forester": "30", "unknownKey": "kept"}
	require.NoError(t, backend.Save(ctx, "ns:s1", want))

	got, err := backend.Load(ctx, "ns:s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	st, err := sqlite.NewSqliteStore(path)
	require.NoError(t, err)
	sess := Open(ctx, NewStoreBackend(st), "ns", "s1")
	sess.Merge(ctx, "wanderer", 40)
	require.NoError(t, st.Close())

	st2, err := sqlite.NewSqliteStore(path)
	require.NoError(t, err)
	defer st2.Close()
	assert.Equal(t, Settings{"wanderer": "40"}, Open(ctx, NewStoreBackend(st2), "ns", "s1").Get())
}

func TestStoreBackendHistory(t *testing.T) {
	ctx := context.Background()
	backend := newTestStoreBackend(t)
	sess := Open(ctx, backend, "ns", "s1")

	sess.Merge(ctx, "forester", 30)
	sess.Merge(ctx, "forester", 30)
	sess.Merge(ctx, "forester", 35)
	sess.Merge(ctx, "forester", nil)

	changes, err := backend.History(ctx, "ns:s1", 10)
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.True(t, changes[0].Removed)
	assert.Equal(t, "35", *changes[0].OldValue)
	assert.Nil(t, changes[0].NewValue)

	assert.Equal(t, "30", *changes[1].OldValue)
	assert.Equal(t, "35", *changes[1].NewValue)

	assert.Nil(t, changes[2].OldValue)
	assert.Equal(t, "30", *changes[2].NewValue)
}
