package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "app:\n  env: test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, defaultAppHTTPAddr, cfg.App.HTTPAddr)
	assert.Equal(t, defaultSettingsNS, cfg.Settings.Namespace)
	assert.Equal(t, defaultCookieMaxAgeDays, cfg.Settings.CookieMaxAgeDays)
	assert.Equal(t, "explore", cfg.Data.LocationType)
	assert.Equal(t, filepath.Join(defaultDataDir, defaultLocationsFile), cfg.Data.LocationsPath())
	assert.False(t, cfg.Export.SQLiteEnabled())
}

func TestLoadMergesIncludesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "app:\n  http_addr: \":9000\"\n  log_level: debug\ndata:\n  watch: true\n")
	path := writeFile(t, dir, "config.yaml", "include:\n  - base.yaml\napp:\n  http_addr: \":9100\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.True(t, cfg.Data.Watch)
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include:\n  - b.yaml\n")
	writeFile(t, dir, "b.yaml", "include:\n  - a.yaml\n")

	_, err := Load(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
	assert.Contains(t, err.Error(), "a.yaml -> ")
}

func TestResolveIncludesMergesSharedFileOnce(t *testing.T) {
	dir := t.TempDir()
	shared := writeFile(t, dir, "shared.yaml", "data:\n  watch: true\n")
	left := writeFile(t, dir, "left.yaml", "include: shared.yaml\n")
	right := writeFile(t, dir, "right.yaml", "include:\n  - shared.yaml\n  - \"  \"\n")
	root := writeFile(t, dir, "config.yaml", "include:\n  - left.yaml\n  - right.yaml\n")

	files, err := resolveConfigIncludes(root)
	require.NoError(t, err)
	assert.Equal(t, []string{shared, left, right, root}, files)
}

func TestResolveIncludesRejectsNonStringEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "include:\n  - 3\n")

	_, err := resolveConfigIncludes(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file name")

	_, err = resolveConfigIncludes(" ")
	assert.Error(t, err)
}

func TestLoadRejectsExplicitEmptyNamespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "settings:\n  namespace: \"\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.namespace")
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "app:\n  http_addr: \":9000\"\n")
	t.Setenv("BUDDYFARM_APP_HTTP_ADDR", ":7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.App.HTTPAddr)
}

func TestLocationsPathKeepsAbsoluteFile(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "locs.json")
	d := DataConfig{Dir: "configs/data", LocationsFile: abs}
	assert.Equal(t, abs, d.LocationsPath())
}
