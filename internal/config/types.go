package config

import "strings"

// Config is the root of the service configuration file.
type Config struct {
	App      AppConfig      `toml:"app"`
	Settings SettingsConfig `toml:"settings"`
	Data     DataConfig     `toml:"data"`
	Export   ExportConfig   `toml:"export"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	HTTPAddr  string `toml:"http_addr"`
	LogPath   string `toml:"log_path"`
}

// SettingsConfig controls where per-session calculator overrides are persisted.
type SettingsConfig struct {
	DBPath           string `toml:"db_path"`
	Namespace        string `toml:"namespace"`
	CookieName       string `toml:"cookie_name"`
	CookieMaxAgeDays int    `toml:"cookie_max_age_days"`
}

// DataConfig points at the exported game data the catalog and calculators read.
type DataConfig struct {
	Dir           string `toml:"dir"`
	LocationsFile string `toml:"locations_file"`
	LocationType  string `toml:"location_type"`
	Manifest      string `toml:"manifest"`
	Watch         bool   `toml:"watch"`
}

// ExportConfig is used by the one-shot catalog export command.
type ExportConfig struct {
	JSONPath   string `toml:"json_path"`
	SQLitePath string `toml:"sqlite_path"`
}

// keySet tracks the dotted paths explicitly present in the config files.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	_, ok := k[strings.ToLower(strings.TrimSpace(path))]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}

// LocationsPath joins the data directory with the locations file unless the latter is absolute.
func (d DataConfig) LocationsPath() string {
	return joinData(d.Dir, d.LocationsFile)
}

// SQLiteEnabled reports whether the export command should write a SQLite snapshot.
func (e ExportConfig) SQLiteEnabled() bool {
	return strings.TrimSpace(e.SQLitePath) != ""
}
