package config

import "strings"

const (
	defaultAppEnv           = "dev"
	defaultAppLogLevel      = "info"
	defaultAppLogFormat     = "text"
	defaultAppHTTPAddr      = ":8080"
	defaultSettingsDB       = "data/db/settings.db"
	defaultSettingsNS       = "buddyfarm.settings"
	defaultCookieName       = "bf_session"
	defaultCookieMaxAgeDays = 365
	defaultDataDir          = "configs/data"
	defaultLocationsFile    = "locations.json"
	defaultLocationType     = "explore"
	defaultManifest         = "configs/search.yaml"
	defaultExportJSON       = "public/searchables.json"
)

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Settings.applyDefaults(keys)
	c.Data.applyDefaults(keys)
	c.Export.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (s *SettingsConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("settings.db_path", &s.DBPath, defaultSettingsDB),
		stringFieldDefault("settings.namespace", &s.Namespace, defaultSettingsNS),
		stringFieldDefault("settings.cookie_name", &s.CookieName, defaultCookieName),
		fieldDefault{
			key:   "settings.cookie_max_age_days",
			need:  func() bool { return s.CookieMaxAgeDays <= 0 },
			apply: func() { s.CookieMaxAgeDays = defaultCookieMaxAgeDays },
		},
	)
}

func (d *DataConfig) applyDefaults(keys keySet) {
	if d == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("data.dir", &d.Dir, defaultDataDir),
		stringFieldDefault("data.locations_file", &d.LocationsFile, defaultLocationsFile),
		stringFieldDefault("data.location_type", &d.LocationType, defaultLocationType),
		stringFieldDefault("data.manifest", &d.Manifest, defaultManifest),
	)
}

func (e *ExportConfig) applyDefaults(keys keySet) {
	if e == nil {
		return
	}
	// sqlite_path has no default: the snapshot is only written when asked for.
	applyFieldDefaults(keys,
		stringFieldDefault("export.json_path", &e.JSONPath, defaultExportJSON),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
