package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Settings.validate(); err != nil {
		return err
	}
	if err := c.Data.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogFormat)) {
	case "text", "json":
	default:
		return fmt.Errorf("app.log_format must be text or json, got %q", a.LogFormat)
	}
	if strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (s *SettingsConfig) validate() error {
	if strings.TrimSpace(s.Namespace) == "" {
		return fmt.Errorf("settings.namespace cannot be empty")
	}
	if strings.ContainsAny(s.Namespace, ": ") {
		return fmt.Errorf("settings.namespace must not contain ':' or spaces")
	}
	if strings.TrimSpace(s.CookieName) == "" {
		return fmt.Errorf("settings.cookie_name cannot be empty")
	}
	if s.CookieMaxAgeDays < 0 {
		return fmt.Errorf("settings.cookie_max_age_days must be >= 0")
	}
	return nil
}

func (d *DataConfig) validate() error {
	if strings.TrimSpace(d.Dir) == "" {
		return fmt.Errorf("data.dir cannot be empty")
	}
	if strings.TrimSpace(d.LocationsFile) == "" {
		return fmt.Errorf("data.locations_file cannot be empty")
	}
	return nil
}
