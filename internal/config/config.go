package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to upper-cased, underscore-joined keys for environment overrides,
// e.g. BUDDYFARM_APP_HTTP_ADDR.
const EnvPrefix = "BUDDYFARM"

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{
	"app.env",
	"app.log_level",
	"app.http_addr",
	"settings.db_path",
	"data.dir",
	"data.watch",
}

// Load reads path (plus any files it includes), applies defaults and validates the result.
func Load(path string) (*Config, error) {
	files, err := resolveConfigIncludes(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	for _, file := range files {
		if err := mergeConfigFile(v, file); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	setKeys := make(keySet)
	collectSettingsKeys(v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func joinData(dir, file string) string {
	file = strings.TrimSpace(file)
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	if err := tmp.ReadInConfig(); err != nil {
		return err
	}
	return v.MergeConfigMap(tmp.AllSettings())
}

// includeWalk orders config files so that every include precedes the file
// naming it. A file reached twice is merged once, at its first position.
type includeWalk struct {
	merged   map[string]bool
	visiting []string
	order    []string
}

func resolveConfigIncludes(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("no config file given")
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &includeWalk{merged: make(map[string]bool)}
	if err := w.visit(root); err != nil {
		return nil, err
	}
	return w.order, nil
}

func (w *includeWalk) visit(path string) error {
	path = filepath.Clean(path)
	for i, p := range w.visiting {
		if p == path {
			chain := append(append([]string(nil), w.visiting[i:]...), path)
			return fmt.Errorf("include cycle: %s", strings.Join(chain, " -> "))
		}
	}
	if w.merged[path] {
		return nil
	}
	includes, err := readIncludes(path)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	w.visiting = append(w.visiting, path)
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		if err := w.visit(inc); err != nil {
			return err
		}
	}
	w.visiting = w.visiting[:len(w.visiting)-1]
	w.merged[path] = true
	w.order = append(w.order, path)
	return nil
}

// readIncludes returns the file's include list. A single string is accepted
// as a one-item list; blank items are dropped.
func readIncludes(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var items []any
	switch raw := v.Get("include").(type) {
	case nil:
		return nil, nil
	case string:
		items = []any{raw}
	case []any:
		items = raw
	case []string:
		for _, item := range raw {
			items = append(items, item)
		}
	default:
		return nil, fmt.Errorf("include: want a file name or a list of file names, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("include: entry %v is not a file name", item)
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

func collectSettingsKeys(settings map[string]any, dest keySet) {
	if dest == nil {
		return
	}
	markKeys("", settings, dest)
}

// markKeys records the dotted path of every leaf so defaults only fill keys
// the config files left unset. Lists count as leaves.
func markKeys(prefix string, node any, dest keySet) {
	var children map[string]any
	switch val := node.(type) {
	case map[string]any:
		children = val
	case map[any]any:
		children = make(map[string]any, len(val))
		for k, v := range val {
			if name, ok := k.(string); ok {
				children[name] = v
			}
		}
	default:
		if prefix != "" {
			dest.mark(prefix)
		}
		return
	}
	for k, v := range children {
		name := strings.ToLower(strings.TrimSpace(k))
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		markKeys(name, v, dest)
	}
}
