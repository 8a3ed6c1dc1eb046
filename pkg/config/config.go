package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
)

//go:embed config.toml.sample
var configTemplate string

// Config is the full configuration: storage location, the registered content
// fields, and the declared filter instances. The composition root turns it
// into a populated registry at startup.
type Config struct {
	DBPath   string         `toml:"db_path"`
	PageSize int            `toml:"page_size"`
	BasePath string         `toml:"base_path"`
	Fields   []FieldConfig  `toml:"fields"`
	Filters  []FilterConfig `toml:"filters"`
}

// FieldConfig declares one content field of the listing collection.
type FieldConfig struct {
	Name       string `toml:"name"`
	Label      string `toml:"label"`
	Type       string `toml:"type"`
	Searchable bool   `toml:"searchable"`
}

// FilterConfig declares one filter instance. Enabled defaults to true when
// omitted.
type FilterConfig struct {
	Name        string          `toml:"name"`
	Type        string          `toml:"type"`
	Label       string          `toml:"label"`
	Source      string          `toml:"source"`
	SourceKey   string          `toml:"source_key"`
	Options     []filter.Option `toml:"options"`
	Priority    int             `toml:"priority"`
	Enabled     *bool           `toml:"enabled"`
	Placeholder string          `toml:"placeholder"`
	Min         *float64        `toml:"min"`
	Max         *float64        `toml:"max"`
	Step        float64         `toml:"step"`
	MinLength   int             `toml:"min_length"`
}

// Definition converts the config entry into a filter definition.
func (f FilterConfig) Definition() filter.Definition {
	enabled := true
	if f.Enabled != nil {
		enabled = *f.Enabled
	}
	return filter.Definition{
		Name:        f.Name,
		Type:        filter.Type(f.Type),
		Label:       f.Label,
		Source:      f.Source,
		SourceKey:   f.SourceKey,
		Options:     f.Options,
		Priority:    f.Priority,
		Enabled:     enabled,
		Placeholder: f.Placeholder,
		Min:         f.Min,
		Max:         f.Max,
		Step:        f.Step,
		MinLength:   f.MinLength,
	}
}

// FieldDefs converts the configured fields into core field definitions.
func (c *Config) FieldDefs() []core.FieldDef {
	defs := make([]core.FieldDef, 0, len(c.Fields))
	for _, f := range c.Fields {
		defs = append(defs, core.FieldDef{
			Name:       f.Name,
			Label:      f.Label,
			Type:       f.Type,
			Searchable: f.Searchable,
		})
	}
	return defs
}

// GetDefaultConfigPath returns the per-user config file location.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(configDir, "listry", "config.toml"), nil
}

// GetDefaultDBPath returns the default database location.
func GetDefaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(configDir, "listry", "listings.db"), nil
}

// GetDefaultConfig returns a runnable default configuration.
func GetDefaultConfig() (*Config, error) {
	dbPath, err := GetDefaultDBPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		DBPath:   dbPath,
		PageSize: 20,
		BasePath: "/search",
	}, nil
}

// LoadConfig reads the config file; a missing file yields defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DBPath == "" {
		dbPath, err := GetDefaultDBPath()
		if err != nil {
			return nil, err
		}
		config.DBPath = dbPath
	}
	if config.PageSize <= 0 {
		config.PageSize = 20
	}
	if config.PageSize > 100 {
		config.PageSize = 100
	}
	if config.BasePath == "" {
		config.BasePath = "/search"
	}

	return &config, nil
}

// SaveConfig writes the config as TOML.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the annotated sample config for new setups.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}
