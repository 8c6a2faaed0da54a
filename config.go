// FILE: lixenwraith/chanlog/config.go
package chanlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/chanlog/sanitizer"
)

// Config holds the settings a Registry applies to the channels it creates
type Config struct {
	// Rendering
	Template      string `toml:"template"` // Line template, %prompt marks the message
	Prefix        string `toml:"prefix"`
	Suffix        string `toml:"suffix"`
	Indent        int64  `toml:"indent"`      // Indent units before non-message renders
	IndentUnit    string `toml:"indent_unit"` // Repeated Indent times
	AMText        string `toml:"am_text"`
	PMText        string `toml:"pm_text"`
	Title         string `toml:"title"`          // Value of %title
	ExpandMessage bool   `toml:"expand_message"` // Placeholder-expand messages too
	Sanitization  string `toml:"sanitization"`   // "raw", "txt" or "line"

	// Snapshots
	Directory         string `toml:"directory"`
	FileName          string `toml:"file_name"` // Base name, placeholders allowed
	Zip               bool   `toml:"zip"`
	AutosaveIntervalS int64  `toml:"autosave_interval_s"` // 0 disables

	// Normal sink, stdout when output_file is empty
	OutputFile      string `toml:"output_file"`
	OutputMaxSizeMB int64  `toml:"output_max_size_mb"`

	// Error detail in diagnostics
	Debug bool `toml:"debug"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Rendering
	Template:      DefaultTemplate,
	Prefix:        "",
	Suffix:        "",
	Indent:        DefaultIndent,
	IndentUnit:    DefaultIndentUnit,
	AMText:        DefaultAMText,
	PMText:        DefaultPMText,
	Title:         "",
	ExpandMessage: false,
	Sanitization:  string(sanitizer.PolicyRaw),

	// Snapshots
	Directory:         DefaultDirectory,
	FileName:          DefaultFileName,
	Zip:               false,
	AutosaveIntervalS: 0,

	// Normal sink
	OutputFile:      "",
	OutputMaxSizeMB: 100,

	Debug: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the [chanlog] table of a TOML file over the defaults.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("chanlog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "chanlog.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies loader values into cfg by toml tag
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Template == "" {
		return fmtErrorf("template cannot be empty")
	}

	if !sanitizer.ValidPolicy(c.Sanitization) {
		return fmtErrorf("invalid sanitization: '%s' (use raw, txt, or line)", c.Sanitization)
	}

	if c.Indent < 0 {
		return fmtErrorf("indent cannot be negative: %d", c.Indent)
	}

	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if strings.TrimSpace(c.FileName) == "" {
		return fmtErrorf("file_name cannot be empty")
	}

	if strings.ContainsAny(c.FileName, `/\`) {
		return fmtErrorf("file_name cannot contain path separators: %s", c.FileName)
	}

	if c.AutosaveIntervalS < 0 {
		return fmtErrorf("autosave_interval_s cannot be negative: %d", c.AutosaveIntervalS)
	}

	if c.OutputMaxSizeMB < 0 {
		return fmtErrorf("output_max_size_mb cannot be negative: %d", c.OutputMaxSizeMB)
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// RenderOptions returns the render options the configuration describes
func (c *Config) RenderOptions() RenderOptions {
	return RenderOptions{
		Template:      c.Template,
		Prefix:        c.Prefix,
		Suffix:        c.Suffix,
		Indent:        int(c.Indent),
		IndentUnit:    c.IndentUnit,
		AMText:        c.AMText,
		PMText:        c.PMText,
		Title:         c.Title,
		ExpandMessage: c.ExpandMessage,
		Sanitization:  c.Sanitization,
	}
}

func (c *Config) snapshotSettings() snapshotSettings {
	return snapshotSettings{
		directory: c.Directory,
		name:      c.FileName,
		zip:       c.Zip,
	}
}
