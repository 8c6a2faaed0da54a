// FILE: lixenwraith/chanlog/override.go
package chanlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to a copy of the registry configuration
// and installs it. Keys are the toml names of Config fields.
//
// Example:
//
//	reg, _ := chanlog.NewRegistry(nil)
//	err := reg.ApplyOverride(
//	    "directory=/var/log/app",
//	    "zip=true",
//	    "file_name=%year-%month-%dom_%level",
//	)
func (r *Registry) ApplyOverride(overrides ...string) error {
	cfg := r.getConfig().Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	return r.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("chanlog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "chanlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Rendering
	case "template":
		cfg.Template = value
	case "prefix":
		cfg.Prefix = value
	case "suffix":
		cfg.Suffix = value
	case "indent":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for indent '%s': %w", value, err)
		}
		cfg.Indent = intVal
	case "indent_unit":
		cfg.IndentUnit = value
	case "am_text":
		cfg.AMText = value
	case "pm_text":
		cfg.PMText = value
	case "title":
		cfg.Title = value
	case "expand_message":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for expand_message '%s': %w", value, err)
		}
		cfg.ExpandMessage = boolVal
	case "sanitization":
		cfg.Sanitization = value

	// Snapshots
	case "directory":
		cfg.Directory = value
	case "file_name":
		cfg.FileName = value
	case "zip":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for zip '%s': %w", value, err)
		}
		cfg.Zip = boolVal
	case "autosave_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for autosave_interval_s '%s': %w", value, err)
		}
		cfg.AutosaveIntervalS = intVal

	// Normal sink
	case "output_file":
		cfg.OutputFile = value
	case "output_max_size_mb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for output_max_size_mb '%s': %w", value, err)
		}
		cfg.OutputMaxSizeMB = intVal

	case "debug":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for debug '%s': %w", value, err)
		}
		cfg.Debug = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
