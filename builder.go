// FILE: lixenwraith/chanlog/builder.go
package chanlog

import (
	"github.com/lixenwraith/chanlog/sanitizer"
)

// Builder provides a fluent API for building registry configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a Registry with the built configuration.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewRegistry(b.cfg.Clone())
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Template sets the line template.
func (b *Builder) Template(template string) *Builder {
	b.cfg.Template = template
	return b
}

// Prefix sets the text placed before every render.
func (b *Builder) Prefix(prefix string) *Builder {
	b.cfg.Prefix = prefix
	return b
}

// Suffix sets the text placed after every render.
func (b *Builder) Suffix(suffix string) *Builder {
	b.cfg.Suffix = suffix
	return b
}

// Indent sets the indent depth and unit.
func (b *Builder) Indent(depth int64, unit string) *Builder {
	b.cfg.Indent = depth
	b.cfg.IndentUnit = unit
	return b
}

// AMPM sets the %ampm labels.
func (b *Builder) AMPM(am, pm string) *Builder {
	b.cfg.AMText = am
	b.cfg.PMText = pm
	return b
}

// Title sets the value of %title.
func (b *Builder) Title(title string) *Builder {
	b.cfg.Title = title
	return b
}

// ExpandMessage enables placeholder expansion of messages.
func (b *Builder) ExpandMessage(enable bool) *Builder {
	b.cfg.ExpandMessage = enable
	return b
}

// Sanitization sets the message sanitization policy.
func (b *Builder) Sanitization(policy sanitizer.PolicyPreset) *Builder {
	if b.err != nil {
		return b
	}
	if !sanitizer.ValidPolicy(string(policy)) {
		b.err = fmtErrorf("invalid sanitization policy: '%s'", policy)
		return b
	}
	b.cfg.Sanitization = string(policy)
	return b
}

// Directory sets the snapshot directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// FileName sets the snapshot base name.
func (b *Builder) FileName(name string) *Builder {
	b.cfg.FileName = name
	return b
}

// Zip enables zip bundling of snapshots.
func (b *Builder) Zip(enable bool) *Builder {
	b.cfg.Zip = enable
	return b
}

// AutosaveIntervalS sets the periodic snapshot interval, 0 disables.
func (b *Builder) AutosaveIntervalS(interval int64) *Builder {
	b.cfg.AutosaveIntervalS = interval
	return b
}

// OutputFile routes normal sinks to a rolling file.
func (b *Builder) OutputFile(path string, maxSizeMB int64) *Builder {
	b.cfg.OutputFile = path
	b.cfg.OutputMaxSizeMB = maxSizeMB
	return b
}

// Debug enables error detail in diagnostics.
func (b *Builder) Debug(enable bool) *Builder {
	b.cfg.Debug = enable
	return b
}

// Override applies "key=value" strings as ApplyOverride does.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}

	var errors []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}
		if err := applyConfigField(b.cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}
	b.err = combineConfigErrors(errors)
	return b
}

// Example usage:
// reg, err := chanlog.NewBuilder().
//
//	Directory("/var/log/app").
//	FileName("%year-%month-%dom").
//	Zip(true).
//	Build()
//
// if err == nil {
//
//	 defer reg.Shutdown()
//	 svc, _ := reg.GetOrCreate("svc")
//	 svc.Info("ready")
//
// }
