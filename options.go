// FILE: lixenwraith/chanlog/options.go
package chanlog

import (
	"strings"
	"time"

	"github.com/lixenwraith/chanlog/formatter"
	"github.com/lixenwraith/chanlog/sanitizer"
)

// RenderOptions is the per-channel rendering configuration.
// It is a plain value, equality is structural over every field.
type RenderOptions struct {
	Template      string // Active line template, %prompt marks the message
	Prefix        string
	Suffix        string
	Indent        int // Number of IndentUnit repetitions before non-message renders
	IndentUnit    string
	AMText        string
	PMText        string
	Title         string // Value of %title
	ExpandMessage bool   // Placeholder-expand the raw message as well
	Sanitization  string // sanitizer policy applied to the message, "raw" is passthrough
}

// DefaultRenderOptions returns the options new channels start with
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Template:     DefaultTemplate,
		Indent:       DefaultIndent,
		IndentUnit:   DefaultIndentUnit,
		AMText:       DefaultAMText,
		PMText:       DefaultPMText,
		Sanitization: string(sanitizer.PolicyRaw),
	}
}

// normalized maps an empty sanitization policy to raw
func (o RenderOptions) normalized() RenderOptions {
	if o.Sanitization == "" {
		o.Sanitization = string(sanitizer.PolicyRaw)
	}
	return o
}

func (o RenderOptions) validate() error {
	if !sanitizer.ValidPolicy(o.Sanitization) {
		return fmtErrorf("invalid sanitization policy: '%s' (use raw, txt, or line)", o.Sanitization)
	}
	if o.Indent < 0 {
		return fmtErrorf("indent cannot be negative: %d", o.Indent)
	}
	return nil
}

// Equal reports whether all fields match
func (o RenderOptions) Equal(other RenderOptions) bool {
	return o == other
}

// Clone returns a copy
func (o RenderOptions) Clone() RenderOptions {
	return o
}

// Render expands text against the current wall clock.
// isMessage renders skip indentation but keep prefix and suffix.
func (o RenderOptions) Render(text string, level Level, isMessage bool) string {
	return o.RenderAt(text, level, isMessage, time.Now())
}

// RenderAt expands text against the given instant
func (o RenderOptions) RenderAt(text string, level Level, isMessage bool, at time.Time) string {
	return o.render(text, o.values(at, level, true), isMessage)
}

// ExpandName expands placeholders in a snapshot base name. No level is known,
// no prefix, suffix or indent is applied.
func (o RenderOptions) ExpandName(name string, at time.Time) string {
	return formatter.Expand(name, o.values(at, 0, false))
}

func (o RenderOptions) values(at time.Time, level Level, hasLevel bool) formatter.Values {
	return formatter.Values{
		Time:     at,
		Level:    level.String(),
		HasLevel: hasLevel,
		Title:    o.Title,
		AMText:   o.AMText,
		PMText:   o.PMText,
	}
}

func (o RenderOptions) render(text string, v formatter.Values, isMessage bool) string {
	expanded := formatter.Expand(text, v)

	var sb strings.Builder
	if !isMessage && o.Indent > 0 {
		sb.WriteString(strings.Repeat(o.IndentUnit, o.Indent))
	}
	sb.WriteString(o.Prefix)
	sb.WriteString(expanded)
	sb.WriteString(o.Suffix)
	return sb.String()
}

// rendered holds every intermediate of one log call, all derived from one instant
type rendered struct {
	format  string // Expanded template, %prompt still in place
	message string // Message as substituted into the line
	line    string
}

// renderLine produces the filter inputs and final line for one log call
func (o RenderOptions) renderLine(level Level, message string, at time.Time) rendered {
	v := o.values(at, level, true)

	format := o.render(o.Template, v, false)
	msg := sanitizer.ForPolicy(sanitizer.PolicyPreset(o.Sanitization)).Sanitize(message)
	if o.ExpandMessage {
		msg = o.render(msg, v, true)
	}

	return rendered{
		format:  format,
		message: msg,
		line:    strings.ReplaceAll(format, formatter.Prompt.String(), msg),
	}
}
