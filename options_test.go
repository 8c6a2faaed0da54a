// FILE: lixenwraith/chanlog/options_test.go
package chanlog

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRenderOptions(t *testing.T) {
	opts := DefaultRenderOptions()

	assert.Equal(t, "[%year:%month:%wom:%dom:%hour12:%minute:%second %ampm - %level] %prompt", opts.Template)
	assert.Equal(t, 0, opts.Indent)
	assert.Equal(t, "\t", opts.IndentUnit)
	assert.Equal(t, "AM", opts.AMText)
	assert.Equal(t, "PM", opts.PMText)
	assert.False(t, opts.ExpandMessage)
	assert.Equal(t, "raw", opts.Sanitization)
}

func TestRenderAt(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.Prefix = "("
	opts.Suffix = ")"
	opts.Indent = 3
	opts.IndentUnit = "."

	tests := []struct {
		name      string
		text      string
		level     Level
		isMessage bool
		expected  string
	}{
		{"template", "%level@%hour24", LevelClient, false, "...(CLIENT@15)"},
		{"message skips indent", "%level@%hour24", LevelClient, true, "(CLIENT@15)"},
		{"plain text", "hello", LevelInfo, false, "...(hello)"},
		{"prompt kept", "%prompt", LevelInfo, true, "(%prompt)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, opts.RenderAt(tt.text, tt.level, tt.isMessage, fixedTime))
		})
	}
}

func TestRenderCustomLabels(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.AMText = "vorm."
	opts.PMText = "nachm."
	opts.Title = "svc"

	assert.Equal(t, "svc nachm.", opts.RenderAt("%title %ampm", LevelInfo, false, fixedTime))
	morning := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "svc vorm.", opts.RenderAt("%title %ampm", LevelInfo, false, morning))
}

func TestRenderUsesWallClock(t *testing.T) {
	opts := DefaultRenderOptions()

	before := time.Now().Year()
	got := opts.Render("%year", LevelInfo, false)
	after := time.Now().Year()

	assert.Contains(t, []string{strconv.Itoa(before), strconv.Itoa(after)}, got)
}

func TestRenderIdempotentForDefaultTemplate(t *testing.T) {
	opts := DefaultRenderOptions()

	first := opts.RenderAt(opts.Template, LevelInfo, false, fixedTime)
	second := opts.RenderAt(opts.Template, LevelInfo, false, fixedTime)
	assert.Equal(t, first, second)
	assert.Equal(t, "[2024:01:01:02:03:04:05 PM - INFO] %prompt", first)

	// Re-rendering the output changes nothing but the kept %prompt
	assert.Equal(t, first, opts.RenderAt(first, LevelInfo, false, fixedTime))
}

func TestExpandName(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.Prefix = "ignored-"
	opts.Indent = 2

	assert.Equal(t, "2024-01-02", opts.ExpandName(DefaultFileName, fixedTime))
	assert.Equal(t, "%level-15", opts.ExpandName("%level-%hour24", fixedTime))
}

func TestRenderLine(t *testing.T) {
	opts := RenderOptions{Template: "%level: %prompt", Sanitization: "line"}

	r := opts.renderLine(LevelWarning, "multi\nline", fixedTime)
	assert.Equal(t, "WARNING: %prompt", r.format)
	assert.Equal(t, `multi\nline`, r.message)
	assert.Equal(t, `WARNING: multi\nline`, r.line)
}

func TestRenderOptionsEqual(t *testing.T) {
	a := DefaultRenderOptions()
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Suffix = "!"
	assert.False(t, a.Equal(b))
	assert.Equal(t, "", a.Suffix)
}
