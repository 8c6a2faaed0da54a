// FILE: lixenwraith/chanlog/sanitizer/sanitizer_test.go
package sanitizer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   PolicyPreset
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "hello\x00world\n",
			policy:   PolicyRaw,
			expected: "hello\x00world\n",
		},
		{
			name:     "txt hex encodes null byte",
			input:    "test\x00data",
			policy:   PolicyTxt,
			expected: "test<00>data",
		},
		{
			name:     "txt hex encodes multi-byte control",
			input:    "line1\u0085line2",
			policy:   PolicyTxt,
			expected: "line1<c285>line2",
		},
		{
			name:     "txt preserves UTF-8",
			input:    "Hello 世界 ✓",
			policy:   PolicyTxt,
			expected: "Hello 世界 ✓",
		},
		{
			name:     "line escapes line breaks",
			input:    "line1\nline2\ttab\rreturn",
			policy:   PolicyLine,
			expected: "line1\\nline2\\ttab\\rreturn",
		},
		{
			name:     "line escapes unicode separators",
			input:    "a b",
			policy:   PolicyLine,
			expected: "a\\u2028b",
		},
		{
			name:     "line escapes other control runes",
			input:    "bell\x07",
			policy:   PolicyLine,
			expected: "bell\\u0007",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ForPolicy(tc.policy).Sanitize(tc.input))
		})
	}
}

func TestSanitizerCustomRule(t *testing.T) {
	base := New()
	strip := base.Rule(FilterControl, TransformStrip)

	assert.Equal(t, "cleantxt", strip.Sanitize("clean\x00\x07\ntxt"))
	// Rule returns a copy, the original stays passthrough
	assert.Equal(t, "a\nb", base.Sanitize("a\nb"))
}

func TestValidPolicy(t *testing.T) {
	assert.True(t, ValidPolicy("raw"))
	assert.True(t, ValidPolicy("txt"))
	assert.True(t, ValidPolicy("line"))
	assert.False(t, ValidPolicy("json"))
	assert.False(t, ValidPolicy(""))
}

type point struct {
	X, Y int
}

func TestSerialize(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "", Serialize())
	assert.Equal(t, "user 42 true 1.5", Serialize("user", 42, true, 1.5))
	assert.Equal(t, "nil", Serialize(nil))
	assert.Equal(t, "2024-01-02T03:04:05Z", Serialize(ts))
	assert.Equal(t, "boom", Serialize(errors.New("boom")))
	assert.Equal(t, "1.5s", Serialize(1500*time.Millisecond))
	assert.Equal(t, "0aff", Serialize([]byte{0x0a, 0xff}))

	dumped := Serialize(point{X: 1, Y: 2})
	assert.Contains(t, dumped, "sanitizer.point")
	assert.Contains(t, dumped, "X: (int) 1")
	assert.Contains(t, dumped, "Y: (int) 2")
}
