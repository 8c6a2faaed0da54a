// FILE: lixenwraith/chanlog/sanitizer/sanitizer.go
// Package sanitizer cleans log message payloads before they are placed into a
// rendered line, and serializes arbitrary values into message text.
package sanitizer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // unicode.IsControl
	FilterLineBreak                       // '\n', '\r', U+2028, U+2029
)

// Transform flags
const (
	TransformStrip     uint64 = 1 << iota // Remove the rune
	TransformHexEncode                    // Replace with "<XXYY>" of the UTF-8 bytes
	TransformEscape                       // Backslash escape ("\n", "\t", "\u0000")
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Passthrough
	PolicyTxt  PolicyPreset = "txt"  // Hex-encode anything non-printable
	PolicyLine PolicyPreset = "line" // Escape control runes so one message stays one line
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyLine: {{filter: FilterControl | FilterLineBreak, transform: TransformEscape}},
}

// ValidPolicy reports whether name is a known preset
func ValidPolicy(name string) bool {
	_, ok := policyRules[PolicyPreset(name)]
	return ok
}

// Sanitizer applies an ordered list of rules, first matching rule wins per rune.
// A Sanitizer is immutable once built and safe for concurrent use.
type Sanitizer struct {
	rules []rule
}

// New creates a passthrough Sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// ForPolicy returns a Sanitizer for the preset, unknown presets yield passthrough
func ForPolicy(preset PolicyPreset) *Sanitizer {
	return New().Policy(preset)
}

// Rule returns a copy of the sanitizer with a custom rule appended
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	rules := make([]rule, len(s.rules), len(s.rules)+1)
	copy(rules, s.rules)
	return &Sanitizer{rules: append(rules, rule{filter: filter, transform: transform})}
}

// Policy returns a copy of the sanitizer with the preset's rules appended
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	out := s
	for _, r := range policyRules[preset] {
		out = out.Rule(r.filter, r.transform)
	}
	return out
}

// Sanitize applies all configured rules to data
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}

	buf := make([]byte, 0, len(data))
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				buf = applyTransform(buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			buf = utf8.AppendRune(buf, r)
		}
	}
	return string(buf)
}

func matchesFilter(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterLineBreak != 0 {
		switch r {
		case '\n', '\r', '\u2028', '\u2029':
			return true
		}
	}
	return false
}

func applyTransform(buf []byte, r rune, mask uint64) []byte {
	switch {
	case mask&TransformStrip != 0:
		return buf

	case mask&TransformHexEncode != 0:
		var rb [utf8.UTFMax]byte
		n := utf8.EncodeRune(rb[:], r)
		buf = append(buf, '<')
		buf = hex.AppendEncode(buf, rb[:n])
		return append(buf, '>')

	case mask&TransformEscape != 0:
		switch r {
		case '\n':
			return append(buf, '\\', 'n')
		case '\r':
			return append(buf, '\\', 'r')
		case '\t':
			return append(buf, '\\', 't')
		case '\b':
			return append(buf, '\\', 'b')
		case '\f':
			return append(buf, '\\', 'f')
		}
		return fmt.Appendf(buf, "\\u%04x", r)
	}
	return utf8.AppendRune(buf, r)
}

// dumper renders composite values compactly and deterministically
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Serialize joins args with single spaces. Scalars use their natural text form,
// composite values (structs, maps, slices, pointers) are dumped with go-spew.
func Serialize(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(serializeValue(arg))
	}
	return sb.String()
}

func serializeValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "nil"
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case time.Duration:
		return val.String()
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	case []byte:
		return hex.EncodeToString(val)
	default:
		var b bytes.Buffer
		dumper.Fdump(&b, val)
		return string(bytes.TrimSpace(b.Bytes()))
	}
}
