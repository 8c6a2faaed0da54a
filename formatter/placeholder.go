// FILE: lixenwraith/chanlog/formatter/placeholder.go
package formatter

import (
	"sort"
	"strings"
)

// Placeholder is a named template token bound to a literal marker string
type Placeholder string

// Date fields
const (
	Year           Placeholder = "%year"
	Month          Placeholder = "%month"
	MonthName      Placeholder = "%mn"
	MonthStart     Placeholder = "%ms"  // ISO weekday (1=Monday) the month began on
	MonthStartName Placeholder = "%msn" // Name of the weekday the month began on
	WeekOfYear     Placeholder = "%woy" // ISO week
	WeekOfMonth    Placeholder = "%wom"
	DayOfYear      Placeholder = "%doy"
	DayOfMonth     Placeholder = "%dom"
	DayOfWeek      Placeholder = "%dow" // ISO weekday, 1=Monday
	DayOfWeekName  Placeholder = "%down"
)

// Clock fields
const (
	AMPM        Placeholder = "%ampm"
	Hour12      Placeholder = "%hour12"
	Hour24      Placeholder = "%hour24"
	Minute      Placeholder = "%minute"
	Second      Placeholder = "%second"
	Millisecond Placeholder = "%millis"
	Nanosecond  Placeholder = "%nano"
)

// Cumulative counters since the start of the current year, month or week
const (
	HoursInYear    Placeholder = "%hiy"
	HoursInMonth   Placeholder = "%him"
	HoursInWeek    Placeholder = "%hiw"
	MinutesInYear  Placeholder = "%miy"
	MinutesInMonth Placeholder = "%mim"
	MinutesInWeek  Placeholder = "%miw"
	SecondsInYear  Placeholder = "%siy"
	SecondsInMonth Placeholder = "%sim"
	SecondsInWeek  Placeholder = "%siw"
)

// Non-time fields
const (
	Level  Placeholder = "%level"
	Title  Placeholder = "%title"
	Prompt Placeholder = "%prompt" // Caller-supplied message payload
)

// catalog in declaration order
var catalog = []Placeholder{
	Year, Month, MonthName, MonthStart, MonthStartName,
	WeekOfYear, WeekOfMonth, DayOfYear, DayOfMonth, DayOfWeek, DayOfWeekName,
	AMPM, Hour12, Hour24,
	HoursInYear, HoursInMonth, HoursInWeek,
	MinutesInYear, MinutesInMonth, MinutesInWeek,
	SecondsInYear, SecondsInMonth, SecondsInWeek,
	Minute, Second, Millisecond, Nanosecond,
	Level, Title, Prompt,
}

// byLength is the catalog ordered longest marker first, for longest-match scanning
var byLength = func() []Placeholder {
	out := make([]Placeholder, len(catalog))
	copy(out, catalog)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// Catalog returns every known placeholder
func Catalog() []Placeholder {
	out := make([]Placeholder, len(catalog))
	copy(out, catalog)
	return out
}

// String returns the literal marker
func (p Placeholder) String() string {
	return string(p)
}

// Parse resolves a literal marker such as "%year" to its Placeholder
func Parse(marker string, ignoreCase bool) (Placeholder, bool) {
	for _, p := range catalog {
		if string(p) == marker || (ignoreCase && strings.EqualFold(string(p), marker)) {
			return p, true
		}
	}
	return "", false
}

// match returns the longest placeholder that prefixes s
func match(s string) (Placeholder, bool) {
	for _, p := range byLength {
		if strings.HasPrefix(s, string(p)) {
			return p, true
		}
	}
	return "", false
}
