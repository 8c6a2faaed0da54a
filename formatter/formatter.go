// FILE: lixenwraith/chanlog/formatter/formatter.go
// Package formatter expands placeholder templates such as
// "[%year:%month:%dom %hour24:%minute - %level] %prompt" against one sampled instant.
package formatter

import (
	"strconv"
	"strings"
	"time"
)

// Values carries everything a template expansion may substitute.
// Time is sampled once by the caller so every placeholder observes the same instant.
type Values struct {
	Time     time.Time
	Level    string
	HasLevel bool // %level is left verbatim when false
	Title    string
	AMText   string
	PMText   string
}

// Expand replaces every known placeholder in text in a single left-to-right pass.
// The longest marker wins at each position, substituted values are never re-scanned,
// unknown markers are copied verbatim and %prompt is always left for the caller.
func Expand(text string, v Values) string {
	if strings.IndexByte(text, '%') < 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) + 16)

	f := newFields(v.Time)
	for i := 0; i < len(text); {
		if text[i] != '%' {
			next := strings.IndexByte(text[i:], '%')
			if next < 0 {
				sb.WriteString(text[i:])
				break
			}
			sb.WriteString(text[i : i+next])
			i += next
			continue
		}

		p, ok := match(text[i:])
		if !ok {
			sb.WriteByte('%')
			i++
			continue
		}
		if val, ok := f.value(p, v); ok {
			sb.WriteString(val)
		} else {
			sb.WriteString(string(p))
		}
		i += len(p)
	}
	return sb.String()
}

// Value returns the expansion of a single placeholder, false for %prompt and for
// %level when no level is supplied
func Value(p Placeholder, v Values) (string, bool) {
	return newFields(v.Time).value(p, v)
}

// fields holds the calendar breakdown of one instant
type fields struct {
	t          time.Time
	year       int
	month      int
	day        int
	yearDay    int
	weekday    int // ISO, 1=Monday
	hour       int
	minute     int
	second     int
	isoWeek    int
	monthStart time.Weekday
}

func newFields(t time.Time) fields {
	_, week := t.ISOWeek()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return fields{
		t:          t,
		year:       t.Year(),
		month:      int(t.Month()),
		day:        t.Day(),
		yearDay:    t.YearDay(),
		weekday:    isoWeekday(t.Weekday()),
		hour:       t.Hour(),
		minute:     t.Minute(),
		second:     t.Second(),
		isoWeek:    week,
		monthStart: first.Weekday(),
	}
}

func (f fields) value(p Placeholder, v Values) (string, bool) {
	switch p {
	case Year:
		return pad2(int64(f.year)), true
	case Month:
		return pad2(int64(f.month)), true
	case MonthName:
		return f.t.Month().String(), true
	case MonthStart:
		return pad2(int64(isoWeekday(f.monthStart))), true
	case MonthStartName:
		return f.monthStart.String(), true
	case WeekOfYear:
		return pad2(int64(f.isoWeek)), true
	case WeekOfMonth:
		return pad2(int64(f.weekOfMonth())), true
	case DayOfYear:
		return pad2(int64(f.yearDay)), true
	case DayOfMonth:
		return pad2(int64(f.day)), true
	case DayOfWeek:
		return pad2(int64(f.weekday)), true
	case DayOfWeekName:
		return f.t.Weekday().String(), true

	case AMPM:
		if f.hour < 12 {
			return v.AMText, true
		}
		return v.PMText, true
	case Hour12:
		h := f.hour % 12
		if h == 0 {
			h = 12
		}
		return pad2(int64(h)), true
	case Hour24:
		return pad2(int64(f.hour)), true
	case Minute:
		return pad2(int64(f.minute)), true
	case Second:
		return pad2(int64(f.second)), true
	case Millisecond:
		return pad2(int64(f.t.Nanosecond() / int(time.Millisecond))), true
	case Nanosecond:
		return pad2(int64(f.t.Nanosecond())), true

	case HoursInYear:
		return pad2(f.hoursSince(f.yearDay)), true
	case HoursInMonth:
		return pad2(f.hoursSince(f.day)), true
	case HoursInWeek:
		return pad2(f.hoursSince(f.weekday)), true
	case MinutesInYear:
		return pad2(f.minutesSince(f.yearDay)), true
	case MinutesInMonth:
		return pad2(f.minutesSince(f.day)), true
	case MinutesInWeek:
		return pad2(f.minutesSince(f.weekday)), true
	case SecondsInYear:
		return pad2(f.secondsSince(f.yearDay)), true
	case SecondsInMonth:
		return pad2(f.secondsSince(f.day)), true
	case SecondsInWeek:
		return pad2(f.secondsSince(f.weekday)), true

	case Level:
		if !v.HasLevel {
			return "", false
		}
		return v.Level, true
	case Title:
		return v.Title, true
	}
	return "", false
}

// weekOfMonth counts Monday-started weeks, week 1 holds the 1st
func (f fields) weekOfMonth() int {
	offset := isoWeekday(f.monthStart) - 1
	return (f.day+offset-1)/7 + 1
}

// hoursSince returns whole hours elapsed since midnight of day 1, given the 1-based
// ordinal of the current day within the period
func (f fields) hoursSince(dayOrdinal int) int64 {
	return int64(dayOrdinal-1)*24 + int64(f.hour)
}

func (f fields) minutesSince(dayOrdinal int) int64 {
	return f.hoursSince(dayOrdinal)*60 + int64(f.minute)
}

func (f fields) secondsSince(dayOrdinal int) int64 {
	return f.minutesSince(dayOrdinal)*60 + int64(f.second)
}

func isoWeekday(d time.Weekday) int {
	return (int(d)+6)%7 + 1
}

// pad2 zero-pads values below 10 to two digits
func pad2(n int64) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
