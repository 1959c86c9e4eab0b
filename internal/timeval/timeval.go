// Package timeval converts between stored "HH:MM" clock strings, decimal
// hours and the labels shown in the grid.
package timeval

import (
	"fmt"
	"math"
	"strings"
)

// EndOfDay is the decimal hour an "00:00" end time stands for.
const EndOfDay = 24.0

// ParseDecimalHour converts "HH:MM", optionally followed by an am/pm marker,
// into a decimal hour (13:30 -> 13.5).
//
// Malformed input yields 0: callers render stray values as midnight instead
// of failing.
func ParseDecimalHour(s string) float64 {
	h, m, ok := split(s)
	if !ok {
		return 0
	}
	return float64(h) + float64(m)/60
}

// Bounds parses a start/end pair and applies the midnight rule: an end of
// 00:00 after a non-midnight start means 24:00.
func Bounds(start, end string) (startH, endH float64) {
	startH = ParseDecimalHour(start)
	endH = ParseDecimalHour(end)
	if endH == 0 && startH > 0 {
		endH = EndOfDay
	}
	return startH, endH
}

// Clock renders an hour/minute pair as "HH:MM".
func Clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Normalize canonicalises user input ("9:5", "09:05 PM", "21:05") into the
// stored "HH:MM" form. It reports false when the hour or minute is not a
// number or lies outside 00:00-23:59.
func Normalize(s string) (string, bool) {
	h, m, ok := split(s)
	if !ok || h < 0 || h > 23 || m < 0 || m > 59 {
		return "", false
	}
	return Clock(h, m), true
}

// FormatHour renders a decimal hour for the time column. The hour may be 24
// for the end-of-day label.
func FormatHour(hour float64, use24h bool) string {
	h := int(math.Floor(hour))
	m := int(math.Floor((hour-float64(h))*60 + 0.5))
	if m == 60 {
		h++
		m = 0
	}

	if use24h {
		if h == 24 {
			return fmt.Sprintf("00:%02d", m)
		}
		return fmt.Sprintf("%02d:%02d", h, m)
	}

	eff := h % 24
	suffix := "AM"
	if eff >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", twelve(eff), m, suffix)
}

// FormatClock renders a stored "HH:MM" value for an event label. In 24-hour
// mode the stored value is returned untouched.
func FormatClock(clock string, use24h bool) string {
	if use24h {
		return clock
	}
	hs, ms, _ := strings.Cut(clock, ":")
	h, _ := leadingInt(hs)
	m, _ := leadingInt(ms)
	suffix := "AM"
	if h >= 12 && h < 24 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", twelve(h), m, suffix)
}

// FormatRange renders "start - end" for an event block.
func FormatRange(start, end string, use24h bool) string {
	return FormatClock(start, use24h) + " - " + FormatClock(end, use24h)
}

func twelve(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

var meridiem = strings.NewReplacer("am", "", "pm", "")

// split extracts hour and minute, converting 12-hour input when an am/pm
// marker is present anywhere in the string.
func split(s string) (h, m int, ok bool) {
	str := strings.ToLower(strings.TrimSpace(s))
	pm := strings.Contains(str, "pm")
	am := strings.Contains(str, "am")
	str = meridiem.Replace(str)

	parts := strings.Split(strings.TrimSpace(str), ":")
	if len(parts) < 2 {
		return 0, 0, false
	}
	h, hok := leadingInt(parts[0])
	m, mok := leadingInt(parts[1])
	if !hok || !mok {
		return 0, 0, false
	}

	if pm && h < 12 {
		h += 12
	}
	if am && h == 12 {
		h = 0
	}
	return h, m, true
}

// leadingInt reads an optionally signed run of digits after leading blanks
// and ignores whatever follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
