package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Quarters are the minute values a snapped time may carry, in scan order.
var Quarters = [4]int{0, 15, 30, 45}

// Snap normalizes one raw interval to "HH:MM - HH:MM".
//
// The raw string is split on its first hyphen or en-dash. If no separator is
// found the input is returned unchanged, which only happens for strings that
// did not come from Parse.
func Snap(raw string) string {
	left, right, ok := splitInterval(raw)
	if !ok {
		return raw
	}
	return SnapTime(left) + " - " + SnapTime(right)
}

// SnapTime normalizes a single "H:MM" time of day.
func SnapTime(s string) string {
	h, m := splitClock(s)
	return FormatClock(clamp(h, 0, 23), NearestQuarter(m))
}

// NearestQuarter returns the quarter hour closest to minutes. Ties go to the
// lower quarter.
func NearestQuarter(minutes int) int {
	best := Quarters[0]
	bestDist := abs(minutes - best)
	for _, q := range Quarters[1:] {
		if d := abs(minutes - q); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

// FormatClock renders hours and minutes as zero-padded "HH:MM".
func FormatClock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseClock splits a canonical or raw "H:MM" time into hours and minutes.
// Fields that are not numbers read as zero.
func ParseClock(s string) (h, m int) {
	return splitClock(s)
}

// Split returns the two trimmed sides of an interval string.
func Split(raw string) (start, end string, ok bool) {
	return splitInterval(raw)
}

func splitInterval(raw string) (string, string, bool) {
	i := strings.IndexAny(raw, "-–")
	if i < 0 {
		return "", "", false
	}
	sep := len("-")
	if strings.HasPrefix(raw[i:], "–") {
		sep = len("–")
	}
	return strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+sep:]), true
}

func splitClock(s string) (int, int) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	hStr, mStr, _ := strings.Cut(s, ":")
	return atoiOrZero(hStr), atoiOrZero(mStr)
}

// atoiOrZero reads the leading digits of s. Anything unreadable is zero.
func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
