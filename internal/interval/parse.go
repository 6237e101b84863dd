package interval

import "regexp"

// tokenPattern matches "H:MM - H:MM" with an ASCII hyphen or en-dash between
// the two times. A dot is accepted as the time separator because OCR often
// reads ':' as '.'.
var tokenPattern = regexp.MustCompile(`\b[0-2]?\d[:.][0-5]\d\s*[-–]\s*[0-2]?\d[:.][0-5]\d\b`)

// Parse returns the raw interval tokens found in text, in order of appearance.
//
// The tokens are returned verbatim; use Snap to normalize them. A text without
// any interval yields an empty (non-nil) slice.
func Parse(text string) []string {
	found := tokenPattern.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}
