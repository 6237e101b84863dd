package schedule

import (
	"fmt"
	"strings"
)

// Kind is the state of one day's result.
type Kind string

const (
	KindEmpty      Kind = "empty"
	KindAggregated Kind = "aggregated"
	KindFailed     Kind = "failed"
	KindManual     Kind = "manual"

	// KindEditing is only reported by Model.State while a draft is open.
	KindEditing Kind = "editing"
)

// FailedText is displayed for a day with no usable result.
const FailedText = "Traitement incorrect"

// IntervalData is one manually edited interval. Fields hold what the user
// typed until the edit session is closed, then two-digit numbers.
type IntervalData struct {
	StartH string `json:"start_h"`
	StartM string `json:"start_m"`
	EndH   string `json:"end_h"`
	EndM   string `json:"end_m"`
}

// String formats the interval as "HH:MM - HH:MM".
func (d IntervalData) String() string {
	return fmt.Sprintf("%s:%s - %s:%s", d.StartH, d.StartM, d.EndH, d.EndM)
}

// DayResult is the committed result for one day.
type DayResult struct {
	Kind Kind `json:"kind"`

	// Intervals holds the voted intervals when Kind is KindAggregated.
	Intervals []string `json:"intervals,omitempty"`

	// Manual holds the edited intervals when Kind is KindManual.
	Manual []IntervalData `json:"manual,omitempty"`
}

// Lines returns the canonical interval strings of the result, or nil when
// the day has none.
func (r DayResult) Lines() []string {
	switch r.Kind {
	case KindAggregated:
		return append([]string(nil), r.Intervals...)
	case KindManual:
		lines := make([]string, len(r.Manual))
		for i, d := range r.Manual {
			lines[i] = d.String()
		}
		return lines
	}
	return nil
}

// Display returns the text shown for the day: one interval per line, or
// FailedText.
func (r DayResult) Display() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return FailedText
	}
	return strings.Join(lines, "\n")
}

func (r DayResult) clone() DayResult {
	out := DayResult{Kind: r.Kind}
	if r.Intervals != nil {
		out.Intervals = append([]string(nil), r.Intervals...)
	}
	if r.Manual != nil {
		out.Manual = append([]IntervalData(nil), r.Manual...)
	}
	return out
}
