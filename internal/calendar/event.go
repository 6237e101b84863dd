package calendar

import (
	"fmt"
	"time"

	"github.com/ironsheep/schedule-ocr-mcp/internal/interval"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

// DefaultTitle is the summary given to every work event.
const DefaultTitle = "Travail"

// AnchorLayout is the date format accepted for week anchors.
const AnchorLayout = "2006-01-02"

// Event is one work interval placed on the calendar.
type Event struct {
	Day   schedule.Day `json:"day"`
	Title string       `json:"title"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
}

// Materialize turns the schedule into dated events. The anchor is the date of
// the Monday of the week; each day lands on anchor plus its offset. Failed
// and empty days produce nothing.
//
// An interval ending before it starts is treated as an overnight shift and
// ends on the following day.
func Materialize(snapshot map[schedule.Day]schedule.DayResult, anchor time.Time, title string) []Event {
	if title == "" {
		title = DefaultTitle
	}
	y, m, d := anchor.Date()
	loc := anchor.Location()

	events := []Event{}
	for _, day := range schedule.Days {
		res, ok := snapshot[day]
		if !ok {
			continue
		}
		off, _ := schedule.Offset(day)

		for _, line := range res.Lines() {
			startText, endText, ok := interval.Split(line)
			if !ok {
				continue
			}
			sh, sm := interval.ParseClock(startText)
			eh, em := interval.ParseClock(endText)

			start := time.Date(y, m, d+off, sh, sm, 0, 0, loc)
			end := time.Date(y, m, d+off, eh, em, 0, 0, loc)
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			events = append(events, Event{Day: day, Title: title, Start: start, End: end})
		}
	}
	return events
}

// ParseAnchor reads a YYYY-MM-DD date in loc. An empty string yields the
// Monday of the current week.
func ParseAnchor(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if s == "" {
		return MondayOf(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation(AnchorLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid anchor %q, want %s: %w", s, AnchorLayout, err)
	}
	return t, nil
}

// MondayOf returns midnight on the Monday of t's week.
func MondayOf(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
}
