package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Day is a French weekday name as printed on schedule tables.
type Day string

// The seven days, named as they appear in column headers.
const (
	Dimanche Day = "Dimanche"
	Lundi    Day = "Lundi"
	Mardi    Day = "Mardi"
	Mercredi Day = "Mercredi"
	Jeudi    Day = "Jeudi"
	Vendredi Day = "Vendredi"
	Samedi   Day = "Samedi"
)

// Days lists every day in canonical display order.
var Days = []Day{Dimanche, Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi}

// offsets are counted from the week anchor, which is a Monday.
var offsets = map[Day]int{
	Lundi:    0,
	Mardi:    1,
	Mercredi: 2,
	Jeudi:    3,
	Vendredi: 4,
	Samedi:   5,
	Dimanche: 6,
}

// ErrUnknownDay is returned when a name does not match any of the seven days.
var ErrUnknownDay = errors.New("unknown day")

// ParseDay matches s against the day names, ignoring case and surrounding
// spaces.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, d := range Days {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDay)
}

// Offset returns the number of days between the week anchor and d.
func Offset(d Day) (int, bool) {
	off, ok := offsets[d]
	return off, ok
}

// DefaultColumnOrder maps table columns left to right onto days. It matches
// the printed schedules this tool was built for, which start on Sunday.
func DefaultColumnOrder() []Day {
	order := make([]Day, len(Days))
	copy(order, Days)
	return order
}

// ParseColumnOrder validates a configured column order. Every day must appear
// exactly once.
func ParseColumnOrder(names []string) ([]Day, error) {
	if len(names) != len(Days) {
		return nil, fmt.Errorf("column order needs %d days, got %d", len(Days), len(names))
	}
	seen := make(map[Day]bool, len(names))
	order := make([]Day, 0, len(names))
	for _, n := range names {
		d, err := ParseDay(n)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			return nil, fmt.Errorf("column order lists %s twice", d)
		}
		seen[d] = true
		order = append(order, d)
	}
	return order, nil
}
