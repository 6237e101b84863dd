package calendar

import (
	"testing"
	"time"

	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

// monday is 2024-03-04, a Monday.
var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func TestMaterialize_Mercredi(t *testing.T) {
	snap := map[schedule.Day]schedule.DayResult{
		schedule.Mercredi: {Kind: schedule.KindAggregated, Intervals: []string{"09:00 - 12:00"}},
	}

	events := Materialize(snap, monday, "")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	wantStart := time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(wantStart) || !ev.End.Equal(wantEnd) {
		t.Errorf("got %v - %v, want %v - %v", ev.Start, ev.End, wantStart, wantEnd)
	}
	if ev.Title != DefaultTitle {
		t.Errorf("title: got %q, want %q", ev.Title, DefaultTitle)
	}
	if ev.Day != schedule.Mercredi {
		t.Errorf("day: got %s", ev.Day)
	}
}

func TestMaterialize_Offsets(t *testing.T) {
	snap := map[schedule.Day]schedule.DayResult{}
	for _, d := range schedule.Days {
		snap[d] = schedule.DayResult{Kind: schedule.KindAggregated, Intervals: []string{"08:00 - 09:00"}}
	}

	events := Materialize(snap, monday, "Shift")
	if len(events) != 7 {
		t.Fatalf("got %d events, want 7", len(events))
	}
	for _, ev := range events {
		off, _ := schedule.Offset(ev.Day)
		if got := ev.Start.Day(); got != 4+off {
			t.Errorf("%s: got day %d, want %d", ev.Day, got, 4+off)
		}
		if ev.Title != "Shift" {
			t.Errorf("title: got %q", ev.Title)
		}
	}
	// Canonical order starts with Dimanche, which lands at the end of the week.
	if events[0].Day != schedule.Dimanche || events[0].Start.Day() != 10 {
		t.Errorf("first event: got %s on %d", events[0].Day, events[0].Start.Day())
	}
}

func TestMaterialize_SkipsFailedAndEmpty(t *testing.T) {
	snap := map[schedule.Day]schedule.DayResult{
		schedule.Lundi:  {Kind: schedule.KindFailed},
		schedule.Mardi:  {Kind: schedule.KindEmpty},
		schedule.Jeudi:  {Kind: schedule.KindAggregated, Intervals: []string{"09:00 - 12:00", "13:00 - 17:00"}},
		schedule.Samedi: {Kind: schedule.KindManual, Manual: []schedule.IntervalData{{StartH: "10", StartM: "15", EndH: "11", EndM: "45"}}},
	}

	events := Materialize(snap, monday, "")
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[2].Day != schedule.Samedi || events[2].Start.Minute() != 15 || events[2].End.Minute() != 45 {
		t.Errorf("manual event: got %+v", events[2])
	}
}

func TestMaterialize_Overnight(t *testing.T) {
	snap := map[schedule.Day]schedule.DayResult{
		schedule.Vendredi: {Kind: schedule.KindAggregated, Intervals: []string{"22:00 - 06:00"}},
	}

	events := Materialize(snap, monday, "")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	want := time.Date(2024, time.March, 9, 6, 0, 0, 0, time.UTC)
	if !events[0].End.Equal(want) {
		t.Errorf("end: got %v, want %v", events[0].End, want)
	}
}

func TestMaterialize_KeepsLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}
	anchor := time.Date(2024, time.March, 4, 0, 0, 0, 0, paris)
	snap := map[schedule.Day]schedule.DayResult{
		schedule.Lundi: {Kind: schedule.KindAggregated, Intervals: []string{"09:00 - 12:00"}},
	}

	events := Materialize(snap, anchor, "")
	if events[0].Start.Location() != paris || events[0].Start.Hour() != 9 {
		t.Errorf("got %v, want 09:00 Europe/Paris", events[0].Start)
	}
}

func TestParseAnchor(t *testing.T) {
	got, err := ParseAnchor("2024-03-04", time.UTC)
	if err != nil {
		t.Fatalf("ParseAnchor failed: %v", err)
	}
	if !got.Equal(monday) {
		t.Errorf("got %v, want %v", got, monday)
	}

	if _, err := ParseAnchor("04/03/2024", time.UTC); err == nil {
		t.Error("ParseAnchor should reject other layouts")
	}

	now, err := ParseAnchor("", time.UTC)
	if err != nil {
		t.Fatalf("ParseAnchor(\"\") failed: %v", err)
	}
	if now.Weekday() != time.Monday {
		t.Errorf("default anchor: got %s, want Monday", now.Weekday())
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		{time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC), 4},
		{time.Date(2024, time.March, 6, 8, 0, 0, 0, time.UTC), 4},
		{time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC), 4},
		{time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), 11},
	}

	for _, tt := range tests {
		t.Run(tt.in.Format(time.RFC3339), func(t *testing.T) {
			got := MondayOf(tt.in)
			if got.Day() != tt.want || got.Hour() != 0 {
				t.Errorf("got %v, want March %d 00:00", got, tt.want)
			}
		})
	}
}
