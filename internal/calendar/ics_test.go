package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

func TestEncodeICS(t *testing.T) {
	orig := newUID
	newUID = func() string { return "fixed@horaireapp" }
	defer func() { newUID = orig }()

	events := []Event{{
		Day:   schedule.Mercredi,
		Title: DefaultTitle,
		Start: time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC),
	}}

	got := string(EncodeICS(events))
	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//HoraireApp//FR",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:fixed@horaireapp",
		"SUMMARY:Travail",
		"DTSTART:20240306T090000",
		"DTEND:20240306T120000",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeICS_Empty(t *testing.T) {
	got := string(EncodeICS(nil))
	if strings.Contains(got, "VEVENT") {
		t.Error("empty calendar should have no events")
	}
	if !strings.HasPrefix(got, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(got, "END:VCALENDAR\r\n") {
		t.Errorf("bad envelope: %q", got)
	}
}

func TestEncodeICS_UniqueUIDs(t *testing.T) {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Title: "a", Start: start, End: start.Add(time.Hour)},
		{Title: "b", Start: start, End: start.Add(time.Hour)},
	}

	seen := map[string]bool{}
	for _, line := range strings.Split(string(EncodeICS(events)), "\r\n") {
		if !strings.HasPrefix(line, "UID:") {
			continue
		}
		if !strings.HasSuffix(line, "@horaireapp") {
			t.Errorf("UID without domain: %s", line)
		}
		if seen[line] {
			t.Errorf("duplicate %s", line)
		}
		seen[line] = true
	}
	if len(seen) != 2 {
		t.Errorf("got %d UIDs, want 2", len(seen))
	}
}

func TestEncodeICS_EscapesSummary(t *testing.T) {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	got := string(EncodeICS([]Event{{Title: "Travail; poste 2, salle\\B", Start: start, End: start}}))
	if !strings.Contains(got, `SUMMARY:Travail\; poste 2\, salle\\B`+"\r\n") {
		t.Errorf("summary not escaped: %q", got)
	}
}
