package calendar

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

// ICSFileName is the name offered for downloaded calendars.
const ICSFileName = "mon-horaire.ics"

// ICSContentType is the MIME type of EncodeICS output.
const ICSContentType = "text/calendar; charset=utf-8"

const icsTimeLayout = "20060102T150405"

// newUID is replaced in tests.
var newUID = func() string { return uuid.NewString() + "@horaireapp" }

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// EncodeICS renders events as an iCalendar document. Times are written as
// floating local times, without a zone suffix, so that clients show them at
// the printed hour.
func EncodeICS(events []Event) []byte {
	var b bytes.Buffer
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//HoraireApp//FR")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	for _, ev := range events {
		line("BEGIN:VEVENT")
		line("UID:" + newUID())
		line("SUMMARY:" + icsEscaper.Replace(ev.Title))
		line("DTSTART:" + ev.Start.Format(icsTimeLayout))
		line("DTEND:" + ev.End.Format(icsTimeLayout))
		line("END:VEVENT")
	}
	line("END:VCALENDAR")

	return b.Bytes()
}
