package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"

	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

// fakeWriter records created events and fails on selected titles.
type fakeWriter struct {
	writableErr error
	failTitle   string
	created     []string
}

func (f *fakeWriter) Writable(context.Context) error { return f.writableErr }

func (f *fakeWriter) CreateEvent(_ context.Context, title string, start, end time.Time) (string, error) {
	if title == f.failTitle {
		return "", errors.New("calendar rejected event")
	}
	f.created = append(f.created, title)
	return title + "-id", nil
}

func sampleEvents() []Event {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	return []Event{
		{Day: schedule.Lundi, Title: "a", Start: start, End: start.Add(3 * time.Hour)},
		{Day: schedule.Mardi, Title: "bad", Start: start.AddDate(0, 0, 1), End: start.AddDate(0, 0, 1).Add(time.Hour)},
		{Day: schedule.Mercredi, Title: "c", Start: start.AddDate(0, 0, 2), End: start.AddDate(0, 0, 2).Add(time.Hour)},
	}
}

func TestNativeSink_Publish(t *testing.T) {
	w := &fakeWriter{failTitle: "bad"}
	sink := &NativeSink{Writer: w, Logger: zaptest.NewLogger(t)}

	rep, err := sink.Publish(context.Background(), sampleEvents())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if rep.Created != 2 || rep.Failed != 1 {
		t.Errorf("report: got %+v, want 2 created 1 failed", rep)
	}
	if len(rep.IDs) != 2 || rep.IDs[1] != "c-id" {
		t.Errorf("ids: got %v", rep.IDs)
	}
}

func TestNativeSink_NotWritable(t *testing.T) {
	w := &fakeWriter{writableErr: errors.New("permission denied")}
	sink := &NativeSink{Writer: w}

	_, err := sink.Publish(context.Background(), sampleEvents())
	if !errors.Is(err, ErrNotWritable) {
		t.Errorf("got %v, want ErrNotWritable", err)
	}
	if len(w.created) != 0 {
		t.Errorf("created %d events on an unwritable calendar", len(w.created))
	}
}

func TestFileSink_Export(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := &FileSink{Downloader: &FSDownloader{Fs: fs, Dir: "/exports"}}

	path, err := sink.Export(context.Background(), sampleEvents())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if path != "/exports/"+ICSFileName {
		t.Errorf("path: got %q", path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if got := strings.Count(string(data), "BEGIN:VEVENT"); got != 3 {
		t.Errorf("events in file: got %d, want 3", got)
	}
}

func TestFSDownloader_StripsDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := &FSDownloader{Fs: fs, Dir: "/out"}

	path, err := d.Download(context.Background(), "../../etc/horaire.ics", []byte("x"))
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path != "/out/horaire.ics" {
		t.Errorf("path: got %q, want /out/horaire.ics", path)
	}
}

func TestFSDownloader_ReadOnlyFs(t *testing.T) {
	d := &FSDownloader{Fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), Dir: "/out"}
	if _, err := d.Download(context.Background(), ICSFileName, []byte("x")); err == nil {
		t.Error("Download should fail on a read-only filesystem")
	}
}
