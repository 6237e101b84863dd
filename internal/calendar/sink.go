package calendar

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrNotWritable is returned when the native calendar cannot take new events.
var ErrNotWritable = errors.New("no writable calendar")

// Writer is a calendar that accepts new events.
type Writer interface {
	// Writable returns an error when no event can be created.
	Writable(ctx context.Context) error

	// CreateEvent stores one event and returns its identifier.
	CreateEvent(ctx context.Context, title string, start, end time.Time) (string, error)
}

// Report summarizes a publication to the native calendar.
type Report struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	IDs     []string `json:"ids"`
}

// NativeSink writes events into a Writer one by one.
type NativeSink struct {
	Writer Writer
	Logger *zap.Logger
}

// Publish creates every event. An event that fails is logged and counted,
// and the remaining events are still written.
func (s *NativeSink) Publish(ctx context.Context, events []Event) (Report, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := s.Writer.Writable(ctx); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrNotWritable, err)
	}

	rep := Report{IDs: []string{}}
	for _, ev := range events {
		id, err := s.Writer.CreateEvent(ctx, ev.Title, ev.Start, ev.End)
		if err != nil {
			rep.Failed++
			log.Warn("failed to create event",
				zap.String("day", string(ev.Day)),
				zap.Time("start", ev.Start),
				zap.Error(err))
			continue
		}
		rep.Created++
		rep.IDs = append(rep.IDs, id)
	}

	log.Info("calendar published",
		zap.Int("created", rep.Created),
		zap.Int("failed", rep.Failed))
	return rep, nil
}

// Downloader delivers a generated file to the user.
type Downloader interface {
	// Download stores data under name and returns where it went.
	Download(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink encodes events as an ICS file and hands it to a Downloader.
type FileSink struct {
	Downloader Downloader

	// Name defaults to ICSFileName.
	Name string
}

// Export writes the ICS document and returns its location.
func (s *FileSink) Export(ctx context.Context, events []Event) (string, error) {
	name := s.Name
	if name == "" {
		name = ICSFileName
	}
	return s.Downloader.Download(ctx, name, EncodeICS(events))
}

// FSDownloader writes files into a directory of an afero filesystem.
type FSDownloader struct {
	Fs  afero.Fs
	Dir string
}

// NewFSDownloader writes into dir on the OS filesystem.
func NewFSDownloader(dir string) *FSDownloader {
	return &FSDownloader{Fs: afero.NewOsFs(), Dir: dir}
}

// Download implements Downloader.
func (d *FSDownloader) Download(_ context.Context, name string, data []byte) (string, error) {
	if err := d.Fs.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", d.Dir, err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := afero.WriteFile(d.Fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
