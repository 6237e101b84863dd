// Package session ties the schedule engine together for one user: the
// loaded image, its selections, the schedule model, the OCR engine and the
// calendar sinks. The MCP server, the HTTP API and the CLI all drive the
// engine through a Service.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/calendar"
	"github.com/ironsheep/schedule-ocr-mcp/internal/extract"
	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/logging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/ocr"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
	"github.com/ironsheep/schedule-ocr-mcp/internal/selection"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = selection.ErrNoImage

	// ErrNoNativeCalendar is returned by Publish when no calendar writer is
	// configured.
	ErrNoNativeCalendar = errors.New("no native calendar configured")

	// ErrNoDownloader is returned by SaveICS when no file destination is
	// configured.
	ErrNoDownloader = errors.New("no ics destination configured")
)

// Options configures a Service. Engine is required.
type Options struct {
	Engine ocr.Engine

	// Scale and Preprocess are applied to every crop before recognition.
	Scale      float64
	Preprocess *imaging.PreprocessOptions

	Attempts     int
	ExpandFactor float64
	ColumnOrder  []schedule.Day

	// Title is given to every calendar event.
	Title string

	// Location is used for week anchors. Nil means time.Local.
	Location *time.Location

	Native calendar.Writer
	Files  calendar.Downloader

	Logger *zap.Logger

	// Observer and OnDay report extraction progress.
	Observer extract.Observer
	OnDay    ProgressFunc
}

// Service is safe for concurrent use. Extraction runs are serialized by the
// schedule model's run guard.
type Service struct {
	opts   Options
	logger *zap.Logger
	cache  *imaging.ImageCache

	mu    sync.RWMutex
	image image.Image
	info  *imaging.ImageInfo

	model     *schedule.Model
	selection *selection.Machine
}

// New creates a Service with no image loaded.
func New(opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{
		opts:      opts,
		logger:    logging.OrNop(opts.Logger),
		cache:     imaging.NewImageCache(),
		model:     schedule.NewModel(),
		selection: selection.New(),
	}
}

// Model returns the schedule model.
func (s *Service) Model() *schedule.Model { return s.model }

// Selection returns the selection state machine.
func (s *Service) Selection() *selection.Machine { return s.selection }

// LoadImage decodes the image at path and makes it current. Results and
// selections of the previous image are discarded.
func (s *Service) LoadImage(path string) (*imaging.ImageInfo, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return s.setImage(path, img)
}

// LoadImageReader decodes an uploaded image and makes it current.
func (s *Service) LoadImageReader(name string, r io.Reader) (*imaging.ImageInfo, error) {
	img, err := imaging.DecodeReader(r)
	if err != nil {
		return nil, err
	}
	s.cache.Put(name, img)
	return s.setImage(name, img)
}

func (s *Service) setImage(name string, img image.Image) (*imaging.ImageInfo, error) {
	if s.model.Running() {
		return nil, schedule.ErrRunInProgress
	}
	info := imaging.Describe(name, img)

	s.mu.Lock()
	if s.info != nil && s.info.Name != name {
		s.cache.Evict(s.info.Name)
	}
	s.image = img
	s.info = info
	s.mu.Unlock()

	s.model.Reset()
	s.selection.Reset(float64(info.Width), float64(info.Height))

	s.logger.Info("image loaded",
		zap.String("name", name),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height))
	return info, nil
}

// Image returns the current image and its metadata.
func (s *Service) Image() (image.Image, *imaging.ImageInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.image == nil {
		return nil, nil, ErrNoImage
	}
	info := *s.info
	return s.image, &info, nil
}

// ProgressFunc is told about each day as soon as it is stored.
type ProgressFunc func(day schedule.Day, res extract.Result)

func (s *Service) partitioner(img image.Image, progress ProgressFunc) *extract.Partitioner {
	oracle := &ocr.RegionOracle{
		Image:      img,
		Engine:     s.opts.Engine,
		Scale:      s.opts.Scale,
		Preprocess: s.opts.Preprocess,
	}
	return &extract.Partitioner{
		Aggregator: &extract.Aggregator{
			Recognizer:   oracle,
			Attempts:     s.opts.Attempts,
			ExpandFactor: s.opts.ExpandFactor,
			Logger:       s.logger,
			Observer:     s.opts.Observer,
		},
		Model:  s.model,
		Order:  s.opts.ColumnOrder,
		Logger: s.logger,
		OnDay: func(day schedule.Day, res extract.Result) {
			if s.opts.OnDay != nil {
				s.opts.OnDay(day, res)
			}
			if progress != nil {
				progress(day, res)
			}
		},
	}
}

// regionFor commits region for mode when given, otherwise returns the
// committed one.
func (s *Service) regionFor(mode selection.Mode, region *imaging.Region) (imaging.Region, error) {
	if region != nil {
		return s.selection.Set(mode, *region)
	}
	return s.selection.Committed(mode)
}

// ExtractWeek reads the whole table. When region is nil the committed table
// selection is used.
//
// The run is detached from ctx cancellation so that a disconnecting caller
// cannot leave the week half written.
func (s *Service) ExtractWeek(ctx context.Context, region *imaging.Region) ([]extract.DayResult, error) {
	return s.ExtractWeekProgress(ctx, region, nil)
}

// ExtractWeekProgress is ExtractWeek with a per-call progress callback.
func (s *Service) ExtractWeekProgress(ctx context.Context, region *imaging.Region, progress ProgressFunc) ([]extract.DayResult, error) {
	img, info, err := s.Image()
	if err != nil {
		return nil, err
	}
	table, err := s.regionFor(selection.ModeTable, region)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	results, err := s.partitioner(img, progress).ExtractWeek(context.WithoutCancel(ctx), table, float64(info.Width), float64(info.Height))
	if err != nil {
		return nil, err
	}
	s.logger.Info("week extracted",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("failed_days", countFailed(results)))
	return results, nil
}

// RerunDay re-reads a single day. When region is nil the committed day
// selection is used.
func (s *Service) RerunDay(ctx context.Context, day schedule.Day, region *imaging.Region) (extract.Result, error) {
	img, info, err := s.Image()
	if err != nil {
		return extract.Result{}, err
	}
	r, err := s.regionFor(selection.ModeDay, region)
	if err != nil {
		return extract.Result{}, err
	}
	return s.partitioner(img, nil).ExtractDay(context.WithoutCancel(ctx), day, r, float64(info.Width), float64(info.Height))
}

// PreviewColumns draws the committed table selection and its day columns
// on the current image.
func (s *Service) PreviewColumns() (*imaging.EncodedImage, error) {
	img, _, err := s.Image()
	if err != nil {
		return nil, err
	}
	table, err := s.selection.Committed(selection.ModeTable)
	if err != nil {
		return nil, err
	}

	order := s.opts.ColumnOrder
	if len(order) == 0 {
		order = schedule.DefaultColumnOrder()
	}
	labels := make([]string, len(order))
	for i, d := range order {
		labels[i] = string(d)
	}
	return imaging.ColumnOverlay(img, table, labels)
}

// ParseAnchor reads a YYYY-MM-DD week anchor in the service's location.
func (s *Service) ParseAnchor(text string) (time.Time, error) {
	return calendar.ParseAnchor(text, s.opts.Location)
}

// Events materializes the current schedule for the week starting at anchor.
func (s *Service) Events(anchor time.Time) []calendar.Event {
	return calendar.Materialize(s.model.Snapshot(), anchor, s.opts.Title)
}

// ExportICS renders the week as an iCalendar document.
func (s *Service) ExportICS(anchor time.Time) []byte {
	return calendar.EncodeICS(s.Events(anchor))
}

// SaveICS writes the week's .ics file through the configured downloader and
// returns its location.
func (s *Service) SaveICS(ctx context.Context, anchor time.Time) (string, error) {
	if s.opts.Files == nil {
		return "", ErrNoDownloader
	}
	sink := &calendar.FileSink{Downloader: s.opts.Files}
	path, err := sink.Export(ctx, s.Events(anchor))
	if err != nil {
		return "", fmt.Errorf("failed to export calendar: %w", err)
	}
	s.logger.Info("calendar exported", zap.String("path", path))
	return path, nil
}

// Publish writes the week into the native calendar.
func (s *Service) Publish(ctx context.Context, anchor time.Time) (calendar.Report, error) {
	if s.opts.Native == nil {
		return calendar.Report{}, ErrNoNativeCalendar
	}
	sink := &calendar.NativeSink{Writer: s.opts.Native, Logger: s.logger}
	return sink.Publish(ctx, s.Events(anchor))
}

// OCRInfo describes the configured OCR engine.
func (s *Service) OCRInfo(ctx context.Context) ocr.Info {
	return ocr.Describe(ctx, s.opts.Engine)
}

func countFailed(results []extract.DayResult) int {
	n := 0
	for _, r := range results {
		if r.Result.Failed() {
			n++
		}
	}
	return n
}
