package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/calendar"
	"github.com/ironsheep/schedule-ocr-mcp/internal/config"
	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/logging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/ocr"
)

// ErrMissingAPIKey is returned when a remote engine has no API key.
var ErrMissingAPIKey = errors.New("missing api key")

// Runtime is a Service built from configuration together with the
// resources it owns.
type Runtime struct {
	*Service

	closers []io.Closer
}

// Close releases the engine, cache and calendar store.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewEngine builds the configured OCR engine wrapped in its throttle and
// cache. The returned closers must be closed by the caller.
func NewEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ocr.Engine, []io.Closer, error) {
	logger = logging.OrNop(logger)
	var (
		engine  ocr.Engine
		closers []io.Closer
	)

	switch cfg.OCR.Engine {
	case config.EngineTesseract:
		engine = ocr.NewTesseract(cfg.OCR.Language, cfg.OCR.TessdataPrefix)
	case config.EngineOCRSpace:
		if cfg.OCRSpace.APIKey == "" {
			return nil, nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, config.EngineOCRSpace)
		}
		engine = ocr.NewOCRSpace(cfg.OCRSpace.Endpoint, cfg.OCRSpace.APIKey, cfg.OCRSpace.Language, cfg.OCRSpace.Timeout)
	case config.EngineGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, config.EngineGemini)
		}
		g, err := ocr.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, err
		}
		engine = g
		closers = append(closers, g)
	default:
		return nil, nil, fmt.Errorf("unknown ocr engine %q", cfg.OCR.Engine)
	}

	if cfg.OCR.RatePerSecond > 0 {
		engine = ocr.NewRateLimited(engine, cfg.OCR.RatePerSecond, cfg.OCR.Burst)
	}

	if cfg.Redis.Addr != "" {
		store, err := ocr.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// The cache is optional; run uncached.
			logger.Warn("recognition cache unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			engine = &ocr.Cached{Engine: engine, Store: store, TTL: cfg.Redis.TTL, Logger: logger}
			closers = append(closers, store)
		}
	}
	return engine, closers, nil
}

// FromConfig builds a Service and everything it needs from cfg. The native
// calendar store is opened at cfg.Calendar.DBPath.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger, extra Options) (*Runtime, error) {
	logger = logging.OrNop(logger)
	engine, closers, err := NewEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{closers: closers}

	store, err := calendar.OpenStore(cfg.Calendar.DBPath)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, store)

	var pre *imaging.PreprocessOptions
	if cfg.OCR.Preprocess {
		p := imaging.DefaultPreprocessOptions()
		pre = &p
	}

	opts := extra
	opts.Engine = engine
	opts.Scale = cfg.OCR.Scale
	opts.Preprocess = pre
	opts.Attempts = cfg.Extract.Attempts
	opts.ExpandFactor = cfg.Extract.ExpandFactor
	opts.ColumnOrder = cfg.ColumnOrder()
	opts.Title = cfg.Calendar.Title
	opts.Native = store
	opts.Files = calendar.NewFSDownloader(cfg.Calendar.ICSDir)
	opts.Logger = logger
	rt.Service = New(opts)

	logger.Info("session ready",
		zap.String("engine", engine.Name()),
		zap.Int("attempts", cfg.Extract.Attempts),
		zap.Float64("expand_factor", cfg.Extract.ExpandFactor),
		zap.String("calendar_db", cfg.Calendar.DBPath))
	return rt, nil
}
