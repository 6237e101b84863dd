// Package httpapi exposes the schedule engine over HTTP for a browser front
// end: image upload, drag selection, extraction, manual editing and
// calendar export.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/logging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/session"
)

// MaxUploadBytes bounds the multipart memory used by image uploads.
const MaxUploadBytes = 32 << 20

// Options configures the router.
type Options struct {
	// AllowedOrigins lists the origins allowed by CORS. Empty allows none.
	AllowedOrigins []string

	// Production switches gin to release mode.
	Production bool
}

// Handler serves the API for one session.
type Handler struct {
	svc    *session.Service
	logger *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(svc *session.Service, logger *zap.Logger, opts Options) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	logger = logging.OrNop(logger)

	r := gin.New()
	r.MaxMultipartMemory = MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	h := &Handler{svc: svc, logger: logger}
	h.register(r)
	return r
}

func (h *Handler) register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.POST("/image", h.uploadImage)
		api.GET("/preview", h.previewColumns)
		api.GET("/ocr", h.ocrInfo)
	}

	sel := api.Group("/selection")
	{
		sel.GET("", h.selectionState)
		sel.POST("/begin", h.selectionBegin)
		sel.POST("/update", h.selectionUpdate)
		sel.POST("/commit", h.selectionCommit)
		sel.POST("/cancel", h.selectionCancel)
	}

	api.POST("/extract", h.extractWeek)
	api.GET("/schedule", h.getSchedule)

	days := api.Group("/days/:day")
	{
		days.POST("/rerun", h.rerunDay)
		days.POST("/edit", h.openEdit)
		days.PUT("/edit", h.replaceDraft)
		days.DELETE("/edit", h.closeEdit)
	}

	cal := api.Group("")
	{
		cal.GET("/events", h.events)
		cal.GET("/calendar.ics", h.downloadICS)
		cal.POST("/calendar/publish", h.publish)
	}
}

// requestLogger logs each request and stores the logger in the gin context
// under "logger".
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set("logger", logger)
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// getLogger retrieves the request logger from the gin context.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}
