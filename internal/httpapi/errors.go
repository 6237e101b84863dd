package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/calendar"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
	"github.com/ironsheep/schedule-ocr-mcp/internal/selection"
	"github.com/ironsheep/schedule-ocr-mcp/internal/session"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schedule.ErrUnknownDay),
		errors.Is(err, schedule.ErrUnknownField),
		errors.Is(err, schedule.ErrIndexOutOfRange),
		errors.Is(err, selection.ErrUnknownMode),
		errors.Is(err, selection.ErrEmptySelection):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoImage),
		errors.Is(err, selection.ErrNotCommitted),
		errors.Is(err, selection.ErrNotDragging),
		errors.Is(err, schedule.ErrNotEditing),
		errors.Is(err, schedule.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, calendar.ErrNotWritable),
		errors.Is(err, session.ErrNoNativeCalendar),
		errors.Is(err, session.ErrNoDownloader):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with the status matching err.
func fail(c *gin.Context, err error) {
	failStatus(c, statusFor(err), err)
}

func failStatus(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	if status < 500 {
		getLogger(c).Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Details: err.Error(),
	})
}
