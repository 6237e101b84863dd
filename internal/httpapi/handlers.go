package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/calendar"
	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
	"github.com/ironsheep/schedule-ocr-mcp/internal/selection"
)

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// uploadImage accepts a multipart "image" file.
func (h *Handler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		failStatus(c, http.StatusBadRequest, fmt.Errorf("missing image file: %w", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		failStatus(c, http.StatusBadRequest, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	info, err := h.svc.LoadImageReader(fh.Filename, f)
	if err != nil {
		if errors.Is(err, schedule.ErrRunInProgress) {
			fail(c, err)
			return
		}
		failStatus(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) previewColumns(c *gin.Context) {
	enc, err := h.svc.PreviewColumns()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, enc)
}

func (h *Handler) ocrInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.OCRInfo(c.Request.Context()))
}

// === Selection ===

type pointRequest struct {
	Mode string  `json:"mode"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (h *Handler) selectionState(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Selection().Snapshot())
}

func (h *Handler) selectionBegin(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, err)
		return
	}
	mode, err := selection.ParseMode(req.Mode)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.svc.Selection().Begin(mode, req.X, req.Y); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Selection().Snapshot())
}

func (h *Handler) selectionUpdate(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, err)
		return
	}
	live, err := h.svc.Selection().Update(req.X, req.Y)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"live": live})
}

func (h *Handler) selectionCommit(c *gin.Context) {
	mode, region, err := h.svc.Selection().Commit()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode, "region": region})
}

func (h *Handler) selectionCancel(c *gin.Context) {
	h.svc.Selection().Cancel()
	c.JSON(http.StatusOK, h.svc.Selection().Snapshot())
}

// === Extraction ===

// regionRequest carries an optional region. Without one the committed
// selection is used.
type regionRequest struct {
	Region *imaging.Region `json:"region"`
}

// bindOptional decodes an optional JSON body.
func bindOptional(c *gin.Context, v interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(v)
}

func (h *Handler) extractWeek(c *gin.Context) {
	var req regionRequest
	if err := bindOptional(c, &req); err != nil {
		failStatus(c, http.StatusBadRequest, err)
		return
	}
	results, err := h.svc.ExtractWeek(c.Request.Context(), req.Region)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns":  results,
		"schedule": h.svc.Model().View(),
	})
}

func (h *Handler) getSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": h.svc.Model().View()})
}

// pathDay parses the :day parameter.
func pathDay(c *gin.Context) (schedule.Day, bool) {
	day, err := schedule.ParseDay(c.Param("day"))
	if err != nil {
		fail(c, err)
		return "", false
	}
	return day, true
}

func (h *Handler) rerunDay(c *gin.Context) {
	day, ok := pathDay(c)
	if !ok {
		return
	}
	var req regionRequest
	if err := bindOptional(c, &req); err != nil {
		failStatus(c, http.StatusBadRequest, err)
		return
	}
	res, err := h.svc.RerunDay(c.Request.Context(), day, req.Region)
	if err != nil {
		fail(c, err)
		return
	}
	getLogger(c).Info("day re-read",
		zap.String("day", string(day)),
		zap.Strings("intervals", res.Intervals))
	c.JSON(http.StatusOK, gin.H{
		"day":     day,
		"result":  res,
		"display": h.svc.Model().Display(day),
	})
}

// === Manual editing ===

func (h *Handler) openEdit(c *gin.Context) {
	day, ok := pathDay(c)
	if !ok {
		return
	}
	draft, err := h.svc.Model().OpenEdit(day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "draft": draft})
}

type draftRequest struct {
	Intervals []schedule.IntervalData `json:"intervals"`
}

func (h *Handler) replaceDraft(c *gin.Context) {
	day, ok := pathDay(c)
	if !ok {
		return
	}
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failStatus(c, http.StatusBadRequest, err)
		return
	}
	draft, err := h.svc.Model().ReplaceDraft(day, req.Intervals)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "draft": draft})
}

func (h *Handler) closeEdit(c *gin.Context) {
	day, ok := pathDay(c)
	if !ok {
		return
	}
	res, err := h.svc.Model().CloseEdit(day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "result": res, "display": res.Display()})
}

// === Calendar ===

func (h *Handler) anchor(c *gin.Context) (time.Time, bool) {
	anchor, err := h.svc.ParseAnchor(c.Query("anchor"))
	if err != nil {
		failStatus(c, http.StatusBadRequest, err)
		return time.Time{}, false
	}
	return anchor, true
}

func (h *Handler) events(c *gin.Context) {
	anchor, ok := h.anchor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"anchor": anchor.Format(calendar.AnchorLayout),
		"events": h.svc.Events(anchor),
	})
}

func (h *Handler) downloadICS(c *gin.Context) {
	anchor, ok := h.anchor(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendar.ICSFileName))
	c.Data(http.StatusOK, calendar.ICSContentType, h.svc.ExportICS(anchor))
}

func (h *Handler) publish(c *gin.Context) {
	anchor, ok := h.anchor(c)
	if !ok {
		return
	}
	rep, err := h.svc.Publish(c.Request.Context(), anchor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
