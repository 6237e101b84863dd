package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/calendar"
	"github.com/ironsheep/schedule-ocr-mcp/internal/extract"
	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

// errInvalidArguments marks tool arguments that could not be decoded or are
// incomplete. Such failures are reported with code -32602.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "schedule_load_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	Meta *struct {
		ProgressToken interface{} `json:"progressToken,omitempty"`
	} `json:"_meta,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000,
// argument errors with -32602.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var token interface{}
	if params.Meta != nil {
		token = params.Meta.ProgressToken
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments, token)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage, progressToken interface{}) (interface{}, error) {
	switch name {
	// Image
	case "schedule_load_image":
		return s.handleLoadImage(args)
	case "schedule_preview_columns":
		return s.svc.PreviewColumns()

	// Extraction
	case "schedule_extract_week":
		return s.handleExtractWeek(ctx, args, progressToken)
	case "schedule_rerun_day":
		return s.handleRerunDay(ctx, args)
	case "schedule_get":
		return s.scheduleView(), nil

	// Manual editing
	case "schedule_edit_open":
		return s.handleEdit(args, s.svc.Model().OpenEdit)
	case "schedule_edit_add":
		return s.handleEdit(args, s.svc.Model().AddInterval)
	case "schedule_edit_remove":
		return s.handleEditRemove(args)
	case "schedule_edit_update":
		return s.handleEditUpdate(args)
	case "schedule_edit_close":
		return s.handleEditClose(args)

	// Calendar
	case "schedule_events":
		return s.handleEvents(args)
	case "schedule_export_ics":
		return s.handleExportICS(ctx, args)
	case "schedule_publish_calendar":
		return s.handlePublish(ctx, args)

	// Diagnostics
	case "ocr_info":
		return s.svc.OCRInfo(ctx), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// regionArgs are optional selection corners.
type regionArgs struct {
	X1 *float64 `json:"x1"`
	Y1 *float64 `json:"y1"`
	X2 *float64 `json:"x2"`
	Y2 *float64 `json:"y2"`
}

// region returns nil when no corner is given.
func (a regionArgs) region() (*imaging.Region, error) {
	set := 0
	for _, v := range []*float64{a.X1, a.Y1, a.X2, a.Y2} {
		if v != nil {
			set++
		}
	}
	switch set {
	case 0:
		return nil, nil
	case 4:
		r := imaging.FromPoints(*a.X1, *a.Y1, *a.X2, *a.Y2)
		return &r, nil
	default:
		return nil, fmt.Errorf("%w: x1, y1, x2 and y2 must be given together", errInvalidArguments)
	}
}

type dayArgs struct {
	Day string `json:"day"`
}

func (a dayArgs) day() (schedule.Day, error) {
	if a.Day == "" {
		return "", fmt.Errorf("%w: day is required", errInvalidArguments)
	}
	return schedule.ParseDay(a.Day)
}

// === Image Handlers ===

type loadImageArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return s.svc.LoadImage(a.Path)
}

// === Extraction Handlers ===

type scheduleResult struct {
	Days []schedule.DayView `json:"days"`
}

func (s *Server) scheduleView() *scheduleResult {
	return &scheduleResult{Days: s.svc.Model().View()}
}

type extractWeekResult struct {
	Columns  []extract.DayResult `json:"columns"`
	Schedule []schedule.DayView  `json:"schedule"`
}

func (s *Server) handleExtractWeek(ctx context.Context, args json.RawMessage, progressToken interface{}) (interface{}, error) {
	var a regionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	region, err := a.region()
	if err != nil {
		return nil, err
	}

	var progress func(schedule.Day, extract.Result)
	if progressToken != nil {
		done := 0
		progress = func(day schedule.Day, res extract.Result) {
			done++
			msg := fmt.Sprintf("%s: %s", day, schedule.FailedText)
			if !res.Failed() {
				msg = fmt.Sprintf("%s: %v", day, res.Intervals)
			}
			s.sendNotification("notifications/progress", map[string]interface{}{
				"progressToken": progressToken,
				"progress":      done,
				"total":         len(schedule.Days),
				"message":       msg,
			})
		}
	}

	results, err := s.svc.ExtractWeekProgress(ctx, region, progress)
	if err != nil {
		return nil, err
	}
	return &extractWeekResult{Columns: results, Schedule: s.svc.Model().View()}, nil
}

type rerunDayArgs struct {
	dayArgs
	regionArgs
}

type rerunDayResult struct {
	Day     schedule.Day   `json:"day"`
	Result  extract.Result `json:"result"`
	Display string         `json:"display"`
	State   schedule.Kind  `json:"state"`
}

func (s *Server) handleRerunDay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a rerunDayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	day, err := a.day()
	if err != nil {
		return nil, err
	}
	region, err := a.region()
	if err != nil {
		return nil, err
	}

	res, err := s.svc.RerunDay(ctx, day, region)
	if err != nil {
		return nil, err
	}
	state, _ := s.svc.Model().State(day)
	return &rerunDayResult{
		Day:     day,
		Result:  res,
		Display: s.svc.Model().Display(day),
		State:   state,
	}, nil
}

// === Manual Editing Handlers ===

type draftResult struct {
	Day   schedule.Day            `json:"day"`
	Draft []schedule.IntervalData `json:"draft"`
}

func (s *Server) handleEdit(args json.RawMessage, op func(schedule.Day) ([]schedule.IntervalData, error)) (interface{}, error) {
	var a dayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	day, err := a.day()
	if err != nil {
		return nil, err
	}
	draft, err := op(day)
	if err != nil {
		return nil, err
	}
	return &draftResult{Day: day, Draft: draft}, nil
}

type editRemoveArgs struct {
	dayArgs
	Index *int `json:"index"`
}

func (s *Server) handleEditRemove(args json.RawMessage) (interface{}, error) {
	var a editRemoveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	day, err := a.day()
	if err != nil {
		return nil, err
	}
	if a.Index == nil {
		return nil, fmt.Errorf("%w: index is required", errInvalidArguments)
	}
	draft, err := s.svc.Model().RemoveInterval(day, *a.Index)
	if err != nil {
		return nil, err
	}
	return &draftResult{Day: day, Draft: draft}, nil
}

type editUpdateArgs struct {
	dayArgs
	Index *int   `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleEditUpdate(args json.RawMessage) (interface{}, error) {
	var a editUpdateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	day, err := a.day()
	if err != nil {
		return nil, err
	}
	if a.Index == nil {
		return nil, fmt.Errorf("%w: index is required", errInvalidArguments)
	}
	draft, err := s.svc.Model().UpdateField(day, *a.Index, a.Field, a.Value)
	if err != nil {
		return nil, err
	}
	return &draftResult{Day: day, Draft: draft}, nil
}

type editCloseResult struct {
	Day     schedule.Day       `json:"day"`
	Result  schedule.DayResult `json:"result"`
	Display string             `json:"display"`
}

func (s *Server) handleEditClose(args json.RawMessage) (interface{}, error) {
	var a dayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	day, err := a.day()
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Model().CloseEdit(day)
	if err != nil {
		return nil, err
	}
	return &editCloseResult{Day: day, Result: res, Display: res.Display()}, nil
}

// === Calendar Handlers ===

type anchorArgs struct {
	Anchor string `json:"anchor"`
}

type eventsResult struct {
	Anchor string           `json:"anchor"`
	Events []calendar.Event `json:"events"`
}

func (s *Server) handleEvents(args json.RawMessage) (interface{}, error) {
	var a anchorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	anchor, err := s.svc.ParseAnchor(a.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return &eventsResult{
		Anchor: anchor.Format(calendar.AnchorLayout),
		Events: s.svc.Events(anchor),
	}, nil
}

type exportICSArgs struct {
	anchorArgs
	Save bool `json:"save"`
}

type exportICSResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Path        string `json:"path,omitempty"`
	ICS         string `json:"ics"`
}

func (s *Server) handleExportICS(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exportICSArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	anchor, err := s.svc.ParseAnchor(a.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	out := &exportICSResult{
		FileName:    calendar.ICSFileName,
		ContentType: calendar.ICSContentType,
		ICS:         string(s.svc.ExportICS(anchor)),
	}
	if a.Save {
		path, err := s.svc.SaveICS(ctx, anchor)
		if err != nil {
			return nil, err
		}
		out.Path = path
	}
	return out, nil
}

func (s *Server) handlePublish(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a anchorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	anchor, err := s.svc.ParseAnchor(a.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return s.svc.Publish(ctx, anchor)
}
