package server

import "github.com/ironsheep/schedule-ocr-mcp/internal/schedule"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func dayNames() []string {
	names := make([]string, len(schedule.Days))
	for i, d := range schedule.Days {
		names[i] = string(d)
	}
	return names
}

func dayProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        dayNames(),
		"description": "Day name",
	}
}

func anchorProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Date of the Monday of the week (YYYY-MM-DD). Defaults to the Monday of the current week.",
	}
}

// regionProperties adds optional x1/y1/x2/y2 corners to props.
func regionProperties(props map[string]interface{}, what string) map[string]interface{} {
	corners := map[string]string{
		"x1": "Left edge X coordinate of the " + what,
		"y1": "Top edge Y coordinate of the " + what,
		"x2": "Right edge X coordinate of the " + what,
		"y2": "Bottom edge Y coordinate of the " + what,
	}
	for k, desc := range corners {
		props[k] = map[string]interface{}{
			"type":        "number",
			"description": desc,
		}
	}
	return props
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func dayOnly() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"day": dayProperty(),
		},
		"required": []string{"day"},
	}
}

func anchorOnly() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"anchor": anchorProperty(),
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "schedule_load_image",
			Description: "Load a photo or screenshot of a weekly schedule table. Clears previous results and selections.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "schedule_preview_columns",
			Description: "Draw the table selection and its seven day columns on the image and return it as base64-encoded PNG. Use this to check the selection before extracting.",
			InputSchema: noArgs(),
		},

		// Extraction
		{
			Name:        "schedule_extract_week",
			Description: "Read the whole table: the selection is split into seven equal columns and each column is read five times with a slightly larger region each time. The most frequent intervals win. Omit the corners to reuse the last table selection.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": regionProperties(map[string]interface{}{}, "table"),
			},
		},
		{
			Name:        "schedule_rerun_day",
			Description: "Re-read a single day from a region chosen for that day. Other days are unchanged. Omit the corners to reuse the last day selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": regionProperties(map[string]interface{}{
					"day": dayProperty(),
				}, "day column"),
				"required": []string{"day"},
			},
		},
		{
			Name:        "schedule_get",
			Description: "Get the current schedule: state, displayed text and intervals for every day, plus open edit drafts.",
			InputSchema: noArgs(),
		},

		// Manual editing
		{
			Name:        "schedule_edit_open",
			Description: "Open an edit draft for a day, seeded from its current intervals. Returns the draft.",
			InputSchema: dayOnly(),
		},
		{
			Name:        "schedule_edit_add",
			Description: "Append a default 08:00 - 12:00 interval to the day's draft.",
			InputSchema: dayOnly(),
		},
		{
			Name:        "schedule_edit_remove",
			Description: "Remove an interval from the day's draft by index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"day": dayProperty(),
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based interval index",
					},
				},
				"required": []string{"day", "index"},
			},
		},
		{
			Name:        "schedule_edit_update",
			Description: "Set one field of an interval in the day's draft. Values are kept as typed until the draft is closed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"day": dayProperty(),
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based interval index",
					},
					"field": map[string]interface{}{
						"type":        "string",
						"enum":        []string{schedule.FieldStartH, schedule.FieldStartM, schedule.FieldEndH, schedule.FieldEndM},
						"description": "Field to set",
					},
					"value": map[string]interface{}{
						"type":        "string",
						"description": "New value, e.g. \"08\" or \"30\"",
					},
				},
				"required": []string{"day", "index", "field", "value"},
			},
		},
		{
			Name:        "schedule_edit_close",
			Description: "Close the day's draft. Fields are clamped to valid hours and minutes; an empty draft marks the day as failed.",
			InputSchema: dayOnly(),
		},

		// Calendar
		{
			Name:        "schedule_events",
			Description: "List the calendar events the current schedule produces for a week.",
			InputSchema: anchorOnly(),
		},
		{
			Name:        "schedule_export_ics",
			Description: "Render the week as an iCalendar (.ics) document. With save, also write mon-horaire.ics into the export directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"anchor": anchorProperty(),
					"save": map[string]interface{}{
						"type":        "boolean",
						"description": "Write the file to the export directory. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "schedule_publish_calendar",
			Description: "Write the week's events into the local calendar. Events that fail are skipped and counted.",
			InputSchema: anchorOnly(),
		},

		// Diagnostics
		{
			Name:        "ocr_info",
			Description: "Describe the configured OCR engine and whether it is available.",
			InputSchema: noArgs(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
