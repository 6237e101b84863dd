// Package server implements the MCP (Model Context Protocol) server for the
// schedule extraction engine.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - schedule_load_image: Load a schedule photo, resetting all results
//   - schedule_preview_columns: Draw the table selection and its day columns
//
// Extraction:
//   - schedule_extract_week: Read all seven columns of the table
//   - schedule_rerun_day: Re-read one day from its own region
//   - schedule_get: Current state of every day
//
// Manual editing:
//   - schedule_edit_open, schedule_edit_add, schedule_edit_remove,
//     schedule_edit_update, schedule_edit_close
//
// Calendar:
//   - schedule_events: Dated events for a week
//   - schedule_export_ics: iCalendar document, optionally saved to disk
//   - schedule_publish_calendar: Write events into the local calendar
//
// Diagnostics:
//   - ocr_info: Configured OCR engine and its availability
//
// When a tools/call request carries _meta.progressToken,
// schedule_extract_week emits a notifications/progress message after each
// day.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (invalid arguments) or
//     standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(svc, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
