// Package schedule holds the weekly schedule model: one result per day, each
// replaced independently by an extraction run or a manual edit.
//
// A day moves between these states:
//
//	empty ──SetAggregated──▶ aggregated | failed
//	any   ──OpenEdit──────▶ editing ──CloseEdit──▶ manual | failed
//	any   ──Reset─────────▶ empty
//
// Failed and empty days display FailedText. Edits to one day never touch
// another, and BeginRun keeps two extraction runs from writing the same
// model at once.
package schedule
