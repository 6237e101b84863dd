// Package interval extracts and normalizes "start - end" time intervals from
// recognized text.
//
// Two steps turn noisy OCR output into comparable observations:
//
//   - Parse finds raw tokens such as "9:03 - 14:58" or "09.03–14.58" in
//     arbitrary text, in order of appearance.
//   - Snap rewrites one raw token to the canonical form "HH:MM - HH:MM", with
//     hours clamped to 0-23 and minutes moved to the nearest quarter hour.
//
// Two raw tokens that snap to the same string are the same observation. This
// is what lets the extract package vote across several OCR attempts.
//
// # Tie-break Rule
//
// Minutes are compared against the quarters 0, 15, 30 and 45 in ascending
// order, and a later quarter only wins on a strictly smaller distance. An
// exact midpoint therefore resolves to the lower quarter.
//
// # Error Handling
//
// Neither function fails. Text without intervals parses to an empty slice, and
// malformed numbers snap to zero.
package interval
