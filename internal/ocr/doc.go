// Package ocr provides the text recognition backends used to read schedule
// cells.
//
// Every backend implements Engine, which turns an already cropped image into
// raw text. RegionOracle binds an Engine to a loaded image so the extract
// package can ask for the text of a Region.
//
// # Backends
//
//   - Tesseract: local recognition through gosseract. Tesseract and its
//     language data must be installed (apt-get install tesseract-ocr
//     tesseract-ocr-fra, brew install tesseract tesseract-lang).
//   - OCRSpace: the OCR.space web API, language "fre" by default.
//   - Gemini: a Gemini vision model asked to transcribe intervals.
//
// # Decorators
//
// RateLimited spaces out calls to remote backends with a token bucket.
// Cached stores recognized text in Redis, keyed by the PNG bytes of the crop,
// so re-running a day on an unchanged image does not call the backend again.
//
// # Error Handling
//
// Engines return errors for transport failures, API errors and missing
// libraries. Callers in the extract package treat any error as an attempt
// without signal.
package ocr
