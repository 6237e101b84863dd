package ocr

import (
	"context"
	"image"
)

// Engine recognizes the text of an already cropped image.
type Engine interface {
	// Name identifies the backend in logs and cache keys.
	Name() string

	// Recognize returns the raw text found in img.
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Info describes the state of the configured OCR backend.
type Info struct {
	Engine       string `json:"engine"`
	Available    bool   `json:"available"`
	Version      string `json:"version,omitempty"`
	Language     string `json:"language,omitempty"`
	TessdataPath string `json:"tessdata_path,omitempty"`
	RateLimited  bool   `json:"rate_limited"`
	Cached       bool   `json:"cached"`
	Error        string `json:"error,omitempty"`
}

// prober is implemented by engines that can report their own availability.
type prober interface {
	Probe(ctx context.Context) Info
}

// Describe reports what is known about e. Engines that cannot probe
// themselves are assumed available.
func Describe(ctx context.Context, e Engine) Info {
	if p, ok := e.(prober); ok {
		return p.Probe(ctx)
	}
	return Info{Engine: e.Name(), Available: true}
}
