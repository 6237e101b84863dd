package ocr

import (
	"context"
	"errors"
	"image"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

// RegionOracle reads regions of one loaded image with an Engine.
//
// It satisfies extract.Recognizer. Each call crops the region, scales it,
// optionally cleans it up for OCR, and hands the result to the engine. A
// region that covers no pixel reads as empty text.
type RegionOracle struct {
	Image  image.Image
	Engine Engine

	// Scale enlarges crops before recognition. 0 or 1 keeps the native size.
	Scale float64

	// Preprocess, when non-nil, is applied to every crop.
	Preprocess *imaging.PreprocessOptions
}

// Recognize implements extract.Recognizer.
func (o *RegionOracle) Recognize(ctx context.Context, region imaging.Region) (string, error) {
	crop, err := imaging.CropRegion(o.Image, region, o.Scale)
	if err != nil {
		if errors.Is(err, imaging.ErrEmptyRegion) {
			return "", nil
		}
		return "", err
	}
	if o.Preprocess != nil {
		crop = imaging.Preprocess(crop, *o.Preprocess)
	}
	return o.Engine.Recognize(ctx, crop)
}
