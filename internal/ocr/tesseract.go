package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

// DefaultWhitelist restricts Tesseract to the characters of time intervals.
const DefaultWhitelist = "0123456789:.-"

// Tesseract recognizes text with a local Tesseract installation through
// gosseract.
//
// A new client is created for every call; gosseract clients are not safe for
// concurrent use.
type Tesseract struct {
	// Language is a Tesseract language code such as "fra" or "eng".
	Language string

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string

	// Whitelist limits recognized characters. Empty disables the filter.
	Whitelist string
}

// NewTesseract returns a Tesseract engine for language with the default
// whitelist.
func NewTesseract(language, tessdataPrefix string) *Tesseract {
	return &Tesseract{
		Language:       language,
		TessdataPrefix: tessdataPrefix,
		Whitelist:      DefaultWhitelist,
	}
}

// Name implements Engine.
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize implements Engine.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client, err := t.newClient()
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}
	return text, nil
}

func (t *Tesseract) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if t.Language != "" {
		if err := client.SetLanguage(t.Language); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set language: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if t.Whitelist != "" {
		if err := client.SetWhitelist(t.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}
	return client, nil
}

// Probe reports the Tesseract version.
func (t *Tesseract) Probe(_ context.Context) Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	info := Info{
		Engine:       t.Name(),
		Version:      version,
		Language:     t.Language,
		TessdataPath: t.TessdataPrefix,
		Available:    version != "",
	}
	if !info.Available {
		info.Error = "tesseract library not available"
	}
	return info
}
