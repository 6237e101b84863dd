package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

// DefaultOCRSpaceEndpoint is the public OCR.space parse endpoint.
const DefaultOCRSpaceEndpoint = "https://api.ocr.space/parse/image"

// ErrOCRSpace is wrapped by errors reported in an OCR.space response body.
var ErrOCRSpace = errors.New("ocr.space processing failed")

// OCRSpace recognizes text with the OCR.space web API.
type OCRSpace struct {
	Endpoint string
	APIKey   string

	// Language is an OCR.space language code, "fre" for French schedules.
	Language string

	Client *http.Client
}

// NewOCRSpace returns an OCR.space engine using a client with the given
// timeout.
func NewOCRSpace(endpoint, apiKey, language string, timeout time.Duration) *OCRSpace {
	if endpoint == "" {
		endpoint = DefaultOCRSpaceEndpoint
	}
	return &OCRSpace{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Language: language,
		Client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Engine.
func (o *OCRSpace) Name() string { return "ocrspace" }

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// Recognize implements Engine.
func (o *OCRSpace) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := [][2]string{
		{"apikey", o.APIKey},
		{"language", o.Language},
		{"base64Image", "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr.space request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr.space returned status %d: %w", resp.StatusCode, ErrOCRSpace)
	}

	var parsed ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode ocr.space response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("%s: %w", errorMessage(parsed.ErrorMessage), ErrOCRSpace)
	}
	if len(parsed.ParsedResults) == 0 {
		return "", nil
	}
	return parsed.ParsedResults[0].ParsedText, nil
}

// errorMessage flattens ErrorMessage, which OCR.space sends either as a
// string or as a list of strings.
func errorMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	return "unknown error"
}

// Probe reports the configured endpoint without calling it; OCR.space
// counts every request against the key's quota.
func (o *OCRSpace) Probe(_ context.Context) Info {
	info := Info{
		Engine:    o.Name(),
		Version:   o.Endpoint,
		Language:  o.Language,
		Available: o.APIKey != "",
	}
	if !info.Available {
		info.Error = "no OCR.space API key configured"
	}
	return info
}
