package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// geminiPrompt asks for the intervals only, one per line, so that the reply
// goes through the same parser as OCR text.
const geminiPrompt = `This image is one column of a printed weekly work schedule.
Transcribe every working time interval you can read, one per line, formatted as "HH:MM - HH:MM".
Do not add any other text. Reply with nothing if there is no interval.`

// ErrNoCandidate is returned when Gemini answers without any content.
var ErrNoCandidate = errors.New("gemini returned no candidate")

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini reads schedule cells with a Gemini vision model.
type Gemini struct {
	client    *genai.Client
	model     contentGenerator
	modelName string
}

// NewGemini connects to the Gemini API with apiKey.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{client: client, model: model, modelName: modelName}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Name implements Engine.
func (g *Gemini) Name() string { return "gemini" }

// Recognize implements Engine.
func (g *Gemini) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.ImageData("png", data), genai.Text(geminiPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidate
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Probe reports the configured model.
func (g *Gemini) Probe(_ context.Context) Info {
	return Info{Engine: g.Name(), Version: g.modelName, Available: g.model != nil}
}
