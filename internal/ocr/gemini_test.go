package ocr

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, len(texts))
	for i, s := range texts {
		parts[i] = genai.Text(s)
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGemini_Recognize(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("09:00 - 12:00\n", "14:00 - 18:00")}
	g := &Gemini{model: fake, modelName: "test"}

	text, err := g.Recognize(context.Background(), solid(10, 10, color.White))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "09:00 - 12:00\n14:00 - 18:00" {
		t.Errorf("text: got %q", text)
	}

	if len(fake.parts) != 2 {
		t.Fatalf("parts: got %d, want 2", len(fake.parts))
	}
	blob, ok := fake.parts[0].(genai.Blob)
	if !ok || blob.MIMEType != "image/png" {
		t.Errorf("first part: got %#v, want a png blob", fake.parts[0])
	}
}

func TestGemini_NoCandidate(t *testing.T) {
	g := &Gemini{model: &fakeGenerator{resp: &genai.GenerateContentResponse{}}}

	_, err := g.Recognize(context.Background(), solid(10, 10, color.White))
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("got %v, want ErrNoCandidate", err)
	}
}

func TestGemini_Error(t *testing.T) {
	boom := errors.New("quota exceeded")
	g := &Gemini{model: &fakeGenerator{err: boom}}

	_, err := g.Recognize(context.Background(), solid(10, 10, color.White))
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped quota error", err)
	}
}
