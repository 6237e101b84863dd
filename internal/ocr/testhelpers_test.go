package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// stubEngine returns a fixed text and records the images it was given.
type stubEngine struct {
	mu     sync.Mutex
	text   string
	err    error
	images []image.Image
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(_ context.Context, img image.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, img)
	return s.text, s.err
}

func (s *stubEngine) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createImageWithText renders text in black on white. basicfont.Face7x13 is
// 7 pixels wide and 13 pixels tall per character.
func createImageWithText(text string) *image.RGBA {
	width := len(text)*7 + 40
	img := image.NewRGBA(image.Rect(0, 0, width, 40))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(img, 20, 25, text, color.Black)
	return img
}

func solid(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}
