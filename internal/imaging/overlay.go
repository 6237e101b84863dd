package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	tableColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	labelFG    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	labelBG    = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// columnColor picks the outline colour of column i out of n. Hues are spread
// evenly from orange round to magenta so no column is confused with the red
// table outline.
func columnColor(i, n int) color.RGBA {
	hue := 30 + 300*float64(i)/float64(n)
	r, g, b := colorful.Hsv(hue, 0.75, 0.85).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// dashLength is the on/off run of the dashed table outline, in pixels.
const dashLength = 6

// ColumnOverlay draws the table selection as a red dashed rectangle and each
// of its column slices as a solid rectangle in its own hue, labelled with labels[i] when
// provided. The column count is len(labels), or 7 when labels is empty.
func ColumnOverlay(img image.Image, table Region, labels []string) (*EncodedImage, error) {
	if table.Empty() {
		return nil, ErrEmptyRegion
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	n := len(labels)
	if n == 0 {
		n = 7
	}

	for i, col := range table.Columns(n) {
		rect := col.Rect(bounds)
		strokeRect(out, rect, columnColor(i, n), 0)
		if i < len(labels) {
			drawLabel(out, rect.Min.X+3, rect.Min.Y+3, labels[i])
		}
	}
	strokeRect(out, table.Rect(bounds), tableColor, dashLength)

	return EncodeBase64(out)
}

// strokeRect draws a 2px outline inside rect. A positive dash alternates
// painted and skipped runs of that length.
func strokeRect(img *image.RGBA, rect image.Rectangle, c color.Color, dash int) {
	if rect.Empty() {
		return
	}
	on := func(i int) bool {
		return dash <= 0 || (i/dash)%2 == 0
	}
	for t := 0; t < 2; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if on(x - rect.Min.X) {
				img.Set(x, rect.Min.Y+t, c)
				img.Set(x, rect.Max.Y-1-t, c)
			}
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			if on(y - rect.Min.Y) {
				img.Set(rect.Min.X+t, y, c)
				img.Set(rect.Max.X-1-t, y, c)
			}
		}
	}
}

// drawLabel renders text with its top-left corner at (x, y) on a dark box.
func drawLabel(img *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelFG),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	box := image.Rect(x-1, y-1, x+width+1, y+face.Height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(labelBG), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}
