package imaging

import (
	"fmt"
	"image"
	"math"
)

// Region is a rectangle in image pixel coordinates.
//
// Coordinates are floating point because regions are derived by division
// (seven equal columns) and by repeated percentage growth. They are only
// rounded to whole pixels when the region is cropped, see Region.Rect.
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// FromPoints builds a Region from two drag corners in any order.
// Width and height are always non-negative.
func FromPoints(x1, y1, x2, y2 float64) Region {
	return Region{
		X: math.Min(x1, x2),
		Y: math.Min(y1, y2),
		W: math.Abs(x2 - x1),
		H: math.Abs(y2 - y1),
	}
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// String implements fmt.Stringer for log output.
func (r Region) String() string {
	return fmt.Sprintf("{x:%.1f y:%.1f w:%.1f h:%.1f}", r.X, r.Y, r.W, r.H)
}

// Clip intersects the region with [0, maxW] x [0, maxH].
func (r Region) Clip(maxW, maxH float64) Region {
	x0 := math.Max(r.X, 0)
	y0 := math.Max(r.Y, 0)
	x1 := math.Min(r.X+r.W, maxW)
	y1 := math.Min(r.Y+r.H, maxH)
	return Region{X: x0, Y: y0, W: math.Max(x1-x0, 0), H: math.Max(y1-y0, 0)}
}

// Expand grows the region by factor of its own width and height, half on each
// side, then pulls it back inside [0, maxW] x [0, maxH].
//
// An edge pushed past the origin is reset to 0 while the size is kept; a size
// that runs past maxW or maxH is shrunk to fit. Calling Expand on its own
// result compounds the growth.
func (r Region) Expand(factor, maxW, maxH float64) Region {
	addW := r.W * factor
	addH := r.H * factor

	out := Region{
		X: r.X - addW/2,
		Y: r.Y - addH/2,
		W: r.W + addW,
		H: r.H + addH,
	}

	if out.X < 0 {
		out.X = 0
	}
	if out.Y < 0 {
		out.Y = 0
	}
	if out.X+out.W > maxW {
		out.W = maxW - out.X
	}
	if out.Y+out.H > maxH {
		out.H = maxH - out.Y
	}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Columns splits the region into n equal-width vertical slices that share the
// region's Y and height, left to right.
func (r Region) Columns(n int) []Region {
	if n <= 0 {
		return nil
	}
	colW := r.W / float64(n)
	cols := make([]Region, n)
	for i := range cols {
		cols[i] = Region{X: r.X + float64(i)*colW, Y: r.Y, W: colW, H: r.H}
	}
	return cols
}

// Rect converts the region to whole pixels, covering every pixel the region
// touches, intersected with bounds.
func (r Region) Rect(bounds image.Rectangle) image.Rectangle {
	rect := image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(r.Y+r.H)),
	)
	return rect.Add(bounds.Min).Intersect(bounds)
}
