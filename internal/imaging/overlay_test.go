package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeEncoded(t *testing.T, enc *EncodedImage) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func TestColumnOverlay(t *testing.T) {
	img := createInMemoryImage(140, 60, color.RGBA{128, 128, 128, 255})
	labels := []string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

	enc, err := ColumnOverlay(img, Region{X: 0, Y: 0, W: 140, H: 60}, labels)
	if err != nil {
		t.Fatalf("ColumnOverlay failed: %v", err)
	}
	if enc.Width != 140 || enc.Height != 60 {
		t.Errorf("dimensions: got %dx%d, want 140x60", enc.Width, enc.Height)
	}

	out := decodeEncoded(t, enc)

	// Table outline starts with a painted dash at its corner.
	r, g, b, _ := out.At(0, 0).RGBA()
	if r>>8 != 220 || g>>8 != 30 || b>>8 != 30 {
		t.Errorf("table corner: got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}

	// Left edge of the second column.
	assertColor(t, "column edge", out.At(20, 40), columnColor(1, 7))

	// Column interior is untouched.
	r, g, b, _ = out.At(10, 40).RGBA()
	if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 {
		t.Errorf("column interior: got (%d,%d,%d), want gray", r>>8, g>>8, b>>8)
	}
}

func TestColumnOverlay_DefaultColumnCount(t *testing.T) {
	img := createInMemoryImage(70, 30, color.White)

	enc, err := ColumnOverlay(img, Region{X: 0, Y: 0, W: 70, H: 30}, nil)
	if err != nil {
		t.Fatalf("ColumnOverlay failed: %v", err)
	}
	out := decodeEncoded(t, enc)

	for i := 1; i < 7; i++ {
		assertColor(t, "column edge", out.At(i*10, 15), columnColor(i, 7))
	}
}

func TestColumnOverlay_EmptyTable(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)

	_, err := ColumnOverlay(img, Region{X: 10, Y: 10}, nil)
	if !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("got %v, want ErrEmptyRegion", err)
	}
}

func TestColumnColor_DistinctHues(t *testing.T) {
	seen := make(map[color.RGBA]int)
	for i := 0; i < 7; i++ {
		c := columnColor(i, 7)
		if prev, ok := seen[c]; ok {
			t.Errorf("columns %d and %d share colour %v", prev, i, c)
		}
		if c == tableColor {
			t.Errorf("column %d uses the table colour", i)
		}
		seen[c] = i
	}
}

func assertColor(t *testing.T, what string, got color.Color, want color.RGBA) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("%s: got (%d,%d,%d), want (%d,%d,%d)", what, r>>8, g>>8, b>>8, want.R, want.G, want.B)
	}
}
