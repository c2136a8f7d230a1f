package tabbar

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, G: 120, B: 230, A: 255})
		}
	}
	return img
}

// opaqueExtents returns the bounding box of all pixels with a non-zero
// alpha channel.
func opaqueExtents(img *image.NRGBA) (minX, minY, maxX, maxY int) {
	b := img.Bounds()
	minX, minY = b.Max.X, b.Max.Y
	maxX, maxY = -1, -1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	return minX, minY, maxX, maxY
}

func TestSizeFitPreservesAspectRatio(t *testing.T) {
	comp := NewCompositor(24)

	out := comp.Render(solidImage(100, 50), IconSpec{Size: SizeFit}, RGBA{})

	if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 24 {
		t.Fatalf("expected a 24x24 canvas, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}

	minX, minY, maxX, maxY := opaqueExtents(out)
	w := maxX - minX + 1
	h := maxY - minY + 1

	// The inset target box is 16x16; a 2:1 source must come out 16x8,
	// touching the box on its longer axis only.
	if w != 16 || h != 8 {
		t.Errorf("expected a 16x8 opaque region, got %dx%d", w, h)
	}
	if minX != 4 || maxX != 19 {
		t.Errorf("expected the image to span the inset box horizontally, got x in [%d, %d]", minX, maxX)
	}
	if minY != 8 || maxY != 15 {
		t.Errorf("expected the image to be centered vertically, got y in [%d, %d]", minY, maxY)
	}
}

func TestSizeStretchFillsTarget(t *testing.T) {
	comp := NewCompositor(24)

	out := comp.Render(solidImage(100, 50), IconSpec{Size: SizeStretch}, RGBA{})

	if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 24 {
		t.Fatalf("expected a 24x24 bitmap, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
	minX, minY, maxX, maxY := opaqueExtents(out)
	if minX != 0 || minY != 0 || maxX != 23 || maxY != 23 {
		t.Errorf("expected the stretched image to fill the target box, got [%d %d %d %d]", minX, minY, maxX, maxY)
	}
}

func TestSizeCoverCropsOverflow(t *testing.T) {
	comp := NewCompositor(24)

	out := comp.Render(solidImage(100, 50), IconSpec{Size: SizeCover}, RGBA{})

	if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 24 {
		t.Fatalf("expected a 24x24 bitmap, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if out.NRGBAAt(0, 0).A != 255 || out.NRGBAAt(23, 23).A != 255 {
		t.Error("expected the covered image to be fully opaque")
	}
}

func TestShapeCircleClipsCorners(t *testing.T) {
	comp := NewCompositor(24)

	out := comp.Render(solidImage(64, 64), IconSpec{Shape: ShapeCircle, Size: SizeCover}, RGBA{})

	if out.NRGBAAt(0, 0).A != 0 || out.NRGBAAt(23, 0).A != 0 ||
		out.NRGBAAt(0, 23).A != 0 || out.NRGBAAt(23, 23).A != 0 {
		t.Error("expected the corners to be clipped to full transparency")
	}
	if out.NRGBAAt(12, 12).A != 255 {
		t.Error("expected the center to stay opaque")
	}
}

func TestShapeSquareLeavesCorners(t *testing.T) {
	comp := NewCompositor(24)

	out := comp.Render(solidImage(64, 64), IconSpec{Shape: ShapeSquare, Size: SizeCover}, RGBA{})

	if out.NRGBAAt(0, 0).A != 255 || out.NRGBAAt(23, 23).A != 255 {
		t.Error("expected the square shape to keep the corners opaque")
	}
}

func TestRingExpandsCanvas(t *testing.T) {
	comp := NewCompositor(24)
	ringColor := RGBA{R: 1, A: 1}
	width := 2.0

	spec := IconSpec{
		Shape: ShapeCircle,
		Size:  SizeCover,
		Ring:  &RingSpec{Enabled: true, Width: &width},
	}
	out := comp.Render(solidImage(64, 64), spec, ringColor)

	// Each side grows by the spacer (equal to the ring width) plus the
	// ring width itself; the height additionally carries the bottom pad.
	wantW := 24 + 2*4
	wantH := 24 + 2*4 + 2
	if out.Bounds().Dx() != wantW || out.Bounds().Dy() != wantH {
		t.Fatalf("expected a %dx%d canvas, got %dx%d", wantW, wantH, out.Bounds().Dx(), out.Bounds().Dy())
	}

	// The stroke runs near the perimeter of the expanded canvas.
	top := out.NRGBAAt(wantW/2, 1)
	if top.A == 0 {
		t.Fatal("expected a stroked ring at the canvas top")
	}
	if top.R < 200 || top.G > 60 || top.B > 60 {
		t.Errorf("expected the ring stroke to carry the ring color, got %+v", top)
	}

	// The spacer band between the ring and the icon stays transparent.
	if px := out.NRGBAAt(wantW/2, 3); px.A != 0 {
		t.Errorf("expected a transparent spacer between ring and icon, got alpha %d", px.A)
	}
}

func TestRingDisabledKeepsCanvas(t *testing.T) {
	comp := NewCompositor(24)

	spec := IconSpec{Size: SizeCover, Ring: &RingSpec{Enabled: false}}
	out := comp.Render(solidImage(64, 64), spec, RGBA{})

	if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 24 {
		t.Errorf("expected the canvas to stay 24x24, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestRingColorSelectsStroke(t *testing.T) {
	comp := NewCompositor(24)

	spec := IconSpec{Size: SizeCover, Ring: &RingSpec{Enabled: true}}

	sel := comp.Render(solidImage(64, 64), spec, RGBA{R: 1, A: 1})
	unsel := comp.Render(solidImage(64, 64), spec, RGBA{G: 1, A: 1})

	x := sel.Bounds().Dx() / 2
	if sel.NRGBAAt(x, 1) == unsel.NRGBAAt(x, 1) {
		t.Error("expected different ring colors to produce different strokes")
	}
}
