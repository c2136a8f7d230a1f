// Package imop implements the minimal drawing-surface operations the icon
// compositor is built on: canvas allocation, bitmap pasting, Porter-Duff
// alpha composition, ellipse and rounded-rectangle masks and strokes.
// All operations work on plain NRGBA buffers, which keeps the compositing
// logic independent of any platform graphics backend.
package imop

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is a mutable NRGBA drawing surface.
type Canvas struct {
	Img *image.NRGBA
}

// NewCanvas allocates a fully transparent canvas of the given size.
func NewCanvas(rect image.Rectangle) *Canvas {
	return &Canvas{
		Img: image.NewNRGBA(rect),
	}
}

// Paste draws src over the canvas with its top-left corner placed at pt.
func (c *Canvas) Paste(src image.Image, pt image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(pt)
	draw.Draw(c.Img, r, src, src.Bounds().Min, draw.Over)
}

// ToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func ToNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok {
		if src.Bounds().Min == (image.Point{}) {
			return src
		}
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		di := dst.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst.Pix[di+0] = c.R
			dst.Pix[di+1] = c.G
			dst.Pix[di+2] = c.B
			dst.Pix[di+3] = c.A
			di += 4
		}
	}

	return dst
}
