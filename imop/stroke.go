package imop

import (
	"image"
	"image/color"
	"math"

	"github.com/stayliquid/tabbar/utils"
)

// StrokeEllipse strokes an elliptical ring over dst. The stroke path is the
// ellipse inscribed into rect inset by half the stroke width, so the whole
// stroke stays inside rect.
func StrokeEllipse(dst *image.NRGBA, rect image.Rectangle, width float64, col color.NRGBA) {
	cx := float64(rect.Min.X) + float64(rect.Dx())/2
	cy := float64(rect.Min.Y) + float64(rect.Dy())/2
	rx := float64(rect.Dx())/2 - width/2
	ry := float64(rect.Dy())/2 - width/2
	if rx <= 0 || ry <= 0 {
		return
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			f := math.Sqrt(dx*dx + dy*dy)

			// Radial distance from the stroke path, scaled back to pixels.
			d := math.Abs(f-1) * utils.Min(rx, ry)
			cov := utils.Clamp(width/2-d+0.5, 0, 1)
			if cov > 0 {
				blendPixel(dst, x, y, col, cov)
			}
		}
	}
}

// StrokeRoundedRect strokes a rounded rectangle ring over dst, following the
// border of rect inset by half the stroke width.
func StrokeRoundedRect(dst *image.NRGBA, rect image.Rectangle, radius, width float64, col color.NRGBA) {
	inner := image.Rect(0, 0, rect.Dx()-int(width), rect.Dy()-int(width))

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			px := float64(x-rect.Min.X) + 0.5 - width/2
			py := float64(y-rect.Min.Y) + 0.5 - width/2
			d := math.Abs(roundRectDist(px, py, inner, radius))

			cov := utils.Clamp(width/2-d+0.5, 0, 1)
			if cov > 0 {
				blendPixel(dst, x, y, col, cov)
			}
		}
	}
}

// blendPixel draws col over the destination pixel with the given coverage.
func blendPixel(dst *image.NRGBA, x, y int, col color.NRGBA, cov float64) {
	src := color.NRGBA{
		R: col.R,
		G: col.G,
		B: col.B,
		A: uint8(float64(col.A) * cov),
	}

	asn := float64(src.A) / 255
	bg := dst.NRGBAAt(x, y)
	abn := float64(bg.A) / 255

	an := asn + abn*(1-asn)
	if an == 0 {
		dst.SetNRGBA(x, y, color.NRGBA{})
		return
	}

	blend := func(s, b uint8) uint8 {
		v := (asn*float64(s) + abn*float64(b)*(1-asn)) / an
		return uint8(utils.Clamp(v, 0, 255))
	}

	dst.SetNRGBA(x, y, color.NRGBA{
		R: blend(src.R, bg.R),
		G: blend(src.G, bg.G),
		B: blend(src.B, bg.B),
		A: uint8(utils.Clamp(an*255, 0, 255)),
	})
}
