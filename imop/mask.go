package imop

import (
	"image"
	"image/color"
	"math"

	"github.com/stayliquid/tabbar/utils"
)

// EllipseMask returns an opaque white ellipse inscribed into rect, with a
// one pixel feathered edge. Composing it with dst_in clips a bitmap of the
// same size to an elliptical shape.
func EllipseMask(rect image.Rectangle) *image.NRGBA {
	w, h := rect.Dx(), rect.Dy()
	mask := image.NewNRGBA(image.Rect(0, 0, w, h))

	cx := float64(w) / 2
	cy := float64(h) / 2
	rx := cx
	ry := cy
	edge := 1 / utils.Min(rx, ry)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			f := math.Sqrt(dx*dx + dy*dy)

			cov := utils.Clamp((1-f)/edge+0.5, 0, 1)
			if cov > 0 {
				mask.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(cov * 255)})
			}
		}
	}

	return mask
}

// RoundedRectMask returns an opaque white rounded rectangle spanning rect,
// with the given corner radius and a one pixel feathered edge.
func RoundedRectMask(rect image.Rectangle, radius float64) *image.NRGBA {
	w, h := rect.Dx(), rect.Dy()
	mask := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := roundRectDist(float64(x)+0.5, float64(y)+0.5, rect, radius)

			cov := utils.Clamp(0.5-d, 0, 1)
			if cov > 0 {
				mask.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(cov * 255)})
			}
		}
	}

	return mask
}

// roundRectDist is the signed distance from point (px, py) to the border of
// the rounded rectangle inscribed into rect. Negative values are inside.
func roundRectDist(px, py float64, rect image.Rectangle, radius float64) float64 {
	w, h := float64(rect.Dx()), float64(rect.Dy())
	radius = utils.Clamp(radius, 0, utils.Min(w, h)/2)

	qx := math.Abs(px-w/2) - (w/2 - radius)
	qy := math.Abs(py-h/2) - (h/2 - radius)

	ox := utils.Max(qx, 0)
	oy := utils.Max(qy, 0)

	return math.Sqrt(ox*ox+oy*oy) + utils.Min(utils.Max(qx, qy), 0) - radius
}
