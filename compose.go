package tabbar

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/stayliquid/tabbar/imop"
	"github.com/stayliquid/tabbar/utils"
)

const (
	// DefaultIconSize is the edge of the square target box an icon is
	// rendered into.
	DefaultIconSize = 24

	// fitInset is the padding applied on each side of the target box by
	// the fit sizing mode.
	fitInset = 4

	// ringBottomPad is the extra room reserved beneath a ring stroke for
	// visual balance.
	ringBottomPad = 2
)

// Compositor renders a decoded bitmap into the final tab icon: it applies
// the sizing mode and clipping shape, then optionally composes a ring
// decoration around the result. Target boxes are always square.
type Compositor struct {
	target int
}

// NewCompositor creates a compositor rendering into a square target box of
// the given edge length. A non-positive target falls back to DefaultIconSize.
func NewCompositor(target int) *Compositor {
	if target <= 0 {
		target = DefaultIconSize
	}
	return &Compositor{target: target}
}

// Render produces the final icon bitmap for src according to spec. The ring
// color is derived by the caller from the owning tab's selection state and
// only applies when the ring decoration is enabled. The returned bitmap
// carries its own colors and must be displayed untinted by the host.
func (c *Compositor) Render(src *image.NRGBA, spec IconSpec, ringColor RGBA) *image.NRGBA {
	img := c.size(src, spec.Size)

	if spec.Shape == ShapeCircle {
		op := imop.InitOp()
		op.Set(imop.DstIn)
		img = op.Draw(imop.EllipseMask(img.Bounds()), img)
	}

	if spec.Ring != nil && spec.Ring.Enabled {
		img = c.ring(img, spec.Ring.StrokeWidth(), ringColor)
	}

	return img
}

// size maps the source bitmap onto the square target box.
//
// Cover scales preserving the aspect ratio until the shorter dimension
// fills the box and center-crops the overflow. Stretch scales both axes
// independently to exactly fill the box. Fit, the default, scales
// preserving the aspect ratio until the image fits entirely within the box
// inset by a fixed padding, centering the result.
func (c *Compositor) size(src *image.NRGBA, mode SizeMode) *image.NRGBA {
	t := c.target

	switch mode {
	case SizeCover:
		return imaging.Fill(src, t, t, imaging.Center, imaging.Lanczos)
	case SizeStretch:
		return imaging.Resize(src, t, t, imaging.Lanczos)
	}

	inner := imaging.Fit(src, t-2*fitInset, t-2*fitInset, imaging.Lanczos)
	canvas := imop.NewCanvas(image.Rect(0, 0, t, t))
	canvas.Paste(inner, image.Pt((t-inner.Bounds().Dx())/2, (t-inner.Bounds().Dy())/2))

	return canvas.Img
}

// ring expands the canvas by a transparent spacer plus the stroke width on
// each side, draws the icon centered, then strokes the ring around the
// perimeter. The spacer equals the ring width and isolates the stroke
// visually from the icon; a small fixed padding is reserved beneath the
// ring. The stroke is elliptical for square icons and a rounded rectangle
// otherwise.
func (c *Compositor) ring(img *image.NRGBA, width float64, col RGBA) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	margin := int(2*width + 0.5)

	outW := w + 2*margin
	outH := h + 2*margin + ringBottomPad

	canvas := imop.NewCanvas(image.Rect(0, 0, outW, outH))
	canvas.Paste(img, image.Pt(margin, margin))

	stroke := image.Rect(0, 0, outW, outH-ringBottomPad)
	if w == h {
		imop.StrokeEllipse(canvas.Img, stroke, width, col.NRGBA())
	} else {
		radius := float64(utils.Min(w, h)) / 4
		imop.StrokeRoundedRect(canvas.Img, stroke, radius, width, col.NRGBA())
	}

	return canvas.Img
}
