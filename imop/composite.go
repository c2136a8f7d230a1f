package imop

import (
	"image"
	"image/color"

	"github.com/stayliquid/tabbar/utils"
)

// The supported Porter-Duff composition operators.
const (
	SrcOver = "src_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	DstOut  = "dst_out"
)

// Composite applies one of the Porter-Duff alpha composition operators
// over a pair of source and backdrop bitmaps.
type Composite struct {
	current string
	ops     []string
}

// InitOp initializes the composition operator with src_over as the default mode.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			SrcOver,
			SrcIn,
			DstIn,
			DstOut,
		},
	}
}

// Set changes the active composition operator.
func (op *Composite) Set(cop string) {
	op.current = cop
}

// Draw composes src against dst using the active operator and returns the
// resulting bitmap. The two images are aligned at their (0, 0) origin and
// the result spans the backdrop bounds.
func (op *Composite) Draw(src, dst *image.NRGBA) *image.NRGBA {
	dx, dy := dst.Bounds().Dx(), dst.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, dx, dy))

	if !utils.Contains(op.ops, op.current) {
		return out
	}

	var rn, gn, bn, an float64

	for x := 0; x < dx; x++ {
		for y := 0; y < dy; y++ {
			r1, g1, b1, a1 := src.At(x, y).RGBA()
			r2, g2, b2, a2 := dst.At(x, y).RGBA()

			rsn := float64(r1>>8) / 255
			gsn := float64(g1>>8) / 255
			bsn := float64(b1>>8) / 255
			asn := float64(a1>>8) / 255

			rbn := float64(r2>>8) / 255
			gbn := float64(g2>>8) / 255
			bbn := float64(b2>>8) / 255
			abn := float64(a2>>8) / 255

			// applying the alpha composition formula
			switch op.current {
			case SrcOver:
				rn = asn*rsn + abn*rbn*(1-asn)
				gn = asn*gsn + abn*gbn*(1-asn)
				bn = asn*bsn + abn*bbn*(1-asn)
				an = asn + abn*(1-asn)
			case SrcIn:
				rn = asn * rsn * abn
				gn = asn * gsn * abn
				bn = asn * bsn * abn
				an = asn * abn
			case DstIn:
				rn = abn * rbn * asn
				gn = abn * gbn * asn
				bn = abn * bbn * asn
				an = abn * asn
			case DstOut:
				rn = abn * rbn * (1 - asn)
				gn = abn * gbn * (1 - asn)
				bn = abn * bbn * (1 - asn)
				an = abn * (1 - asn)
			}

			// The channels are stored non-premultiplied.
			var r, g, b uint32
			if an > 0 {
				r = uint32(rn / an * 255)
				g = uint32(gn / an * 255)
				b = uint32(bn / an * 255)
			}
			a := uint32(an * 255)

			out.Set(x, y, color.NRGBA{
				R: uint8(utils.Min(r, 255)),
				G: uint8(utils.Min(g, 255)),
				B: uint8(utils.Min(b, 255)),
				A: uint8(utils.Min(a, 255)),
			})
		}
	}

	return out
}
