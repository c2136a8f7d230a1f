package tabbar

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/stayliquid/tabbar/utils"
)

// RGBA is a normalized color with each channel in the [0, 1] range.
type RGBA struct {
	R, G, B, A float64
}

// NRGBA converts the normalized color to the 8 bit per channel representation.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(utils.Clamp(c.R, 0, 1)*255 + 0.5),
		G: uint8(utils.Clamp(c.G, 0, 1)*255 + 0.5),
		B: uint8(utils.Clamp(c.B, 0, 1)*255 + 0.5),
		A: uint8(utils.Clamp(c.A, 0, 1)*255 + 0.5),
	}
}

// ParseColor parses a color specification string into a normalized RGBA value.
// It accepts hex notation with a leading # sign (#RGB, #RRGGBB or #RRGGBBAA,
// where the trailing byte of the 8 digit form is the alpha channel) and the
// rgb()/rgba() functional notation with each of r, g, b in [0, 255] and the
// alpha component in [0, 1], defaulting to 1 when omitted.
func ParseColor(spec string) (RGBA, error) {
	s := strings.TrimSpace(spec)

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(strings.ToLower(s), "rgba("), strings.HasPrefix(strings.ToLower(s), "rgb("):
		return parseFunctional(s)
	}

	return RGBA{}, fmt.Errorf("unsupported color format: %q", spec)
}

// parseHex decodes the 3, 6 or 8 digit hex forms. The digits of the short
// form are expanded by duplication, i.e. #abc is equivalent to #aabbcc.
func parseHex(s string) (RGBA, error) {
	if len(s) == 3 {
		var sb strings.Builder
		for _, r := range s {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		s = sb.String()
	}

	if len(s) != 6 && len(s) != 8 {
		return RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	var ch [4]float64
	ch[3] = 1
	for i := 0; i*2 < len(s); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color component %q: %w", s[i*2:i*2+2], err)
		}
		ch[i] = float64(v) / 255
	}

	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// parseFunctional decodes the rgb(r, g, b) and rgba(r, g, b, a) notations.
func parseFunctional(s string) (RGBA, error) {
	lower := strings.ToLower(s)
	hasAlpha := strings.HasPrefix(lower, "rgba(")

	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return RGBA{}, fmt.Errorf("malformed color function: %q", s)
	}

	parts := strings.Split(s[open+1:len(s)-1], ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return RGBA{}, fmt.Errorf("expected %d color components, got %d", want, len(parts))
	}

	var out RGBA
	out.A = 1

	for i, p := range parts[:3] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		if v < 0 || v > 255 {
			return RGBA{}, fmt.Errorf("color component %v out of the [0, 255] range", v)
		}
		switch i {
		case 0:
			out.R = v / 255
		case 1:
			out.G = v / 255
		case 2:
			out.B = v / 255
		}
	}

	if hasAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid alpha component %q: %w", parts[3], err)
		}
		if a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("alpha component %v out of the [0, 1] range", a)
		}
		out.A = a
	}

	return out, nil
}
