package tabbar

import (
	"encoding/json"
	"fmt"
	"math"
)

// Shape selects the clipping applied to a sized image icon.
type Shape string

// The supported icon shapes. Square leaves the sized bitmap rectangular
// and is the default.
const (
	ShapeSquare Shape = "square"
	ShapeCircle Shape = "circle"
)

// Valid reports whether the shape is one of the supported values. The empty
// string is accepted and resolves to the square default.
func (s Shape) Valid() bool {
	return s == "" || s == ShapeSquare || s == ShapeCircle
}

// SizeMode selects how the source bitmap is mapped onto the target box.
type SizeMode string

// The supported sizing modes. Fit is the mode recommended for the default
// appearance.
const (
	SizeCover   SizeMode = "cover"
	SizeStretch SizeMode = "stretch"
	SizeFit     SizeMode = "fit"
)

// Valid reports whether the sizing mode is one of the supported values. The
// empty string is accepted and resolves to the fit default.
func (m SizeMode) Valid() bool {
	return m == "" || m == SizeCover || m == SizeStretch || m == SizeFit
}

// DefaultRingWidth is the stroke width of a ring decoration when the
// configuration leaves it unset.
const DefaultRingWidth = 2.0

// RingSpec describes the optional ring decoration drawn around an image
// icon. The ring color is not configurable here: it is derived at render
// time from the owning tab's selection state.
type RingSpec struct {
	Enabled bool     `json:"enabled"`
	Width   *float64 `json:"width,omitempty"`
}

// StrokeWidth returns the configured ring width, or the default when unset
// or not positive.
func (r RingSpec) StrokeWidth() float64 {
	if r.Width == nil || *r.Width <= 0 {
		return DefaultRingWidth
	}
	return *r.Width
}

// IconSpec describes an image icon: its clipping shape, sizing mode, the
// image source (a base64 data URI or an HTTPS address) and the optional
// ring decoration.
type IconSpec struct {
	Shape Shape     `json:"shape,omitempty"`
	Size  SizeMode  `json:"size,omitempty"`
	Image string    `json:"image"`
	Ring  *RingSpec `json:"ring,omitempty"`
}

// BadgeKind discriminates the badge variants.
type BadgeKind int

// The badge variants. A numeric badge with value zero is kept in the
// configuration but suppressed from display.
const (
	BadgeNone BadgeKind = iota
	BadgeCount
	BadgeDot
)

// Badge is the tri-state badge value of a tab: a non-negative count, the
// literal dot marker, or nothing.
type Badge struct {
	Kind  BadgeKind
	Count int
}

// Visible reports whether the badge should actually be displayed. A zero
// count suppresses the badge.
func (b Badge) Visible() bool {
	switch b.Kind {
	case BadgeCount:
		return b.Count > 0
	case BadgeDot:
		return true
	}
	return false
}

// UnmarshalJSON decodes the wire representation of a badge: a non-negative
// integer, the literal "dot", or null. Anything else is rejected rather
// than silently defaulting to no badge.
func (b *Badge) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*b = Badge{Kind: BadgeNone}
		return nil
	case string:
		if val == "dot" {
			*b = Badge{Kind: BadgeDot}
			return nil
		}
		return fmt.Errorf("invalid badge value %q", val)
	case float64:
		if val < 0 || val != math.Trunc(val) {
			return fmt.Errorf("invalid badge value %v", val)
		}
		*b = Badge{Kind: BadgeCount, Count: int(val)}
		return nil
	}

	return fmt.Errorf("invalid badge value of type %T", v)
}

// MarshalJSON encodes the badge back into its wire representation.
func (b Badge) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BadgeCount:
		return json.Marshal(b.Count)
	case BadgeDot:
		return json.Marshal("dot")
	}
	return json.Marshal(nil)
}

// TabItem is the declarative record describing one tab. Identity is the id,
// which must be unique and non-empty across the configured set. SystemIcon
// and Image are the fallback identifiers used when the image icon fails to
// resolve.
type TabItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	SystemIcon string    `json:"systemIcon,omitempty"`
	Image      string    `json:"image,omitempty"`
	ImageIcon  *IconSpec `json:"imageIcon,omitempty"`
	Badge      *Badge    `json:"badge,omitempty"`
}

// Config is the root tab bar configuration. A Configure call replaces any
// prior configuration wholesale; it is never merged.
type Config struct {
	Items               []TabItem `json:"items"`
	InitialID           string    `json:"initialId,omitempty"`
	Visible             *bool     `json:"visible,omitempty"`
	SelectedIconColor   string    `json:"selectedIconColor,omitempty"`
	UnselectedIconColor string    `json:"unselectedIconColor,omitempty"`
}

// Insets mirrors the safe area insets of the hosting window.
type Insets struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// IconState tracks the resolution lifecycle of one tab's image icon.
type IconState int

// The icon resolution states. The terminal states are not truly terminal:
// any configuration or selection change affecting a tab re-enters Loading.
const (
	IconIdle IconState = iota
	IconLoading
	IconLoaded
	IconError
)

func (s IconState) String() string {
	switch s {
	case IconIdle:
		return "idle"
	case IconLoading:
		return "loading"
	case IconLoaded:
		return "loaded"
	case IconError:
		return "error"
	}
	return "unknown"
}
