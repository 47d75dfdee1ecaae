package artboard

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
)

// Color is an sRGB color with straight (non-premultiplied) alpha.
// The zero value means "unset". A parsed or converted color with zero
// alpha is stored as Transparent, so it never reads as unset.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Black = Color{A: 255}

	// Transparent is the canonical fully transparent color.
	Transparent = Color{R: 255, G: 255, B: 255}
)

// ParseColor parses "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA".
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	return FromRGBA(gg.Hex(hex)), nil
}

// MustParseColor is like ParseColor but panics on error.
// Intended for package-level literals.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromRGBA converts a gg color to a Color. Any color with zero alpha
// becomes Transparent.
func FromRGBA(c gg.RGBA) Color {
	n := c.Color().(color.NRGBA)
	if n.A == 0 {
		return Transparent
	}
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool { return c == Color{} }

// Or returns c, or def when c is unset.
func (c Color) Or(def Color) Color {
	if c.IsZero() {
		return def
	}
	return c
}

// RGBA converts the color to gg's float representation.
func (c Color) RGBA() gg.RGBA {
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// String returns "#RRGGBB", or "#RRGGBBAA" when not fully opaque.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = Color{}
		return nil
	}
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
