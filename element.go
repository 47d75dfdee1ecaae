package artboard

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Kind is the variant of a placed element.
type Kind uint8

const (
	// KindSticker renders a glyph or symbol (usually an emoji).
	KindSticker Kind = iota

	// KindText renders a literal string with an outline.
	KindText
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSticker:
		return "sticker"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "sticker", "":
		*k = KindSticker
	case "text":
		*k = KindText
	default:
		return fmt.Errorf("artboard: unknown element kind %q", b)
	}
	return nil
}

// Interaction limits for the scale control. The model itself accepts any
// positive scale.
const (
	MinScale = 0.5
	MaxScale = 3.0
)

// Element defaults.
const (
	DefaultX     = 50.0
	DefaultY     = 50.0
	DefaultScale = 1.0
)

// Point is a position in percent of the square canvas, 0 to 100 on each axis.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Element is a sticker or text placed on the canvas.
// Elements are values; a Scene never hands out a pointer into its list.
type Element struct {
	// ID is assigned at creation and never changes.
	ID string `yaml:"id,omitempty"`

	Kind Kind `yaml:"kind"`

	// Content is a glyph key for stickers and the literal string for text.
	Content string `yaml:"content"`

	// Position is the element center.
	Position Point `yaml:",inline"`

	Scale float64 `yaml:"scale"`

	// Rotation in degrees, clockwise.
	Rotation float64 `yaml:"rotation"`

	// Color fills text. Stickers ignore it.
	Color Color `yaml:"color,omitempty"`

	// Locked elements cannot be dragged but still render and still
	// respond to explicit layer commands.
	Locked bool `yaml:"locked,omitempty"`
}

// NewElement returns an element with a fresh id, centered on the canvas,
// at scale 1, unrotated, white and unlocked.
func NewElement(kind Kind, content string) Element {
	return Element{
		ID:       uuid.NewString(),
		Kind:     kind,
		Content:  normalizeContent(content),
		Position: Point{X: DefaultX, Y: DefaultY},
		Scale:    DefaultScale,
		Color:    White,
	}
}

// ElementPatch holds the attributes to merge into an element.
// Nil fields are left unchanged. ID and Kind cannot be patched.
//
// Apply normalizes what it merges, so a patched field reads back exactly
// only when the value is already normal: a Scale that is zero, negative or
// NaN is ignored, Rotation is wrapped into [0, 360) and Content is stored
// in NFC.
type ElementPatch struct {
	Content  *string
	Position *Point
	Scale    *float64
	Rotation *float64
	Color    *Color
	Locked   *bool
}

// Apply returns e with the non-nil fields of p merged in.
func (e Element) Apply(p ElementPatch) Element {
	if p.Content != nil {
		e.Content = normalizeContent(*p.Content)
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Scale != nil && *p.Scale > 0 {
		e.Scale = *p.Scale
	}
	if p.Rotation != nil {
		e.Rotation = NormalizeRotation(*p.Rotation)
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Locked != nil {
		e.Locked = *p.Locked
	}
	return e
}

// MoveTo returns a patch setting the position.
func MoveTo(x, y float64) ElementPatch { return ElementPatch{Position: &Point{X: x, Y: y}} }

// SetScale returns a patch setting the scale.
func SetScale(s float64) ElementPatch { return ElementPatch{Scale: &s} }

// SetRotation returns a patch setting the rotation.
func SetRotation(deg float64) ElementPatch { return ElementPatch{Rotation: &deg} }

// SetColor returns a patch setting the color.
func SetColor(c Color) ElementPatch { return ElementPatch{Color: &c} }

// SetLocked returns a patch setting the lock state.
func SetLocked(locked bool) ElementPatch { return ElementPatch{Locked: &locked} }

// SetContent returns a patch setting the content.
func SetContent(s string) ElementPatch { return ElementPatch{Content: &s} }

// ClampScale restricts s to the interactive range [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultScale
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// NormalizeRotation wraps deg into [0, 360).
func NormalizeRotation(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// normalizeContent puts content in NFC so visually equal strings compare
// equal and shape identically.
func normalizeContent(s string) string { return norm.NFC.String(s) }
