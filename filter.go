package artboard

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterKind enumerates the supported whole-canvas effects.
type FilterKind uint8

const (
	FilterNone FilterKind = iota
	FilterGrayscale
	FilterSepia
	FilterInvert
	FilterBrightness
	FilterContrast
	FilterSaturate
	FilterHueRotate
	FilterBlur
	// FilterVintage is sepia followed by a contrast boost.
	FilterVintage
)

var filterNames = [...]string{
	FilterNone:       "none",
	FilterGrayscale:  "grayscale",
	FilterSepia:      "sepia",
	FilterInvert:     "invert",
	FilterBrightness: "brightness",
	FilterContrast:   "contrast",
	FilterSaturate:   "saturate",
	FilterHueRotate:  "hue-rotate",
	FilterBlur:       "blur",
	FilterVintage:    "vintage",
}

// String returns the CSS-style effect name.
func (k FilterKind) String() string {
	if int(k) < len(filterNames) {
		return filterNames[k]
	}
	return fmt.Sprintf("FilterKind(%d)", k)
}

// Filter is a post-processing effect applied to the background during
// compositing. The zero value is no filter.
//
// Amount meaning by kind:
//   - Grayscale, Sepia, Invert, Vintage: strength, 0 to 1
//   - Brightness, Contrast, Saturate: multiplier, 1 is unchanged
//   - HueRotate: degrees
//   - Blur: radius in canvas pixels
type Filter struct {
	Kind   FilterKind
	Amount float64
}

// NoFilter leaves the background untouched.
var NoFilter = Filter{}

// Grayscale returns a full-strength grayscale filter.
func Grayscale() Filter { return Filter{Kind: FilterGrayscale, Amount: 1} }

// Sepia returns a full-strength sepia filter.
func Sepia() Filter { return Filter{Kind: FilterSepia, Amount: 1} }

// Invert returns a full-strength invert filter.
func Invert() Filter { return Filter{Kind: FilterInvert, Amount: 1} }

// Vintage returns the sepia plus contrast preset.
func Vintage() Filter { return Filter{Kind: FilterVintage, Amount: 1} }

// Blur returns a gaussian blur with the given radius in pixels.
func Blur(radius float64) Filter { return Filter{Kind: FilterBlur, Amount: radius} }

// IsNone reports whether the filter has no visible effect.
func (f Filter) IsNone() bool {
	switch f.Kind {
	case FilterNone:
		return true
	case FilterGrayscale, FilterSepia, FilterInvert, FilterVintage, FilterHueRotate, FilterBlur:
		return f.Amount == 0
	case FilterBrightness, FilterContrast, FilterSaturate:
		return f.Amount == 1
	}
	return false
}

// String returns the CSS-style token, e.g. "blur(2px)".
func (f Filter) String() string {
	switch f.Kind {
	case FilterNone:
		return "none"
	case FilterHueRotate:
		return fmt.Sprintf("hue-rotate(%sdeg)", formatAmount(f.Amount))
	case FilterBlur:
		return fmt.Sprintf("blur(%spx)", formatAmount(f.Amount))
	default:
		return fmt.Sprintf("%s(%s)", f.Kind, formatAmount(f.Amount))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Filter) UnmarshalText(b []byte) error {
	parsed, err := ParseFilter(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFilter parses a single CSS-style filter token such as "none",
// "grayscale(100%)", "sepia(0.6)", "blur(4px)" or "hue-rotate(90deg)".
// A bare name ("sepia") means full strength.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return NoFilter, nil
	}

	name, arg := s, ""
	if open := strings.IndexByte(s, '('); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
		}
		name, arg = strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1:len(s)-1])
	}

	kind, ok := lookupFilterKind(name)
	if !ok {
		return Filter{}, fmt.Errorf("%w: unknown effect %q", ErrInvalidFilter, name)
	}
	if arg == "" {
		return Filter{Kind: kind, Amount: defaultAmount(kind)}, nil
	}

	amount, err := parseAmount(kind, arg)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %q: %w", ErrInvalidFilter, s, err)
	}
	return Filter{Kind: kind, Amount: amount}, nil
}

func lookupFilterKind(name string) (FilterKind, bool) {
	if name == "saturation" {
		return FilterSaturate, true
	}
	for k, n := range filterNames {
		if n == name {
			return FilterKind(k), true
		}
	}
	return 0, false
}

func defaultAmount(k FilterKind) float64 {
	switch k {
	case FilterHueRotate:
		return 180
	case FilterBlur:
		return 2
	default:
		return 1
	}
}

func parseAmount(k FilterKind, arg string) (float64, error) {
	var unit string
	for _, u := range []string{"%", "px", "deg"} {
		if strings.HasSuffix(arg, u) {
			unit = u
			arg = strings.TrimSpace(strings.TrimSuffix(arg, u))
			break
		}
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 && k != FilterHueRotate {
		return 0, fmt.Errorf("negative amount %v", v)
	}
	switch unit {
	case "%":
		v /= 100
	case "px":
		if k != FilterBlur {
			return 0, fmt.Errorf("px unit only valid for blur")
		}
	case "deg":
		if k != FilterHueRotate {
			return 0, fmt.Errorf("deg unit only valid for hue-rotate")
		}
	}
	switch k {
	case FilterGrayscale, FilterSepia, FilterInvert, FilterVintage:
		v = min(v, 1)
	}
	return v, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
