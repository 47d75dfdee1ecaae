package compose

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/artboard"
)

// face pairs the two views of one font file: gg's source for outlines and
// metrics, go-text's font for shaping. Both are safe for concurrent use.
type face struct {
	name   string
	source *text.FontSource
	shaper *font.Font
}

func loadFace(name string, data []byte) (*face, error) {
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("compose: font %s: %w", name, err)
	}
	parsed, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compose: font %s: %w", name, err)
	}
	return &face{name: name, source: src, shaper: parsed.Font}, nil
}

// covers reports whether every visible rune of s has a glyph in f.
func (f *face) covers(s string) bool {
	parsed := f.source.Parsed()
	for _, r := range s {
		if ignorable(r) {
			continue
		}
		if parsed.GlyphIndex(r) == 0 {
			return false
		}
	}
	return true
}

// ignorable reports runes that select presentation rather than add a
// glyph: joiners, variation selectors and skin tone modifiers.
func ignorable(r rune) bool {
	switch {
	case r == 0x200C || r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	}
	return false
}

// pick returns the first face that covers s, or the first face.
func pick(faces []*face, s string) *face {
	for _, f := range faces {
		if f.covers(s) {
			return f
		}
	}
	return faces[0]
}

type placedGlyph struct {
	gid  text.GlyphID
	x, y float64 // pen position, y down
}

// run is one shaped line of glyphs at a fixed pixel size.
type run struct {
	face    *face
	size    float64
	glyphs  []placedGlyph
	advance float64
	ascent  float64
	descent float64
}

// shape lays out s left to right on a baseline at y=0.
func shape(f *face, s string, size float64) run {
	m := f.source.Face(size).Metrics()
	r := run{face: f, size: size, ascent: m.Ascent, descent: m.Descent}
	runes := []rune(s)
	if len(runes) == 0 {
		return r
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f.shaper),
		Size:      fixed.Int26_6(size * 64),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	}
	var hb shaping.HarfbuzzShaper
	out := hb.Shape(input)

	r.glyphs = make([]placedGlyph, 0, len(out.Glyphs))
	var pen float64
	for _, g := range out.Glyphs {
		r.glyphs = append(r.glyphs, placedGlyph{
			gid: text.GlyphID(uint16(g.GlyphID)), //nolint:gosec // glyph ids fit in 16 bits
			x:   pen + fixedToFloat(g.XOffset),
			y:   -fixedToFloat(g.YOffset),
		})
		pen += fixedToFloat(g.Advance)
	}
	r.advance = pen
	return r
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || ignorable(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// origin returns the pen start that centers the run on (0,0): horizontally
// on its advance, vertically on the middle of the em box.
func (r run) origin() (x, y float64) {
	return -r.advance / 2, (r.ascent - r.descent) / 2
}

// appendPath adds the outlines of every drawable glyph to the current path
// of dc, in the coordinate space of dc's matrix. It returns the number of
// glyphs that contributed contours.
func (r run) appendPath(dc *gg.Context, ol *outlines, e artboard.Element) int {
	ox, oy := r.origin()
	drawn := 0
	for _, g := range r.glyphs {
		if g.gid == 0 {
			artboard.Logger().Warn("compose: missing glyph",
				slog.String("font", r.face.name),
				slog.String("element", e.ID),
				slog.String("content", e.Content))
			continue
		}
		outline, err := ol.get(r.face, g.gid, r.size)
		if err != nil {
			// Color bitmap glyphs have no outline.
			artboard.Logger().Warn("compose: glyph has no outline",
				slog.String("font", r.face.name),
				slog.Int("gid", int(g.gid)),
				slog.String("err", err.Error()))
			continue
		}
		if outline == nil || outline.IsEmpty() {
			continue
		}
		x0, y0 := ox+g.x, oy+g.y
		open := false
		for _, seg := range outline.Segments {
			p := seg.Points
			switch seg.Op {
			case text.OutlineOpMoveTo:
				if open {
					dc.ClosePath()
				}
				dc.MoveTo(x0+float64(p[0].X), y0+float64(p[0].Y))
				open = true
			case text.OutlineOpLineTo:
				dc.LineTo(x0+float64(p[0].X), y0+float64(p[0].Y))
			case text.OutlineOpQuadTo:
				dc.QuadraticTo(
					x0+float64(p[0].X), y0+float64(p[0].Y),
					x0+float64(p[1].X), y0+float64(p[1].Y))
			case text.OutlineOpCubicTo:
				dc.CubicTo(
					x0+float64(p[0].X), y0+float64(p[0].Y),
					x0+float64(p[1].X), y0+float64(p[1].Y),
					x0+float64(p[2].X), y0+float64(p[2].Y))
			}
		}
		if open {
			dc.ClosePath()
		}
		drawn++
	}
	return drawn
}
