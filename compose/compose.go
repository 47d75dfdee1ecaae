package compose

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gg"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/artboard"
)

// Compositor flattens scenes into square raster images.
//
// The output depends only on the scene value and the decoded background
// pixels. Rendering always takes gg's CPU path; no accelerator is
// consulted, so output is identical across machines.
//
// A Compositor is safe for concurrent use.
type Compositor struct {
	size     int
	display  *face
	stickers []*face
	bg       *backgrounds
	glyphs   *outlines
}

// New returns a Compositor. Without font options the Go Bold face renders
// text and Go Regular renders stickers.
func New(opts ...Option) (*Compositor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	textData := o.textFont
	if textData == nil {
		textData = gobold.TTF
	}
	textFace, err := loadFace("text", textData)
	if err != nil {
		return nil, err
	}

	c := &Compositor{size: o.size, display: textFace, glyphs: newOutlines()}
	for i, data := range o.stickerFonts {
		f, err := loadFace(fmt.Sprintf("sticker-%d", i), data)
		if err != nil {
			return nil, err
		}
		c.stickers = append(c.stickers, f)
	}
	symbols, err := loadFace("symbols", goregular.TTF)
	if err != nil {
		return nil, err
	}
	c.stickers = append(c.stickers, symbols, textFace)

	if c.bg, err = newBackgrounds(o.cacheBytes); err != nil {
		return nil, err
	}
	return c, nil
}

// Size returns the output edge length in pixels.
func (c *Compositor) Size() int { return c.size }

// Close releases the background and glyph caches.
func (c *Compositor) Close() error {
	c.bg.close()
	c.glyphs.clear()
	return nil
}

// Compose rasterizes s:
//
//  1. The background is stretched to fill the canvas with the scene filter
//     applied. Without a background the canvas is solid white.
//  2. Elements are painted in list order. Each is translated to its anchor,
//     rotated clockwise about it, then scaled about it. Text is stroked in
//     black and filled on top; stickers are filled only.
//
// A background that cannot be decoded fails with *artboard.DecodeError.
// Compose checks ctx before decoding and between elements.
func (c *Compositor) Compose(ctx context.Context, s artboard.Scene) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(c.size, c.size)
	defer dc.Close()
	dc.SetRasterizerMode(gg.RasterizerAnalytic)

	if bg := s.Background(); bg != nil {
		img, err := c.bg.prepare(bg, c.size, s.Filter())
		if err != nil {
			return nil, err
		}
		dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
			DstWidth:      float64(c.size),
			DstHeight:     float64(c.size),
			Interpolation: gg.InterpNearest,
			Opacity:       1,
			BlendMode:     gg.BlendNormal,
		})
	} else {
		dc.ClearWithColor(gg.White)
	}

	for i := range s.Len() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.drawElement(dc, s.At(i)); err != nil {
			return nil, err
		}
	}

	artboard.Logger().Debug("compose: scene flattened",
		slog.Int("size", c.size),
		slog.Int("elements", s.Len()),
		slog.String("background", s.Background().String()))
	if out, ok := dc.Image().(*image.RGBA); ok {
		return out, nil
	}
	return clone.AsRGBA(dc.Image()), nil
}

func (c *Compositor) drawElement(dc *gg.Context, e artboard.Element) error {
	if e.Content == "" {
		return nil
	}
	dim := float64(c.size)

	dc.Push()
	defer dc.Pop()
	dc.Translate(e.Position.X/100*dim, e.Position.Y/100*dim)
	dc.Rotate(e.Rotation * math.Pi / 180)
	dc.Scale(e.Scale, e.Scale)

	switch e.Kind {
	case artboard.KindText:
		r := shape(c.display, e.Content, TextSize)
		if r.appendPath(dc, c.glyphs, e) == 0 {
			return nil
		}
		dc.SetLineJoin(gg.LineJoinMiter)
		dc.SetLineWidth(TextStrokeWidth)
		dc.SetColor(artboard.Black.RGBA().Color())
		if err := dc.StrokePreserve(); err != nil {
			dc.ClearPath()
			return fmt.Errorf("compose: stroke %s: %w", e.ID, err)
		}
		dc.SetColor(e.Color.Or(artboard.White).RGBA().Color())
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("compose: fill %s: %w", e.ID, err)
		}

	default:
		r := shape(pick(c.stickers, e.Content), e.Content, StickerSize)
		if r.appendPath(dc, c.glyphs, e) == 0 {
			return nil
		}
		dc.SetColor(artboard.Black.RGBA().Color())
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("compose: fill %s: %w", e.ID, err)
		}
	}
	return nil
}
