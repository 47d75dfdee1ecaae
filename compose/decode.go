package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"

	// Registered background formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/gogpu/artboard"
)

// maxDecodePixels rejects backgrounds whose header claims an absurd size
// before any pixel memory is allocated.
const maxDecodePixels = 64 << 20

// Decode decodes an asset into an image. Failures are *artboard.DecodeError.
func Decode(a *artboard.Asset) (image.Image, error) {
	if a == nil || len(a.Data) == 0 {
		return nil, &artboard.DecodeError{Err: artboard.ErrEmptyAsset}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return nil, &artboard.DecodeError{Digest: a.Digest, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxDecodePixels {
		return nil, &artboard.DecodeError{
			Digest: a.Digest,
			Err:    fmt.Errorf("unsupported dimensions %dx%d", cfg.Width, cfg.Height),
		}
	}
	img, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return nil, &artboard.DecodeError{Digest: a.Digest, Err: err}
	}
	return img, nil
}

// backgrounds prepares canvas-sized, filtered background images and keeps
// them by asset digest, size and filter. A prepared image is never written
// after it is stored.
type backgrounds struct {
	cache *ristretto.Cache[string, *image.RGBA]
}

func newBackgrounds(maxBytes int64) (*backgrounds, error) {
	if maxBytes <= 0 {
		return &backgrounds{}, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, *image.RGBA]{
		NumCounters: 1000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("compose: background cache: %w", err)
	}
	return &backgrounds{cache: c}, nil
}

func backgroundKey(a *artboard.Asset, size int, f artboard.Filter) string {
	return fmt.Sprintf("%s|%d|%s", a.Digest, size, f)
}

// prepare returns a size×size copy of the background, stretched to fill
// and filtered.
func (b *backgrounds) prepare(a *artboard.Asset, size int, f artboard.Filter) (*image.RGBA, error) {
	key := backgroundKey(a, size, f)
	if b.cache != nil {
		if img, ok := b.cache.Get(key); ok {
			artboard.Logger().Debug("compose: background cache hit", slog.String("asset", a.String()))
			return img, nil
		}
	}

	src, err := Decode(a)
	if err != nil {
		return nil, err
	}
	var img *image.RGBA
	if r := src.Bounds(); r.Dx() == size && r.Dy() == size {
		img = clone.AsRGBA(src)
	} else {
		img = transform.Resize(src, size, size, transform.Linear)
	}
	img = applyFilter(img, f)

	if b.cache != nil {
		b.cache.Set(key, img, int64(len(img.Pix)))
		b.cache.Wait()
	}
	artboard.Logger().Debug("compose: background prepared",
		slog.String("asset", a.String()),
		slog.String("filter", f.String()))
	return img, nil
}

func (b *backgrounds) close() {
	if b.cache != nil {
		b.cache.Close()
	}
}

// IsDecodeError reports whether err came from a background that could not
// be decoded.
func IsDecodeError(err error) bool {
	var de *artboard.DecodeError
	return errors.As(err, &de)
}
