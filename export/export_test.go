package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/artboard"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, solid(8, 8, color.RGBA{R: 200, A: 255})))

	got, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), got.Bounds())
	r, _, _, _ := got.At(3, 3).RGBA()
	assert.Equal(t, uint32(200)*0x101, r)
}

func TestJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JPEG(&buf, solid(16, 16, color.RGBA{G: 255, A: 255}), 0))

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, solid(32, 32, color.RGBA{B: 255, A: 255}), "Creative"))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Contains(t, buf.String(), "/Subtype /Image")

	assert.Error(t, PDF(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 0, 0)), ""))
}

func TestDataURLRoundTrip(t *testing.T) {
	url, err := DataURL(solid(4, 4, color.RGBA{A: 255}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	a, err := artboard.ParseDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.MediaType)
}

func TestFormatFor(t *testing.T) {
	for ext, want := range map[string]Format{".png": FormatPNG, ".jpg": FormatJPEG, ".jpeg": FormatJPEG, ".pdf": FormatPDF} {
		got, err := FormatFor(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, want, got, ext)
	}
	_, err := FormatFor(".gif")
	assert.Error(t, err)
}

func TestEncodeDispatch(t *testing.T) {
	img := solid(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	tests := []struct {
		format Format
		magic  string
	}{
		{FormatPNG, "\x89PNG\r\n\x1a\n"},
		{FormatJPEG, "\xff\xd8\xff"},
		{FormatPDF, "%PDF-"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, tt.format, "t"))
		assert.True(t, strings.HasPrefix(buf.String(), tt.magic), "format %d", tt.format)
	}
}

func TestJPEGQualityApplied(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 37), G: uint8(y * 53), B: uint8(x ^ y), A: 255})
		}
	}
	var low, high bytes.Buffer
	require.NoError(t, JPEG(&low, img, 10))
	require.NoError(t, JPEG(&high, img, 100))
	assert.Less(t, low.Len(), high.Len())
}
