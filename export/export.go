// Package export encodes flattened artwork for sharing and printing.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/jung-kurt/gofpdf"
)

// DefaultJPEGQuality is used when JPEG is given a quality outside [1, 100].
const DefaultJPEGQuality = 92

// Page geometry for PDF, in millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	pageMargin = 15.0
)

// Format is an output encoding.
type Format uint8

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatPDF
)

// FormatFor returns the format implied by a file extension such as ".jpg".
func FormatFor(ext string) (Format, error) {
	switch ext {
	case ".png", "":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return 0, fmt.Errorf("export: unsupported extension %q", ext)
	}
}

// Encode writes img to w in format f. title is used by PDF only.
func Encode(w io.Writer, img image.Image, f Format, title string) error {
	switch f {
	case FormatJPEG:
		return JPEG(w, img, DefaultJPEGQuality)
	case FormatPDF:
		return PDF(w, img, title)
	default:
		return PNG(w, img)
	}
}

// PNG writes img as PNG.
func PNG(w io.Writer, img image.Image) error {
	if err := imgio.PNGEncoder()(w, img); err != nil {
		return fmt.Errorf("export: png: %w", err)
	}
	return nil
}

// JPEG writes img as JPEG at the given quality.
func JPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imgio.JPEGEncoder(quality)(w, img); err != nil {
		return fmt.Errorf("export: jpeg: %w", err)
	}
	return nil
}

// PDF writes a single A4 portrait page with img centred, scaled to fit
// within the margins and keeping its aspect ratio.
func PDF(w io.Writer, img image.Image, title string) error {
	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreator("artboard", true)
	pdf.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("artwork", opt, &buf)

	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	if iw == 0 || ih == 0 {
		return fmt.Errorf("export: pdf: empty image")
	}
	maxW, maxH := pageWidth-2*pageMargin, pageHeight-2*pageMargin
	scale := min(maxW/iw, maxH/ih)
	dw, dh := iw*scale, ih*scale
	x, y := (pageWidth-dw)/2, (pageHeight-dh)/2
	pdf.ImageOptions("artwork", x, y, dw, dh, false, opt, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}

// DataURL returns img as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
