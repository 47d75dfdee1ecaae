package artboard

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/h2non/filetype"
)

// Asset is an encoded raster image referenced by a Scene, typically the
// background. Assets are immutable: Data must not be modified after
// NewAsset returns, which lets history snapshots share it freely.
type Asset struct {
	// Digest is the hex SHA-256 of Data. Two assets with the same digest
	// decode to the same pixels.
	Digest string

	// MediaType is the sniffed MIME type, e.g. "image/png".
	MediaType string

	Data []byte
}

// NewAsset wraps encoded image bytes. The media type is sniffed from the
// content; data that is not a known image format is accepted with an
// empty media type and left for the decoder to reject.
func NewAsset(data []byte) (*Asset, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAsset
	}
	sum := sha256.Sum256(data)
	a := &Asset{
		Digest: hex.EncodeToString(sum[:]),
		Data:   data,
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown && filetype.IsImage(data) {
		a.MediaType = kind.MIME.Value
	}
	return a, nil
}

// ParseDataURL decodes "data:image/<type>;base64,<payload>" into an Asset.
// A bare base64 payload without the data: header is accepted too.
func ParseDataURL(s string) (*Asset, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: missing base64 payload", ErrInvalidDataURL)
		}
		if !strings.HasPrefix(header, "data:image/") {
			return nil, fmt.Errorf("%w: not an image (%s)", ErrInvalidDataURL, header)
		}
		payload = body
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return NewAsset(data)
}

// DataURL encodes the asset as a base64 data URL.
func (a *Asset) DataURL() string {
	mt := a.MediaType
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Same reports whether a and b reference the same image content.
// Two nil assets are the same.
func (a *Asset) Same(b *Asset) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Digest == b.Digest
}

// String returns a short description for logs.
func (a *Asset) String() string {
	if a == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s (%s, %d bytes)", shortDigest(a.Digest), a.MediaType, len(a.Data))
}
