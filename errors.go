package artboard

import (
	"errors"
	"fmt"
)

// Sentinel errors for the artboard package and its sub-packages.
var (
	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("artboard: image decode failed")

	// ErrSynthesis is matched by every *SynthesisError.
	ErrSynthesis = errors.New("artboard: image synthesis failed")

	// ErrNoImage is returned when a synthesizer response carries no
	// decodable image.
	ErrNoImage = errors.New("artboard: response contained no image")

	// ErrInvalidColor is returned by ParseColor for malformed input.
	ErrInvalidColor = errors.New("artboard: invalid color")

	// ErrInvalidFilter is returned by ParseFilter for unknown effects.
	ErrInvalidFilter = errors.New("artboard: invalid filter")

	// ErrInvalidDataURL is returned by ParseDataURL for malformed input.
	ErrInvalidDataURL = errors.New("artboard: invalid data url")

	// ErrEmptyAsset is returned when an asset is built from no bytes.
	ErrEmptyAsset = errors.New("artboard: empty image data")
)

// DecodeError reports a background image that could not be decoded.
// The scene that referenced it is never affected.
type DecodeError struct {
	// Digest identifies the asset that failed.
	Digest string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Digest == "" {
		return fmt.Sprintf("artboard: decode: %v", e.Err)
	}
	return fmt.Sprintf("artboard: decode %s: %v", shortDigest(e.Digest), e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// SynthesisError reports a failed call into the image synthesizer.
type SynthesisError struct {
	// Op names the failed operation ("transform" or "mockup").
	Op  string
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("artboard: synthesis %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSynthesis.
func (e *SynthesisError) Is(target error) bool { return target == ErrSynthesis }

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
