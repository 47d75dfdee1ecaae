// Package synth defines the image synthesizer boundary used by the editor
// for AI-assisted edits and product mockups.
//
// Implementations live in sub-packages (see synth/gemini). Every failure
// returned across this boundary should be an *artboard.SynthesisError so
// callers can match artboard.ErrSynthesis.
package synth

import (
	"context"
	"image"
	"math/rand/v2"
)

// Synthesizer edits and composes raster images from text instructions.
type Synthesizer interface {
	// Transform returns base modified according to instruction.
	Transform(ctx context.Context, instruction string, base image.Image) (image.Image, error)

	// Mockup returns a photo-style rendering of artwork applied to the
	// product described by product.
	Mockup(ctx context.Context, product string, artwork image.Image) (image.Image, error)
}

// Op names used in *artboard.SynthesisError.
const (
	OpTransform = "transform"
	OpMockup    = "mockup"
	OpGenerate  = "generate"
)

// Vibes are the scene moods picked at random for mockups so repeated
// requests for the same product vary.
var Vibes = []string{
	"Soft Lighting",
	"Bright Day",
	"Cozy Indoor",
	"Minimalist Studio",
	"Natural Light",
	"Warm Atmosphere",
	"Cool Tones",
}

// Variation is the random part of a mockup prompt.
type Variation struct {
	Vibe string
	ID   int
}

// NewVariation picks a vibe and a variation id in [0, 10000) from r.
// A nil r uses the global source.
func NewVariation(r *rand.Rand) Variation {
	if r == nil {
		return Variation{Vibe: Vibes[rand.IntN(len(Vibes))], ID: rand.IntN(10000)}
	}
	return Variation{Vibe: Vibes[r.IntN(len(Vibes))], ID: r.IntN(10000)}
}
