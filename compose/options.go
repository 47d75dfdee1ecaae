package compose

// Canonical rendering constants.
const (
	// DefaultSize is the edge length of the square output in pixels.
	DefaultSize = 1024

	// TextSize is the base em size of text elements in pixels.
	TextSize = 80

	// StickerSize is the base em size of sticker glyphs in pixels.
	StickerSize = 100

	// TextStrokeWidth is the width of the black outline drawn under text.
	TextStrokeWidth = 4

	// DefaultCacheBytes bounds the prepared-background cache.
	DefaultCacheBytes = 64 << 20
)

// Option configures a Compositor during creation.
//
// Example:
//
//	c, err := compose.New(
//	    compose.WithSize(2048),
//	    compose.WithStickerFont(notoEmoji),
//	)
type Option func(*options)

type options struct {
	size         int
	textFont     []byte
	stickerFonts [][]byte
	cacheBytes   int64
}

func defaultOptions() options {
	return options{
		size:       DefaultSize,
		cacheBytes: DefaultCacheBytes,
	}
}

// WithSize sets the output edge length. Values below 1 are ignored.
func WithSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.size = px
		}
	}
}

// WithTextFont replaces the bold display face used for text elements.
// data is a TrueType or OpenType font file.
func WithTextFont(data []byte) Option {
	return func(o *options) {
		o.textFont = data
	}
}

// WithStickerFont adds a face tried for sticker glyphs. Faces are tried in
// the order added, then the built-in symbol face, then the text face.
func WithStickerFont(data []byte) Option {
	return func(o *options) {
		o.stickerFonts = append(o.stickerFonts, data)
	}
}

// WithCacheBytes bounds the memory held by prepared backgrounds.
// Zero disables the cache.
func WithCacheBytes(n int64) Option {
	return func(o *options) {
		o.cacheBytes = n
	}
}
