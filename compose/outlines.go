package compose

import (
	"math"

	"github.com/gogpu/gg/cache"
	"github.com/gogpu/gg/text"
)

// outlineCapacity is the per-shard entry limit of the glyph outline cache.
const outlineCapacity = 256

type outlineKey struct {
	face string
	gid  text.GlyphID
	size float64
}

func hashOutlineKey(k outlineKey) uint64 {
	return cache.StringHasher(k.face) ^ uint64(k.gid)<<32 ^ uint64(math.Float32bits(float32(k.size)))
}

// outlineEntry also records extraction failures so a glyph that cannot be
// outlined is not retried on every compose.
type outlineEntry struct {
	outline *text.GlyphOutline
	err     error
}

// outlines memoises glyph outlines per face, glyph and size. Outlines are
// read-only once stored.
type outlines struct {
	entries *cache.ShardedCache[outlineKey, outlineEntry]
}

func newOutlines() *outlines {
	return &outlines{entries: cache.NewSharded[outlineKey, outlineEntry](outlineCapacity, hashOutlineKey)}
}

func (o *outlines) get(f *face, gid text.GlyphID, size float64) (*text.GlyphOutline, error) {
	e := o.entries.GetOrCreate(outlineKey{face: f.name, gid: gid, size: size}, func() outlineEntry {
		out, err := text.NewOutlineExtractor().ExtractOutline(f.source.Parsed(), gid, size)
		return outlineEntry{outline: out, err: err}
	})
	return e.outline, e.err
}

func (o *outlines) clear() { o.entries.Clear() }
