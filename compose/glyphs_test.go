package compose

import (
	"math"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestShapeCentersRun(t *testing.T) {
	f, err := loadFace("bold", gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	r := shape(f, "HELLO", TextSize)
	if len(r.glyphs) != 5 {
		t.Fatalf("glyphs = %d, want 5", len(r.glyphs))
	}
	if r.advance <= 0 {
		t.Fatalf("advance = %v", r.advance)
	}
	for i := 1; i < len(r.glyphs); i++ {
		if r.glyphs[i].x <= r.glyphs[i-1].x {
			t.Errorf("glyph %d not advancing: %v <= %v", i, r.glyphs[i].x, r.glyphs[i-1].x)
		}
	}
	x, y := r.origin()
	if math.Abs(x+r.advance/2) > 1e-9 {
		t.Errorf("origin x = %v, want %v", x, -r.advance/2)
	}
	if y <= 0 || y >= r.ascent {
		t.Errorf("origin y = %v, want baseline between center and ascent %v", y, r.ascent)
	}
}

func TestShapeEmpty(t *testing.T) {
	f, err := loadFace("bold", gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if r := shape(f, "", TextSize); len(r.glyphs) != 0 || r.advance != 0 {
		t.Errorf("shape(\"\") = %+v", r)
	}
}

func TestPickFallsBack(t *testing.T) {
	reg, err := loadFace("regular", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	bold, err := loadFace("bold", gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	faces := []*face{reg, bold}
	if got := pick(faces, "A"); got != reg {
		t.Errorf("pick(A) = %s, want regular", got.name)
	}
	// No face has this emoji; the first face is used.
	if got := pick(faces, "\U0001F995"); got != reg {
		t.Errorf("pick(emoji) = %s, want first face", got.name)
	}
}

func TestIgnorable(t *testing.T) {
	for _, r := range []rune{0x200D, 0xFE0F, 0x1F3FD} {
		if !ignorable(r) {
			t.Errorf("ignorable(%U) = false", r)
		}
	}
	if ignorable('A') {
		t.Error("ignorable('A') = true")
	}
}

func TestOutlinesMemoised(t *testing.T) {
	f, err := loadFace("bold", gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	r := shape(f, "A", TextSize)
	if len(r.glyphs) != 1 {
		t.Fatalf("glyphs = %d, want 1", len(r.glyphs))
	}
	ol := newOutlines()
	a, err := ol.get(f, r.glyphs[0].gid, TextSize)
	if err != nil || a == nil || a.IsEmpty() {
		t.Fatalf("get = %v, %v", a, err)
	}
	b, _ := ol.get(f, r.glyphs[0].gid, TextSize)
	if a != b {
		t.Error("second lookup extracted the outline again")
	}
	c, _ := ol.get(f, r.glyphs[0].gid, StickerSize)
	if c == a {
		t.Error("different sizes share an outline")
	}
}
