package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/artboard"
)

func openMemory(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	rec, err := s.Save(ctx, Record{
		Label:  "Creative - 2026-01-01",
		Prompt: "a cat",
		Image:  []byte{1, 2, 3},
		Tags:   []string{"Creative", " creative ", "mockup", ""},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, []string{"creative", "mockup"}, rec.Tags)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Creative - 2026-01-01", got.Label)
	assert.Equal(t, "a cat", got.Prompt)
	assert.Equal(t, "image/png", got.MIME)
	assert.Equal(t, []byte{1, 2, 3}, got.Image)
	assert.Equal(t, []string{"creative", "mockup"}, got.Tags)
	assert.Equal(t, rec.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
	assert.False(t, got.Favorite)
}

func TestSaveRejectsEmptyImage(t *testing.T) {
	_, err := openMemory(t).Save(context.Background(), Record{Label: "x"})
	assert.ErrorIs(t, err, artboard.ErrEmptyAsset)
}

func TestGetUnknown(t *testing.T) {
	_, err := openMemory(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, WithClock(steppingClock()))

	for _, label := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, Record{Label: label, Image: []byte{0}})
		require.NoError(t, err)
	}

	recs, err := s.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "third", recs[0].Label)
	assert.Equal(t, "second", recs[1].Label)
	assert.Equal(t, "first", recs[2].Label)

	recs, err = s.List(ctx, Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, WithClock(steppingClock()))

	cat, err := s.Save(ctx, Record{Label: "Cat", Prompt: "Orange CAT sticker", Image: []byte{0}, Tags: []string{"creative"}})
	require.NoError(t, err)
	_, err = s.Save(ctx, Record{Label: "Mug", Prompt: "white mug", Image: []byte{0}, Tags: []string{"mockup"}})
	require.NoError(t, err)

	recs, err := s.List(ctx, Query{Search: "cat"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, cat.ID, recs[0].ID)

	recs, err = s.List(ctx, Query{Tag: "Mockup"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Mug", recs[0].Label)

	recs, err = s.List(ctx, Query{Favorites: true})
	require.NoError(t, err)
	assert.Empty(t, recs)

	fav, err := s.ToggleFavorite(ctx, cat.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	recs, err = s.List(ctx, Query{Favorites: true})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Favorite)
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	rec, err := s.Save(ctx, Record{Image: []byte{0}})
	require.NoError(t, err)

	fav, err := s.ToggleFavorite(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, fav)
	fav, err = s.ToggleFavorite(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	_, err = s.ToggleFavorite(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveCascadesTags(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	rec, err := s.Save(ctx, Record{Image: []byte{0}, Tags: []string{"creative"}})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, rec.ID))
	assert.ErrorIs(t, s.Remove(ctx, rec.ID), ErrNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var tags int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM artwork_tags`).Scan(&tags))
	assert.Zero(t, tags)
}

func TestOpenFileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "lib.db")

	s, err := Open(path, WithMkdirAll())
	require.NoError(t, err)
	rec, err := s.Save(ctx, Record{Label: "kept", Image: []byte{9}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Label)
}

func TestByTag(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, WithClock(steppingClock()))
	for _, tag := range []string{"mockup", "creative", "mockup"} {
		_, err := s.Save(ctx, Record{Image: []byte{0}, Tags: []string{tag}})
		require.NoError(t, err)
	}

	recs, err := s.ByTag(ctx, "mockup")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].CreatedAt.After(recs[1].CreatedAt))
}

func TestListSearchIsLiteral(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, WithClock(steppingClock()))
	for _, label := range []string{"50% off", "500 stickers", "snake_case", "snakecase", `back\slash`} {
		_, err := s.Save(ctx, Record{Label: label, Image: []byte{0}})
		require.NoError(t, err)
	}

	labels := func(search string) []string {
		recs, err := s.List(ctx, Query{Search: search})
		require.NoError(t, err)
		var out []string
		for _, r := range recs {
			out = append(out, r.Label)
		}
		return out
	}
	assert.Equal(t, []string{"50% off"}, labels("50%"))
	assert.Equal(t, []string{"snake_case"}, labels("e_c"))
	assert.Equal(t, []string{`back\slash`}, labels(`k\s`))
	assert.Len(t, labels("%"), 1)
}
