package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/artboard/library"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "artboard.db", cfg.LibraryPath)
	assert.Equal(t, 1024, cfg.Size)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-3-pro-image-preview", cfg.GeminiModel)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "artboard.yaml"), `
library: art/lib.db
size: 256
gemini:
  model: custom-model
log:
  level: debug
`)
	t.Setenv("ARTBOARD_SIZE", "128")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "art/lib.db", cfg.LibraryPath)
	assert.Equal(t, 128, cfg.Size, "environment wins over the file")
	assert.Equal(t, "custom-model", cfg.GeminiModel)
	assert.Equal(t, "secret", cfg.GeminiKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := loadConfig("nope.yaml")
	assert.Error(t, err)
}

func TestSetupLoggingRejectsLevel(t *testing.T) {
	_, err := setupLogging(&config{LogLevel: "loud"}, false)
	assert.Error(t, err)
}

func TestRenderSaveAndList(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "artboard.yaml"), "size: 64\nlibrary: lib/art.db\n")
	writeFile(t, filepath.Join(dir, "card.yaml"), `
name: card
filter: sepia
elements:
  - kind: text
    content: Hi
    color: "#FFD700"
  - content: "⭐"
    x: 20
    y: 20
`)
	ctx := context.Background()

	require.NoError(t, run(ctx, "", false, "render", []string{"-scene", "card.yaml", "-out", "card.png"}))
	f, err := os.Open(filepath.Join(dir, "card.png"))
	require.NoError(t, err)
	img, err := png.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	require.NoError(t, run(ctx, "", false, "render", []string{"-scene", "card.yaml", "-out", "card.pdf"}))
	require.FileExists(t, filepath.Join(dir, "card.pdf"))

	require.NoError(t, run(ctx, "", false, "save", []string{"-scene", "card.yaml"}))
	lib, err := library.Open(filepath.Join(dir, "lib", "art.db"))
	require.NoError(t, err)
	recs, err := lib.ByTag(ctx, "creative")
	lib.Close()
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	require.NoError(t, run(ctx, "", false, "library", []string{"ls"}))
	require.NoError(t, run(ctx, "", false, "library", []string{"fav", recs[0].ID}))
	require.NoError(t, run(ctx, "", false, "library", []string{"rm", recs[0].ID}))
	assert.ErrorIs(t, run(ctx, "", false, "library", []string{"rm", recs[0].ID}), library.ErrNotFound)
}

func TestTemplateAndCatalog(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "artboard.yaml"), "size: 64\n")
	ctx := context.Background()

	require.NoError(t, run(ctx, "", false, "catalog", nil))
	require.NoError(t, run(ctx, "", false, "template", []string{"-id", "temp2", "-out", "t.yaml"}))
	require.FileExists(t, filepath.Join(dir, "t.yaml"))
	assert.Error(t, run(ctx, "", false, "template", []string{"-id", "missing"}))
}

func TestUnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.Error(t, run(context.Background(), "", false, "paint", nil))
}

func TestMagicNeedsKey(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ARTBOARD_GEMINI_API_KEY", "")
	writeFile(t, filepath.Join(dir, "card.yaml"), "elements: []\n")
	err := run(context.Background(), "", false, "magic", []string{"-scene", "card.yaml", "-prompt", "x"})
	assert.ErrorContains(t, err, "no API key")
}
