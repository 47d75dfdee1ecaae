package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/compose"
	"github.com/gogpu/artboard/editor"
	"github.com/gogpu/artboard/export"
	"github.com/gogpu/artboard/library"
	"github.com/gogpu/artboard/synth/gemini"
)

// app holds the collaborators a command needs, created on first use.
type app struct {
	cfg *config

	comp *compose.Compositor
	lib  *library.Store
}

func (a *app) close() {
	if a.comp != nil {
		a.comp.Close()
	}
	if a.lib != nil {
		a.lib.Close()
	}
}

func (a *app) compositor() (*compose.Compositor, error) {
	if a.comp != nil {
		return a.comp, nil
	}
	opts := []compose.Option{compose.WithSize(a.cfg.Size)}
	if a.cfg.TextFont != "" {
		data, err := os.ReadFile(a.cfg.TextFont)
		if err != nil {
			return nil, fmt.Errorf("text font: %w", err)
		}
		opts = append(opts, compose.WithTextFont(data))
	}
	if a.cfg.StickerFont != "" {
		data, err := os.ReadFile(a.cfg.StickerFont)
		if err != nil {
			return nil, fmt.Errorf("sticker font: %w", err)
		}
		opts = append(opts, compose.WithStickerFont(data))
	}
	c, err := compose.New(opts...)
	if err != nil {
		return nil, err
	}
	a.comp = c
	return c, nil
}

func (a *app) library() (*library.Store, error) {
	if a.lib != nil {
		return a.lib, nil
	}
	s, err := library.Open(a.cfg.LibraryPath, library.WithMkdirAll())
	if err != nil {
		return nil, err
	}
	a.lib = s
	return s, nil
}

func (a *app) synthesizer() (*gemini.Client, error) {
	if a.cfg.GeminiKey == "" {
		return nil, errors.New("no API key: set GEMINI_API_KEY or gemini.api_key")
	}
	return gemini.New(a.cfg.GeminiKey,
		gemini.WithModel(a.cfg.GeminiModel),
		gemini.WithEndpoint(a.cfg.GeminiEndpoint),
		gemini.WithStyle(a.cfg.Style),
	), nil
}

// session opens an editor session on sc with the collaborators named in
// want ("synth", "library").
func (a *app) session(sc artboard.Scene, want ...string) (*editor.Session, error) {
	comp, err := a.compositor()
	if err != nil {
		return nil, err
	}
	opts := []editor.Option{editor.WithCompositor(comp), editor.WithScene(sc)}
	for _, w := range want {
		switch w {
		case "synth":
			g, err := a.synthesizer()
			if err != nil {
				return nil, err
			}
			opts = append(opts, editor.WithSynthesizer(g))
		case "library":
			lib, err := a.library()
			if err != nil {
				return nil, err
			}
			opts = append(opts, editor.WithLibrary(lib))
		}
	}
	return editor.New(nil, opts...)
}

// loadScene reads a scene document. Relative background paths resolve
// against the document's directory.
func loadScene(path string) (artboard.Scene, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return artboard.Scene{}, "", err
	}
	defer f.Close()
	doc, err := artboard.DecodeDocument(f)
	if err != nil {
		return artboard.Scene{}, "", fmt.Errorf("%s: %w", path, err)
	}
	sc, err := doc.Scene(fileLoader(filepath.Dir(path)))
	if err != nil {
		return artboard.Scene{}, "", fmt.Errorf("%s: %w", path, err)
	}
	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, name, nil
}

func fileLoader(dir string) artboard.LoadFunc {
	return func(p string) ([]byte, error) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		return os.ReadFile(p)
	}
}

// writeScene flattens sc through s and writes it to out, choosing the
// encoding from the extension. A .yaml or .yml out writes the document
// form instead.
func writeScene(ctx context.Context, s *editor.Session, name, out string) error {
	ext := strings.ToLower(filepath.Ext(out))
	if ext == ".yaml" || ext == ".yml" {
		var buf bytes.Buffer
		if err := artboard.EncodeDocument(&buf, artboard.NewDocument(name, s.Scene())); err != nil {
			return err
		}
		return os.WriteFile(out, buf.Bytes(), 0o644)
	}

	format, err := export.FormatFor(ext)
	if err != nil {
		return err
	}
	img, err := s.Flatten(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, img, format, name); err != nil {
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0o644)
}
