package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/catalog"
	"github.com/gogpu/artboard/export"
	"github.com/gogpu/artboard/library"
)

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func required(fs *flag.FlagSet, names ...string) error {
	for _, n := range names {
		if fs.Lookup(n).Value.String() == "" {
			fs.Usage()
			return fmt.Errorf("%s: -%s is required", fs.Name(), n)
		}
	}
	return nil
}

func runRender(ctx context.Context, a *app, args []string) error {
	fs := newFlags("render")
	var (
		scene  = fs.String("scene", "", "scene document (YAML)")
		out    = fs.String("out", "art.png", "output file (.png, .jpg, .pdf, .yaml)")
		filter = fs.String("filter", "", "override the scene filter, e.g. sepia(60%)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "scene"); err != nil {
		return err
	}

	sc, name, err := loadScene(*scene)
	if err != nil {
		return err
	}
	s, err := a.session(sc)
	if err != nil {
		return err
	}
	defer s.Close()
	if *filter != "" {
		f, err := artboard.ParseFilter(*filter)
		if err != nil {
			return err
		}
		if err := s.SetFilter(f); err != nil {
			return err
		}
	}
	if err := writeScene(ctx, s, name, *out); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d elements)\n", *out, s.Scene().Len())
	return nil
}

func runTemplate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("template")
	var (
		id         = fs.String("id", "", "template id (see: artboard catalog)")
		background = fs.String("background", "", "optional background image")
		out        = fs.String("out", "template.png", "output file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	tpl, ok, err := cat.Template(*id, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown template %q (have %s)", *id, strings.Join(cat.TemplateIDs(), ", "))
	}

	var seed *artboard.Asset
	if *background != "" {
		data, err := os.ReadFile(*background)
		if err != nil {
			return err
		}
		if seed, err = artboard.NewAsset(data); err != nil {
			return err
		}
	}

	s, err := a.session(artboard.NewScene(seed))
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.ApplyTemplate(tpl); err != nil {
		return err
	}
	if seed != nil {
		if err := s.SetBackground(seed); err != nil {
			return err
		}
	}
	if err := writeScene(ctx, s, tpl.Name, *out); err != nil {
		return err
	}
	fmt.Printf("wrote %s from template %s\n", *out, tpl.ID)
	return nil
}

func runCatalog(_ context.Context, _ *app, args []string) error {
	fs := newFlags("catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STICKERS")
	for _, c := range cat.Categories() {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, strings.Join(c.Items, " "))
	}
	fmt.Fprintln(tw, "TEMPLATES")
	for _, id := range cat.TemplateIDs() {
		tpl, _, err := cat.Template(id, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d elements\n", tpl.ID, tpl.Name, len(tpl.Elements))
	}
	fmt.Fprintln(tw, "MOCKUPS")
	for _, m := range cat.Mockups {
		fmt.Fprintf(tw, "  %s\t%s\n", m.ID, m.Name)
	}
	return tw.Flush()
}

func runMagic(ctx context.Context, a *app, args []string) error {
	fs := newFlags("magic")
	var (
		scene  = fs.String("scene", "", "scene document with a background")
		prompt = fs.String("prompt", "", "edit instruction")
		out    = fs.String("out", "edited.yaml", "output document or image")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "scene", "prompt"); err != nil {
		return err
	}

	sc, name, err := loadScene(*scene)
	if err != nil {
		return err
	}
	s, err := a.session(sc, "synth")
	if err != nil {
		return err
	}
	defer s.Close()

	start := time.Now()
	if err := s.MagicEdit(ctx, *prompt); err != nil {
		return err
	}
	if err := writeScene(ctx, s, name, *out); err != nil {
		return err
	}
	fmt.Printf("wrote %s in %s\n", *out, time.Since(start).Round(time.Millisecond))
	return nil
}

func runMockup(ctx context.Context, a *app, args []string) error {
	fs := newFlags("mockup")
	var (
		scene   = fs.String("scene", "", "scene document")
		product = fs.String("product", "tshirt", "mockup id (see: artboard catalog) or free description")
		out     = fs.String("out", "mockup.png", "output file")
		save    = fs.Bool("save", false, "also store the mockup in the library")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "scene"); err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	label, description := *product, *product
	if m, ok := cat.Mockup(*product); ok {
		label, description = m.Name, m.Prompt
	}

	sc, _, err := loadScene(*scene)
	if err != nil {
		return err
	}
	want := []string{"synth"}
	if *save {
		want = append(want, "library")
	}
	s, err := a.session(sc, want...)
	if err != nil {
		return err
	}
	defer s.Close()

	img, err := s.Mockup(ctx, description)
	if err != nil {
		return err
	}
	format, err := export.FormatFor(strings.ToLower(filepath.Ext(*out)))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, img, format, "Mockup "+label); err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if *save {
		if err := s.SaveMockup(ctx, img, label); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func runSave(ctx context.Context, a *app, args []string) error {
	fs := newFlags("save")
	scene := fs.String("scene", "", "scene document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "scene"); err != nil {
		return err
	}

	sc, _, err := loadScene(*scene)
	if err != nil {
		return err
	}
	s, err := a.session(sc, "library")
	if err != nil {
		return err
	}
	if err := s.Save(ctx); err != nil {
		s.Close()
		return err
	}
	// Close waits for the background save.
	if err := s.Close(); err != nil {
		return err
	}
	lib, _ := a.library()
	recs, err := lib.List(ctx, library.Query{Limit: 1})
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return errors.New("save failed; see log")
	}
	fmt.Printf("saved %s %q\n", recs[0].ID, recs[0].Label)
	return nil
}

func runLibrary(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("library: want ls, get, rm or fav")
	}
	lib, err := a.library()
	if err != nil {
		return err
	}

	sub, args := args[0], args[1:]
	switch sub {
	case "ls":
		fs := newFlags("library ls")
		var (
			tag    = fs.String("tag", "", "only records with this tag")
			fav    = fs.Bool("fav", false, "favorites only")
			search = fs.String("q", "", "search label and prompt")
			limit  = fs.Int("n", 0, "maximum records")
		)
		if err := fs.Parse(args); err != nil {
			return err
		}
		recs, err := lib.List(ctx, library.Query{Tag: *tag, Favorites: *fav, Search: *search, Limit: *limit})
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tFAV\tTAGS\tLABEL")
		for _, r := range recs {
			star := ""
			if r.Favorite {
				star = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.CreatedAt.Format(time.DateTime), star, strings.Join(r.Tags, ","), r.Label)
		}
		return tw.Flush()

	case "get":
		fs := newFlags("library get")
		out := fs.String("out", "", "output file (default <id>.png)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("library get: want one id")
		}
		rec, err := lib.Get(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		path := *out
		if path == "" {
			path = rec.ID + ".png"
		}
		return os.WriteFile(path, rec.Image, 0o644)

	case "rm":
		if len(args) != 1 {
			return errors.New("library rm: want one id")
		}
		return lib.Remove(ctx, args[0])

	case "fav":
		if len(args) != 1 {
			return errors.New("library fav: want one id")
		}
		on, err := lib.ToggleFavorite(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s favorite=%v\n", args[0], on)
		return nil

	default:
		return fmt.Errorf("library: unknown subcommand %q", sub)
	}
}
