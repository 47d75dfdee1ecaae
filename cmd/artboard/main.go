// Command artboard renders scene documents, browses the built-in catalog,
// manages the artwork library and requests AI edits and product mockups.
//
// Usage:
//
//	artboard render   -scene card.yaml -out card.png
//	artboard template -id temp1 -background photo.jpg -out card.pdf
//	artboard catalog
//	artboard magic    -scene card.yaml -prompt "add a golden border" -out edited.yaml
//	artboard mockup   -scene card.yaml -product mug -out mug.png [-save]
//	artboard save     -scene card.yaml
//	artboard library  ls [-tag mockup] [-fav] [-q cat] | rm ID | fav ID | get ID -out file.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, app *app, args []string) error
}

var commands = []command{
	{"render", "flatten a scene document to PNG, JPEG or PDF", runRender},
	{"template", "render a built-in template", runTemplate},
	{"catalog", "list sticker categories, templates and mockup products", runCatalog},
	{"magic", "edit a scene's background with an instruction", runMagic},
	{"mockup", "place a flattened scene on a product", runMockup},
	{"save", "flatten a scene into the library", runSave},
	{"library", "list, fetch, remove or favorite saved artwork", runLibrary},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: artboard [-config file] [-v] <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.usage)
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "config file (default artboard.yaml)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configPath, *verbose, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "artboard: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, verbose bool, name string, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logs, err := setupLogging(cfg, verbose)
	if err != nil {
		return err
	}
	defer logs.Close()

	for _, c := range commands {
		if c.name == name {
			a := &app{cfg: cfg}
			defer a.close()
			return c.run(ctx, a, args)
		}
	}
	usage()
	return fmt.Errorf("unknown command %q", name)
}
