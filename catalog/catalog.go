// Package catalog holds the built-in sticker palettes, starter templates and
// mockup products, embedded from catalog.yaml.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/artboard"
)

//go:embed catalog.yaml
var builtin []byte

// Category is a named sticker palette.
type Category struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// Mockup is a product a flattened artwork can be placed on.
type Mockup struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

type templateEntry struct {
	ID                string `yaml:"id"`
	artboard.Document `yaml:",inline"`
}

// Catalog is a parsed catalog document.
type Catalog struct {
	Stickers  []Category      `yaml:"stickers"`
	Templates []templateEntry `yaml:"templates"`
	Mockups   []Mockup        `yaml:"mockups"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	seen := make(map[string]bool, len(c.Templates))
	for _, t := range c.Templates {
		if t.ID == "" || seen[t.ID] {
			return nil, fmt.Errorf("catalog: template id %q missing or duplicated", t.ID)
		}
		seen[t.ID] = true
	}
	return &c, nil
}

var loadBuiltin = sync.OnceValues(func() (*Catalog, error) { return Parse(builtin) })

// Load returns the embedded catalog. The result is shared; do not modify it.
func Load() (*Catalog, error) { return loadBuiltin() }

// Categories returns the sticker palettes in declared order.
func (c *Catalog) Categories() []Category { return c.Stickers }

// TemplateIDs returns the template ids in declared order.
func (c *Catalog) TemplateIDs() []string {
	ids := make([]string, len(c.Templates))
	for i, t := range c.Templates {
		ids[i] = t.ID
	}
	return ids
}

// Template returns the template with the given id. Backgrounds given as
// paths are read with load; built-in templates have none.
func (c *Catalog) Template(id string, load artboard.LoadFunc) (artboard.Template, bool, error) {
	for _, t := range c.Templates {
		if t.ID != id {
			continue
		}
		tpl, err := t.Document.Template(t.ID, load)
		if err != nil {
			return artboard.Template{}, true, fmt.Errorf("catalog: template %s: %w", id, err)
		}
		return tpl, true, nil
	}
	return artboard.Template{}, false, nil
}

// Mockup returns the product with the given id.
func (c *Catalog) Mockup(id string) (Mockup, bool) {
	for _, m := range c.Mockups {
		if m.ID == id {
			return m, true
		}
	}
	return Mockup{}, false
}
