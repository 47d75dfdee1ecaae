package artboard

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a Scene.
//
//	name: birthday
//	background: photos/cake.jpg    # path or data URL
//	filter: sepia(60%)
//	elements:
//	  - kind: text
//	    content: PARABÉNS!
//	    x: 50
//	    y: 15
//	    color: "#FFD700"
//	  - content: "🎂"
//	    scale: 2.5
//
// Omitted element fields take the NewElement defaults. Colors must be
// quoted since YAML treats " #" as a comment.
type Document struct {
	Name       string    `yaml:"name,omitempty"`
	Background string    `yaml:"background,omitempty"`
	Filter     Filter    `yaml:"filter,omitempty"`
	Elements   []Element `yaml:"elements"`
}

// UnmarshalYAML decodes an element over the NewElement defaults.
func (e *Element) UnmarshalYAML(node *yaml.Node) error {
	type plain Element
	p := plain{
		Position: Point{X: DefaultX, Y: DefaultY},
		Scale:    DefaultScale,
	}
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Scale <= 0 {
		p.Scale = DefaultScale
	}
	p.Rotation = NormalizeRotation(p.Rotation)
	*e = Element(p)
	return nil
}

// DecodeDocument reads a YAML scene document.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("artboard: decode document: %w", err)
	}
	return &doc, nil
}

// EncodeDocument writes doc as YAML.
func EncodeDocument(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("artboard: encode document: %w", err)
	}
	return enc.Close()
}

// LoadFunc reads a background referenced by path.
type LoadFunc func(path string) ([]byte, error)

// Scene builds a Scene from the document. A background that is a data URL
// is decoded inline; any other value is read with load. Elements without
// an id, or with a duplicate id, are given fresh ids.
func (d *Document) Scene(load LoadFunc) (Scene, error) {
	var bg *Asset
	switch {
	case d.Background == "":
	case strings.HasPrefix(d.Background, "data:"):
		a, err := ParseDataURL(d.Background)
		if err != nil {
			return Scene{}, err
		}
		bg = a
	default:
		if load == nil {
			return Scene{}, fmt.Errorf("artboard: background %q: no loader", d.Background)
		}
		data, err := load(d.Background)
		if err != nil {
			return Scene{}, fmt.Errorf("artboard: background %q: %w", d.Background, err)
		}
		a, err := NewAsset(data)
		if err != nil {
			return Scene{}, fmt.Errorf("artboard: background %q: %w", d.Background, err)
		}
		bg = a
	}

	s := NewScene(bg).WithFilter(d.Filter)
	for _, e := range d.Elements {
		e.Content = normalizeContent(e.Content)
		s = s.Append(e)
	}
	return s, nil
}

// Template returns the document as a template. The background, if any,
// must be inline or readable by load.
func (d *Document) Template(id string, load LoadFunc) (Template, error) {
	s, err := d.Scene(load)
	if err != nil {
		return Template{}, err
	}
	return Template{ID: id, Name: d.Name, Background: s.Background(), Elements: s.Elements()}, nil
}

// NewDocument returns the document form of s. The background is embedded
// as a data URL.
func NewDocument(name string, s Scene) *Document {
	doc := &Document{
		Name:     name,
		Filter:   s.Filter(),
		Elements: s.Elements(),
	}
	if bg := s.Background(); bg != nil {
		doc.Background = bg.DataURL()
	}
	return doc
}
