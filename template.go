package artboard

import "github.com/google/uuid"

// Template is a prepared layout: an element list and optionally a
// background. Template element ids are placeholders; they are replaced
// when the template is applied.
type Template struct {
	ID         string
	Name       string
	Background *Asset
	Elements   []Element
}

// ApplyTemplate replaces the element list of s with a fresh copy of the
// template's elements, each given a new id, and replaces the background
// with the template's, clearing it when the template has none. The filter
// is kept.
func (s Scene) ApplyTemplate(t Template) Scene {
	out := make([]Element, len(t.Elements))
	for i, e := range t.Elements {
		e.ID = uuid.NewString()
		if e.Scale <= 0 {
			e.Scale = DefaultScale
		}
		e.Rotation = NormalizeRotation(e.Rotation)
		out[i] = e
	}
	s.elements = out
	s.background = t.Background
	return s
}
