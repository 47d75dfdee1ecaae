package artboard

import (
	"slices"

	"github.com/google/uuid"
)

// Scene is the layered artwork: an optional background, an ordered element
// list and a whole-canvas filter.
//
// Scene is a value type. Every mutator returns a new Scene and leaves the
// receiver untouched; the element slice of a built Scene is never written
// again, so copies share it safely. The zero value is an empty scene with
// a white background.
//
// List order is stacking order: index 0 is painted first (bottom).
type Scene struct {
	background *Asset
	elements   []Element
	filter     Filter
}

// NewScene returns an empty scene with the given background, which may be nil.
func NewScene(background *Asset) Scene {
	return Scene{background: background}
}

// Background returns the background asset, or nil.
func (s Scene) Background() *Asset { return s.background }

// Filter returns the whole-canvas filter.
func (s Scene) Filter() Filter { return s.filter }

// Len returns the number of elements.
func (s Scene) Len() int { return len(s.elements) }

// Elements returns a copy of the element list, bottom to top.
func (s Scene) Elements() []Element { return slices.Clone(s.elements) }

// At returns the element at stacking index i.
func (s Scene) At(i int) Element { return s.elements[i] }

// Index returns the stacking index of id, or -1.
func (s Scene) Index(id string) int {
	return slices.IndexFunc(s.elements, func(e Element) bool { return e.ID == id })
}

// Element returns the element with the given id.
func (s Scene) Element(id string) (Element, bool) {
	if i := s.Index(id); i >= 0 {
		return s.elements[i], true
	}
	return Element{}, false
}

// IDs returns the element ids in stacking order.
func (s Scene) IDs() []string {
	ids := make([]string, len(s.elements))
	for i, e := range s.elements {
		ids[i] = e.ID
	}
	return ids
}

// AddElement creates a default element and places it on top.
func (s Scene) AddElement(kind Kind, content string) (Scene, Element) {
	e := NewElement(kind, content)
	return s.Append(e), e
}

// Append places e on top. An element without an id gets a fresh one; an
// element whose id already exists in the scene is re-keyed so ids stay
// unique.
func (s Scene) Append(e Element) Scene {
	if e.ID == "" || s.Index(e.ID) >= 0 {
		e.ID = uuid.NewString()
	}
	out := make([]Element, len(s.elements), len(s.elements)+1)
	copy(out, s.elements)
	s.elements = append(out, e)
	return s
}

// UpdateElement merges p into the element with the given id. Unknown ids
// return the scene unchanged.
func (s Scene) UpdateElement(id string, p ElementPatch) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	out := slices.Clone(s.elements)
	out[i] = out[i].Apply(p)
	s.elements = out
	return s
}

// RemoveElement drops the element with the given id. Unknown ids return the
// scene unchanged.
func (s Scene) RemoveElement(id string) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	out := make([]Element, 0, len(s.elements)-1)
	out = append(out, s.elements[:i]...)
	s.elements = append(out, s.elements[i+1:]...)
	return s
}

// WithBackground returns s with the background replaced. Nil clears it.
func (s Scene) WithBackground(a *Asset) Scene {
	s.background = a
	return s
}

// WithFilter returns s with the filter replaced.
func (s Scene) WithFilter(f Filter) Scene {
	s.filter = f
	return s
}

// WithElements returns s holding a copy of elems. Ids are not checked;
// use ApplyTemplate to insert elements from outside the scene.
func (s Scene) WithElements(elems []Element) Scene {
	s.elements = slices.Clone(elems)
	return s
}

// Equal reports whether two scenes have the same background content, the
// same filter and identical element lists.
func (s Scene) Equal(o Scene) bool {
	return s.background.Same(o.background) &&
		s.filter == o.filter &&
		slices.Equal(s.elements, o.elements)
}
