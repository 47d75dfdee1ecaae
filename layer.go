package artboard

import (
	"fmt"
	"strings"
)

// LayerCommand moves one element within the stacking order.
type LayerCommand uint8

const (
	// LayerFront moves the element to the top.
	LayerFront LayerCommand = iota
	// LayerBack moves the element to the bottom.
	LayerBack
	// LayerStepUp swaps the element with the one above it.
	LayerStepUp
	// LayerStepDown swaps the element with the one below it.
	LayerStepDown
)

// String returns the command name.
func (c LayerCommand) String() string {
	switch c {
	case LayerFront:
		return "front"
	case LayerBack:
		return "back"
	case LayerStepUp:
		return "up"
	case LayerStepDown:
		return "down"
	default:
		return fmt.Sprintf("LayerCommand(%d)", c)
	}
}

// ParseLayerCommand accepts "front", "back", "up" and "down".
func ParseLayerCommand(s string) (LayerCommand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "top":
		return LayerFront, nil
	case "back", "bottom":
		return LayerBack, nil
	case "up", "forward":
		return LayerStepUp, nil
	case "down", "backward":
		return LayerStepDown, nil
	}
	return 0, fmt.Errorf("artboard: unknown layer command %q", s)
}

// Reorder applies cmd to the element with the given id. The element is
// removed from its index and reinserted; at the ends of the list the step
// commands leave the order unchanged. Unknown ids return s unchanged.
func (s Scene) Reorder(id string, cmd LayerCommand) Scene {
	from := s.Index(id)
	if from < 0 {
		return s
	}
	last := len(s.elements) - 1
	to := from
	switch cmd {
	case LayerFront:
		to = last
	case LayerBack:
		to = 0
	case LayerStepUp:
		to = min(from+1, last)
	case LayerStepDown:
		to = max(from-1, 0)
	}
	if to == from {
		return s
	}

	out := make([]Element, 0, len(s.elements))
	moved := s.elements[from]
	for i, e := range s.elements {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, e)
	}
	if len(out) == to {
		out = append(out, moved)
	}
	s.elements = out
	return s
}
