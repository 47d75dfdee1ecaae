package artboard

import (
	"slices"
	"testing"
)

func TestReorder(t *testing.T) {
	s := NewScene(nil)
	for _, c := range []string{"A", "B", "C", "D"} {
		s = s.Append(Element{ID: c, Kind: KindText, Content: c, Scale: 1})
	}

	tests := []struct {
		id   string
		cmd  LayerCommand
		want []string
	}{
		{"A", LayerFront, []string{"B", "C", "D", "A"}},
		{"D", LayerFront, []string{"A", "B", "C", "D"}},
		{"C", LayerBack, []string{"C", "A", "B", "D"}},
		{"A", LayerBack, []string{"A", "B", "C", "D"}},
		{"B", LayerStepUp, []string{"A", "C", "B", "D"}},
		{"D", LayerStepUp, []string{"A", "B", "C", "D"}},
		{"C", LayerStepDown, []string{"A", "C", "B", "D"}},
		{"A", LayerStepDown, []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.cmd.String(), func(t *testing.T) {
			got := s.Reorder(tt.id, tt.cmd)
			if !slices.Equal(got.IDs(), tt.want) {
				t.Errorf("IDs() = %v, want %v", got.IDs(), tt.want)
			}
			if !slices.Equal(s.IDs(), []string{"A", "B", "C", "D"}) {
				t.Error("Reorder mutated the receiver")
			}
		})
	}
}

func TestReorderFrontIdempotent(t *testing.T) {
	s := threeElements(t)
	id := s.At(0).ID
	once := s.Reorder(id, LayerFront)
	twice := once.Reorder(id, LayerFront)
	if once.At(once.Len()-1).ID != id {
		t.Error("Front did not move the element to the top")
	}
	if !twice.Equal(once) {
		t.Error("second Front changed the scene")
	}
}

func TestReorderLockedElement(t *testing.T) {
	s := threeElements(t)
	id := s.At(0).ID
	s = s.UpdateElement(id, SetLocked(true))
	if got := s.Reorder(id, LayerFront); got.At(2).ID != id {
		t.Error("locked element did not respond to an explicit layer command")
	}
}

func TestParseLayerCommand(t *testing.T) {
	for in, want := range map[string]LayerCommand{
		"front": LayerFront, "BACK": LayerBack, "up": LayerStepUp, "down": LayerStepDown,
	} {
		got, err := ParseLayerCommand(in)
		if err != nil || got != want {
			t.Errorf("ParseLayerCommand(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLayerCommand("sideways"); err == nil {
		t.Error("ParseLayerCommand(sideways) succeeded")
	}
}
