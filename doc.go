// Package artboard provides the element, history and compositing model of a
// layered artwork editor.
//
// # Overview
//
// An artwork is a [Scene]: an optional background image, an ordered list of
// decorative elements (stickers and text) and a global post-processing
// [Filter]. Scenes are values. Every mutator returns a new Scene and leaves
// its input untouched, so a [History] can keep snapshots without copying.
//
// # Quick Start
//
//	import "github.com/gogpu/artboard"
//
//	s := artboard.NewScene(nil)
//	h := artboard.NewHistory(s, artboard.DefaultHistoryCapacity)
//
//	s, star := s.AddElement(artboard.KindSticker, "⭐")
//	h.Commit(s)
//
//	s = s.Reorder(star.ID, artboard.LayerBack)
//	h.Commit(s)
//
//	s, _ = h.Undo() // star is back on top
//
// Rasterising a Scene lives in the compose sub-package; the editor
// sub-package wires scene, history, pointer gestures and the external image
// services into one editing session.
//
// # Coordinate System
//
// Element positions are percentages of the square canvas:
//   - Origin (0,0) at top-left, (100,100) at bottom-right
//   - X increases right, Y increases down
//   - Rotation in degrees, clockwise, wrapped into [0, 360)
//
// # Stacking
//
// The order of [Scene.Elements] is the paint order, back to front. There is
// no separate z-index field.
package artboard

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
