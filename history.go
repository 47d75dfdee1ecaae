package artboard

import "log/slog"

// DefaultHistoryCapacity is the number of snapshots kept before the oldest
// is evicted.
const DefaultHistoryCapacity = 20

// History is a bounded linear undo log of Scene snapshots.
//
// Snapshots are Scene values. Scenes never mutate their element slices in
// place, so a stored snapshot cannot be changed by later edits and commit
// cost does not grow with the size of earlier snapshots.
//
// History is not safe for concurrent use.
type History struct {
	entries  []Scene
	cursor   int
	capacity int
}

// NewHistory returns a history holding initial as its only entry.
// A capacity below 1 selects DefaultHistoryCapacity.
func NewHistory(initial Scene, capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	h := &History{capacity: capacity}
	h.entries = make([]Scene, 1, capacity)
	h.entries[0] = initial
	return h
}

// Commit appends s after the cursor, discarding any redo branch. When the
// log is full the oldest entry is evicted; the cursor keeps pointing at s.
func (h *History) Commit(s Scene) {
	h.entries = append(h.entries[:h.cursor+1], s)
	evicted := 0
	if over := len(h.entries) - h.capacity; over > 0 {
		n := copy(h.entries, h.entries[over:])
		clear(h.entries[n:])
		h.entries = h.entries[:n]
		evicted = over
	}
	h.cursor = len(h.entries) - 1
	Logger().Debug("history commit",
		slog.Int("cursor", h.cursor),
		slog.Int("entries", len(h.entries)),
		slog.Int("evicted", evicted),
		slog.Int("elements", s.Len()))
}

// Undo moves the cursor back one entry and returns it. At the oldest entry
// it returns the current entry and false.
func (h *History) Undo() (Scene, bool) {
	if h.cursor == 0 {
		return h.entries[h.cursor], false
	}
	h.cursor--
	Logger().Debug("history undo", slog.Int("cursor", h.cursor))
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward one entry and returns it. At the newest
// entry it returns the current entry and false.
func (h *History) Redo() (Scene, bool) {
	if h.cursor >= len(h.entries)-1 {
		return h.entries[h.cursor], false
	}
	h.cursor++
	Logger().Debug("history redo", slog.Int("cursor", h.cursor))
	return h.entries[h.cursor], true
}

// Current returns the entry under the cursor.
func (h *History) Current() Scene { return h.entries[h.cursor] }

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the active entry.
func (h *History) Cursor() int { return h.cursor }

// Capacity returns the maximum number of entries.
func (h *History) Capacity() int { return h.capacity }
