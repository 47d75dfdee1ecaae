// Package editor is the interactive session around a Scene: the live scene,
// its undo history, the current selection and the drag gesture, plus the
// actions that call out to the compositor, the synthesizer and the library.
//
// Every committed action records exactly one history entry. Continuous
// input (drag moves) updates the live scene only; the commit happens when
// the gesture ends. While MagicEdit or Mockup is waiting on the
// synthesizer the session is busy and refuses every other edit.
//
//	s, err := editor.New(nil, editor.WithLibrary(lib))
//	star, _ := s.AddSticker("⭐")
//	s.PointerDown(star.ID, artboard.Point{X: 10, Y: 10}, artboard.Rect{W: 500, H: 500})
//	s.PointerMove(artboard.Point{X: 260, Y: 10})
//	s.PointerUp()
//	s.Undo()
package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/artboard"
	"github.com/gogpu/artboard/compose"
	"github.com/gogpu/artboard/export"
	"github.com/gogpu/artboard/library"
	"github.com/gogpu/artboard/synth"
)

var (
	// ErrBusy is returned for edits attempted while an AI-assisted action
	// is running.
	ErrBusy = errors.New("editor: busy")

	// ErrNoBackground is returned by MagicEdit on a scene without a
	// background image.
	ErrNoBackground = errors.New("editor: scene has no background")

	// ErrNoSynthesizer is returned when an AI-assisted action is used on
	// a session built without a synthesizer.
	ErrNoSynthesizer = errors.New("editor: no synthesizer configured")

	// ErrEmptyInstruction is returned for a blank edit instruction or
	// product description.
	ErrEmptyInstruction = errors.New("editor: empty instruction")
)

// Library stores finished artwork. *library.Store implements it.
type Library interface {
	Save(ctx context.Context, rec library.Record) (library.Record, error)
}

// Library tags and labels.
const (
	TagCreative = "creative"
	TagMockup   = "mockup"
)

type options struct {
	compositor *compose.Compositor
	synth      synth.Synthesizer
	lib        Library
	now        func() time.Time
	capacity   int
	scene      *artboard.Scene
}

// Option configures a Session.
type Option func(*options)

// WithCompositor sets the compositor used by Flatten and the actions that
// flatten. The session does not close it.
func WithCompositor(c *compose.Compositor) Option {
	return func(o *options) { o.compositor = c }
}

// WithSynthesizer enables MagicEdit and Mockup.
func WithSynthesizer(s synth.Synthesizer) Option {
	return func(o *options) { o.synth = s }
}

// WithLibrary enables Save and SaveMockup.
func WithLibrary(l Library) Option {
	return func(o *options) { o.lib = l }
}

// WithClock replaces time.Now for library labels and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithScene starts the session on an existing scene instead of a bare
// seed background.
func WithScene(sc artboard.Scene) Option {
	return func(o *options) { o.scene = &sc }
}

// WithHistoryCapacity overrides the default undo depth.
func WithHistoryCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// Session is one editing session. Methods are safe for concurrent use;
// AI-assisted actions release the lock while the synthesizer runs.
type Session struct {
	mu       sync.Mutex
	live     artboard.Scene
	history  *artboard.History
	selected string
	drag     artboard.DragController
	busy     bool

	compositor *compose.Compositor
	ownsComp   bool
	synth      synth.Synthesizer
	lib        Library
	now        func() time.Time

	saves sync.WaitGroup
}

// New starts a session on seed, which may be nil for a blank white
// canvas. The initial scene is the first history entry. WithScene takes
// precedence over seed.
func New(seed *artboard.Asset, opts ...Option) (*Session, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		compositor: o.compositor,
		synth:      o.synth,
		lib:        o.lib,
		now:        o.now,
	}
	if s.compositor == nil {
		c, err := compose.New()
		if err != nil {
			return nil, err
		}
		s.compositor = c
		s.ownsComp = true
	}

	s.live = artboard.NewScene(seed)
	if o.scene != nil {
		s.live = *o.scene
	}
	s.history = artboard.NewHistory(s.live, o.capacity)
	return s, nil
}

// Close waits for pending library saves and releases a compositor the
// session created itself.
func (s *Session) Close() error {
	s.saves.Wait()
	if s.ownsComp {
		return s.compositor.Close()
	}
	return nil
}

// Wait blocks until every library save started so far has finished.
func (s *Session) Wait() { s.saves.Wait() }

// Scene returns the live scene.
func (s *Session) Scene() artboard.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// HistoryLen returns the number of history entries.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// CanUndo reports whether Undo would change the scene.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the scene.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Busy reports whether an AI-assisted action is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// commit records the live scene. Callers hold s.mu.
func (s *Session) commit() {
	s.history.Commit(s.live)
}

// Undo restores the previous history entry and clears the selection.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	prev, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(prev)
	return true
}

// Redo restores the next history entry and clears the selection.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	next, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(next)
	return true
}

func (s *Session) restore(sc artboard.Scene) {
	s.live = sc
	s.selected = ""
	s.drag = artboard.DragController{}
}

// Select makes id the selected element. Unknown ids are ignored.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live.Index(id) < 0 {
		return false
	}
	s.selected = id
	return true
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

// Selected returns the selected element.
func (s *Session) Selected() (artboard.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live.Element(s.selected)
}

// AddSticker places a sticker at the centre, selects it and commits. It
// reports false while an AI-assisted action is running.
func (s *Session) AddSticker(content string) (artboard.Element, bool) {
	return s.add(artboard.KindSticker, content)
}

// AddText places a text element at the centre, selects it and commits.
// Blank text is ignored.
func (s *Session) AddText(content string) (artboard.Element, bool) {
	if strings.TrimSpace(content) == "" {
		return artboard.Element{}, false
	}
	return s.add(artboard.KindText, content)
}

func (s *Session) add(kind artboard.Kind, content string) (artboard.Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return artboard.Element{}, false
	}
	var e artboard.Element
	s.live, e = s.live.AddElement(kind, content)
	s.selected = e.ID
	s.commit()
	return e, true
}

// updateSelected applies p to the selected element and commits.
func (s *Session) updateSelected(p artboard.ElementPatch, textOnly bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live.Element(s.selected)
	if !ok || s.busy || (textOnly && e.Kind != artboard.KindText) {
		return false
	}
	s.live = s.live.UpdateElement(e.ID, p)
	s.commit()
	return true
}

// SetScale sets the selected element's scale, clamped to the control range.
func (s *Session) SetScale(v float64) bool {
	return s.updateSelected(artboard.SetScale(artboard.ClampScale(v)), false)
}

// SetRotation sets the selected element's rotation in degrees.
func (s *Session) SetRotation(deg float64) bool {
	return s.updateSelected(artboard.SetRotation(artboard.NormalizeRotation(deg)), false)
}

// SetColor sets the selected text element's fill colour.
func (s *Session) SetColor(c artboard.Color) bool {
	return s.updateSelected(artboard.SetColor(c), true)
}

// ToggleLock flips the selected element's lock and clears the selection.
// It does not commit; the change is recorded by the next commit.
func (s *Session) ToggleLock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live.Element(s.selected)
	if !ok || s.busy {
		return false
	}
	s.live = s.live.UpdateElement(e.ID, artboard.SetLocked(!e.Locked))
	s.selected = ""
	return true
}

// Delete removes the selected element and commits.
func (s *Session) Delete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || s.live.Index(s.selected) < 0 {
		return false
	}
	s.live = s.live.RemoveElement(s.selected)
	s.selected = ""
	s.commit()
	return true
}

// Layer reorders the selected element and commits, even when the element
// is already at the boundary.
func (s *Session) Layer(cmd artboard.LayerCommand) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || s.live.Index(s.selected) < 0 {
		return false
	}
	s.live = s.live.Reorder(s.selected, cmd)
	s.commit()
	return true
}

// ApplyTemplate replaces the elements and background with the template's
// and commits once. Asking the user first is the caller's job.
func (s *Session) ApplyTemplate(t artboard.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.live = s.live.ApplyTemplate(t)
	s.selected = ""
	s.drag = artboard.DragController{}
	s.commit()
	return nil
}

// SetFilter sets the canvas filter and commits.
func (s *Session) SetFilter(f artboard.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.live = s.live.WithFilter(f)
	s.commit()
	return nil
}

// SetBackground replaces the background and commits. A nil asset clears it.
func (s *Session) SetBackground(a *artboard.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.live = s.live.WithBackground(a)
	s.commit()
	return nil
}

// PointerDown starts dragging the element with the given id. pointer is in
// screen pixels and rect is the canvas as rendered on screen. Locked and
// unknown elements are not selected or captured, and neither is anything
// while another gesture or an AI-assisted action is in progress.
func (s *Session) PointerDown(id string, pointer artboard.Point, rect artboard.Rect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || s.drag.Active() {
		return false
	}
	e, ok := s.live.Element(id)
	if !ok || e.Locked {
		return false
	}
	s.selected = id
	return s.drag.Begin(s.live, id, pointer, rect)
}

// PointerMove moves the captured element. It does nothing when idle.
func (s *Session) PointerMove(pointer artboard.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = s.drag.Move(s.live, pointer)
}

// PointerUp ends the gesture and commits the final position. Every
// completed gesture commits, including one that did not move.
func (s *Session) PointerUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drag.End(); !ok {
		return false
	}
	s.commit()
	return true
}

// PointerCancel aborts the gesture and restores the start position without
// committing.
func (s *Session) PointerCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = s.drag.Cancel(s.live)
}

// Flatten composes the live scene.
func (s *Session) Flatten(ctx context.Context) (*image.RGBA, error) {
	return s.compositor.Compose(ctx, s.Scene())
}

// Save flattens the live scene and hands it to the library in the
// background. Only the flatten can fail; library errors are logged.
func (s *Session) Save(ctx context.Context) error {
	if s.lib == nil {
		return errors.New("editor: no library configured")
	}
	img, err := s.Flatten(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	s.persist(ctx, img, library.Record{
		Label:     "Creative - " + now.Format(time.DateOnly),
		Prompt:    "Creative artwork",
		Tags:      []string{TagCreative},
		CreatedAt: now,
	})
	return nil
}

// SaveMockup hands a mockup image to the library in the background.
func (s *Session) SaveMockup(ctx context.Context, img image.Image, product string) error {
	if s.lib == nil {
		return errors.New("editor: no library configured")
	}
	s.persist(ctx, img, library.Record{
		Label:     "Mockup",
		Prompt:    "Mockup " + product,
		Tags:      []string{TagMockup},
		CreatedAt: s.now(),
	})
	return nil
}

func (s *Session) persist(ctx context.Context, img image.Image, rec library.Record) {
	ctx = context.WithoutCancel(ctx)
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		data, err := encodePNG(img)
		if err != nil {
			artboard.Logger().Warn("editor: library save failed", slog.String("err", err.Error()))
			return
		}
		rec.Image = data
		if _, err := s.lib.Save(ctx, rec); err != nil {
			artboard.Logger().Warn("editor: library save failed",
				slog.String("label", rec.Label),
				slog.String("err", err.Error()))
		}
	}()
}

// begin marks the session busy and aborts any gesture in progress. While
// busy every commit-producing method is refused. Callers must call end.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.synth == nil {
		return ErrNoSynthesizer
	}
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.live = s.drag.Cancel(s.live)
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// MagicEdit asks the synthesizer to modify the background according to
// instruction. On success the background is replaced and one entry is
// committed. On failure the scene is left exactly as it was.
func (s *Session) MagicEdit(ctx context.Context, instruction string) error {
	if strings.TrimSpace(instruction) == "" {
		return ErrEmptyInstruction
	}
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	bg := s.Scene().Background()
	if bg == nil {
		return ErrNoBackground
	}
	base, err := compose.Decode(bg)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := s.synth.Transform(ctx, instruction, base)
	if err != nil {
		return synthesisError(synth.OpTransform, err)
	}
	data, err := encodePNG(out)
	if err != nil {
		return synthesisError(synth.OpTransform, err)
	}
	asset, err := artboard.NewAsset(data)
	if err != nil {
		return synthesisError(synth.OpTransform, err)
	}

	s.mu.Lock()
	s.live = s.live.WithBackground(asset)
	s.commit()
	s.mu.Unlock()

	artboard.Logger().Info("editor: magic edit applied",
		slog.String("background", asset.String()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Mockup flattens the live scene and asks the synthesizer to place it on
// the described product. The scene is not modified.
func (s *Session) Mockup(ctx context.Context, product string) (image.Image, error) {
	if strings.TrimSpace(product) == "" {
		return nil, ErrEmptyInstruction
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	art, err := s.Flatten(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.synth.Mockup(ctx, product, art)
	if err != nil {
		return nil, synthesisError(synth.OpMockup, err)
	}
	return out, nil
}

func synthesisError(op string, err error) error {
	if errors.Is(err, artboard.ErrSynthesis) {
		return err
	}
	return &artboard.SynthesisError{Op: op, Err: err}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.PNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
