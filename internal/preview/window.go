// internal/preview/window.go
package preview

import (
	"errors"
	"math"
	"sync"
)

var ErrWindowClosed = errors.New("preview window is closed")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PointerEventType string

const (
	PointerMove PointerEventType = "move"
	PointerUp   PointerEventType = "up"
)

type PointerEvent struct {
	Type  PointerEventType `json:"type"`
	Point Point            `json:"point"`
}

// PointerHub fans pointer events out to the listeners of active gestures.
type PointerHub struct {
	mu        sync.Mutex
	listeners map[uint64]func(PointerEvent)
	next      uint64
}

func NewPointerHub() *PointerHub {
	return &PointerHub{listeners: make(map[uint64]func(PointerEvent))}
}

// Subscribe registers fn and returns the matching unsubscribe. Calling the
// returned func more than once is harmless.
func (h *PointerHub) Subscribe(fn func(PointerEvent)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Dispatch delivers ev to a snapshot of the listeners, so a listener may
// unsubscribe itself while handling it.
func (h *PointerHub) Dispatch(ev PointerEvent) {
	h.mu.Lock()
	fns := make([]func(PointerEvent), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (h *PointerHub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

type GestureKind string

const (
	GestureDrag   GestureKind = "drag"
	GestureResize GestureKind = "resize"
)

const (
	MinWindowWidth  = 280
	MinWindowHeight = 200
)

// Window is the floating preview panel. At most one gesture is active.
type Window struct {
	mu       sync.Mutex
	hub      *PointerHub
	rect     Rect
	viewport Rect
	open     bool
	gesture  *Gesture
}

// NewWindow opens a window at rect. A zero viewport leaves positions unclamped.
func NewWindow(hub *PointerHub, rect, viewport Rect) *Window {
	w := &Window{hub: hub, viewport: viewport, open: true}
	w.rect = w.clamp(rect)
	return w
}

func (w *Window) Rect() Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rect
}

func (w *Window) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *Window) Active() (GestureKind, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gesture == nil {
		return "", false
	}
	return w.gesture.kind, true
}

// Reopen shows a closed window again at its last position.
func (w *Window) Reopen() {
	w.mu.Lock()
	w.open = true
	w.mu.Unlock()
}

// Close hides the window and tears down any gesture in flight.
func (w *Window) Close() {
	w.mu.Lock()
	g := w.gesture
	w.gesture = nil
	w.open = false
	w.mu.Unlock()

	if g != nil {
		g.End()
	}
}

// Begin starts a gesture at the pointer position. A gesture already in
// flight is ended first.
func (w *Window) Begin(kind GestureKind, at Point) (*Gesture, error) {
	g := &Gesture{window: w, kind: kind, origin: at}
	// Events before the gesture is installed are ignored by apply.
	g.unsubscribe = w.hub.Subscribe(g.handle)

	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		g.unsubscribe()
		return nil, ErrWindowClosed
	}
	g.start = w.rect
	previous := w.gesture
	w.gesture = g
	w.mu.Unlock()

	if previous != nil {
		previous.End()
	}
	return g, nil
}

// WithGesture runs fn inside a gesture and always ends it afterwards.
func (w *Window) WithGesture(kind GestureKind, at Point, fn func(*Gesture) error) error {
	g, err := w.Begin(kind, at)
	if err != nil {
		return err
	}
	defer g.End()
	return fn(g)
}

func (w *Window) apply(g *Gesture, p Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gesture != g {
		return
	}

	dx, dy := p.X-g.origin.X, p.Y-g.origin.Y
	next := g.start
	switch g.kind {
	case GestureDrag:
		next.X += dx
		next.Y += dy
	case GestureResize:
		next.Width += dx
		next.Height += dy
	}
	w.rect = w.clamp(next)
}

func (w *Window) clamp(r Rect) Rect {
	r.Width = math.Max(r.Width, MinWindowWidth)
	r.Height = math.Max(r.Height, MinWindowHeight)
	if w.viewport.Width <= 0 || w.viewport.Height <= 0 {
		return r
	}
	r.Width = math.Min(r.Width, w.viewport.Width)
	r.Height = math.Min(r.Height, w.viewport.Height)
	r.X = math.Min(math.Max(r.X, w.viewport.X), w.viewport.X+w.viewport.Width-r.Width)
	r.Y = math.Min(math.Max(r.Y, w.viewport.Y), w.viewport.Y+w.viewport.Height-r.Height)
	return r
}

// Gesture is one drag or resize interaction. Its pointer listener lives
// exactly as long as the gesture.
type Gesture struct {
	window      *Window
	kind        GestureKind
	origin      Point
	start       Rect
	unsubscribe func()
	once        sync.Once
}

func (g *Gesture) Kind() GestureKind {
	return g.kind
}

func (g *Gesture) handle(ev PointerEvent) {
	switch ev.Type {
	case PointerMove:
		g.window.apply(g, ev.Point)
	case PointerUp:
		g.window.apply(g, ev.Point)
		g.End()
	}
}

// End releases the pointer listener and detaches from the window. It is safe
// to call repeatedly.
func (g *Gesture) End() {
	g.once.Do(func() {
		if g.unsubscribe != nil {
			g.unsubscribe()
		}
		g.window.mu.Lock()
		if g.window.gesture == g {
			g.window.gesture = nil
		}
		g.window.mu.Unlock()
	})
}
