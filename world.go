package tilebatch

import "slices"

// World is the frame context shared by every batch: a world offset that is
// staged at any time and published once per frame by BeginFrame. Batches
// read only the published value, so every sprite updated during a frame sees
// the same offset regardless of when the scroll position changed.
type World struct {
	staged    Vec2
	published Vec2
	frame     uint64
	watchers  []*SpriteBatch
}

// NewWorld returns a world at offset (0, 0), frame 0.
func NewWorld() *World {
	return &World{}
}

// SetOffset stages a new world offset. It takes effect at the next
// BeginFrame.
func (w *World) SetOffset(x, y float64) {
	w.staged = Vec2{x, y}
}

// StagedOffset returns the offset that the next BeginFrame will publish.
func (w *World) StagedOffset() Vec2 { return w.staged }

// Offset returns the offset published for the current frame.
func (w *World) Offset() Vec2 { return w.published }

// Frame returns the number of BeginFrame calls so far.
func (w *World) Frame() uint64 { return w.frame }

// BeginFrame publishes the staged offset and advances the frame counter.
// When the offset changed, batches created with RefreshOnOffset re-emit all
// of their sprites. It reports whether the offset changed.
func (w *World) BeginFrame() bool {
	w.frame++
	if w.staged == w.published {
		return false
	}
	w.published = w.staged
	for _, b := range w.watchers {
		b.RefreshAll()
	}
	return true
}

func (w *World) watch(b *SpriteBatch) {
	w.watchers = append(w.watchers, b)
}

func (w *World) unwatch(b *SpriteBatch) {
	w.watchers = slices.DeleteFunc(w.watchers, func(x *SpriteBatch) bool { return x == b })
}
