package tilebatch

import (
	"errors"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 fields of one batch sprite simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenSize,
// TweenTint, TweenTintWeight) and call Update(dt) each frame. The group
// writes the values into the sprite and calls UpdateSprite. If the sprite
// disappears (the batch was cleared), the group stops immediately.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(s *Sprite, v *[4]float32)
	vals   [4]float32
	batch  *SpriteBatch
	index  int
	Done   bool
}

func newTweenGroup(b *SpriteBatch, i int, from, to []float32, duration float32, fn ease.TweenFunc,
	apply func(s *Sprite, v *[4]float32)) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: len(from), apply: apply, batch: b, index: i}
	for k := range from {
		g.tweens[k] = gween.New(from[k], to[k], duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and pushes the values into the
// sprite. A sprite index that is no longer valid ends the group without
// error; a degenerate intermediate value (such as a zero size) is returned.
func (g *TweenGroup) Update(dt float32) error {
	if g.Done {
		return nil
	}
	s, err := g.batch.Sprite(g.index)
	if err != nil {
		g.Done = true
		return nil
	}

	allDone := true
	for k := 0; k < g.count; k++ {
		v, finished := g.tweens[k].Update(dt)
		g.vals[k] = v
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	prev := *s
	g.apply(s, &g.vals)
	if err := g.batch.UpdateSprite(g.index); err != nil {
		*s = prev
		if errors.Is(err, ErrIndexOutOfRange) {
			g.Done = true
			return nil
		}
		return err
	}
	return nil
}

// TweenPosition animates the destination position of sprite i.
func TweenPosition(b *SpriteBatch, i int, toX, toY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	s, err := b.Sprite(i)
	if err != nil {
		return nil, err
	}
	return newTweenGroup(b, i,
		[]float32{float32(s.Dst.X), float32(s.Dst.Y)},
		[]float32{float32(toX), float32(toY)},
		duration, fn,
		func(s *Sprite, v *[4]float32) { s.Dst.X, s.Dst.Y = float64(v[0]), float64(v[1]) }), nil
}

// TweenSize animates the destination size of sprite i.
func TweenSize(b *SpriteBatch, i int, toW, toH float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	s, err := b.Sprite(i)
	if err != nil {
		return nil, err
	}
	return newTweenGroup(b, i,
		[]float32{float32(s.Dst.Width), float32(s.Dst.Height)},
		[]float32{float32(toW), float32(toH)},
		duration, fn,
		func(s *Sprite, v *[4]float32) { s.Dst.Width, s.Dst.Height = float64(v[0]), float64(v[1]) }), nil
}

// TweenTint animates all four tint components of sprite i.
func TweenTint(b *SpriteBatch, i int, to Tint, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	s, err := b.Sprite(i)
	if err != nil {
		return nil, err
	}
	return newTweenGroup(b, i,
		[]float32{s.Tint.R, s.Tint.G, s.Tint.B, s.Tint.Weight},
		[]float32{to.R, to.G, to.B, to.Weight},
		duration, fn,
		func(s *Sprite, v *[4]float32) { s.Tint = clampTint(Tint{v[0], v[1], v[2], v[3]}) }), nil
}

// TweenTintWeight animates only the tint weight of sprite i, fading a flash
// color in or out.
func TweenTintWeight(b *SpriteBatch, i int, to float32, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	s, err := b.Sprite(i)
	if err != nil {
		return nil, err
	}
	return newTweenGroup(b, i,
		[]float32{s.Tint.Weight},
		[]float32{to},
		duration, fn,
		func(s *Sprite, v *[4]float32) { s.Tint.Weight = clamp01(v[0]) }), nil
}

// clampTint keeps overshooting easings (elastic, back) inside [0, 1].
func clampTint(t Tint) Tint {
	return Tint{clamp01(t.R), clamp01(t.G), clamp01(t.B), clamp01(t.Weight)}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
