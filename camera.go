package tilebatch

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera drives a World's offset. X and Y are the world position of the
// top-left corner of the view; the published world offset is (-X, -Y).
type Camera struct {
	X, Y float64

	// Viewport is the view size in pixels.
	Viewport Vec2

	// BoundsEnabled clamps the camera so the view stays within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	// PixelSnap rounds the published offset to whole pixels.
	PixelSnap bool

	world *World

	followTarget func() Vec2
	followLerp   float64

	scrollTween *scrollAnim
}

// NewCamera returns a camera at the origin driving world.
func NewCamera(world *World, viewportW, viewportH float64) *Camera {
	return &Camera{
		world:    world,
		Viewport: Vec2{viewportW, viewportH},
	}
}

// Follow keeps target centered in the view. A lerp of 1 snaps immediately;
// lower values ease toward the target each update.
func (c *Camera) Follow(target func() Vec2, lerp float64) {
	c.followTarget = target
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera's top-left corner to (x, y) over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ScrollToTile scrolls so tile (tileX, tileY) sits at the center of the view.
func (c *Camera) ScrollToTile(tileX, tileY int, tileSize float64, duration float32, easeFn ease.TweenFunc) {
	cx := float64(tileX)*tileSize + tileSize/2
	cy := float64(tileY)*tileSize + tileSize/2
	c.ScrollTo(cx-c.Viewport.X/2, cy-c.Viewport.Y/2, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow and scroll animation by dt seconds, clamps to
// bounds, and stages the resulting offset on the world.
func (c *Camera) Update(dt float32) {
	if c.followTarget != nil {
		t := c.followTarget()
		tx := t.X - c.Viewport.X/2
		ty := t.Y - c.Viewport.Y/2
		c.X += (tx - c.X) * c.followLerp
		c.Y += (ty - c.Y) * c.followLerp
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
	c.stage()
}

func (c *Camera) stage() {
	if c.world == nil {
		return
	}
	ox, oy := -c.X, -c.Y
	if c.PixelSnap {
		ox, oy = math.Round(ox), math.Round(oy)
	}
	c.world.SetOffset(ox, oy)
}

// clampToBounds keeps the view inside Bounds, centering it on any axis where
// the bounds are smaller than the view.
func (c *Camera) clampToBounds() {
	maxX := c.Bounds.X + c.Bounds.Width - c.Viewport.X
	maxY := c.Bounds.Y + c.Bounds.Height - c.Viewport.Y
	if maxX < c.Bounds.X {
		c.X = c.Bounds.X + (c.Bounds.Width-c.Viewport.X)/2
	} else {
		c.X = math.Max(c.Bounds.X, math.Min(c.X, maxX))
	}
	if maxY < c.Bounds.Y {
		c.Y = c.Bounds.Y + (c.Bounds.Height-c.Viewport.Y)/2
	} else {
		c.Y = math.Max(c.Bounds.Y, math.Min(c.Y, maxY))
	}
}

// WorldToScreen converts world coordinates to view coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx - c.X, wy - c.Y
}

// ScreenToWorld converts view coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx + c.X, sy + c.Y
}

// VisibleBounds returns the world-space rectangle currently in view.
func (c *Camera) VisibleBounds() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Viewport.X, Height: c.Viewport.Y}
}
