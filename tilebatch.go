package tilebatch

import "math"

// Vec2 is a 2D vector used for positions, offsets and sizes throughout the
// API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// empty reports whether either side is non-positive or any field is NaN or
// infinite.
func (r Rect) empty() bool {
	return !(r.Width > 0) || !(r.Height > 0) ||
		!finite(r.X) || !finite(r.Y) || !finite(r.Width) || !finite(r.Height)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Tint mixes a flat color into the sampled texture color of a sprite.
// Weight 0 leaves the texture untouched, weight 1 replaces its color
// entirely (alpha is always taken from the texture).
type Tint struct {
	R, G, B, Weight float32
}

// NoTint is the default tint: white at zero weight.
var NoTint = Tint{1, 1, 1, 0}

// Valid reports whether every component lies in [0, 1].
func (t Tint) Valid() bool {
	return in01(t.R) && in01(t.G) && in01(t.B) && in01(t.Weight)
}

// TintRGB builds a tint from 8-bit color channels and a weight.
func TintRGB(r, g, b uint8, weight float32) Tint {
	return Tint{float32(r) / 255, float32(g) / 255, float32(b) / 255, weight}
}

func in01(v float32) bool { return v >= 0 && v <= 1 }

// Per-sprite float counts for each of the three parallel vertex buffers.
const (
	verticesPerSprite = 6
	positionStride    = verticesPerSprite * 2
	texcoordStride    = verticesPerSprite * 2
	tintStride        = verticesPerSprite * 4
)
