package tilebatch

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// tintShaderSrc samples the atlas and mixes the vertex tint into it by the
// tint weight carried in the vertex alpha. Textures are premultiplied, so the
// tint color is scaled by the texel alpha before mixing.
const tintShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	w := clamp(color.a, 0, 1)
	return vec4(mix(c.rgb, color.rgb*c.a, w), c.a)
}
`

// maxSpritesPerDraw keeps every draw within the 16-bit index range.
const maxSpritesPerDraw = (1 << 16) / verticesPerSprite

// EbitenTexture wraps an *ebiten.Image as a batch texture.
type EbitenTexture struct {
	Image *ebiten.Image
}

// NewEbitenTexture uploads img to the GPU.
func NewEbitenTexture(img image.Image) *EbitenTexture {
	return &EbitenTexture{Image: ebiten.NewImageFromImage(img)}
}

// Size returns the image size in pixels.
func (t *EbitenTexture) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// memBuffers stores backend buffers as float32 slices indexed by handle-1.
type memBuffers struct {
	data  [][]float32
	kinds []BufferKind
}

func (m *memBuffers) alloc(kind BufferKind, byteSize int) (BufferHandle, error) {
	if byteSize <= 0 || byteSize%floatSize != 0 {
		return 0, fmt.Errorf("tilebatch: allocate %d bytes: %w", byteSize, ErrInvalidGeometry)
	}
	m.data = append(m.data, make([]float32, byteSize/floatSize))
	m.kinds = append(m.kinds, kind)
	return BufferHandle(len(m.data)), nil
}

func (m *memBuffers) get(h BufferHandle) ([]float32, error) {
	if h == 0 || int(h) > len(m.data) {
		return nil, fmt.Errorf("tilebatch: buffer %d: %w", h, ErrBufferRange)
	}
	return m.data[h-1], nil
}

func (m *memBuffers) write(h BufferHandle, byteOffset int, src []float32) error {
	buf, err := m.get(h)
	if err != nil {
		return err
	}
	if byteOffset < 0 || byteOffset%floatSize != 0 {
		return fmt.Errorf("tilebatch: buffer %d offset %d: %w", h, byteOffset, ErrBufferRange)
	}
	start := byteOffset / floatSize
	if start+len(src) > len(buf) {
		return fmt.Errorf("tilebatch: buffer %d write [%d,%d) of %d: %w",
			h, start, start+len(src), len(buf), ErrBufferRange)
	}
	copy(buf[start:], src)
	return nil
}

// EbitenBackend draws batches onto an ebiten.Image with a tint shader. Its
// buffers live in CPU memory; each draw converts the clip-space positions
// and normalized UVs back into pixel coordinates for DrawTrianglesShader.
type EbitenBackend struct {
	memBuffers

	target  *ebiten.Image
	shader  *ebiten.Shader
	verts   []ebiten.Vertex
	indices []uint16

	drawCalls int
}

// NewEbitenBackend returns a backend with no render target. Call SetTarget
// before each frame's draws.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{}
}

// SetTarget sets the image subsequent draws render into.
func (e *EbitenBackend) SetTarget(target *ebiten.Image) {
	e.target = target
}

// DrawCalls returns the number of DrawTrianglesShader calls issued since the
// last ResetStats.
func (e *EbitenBackend) DrawCalls() int { return e.drawCalls }

// ResetStats zeroes the draw call counter.
func (e *EbitenBackend) ResetStats() { e.drawCalls = 0 }

// AllocBuffer implements Backend.
func (e *EbitenBackend) AllocBuffer(kind BufferKind, byteSize int) (BufferHandle, error) {
	return e.alloc(kind, byteSize)
}

// WriteBuffer implements Backend.
func (e *EbitenBackend) WriteBuffer(h BufferHandle, byteOffset int, data []float32) error {
	return e.write(h, byteOffset, data)
}

func (e *EbitenBackend) ensureShader() (*ebiten.Shader, error) {
	if e.shader == nil {
		s, err := ebiten.NewShader([]byte(tintShaderSrc))
		if err != nil {
			return nil, fmt.Errorf("tilebatch: failed to compile tint shader: %w", err)
		}
		e.shader = s
	}
	return e.shader, nil
}

// DrawTriangles implements Backend.
func (e *EbitenBackend) DrawTriangles(tex Texture, buffers [3]BufferHandle, vertexCount int) error {
	et, ok := tex.(*EbitenTexture)
	if !ok || et == nil || et.Image == nil {
		return fmt.Errorf("tilebatch: ebiten backend cannot draw %T: %w", tex, ErrMissingTexture)
	}
	if e.target == nil {
		return fmt.Errorf("tilebatch: ebiten backend has no render target")
	}

	var data [3][]float32
	for kind := BufferPosition; kind <= BufferTint; kind++ {
		buf, err := e.get(buffers[kind])
		if err != nil {
			return err
		}
		if len(buf) < vertexCount*kind.Components() {
			return fmt.Errorf("tilebatch: %s buffer holds %d floats, draw needs %d: %w",
				kind, len(buf), vertexCount*kind.Components(), ErrBufferRange)
		}
		data[kind] = buf
	}

	shader, err := e.ensureShader()
	if err != nil {
		return err
	}

	e.fillVertices(et.Image, data, vertexCount)

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = et.Image
	for first := 0; first < vertexCount; first += maxSpritesPerDraw * verticesPerSprite {
		n := min(vertexCount-first, maxSpritesPerDraw*verticesPerSprite)
		e.target.DrawTrianglesShader(e.verts[first:first+n], e.indices[:n], shader, op)
		e.drawCalls++
	}
	return nil
}

// fillVertices converts the batch buffers into ebiten vertices and prepares
// an identity index list long enough for one chunk.
func (e *EbitenBackend) fillVertices(src *ebiten.Image, data [3][]float32, vertexCount int) {
	if cap(e.verts) < vertexCount {
		e.verts = make([]ebiten.Vertex, vertexCount)
	}
	e.verts = e.verts[:vertexCount]

	chunk := min(vertexCount, maxSpritesPerDraw*verticesPerSprite)
	for i := len(e.indices); i < chunk; i++ {
		e.indices = append(e.indices, uint16(i))
	}

	tb := e.target.Bounds()
	tw, th := float32(tb.Dx()), float32(tb.Dy())
	sb := src.Bounds()
	sw, sh := float32(sb.Dx()), float32(sb.Dy())
	sx0, sy0 := float32(sb.Min.X), float32(sb.Min.Y)

	pos, uv, tint := data[BufferPosition], data[BufferTexcoord], data[BufferTint]
	for i := range e.verts {
		v := &e.verts[i]
		v.DstX = (pos[i*2] + 1) / 2 * tw
		v.DstY = (1 - pos[i*2+1]) / 2 * th
		v.SrcX = sx0 + uv[i*2]*sw
		v.SrcY = sy0 + uv[i*2+1]*sh
		v.ColorR = tint[i*4]
		v.ColorG = tint[i*4+1]
		v.ColorB = tint[i*4+2]
		v.ColorA = tint[i*4+3]
	}
}
