// Package glbackend implements the tilebatch backend on OpenGL 3.3 core.
//
// Every sprite batch owns three GL array buffers (positions, texture
// coordinates, tints) bound to attribute locations 0, 1 and 2 of one vertex
// array object. WriteBuffer maps to glBufferSubData and DrawTriangles to one
// glDrawArrays call. All methods must run on the thread that owns the GL
// context.
package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/phanxgames/tilebatch"
)

// Backend is a tilebatch.Backend drawing with raw OpenGL.
type Backend struct {
	prog    uint32
	buffers bufferTable
	vaos    map[[3]tilebatch.BufferHandle]uint32

	drawCalls int
}

var _ tilebatch.Backend = (*Backend)(nil)

// New compiles the tint program. A GL context must be current and gl.Init
// must have succeeded.
func New() (*Backend, error) {
	prog, err := newProgram()
	if err != nil {
		return nil, err
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return &Backend{
		prog:    prog,
		buffers: newBufferTable(),
		vaos:    make(map[[3]tilebatch.BufferHandle]uint32),
	}, nil
}

// AllocBuffer implements tilebatch.Backend with a zeroed DYNAMIC_DRAW
// buffer. The handle is the GL buffer name.
func (b *Backend) AllocBuffer(kind tilebatch.BufferKind, byteSize int) (tilebatch.BufferHandle, error) {
	if err := checkAlloc(byteSize); err != nil {
		return 0, err
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, byteSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if vbo == 0 {
		return 0, fmt.Errorf("glbackend: glGenBuffers returned 0")
	}
	h := tilebatch.BufferHandle(vbo)
	b.buffers.add(h, kind, byteSize)
	return h, nil
}

// WriteBuffer implements tilebatch.Backend with glBufferSubData.
func (b *Backend) WriteBuffer(h tilebatch.BufferHandle, byteOffset int, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	if err := b.buffers.checkWrite(h, byteOffset, len(data)); err != nil {
		return err
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(h))
	gl.BufferSubData(gl.ARRAY_BUFFER, byteOffset, len(data)*floatSize, gl.Ptr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// vao returns the vertex array object binding the three buffers, creating
// it on first use.
func (b *Backend) vao(buffers [3]tilebatch.BufferHandle) uint32 {
	if v, ok := b.vaos[buffers]; ok {
		return v
	}
	var v uint32
	gl.GenVertexArrays(1, &v)
	gl.BindVertexArray(v)
	attribs := [3]uint32{attribPosition, attribTexcoord, attribTint}
	for kind := tilebatch.BufferPosition; kind <= tilebatch.BufferTint; kind++ {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buffers[kind]))
		gl.EnableVertexAttribArray(attribs[kind])
		gl.VertexAttribPointer(attribs[kind], int32(kind.Components()), gl.FLOAT, false, 0, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	b.vaos[buffers] = v
	return v
}

// DrawTriangles implements tilebatch.Backend.
func (b *Backend) DrawTriangles(tex tilebatch.Texture, buffers [3]tilebatch.BufferHandle, vertexCount int) error {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.ID == 0 {
		return fmt.Errorf("glbackend: cannot draw %T: %w", tex, tilebatch.ErrMissingTexture)
	}
	if vertexCount <= 0 {
		return nil
	}
	if err := b.buffers.checkDraw(buffers, vertexCount); err != nil {
		return err
	}

	gl.UseProgram(b.prog)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.BindVertexArray(b.vao(buffers))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertexCount))
	gl.BindVertexArray(0)
	b.drawCalls++
	return nil
}

// DrawCalls returns the glDrawArrays calls since the last ResetStats.
func (b *Backend) DrawCalls() int { return b.drawCalls }

// ResetStats zeroes the draw call counter.
func (b *Backend) ResetStats() { b.drawCalls = 0 }

// Clear fills the framebuffer with an 8-bit color.
func (b *Backend) Clear(r, g, bl uint8) {
	gl.ClearColor(float32(r)/255, float32(g)/255, float32(bl)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Delete releases the program, every vertex array and every buffer.
func (b *Backend) Delete() {
	for _, v := range b.vaos {
		gl.DeleteVertexArrays(1, &v)
	}
	for h := range b.buffers.sizes {
		vbo := uint32(h)
		gl.DeleteBuffers(1, &vbo)
	}
	gl.DeleteProgram(b.prog)
	b.vaos = make(map[[3]tilebatch.BufferHandle]uint32)
	b.buffers = newBufferTable()
}
