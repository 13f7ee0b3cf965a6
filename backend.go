package tilebatch

// BufferKind identifies one of the three parallel vertex buffers of a batch.
type BufferKind uint8

const (
	BufferPosition BufferKind = iota // clip-space x, y per vertex
	BufferTexcoord                   // normalized u, v per vertex
	BufferTint                       // r, g, b, weight per vertex
)

// String returns the buffer kind name.
func (k BufferKind) String() string {
	switch k {
	case BufferPosition:
		return "position"
	case BufferTexcoord:
		return "texcoord"
	case BufferTint:
		return "tint"
	default:
		return "unknown"
	}
}

// Components returns the number of floats per vertex.
func (k BufferKind) Components() int {
	if k == BufferTint {
		return 4
	}
	return 2
}

// Stride returns the number of floats per sprite.
func (k BufferKind) Stride() int {
	return k.Components() * verticesPerSprite
}

// BufferHandle is an opaque backend buffer identifier.
type BufferHandle uint32

// Texture is a backend texture. Only its size is visible to the batch.
type Texture interface {
	Size() (w, h int)
}

// Backend is the GPU side of a SpriteBatch. Buffers are allocated once per
// batch and updated with partial writes; offsets are in bytes.
type Backend interface {
	AllocBuffer(kind BufferKind, byteSize int) (BufferHandle, error)
	WriteBuffer(h BufferHandle, byteOffset int, data []float32) error
	DrawTriangles(tex Texture, buffers [3]BufferHandle, vertexCount int) error
}

const floatSize = 4
