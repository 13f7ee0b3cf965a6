package glbackend

import (
	"fmt"

	"github.com/phanxgames/tilebatch"
)

const floatSize = 4

// bufferTable tracks the size and kind of every GL buffer so writes can be
// range-checked before they reach the driver.
type bufferTable struct {
	sizes map[tilebatch.BufferHandle]int
	kinds map[tilebatch.BufferHandle]tilebatch.BufferKind
}

func newBufferTable() bufferTable {
	return bufferTable{
		sizes: make(map[tilebatch.BufferHandle]int),
		kinds: make(map[tilebatch.BufferHandle]tilebatch.BufferKind),
	}
}

func (t bufferTable) add(h tilebatch.BufferHandle, kind tilebatch.BufferKind, byteSize int) {
	t.sizes[h] = byteSize
	t.kinds[h] = kind
}

// checkAlloc validates a requested buffer size.
func checkAlloc(byteSize int) error {
	if byteSize <= 0 || byteSize%floatSize != 0 {
		return fmt.Errorf("glbackend: allocate %d bytes: %w", byteSize, tilebatch.ErrInvalidGeometry)
	}
	return nil
}

// checkWrite reports whether n floats fit at byteOffset in buffer h.
func (t bufferTable) checkWrite(h tilebatch.BufferHandle, byteOffset, n int) error {
	size, ok := t.sizes[h]
	if !ok {
		return fmt.Errorf("glbackend: buffer %d: %w", h, tilebatch.ErrBufferRange)
	}
	if byteOffset < 0 || byteOffset%floatSize != 0 || byteOffset+n*floatSize > size {
		return fmt.Errorf("glbackend: buffer %d write %d bytes at %d of %d: %w",
			h, n*floatSize, byteOffset, size, tilebatch.ErrBufferRange)
	}
	return nil
}

// checkDraw verifies the three buffers are the expected kinds and hold
// vertexCount vertices.
func (t bufferTable) checkDraw(buffers [3]tilebatch.BufferHandle, vertexCount int) error {
	for kind := tilebatch.BufferPosition; kind <= tilebatch.BufferTint; kind++ {
		h := buffers[kind]
		size, ok := t.sizes[h]
		if !ok || t.kinds[h] != kind {
			return fmt.Errorf("glbackend: %s buffer %d: %w", kind, h, tilebatch.ErrBufferRange)
		}
		if need := vertexCount * kind.Components() * floatSize; need > size {
			return fmt.Errorf("glbackend: %s buffer holds %d bytes, draw needs %d: %w",
				kind, size, need, tilebatch.ErrBufferRange)
		}
	}
	return nil
}
