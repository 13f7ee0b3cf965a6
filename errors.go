package tilebatch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension marks an image whose size is not a positive
	// multiple of the cell size. The image is skipped; packing continues.
	ErrInvalidDimension = errors.New("image not cell-aligned")
	// ErrNoValidImages is returned when nothing remains to pack.
	ErrNoValidImages = errors.New("no valid images")
	// ErrInvalidCellSize is returned for a non-positive cell size.
	ErrInvalidCellSize = errors.New("invalid cell size")
	// ErrInvalidCapacity is returned when a batch is created with capacity <= 0.
	ErrInvalidCapacity = errors.New("invalid capacity")
	// ErrBatchFull is returned by CreateSprite once the batch is at capacity.
	ErrBatchFull = errors.New("batch full")
	// ErrInvalidGeometry is returned for degenerate sprites or viewports.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidTint is returned when a tint component is outside [0, 1].
	ErrInvalidTint = errors.New("invalid tint")
	// ErrIndexOutOfRange is returned when a sprite index is >= Len().
	ErrIndexOutOfRange = errors.New("sprite index out of range")
	// ErrMissingTexture is returned by Render when no texture is bound.
	ErrMissingTexture = errors.New("missing texture")
	// ErrBufferRange is returned by backends for writes to unknown buffers or
	// past the end of a buffer.
	ErrBufferRange = errors.New("buffer write out of range")
	// ErrUnknownTile is returned for tile names absent from a Registry.
	ErrUnknownTile = errors.New("unknown tile")
)

// DimensionError describes an image rejected by Pack.
type DimensionError struct {
	Name          string
	Width, Height int
	CellSize      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("tilebatch: %q is %dx%d, not a multiple of cell size %d",
		e.Name, e.Width, e.Height, e.CellSize)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDimension }
