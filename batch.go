package tilebatch

import (
	"fmt"
	"slices"
)

// Sprite is one quad of a SpriteBatch: a destination rectangle in canvas
// pixels, a source rectangle in atlas pixels and a tint. Game code may mutate
// the fields of the pointer returned by SpriteBatch.Sprite and then call
// UpdateSprite to push the change into the vertex buffers.
type Sprite struct {
	Dst  Rect
	Src  Rect
	Tint Tint
}

// BatchOptions configures NewSpriteBatch.
type BatchOptions struct {
	// Capacity is the fixed number of sprites the batch can hold.
	Capacity int
	// AtlasWidth and AtlasHeight are the texture size used for UV math.
	AtlasWidth, AtlasHeight int
	// ViewportWidth and ViewportHeight are the canvas size used for
	// clip-space math.
	ViewportWidth, ViewportHeight int
	// Texture is the atlas texture. It may be set later with SetTexture but
	// must be present when Render draws.
	Texture Texture
	// World supplies the shared world offset. Nil gives the batch a private
	// world that never moves.
	World *World
	// RefreshOnOffset re-emits every sprite whenever the batch offset or the
	// published world offset changes. Without it callers must call
	// RefreshAll (or UpdateSprite) after moving an offset.
	RefreshOnOffset bool
}

// SpriteBatch holds up to Capacity sprites in three parallel float32 vertex
// buffers mirrored on the GPU. Mutations mark sprites dirty; UploadDirty
// pushes each contiguous run of dirty sprites with one write per buffer.
//
// A SpriteBatch is not safe for concurrent use.
type SpriteBatch struct {
	backend Backend
	tex     Texture
	world   *World

	capacity int
	count    int
	sprites  []Sprite
	gen      uint64

	atlasW, atlasH int
	viewW, viewH   int
	offset         Vec2
	refresh        bool

	positions []float32
	texcoords []float32
	tints     []float32
	buffers   [3]BufferHandle

	dirty     []int
	dirtyMark []bool

	lastUpload UploadStats
}

// NewSpriteBatch validates opts and allocates the three backend buffers.
func NewSpriteBatch(backend Backend, opts BatchOptions) (*SpriteBatch, error) {
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("tilebatch: new batch with capacity %d: %w", opts.Capacity, ErrInvalidCapacity)
	}
	if opts.AtlasWidth <= 0 || opts.AtlasHeight <= 0 {
		return nil, fmt.Errorf("tilebatch: new batch with atlas %dx%d: %w",
			opts.AtlasWidth, opts.AtlasHeight, ErrInvalidGeometry)
	}
	if opts.ViewportWidth <= 0 || opts.ViewportHeight <= 0 {
		return nil, fmt.Errorf("tilebatch: new batch with viewport %dx%d: %w",
			opts.ViewportWidth, opts.ViewportHeight, ErrInvalidGeometry)
	}

	n := opts.Capacity
	b := &SpriteBatch{
		backend:   backend,
		tex:       opts.Texture,
		world:     opts.World,
		capacity:  n,
		sprites:   make([]Sprite, n),
		atlasW:    opts.AtlasWidth,
		atlasH:    opts.AtlasHeight,
		viewW:     opts.ViewportWidth,
		viewH:     opts.ViewportHeight,
		refresh:   opts.RefreshOnOffset,
		positions: make([]float32, n*positionStride),
		texcoords: make([]float32, n*texcoordStride),
		tints:     make([]float32, n*tintStride),
		dirtyMark: make([]bool, n),
	}
	if b.world == nil {
		b.world = NewWorld()
	}

	for kind := BufferPosition; kind <= BufferTint; kind++ {
		h, err := backend.AllocBuffer(kind, n*kind.Stride()*floatSize)
		if err != nil {
			return nil, fmt.Errorf("tilebatch: allocate %s buffer: %w", kind, err)
		}
		b.buffers[kind] = h
	}

	if b.refresh {
		b.world.watch(b)
	}
	return b, nil
}

// Len returns the number of sprites created since the last Clear.
func (b *SpriteBatch) Len() int { return b.count }

// Cap returns the batch capacity.
func (b *SpriteBatch) Cap() int { return b.capacity }

// DirtyCount returns the number of sprites awaiting upload.
func (b *SpriteBatch) DirtyCount() int { return len(b.dirty) }

// World returns the world the batch reads its shared offset from.
func (b *SpriteBatch) World() *World { return b.world }

// Texture returns the bound texture, or nil.
func (b *SpriteBatch) Texture() Texture { return b.tex }

// SetTexture binds the atlas texture used by Render.
func (b *SpriteBatch) SetTexture(tex Texture) { b.tex = tex }

// Buffers returns the backend handles for the position, texcoord and tint
// buffers, in that order.
func (b *SpriteBatch) Buffers() [3]BufferHandle { return b.buffers }

// LastUpload returns the stats of the most recent UploadDirty.
func (b *SpriteBatch) LastUpload() UploadStats { return b.lastUpload }

// CreateSprite appends a sprite and returns its index. It returns
// ErrBatchFull at capacity and ErrInvalidGeometry or ErrInvalidTint for a
// degenerate sprite; in every failure case the batch is unchanged.
func (b *SpriteBatch) CreateSprite(dst, src Rect, tint Tint) (int, error) {
	if b.count == b.capacity {
		return -1, fmt.Errorf("tilebatch: create sprite: %w (capacity %d)", ErrBatchFull, b.capacity)
	}
	s := Sprite{Dst: dst, Src: src, Tint: tint}
	if err := validateSprite(&s); err != nil {
		logger.Warn("rejected sprite", "dst", dst, "src", src, "err", err)
		return -1, fmt.Errorf("tilebatch: create sprite: %w", err)
	}
	i := b.count
	b.sprites[i] = s
	b.count++
	b.emit(i)
	return i, nil
}

// CreateSpriteFromRegion creates a sprite at (x, y) showing region r at its
// native size.
func (b *SpriteBatch) CreateSpriteFromRegion(x, y float64, r Region, tint Tint) (int, error) {
	dst := Rect{X: x, Y: y, Width: float64(r.W), Height: float64(r.H)}
	return b.CreateSprite(dst, r.Rect(), tint)
}

func validateSprite(s *Sprite) error {
	if s.Dst.empty() || s.Src.empty() {
		return ErrInvalidGeometry
	}
	if !s.Tint.Valid() {
		return ErrInvalidTint
	}
	return nil
}

func (b *SpriteBatch) checkIndex(i int) error {
	if i < 0 || i >= b.count {
		return fmt.Errorf("tilebatch: sprite %d of %d: %w", i, b.count, ErrIndexOutOfRange)
	}
	return nil
}

// Sprite returns a pointer to sprite i for in-place mutation. Changes are
// not visible until UpdateSprite(i).
func (b *SpriteBatch) Sprite(i int) (*Sprite, error) {
	if err := b.checkIndex(i); err != nil {
		return nil, err
	}
	return &b.sprites[i], nil
}

// UpdateSprite recomputes the vertices of sprite i from its fields, the batch
// offset and the published world offset, and marks it dirty. A degenerate
// sprite is refused and its vertices keep their previous values.
func (b *SpriteBatch) UpdateSprite(i int) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	if err := validateSprite(&b.sprites[i]); err != nil {
		return fmt.Errorf("tilebatch: update sprite %d: %w", i, err)
	}
	b.emit(i)
	return nil
}

// mutate applies fn to sprite i and updates it, restoring the previous
// fields if the result is refused.
func (b *SpriteBatch) mutate(i int, fn func(s *Sprite)) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	prev := b.sprites[i]
	fn(&b.sprites[i])
	if err := b.UpdateSprite(i); err != nil {
		b.sprites[i] = prev
		return err
	}
	return nil
}

// SetPosition moves sprite i.
func (b *SpriteBatch) SetPosition(i int, x, y float64) error {
	return b.mutate(i, func(s *Sprite) { s.Dst.X, s.Dst.Y = x, y })
}

// SetSize resizes sprite i.
func (b *SpriteBatch) SetSize(i int, w, h float64) error {
	return b.mutate(i, func(s *Sprite) { s.Dst.Width, s.Dst.Height = w, h })
}

// SetSource changes the atlas rectangle of sprite i.
func (b *SpriteBatch) SetSource(i int, src Rect) error {
	return b.mutate(i, func(s *Sprite) { s.Src = src })
}

// SetRegion changes the atlas rectangle of sprite i to r.
func (b *SpriteBatch) SetRegion(i int, r Region) error {
	return b.SetSource(i, r.Rect())
}

// SetTint changes the tint of sprite i.
func (b *SpriteBatch) SetTint(i int, t Tint) error {
	return b.mutate(i, func(s *Sprite) { s.Tint = t })
}

// Offset returns the batch offset.
func (b *SpriteBatch) Offset() Vec2 { return b.offset }

// SetOffset sets the batch offset applied on top of the world offset.
// Existing sprites keep their vertices until they are updated, unless the
// batch was created with RefreshOnOffset.
func (b *SpriteBatch) SetOffset(x, y float64) {
	b.offset = Vec2{x, y}
	if b.refresh {
		b.RefreshAll()
	}
}

// RefreshAll re-emits every sprite and marks them all dirty. Call it after
// moving the batch or world offset.
func (b *SpriteBatch) RefreshAll() {
	for i := 0; i < b.count; i++ {
		b.emit(i)
	}
}

// Generation counts Clear calls. Holders of sprite indices compare it to
// detect that their index now belongs to a different sprite.
func (b *SpriteBatch) Generation() uint64 { return b.gen }

// Detach turns off RefreshOnOffset and removes the batch from its world's
// refresh list. Call it before discarding a batch that shares a world.
func (b *SpriteBatch) Detach() {
	if b.refresh {
		b.world.unwatch(b)
		b.refresh = false
	}
}

// Clear drops every sprite. Buffer storage is kept for reuse.
func (b *SpriteBatch) Clear() {
	b.gen++
	b.count = 0
	for _, i := range b.dirty {
		b.dirtyMark[i] = false
	}
	b.dirty = b.dirty[:0]
}

func (b *SpriteBatch) geometry() quadGeometry {
	w := b.world.Offset()
	return quadGeometry{
		viewW:  b.viewW,
		viewH:  b.viewH,
		atlasW: b.atlasW,
		atlasH: b.atlasH,
		offset: Vec2{b.offset.X + w.X, b.offset.Y + w.Y},
	}
}

// emit writes sprite i into the CPU buffers and marks it dirty.
func (b *SpriteBatch) emit(i int) {
	b.geometry().writeQuad(
		b.positions[i*positionStride:(i+1)*positionStride],
		b.texcoords[i*texcoordStride:(i+1)*texcoordStride],
		b.tints[i*tintStride:(i+1)*tintStride],
		&b.sprites[i],
	)
	if !b.dirtyMark[i] {
		b.dirtyMark[i] = true
		b.dirty = append(b.dirty, i)
	}
}

// span is an inclusive run of consecutive sprite indices.
type span struct{ first, last int }

// coalesce sorts idx in place and merges consecutive indices into runs.
func coalesce(idx []int) []span {
	if len(idx) == 0 {
		return nil
	}
	slices.Sort(idx)
	runs := []span{{idx[0], idx[0]}}
	for _, i := range idx[1:] {
		last := &runs[len(runs)-1]
		if i == last.last+1 {
			last.last = i
			continue
		}
		runs = append(runs, span{i, i})
	}
	return runs
}

// UploadDirty pushes every dirty sprite to the backend with one write per
// contiguous run per buffer, then clears the dirty set. On a backend error
// the dirty set is kept so the next call retries.
func (b *SpriteBatch) UploadDirty() (UploadStats, error) {
	if len(b.dirty) == 0 {
		b.lastUpload = UploadStats{}
		return b.lastUpload, nil
	}

	stats := UploadStats{Sprites: len(b.dirty)}
	runs := coalesce(b.dirty)
	stats.Runs = len(runs)

	data := [3][]float32{b.positions, b.texcoords, b.tints}
	for _, r := range runs {
		for kind := BufferPosition; kind <= BufferTint; kind++ {
			stride := kind.Stride()
			chunk := data[kind][r.first*stride : (r.last+1)*stride]
			if err := b.backend.WriteBuffer(b.buffers[kind], r.first*stride*floatSize, chunk); err != nil {
				b.lastUpload = stats
				return stats, fmt.Errorf("tilebatch: upload %s sprites %d-%d: %w", kind, r.first, r.last, err)
			}
			stats.Writes++
			stats.Floats += len(chunk)
		}
	}

	for _, i := range b.dirty {
		b.dirtyMark[i] = false
	}
	b.dirty = b.dirty[:0]
	b.lastUpload = stats
	if globalDebug.Load() {
		logger.Debug("upload", "sprites", stats.Sprites, "runs", stats.Runs, "writes", stats.Writes)
	}
	return stats, nil
}

// Render uploads dirty sprites and draws the batch as one triangle list of
// Len()*6 vertices. Drawing a non-empty batch without a texture returns
// ErrMissingTexture.
func (b *SpriteBatch) Render() error {
	if _, err := b.UploadDirty(); err != nil {
		return err
	}
	if b.count == 0 {
		return nil
	}
	if b.tex == nil {
		return fmt.Errorf("tilebatch: render %d sprites: %w", b.count, ErrMissingTexture)
	}
	if err := b.backend.DrawTriangles(b.tex, b.buffers, b.count*verticesPerSprite); err != nil {
		return fmt.Errorf("tilebatch: draw: %w", err)
	}
	return nil
}

// vertexData exposes the CPU-side buffers for tests and debug dumps.
func (b *SpriteBatch) vertexData(kind BufferKind, i int) []float32 {
	stride := kind.Stride()
	switch kind {
	case BufferPosition:
		return b.positions[i*stride : (i+1)*stride]
	case BufferTexcoord:
		return b.texcoords[i*stride : (i+1)*stride]
	default:
		return b.tints[i*stride : (i+1)*stride]
	}
}
