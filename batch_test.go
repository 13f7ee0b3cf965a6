package tilebatch

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// --- recording backend ---

type writeCall struct {
	handle BufferHandle
	offset int
	floats int
}

type recordingBackend struct {
	next    BufferHandle
	sizes   map[BufferHandle]int
	data    map[BufferHandle][]float32
	writes  []writeCall
	draws   []int
	failOn  BufferHandle
	failErr error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		next:  1,
		sizes: make(map[BufferHandle]int),
		data:  make(map[BufferHandle][]float32),
	}
}

func (r *recordingBackend) AllocBuffer(_ BufferKind, byteSize int) (BufferHandle, error) {
	h := r.next
	r.next++
	r.sizes[h] = byteSize
	r.data[h] = make([]float32, byteSize/4)
	return h, nil
}

func (r *recordingBackend) WriteBuffer(h BufferHandle, byteOffset int, data []float32) error {
	if r.failErr != nil && h == r.failOn {
		return r.failErr
	}
	r.writes = append(r.writes, writeCall{h, byteOffset, len(data)})
	copy(r.data[h][byteOffset/4:], data)
	return nil
}

func (r *recordingBackend) DrawTriangles(_ Texture, _ [3]BufferHandle, vertexCount int) error {
	r.draws = append(r.draws, vertexCount)
	return nil
}

func (r *recordingBackend) writesTo(h BufferHandle) []writeCall {
	var out []writeCall
	for _, w := range r.writes {
		if w.handle == h {
			out = append(out, w)
		}
	}
	return out
}

type fakeTexture struct{ w, h int }

func (t fakeTexture) Size() (int, int) { return t.w, t.h }

// --- helpers ---

func newTestBatch(t *testing.T, capacity int) (*SpriteBatch, *recordingBackend) {
	t.Helper()
	be := newRecordingBackend()
	b, err := NewSpriteBatch(be, BatchOptions{
		Capacity:       capacity,
		AtlasWidth:     64,
		AtlasHeight:    64,
		ViewportWidth:  100,
		ViewportHeight: 100,
		Texture:        fakeTexture{64, 64},
	})
	if err != nil {
		t.Fatalf("NewSpriteBatch: %v", err)
	}
	return b, be
}

func addSprite(t *testing.T, b *SpriteBatch, x, y float64) int {
	t.Helper()
	i, err := b.CreateSprite(Rect{x, y, 10, 10}, Rect{0, 0, 16, 16}, NoTint)
	if err != nil {
		t.Fatalf("CreateSprite: %v", err)
	}
	return i
}

func assertVertexNear(t *testing.T, got []float32, want ...float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("[%d] = %v, want %v (all: %v)", i, got[i], want[i], got)
			return
		}
	}
}

// --- construction ---

func TestNewSpriteBatchValidation(t *testing.T) {
	be := newRecordingBackend()
	tests := []struct {
		name string
		opts BatchOptions
		want error
	}{
		{"zero capacity", BatchOptions{Capacity: 0, AtlasWidth: 1, AtlasHeight: 1, ViewportWidth: 1, ViewportHeight: 1}, ErrInvalidCapacity},
		{"negative capacity", BatchOptions{Capacity: -3, AtlasWidth: 1, AtlasHeight: 1, ViewportWidth: 1, ViewportHeight: 1}, ErrInvalidCapacity},
		{"no atlas", BatchOptions{Capacity: 1, ViewportWidth: 1, ViewportHeight: 1}, ErrInvalidGeometry},
		{"no viewport", BatchOptions{Capacity: 1, AtlasWidth: 1, AtlasHeight: 1}, ErrInvalidGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSpriteBatch(be, tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewSpriteBatchAllocatesBuffers(t *testing.T) {
	b, be := newTestBatch(t, 10)
	h := b.Buffers()
	if be.sizes[h[BufferPosition]] != 10*12*4 {
		t.Errorf("position bytes = %d, want 480", be.sizes[h[BufferPosition]])
	}
	if be.sizes[h[BufferTexcoord]] != 10*12*4 {
		t.Errorf("texcoord bytes = %d, want 480", be.sizes[h[BufferTexcoord]])
	}
	if be.sizes[h[BufferTint]] != 10*24*4 {
		t.Errorf("tint bytes = %d, want 960", be.sizes[h[BufferTint]])
	}
}

// --- capacity ---

func TestCreateSpriteCapacity(t *testing.T) {
	const capacity = 4
	b, _ := newTestBatch(t, capacity)
	for want := 0; want < capacity; want++ {
		if got := addSprite(t, b, 0, 0); got != want {
			t.Fatalf("index = %d, want %d", got, want)
		}
	}
	idx, err := b.CreateSprite(Rect{0, 0, 10, 10}, Rect{0, 0, 16, 16}, NoTint)
	if !errors.Is(err, ErrBatchFull) {
		t.Fatalf("err = %v, want ErrBatchFull", err)
	}
	if idx != -1 {
		t.Errorf("index on full = %d, want -1", idx)
	}
	if b.Len() != capacity {
		t.Errorf("Len = %d, want %d", b.Len(), capacity)
	}
}

func TestCreateSpriteRejectsDegenerate(t *testing.T) {
	b, _ := newTestBatch(t, 4)
	tests := []struct {
		name     string
		dst, src Rect
		tint     Tint
		want     error
	}{
		{"zero dst width", Rect{0, 0, 0, 10}, Rect{0, 0, 16, 16}, NoTint, ErrInvalidGeometry},
		{"negative dst height", Rect{0, 0, 10, -1}, Rect{0, 0, 16, 16}, NoTint, ErrInvalidGeometry},
		{"zero src", Rect{0, 0, 10, 10}, Rect{0, 0, 0, 0}, NoTint, ErrInvalidGeometry},
		{"NaN dst width", Rect{0, 0, math.NaN(), 10}, Rect{0, 0, 16, 16}, NoTint, ErrInvalidGeometry},
		{"infinite dst width", Rect{0, 0, math.Inf(1), 10}, Rect{0, 0, 16, 16}, NoTint, ErrInvalidGeometry},
		{"NaN dst x", Rect{math.NaN(), 0, 10, 10}, Rect{0, 0, 16, 16}, NoTint, ErrInvalidGeometry},
		{"infinite src y", Rect{0, 0, 10, 10}, Rect{0, math.Inf(-1), 16, 16}, NoTint, ErrInvalidGeometry},
		{"tint weight > 1", Rect{0, 0, 10, 10}, Rect{0, 0, 16, 16}, Tint{1, 1, 1, 2}, ErrInvalidTint},
		{"negative tint", Rect{0, 0, 10, 10}, Rect{0, 0, 16, 16}, Tint{-1, 0, 0, 0}, ErrInvalidTint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.CreateSprite(tt.dst, tt.src, tt.tint)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if b.Len() != 0 || b.DirtyCount() != 0 {
				t.Errorf("batch mutated: Len=%d Dirty=%d", b.Len(), b.DirtyCount())
			}
		})
	}
}

func TestUpdateSpriteRejectsNonFinite(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 10, 20)
	if _, err := b.UploadDirty(); err != nil {
		t.Fatal(err)
	}
	before := slices.Clone(b.vertexData(BufferPosition, i))

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		if err := b.SetPosition(i, v, 0); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("SetPosition(%v) err = %v, want ErrInvalidGeometry", v, err)
		}
		if err := b.SetSize(i, 16, v); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("SetSize(%v) err = %v, want ErrInvalidGeometry", v, err)
		}
	}
	s, _ := b.Sprite(i)
	if s.Dst.X != 10 || s.Dst.Y != 20 {
		t.Errorf("sprite not restored: %+v", s.Dst)
	}
	if !slices.Equal(before, b.vertexData(BufferPosition, i)) {
		t.Error("vertices changed after a refused update")
	}
	if b.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0", b.DirtyCount())
	}
}

// --- vertex math ---

func TestUpdateSpriteVertexLayout(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	// 100x100 viewport: x 25..75 -> clip -0.5..0.5, y 0..50 -> clip 1..0
	i, err := b.CreateSprite(Rect{25, 0, 50, 50}, Rect{16, 32, 16, 32}, Tint{0.2, 0.4, 0.6, 0.5})
	if err != nil {
		t.Fatalf("CreateSprite: %v", err)
	}
	assertVertexNear(t, b.vertexData(BufferPosition, i),
		-0.5, 0, 0.5, 0, -0.5, 1,
		0.5, 0, 0.5, 1, -0.5, 1)
	// 64x64 atlas: u 0.25..0.5, v 0.5..1
	assertVertexNear(t, b.vertexData(BufferTexcoord, i),
		0.25, 1, 0.5, 1, 0.25, 0.5,
		0.5, 1, 0.5, 0.5, 0.25, 0.5)

	tints := b.vertexData(BufferTint, i)
	for v := 0; v < 6; v++ {
		assertVertexNear(t, tints[v*4:v*4+4], 0.2, 0.4, 0.6, 0.5)
	}
}

func TestUpdateSpriteAppliesBatchAndWorldOffset(t *testing.T) {
	world := NewWorld()
	be := newRecordingBackend()
	b, err := NewSpriteBatch(be, BatchOptions{
		Capacity: 1, AtlasWidth: 64, AtlasHeight: 64,
		ViewportWidth: 100, ViewportHeight: 100, World: world,
	})
	if err != nil {
		t.Fatalf("NewSpriteBatch: %v", err)
	}
	i := addSprite(t, b, 0, 0)

	b.SetOffset(10, 0)
	world.SetOffset(15, 50)
	// Staged only: nothing published yet.
	if err := b.UpdateSprite(i); err != nil {
		t.Fatalf("UpdateSprite: %v", err)
	}
	pos := b.vertexData(BufferPosition, i)
	assertVertexNear(t, pos[4:6], -0.8, 1) // left = 10/100*2-1, top = 1

	world.BeginFrame()
	if err := b.UpdateSprite(i); err != nil {
		t.Fatalf("UpdateSprite: %v", err)
	}
	assertVertexNear(t, pos[4:6], -0.5, 0) // left = 25/100*2-1, top = -50/100*2+1
}

func TestOffsetChangeDoesNotDirtyByDefault(t *testing.T) {
	b, _ := newTestBatch(t, 2)
	addSprite(t, b, 0, 0)
	addSprite(t, b, 20, 0)
	if _, err := b.UploadDirty(); err != nil {
		t.Fatalf("UploadDirty: %v", err)
	}
	before := slices.Clone(b.vertexData(BufferPosition, 0))

	b.SetOffset(30, 30)
	if b.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d after SetOffset, want 0", b.DirtyCount())
	}
	assertVertexNear(t, b.vertexData(BufferPosition, 0), before...)

	b.RefreshAll()
	if b.DirtyCount() != 2 {
		t.Errorf("DirtyCount = %d after RefreshAll, want 2", b.DirtyCount())
	}
}

func TestRefreshOnOffset(t *testing.T) {
	world := NewWorld()
	be := newRecordingBackend()
	b, err := NewSpriteBatch(be, BatchOptions{
		Capacity: 3, AtlasWidth: 64, AtlasHeight: 64,
		ViewportWidth: 100, ViewportHeight: 100,
		World: world, RefreshOnOffset: true,
	})
	if err != nil {
		t.Fatalf("NewSpriteBatch: %v", err)
	}
	for i := 0; i < 3; i++ {
		addSprite(t, b, float64(i*10), 0)
	}
	if _, err := b.UploadDirty(); err != nil {
		t.Fatalf("UploadDirty: %v", err)
	}

	world.SetOffset(5, 5)
	if !world.BeginFrame() {
		t.Fatal("BeginFrame should report a change")
	}
	if b.DirtyCount() != 3 {
		t.Fatalf("DirtyCount = %d, want 3", b.DirtyCount())
	}
	stats, err := b.UploadDirty()
	if err != nil {
		t.Fatalf("UploadDirty: %v", err)
	}
	if stats.Runs != 1 || stats.Writes != 3 {
		t.Errorf("stats = %+v, want one run, three writes", stats)
	}

	if world.BeginFrame() {
		t.Error("BeginFrame without a new offset should report no change")
	}
	if b.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0", b.DirtyCount())
	}
}

func TestDetachStopsOffsetRefresh(t *testing.T) {
	world := NewWorld()
	opts := BatchOptions{
		Capacity: 2, AtlasWidth: 64, AtlasHeight: 64,
		ViewportWidth: 100, ViewportHeight: 100,
		World: world, RefreshOnOffset: true,
	}
	kept, err := NewSpriteBatch(newRecordingBackend(), opts)
	if err != nil {
		t.Fatal(err)
	}
	dropped, err := NewSpriteBatch(newRecordingBackend(), opts)
	if err != nil {
		t.Fatal(err)
	}
	addSprite(t, kept, 0, 0)
	addSprite(t, dropped, 0, 0)
	_, _ = kept.UploadDirty()
	_, _ = dropped.UploadDirty()

	dropped.Detach()
	dropped.Detach()
	if len(world.watchers) != 1 || world.watchers[0] != kept {
		t.Fatalf("watchers = %v, want only the kept batch", world.watchers)
	}

	world.SetOffset(3, 0)
	world.BeginFrame()
	if kept.DirtyCount() != 1 {
		t.Errorf("kept DirtyCount = %d, want 1", kept.DirtyCount())
	}
	if dropped.DirtyCount() != 0 {
		t.Errorf("detached DirtyCount = %d, want 0", dropped.DirtyCount())
	}
}

func TestClearAdvancesGeneration(t *testing.T) {
	b, _ := newTestBatch(t, 2)
	if b.Generation() != 0 {
		t.Fatalf("Generation = %d, want 0", b.Generation())
	}
	addSprite(t, b, 0, 0)
	b.Clear()
	b.Clear()
	if b.Generation() != 2 {
		t.Errorf("Generation = %d, want 2", b.Generation())
	}
}

// --- dirty coalescing ---

func TestUploadDirtyCoalescesRuns(t *testing.T) {
	b, be := newTestBatch(t, 8)
	for i := 0; i < 3; i++ {
		addSprite(t, b, float64(i*10), 0)
	}
	stats, err := b.UploadDirty()
	if err != nil {
		t.Fatalf("UploadDirty: %v", err)
	}
	if b.DirtyCount() != 0 {
		t.Fatalf("DirtyCount = %d after upload, want 0", b.DirtyCount())
	}
	if stats.Runs != 1 || stats.Writes != 3 {
		t.Errorf("initial stats = %+v, want 1 run, 3 writes", stats)
	}

	be.writes = nil
	if err := b.UpdateSprite(0); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateSprite(2); err != nil {
		t.Fatal(err)
	}
	stats, err = b.UploadDirty()
	if err != nil {
		t.Fatalf("UploadDirty: %v", err)
	}
	if stats.Runs != 2 {
		t.Errorf("Runs = %d, want 2", stats.Runs)
	}

	h := b.Buffers()
	for kind := BufferPosition; kind <= BufferTint; kind++ {
		w := be.writesTo(h[kind])
		if len(w) != 2 {
			t.Fatalf("%s writes = %d, want 2", kind, len(w))
		}
		stride := kind.Stride()
		if w[0].offset != 0 || w[0].floats != stride {
			t.Errorf("%s first write = %+v, want offset 0, %d floats", kind, w[0], stride)
		}
		if w[1].offset != 2*stride*4 || w[1].floats != stride {
			t.Errorf("%s second write = %+v, want offset %d, %d floats", kind, w[1], 2*stride*4, stride)
		}
	}
}

func TestUploadDirtyMergesUnorderedRun(t *testing.T) {
	b, be := newTestBatch(t, 8)
	for i := 0; i < 6; i++ {
		addSprite(t, b, 0, 0)
	}
	if _, err := b.UploadDirty(); err != nil {
		t.Fatal(err)
	}
	be.writes = nil
	for _, i := range []int{4, 2, 3, 0, 3} {
		if err := b.UpdateSprite(i); err != nil {
			t.Fatal(err)
		}
	}
	if b.DirtyCount() != 4 {
		t.Errorf("DirtyCount = %d, want 4 (duplicates collapse)", b.DirtyCount())
	}
	stats, err := b.UploadDirty()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Runs != 2 || stats.Writes != 6 {
		t.Errorf("stats = %+v, want runs [0] and [2,4]", stats)
	}
	w := be.writesTo(b.Buffers()[BufferTint])
	if len(w) != 2 || w[1].offset != 2*24*4 || w[1].floats != 3*24 {
		t.Errorf("tint writes = %+v", w)
	}
}

func TestUploadDirtyEmptyIsNoop(t *testing.T) {
	b, be := newTestBatch(t, 2)
	stats, err := b.UploadDirty()
	if err != nil {
		t.Fatal(err)
	}
	if stats != (UploadStats{}) || len(be.writes) != 0 {
		t.Errorf("stats = %+v writes = %d, want none", stats, len(be.writes))
	}
}

func TestUploadDirtyKeepsSetOnBackendError(t *testing.T) {
	b, be := newTestBatch(t, 2)
	addSprite(t, b, 0, 0)
	be.failOn = b.Buffers()[BufferTint]
	be.failErr = errors.New("device lost")
	if _, err := b.UploadDirty(); err == nil {
		t.Fatal("expected backend error")
	}
	if b.DirtyCount() != 1 {
		t.Errorf("DirtyCount = %d, want 1", b.DirtyCount())
	}
	be.failErr = nil
	if _, err := b.UploadDirty(); err != nil {
		t.Fatal(err)
	}
	if b.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0", b.DirtyCount())
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		in   []int
		want []span
	}{
		{nil, nil},
		{[]int{5}, []span{{5, 5}}},
		{[]int{0, 2}, []span{{0, 0}, {2, 2}}},
		{[]int{3, 1, 2, 7, 8, 10}, []span{{1, 3}, {7, 8}, {10, 10}}},
	}
	for _, tt := range tests {
		got := coalesce(slices.Clone(tt.in))
		if !slices.Equal(got, tt.want) {
			t.Errorf("coalesce(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// --- isolation ---

func TestUpdateSpriteIsolation(t *testing.T) {
	b, _ := newTestBatch(t, 3)
	for i := 0; i < 3; i++ {
		addSprite(t, b, float64(i*20), float64(i*5))
	}
	snapshot := func(i int) [3][]float32 {
		return [3][]float32{
			slices.Clone(b.vertexData(BufferPosition, i)),
			slices.Clone(b.vertexData(BufferTexcoord, i)),
			slices.Clone(b.vertexData(BufferTint, i)),
		}
	}
	s0, s2 := snapshot(0), snapshot(2)

	if err := b.SetPosition(1, 70, 70); err != nil {
		t.Fatal(err)
	}
	if err := b.SetTint(1, Tint{1, 0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetSource(1, Rect{32, 32, 32, 32}); err != nil {
		t.Fatal(err)
	}

	for _, c := range []struct {
		i    int
		want [3][]float32
	}{{0, s0}, {2, s2}} {
		got := snapshot(c.i)
		for k := range got {
			if !slices.Equal(got[k], c.want[k]) {
				t.Errorf("sprite %d buffer %d changed", c.i, k)
			}
		}
	}
}

// --- UV round trip ---

func TestRegionUVRoundTrip(t *testing.T) {
	res, err := Pack([]ImageEntry{
		{Name: "grass", Width: 48, Height: 16},
		{Name: "tree", Width: 16, Height: 32},
		{Name: "rock", Width: 16, Height: 16},
	}, 16)
	if err != nil {
		t.Fatal(err)
	}
	lookup := NewAtlasLookup(res)
	w, h := lookup.Size()
	be := newRecordingBackend()
	b, err := NewSpriteBatch(be, BatchOptions{
		Capacity: 3, AtlasWidth: w, AtlasHeight: h,
		ViewportWidth: 320, ViewportHeight: 240,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range lookup.Names() {
		r, _ := lookup.Region(name)
		i, err := b.CreateSpriteFromRegion(7, 9, r, NoTint)
		if err != nil {
			t.Fatal(err)
		}
		uv := b.vertexData(BufferTexcoord, i)
		// (u0,v0) is vertex 2, (u1,v1) is vertex 1.
		if uv[4] != r.U0 || uv[5] != r.V0 || uv[2] != r.U1 || uv[3] != r.V1 {
			t.Errorf("%s: uv (%v,%v)-(%v,%v), region (%v,%v)-(%v,%v)",
				name, uv[4], uv[5], uv[2], uv[3], r.U0, r.V0, r.U1, r.V1)
		}
	}
}

// --- setters / errors ---

func TestUpdateSpriteOutOfRange(t *testing.T) {
	b, _ := newTestBatch(t, 2)
	addSprite(t, b, 0, 0)
	for _, i := range []int{-1, 1, 2} {
		if err := b.UpdateSprite(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("UpdateSprite(%d) err = %v, want ErrIndexOutOfRange", i, err)
		}
		if _, err := b.Sprite(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Sprite(%d) err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestSetSizeRejectsDegenerateAndRestores(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	if _, err := b.UploadDirty(); err != nil {
		t.Fatal(err)
	}
	if err := b.SetSize(i, 0, 10); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("err = %v, want ErrInvalidGeometry", err)
	}
	s, _ := b.Sprite(i)
	if s.Dst.Width != 10 {
		t.Errorf("Dst.Width = %v, want restored 10", s.Dst.Width)
	}
	if b.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0", b.DirtyCount())
	}
}

func TestSpritePointerMutation(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	s, err := b.Sprite(i)
	if err != nil {
		t.Fatal(err)
	}
	s.Dst.X = 50
	if err := b.UpdateSprite(i); err != nil {
		t.Fatal(err)
	}
	assertVertexNear(t, b.vertexData(BufferPosition, i)[:2], 0, 0.8)
}

// --- render ---

func TestRenderDrawsAllVertices(t *testing.T) {
	b, be := newTestBatch(t, 4)
	addSprite(t, b, 0, 0)
	addSprite(t, b, 10, 0)
	if err := b.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(be.draws) != 1 || be.draws[0] != 12 {
		t.Errorf("draws = %v, want [12]", be.draws)
	}
	if b.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0 after Render", b.DirtyCount())
	}
}

func TestRenderEmptyIsNoop(t *testing.T) {
	b, be := newTestBatch(t, 4)
	b.SetTexture(nil)
	if err := b.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(be.draws) != 0 {
		t.Errorf("draws = %v, want none", be.draws)
	}
}

func TestRenderMissingTexture(t *testing.T) {
	b, be := newTestBatch(t, 4)
	b.SetTexture(nil)
	addSprite(t, b, 0, 0)
	if err := b.Render(); !errors.Is(err, ErrMissingTexture) {
		t.Errorf("err = %v, want ErrMissingTexture", err)
	}
	if len(be.draws) != 0 {
		t.Errorf("draws = %v, want none", be.draws)
	}
}

func TestClearResetsCount(t *testing.T) {
	b, _ := newTestBatch(t, 2)
	addSprite(t, b, 0, 0)
	addSprite(t, b, 0, 0)
	b.Clear()
	if b.Len() != 0 || b.DirtyCount() != 0 {
		t.Errorf("Len=%d Dirty=%d, want 0/0", b.Len(), b.DirtyCount())
	}
	if got := addSprite(t, b, 0, 0); got != 0 {
		t.Errorf("index after Clear = %d, want 0", got)
	}
}
