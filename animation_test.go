package tilebatch

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	b, _ := newTestBatch(t, 2)
	i := addSprite(t, b, 10, 20)

	g, err := TweenPosition(b, i, 100, 200, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}

	// Exact halves avoid float32 accumulation drift.
	if err := g.Update(0.5); err != nil {
		t.Fatal(err)
	}
	if err := g.Update(0.5); err != nil {
		t.Fatal(err)
	}

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	s, _ := b.Sprite(i)
	if math.Abs(s.Dst.X-100) > 0.5 || math.Abs(s.Dst.Y-200) > 0.5 {
		t.Errorf("Dst = (%f,%f), want ~(100,200)", s.Dst.X, s.Dst.Y)
	}
}

func TestTweenMarksSpriteDirty(t *testing.T) {
	b, _ := newTestBatch(t, 3)
	for k := 0; k < 3; k++ {
		addSprite(t, b, 0, 0)
	}
	if _, err := b.UploadDirty(); err != nil {
		t.Fatal(err)
	}
	g, err := TweenSize(b, 1, 40, 40, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Update(0.25); err != nil {
		t.Fatal(err)
	}
	if b.DirtyCount() != 1 {
		t.Errorf("DirtyCount = %d, want 1", b.DirtyCount())
	}
	s, _ := b.Sprite(1)
	if math.Abs(s.Dst.Width-17.5) > 0.01 {
		t.Errorf("Width = %f, want 17.5", s.Dst.Width)
	}
}

func TestTweenTintAllComponents(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i, err := b.CreateSprite(Rect{0, 0, 8, 8}, Rect{0, 0, 8, 8}, Tint{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	target := Tint{0, 1, 0.5, 0.5}

	g, err := TweenTint(b, i, target, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Update(0.5)
	_ = g.Update(0.5)

	s, _ := b.Sprite(i)
	got := s.Tint
	if math.Abs(float64(got.R-target.R)) > 0.01 ||
		math.Abs(float64(got.G-target.G)) > 0.01 ||
		math.Abs(float64(got.B-target.B)) > 0.01 ||
		math.Abs(float64(got.Weight-target.Weight)) > 0.01 {
		t.Errorf("Tint = %+v, want ~%+v", got, target)
	}
	tints := b.vertexData(BufferTint, i)
	if tints[len(tints)-1] != got.Weight {
		t.Errorf("tint buffer weight = %v, want %v", tints[len(tints)-1], got.Weight)
	}
}

func TestTweenTintWeightClampsOvershoot(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	g, err := TweenTintWeight(b, i, 1, 1.0, ease.OutElastic)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 10; k++ {
		if err := g.Update(0.1); err != nil {
			t.Fatalf("step %d: %v", k, err)
		}
		s, _ := b.Sprite(i)
		if s.Tint.Weight < 0 || s.Tint.Weight > 1 {
			t.Fatalf("step %d: weight %v out of range", k, s.Tint.Weight)
		}
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	g, err := TweenPosition(b, i, 50, 0, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Update(0.5)
	if g.Done {
		t.Fatal("Done should be false at midpoint")
	}
	_ = g.Update(0.5)
	if !g.Done {
		t.Fatal("Done should be true at end")
	}
	s, _ := b.Sprite(i)
	x := s.Dst.X
	_ = g.Update(0.5)
	if s.Dst.X != x {
		t.Error("Update after Done should not change the sprite")
	}
}

func TestTweenGroupStopsWhenBatchCleared(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	g, err := TweenPosition(b, i, 50, 50, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Update(0.1)
	b.Clear()
	if err := g.Update(0.1); err != nil {
		t.Fatalf("Update after Clear: %v", err)
	}
	if !g.Done {
		t.Fatal("expected Done after batch cleared")
	}
}

func TestTweenSizeToZeroIsRefused(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	g, err := TweenSize(b, i, 0, 0, 1.0, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Update(0.5)
	if err := g.Update(0.5); err == nil {
		t.Fatal("expected ErrInvalidGeometry at zero size")
	}
	s, _ := b.Sprite(i)
	if s.Dst.Width <= 0 {
		t.Errorf("Width = %v, want previous valid size kept", s.Dst.Width)
	}
}

func TestTweenOutOfRange(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	if _, err := TweenPosition(b, 0, 1, 1, 1, nil); err == nil {
		t.Error("expected error for missing sprite")
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	b, _ := newTestBatch(t, 2)
	l := addSprite(t, b, 0, 0)
	c := addSprite(t, b, 0, 0)

	gL, _ := TweenPosition(b, l, 100, 0, 1.0, ease.Linear)
	gC, _ := TweenPosition(b, c, 100, 0, 1.0, ease.OutCubic)
	_ = gL.Update(0.5)
	_ = gC.Update(0.5)

	sl, _ := b.Sprite(l)
	sc, _ := b.Sprite(c)
	if math.Abs(sl.Dst.X-sc.Dst.X) < 1.0 {
		t.Errorf("easing curves should differ at midpoint: linear=%f cubic=%f", sl.Dst.X, sc.Dst.X)
	}
}

func TestTweenGroupUpdateZeroAlloc(t *testing.T) {
	b, _ := newTestBatch(t, 1)
	i := addSprite(t, b, 0, 0)
	g, _ := TweenPosition(b, i, 100, 100, 1.0, ease.Linear)

	// Warm up; the first call may grow the dirty list.
	_ = g.Update(0.01)

	result := testing.AllocsPerRun(100, func() {
		_ = g.Update(0.001)
	})
	if result > 0 {
		t.Errorf("TweenGroup.Update allocated %f times per run, want 0", result)
	}
}
