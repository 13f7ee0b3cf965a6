package glbackend

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/phanxgames/tilebatch"
)

func TestCheckAlloc(t *testing.T) {
	tests := []struct {
		size int
		ok   bool
	}{
		{48, true},
		{4, true},
		{0, false},
		{-4, false},
		{6, false},
	}
	for _, tt := range tests {
		err := checkAlloc(tt.size)
		if (err == nil) != tt.ok {
			t.Errorf("checkAlloc(%d) = %v, want ok=%v", tt.size, err, tt.ok)
		}
	}
}

func TestCheckWrite(t *testing.T) {
	tab := newBufferTable()
	tab.add(7, tilebatch.BufferPosition, 96)

	tests := []struct {
		name   string
		h      tilebatch.BufferHandle
		offset int
		n      int
		ok     bool
	}{
		{"whole buffer", 7, 0, 24, true},
		{"tail", 7, 48, 12, true},
		{"overflow", 7, 52, 12, false},
		{"misaligned", 7, 2, 1, false},
		{"negative", 7, -4, 1, false},
		{"unknown handle", 8, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tab.checkWrite(tt.h, tt.offset, tt.n)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, tilebatch.ErrBufferRange) {
				t.Fatalf("err = %v, want ErrBufferRange", err)
			}
		})
	}
}

func TestCheckDraw(t *testing.T) {
	tab := newBufferTable()
	// Two sprites: 12 vertices.
	tab.add(1, tilebatch.BufferPosition, 2*tilebatch.BufferPosition.Stride()*floatSize)
	tab.add(2, tilebatch.BufferTexcoord, 2*tilebatch.BufferTexcoord.Stride()*floatSize)
	tab.add(3, tilebatch.BufferTint, 2*tilebatch.BufferTint.Stride()*floatSize)

	if err := tab.checkDraw([3]tilebatch.BufferHandle{1, 2, 3}, 12); err != nil {
		t.Fatalf("checkDraw: %v", err)
	}
	if err := tab.checkDraw([3]tilebatch.BufferHandle{1, 2, 3}, 18); !errors.Is(err, tilebatch.ErrBufferRange) {
		t.Errorf("oversized draw err = %v", err)
	}
	if err := tab.checkDraw([3]tilebatch.BufferHandle{2, 1, 3}, 6); !errors.Is(err, tilebatch.ErrBufferRange) {
		t.Errorf("swapped kinds err = %v", err)
	}
}

func TestToNRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 6, 5))
	src.Set(2, 3, color.RGBA{255, 0, 0, 255})
	n := toNRGBA(src)
	if n.Rect.Min != (image.Point{}) || n.Rect.Dx() != 4 || n.Rect.Dy() != 2 {
		t.Fatalf("rect = %v", n.Rect)
	}
	if got := n.NRGBAAt(0, 0); got.R != 255 || got.A != 255 {
		t.Errorf("origin pixel = %+v", got)
	}

	already := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if toNRGBA(already) != already {
		t.Error("packed NRGBA should be used as is")
	}
}

func TestShaderSources(t *testing.T) {
	for name, src := range map[string]string{"vertex": vertexShader, "fragment": fragmentShader} {
		if !strings.HasPrefix(src, "#version 330 core") {
			t.Errorf("%s shader missing version line", name)
		}
		if !strings.HasSuffix(src, "\x00") {
			t.Errorf("%s shader not NUL terminated", name)
		}
	}
	for _, loc := range []string{"location = 0", "location = 1", "location = 2"} {
		if !strings.Contains(vertexShader, loc) {
			t.Errorf("vertex shader missing %q", loc)
		}
	}
}

func TestTextureSize(t *testing.T) {
	var tex tilebatch.Texture = &Texture{ID: 1, W: 64, H: 32}
	if w, h := tex.Size(); w != 64 || h != 32 {
		t.Errorf("Size = %dx%d", w, h)
	}
}
