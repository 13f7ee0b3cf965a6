package tilebatch

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// FPSCounter is a System that writes the current frame rate into a Label
// roughly every half second.
type FPSCounter struct {
	label    *Label
	interval float32
	acc      float32

	// rate is ebiten.ActualFPS outside tests.
	rate func() float64
}

// NewFPSCounter reports into label, which needs room for "FPS: 000.0".
func NewFPSCounter(label *Label) *FPSCounter {
	return &FPSCounter{label: label, interval: 0.5, acc: 0.5, rate: ebiten.ActualFPS}
}

// Update implements System.
func (f *FPSCounter) Update(dt float32) error {
	f.acc += dt
	if f.acc < f.interval {
		return nil
	}
	f.acc = 0
	return f.label.SetText(fmt.Sprintf("FPS: %.1f", f.rate()))
}
