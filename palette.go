package tilebatch

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

// PaletteEntry is a dominant color and the number of pixels closest to it.
type PaletteEntry struct {
	Color RGB
	Count int
}

// SuggestPalette reduces img to at most n colors with median cut and returns
// them by pixel count, most frequent first. Fully transparent pixels are
// ignored when counting. It is meant for authoring a map legend.
func SuggestPalette(img image.Image, n int) ([]PaletteEntry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("tilebatch: suggest palette of %d colors", n)
	}
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, n), img)
	if len(pal) == 0 {
		return nil, nil
	}

	counts := make([]int, len(pal))
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			counts[pal.Index(c)]++
		}
	}

	out := make([]PaletteEntry, 0, len(pal))
	for i, c := range pal {
		if counts[i] == 0 {
			continue
		}
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		out = append(out, PaletteEntry{Color: RGB{nc.R, nc.G, nc.B}, Count: counts[i]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}
