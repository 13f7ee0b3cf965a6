package tilebatch

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ImageEntry is one image to place, sized in pixels.
type ImageEntry struct {
	Name          string
	Width, Height int
}

// Placement is the position Pack chose for an entry, in both cell and pixel
// units. X = CellX*CellSize, Y = CellY*CellSize.
type Placement struct {
	Name         string
	CellX, CellY int
	X, Y         int
	Width        int
	Height       int
}

// SkippedImage records an entry Pack refused, with the reason.
type SkippedImage struct {
	Name string
	Err  error
}

// PackResult is the output of Pack. Width and Height are multiples of
// CellSize; Placements are in packing order (largest area first).
type PackResult struct {
	CellSize   int
	Width      int
	Height     int
	CellsW     int
	Rows       int
	Placements []Placement
	Skipped    []SkippedImage
}

// Placement returns the placement named name.
func (r PackResult) Placement(name string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.Name == name {
			return p, true
		}
	}
	return Placement{}, false
}

type cellEntry struct {
	ImageEntry
	wc, hc int
	order  int
}

// Pack places entries on a grid of cellSize squares using largest-first,
// first-fit shelf packing. The atlas is ceil(sqrt(total cells)) cells wide
// (at least as wide as the widest entry) and grows one row at a time until
// every entry fits. Entries whose size is not a positive multiple of
// cellSize are skipped and reported in PackResult.Skipped.
//
// The result is fully determined by the input order.
func Pack(entries []ImageEntry, cellSize int) (PackResult, error) {
	if cellSize <= 0 {
		return PackResult{}, fmt.Errorf("tilebatch: pack with cell size %d: %w", cellSize, ErrInvalidCellSize)
	}

	res := PackResult{CellSize: cellSize}
	valid := make([]cellEntry, 0, len(entries))
	totalCells, widest := 0, 0
	for i, e := range entries {
		if e.Width <= 0 || e.Height <= 0 || e.Width%cellSize != 0 || e.Height%cellSize != 0 {
			err := &DimensionError{Name: e.Name, Width: e.Width, Height: e.Height, CellSize: cellSize}
			logger.Warn("skipping image", "name", e.Name, "err", err)
			res.Skipped = append(res.Skipped, SkippedImage{Name: e.Name, Err: err})
			continue
		}
		ce := cellEntry{ImageEntry: e, wc: e.Width / cellSize, hc: e.Height / cellSize, order: i}
		totalCells += ce.wc * ce.hc
		widest = max(widest, ce.wc)
		valid = append(valid, ce)
	}
	if len(valid) == 0 {
		return res, fmt.Errorf("tilebatch: pack %d images: %w", len(entries), ErrNoValidImages)
	}

	cellsW := max(1, int(math.Ceil(math.Sqrt(float64(totalCells)))))
	cellsW = max(cellsW, widest)

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Width*valid[i].Height > valid[j].Width*valid[j].Height
	})

	g := &occupancy{w: cellsW}
	res.Placements = make([]Placement, 0, len(valid))
	for _, e := range valid {
		cx, cy := g.place(e.wc, e.hc)
		res.Placements = append(res.Placements, Placement{
			Name:   e.Name,
			CellX:  cx,
			CellY:  cy,
			X:      cx * cellSize,
			Y:      cy * cellSize,
			Width:  e.Width,
			Height: e.Height,
		})
	}

	res.CellsW = cellsW
	res.Rows = len(g.rows)
	res.Width = cellsW * cellSize
	res.Height = res.Rows * cellSize
	return res, nil
}

// occupancy is a boolean cell grid with a fixed width and growable rows.
type occupancy struct {
	w    int
	rows [][]bool
}

// place finds the first free wc x hc footprint, adding one row after every
// failed scan, marks it, and returns its cell origin.
func (g *occupancy) place(wc, hc int) (int, int) {
	for {
		if x, y, ok := g.scan(wc, hc); ok {
			g.mark(x, y, wc, hc)
			return x, y
		}
		g.rows = append(g.rows, make([]bool, g.w))
	}
}

func (g *occupancy) scan(wc, hc int) (int, int, bool) {
	maxY := max(0, len(g.rows)-hc)
	for y := 0; y <= maxY; y++ {
		for x := 0; x <= g.w-wc; x++ {
			if g.free(x, y, wc, hc) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// free reports whether the footprint is unoccupied. Cells below the last row
// do not exist yet and are never free.
func (g *occupancy) free(x, y, wc, hc int) bool {
	if y+hc > len(g.rows) {
		return false
	}
	for dy := 0; dy < hc; dy++ {
		row := g.rows[y+dy]
		for dx := 0; dx < wc; dx++ {
			if row[x+dx] {
				return false
			}
		}
	}
	return true
}

func (g *occupancy) mark(x, y, wc, hc int) {
	for dy := 0; dy < hc; dy++ {
		row := g.rows[y+dy]
		for dx := 0; dx < wc; dx++ {
			row[x+dx] = true
		}
	}
}

// IsDimensionError reports whether err is an image alignment rejection.
func IsDimensionError(err error) bool {
	var de *DimensionError
	return errors.As(err, &de)
}
