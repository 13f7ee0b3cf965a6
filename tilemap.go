package tilebatch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"time"
)

// DefaultEmptyThreshold is the channel value above which a map pixel counts
// as blank background when every channel exceeds it.
const DefaultEmptyThreshold = 250

// MapCell is one decoded map pixel that names a tile.
type MapCell struct {
	X, Y int
	Tile string
}

// UnmappedColor tallies a map color with no legend entry.
type UnmappedColor struct {
	Color          RGB
	Count          int
	FirstX, FirstY int
}

// TileMap is the decoded content of a color-coded map image.
type TileMap struct {
	Width, Height int
	Cells         []MapCell

	unmapped map[RGB]int // index into list
	list     []UnmappedColor
}

// Unmapped returns every unmapped color, most frequent first. Ties keep
// first-seen order.
func (m *TileMap) Unmapped() []UnmappedColor {
	out := append([]UnmappedColor(nil), m.list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MapOptions configures DecodeMap.
type MapOptions struct {
	// Tolerance is the largest squared RGB distance accepted when a color
	// has no exact legend entry. Zero requires exact matches.
	Tolerance int
	// EmptyThreshold overrides DefaultEmptyThreshold when non-zero.
	EmptyThreshold uint8
}

// DecodeMap classifies every pixel of img against the registry legend.
// Near-white and fully transparent pixels are empty. Colors matching no
// legend entry, exactly or within opts.Tolerance, are tallied and reported
// by TileMap.Unmapped.
func DecodeMap(img image.Image, reg *Registry, opts MapOptions) (*TileMap, error) {
	if img == nil || reg == nil {
		return nil, errors.New("tilebatch: decode map: nil image or registry")
	}
	threshold := opts.EmptyThreshold
	if threshold == 0 {
		threshold = DefaultEmptyThreshold
	}

	b := img.Bounds()
	tm := &TileMap{
		Width:    b.Dx(),
		Height:   b.Dy(),
		unmapped: make(map[RGB]int),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 || (c.R > threshold && c.G > threshold && c.B > threshold) {
				continue
			}
			px, py := x-b.Min.X, y-b.Min.Y
			rgb := RGB{c.R, c.G, c.B}
			name, ok := reg.Nearest(rgb, opts.Tolerance)
			if !ok {
				tm.tally(rgb, px, py)
				continue
			}
			tm.Cells = append(tm.Cells, MapCell{X: px, Y: py, Tile: name})
		}
	}

	logger.Info("map decoded",
		"size", fmt.Sprintf("%dx%d", tm.Width, tm.Height),
		"cells", len(tm.Cells),
		"unmapped", len(tm.list))
	for i, u := range tm.Unmapped() {
		if i == 5 {
			break
		}
		logger.Debug("unmapped color", "color", u.Color.Hex(), "count", u.Count, "first", fmt.Sprintf("%d,%d", u.FirstX, u.FirstY))
	}
	return tm, nil
}

func (m *TileMap) tally(c RGB, x, y int) {
	if i, ok := m.unmapped[c]; ok {
		m.list[i].Count++
		return
	}
	m.unmapped[c] = len(m.list)
	m.list = append(m.list, UnmappedColor{Color: c, Count: 1, FirstX: x, FirstY: y})
}

// SpawnedTile links a batch sprite to the map cell it came from.
type SpawnedTile struct {
	Index int
	Cell  MapCell
}

// SpawnStats summarizes a SpawnTiles call.
type SpawnStats struct {
	Created      int
	Skipped      int
	Placeholders int
	Tiles        []SpawnedTile
	Upload       UploadStats
}

// SpawnTiles creates one sprite per map cell at (x*tileSize, y*tileSize)
// showing the first frame of its tile, then uploads the batch. Cells whose
// region is missing use a tileSize placeholder at the atlas origin. Cells
// refused by the batch (full or degenerate) are counted as skipped.
func SpawnTiles(batch *SpriteBatch, lookup *AtlasLookup, reg *Registry, tm *TileMap, tileSize int) (SpawnStats, error) {
	var stats SpawnStats
	if tileSize <= 0 {
		return stats, fmt.Errorf("tilebatch: spawn tiles with tile size %d: %w", tileSize, ErrInvalidGeometry)
	}

	ts := float64(tileSize)
	for i, cell := range tm.Cells {
		frame := cell.Tile
		var def TileDef
		if reg != nil {
			if d, ok := reg.Lookup(cell.Tile); ok {
				def = d
				frame = FrameName(cell.Tile, 0, len(d.Textures))
			}
		}

		dst := Rect{X: float64(cell.X) * ts, Y: float64(cell.Y) * ts}
		var src Rect
		if r, ok := lookup.Region(frame); ok {
			src = r.Rect()
			dst.Width, dst.Height = src.Width, src.Height
		} else {
			logger.Warn("atlas region missing, using placeholder", "tile", cell.Tile, "cell", i)
			src = Rect{Width: ts, Height: ts}
			dst.Width, dst.Height = ts, ts
			stats.Placeholders++
		}
		if def.Width > 0 {
			dst.Width = float64(def.Width)
		}
		if def.Height > 0 {
			dst.Height = float64(def.Height)
		}

		idx, err := batch.CreateSprite(dst, src, NoTint)
		if errors.Is(err, ErrBatchFull) {
			stats.Skipped += len(tm.Cells) - i
			logger.Warn("batch full, remaining tiles skipped", "skipped", len(tm.Cells)-i)
			break
		}
		if err != nil {
			stats.Skipped++
			continue
		}
		stats.Created++
		stats.Tiles = append(stats.Tiles, SpawnedTile{Index: idx, Cell: cell})
	}

	up, err := batch.UploadDirty()
	stats.Upload = up
	if err != nil {
		return stats, err
	}
	logger.Info("tiles spawned", "created", stats.Created, "skipped", stats.Skipped, "placeholders", stats.Placeholders)
	return stats, nil
}

// DefaultFrameDuration is how long each frame of an animated tile shows.
const DefaultFrameDuration = 150 * time.Millisecond

type animTrack struct {
	index  int
	frames []Region
}

// TileAnimator cycles the frames of multi-texture tiles on a shared clock,
// so every instance of a tile shows the same frame.
type TileAnimator struct {
	batch    *SpriteBatch
	frameDur time.Duration
	tracks   []animTrack
	frame    int
}

// NewTileAnimator collects the spawned tiles that have more than one frame in
// lookup. A non-positive frameDur uses DefaultFrameDuration.
func NewTileAnimator(batch *SpriteBatch, lookup *AtlasLookup, reg *Registry, spawned []SpawnedTile, frameDur time.Duration) *TileAnimator {
	if frameDur <= 0 {
		frameDur = DefaultFrameDuration
	}
	a := &TileAnimator{batch: batch, frameDur: frameDur}
	cache := make(map[string][]Region)
	for _, st := range spawned {
		frames, ok := cache[st.Cell.Tile]
		if !ok {
			names, err := reg.Frames(st.Cell.Tile)
			if err == nil && len(names) > 1 {
				for _, n := range names {
					if r, ok := lookup.Region(n); ok {
						frames = append(frames, r)
					}
				}
			}
			if len(frames) < 2 {
				frames = nil
			}
			cache[st.Cell.Tile] = frames
		}
		if frames != nil {
			a.tracks = append(a.tracks, animTrack{index: st.Index, frames: frames})
		}
	}
	return a
}

// Len returns the number of animated sprites.
func (a *TileAnimator) Len() int { return len(a.tracks) }

// Update selects the frame for elapsed time since start and re-sources every
// animated sprite whose frame changed.
func (a *TileAnimator) Update(elapsed time.Duration) error {
	elapsed = max(elapsed, 0)
	frame := int(elapsed / a.frameDur)
	if frame == a.frame {
		return nil
	}
	a.frame = frame
	for _, tr := range a.tracks {
		if err := a.batch.SetRegion(tr.index, tr.frames[frame%len(tr.frames)]); err != nil {
			return err
		}
	}
	return nil
}
