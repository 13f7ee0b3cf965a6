package tilebatch

import (
	"fmt"
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// font5x3 holds the built-in HUD font: five rows of three bits, MSB left.
var font5x3 = map[rune][5]uint8{
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
	'.': {0b000, 0b000, 0b000, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	':': {0b000, 0b010, 0b000, 0b010, 0b000},
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b010, 0b100, 0b100},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'M': {0b101, 0b111, 0b111, 0b101, 0b101},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'S': {0b111, 0b100, 0b111, 0b001, 0b111},
	'm': {0b000, 0b000, 0b110, 0b101, 0b101},
}

// GlyphName returns the atlas name of the glyph for r.
func GlyphName(r rune) string {
	return "glyph:" + string(r)
}

// GlyphSet is a rasterized font ready to be packed: one cell-aligned image
// per rune plus the metrics a Label needs to lay text out.
type GlyphSet struct {
	Images     map[string]image.Image
	Advance    map[rune]int
	LineHeight int
}

// AddTo copies the glyph images into images, typically the input of NewAtlas.
func (g *GlyphSet) AddTo(images map[string]image.Image) {
	for name, img := range g.Images {
		images[name] = img
	}
}

// padToCell rounds n up to a positive multiple of cell.
func padToCell(n, cell int) int {
	if n <= 0 {
		return cell
	}
	return (n + cell - 1) / cell * cell
}

// BuiltinGlyphs rasterizes the 5x3 HUD font with each font pixel scaled to
// scale x scale, glyph images padded to cellSize multiples.
func BuiltinGlyphs(cellSize, scale int, fg color.NRGBA) (*GlyphSet, error) {
	if cellSize <= 0 || scale <= 0 {
		return nil, fmt.Errorf("tilebatch: builtin glyphs cell %d scale %d: %w", cellSize, scale, ErrInvalidGeometry)
	}
	gs := &GlyphSet{
		Images:     make(map[string]image.Image, len(font5x3)),
		Advance:    make(map[rune]int, len(font5x3)),
		LineHeight: 6 * scale,
	}
	w, h := padToCell(3*scale, cellSize), padToCell(5*scale, cellSize)
	for r, rows := range font5x3 {
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y, bits := range rows {
			for x := 0; x < 3; x++ {
				if bits>>(2-x)&1 == 0 {
					continue
				}
				px := image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale)
				draw.Draw(img, px, image.NewUniform(fg), image.Point{}, draw.Src)
			}
		}
		gs.Images[GlyphName(r)] = img
		gs.Advance[r] = 4 * scale
	}
	return gs, nil
}

// RasterizeGlyphs renders runes from a TrueType font at size points (72 DPI).
// A nil fontBytes uses Go Mono. Space is always included.
func RasterizeGlyphs(fontBytes []byte, size float64, runes []rune, cellSize int, fg color.NRGBA) (*GlyphSet, error) {
	if cellSize <= 0 || size <= 0 {
		return nil, fmt.Errorf("tilebatch: rasterize glyphs cell %d size %v: %w", cellSize, size, ErrInvalidGeometry)
	}
	if fontBytes == nil {
		fontBytes = gomono.TTF
	}
	tt, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("tilebatch: parse ttf: %w", err)
	}
	face := truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer func() { _ = face.Close() }()

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	gs := &GlyphSet{
		Images:     make(map[string]image.Image, len(runes)+1),
		Advance:    make(map[rune]int, len(runes)+1),
		LineHeight: m.Height.Ceil(),
	}

	for _, r := range append([]rune{' '}, runes...) {
		if _, done := gs.Advance[r]; done {
			continue
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			logger.Debug("font has no glyph", "rune", string(r))
			continue
		}
		w := max(1, adv.Ceil())
		img := image.NewNRGBA(image.Rect(0, 0, padToCell(w, cellSize), padToCell(height, cellSize)))
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fg),
			Face: face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(string(r))
		gs.Images[GlyphName(r)] = img
		gs.Advance[r] = adv.Ceil()
	}
	return gs, nil
}

// Label renders a string into a fixed run of batch sprites. All capacity
// slots are created up front so SetText never grows the batch; unused slots
// show the space glyph.
type Label struct {
	batch  *SpriteBatch
	lookup *AtlasLookup
	glyphs *GlyphSet
	first  int
	slots  int
	x, y   float64
	tint   Tint
	text   string
}

// NewLabel reserves capacity sprites in batch at (x, y). The atlas must
// contain the space glyph.
func NewLabel(batch *SpriteBatch, lookup *AtlasLookup, glyphs *GlyphSet, x, y float64, capacity int, tint Tint) (*Label, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("tilebatch: label capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	space, ok := lookup.Region(GlyphName(' '))
	if !ok {
		return nil, fmt.Errorf("tilebatch: label needs %q: %w", GlyphName(' '), ErrUnknownTile)
	}
	if batch.Cap()-batch.Len() < capacity {
		return nil, fmt.Errorf("tilebatch: label of %d glyphs: %w", capacity, ErrBatchFull)
	}
	l := &Label{
		batch:  batch,
		lookup: lookup,
		glyphs: glyphs,
		first:  batch.Len(),
		slots:  capacity,
		x:      x,
		y:      y,
		tint:   tint,
	}
	for i := 0; i < capacity; i++ {
		if _, err := batch.CreateSpriteFromRegion(x, y, space, tint); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Text returns the text last set.
func (l *Label) Text() string { return l.text }

// Cap returns the number of glyph slots.
func (l *Label) Cap() int { return l.slots }

// SetText lays s out left to right; '\n' starts a new line. Runes past the
// label capacity are dropped and runes missing from the atlas render as
// spaces. Only slots whose glyph or position changed are updated.
func (l *Label) SetText(s string) error {
	if s == l.text {
		return nil
	}
	l.text = s
	space, _ := l.lookup.Region(GlyphName(' '))

	slot := 0
	cx, cy := l.x, l.y
	for i := 0; i < len(s) && slot < l.slots; {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == '\n' {
			cx = l.x
			cy += float64(l.glyphs.LineHeight)
			continue
		}
		reg, ok := l.lookup.Region(GlyphName(r))
		adv, hasAdv := l.glyphs.Advance[r]
		if !ok || !hasAdv {
			reg, adv = space, l.glyphs.Advance[' ']
		}
		if err := l.place(slot, cx, cy, reg); err != nil {
			return err
		}
		cx += float64(adv)
		slot++
	}
	if n := utf8.RuneCountInString(s); n > l.slots {
		logger.Debug("label text truncated", "runes", n, "capacity", l.slots)
	}
	for ; slot < l.slots; slot++ {
		if err := l.place(slot, l.x, l.y, space); err != nil {
			return err
		}
	}
	return nil
}

func (l *Label) place(slot int, x, y float64, r Region) error {
	i := l.first + slot
	s, err := l.batch.Sprite(i)
	if err != nil {
		return err
	}
	dst := Rect{X: x, Y: y, Width: float64(r.W), Height: float64(r.H)}
	if s.Dst == dst && s.Src == r.Rect() && s.Tint == l.tint {
		return nil
	}
	s.Dst, s.Src, s.Tint = dst, r.Rect(), l.tint
	return l.batch.UpdateSprite(i)
}

// SetTint recolors every glyph of the label.
func (l *Label) SetTint(t Tint) error {
	if !t.Valid() {
		return fmt.Errorf("tilebatch: label tint: %w", ErrInvalidTint)
	}
	l.tint = t
	for i := 0; i < l.slots; i++ {
		if err := l.batch.SetTint(l.first+i, t); err != nil {
			return err
		}
	}
	return nil
}
