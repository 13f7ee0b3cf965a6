package tilebatch

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"sort"

	"golang.org/x/image/draw"
)

// Region is a named rectangle of the atlas with its normalized texture
// coordinates. UVs are produced by texCoord, the same function SpriteBatch
// uses, so a sprite sourced from a Region carries exactly these values.
type Region struct {
	Name           string
	X, Y, W, H     int
	U0, V0, U1, V1 float32

	// Placeholder is set on regions returned by MustRegion for unknown names.
	Placeholder bool
}

// Rect returns the pixel rectangle of the region as a source Rect.
func (r Region) Rect() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), Width: float64(r.W), Height: float64(r.H)}
}

// texCoord normalizes a pixel coordinate against a texture dimension.
func texCoord(px float64, size int) float32 {
	return float32(px / float64(size))
}

func newRegion(name string, x, y, w, h, atlasW, atlasH int) Region {
	return Region{
		Name: name,
		X:    x, Y: y, W: w, H: h,
		U0: texCoord(float64(x), atlasW),
		V0: texCoord(float64(y), atlasH),
		U1: texCoord(float64(x+w), atlasW),
		V1: texCoord(float64(y+h), atlasH),
	}
}

// PlaceholderTint paints placeholder regions solid magenta.
var PlaceholderTint = Tint{1, 0, 1, 1}

// AtlasLookup maps image names to atlas regions. It is read-only after
// construction and safe for concurrent readers.
type AtlasLookup struct {
	width, height int
	cellSize      int
	regions       map[string]Region
	names         []string
}

// NewAtlasLookup builds the lookup table for a packing result.
func NewAtlasLookup(res PackResult) *AtlasLookup {
	a := &AtlasLookup{
		width:    res.Width,
		height:   res.Height,
		cellSize: res.CellSize,
		regions:  make(map[string]Region, len(res.Placements)),
	}
	for _, p := range res.Placements {
		a.add(newRegion(p.Name, p.X, p.Y, p.Width, p.Height, res.Width, res.Height))
	}
	a.sortNames()
	return a
}

func (a *AtlasLookup) add(r Region) {
	if _, dup := a.regions[r.Name]; !dup {
		a.names = append(a.names, r.Name)
	}
	a.regions[r.Name] = r
}

func (a *AtlasLookup) sortNames() { sort.Strings(a.names) }

// Region returns the region for name.
func (a *AtlasLookup) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// MustRegion returns the region for name. Unknown names log at debug level
// and yield a placeholder covering the first atlas cell; draw it with
// PlaceholderTint.
func (a *AtlasLookup) MustRegion(name string) Region {
	if r, ok := a.regions[name]; ok {
		return r
	}
	logger.Debug("atlas region not found, using placeholder", "name", name)
	c := max(1, a.cellSize)
	r := newRegion(name, 0, 0, min(c, a.width), min(c, a.height), a.width, a.height)
	r.Placeholder = true
	return r
}

// Names returns all region names in sorted order.
func (a *AtlasLookup) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Len returns the number of regions.
func (a *AtlasLookup) Len() int { return len(a.regions) }

// Size returns the atlas size in pixels.
func (a *AtlasLookup) Size() (w, h int) { return a.width, a.height }

// CellSize returns the packing cell size, or 0 when unknown.
func (a *AtlasLookup) CellSize() int { return a.cellSize }

// Atlas bundles a composed atlas image with its lookup table.
type Atlas struct {
	Image  *image.NRGBA
	Lookup *AtlasLookup
	Result PackResult
}

// Compose copies every placed image into a new atlas canvas. Each image must
// match its placement size exactly.
func Compose(res PackResult, images map[string]image.Image) (*image.NRGBA, error) {
	dst := image.NewNRGBA(image.Rect(0, 0, res.Width, res.Height))
	for _, p := range res.Placements {
		src, ok := images[p.Name]
		if !ok {
			return nil, fmt.Errorf("tilebatch: compose: no image for %q", p.Name)
		}
		b := src.Bounds()
		if b.Dx() != p.Width || b.Dy() != p.Height {
			return nil, fmt.Errorf("tilebatch: compose %q: image is %dx%d, placement is %dx%d: %w",
				p.Name, b.Dx(), b.Dy(), p.Width, p.Height, ErrInvalidDimension)
		}
		r := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.Draw(dst, r, src, b.Min, draw.Src)
	}
	return dst, nil
}

// NewAtlas packs and composes images in one step.
func NewAtlas(images map[string]image.Image, cellSize int) (*Atlas, error) {
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	// Map iteration order is random; packing must not be.
	sort.Strings(names)
	return newAtlasOrdered(names, images, cellSize)
}

// newAtlasOrdered packs images in the order given by names.
func newAtlasOrdered(names []string, images map[string]image.Image, cellSize int) (*Atlas, error) {
	entries := make([]ImageEntry, 0, len(names))
	for _, name := range names {
		b := images[name].Bounds()
		entries = append(entries, ImageEntry{Name: name, Width: b.Dx(), Height: b.Dy()})
	}
	res, err := Pack(entries, cellSize)
	if err != nil {
		return nil, err
	}
	img, err := Compose(res, images)
	if err != nil {
		return nil, err
	}
	return &Atlas{Image: img, Lookup: NewAtlasLookup(res), Result: res}, nil
}

// --- JSON interchange (TexturePacker hash format) ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonMeta struct {
	Image    string   `json:"image"`
	Size     jsonSize `json:"size"`
	CellSize int      `json:"cellSize,omitempty"`
}

type jsonAtlas struct {
	Frames   map[string]jsonFrame `json:"frames"`
	Textures json.RawMessage      `json:"textures,omitempty"`
	Meta     jsonMeta             `json:"meta"`
}

// EncodeAtlasJSON writes the lookup in TexturePacker hash format, readable by
// LoadAtlasLookup and by TexturePacker-compatible tools.
func EncodeAtlasJSON(w io.Writer, a *AtlasLookup, imageName string) error {
	doc := jsonAtlas{
		Frames: make(map[string]jsonFrame, a.Len()),
		Meta: jsonMeta{
			Image:    imageName,
			Size:     jsonSize{W: a.width, H: a.height},
			CellSize: a.cellSize,
		},
	}
	for name, r := range a.regions {
		doc.Frames[name] = jsonFrame{
			Frame:            jsonRect{X: r.X, Y: r.Y, W: r.W, H: r.H},
			SpriteSourceSize: jsonRect{W: r.W, H: r.H},
			SourceSize:       jsonSize{W: r.W, H: r.H},
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("tilebatch: failed to encode atlas JSON: %w", err)
	}
	return nil
}

// LoadAtlasLookup parses TexturePacker hash-format JSON. The atlas size is
// read from meta.size; multi-page ("textures") documents are rejected.
func LoadAtlasLookup(data []byte) (*AtlasLookup, error) {
	var doc jsonAtlas
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tilebatch: failed to parse atlas JSON: %w", err)
	}
	if doc.Textures != nil {
		return nil, fmt.Errorf("tilebatch: multi-page atlas JSON is not supported")
	}
	if doc.Frames == nil {
		return nil, fmt.Errorf("tilebatch: atlas JSON has no \"frames\" key")
	}
	if doc.Meta.Size.W <= 0 || doc.Meta.Size.H <= 0 {
		return nil, fmt.Errorf("tilebatch: atlas JSON meta size %dx%d: %w",
			doc.Meta.Size.W, doc.Meta.Size.H, ErrInvalidGeometry)
	}
	a := &AtlasLookup{
		width:    doc.Meta.Size.W,
		height:   doc.Meta.Size.H,
		cellSize: doc.Meta.CellSize,
		regions:  make(map[string]Region, len(doc.Frames)),
	}
	for name, f := range doc.Frames {
		a.add(newRegion(name, f.Frame.X, f.Frame.Y, f.Frame.W, f.Frame.H, a.width, a.height))
	}
	a.sortNames()
	return a, nil
}
