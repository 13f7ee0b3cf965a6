package tilebatch

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// RGB is an opaque 8-bit color used to classify map pixels.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses "#RRGGBB" (case-insensitive, leading # optional).
func ParseHexColor(s string) (RGB, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("tilebatch: color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("tilebatch: color %q: %w", s, err)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Hex formats the color as "#RRGGBB" in upper case.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// dist2 is the squared RGB distance between two colors.
func (c RGB) dist2(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// TileDef describes a tile kind: its texture frames, the map legend color
// that places it, and an optional sprite size overriding the region size.
type TileDef struct {
	Name     string   `yaml:"name"`
	Textures []string `yaml:"textures"`
	Color    string   `yaml:"color,omitempty"`
	Width    int      `yaml:"width,omitempty"`
	Height   int      `yaml:"height,omitempty"`
}

// Registry holds tile definitions and the color legend used by DecodeMap.
type Registry struct {
	defs    map[string]TileDef
	order   []string
	byColor map[RGB]string
	colors  []RGB
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]TileDef),
		byColor: make(map[RGB]string),
	}
}

// Register adds a tile. Names must be non-empty and unique; a color, when
// given, must parse as #RRGGBB and is added to the legend.
func (r *Registry) Register(def TileDef) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("tilebatch: register tile: empty name")
	}
	if _, dup := r.defs[def.Name]; dup {
		return fmt.Errorf("tilebatch: register tile %q: already registered", def.Name)
	}
	if def.Width < 0 || def.Height < 0 {
		return fmt.Errorf("tilebatch: register tile %q: size %dx%d: %w",
			def.Name, def.Width, def.Height, ErrInvalidGeometry)
	}
	if def.Color != "" {
		if err := r.MapColor(def.Color, def.Name); err != nil {
			return err
		}
	}
	def.Textures = append([]string(nil), def.Textures...)
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MapColor adds a legend entry mapping hex to name. The name need not be a
// registered tile; such cells decode but spawn with a placeholder region.
func (r *Registry) MapColor(hex, name string) error {
	c, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	if _, ok := r.byColor[c]; !ok {
		r.colors = append(r.colors, c)
	}
	r.byColor[c] = name
	return nil
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (TileDef, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns tile names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tiles.
func (r *Registry) Len() int { return len(r.order) }

// ByColor returns the tile mapped to c exactly.
func (r *Registry) ByColor(c RGB) (string, bool) {
	n, ok := r.byColor[c]
	return n, ok
}

// Nearest returns the tile whose legend color is closest to c, provided its
// squared distance is at most tolerance. Ties go to the color registered
// first.
func (r *Registry) Nearest(c RGB, tolerance int) (string, bool) {
	if n, ok := r.byColor[c]; ok {
		return n, true
	}
	if tolerance <= 0 {
		return "", false
	}
	best, bestD := RGB{}, -1
	for _, lc := range r.colors {
		d := c.dist2(lc)
		if d <= tolerance && (bestD < 0 || d < bestD) {
			best, bestD = lc, d
		}
	}
	if bestD < 0 {
		return "", false
	}
	return r.byColor[best], true
}

// FrameName returns the atlas name of frame i of a tile with n frames: the
// tile name itself for single-frame tiles, "name#i" otherwise.
func FrameName(name string, i, n int) string {
	if n <= 1 {
		return name
	}
	return name + "#" + strconv.Itoa(i)
}

// Frames returns the atlas names of every frame of tile name.
func (r *Registry) Frames(name string) ([]string, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("tilebatch: frames of %q: %w", name, ErrUnknownTile)
	}
	out := make([]string, len(d.Textures))
	for i := range d.Textures {
		out[i] = FrameName(name, i, len(d.Textures))
	}
	return out, nil
}

// Requests lists one image request per tile frame, in registration order,
// with texture paths resolved under dir.
func (r *Registry) Requests(dir string) []ImageRequest {
	var out []ImageRequest
	for _, name := range r.order {
		d := r.defs[name]
		for i, tex := range d.Textures {
			out = append(out, ImageRequest{
				Name: FrameName(name, i, len(d.Textures)),
				Path: path.Clean(path.Join(dir, tex)),
			})
		}
	}
	return out
}
