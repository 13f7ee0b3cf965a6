// Package config loads the tilegame YAML configuration.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/phanxgames/tilebatch"
)

// Config is the full tilegame configuration.
type Config struct {
	Window   WindowConfig        `yaml:"window"`
	Atlas    AtlasConfig         `yaml:"atlas"`
	Batch    BatchConfig         `yaml:"batch"`
	Map      MapConfig           `yaml:"map"`
	Scroll   ScrollConfig        `yaml:"scroll"`
	HUD      HUDConfig           `yaml:"hud"`
	Bounce   BounceConfig        `yaml:"bounce"`
	Tiles    []tilebatch.TileDef `yaml:"tiles"`
	Legend   map[string]string   `yaml:"legend"`
	Script   string              `yaml:"script"`
	Debug    bool                `yaml:"debug"`
	LogLevel string              `yaml:"log_level"`
}

// WindowConfig sizes the game window.
type WindowConfig struct {
	Title  string  `yaml:"title"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// AtlasConfig controls loading and packing of tile textures.
type AtlasConfig struct {
	CellSize  int    `yaml:"cell_size"`
	ChunkSize int    `yaml:"chunk_size"`
	AssetsDir string `yaml:"assets_dir"`
	TilesDir  string `yaml:"tiles_dir"` // relative to AssetsDir
	DumpPath  string `yaml:"dump_path"` // write the packed atlas here when set
}

// BatchConfig sizes the tile batch.
type BatchConfig struct {
	Capacity        int  `yaml:"capacity"`
	RefreshOnOffset bool `yaml:"refresh_on_offset"`
}

// MapConfig locates the color-coded level image.
type MapConfig struct {
	Path      string `yaml:"path"` // relative to Atlas.AssetsDir
	TileSize  int    `yaml:"tile_size"`
	Tolerance int    `yaml:"tolerance"` // squared RGB distance for near matches
}

// ScrollConfig tunes camera movement.
type ScrollConfig struct {
	Speed        float64 `yaml:"speed"`         // pixels per second
	EaseDuration float32 `yaml:"ease_duration"` // seconds per ScrollTo
	PixelSnap    bool    `yaml:"pixel_snap"`
}

// HUDConfig configures the overlay text. An empty FontPath selects the
// built-in 5x3 font.
type HUDConfig struct {
	FontPath string  `yaml:"font_path"`
	FontSize float64 `yaml:"font_size"`
	Scale    int     `yaml:"scale"`
	Color    string  `yaml:"color"`
}

// BounceConfig adds free-moving sprites on top of the map.
type BounceConfig struct {
	Sprites int     `yaml:"sprites"`
	Speed   float64 `yaml:"speed"`
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Scale < 0 {
		errs = append(errs, fmt.Errorf("window: scale %v must not be negative", c.Window.Scale))
	}
	if c.Atlas.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("atlas: cell_size %d must be positive", c.Atlas.CellSize))
	}
	if c.Atlas.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("atlas: chunk_size %d must not be negative", c.Atlas.ChunkSize))
	}
	if c.Batch.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("batch: capacity %d must be positive", c.Batch.Capacity))
	}
	if c.Map.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("map: tile_size %d must be positive", c.Map.TileSize))
	}
	if c.Map.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("map: tolerance %d must not be negative", c.Map.Tolerance))
	}
	if c.Scroll.Speed < 0 || c.Scroll.EaseDuration < 0 {
		errs = append(errs, fmt.Errorf("scroll: speed and ease_duration must not be negative"))
	}
	if c.HUD.Scale < 0 {
		errs = append(errs, fmt.Errorf("hud: scale %d must not be negative", c.HUD.Scale))
	}
	if c.HUD.Color != "" {
		if _, err := tilebatch.ParseHexColor(c.HUD.Color); err != nil {
			errs = append(errs, fmt.Errorf("hud: %w", err))
		}
	}
	if c.Bounce.Sprites < 0 {
		errs = append(errs, fmt.Errorf("bounce: sprites %d must not be negative", c.Bounce.Sprites))
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}
	if _, err := c.BuildRegistry(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BuildRegistry registers every tile in order and then adds the extra
// legend colors, sorted by color for a stable result.
func (c *Config) BuildRegistry() (*tilebatch.Registry, error) {
	reg := tilebatch.NewRegistry()
	for _, def := range c.Tiles {
		if err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("tiles: %w", err)
		}
	}
	colors := make([]string, 0, len(c.Legend))
	for hex := range c.Legend {
		colors = append(colors, hex)
	}
	sort.Strings(colors)
	for _, hex := range colors {
		name := strings.TrimSpace(c.Legend[hex])
		if name == "" {
			return nil, fmt.Errorf("legend: color %s has no tile name", hex)
		}
		if err := reg.MapColor(hex, name); err != nil {
			return nil, fmt.Errorf("legend: %w", err)
		}
	}
	return reg, nil
}
