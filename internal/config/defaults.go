package config

import (
	_ "embed"

	"github.com/phanxgames/tilebatch"
)

//go:embed defaults/tilegame.yaml
var defaultYAML []byte

// Default returns the built-in configuration without any tiles.
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "tilegame", Width: 640, Height: 480, Scale: 1},
		Atlas: AtlasConfig{
			CellSize:  16,
			ChunkSize: tilebatch.DefaultChunkSize,
			AssetsDir: "assets",
			TilesDir:  "tiles",
		},
		Batch:    BatchConfig{Capacity: 4096, RefreshOnOffset: true},
		Map:      MapConfig{Path: "maps/level1.png", TileSize: 16},
		Scroll:   ScrollConfig{Speed: 240, EaseDuration: 0.6, PixelSnap: true},
		HUD:      HUDConfig{FontSize: 12, Scale: 2, Color: "#F0F0F0"},
		Bounce:   BounceConfig{Speed: 120},
		LogLevel: "info",
	}
}
