package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/phanxgames/tilebatch"
	"github.com/phanxgames/tilebatch/internal/config"
)

// hudRunes are the characters the HUD labels need.
const hudRunes = " FPS:0123456789.-"

// assets is everything a window needs before it picks a backend.
type assets struct {
	reg     *tilebatch.Registry
	glyphs  *tilebatch.GlyphSet
	atlas   *tilebatch.Atlas
	tileMap *tilebatch.TileMap
}

func hudColor(c config.Config) (color.NRGBA, error) {
	if c.HUD.Color == "" {
		return color.NRGBA{240, 240, 240, 255}, nil
	}
	rgb, err := tilebatch.ParseHexColor(c.HUD.Color)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{rgb.R, rgb.G, rgb.B, 255}, nil
}

// loadGlyphs rasterizes the HUD font: the TrueType file at HUD.FontPath when
// set, the built-in 5x3 font otherwise.
func loadGlyphs(c config.Config) (*tilebatch.GlyphSet, error) {
	fg, err := hudColor(c)
	if err != nil {
		return nil, err
	}
	if c.HUD.FontPath == "" {
		scale := max(c.HUD.Scale, 1)
		return tilebatch.BuiltinGlyphs(c.Atlas.CellSize, scale, fg)
	}
	data, err := os.ReadFile(c.HUD.FontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return tilebatch.RasterizeGlyphs(data, c.HUD.FontSize, []rune(hudRunes), c.Atlas.CellSize, fg)
}

// buildAtlas packs every tile frame plus the HUD glyphs and optionally dumps
// the result.
func buildAtlas(ctx context.Context, c config.Config, reg *tilebatch.Registry, glyphs *tilebatch.GlyphSet) (*tilebatch.Atlas, error) {
	extra := make(map[string]image.Image)
	if glyphs != nil {
		glyphs.AddTo(extra)
	}
	start := time.Now()
	atlas, loaded, err := tilebatch.BuildAtlas(ctx, assetSource(c), reg, tilebatch.AtlasOptions{
		CellSize:  c.Atlas.CellSize,
		ChunkSize: c.Atlas.ChunkSize,
		Dir:       c.Atlas.TilesDir,
		Extra:     extra,
	})
	if err != nil {
		return nil, err
	}
	if len(loaded.Failed) > 0 {
		logger.Warn("some tile textures failed to load", "failed", loaded.FailedNames())
	}
	logger.Debug("atlas ready", "elapsed", time.Since(start))

	if c.Atlas.DumpPath != "" {
		if err := tilebatch.WriteAtlasPNG(c.Atlas.DumpPath, atlas); err != nil {
			return nil, err
		}
		logger.Info("atlas written", "path", c.Atlas.DumpPath)
	}
	return atlas, nil
}

func assetSource(c config.Config) tilebatch.FSSource {
	return tilebatch.FSSource{FS: os.DirFS(c.Atlas.AssetsDir)}
}

// loadImage decodes a single image through the same loader as the atlas.
func loadImage(ctx context.Context, src tilebatch.ImageSource, path string) (image.Image, error) {
	res, err := tilebatch.LoadImages(ctx, src, []tilebatch.ImageRequest{{Name: path, Path: path}}, 1)
	if err != nil {
		return nil, err
	}
	if len(res.Failed) > 0 {
		return nil, res.Failed[0].Err
	}
	return res.Images[0].Image, nil
}

func decodeMap(ctx context.Context, src tilebatch.ImageSource, path string, reg *tilebatch.Registry, tolerance int) (*tilebatch.TileMap, error) {
	img, err := loadImage(ctx, src, path)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}
	return tilebatch.DecodeMap(img, reg, tilebatch.MapOptions{Tolerance: tolerance})
}

func loadAssets(ctx context.Context, c config.Config) (*assets, error) {
	reg, err := c.BuildRegistry()
	if err != nil {
		return nil, err
	}
	glyphs, err := loadGlyphs(c)
	if err != nil {
		return nil, err
	}
	atlas, err := buildAtlas(ctx, c, reg, glyphs)
	if err != nil {
		return nil, err
	}
	tm, err := decodeMap(ctx, assetSource(c), c.Map.Path, reg, c.Map.Tolerance)
	if err != nil {
		return nil, err
	}
	logger.Info("map decoded", "size", fmt.Sprintf("%dx%d", tm.Width, tm.Height), "cells", len(tm.Cells))
	for _, u := range firstN(tm.Unmapped(), 5) {
		logger.Warn("unmapped map color", "color", u.Color.Hex(), "count", u.Count)
	}
	return &assets{reg: reg, glyphs: glyphs, atlas: atlas, tileMap: tm}, nil
}

func firstN[T any](s []T, n int) []T {
	return s[:min(len(s), n)]
}

// mapBounds is the map's extent in pixels.
func mapBounds(tm *tilebatch.TileMap, tileSize int) tilebatch.Rect {
	return tilebatch.Rect{
		Width:  float64(tm.Width * tileSize),
		Height: float64(tm.Height * tileSize),
	}
}
