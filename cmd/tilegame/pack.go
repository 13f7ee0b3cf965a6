package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tilebatch"
)

var flagOut string

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack tile textures and HUD glyphs into atlas.png and atlas.json",
	RunE:  runPack,
}

func init() {
	packCmd.Flags().StringVarP(&flagOut, "out", "o", ".", "Output directory")
}

func runPack(cmd *cobra.Command, _ []string) error {
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	glyphs, err := loadGlyphs(cfg)
	if err != nil {
		return err
	}
	atlas, err := buildAtlas(cmd.Context(), cfg, reg, glyphs)
	if err != nil {
		return err
	}

	pngPath := filepath.Join(flagOut, "atlas.png")
	if err := tilebatch.WriteAtlasPNG(pngPath, atlas); err != nil {
		return err
	}

	jsonPath := filepath.Join(flagOut, "atlas.json")
	f, err := os.Create(jsonPath)
	if err != nil {
		return err
	}
	if err := tilebatch.EncodeAtlasJSON(f, atlas.Lookup, filepath.Base(pngPath)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	w, h := atlas.Lookup.Size()
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d regions into %dx%d (cell %d)\n",
		atlas.Lookup.Len(), w, h, atlas.Lookup.CellSize())
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n", pngPath, jsonPath)
	return nil
}
