package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tilebatch"
)

var flagColors int

var paletteCmd = &cobra.Command{
	Use:   "palette <png>",
	Short: "Suggest legend colors for a map image",
	Args:  cobra.ExactArgs(1),
	RunE:  runPalette,
}

func init() {
	paletteCmd.Flags().IntVarP(&flagColors, "colors", "n", 8, "Number of colors")
}

func runPalette(cmd *cobra.Command, args []string) error {
	path := args[0]
	src := tilebatch.FSSource{FS: os.DirFS(filepath.Dir(path))}
	img, err := loadImage(cmd.Context(), src, filepath.Base(path))
	if err != nil {
		return err
	}
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	pal, err := tilebatch.SuggestPalette(img, flagColors)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range pal {
		tile := "-"
		if name, ok := reg.Nearest(e.Color, cfg.Map.Tolerance); ok {
			tile = name
		}
		fmt.Fprintf(out, "%s %8d  %s\n", e.Color.Hex(), e.Count, tile)
	}
	return nil
}
