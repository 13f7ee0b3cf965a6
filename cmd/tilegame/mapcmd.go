package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tilebatch"
)

var flagTop int

var mapCmd = &cobra.Command{
	Use:   "map <png>",
	Short: "Decode a color-coded map and report tile counts and unmapped colors",
	Args:  cobra.ExactArgs(1),
	RunE:  runMap,
}

func init() {
	mapCmd.Flags().IntVar(&flagTop, "top", 10, "Unmapped colors to list")
}

func runMap(cmd *cobra.Command, args []string) error {
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return err
	}
	path := args[0]
	src := tilebatch.FSSource{FS: os.DirFS(filepath.Dir(path))}
	tm, err := decodeMap(cmd.Context(), src, filepath.Base(path), reg, cfg.Map.Tolerance)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, cell := range tm.Cells {
		counts[cell.Tile]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %dx%d, %d tiles\n", path, tm.Width, tm.Height, len(tm.Cells))
	for _, n := range names {
		fmt.Fprintf(out, "  %-14s %6d\n", n, counts[n])
	}

	unmapped := tm.Unmapped()
	if len(unmapped) == 0 {
		return nil
	}
	fmt.Fprintf(out, "unmapped colors (%d):\n", len(unmapped))
	for _, u := range firstN(unmapped, flagTop) {
		fmt.Fprintf(out, "  %s %6d  first at (%d,%d)\n", u.Color.Hex(), u.Count, u.FirstX, u.FirstY)
	}
	return nil
}
