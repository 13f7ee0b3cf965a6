// tilegame runs and inspects a tile map rendered through tilebatch.
//
// Usage:
//
//	tilegame run                 - Open the game window (Ebitengine)
//	tilegame glview              - Open the game window (raw OpenGL)
//	tilegame pack                - Pack tile textures into an atlas PNG + JSON
//	tilegame map <png>           - Decode a color-coded map and report its colors
//	tilegame palette <png>       - Suggest a legend palette for an image
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.tilegame, ./configs, embedded)
//	--debug             - Enable debug mode (per-frame upload stats)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/tilebatch"
	"github.com/phanxgames/tilebatch/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDebug    bool
	flagLogLevel string

	// cfg is loaded once before any subcommand runs.
	cfg config.Config

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilegame",
	})
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilegame",
	Short: "Tile map renderer built on tilebatch",
	Long: `tilegame packs tile textures into a single atlas, decodes color-coded
map images into tiles and renders them through fixed-capacity sprite batches.

Examples:
  tilegame run
  tilegame run --config ./configs/tilegame.yaml --debug
  tilegame pack --out build/
  tilegame map assets/maps/level1.png
  tilegame palette assets/maps/level1.png --colors 8`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(glviewCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(paletteCmd)
}

// setup loads the config, applies flag overrides and configures logging.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flagDebug
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	level := log.InfoLevel
	if cfg.LogLevel != "" {
		if level, err = log.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	logger.SetLevel(level)

	lib := logger.WithPrefix("tilebatch")
	tilebatch.SetLogger(lib)
	if cfg.Debug {
		tilebatch.SetDebugMode(true)
		logger.SetLevel(log.DebugLevel)
	} else {
		lib.SetLevel(level)
	}
	logger.Debug("config loaded", "path", flagConfig, "tiles", len(cfg.Tiles))
	return nil
}
