package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tilebatch"
)

var (
	flagScript     string
	flagNoHUD      bool
	flagScreenshot string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the game window with the Ebitengine backend",
	RunE:  runGame,
}

func init() {
	runCmd.Flags().StringVar(&flagScript, "script", "", "JSON script to run instead of auto-scrolling (overrides config)")
	runCmd.Flags().BoolVar(&flagNoHUD, "no-hud", false, "Hide the FPS overlay")
	runCmd.Flags().StringVar(&flagScreenshot, "screenshots", "", "Directory for script screenshots")
}

func runGame(cmd *cobra.Command, _ []string) error {
	a, err := loadAssets(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	g, err := tilebatch.NewGame(tilebatch.GameConfig{
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		ScreenshotDir: flagScreenshot,
	})
	if err != nil {
		return err
	}

	scriptPath := cfg.Script
	if flagScript != "" {
		scriptPath = flagScript
	}

	tex := tilebatch.NewEbitenTexture(a.atlas.Image)
	sc, err := buildScene(cfg, a, tex, g.World, g.Camera, g.NewBatch, scriptPath == "", !flagNoHUD)
	if err != nil {
		return err
	}
	g.AddSystem(tilebatch.SystemFunc(sc.update))
	if sc.fps != nil {
		g.AddSystem(tilebatch.NewFPSCounter(sc.fps))
	}

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := tilebatch.LoadScript(data)
		if err != nil {
			return fmt.Errorf("script %s: %w", scriptPath, err)
		}
		g.SetScriptRunner(runner)
		logger.Info("script loaded", "path", scriptPath)
	}

	logger.Info("starting", "size", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height),
		"sprites", sc.tiles.Len(), "batches", len(g.Batches()))
	return tilebatch.Run(g, tilebatch.RunConfig{Title: cfg.Window.Title, Scale: cfg.Window.Scale})
}
