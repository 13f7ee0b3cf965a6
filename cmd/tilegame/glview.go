package main

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/phanxgames/tilebatch"
	"github.com/phanxgames/tilebatch/glbackend"
)

var flagVSync bool

var glviewCmd = &cobra.Command{
	Use:   "glview",
	Short: "Open the game window with the raw OpenGL backend",
	RunE:  runGLView,
}

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
	glviewCmd.Flags().BoolVar(&flagVSync, "vsync", true, "Wait for vertical sync")
}

func runGLView(cmd *cobra.Command, _ []string) error {
	a, err := loadAssets(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	win, err := glbackend.OpenWindow(glbackend.WindowConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  flagVSync,
	})
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer win.Destroy()
	logger.Info("opengl", "version", glbackend.Version())

	backend, err := glbackend.New()
	if err != nil {
		return err
	}
	defer backend.Delete()
	tex := glbackend.NewTexture(a.atlas.Image)
	defer tex.Delete()

	world := tilebatch.NewWorld()
	cam := tilebatch.NewCamera(world, float64(cfg.Window.Width), float64(cfg.Window.Height))

	var batches []*tilebatch.SpriteBatch
	newBatch := func(opts tilebatch.BatchOptions, fixed bool) (*tilebatch.SpriteBatch, error) {
		opts.ViewportWidth, opts.ViewportHeight = cfg.Window.Width, cfg.Window.Height
		if !fixed {
			opts.World = world
		}
		b, err := tilebatch.NewSpriteBatch(backend, opts)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
		return b, nil
	}

	sc, err := buildScene(cfg, a, tex, world, cam, newBatch, true, false)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	last := glfw.GetTime()
	for !win.ShouldClose() && ctx.Err() == nil {
		glfw.PollEvents()
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		world.BeginFrame()
		cam.Update(dt)
		if err := sc.update(dt); err != nil {
			return err
		}

		backend.ResetStats()
		backend.Clear(tilebatch.DefaultClearColor.R, tilebatch.DefaultClearColor.G, tilebatch.DefaultClearColor.B)
		for _, b := range batches {
			if err := b.Render(); err != nil {
				return err
			}
			if up := b.LastUpload(); up.Sprites > 0 {
				logger.Debug("upload", "sprites", up.Sprites, "writes", up.Writes, "draws", backend.DrawCalls())
			}
		}
		win.SwapBuffers()
	}
	return nil
}
