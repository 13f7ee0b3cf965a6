package tilebatch

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultClearColor is the grass green drawn behind every frame.
var DefaultClearColor = color.RGBA{R: 106, G: 166, B: 110, A: 255}

// System is anything advanced once per frame with the frame delta in seconds.
// Systems mutate sprites; uploads happen when the game draws.
type System interface {
	Update(dt float32) error
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(dt float32) error

// Update calls f(dt).
func (f SystemFunc) Update(dt float32) error { return f(dt) }

// GameConfig configures NewGame.
type GameConfig struct {
	// Width and Height are the logical canvas size in pixels.
	Width, Height int
	// ClearColor fills the screen before batches draw. The zero value
	// selects DefaultClearColor.
	ClearColor color.RGBA
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string
}

// Game drives a set of sprite batches through Ebitengine. Each tick it
// publishes the world offset, runs the camera, systems and tweens, and each
// draw renders every batch in creation order onto the screen.
type Game struct {
	World   *World
	Camera  *Camera
	Backend *EbitenBackend

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	width, height int
	clear         color.RGBA

	batches []*SpriteBatch
	systems []System
	tweens  []*TweenGroup
	runner  *ScriptRunner

	screenshotQueue []string

	stats   FrameStats
	drawErr error
	quit    bool
}

// ErrQuit is returned from Update once Quit was called, ending RunGame
// without reporting a failure.
var ErrQuit = errors.New("tilebatch: quit")

// NewGame returns a game with its own world, camera and Ebitengine backend.
func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("tilebatch: new game %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidGeometry)
	}
	bg := cfg.ClearColor
	if bg == (color.RGBA{}) {
		bg = DefaultClearColor
	}
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	w := NewWorld()
	return &Game{
		World:         w,
		Camera:        NewCamera(w, float64(cfg.Width), float64(cfg.Height)),
		Backend:       NewEbitenBackend(),
		ScreenshotDir: dir,
		width:         cfg.Width,
		height:        cfg.Height,
		clear:         bg,
	}, nil
}

// NewBatch creates a batch on the game's backend and adds it to the draw
// list. Zero viewport fields default to the game canvas; a nil World joins
// the game world unless fixed is true, which gives the batch a world of its
// own (for HUD layers that never scroll).
func (g *Game) NewBatch(opts BatchOptions, fixed bool) (*SpriteBatch, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = g.width
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = g.height
	}
	if opts.World == nil && !fixed {
		opts.World = g.World
	}
	b, err := NewSpriteBatch(g.Backend, opts)
	if err != nil {
		return nil, err
	}
	g.batches = append(g.batches, b)
	return b, nil
}

// RemoveBatch detaches b from the world and drops it from the draw list.
func (g *Game) RemoveBatch(b *SpriteBatch) {
	b.Detach()
	g.batches = slices.DeleteFunc(g.batches, func(x *SpriteBatch) bool { return x == b })
}

// Batches returns the draw list. The returned slice must not be mutated.
func (g *Game) Batches() []*SpriteBatch { return g.batches }

// AddSystem appends s to the per-frame update list.
func (g *Game) AddSystem(s System) {
	g.systems = append(g.systems, s)
}

// AddTween runs tw every frame until it is done.
func (g *Game) AddTween(tw *TweenGroup) {
	g.tweens = append(g.tweens, tw)
}

// SetScriptRunner attaches a script runner stepped at the start of every
// Update.
func (g *Game) SetScriptRunner(r *ScriptRunner) {
	g.runner = r
}

// Stats returns the metrics of the last drawn frame.
func (g *Game) Stats() FrameStats { return g.stats }

// Quit makes the next Update return ErrQuit.
func (g *Game) Quit() { g.quit = true }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	return g.step(float32(1.0 / float64(ebiten.TPS())))
}

// step runs one logic frame of dt seconds.
func (g *Game) step(dt float32) error {
	if g.drawErr != nil {
		err := g.drawErr
		g.drawErr = nil
		return err
	}
	if g.quit {
		return ErrQuit
	}

	g.World.BeginFrame()

	if g.runner != nil {
		if err := g.runner.step(g); err != nil {
			return err
		}
	}

	g.Camera.Update(dt)

	for _, s := range g.systems {
		if err := s.Update(dt); err != nil {
			return err
		}
	}

	live := g.tweens[:0]
	for _, tw := range g.tweens {
		if err := tw.Update(dt); err != nil {
			return err
		}
		if !tw.Done {
			live = append(live, tw)
		}
	}
	clear(g.tweens[len(live):])
	g.tweens = live
	return nil
}

// Draw implements ebiten.Game. A render failure is returned from the next
// Update since Draw cannot report errors.
func (g *Game) Draw(screen *ebiten.Image) {
	t0 := time.Now()
	screen.Fill(g.clear)

	g.Backend.SetTarget(screen)
	g.Backend.ResetStats()

	stats := FrameStats{Frame: g.World.Frame()}
	for _, b := range g.batches {
		if err := b.Render(); err != nil {
			logger.Error("render batch", "err", err)
			if g.drawErr == nil {
				g.drawErr = err
			}
			continue
		}
		stats.addUpload(b.LastUpload())
		stats.Batches++
		stats.Vertices += b.Len() * verticesPerSprite
	}
	stats.DrawCalls = g.Backend.DrawCalls()
	stats.Elapsed = time.Since(t0)
	g.stats = stats
	stats.debugLog()

	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game with a fixed logical canvas.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title string
	// Scale multiplies the canvas size for the window size. Zero means 1.
	Scale float64
}

// Run opens a window and runs g until the window closes or Quit is called.
func Run(g *Game, cfg RunConfig) error {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(int(float64(g.width)*scale), int(float64(g.height)*scale))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ErrQuit) {
		return err
	}
	return nil
}
