package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/tilebatch"
	"github.com/phanxgames/tilebatch/ecs"
	"github.com/phanxgames/tilebatch/internal/config"
)

// batchFactory creates a batch on whichever backend the window uses. Fixed
// batches ignore the world offset.
type batchFactory func(opts tilebatch.BatchOptions, fixed bool) (*tilebatch.SpriteBatch, error)

// scene is the tile map plus everything that moves it.
type scene struct {
	tiles   *tilebatch.SpriteBatch
	hud     *tilebatch.SpriteBatch
	fps     *tilebatch.Label
	systems []tilebatch.System
}

func (s *scene) update(dt float32) error {
	for _, sys := range s.systems {
		if err := sys.Update(dt); err != nil {
			return err
		}
	}
	return nil
}

// buildScene spawns the map into a tile batch and wires the animation,
// scrolling, bounce and HUD systems. The HUD is skipped when withHUD is false.
func buildScene(c config.Config, a *assets, tex tilebatch.Texture, world *tilebatch.World, cam *tilebatch.Camera, newBatch batchFactory, autoScroll, withHUD bool) (*scene, error) {
	aw, ah := a.atlas.Lookup.Size()
	tiles, err := newBatch(tilebatch.BatchOptions{
		Capacity:        c.Batch.Capacity,
		AtlasWidth:      aw,
		AtlasHeight:     ah,
		Texture:         tex,
		RefreshOnOffset: c.Batch.RefreshOnOffset,
	}, false)
	if err != nil {
		return nil, err
	}
	spawned, err := tilebatch.SpawnTiles(tiles, a.atlas.Lookup, a.reg, a.tileMap, c.Map.TileSize)
	if err != nil {
		return nil, err
	}
	if spawned.Skipped > 0 {
		logger.Warn("map larger than batch capacity", "capacity", c.Batch.Capacity, "skipped", spawned.Skipped)
	}

	s := &scene{tiles: tiles}
	if !c.Batch.RefreshOnOffset {
		s.systems = append(s.systems, &offsetRefresher{world: world, batch: tiles})
	}

	anim := tilebatch.NewTileAnimator(tiles, a.atlas.Lookup, a.reg, spawned.Tiles, 0)
	if anim.Len() > 0 {
		s.systems = append(s.systems, animSystem(anim))
	}

	cam.PixelSnap = c.Scroll.PixelSnap
	cam.SetBounds(mapBounds(a.tileMap, c.Map.TileSize))
	if autoScroll {
		s.systems = append(s.systems, newPingPong(cam, mapBounds(a.tileMap, c.Map.TileSize), c.Scroll))
	}

	if c.Bounce.Sprites > 0 {
		mw, err := spawnBouncers(c, a, tiles, cam)
		if err != nil {
			return nil, err
		}
		s.systems = append(s.systems, mw)
	}

	if withHUD && a.glyphs != nil {
		hud, err := newBatch(tilebatch.BatchOptions{
			Capacity:    16,
			AtlasWidth:  aw,
			AtlasHeight: ah,
			Texture:     tex,
		}, true)
		if err != nil {
			return nil, err
		}
		label, err := tilebatch.NewLabel(hud, a.atlas.Lookup, a.glyphs, 4, 4, 16, tilebatch.NoTint)
		if err != nil {
			return nil, fmt.Errorf("hud: %w", err)
		}
		s.hud, s.fps = hud, label
	}
	return s, nil
}

// animSystem drives a TileAnimator from the frame delta.
func animSystem(anim *tilebatch.TileAnimator) tilebatch.SystemFunc {
	var elapsed time.Duration
	return func(dt float32) error {
		elapsed += time.Duration(float64(dt) * float64(time.Second))
		return anim.Update(elapsed)
	}
}

// offsetRefresher re-emits a batch after the published world offset moves,
// for batches created without RefreshOnOffset.
type offsetRefresher struct {
	world *tilebatch.World
	batch *tilebatch.SpriteBatch
	last  tilebatch.Vec2
}

func (r *offsetRefresher) Update(float32) error {
	if off := r.world.Offset(); off != r.last {
		r.last = off
		r.batch.RefreshAll()
	}
	return nil
}

// pingPong scrolls the camera between the left and right edges of the map.
type pingPong struct {
	cam     *tilebatch.Camera
	targetX float64
	maxX    float64
	speed   float64
	fixed   float32
}

func newPingPong(cam *tilebatch.Camera, bounds tilebatch.Rect, sc config.ScrollConfig) *pingPong {
	return &pingPong{
		cam:   cam,
		maxX:  math.Max(0, bounds.Width-cam.Viewport.X),
		speed: sc.Speed,
		fixed: sc.EaseDuration,
	}
}

func (p *pingPong) Update(float32) error {
	if p.maxX == 0 || p.cam.Scrolling() {
		return nil
	}
	if p.targetX == 0 {
		p.targetX = p.maxX
	} else {
		p.targetX = 0
	}
	dur := p.fixed
	if p.speed > 0 {
		dur = float32(math.Abs(p.targetX-p.cam.X) / p.speed)
	}
	p.cam.ScrollTo(p.targetX, p.cam.Y, dur, ease.InOutSine)
	return nil
}

// spawnBouncers adds c.Bounce.Sprites free-moving copies of the first
// registered tile, driven by an ecs.MotionWorld.
func spawnBouncers(c config.Config, a *assets, tiles *tilebatch.SpriteBatch, cam *tilebatch.Camera) (*ecs.MotionWorld, error) {
	names := a.reg.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("bounce: registry is empty")
	}
	frames, err := a.reg.Frames(names[0])
	if err != nil {
		return nil, err
	}
	region, ok := a.atlas.Lookup.Region(frames[0])
	if !ok {
		return nil, fmt.Errorf("bounce: %q not in atlas", frames[0])
	}

	mw := ecs.NewMotionWorld(cam.Viewport.X, cam.Viewport.Y)
	rng := rand.New(rand.NewPCG(1, uint64(c.Bounce.Sprites)))
	for range c.Bounce.Sprites {
		x := rng.Float64() * (cam.Viewport.X - region.Rect().Width)
		y := rng.Float64() * (cam.Viewport.Y - region.Rect().Height)
		idx, err := tiles.CreateSpriteFromRegion(x, y, region, tilebatch.NoTint)
		if err != nil {
			return nil, fmt.Errorf("bounce: %w", err)
		}
		angle := rng.Float64() * 2 * math.Pi
		vx, vy := math.Cos(angle)*c.Bounce.Speed, math.Sin(angle)*c.Bounce.Speed
		if _, err := ecs.SpawnMover(mw.World, tiles, idx, vx, vy); err != nil {
			return nil, err
		}
	}
	logger.Info("bouncers spawned", "count", mw.Movers())
	return mw, nil
}
