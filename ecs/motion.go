package ecs

import (
	"fmt"
	"math"

	"github.com/phanxgames/tilebatch"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// VelocityData is a mover's speed in canvas pixels per second.
type VelocityData struct {
	VX, VY float64
}

// SpriteRefData points a mover at one sprite of a batch. Gen is the batch
// generation at spawn time; after a Clear the index no longer names the
// same sprite.
type SpriteRefData struct {
	Batch *tilebatch.SpriteBatch
	Index int
	Gen   uint64
}

// Velocity and SpriteRef are the component types of a mover.
var (
	Velocity  = donburi.NewComponentType[VelocityData]()
	SpriteRef = donburi.NewComponentType[SpriteRefData]()
)

// Edge names the viewport side a mover bounced off.
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

var edgeNames = [...]string{"left", "right", "top", "bottom"}

func (e Edge) String() string {
	if int(e) < len(edgeNames) {
		return edgeNames[e]
	}
	return fmt.Sprintf("Edge(%d)", e)
}

// BounceEvent is published for every reflection BounceSystem applies.
type BounceEvent struct {
	Entity donburi.Entity
	Index  int
	Edge   Edge
}

// BounceEventType carries BounceEvents. Subscribe with events.Subscribe and
// drain with ProcessEvents (MotionWorld.Update drains).
var BounceEventType = events.NewEventType[BounceEvent]()

var moverQuery = query.NewQuery(filter.Contains(Velocity, SpriteRef))

// SpawnMover creates an entity that moves sprite index of batch at (vx, vy)
// pixels per second.
func SpawnMover(w donburi.World, batch *tilebatch.SpriteBatch, index int, vx, vy float64) (donburi.Entity, error) {
	if _, err := batch.Sprite(index); err != nil {
		return 0, fmt.Errorf("ecs: spawn mover: %w", err)
	}
	e := w.Create(Velocity, SpriteRef)
	entry := w.Entry(e)
	Velocity.SetValue(entry, VelocityData{VX: vx, VY: vy})
	SpriteRef.SetValue(entry, SpriteRefData{Batch: batch, Index: index, Gen: batch.Generation()})
	return e, nil
}

// BounceSystem advances every mover by dt seconds inside a viewport of
// size (viewW, viewH). Positions are snapped down to half pixels. Movers
// whose sprite no longer exists, or whose batch was cleared since they
// spawned, are removed from the world.
func BounceSystem(w donburi.World, viewW, viewH, dt float64) error {
	var firstErr error
	var stale []donburi.Entity

	moverQuery.Each(w, func(entry *donburi.Entry) {
		ref := SpriteRef.Get(entry)
		vel := Velocity.Get(entry)

		if ref.Gen != ref.Batch.Generation() {
			stale = append(stale, entry.Entity())
			return
		}
		s, err := ref.Batch.Sprite(ref.Index)
		if err != nil {
			stale = append(stale, entry.Entity())
			return
		}

		// Total offset applied when the sprite is drawn.
		off := ref.Batch.Offset()
		world := ref.Batch.World().Offset()
		ox, oy := off.X+world.X, off.Y+world.Y

		nx := s.Dst.X + vel.VX*dt
		ny := s.Dst.Y + vel.VY*dt

		if nx+ox < 0 {
			nx = -ox
			vel.VX = math.Abs(vel.VX)
			BounceEventType.Publish(w, BounceEvent{Entity: entry.Entity(), Index: ref.Index, Edge: EdgeLeft})
		} else if nx+ox+s.Dst.Width > viewW {
			nx = viewW - s.Dst.Width - ox
			vel.VX = -math.Abs(vel.VX)
			BounceEventType.Publish(w, BounceEvent{Entity: entry.Entity(), Index: ref.Index, Edge: EdgeRight})
		}
		if ny+oy < 0 {
			ny = -oy
			vel.VY = math.Abs(vel.VY)
			BounceEventType.Publish(w, BounceEvent{Entity: entry.Entity(), Index: ref.Index, Edge: EdgeTop})
		} else if ny+oy+s.Dst.Height > viewH {
			ny = viewH - s.Dst.Height - oy
			vel.VY = -math.Abs(vel.VY)
			BounceEventType.Publish(w, BounceEvent{Entity: entry.Entity(), Index: ref.Index, Edge: EdgeBottom})
		}

		s.Dst.X = math.Floor(nx*2) / 2
		s.Dst.Y = math.Floor(ny*2) / 2
		if err := ref.Batch.UpdateSprite(ref.Index); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("ecs: move sprite %d: %w", ref.Index, err)
		}
	})

	for _, e := range stale {
		w.Remove(e)
	}
	return firstErr
}

// MotionWorld bundles a donburi world with the viewport its movers bounce
// in. It implements tilebatch.System.
type MotionWorld struct {
	World    donburi.World
	Viewport tilebatch.Vec2
}

// NewMotionWorld returns an empty world bouncing inside a viewW by viewH
// canvas.
func NewMotionWorld(viewW, viewH float64) *MotionWorld {
	return &MotionWorld{
		World:    donburi.NewWorld(),
		Viewport: tilebatch.Vec2{X: viewW, Y: viewH},
	}
}

// Movers returns the number of live mover entities.
func (m *MotionWorld) Movers() int {
	return moverQuery.Count(m.World)
}

// Update runs BounceSystem and then delivers queued bounce events.
func (m *MotionWorld) Update(dt float32) error {
	err := BounceSystem(m.World, m.Viewport.X, m.Viewport.Y, float64(dt))
	BounceEventType.ProcessEvents(m.World)
	return err
}
