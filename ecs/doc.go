// Package ecs moves tilebatch sprites with a [Donburi] world.
//
// Each mover entity holds a velocity and a reference to one sprite in a
// batch. [BounceSystem] integrates velocities, reflects movers off the edges
// of the viewport (taking the batch and world offsets into account) and
// pushes the new positions into the batch. Every reflection is published as a
// [BounceEvent].
//
//	mw := ecs.NewMotionWorld(640, 480)
//	ecs.SpawnMover(mw.World, batch, i, 120, -80)
//	game.AddSystem(mw)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
