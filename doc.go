// Package tilebatch is the rendering data pipeline of a 2D tile game built
// on [Ebitengine].
//
// Source images are packed into a single texture atlas on a grid of square
// cells, and sprites drawn from that atlas live in fixed-capacity sprite
// batches. A batch keeps three parallel float32 vertex buffers (positions,
// texture coordinates and tints) mirrored on the GPU. Changing a sprite only
// marks it dirty; [SpriteBatch.UploadDirty] sorts the dirty indices and pushes
// each contiguous run with one write per buffer, so a frame that touches a
// handful of sprites uploads a handful of ranges.
//
// # Quick start
//
// The simplest way to get started is [Run] with a [Game]:
//
//	reg := tilebatch.NewRegistry()
//	// ... register tiles ...
//	atlas, _, err := tilebatch.BuildAtlas(ctx, tilebatch.FSSource{FS: assets}, reg,
//		tilebatch.AtlasOptions{CellSize: 16})
//
//	game, _ := tilebatch.NewGame(tilebatch.GameConfig{Width: 640, Height: 480})
//	batch, _ := game.NewBatch(tilebatch.BatchOptions{
//		Capacity:    4096,
//		AtlasWidth:  atlas.Result.Width,
//		AtlasHeight: atlas.Result.Height,
//		Texture:     tilebatch.NewEbitenTexture(atlas.Image),
//	}, false)
//	tilebatch.SpawnTiles(batch, atlas.Lookup, reg, tileMap, 16)
//	tilebatch.Run(game, tilebatch.RunConfig{Title: "tiles"})
//
// # Backends
//
// Batches talk to the GPU only through [Backend]: allocate a buffer, write a
// float32 range at a byte offset, draw a triangle list. [EbitenBackend]
// implements it on top of DrawTrianglesShader; the glbackend subpackage
// implements it on raw OpenGL 3.3.
//
// # World offset
//
// A [World] carries the scroll offset shared by every batch. The offset is
// staged at any time and published once per frame by [World.BeginFrame], so
// all sprites updated during a frame agree on it. [Camera] drives the staged
// offset with follow, bounds and eased scrolling (via [gween]).
//
// # Assets
//
// [LoadImages] decodes images in chunks of eight concurrent loads. The
// [Registry] maps tile names to texture frames and map legend colors;
// [DecodeMap] turns a color-coded PNG into tile cells and [SpawnTiles] places
// them into a batch.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package tilebatch
