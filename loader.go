package tilebatch

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"sort"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of images decoded concurrently by
// LoadImages when no chunk size is given.
const DefaultChunkSize = 8

// ImageRequest names an image and where to read it from.
type ImageRequest struct {
	Name string
	Path string
}

// ImageSource opens image files by path.
type ImageSource interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FSSource reads images from a file system such as os.DirFS or an embed.FS.
type FSSource struct {
	FS fs.FS
}

// Open implements ImageSource.
func (s FSSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FS.Open(path)
}

// LoadedImage is a successfully decoded image.
type LoadedImage struct {
	Name   string
	Path   string
	Format string
	Image  image.Image
}

// LoadFailure records an image that could not be loaded.
type LoadFailure struct {
	Name string
	Path string
	Err  error
}

// LoadResult holds decoded images in request order plus every failure.
type LoadResult struct {
	Images []LoadedImage
	Failed []LoadFailure
}

// Map returns the decoded images keyed by name.
func (r LoadResult) Map() map[string]image.Image {
	m := make(map[string]image.Image, len(r.Images))
	for _, li := range r.Images {
		m[li.Name] = li.Image
	}
	return m
}

// FailedNames returns the names of images that failed to load.
func (r LoadResult) FailedNames() []string {
	out := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		out[i] = f.Name
	}
	return out
}

type loadSlot struct {
	img    image.Image
	format string
	err    error
}

// LoadImages decodes requests in sequential chunks of chunkSize, decoding the
// images of each chunk concurrently. A failed image is logged and recorded in
// LoadResult.Failed; it never stops the others. Cancelling ctx stops further
// chunks from starting and returns the partial result with ctx.Err().
func LoadImages(ctx context.Context, src ImageSource, requests []ImageRequest, chunkSize int) (LoadResult, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var res LoadResult
	slots := make([]loadSlot, len(requests))

	for start := 0; start < len(requests); start += chunkSize {
		if err := ctx.Err(); err != nil {
			collect(&res, requests[:start], slots[:start])
			return res, err
		}
		end := min(start+chunkSize, len(requests))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				slots[i].img, slots[i].format, slots[i].err = decodeOne(ctx, src, requests[i].Path)
				return nil
			})
		}
		_ = g.Wait()
	}

	collect(&res, requests, slots)
	return res, nil
}

func collect(res *LoadResult, requests []ImageRequest, slots []loadSlot) {
	for i, rq := range requests {
		s := slots[i]
		if s.err != nil {
			logger.Warn("failed to load image", "name", rq.Name, "path", rq.Path, "err", s.err)
			res.Failed = append(res.Failed, LoadFailure{Name: rq.Name, Path: rq.Path, Err: s.err})
			continue
		}
		res.Images = append(res.Images, LoadedImage{Name: rq.Name, Path: rq.Path, Format: s.format, Image: s.img})
	}
}

func decodeOne(ctx context.Context, src ImageSource, path string) (image.Image, string, error) {
	rc, err := src.Open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rc.Close() }()
	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// AtlasOptions configures BuildAtlas.
type AtlasOptions struct {
	CellSize  int
	ChunkSize int
	// Dir is prepended to every tile texture path.
	Dir string
	// Extra images (glyphs, generated art) are packed after the tile
	// frames in name order. A name clashing with a tile frame is an error.
	Extra map[string]image.Image
}

// BuildAtlas loads every frame of every registered tile, packs them in
// registration order and composes the atlas. Images that fail to load or are
// not cell-aligned are skipped; the returned LoadResult lists load failures
// and Atlas.Result.Skipped lists alignment rejections.
func BuildAtlas(ctx context.Context, src ImageSource, reg *Registry, opts AtlasOptions) (*Atlas, LoadResult, error) {
	loaded, err := LoadImages(ctx, src, reg.Requests(opts.Dir), opts.ChunkSize)
	if err != nil {
		return nil, loaded, fmt.Errorf("tilebatch: build atlas: %w", err)
	}
	if len(loaded.Images) == 0 && len(opts.Extra) == 0 {
		return nil, loaded, fmt.Errorf("tilebatch: build atlas: all %d images failed: %w",
			len(loaded.Failed), ErrNoValidImages)
	}

	images := loaded.Map()
	names := make([]string, 0, len(loaded.Images)+len(opts.Extra))
	for _, li := range loaded.Images {
		names = append(names, li.Name)
	}
	extra := make([]string, 0, len(opts.Extra))
	for name := range opts.Extra {
		if _, dup := images[name]; dup {
			return nil, loaded, fmt.Errorf("tilebatch: build atlas: extra image %q clashes with a tile frame", name)
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		images[name] = opts.Extra[name]
		names = append(names, name)
	}
	atlas, err := newAtlasOrdered(names, images, opts.CellSize)
	if err != nil {
		return nil, loaded, err
	}
	logger.Info("atlas built",
		"images", len(atlas.Result.Placements),
		"skipped", len(atlas.Result.Skipped),
		"failed", len(loaded.Failed),
		"size", fmt.Sprintf("%dx%d", atlas.Result.Width, atlas.Result.Height))
	return atlas, loaded, nil
}
