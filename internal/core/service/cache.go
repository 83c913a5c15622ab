package service

import (
	"context"
	"fmt"
	"imgfit/internal/core/domain"
	"imgfit/internal/core/port"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// ResourceCache renders every distinct path at most once and keeps the result
// for its own lifetime. It is not safe for concurrent use: callers must
// serialize Load calls, for example with one cache per worker.
type ResourceCache struct {
	decoder port.Decoder
	engine  port.Engine
	scaler  *Scaler
	loaded  map[string]*domain.Image
}

func NewResourceCache(decoder port.Decoder, engine port.Engine, scaler *Scaler) *ResourceCache {
	return &ResourceCache{
		decoder: decoder,
		engine:  engine,
		scaler:  scaler,
		loaded:  make(map[string]*domain.Image),
	}
}

// Load returns the image cached for path, rendering it on the first request.
// Once cached, geometry, scaling and filter of later calls are ignored.
// Failed loads are not cached.
func (c *ResourceCache) Load(ctx context.Context, path string, geometry domain.Rectangle, scaling domain.Scaling,
	filter domain.Filter) (*domain.Image, error) {
	l := log.With().Str("path", path).Logger()

	if img, ok := c.loaded[path]; ok {
		l.Debug().Msg("fetching image from cache")

		if img.Scaling != scaling || img.Filter != filter || !sameSize(img, geometry) {
			l.Warn().
				Str("cachedScaling", img.Scaling.String()).
				Str("cachedFilter", img.Filter.String()).
				Str("scaling", scaling.String()).
				Str("filter", filter.String()).
				Msg("requested parameters differ from cached image, returning cached image")
		}

		return img, nil
	}

	img, err := c.render(ctx, path, geometry, scaling, filter)
	if err != nil {
		l.Debug().Err(err).Msg("failed to load image")
		return nil, err
	}

	c.loaded[path] = img
	l.Debug().Uint64("checksum", img.Checksum).Msg("caching image")

	return img, nil
}

func (c *ResourceCache) render(ctx context.Context, path string, geometry domain.Rectangle, scaling domain.Scaling,
	filter domain.Filter) (*domain.Image, error) {
	decoded, err := c.decoder.Decode(ctx, path)
	if err != nil {
		return nil, err
	}

	source, err := c.engine.SurfaceFromImage(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailed, err)
	}

	data, err := c.scaler.Render(source, geometry, scaling, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", path, err)
	}

	width, height := geometry.PixelSize()

	return &domain.Image{
		Path:     path,
		Width:    width,
		Height:   height,
		Format:   domain.FormatARGB32,
		Scaling:  scaling,
		Filter:   filter,
		Data:     data,
		Checksum: xxhash.Sum64(data),
	}, nil
}

func sameSize(img *domain.Image, geometry domain.Rectangle) bool {
	width, height := geometry.PixelSize()
	return img.Width == width && img.Height == height
}

// Len returns the number of cached images.
func (c *ResourceCache) Len() int {
	return len(c.loaded)
}

// Contains reports whether path has a cached image.
func (c *ResourceCache) Contains(path string) bool {
	_, ok := c.loaded[path]
	return ok
}

// Paths returns the cached paths in sorted order.
func (c *ResourceCache) Paths() []string {
	keys := make([]string, 0, len(c.loaded))
	for k := range c.loaded {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
