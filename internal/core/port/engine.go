package port

import (
	"image"
	"imgfit/internal/core/domain"
)

type Engine interface {
	// CreateSurface allocates a transparent surface of the given pixel format and size.
	CreateSurface(format domain.PixelFormat, width, height int) (Surface, error)
	// SurfaceFromImage wraps a decoded image so it can be bound as a paint source.
	SurfaceFromImage(img image.Image) (Surface, error)
	// NewContext binds a drawing context to a surface created by this engine.
	NewContext(target Surface) (Context, error)
}

type Surface interface {
	Width() int
	Height() int
	// Data returns the raw pixels in the surface's pixel format.
	Data() ([]byte, error)
}

type Context interface {
	// Scale multiplies the current transformation by a scale of sx, sy.
	Scale(sx, sy float64)
	// SetSourceSurface binds src as the paint source with its origin at x, y in user space.
	SetSourceSurface(src Surface, x, y float64) error
	// SetFilter selects the resampling filter of the current source.
	SetFilter(filter domain.Filter)
	// Paint composites the current source over the whole target.
	Paint() error
}
