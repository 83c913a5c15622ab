// Package xdraw implements the rendering engine on golang.org/x/image/draw.
// Surfaces are premultiplied *image.RGBA buffers; Data converts them to ARGB32.
package xdraw

import (
	"errors"
	"fmt"
	"image"
	"imgfit/internal/core/domain"
	"imgfit/internal/core/port"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// MaxSurfacePixels bounds the size of a target surface.
const MaxSurfacePixels = 1 << 28

var (
	errForeignSurface = errors.New("surface was not created by the xdraw engine")
	errNoSource       = errors.New("no source surface set")
)

// gaussian approximates a gaussian blur filter with sigma 0.5.
var gaussian = &draw.Kernel{
	Support: 2,
	At: func(t float64) float64 {
		return math.Exp(-2 * t * t)
	},
}

func interpolator(filter domain.Filter) draw.Interpolator {
	switch filter {
	case domain.Fast:
		return draw.ApproxBiLinear
	case domain.Best:
		return draw.CatmullRom
	case domain.Nearest:
		return draw.NearestNeighbor
	case domain.Gaussian:
		return gaussian
	case domain.Good, domain.Bilinear:
		return draw.BiLinear
	default:
		return draw.BiLinear
	}
}

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) CreateSurface(format domain.PixelFormat, width, height int) (port.Surface, error) {
	if format != domain.FormatARGB32 {
		return nil, fmt.Errorf("unsupported pixel format %s", format)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	if width > MaxSurfacePixels/height {
		return nil, fmt.Errorf("surface size %dx%d exceeds %d pixels", width, height, MaxSurfacePixels)
	}

	return &surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (e *Engine) SurfaceFromImage(img image.Image) (port.Surface, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image bounds %v", b)
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return &surface{img: rgba}, nil
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return &surface{img: rgba}, nil
}

func (e *Engine) NewContext(target port.Surface) (port.Context, error) {
	s, ok := target.(*surface)
	if !ok || s == nil || s.img == nil {
		return nil, errForeignSurface
	}

	return &drawContext{target: s, scaleX: 1, scaleY: 1, filter: domain.Good}, nil
}

type surface struct {
	img *image.RGBA
}

func (s *surface) Width() int {
	return s.img.Bounds().Dx()
}

func (s *surface) Height() int {
	return s.img.Bounds().Dy()
}

// Data returns the pixels as premultiplied ARGB32 words in little-endian order.
func (s *surface) Data() ([]byte, error) {
	if s.img == nil {
		return nil, errors.New("surface has no pixel buffer")
	}

	w, h := s.Width(), s.Height()
	out := make([]byte, w*h*4)

	for y := range h {
		row := s.img.Pix[y*s.img.Stride : y*s.img.Stride+w*4]
		dst := out[y*w*4 : (y+1)*w*4]
		for i := 0; i < len(row); i += 4 {
			dst[i+0] = row[i+2]
			dst[i+1] = row[i+1]
			dst[i+2] = row[i+0]
			dst[i+3] = row[i+3]
		}
	}

	return out, nil
}

type drawContext struct {
	target  *surface
	scaleX  float64
	scaleY  float64
	source  *surface
	originX float64
	originY float64
	filter  domain.Filter
}

func (c *drawContext) Scale(sx, sy float64) {
	c.scaleX *= sx
	c.scaleY *= sy
}

func (c *drawContext) SetSourceSurface(src port.Surface, x, y float64) error {
	s, ok := src.(*surface)
	if !ok || s == nil || s.img == nil {
		return errForeignSurface
	}

	c.source = s
	c.originX, c.originY = x, y

	return nil
}

func (c *drawContext) SetFilter(filter domain.Filter) {
	c.filter = filter
}

func (c *drawContext) Paint() error {
	if c.source == nil {
		return errNoSource
	}

	for _, v := range []float64{c.scaleX, c.scaleY} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid scale %gx%g", c.scaleX, c.scaleY)
		}
	}

	m := f64.Aff3{
		c.scaleX, 0, c.scaleX * c.originX,
		0, c.scaleY, c.scaleY * c.originY,
	}

	log.Debug().
		Str("filter", c.filter.String()).
		Floats64("transform", m[:]).
		Msg("compositing source")

	interpolator(c.filter).Transform(c.target.img, m, c.source.img, c.source.img.Bounds(), draw.Over, nil)

	return nil
}
