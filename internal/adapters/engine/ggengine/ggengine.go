// Package ggengine implements the rendering engine on the gogpu/gg software
// rasterizer. Targets wrap a *gg.Context, sources wrap a *gg.ImageBuf holding
// straight alpha.
package ggengine

import (
	"errors"
	"fmt"
	"image"
	"imgfit/internal/core/domain"
	"imgfit/internal/core/port"

	"github.com/gogpu/gg"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// MaxSurfacePixels bounds the size of a target surface.
const MaxSurfacePixels = 1 << 28

var (
	errNotTarget = errors.New("surface is not a gg target surface")
	errNotSource = errors.New("surface is not a gg source surface")
	errNoSource  = errors.New("no source surface set")
)

// gg has no gaussian or "fast" sampler, the closest interpolation is used.
// InterpNearest is gg's zero value and is drawn as bilinear.
func interpolation(filter domain.Filter) gg.InterpolationMode {
	switch filter {
	case domain.Nearest:
		return gg.InterpNearest
	case domain.Best, domain.Gaussian:
		return gg.InterpBicubic
	default:
		return gg.InterpBilinear
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

	return &targetSurface{dc: gg.NewContext(width, height)}, nil
}

func (e *Engine) SurfaceFromImage(img image.Image) (port.Surface, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}

	return &sourceSurface{buf: gg.ImageBufFromImage(straight(img))}, nil
}

// straight converts img to non-premultiplied RGBA, the layout gg expects in
// an RGBA8 ImageBuf.
func straight(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}

	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)

	return n
}

func (e *Engine) NewContext(target port.Surface) (port.Context, error) {
	t, ok := target.(*targetSurface)
	if !ok || t == nil || t.dc == nil {
		return nil, errNotTarget
	}

	return &drawContext{target: t, filter: domain.Good}, nil
}

type targetSurface struct {
	dc *gg.Context
}

func (s *targetSurface) Width() int {
	return s.dc.Width()
}

func (s *targetSurface) Height() int {
	return s.dc.Height()
}

// Data reorders the canvas, which gg keeps premultiplied, into ARGB32.
func (s *targetSurface) Data() ([]byte, error) {
	if s.dc == nil {
		return nil, errors.New("surface has no context")
	}

	rgba, ok := s.dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected image type %T", s.dc.Image())
	}

	w, h := s.Width(), s.Height()
	out := make([]byte, w*h*4)

	for y := range h {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		writeARGB(out[y*w*4:(y+1)*w*4], row)
	}

	return out, nil
}

type sourceSurface struct {
	buf *gg.ImageBuf
}

func (s *sourceSurface) Width() int {
	return s.buf.Width()
}

func (s *sourceSurface) Height() int {
	return s.buf.Height()
}

func (s *sourceSurface) Data() ([]byte, error) {
	w, h := s.Width(), s.Height()
	out := make([]byte, w*h*4)

	for y := range h {
		writePremultipliedARGB(out[y*w*4:(y+1)*w*4], s.buf.RowBytes(y)[:w*4])
	}

	return out, nil
}

// writeARGB reorders a row of premultiplied RGBA bytes to B, G, R, A.
func writeARGB(dst, row []byte) {
	for i := 0; i+3 < len(row); i += 4 {
		dst[i+0] = row[i+2]
		dst[i+1] = row[i+1]
		dst[i+2] = row[i+0]
		dst[i+3] = row[i+3]
	}
}

// writePremultipliedARGB converts a row of straight RGBA bytes to
// premultiplied B, G, R, A.
func writePremultipliedARGB(dst, row []byte) {
	for i := 0; i+3 < len(row); i += 4 {
		a := uint32(row[i+3])
		dst[i+0] = premultiply(row[i+2], a)
		dst[i+1] = premultiply(row[i+1], a)
		dst[i+2] = premultiply(row[i+0], a)
		dst[i+3] = row[i+3]
	}
}

func premultiply(c byte, a uint32) byte {
	return byte((uint32(c)*a + 127) / 255)
}

type drawContext struct {
	target  *targetSurface
	source  *sourceSurface
	originX float64
	originY float64
	filter  domain.Filter
}

func (c *drawContext) Scale(sx, sy float64) {
	c.target.dc.Scale(sx, sy)
}

func (c *drawContext) SetSourceSurface(src port.Surface, x, y float64) error {
	s, ok := src.(*sourceSurface)
	if !ok || s == nil || s.buf == nil {
		return errNotSource
	}

	c.source = s
	c.originX, c.originY = x, y

	return nil
}

func (c *drawContext) SetFilter(filter domain.Filter) {
	if filter == domain.Nearest {
		log.Warn().
			Str("filter", filter.String()).
			Msg("gg has no nearest sampler, drawing bilinear")
	}

	c.filter = filter
}

func (c *drawContext) Paint() error {
	if c.source == nil {
		return errNoSource
	}

	log.Debug().
		Str("filter", c.filter.String()).
		Float64("x", c.originX).
		Float64("y", c.originY).
		Msg("compositing source")

	c.target.dc.DrawImageEx(c.source.buf, gg.DrawImageOptions{
		X:             c.originX,
		Y:             c.originY,
		Interpolation: interpolation(c.filter),
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})

	return nil
}
