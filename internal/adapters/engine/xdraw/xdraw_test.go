package xdraw

import (
	"image"
	"image/color"
	"imgfit/internal/core/domain"
	"imgfit/internal/core/port"
	"imgfit/internal/core/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// pixel returns the ARGB32 pixel at x, y as R, G, B, A.
func pixel(data []byte, width, x, y int) [4]byte {
	i := (y*width + x) * 4
	return [4]byte{data[i+2], data[i+1], data[i+0], data[i+3]}
}

var (
	opaqueRed   = [4]byte{0xff, 0, 0, 0xff}
	transparent = [4]byte{}
)

func TestCreateSurface(t *testing.T) {
	tests := []struct {
		name    string
		format  domain.PixelFormat
		width   int
		height  int
		wantErr bool
	}{
		{name: "argb32", format: domain.FormatARGB32, width: 3, height: 2},
		{name: "zero width", format: domain.FormatARGB32, width: 0, height: 2, wantErr: true},
		{name: "negative height", format: domain.FormatARGB32, width: 2, height: -2, wantErr: true},
		{name: "unknown format", format: domain.PixelFormat(9), width: 2, height: 2, wantErr: true},
		{name: "overflow", format: domain.FormatARGB32, width: 1 << 40, height: 1 << 40, wantErr: true},
		{name: "too many pixels", format: domain.FormatARGB32, width: 1 << 24, height: 1 << 24, wantErr: true},
		{name: "one past the cap", format: domain.FormatARGB32, width: MaxSurfacePixels + 1, height: 1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New().CreateSurface(tc.format, tc.width, tc.height)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.width, s.Width())
			assert.Equal(t, tc.height, s.Height())

			data, err := s.Data()
			require.NoError(t, err)
			assert.Equal(t, make([]byte, tc.width*tc.height*4), data)
		})
	}
}

func TestSurfaceFromImage(t *testing.T) {
	e := New()

	_, err := e.SurfaceFromImage(nil)
	require.Error(t, err)

	_, err = e.SurfaceFromImage(image.NewRGBA(image.Rect(0, 0, 0, 5)))
	require.Error(t, err)

	offset := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	offset.Set(5, 5, red)
	s, err := e.SurfaceFromImage(offset)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, 1, s.Height())

	data, err := s.Data()
	require.NoError(t, err)
	assert.Equal(t, opaqueRed, pixel(data, 2, 0, 0))
	assert.Equal(t, transparent, pixel(data, 2, 1, 0))
}

type foreignSurface struct{}

func (foreignSurface) Width() int            { return 1 }
func (foreignSurface) Height() int           { return 1 }
func (foreignSurface) Data() ([]byte, error) { return []byte{0, 0, 0, 0}, nil }

func TestContextErrors(t *testing.T) {
	e := New()

	_, err := e.NewContext(foreignSurface{})
	require.ErrorIs(t, err, errForeignSurface)

	target, err := e.CreateSurface(domain.FormatARGB32, 2, 2)
	require.NoError(t, err)

	ctx, err := e.NewContext(target)
	require.NoError(t, err)

	require.ErrorIs(t, ctx.Paint(), errNoSource)
	require.ErrorIs(t, ctx.SetSourceSurface(foreignSurface{}, 0, 0), errForeignSurface)

	source, err := e.SurfaceFromImage(solid(1, 1, red))
	require.NoError(t, err)
	require.NoError(t, ctx.SetSourceSurface(source, 0, 0))

	ctx.Scale(0, 0)
	require.Error(t, ctx.Paint())
}

func TestPaintTranslated(t *testing.T) {
	e := New()

	target, err := e.CreateSurface(domain.FormatARGB32, 4, 1)
	require.NoError(t, err)
	ctx, err := e.NewContext(target)
	require.NoError(t, err)

	source, err := e.SurfaceFromImage(solid(2, 1, red))
	require.NoError(t, err)
	require.NoError(t, ctx.SetSourceSurface(source, 1, 0))
	require.NoError(t, ctx.Paint())

	data, err := target.Data()
	require.NoError(t, err)

	assert.Equal(t, transparent, pixel(data, 4, 0, 0))
	assert.Equal(t, opaqueRed, pixel(data, 4, 1, 0))
	assert.Equal(t, opaqueRed, pixel(data, 4, 2, 0))
	assert.Equal(t, transparent, pixel(data, 4, 3, 0))
}

func TestPaintPremultiplies(t *testing.T) {
	e := New()

	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 0xff, A: 0x80})

	source, err := e.SurfaceFromImage(src)
	require.NoError(t, err)
	target, err := e.CreateSurface(domain.FormatARGB32, 1, 1)
	require.NoError(t, err)
	ctx, err := e.NewContext(target)
	require.NoError(t, err)

	require.NoError(t, ctx.SetSourceSurface(source, 0, 0))
	ctx.SetFilter(domain.Nearest)
	require.NoError(t, ctx.Paint())

	data, err := target.Data()
	require.NoError(t, err)

	p := pixel(data, 1, 0, 0)
	assert.InDelta(t, 0x80, int(p[0]), 1)
	assert.InDelta(t, 0x80, int(p[3]), 1)
	assert.Equal(t, byte(0), p[1])
	assert.Equal(t, byte(0), p[2])
}

func TestInterpolator(t *testing.T) {
	tests := []struct {
		filter domain.Filter
		want   draw.Interpolator
	}{
		{filter: domain.Fast, want: draw.ApproxBiLinear},
		{filter: domain.Good, want: draw.BiLinear},
		{filter: domain.Best, want: draw.CatmullRom},
		{filter: domain.Nearest, want: draw.NearestNeighbor},
		{filter: domain.Bilinear, want: draw.BiLinear},
		{filter: domain.Gaussian, want: gaussian},
	}

	for _, tc := range tests {
		t.Run(tc.filter.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, interpolator(tc.filter))
		})
	}
}

func render(t *testing.T, src image.Image, geometry domain.Rectangle, scaling domain.Scaling) []byte {
	t.Helper()

	e := New()
	source, err := e.SurfaceFromImage(src)
	require.NoError(t, err)

	data, err := service.NewScaler(e).Render(source, geometry, scaling, domain.Nearest)
	require.NoError(t, err)

	return data
}

func TestRenderOversizedTarget(t *testing.T) {
	e := New()
	source, err := e.SurfaceFromImage(solid(4, 4, red))
	require.NoError(t, err)

	_, err = service.NewScaler(e).Render(source,
		domain.Rectangle{Width: 1 << 24, Height: 1 << 24}, domain.Fill, domain.Good)
	require.ErrorIs(t, err, domain.ErrSurfaceCreationFailed)
}

func TestRenderNoneCenters(t *testing.T) {
	data := render(t, solid(200, 100, red), domain.Rectangle{Width: 300, Height: 100}, domain.None)
	require.Len(t, data, 300*100*4)

	assert.Equal(t, transparent, pixel(data, 300, 0, 50))
	assert.Equal(t, transparent, pixel(data, 300, 49, 50))
	assert.Equal(t, opaqueRed, pixel(data, 300, 50, 50))
	assert.Equal(t, opaqueRed, pixel(data, 300, 249, 0))
	assert.Equal(t, transparent, pixel(data, 300, 250, 99))
}

func TestRenderFitLetterboxes(t *testing.T) {
	data := render(t, solid(40, 20, red), domain.Rectangle{Width: 10, Height: 10}, domain.Fit)
	require.Len(t, data, 10*10*4)

	for x := range 10 {
		assert.Equal(t, transparent, pixel(data, 10, x, 0))
		assert.Equal(t, transparent, pixel(data, 10, x, 9))
		assert.Equal(t, opaqueRed, pixel(data, 10, x, 5))
	}
}

func TestRenderFillCrops(t *testing.T) {
	src := solid(40, 20, red)
	draw.Draw(src, image.Rect(0, 0, 5, 20), &image.Uniform{C: green}, image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(35, 0, 40, 20), &image.Uniform{C: green}, image.Point{}, draw.Src)

	data := render(t, src, domain.Rectangle{Width: 10, Height: 10}, domain.Fill)
	require.Len(t, data, 10*10*4)

	for y := range 10 {
		for x := range 10 {
			assert.Equal(t, opaqueRed, pixel(data, 10, x, y), "pixel %d,%d", x, y)
		}
	}
}

var _ port.Engine = (*Engine)(nil)
