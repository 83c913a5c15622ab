package domain

import (
	"fmt"
	"image"
	"math"
)

// PixelFormat identifies the memory layout of a rendered buffer.
type PixelFormat int

const (
	// FormatARGB32 stores premultiplied 0xAARRGGBB words in little-endian
	// order, so each pixel reads B, G, R, A in memory.
	FormatARGB32 PixelFormat = iota
)

// BytesPerPixel returns the size of a single pixel in the format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatARGB32:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB32:
		return "argb32"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Rectangle is the requested output size. Fractional sizes are allowed for
// ratio math, the rendered surface uses the truncated pixel size.
type Rectangle struct {
	Width  float64
	Height float64
}

// PixelSize returns the integer surface dimensions for the rectangle.
func (r Rectangle) PixelSize() (int, int) {
	return int(r.Width), int(r.Height)
}

// Validate rejects geometry that cannot back a surface of at least one pixel.
func (r Rectangle) Validate() error {
	for _, v := range []float64{r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 || v > math.MaxInt32 {
			return fmt.Errorf("%w: %gx%g", ErrInvalidGeometry, r.Width, r.Height)
		}
	}

	return nil
}

// Image is a rendered, cache-ready representation of a source file.
type Image struct {
	Path     string
	Width    int
	Height   int
	Format   PixelFormat
	Scaling  Scaling
	Filter   Filter
	Data     []byte
	Checksum uint64
}

// Stride returns the number of bytes per row.
func (i *Image) Stride() int {
	return i.Width * i.Format.BytesPerPixel()
}

// ToRGBA converts the rendered buffer into a Go image for encoding.
func (i *Image) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, i.Width, i.Height))

	for p := 0; p+3 < len(i.Data) && p+3 < len(img.Pix); p += 4 {
		img.Pix[p+0] = i.Data[p+2]
		img.Pix[p+1] = i.Data[p+1]
		img.Pix[p+2] = i.Data[p+0]
		img.Pix[p+3] = i.Data[p+3]
	}

	return img
}
