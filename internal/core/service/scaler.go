package service

import (
	"fmt"
	"imgfit/internal/core/domain"
	"imgfit/internal/core/port"
	"math"

	"github.com/rs/zerolog/log"
)

// Placement describes where a source lands on the target: the uniform scale
// and the source origin in pre-scale user space.
type Placement struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	// Scaled is false for None, where no transform or filter applies.
	Scaled bool
}

// Place computes the placement of a srcWidth x srcHeight source inside geometry.
func Place(srcWidth, srcHeight int, geometry domain.Rectangle, scaling domain.Scaling) (Placement, error) {
	switch scaling {
	case domain.Fill:
		return fillOrFit(srcWidth, srcHeight, geometry, math.Max), nil
	case domain.Fit:
		return fillOrFit(srcWidth, srcHeight, geometry, math.Min), nil
	case domain.None:
		return Placement{
			Scale:   1,
			OffsetX: (geometry.Width - float64(srcWidth)) / 2,
			OffsetY: (geometry.Height - float64(srcHeight)) / 2,
		}, nil
	default:
		return Placement{}, fmt.Errorf("%w: %s", domain.ErrUnknownScaling, scaling)
	}
}

func fillOrFit(srcWidth, srcHeight int, geometry domain.Rectangle, combine func(float64, float64) float64) Placement {
	heightRatio := geometry.Height / float64(srcHeight)
	widthRatio := geometry.Width / float64(srcWidth)
	ratio := combine(heightRatio, widthRatio)

	return Placement{
		Scale:   ratio,
		OffsetX: -cropOffset(srcWidth, geometry.Width, ratio),
		OffsetY: -cropOffset(srcHeight, geometry.Height, ratio),
		Scaled:  true,
	}
}

// cropOffset returns half of the scaled overflow along one axis, in source
// units. The overflow is negative when the scaled source is shorter than the
// target, which centers it. Lengths saturate to the int32 range and an
// overflow that does not fit in int32 yields no offset.
func cropOffset(srcLen int, targetLen, ratio float64) float64 {
	overflow := int64(saturateInt32(float64(srcLen)*ratio)) - int64(saturateInt32(targetLen))
	if overflow > math.MaxInt32 || overflow < math.MinInt32 {
		return 0
	}

	crop := float64(overflow/2) / ratio

	return max(-targetLen, min(targetLen, crop))
}

// saturateInt32 truncates v toward zero and clamps it to the int32 range.
// NaN maps to zero.
func saturateInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// Scaler composites a source surface into a target rectangle using an engine.
type Scaler struct {
	engine port.Engine
}

func NewScaler(engine port.Engine) *Scaler {
	return &Scaler{engine: engine}
}

// Render returns the ARGB32 pixels of geometry with source placed according to scaling.
// The filter is only applied when the source is resampled.
func (s *Scaler) Render(source port.Surface, geometry domain.Rectangle, scaling domain.Scaling,
	filter domain.Filter) ([]byte, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}

	if source == nil || source.Width() < 1 || source.Height() < 1 {
		return nil, fmt.Errorf("%w: empty source", domain.ErrSourceBindingFailed)
	}

	placement, err := Place(source.Width(), source.Height(), geometry, scaling)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("scaling", scaling.String()).
		Str("filter", filter.String()).
		Float64("scale", placement.Scale).
		Float64("offsetX", placement.OffsetX).
		Float64("offsetY", placement.OffsetY).
		Msg("rendering image")

	width, height := geometry.PixelSize()

	target, err := s.engine.CreateSurface(domain.FormatARGB32, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSurfaceCreationFailed, err)
	}

	ctx, err := s.engine.NewContext(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrContextCreationFailed, err)
	}

	if placement.Scaled {
		ctx.Scale(placement.Scale, placement.Scale)
	}

	err = ctx.SetSourceSurface(source, placement.OffsetX, placement.OffsetY)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceBindingFailed, err)
	}

	if placement.Scaled {
		ctx.SetFilter(filter)
	}

	if err := ctx.Paint(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompositeFailed, err)
	}

	data, err := target.Data()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPixelExtractionFailed, err)
	}

	if want := width * height * domain.FormatARGB32.BytesPerPixel(); len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", domain.ErrPixelExtractionFailed, len(data), want)
	}

	return data, nil
}
