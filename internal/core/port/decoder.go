package port

import (
	"context"
	"image"
)

type Decoder interface {
	// Decode loads the image at path. Failures wrap domain.ErrDecodeFailed.
	Decode(ctx context.Context, path string) (image.Image, error)
}
