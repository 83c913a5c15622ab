// Package decoder loads source images from a filesystem or over HTTP.
package decoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"imgfit/internal/adapters/file"
	"imgfit/internal/core/domain"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DownloadFunc fetches the raw bytes behind a URL.
type DownloadFunc func(ctx context.Context, url string) ([]byte, error)

type Decoder struct {
	fs       afero.Fs
	download DownloadFunc
}

type Option func(*Decoder)

// WithFs sets the filesystem local paths are read from.
func WithFs(fs afero.Fs) Option {
	return func(d *Decoder) {
		d.fs = fs
	}
}

// WithDownloader replaces the function used for http and https paths.
func WithDownloader(download DownloadFunc) Option {
	return func(d *Decoder) {
		d.download = download
	}
}

func New(opts ...Option) *Decoder {
	d := &Decoder{
		fs:       afero.NewOsFs(),
		download: file.DownloadFile,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Decode reads and decodes the image at path. Every failure wraps domain.ErrDecodeFailed.
func (d *Decoder) Decode(ctx context.Context, path string) (image.Image, error) {
	r, err := d.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailed, err)
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDecodeFailed, path, err)
	}

	log.Debug().
		Str("path", path).
		Str("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("decoded image")

	return img, nil
}

func (d *Decoder) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if isRemote(path) {
		buf, err := d.download(ctx, path)
		if err != nil {
			return nil, err
		}

		return io.NopCloser(bytes.NewReader(buf)), nil
	}

	return d.fs.Open(path)
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
