package file

import (
	"context"
	"fmt"
	"image/png"
	"imgfit/internal/core/domain"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// MaxDownloadSize caps remote image downloads.
const MaxDownloadSize = 64 << 20

// DownloadFile returns the byte content of a file on a provided URL.
func DownloadFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("error creating request: %w", err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request: %w", err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadSize+1))
	if err != nil {
		err = fmt.Errorf("error reading response: %w", err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	if len(buf) > MaxDownloadSize {
		err = fmt.Errorf("download exceeds %d bytes", MaxDownloadSize)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	return buf, nil
}

// SavePNG encodes a rendered image as PNG into dir and returns the file path.
func SavePNG(fs afero.Fs, dir string, img *domain.Image) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("error creating output directory: %w", err)
		log.Error().Err(err).Str("dir", dir).Send()
		return "", err
	}

	path := filepath.Join(dir, id.String()+".png")

	f, err := fs.Create(path)
	if err != nil {
		err = fmt.Errorf("error creating file: %w", err)
		log.Error().Err(err).Send()
		return "", err
	}

	if err := png.Encode(f, img.ToRGBA()); err != nil {
		_ = f.Close()
		err = fmt.Errorf("error encoding png: %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return "", err
	}

	if err := f.Close(); err != nil {
		err = fmt.Errorf("error closing file: %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return "", err
	}

	log.Debug().Str("path", path).Str("source", img.Path).Msg("saved rendered image")

	return path, nil
}
