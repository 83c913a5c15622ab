package domain

import "errors"

var (
	ErrSurfaceCreationFailed = errors.New("could not create surface")
	ErrContextCreationFailed = errors.New("could not create context")
	ErrSourceBindingFailed   = errors.New("could not set source surface")
	ErrCompositeFailed       = errors.New("could not paint source onto surface")
	ErrPixelExtractionFailed = errors.New("could not read surface data")
	ErrDecodeFailed          = errors.New("could not decode image")

	ErrInvalidGeometry = errors.New("invalid target geometry")
	ErrUnknownScaling  = errors.New("unknown scaling")
	ErrUnknownFilter   = errors.New("unknown filter")
)
