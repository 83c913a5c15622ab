package domain

import (
	"fmt"
	"strings"
)

// Scaling describes how a source image is fitted into a target rectangle.
type Scaling int

const (
	// Fill scales the image to cover the target, cropping the overflowing axis.
	Fill Scaling = iota
	// Fit scales the image to be fully contained, padding the remaining axis.
	Fit
	// None centers the unscaled image inside the target.
	None
)

var scalingNames = map[Scaling]string{
	Fill: "fill",
	Fit:  "fit",
	None: "none",
}

func (s Scaling) String() string {
	if name, ok := scalingNames[s]; ok {
		return name
	}

	return fmt.Sprintf("scaling(%d)", int(s))
}

// ParseScaling returns the Scaling for a case-insensitive name such as "fill".
func ParseScaling(name string) (Scaling, error) {
	for s, n := range scalingNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownScaling, name)
}

// Filter is a resampling hint handed to the rendering engine.
type Filter int

const (
	Fast Filter = iota
	Good
	Best
	Nearest
	Bilinear
	Gaussian
)

var filterNames = map[Filter]string{
	Fast:     "fast",
	Good:     "good",
	Best:     "best",
	Nearest:  "nearest",
	Bilinear: "bilinear",
	Gaussian: "gaussian",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}

	return fmt.Sprintf("filter(%d)", int(f))
}

// ParseFilter returns the Filter for a case-insensitive name such as "bilinear".
func ParseFilter(name string) (Filter, error) {
	for f, n := range filterNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}
