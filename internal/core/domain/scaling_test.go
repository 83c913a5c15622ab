package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScaling(t *testing.T) {
	type TestCase struct {
		description string
		input       string
		want        Scaling
		wantErr     bool
	}

	testCases := []TestCase{
		{
			description: "fill",
			input:       "fill",
			want:        Fill,
		},
		{
			description: "fit ignoring case",
			input:       "FIT",
			want:        Fit,
		},
		{
			description: "none with whitespace",
			input:       " none ",
			want:        None,
		},
		{
			description: "unknown",
			input:       "stretch",
			wantErr:     true,
		},
		{
			description: "empty",
			input:       "",
			wantErr:     true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got, err := ParseScaling(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, ErrUnknownScaling)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseFilter(t *testing.T) {
	for f, name := range filterNames {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFilter(name)
			require.NoError(t, err)
			assert.Equal(t, f, got)
			assert.Equal(t, name, got.String())
		})
	}

	_, err := ParseFilter("lanczos")
	require.ErrorIs(t, err, ErrUnknownFilter)
}

func TestStringUnknown(t *testing.T) {
	assert.Equal(t, "scaling(42)", Scaling(42).String())
	assert.Equal(t, "filter(42)", Filter(42).String())
	assert.Equal(t, "format(42)", PixelFormat(42).String())
}
