package job_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/job"
	"github.com/stretchr/testify/require"
)

func uniformImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestEncodeThenDecodeRoundTrip(t *testing.T) {
	src := uniformImage(288, 60, color.Black)

	encoded := job.Encode(src, job.EncodeOptions{
		DPI:          360,
		PageWidthMM:  210,
		PageHeightMM: 297,
	})
	require.NotEmpty(t, encoded)

	decoded, err := job.Decode(bytes.NewReader(encoded), job.DecodeOptions{})
	require.NoError(t, err)
	require.NotNil(t, decoded)

	bounds := decoded.Bounds()
	require.Greater(t, bounds.Dx(), 0)
	require.Greater(t, bounds.Dy(), 0)

	nonWhite := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := decoded.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				nonWhite++
			}
		}
	}
	require.Greater(t, nonWhite, 0, "expected the encoded black image to darken at least part of the decoded canvas")
}

func TestDecodeEmptyStreamIsMalformedPreamble(t *testing.T) {
	_, err := job.Decode(bytes.NewReader(nil), job.DecodeOptions{})
	require.ErrorIs(t, err, command.ErrMalformedPreamble)
}
