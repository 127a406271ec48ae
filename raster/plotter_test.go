package raster_test

import (
	"errors"
	"testing"

	"github.com/72nd/escpr/raster"
	"github.com/stretchr/testify/require"
)

func TestPlotterFullBlackDarkensCanvas(t *testing.T) {
	p := raster.NewPlotter(8, 8)

	// 2 rows x 4 cols, bpp=2, every sample at max value (3): full ink.
	width, height := 4, 2
	data := []byte{0xff, 0xff} // 4 samples per byte, all 0b11

	err := p.Plot(0, 0, width, height, 0 /* black */, 2, data)
	require.NoError(t, err)

	c := p.Image().RGBAAt(0, 0)
	require.Equal(t, uint8(0), c.R)
	require.Equal(t, uint8(0), c.G)
	require.Equal(t, uint8(0), c.B)

	// Row stretch: row 0 also writes row 1.
	c1 := p.Image().RGBAAt(0, 1)
	require.Equal(t, uint8(0), c1.R)

	// Untouched region stays white.
	untouched := p.Image().RGBAAt(7, 7)
	require.Equal(t, uint8(0xff), untouched.R)
}

func TestPlotterZeroValueLeavesWhite(t *testing.T) {
	p := raster.NewPlotter(4, 4)
	data := []byte{0x00}
	err := p.Plot(0, 0, 4, 1, 0, 2, data)
	require.NoError(t, err)

	c := p.Image().RGBAAt(0, 0)
	require.Equal(t, uint8(0xff), c.R)
	require.Equal(t, uint8(0xff), c.G)
	require.Equal(t, uint8(0xff), c.B)
}

func TestPlotterRejectsUnsupportedBpp(t *testing.T) {
	p := raster.NewPlotter(4, 4)
	err := p.Plot(0, 0, 4, 1, 0, 4, []byte{0x00, 0x00})
	require.Error(t, err)
	require.True(t, errors.Is(err, raster.ErrUnsupportedBPP))
}

// A second full-ink composite over an already-black pixel must wrap
// the 8-bit subtraction (spec.md §4.5) rather than clamp at zero: the
// second pass subtracts 255 from a channel already at 0.
func TestPlotterCompositeWrapsOnUnderflow(t *testing.T) {
	p := raster.NewPlotter(2, 2)
	data := []byte{0xff}

	require.NoError(t, p.Plot(0, 0, 1, 1, 0 /* black */, 2, data))
	first := p.Image().RGBAAt(0, 0)
	require.Equal(t, uint8(0), first.R)

	require.NoError(t, p.Plot(0, 0, 1, 1, 0 /* black */, 2, data))
	second := p.Image().RGBAAt(0, 0)
	require.Equal(t, uint8(1), second.R)
	require.Equal(t, uint8(1), second.G)
	require.Equal(t, uint8(1), second.B)
}

func TestYOffsetTable(t *testing.T) {
	require.Equal(t, int64(-120), raster.YOffset(1))
	require.Equal(t, int64(-240), raster.YOffset(4))
	require.Equal(t, int64(-120), raster.YOffset(5))
	require.Equal(t, int64(-240), raster.YOffset(6))
	require.Equal(t, int64(0), raster.YOffset(0))
	require.Equal(t, int64(0), raster.YOffset(2))
}
