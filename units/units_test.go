package units_test

import (
	"testing"

	"github.com/72nd/escpr/units"
	"github.com/stretchr/testify/require"
)

func TestEncodeSignedNegative(t *testing.T) {
	// -358 as a 4-byte little-endian two's complement value.
	got := units.EncodeSigned(-358, 4)
	require.Equal(t, []byte{0x9a, 0xfe, 0xff, 0xff}, got)
}

func TestEncodeDecodeSignedRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128, 32767, -32768, 118, -80}
	for _, v := range values {
		for _, width := range []int{1, 2, 4} {
			if v > 0 && v >= int64(1)<<(8*uint(width)-1) {
				continue
			}
			if v < 0 && -v > int64(1)<<(8*uint(width)-1) {
				continue
			}
			enc := units.EncodeSigned(v, width)
			require.Len(t, enc, width)
			require.Equal(t, v, units.DecodeSigned(enc))
		}
	}
}

func TestFromSingleParamDPI(t *testing.T) {
	cfg := units.FromSingleParam(10)
	require.Equal(t, 360, cfg.DPI)
	require.True(t, cfg.Configured)
}

func TestMMToPageUnitsCeils(t *testing.T) {
	// 1mm at 360 dpi: 360/25.4 = 14.1732..., must ceil to 15.
	require.Equal(t, int64(15), units.MMToPageUnits(1, 360))
	require.Equal(t, int64(0), units.MMToPageUnits(0, 360))
}

func TestFromFiveParam(t *testing.T) {
	cfg := units.FromFiveParam(40, 40, 40, 0, 56) // base = 0 + 256*56 = 14336
	require.Equal(t, int64(14336), cfg.BaseUnitPerInch)
	require.InDelta(t, 40.0/14336.0, cfg.PageUnit, 1e-9)
}
