// Package units implements the ESC/P-R unit system: conversions among
// millimeters, inches, and the printer's page/vertical/horizontal units,
// all parameterized by a configurable base unit (typically 1/14400 inch).
package units

import "math"

// DefaultBaseUnitPerInch is the base unit most Epson ESC/P-R drivers use.
const DefaultBaseUnitPerInch = 14400

// Config holds the unit ratios a printer job is operating under. It is
// mutated only by the printer state machine in response to the "(U"
// command; every other component treats it as read-only.
type Config struct {
	BaseUnitPerInch int64
	PageUnit        float64 // fraction of an inch
	VUnit           float64 // fraction of an inch
	HUnit           float64 // fraction of an inch
	DPI             int
	Configured      bool
}

// FromSingleParam derives a Config from the 1-parameter form of "(U":
// the value is a multiple of 1/3600 inch, and it sets page/v/h unit to
// the same ratio. DPI is derived as 3600/value.
func FromSingleParam(value int64) Config {
	ratio := float64(value) / 3600.0
	return Config{
		BaseUnitPerInch: 3600,
		PageUnit:        ratio,
		VUnit:           ratio,
		HUnit:           ratio,
		DPI:             int(3600 / value),
		Configured:      true,
	}
}

// FromFiveParam derives a Config from the 5-parameter form of "(U":
// pu, vu, hu expressed in multiples of 1/base inch.
func FromFiveParam(pu, vu, hu, baseLo, baseHi int64) Config {
	base := baseLo + 256*baseHi
	return Config{
		BaseUnitPerInch: base,
		PageUnit:        float64(pu) / float64(base),
		VUnit:           float64(vu) / float64(base),
		HUnit:           float64(hu) / float64(base),
		DPI:             int(float64(base) / float64(pu)),
		Configured:      true,
	}
}

// VUnitToInches converts a count of vertical units to inches.
func (c Config) VUnitToInches(n int64) float64 {
	return float64(n) * c.VUnit
}

// HUnitToInches converts a count of horizontal units to inches.
func (c Config) HUnitToInches(n int64) float64 {
	return float64(n) * c.HUnit
}

// MMToPageUnits converts a millimeter measurement to page units at the
// given DPI, rounding up toward positive infinity:
//
//	ceil(mm * dpi / 25.4)
func MMToPageUnits(mm float64, dpi int) int64 {
	return int64(math.Ceil(mm * float64(dpi) / 25.4))
}

// MMToInches converts millimeters to inches.
func MMToInches(mm float64) float64 {
	return mm / 25.4
}

// InchesToMM converts inches to millimeters.
func InchesToMM(in float64) float64 {
	return in * 25.4
}

// EncodeSigned encodes val as little-endian two's complement across
// width bytes (1, 2, or 4). Negative values wrap as
// num = val mod 2^(8*width).
func EncodeSigned(val int64, width int) []byte {
	var num int64
	if val >= 0 {
		num = val
	} else {
		num = int64(uint64(1)<<(8*uint(width))) + val
	}

	out := make([]byte, width)
	for i := 0; i < width; i++ {
		out[i] = byte(num & 0xff)
		num >>= 8
	}
	return out
}

// DecodeSigned decodes a little-endian two's complement value of
// len(b) bytes (1, 2, or 4).
func DecodeSigned(b []byte) int64 {
	var num int64
	for i := len(b) - 1; i >= 0; i-- {
		num = (num << 8) | int64(b[i])
	}

	width := len(b)
	signBit := int64(1) << (8*uint(width) - 1)
	if num&signBit != 0 {
		num -= int64(1) << (8 * uint(width))
	}
	return num
}

// PageUnitsToPixels converts a count of page units to a pixel count
// at this config's DPI, rounding to the nearest pixel.
func (c Config) PageUnitsToPixels(n int64) int {
	return int(math.Round(float64(n) * c.PageUnit * float64(c.DPI)))
}

// DecodeUnsignedLE decodes a little-endian unsigned value of len(b)
// bytes (1, 2, or 4), as used by most ESC/P-R length and count fields.
func DecodeUnsignedLE(b []byte) int64 {
	var num int64
	for i := len(b) - 1; i >= 0; i-- {
		num = (num << 8) | int64(b[i])
	}
	return num
}
