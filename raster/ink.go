package raster

// inkEndpoint is a min/max RGB pair a cartridge's ink value is
// interpolated between.
type inkEndpoint struct {
	min [3]uint8
	max [3]uint8
}

// inkTable holds the per-cartridge-slot color endpoints, indexed by
// the color field of a raster header. Slot 3 has no observed use in
// captured jobs and is carried only for completeness.
var inkTable = [7]inkEndpoint{
	0: {min: [3]uint8{0x00, 0x00, 0x00}, max: [3]uint8{0xff, 0xff, 0xff}}, // black
	1: {min: [3]uint8{0xff, 0x00, 0xff}, max: [3]uint8{0xff, 0xff, 0xff}}, // magenta
	2: {min: [3]uint8{0x00, 0xff, 0xff}, max: [3]uint8{0xff, 0xff, 0xff}}, // cyan
	3: {min: [3]uint8{0x00, 0x00, 0x00}, max: [3]uint8{0xff, 0xff, 0xff}}, // unused
	4: {min: [3]uint8{0xff, 0xff, 0x00}, max: [3]uint8{0xff, 0xff, 0xff}}, // yellow
	5: {min: [3]uint8{0x11, 0x11, 0x11}, max: [3]uint8{0xff, 0xff, 0xff}}, // alt black a
	6: {min: [3]uint8{0x22, 0x22, 0x22}, max: [3]uint8{0xff, 0xff, 0xff}}, // alt black b
}

// inkYOffset carries the per-color vertical offset (in head-top page
// units) observed in captured jobs: colors 1 and 5 land 120 units
// above the nominal head position, colors 4 and 6 land 240 units
// above it. The cause is unconfirmed; possibly related to nozzle rows
// being staggered per ink reservoir.
var inkYOffset = map[int]int64{
	1: -120,
	4: -240,
	5: -120,
	6: -240,
}

// YOffset returns the vertical offset to apply to headTop for the
// given ink color index.
func YOffset(color int) int64 {
	return inkYOffset[color]
}

// inkColor interpolates a cartridge's endpoint colors by proportion
// (0 = max/white, 1 = min/full ink), matching the reference decoder's
// generate_color.
func inkColor(color int, proportion float64) (r, g, b uint8) {
	ep := inkTable[color%len(inkTable)]
	pinv := 1 - proportion
	mix := func(cmin, cmax uint8) uint8 {
		return uint8(float64(cmin)*proportion + float64(cmax)*pinv)
	}
	return mix(ep.min[0], ep.max[0]), mix(ep.min[1], ep.max[1]), mix(ep.min[2], ep.max[2])
}

// quantizeLevels is the highest intensity level a raster sample of
// the given bits per pixel can hold (2^bpp - 1).
func quantizeLevels(bpp int) int {
	return (1 << uint(bpp)) - 1
}
