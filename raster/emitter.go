package raster

import (
	"bytes"
	"image"
	"math"

	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/packbits"
	"github.com/72nd/escpr/units"
	"github.com/nfnt/resize"
)

// headWidthPixels is the printable width of a single head pass, in
// source pixels, before the image is tiled across multiple passes.
const headWidthPixels = 288

// bandAdvanceUnits is the raw page-unit vertical feed applied between
// 60-row bands. It does not derive from the millimeter conversion the
// other feeds use: it is a fixed constant observed in every captured
// job regardless of DPI, close to but not exactly twice the 60-row
// band height, and is carried here unexplained rather than guessed at.
const bandAdvanceUnits = 118

// channelBand describes one of the four ink passes made per 60-row
// band: which raster color index to declare, the row offset within
// the band this ink's nozzles are offset by, and which CMYK channel
// feeds it.
type channelBand struct {
	colorIndex int
	rowOffset  int
	channel    int // 0=C, 1=M, 2=Y, 3=K
}

var bandOrder = []channelBand{
	{colorIndex: 0, rowOffset: 120, channel: 3}, // black
	{colorIndex: 2, rowOffset: 120, channel: 0}, // cyan
	{colorIndex: 1, rowOffset: 60, channel: 1},  // magenta
	{colorIndex: 4, rowOffset: 0, channel: 2},   // yellow
}

// EncodeOptions configures the Emitter.
type EncodeOptions struct {
	DPI             int
	BaseUnitPerInch int64
	Compress        bool
}

// Emitter synthesizes ESC/P-R raster-band commands for a source
// image: CMYK conversion, a bicubic half-width resize (the print head
// interleaves two source columns per output column), per-ink band
// extraction, 2-bit quantization, and 4-samples-per-byte packing.
type Emitter struct {
	opts     EncodeOptions
	unitsCfg units.Config
}

// NewEmitter creates an Emitter. A zero DPI defaults to 360, the
// common ESC/P-R operating resolution; a zero BaseUnitPerInch
// defaults to units.DefaultBaseUnitPerInch.
func NewEmitter(opts EncodeOptions) *Emitter {
	if opts.DPI == 0 {
		opts.DPI = 360
	}
	if opts.BaseUnitPerInch == 0 {
		opts.BaseUnitPerInch = units.DefaultBaseUnitPerInch
	}
	value := opts.BaseUnitPerInch / int64(opts.DPI)
	cfg := units.FromFiveParam(value, value, value, opts.BaseUnitPerInch&0xff, opts.BaseUnitPerInch>>8)
	return &Emitter{opts: opts, unitsCfg: cfg}
}

// Units returns the unit configuration this emitter's jobs declare
// via "(U", so the caller can reuse it for page geometry commands.
func (e *Emitter) Units() units.Config {
	return e.unitsCfg
}

func (e *Emitter) moveHorizontal(mm float64) []byte {
	pu := int64(math.Ceil(units.MMToInches(mm) / e.unitsCfg.HUnit))
	return command.WithESC(command.BuildLengthPrefixed('$', units.EncodeSigned(pu, 4)))
}

func (e *Emitter) advanceVerticalRaw(pu int64) []byte {
	return command.WithESC(command.BuildLengthPrefixed('v', units.EncodeSigned(pu, 4)))
}

// AdvanceVerticalMM builds a relative "(v" vertical feed command
// covering the given millimeter distance.
func (e *Emitter) AdvanceVerticalMM(mm float64) []byte {
	pu := int64(math.Ceil(units.MMToInches(mm) / e.unitsCfg.VUnit))
	return command.WithESC(command.BuildLengthPrefixed('v', units.EncodeSigned(pu, 4)))
}

func (e *Emitter) printData(payload []byte, colorIndex, bytesPerRow, rows int, compressed bool) []byte {
	compress := byte(0)
	if compressed {
		compress = 1
	}
	header := []byte{
		byte(colorIndex),
		compress,
		2, // bpp: fixed at 2 bits/pixel for raster bands
		byte(bytesPerRow & 0xff), byte(bytesPerRow >> 8),
		byte(rows & 0xff), byte(rows >> 8),
	}
	return command.WithESC(command.BuildFixed('i', append(header, payload...)))
}

// toCMYK converts an arbitrary image.Image to *image.CMYK using the
// standard library's color conversion.
func toCMYK(img image.Image) *image.CMYK {
	b := img.Bounds()
	out := image.NewCMYK(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

// channelValue extracts the given CMYK channel (0=C,1=M,2=Y,3=K) at
// (x, y), returning 0 outside the image's bounds.
func channelValue(img *image.CMYK, x, y, channel int) uint8 {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return 0
	}
	c := img.CMYKAt(x, y)
	switch channel {
	case 0:
		return c.C
	case 1:
		return c.M
	case 2:
		return c.Y
	default:
		return c.K
	}
}

// BuildBands builds the full sequence of raster-band commands needed
// to print img: a home-column reset per ink pass, four ink passes per
// 60-row band (offset per channelBand.rowOffset), tiled across the
// image width in 288-pixel head passes, walking from 120 rows above
// the image to 240 rows past its bottom so every offset band fully
// covers the page.
func (e *Emitter) BuildBands(img image.Image) []byte {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	cmyk := toCMYK(img)
	resizedAny := resize.Resize(uint(width/2), uint(height), cmyk, resize.Bicubic)
	resized, ok := resizedAny.(*image.CMYK)
	if !ok {
		resized = toCMYK(resizedAny)
	}

	rbounds := resized.Bounds()
	rwidth, rheight := rbounds.Dx(), rbounds.Dy()
	passes := int(math.Ceil(float64(rwidth) / float64(headWidthPixels)))

	var buf bytes.Buffer
	for yoffset := -120; yoffset < rheight+240; yoffset += 60 {
		for _, b := range bandOrder {
			buf.Write(e.moveHorizontal(1))

			for idx := 0; idx < passes; idx++ {
				x0 := headWidthPixels * idx
				y0 := yoffset + b.rowOffset

				samples := make([]uint8, 0, headWidthPixels*60)
				for py := 0; py < 60; py++ {
					for px := 0; px < headWidthPixels; px++ {
						v := channelValue(resized, rbounds.Min.X+x0+px, rbounds.Min.Y+y0+py, b.channel)
						samples = append(samples, Quantize(v, 2))
					}
				}

				payload := PackSamples(samples, 2)
				bytesPerRow := headWidthPixels / 4
				if e.opts.Compress {
					payload = packbits.Encode(payload)
				}
				buf.Write(e.printData(payload, b.colorIndex, bytesPerRow, 60, e.opts.Compress))
				buf.Write(e.moveHorizontal(81))
			}

			buf.WriteByte('\r')
		}

		buf.Write(e.advanceVerticalRaw(bandAdvanceUnits))
	}

	return buf.Bytes()
}
