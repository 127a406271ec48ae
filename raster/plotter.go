// Package raster implements the ink compositing and raster band
// codec shared by the decoder and encoder: subtractive color
// blending onto a canvas, and CMYK band quantization/packing for
// synthesizing a job.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnsupportedBPP is returned when a raster band declares a bits-
// per-pixel value other than 2 or 8.
var ErrUnsupportedBPP = errors.New("raster: unsupported bits per pixel")

// Plotter accumulates decoded raster bands onto a single RGB canvas,
// the way a real print head lays ink onto a fixed sheet across many
// raster commands.
type Plotter struct {
	canvas *image.RGBA
}

// NewPlotter allocates a canvas of the given page dimensions (in
// pixels), initialized to white.
func NewPlotter(width, height int) *Plotter {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	return &Plotter{canvas: img}
}

// Image returns the accumulated canvas.
func (p *Plotter) Image() *image.RGBA {
	return p.canvas
}

// Plot composites one decoded raster band into the canvas at
// (headLeft, headTop), using bpp-sized samples unpacked from data.
// Each output row is stretched 2x vertically (matching the reference
// decoder's "imgy+(py*2)" / "imgy+(py*2)+1" pair), and compositing is
// subtractive: ink only darkens, never lightens, a pixel already
// painted by an earlier band.
func (p *Plotter) Plot(headLeft, headTop int64, width, height, color_, bpp int, data []byte) error {
	if bpp != 2 && bpp != 8 {
		return fmt.Errorf("raster: bpp %d: %w", bpp, ErrUnsupportedBPP)
	}

	bounds := p.canvas.Bounds()
	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			offset := py*width + px

			var value int
			switch bpp {
			case 2:
				byteOffset := offset / 4
				bitOffset := uint(offset % 4)
				if byteOffset >= len(data) {
					continue
				}
				value = int((data[byteOffset] >> (bitOffset * 2)) & 0x3)
			case 8:
				if offset >= len(data) {
					continue
				}
				value = int(data[offset])
			}

			proportion := float64(value) / float64(quantizeLevels(bpp))
			ir, ig, ib := inkColor(color_, proportion)

			imgx := int(headLeft) + px
			imgyTop := int(headTop) + py*2

			for _, imgy := range [2]int{imgyTop, imgyTop + 1} {
				pt := image.Pt(imgx, imgy)
				if !pt.In(bounds) {
					continue
				}
				existing := p.canvas.RGBAAt(imgx, imgy)
				r := subtract(existing.R, 0xff-ir)
				g := subtract(existing.G, 0xff-ig)
				b := subtract(existing.B, 0xff-ib)
				p.canvas.SetRGBA(imgx, imgy, color.RGBA{R: r, G: g, B: b, A: 0xff})
			}
		}
	}
	return nil
}

// subtract wraps channel - delta mod 256, matching the reference
// decoder's raw uint8 band arithmetic (spec.md §4.5: "wrapping
// allowed; the source permits 8-bit underflow").
func subtract(channel, delta uint8) uint8 {
	return channel - delta
}
