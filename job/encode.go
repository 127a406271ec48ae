package job

import (
	"bytes"
	"image"

	"github.com/72nd/escpr/raster"
)

// EncodeOptions configures Encode. Zero values fall back to the
// defaults a typical ESC/P-R driver would choose: 360 DPI, a
// 1/14400-inch base unit, an A4 page, and uncompressed raster bands.
type EncodeOptions struct {
	DPI             int
	BaseUnitPerInch int64
	Compress        bool
	PageWidthMM     float64
	PageHeightMM    float64
}

func (o *EncodeOptions) setDefaults() {
	if o.DPI == 0 {
		o.DPI = 360
	}
	if o.BaseUnitPerInch == 0 {
		o.BaseUnitPerInch = 14400
	}
	if o.PageWidthMM == 0 {
		o.PageWidthMM = 210
	}
	if o.PageHeightMM == 0 {
		o.PageHeightMM = 297
	}
}

// Encode synthesizes a complete ESC/P-R job for img: the EJL
// preamble, remote-mode printer setup, page/unit/ink metadata, the
// raster bands covering the image, and the closing epilogue that
// releases the page.
func Encode(img image.Image, opts EncodeOptions) []byte {
	opts.setDefaults()

	em := raster.NewEmitter(raster.EncodeOptions{
		DPI:             opts.DPI,
		BaseUnitPerInch: opts.BaseUnitPerInch,
		Compress:        opts.Compress,
	})

	var buf bytes.Buffer
	buf.Write(preamble())
	buf.Write(metadataCommands(em, opts))
	buf.Write(em.BuildBands(img))
	buf.Write(epilogue())
	buf.Write(endPage())

	return buf.Bytes()
}
