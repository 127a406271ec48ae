package job

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/packbits"
	"github.com/72nd/escpr/printer"
	"github.com/72nd/escpr/raster"
)

// DecodeOptions configures Decode. The zero value is valid: the page
// canvas is sized from the job's own "(S" command once it is parsed.
type DecodeOptions struct{}

// Decode reads a captured ESC/P-R byte stream and reconstructs the
// printed page as an image. It drives the command framer and printer
// state machine byte by byte, plotting each raster band as it
// completes. A stream that ends mid-command is given one best-effort
// final parse attempt before EOF is treated as the end of the job.
func Decode(r io.Reader, _ DecodeOptions) (image.Image, error) {
	br := bufio.NewReader(r)
	if err := command.SkipPreamble(br); err != nil {
		return nil, err
	}

	st := printer.New()
	fr := command.NewFramer()
	var plot *raster.Plotter

	apply := func(cmd command.Command) error {
		rc, err := st.Eval(cmd)
		if err != nil {
			return err
		}

		switch {
		case cmd.Name == "(R" && st.Mode == printer.ModeRemote:
			fr.SetRemote(true)
		case cmd.Name == command.RemoteEnd:
			fr.SetRemote(false)
		}

		if rc == nil {
			return nil
		}

		if plot == nil {
			if !st.Geometry.Configured {
				return fmt.Errorf("job: raster command before page geometry: %w", printer.ErrUnconfigured)
			}
			w := st.Units.PageUnitsToPixels(st.Geometry.PageWidth)
			h := st.Units.PageUnitsToPixels(st.Geometry.PageLength)
			if w <= 0 || h <= 0 {
				return fmt.Errorf("job: invalid page canvas %dx%d", w, h)
			}
			plot = raster.NewPlotter(w, h)
		}

		payload, err := readRasterPayload(br, rc)
		if err != nil {
			return fmt.Errorf("reading raster payload: %w", err)
		}

		if rc.BitsPerPixel != 2 && rc.BitsPerPixel != 8 {
			return fmt.Errorf("job: bpp %d: %w", rc.BitsPerPixel, raster.ErrUnsupportedBPP)
		}
		headTop := st.Head.Top + raster.YOffset(rc.ColorIndex)
		widthPixels := rc.BytesPerRow * 8 / rc.BitsPerPixel
		if err := plot.Plot(st.Head.Left, headTop, widthPixels, rc.Rows, rc.ColorIndex, rc.BitsPerPixel, payload); err != nil {
			return fmt.Errorf("plotting raster band: %w", err)
		}
		st.ConsumeRaster()
		return nil
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if cmd := fr.FlushBestEffort(); cmd != nil {
					if err := apply(*cmd); err != nil {
						slog.Warn("job: final command evaluation failed", "error", err)
					}
				}
				break
			}
			return nil, fmt.Errorf("job: reading stream: %w", err)
		}

		cmd, err := fr.Feed(b)
		if err != nil {
			return nil, fmt.Errorf("job: framing: %w", err)
		}
		if cmd == nil {
			continue
		}
		if err := apply(*cmd); err != nil {
			return nil, fmt.Errorf("job: evaluating %q: %w", cmd.Name, err)
		}
	}

	if plot == nil {
		return nil, ErrNoRasterData
	}
	return plot.Image(), nil
}

// readRasterPayload reads the raster band payload the header in rc
// describes: raw bytes when uncompressed, or a PackBits-framed
// decode when compressed.
func readRasterPayload(br *bufio.Reader, rc *printer.RasterCommand) ([]byte, error) {
	if rc.CompressionMode == 0 {
		buf := make([]byte, rc.ExpectedPayloadBytes)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return packbits.DecodeFramed(br, rc.ExpectedPayloadBytes)
}
