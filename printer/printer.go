// Package printer implements the ESC/P-R printer state machine: a
// stateful interpreter whose transitions are driven by parsed
// commands, tracking mode, graphics enable, unit configuration, page
// geometry, head position, and the currently-expected raster payload.
package printer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/units"
)

// Mode is the printer's sublanguage mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRemote
)

// ErrUnconfigured is returned when a raster command arrives before
// page geometry or unit configuration has been established.
var ErrUnconfigured = errors.New("printer: raster command before page/unit configuration")

// PageGeometry holds the declared page dimensions and margins, all in
// page units.
type PageGeometry struct {
	PageWidth     int64
	PageLength    int64
	TopMargin     int64
	BottomMargin  int64
	Configured    bool
}

// HeadPosition is the print head's current location, in page units.
type HeadPosition struct {
	Left int64
	Top  int64
}

// RasterCommand is the header parsed from an "i" command: the raster
// mode is entered until ExpectedPayloadBytes of decompressed raster
// data have been consumed.
type RasterCommand struct {
	ColorIndex           int
	CompressionMode      int
	BitsPerPixel         int
	BytesPerRow          int
	Rows                 int
	ExpectedPayloadBytes int
}

// NozzleInfo records the "(D" nozzle-spacing command's fields. Their
// exact semantics are under-documented upstream; they're kept for
// introspection/logging only, per spec.
type NozzleInfo struct {
	BaseUnit   int64
	Vertical   int64
	Horizontal int64
}

// State is the printer's full interpreted state. It is owned
// exclusively by the interpreter loop driving Eval.
type State struct {
	Mode          Mode
	Graphics      bool
	RasterPending *RasterCommand

	Units    units.Config
	Geometry PageGeometry
	Head     HeadPosition

	PrintDirection int // 0 = bidirectional, 1 = unidirectional
	Interleave     int
	ColorMode      int
	DotSize        int
	Nozzle         NozzleInfo
	PreviousColor  int
}

// New creates a State at its initial position: head_top is -80 to
// account for the first feed landing above the nominal page origin.
func New() *State {
	return &State{
		Head: HeadPosition{Top: -80},
	}
}

// Eval evaluates a single parsed command against the state, returning
// the RasterCommand the moment an "i" command is accepted (the
// caller is then responsible for reading the raster payload and
// calling ConsumeRaster). The only error returned wraps
// ErrUnconfigured, for a raster header that arrives before unit and
// page configuration; unknown commands are logged and treated as
// non-fatal.
func (s *State) Eval(cmd command.Command) (*RasterCommand, error) {
	if cmd.Name == command.RemoteEnd {
		slog.Debug("printer: leaving remote mode")
		s.Mode = ModeNormal
		return nil, nil
	}

	if cmd.Kind == command.Remote {
		s.evalRemote(cmd)
		return nil, nil
	}

	return s.evalNormal(cmd)
}

func (s *State) evalRemote(cmd command.Command) {
	switch cmd.Name {
	case "SN", "FP", "PP", "LD", "JE", "PM", "TI", "DP", "MI", "US":
		slog.Debug("printer: informational remote command", "name", cmd.Name, "params", cmd.Params)
	default:
		slog.Warn("printer: unknown remote command", "name", cmd.Name, "params", cmd.Params)
	}
}

func (s *State) evalNormal(cmd command.Command) (*RasterCommand, error) {
	switch cmd.Name {
	case "@":
		slog.Debug("printer: reset")
		s.Graphics = false
		s.Mode = ModeNormal
		s.RasterPending = nil

	case "\r":
		slog.Debug("printer: carriage return")
		s.Head.Left = 0
		s.Graphics = false
		s.Mode = ModeNormal
		s.RasterPending = nil

	case "(R":
		if string(cmd.Params) == "\x00REMOTE1" {
			slog.Debug("printer: entering remote mode")
			s.Mode = ModeRemote
		}

	case "(G":
		if len(cmd.Params) > 0 && cmd.Params[0] == 1 {
			slog.Debug("printer: graphics enabled")
			s.Graphics = true
		}

	case "(U":
		s.evalUnitCommand(cmd.Params)

	case "U":
		if len(cmd.Params) > 0 {
			s.PrintDirection = int(cmd.Params[0])
		}

	case "(i":
		if len(cmd.Params) > 0 {
			s.Interleave = int(cmd.Params[0])
		}

	case "(C":
		if len(cmd.Params) == 2 || len(cmd.Params) == 4 {
			s.Geometry.PageLength = units.DecodeUnsignedLE(cmd.Params)
			s.Geometry.Configured = true
		}

	case "(c":
		if len(cmd.Params) == 4 {
			s.Geometry.TopMargin = units.DecodeUnsignedLE(cmd.Params[0:2])
			s.Geometry.BottomMargin = units.DecodeUnsignedLE(cmd.Params[2:4])
		} else if len(cmd.Params) == 8 {
			s.Geometry.TopMargin = units.DecodeUnsignedLE(cmd.Params[0:4])
			s.Geometry.BottomMargin = units.DecodeUnsignedLE(cmd.Params[4:8])
		}

	case "(S":
		if len(cmd.Params) == 8 {
			s.Geometry.PageWidth = units.DecodeUnsignedLE(cmd.Params[0:4])
			s.Geometry.PageLength = units.DecodeUnsignedLE(cmd.Params[4:8])
			s.Geometry.Configured = true
		}

	case "(K":
		if len(cmd.Params) == 2 && cmd.Params[0] == 0 {
			s.ColorMode = int(cmd.Params[1])
		}

	case "(D":
		if len(cmd.Params) == 4 {
			s.Nozzle = NozzleInfo{
				BaseUnit:   units.DecodeUnsignedLE(cmd.Params[0:2]),
				Vertical:   int64(cmd.Params[2]),
				Horizontal: int64(cmd.Params[3]),
			}
		}

	case "(e":
		if len(cmd.Params) == 2 && cmd.Params[0] == 0 {
			s.DotSize = int(cmd.Params[1])
		}

	case "(v":
		if len(cmd.Params) == 2 || len(cmd.Params) == 4 {
			feed := units.DecodeUnsignedLE(cmd.Params)
			s.Head.Top += feed
			slog.Debug("printer: vertical advance", "feed", feed, "head_top", s.Head.Top)
		}

	case "(V":
		// Supplemented: absolute vertical position from the top margin
		// (printtest.py's move_vertical), kept as the counterpart of the
		// relative "(v" advance.
		if len(cmd.Params) == 2 || len(cmd.Params) == 4 {
			s.Head.Top = units.DecodeUnsignedLE(cmd.Params)
			slog.Debug("printer: absolute vertical position", "head_top", s.Head.Top)
		}

	case "($":
		if len(cmd.Params) == 4 {
			feed := units.DecodeUnsignedLE(cmd.Params)
			s.Head.Left += feed
			slog.Debug("printer: horizontal advance", "feed", feed, "head_left", s.Head.Left)
		}

	case "i":
		return s.evalRaster(cmd.Params)

	default:
		slog.Warn("printer: unknown normal command", "name", cmd.Name, "params", cmd.Params)
	}

	return nil, nil
}

func (s *State) evalUnitCommand(params []byte) {
	switch len(params) {
	case 1:
		value := int64(params[0])
		s.Units = units.FromSingleParam(value)
		slog.Debug("printer: unit config (1-param)", "dpi", s.Units.DPI)

	case 5:
		pu := int64(params[0])
		vu := int64(params[1])
		hu := int64(params[2])
		baseLo := int64(params[3])
		baseHi := int64(params[4])
		s.Units = units.FromFiveParam(pu, vu, hu, baseLo, baseHi)
		slog.Debug("printer: unit config (5-param)", "dpi", s.Units.DPI, "base", s.Units.BaseUnitPerInch)
	}
}

func (s *State) evalRaster(params []byte) (*RasterCommand, error) {
	if len(params) != 7 {
		slog.Warn("printer: malformed raster header, ignoring", "len", len(params))
		return nil, nil
	}

	if !s.Units.Configured || !s.Geometry.Configured {
		return nil, fmt.Errorf("printer: raster command arrived before configuration: %w", ErrUnconfigured)
	}

	color := int(params[0])
	compress := int(params[1])
	bpp := int(params[2])
	bytesPerRow := int(params[3]) + 256*int(params[4])
	rows := int(params[5]) + 256*int(params[6])

	rc := &RasterCommand{
		ColorIndex:           color,
		CompressionMode:      compress,
		BitsPerPixel:         bpp,
		BytesPerRow:          bytesPerRow,
		Rows:                 rows,
		ExpectedPayloadBytes: bytesPerRow * rows,
	}
	s.RasterPending = rc

	slog.Debug("printer: raster header", "color", color, "compress", compress,
		"bpp", bpp, "bytes_per_row", bytesPerRow, "rows", rows)

	return rc, nil
}

// ConsumeRaster clears raster_pending after the framer has read and
// decoded the expected payload and handed it to the plotter. The head
// position is explicitly NOT advanced here: advances only come from
// explicit "(v"/"($" move commands.
func (s *State) ConsumeRaster() {
	s.PreviousColor = 0
	if s.RasterPending != nil {
		s.PreviousColor = s.RasterPending.ColorIndex
	}
	s.RasterPending = nil
}
