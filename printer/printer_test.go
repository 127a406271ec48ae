package printer_test

import (
	"testing"

	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/printer"
	"github.com/stretchr/testify/require"
)

func TestCarriageReturnResetsHeadLeft(t *testing.T) {
	s := printer.New()
	s.Head.Left = 500
	_, err := s.Eval(command.Command{Name: "\r", Kind: command.Normal})
	require.NoError(t, err)
	require.Equal(t, int64(0), s.Head.Left)
	require.False(t, s.Graphics)
	require.Equal(t, printer.ModeNormal, s.Mode)
}

func TestResetClearsGraphicsAndMode(t *testing.T) {
	s := printer.New()
	s.Graphics = true
	s.Mode = printer.ModeRemote
	_, err := s.Eval(command.Command{Name: "@", Kind: command.Normal})
	require.NoError(t, err)
	require.False(t, s.Graphics)
	require.Equal(t, printer.ModeNormal, s.Mode)
}

func TestRemoteEntryAndExit(t *testing.T) {
	s := printer.New()
	_, err := s.Eval(command.Command{Name: "(R", Kind: command.Normal, Params: []byte("\x00REMOTE1")})
	require.NoError(t, err)
	require.Equal(t, printer.ModeRemote, s.Mode)

	_, err = s.Eval(command.Command{Name: command.RemoteEnd, Kind: command.Remote})
	require.NoError(t, err)
	require.Equal(t, printer.ModeNormal, s.Mode)
}

func TestRasterBeforeConfigurationIsError(t *testing.T) {
	s := printer.New()
	_, err := s.Eval(command.Command{
		Name: "i",
		Kind: command.Normal,
		Params: []byte{0, 0, 2, 0x20, 0x01, 60, 0},
	})
	require.ErrorIs(t, err, printer.ErrUnconfigured)
}

func TestRasterHeaderExpectedPayload(t *testing.T) {
	s := printer.New()
	_, err := s.Eval(command.Command{Name: "(U", Kind: command.Normal, Params: []byte{10}})
	require.NoError(t, err)
	_, err = s.Eval(command.Command{
		Name: "(S", Kind: command.Normal,
		Params: []byte{0x40, 0x1f, 0, 0, 0x00, 0x4e, 0, 0},
	})
	require.NoError(t, err)

	// bytes_per_row=288 (0x0120 little-endian), rows=60.
	rc, err := s.Eval(command.Command{
		Name: "i", Kind: command.Normal,
		Params: []byte{0, 0, 2, 0x20, 0x01, 60, 0},
	})
	require.NoError(t, err)
	require.NotNil(t, rc)
	require.Equal(t, 288, rc.BytesPerRow)
	require.Equal(t, 60, rc.Rows)
	require.Equal(t, 17280, rc.ExpectedPayloadBytes)
	require.Same(t, rc, s.RasterPending)
}

func TestVerticalAdvanceAccumulates(t *testing.T) {
	s := printer.New()
	start := s.Head.Top
	_, err := s.Eval(command.Command{Name: "(v", Kind: command.Normal, Params: []byte{60, 0}})
	require.NoError(t, err)
	require.Equal(t, start+60, s.Head.Top)

	_, err = s.Eval(command.Command{Name: "(v", Kind: command.Normal, Params: []byte{60, 0}})
	require.NoError(t, err)
	require.Equal(t, start+120, s.Head.Top)
}

func TestAbsoluteVerticalPosition(t *testing.T) {
	s := printer.New()
	_, err := s.Eval(command.Command{Name: "(V", Kind: command.Normal, Params: []byte{0xe8, 0x03}})
	require.NoError(t, err)
	require.Equal(t, int64(1000), s.Head.Top)
}

func TestUnknownRemoteCommandIsNonFatal(t *testing.T) {
	s := printer.New()
	_, err := s.Eval(command.Command{Name: "ZZ", Kind: command.Remote, Params: []byte{1, 2}})
	require.NoError(t, err)
}

func TestConsumeRasterClearsPending(t *testing.T) {
	s := printer.New()
	s.Eval(command.Command{Name: "(U", Kind: command.Normal, Params: []byte{10}})
	s.Eval(command.Command{Name: "(S", Kind: command.Normal, Params: []byte{0x40, 0x1f, 0, 0, 0x00, 0x4e, 0, 0}})
	_, err := s.Eval(command.Command{
		Name: "i", Kind: command.Normal,
		Params: []byte{2, 0, 2, 0x20, 0x01, 60, 0},
	})
	require.NoError(t, err)
	require.NotNil(t, s.RasterPending)

	s.ConsumeRaster()
	require.Nil(t, s.RasterPending)
	require.Equal(t, 2, s.PreviousColor)
}
