package command_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/72nd/escpr/command"
	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, f *command.Framer, data []byte) []*command.Command {
	t.Helper()
	var cmds []*command.Command
	for _, b := range data {
		c, err := f.Feed(b)
		require.NoError(t, err)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return cmds
}

func TestFramerRemoteEntryAndExit(t *testing.T) {
	f := command.NewFramer()

	// "\x1b(R\x08\x00\x00REMOTE1" enters remote mode.
	cmds := feedAll(t, f, []byte("\x1b(R\x08\x00\x00REMOTE1"))
	require.Len(t, cmds, 1)
	require.Equal(t, "(R", cmds[0].Name)

	f.SetRemote(true)

	// The next ESC\x00\x00\x00 ends remote mode.
	cmds = feedAll(t, f, []byte{0x1b, 0x00, 0x00, 0x00})
	require.Len(t, cmds, 1)
	require.Equal(t, command.RemoteEnd, cmds[0].Name)
}

func TestFramerSkipsEscInNormalMode(t *testing.T) {
	f := command.NewFramer()
	cmds := feedAll(t, f, []byte("\x1bU\x01"))
	require.Len(t, cmds, 1)
	require.Equal(t, "U", cmds[0].Name)
	require.Equal(t, []byte{0x01}, cmds[0].Params)
}

func TestSkipPreambleLeavesReaderPositioned(t *testing.T) {
	input := []byte("\x1b\x01@EJL 1284.4\n@EJL\x20\x20\x20\x20\x20\n\x1b@REST")
	br := bufio.NewReader(bytes.NewReader(input))
	require.NoError(t, command.SkipPreamble(br))

	rest, err := br.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte('R'), rest)
}

func TestSkipPreambleMalformed(t *testing.T) {
	br := bufio.NewReader(bytes.NewReader([]byte("not a preamble")))
	err := command.SkipPreamble(br)
	require.ErrorIs(t, err, command.ErrMalformedPreamble)
}
