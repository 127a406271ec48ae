package command_test

import (
	"testing"

	"github.com/72nd/escpr/command"
	"github.com/stretchr/testify/require"
)

func TestParseNormalLengthPrefixed(t *testing.T) {
	buf := []byte("(R\x08\x00\x00REMOTE1")
	res := command.ParseNormal(buf)
	require.NotNil(t, res.Cmd)
	require.Equal(t, "(R", res.Cmd.Name)
	require.Equal(t, []byte("\x00REMOTE1"), res.Cmd.Params)
}

func TestParseNormalNeedsMoreBytes(t *testing.T) {
	res := command.ParseNormal([]byte("(R\x08\x00\x00REM"))
	require.Nil(t, res.Cmd)
	require.Greater(t, res.Need, 0)
}

func TestParseNormalFixedLength(t *testing.T) {
	res := command.ParseNormal([]byte("U\x01"))
	require.NotNil(t, res.Cmd)
	require.Equal(t, "U", res.Cmd.Name)
	require.Equal(t, []byte{0x01}, res.Cmd.Params)
}

func TestParseNormalZeroArg(t *testing.T) {
	res := command.ParseNormal([]byte("@"))
	require.NotNil(t, res.Cmd)
	require.Equal(t, "@", res.Cmd.Name)
	require.Empty(t, res.Cmd.Params)
}

func TestParseNormalResetEquivalence(t *testing.T) {
	buf := []byte("\x01@EJL 1284.4\n@EJL\x20\x20\x20\x20\x20\n")
	res := command.ParseNormal(buf)
	require.NotNil(t, res.Cmd)
	require.Equal(t, "@", res.Cmd.Name)
}

func TestParseNormalUnknownDefaultsTo99(t *testing.T) {
	res := command.ParseNormal([]byte("Z"))
	require.Nil(t, res.Cmd)
	require.Equal(t, 99, res.Need)
}

func TestParseRemoteEnd(t *testing.T) {
	res := command.ParseRemote([]byte{0x00, 0x00, 0x00})
	require.NotNil(t, res.Cmd)
	require.Equal(t, command.RemoteEnd, res.Cmd.Name)
}

func TestParseRemoteNamed(t *testing.T) {
	res := command.ParseRemote([]byte("PM\x02\x00\x00\x00"))
	require.NotNil(t, res.Cmd)
	require.Equal(t, "PM", res.Cmd.Name)
	require.Equal(t, []byte{0x00, 0x00}, res.Cmd.Params)
}

func TestBuildersRoundTrip(t *testing.T) {
	built := command.BuildLengthPrefixed('C', []byte{0x01, 0x02})
	res := command.ParseNormal(built)
	require.NotNil(t, res.Cmd)
	require.Equal(t, "(C", res.Cmd.Name)
	require.Equal(t, []byte{0x01, 0x02}, res.Cmd.Params)
}
