// Package command implements the ESC/P-R command grammar: framing and
// parsing of the normal and remote-mode command sublanguages, plus the
// symmetric builders used when synthesizing a job.
package command

import (
	"bytes"
	"errors"
	"fmt"
)

// Kind distinguishes the two ESC/P-R sublanguages.
type Kind int

const (
	Normal Kind = iota
	Remote
)

func (k Kind) String() string {
	if k == Remote {
		return "remote"
	}
	return "normal"
}

// Command is a single parsed ESC/P-R command.
type Command struct {
	Name   string
	Kind   Kind
	Params []byte
}

// RemoteEnd is the synthetic command name produced when the remote-mode
// sentinel ESC 00 00 00 is parsed.
const RemoteEnd = "remote-end"

// ErrMalformedPreamble is returned when the enable sequence is not
// found before the input is exhausted.
var ErrMalformedPreamble = errors.New("command: malformed preamble")

// SizeTable gives the fixed parameter length of single-letter normal
// commands whose length isn't otherwise length-prefixed. Any name not
// present here defaults to 99 (spec's deliberately conservative
// "unknown command" length).
var SizeTable = map[string]int{
	"U":  1,
	"@":  0,
	"\\": 1,
	"r":  1,
	"\r": 0,
	"i":  7,
}

// UnknownCommandDefaultLen is the conservative length assumed for
// single-letter commands not present in SizeTable.
const UnknownCommandDefaultLen = 99

// resetEquivalent is the tail sequence that, when it terminates a
// normal-mode buffer, is treated as equivalent to a printer reset ("@").
var resetEquivalent = []byte("\x01@EJL 1284.4\n@EJL\x20\x20\x20\x20\x20\n")

// Result is the streaming parse outcome: exactly one of Need, Cmd, or
// Err is meaningful.
//
//   - Need > 0: the buffer is a valid prefix of some command but more
//     bytes are required before it can be decided.
//   - Cmd != nil: a complete command was parsed.
//   - Err != nil: the buffer can never become valid.
type Result struct {
	Need int
	Cmd  *Command
	Err  error
}

func need(n int) Result { return Result{Need: n} }
func ok(c Command) Result {
	cc := c
	return Result{Cmd: &cc}
}

// ParseNormal parses a normal-mode command buffer. buf is expected to
// start immediately after the ESC byte that opened the command (the
// framer consumes that byte itself).
func ParseNormal(buf []byte) Result {
	if bytes.HasSuffix(buf, resetEquivalent) {
		return ok(Command{Name: "@", Kind: Normal, Params: nil})
	}

	if len(buf) == 0 {
		return need(1)
	}

	if buf[0] == '(' {
		if len(buf) < 4 {
			return need(4 - len(buf))
		}
		name := string(buf[0:2])
		n := int(buf[2]) + 256*int(buf[3])
		total := 4 + n
		if len(buf) < total {
			return need(total - len(buf))
		}
		return ok(Command{Name: name, Kind: Normal, Params: append([]byte(nil), buf[4:total]...)})
	}

	name := string(buf[0:1])
	n, known := SizeTable[name]
	if !known {
		n = UnknownCommandDefaultLen
	}
	total := 1 + n
	if len(buf) < total {
		return need(total - len(buf))
	}
	return ok(Command{Name: name, Kind: Normal, Params: append([]byte(nil), buf[1:total]...)})
}

// ParseRemote parses a remote-mode command buffer, post-ESC.
func ParseRemote(buf []byte) Result {
	if bytes.Equal(buf, []byte{0x00, 0x00, 0x00}) {
		return ok(Command{Name: RemoteEnd, Kind: Remote})
	}

	if len(buf) < 4 {
		return need(4 - len(buf))
	}

	name := string(buf[0:2])
	n := int(buf[2]) + 256*int(buf[3])
	total := 4 + n
	if len(buf) < total {
		return need(total - len(buf))
	}
	return ok(Command{Name: name, Kind: Remote, Params: append([]byte(nil), buf[4:total]...)})
}

// BuildLengthPrefixed builds a "( LETTER LL LH params" command. The
// "(" is part of the command name in ESC/P-R terms, but callers pass
// only the letter that follows it, e.g. 'C' for "(C".
func BuildLengthPrefixed(letter byte, params []byte) []byte {
	n := len(params)
	out := make([]byte, 0, 4+n)
	out = append(out, '(', letter, byte(n&0xff), byte((n>>8)&0xff))
	out = append(out, params...)
	return out
}

// BuildRemote builds a "NAME LL LH params" remote command body (the
// caller is responsible for the surrounding "(R...REMOTE1" wrapper and
// the terminating sentinel).
func BuildRemote(name string, params []byte) []byte {
	if len(name) != 2 {
		panic(fmt.Sprintf("command: remote command name must be 2 bytes, got %q", name))
	}
	n := len(params)
	out := make([]byte, 0, 4+n)
	out = append(out, name[0], name[1], byte(n&0xff), byte((n>>8)&0xff))
	out = append(out, params...)
	return out
}

// BuildFixed builds a fixed-size single-letter normal command, e.g.
// "U" (print direction) or "i" (raster header).
func BuildFixed(letter byte, params []byte) []byte {
	out := make([]byte, 0, 1+len(params))
	out = append(out, letter)
	out = append(out, params...)
	return out
}

// WithESC prepends the ESC byte to a normal-mode command body built by
// BuildLengthPrefixed/BuildFixed, producing the actual wire bytes: the
// builders themselves return the post-ESC body, matching what
// ParseNormal expects, since the framer strips the ESC before parsing.
func WithESC(body []byte) []byte {
	out := make([]byte, 0, 1+len(body))
	out = append(out, ESC)
	out = append(out, body...)
	return out
}

// RemoteEndSentinel is the 4-byte sequence (including the leading ESC)
// that terminates remote mode.
var RemoteEndSentinel = []byte{0x1b, 0x00, 0x00, 0x00}
