package command

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ESC is the escape byte that opens a normal-mode command window.
const ESC = 0x1b

// Framer drives the outer byte-stream reader: an ESC byte opens a
// command window and is never itself part of the buffer fed to the
// parser, in either mode. In remote mode this still correctly detects
// the ESC 00 00 00 terminator, because ParseRemote's sentinel check
// is defined over the post-ESC 00 00 00 remainder.
type Framer struct {
	remote bool
	pend   []byte
}

// NewFramer creates a Framer starting in normal mode.
func NewFramer() *Framer {
	return &Framer{}
}

// SetRemote switches the framer's mode. The job decoder calls this
// after the printer state machine has evaluated a mode-changing
// command (entering remote mode on "(R" with REMOTE1, leaving it on
// the remote-end sentinel).
func (f *Framer) SetRemote(remote bool) {
	f.remote = remote
	f.pend = f.pend[:0]
}

// Feed processes a single input byte and returns a parsed command
// when one completes, or nil if more bytes are needed.
func (f *Framer) Feed(b byte) (*Command, error) {
	if b == ESC && len(f.pend) == 0 {
		return nil, nil
	}
	f.pend = append(f.pend, b)

	var res Result
	if f.remote {
		res = ParseRemote(f.pend)
	} else {
		res = ParseNormal(f.pend)
	}

	if res.Err != nil {
		return nil, res.Err
	}
	if res.Cmd != nil {
		f.pend = f.pend[:0]
		return res.Cmd, nil
	}
	return nil, nil
}

// FlushBestEffort attempts to parse whatever is left in the pending
// buffer when the input stream closes (spec's "Cancellation": a
// partial command buffer is attempted one last time, best-effort).
func (f *Framer) FlushBestEffort() *Command {
	if len(f.pend) == 0 {
		return nil
	}
	var res Result
	if f.remote {
		res = ParseRemote(f.pend)
	} else {
		res = ParseNormal(f.pend)
	}
	f.pend = f.pend[:0]
	if res.Cmd != nil {
		return res.Cmd
	}
	return nil
}

// enable sequence, matched as three ordered lines (spec.md §4.3):
//  1. any line whose suffix is ESC \x01 @EJL 1284.4\n
//  2. exact line "@EJL     \n"
//  3. exact 2-byte read "ESC @"
var (
	preambleLine1Suffix = []byte("\x1b\x01@EJL 1284.4\n")
	preambleLine2       = []byte("@EJL\x20\x20\x20\x20\x20\n")
	preambleLine3       = []byte("\x1b@")
)

// SkipPreamble consumes bytes from br up to and including the
// ESC/P-R enable sequence. Reaching end-of-input before the third
// line is fatal (ErrMalformedPreamble). The caller must continue
// reading the stream through the same *bufio.Reader afterward, since
// SkipPreamble may have buffered bytes past the preamble.
func SkipPreamble(br *bufio.Reader) error {
	line, err := br.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("command: reading preamble line 1: %w", ErrMalformedPreamble)
	}
	if !bytes.HasSuffix(line, preambleLine1Suffix) {
		return fmt.Errorf("command: preamble line 1 %q does not match: %w", line, ErrMalformedPreamble)
	}

	line, err = br.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("command: reading preamble line 2: %w", ErrMalformedPreamble)
	}
	if !bytes.Equal(line, preambleLine2) {
		return fmt.Errorf("command: preamble line 2 %q does not match: %w", line, ErrMalformedPreamble)
	}

	last := make([]byte, 2)
	if _, err := io.ReadFull(br, last); err != nil {
		return fmt.Errorf("command: reading preamble line 3: %w", ErrMalformedPreamble)
	}
	if !bytes.Equal(last, preambleLine3) {
		return fmt.Errorf("command: preamble line 3 %q does not match: %w", last, ErrMalformedPreamble)
	}

	return nil
}
