// Command escpr is the ESC/P-R toolkit: a capture server and
// standalone decode/encode subcommands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/72nd/escpr/cmd/escpr/cmd"
	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/raster"
)

// Exit codes per SPEC_FULL.md §6.
const (
	exitOK                = 0
	exitIOError           = 1
	exitMalformedPreamble = 2
	exitUnsupportedBPP    = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(os.Stderr, err)

	switch {
	case errors.Is(err, command.ErrMalformedPreamble):
		return exitMalformedPreamble
	case errors.Is(err, raster.ErrUnsupportedBPP):
		return exitUnsupportedBPP
	default:
		return exitIOError
	}
}
