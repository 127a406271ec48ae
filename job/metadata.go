package job

import (
	"bytes"

	"github.com/72nd/escpr/command"
	"github.com/72nd/escpr/raster"
	"github.com/72nd/escpr/units"
)

// preamble is the fixed byte sequence that opens every ESC/P-R job:
// a 3-byte pad, the EJL enable lines, and the normal-mode reset.
func preamble() []byte {
	return []byte("\x00\x00\x00\x1b\x01@EJL 1284.4\n@EJL     \n\x1b@")
}

// epilogue closes a job: a reset, then a remote-mode block loading
// the printer's saved configuration (LD) and ending the job (JE).
func epilogue() []byte {
	var buf bytes.Buffer
	buf.WriteByte(command.ESC)
	buf.WriteByte('@')

	buf.Write([]byte("\x1b(R\x08\x00\x00REMOTE1"))
	buf.Write(command.BuildRemote("LD", nil))
	buf.Write(command.BuildRemote("JE", []byte{0}))
	buf.Write(command.RemoteEndSentinel)
	return buf.Bytes()
}

// endPage is the last thing in a job, written after the epilogue: a
// carriage return followed by a form feed that ejects the page.
func endPage() []byte {
	return []byte{'\r', 0x0c}
}

// remoteSetupBlock declares the initial remote-mode commands every
// captured job carries: paper source, an unidentified PM marker, and
// a cluster of fixed-value commands whose semantics were never
// resolved (TI/DP/SN/MI/US), followed by the left-margin command.
func remoteSetupBlock() []byte {
	var buf bytes.Buffer
	buf.Write([]byte("\x1b(R\x08\x00\x00REMOTE1"))
	buf.Write(command.BuildRemote("PM", []byte{0, 0}))
	buf.Write(command.BuildRemote("PP", []byte{0, 1, 0xff})) // tray = -1
	buf.Write(command.BuildRemote("TI", []byte{0, 0x07, 0xe5, 0x05, 0x16, 0x05, 0x2c, 0x1b}))
	buf.Write(command.BuildRemote("DP", []byte{0, 0}))
	buf.Write(command.BuildRemote("SN", []byte{0}))
	buf.Write(command.BuildRemote("MI", []byte{0, 1, 0, 0}))
	buf.Write(command.BuildRemote("US", []byte{0, 0, 1}))
	buf.Write(command.BuildRemote("US", []byte{0, 1, 0}))
	buf.Write(command.BuildRemote("US", []byte{0, 2, 0}))
	buf.Write(command.BuildRemote("US", []byte{0, 5, 0}))
	buf.Write(command.BuildRemote("FP", []byte{0, 0, 0}))
	buf.Write(command.RemoteEndSentinel)
	return buf.Bytes()
}

// metadataCommands builds the normal-mode setup block that follows
// the remote setup: enabling graphics, declaring units and page
// geometry, ink/dot-size configuration, and the first vertical
// advance that positions the head at the top margin.
func metadataCommands(em *raster.Emitter, opts EncodeOptions) []byte {
	cfg := em.Units()

	var buf bytes.Buffer
	buf.Write(remoteSetupBlock())

	// Unidentified fixed-length command observed in every capture.
	buf.Write(command.WithESC(command.BuildLengthPrefixed('A', make([]byte, 9))))

	buf.Write(command.WithESC(command.BuildLengthPrefixed('G', []byte{1})))

	uparam := cfg.BaseUnitPerInch / int64(cfg.DPI)
	var uparams []byte
	uparams = append(uparams, units.EncodeSigned(uparam, 1)...) // page unit
	uparams = append(uparams, units.EncodeSigned(uparam, 1)...) // v unit
	uparams = append(uparams, units.EncodeSigned(uparam, 1)...) // h unit
	uparams = append(uparams, units.EncodeSigned(cfg.BaseUnitPerInch, 2)...)
	buf.Write(command.WithESC(command.BuildLengthPrefixed('U', uparams)))

	buf.Write(command.WithESC(command.BuildFixed('U', []byte{0})))
	buf.Write(command.WithESC(command.BuildLengthPrefixed('i', []byte{0})))

	pagelen := units.MMToPageUnits(opts.PageHeightMM, cfg.DPI)
	buf.Write(command.WithESC(command.BuildLengthPrefixed('C', units.EncodeSigned(pagelen, 4))))

	margintop := int64(-358)
	marginlen := int64(4407)
	marginParams := append(units.EncodeSigned(margintop, 4), units.EncodeSigned(marginlen, 4)...)
	buf.Write(command.WithESC(command.BuildLengthPrefixed('c', marginParams)))

	pw := units.MMToPageUnits(opts.PageWidthMM, cfg.DPI)
	ph := units.MMToPageUnits(opts.PageHeightMM, cfg.DPI)
	sizeParams := append(units.EncodeSigned(pw, 4), units.EncodeSigned(ph, 4)...)
	buf.Write(command.WithESC(command.BuildLengthPrefixed('S', sizeParams)))

	buf.Write(command.WithESC(command.BuildLengthPrefixed('K', []byte{0, 2})))

	base := units.DefaultBaseUnitPerInch
	vertical := int64(4) * base / 720
	horizontal := base / int64(cfg.DPI)
	nozzleParams := units.EncodeSigned(base, 2)
	nozzleParams = append(nozzleParams, units.EncodeSigned(vertical, 1)...)
	nozzleParams = append(nozzleParams, units.EncodeSigned(horizontal, 1)...)
	buf.Write(command.WithESC(command.BuildLengthPrefixed('D', nozzleParams)))

	buf.Write(command.WithESC(command.BuildLengthPrefixed('e', []byte{0, 0x11})))
	buf.Write(command.WithESC(command.BuildLengthPrefixed('m', []byte{0x20})))

	buf.Write(em.AdvanceVerticalMM(36.576))

	return buf.Bytes()
}
