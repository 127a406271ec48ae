package cmd

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/72nd/escpr/config"
	"github.com/72nd/escpr/internal/applog"
	"github.com/72nd/escpr/internal/xmit"
	"github.com/72nd/escpr/job"
	"github.com/spf13/cobra"
)

// DefineEncodeCommand builds the "encode" subcommand: turn an image
// into an ESC/P-R job stream and write it to a file and/or a printer.
func DefineEncodeCommand() *cobra.Command {
	var (
		outPath      string
		printerHost  string
		dpi          int
		pageWidthMM  float64
		pageHeightMM float64
		compress     bool
	)

	cmd := &cobra.Command{
		Use:          "encode <image>",
		Short:        "Build an ESC/P-R job stream from an image",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := job.EncodeOptions{
				DPI:          dpi,
				Compress:     compress,
				PageWidthMM:  pageWidthMM,
				PageHeightMM: pageHeightMM,
			}
			return runEncode(args[0], outPath, printerHost, opts)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the job stream to this file")
	cmd.Flags().StringVar(&printerHost, "host", "", "send the job stream to this printer address (host:port)")
	cmd.Flags().IntVar(&dpi, "dpi", 360, "raster DPI")
	cmd.Flags().Float64Var(&pageWidthMM, "page-width-mm", 210.0, "page width in millimeters")
	cmd.Flags().Float64Var(&pageHeightMM, "page-height-mm", 297.0, "page height in millimeters")
	cmd.Flags().BoolVar(&compress, "compress", false, "PackBits-compress raster bands")

	return cmd
}

func runEncode(imagePath, outPath, printerHost string, opts job.EncodeOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := applog.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()
	applog.SetDefault(logger)

	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	stream := job.Encode(img, opts)

	if outPath != "" {
		if err := os.WriteFile(outPath, stream, 0o644); err != nil {
			return fmt.Errorf("writing job file: %w", err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s (%d bytes)\n", outPath, len(stream))
	}

	if printerHost != "" {
		sender := xmit.NewSender(printerHost)
		if _, err := sender.Send(stream); err != nil {
			return fmt.Errorf("sending job to %s: %w", printerHost, err)
		}
		fmt.Fprintf(os.Stdout, "sent %d bytes to %s\n", len(stream), printerHost)
	}

	if outPath == "" && printerHost == "" {
		return fmt.Errorf("specify --out and/or --host")
	}

	return nil
}
