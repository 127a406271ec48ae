package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/72nd/escpr/config"
	"github.com/72nd/escpr/internal/applog"
	"github.com/72nd/escpr/job"
	"github.com/spf13/cobra"
)

// DefineDecodeCommand builds the "decode" subcommand: render a
// captured job stream as a PNG.
func DefineDecodeCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:          "decode <capture>",
		Short:        "Render a captured ESC/P-R job stream as a PNG",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0], outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "PNG output path (default: <capture>.png)")

	return cmd
}

func runDecode(inputPath, outPath string) error {
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

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening capture: %w", err)
	}
	defer f.Close()

	img, err := job.Decode(f, job.DecodeOptions{})
	if err != nil {
		return fmt.Errorf("decoding job: %w", err)
	}

	if outPath == "" {
		outPath = inputPath + ".png"
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	fmt.Fprintf(os.Stdout, "wrote %s\n", outPath)
	return nil
}
