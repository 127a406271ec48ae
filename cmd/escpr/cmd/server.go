package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/72nd/escpr/config"
	"github.com/72nd/escpr/internal/applog"
	"github.com/72nd/escpr/internal/xmit"
	"github.com/72nd/escpr/job"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefineServerCommand builds the "server" subcommand: a long-running
// capture sink that decodes every job it accepts.
func DefineServerCommand() *cobra.Command {
	var (
		listenAddr string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Accept ESC/P-R print jobs over TCP and capture them to disk",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(listenAddr, outDir)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "addr", "", "listen address, overrides config server.listen_address")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "capture directory, overrides config server.capture_dir")

	return cmd
}

func runServer(listenAddr, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listenAddr != "" {
		cfg.Server.ListenAddress = listenAddr
	}
	if outDir != "" {
		cfg.Server.CaptureDir = outDir
	}

	logger, err := applog.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()
	applog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Server.CaptureDir, 0o755); err != nil {
		return fmt.Errorf("creating capture directory: %w", err)
	}

	sink, err := xmit.ListenCaptureSink(cfg.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}
	defer sink.Close()

	logger.Info("escpr server listening",
		zap.String("address", sink.Addr().String()),
		zap.String("capture_dir", cfg.Server.CaptureDir),
	)

	for {
		if err := acceptOnce(sink, cfg, logger); err != nil {
			logger.Error("job handling failed", zap.Error(err))
		}
	}
}

func acceptOnce(sink *xmit.CaptureSink, cfg *config.Config, logger *zap.Logger) error {
	raw, remote, err := sink.AcceptJob()
	if err != nil {
		return fmt.Errorf("accepting job: %w", err)
	}

	id := uuid.New().String()
	logger.Info("job captured",
		zap.String("job_id", id),
		zap.String("remote_addr", remote.String()),
		zap.Int("bytes", len(raw)),
	)

	rawPath := filepath.Join(cfg.Server.CaptureDir, fmt.Sprintf("out-%s.epson", id))
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		return fmt.Errorf("writing raw capture: %w", err)
	}

	img, err := job.Decode(bytes.NewReader(raw), job.DecodeOptions{})
	if err != nil {
		logger.Warn("job decode failed, raw capture kept", zap.String("job_id", id), zap.Error(err))
		return nil
	}

	pngPath := filepath.Join(cfg.Server.CaptureDir, fmt.Sprintf("out-%s.png", id))
	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("creating png file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	if cfg.Printer.RelayAddress != "" {
		relay := xmit.NewSender(cfg.Printer.RelayAddress)
		if _, err := relay.Send(raw); err != nil {
			logger.Warn("relay to printer failed", zap.String("job_id", id), zap.Error(err))
		}
	}

	logger.Info("job decoded", zap.String("job_id", id), zap.String("png", pngPath))
	return nil
}
