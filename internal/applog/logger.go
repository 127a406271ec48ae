// Package applog builds the zap logger escpr's command-line tools log
// through, configured from config.LoggingConfig.
package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/72nd/escpr/config"
)

// New builds a *zap.Logger from cfg: console or JSON encoding, stderr
// or a rotated file via lumberjack, with the configured level.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("applog: %w", err)
	}

	encoder := encoderFor(cfg.Format)
	sink, err := sinkFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("applog: building sink: %w", err)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func encoderFor(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	ec.LevelKey = "level"
	ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	ec.MessageKey = "message"

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func sinkFor(cfg config.LoggingConfig) (zapcore.WriteSyncer, error) {
	if cfg.OutputFile == "" {
		return zapcore.AddSync(os.Stderr), nil
	}

	dir := filepath.Dir(cfg.OutputFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	lumber := &lumberjack.Logger{
		Filename:   cfg.OutputFile,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(lumber), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
