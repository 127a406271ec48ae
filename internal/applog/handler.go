package applog

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// slogHandler adapts a *zap.Logger into an slog.Handler, so the
// library packages (units, packbits, command, printer, raster, job,
// internal/xmit), which only ever call the global log/slog logger,
// end up writing through the same zap core the cmd/ binary built —
// without those packages importing zap themselves.
type slogHandler struct {
	logger *zap.Logger
}

// NewSlogHandler builds an slog.Handler backed by logger.
func NewSlogHandler(logger *zap.Logger) slog.Handler {
	return &slogHandler{logger: logger}
}

// SetDefault installs logger as the process-wide slog default, so
// every library package's slog.Debug/Info/Warn/Error call is routed
// through it.
func SetDefault(logger *zap.Logger) {
	slog.SetDefault(slog.New(NewSlogHandler(logger)))
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Core().Enabled(zapLevel(level))
}

func (h *slogHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
		return true
	})

	if ce := h.logger.Check(zapLevel(record.Level), record.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, len(attrs))
	for i, a := range attrs {
		fields[i] = zap.Any(a.Key, a.Value.Any())
	}
	return &slogHandler{logger: h.logger.With(fields...)}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	return &slogHandler{logger: h.logger.With(zap.Namespace(name))}
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
