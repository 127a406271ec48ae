package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/72nd/escpr/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9100", cfg.Server.ListenAddress)
	require.Equal(t, 360, cfg.Printer.DPI)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escpr.yaml")
	contents := []byte("server:\n  listen_address: \"127.0.0.1:9200\"\nprinter:\n  dpi: 720\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9200", cfg.Server.ListenAddress)
	require.Equal(t, 720, cfg.Printer.DPI)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: verbose\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveDPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("printer:\n  dpi: 0\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}
