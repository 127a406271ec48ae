// Package config loads escpr's runtime configuration via viper:
// a YAML file, overridable by ESCPR_-prefixed environment variables,
// layered over sane defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level configuration struct for the escpr daemon
// and CLI tools.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Printer PrinterConfig `mapstructure:"printer"`
	Logging LoggingConfig `mapstructure:"logging"`
	App     AppConfig     `mapstructure:"app"`
}

// ServerConfig configures the capture/relay daemon (the "escpr
// server" subcommand).
type ServerConfig struct {
	ListenAddress string        `mapstructure:"listen_address" validate:"required"`
	CaptureDir    string        `mapstructure:"capture_dir"`
	AcceptTimeout time.Duration `mapstructure:"accept_timeout"`
}

// PrinterConfig holds page and unit settings and the upstream printer
// a captured job can optionally be relayed to. Of these, only
// RelayAddress is read by a command (the server subcommand); the
// encode subcommand takes DPI, page size and compression from its own
// flags and their defaults, not from this struct.
type PrinterConfig struct {
	DPI             int     `mapstructure:"dpi"`
	BaseUnitPerInch int64   `mapstructure:"base_unit_per_inch"`
	PageWidthMM     float64 `mapstructure:"page_width_mm"`
	PageHeightMM    float64 `mapstructure:"page_height_mm"`
	Compress        bool    `mapstructure:"compress"`
	RelayAddress    string  `mapstructure:"relay_address"`
}

// LoggingConfig configures the zap/lumberjack logging stack.
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig carries application metadata.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Load reads configuration from the given file path (if non-empty)
// plus any ESCPR_-prefixed environment variables, layered over
// defaults, and returns the decoded Config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("escpr")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/escpr")
	}

	v.SetEnvPrefix("ESCPR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_address", "0.0.0.0:9100")
	v.SetDefault("server.capture_dir", "./captures")
	v.SetDefault("server.accept_timeout", "0s")

	v.SetDefault("printer.dpi", 360)
	v.SetDefault("printer.base_unit_per_inch", 14400)
	v.SetDefault("printer.page_width_mm", 210.0)
	v.SetDefault("printer.page_height_mm", 297.0)
	v.SetDefault("printer.compress", false)
	v.SetDefault("printer.relay_address", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("logging.compress", true)

	v.SetDefault("app.name", "escpr")
	v.SetDefault("app.version", "dev")
}

func validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address is required")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValid := false
	for _, lvl := range validLevels {
		if cfg.Logging.Level == lvl {
			isValid = true
			break
		}
	}
	if !isValid {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if cfg.Printer.DPI <= 0 {
		return fmt.Errorf("printer.dpi must be positive")
	}

	return nil
}
