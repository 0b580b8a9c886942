// Package logger builds the process-wide zerolog logger from configuration.
// Components derive child loggers from it instead of touching globals.
package logger

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// LoggerConfig is validated up front so a typo in config.yaml fails the boot
// instead of silently falling back.
type LoggerConfig struct {
	Level          string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format         string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	Env            string `mapstructure:"env" validate:"omitempty,oneof=dev staging prod"`
	ServiceName    string `mapstructure:"serviceName"`
	ServiceVersion string `mapstructure:"serviceVersion"`
	WithCaller     bool   `mapstructure:"withCaller"`
}

// New builds the root logger. Production-like environments always emit JSON to
// stdout; dev gets a human console writer on stderr.
func New(cfg *LoggerConfig) (zerolog.Logger, error) {
	cfg.setDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return zerolog.Logger{}, fmt.Errorf("logger config validation error: %w", err)
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
		logger = zerolog.New(writer)
	} else {
		logger = zerolog.New(os.Stdout)
	}

	logger = logger.With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Str("env", cfg.Env).
		Logger()

	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return logger, err
	}
	zerolog.SetGlobalLevel(level)

	return logger, nil
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.ServiceName == "" {
		c.ServiceName = "catalog-service"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}
	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
}
