package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the application configuration
type Config struct {
	Port            string        `env:"ZIGO_PORT" envDefault:"7777"`
	ChatReplyDelay  time.Duration `env:"ZIGO_CHAT_REPLY_DELAY" envDefault:"1s"`
	Seed            bool          `env:"ZIGO_SEED" envDefault:"true"`
	LogLevel        string        `env:"ZIGO_LOG_LEVEL" envDefault:"info"`
	LogPretty       bool          `env:"ZIGO_LOG_PRETTY" envDefault:"false"`
	Debug           bool          `env:"ZIGO_DEBUG" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"ZIGO_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigin   string        `env:"ZIGO_ALLOWED_ORIGIN" envDefault:"*"`
}

// Load reads the configuration from environment variables, applying defaults
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ChatReplyDelay < 0 {
		return Config{}, fmt.Errorf("ZIGO_CHAT_REPLY_DELAY must not be negative, got %s", cfg.ChatReplyDelay)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("ZIGO_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// Logger builds the root logger described by the configuration
func (c Config) Logger() zerolog.Logger {
	return c.loggerTo(os.Stdout)
}

func (c Config) loggerTo(w io.Writer) zerolog.Logger {
	if c.LogPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
