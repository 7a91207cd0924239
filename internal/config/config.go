// Package config provides YAML-based configuration loading with
// environment overrides for the Funny Combination game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
	Server  ServerConfig  `yaml:"server"`
}

// StorageConfig locates the score database.
type StorageConfig struct {
	Path string `yaml:"path" env:"COMBO_DB"`
}

// LogConfig controls the charmbracelet logger.
type LogConfig struct {
	Level string `yaml:"level" env:"COMBO_LOG_LEVEL"`
	File  string `yaml:"file" env:"COMBO_LOG_FILE"` // Local sessions only
}

// GlyphSet selects how symbols are drawn.
type GlyphSet string

const (
	GlyphsEmoji GlyphSet = "emoji"
	GlyphsASCII GlyphSet = "ascii"
)

// DisplayConfig tunes rendering. None of it affects game timing.
type DisplayConfig struct {
	Glyphs        GlyphSet      `yaml:"glyphs" env:"COMBO_GLYPHS"`
	TapFlash      time.Duration `yaml:"tap_flash" env:"COMBO_TAP_FLASH"`
	GameOverDelay time.Duration `yaml:"game_over_delay" env:"COMBO_GAME_OVER_DELAY"`
}

// ServerConfig configures `combo serve`.
type ServerConfig struct {
	SSHAddress  string        `yaml:"ssh_address" env:"COMBO_SSH_ADDR"`
	HostKey     string        `yaml:"host_key" env:"COMBO_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"COMBO_IDLE_TIMEOUT"`
	HTTPAddress string        `yaml:"http_address" env:"COMBO_HTTP_ADDR"` // Empty disables the API
}

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Path: "~/.funnycombination/scores.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.funnycombination/combo.log",
		},
		Display: DisplayConfig{
			Glyphs:        GlyphsEmoji,
			TapFlash:      300 * time.Millisecond,
			GameOverDelay: time.Second,
		},
		Server: ServerConfig{
			SSHAddress:  ":2222",
			HostKey:     "~/.funnycombination/ssh_host_key",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error

	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path must not be empty"))
	}
	switch c.Display.Glyphs {
	case GlyphsEmoji, GlyphsASCII:
	default:
		errs = append(errs, fmt.Errorf("display.glyphs: unknown set %q", c.Display.Glyphs))
	}
	if c.Display.TapFlash < 0 {
		errs = append(errs, errors.New("display.tap_flash must not be negative"))
	}
	if c.Display.GameOverDelay < 0 {
		errs = append(errs, errors.New("display.game_over_delay must not be negative"))
	}
	if c.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.idle_timeout must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
