// Package config loads shroud settings from a YAML file and SHROUD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/zoobzio/shroud"
	"github.com/zoobzio/shroud/casbinroles"
	"github.com/zoobzio/shroud/zapmask"
)

// Config is the complete shroud configuration.
type Config struct {
	Mask  MaskConfig  `koanf:"mask"`
	Log   LogConfig   `koanf:"log"`
	Authz AuthzConfig `koanf:"authz"`
}

// MaskConfig holds masking defaults.
type MaskConfig struct {
	DefaultChar string `koanf:"default_char"` // fill character for tags that do not set char=
}

// LogConfig holds logger and log redaction settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Mode   string `koanf:"mode"`   // copy or label
}

// AuthzConfig points at a casbin role graph used to expand principal roles.
// Both paths empty disables expansion.
type AuthzConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// applyDefaults fills unset values.
func applyDefaults(cfg *Config) {
	if cfg.Mask.DefaultChar == "" {
		cfg.Mask.DefaultChar = string(shroud.DefaultMaskChar)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = string(shroud.LogModeCopy)
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if utf8.RuneCountInString(c.Mask.DefaultChar) != 1 {
		errs = append(errs, fmt.Errorf("mask.default_char must be a single character, got %q", c.Mask.DefaultChar))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if _, err := shroud.ParseLogMode(c.Log.Mode); err != nil {
		errs = append(errs, fmt.Errorf("log.mode: %w", err))
	}
	if (c.Authz.ModelPath == "") != (c.Authz.PolicyPath == "") {
		errs = append(errs, errors.New("authz.model_path and authz.policy_path must be set together"))
	}

	return errors.Join(errs...)
}

// MaskChar returns the configured default fill character.
func (c *Config) MaskChar() rune {
	r, _ := utf8.DecodeRuneInString(c.Mask.DefaultChar)
	return r
}

// IndexOptions returns options for shroud.NewIndex.
func (c *Config) IndexOptions() []shroud.IndexOption {
	return []shroud.IndexOption{shroud.WithDefaultMaskChar(c.MaskChar())}
}

// LogMode returns the configured rendering mode, defaulting to copy.
func (c *Config) LogMode() shroud.LogMode {
	m, err := shroud.ParseLogMode(c.Log.Mode)
	if err != nil {
		return shroud.LogModeCopy
	}
	return m
}

// LogRedactor builds a LogRedactor over idx with the configured mode.
func (c *Config) LogRedactor(idx *shroud.Index) *shroud.LogRedactor {
	return shroud.NewLogRedactor(shroud.WithLogIndex(idx), shroud.WithLogMode(c.LogMode()))
}

// Zap returns the zapmask logger settings.
func (c *Config) Zap() zapmask.Config {
	return zapmask.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Expander loads the casbin role graph, or returns nil when none is configured.
func (c *Config) Expander() (*casbinroles.Expander, error) {
	if c.Authz.ModelPath == "" {
		return nil, nil
	}
	e, err := casbinroles.NewExpander(c.Authz.ModelPath, c.Authz.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load authz role graph: %w", err)
	}
	return e, nil
}
