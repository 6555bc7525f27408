// Package config loads linebreak configuration files.
//
// A configuration file is TOML (linebreak.toml) or YAML (linebreak.yaml).
// Values are defaults for the CLI and the server; command line flags always
// override them. Environment variables are expanded before parsing with the
// ${VAR} and ${VAR:-default} forms.
//
//	[breaking]
//	width = 6000
//	alignment = "justify"
//	threshold = 2
//
//	[cache]
//	url = "${LINEBREAK_CACHE:-file://}"
package config

import (
	"fmt"
	"time"

	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/knuth"
)

// File is the content of a configuration file.
type File struct {
	Breaking BreakingConfig `toml:"breaking" yaml:"breaking" json:"breaking"`
	Text     TextConfig     `toml:"text" yaml:"text" json:"text"`
	Cache    CacheConfig    `toml:"cache" yaml:"cache" json:"cache"`
	Server   ServerConfig   `toml:"server" yaml:"server" json:"server"`
}

// BreakingConfig holds the breaking parameters. Zero values keep the
// defaults of [knuth.DefaultConfig].
type BreakingConfig struct {
	Width          int      `toml:"width" yaml:"width" json:"width,omitempty"`
	FirstWidth     int      `toml:"first_width" yaml:"first_width" json:"first_width,omitempty"`
	Widths         []int    `toml:"widths" yaml:"widths" json:"widths,omitempty"`
	Alignment      string   `toml:"alignment" yaml:"alignment" json:"alignment,omitempty"`
	AlignmentLast  string   `toml:"alignment_last" yaml:"alignment_last" json:"alignment_last,omitempty"`
	Threshold      float64  `toml:"threshold" yaml:"threshold" json:"threshold,omitempty"`
	RetryThreshold float64  `toml:"retry_threshold" yaml:"retry_threshold" json:"retry_threshold,omitempty"`
	Force          *bool    `toml:"force" yaml:"force" json:"force,omitempty"`
	Recovery       bool     `toml:"recovery" yaml:"recovery" json:"recovery,omitempty"`
	MaxRecovery    int      `toml:"max_recovery_attempts" yaml:"max_recovery_attempts" json:"max_recovery_attempts,omitempty"`
	MaxFlagCount   int      `toml:"max_flag_count" yaml:"max_flag_count" json:"max_flag_count,omitempty"`
	Looseness      int      `toml:"looseness" yaml:"looseness" json:"looseness,omitempty"`
	BreakClass     string   `toml:"break_class" yaml:"break_class" json:"break_class,omitempty"`
	FlaggedDemerit *float64 `toml:"flagged_demerit" yaml:"flagged_demerit" json:"flagged_demerit,omitempty"`
	FitnessDemerit *float64 `toml:"fitness_demerit" yaml:"fitness_demerit" json:"fitness_demerit,omitempty"`
}

// Apply copies the configured values onto cfg. Unknown alignment names
// fail with [errors.ErrCodeInvalidAlignment].
func (b BreakingConfig) Apply(cfg *knuth.Config) error {
	if b.Alignment != "" {
		a, err := knuth.ParseAlignment(b.Alignment)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAlignment, err, "breaking.alignment")
		}
		cfg.Alignment = a
	}
	if b.AlignmentLast != "" {
		a, err := knuth.ParseAlignment(b.AlignmentLast)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAlignment, err, "breaking.alignment_last")
		}
		cfg.AlignmentLast = a
	}
	if b.Threshold != 0 {
		cfg.Threshold = b.Threshold
	}
	if b.Force != nil {
		cfg.Force = *b.Force
	}
	if b.Recovery {
		cfg.PartOverflowRecovery = true
	}
	if b.MaxRecovery != 0 {
		cfg.MaxRecoveryAttempts = b.MaxRecovery
	}
	if b.MaxFlagCount != 0 {
		cfg.MaxFlagCount = b.MaxFlagCount
	}
	if b.Looseness != 0 {
		cfg.Looseness = b.Looseness
	}
	if b.FlaggedDemerit != nil {
		cfg.RepeatedFlaggedDemerit = *b.FlaggedDemerit
	}
	if b.FitnessDemerit != nil {
		cfg.IncompatibleFitnessDemerit = *b.FitnessDemerit
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "breaking")
	}
	return nil
}

// BreakClassValue parses the configured break class.
func (b BreakingConfig) BreakClassValue() (knuth.BreakClass, error) {
	c, err := knuth.ParseBreakClass(b.BreakClass)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "breaking.break_class")
	}
	return c, nil
}

// TextConfig holds the text measurement options.
type TextConfig struct {
	UnitsPerCell  int  `toml:"units_per_cell" yaml:"units_per_cell" json:"units_per_cell,omitempty"`
	Hyphenate     bool `toml:"hyphenate" yaml:"hyphenate" json:"hyphenate,omitempty"`
	HyphenPenalty int  `toml:"hyphen_penalty" yaml:"hyphen_penalty" json:"hyphen_penalty,omitempty"`
	Reflow        bool `toml:"reflow" yaml:"reflow" json:"reflow,omitempty"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	URL     string   `toml:"url" yaml:"url" json:"url,omitempty"`
	TTL     Duration `toml:"ttl" yaml:"ttl" json:"ttl,omitempty"`
	Disable bool     `toml:"disable" yaml:"disable" json:"disable,omitempty"`
	// Prefix scopes every key, so deployments can share one backend.
	Prefix  string   `toml:"prefix" yaml:"prefix" json:"prefix,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string   `toml:"addr" yaml:"addr" json:"addr,omitempty"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout" json:"read_timeout,omitempty"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout" json:"write_timeout,omitempty"`
	MaxBodyBytes int64    `toml:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes,omitempty"`
	Workers      int      `toml:"workers" yaml:"workers" json:"workers,omitempty"`
}

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 4 << 20
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

// Default returns a configuration with the server defaults filled in.
func Default() *File {
	return &File{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration{DefaultReadTimeout},
			WriteTimeout: Duration{DefaultWriteTimeout},
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Validate checks values that do not depend on other layers.
func (f *File) Validate() error {
	if f.Breaking.Width != 0 {
		if err := errors.ValidateWidth(f.Breaking.Width); err != nil {
			return err
		}
	}
	if f.Breaking.FirstWidth != 0 {
		if err := errors.ValidateWidth(f.Breaking.FirstWidth); err != nil {
			return err
		}
	}
	if err := errors.ValidateWidths(f.Breaking.Widths); err != nil {
		return err
	}
	cfg := knuth.DefaultConfig()
	if err := f.Breaking.Apply(&cfg); err != nil {
		return err
	}
	if _, err := f.Breaking.BreakClassValue(); err != nil {
		return err
	}
	if err := errors.ValidateCacheURL(f.Cache.URL); err != nil {
		return err
	}
	if f.Text.UnitsPerCell < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "text.units_per_cell must not be negative")
	}
	return nil
}

// Duration is a time.Duration written as a string such as "10s" or "1h30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
