// Package config loads the sigil command's configuration from a file and the environment.
//
// Every setting can be overridden by an environment variable named after its key, prefixed with
// SIGIL_ and with dots replaced by underscores, e.g. SIGIL_CURVE_PRESET or SIGIL_LOG_LEVEL.
package config

import (
	"fmt"
	"strings"

	"github.com/codahale/sigil/internal/log"
	"github.com/codahale/sigil/pkg/sigil"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the complete sigil configuration.
type Config struct {
	Curve  Curve  `mapstructure:"curve"`
	Mode   string `mapstructure:"mode" validate:"oneof=implicit-even tagged"`
	Length int    `mapstructure:"length" validate:"min=2,max=255"`
	Info   string `mapstructure:"info"`
	KDF    string `mapstructure:"kdf" validate:"oneof=hkdf-sha256 hkdf-sha512 hkdf-sha3-256 hkdf-blake2b-256 strobe"`
	Log    Log    `mapstructure:"log"`
	Scan   Scan   `mapstructure:"scan"`
}

// Curve is either the name of a preset curve or a full set of curve parameters as big-endian hex
// integers. Explicit parameters take precedence over the preset.
type Curve struct {
	Preset string `mapstructure:"preset"`
	Name   string `mapstructure:"name"`
	P      string `mapstructure:"p" validate:"omitempty,hexadecimal"`
	A      string `mapstructure:"a" validate:"omitempty,hexadecimal"`
	B      string `mapstructure:"b" validate:"omitempty,hexadecimal"`
	Gx     string `mapstructure:"gx" validate:"omitempty,hexadecimal"`
	Gy     string `mapstructure:"gy" validate:"omitempty,hexadecimal"`
	N      string `mapstructure:"n" validate:"omitempty,hexadecimal"`
	H      string `mapstructure:"h" validate:"omitempty,hexadecimal"`
}

// Log configures logging.
type Log struct {
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
}

// Scan configures the scanner.
type Scan struct {
	Workers int `mapstructure:"workers" validate:"min=0"`
}

// Load reads the configuration from the given file, if any, and the environment, then validates
// it. Settings missing from both take their default values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("sigil")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks the configuration's values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if !c.Curve.explicit() && c.Curve.Preset == "" {
		return fmt.Errorf("invalid config: no curve preset or parameters")
	}

	return nil
}

// CurveSpec returns the configured curve record.
func (c *Config) CurveSpec() (sigil.CurveSpec, error) {
	if !c.Curve.explicit() {
		return sigil.Preset(c.Curve.Preset)
	}

	return sigil.CurveSpec{
		Name: c.Curve.Name,
		P:    c.Curve.P,
		A:    c.Curve.A,
		B:    c.Curve.B,
		Gx:   c.Curve.Gx,
		Gy:   c.Curve.Gy,
		N:    c.Curve.N,
		H:    c.Curve.H,
	}, nil
}

// Scheme returns a Scheme with the configured curve and settings.
func (c *Config) Scheme() (*sigil.Scheme, error) {
	cs, err := c.CurveSpec()
	if err != nil {
		return nil, err
	}

	curve, err := cs.Curve()
	if err != nil {
		return nil, fmt.Errorf("invalid curve: %w", err)
	}

	mode, err := sigil.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	return sigil.NewScheme(curve,
		sigil.WithMode(mode),
		sigil.WithLength(c.Length),
		sigil.WithInfo([]byte(c.Info)),
		sigil.WithKDF(c.KDF),
	)
}

// LogConfig returns the logging configuration.
func (c *Config) LogConfig() log.Config {
	return log.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
	}
}

// explicit returns true if any curve parameter is given.
func (c *Curve) explicit() bool {
	return c.P != "" || c.A != "" || c.B != "" || c.Gx != "" || c.Gy != "" || c.N != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("curve.preset", sigil.Toy120.Name)
	v.SetDefault("curve.name", "")
	v.SetDefault("curve.p", "")
	v.SetDefault("curve.a", "")
	v.SetDefault("curve.b", "")
	v.SetDefault("curve.gx", "")
	v.SetDefault("curve.gy", "")
	v.SetDefault("curve.n", "")
	v.SetDefault("curve.h", "")
	v.SetDefault("mode", sigil.ImplicitEven.String())
	v.SetDefault("length", sigil.DefaultLength)
	v.SetDefault("info", "sigil.v1")
	v.SetDefault("kdf", "hkdf-sha256")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("scan.workers", 0)
}
