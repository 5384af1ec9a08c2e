// Package config loads tempo's settings from a YAML file and the environment.
//
// Files are validated against an embedded CUE schema before they are decoded,
// so unknown keys and bad values are reported with their file positions.
// Environment variables override file values.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tempo/internal/temporal"
)

//go:embed schema.cue
var schemaSource string

// Environment variables read by FromEnv.
const (
	EnvZone   = "TEMPO_ZONE"
	EnvFormat = "TEMPO_FORMAT"
	EnvDB     = "TEMPO_DB"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds tempo's settings.
type Config struct {
	Zone   string `yaml:"zone"`
	Format string `yaml:"format"`
	DB     string `yaml:"db"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Zone:   "UTC",
		Format: FormatText,
		DB:     "tempo.db",
	}
}

// Load reads path over the defaults, then applies the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := cfg.merge(path, data); err != nil {
			return Config{}, err
		}
	}
	cfg = FromEnv(cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse validates and decodes YAML data over the defaults. filename is
// used in error positions only.
func Parse(filename string, data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.merge(filename, data); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(filename string, data []byte) error {
	if err := validateSchema(filename, data); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decoding %s: %w", filename, err)
	}
	return nil
}

func validateSchema(filename string, data []byte) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}
	value := ctx.BuildFile(file)
	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// FromEnv returns cfg with TEMPO_ZONE, TEMPO_FORMAT and TEMPO_DB applied.
// Empty variables are ignored.
func FromEnv(cfg Config, lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvZone); ok && v != "" {
		cfg.Zone = v
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		cfg.Format = v
	}
	if v, ok := lookup(EnvDB); ok && v != "" {
		cfg.DB = v
	}
	return cfg
}

// Validate checks values that may have come from the environment.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: format %q must be %q or %q", ErrInvalid, c.Format, FormatText, FormatJSON)
	}
	if c.DB == "" {
		return fmt.Errorf("%w: db must not be empty", ErrInvalid)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Zone: "UTC" or "Z", a fixed offset such as "+09:00", or
// an IANA name.
func (c Config) Location() (*time.Location, error) {
	return ResolveLocation(c.Zone)
}

// ResolveLocation is Location for an arbitrary zone name.
func ResolveLocation(zone string) (*time.Location, error) {
	switch zone {
	case "", "UTC", "Z", "z":
		return time.UTC, nil
	}
	if zone[0] == '+' || zone[0] == '-' {
		offset, err := temporal.ParseZoneOffset(zone)
		if err != nil {
			return nil, fmt.Errorf("%w: zone: %w", ErrInvalid, err)
		}
		return offset.Location(), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: zone %q: %w", ErrInvalid, zone, err)
	}
	return loc, nil
}
