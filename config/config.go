// Package config holds the training configuration of cwtool.
package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/n0madic/go-cw/cw"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the training configuration. Iterations has no default and must
// be set explicitly.
type Config struct {
	Confidence float64 `yaml:"confidence"`
	Iterations int     `yaml:"iterations"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Confidence: cw.DefaultConfidence,
	}
}

// Load reads a YAML config file on top of the defaults. Unknown keys are
// rejected, an empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open config %s: %w", cw.ErrIO, path, err)
	}
	defer f.Close()

	c := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty or comment-only file means no overrides
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to decode config file: %s", path)
	}
	return c, nil
}

// Validate checks the configuration before any training starts.
func (c *Config) Validate() error {
	if !(c.Confidence > 0) || math.IsInf(c.Confidence, 0) {
		return errors.Wrapf(cw.ErrConfig, "confidence parameter must be positive, got %v", c.Confidence)
	}
	if c.Iterations <= 0 {
		return errors.Wrapf(cw.ErrConfig, "iteration number must be positive, got %d", c.Iterations)
	}
	return nil
}
