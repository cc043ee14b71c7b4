// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package config loads applylicense settings from YAML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go.astrophena.name/applylicense/header"
	"go.astrophena.name/applylicense/licenser"
)

//go:embed defaults.yaml
var defaults []byte

// Config holds the settings of a run.
type Config struct {
	Header header.Config `yaml:",inline"`

	// Template is the path of the header template.
	Template string `yaml:"template"`
	// Extensions are the file suffixes that receive a header, with the
	// leading dot.
	Extensions []string `yaml:"extensions"`
	// Exclude holds glob patterns, relative to the walked root, of files and
	// directories to leave alone.
	Exclude []string `yaml:"exclude"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := new(Config)
	if err := decode(defaults, cfg); err != nil {
		panic(fmt.Sprintf("config: invalid embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the YAML file at path and decodes it over [Default]. Keys absent
// from the file keep their default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes b over [Default].
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := decode(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.Template == "" {
		return errors.New("template must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.Contains(ext[1:], ".") {
			return fmt.Errorf("invalid extension %q: must be a dot followed by a name without dots", ext)
		}
	}
	return licenser.ValidatePatterns(c.Exclude)
}
