// Package config loads the optional YAML configuration of the terminal
// front-end: player names and display preferences. Flags override whatever
// the file sets.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the front-end settings. The engine itself takes no
// configuration, its rules are fixed.
type Config struct {
	Players PlayersConfig `yaml:"players"`
	Display DisplayConfig `yaml:"display"`
}

// PlayersConfig names the two players, first to move first.
type PlayersConfig struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
}

// DisplayConfig holds terminal rendering preferences.
type DisplayConfig struct {
	// Color enables ANSI colors on the board and banners.
	Color bool `yaml:"color"`

	// ClearScreen redraws the board from a blank terminal on every action.
	ClearScreen bool `yaml:"clear_screen"`

	// Hints prints the legal destinations of every selectable piece before
	// each prompt.
	Hints bool `yaml:"hints"`
}

// Default returns the configuration used when no file is given: colored
// output, no screen clearing, hints on, default player names.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{Color: true, Hints: true},
	}
}

// Load reads the configuration from a YAML file, filling unset display
// fields with the defaults. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", path)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %q", path)
	}
	return cfg, nil
}
