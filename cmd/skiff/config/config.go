// Package config handles skiff.toml execution configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the execution settings the CLI applies to every run.
type Config struct {
	Execution Execution `toml:"execution"`
	Logging   Logging   `toml:"logging"`
}

// Execution configures the interpreter.
type Execution struct {
	// MaxDepth bounds the call stack. Zero means unbounded.
	MaxDepth uint `toml:"max-depth"`
	// Trace enables per-instruction tracing to stderr.
	Trace bool `toml:"trace"`
}

// Logging configures diagnostic output.
type Logging struct {
	Level string `toml:"level"`
}

// Default is the configuration used when no skiff.toml is present.
func Default() *Config {
	return &Config{
		Execution: Execution{MaxDepth: 4096},
		Logging:   Logging{Level: "warn"},
	}
}

// Load reads the configuration at path. A missing file yields the defaults;
// an explicit empty path skips the file entirely.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return c, nil
}
