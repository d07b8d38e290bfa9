// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Count CountConfig `toml:"count"`
	Log   LogConfig   `toml:"log"`
}

// CountConfig maps counting-related settings.
type CountConfig struct {
	Hours       *string `toml:"hours"`
	Minutes     *string `toml:"minutes"`
	Seconds     *string `toml:"seconds"`
	Millis      *string `toml:"millis"`
	Digits      *string `toml:"digits"`
	HourWidth   *int    `toml:"hour-width"`
	MillisWidth *int    `toml:"ms-width"`
	Workers     *int    `toml:"workers"`
	BatchSize   *int64  `toml:"batch-size"`
	Sequential  *bool   `toml:"sequential"`
	Progress    *bool   `toml:"progress"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
