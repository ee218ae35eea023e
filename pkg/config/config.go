// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config handles golmsm.toml runner configuration.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultPrompt = "Enter a value: "

// Config is the runner configuration. Zero MaxSteps means no step limit.
type Config struct {
	MaxSteps uint64 `toml:"max_steps"`
	Prompt   string `toml:"prompt"`
	LogLevel string `toml:"log_level"`
	Debug    bool   `toml:"debug"`
}

func Default() Config {
	return Config{
		Prompt:   DefaultPrompt,
		LogLevel: "info",
	}
}

// Load decodes the file at path over the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)

	if err != nil {
		return cfg, errors.Wrapf(err, "load %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Errorf(
			"load %s: unknown key %q", path, undecoded[0].String(),
		)
	}

	if _, err := cfg.Level(); err != nil {
		return cfg, errors.Wrapf(err, "load %s", path)
	}

	return cfg, nil
}

func (cfg Config) Level() (zerolog.Level, error) {
	if cfg.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(cfg.LogLevel)
}
