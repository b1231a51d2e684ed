// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// searchPaths lists config candidates in priority order: the explicit
// override, then the platform config directory.
func searchPaths() []string {
	var paths []string

	if override := os.Getenv("DRACONIS_CONFIG"); override != "" {
		paths = append(paths, override)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			paths = append(paths, filepath.Join(appData, "draconis", "config.yaml"))
		}
		return paths
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "draconis", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "draconis", "config.yaml"))
	}
	return paths
}

// Load resolves the configuration. A missing file yields Defaults; an
// unreadable or invalid file is a startup failure.
func Load() (Config, error) {
	for _, path := range searchPaths() {
		cfg, err := LoadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, err
		}
		return cfg, nil
	}
	return Defaults(), nil
}

// LoadFile reads and validates one specific config file.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}
