// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config defines the resolved configuration for draconis and its
// loader. Discovery and YAML decoding live in loader.go; this file is the
// shape, defaults, and validation.
package config

import (
	"os"
	"os/user"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the resolved configuration. The config produced by Defaults
// renders the minimal panel plus the package count: every other optional
// feature is off.
type Config struct {
	General      General      `yaml:"general"`
	Theme        string       `yaml:"theme" validate:"omitempty,oneof=nerd emoji none"`
	PackageCount PackageCount `yaml:"package_count"`
	NowPlaying   NowPlaying   `yaml:"now_playing"`
	Weather      Weather      `yaml:"weather"`
	Cache        Cache        `yaml:"cache"`
	Logging      Logging      `yaml:"logging"`
}

// General holds the greeting settings.
type General struct {
	// Name is the display name in the greeting line. Empty means the OS
	// username.
	Name string `yaml:"name"`
}

// PackageCount configures the package-count readout.
type PackageCount struct {
	Enabled bool `yaml:"enabled"`

	// Managers restricts counting to the named managers. Empty means
	// every manager known on this platform.
	Managers []string `yaml:"managers"`
}

// NowPlaying configures the media readout.
type NowPlaying struct {
	Enabled bool `yaml:"enabled"`
}

// Weather configures the weather readout.
type Weather struct {
	Enabled      bool     `yaml:"enabled"`
	Provider     string   `yaml:"provider" validate:"omitempty,oneof=openmeteo metno openweathermap owm"`
	Units        string   `yaml:"units" validate:"omitempty,oneof=metric imperial"`
	APIKey       string   `yaml:"api_key"`
	ShowTownName bool     `yaml:"show_town_name"`
	Location     Location `yaml:"location"`
}

// Location is a city name or a coordinate pair. Lat and Lon are pointers
// so that 0°N 0°E stays representable.
type Location struct {
	City string   `yaml:"city"`
	Lat  *float64 `yaml:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon  *float64 `yaml:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// HasCoords reports whether both coordinates are set.
func (l Location) HasCoords() bool {
	return l.Lat != nil && l.Lon != nil
}

// Cache configures the result cache.
type Cache struct {
	// Location is "persistent" (user cache dir) or "transient" (tmp).
	Location string `yaml:"location" validate:"omitempty,oneof=persistent transient"`

	// TTL is a Go duration string; empty means the 12h default.
	TTL string `yaml:"ttl"`
}

// ParseTTL resolves the TTL string, falling back to the global default.
func (c Cache) ParseTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 12 * time.Hour, nil
	}
	return time.ParseDuration(c.TTL)
}

// Logging configures the minimum log level.
type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Theme: "nerd",
		PackageCount: PackageCount{
			Enabled: true,
		},
		Cache: Cache{
			Location: "persistent",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints on the resolved configuration.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ResolveName returns the configured display name, falling back to the OS
// user, then the USER and LOGNAME variables, then "User".
func (c *Config) ResolveName() string {
	if c.General.Name != "" {
		return c.General.Name
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if name := os.Getenv("LOGNAME"); name != "" {
		return name
	}
	return "User"
}
