// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package weather provides the pluggable weather providers.
//
// Three providers implement the same single-method contract: OpenMeteo and
// MetNo take coordinates, OpenWeatherMap takes a city name or coordinates
// plus an API key. Every provider normalizes its response into a Report in
// the provider's configured unit system and caches it under the "weather"
// key with the global TTL.
package weather

import (
	"context"
	"strings"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

// cacheKey is shared by all providers; a run has exactly one weather
// configuration, so the entry is unambiguous.
const cacheKey = "weather"

// =============================================================================
// Units & Location
// =============================================================================

// UnitSystem selects the temperature unit for a provider's reports. A
// report never mixes units; it carries whatever its provider was built
// with.
type UnitSystem int

const (
	Metric UnitSystem = iota
	Imperial
)

// String returns "metric" or "imperial".
func (u UnitSystem) String() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

// ParseUnits resolves a config value to a UnitSystem.
func ParseUnits(s string) (UnitSystem, *dracerr.Error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	default:
		return Metric, dracerr.Newf(dracerr.InvalidArgument, "unknown unit system %q", s)
	}
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Location is either a city name or coordinates. Only OpenWeatherMap
// accepts a city name; the other providers require coordinates.
type Location struct {
	City   string
	Coords *Coordinates
}

// =============================================================================
// Report & Provider
// =============================================================================

// Report is the normalized weather readout. Temperature is in the owning
// provider's unit system; Name is empty for providers that do not resolve
// a place name.
type Report struct {
	Temperature float64 `cbor:"temperature" json:"temperature"`
	Name        string  `cbor:"name,omitempty" json:"name,omitempty"`
	Description string  `cbor:"description" json:"description"`
	Timestamp   int64   `cbor:"timestamp,omitempty" json:"-"`
}

// Provider is the single-method weather lookup contract. Implementations
// are immutable after construction and safe to share across goroutines.
type Provider interface {
	Fetch(ctx context.Context) (Report, *dracerr.Error)
}

// =============================================================================
// Factory
// =============================================================================

// Config is the resolved weather configuration handed to New.
type Config struct {
	Kind     string
	Location Location
	Units    UnitSystem
	APIKey   string
}

// New builds the configured provider. OpenWeatherMap without an API key
// and coordinate providers without coordinates are configuration errors.
func New(cfg Config, cm *cache.Manager, log *logging.Logger) (Provider, *dracerr.Error) {
	if log == nil {
		log = logging.Default()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "openmeteo", "open-meteo":
		if cfg.Location.Coords == nil {
			return nil, dracerr.New(dracerr.InvalidArgument, "openmeteo requires coordinates")
		}
		return newOpenMeteo(*cfg.Location.Coords, cfg.Units, cm, log), nil

	case "metno", "met.no", "met-no":
		if cfg.Location.Coords == nil {
			return nil, dracerr.New(dracerr.InvalidArgument, "met.no requires coordinates")
		}
		return newMetNo(*cfg.Location.Coords, cfg.Units, cm, log), nil

	case "openweathermap", "owm":
		if cfg.APIKey == "" {
			return nil, dracerr.New(dracerr.InvalidArgument, "openweathermap requires an API key")
		}
		if cfg.Location.City == "" && cfg.Location.Coords == nil {
			return nil, dracerr.New(dracerr.InvalidArgument, "openweathermap requires a city name or coordinates")
		}
		return newOpenWeatherMap(cfg.Location, cfg.Units, cfg.APIKey, cm, log), nil

	default:
		return nil, dracerr.Newf(dracerr.InvalidArgument, "unknown weather provider %q", cfg.Kind)
	}
}
