// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pupbrained/draconisplusplus-sub000/cmd/draconis/config"
	"github.com/pupbrained/draconisplusplus-sub000/internal/packages"
	"github.com/pupbrained/draconisplusplus-sub000/internal/system"
	"github.com/pupbrained/draconisplusplus-sub000/internal/ui"
	"github.com/pupbrained/draconisplusplus-sub000/internal/version"
	"github.com/pupbrained/draconisplusplus-sub000/internal/weather"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

// --- Global Command Variables ---
var (
	verbose      bool
	logLevelFlag string
	doctorMode   bool
	jsonOutput   bool

	rootCmd = &cobra.Command{
		Use:           "draconis",
		Short:         "A styled terminal card summarizing your system",
		Long: `draconis collects information about the host (OS, hardware, runtime
environment, installed packages, currently playing media, and optionally
local weather) in parallel and prints a single bordered panel to stdout.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false,
		"Force the debug log level (overrides --log-level)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "info",
		"Minimum log level: debug, info, warn, or error")
	rootCmd.Flags().BoolVarP(&doctorMode, "doctor", "d", false,
		"Print per-readout failures instead of the panel")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Print the collected record as JSON instead of the panel")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cmd, cfg)
	if err != nil {
		return err
	}

	cm, derr := buildCache(cfg, logger)
	if derr != nil {
		return derr
	}

	opts, derr := buildOptions(cfg, cm, logger)
	if derr != nil {
		return derr
	}

	info := system.Collect(context.Background(), cm, opts, logger)

	switch {
	case doctorMode:
		printDoctorReport(os.Stdout, info, stdoutIsTerminal())
	case jsonOutput:
		raw, err := info.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
	default:
		units, _ := weather.ParseUnits(cfg.Weather.Units)
		fmt.Print(ui.Render(ui.Config{
			Name:              cfg.ResolveName(),
			Theme:             resolveTheme(cfg),
			Units:             units,
			ShowTownName:      cfg.Weather.ShowTownName,
			NowPlayingEnabled: cfg.NowPlaying.Enabled,
		}, info))
	}

	return nil
}

// buildLogger resolves the log level: --verbose beats --log-level beats
// the config file.
func buildLogger(cmd *cobra.Command, cfg config.Config) (*logging.Logger, error) {
	levelName := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		levelName = logLevelFlag
	}

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logging.LevelDebug
	}

	return logging.New(logging.Config{Level: level, Service: "draconis"}), nil
}

func buildCache(cfg config.Config, logger *logging.Logger) (*cache.Manager, *dracerr.Error) {
	ttl, err := cfg.Cache.ParseTTL()
	if err != nil {
		return nil, dracerr.Newf(dracerr.InvalidArgument, "invalid cache ttl: %v", err)
	}

	location := cache.Persistent
	if cfg.Cache.Location == "transient" {
		location = cache.Transient
	}

	return cache.NewManager(cache.Policy{Location: location, TTL: ttl}, logger)
}

// buildOptions maps the resolved configuration onto collection options.
// Weather or package misconfiguration is a startup failure, not a
// missing row.
func buildOptions(cfg config.Config, cm *cache.Manager, logger *logging.Logger) (system.Options, *dracerr.Error) {
	var opts system.Options

	if cfg.PackageCount.Enabled {
		mask, derr := packages.ParseManagers(cfg.PackageCount.Managers)
		if derr != nil {
			return opts, derr
		}
		opts.EnablePackages = true
		opts.PackageMask = mask
	}

	opts.EnableNowPlaying = cfg.NowPlaying.Enabled

	if cfg.Weather.Enabled {
		units, derr := weather.ParseUnits(cfg.Weather.Units)
		if derr != nil {
			return opts, derr
		}

		location := weather.Location{City: cfg.Weather.Location.City}
		if cfg.Weather.Location.HasCoords() {
			location.Coords = &weather.Coordinates{
				Lat: *cfg.Weather.Location.Lat,
				Lon: *cfg.Weather.Location.Lon,
			}
		}

		provider, derr := weather.New(weather.Config{
			Kind:     cfg.Weather.Provider,
			Location: location,
			Units:    units,
			APIKey:   cfg.Weather.APIKey,
		}, cm, logger)
		if derr != nil {
			return opts, derr
		}
		opts.WeatherProvider = provider
	}

	return opts, nil
}

// resolveTheme drops to the icon-free theme when stdout is not a
// terminal, so piped output stays glyph-clean.
func resolveTheme(cfg config.Config) string {
	if !stdoutIsTerminal() {
		return "none"
	}
	return cfg.Theme
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
