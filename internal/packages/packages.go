// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package packages counts installed packages across the package managers
// present on the host.
//
// Each manager has one counter built on one of four kernels (directory
// entry count, SQLite single-row count, plist scan, prefixed-line count).
// Counters run in
// parallel and individually cached; a manager that is simply not installed
// is absorbed silently so the aggregate is the sum of whatever succeeded.
package packages

import (
	"sort"
	"strings"
	"sync"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

// =============================================================================
// Manager Bitmask
// =============================================================================

// Manager is a set of enabled package sources stored as independent bits.
type Manager uint32

const (
	Cargo Manager = 1 << iota
	Nix
	Apk
	Dpkg
	Pacman
	Rpm
	Moss
	Xbps
	Homebrew
	MacPorts
	WinGet
	Chocolatey
	Scoop
	PkgNg
	PkgSrc
)

// managerNames maps config spellings to bits.
var managerNames = map[string]Manager{
	"cargo":      Cargo,
	"nix":        Nix,
	"apk":        Apk,
	"dpkg":       Dpkg,
	"pacman":     Pacman,
	"rpm":        Rpm,
	"moss":       Moss,
	"xbps":       Xbps,
	"homebrew":   Homebrew,
	"brew":       Homebrew,
	"macports":   MacPorts,
	"winget":     WinGet,
	"chocolatey": Chocolatey,
	"choco":      Chocolatey,
	"scoop":      Scoop,
	"pkgng":      PkgNg,
	"pkgsrc":     PkgSrc,
}

// Has reports whether bit is set in the mask.
func (m Manager) Has(bit Manager) bool {
	return m&bit != 0
}

// ParseManagers resolves config names to a bitmask. An empty list enables
// every manager available on this platform; unknown names are an error.
func ParseManagers(names []string) (Manager, *dracerr.Error) {
	if len(names) == 0 {
		return platformMask(), nil
	}

	var mask Manager
	for _, name := range names {
		bit, ok := managerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, dracerr.Newf(dracerr.InvalidArgument, "unknown package manager %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

// platformMask returns every manager this platform's counter table serves.
func platformMask() Manager {
	var mask Manager
	for _, c := range platformCounters {
		mask |= c.bit
	}
	return mask
}

// =============================================================================
// Aggregation
// =============================================================================

// counter binds one manager to its counting function. Per-platform files
// populate platformCounters with the managers that exist there.
type counter struct {
	id    string
	bit   Manager
	count func(cm *cache.Manager) (uint64, *dracerr.Error)
}

// TotalCount runs every enabled counter in parallel and sums the results.
//
// A counter failing with NotFound, ApiUnavailable, or NotSupported is a
// normal "manager not present" outcome and is only debug-logged. Any other
// failure is logged at error level but still absorbed. The aggregate fails
// only when no counter succeeded at all.
func TotalCount(cm *cache.Manager, mask Manager, log *logging.Logger) (uint64, *dracerr.Error) {
	return totalCount(cm, mask, platformCounters, log)
}

func totalCount(cm *cache.Manager, mask Manager, counters []counter, log *logging.Logger) (uint64, *dracerr.Error) {
	if log == nil {
		log = logging.Default()
	}

	var enabled []counter
	for _, c := range counters {
		if mask.Has(c.bit) {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		return 0, dracerr.New(dracerr.NotFound, "no package managers enabled for this platform")
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i].id < enabled[j].id })

	type outcome struct {
		count uint64
		err   *dracerr.Error
	}
	outcomes := make([]outcome, len(enabled))

	var wg sync.WaitGroup
	for i, c := range enabled {
		wg.Add(1)
		go func(i int, c counter) {
			defer wg.Done()
			count, err := c.count(cm)
			outcomes[i] = outcome{count: count, err: err}
		}(i, c)
	}
	wg.Wait()

	var (
		total     uint64
		succeeded bool
	)
	for i, out := range outcomes {
		if out.err == nil {
			total += out.count
			succeeded = true
			continue
		}

		switch out.err.Code {
		case dracerr.NotFound, dracerr.ApiUnavailable, dracerr.NotSupported:
			log.Debug("package counter skipped",
				"manager", enabled[i].id, "error", out.err.Message, "code", out.err.Code)
		default:
			log.Error("package counter failed",
				"manager", enabled[i].id, "error", out.err.Message, "code", out.err.Code)
		}
	}

	if !succeeded {
		return 0, dracerr.New(dracerr.NotFound, "no package managers produced a count")
	}
	return total, nil
}
