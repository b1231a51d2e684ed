// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package packages

import (
	"os"
	"path/filepath"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

var platformCounters = []counter{
	{"cargo", Cargo, countCargo},
	{"homebrew", Homebrew, countHomebrew},
	{"macports", MacPorts, countMacPorts},
	{"nix", Nix, countNix},
}

var homebrewPrefixes = []string{"/opt/homebrew", "/usr/local"}

// countHomebrew counts kegs in the Homebrew Cellar.
func countHomebrew(cm *cache.Manager) (uint64, *dracerr.Error) {
	var cellar string
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		cellar = filepath.Join(prefix, "Cellar")
	} else {
		for _, prefix := range homebrewPrefixes {
			candidate := filepath.Join(prefix, "Cellar")
			if _, err := os.Stat(candidate); err == nil {
				cellar = candidate
				break
			}
		}
	}

	if cellar == "" {
		return 0, dracerr.New(dracerr.NotFound, "could not find Homebrew Cellar")
	}
	return CountDirectoryEntries(cm, "homebrew", cellar, DirCountOptions{})
}

// countMacPorts counts installed ports in the MacPorts registry.
func countMacPorts(cm *cache.Manager) (uint64, *dracerr.Error) {
	return CountSQLite(cm, "macports", "/opt/local/var/macports/registry/registry.db",
		"SELECT COUNT(*) FROM ports WHERE state='installed'")
}
