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

// countCargo counts binaries installed by cargo install, under
// $CARGO_HOME/bin or ~/.cargo/bin.
func countCargo(cm *cache.Manager) (uint64, *dracerr.Error) {
	var cargoPath string
	if cargoHome := os.Getenv("CARGO_HOME"); cargoHome != "" {
		cargoPath = filepath.Join(cargoHome, "bin")
	} else if home, err := os.UserHomeDir(); err == nil {
		cargoPath = filepath.Join(home, ".cargo", "bin")
	}

	if cargoPath == "" {
		return 0, dracerr.New(dracerr.NotFound, "could not find cargo directory")
	}
	return CountDirectoryEntries(cm, "cargo", cargoPath, DirCountOptions{})
}

// countNix counts valid signed store paths in the Nix database.
func countNix(cm *cache.Manager) (uint64, *dracerr.Error) {
	return CountSQLite(cm, "nix", "/nix/var/nix/db/db.sqlite",
		"SELECT COUNT(path) FROM ValidPaths WHERE sigs IS NOT NULL")
}
