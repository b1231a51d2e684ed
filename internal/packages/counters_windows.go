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
	{"chocolatey", Chocolatey, countChocolatey},
	{"scoop", Scoop, countScoop},
	{"winget", WinGet, countWinGet},
}

// countChocolatey counts package directories under the Chocolatey lib dir.
func countChocolatey(cm *cache.Manager) (uint64, *dracerr.Error) {
	install := os.Getenv("ChocolateyInstall")
	if install == "" {
		install = `C:\ProgramData\chocolatey`
	}
	return CountDirectoryEntries(cm, "chocolatey", filepath.Join(install, "lib"), DirCountOptions{})
}

// countScoop counts app directories under the Scoop apps dir.
func countScoop(cm *cache.Manager) (uint64, *dracerr.Error) {
	var apps string
	if scoop := os.Getenv("SCOOP"); scoop != "" {
		apps = filepath.Join(scoop, "apps")
	} else if profile := os.Getenv("USERPROFILE"); profile != "" {
		apps = filepath.Join(profile, "scoop", "apps")
	}

	if apps == "" {
		return 0, dracerr.New(dracerr.NotFound, "could not find scoop directory")
	}
	return CountDirectoryEntries(cm, "scoop", apps, DirCountOptions{})
}

// countWinGet would enumerate packages through the WinRT deployment API,
// which has no pure-Go projection. The failure is absorbed like any other
// absent manager.
func countWinGet(*cache.Manager) (uint64, *dracerr.Error) {
	return 0, dracerr.New(dracerr.NotSupported, "winget counting requires WinRT package deployment APIs")
}
