// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package packages

import (
	"path/filepath"
	"sort"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

var platformCounters = []counter{
	{"apk", Apk, countApk},
	{"cargo", Cargo, countCargo},
	{"dpkg", Dpkg, countDpkg},
	{"moss", Moss, countMoss},
	{"nix", Nix, countNix},
	{"pacman", Pacman, countPacman},
	{"rpm", Rpm, countRpm},
	{"xbps", Xbps, countXbps},
}

// countApk counts package records in apk's installed database. Each
// package block carries exactly one P: line.
func countApk(cm *cache.Manager) (uint64, *dracerr.Error) {
	return CountFileLines(cm, "apk", "/lib/apk/db/installed", "P:")
}

// countDpkg counts .list manifests in the dpkg info directory.
func countDpkg(cm *cache.Manager) (uint64, *dracerr.Error) {
	return CountDirectoryEntries(cm, "dpkg", "/var/lib/dpkg/info", DirCountOptions{Extension: ".list"})
}

// countPacman counts local database entries, minus the ALPM_DB_VERSION
// sentinel.
func countPacman(cm *cache.Manager) (uint64, *dracerr.Error) {
	return CountDirectoryEntries(cm, "pacman", "/var/lib/pacman/local", DirCountOptions{SubtractOne: true})
}

var rpmDBPaths = []string{
	"/var/lib/rpm/rpmdb.sqlite",
	"/usr/lib/sysimage/rpm/rpmdb.sqlite",
}

// countRpm counts packages in the RPM SQLite database, trying the usual
// locations.
func countRpm(cm *cache.Manager) (uint64, *dracerr.Error) {
	var lastErr *dracerr.Error
	for _, path := range rpmDBPaths {
		count, derr := CountSQLite(cm, "rpm", path, "SELECT COUNT(*) FROM Packages")
		if derr == nil {
			return count, nil
		}
		lastErr = derr
		if derr.Code != dracerr.NotFound {
			break
		}
	}
	return 0, lastErr
}

// countMoss counts install-state records in the moss database, minus the
// state metadata row.
func countMoss(cm *cache.Manager) (uint64, *dracerr.Error) {
	count, derr := CountSQLite(cm, "moss", "/.moss/db/install", "SELECT COUNT(*) FROM meta")
	if derr != nil {
		return 0, derr
	}
	if count > 0 {
		count--
	}
	if count == 0 {
		return 0, dracerr.New(dracerr.NotFound, "no packages found in moss database")
	}
	return count, nil
}

// countXbps counts installed entries in the XBPS package database plist.
// The filename embeds a format version, so the path is globbed.
func countXbps(cm *cache.Manager) (uint64, *dracerr.Error) {
	matches, err := filepath.Glob("/var/db/xbps/pkgdb-*.plist")
	if err != nil || len(matches) == 0 {
		return 0, dracerr.New(dracerr.NotFound, "no XBPS package database plist found")
	}
	sort.Strings(matches)
	return CountPlist(cm, "xbps", matches[len(matches)-1])
}
