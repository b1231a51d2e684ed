// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

//go:build freebsd || dragonfly

package packages

import (
	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

var platformCounters = []counter{
	{"cargo", Cargo, countCargo},
	{"pkgng", PkgNg, countPkgNg},
}

// countPkgNg counts packages in the pkg(8) local database.
func countPkgNg(cm *cache.Manager) (uint64, *dracerr.Error) {
	return CountSQLite(cm, "pkgng", "/var/db/pkg/local.sqlite", "SELECT COUNT(*) FROM packages")
}
