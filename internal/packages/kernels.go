// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package packages

import (
	"bufio"
	"database/sql"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// cacheKey builds the per-manager cache key.
func cacheKey(id string) string {
	return "pkg_count_" + id
}

// =============================================================================
// Directory Kernel
// =============================================================================

// DirCountOptions names the counting variants so callers never juggle
// ambiguous positional booleans.
type DirCountOptions struct {
	// Extension keeps only regular entries with this extension
	// (including the dot), e.g. ".list" for dpkg.
	Extension string

	// SubtractOne drops one entry from the final count, for databases
	// with a sentinel entry like pacman's ALPM_DB_VERSION.
	SubtractOne bool
}

// CountDirectoryEntries counts entries in dir, skipping entries it cannot
// stat, and caches the result under pkg_count_<id>.
func CountDirectoryEntries(cm *cache.Manager, id, dir string, opts DirCountOptions) (uint64, *dracerr.Error) {
	return cache.GetOrSet(cm, cacheKey(id), func() (uint64, *dracerr.Error) {
		return countDirectoryEntries(id, dir, opts)
	})
}

func countDirectoryEntries(id, dir string, opts DirCountOptions) (uint64, *dracerr.Error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isNotDir(err) {
			return 0, dracerr.Newf(dracerr.NotFound, "%s path is not a directory: %s", id, dir)
		}
		return 0, dracerr.FromSysf(err, "iterating %s directory %s", id, dir)
	}

	var count uint64
	for _, entry := range entries {
		if opts.Extension != "" {
			if entry.IsDir() || filepath.Ext(entry.Name()) != opts.Extension {
				continue
			}
			// Entries that cannot be typed are skipped, not fatal.
			if entry.Type()&fs.ModeSymlink != 0 {
				if info, statErr := os.Stat(filepath.Join(dir, entry.Name())); statErr != nil || !info.Mode().IsRegular() {
					continue
				}
			}
		}
		count++
	}

	if opts.SubtractOne && count > 0 {
		count--
	}

	if count == 0 {
		return 0, dracerr.Newf(dracerr.NotFound, "no packages found in %s directory", id)
	}
	return count, nil
}

// isNotDir covers the "path exists but is not a directory" case, which
// maps to NotFound just like an absent path.
func isNotDir(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && strings.Contains(pathErr.Err.Error(), "not a directory")
}

// =============================================================================
// SQLite Kernel
// =============================================================================

// CountSQLite opens the database read-only, runs a single-row COUNT query,
// and caches the result under pkg_count_<id>.
func CountSQLite(cm *cache.Manager, id, dbPath, query string) (uint64, *dracerr.Error) {
	return cache.GetOrSet(cm, cacheKey(id), func() (uint64, *dracerr.Error) {
		return countSQLite(id, dbPath, query)
	})
}

func countSQLite(id, dbPath, query string) (uint64, *dracerr.Error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, dracerr.Newf(dracerr.NotFound, "%s database not found at %s", id, dbPath)
		}
		return 0, dracerr.FromSysf(err, "statting %s database", id)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro&immutable=1")
	if err != nil {
		return 0, dracerr.Newf(dracerr.ApiUnavailable, "opening %s database: %v", id, err)
	}
	defer db.Close()

	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, dracerr.Newf(dracerr.ParseError, "no rows returned by %s COUNT query", id)
		}
		return 0, dracerr.Newf(dracerr.ApiUnavailable, "querying %s database: %v", id, err)
	}

	if count < 0 {
		return 0, dracerr.Newf(dracerr.ParseError, "negative count returned by %s database (corrupted data)", id)
	}
	return uint64(count), nil
}

// =============================================================================
// Plist Kernel
// =============================================================================

// CountPlist counts installed entries in an XBPS-style XML plist and
// caches the result under pkg_count_<id>.
func CountPlist(cm *cache.Manager, id, plistPath string) (uint64, *dracerr.Error) {
	return cache.GetOrSet(cm, cacheKey(id), func() (uint64, *dracerr.Error) {
		f, err := os.Open(plistPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return 0, dracerr.Newf(dracerr.NotFound, "%s plist not found at %s", id, plistPath)
			}
			return 0, dracerr.FromSysf(err, "opening %s plist", id)
		}
		defer f.Close()

		count, derr := countInstalledInPlist(f)
		if derr != nil {
			return 0, derr
		}
		if count == 0 {
			return 0, dracerr.Newf(dracerr.NotFound, "no installed packages found in %s plist", id)
		}
		return count, nil
	})
}

// countInstalledInPlist walks the top-level <dict> of a plist and counts
// package entries whose nested dict carries <key>state</key>
// <string>installed</string>. The special _XBPS_ALTERNATIVES_ key is not a
// package and is skipped.
func countInstalledInPlist(r io.Reader) (uint64, *dracerr.Error) {
	decoder := xml.NewDecoder(r)

	// Find <plist> then the top-level <dict>.
	if derr := seekElement(decoder, "plist"); derr != nil {
		return 0, derr
	}
	if derr := seekElement(decoder, "dict"); derr != nil {
		return 0, derr
	}

	var (
		count       uint64
		pendingSkip bool
	)
	for {
		tok, err := decoder.Token()
		if err != nil {
			return 0, dracerr.Newf(dracerr.ParseError, "malformed plist: %v", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "key":
				var name string
				if err := decoder.DecodeElement(&name, &el); err != nil {
					return 0, dracerr.Newf(dracerr.ParseError, "malformed plist key: %v", err)
				}
				pendingSkip = name == "_XBPS_ALTERNATIVES_"
			case "dict":
				installed, derr := packageDictInstalled(decoder)
				if derr != nil {
					return 0, derr
				}
				if installed && !pendingSkip {
					count++
				}
				pendingSkip = false
			default:
				if err := decoder.Skip(); err != nil {
					return 0, dracerr.Newf(dracerr.ParseError, "malformed plist: %v", err)
				}
			}
		case xml.EndElement:
			if el.Name.Local == "dict" {
				return count, nil
			}
		}
	}
}

// packageDictInstalled scans one package dict for state == installed.
func packageDictInstalled(decoder *xml.Decoder) (bool, *dracerr.Error) {
	var (
		installed bool
		stateNext bool
	)
	for {
		tok, err := decoder.Token()
		if err != nil {
			return false, dracerr.Newf(dracerr.ParseError, "malformed package dict: %v", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "key":
				var name string
				if err := decoder.DecodeElement(&name, &el); err != nil {
					return false, dracerr.Newf(dracerr.ParseError, "malformed plist key: %v", err)
				}
				stateNext = name == "state"
			case "string":
				var value string
				if err := decoder.DecodeElement(&value, &el); err != nil {
					return false, dracerr.Newf(dracerr.ParseError, "malformed plist string: %v", err)
				}
				if stateNext && value == "installed" {
					installed = true
				}
				stateNext = false
			default:
				if err := decoder.Skip(); err != nil {
					return false, dracerr.Newf(dracerr.ParseError, "malformed plist: %v", err)
				}
				stateNext = false
			}
		case xml.EndElement:
			if el.Name.Local == "dict" {
				return installed, nil
			}
		}
	}
}

func seekElement(decoder *xml.Decoder, name string) *dracerr.Error {
	for {
		tok, err := decoder.Token()
		if err != nil {
			return dracerr.Newf(dracerr.ParseError, "no <%s> element in plist: %v", name, err)
		}
		if el, ok := tok.(xml.StartElement); ok && el.Name.Local == name {
			return nil
		}
	}
}

// =============================================================================
// Line-Count Kernel
// =============================================================================

// CountFileLines counts lines with the given prefix, for flat-file package
// databases like apk's installed list, and caches the result.
func CountFileLines(cm *cache.Manager, id, path, prefix string) (uint64, *dracerr.Error) {
	return cache.GetOrSet(cm, cacheKey(id), func() (uint64, *dracerr.Error) {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return 0, dracerr.Newf(dracerr.NotFound, "%s database not found at %s", id, path)
			}
			return 0, dracerr.FromSysf(err, "opening %s database", id)
		}
		defer f.Close()

		var count uint64
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			if strings.HasPrefix(scanner.Text(), prefix) {
				count++
			}
		}
		if err := scanner.Err(); err != nil {
			return 0, dracerr.FromSysf(err, "reading %s database", id)
		}

		if count == 0 {
			return 0, dracerr.Newf(dracerr.NotFound, "no packages found in %s database", id)
		}
		return count, nil
	})
}
