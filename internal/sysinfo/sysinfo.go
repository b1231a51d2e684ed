// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sysinfo provides the per-platform readout adapters.
//
// Each adapter is a free function returning a value or a *dracerr.Error.
// The set is platform-conditional: adapters that are meaningless on the
// current platform return NotSupported, and the aggregator stores whatever
// comes back without aborting the run.
package sysinfo

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// Readout Types
// =============================================================================

// ResourceUsage is a used/capacity pair in bytes. Used is total minus
// whatever the platform considers free.
type ResourceUsage struct {
	UsedBytes  uint64 `cbor:"usedBytes" json:"usedBytes"`
	TotalBytes uint64 `cbor:"totalBytes" json:"totalBytes"`
}

// CPUCores carries physical and logical core counts.
type CPUCores struct {
	Physical uint32 `cbor:"physical" json:"physical"`
	Logical  uint32 `cbor:"logical" json:"logical"`
}

// MediaInfo is the now-playing readout. Either field may be empty when the
// player did not report it.
type MediaInfo struct {
	Title  string `cbor:"title" json:"title,omitempty"`
	Artist string `cbor:"artist" json:"artist,omitempty"`
}

// =============================================================================
// Date
// =============================================================================

// Ordinal returns the English ordinal suffix for a day of month:
// 1st, 2nd, 3rd, 4th, ..., 11th, 12th, 13th, 21st, 22nd, 23rd, 31st.
func Ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// DateAt formats t as the panel's date row, e.g. "July 21st".
func DateAt(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s", t.Month().String(), day, Ordinal(day))
}

// Date returns the current local date in panel form.
func Date() string {
	return DateAt(time.Now())
}

// =============================================================================
// CPU Model Post-Filter
// =============================================================================

var trademarkReplacer = strings.NewReplacer("(TM)", "™", "(R)", "®")

// ReplaceTrademarks swaps ASCII trademark markers for their unicode
// counterparts. The replacement is idempotent.
func ReplaceTrademarks(model string) string {
	return trademarkReplacer.Replace(model)
}
