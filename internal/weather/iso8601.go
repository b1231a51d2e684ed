// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package weather

import (
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// The APIs hand back two timestamp shapes: met.no uses the full
// "YYYY-MM-DDTHH:MM:SSZ" form, OpenMeteo omits seconds and the zone.
// Both are interpreted as UTC.
const (
	isoLayoutFull  = "2006-01-02T15:04:05Z"
	isoLayoutShort = "2006-01-02T15:04"
)

// ParseISO8601 converts an API timestamp to epoch seconds under UTC
// interpretation.
func ParseISO8601(value string) (int64, *dracerr.Error) {
	var layout string
	switch len(value) {
	case len(isoLayoutFull):
		layout = isoLayoutFull
	case len(isoLayoutShort):
		layout = isoLayoutShort
	default:
		return 0, dracerr.Newf(dracerr.ParseError,
			"failed to parse ISO8601 time %q, unexpected length %d (expected 16 or 20 characters)", value, len(value))
	}

	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return 0, dracerr.Newf(dracerr.ParseError, "failed to parse ISO8601 time %q: %v", value, err)
	}
	return t.Unix(), nil
}

// FormatISO8601 renders epoch seconds back to the full UTC form. Together
// with ParseISO8601 it round-trips exactly.
func FormatISO8601(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(isoLayoutFull)
}
