// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"context"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

const (
	mprisPrefix = "org.mpris.MediaPlayer2."
	mprisPath   = "/org/mpris/MediaPlayer2"

	// dbusCallTimeout caps each method round-trip; a wedged player must
	// not stall the whole readout fan-out.
	dbusCallTimeout = 100 * time.Millisecond
)

// NowPlaying queries the first MPRIS player on the session bus for its
// current track metadata. Returns NotFound when no player is registered.
func NowPlaying() (MediaInfo, *dracerr.Error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return MediaInfo{}, dracerr.Newf(dracerr.ApiUnavailable, "connecting to session bus: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbusCallTimeout)
	defer cancel()

	var names []string
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return MediaInfo{}, mapDBusError(err, "listing bus names")
	}

	var player string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			player = name
			break
		}
	}
	if player == "" {
		return MediaInfo{}, dracerr.New(dracerr.NotFound, "no MPRIS media player on the session bus")
	}

	callCtx, callCancel := context.WithTimeout(context.Background(), dbusCallTimeout)
	defer callCancel()

	var variant dbus.Variant
	err = conn.Object(player, mprisPath).
		CallWithContext(callCtx, "org.freedesktop.DBus.Properties.Get", 0,
			"org.mpris.MediaPlayer2.Player", "Metadata").
		Store(&variant)
	if err != nil {
		return MediaInfo{}, mapDBusError(err, "reading player metadata")
	}

	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		return MediaInfo{}, dracerr.New(dracerr.ParseError, "MPRIS metadata is not a dict")
	}

	return MediaInfo{
		Title:  metadataString(metadata, "xesam:title"),
		Artist: metadataFirst(metadata, "xesam:artist"),
	}, nil
}

func metadataString(metadata map[string]dbus.Variant, key string) string {
	if v, ok := metadata[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func metadataFirst(metadata map[string]dbus.Variant, key string) string {
	v, ok := metadata[key]
	if !ok {
		return ""
	}
	switch values := v.Value().(type) {
	case []string:
		if len(values) > 0 {
			return values[0]
		}
	case []dbus.Variant:
		if len(values) > 0 {
			if s, ok := values[0].Value().(string); ok {
				return s
			}
		}
	case string:
		return values
	}
	return ""
}

func mapDBusError(err error, context string) *dracerr.Error {
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return dracerr.Newf(dracerr.Timeout, "%s: D-Bus call timed out", context)
	}
	return dracerr.Newf(dracerr.ApiUnavailable, "%s: %v", context, err)
}
