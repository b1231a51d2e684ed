// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package system

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/internal/packages"
	"github.com/pupbrained/draconisplusplus-sub000/internal/sysinfo"
	"github.com/pupbrained/draconisplusplus-sub000/internal/weather"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

func newTestCache(t *testing.T) *cache.Manager {
	t.Helper()
	cm, derr := cache.NewManager(cache.Policy{Dir: t.TempDir(), TTL: time.Hour},
		logging.New(logging.Config{Quiet: true}))
	if derr != nil {
		t.Fatalf("cache manager: %v", derr)
	}
	return cm
}

func quiet() *logging.Logger {
	return logging.New(logging.Config{Quiet: true})
}

// stubAdapters returns the fixed readouts of the minimal-panel scenario.
func stubAdapters() adapters {
	okStr := func(s string) func() (string, *dracerr.Error) {
		return func() (string, *dracerr.Error) { return s, nil }
	}

	return adapters{
		date:          func() string { return "July 21st" },
		host:          okStr("ModelX"),
		kernelVersion: okStr("6.1.0"),
		osVersion:     okStr("Linux Test 1.0"),
		memInfo: func() (sysinfo.ResourceUsage, *dracerr.Error) {
			return sysinfo.ResourceUsage{UsedBytes: 4 << 30, TotalBytes: 16 << 30}, nil
		},
		desktopEnv: func() (string, *dracerr.Error) {
			return "", dracerr.New(dracerr.NotFound, "no desktop environment variables set")
		},
		windowMgr: func() (string, *dracerr.Error) {
			return "", dracerr.New(dracerr.NotFound, "no display server detected")
		},
		diskUsage: func() (sysinfo.ResourceUsage, *dracerr.Error) {
			return sysinfo.ResourceUsage{UsedBytes: 50 << 30, TotalBytes: 100 << 30}, nil
		},
		shell:    okStr("bash"),
		cpuModel: okStr("x86_64 CPU"),
		cpuCores: func() (sysinfo.CPUCores, *dracerr.Error) {
			return sysinfo.CPUCores{Physical: 4, Logical: 8}, nil
		},
		gpuModel: func(*cache.Manager) (string, *dracerr.Error) { return "GPU0", nil },
		uptime:   func() (time.Duration, *dracerr.Error) { return time.Hour, nil },
		nowPlaying: func() (sysinfo.MediaInfo, *dracerr.Error) {
			return sysinfo.MediaInfo{}, dracerr.New(dracerr.NotFound, "no MPRIS media player on the session bus")
		},
		totalPackages: func(*cache.Manager, packages.Manager, *logging.Logger) (uint64, *dracerr.Error) {
			return 1234, nil
		},
	}
}

// =============================================================================
// Collect Tests
// =============================================================================

func TestCollect_MinimalConfiguration(t *testing.T) {
	info := collect(context.Background(), newTestCache(t), Options{}, quiet(), stubAdapters())

	if !info.Date.IsOk() || info.Date.Value() != "July 21st" {
		t.Errorf("date slot = %+v", info.Date)
	}
	if !info.OSVersion.IsOk() || info.OSVersion.Value() != "Linux Test 1.0" {
		t.Errorf("os slot = %+v", info.OSVersion)
	}
	if !info.MemInfo.IsOk() || info.MemInfo.Value().TotalBytes != 16<<30 {
		t.Errorf("mem slot = %+v", info.MemInfo)
	}
	if !info.Uptime.IsOk() || info.Uptime.Value() != time.Hour {
		t.Errorf("uptime slot = %+v", info.Uptime)
	}

	// Disabled features hold errors, not values.
	if info.PackageCount.IsOk() {
		t.Error("package count must be a failure when disabled")
	}
	if info.NowPlaying.IsOk() {
		t.Error("now playing must be a failure when disabled")
	}
	if info.Weather.IsOk() {
		t.Error("weather must be a failure when disabled")
	}

	if got := info.ReadoutCount(); got != 10 {
		t.Errorf("ReadoutCount = %d, want 10", got)
	}
}

func TestCollect_FailedSlotsKeepErrors(t *testing.T) {
	info := collect(context.Background(), newTestCache(t), Options{}, quiet(), stubAdapters())

	if info.DesktopEnv.IsOk() {
		t.Fatal("expected DE failure")
	}
	if info.DesktopEnv.Err().Code != dracerr.NotFound {
		t.Errorf("DE error code = %v", info.DesktopEnv.Err().Code)
	}
}

func TestCollect_TrademarkFilterApplied(t *testing.T) {
	a := stubAdapters()
	a.cpuModel = func() (string, *dracerr.Error) {
		return "Intel(R) Core(TM) i9-13900K", nil
	}

	info := collect(context.Background(), newTestCache(t), Options{}, quiet(), a)

	if got := info.CPUModel.Value(); got != "Intel® Core™ i9-13900K" {
		t.Errorf("cpu model = %q", got)
	}
}

func TestCollect_NowPlayingDeferredWhenDisabled(t *testing.T) {
	ran := false
	a := stubAdapters()
	a.nowPlaying = func() (sysinfo.MediaInfo, *dracerr.Error) {
		ran = true
		return sysinfo.MediaInfo{Title: "song"}, nil
	}

	collect(context.Background(), newTestCache(t), Options{}, quiet(), a)

	if ran {
		t.Error("now-playing adapter must never run when disabled")
	}
}

func TestCollect_NowPlayingEagerWhenEnabled(t *testing.T) {
	a := stubAdapters()
	a.nowPlaying = func() (sysinfo.MediaInfo, *dracerr.Error) {
		return sysinfo.MediaInfo{Title: "Gravity", Artist: "John Mayer"}, nil
	}

	info := collect(context.Background(), newTestCache(t), Options{EnableNowPlaying: true}, quiet(), a)

	if !info.NowPlaying.IsOk() {
		t.Fatalf("now playing failed: %v", info.NowPlaying.Err())
	}
	if info.NowPlaying.Value().Title != "Gravity" {
		t.Errorf("title = %q", info.NowPlaying.Value().Title)
	}
	if info.ReadoutCount() != 11 {
		t.Errorf("ReadoutCount = %d, want 11", info.ReadoutCount())
	}
}

func TestCollect_PackagesEnabled(t *testing.T) {
	info := collect(context.Background(), newTestCache(t),
		Options{EnablePackages: true, PackageMask: packages.Cargo}, quiet(), stubAdapters())

	if !info.PackageCount.IsOk() || info.PackageCount.Value() != 1234 {
		t.Errorf("package slot = %+v", info.PackageCount)
	}
}

type stubProvider struct {
	report weather.Report
	err    *dracerr.Error
}

func (s stubProvider) Fetch(context.Context) (weather.Report, *dracerr.Error) {
	return s.report, s.err
}

func TestCollect_WeatherProvider(t *testing.T) {
	provider := stubProvider{report: weather.Report{Temperature: 22.5, Description: "overcast"}}

	info := collect(context.Background(), newTestCache(t),
		Options{WeatherProvider: provider}, quiet(), stubAdapters())

	if !info.Weather.IsOk() {
		t.Fatalf("weather failed: %v", info.Weather.Err())
	}
	if info.Weather.Value().Description != "overcast" {
		t.Errorf("weather = %+v", info.Weather.Value())
	}
}

// =============================================================================
// Doctor Support Tests
// =============================================================================

func TestFailures_OrderAndContent(t *testing.T) {
	a := stubAdapters()
	a.host = func() (string, *dracerr.Error) {
		return "", dracerr.New(dracerr.NotFound, "no DMI")
	}
	a.shell = func() (string, *dracerr.Error) {
		return "", dracerr.New(dracerr.PermissionDenied, "cannot read environment")
	}

	info := collect(context.Background(), newTestCache(t), Options{}, quiet(), a)

	var names []string
	for _, f := range info.Failures() {
		names = append(names, f.Readout)
	}

	// DE and WM also fail in the stub set; the two injected failures
	// must appear in doctor order among them.
	want := []string{"Host", "DesktopEnvironment", "WindowManager", "Shell"}
	if len(names) != len(want) {
		t.Fatalf("failures = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("failures[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFailures_DisabledFeaturesAreNotFailures(t *testing.T) {
	a := stubAdapters()
	a.desktopEnv = func() (string, *dracerr.Error) { return "GNOME", nil }
	a.windowMgr = func() (string, *dracerr.Error) { return "Mutter", nil }

	info := collect(context.Background(), newTestCache(t), Options{}, quiet(), a)

	if got := info.Failures(); len(got) != 0 {
		t.Errorf("unexpected failures: %v", got)
	}
}

// =============================================================================
// JSON Tests
// =============================================================================

func TestJSON_OmitsFailedSlots(t *testing.T) {
	info := collect(context.Background(), newTestCache(t), Options{}, quiet(), stubAdapters())

	raw, err := info.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if decoded["host"] != "ModelX" {
		t.Errorf("host = %v", decoded["host"])
	}
	if decoded["uptimeSeconds"] != float64(3600) {
		t.Errorf("uptimeSeconds = %v", decoded["uptimeSeconds"])
	}
	for _, absent := range []string{"desktopEnv", "windowMgr", "packageCount", "nowPlaying", "weather"} {
		if _, ok := decoded[absent]; ok {
			t.Errorf("failed slot %q must be omitted", absent)
		}
	}
}
