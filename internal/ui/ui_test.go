// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ui

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/internal/system"
	"github.com/pupbrained/draconisplusplus-sub000/internal/sysinfo"
	"github.com/pupbrained/draconisplusplus-sub000/internal/weather"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

var sgrPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return sgrPattern.ReplaceAllString(s, "")
}

func failStr(code dracerr.Code) dracerr.Result[string] {
	return dracerr.Fail[string](dracerr.New(code, "test failure"))
}

// minimalInfo is the record of the minimal-panel scenario: every base
// readout succeeds, every optional feature is absent.
func minimalInfo() *system.Info {
	return &system.Info{
		Date:          dracerr.Ok("July 21st"),
		Host:          dracerr.Ok("ModelX"),
		KernelVersion: dracerr.Ok("6.1.0"),
		OSVersion:     dracerr.Ok("Linux Test 1.0"),
		MemInfo:       dracerr.Ok(sysinfo.ResourceUsage{UsedBytes: 4 << 30, TotalBytes: 16 << 30}),
		DesktopEnv:    failStr(dracerr.NotFound),
		WindowMgr:     failStr(dracerr.NotFound),
		DiskUsage:     dracerr.Ok(sysinfo.ResourceUsage{UsedBytes: 50 << 30, TotalBytes: 100 << 30}),
		Shell:         dracerr.Ok("bash"),
		CPUModel:      dracerr.Ok("x86_64 CPU"),
		CPUCores:      dracerr.Ok(sysinfo.CPUCores{Physical: 4, Logical: 8}),
		GPUModel:      dracerr.Ok("GPU0"),
		Uptime:        dracerr.Ok(time.Hour),
		PackageCount:  dracerr.Fail[uint64](dracerr.New(dracerr.ApiUnavailable, "disabled")),
		NowPlaying:    dracerr.Fail[sysinfo.MediaInfo](dracerr.New(dracerr.ApiUnavailable, "disabled")),
		Weather:       dracerr.Fail[weather.Report](dracerr.New(dracerr.ApiUnavailable, "disabled")),
	}
}

func minimalConfig() Config {
	return Config{Name: "User", Theme: "none"}
}

// =============================================================================
// Panel Structure
// =============================================================================

func TestRender_MinimalPanel(t *testing.T) {
	panel := stripANSI(Render(minimalConfig(), minimalInfo()))

	if !strings.HasPrefix(panel, "╭") {
		t.Errorf("panel must open with ╭, got %q", panel[:10])
	}
	if !strings.Contains(panel, "Hello User!") {
		t.Error("missing greeting")
	}

	for _, label := range []string{"Date", "Host", "OS", "Kernel", "RAM", "Disk", "CPU", "GPU", "Uptime", "Shell"} {
		if !strings.Contains(panel, label) {
			t.Errorf("missing %s row", label)
		}
	}

	for _, absent := range []string{"Weather", "Packages", "Playing", "DE", "WM"} {
		if strings.Contains(panel, absent) {
			t.Errorf("unexpected %s row in minimal panel", absent)
		}
	}

	if !strings.Contains(panel, "July 21st") {
		t.Error("missing date value")
	}
	if !strings.Contains(panel, "4.00GiB/16.00GiB") {
		t.Error("missing RAM value")
	}
	if !strings.Contains(panel, "50.00GiB/100.00GiB") {
		t.Error("missing disk value")
	}
	if !strings.Contains(panel, "1h") {
		t.Error("missing uptime value")
	}

	lines := strings.Split(strings.TrimRight(panel, "\n"), "\n")
	if !strings.HasPrefix(lines[len(lines)-1], "╰") {
		t.Error("panel must close with ╰")
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := minimalConfig()
	info := minimalInfo()

	first := Render(cfg, info)
	for i := 0; i < 5; i++ {
		if got := Render(cfg, info); got != first {
			t.Fatal("renderer output is not byte-identical across calls")
		}
	}
}

func TestRender_AllLinesSameVisualWidth(t *testing.T) {
	panel := Render(minimalConfig(), minimalInfo())

	lines := strings.Split(strings.TrimRight(panel, "\n"), "\n")
	want := visualWidth(lines[0])
	for i, line := range lines {
		if got := visualWidth(line); got != want {
			t.Errorf("line %d width %d, want %d: %q", i, got, want, stripANSI(line))
		}
	}
}

func TestRender_NoEmptyRowBetweenMissingGroups(t *testing.T) {
	info := minimalInfo()
	// Empty out groups D and E entirely.
	info.Shell = failStr(dracerr.NotFound)

	panel := stripANSI(Render(minimalConfig(), info))

	for _, line := range strings.Split(panel, "\n") {
		trimmed := strings.TrimSpace(strings.Trim(line, "│"))
		if strings.HasPrefix(line, "│") && trimmed == "" && !strings.Contains(line, "◯") {
			t.Errorf("empty panel row: %q", line)
		}
	}

	if strings.Contains(panel, "├"+strings.Repeat("─", 3)) {
		// Dividers exist, fine; what must not exist is two in a row.
		if strings.Contains(panel, "┤\n├") {
			t.Error("adjacent dividers around an empty group")
		}
	}
}

func TestRender_PaletteLineHasSixteenCircles(t *testing.T) {
	panel := Render(minimalConfig(), minimalInfo())

	if got := strings.Count(panel, "◯"); got != 16 {
		t.Errorf("palette circles = %d, want 16", got)
	}
	if !strings.Contains(panel, "\x1b[38;5;0m◯") || !strings.Contains(panel, "\x1b[38;5;15m◯") {
		t.Error("palette circles must span indices 0 through 15")
	}
}

// =============================================================================
// Optional Rows
// =============================================================================

func TestRender_WeatherRow(t *testing.T) {
	info := minimalInfo()
	info.Weather = dracerr.Ok(weather.Report{Temperature: 22.5, Description: "overcast"})

	panel := stripANSI(Render(minimalConfig(), info))

	if !strings.Contains(panel, "Weather") {
		t.Fatal("missing weather row")
	}
	if !strings.Contains(panel, "23°C, overcast") {
		t.Errorf("weather value wrong; panel:\n%s", panel)
	}
}

func TestRender_WeatherRowWithTownName(t *testing.T) {
	info := minimalInfo()
	info.Weather = dracerr.Ok(weather.Report{Temperature: 71.6, Name: "New York", Description: "mist"})

	cfg := minimalConfig()
	cfg.Units = weather.Imperial
	cfg.ShowTownName = true

	panel := stripANSI(Render(cfg, info))

	if !strings.Contains(panel, "72°F in New York") {
		t.Errorf("weather value wrong; panel:\n%s", panel)
	}
}

func TestRender_PackagesRowOnlyWhenPositive(t *testing.T) {
	info := minimalInfo()
	info.PackageCount = dracerr.Ok(uint64(1542))

	panel := stripANSI(Render(minimalConfig(), info))
	if !strings.Contains(panel, "Packages") || !strings.Contains(panel, "1542") {
		t.Error("missing packages row")
	}

	info.PackageCount = dracerr.Ok(uint64(0))
	panel = stripANSI(Render(minimalConfig(), info))
	if strings.Contains(panel, "Packages") {
		t.Error("zero packages must not render a row")
	}
}

func TestRender_EnvGroupCollapsesWhenEqual(t *testing.T) {
	info := minimalInfo()
	info.DesktopEnv = dracerr.Ok("Hyprland")
	info.WindowMgr = dracerr.Ok("Hyprland")

	panel := stripANSI(Render(minimalConfig(), info))

	if strings.Contains(panel, "DE") {
		t.Error("DE row must collapse when DE == WM")
	}
	if !strings.Contains(panel, "WM") {
		t.Error("missing WM row")
	}
}

func TestRender_EnvGroupBothRows(t *testing.T) {
	info := minimalInfo()
	info.DesktopEnv = dracerr.Ok("GNOME")
	info.WindowMgr = dracerr.Ok("Mutter")

	panel := stripANSI(Render(minimalConfig(), info))

	if !strings.Contains(panel, "DE") || !strings.Contains(panel, "GNOME") {
		t.Error("missing DE row")
	}
	if !strings.Contains(panel, "WM") || !strings.Contains(panel, "Mutter") {
		t.Error("missing WM row")
	}
}

func TestRender_NowPlayingRow(t *testing.T) {
	info := minimalInfo()
	info.NowPlaying = dracerr.Ok(sysinfo.MediaInfo{Title: "Gravity", Artist: "John Mayer"})

	cfg := minimalConfig()
	cfg.NowPlayingEnabled = true

	panel := stripANSI(Render(cfg, info))

	if !strings.Contains(panel, "Playing") {
		t.Fatal("missing playing row")
	}
	if !strings.Contains(panel, "John Mayer - Gravity") {
		t.Errorf("unexpected now-playing value; panel:\n%s", panel)
	}
}

func TestRender_NowPlayingFallbackNames(t *testing.T) {
	info := minimalInfo()
	info.NowPlaying = dracerr.Ok(sysinfo.MediaInfo{Title: "Midnight City"})

	cfg := minimalConfig()
	cfg.NowPlayingEnabled = true

	panel := stripANSI(Render(cfg, info))

	// The 30-column value wraps at 24 columns (31 content columns minus the
	// 7-column "Playing" label), so it spans two lines.
	if !strings.Contains(panel, "Unknown Artist -") || !strings.Contains(panel, "Midnight City") {
		t.Errorf("missing artist fallback; panel:\n%s", panel)
	}
}

func TestRender_NowPlayingHiddenWhenDisabled(t *testing.T) {
	info := minimalInfo()
	info.NowPlaying = dracerr.Ok(sysinfo.MediaInfo{Title: "t", Artist: "a"})

	panel := stripANSI(Render(minimalConfig(), info))

	if strings.Contains(panel, "Playing") {
		t.Error("now-playing row must be hidden when the feature is disabled")
	}
}

// =============================================================================
// Word Wrap
// =============================================================================

func TestWordWrap_GreedyFill(t *testing.T) {
	lines := wordWrap("the quick brown fox jumps over the lazy dog", 15)

	for i, line := range lines {
		if visualWidth(line) > 15 {
			t.Errorf("line %d exceeds width: %q", i, line)
		}
	}
	if got := strings.Join(lines, " "); got != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrap lost words: %q", got)
	}
}

func TestWordWrap_OverlongWordKeptWhole(t *testing.T) {
	lines := wordWrap("short supercalifragilisticexpialidocious end", 10)

	found := false
	for _, line := range lines {
		if line == "supercalifragilisticexpialidocious" {
			found = true
		}
	}
	if !found {
		t.Errorf("overlong word must sit alone unwrapped: %v", lines)
	}
}

func TestWordWrap_ZeroWidthReturnsWhole(t *testing.T) {
	lines := wordWrap("anything at all", 0)
	if len(lines) != 1 || lines[0] != "anything at all" {
		t.Errorf("unexpected wrap: %v", lines)
	}
}

// =============================================================================
// Measurement & Formatting
// =============================================================================

func TestVisualWidth(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5},
		{"\x1b[38;5;3mhi\x1b[0m", 2},
		{"◯ ◯", 3},
		{"\x1b[1m\x1b[38;5;3mBold\x1b[0m", 4},
	}

	for _, tc := range cases {
		if got := visualWidth(tc.in); got != tc.want {
			t.Errorf("visualWidth(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{time.Minute, "1m"},
		{time.Hour, "1h"},
		{26*time.Hour + 3*time.Minute, "1d 2h 3m"},
		{49 * time.Hour, "2d 1h"},
	}

	for _, tc := range cases {
		if got := formatUptime(tc.d); got != tc.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatGiB(t *testing.T) {
	if got := formatGiB(4 << 30); got != "4.00GiB" {
		t.Errorf("formatGiB = %q", got)
	}
	if got := formatGiB(1610612736); got != "1.50GiB" {
		t.Errorf("formatGiB = %q", got)
	}
}

func TestDistroIcon(t *testing.T) {
	if distroIcon("Ubuntu 24.04 LTS") == "" {
		t.Error("expected Ubuntu icon")
	}
	if distroIcon("Arch Linux") == "" {
		t.Error("expected Arch icon")
	}
	if distroIcon("Linux Test 1.0") != "" {
		t.Error("unknown distro must fall back to the generic icon")
	}
}
