// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ui renders the collected record into the bordered panel.
//
// The renderer is pure: the same configuration and record always produce
// byte-identical output. Rows whose readout failed are skipped; a group
// with no surviving rows disappears, divider included.
package ui

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/internal/system"
	"github.com/pupbrained/draconisplusplus-sub000/internal/weather"
)

// =============================================================================
// Styling
// =============================================================================

// Panel colors as ANSI 256 palette indices.
const (
	colorIcon   = 6 // cyan
	colorLabel  = 3 // yellow
	colorValue  = 7 // white
	colorBorder = 8 // gray
	colorMusic  = 5 // magenta
)

// colorize wraps s in a 256-color SGR sequence with a trailing reset.
func colorize(s string, color int) string {
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// colorizeBold is colorize with bold, used for row labels.
func colorizeBold(s string, color int) string {
	return fmt.Sprintf("\x1b[1m\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// paletteCircles shows the first sixteen palette entries.
var paletteCircles = buildPaletteCircles()

func buildPaletteCircles() string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "\x1b[38;5;%dm◯\x1b[0m", i)
	}
	return b.String()
}

// visualWidth counts codepoints, ignoring SGR escape sequences and UTF-8
// continuation bytes.
func visualWidth(s string) int {
	width := 0
	inEscape := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inEscape:
			inEscape = c != 'm'
		case c == 0x1b:
			inEscape = true
		case c&0xC0 != 0x80:
			width++
		}
	}
	return width
}

// =============================================================================
// Value Formatting
// =============================================================================

// formatGiB renders a byte count as gibibytes with two decimals.
func formatGiB(bytes uint64) string {
	return fmt.Sprintf("%.2fGiB", float64(bytes)/(1<<30))
}

// formatUsage renders a used/total pair.
func formatUsage(used, total uint64) string {
	return formatGiB(used) + "/" + formatGiB(total)
}

// formatUptime renders a duration as its nonzero day/hour/minute parts,
// with seconds only shown below one minute.
func formatUptime(d time.Duration) string {
	totalSeconds := int64(d / time.Second)
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}

	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// formatWeather renders the weather row value in the provider's unit.
func formatWeather(report weather.Report, units weather.UnitSystem, showTownName bool) string {
	unit := "C"
	if units == weather.Imperial {
		unit = "F"
	}

	degrees := int64(math.Round(report.Temperature))
	if showTownName && report.Name != "" {
		return fmt.Sprintf("%d°%s in %s", degrees, unit, report.Name)
	}
	return fmt.Sprintf("%d°%s, %s", degrees, unit, report.Description)
}

// wordWrap splits text into lines of at most wrapWidth visual columns,
// greedy on whitespace, never hyphenating. An overlong word gets its own
// line unwrapped.
func wordWrap(text string, wrapWidth int) []string {
	if wrapWidth <= 0 {
		return []string{text}
	}

	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		if current != "" && visualWidth(current)+visualWidth(word)+1 > wrapWidth {
			lines = append(lines, current)
			current = ""
		}
		if current != "" {
			current += " "
		}
		current += word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// =============================================================================
// Groups
// =============================================================================

type row struct {
	icon  string
	label string
	value string
}

type group struct {
	rows          []row
	maxLabelWidth int
}

// contentWidth measures the group: label widths are aligned to the widest
// label, and the group width is the widest icon+label+gap+value row.
func (g *group) contentWidth() int {
	if len(g.rows) == 0 {
		return 0
	}

	for _, r := range g.rows {
		if w := visualWidth(r.label); w > g.maxLabelWidth {
			g.maxLabelWidth = w
		}
	}

	max := 0
	for _, r := range g.rows {
		w := visualWidth(r.icon) + g.maxLabelWidth + 1 + visualWidth(r.value)
		if w > max {
			max = w
		}
	}
	return max
}

// =============================================================================
// Render Configuration
// =============================================================================

// Config is what the renderer needs from the resolved configuration.
type Config struct {
	Name              string
	Theme             string
	Units             weather.UnitSystem
	ShowTownName      bool
	NowPlayingEnabled bool
}

// =============================================================================
// Renderer
// =============================================================================

// Render lays out the record as the bordered panel and returns it as one
// multi-line string ending in a newline.
func Render(cfg Config, info *system.Info) string {
	icons := ThemeIcons(cfg.Theme)

	// Group A: header.
	var header group
	if info.Date.IsOk() {
		header.rows = append(header.rows, row{icons.Calendar, "Date", info.Date.Value()})
	}
	if info.Weather.IsOk() {
		header.rows = append(header.rows, row{
			icons.Weather, "Weather",
			formatWeather(info.Weather.Value(), cfg.Units, cfg.ShowTownName),
		})
	}

	// Group B: system.
	var sys group
	if info.Host.IsOk() && info.Host.Value() != "" {
		sys.rows = append(sys.rows, row{icons.Host, "Host", info.Host.Value()})
	}
	if info.OSVersion.IsOk() {
		osIcon := icons.OS
		if runtime.GOOS == "linux" && strings.EqualFold(cfg.Theme, "nerd") {
			if icon := distroIcon(info.OSVersion.Value()); icon != "" {
				osIcon = icon
			}
		}
		sys.rows = append(sys.rows, row{osIcon, "OS", info.OSVersion.Value()})
	}
	if info.KernelVersion.IsOk() {
		sys.rows = append(sys.rows, row{icons.Kernel, "Kernel", info.KernelVersion.Value()})
	}

	// Group C: hardware.
	var hardware group
	if info.MemInfo.IsOk() {
		usage := info.MemInfo.Value()
		hardware.rows = append(hardware.rows, row{icons.Memory, "RAM", formatUsage(usage.UsedBytes, usage.TotalBytes)})
	}
	if info.DiskUsage.IsOk() {
		usage := info.DiskUsage.Value()
		hardware.rows = append(hardware.rows, row{icons.Disk, "Disk", formatUsage(usage.UsedBytes, usage.TotalBytes)})
	}
	if info.CPUModel.IsOk() {
		hardware.rows = append(hardware.rows, row{icons.CPU, "CPU", info.CPUModel.Value()})
	}
	if info.GPUModel.IsOk() {
		hardware.rows = append(hardware.rows, row{icons.GPU, "GPU", info.GPUModel.Value()})
	}
	if info.Uptime.IsOk() {
		hardware.rows = append(hardware.rows, row{icons.Uptime, "Uptime", formatUptime(info.Uptime.Value())})
	}

	// Group D: software.
	var software group
	if info.Shell.IsOk() {
		software.rows = append(software.rows, row{icons.Shell, "Shell", info.Shell.Value()})
	}
	if info.PackageCount.IsOk() && info.PackageCount.Value() > 0 {
		software.rows = append(software.rows, row{
			icons.Package, "Packages", fmt.Sprintf("%d", info.PackageCount.Value()),
		})
	}

	// Group E: environment, collapsed when DE and WM agree.
	var env group
	deOK := info.DesktopEnv.IsOk()
	wmOK := info.WindowMgr.IsOk()
	switch {
	case deOK && wmOK && info.DesktopEnv.Value() == info.WindowMgr.Value():
		env.rows = append(env.rows, row{icons.WindowManager, "WM", info.WindowMgr.Value()})
	case deOK && wmOK:
		env.rows = append(env.rows, row{icons.DesktopEnvironment, "DE", info.DesktopEnv.Value()})
		env.rows = append(env.rows, row{icons.WindowManager, "WM", info.WindowMgr.Value()})
	case deOK:
		env.rows = append(env.rows, row{icons.DesktopEnvironment, "DE", info.DesktopEnv.Value()})
	case wmOK:
		env.rows = append(env.rows, row{icons.WindowManager, "WM", info.WindowMgr.Value()})
	}

	groups := []*group{&header, &sys, &hardware, &software, &env}

	// Measure.
	maxContentWidth := 0
	for _, g := range groups {
		if w := g.contentWidth(); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	greeting := fmt.Sprintf("%sHello %s!", icons.User, cfg.Name)
	if w := visualWidth(greeting); w > maxContentWidth {
		maxContentWidth = w
	}
	if w := visualWidth(icons.Palette) + visualWidth(paletteCircles); w > maxContentWidth {
		maxContentWidth = w
	}

	// Compose.
	var out strings.Builder
	hBorder := strings.Repeat("─", maxContentWidth+1)

	line := func(left, right string) {
		leftW := visualWidth(left)
		rightW := visualWidth(right)
		padding := 0
		if maxContentWidth >= leftW+rightW {
			padding = maxContentWidth - leftW - rightW
		}
		out.WriteString(colorize("│", colorBorder))
		out.WriteString(left)
		out.WriteString(strings.Repeat(" ", padding))
		out.WriteString(right)
		out.WriteString(" ")
		out.WriteString(colorize("│", colorBorder))
		out.WriteString("\n")
	}
	divider := func() {
		out.WriteString(colorize("├"+hBorder+"┤", colorBorder))
		out.WriteString("\n")
	}

	out.WriteString(colorize("╭"+hBorder+"╮", colorBorder))
	out.WriteString("\n")

	line(colorize(greeting, colorIcon), "")
	divider()
	line(colorize(icons.Palette, colorIcon)+paletteCircles, "")

	hasRenderedContent := true
	for _, g := range groups {
		if len(g.rows) == 0 {
			continue
		}
		if hasRenderedContent {
			divider()
		}
		for _, r := range g.rows {
			left := colorize(r.icon, colorIcon) +
				colorizeBold(r.label, colorLabel) +
				strings.Repeat(" ", g.maxLabelWidth-visualWidth(r.label))
			line(left, colorize(r.value, colorValue))
		}
		hasRenderedContent = true
	}

	// Now-playing block.
	if cfg.NowPlayingEnabled && info.NowPlaying.IsOk() {
		media := info.NowPlaying.Value()
		if media.Title != "" || media.Artist != "" {
			artist := media.Artist
			if artist == "" {
				artist = "Unknown Artist"
			}
			title := media.Title
			if title == "" {
				title = "Unknown Title"
			}
			npText := artist + " - " + title

			if hasRenderedContent {
				divider()
			}

			left := colorize(icons.Music, colorIcon) + colorizeBold("Playing", colorLabel)
			leftW := visualWidth(left)

			wrapped := wordWrap(npText, maxContentWidth-leftW)
			if len(wrapped) > 0 {
				line(left, colorize(wrapped[0], colorMusic))

				indent := strings.Repeat(" ", leftW)
				for _, cont := range wrapped[1:] {
					right := colorize(cont, colorMusic)
					rightW := visualWidth(right)
					padding := 0
					if maxContentWidth > leftW+rightW {
						padding = maxContentWidth - leftW - rightW
					}
					line(indent+strings.Repeat(" ", padding)+right, "")
				}
			}
		}
	}

	out.WriteString(colorize("╰"+hBorder+"╯", colorBorder))
	out.WriteString("\n")
	return out.String()
}
