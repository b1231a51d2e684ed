// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ui

import (
	"runtime"
	"strconv"
	"strings"
)

// Icons is one theme's glyph table. Exactly one theme is active per
// process, resolved from configuration at startup.
type Icons struct {
	Calendar           string
	DesktopEnvironment string
	Disk               string
	Host               string
	Kernel             string
	Memory             string
	CPU                string
	GPU                string
	Uptime             string
	Music              string
	OS                 string
	Package            string
	Palette            string
	Shell              string
	User               string
	Weather            string
	WindowManager      string
}

// None renders rows without any icon cell content.
var None = Icons{}

// Nerd is the Nerd-Font glyph table.
var Nerd = Icons{
	Calendar:           "   ",
	DesktopEnvironment: " 󰇄  ",
	Disk:               " 󰋊  ",
	Host:               " 󰌢  ",
	Kernel:             "   ",
	Memory:             " 󰍛  ",
	CPU:                nerdCPUIcon(),
	GPU:                " 󰢮  ",
	Uptime:             "   ",
	Music:              "   ",
	OS:                 nerdOSIcon(),
	Package:            " 󰏖  ",
	Palette:            " 󰏘  ",
	Shell:              "   ",
	User:               "   ",
	Weather:            " 󰖙  ",
	WindowManager:      "   ",
}

// Emoji is the emoji table.
var Emoji = Icons{
	Calendar:           " 📅 ",
	DesktopEnvironment: " 🖥️ ",
	Disk:               " 💾 ",
	Host:               " 💻 ",
	Kernel:             " 🫀 ",
	Memory:             " 🧠 ",
	CPU:                " 💻 ",
	GPU:                " 🎨 ",
	Uptime:             " ⏰ ",
	Music:              " 🎵 ",
	OS:                 " 🤖 ",
	Package:            " 📦 ",
	Palette:            " 🎨 ",
	Shell:              " 💲 ",
	User:               " 👤 ",
	Weather:            " 🌈 ",
	WindowManager:      " 🪟 ",
}

func nerdCPUIcon() string {
	if strconv.IntSize == 64 {
		return " 󰻠  "
	}
	return " 󰻟  "
}

func nerdOSIcon() string {
	switch runtime.GOOS {
	case "linux":
		return " 󰌽  "
	case "darwin":
		return "   "
	case "windows":
		return "   "
	case "freebsd", "dragonfly":
		return "   "
	default:
		return "   "
	}
}

// ThemeIcons resolves a theme name to its table; unknown names fall back
// to no icons.
func ThemeIcons(theme string) Icons {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "nerd":
		return Nerd
	case "emoji":
		return Emoji
	default:
		return None
	}
}

// distroIcons maps distribution name substrings to Nerd-Font logos. Order
// matters: more specific names come before the generic ones they contain.
var distroIcons = []struct {
	name string
	icon string
}{
	{"NixOS", "   "},
	{"Zorin", "   "},
	{"Debian", "   "},
	{"Fedora", "   "},
	{"Gentoo", "   "},
	{"Ubuntu", "   "},
	{"Manjaro", "   "},
	{"Pop!_OS", "   "},
	{"Arch Linux", "   "},
	{"Linux Mint", "   "},
	{"Void Linux", "   "},
	{"Alpine Linux", "   "},
}

// distroIcon picks a distribution logo by substring match against the OS
// version string, or "" when no distribution matches.
func distroIcon(osVersion string) string {
	for _, entry := range distroIcons {
		if strings.Contains(osVersion, entry.name) {
			return entry.icon
		}
	}
	return ""
}
