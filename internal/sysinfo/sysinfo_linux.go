// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// =============================================================================
// OS / Kernel / Host
// =============================================================================

var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// OSVersion returns the distribution's pretty name, e.g. "Ubuntu 24.04 LTS".
func OSVersion() (string, *dracerr.Error) {
	for _, path := range osReleasePaths {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", dracerr.FromSysf(err, "opening %s", path)
		}
		defer f.Close()
		return parseOSRelease(f)
	}
	return "", dracerr.New(dracerr.NotFound, "no os-release file found")
}

// KernelVersion returns the running kernel release, as uname -r would.
func KernelVersion() (string, *dracerr.Error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", dracerr.FromSysf(err, "uname")
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

var dmiProductPaths = []string{
	"/sys/devices/virtual/dmi/id/product_name",
	"/sys/devices/virtual/dmi/id/product_family",
	"/sys/firmware/devicetree/base/model",
}

// Host returns the hardware model from DMI, falling back to the devicetree
// model on boards without SMBIOS.
func Host() (string, *dracerr.Error) {
	for _, path := range dmiProductPaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if name := strings.TrimSpace(strings.TrimRight(string(raw), "\x00")); name != "" {
			return name, nil
		}
	}
	return "", dracerr.New(dracerr.NotFound, "no product name in DMI or devicetree")
}

// =============================================================================
// CPU / GPU
// =============================================================================

// CPUModel returns the processor brand string from /proc/cpuinfo.
func CPUModel() (string, *dracerr.Error) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return "", dracerr.FromSysf(err, "opening /proc/cpuinfo")
	}
	defer f.Close()

	model, _, derr := parseCPUInfo(f)
	if derr != nil {
		return "", derr
	}
	if model == "" {
		return "", dracerr.New(dracerr.NotFound, "cpuinfo has no model name")
	}
	return model, nil
}

// CPUCoreCounts returns physical and logical core counts.
func CPUCoreCounts() (CPUCores, *dracerr.Error) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return CPUCores{}, dracerr.FromSysf(err, "opening /proc/cpuinfo")
	}
	defer f.Close()

	_, cores, derr := parseCPUInfo(f)
	if derr != nil {
		return CPUCores{}, derr
	}
	return cores, nil
}

var pciIDsPaths = []string{
	"/usr/share/hwdata/pci.ids",
	"/usr/share/misc/pci.ids",
	"/usr/share/pci.ids",
}

// GPUModel names the primary display adapter by resolving the boot-VGA DRM
// card's PCI ids against the system pci.ids database. The lookup walks a
// multi-megabyte file, so the result is cached.
func GPUModel(cm *cache.Manager) (string, *dracerr.Error) {
	return cache.GetOrSet(cm, "gpu_model", func() (string, *dracerr.Error) {
		vendorID, deviceID, derr := primaryGPUIDs()
		if derr != nil {
			return "", derr
		}

		for _, path := range pciIDsPaths {
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			vendor, device := lookupPCIName(f, vendorID, deviceID)
			f.Close()

			if device != "" {
				return device, nil
			}
			if vendor != "" {
				return fmt.Sprintf("%s [%s:%s]", vendor, vendorID, deviceID), nil
			}
			break
		}

		return "", dracerr.Newf(dracerr.NotFound, "PCI device %s:%s not in pci.ids", vendorID, deviceID)
	})
}

// primaryGPUIDs finds the boot-VGA DRM card (or the first card) and reads
// its PCI vendor and device ids.
func primaryGPUIDs() (vendorID, deviceID string, derr *dracerr.Error) {
	cards, err := filepath.Glob("/sys/class/drm/card[0-9]*")
	if err != nil {
		return "", "", dracerr.FromSysf(err, "listing DRM cards")
	}

	var candidates []string
	for _, card := range cards {
		if strings.Contains(filepath.Base(card), "-") {
			continue // connector entries like card0-eDP-1
		}
		candidates = append(candidates, card)
	}
	if len(candidates) == 0 {
		return "", "", dracerr.New(dracerr.NotFound, "no DRM cards present")
	}
	sort.Strings(candidates)

	chosen := candidates[0]
	for _, card := range candidates {
		if raw, err := os.ReadFile(filepath.Join(card, "device", "boot_vga")); err == nil &&
			strings.TrimSpace(string(raw)) == "1" {
			chosen = card
			break
		}
	}

	readID := func(name string) (string, *dracerr.Error) {
		raw, err := os.ReadFile(filepath.Join(chosen, "device", name))
		if err != nil {
			return "", dracerr.FromSysf(err, "reading %s id of %s", name, chosen)
		}
		return strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x"), nil
	}

	if vendorID, derr = readID("vendor"); derr != nil {
		return "", "", derr
	}
	if deviceID, derr = readID("device"); derr != nil {
		return "", "", derr
	}
	return vendorID, deviceID, nil
}

// =============================================================================
// Memory / Disk / Uptime
// =============================================================================

// MemInfo returns physical RAM usage, with used = total − MemAvailable.
func MemInfo() (ResourceUsage, *dracerr.Error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return ResourceUsage{}, dracerr.FromSysf(err, "opening /proc/meminfo")
	}
	defer f.Close()

	return parseMemInfo(f)
}

// DiskUsage returns usage of the root filesystem.
func DiskUsage() (ResourceUsage, *dracerr.Error) {
	var stat unix.Statfs_t
	if err := unix.Statfs("/", &stat); err != nil {
		return ResourceUsage{}, dracerr.FromSysf(err, "statfs /")
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return ResourceUsage{UsedBytes: total - free, TotalBytes: total}, nil
}

// Uptime returns the time since boot.
func Uptime() (time.Duration, *dracerr.Error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, dracerr.FromSysf(err, "sysinfo")
	}
	return time.Duration(info.Uptime) * time.Second, nil
}

// =============================================================================
// Desktop Environment / Window Manager / Shell
// =============================================================================

var desktopNames = map[string]string{
	"gnome":    "GNOME",
	"kde":      "KDE",
	"plasma":   "KDE",
	"xfce":     "Xfce",
	"mate":     "MATE",
	"cinnamon": "Cinnamon",
	"lxqt":     "LXQt",
	"lxde":     "LXDE",
	"budgie":   "Budgie",
	"unity":    "Unity",
	"pantheon": "Pantheon",
	"hyprland": "Hyprland",
	"sway":     "Sway",
	"cosmic":   "COSMIC",
}

// DesktopEnvironment resolves the desktop from XDG_CURRENT_DESKTOP, then
// DESKTOP_SESSION.
func DesktopEnvironment() (string, *dracerr.Error) {
	if current := os.Getenv("XDG_CURRENT_DESKTOP"); current != "" {
		parts := strings.Split(current, ":")
		raw := strings.TrimPrefix(parts[len(parts)-1], "X-")
		if name, ok := desktopNames[strings.ToLower(raw)]; ok {
			return name, nil
		}
		return raw, nil
	}

	if session := os.Getenv("DESKTOP_SESSION"); session != "" {
		raw := filepath.Base(session)
		if name, ok := desktopNames[strings.ToLower(raw)]; ok {
			return name, nil
		}
		return raw, nil
	}

	return "", dracerr.New(dracerr.NotFound, "no desktop environment variables set")
}

// WindowManager identifies the compositor on Wayland via the display
// socket's peer process, falling back to the EWMH check window on X11.
func WindowManager() (string, *dracerr.Error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return waylandCompositor()
	}
	if os.Getenv("DISPLAY") != "" {
		return x11WindowManager()
	}
	return "", dracerr.New(dracerr.NotFound, "no display server detected")
}

// Shell returns the friendly name of the login shell from $SHELL.
func Shell() (string, *dracerr.Error) {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		return "", dracerr.New(dracerr.NotFound, "SHELL is not set")
	}

	name := friendlyShellName(shellPath)
	if name == "" {
		return "", dracerr.Newf(dracerr.ParseError, "unusable SHELL value %q", shellPath)
	}
	return name, nil
}
