// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// macOSNames maps major versions to marketing names.
var macOSNames = map[int]string{
	11: "Big Sur",
	12: "Monterey",
	13: "Ventura",
	14: "Sonoma",
	15: "Sequoia",
	26: "Tahoe",
}

// OSVersion returns "macOS <marketing name> <version>".
func OSVersion() (string, *dracerr.Error) {
	version, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return "", dracerr.FromSysf(err, "sysctl kern.osproductversion")
	}

	major, _, _ := strings.Cut(version, ".")
	majorNum, convErr := strconv.Atoi(major)
	if convErr != nil {
		return "", dracerr.Newf(dracerr.ParseError, "unparseable product version %q", version)
	}

	if name, ok := macOSNames[majorNum]; ok {
		return fmt.Sprintf("macOS %s %s", name, version), nil
	}
	return "macOS " + version, nil
}

// KernelVersion returns the Darwin kernel release.
func KernelVersion() (string, *dracerr.Error) {
	release, err := unix.Sysctl("kern.osrelease")
	if err != nil {
		return "", dracerr.FromSysf(err, "sysctl kern.osrelease")
	}
	return release, nil
}

// Host returns the Mac model identifier, e.g. "MacBookPro18,3".
func Host() (string, *dracerr.Error) {
	model, err := unix.Sysctl("hw.model")
	if err != nil {
		return "", dracerr.FromSysf(err, "sysctl hw.model")
	}
	return model, nil
}

// CPUModel returns the processor brand string.
func CPUModel() (string, *dracerr.Error) {
	brand, err := unix.Sysctl("machdep.cpu.brand_string")
	if err != nil {
		return "", dracerr.FromSysf(err, "sysctl machdep.cpu.brand_string")
	}
	return brand, nil
}

// CPUCoreCounts returns physical and logical core counts.
func CPUCoreCounts() (CPUCores, *dracerr.Error) {
	physical, err := unix.SysctlUint32("hw.physicalcpu")
	if err != nil {
		return CPUCores{}, dracerr.FromSysf(err, "sysctl hw.physicalcpu")
	}
	logical, err := unix.SysctlUint32("hw.logicalcpu")
	if err != nil {
		return CPUCores{}, dracerr.FromSysf(err, "sysctl hw.logicalcpu")
	}
	return CPUCores{Physical: physical, Logical: logical}, nil
}

// GPUModel is not readable without IOKit bindings.
func GPUModel(*cache.Manager) (string, *dracerr.Error) {
	return "", dracerr.New(dracerr.NotSupported, "GPU model requires IOKit on macOS")
}

// MemInfo returns physical RAM usage, with used = total − free pages.
func MemInfo() (ResourceUsage, *dracerr.Error) {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return ResourceUsage{}, dracerr.FromSysf(err, "sysctl hw.memsize")
	}

	freePages, err := unix.SysctlUint32("vm.page_free_count")
	if err != nil {
		return ResourceUsage{}, dracerr.FromSysf(err, "sysctl vm.page_free_count")
	}

	free := uint64(freePages) * uint64(os.Getpagesize())
	if free > total {
		free = total
	}
	return ResourceUsage{UsedBytes: total - free, TotalBytes: total}, nil
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

// DesktopEnvironment is always Aqua on macOS.
func DesktopEnvironment() (string, *dracerr.Error) {
	return "Aqua", nil
}

// WindowManager is not readable without CoreGraphics bindings.
func WindowManager() (string, *dracerr.Error) {
	return "", dracerr.New(dracerr.NotSupported, "window manager detection requires CoreGraphics on macOS")
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

// Uptime returns the time since boot from kern.boottime.
func Uptime() (time.Duration, *dracerr.Error) {
	boottime, err := unix.SysctlTimeval("kern.boottime")
	if err != nil {
		return 0, dracerr.FromSysf(err, "sysctl kern.boottime")
	}

	boot := time.Unix(boottime.Sec, int64(boottime.Usec)*1000)
	return time.Since(boot).Truncate(time.Second), nil
}

// NowPlaying requires the private MediaRemote framework.
func NowPlaying() (MediaInfo, *dracerr.Error) {
	return MediaInfo{}, dracerr.New(dracerr.NotSupported, "now playing requires MediaRemote on macOS")
}
