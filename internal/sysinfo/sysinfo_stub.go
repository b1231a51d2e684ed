// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

//go:build !linux && !darwin && !windows

package sysinfo

import (
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

func unsupported() *dracerr.Error {
	return dracerr.New(dracerr.NotSupported, "readout not supported on this platform")
}

func OSVersion() (string, *dracerr.Error)     { return "", unsupported() }
func KernelVersion() (string, *dracerr.Error) { return "", unsupported() }
func Host() (string, *dracerr.Error)          { return "", unsupported() }
func CPUModel() (string, *dracerr.Error)      { return "", unsupported() }

func CPUCoreCounts() (CPUCores, *dracerr.Error) { return CPUCores{}, unsupported() }

func GPUModel(*cache.Manager) (string, *dracerr.Error) { return "", unsupported() }

func MemInfo() (ResourceUsage, *dracerr.Error)   { return ResourceUsage{}, unsupported() }
func DiskUsage() (ResourceUsage, *dracerr.Error) { return ResourceUsage{}, unsupported() }

func DesktopEnvironment() (string, *dracerr.Error) { return "", unsupported() }
func WindowManager() (string, *dracerr.Error)      { return "", unsupported() }
func Shell() (string, *dracerr.Error)              { return "", unsupported() }

func Uptime() (time.Duration, *dracerr.Error) { return 0, unsupported() }

func NowPlaying() (MediaInfo, *dracerr.Error) { return MediaInfo{}, unsupported() }
