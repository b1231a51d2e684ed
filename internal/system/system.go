// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package system aggregates every readout into one record.
//
// Collect fans out one goroutine per readout; each task writes its own
// slot, so no synchronization beyond the final join is needed. Collection
// never fails as a whole: a record always comes back, and each slot is
// independently a value or an error.
package system

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/internal/packages"
	"github.com/pupbrained/draconisplusplus-sub000/internal/sysinfo"
	"github.com/pupbrained/draconisplusplus-sub000/internal/weather"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

// =============================================================================
// Aggregate Record
// =============================================================================

// Info is the aggregate readout record. Presence of a field does not
// imply success; readers must branch on each Result.
type Info struct {
	Date          dracerr.Result[string]
	Host          dracerr.Result[string]
	KernelVersion dracerr.Result[string]
	OSVersion     dracerr.Result[string]
	MemInfo       dracerr.Result[sysinfo.ResourceUsage]
	DesktopEnv    dracerr.Result[string]
	WindowMgr     dracerr.Result[string]
	DiskUsage     dracerr.Result[sysinfo.ResourceUsage]
	Shell         dracerr.Result[string]
	CPUModel      dracerr.Result[string]
	CPUCores      dracerr.Result[sysinfo.CPUCores]
	GPUModel      dracerr.Result[string]
	Uptime        dracerr.Result[time.Duration]
	PackageCount  dracerr.Result[uint64]
	NowPlaying    dracerr.Result[sysinfo.MediaInfo]
	Weather       dracerr.Result[weather.Report]

	packagesEnabled   bool
	nowPlayingEnabled bool
	weatherEnabled    bool
}

// Options selects the optional readouts for one run.
type Options struct {
	// EnablePackages schedules the package-count aggregation over PackageMask.
	EnablePackages bool
	PackageMask    packages.Manager

	// EnableNowPlaying schedules the media readout. When false the task
	// is never run and the slot reports the feature as unavailable.
	EnableNowPlaying bool

	// WeatherProvider, when non-nil, schedules the weather readout.
	WeatherProvider weather.Provider
}

// =============================================================================
// Adapter Seam
// =============================================================================

// adapters lets tests substitute the platform functions; production code
// always collects through defaultAdapters.
type adapters struct {
	date          func() string
	host          func() (string, *dracerr.Error)
	kernelVersion func() (string, *dracerr.Error)
	osVersion     func() (string, *dracerr.Error)
	memInfo       func() (sysinfo.ResourceUsage, *dracerr.Error)
	desktopEnv    func() (string, *dracerr.Error)
	windowMgr     func() (string, *dracerr.Error)
	diskUsage     func() (sysinfo.ResourceUsage, *dracerr.Error)
	shell         func() (string, *dracerr.Error)
	cpuModel      func() (string, *dracerr.Error)
	cpuCores      func() (sysinfo.CPUCores, *dracerr.Error)
	gpuModel      func(*cache.Manager) (string, *dracerr.Error)
	uptime        func() (time.Duration, *dracerr.Error)
	nowPlaying    func() (sysinfo.MediaInfo, *dracerr.Error)
	totalPackages func(*cache.Manager, packages.Manager, *logging.Logger) (uint64, *dracerr.Error)
}

var defaultAdapters = adapters{
	date:          sysinfo.Date,
	host:          sysinfo.Host,
	kernelVersion: sysinfo.KernelVersion,
	osVersion:     sysinfo.OSVersion,
	memInfo:       sysinfo.MemInfo,
	desktopEnv:    sysinfo.DesktopEnvironment,
	windowMgr:     sysinfo.WindowManager,
	diskUsage:     sysinfo.DiskUsage,
	shell:         sysinfo.Shell,
	cpuModel:      sysinfo.CPUModel,
	cpuCores:      sysinfo.CPUCoreCounts,
	gpuModel:      sysinfo.GPUModel,
	uptime:        sysinfo.Uptime,
	nowPlaying:    sysinfo.NowPlaying,
	totalPackages: packages.TotalCount,
}

// =============================================================================
// Collection
// =============================================================================

// Collect gathers every readout in parallel and returns the populated
// record. It never fails; failures live in the record's slots.
func Collect(ctx context.Context, cm *cache.Manager, opts Options, log *logging.Logger) *Info {
	return collect(ctx, cm, opts, log, defaultAdapters)
}

func collect(ctx context.Context, cm *cache.Manager, opts Options, log *logging.Logger, a adapters) *Info {
	if log == nil {
		log = logging.Default()
	}

	info := &Info{
		packagesEnabled:   opts.EnablePackages,
		nowPlayingEnabled: opts.EnableNowPlaying,
		weatherEnabled:    opts.WeatherProvider != nil,
	}

	var wg sync.WaitGroup
	run := func(task func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task()
		}()
	}

	run(func() { info.Date = dracerr.Ok(a.date()) })
	run(func() { info.Host = resultOf(a.host()) })
	run(func() { info.KernelVersion = resultOf(a.kernelVersion()) })
	run(func() { info.OSVersion = resultOf(a.osVersion()) })
	run(func() { info.MemInfo = resultOf(a.memInfo()) })
	run(func() { info.DesktopEnv = resultOf(a.desktopEnv()) })
	run(func() { info.WindowMgr = resultOf(a.windowMgr()) })
	run(func() { info.DiskUsage = resultOf(a.diskUsage()) })
	run(func() { info.Shell = resultOf(a.shell()) })
	run(func() { info.CPUModel = resultOf(a.cpuModel()) })
	run(func() { info.CPUCores = resultOf(a.cpuCores()) })
	run(func() { info.GPUModel = resultOf(a.gpuModel(cm)) })
	run(func() { info.Uptime = resultOf(a.uptime()) })

	if opts.EnablePackages {
		run(func() { info.PackageCount = resultOf(a.totalPackages(cm, opts.PackageMask, log)) })
	} else {
		info.PackageCount = dracerr.Fail[uint64](
			dracerr.New(dracerr.ApiUnavailable, "package counting disabled"))
	}

	if opts.EnableNowPlaying {
		run(func() { info.NowPlaying = resultOf(a.nowPlaying()) })
	} else {
		info.NowPlaying = dracerr.Fail[sysinfo.MediaInfo](
			dracerr.New(dracerr.ApiUnavailable, "now playing disabled"))
	}

	if opts.WeatherProvider != nil {
		run(func() { info.Weather = resultOf(opts.WeatherProvider.Fetch(ctx)) })
	} else {
		info.Weather = dracerr.Fail[weather.Report](
			dracerr.New(dracerr.ApiUnavailable, "weather disabled"))
	}

	wg.Wait()

	if info.CPUModel.IsOk() {
		info.CPUModel = dracerr.Ok(sysinfo.ReplaceTrademarks(info.CPUModel.Value()))
	}

	return info
}

func resultOf[T any](value T, err *dracerr.Error) dracerr.Result[T] {
	if err != nil {
		return dracerr.Fail[T](err)
	}
	return dracerr.Ok(value)
}

// =============================================================================
// Doctor Support
// =============================================================================

// Failure names one failed readout for doctor output.
type Failure struct {
	Readout string
	Err     *dracerr.Error
}

// ReadoutCount is the number of doctor readouts enabled for this record:
// the ten base readouts plus each enabled optional feature. The CPU and
// GPU slots are collected and rendered but are not doctor readouts.
func (i *Info) ReadoutCount() int {
	count := 10
	if i.packagesEnabled {
		count++
	}
	if i.nowPlayingEnabled {
		count++
	}
	if i.weatherEnabled {
		count++
	}
	return count
}

// Failures enumerates the failed slots in doctor order. Disabled features
// are not failures; they were never scheduled.
func (i *Info) Failures() []Failure {
	var failures []Failure
	add := func(name string, err *dracerr.Error) {
		if err != nil {
			failures = append(failures, Failure{Readout: name, Err: err})
		}
	}

	add("Date", i.Date.Err())
	add("Host", i.Host.Err())
	add("KernelVersion", i.KernelVersion.Err())
	add("OSVersion", i.OSVersion.Err())
	add("MemoryInfo", i.MemInfo.Err())
	add("DesktopEnvironment", i.DesktopEnv.Err())
	add("WindowManager", i.WindowMgr.Err())
	add("DiskUsage", i.DiskUsage.Err())
	add("Shell", i.Shell.Err())
	add("Uptime", i.Uptime.Err())
	if i.packagesEnabled {
		add("PackageCount", i.PackageCount.Err())
	}
	if i.nowPlayingEnabled {
		add("NowPlaying", i.NowPlaying.Err())
	}
	if i.weatherEnabled {
		add("Weather", i.Weather.Err())
	}
	return failures
}

// =============================================================================
// JSON Output
// =============================================================================

// jsonInfo mirrors Info with one optional field per readout; failed slots
// are omitted entirely.
type jsonInfo struct {
	Date          *string                `json:"date,omitempty"`
	Host          *string                `json:"host,omitempty"`
	KernelVersion *string                `json:"kernelVersion,omitempty"`
	OSVersion     *string                `json:"operatingSystem,omitempty"`
	MemInfo       *sysinfo.ResourceUsage `json:"memInfo,omitempty"`
	DesktopEnv    *string                `json:"desktopEnv,omitempty"`
	WindowMgr     *string                `json:"windowMgr,omitempty"`
	DiskUsage     *sysinfo.ResourceUsage `json:"diskUsage,omitempty"`
	Shell         *string                `json:"shell,omitempty"`
	CPUModel      *string                `json:"cpuModel,omitempty"`
	CPUCores      *sysinfo.CPUCores      `json:"cpuCores,omitempty"`
	GPUModel      *string                `json:"gpuModel,omitempty"`
	UptimeSeconds *int64                 `json:"uptimeSeconds,omitempty"`
	PackageCount  *uint64                `json:"packageCount,omitempty"`
	NowPlaying    *sysinfo.MediaInfo     `json:"nowPlaying,omitempty"`
	Weather       *weather.Report        `json:"weather,omitempty"`
}

// JSON renders the record as a JSON object with failed readouts omitted.
func (i *Info) JSON() ([]byte, error) {
	out := jsonInfo{
		Date:          okPtr(i.Date),
		Host:          okPtr(i.Host),
		KernelVersion: okPtr(i.KernelVersion),
		OSVersion:     okPtr(i.OSVersion),
		MemInfo:       okPtr(i.MemInfo),
		DesktopEnv:    okPtr(i.DesktopEnv),
		WindowMgr:     okPtr(i.WindowMgr),
		DiskUsage:     okPtr(i.DiskUsage),
		Shell:         okPtr(i.Shell),
		CPUModel:      okPtr(i.CPUModel),
		CPUCores:      okPtr(i.CPUCores),
		GPUModel:      okPtr(i.GPUModel),
		PackageCount:  okPtr(i.PackageCount),
		NowPlaying:    okPtr(i.NowPlaying),
		Weather:       okPtr(i.Weather),
	}

	if i.Uptime.IsOk() {
		seconds := int64(i.Uptime.Value() / time.Second)
		out.UptimeSeconds = &seconds
	}

	return json.MarshalIndent(out, "", "  ")
}

func okPtr[T any](r dracerr.Result[T]) *T {
	if !r.IsOk() {
		return nil
	}
	v := r.Value()
	return &v
}
