// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pupbrained/draconisplusplus-sub000/internal/system"
	"github.com/pupbrained/draconisplusplus-sub000/internal/sysinfo"
	"github.com/pupbrained/draconisplusplus-sub000/internal/weather"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// healthyInfo builds a record with every base readout successful and all
// optional features disabled.
func healthyInfo() *system.Info {
	return &system.Info{
		Date:          dracerr.Ok("July 21st"),
		Host:          dracerr.Ok("ModelX"),
		KernelVersion: dracerr.Ok("6.1.0"),
		OSVersion:     dracerr.Ok("Linux Test 1.0"),
		MemInfo:       dracerr.Ok(sysinfo.ResourceUsage{UsedBytes: 1, TotalBytes: 2}),
		DesktopEnv:    dracerr.Ok("GNOME"),
		WindowMgr:     dracerr.Ok("Mutter"),
		DiskUsage:     dracerr.Ok(sysinfo.ResourceUsage{UsedBytes: 1, TotalBytes: 2}),
		Shell:         dracerr.Ok("Bash"),
		CPUModel:      dracerr.Ok("x86_64 CPU"),
		CPUCores:      dracerr.Ok(sysinfo.CPUCores{Physical: 4, Logical: 8}),
		GPUModel:      dracerr.Ok("GPU0"),
		Uptime:        dracerr.Ok(time.Hour),
		PackageCount:  dracerr.Fail[uint64](dracerr.New(dracerr.ApiUnavailable, "disabled")),
		NowPlaying:    dracerr.Fail[sysinfo.MediaInfo](dracerr.New(dracerr.ApiUnavailable, "disabled")),
		Weather:       dracerr.Fail[weather.Report](dracerr.New(dracerr.ApiUnavailable, "disabled")),
	}
}

func TestPrintDoctorReport_TwoFailures(t *testing.T) {
	info := healthyInfo()
	info.Host = dracerr.Fail[string](dracerr.New(dracerr.NotFound, "no DMI"))
	info.Shell = dracerr.Fail[string](dracerr.New(dracerr.PermissionDenied, "cannot read environment"))

	var buf bytes.Buffer
	printDoctorReport(&buf, info, false)
	out := buf.String()

	if !strings.HasPrefix(out, "We've collected a total of 10 readouts including 2 failed reads.\n\n") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, `Readout "Host" failed: no DMI (code: NotFound)`) {
		t.Errorf("missing host failure line:\n%s", out)
	}
	if !strings.Contains(out, `Readout "Shell" failed: cannot read environment (code: PermissionDenied)`) {
		t.Errorf("missing shell failure line:\n%s", out)
	}

	// Host must come before Shell, matching the record's field order.
	if strings.Index(out, `"Host"`) > strings.Index(out, `"Shell"`) {
		t.Error("failures out of order")
	}
}

func TestPrintDoctorReport_NoFailures(t *testing.T) {
	var buf bytes.Buffer
	printDoctorReport(&buf, healthyInfo(), false)

	if !strings.HasPrefix(buf.String(), "We've collected a total of 10 readouts including 0 failed reads.\n\n") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Readout") {
		t.Error("no failure lines expected")
	}
}

func TestPrintDoctorReport_SingularFailure(t *testing.T) {
	info := healthyInfo()
	info.Uptime = dracerr.Fail[time.Duration](dracerr.New(dracerr.Timeout, "sysinfo stalled"))

	var buf bytes.Buffer
	printDoctorReport(&buf, info, false)

	if !strings.HasPrefix(buf.String(), "We've collected a total of 10 readouts including 1 failed read.\n\n") {
		t.Errorf("singular form wrong:\n%s", buf.String())
	}
}
