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
	"runtime"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/cache"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

var (
	kernel32                            = windows.NewLazySystemDLL("kernel32.dll")
	procGetTickCount64                  = kernel32.NewProc("GetTickCount64")
	procGlobalMemoryStatusEx            = kernel32.NewProc("GlobalMemoryStatusEx")
	procGetLogicalProcessorInformation2 = kernel32.NewProc("GetLogicalProcessorInformationEx")
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// =============================================================================
// OS / Kernel / Host
// =============================================================================

// OSVersion synthesizes "Windows 10/11 <DisplayVersion>" from the build
// number and the CurrentVersion registry key.
func OSVersion() (string, *dracerr.Error) {
	info := windows.RtlGetVersion()

	name := "Windows 10"
	if info.BuildNumber >= 22000 {
		name = "Windows 11"
	}

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, currentVersionKey, registry.QUERY_VALUE)
	if err != nil {
		return "", dracerr.FromSysf(err, "opening CurrentVersion registry key")
	}
	defer key.Close()

	display, _, err := key.GetStringValue("DisplayVersion")
	if err != nil {
		if display, _, err = key.GetStringValue("ReleaseId"); err != nil {
			return name, nil
		}
	}
	return name + " " + display, nil
}

// KernelVersion composes major.minor.build from kernel version data.
func KernelVersion() (string, *dracerr.Error) {
	info := windows.RtlGetVersion()
	return fmt.Sprintf("%d.%d.%d", info.MajorVersion, info.MinorVersion, info.BuildNumber), nil
}

// Host returns the system product name from the BIOS registry key.
func Host() (string, *dracerr.Error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `HARDWARE\DESCRIPTION\System\BIOS`, registry.QUERY_VALUE)
	if err != nil {
		return "", dracerr.FromSysf(err, "opening BIOS registry key")
	}
	defer key.Close()

	for _, value := range []string{"SystemProductName", "SystemFamily"} {
		if name, _, err := key.GetStringValue(value); err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name), nil
		}
	}
	return "", dracerr.New(dracerr.NotFound, "no product name in BIOS registry key")
}

// =============================================================================
// CPU / GPU
// =============================================================================

// CPUModel returns the processor brand string from the registry.
func CPUModel() (string, *dracerr.Error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DESCRIPTION\System\CentralProcessor\0`, registry.QUERY_VALUE)
	if err != nil {
		return "", dracerr.FromSysf(err, "opening CentralProcessor registry key")
	}
	defer key.Close()

	name, _, err := key.GetStringValue("ProcessorNameString")
	if err != nil {
		return "", dracerr.FromSysf(err, "reading ProcessorNameString")
	}
	return strings.TrimSpace(name), nil
}

// CPUCoreCounts returns physical cores via the processor-core relationship
// enumeration and logical cores from the scheduler.
func CPUCoreCounts() (CPUCores, *dracerr.Error) {
	logical := uint32(runtime.NumCPU())

	physical, derr := physicalCoreCount()
	if derr != nil {
		return CPUCores{}, derr
	}
	if physical == 0 {
		physical = logical
	}
	return CPUCores{Physical: physical, Logical: logical}, nil
}

// physicalCoreCount counts RelationProcessorCore records returned by
// GetLogicalProcessorInformationEx.
func physicalCoreCount() (uint32, *dracerr.Error) {
	const relationProcessorCore = 0

	var length uint32
	ret, _, _ := procGetLogicalProcessorInformation2.Call(
		uintptr(relationProcessorCore),
		0,
		uintptr(unsafe.Pointer(&length)),
	)
	if ret != 0 || length == 0 {
		return 0, dracerr.New(dracerr.PlatformSpecific, "GetLogicalProcessorInformationEx sizing call failed")
	}

	buf := make([]byte, length)
	ret, _, callErr := procGetLogicalProcessorInformation2.Call(
		uintptr(relationProcessorCore),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&length)),
	)
	if ret == 0 {
		return 0, dracerr.FromSysf(callErr, "GetLogicalProcessorInformationEx")
	}

	// Each record starts with Relationship (4 bytes) and Size (4 bytes).
	var count uint32
	for offset := uint32(0); offset+8 <= length; {
		relationship := *(*uint32)(unsafe.Pointer(&buf[offset]))
		size := *(*uint32)(unsafe.Pointer(&buf[offset+4]))
		if size == 0 {
			break
		}
		if relationship == relationProcessorCore {
			count++
		}
		offset += size
	}
	return count, nil
}

// GPUModel returns the primary display adapter's driver description.
func GPUModel(*cache.Manager) (string, *dracerr.Error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Control\Class\{4d36e968-e325-11ce-bfc1-08002be10318}\0000`,
		registry.QUERY_VALUE)
	if err != nil {
		return "", dracerr.FromSysf(err, "opening display adapter registry key")
	}
	defer key.Close()

	desc, _, err := key.GetStringValue("DriverDesc")
	if err != nil {
		return "", dracerr.FromSysf(err, "reading DriverDesc")
	}
	return strings.TrimSpace(desc), nil
}

// =============================================================================
// Memory / Disk / Uptime
// =============================================================================

type memoryStatusEx struct {
	Length               uint32
	MemoryLoad           uint32
	TotalPhys            uint64
	AvailPhys            uint64
	TotalPageFile        uint64
	AvailPageFile        uint64
	TotalVirtual         uint64
	AvailVirtual         uint64
	AvailExtendedVirtual uint64
}

// MemInfo returns physical RAM usage from GlobalMemoryStatusEx.
func MemInfo() (ResourceUsage, *dracerr.Error) {
	var status memoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))

	ret, _, callErr := procGlobalMemoryStatusEx.Call(uintptr(unsafe.Pointer(&status)))
	if ret == 0 {
		return ResourceUsage{}, dracerr.FromSysf(callErr, "GlobalMemoryStatusEx")
	}

	return ResourceUsage{
		UsedBytes:  status.TotalPhys - status.AvailPhys,
		TotalBytes: status.TotalPhys,
	}, nil
}

// DiskUsage returns usage of the C:\ volume.
func DiskUsage() (ResourceUsage, *dracerr.Error) {
	var freeAvail, total, totalFree uint64

	root, err := windows.UTF16PtrFromString(`C:\`)
	if err != nil {
		return ResourceUsage{}, dracerr.Wrap(err)
	}

	if err := windows.GetDiskFreeSpaceEx(root, &freeAvail, &total, &totalFree); err != nil {
		return ResourceUsage{}, dracerr.FromSysf(err, "GetDiskFreeSpaceEx C:\\")
	}
	return ResourceUsage{UsedBytes: total - totalFree, TotalBytes: total}, nil
}

// Uptime returns milliseconds since boot from GetTickCount64.
func Uptime() (time.Duration, *dracerr.Error) {
	ticks, _, _ := procGetTickCount64.Call()
	if ticks == 0 {
		return 0, dracerr.New(dracerr.PlatformSpecific, "GetTickCount64 returned zero")
	}
	return time.Duration(ticks) * time.Millisecond, nil
}

// =============================================================================
// Desktop Environment / Window Manager / Shell
// =============================================================================

// DesktopEnvironment returns the build-based UI generation label.
func DesktopEnvironment() (string, *dracerr.Error) {
	build := windows.RtlGetVersion().BuildNumber
	switch {
	case build >= 15063:
		return "Fluent", nil
	case build >= 9200:
		return "Metro", nil
	case build >= 6000:
		return "Aero", nil
	default:
		return "Classic", nil
	}
}

// knownWindowManagers maps replacement-WM process names to display names.
var knownWindowManagers = map[string]string{
	"glazewm.exe":   "GlazeWM",
	"komorebi.exe":  "komorebi",
	"seelen-ui.exe": "Seelen UI",
}

// WindowManager scans the process list for known tiling window managers,
// defaulting to the Desktop Window Manager.
func WindowManager() (string, *dracerr.Error) {
	entries, derr := processEntries()
	if derr != nil {
		return "", derr
	}

	for _, entry := range entries {
		if name, ok := knownWindowManagers[strings.ToLower(entry.exe)]; ok {
			return name, nil
		}
	}
	return "DWM", nil
}

// knownShellProcesses maps recognized ancestor process names to display names.
var knownShellProcesses = map[string]string{
	"cmd.exe":        "Command Prompt",
	"powershell.exe": "PowerShell",
	"pwsh.exe":       "PowerShell Core",
	"wt.exe":         "Windows Terminal",
	"explorer.exe":   "Explorer",
}

// Shell walks the ancestor process chain looking for a known shell. Inside
// an MSYS2 environment the MSYSTEM/SHELL pair wins.
func Shell() (string, *dracerr.Error) {
	if msystem := os.Getenv("MSYSTEM"); msystem != "" {
		if shellPath := os.Getenv("SHELL"); shellPath != "" {
			return fmt.Sprintf("%s (%s)", friendlyShellName(shellPath), msystem), nil
		}
		return "MSYS2 (" + msystem + ")", nil
	}

	entries, derr := processEntries()
	if derr != nil {
		return "", derr
	}

	byPid := make(map[uint32]processEntry, len(entries))
	for _, entry := range entries {
		byPid[entry.pid] = entry
	}

	pid := uint32(os.Getpid())
	for depth := 0; depth < 32; depth++ {
		entry, ok := byPid[pid]
		if !ok {
			break
		}
		if name, found := knownShellProcesses[strings.ToLower(entry.exe)]; found {
			return name, nil
		}
		if entry.ppid == 0 || entry.ppid == pid {
			break
		}
		pid = entry.ppid
	}

	return "", dracerr.New(dracerr.NotFound, "no known shell in the ancestor process chain")
}

// NowPlaying would need the WinRT media transport session manager.
func NowPlaying() (MediaInfo, *dracerr.Error) {
	return MediaInfo{}, dracerr.New(dracerr.NotSupported, "now playing requires WinRT media APIs")
}

// =============================================================================
// Process Snapshot
// =============================================================================

type processEntry struct {
	pid  uint32
	ppid uint32
	exe  string
}

func processEntries() ([]processEntry, *dracerr.Error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, dracerr.FromSysf(err, "creating process snapshot")
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, dracerr.FromSysf(err, "reading first process entry")
	}

	var entries []processEntry
	for {
		entries = append(entries, processEntry{
			pid:  entry.ProcessID,
			ppid: entry.ParentProcessID,
			exe:  windows.UTF16ToString(entry.ExeFile[:]),
		})
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return entries, nil
}
