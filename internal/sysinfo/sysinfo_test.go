// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Date / Ordinal Tests
// =============================================================================

func TestOrdinal_AllDaysOfMonth(t *testing.T) {
	want := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th", 5: "th", 6: "th", 7: "th",
		8: "th", 9: "th", 10: "th", 11: "th", 12: "th", 13: "th",
		14: "th", 15: "th", 16: "th", 17: "th", 18: "th", 19: "th",
		20: "th", 21: "st", 22: "nd", 23: "rd", 24: "th", 25: "th",
		26: "th", 27: "th", 28: "th", 29: "th", 30: "th", 31: "st",
	}

	for day := 1; day <= 31; day++ {
		if got := Ordinal(day); got != want[day] {
			t.Errorf("Ordinal(%d) = %q, want %q", day, got, want[day])
		}
	}
}

func TestDateAt(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2024, time.July, 21, 0, 0, 0, 0, time.UTC), "July 21st"},
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "January 1st"},
		{time.Date(2024, time.November, 13, 0, 0, 0, 0, time.UTC), "November 13th"},
		{time.Date(2024, time.March, 22, 0, 0, 0, 0, time.UTC), "March 22nd"},
		{time.Date(2024, time.December, 3, 0, 0, 0, 0, time.UTC), "December 3rd"},
	}

	for _, tc := range cases {
		if got := DateAt(tc.t); got != tc.want {
			t.Errorf("DateAt(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

// =============================================================================
// Trademark Filter Tests
// =============================================================================

func TestReplaceTrademarks(t *testing.T) {
	in := "Intel(R) Core(TM) i7-9750H CPU @ 2.60GHz"
	want := "Intel® Core™ i7-9750H CPU @ 2.60GHz"

	if got := ReplaceTrademarks(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReplaceTrademarks_Idempotent(t *testing.T) {
	once := ReplaceTrademarks("AMD Ryzen(TM) 9 (R)")
	twice := ReplaceTrademarks(once)
	if once != twice {
		t.Errorf("filter is not idempotent: %q vs %q", once, twice)
	}
}

func TestReplaceTrademarks_NoMarkers(t *testing.T) {
	in := "Apple M2 Pro"
	if got := ReplaceTrademarks(in); got != in {
		t.Errorf("unexpected rewrite %q", got)
	}
}

// =============================================================================
// OS Release Parser Tests
// =============================================================================

func TestParseOSRelease_PrettyName(t *testing.T) {
	content := `NAME="Ubuntu"
VERSION="24.04 LTS (Noble Numbat)"
PRETTY_NAME="Ubuntu 24.04 LTS"
ID=ubuntu
`
	got, derr := parseOSRelease(strings.NewReader(content))
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}
	if got != "Ubuntu 24.04 LTS" {
		t.Errorf("got %q", got)
	}
}

func TestParseOSRelease_FallsBackToNameVersion(t *testing.T) {
	content := "NAME=\"Arch Linux\"\nVERSION=rolling\n"
	got, derr := parseOSRelease(strings.NewReader(content))
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}
	if got != "Arch Linux rolling" {
		t.Errorf("got %q", got)
	}
}

func TestParseOSRelease_IgnoresCommentsAndBlanks(t *testing.T) {
	content := "# a comment\n\nPRETTY_NAME='Void Linux'\n"
	got, derr := parseOSRelease(strings.NewReader(content))
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}
	if got != "Void Linux" {
		t.Errorf("got %q", got)
	}
}

func TestParseOSRelease_EmptyContentFails(t *testing.T) {
	_, derr := parseOSRelease(strings.NewReader(""))
	if derr == nil {
		t.Fatal("expected error for empty content")
	}
}

// =============================================================================
// MemInfo Parser Tests
// =============================================================================

func TestParseMemInfo(t *testing.T) {
	content := `MemTotal:       16384000 kB
MemFree:         1024000 kB
MemAvailable:   12288000 kB
Buffers:          409600 kB
`
	got, derr := parseMemInfo(strings.NewReader(content))
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}

	wantTotal := uint64(16384000) * 1024
	wantUsed := uint64(16384000-12288000) * 1024
	if got.TotalBytes != wantTotal {
		t.Errorf("TotalBytes = %d, want %d", got.TotalBytes, wantTotal)
	}
	if got.UsedBytes != wantUsed {
		t.Errorf("UsedBytes = %d, want %d", got.UsedBytes, wantUsed)
	}
}

func TestParseMemInfo_MissingTotalFails(t *testing.T) {
	if _, derr := parseMemInfo(strings.NewReader("MemAvailable: 10 kB\n")); derr == nil {
		t.Fatal("expected error without MemTotal")
	}
}

// =============================================================================
// CPUInfo Parser Tests
// =============================================================================

const cpuinfoTwoCoresHT = `processor	: 0
model name	: Intel(R) Core(TM) i5-6300U CPU @ 2.40GHz
physical id	: 0
core id		: 0

processor	: 1
model name	: Intel(R) Core(TM) i5-6300U CPU @ 2.40GHz
physical id	: 0
core id		: 1

processor	: 2
model name	: Intel(R) Core(TM) i5-6300U CPU @ 2.40GHz
physical id	: 0
core id		: 0

processor	: 3
model name	: Intel(R) Core(TM) i5-6300U CPU @ 2.40GHz
physical id	: 0
core id		: 1
`

func TestParseCPUInfo_HyperThreadedTopology(t *testing.T) {
	model, cores, derr := parseCPUInfo(strings.NewReader(cpuinfoTwoCoresHT))
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}

	if model != "Intel(R) Core(TM) i5-6300U CPU @ 2.40GHz" {
		t.Errorf("model = %q", model)
	}
	if cores.Logical != 4 {
		t.Errorf("logical = %d, want 4", cores.Logical)
	}
	if cores.Physical != 2 {
		t.Errorf("physical = %d, want 2", cores.Physical)
	}
}

func TestParseCPUInfo_ARMWithoutTopology(t *testing.T) {
	content := "processor\t: 0\nprocessor\t: 1\nprocessor\t: 2\nprocessor\t: 3\n"
	_, cores, derr := parseCPUInfo(strings.NewReader(content))
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}
	if cores.Physical != 4 || cores.Logical != 4 {
		t.Errorf("cores = %+v, want 4/4", cores)
	}
}

func TestParseCPUInfo_EmptyFails(t *testing.T) {
	if _, _, derr := parseCPUInfo(strings.NewReader("")); derr == nil {
		t.Fatal("expected error for empty cpuinfo")
	}
}

// =============================================================================
// PCI Name Lookup Tests
// =============================================================================

const pciIDsSample = `# pci.ids sample
1002  Advanced Micro Devices, Inc. [AMD/ATI]
	744c  Navi 31 [Radeon RX 7900 XT/7900 XTX/7900M]
		1002 0e3b  RX 7900 XTX
	73ff  Navi 23 [Radeon RX 6600]
10de  NVIDIA Corporation
	2684  AD102 [GeForce RTX 4090]
8086  Intel Corporation
`

func TestLookupPCIName_DeviceHit(t *testing.T) {
	vendor, device := lookupPCIName(strings.NewReader(pciIDsSample), "10de", "2684")
	if vendor != "NVIDIA Corporation" {
		t.Errorf("vendor = %q", vendor)
	}
	if device != "AD102 [GeForce RTX 4090]" {
		t.Errorf("device = %q", device)
	}
}

func TestLookupPCIName_SkipsSubsystemLines(t *testing.T) {
	vendor, device := lookupPCIName(strings.NewReader(pciIDsSample), "1002", "744c")
	if vendor != "Advanced Micro Devices, Inc. [AMD/ATI]" {
		t.Errorf("vendor = %q", vendor)
	}
	if device != "Navi 31 [Radeon RX 7900 XT/7900 XTX/7900M]" {
		t.Errorf("device = %q", device)
	}
}

func TestLookupPCIName_VendorOnly(t *testing.T) {
	vendor, device := lookupPCIName(strings.NewReader(pciIDsSample), "8086", "ffff")
	if vendor != "Intel Corporation" {
		t.Errorf("vendor = %q", vendor)
	}
	if device != "" {
		t.Errorf("device = %q, want empty", device)
	}
}

func TestLookupPCIName_UnknownVendor(t *testing.T) {
	vendor, device := lookupPCIName(strings.NewReader(pciIDsSample), "dead", "beef")
	if vendor != "" || device != "" {
		t.Errorf("expected empty results, got %q / %q", vendor, device)
	}
}

// =============================================================================
// Shell Name Tests
// =============================================================================

func TestFriendlyShellName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/bin/bash", "Bash"},
		{"/usr/bin/zsh", "Zsh"},
		{"/usr/local/bin/fish", "Fish"},
		{"/home/mars/.nix-profile/bin/nu", "Nushell"},
		{"pwsh.exe", "PowerShell Core"},
		{"cmd.exe", "Command Prompt"},
		{"/opt/weird/murex", "Murex"},
	}

	for _, tc := range cases {
		if got := friendlyShellName(tc.in); got != tc.want {
			t.Errorf("friendlyShellName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
