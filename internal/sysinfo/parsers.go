// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
)

// The parsers below are platform-neutral so they stay testable everywhere;
// the per-GOOS adapter files feed them the real file contents.

// parseOSRelease extracts the display name from os-release content:
// PRETTY_NAME when present, else NAME + VERSION.
func parseOSRelease(r io.Reader) (string, *dracerr.Error) {
	fields := map[string]string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}
	if err := scanner.Err(); err != nil {
		return "", dracerr.FromSysf(err, "reading os-release")
	}

	if pretty := fields["PRETTY_NAME"]; pretty != "" {
		return pretty, nil
	}
	if name := fields["NAME"]; name != "" {
		if version := fields["VERSION"]; version != "" {
			return name + " " + version, nil
		}
		return name, nil
	}

	return "", dracerr.New(dracerr.ParseError, "os-release has no PRETTY_NAME or NAME")
}

// parseMemInfo reads /proc/meminfo content and computes used = total −
// MemAvailable. Values in the file are kibibytes.
func parseMemInfo(r io.Reader) (ResourceUsage, *dracerr.Error) {
	var totalKiB, availKiB uint64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			totalKiB = memInfoValue(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			availKiB = memInfoValue(line)
		}
		if totalKiB != 0 && availKiB != 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return ResourceUsage{}, dracerr.FromSysf(err, "reading meminfo")
	}

	if totalKiB == 0 {
		return ResourceUsage{}, dracerr.New(dracerr.ParseError, "meminfo has no MemTotal")
	}
	if availKiB > totalKiB {
		return ResourceUsage{}, dracerr.New(dracerr.ParseError, "meminfo reports more available than total memory")
	}

	return ResourceUsage{
		UsedBytes:  (totalKiB - availKiB) * 1024,
		TotalBytes: totalKiB * 1024,
	}, nil
}

func memInfoValue(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCPUInfo extracts the brand string and core counts from /proc/cpuinfo
// content. Physical cores are unique (physical id, core id) pairs; when the
// topology fields are absent (common on ARM) physical falls back to logical.
func parseCPUInfo(r io.Reader) (model string, cores CPUCores, err *dracerr.Error) {
	type coreKey struct{ pkg, core string }

	var (
		logical  uint32
		physical = map[coreKey]struct{}{}
		curPkg   string
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "processor":
			logical++
		case "model name":
			if model == "" {
				model = value
			}
		case "physical id":
			curPkg = value
		case "core id":
			physical[coreKey{curPkg, value}] = struct{}{}
		}
	}
	if serr := scanner.Err(); serr != nil {
		return "", CPUCores{}, dracerr.FromSysf(serr, "reading cpuinfo")
	}

	if logical == 0 {
		return "", CPUCores{}, dracerr.New(dracerr.ParseError, "cpuinfo has no processor entries")
	}

	cores = CPUCores{Physical: uint32(len(physical)), Logical: logical}
	if cores.Physical == 0 {
		cores.Physical = cores.Logical
	}
	return model, cores, nil
}

// lookupPCIName resolves a vendor/device id pair against pci.ids content.
// The database format is: vendor lines at column zero, device lines
// indented by one tab underneath their vendor.
func lookupPCIName(r io.Reader, vendorID, deviceID string) (vendor, device string) {
	vendorID = strings.ToLower(vendorID)
	deviceID = strings.ToLower(deviceID)

	inVendor := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.HasPrefix(line, "\t") {
			if vendor != "" {
				// Left the matched vendor block without a device hit.
				return vendor, ""
			}
			if strings.HasPrefix(strings.ToLower(line), vendorID+"  ") {
				vendor = strings.TrimSpace(line[len(vendorID):])
				inVendor = true
			} else {
				inVendor = false
			}
			continue
		}

		if !inVendor || strings.HasPrefix(line, "\t\t") {
			continue
		}

		entry := strings.TrimPrefix(line, "\t")
		if strings.HasPrefix(strings.ToLower(entry), deviceID+"  ") {
			return vendor, strings.TrimSpace(entry[len(deviceID):])
		}
	}

	return vendor, ""
}
