// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sysinfo

import (
	"path/filepath"
	"strings"
)

// shellNames maps shell binaries to their display names.
var shellNames = map[string]string{
	"bash":       "Bash",
	"zsh":        "Zsh",
	"fish":       "Fish",
	"nu":         "Nushell",
	"sh":         "SH",
	"dash":       "Dash",
	"ksh":        "KornShell",
	"tcsh":       "Tcsh",
	"csh":        "Csh",
	"elvish":     "Elvish",
	"xonsh":      "Xonsh",
	"oil":        "Oil",
	"cmd":        "Command Prompt",
	"powershell": "PowerShell",
	"pwsh":       "PowerShell Core",
	"wt":         "Windows Terminal",
	"explorer":   "Explorer",
}

// friendlyShellName turns a shell path or binary name into a display name.
// Unknown shells keep their basename with the first letter upcased.
func friendlyShellName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".exe")
	if base == "." || base == string(filepath.Separator) || base == "" {
		return ""
	}

	if name, ok := shellNames[strings.ToLower(base)]; ok {
		return name
	}
	return strings.ToUpper(base[:1]) + base[1:]
}
