// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package version holds the build version, overridable at link time:
//
//	go build -ldflags "-X .../internal/version.Version=1.2.3"
package version

// Version is the semantic version of this build.
var Version = "0.1.0"
