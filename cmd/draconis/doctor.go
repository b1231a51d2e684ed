// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pupbrained/draconisplusplus-sub000/internal/system"
)

var (
	doctorSummaryStyle = lipgloss.NewStyle().Bold(true)
	doctorReadoutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	doctorCodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// printDoctorReport writes the per-readout failure report. Styling only
// decorates; the wording is identical either way, and the exit code is 0
// even when every readout failed.
func printDoctorReport(w io.Writer, info *system.Info, styled bool) {
	failures := info.Failures()

	plural := "s"
	if len(failures) == 1 {
		plural = ""
	}

	summary := fmt.Sprintf("We've collected a total of %d readouts including %d failed read%s.",
		info.ReadoutCount(), len(failures), plural)
	if styled {
		summary = doctorSummaryStyle.Render(summary)
	}
	fmt.Fprintf(w, "%s\n\n", summary)

	for _, failure := range failures {
		readout := failure.Readout
		code := failure.Err.Code.String()
		if styled {
			readout = doctorReadoutStyle.Render(readout)
			code = doctorCodeStyle.Render(code)
		}
		fmt.Fprintf(w, "Readout \"%s\" failed: %s (code: %s)\n", readout, failure.Err.Message, code)
	}
}
