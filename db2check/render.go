/*
 * db2check - Reliable and lightweight Nagios plugins for IBM DB2 written in Go
 * Copyright (C) 2019-2021  Pascal Mathis
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package db2check

import (
	"fmt"
	"strings"
)

// OutputFormat represents one of the two mutually exclusive output encodings of a report.
type OutputFormat int

// These constants represent an 'Enum' for all available output formats.
const (
	// FormatStandard renders the classic two-line Nagios plugin output.
	FormatStandard OutputFormat = iota
	// FormatCheckMK renders a single tabular line as consumed by Check_MK local checks.
	FormatCheckMK
)

// checkMKPlaceholder is emitted in the perfdata column of the Check_MK format when no metrics exist, as the column
// itself is positional and must never be empty.
const checkMKPlaceholder = "-"

// RenderReport encodes a report into its textual representation. The standard format consists of two lines, each
// of them containing text and perfdata separated by a pipe symbol; the second line stays empty when no long output
// exists. The Check_MK format is a single line of the form "<status-code> <check-name> <perfdata> <summary>".
func RenderReport(report Report, format OutputFormat, checkName string) string {
	summary := report.Summary
	if summary == "" {
		summary = fallbackSummary
	}

	if format == FormatCheckMK {
		perf := renderPerf(append(report.Perf, report.LongPerf...), "|")
		if perf == "" {
			perf = checkMKPlaceholder
		}

		return fmt.Sprintf("%d %s %s %s\n", report.Status.ExitCode(), checkName, perf, summary)
	}

	firstLine := summary
	if perf := renderPerf(report.Perf, " "); perf != "" {
		firstLine += "|" + perf
	}

	secondLine := strings.Join(report.LongText, " - ")
	if perf := renderPerf(report.LongPerf, " "); perf != "" {
		secondLine += "|" + perf
	}

	return firstLine + "\n" + secondLine + "\n"
}

func renderPerf(perf []PerfData, separator string) string {
	tokens := make([]string, 0, len(perf))
	for _, item := range perf {
		tokens = append(tokens, item.String())
	}

	return strings.Join(tokens, separator)
}
