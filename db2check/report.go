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

import "fmt"

// fallbackSummary is being used whenever a plugin produced no output at all, as the textual summary of a report must
// never be empty.
const fallbackSummary = "test was not executed"

// PerfData represents a single performance metric of a report, rendered as a Nagios-compatible perfdata token.
type PerfData struct {
	Label     string
	Value     int64
	UOM       string
	Threshold *Threshold
}

func (p PerfData) String() string {
	token := fmt.Sprintf("'%s'=%d%s", p.Label, p.Value, p.UOM)
	if p.Threshold != nil {
		token += fmt.Sprintf(";%d;%d", p.Threshold.Warning, p.Threshold.Critical)
	}

	return token
}

// Report represents the complete outcome of a single check invocation: a classification status, a short summary line,
// performance metrics and optional long-text details with their own metrics.
type Report struct {
	Status   Status
	Summary  string
	Perf     []PerfData
	LongText []string
	LongPerf []PerfData
}

// ReportOpt is a type alias for functional options used by NewReport()
type ReportOpt func(*Report)

// NewReport instantiates a new Report with the given status, summary and functional options.
func NewReport(status Status, summary string, options ...ReportOpt) Report {
	report := Report{
		Status:  status,
		Summary: summary,
	}

	for _, option := range options {
		option(&report)
	}

	return report
}

// ReportPerf is a functional option for NewReport(), which appends performance metrics to the report.
func ReportPerf(perf ...PerfData) ReportOpt {
	return func(r *Report) {
		r.Perf = append(r.Perf, perf...)
	}
}

// ReportLongText is a functional option for NewReport(), which appends long-text detail lines to the report.
func ReportLongText(lines ...string) ReportOpt {
	return func(r *Report) {
		r.LongText = append(r.LongText, lines...)
	}
}

// ReportLongPerf is a functional option for NewReport(), which appends long-output performance metrics to the report.
func ReportLongPerf(perf ...PerfData) ReportOpt {
	return func(r *Report) {
		r.LongPerf = append(r.LongPerf, perf...)
	}
}

// UnknownReport is a helper method for instantiating an UNKNOWN report from an error, which is the terminal state for
// all usage, environment and locking failures.
func UnknownReport(err error) Report {
	return NewReport(StatusUnknown, err.Error())
}
