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
	"time"
)

// FirstRunSummary is reported whenever a delta check runs without a pre-existing baseline to compare against.
const FirstRunSummary = "first execution, nothing to compare"

// DeltaProbeFunc obtains the measurement accumulated since the given baseline timestamp, returning the integer delta
// and optional detail lines for the long output.
type DeltaProbeFunc func(since time.Time) (int, []string, error)

// RunDeltaCheck implements the checkpoint-delta pattern shared by all history-based checks. The first invocation for
// a (check, instance) pair creates the checkpoint and reports OK without alerting, as no baseline exists yet. All
// subsequent invocations probe the delta since the baseline, classify it against the plugin threshold and move the
// checkpoint forward to the current invocation time - unless checkpoint preservation was requested, in which case
// classification still happens against the stale baseline but persisted state stays untouched. A failed probe never
// mutates the checkpoint.
func RunDeltaCheck(check *CheckContext, plugin Plugin, perfLabel string, describe func(delta int) string, probe DeltaProbeFunc) (Report, error) {
	threshold := plugin.Threshold()

	checkpoint, exists, err := check.Checkpoints.Load(plugin.Name(), plugin.InstanceName())
	if err != nil {
		return Report{}, err
	}

	if !exists {
		check.Log.Debug("no checkpoint found, treating invocation as first execution")
		if !plugin.PreserveCheckpoint() {
			if err := check.Checkpoints.Save(plugin.Name(), plugin.InstanceName(), Checkpoint{Timestamp: check.Now}); err != nil {
				return Report{}, err
			}
		}

		return NewReport(StatusOK, FirstRunSummary,
			ReportPerf(PerfData{Label: perfLabel, Value: 0, Threshold: &threshold}),
		), nil
	}

	check.Log.Debugf("probing delta since baseline [%s]", checkpoint.Timestamp)
	delta, details, err := probe(checkpoint.Timestamp)
	if err != nil {
		return Report{}, err
	}

	if !plugin.PreserveCheckpoint() {
		if err := check.Checkpoints.Save(plugin.Name(), plugin.InstanceName(), Checkpoint{Timestamp: check.Now}); err != nil {
			return Report{}, err
		}
	}

	return NewReport(threshold.Classify(delta), describe(delta),
		ReportPerf(PerfData{Label: perfLabel, Value: int64(delta), Threshold: &threshold}),
		ReportLongText(details...),
	), nil
}
