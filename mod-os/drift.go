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

package modos

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/snapserv/db2check/db2check"
)

var defaultTrackedFiles = []string{
	"/etc/services",
	"/etc/sysctl.conf",
	"/etc/security/limits.conf",
}

type driftPlugin struct {
	db2check.Plugin

	files []string
}

func newDriftPlugin() *driftPlugin {
	return &driftPlugin{
		Plugin: db2check.NewPlugin("drift",
			db2check.PluginDescription("OS Configuration Drift"),
			db2check.PluginDefaultThresholds(1, 5),
		),
	}
}

func (p *driftPlugin) DefineFlags(node db2check.KingpinNode) {
	node.Flag("file", "Tracked configuration file, can be repeated.").
		Short('f').Default(defaultTrackedFiles...).StringsVar(&p.files)
}

func (p *driftPlugin) Probe(check *db2check.CheckContext) (db2check.Report, error) {
	storeDirectory := filepath.Join(p.StateDirectory(), db2check.SanitizeKey("osconfig", p.InstanceName()))
	store, err := OpenSnapshotStore(storeDirectory)
	if err != nil {
		return db2check.Report{}, err
	}

	threshold := p.Threshold()

	if !store.HasBaseline() {
		check.Log.Debug("no snapshot baseline found, treating invocation as first execution")
		if !p.PreserveCheckpoint() {
			if _, err := store.Record(p.files); err != nil {
				return db2check.Report{}, err
			}
			if err := store.Commit("baseline snapshot", check.Now); err != nil {
				return db2check.Report{}, err
			}
		}

		return db2check.NewReport(db2check.StatusOK, db2check.FirstRunSummary,
			db2check.ReportPerf(db2check.PerfData{Label: "Changes", Value: 0, Threshold: &threshold}),
		), nil
	}

	changed, err := store.Record(p.files)
	if err != nil {
		return db2check.Report{}, err
	}

	if p.PreserveCheckpoint() {
		if err := store.Reset(); err != nil {
			return db2check.Report{}, err
		}
	} else if len(changed) > 0 {
		message := fmt.Sprintf("snapshot at %s", check.Now.Format(time.RFC3339))
		if err := store.Commit(message, check.Now); err != nil {
			return db2check.Report{}, err
		}
	}

	summary := "no configuration changes"
	if len(changed) == 1 {
		summary = "1 configuration file changed"
	} else if len(changed) > 1 {
		summary = fmt.Sprintf("%d configuration files changed", len(changed))
	}

	return db2check.NewReport(threshold.Classify(len(changed)), summary,
		db2check.ReportPerf(db2check.PerfData{Label: "Changes", Value: int64(len(changed)), Threshold: &threshold}),
		db2check.ReportLongText(changed...),
	), nil
}
