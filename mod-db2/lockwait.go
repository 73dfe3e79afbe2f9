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

package moddb2

import (
	"fmt"
	"strconv"

	"github.com/snapserv/db2check/db2check"
)

const (
	lockWaitCountQuery = "SELECT COUNT(*) FROM SYSIBMADM.MON_LOCKWAITS"
	lockWaitTimesQuery = "SELECT COALESCE(SUM(LOCK_WAIT_ELAPSED_TIME), 0), COALESCE(MAX(LOCK_WAIT_ELAPSED_TIME), 0) " +
		"FROM SYSIBMADM.MON_LOCKWAITS"
	lockWaitDetailQuery = "SELECT REQ_APPLICATION_HANDLE, HLD_APPLICATION_HANDLE, LOCK_OBJECT_TYPE, " +
		"LOCK_WAIT_ELAPSED_TIME FROM SYSIBMADM.MON_LOCKWAITS ORDER BY LOCK_WAIT_ELAPSED_TIME DESC " +
		"FETCH FIRST 5 ROWS ONLY"
)

type lockwaitPlugin struct {
	db2check.Plugin

	database   string
	newSession func(instanceHome string, database string) (Session, error)
}

func newLockwaitPlugin() *lockwaitPlugin {
	return &lockwaitPlugin{
		Plugin: db2check.NewPlugin("lockwait",
			db2check.PluginDescription("Lock Waits"),
			db2check.PluginDefaultThresholds(5, 20),
		),
		newSession: NewCLPSession,
	}
}

func (p *lockwaitPlugin) DefineFlags(node db2check.KingpinNode) {
	node.Flag("database", "Name of the database to monitor.").
		Short('d').Required().StringVar(&p.database)
}

func (p *lockwaitPlugin) Probe(check *db2check.CheckContext) (db2check.Report, error) {
	session, err := p.newSession(p.InstanceHome(), p.database)
	if err != nil {
		return db2check.Report{}, err
	}
	defer session.Close()

	count64, err := QueryValue(session, lockWaitCountQuery)
	if err != nil {
		return db2check.Report{}, err
	}

	count := int(count64)
	threshold := p.Threshold()

	summary := "no lock waits"
	if count == 1 {
		summary = "1 lock wait"
	} else if count > 1 {
		summary = fmt.Sprintf("%d lock waits", count)
	}

	options := []db2check.ReportOpt{
		db2check.ReportPerf(db2check.PerfData{Label: "LockWaits", Value: count64, Threshold: &threshold}),
	}

	if count > 0 {
		details, err := p.collectDetails(session)
		if err != nil {
			return db2check.Report{}, err
		}
		options = append(options, db2check.ReportLongText(details...))
	}

	if p.ExtraMetrics() {
		row, err := QueryRow(session, lockWaitTimesQuery)
		if err != nil {
			return db2check.Report{}, fmt.Errorf("could not collect lock wait times: %s", err.Error())
		}
		if len(row) < 2 {
			return db2check.Report{}, fmt.Errorf("could not collect lock wait times: expected 2 columns, got %d", len(row))
		}

		totalWait, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return db2check.Report{}, fmt.Errorf("could not parse total lock wait time [%s]: %s", row[0], err.Error())
		}
		maxWait, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return db2check.Report{}, fmt.Errorf("could not parse maximum lock wait time [%s]: %s", row[1], err.Error())
		}

		options = append(options, db2check.ReportLongPerf(
			db2check.PerfData{Label: "TotalWaitTime", Value: totalWait, UOM: "s"},
			db2check.PerfData{Label: "MaxWaitTime", Value: maxWait, UOM: "s"},
		))
	}

	return db2check.NewReport(threshold.Classify(count), summary, options...), nil
}

func (p *lockwaitPlugin) collectDetails(session Session) ([]string, error) {
	output, err := session.Execute(lockWaitDetailQuery)
	if err != nil {
		return nil, err
	}

	_, rows, err := parseTable(output)
	if err != nil {
		return nil, err
	}

	details := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		details = append(details, fmt.Sprintf("agent %s waits on agent %s (%s, %ss)", row[0], row[1], row[2], row[3]))
	}

	return details, nil
}
