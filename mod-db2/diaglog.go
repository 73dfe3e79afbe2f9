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
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/snapserv/db2check/db2check"
)

const (
	diagTimeout    = 30 * time.Second
	diagTimeFormat = "2006-01-02-15.04.05"
	diagLevels     = "Severe,Critical,Error,Warning"
)

// diagRecordPattern matches the header line of a single db2diag.log record, which carries the record timestamp and
// severity level at fixed keyword positions.
var diagRecordPattern = regexp.MustCompile(`(?m)^\d{4}-\d{2}-\d{2}-\d{2}\.\d{2}\.\d{2}\.\d+[+-]\d+\s+\S+\s+LEVEL:\s+(?P<level>\w+)`)

type diaglogPlugin struct {
	db2check.Plugin

	levels   string
	readDiag func(instanceHome string, levels string, since time.Time) (string, error)
}

func newDiaglogPlugin() *diaglogPlugin {
	return &diaglogPlugin{
		Plugin: db2check.NewPlugin("diaglog",
			db2check.PluginDescription("Diagnostic Log Growth"),
			db2check.PluginDefaultThresholds(10, 50),
		),
		readDiag: runDiagReader,
	}
}

func (p *diaglogPlugin) DefineFlags(node db2check.KingpinNode) {
	node.Flag("level", "Comma-separated list of severity levels to count.").
		Short('L').Default(diagLevels).StringVar(&p.levels)
}

func (p *diaglogPlugin) Probe(check *db2check.CheckContext) (db2check.Report, error) {
	describe := func(delta int) string {
		if delta == 0 {
			return "no new diagnostic messages"
		}

		return fmt.Sprintf("%d new diagnostic messages since last check", delta)
	}

	return db2check.RunDeltaCheck(check, p, "Messages", describe, func(since time.Time) (int, []string, error) {
		output, err := p.readDiag(p.InstanceHome(), p.levels, since)
		if err != nil {
			return 0, nil, err
		}

		total, byLevel := countDiagRecords(output)

		var details []string
		if p.ExtraMetrics() {
			levels := make([]string, 0, len(byLevel))
			for level := range byLevel {
				levels = append(levels, level)
			}
			sort.Strings(levels)

			for _, level := range levels {
				details = append(details, fmt.Sprintf("%s: %d", level, byLevel[level]))
			}
		}

		return total, details, nil
	})
}

// countDiagRecords counts db2diag record headers in the given reader output, both in total and per severity level.
func countDiagRecords(output string) (int, map[string]int) {
	headers := diagRecordPattern.FindAllString(output, -1)

	byLevel := make(map[string]int)
	for _, header := range headers {
		if fields, ok := db2check.RegexpSubMatchMap(diagRecordPattern, header); ok {
			byLevel[fields["level"]]++
		}
	}

	return len(headers), byLevel
}

// runDiagReader invokes the external db2diag reader of the given instance, filtered by time and severity level. The
// invocation runs under a kill timer, as the reader blocks on unreachable diagnostic paths.
func runDiagReader(instanceHome string, levels string, since time.Time) (string, error) {
	binary := filepath.Join(instanceHome, "sqllib", "bin", "db2diag")
	args := []string{"-readfile", "-level", levels}
	if !since.IsZero() {
		args = append(args, "-time", since.Format(diagTimeFormat))
	}

	cmd := exec.Command(binary, args...)
	timedOut := make(chan struct{})
	timer := time.AfterFunc(diagTimeout, func() {
		close(timedOut)
		_ = cmd.Process.Kill()
	})
	output, cmdErr := cmd.CombinedOutput()
	timer.Stop()

	select {
	case <-timedOut:
		return "", fmt.Errorf("db2diag execution timed out after %.0f seconds", diagTimeout.Seconds())
	default:
	}
	if cmdErr != nil {
		return "", fmt.Errorf("db2diag execution failed: %s", cmdErr.Error())
	}

	return string(output), nil
}
