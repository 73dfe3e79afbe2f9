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
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/goexpect"
)

const sessionTimeout = 30 * time.Second

var clpPromptPattern = regexp.MustCompile(`db2 => $`)

// Session represents a generic interface for running SQL statements against a DB2 database.
type Session interface {
	Execute(statement string) (string, error)
	Close() error
}

// clpSession is a lightweight wrapper around goexpect and an interactive DB2 command line processor, which keeps the
// database connection alive across statements. The CLP is stateful per backend process, so all statements of one
// check invocation must run within the same session.
type clpSession struct {
	expecter expect.Expecter
}

// NewCLPSession spawns the command line processor of the given instance home in interactive mode and connects to the
// given database. All interactions run under a hard timeout, as the monitored database may legitimately hang.
func NewCLPSession(instanceHome string, database string) (Session, error) {
	binary := filepath.Join(instanceHome, "sqllib", "bin", "db2")
	expecter, _, err := expect.Spawn(binary+" -t", sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("clp: could not spawn command line processor [%s]: %s", binary, err.Error())
	}

	session := &clpSession{expecter: expecter}
	if _, _, err := expecter.Expect(clpPromptPattern, sessionTimeout); err != nil {
		_ = expecter.Close()
		return nil, fmt.Errorf("clp: did not receive initial prompt: %s", err.Error())
	}

	output, err := session.Execute("CONNECT TO " + database)
	if err != nil {
		_ = expecter.Close()
		return nil, err
	}
	if !strings.Contains(output, "Database Connection Information") {
		_ = expecter.Close()
		return nil, fmt.Errorf("clp: could not connect to database [%s]: %s", database, firstLine(output))
	}

	return session, nil
}

// Execute runs a single statement within the session and returns all output up to the next prompt. Please note that
// SQL errors are not being handled, only session/transmission errors. It is the callers duty to manually parse the
// output according to the DB2 CLP format.
func (s *clpSession) Execute(statement string) (string, error) {
	result, err := s.expecter.ExpectBatch([]expect.Batcher{
		&expect.BSnd{S: statement + ";\n"},
		&expect.BExp{R: `([\s\S]*?)\r?\ndb2 => $`},
	}, sessionTimeout)
	if err != nil {
		return "", fmt.Errorf("clp: statement execution failed: %s", err.Error())
	}

	return strings.TrimSpace(result[0].Match[1]), nil
}

// Close terminates the CLP backend process and the expect session.
func (s *clpSession) Close() error {
	_, _ = s.Execute("TERMINATE")
	return s.expecter.Close()
}

var dashLinePattern = regexp.MustCompile(`^[- ]*-[- ]*$`)

// parseTable splits DB2 CLP tabular output into column names and rows. Column boundaries are derived from the dash
// groups of the header separator line, as the CLP pads all cells to fixed positions.
func parseTable(output string) ([]string, [][]string, error) {
	lines := strings.Split(strings.Replace(output, "\r\n", "\n", -1), "\n")

	separatorIndex := -1
	for index, line := range lines {
		if index > 0 && dashLinePattern.MatchString(strings.TrimRight(line, " ")) {
			separatorIndex = index
			break
		}
	}
	if separatorIndex < 1 {
		return nil, nil, fmt.Errorf("clp: no tabular output found in [%s]", firstLine(output))
	}

	spans := dashSpans(lines[separatorIndex])
	columns := make([]string, 0, len(spans))
	for _, span := range spans {
		columns = append(columns, cell(lines[separatorIndex-1], span[0], span[1]))
	}

	var rows [][]string
	for _, line := range lines[separatorIndex+1:] {
		if strings.TrimSpace(line) == "" {
			break
		}

		row := make([]string, 0, len(spans))
		for _, span := range spans {
			row = append(row, cell(line, span[0], span[1]))
		}
		rows = append(rows, row)
	}

	return columns, rows, nil
}

func dashSpans(separator string) [][2]int {
	var spans [][2]int
	start := -1
	for index, char := range separator {
		if char == '-' && start == -1 {
			start = index
		}
		if char != '-' && start != -1 {
			spans = append(spans, [2]int{start, index})
			start = -1
		}
	}
	if start != -1 {
		spans = append(spans, [2]int{start, len(separator)})
	}

	return spans
}

func cell(line string, start int, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}

	return strings.TrimSpace(line[start:end])
}

func firstLine(output string) string {
	return strings.TrimSpace(strings.SplitN(strings.TrimSpace(output), "\n", 2)[0])
}

// QueryValue runs a statement which is expected to return a single numeric value, such as a COUNT(*) aggregate.
func QueryValue(session Session, statement string) (int64, error) {
	row, err := QueryRow(session, statement)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("clp: could not parse value [%s]: %s", row[0], err.Error())
	}

	return value, nil
}

// QueryRow runs a statement which is expected to return at least one row and returns the first one.
func QueryRow(session Session, statement string) ([]string, error) {
	output, err := session.Execute(statement)
	if err != nil {
		return nil, err
	}

	_, rows, err := parseTable(output)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("clp: statement returned no rows")
	}

	return rows[0], nil
}
