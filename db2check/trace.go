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
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
)

// TraceLogPath is the fixed location which '--trace' appends timestamped trace entries to.
const TraceLogPath = "/tmp/db2check-trace.log"

// NewTraceLogger builds the per-invocation logger of a plugin. Without '--trace' all output is discarded; otherwise
// entries are appended to the fixed trace log path. The repeatable '--verbose' flag raises the log level.
func NewTraceLogger(pluginName string, verbosity int, traceEnabled bool) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	switch {
	case verbosity >= 2:
		logger.SetLevel(logrus.TraceLevel)
	case verbosity == 1:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if traceEnabled {
		file, err := os.OpenFile(TraceLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			logger.SetOutput(file)
		}
	}

	return logger.WithField("plugin", pluginName)
}
