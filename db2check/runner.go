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
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// CheckContext carries the per-invocation collaborators handed to a plugin probe: the trace logger, the checkpoint
// store rooted at the configured state directory and the invocation timestamp used for new checkpoints.
type CheckContext struct {
	Log         *logrus.Entry
	Checkpoints *CheckpointStore
	Now         time.Time
}

// Runtime drives a plugin through the check lifecycle: validation, single-instance locking, probing, rendering and
// process termination. Output, exiter, argument vector and lock behaviour are injectable to keep the lifecycle
// testable without terminating the test process.
type Runtime struct {
	out           io.Writer
	exit          func(code int)
	args          []string
	lockDirectory string
	lockOptions   []InstanceLockOpt
}

// RuntimeOpt is a type alias for functional options used by NewRuntime()
type RuntimeOpt func(*Runtime)

// NewRuntime instantiates a new Runtime with the given functional options
func NewRuntime(options ...RuntimeOpt) *Runtime {
	runtime := &Runtime{
		out:           os.Stdout,
		exit:          os.Exit,
		args:          os.Args[1:],
		lockDirectory: DefaultLockDirectory,
	}

	for _, option := range options {
		option(runtime)
	}

	return runtime
}

// RuntimeOutput is a functional option for NewRuntime(), which overrides the report output writer
func RuntimeOutput(out io.Writer) RuntimeOpt {
	return func(r *Runtime) {
		r.out = out
	}
}

// RuntimeExiter is a functional option for NewRuntime(), which overrides the process termination function
func RuntimeExiter(exit func(code int)) RuntimeOpt {
	return func(r *Runtime) {
		r.exit = exit
	}
}

// RuntimeArgs is a functional option for NewRuntime(), which overrides the argument vector keying the instance lock
func RuntimeArgs(args []string) RuntimeOpt {
	return func(r *Runtime) {
		r.args = args
	}
}

// RuntimeLockDirectory is a functional option for NewRuntime(), which overrides the lock artifact directory
func RuntimeLockDirectory(directory string) RuntimeOpt {
	return func(r *Runtime) {
		r.lockDirectory = directory
	}
}

// RuntimeLockOptions is a functional option for NewRuntime(), which passes options to the instance lock
func RuntimeLockOptions(options ...InstanceLockOpt) RuntimeOpt {
	return func(r *Runtime) {
		r.lockOptions = append(r.lockOptions, options...)
	}
}

// Execute drives a plugin through the full check lifecycle and returns its terminal report. Validation and lock
// failures short-circuit into an UNKNOWN report without any further side effects; the lock is released on all paths.
func (r *Runtime) Execute(plugin Plugin) Report {
	log := NewTraceLogger(plugin.Name(), plugin.VerboseLevel(), plugin.TraceEnabled())
	log.Info("starting check execution")

	if err := plugin.validate(); err != nil {
		log.Warnf("validation failed: %s", err.Error())
		return UnknownReport(err)
	}

	lock := NewInstanceLock(r.lockDirectory, r.args, r.lockOptions...)
	if err := lock.Acquire(); err != nil {
		log.Warnf("lock acquisition failed: %s", err.Error())
		return UnknownReport(err)
	}
	defer lock.Release()

	check := &CheckContext{
		Log:         log,
		Checkpoints: NewCheckpointStore(plugin.StateDirectory()),
		Now:         time.Now(),
	}

	report, err := plugin.Probe(check)
	if err != nil {
		log.Warnf("probe failed: %s", err.Error())
		return UnknownReport(err)
	}

	if report.Summary == "" {
		report.Summary = fallbackSummary
	}

	log.Infof("check finished with status [%s]", report.Status)
	return report
}

// ExecuteAndExit executes the given plugin, renders its report in the requested output format and terminates the
// process with the exit code matching the report status.
func (r *Runtime) ExecuteAndExit(plugin Plugin) {
	report := r.Execute(plugin)
	fmt.Fprint(r.out, RenderReport(report, plugin.OutputFormat(), checkName(plugin)))
	r.exit(report.Status.ExitCode())
}

func checkName(plugin Plugin) string {
	if module := plugin.Module(); module != nil {
		return module.Name() + "_" + plugin.Name()
	}

	return plugin.Name()
}
