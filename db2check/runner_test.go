package db2check

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerTestPlugin struct {
	*basePlugin

	report Report
	err    error
	probed bool
}

func (p *runnerTestPlugin) Probe(check *CheckContext) (Report, error) {
	p.probed = true
	return p.report, p.err
}

func newRunnerTestPlugin(t *testing.T) *runnerTestPlugin {
	return &runnerTestPlugin{
		basePlugin: &basePlugin{
			name:           "runnertest",
			warning:        5,
			critical:       10,
			instanceHome:   t.TempDir(),
			stateDirectory: t.TempDir(),
		},
	}
}

func newTestRuntime(t *testing.T, out *bytes.Buffer, exitCode *int) *Runtime {
	return NewRuntime(
		RuntimeOutput(out),
		RuntimeExiter(func(code int) { *exitCode = code }),
		RuntimeArgs([]string{"runnertest", "-i", "/home/db2inst1"}),
		RuntimeLockDirectory(t.TempDir()),
	)
}

func TestRuntimeExecuteSuccess(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	plugin := newRunnerTestPlugin(t)
	plugin.report = NewReport(StatusWarning, "7 new entries",
		ReportPerf(PerfData{Label: "Entries", Value: 7}),
	)

	newTestRuntime(t, &out, &exitCode).ExecuteAndExit(plugin)

	assert.True(t, plugin.probed)
	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "7 new entries|'Entries'=7\n\n", out.String())
}

func TestRuntimeExecuteInvalidThreshold(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	plugin := newRunnerTestPlugin(t)
	plugin.warning = 10
	plugin.critical = 10

	newTestRuntime(t, &out, &exitCode).ExecuteAndExit(plugin)

	assert.False(t, plugin.probed, "validation failure must short-circuit before probing")
	assert.Equal(t, 3, exitCode)
	assert.Contains(t, out.String(), "must be below critical threshold")
}

func TestRuntimeExecuteInvalidInstancePath(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	plugin := newRunnerTestPlugin(t)
	plugin.instanceHome = "/nonexistent/db2inst1"

	newTestRuntime(t, &out, &exitCode).ExecuteAndExit(plugin)

	assert.False(t, plugin.probed)
	assert.Equal(t, 3, exitCode)
	assert.Contains(t, out.String(), "invalid instance path")
}

func TestRuntimeExecuteProbeFailure(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	plugin := newRunnerTestPlugin(t)
	plugin.err = fmt.Errorf("clp: statement execution failed")

	newTestRuntime(t, &out, &exitCode).ExecuteAndExit(plugin)

	assert.Equal(t, 3, exitCode)
	assert.Contains(t, out.String(), "clp: statement execution failed")
}

func TestRuntimeExecuteFallbackSummary(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	plugin := newRunnerTestPlugin(t)
	newTestRuntime(t, &out, &exitCode).ExecuteAndExit(plugin)

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "test was not executed\n\n", out.String())
}

func TestRuntimeExecuteLockContention(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	lockDirectory := t.TempDir()
	args := []string{"runnertest", "-i", "/home/db2inst1"}

	holder := NewInstanceLock(lockDirectory, args)
	require.NoError(t, holder.Acquire())
	defer holder.Release()

	plugin := newRunnerTestPlugin(t)
	runtime := NewRuntime(
		RuntimeOutput(&out),
		RuntimeExiter(func(code int) { exitCode = code }),
		RuntimeArgs(args),
		RuntimeLockDirectory(lockDirectory),
	)
	runtime.ExecuteAndExit(plugin)

	assert.False(t, plugin.probed, "contended invocation must not probe")
	assert.Equal(t, 3, exitCode)
	assert.Contains(t, out.String(), "already running")
}

func TestRuntimeExecuteLockRetry(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	lockDirectory := t.TempDir()
	args := []string{"runnertest", "-i", "/home/db2inst1"}

	holder := NewInstanceLock(lockDirectory, args)
	require.NoError(t, holder.Acquire())

	go func() {
		time.Sleep(250 * time.Millisecond)
		holder.Release()
	}()

	plugin := newRunnerTestPlugin(t)
	runtime := NewRuntime(
		RuntimeOutput(&out),
		RuntimeExiter(func(code int) { exitCode = code }),
		RuntimeArgs(args),
		RuntimeLockDirectory(lockDirectory),
		RuntimeLockOptions(InstanceLockRetry(5*time.Second)),
	)
	runtime.ExecuteAndExit(plugin)

	assert.True(t, plugin.probed, "invocation must proceed once the lock holder releases")
	assert.Equal(t, 0, exitCode)
}

func TestRuntimeExecuteCheckMKFormat(t *testing.T) {
	var out bytes.Buffer
	exitCode := -1

	plugin := newRunnerTestPlugin(t)
	plugin.mkFormat = true
	plugin.report = NewReport(StatusOK, "OK",
		ReportPerf(PerfData{Label: "Changes", Value: 0}),
	)

	newTestRuntime(t, &out, &exitCode).ExecuteAndExit(plugin)

	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "0 runnertest 'Changes'=0 OK\n", out.String())
}
