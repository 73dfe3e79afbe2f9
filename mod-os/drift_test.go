package modos

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snapserv/db2check/db2check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/alecthomas/kingpin.v2"
)

func newDriftTestPlugin(t *testing.T, stateDirectory string, trackedFile string, extraArgs ...string) *driftPlugin {
	plugin := newDriftPlugin()

	app := kingpin.New("db2check", "test")
	command := app.Command(plugin.Name(), "test")
	db2check.DefinePluginFlags(command, plugin)

	args := []string{plugin.Name(), "-i", stateDirectory, "-D", stateDirectory, "-f", trackedFile}
	_, err := app.Parse(append(args, extraArgs...))
	require.NoError(t, err)

	return plugin
}

func newTestContext(plugin db2check.Plugin) *db2check.CheckContext {
	return &db2check.CheckContext{
		Log:         db2check.NewTraceLogger(plugin.Name(), 0, false),
		Checkpoints: db2check.NewCheckpointStore(plugin.StateDirectory()),
		Now:         time.Now(),
	}
}

func writeTrackedFile(t *testing.T, path string, contents string) {
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))
}

func TestDriftProbeFirstRun(t *testing.T) {
	stateDirectory := t.TempDir()
	trackedFile := filepath.Join(t.TempDir(), "sysctl.conf")
	writeTrackedFile(t, trackedFile, "vm.swappiness = 5\n")

	plugin := newDriftTestPlugin(t, stateDirectory, trackedFile)
	report, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)

	assert.Equal(t, db2check.StatusOK, report.Status)
	assert.Equal(t, db2check.FirstRunSummary, report.Summary)
	require.Len(t, report.Perf, 1)
	assert.Equal(t, "'Changes'=0;1;5", report.Perf[0].String())

	// The first execution establishes the baseline snapshot
	store, err := OpenSnapshotStore(filepath.Join(stateDirectory, db2check.SanitizeKey("osconfig", plugin.InstanceName())))
	require.NoError(t, err)
	assert.True(t, store.HasBaseline())
}

func TestDriftProbeFirstRunPreserve(t *testing.T) {
	stateDirectory := t.TempDir()
	trackedFile := filepath.Join(t.TempDir(), "sysctl.conf")
	writeTrackedFile(t, trackedFile, "vm.swappiness = 5\n")

	plugin := newDriftTestPlugin(t, stateDirectory, trackedFile, "-R")
	report, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)
	assert.Equal(t, db2check.StatusOK, report.Status)

	store, err := OpenSnapshotStore(filepath.Join(stateDirectory, db2check.SanitizeKey("osconfig", plugin.InstanceName())))
	require.NoError(t, err)
	assert.False(t, store.HasBaseline())
}

func TestDriftProbeDetectsChange(t *testing.T) {
	stateDirectory := t.TempDir()
	trackedFile := filepath.Join(t.TempDir(), "sysctl.conf")
	writeTrackedFile(t, trackedFile, "vm.swappiness = 5\n")

	plugin := newDriftTestPlugin(t, stateDirectory, trackedFile)
	_, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)

	writeTrackedFile(t, trackedFile, "vm.swappiness = 60\n")

	plugin = newDriftTestPlugin(t, stateDirectory, trackedFile)
	report, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)

	assert.Equal(t, db2check.StatusWarning, report.Status)
	assert.Equal(t, "1 configuration file changed", report.Summary)
	require.Len(t, report.Perf, 1)
	assert.Equal(t, "'Changes'=1;1;5", report.Perf[0].String())
	assert.Equal(t, []string{trackedFile}, report.LongText)

	// A further execution without modifications compares against the updated snapshot
	plugin = newDriftTestPlugin(t, stateDirectory, trackedFile)
	report, err = plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)
	assert.Equal(t, db2check.StatusOK, report.Status)
	assert.Equal(t, "no configuration changes", report.Summary)
}

func TestDriftProbePreserveKeepsBaseline(t *testing.T) {
	stateDirectory := t.TempDir()
	trackedFile := filepath.Join(t.TempDir(), "sysctl.conf")
	writeTrackedFile(t, trackedFile, "vm.swappiness = 5\n")

	plugin := newDriftTestPlugin(t, stateDirectory, trackedFile)
	_, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)

	writeTrackedFile(t, trackedFile, "vm.swappiness = 60\n")

	// Preserving still classifies against the baseline, without advancing it
	plugin = newDriftTestPlugin(t, stateDirectory, trackedFile, "-R")
	report, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)
	assert.Equal(t, db2check.StatusWarning, report.Status)

	plugin = newDriftTestPlugin(t, stateDirectory, trackedFile)
	report, err = plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)
	assert.Equal(t, db2check.StatusWarning, report.Status)
	assert.Equal(t, "1 configuration file changed", report.Summary)
}

func TestDriftProbeMissingTrackedFile(t *testing.T) {
	stateDirectory := t.TempDir()
	trackedFile := filepath.Join(t.TempDir(), "sysctl.conf")
	writeTrackedFile(t, trackedFile, "vm.swappiness = 5\n")

	plugin := newDriftTestPlugin(t, stateDirectory, trackedFile)
	_, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)

	// Removing a tracked file counts as a configuration change
	require.NoError(t, os.Remove(trackedFile))

	plugin = newDriftTestPlugin(t, stateDirectory, trackedFile)
	report, err := plugin.Probe(newTestContext(plugin))
	require.NoError(t, err)
	assert.Equal(t, db2check.StatusWarning, report.Status)
	assert.Equal(t, "1 configuration file changed", report.Summary)
}
