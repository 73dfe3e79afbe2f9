package db2check

import (
	"io/ioutil"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	alive  bool
	probed []int32
}

func (p *fakeProber) Alive(pid int32) bool {
	p.probed = append(p.probed, pid)
	return p.alive
}

func TestInstanceLockAcquireRelease(t *testing.T) {
	directory := t.TempDir()
	lock := NewInstanceLock(directory, []string{"-i", "/home/db2inst1", "-w", "5"})

	require.NoError(t, lock.Acquire())

	// The artifact records the owning PID
	contents, err := ioutil.ReadFile(lock.Path())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(contents))

	lock.Release()
	_, err = os.Stat(lock.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestInstanceLockContention(t *testing.T) {
	directory := t.TempDir()
	args := []string{"-i", "/home/db2inst1"}

	first := NewInstanceLock(directory, args)
	require.NoError(t, first.Acquire())
	defer first.Release()

	prober := &fakeProber{alive: true}
	second := NewInstanceLock(directory, args, InstanceLockProber(prober))

	err := second.Acquire()
	require.Error(t, err)

	alreadyRunning, ok := err.(AlreadyRunningError)
	require.True(t, ok, "expected AlreadyRunningError, got %T", err)
	assert.Equal(t, int32(os.Getpid()), alreadyRunning.PID)
	assert.NotEmpty(t, prober.probed)
}

func TestInstanceLockDistinctArguments(t *testing.T) {
	directory := t.TempDir()

	first := NewInstanceLock(directory, []string{"-i", "/home/db2inst1"})
	require.NoError(t, first.Acquire())
	defer first.Release()

	// A different argument vector yields a different artifact and must not contend
	second := NewInstanceLock(directory, []string{"-i", "/home/db2inst2"})
	require.NoError(t, second.Acquire())
	second.Release()
}

func TestInstanceLockReclaimsStaleArtifact(t *testing.T) {
	directory := t.TempDir()
	args := []string{"-i", "/home/db2inst1"}

	// Simulate an artifact left behind by a dead owner which never held a flock
	stale := NewInstanceLock(directory, args)
	require.NoError(t, ioutil.WriteFile(stale.Path(), []byte("999999"), 0644))

	prober := &fakeProber{alive: false}
	lock := NewInstanceLock(directory, args, InstanceLockProber(prober))
	require.NoError(t, lock.Acquire())
	lock.Release()
}

func TestInstanceLockDeadProberStillContended(t *testing.T) {
	directory := t.TempDir()
	args := []string{"-i", "/home/db2inst1"}

	first := NewInstanceLock(directory, args)
	require.NoError(t, first.Acquire())
	defer first.Release()

	// Prober claims the owner is dead, but the flock is still actively held
	prober := &fakeProber{alive: false}
	second := NewInstanceLock(directory, args, InstanceLockProber(prober))

	err := second.Acquire()
	require.Error(t, err)
	_, ok := err.(AlreadyRunningError)
	assert.False(t, ok)
}

func TestInstanceLockRetryWaitsForRelease(t *testing.T) {
	directory := t.TempDir()
	args := []string{"-i", "/home/db2inst1"}

	first := NewInstanceLock(directory, args)
	require.NoError(t, first.Acquire())

	go func() {
		time.Sleep(250 * time.Millisecond)
		first.Release()
	}()

	second := NewInstanceLock(directory, args, InstanceLockRetry(5*time.Second))
	require.NoError(t, second.Acquire())
	second.Release()
}

func TestInstanceLockReleaseWithoutAcquire(t *testing.T) {
	lock := NewInstanceLock(t.TempDir(), []string{"-i", "/home/db2inst1"})
	lock.Release()
}
