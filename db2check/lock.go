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
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/theckman/go-flock"
)

// DefaultLockDirectory is the shared default location for instance lock artifacts.
const DefaultLockDirectory = "/tmp"

// ProcessProber abstracts the liveness check of a lock-owning process, so that stale-lock reclaiming stays testable
// without a real process table.
type ProcessProber interface {
	Alive(pid int32) bool
}

type gopsutilProber struct{}

func (gopsutilProber) Alive(pid int32) bool {
	alive, err := process.PidExists(pid)
	return err == nil && alive
}

// AlreadyRunningError is returned by InstanceLock.Acquire() when another live invocation with the same argument
// vector currently holds the lock artifact.
type AlreadyRunningError struct {
	PID int32
}

func (e AlreadyRunningError) Error() string {
	return fmt.Sprintf("check is already running with PID %d", e.PID)
}

// InstanceLock enforces mutual exclusion across separate invocations of the same check with the same arguments. The
// lock artifact is named after the sanitized argument vector and claimed with an atomic flock, recording the owning
// PID inside the artifact. Artifacts left behind by a dead owner are reclaimed after probing liveness.
type InstanceLock struct {
	fileLock *flock.Flock
	prober   ProcessProber

	retryTimeout time.Duration
	retryDelay   time.Duration
	acquired     bool
}

// InstanceLockOpt is a type alias for functional options used by NewInstanceLock()
type InstanceLockOpt func(*InstanceLock)

// NewInstanceLock instantiates a new InstanceLock keyed by the given argument vector.
func NewInstanceLock(directory string, args []string, options ...InstanceLockOpt) *InstanceLock {
	path := filepath.Join(directory, fmt.Sprintf(".db2check-%s.lock", SanitizeKey(args...)))
	lock := &InstanceLock{
		fileLock:   flock.NewFlock(path),
		prober:     gopsutilProber{},
		retryDelay: 100 * time.Millisecond,
	}

	for _, option := range options {
		option(lock)
	}

	return lock
}

// InstanceLockProber is a functional option for NewInstanceLock(), which overrides the process liveness prober.
func InstanceLockProber(prober ProcessProber) InstanceLockOpt {
	return func(l *InstanceLock) {
		l.prober = prober
	}
}

// InstanceLockRetry is a functional option for NewInstanceLock(), which enables a bounded wait on lock contention
// instead of the default fail-fast behaviour.
func InstanceLockRetry(timeout time.Duration) InstanceLockOpt {
	return func(l *InstanceLock) {
		l.retryTimeout = timeout
	}
}

// Acquire attempts to exclusively claim the lock artifact. When the artifact is held by a live process, an
// AlreadyRunningError is returned; an artifact owned by a dead process gets reclaimed instead.
func (l *InstanceLock) Acquire() error {
	if err := l.tryAcquire(); err == nil {
		return l.writeOwner()
	}

	if pid, err := l.readOwner(); err == nil && l.prober.Alive(pid) {
		return AlreadyRunningError{PID: pid}
	}

	// Owner is dead or unreadable, reclaim the stale artifact
	_ = os.Remove(l.fileLock.Path())
	if err := l.tryAcquire(); err != nil {
		return fmt.Errorf("could not obtain lock for [%s]: %s", l.fileLock.Path(), err.Error())
	}

	return l.writeOwner()
}

// Release unconditionally unlinks and unlocks the lock artifact. Calling Release without a previous successful
// Acquire is a no-op, which allows deferring it on all exit paths.
func (l *InstanceLock) Release() {
	if !l.acquired {
		return
	}

	l.acquired = false
	_ = syscall.Unlink(l.fileLock.Path())
	_ = l.fileLock.Unlock()
}

// Path returns the file system path of the lock artifact.
func (l *InstanceLock) Path() string {
	return l.fileLock.Path()
}

func (l *InstanceLock) tryAcquire() error {
	err := RetryDuring(l.retryTimeout, l.retryDelay, func() error {
		isLocked, err := l.fileLock.TryLock()
		if err != nil {
			return err
		}

		if !isLocked {
			return fmt.Errorf("could not obtain flock for [%s]", l.fileLock.Path())
		}

		return nil
	})

	if err == nil {
		l.acquired = true
	}

	return err
}

func (l *InstanceLock) writeOwner() error {
	if err := ioutil.WriteFile(l.fileLock.Path(), []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("could not record lock owner: %s", err.Error())
	}

	return nil
}

func (l *InstanceLock) readOwner() (int32, error) {
	contents, err := ioutil.ReadFile(l.fileLock.Path())
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		return 0, fmt.Errorf("could not parse lock owner [%s]: %s", string(contents), err.Error())
	}

	return int32(pid), nil
}
