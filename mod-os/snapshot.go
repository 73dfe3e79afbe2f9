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
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/snapserv/db2check/db2check"
)

// SnapshotStore persists snapshots of tracked configuration files inside a git repository, which serves as an
// append-only history with built-in diffing against the last committed state.
type SnapshotStore struct {
	directory string
	repo      *git.Repository
}

// OpenSnapshotStore opens the snapshot store at the given directory, initializing a fresh repository when missing.
func OpenSnapshotStore(directory string) (*SnapshotStore, error) {
	repo, err := git.PlainOpen(directory)
	if err == git.ErrRepositoryNotExists {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return nil, fmt.Errorf("could not create snapshot store directory [%s]: %s", directory, err.Error())
		}
		repo, err = git.PlainInit(directory, false)
		if err != nil {
			return nil, fmt.Errorf("could not initialize snapshot store [%s]: %s", directory, err.Error())
		}
	} else if err != nil {
		return nil, fmt.Errorf("could not open snapshot store [%s]: %s", directory, err.Error())
	}

	return &SnapshotStore{
		directory: directory,
		repo:      repo,
	}, nil
}

// HasBaseline reports whether the store already contains a committed snapshot to compare against.
func (s *SnapshotStore) HasBaseline() bool {
	_, err := s.repo.Head()
	return err == nil
}

// Record copies the current content of all tracked files into the store worktree and returns the host paths which
// differ from the last committed snapshot. Tracked files missing on the host are recorded as deletions.
func (s *SnapshotStore) Record(files []string) ([]string, error) {
	hostPaths := make(map[string]string, len(files))
	for _, file := range files {
		hostPaths[snapshotName(file)] = file
	}

	for _, file := range files {
		target := filepath.Join(s.directory, snapshotName(file))

		contents, err := ioutil.ReadFile(file)
		if os.IsNotExist(err) {
			if _, statErr := os.Stat(target); statErr == nil {
				_ = os.Remove(target)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not read tracked file [%s]: %s", file, err.Error())
		}

		if err := ioutil.WriteFile(target, contents, 0644); err != nil {
			return nil, fmt.Errorf("could not snapshot tracked file [%s]: %s", file, err.Error())
		}
	}

	worktree, err := s.repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("could not diff snapshot store: %s", err.Error())
	}

	var changed []string
	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Unmodified && fileStatus.Staging == git.Unmodified {
			continue
		}

		// Report the host path, falling back to the worktree name for files no longer tracked
		if hostPath, ok := hostPaths[path]; ok {
			changed = append(changed, hostPath)
		} else {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)

	return changed, nil
}

// Commit stages all recorded changes and appends a new snapshot commit with the given message.
func (s *SnapshotStore) Commit(message string, when time.Time) error {
	worktree, err := s.repo.Worktree()
	if err != nil {
		return err
	}

	status, err := worktree.Status()
	if err != nil {
		return err
	}
	for path := range status {
		if _, err := worktree.Add(path); err != nil {
			return fmt.Errorf("could not stage snapshot of [%s]: %s", path, err.Error())
		}
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "db2check",
			Email: "db2check@localhost",
			When:  when,
		},
	})
	if err != nil {
		return fmt.Errorf("could not commit snapshot: %s", err.Error())
	}

	return nil
}

// Reset discards all uncommitted worktree changes, restoring the last committed snapshot. Must only be called on a
// store which already has a baseline.
func (s *SnapshotStore) Reset() error {
	worktree, err := s.repo.Worktree()
	if err != nil {
		return err
	}

	return worktree.Reset(&git.ResetOptions{Mode: git.HardReset})
}

// snapshotName flattens an absolute host path into a single file name within the store worktree.
func snapshotName(path string) string {
	return db2check.SanitizeKey(path)
}
