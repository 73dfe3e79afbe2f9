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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"
)

// DefaultStateDirectory is the shared default location for checkpoint files and snapshot stores, overridable per
// invocation through the '--directory' flag.
const DefaultStateDirectory = "/tmp/db2check"

// Checkpoint represents the persisted baseline of a delta check, which is the timestamp of the last successful
// measurement for a given (check, instance) pair.
type Checkpoint struct {
	Timestamp time.Time `json:"timestamp"`
}

// CheckpointStore persists one JSON-encoded checkpoint file per (check, instance) pair inside a configurable state
// directory. Please note that a store should only be used when protected by an instance lock, as several processes
// operating the same checkpoint can lead to data loss.
type CheckpointStore struct {
	directory string
}

// NewCheckpointStore instantiates a new CheckpointStore below the given state directory.
func NewCheckpointStore(directory string) *CheckpointStore {
	return &CheckpointStore{
		directory: directory,
	}
}

// Load reads the checkpoint for the given (check, instance) pair. The second return value indicates whether a
// checkpoint existed at all, which allows callers to distinguish a first execution from a regular delta run.
func (s *CheckpointStore) Load(checkName string, instance string) (Checkpoint, bool, error) {
	var checkpoint Checkpoint

	contents, err := ioutil.ReadFile(s.Path(checkName, instance))
	if os.IsNotExist(err) {
		return checkpoint, false, nil
	}
	if err != nil {
		return checkpoint, false, fmt.Errorf("could not read checkpoint file: %s", err.Error())
	}

	if err := json.Unmarshal(contents, &checkpoint); err != nil {
		return checkpoint, false, fmt.Errorf("could not unmarshal checkpoint file: %s", err.Error())
	}

	return checkpoint, true, nil
}

// Save writes the checkpoint for the given (check, instance) pair, creating the state directory when missing.
func (s *CheckpointStore) Save(checkName string, instance string, checkpoint Checkpoint) error {
	contents, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("could not marshal checkpoint: %s", err.Error())
	}

	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("could not create state directory [%s]: %s", s.directory, err.Error())
	}

	if err := ioutil.WriteFile(s.Path(checkName, instance), contents, 0644); err != nil {
		return fmt.Errorf("could not write checkpoint file: %s", err.Error())
	}

	return nil
}

// Path returns the checkpoint file path for the given (check, instance) pair.
func (s *CheckpointStore) Path(checkName string, instance string) string {
	return filepath.Join(s.directory, SanitizeKey(checkName, instance)+".checkpoint")
}

// Directory returns the state directory backing this store.
func (s *CheckpointStore) Directory() string {
	return s.directory
}
