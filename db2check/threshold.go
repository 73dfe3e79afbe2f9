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
)

// Threshold represents a pair of warning/critical boundaries for classifying an integer measurement. Both values must
// be positive and the warning boundary must be strictly below the critical boundary.
type Threshold struct {
	Warning  int
	Critical int
}

// NewThreshold instantiates a new Threshold and validates the given boundaries.
func NewThreshold(warning int, critical int) (Threshold, error) {
	threshold := Threshold{Warning: warning, Critical: critical}
	if err := threshold.Validate(); err != nil {
		return Threshold{}, err
	}

	return threshold, nil
}

// Validate ensures that both boundaries are positive and properly ordered. A threshold where the warning boundary
// equals the critical boundary is rejected as well, instead of silently degrading into a critical-only check.
func (t Threshold) Validate() error {
	if t.Warning <= 0 || t.Critical <= 0 {
		return fmt.Errorf("threshold boundaries must be positive, got warning=%d critical=%d", t.Warning, t.Critical)
	}
	if t.Warning >= t.Critical {
		return fmt.Errorf("warning threshold [%d] must be below critical threshold [%d]", t.Warning, t.Critical)
	}

	return nil
}

// Classify evaluates a measurement against this threshold pair. Measurements below the warning boundary are OK,
// measurements at or above the critical boundary are CRITICAL, everything in between is WARNING.
func (t Threshold) Classify(measurement int) Status {
	switch {
	case measurement >= t.Critical:
		return StatusCritical
	case measurement >= t.Warning:
		return StatusWarning
	default:
		return StatusOK
	}
}

func (t Threshold) String() string {
	return fmt.Sprintf("%d;%d", t.Warning, t.Critical)
}
