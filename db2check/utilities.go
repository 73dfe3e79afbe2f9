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
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// SanitizeKey joins the given parts into a single path-safe key, normalizing out all characters which could not be
// used as part of a file name. The transformation is order-sensitive, so distinct argument vectors always yield
// distinct keys.
func SanitizeKey(parts ...string) string {
	sanitized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = unsafeKeyChars.ReplaceAllString(part, "_")
		part = strings.Trim(part, "_")
		if part != "" {
			sanitized = append(sanitized, part)
		}
	}

	return strings.Join(sanitized, "_")
}

// RegexpSubMatchMap is a utility function which matches a string against a regular expression and returns a map of the
// type 'map[string]string', which contains all named capture groups.
func RegexpSubMatchMap(r *regexp.Regexp, str string) (map[string]string, bool) {
	subMatchMap := make(map[string]string)

	match := r.FindStringSubmatch(str)
	if match == nil {
		return subMatchMap, false
	}

	for i, name := range r.SubexpNames() {
		if i != 0 && i < len(match) && name != "" {
			subMatchMap[name] = match[i]
		}
	}

	return subMatchMap, true
}

// RetryDuring retries a given function until it no longer returns an error or the timeout value was reached. The delay
// parameter specifies the delay between each unsuccessful attempt.
func RetryDuring(timeout time.Duration, delay time.Duration, function func() error) (err error) {
	startTime := time.Now()
	attempts := 0
	for {
		attempts++

		err = function()
		if err == nil {
			return
		}

		deltaTime := time.Now().Sub(startTime)
		if deltaTime > timeout {
			return fmt.Errorf("aborting retrying after %d attempts (during %s), last error: %s",
				attempts, deltaTime, err.Error())
		}

		time.Sleep(delay)
	}
}
