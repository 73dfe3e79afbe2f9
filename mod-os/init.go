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
	"github.com/snapserv/db2check/db2check"
)

// GetModuleCommand returns the command declaration of the OS module with all plugins registered.
func GetModuleCommand() db2check.ModuleCommand {
	drift := newDriftPlugin()

	module := db2check.NewModule("os",
		db2check.ModuleDescription("Operating System"),
		db2check.ModulePlugin(drift),
	)

	return db2check.NewModuleCommand(module.Name(), module.Description(), module,
		db2check.NewPluginCommand(drift.Name(), drift.Description(), drift),
	)
}
