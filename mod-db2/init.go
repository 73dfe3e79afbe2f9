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

package moddb2

import (
	"github.com/snapserv/db2check/db2check"
)

// GetModuleCommand returns the command declaration of the DB2 module with all plugins registered.
func GetModuleCommand() db2check.ModuleCommand {
	diaglog := newDiaglogPlugin()
	lockwait := newLockwaitPlugin()

	module := db2check.NewModule("db2",
		db2check.ModuleDescription("IBM DB2 Instance"),
		db2check.ModulePlugin(diaglog),
		db2check.ModulePlugin(lockwait),
	)

	return db2check.NewModuleCommand(module.Name(), module.Description(), module,
		db2check.NewPluginCommand(diaglog.Name(), diaglog.Description(), diaglog),
		db2check.NewPluginCommand(lockwait.Name(), lockwait.Description(), lockwait),
	)
}
