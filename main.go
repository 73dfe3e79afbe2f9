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

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/snapserv/db2check/db2check"
	moddb2 "github.com/snapserv/db2check/mod-db2"
	modos "github.com/snapserv/db2check/mod-os"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Build variables, automatically set during compilation
var (
	BuildVersion = "SNAPSHOT"
	BuildCommit  = "N/A"
	BuildDate    = "N/A"
)

func main() {
	moduleCommands := db2check.ModuleCommands{
		moddb2.GetModuleCommand(),
		modos.GetModuleCommand(),
	}

	for _, moduleCommand := range moduleCommands {
		moduleDescription := "Check Module: " + moduleCommand.Description()
		moduleClause := kingpin.Command(moduleCommand.Name(), moduleDescription)
		moduleCommand.Module().DefineFlags(moduleClause)

		for _, pluginCommand := range moduleCommand.PluginCommands() {
			pluginDescription := fmt.Sprintf("%s: %s", moduleCommand.Description(), pluginCommand.Description())
			pluginClause := moduleClause.Command(pluginCommand.Name(), pluginDescription)
			db2check.DefinePluginFlags(pluginClause, pluginCommand.Plugin())
		}
	}

	kingpin.Version(fmt.Sprintf("db2check, version %s (commit: %s)\nbuild date: %s, runtime: %s",
		BuildVersion, BuildCommit, BuildDate, runtime.Version()))
	kingpin.CommandLine.HelpFlag.Short('h')
	kingpin.CommandLine.VersionFlag.Short('V')

	// Usage errors, help and version output all terminate with UNKNOWN per the plugin contract
	kingpin.CommandLine.Terminate(func(int) {
		os.Exit(db2check.StatusUnknown.ExitCode())
	})

	commandParts := strings.Split(kingpin.Parse(), " ")
	moduleCommand, err := moduleCommands.GetByName(commandParts[0])
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(db2check.StatusUnknown.ExitCode())
	}
	pluginCommand, err := moduleCommand.PluginCommands().GetByName(commandParts[1])
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(db2check.StatusUnknown.ExitCode())
	}

	moduleCommand.Module().ExecutePlugin(pluginCommand.Plugin())
}
