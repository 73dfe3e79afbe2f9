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
	"os"
	"path/filepath"
	"strconv"
)

// Plugin represents a single check including its CLI arguments
type Plugin interface {
	Name() string
	Description() string
	Module() Module
	DefineFlags(node KingpinNode)
	Probe(check *CheckContext) (Report, error)

	VerboseLevel() int
	TraceEnabled() bool
	OutputFormat() OutputFormat
	Threshold() Threshold
	InstanceHome() string
	InstanceName() string
	StateDirectory() string
	PreserveCheckpoint() bool
	ExtraMetrics() bool

	setModule(module Module)
	defineDefaultFlags(node KingpinNode)
	validate() error
}

// PluginOpt is a type alias for functional options used by NewPlugin()
type PluginOpt func(*basePlugin)

type basePlugin struct {
	name            string
	description     string
	module          Module
	defaultWarning  int
	defaultCritical int

	verbose        int
	trace          bool
	mkFormat       bool
	warning        int
	critical       int
	instanceHome   string
	stateDirectory string
	noReplace      bool
	extraMetrics   bool
}

// NewPlugin instantiates basePlugin with the given functional options
func NewPlugin(name string, options ...PluginOpt) Plugin {
	plugin := &basePlugin{
		name:            name,
		description:     name,
		defaultWarning:  1,
		defaultCritical: 2,
	}

	for _, option := range options {
		option(plugin)
	}

	return plugin
}

// PluginDescription is a functional option for NewPlugin(), which sets the plugin description
func PluginDescription(description string) PluginOpt {
	return func(p *basePlugin) {
		p.description = description
	}
}

// PluginDefaultThresholds is a functional option for NewPlugin(), which sets the default warning/critical boundaries
// used when the according flags were not given.
func PluginDefaultThresholds(warning int, critical int) PluginOpt {
	return func(p *basePlugin) {
		p.defaultWarning = warning
		p.defaultCritical = critical
	}
}

// DefinePluginFlags attaches both the uniform default flags and the plugin-specific flags to a kingpin node.
func DefinePluginFlags(node KingpinNode, plugin Plugin) {
	plugin.defineDefaultFlags(node)
	plugin.DefineFlags(node)
}

func (p *basePlugin) defineDefaultFlags(node KingpinNode) {
	node.Flag("verbose", "Enable verbose plugin output, repeat to increase verbosity.").
		Short('v').CounterVar(&p.verbose)
	node.Flag("trace", "Write a timestamped trace log to "+TraceLogPath+".").
		Short('T').BoolVar(&p.trace)
	node.Flag("mk", "Render output as a single Check_MK tabular line.").
		Short('K').BoolVar(&p.mkFormat)
	node.Flag("instance", "Home directory of the monitored DB2 instance.").
		Short('i').Required().StringVar(&p.instanceHome)
	node.Flag("warning", "Warning threshold as positive integer.").
		Short('w').Default(strconv.Itoa(p.defaultWarning)).IntVar(&p.warning)
	node.Flag("critical", "Critical threshold as positive integer.").
		Short('c').Default(strconv.Itoa(p.defaultCritical)).IntVar(&p.critical)
	node.Flag("noreplace", "Classify without updating the persisted checkpoint.").
		Short('R').BoolVar(&p.noReplace)
	node.Flag("extra", "Include extra performance metrics.").
		Short('x').BoolVar(&p.extraMetrics)
	node.Flag("directory", "Checkpoint and history storage location.").
		Short('D').Default(DefaultStateDirectory).StringVar(&p.stateDirectory)
}

// validate rejects invalid configurations before any lock or probe work happens. All violations terminate the
// invocation with UNKNOWN.
func (p *basePlugin) validate() error {
	if err := p.Threshold().Validate(); err != nil {
		return err
	}

	if info, err := os.Stat(p.instanceHome); err != nil || !info.IsDir() {
		return fmt.Errorf("invalid instance path [%s]", p.instanceHome)
	}

	return nil
}

func (p *basePlugin) Name() string {
	return p.name
}

func (p *basePlugin) Description() string {
	return p.description
}

func (p *basePlugin) Module() Module {
	return p.module
}

func (p *basePlugin) setModule(module Module) {
	p.module = module
}

func (p *basePlugin) DefineFlags(node KingpinNode) {}

// Probe represents the method executing the actual check logic and should be overridden by each plugin for producing
// a report. The default implementation yields an empty report, which the runner replaces with a fallback summary.
func (p *basePlugin) Probe(check *CheckContext) (Report, error) {
	return Report{}, nil
}

func (p *basePlugin) VerboseLevel() int {
	return p.verbose
}

func (p *basePlugin) TraceEnabled() bool {
	return p.trace
}

func (p *basePlugin) OutputFormat() OutputFormat {
	if p.mkFormat {
		return FormatCheckMK
	}

	return FormatStandard
}

func (p *basePlugin) Threshold() Threshold {
	return Threshold{Warning: p.warning, Critical: p.critical}
}

func (p *basePlugin) InstanceHome() string {
	return p.instanceHome
}

func (p *basePlugin) InstanceName() string {
	return filepath.Base(filepath.Clean(p.instanceHome))
}

func (p *basePlugin) StateDirectory() string {
	return p.stateDirectory
}

func (p *basePlugin) PreserveCheckpoint() bool {
	return p.noReplace
}

func (p *basePlugin) ExtraMetrics() bool {
	return p.extraMetrics
}
