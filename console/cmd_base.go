/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"bytes"
	"fmt"
	"strings"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/minipar/api"
)

// Command: ver
// ============

/*
CommandVer is a command name.
*/
const CommandVer = "ver"

/*
CmdVer displays the server version and the features of its execution engine.
*/
type CmdVer struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdVer) Name() string {
	return CommandVer
}

/*
Arguments returns the arguments of the command.
*/
func (c *CmdVer) Arguments() string {
	return ""
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdVer) ShortDescription() string {
	return "Displays server version and engine information."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdVer) LongDescription() string {
	return "Displays the server version and the features of the execution engine " +
		"which runs programs on the server."
}

/*
Run executes the command.
*/
func (c *CmdVer) Run(args []string, capi CommandConsoleAPI) error {

	fmt.Fprintln(capi.Out(), fmt.Sprintf("Connected to: %v", capi.URL()))

	res, err := capi.Req(api.EndpointAbout, "GET", nil)
	if err != nil {
		return err
	}

	data, ok := res.(map[string]interface{})
	if !ok {
		return fmt.Errorf("Unexpected response: %v", res)
	}

	fmt.Fprintln(capi.Out(), fmt.Sprintf("%v %v (REST versions: %v)",
		data["product"], data["version"], data["api_versions"]))

	engine, _ := data["engine"].(map[string]interface{})

	imports := "disabled"
	if engine["imports"] == true {
		imports = "enabled"
	}

	kinds, _ := engine["node_kinds"].([]interface{})
	ops, _ := engine["operators"].([]interface{})

	tab := []string{
		"Engine", "Value",
		"Channel base port", fmt.Sprint(engine["channel_base_port"]),
		"Imports", imports,
		"Node kinds", fmt.Sprint(len(kinds)),
		"Operators", joinValues(ops),
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))

	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}

/*
joinValues joins a list of decoded JSON values with spaces.
*/
func joinValues(values []interface{}) string {
	var ret []string

	for _, v := range values {
		ret = append(ret, fmt.Sprint(v))
	}

	return strings.Join(ret, " ")
}

// Command: export
// ===============

/*
CommandExport is a command name.
*/
const CommandExport = "export"

/*
CmdExport writes the table of the previous command to a file.
*/
type CmdExport struct {
	exportFunc func([]string, *bytes.Buffer) error
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdExport) Name() string {
	return CommandExport
}

/*
Arguments returns the arguments of the command.
*/
func (c *CmdExport) Arguments() string {
	return "[file]"
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdExport) ShortDescription() string {
	return "Exports the last output."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdExport) LongDescription() string {
	return "Exports the output of the previous command as CSV. The run results of " +
		"the result command contain all declared names with their type and value."
}

/*
Run executes the command.
*/
func (c *CmdExport) Run(args []string, capi CommandConsoleAPI) error {

	if capi.ExportBuffer().Len() == 0 {
		return fmt.Errorf("Nothing to export")
	}

	return c.exportFunc(args, capi.ExportBuffer())
}

// Command: help
// =============

/*
CommandHelp is a command name.
*/
const CommandHelp = "help"

/*
CmdHelp displays descriptions of other commands.
*/
type CmdHelp struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdHelp) Name() string {
	return CommandHelp
}

/*
Arguments returns the arguments of the command.
*/
func (c *CmdHelp) Arguments() string {
	return "[command]"
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdHelp) ShortDescription() string {
	return "Display descriptions for all available commands."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdHelp) LongDescription() string {
	return "Display descriptions for all available commands. Shows the usage of " +
		"a single command if a command name is given."
}

/*
Run executes the command.
*/
func (c *CmdHelp) Run(args []string, capi CommandConsoleAPI) error {

	cmds := capi.Commands()

	if len(args) > 0 {
		name := args[0]

		for _, cmd := range cmds {
			if cmd.Name() == name {
				usage := strings.TrimSpace(cmd.Name() + " " + cmd.Arguments())

				fmt.Fprintln(capi.Out(), "Usage:", usage)
				fmt.Fprintln(capi.Out(), cmd.LongDescription())

				capi.ExportBuffer().WriteString(cmd.LongDescription())

				return nil
			}
		}

		return fmt.Errorf("Unknown command: %s", name)
	}

	tab := []string{"Command", "Arguments", "Description"}

	for _, cmd := range cmds {
		tab = append(tab, cmd.Name(), cmd.Arguments(), cmd.ShortDescription())
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 3))

	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 3))

	return nil
}
