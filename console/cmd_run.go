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
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"devt.de/krotik/common/stringutil"
	v1 "devt.de/krotik/minipar/api/v1"
	"devt.de/krotik/minipar/interpreter"
)

// Command: run
// ============

/*
CommandRun is a command name.
*/
const CommandRun = "run"

/*
CmdRun runs a program file on the server.
*/
type CmdRun struct {
	readFunc func(string) ([]byte, error)
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdRun) Name() string {
	return CommandRun
}

/*
Arguments returns the arguments of the command.
*/
func (c *CmdRun) Arguments() string {
	return "<file> [inputs...]"
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdRun) ShortDescription() string {
	return "Runs a program file on the server."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdRun) LongDescription() string {
	return "Runs a program file on the server. All further arguments are given " +
		"to the program as input lines. Prints the display lines and the id of the run."
}

/*
Run executes the command.
*/
func (c *CmdRun) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) < 1 {
		return fmt.Errorf("Please specify a program file")
	}

	program, err := c.readFunc(args[0])

	if err == nil {
		var content []byte
		var res interface{}

		content, err = json.Marshal(map[string]interface{}{
			"name":    filepath.Base(args[0]),
			"program": string(program),
			"input":   strings.Join(args[1:], "\n"),
		})

		if err == nil {
			if res, err = capi.Req(v1.EndpointRun, "POST", content); err == nil {
				result, ok := res.(map[string]interface{})

				if !ok {
					return fmt.Errorf("Unexpected response: %v", res)
				}

				printOutput(result, capi)

				if msg := fmt.Sprint(result["error"]); msg != "" {
					fmt.Fprintln(capi.Out(), "Error:", msg)
				}

				fmt.Fprintln(capi.Out(), fmt.Sprintf("Run %v", result["id"]))
			}
		}
	}

	return err
}

// Command: result
// ===============

/*
CommandResult is a command name.
*/
const CommandResult = "result"

/*
CmdResult shows the result of a previous run.
*/
type CmdResult struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdResult) Name() string {
	return CommandResult
}

/*
Arguments returns the arguments of the command.
*/
func (c *CmdResult) Arguments() string {
	return "<id>"
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdResult) ShortDescription() string {
	return "Shows the result of a previous run."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdResult) LongDescription() string {
	return "Shows the display lines, the values and the declarations of a previous run."
}

/*
Run executes the command.
*/
func (c *CmdResult) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) < 1 {
		return fmt.Errorf("Please specify a run id")
	}

	res, err := capi.Req(v1.EndpointRun+args[0], "GET", nil)

	if err == nil {
		result, ok := res.(map[string]interface{})

		if !ok {
			return fmt.Errorf("Unexpected response: %v", res)
		}

		printOutput(result, capi)

		if msg := fmt.Sprint(result["error"]); msg != "" {
			fmt.Fprintln(capi.Out(), "Error:", msg)
		}

		tab := snapshotTable(result)

		capi.ExportBuffer().Reset()
		capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 3))

		fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 3))
	}

	return err
}

// Command: remove
// ===============

/*
CommandRemove is a command name.
*/
const CommandRemove = "remove"

/*
CmdRemove removes the result of a previous run.
*/
type CmdRemove struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdRemove) Name() string {
	return CommandRemove
}

/*
Arguments returns the arguments of the command.
*/
func (c *CmdRemove) Arguments() string {
	return "<id>"
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdRemove) ShortDescription() string {
	return "Removes the result of a previous run."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdRemove) LongDescription() string {
	return "Removes the result of a previous run from the server."
}

/*
Run executes the command.
*/
func (c *CmdRemove) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) < 1 {
		return fmt.Errorf("Please specify a run id")
	}

	_, err := capi.Req(v1.EndpointRun+args[0], "DELETE", nil)

	if err == nil {
		fmt.Fprintln(capi.Out(), fmt.Sprintf("Run %v removed", args[0]))
	}

	return err
}

// Helper functions
// ================

/*
printOutput prints the display lines of a run result and puts them into the
export buffer.
*/
func printOutput(result map[string]interface{}, capi CommandConsoleAPI) {
	lines, _ := result["output"].([]interface{})

	for _, line := range lines {
		fmt.Fprintln(capi.Out(), line)
		capi.ExportBuffer().WriteString(fmt.Sprintln(line))
	}
}

/*
snapshotTable builds a table of all declared names of a run result with their
type and value.
*/
func snapshotTable(result map[string]interface{}) []string {
	memory, _ := result["memory"].(map[string]interface{})
	symbols, _ := result["symbols"].(map[string]interface{})

	var names []string

	for name := range symbols {
		names = append(names, name)
	}
	for name := range memory {
		if _, ok := symbols[name]; !ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	tab := []string{"Name", "Type", "Value"}

	for _, name := range names {
		var typ, value string

		if t, ok := symbols[name]; ok {
			typ = fmt.Sprint(t)
		}

		if v, ok := memory[name]; ok {
			value = interpreter.FormatValue(v)
		}

		tab = append(tab, name, typ, value)
	}

	return tab
}
