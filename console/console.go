/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package console contains the console command processor for a MiniPar server.
Programs are read from local files and run on the connected server.
*/
package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

/*
NewConsole creates a new Console object which can parse and execute given
commands and outputs the result to the Writer. Program files are read with
the given read function. It optionally exports data with the given export
function via the export command. Export is disabled if no export function is
defined.
*/
func NewConsole(url string, out io.Writer, readFunc func(string) ([]byte, error),
	exportFunc func([]string, *bytes.Buffer) error) CommandConsole {

	cmdMap := make(map[string]Command)

	cmdMap[CommandHelp] = &CmdHelp{}
	cmdMap[CommandVer] = &CmdVer{}

	cmdMap[CommandRun] = &CmdRun{readFunc}
	cmdMap[CommandResult] = &CmdResult{}
	cmdMap[CommandRemove] = &CmdRemove{}

	// Add export if we got an export function

	if exportFunc != nil {
		cmdMap[CommandExport] = &CmdExport{exportFunc}
	}

	return &MiniParConsole{url, out, bytes.NewBuffer(nil), cmdMap}
}

/*
CommandConsole is the main interface for command processors.
*/
type CommandConsole interface {

	/*
		Run executes one or more commands. It returns an error if the command
		had an unexpected result and a flag if the command was handled.
	*/
	Run(cmd string) (bool, error)

	/*
	   Commands returns a sorted list of all available commands.
	*/
	Commands() []Command
}

/*
CommandConsoleAPI is the console interface which commands can use to communicate with the server.
*/
type CommandConsoleAPI interface {
	CommandConsole

	/*
	   URL returns the current connection URL.
	*/
	URL() string

	/*
	   Req is a convenience function to send common requests.
	*/
	Req(endpoint string, method string, content []byte) (interface{}, error)

	/*
	   SendRequest sends a request to the connected server. The calling code of the
	   function can specify the contentType (e.g. application/json), the method
	   (e.g. GET) and the content (for POST, PUT and DELETE requests).
	*/
	SendRequest(endpoint string, contentType string, method string,
		content []byte) (string, *http.Response, error)

	/*
		Out returns a writer which can be used to write to the console.
	*/
	Out() io.Writer

	/*
	   ExportBuffer returns a buffer which can be used to write exportable data.
	*/
	ExportBuffer() *bytes.Buffer
}

/*
CommError is a communication error from the ConsoleAPI.
*/
type CommError struct {
	err  error          // Nice error message
	Resp *http.Response // Error response from the REST API
}

/*
Error returns a textual representation of this error.
*/
func (c *CommError) Error() string {
	return c.err.Error()
}

/*
Command describes an available command.
*/
type Command interface {
	/*
	   Name returns the command name (as it should be typed).
	*/
	Name() string

	/*
	   Arguments returns the arguments of the command (e.g. <id>).
	*/
	Arguments() string

	/*
	   ShortDescription returns a short description of the command (single line).
	*/
	ShortDescription() string

	/*
	   LongDescription returns an extensive description of the command (can be multiple lines).
	*/
	LongDescription() string

	/*
		Run executes the command.
	*/
	Run(args []string, capi CommandConsoleAPI) error
}

// MiniPar Console
// ===============

/*
MiniParConsole implements the console functionality.
*/
type MiniParConsole struct {
	url    string        // Current server url (e.g. http://localhost:9595)
	out    io.Writer     // Output for this console
	export *bytes.Buffer // Export buffer

	CommandMap map[string]Command // Map of registered commands
}

/*
URL returns the current connected server URL.
*/
func (c *MiniParConsole) URL() string {
	return c.url
}

/*
Out returns a writer which can be used to write to the console.
*/
func (c *MiniParConsole) Out() io.Writer {
	return c.out
}

/*
ExportBuffer returns a buffer which can be used to write exportable data.
*/
func (c *MiniParConsole) ExportBuffer() *bytes.Buffer {
	return c.export
}

/*
Run executes one or more commands. It returns an error if the command
had an unexpected result and a flag if the command was handled.
*/
func (c *MiniParConsole) Run(cmd string) (bool, error) {

	// First split a line with multiple commands

	cmds := strings.Split(cmd, ";")

	for _, cmd := range cmds {

		// Run the command and return if there is an error

		if ok, err := c.RunCommand(cmd); err != nil {

			return false, err

		} else if !ok {

			return false, fmt.Errorf("Unknown command")
		}
	}

	// Everything was handled

	return true, nil
}

/*
RunCommand executes a single command. It returns an error for unexpected results and
a flag if the command was handled.
*/
func (c *MiniParConsole) RunCommand(cmdString string) (bool, error) {
	cmdSplit := strings.Fields(cmdString)

	if len(cmdSplit) > 0 {
		cmd := strings.ToLower(cmdSplit[0])
		args := cmdSplit[1:]

		// Reset the export buffer if we are not exporting

		if cmd != CommandExport {
			c.export.Reset()
		}

		if cmdObj, ok := c.CommandMap[cmd]; ok {
			return true, cmdObj.Run(args, c)
		} else if cmd == "?" {
			return true, c.CommandMap[CommandHelp].Run(args, c)
		}

		return false, nil
	}

	// Empty lines are always handled

	return true, nil
}

/*
Commands returns a sorted list of all available commands.
*/
func (c *MiniParConsole) Commands() []Command {
	var res []Command

	for _, c := range c.CommandMap {
		res = append(res, c)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})

	return res
}

/*
Req is a convenience function to send common requests.
*/
func (c *MiniParConsole) Req(endpoint string, method string, content []byte) (interface{}, error) {
	var res interface{}

	bodyStr, resp, err := c.SendRequest(endpoint, "application/json", method, content)

	if err == nil {

		if resp.StatusCode != http.StatusOK {
			return nil, &CommError{
				fmt.Errorf("%s request to %s failed: %s", method, endpoint, bodyStr),
				resp,
			}
		}

		// Try json decoding

		if jerr := json.Unmarshal([]byte(bodyStr), &res); jerr != nil {
			res = bodyStr
		}
	}

	return res, err
}

/*
SendRequest sends a request to the connected server. The calling code of the
function can specify the contentType (e.g. application/json), the method
(e.g. GET) and the content (for POST, PUT and DELETE requests).
*/
func (c *MiniParConsole) SendRequest(endpoint string, contentType string, method string,
	content []byte) (string, *http.Response, error) {

	var bodyStr string
	var req *http.Request
	var resp *http.Response
	var err error

	if content != nil {
		req, err = http.NewRequest(method, c.url+endpoint, bytes.NewBuffer(content))
	} else {
		req, err = http.NewRequest(method, c.url+endpoint, nil)
	}

	if err == nil {

		req.Header.Set("Content-Type", contentType)

		client := &http.Client{}

		resp, err = client.Do(req)

		if err == nil {
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			bodyStr = strings.Trim(string(body), " \n")
		}
	}

	// Just return the body

	return bodyStr, resp, err
}
