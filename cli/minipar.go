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
MiniPar is an execution engine for a small educational language with
sequential and parallel blocks, named blocking channels between participants,
functions and imports.

Programs are given as AST documents in JSON or YAML notation. The engine can
be used from the command line or run as a server which provides a REST API
and a websocket endpoint to stream the output of runs.
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/common/termutil"
	"devt.de/krotik/ecal/util"
	"devt.de/krotik/minipar/config"
	"devt.de/krotik/minipar/console"
	"devt.de/krotik/minipar/interpreter"
	"devt.de/krotik/minipar/server"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

/*
DefaultInputPrompt is the prompt which is shown on terminals before input is
read.
*/
const DefaultInputPrompt = "> "

func main() {

	// Initialize the default command line parser

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	// Define default usage message

	flag.Usage = func() {

		// Print usage for tool selection

		fmt.Println(fmt.Sprintf("Usage of %s <tool>", os.Args[0]))
		fmt.Println()
		fmt.Println("MiniPar execution engine")
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    console   MiniPar server console")
		fmt.Println("    run       Run a program")
		fmt.Println("    server    Start MiniPar server")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	// Parse the command bit

	err := flag.CommandLine.Parse(os.Args[1:])

	if len(flag.Args()) > 0 {

		arg := flag.Args()[0]

		if arg == "server" {
			config.LoadConfigFile(config.DefaultConfigFile)
			if !handleServerCommandLine() {
				server.StartServer()
			}
		} else if arg == "console" {
			loadConfigIfExists()
			RunCliConsole()
		} else if arg == "run" {
			loadConfigIfExists()
			if err := RunCliProgram(os.Args[2:], os.Stdin, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
		} else {
			flag.Usage()
		}

	} else if err == nil {

		flag.Usage()
	}
}

/*
loadConfigIfExists loads the config file if there is one. Otherwise the
default configuration is used. Running a program never creates a config file.
*/
func loadConfigIfExists() {
	if ok, _ := fileutil.PathExists(config.DefaultConfigFile); ok {
		if err := config.LoadConfigFile(config.DefaultConfigFile); err == nil {
			return
		}
	}

	config.LoadDefaultConfig()
}

/*
handleServerCommandLine handles all command line options for the server.
Returns true if the server should not be started.
*/
func handleServerCommandLine() bool {

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s server [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return true
	}

	return false
}

/*
RunCliConsole runs the server console on the commandline.
*/
func RunCliConsole() {
	var err error

	host := flag.String("host", config.Str(config.HTTPHost), "Host of the MiniPar server")
	port := flag.String("port", config.Str(config.HTTPPort), "Port of the MiniPar server")

	cmdfile := flag.String("file", "", "Read commands from a file and exit")
	cmdline := flag.String("exec", "", "Execute a single line and exit")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s console [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return
	}

	if *cmdfile == "" && *cmdline == "" {
		fmt.Println(fmt.Sprintf("MiniPar %v - Console", config.ProductVersion))
	}

	var clt termutil.ConsoleLineTerminal

	isExitLine := func(s string) bool {
		return s == "exit" || s == "q" || s == "quit" || s == "bye" || s == "\x04"
	}

	clt, err = termutil.NewConsoleLineTerminal(os.Stdout)

	if *cmdfile != "" {
		var file *os.File

		// Read commands from a file

		file, err = os.Open(*cmdfile)
		if err == nil {
			defer file.Close()

			clt, err = termutil.AddFileReadingWrapper(clt, file, true)
		}

	} else if *cmdline != "" {
		var buf bytes.Buffer

		buf.WriteString(fmt.Sprintln(*cmdline))

		// Read commands from a single line

		clt, err = termutil.AddFileReadingWrapper(clt, &buf, true)

	} else if err == nil {

		// Add history and auto completion of command names

		histfile := filepath.Join(filepath.Dir(os.Args[0]), ".minipar_console_history")

		if clt, err = termutil.AddHistoryMixin(clt, histfile, isExitLine); err == nil {
			clt, err = termutil.AddAutoCompleteMixin(clt, termutil.NewWordListDict([]string{
				console.CommandHelp, console.CommandVer, console.CommandRun,
				console.CommandResult, console.CommandRemove, console.CommandExport,
			}))
		}
	}

	if err == nil {

		// Create the console object

		con := console.NewConsole(fmt.Sprintf("http://%s:%s", *host, *port), os.Stdout,
			os.ReadFile,
			func(args []string, exportBuf *bytes.Buffer) error {

				// Export data to a chosen file

				filename := "export.out"

				if len(args) > 0 {
					filename = args[0]
				}

				return os.WriteFile(filename, exportBuf.Bytes(), 0666)
			})

		// Start the console

		if err = clt.StartTerm(); err == nil {
			var line string

			defer clt.StopTerm()

			if *cmdfile == "" && *cmdline == "" {
				fmt.Println("Type 'q' or 'quit' to exit the shell and '?' to get help")
			}

			line, err = clt.NextLine()
			for err == nil && !isExitLine(line) {

				if _, cerr := con.Run(line); cerr != nil {

					// Output any error

					fmt.Fprintln(clt, cerr.Error())
				}

				line, err = clt.NextLine()
			}
		}
	}

	if err != nil {
		fmt.Println(err.Error())
	}
}

/*
RunCliProgram runs a program file with the given command line arguments.
Display lines are written to out and input is read from in. Runtime errors
are returned after the optional snapshot dump.
*/
func RunCliProgram(args []string, in io.Reader, out io.Writer) error {
	var err error
	var logger util.Logger
	var content []byte

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(out)

	importRoot := fs.String("import-root", "", "Root directory for imports (default: directory of the program)")
	symbolsFile := fs.String("symbols", "", "File with a declaration table (JSON or YAML object of name to type)")
	logLevel := fs.String("loglevel", config.Str(config.LogLevel), "Level of diagnostics (debug, info or error)")
	dump := fs.Bool("dump", false, "Print the value store and declaration table after the run")

	showHelp := fs.Bool("help", false, "Show this help message")

	fs.Usage = func() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, fmt.Sprintf("Usage of %s run [options] <program file>", os.Args[0]))
		fmt.Fprintln(out)
		fs.PrintDefaults()
		fmt.Fprintln(out)
	}

	if err = fs.Parse(args); err != nil {
		return err
	}

	if *showHelp || fs.NArg() != 1 {
		fs.Usage()
		return nil
	}

	file := fs.Arg(0)

	if content, err = os.ReadFile(file); err != nil {
		return err
	}

	if *importRoot == "" {
		*importRoot = filepath.Dir(file)
	}

	if logger, err = util.NewLogLevelLogger(util.NewStdOutLogger(), *logLevel); err != nil {
		return err
	}

	rtp := interpreter.NewMiniParRuntimeProvider(filepath.Base(file),
		&util.FileImportLocator{Root: *importRoot}, logger)

	rtp.SetOutput(out)
	rtp.SetInput(in)
	rtp.SetChannelBasePort(int(config.Int(config.ChannelBasePort)))

	if config.Bool(config.PromptOnInput) && isTerminal(in) {
		rtp.InputPrompt = DefaultInputPrompt
	}

	if *symbolsFile != "" {
		var symbols map[string]string
		var sdata []byte

		if sdata, err = os.ReadFile(*symbolsFile); err == nil {
			err = yaml.Unmarshal(sdata, &symbols)
		}

		if err != nil {
			return fmt.Errorf("Could not read declaration table %v: %v", *symbolsFile, err)
		}

		rtp.SetSymbols(interpreter.NewSymbolTable(symbols))
	}

	err = rtp.Run(string(content))

	if *dump {
		fmt.Fprint(out, snapshotTable(rtp))
	}

	return err
}

/*
snapshotTable renders the value store and the declaration table of a session
as a table.
*/
func snapshotTable(rtp *interpreter.MiniParRuntimeProvider) string {
	memory := rtp.Memory().Snapshot()
	symbols := rtp.Symbols().Snapshot()

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
		var value string

		if v, ok := memory[name]; ok {
			value = interpreter.FormatValue(v)
		} else if c, ok := rtp.Channels().Channel(name); ok {
			value = c.String()
		}

		tab = append(tab, name, symbols[name], value)
	}

	return stringutil.PrintStringTable(tab, 3)
}

/*
isTerminal checks if a given reader is connected to a terminal.
*/
func isTerminal(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
