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
Package interpreter contains the MiniPar execution engine.

A MiniParRuntimeProvider holds the state of a single session: value store,
declaration table, channels and functions. It decorates a parsed AST with
runtime components (one per node kind) which validate and execute the
program. Blocks of kind par run each child on its own goroutine and join
on all of them. Channels are the only synchronisation between parallel
branches.
*/
package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"devt.de/krotik/ecal/util"
	"devt.de/krotik/minipar/parser"
)

/*
runtimeInst is a function which creates a runtime component for an AST node.
*/
type runtimeInst func(*MiniParRuntimeProvider, *parser.ASTNode) parser.Runtime

/*
runtimeProviderMap contains the mapping of AST nodes to runtime components
*/
var runtimeProviderMap = map[string]runtimeInst{

	parser.NodePROGRAM: programRuntimeInst,

	// Blocks

	parser.NodeSEQ:   seqRuntimeInst,
	parser.NodeBLOCK: seqRuntimeInst,
	parser.NodePAR:   parRuntimeInst,

	// Statements

	parser.NodeASSIGN:      assignRuntimeInst,
	parser.NodeINDEXASSIGN: indexAssignRuntimeInst,
	parser.NodeCOMMENT:     commentRuntimeInst,
	parser.NodeCHANNEL:     channelRuntimeInst,
	parser.NodeSEND:        sendRuntimeInst,
	parser.NodeRECEIVE:     receiveRuntimeInst,
	parser.NodePRINT:       printRuntimeInst,
	parser.NodeIF:          ifRuntimeInst,
	parser.NodeWHILE:       whileRuntimeInst,
	parser.NodeFOR:         forRuntimeInst,
	parser.NodeDEF:         defRuntimeInst,
	parser.NodePARAM:       paramRuntimeInst,
	parser.NodeRETURN:      returnRuntimeInst,
	parser.NodeCALL:        callRuntimeInst,
	parser.NodeIMPORT:      importRuntimeInst,

	// Expressions

	parser.NodeVALUE:      valueRuntimeInst,
	parser.NodeIDENTIFIER: identifierRuntimeInst,
	parser.NodeLIST:       listRuntimeInst,
	parser.NodeBINOP:      binopRuntimeInst,
	parser.NodeINDEX:      indexRuntimeInst,
	parser.NodeINPUT:      inputRuntimeInst,
}

/*
NodeKinds returns all AST node kinds which have a runtime component in
ascending order.
*/
func NodeKinds() []string {
	var ret []string

	for kind := range runtimeProviderMap {
		ret = append(ret, kind)
	}

	sort.Strings(ret)

	return ret
}

/*
MiniParRuntimeProvider data structure
*/
type MiniParRuntimeProvider struct {
	Name          string             // Name to identify the input
	Logger        util.Logger        // Logger for diagnostics
	ImportLocator util.ECALImportLocator // Locator for imported programs
	InputPrompt   string             // Prompt which is displayed before input is read

	memory    *ValueStore
	symbols   *SymbolTable
	channels  *ChannelRegistry
	functions *FunctionRegistry
	out       *lineWriter
	in        *lineReader
}

/*
NewMiniParRuntimeProvider returns a new instance of a MiniPar runtime provider.
Display lines are written to stdout and input is read from stdin unless
SetOutput or SetInput is used.
*/
func NewMiniParRuntimeProvider(name string, importLocator util.ECALImportLocator,
	logger util.Logger) *MiniParRuntimeProvider {

	if logger == nil {
		logger = util.NewNullLogger()
	}

	return &MiniParRuntimeProvider{
		Name:          name,
		Logger:        logger,
		ImportLocator: importLocator,
		memory:        NewValueStore(),
		symbols:       NewSymbolTable(nil),
		channels:      NewChannelRegistry(DefaultChannelBasePort),
		functions:     NewFunctionRegistry(),
		out:           &lineWriter{os.Stdout, &sync.Mutex{}},
		in:            newLineReader(os.Stdin),
	}
}

/*
SetOutput sets the writer for display lines. Every display line is passed
to the writer with a single Write call.
*/
func (rtp *MiniParRuntimeProvider) SetOutput(w io.Writer) {
	rtp.out = &lineWriter{w, &sync.Mutex{}}
}

/*
SetInput sets the reader for input expressions.
*/
func (rtp *MiniParRuntimeProvider) SetInput(r io.Reader) {
	rtp.in = newLineReader(r)
}

/*
SetSymbols replaces the declaration table, usually with one which was seeded
by the front end.
*/
func (rtp *MiniParRuntimeProvider) SetSymbols(symbols *SymbolTable) {
	rtp.symbols = symbols
}

/*
SetChannelBasePort sets the id of the first channel. Has no effect on
channels which were already declared.
*/
func (rtp *MiniParRuntimeProvider) SetChannelBasePort(port int) {
	rtp.channels.lock.Lock()
	defer rtp.channels.lock.Unlock()

	rtp.channels.nextPort = port
}

/*
Memory returns the value store of this session.
*/
func (rtp *MiniParRuntimeProvider) Memory() *ValueStore {
	return rtp.memory
}

/*
Symbols returns the declaration table of this session.
*/
func (rtp *MiniParRuntimeProvider) Symbols() *SymbolTable {
	return rtp.symbols
}

/*
Channels returns the channel registry of this session.
*/
func (rtp *MiniParRuntimeProvider) Channels() *ChannelRegistry {
	return rtp.channels
}

/*
Functions returns the function registry of this session.
*/
func (rtp *MiniParRuntimeProvider) Functions() *FunctionRegistry {
	return rtp.functions
}

/*
Runtime returns a runtime component for a given ASTNode.
*/
func (rtp *MiniParRuntimeProvider) Runtime(node *parser.ASTNode) parser.Runtime {

	if instFunc, ok := runtimeProviderMap[node.Name]; ok {
		return instFunc(rtp, node)
	}

	return invalidRuntimeInst(rtp, node)
}

/*
Run decodes a given AST document and executes it in this session.
*/
func (rtp *MiniParRuntimeProvider) Run(input string) error {
	ast, err := parser.ParseWithRuntime(rtp.Name, input, rtp)

	if err == nil {
		err = rtp.Execute(ast)
	}

	return err
}

/*
Execute validates and executes a given program AST in this session. Runtime
components are added to the AST if it has none.
*/
func (rtp *MiniParRuntimeProvider) Execute(ast *parser.ASTNode) error {

	if ast.Name != parser.NodePROGRAM {
		return rtp.newRuntimeError(ErrInvalidConstruct,
			fmt.Sprintf("Expected %v node got %v", parser.NodePROGRAM, ast.Name), ast)
	}

	if ast.Runtime == nil {
		parser.AddRuntime(ast, rtp)
	}

	if err := ast.Runtime.Validate(); err != nil {
		return err
	}

	_, err := ast.Runtime.Eval()

	return err
}

/*
withSource returns a runtime provider for another source which shares the
state of this session.
*/
func (rtp *MiniParRuntimeProvider) withSource(name string) *MiniParRuntimeProvider {
	ret := *rtp
	ret.Name = name
	return &ret
}

/*
bind binds a value to a name and declares the name on first use.
*/
func (rtp *MiniParRuntimeProvider) bind(name string, val interface{}) {
	rtp.memory.Set(name, val)
	rtp.symbols.Declare(name, typeTag(val))
}

/*
exec executes a statement or block node.
*/
func (rtp *MiniParRuntimeProvider) exec(node *parser.ASTNode) (outcome, error) {
	srt, ok := node.Runtime.(statementRuntime)
	if !ok {
		return outcomeContinue, rtp.newRuntimeError(ErrUnknownStatement,
			fmt.Sprintf("Cannot execute %v", node.Name), node)
	}

	res, err := srt.Eval()

	// Statements which also produce a value (e.g. calls) discard it

	if o, ok := res.(outcome); ok {
		return o, err
	}

	return outcomeContinue, err
}

/*
eval evaluates an expression node.
*/
func (rtp *MiniParRuntimeProvider) eval(node *parser.ASTNode) (interface{}, error) {
	if _, ok := node.Runtime.(expressionRuntime); !ok {
		return nil, rtp.newRuntimeError(ErrInvalidConstruct,
			fmt.Sprintf("Not an expression: %v", node.Name), node)
	}

	return node.Runtime.Eval()
}

/*
evalNumber evaluates an expression node which must produce a number.
*/
func (rtp *MiniParRuntimeProvider) evalNumber(node *parser.ASTNode) (float64, error) {
	val, err := rtp.eval(node)
	if err != nil {
		return 0, err
	}

	f, ok := val.(float64)
	if !ok {
		return 0, rtp.newRuntimeError(ErrTypeMismatch,
			fmt.Sprintf("Expected a number got %v", FormatValue(val)), node)
	}

	return f, nil
}

/*
lineWriter writes display lines. Each line is written atomically.
*/
type lineWriter struct {
	w    io.Writer
	lock *sync.Mutex
}

/*
WriteLine writes a single display line.
*/
func (lw *lineWriter) WriteLine(line string) {
	lw.lock.Lock()
	defer lw.lock.Unlock()

	io.WriteString(lw.w, line+"\n")
}

/*
lineReader reads input lines. Concurrent readers are served one at a time.
*/
type lineReader struct {
	r    *bufio.Reader
	lock *sync.Mutex
}

/*
newLineReader creates a new lineReader.
*/
func newLineReader(r io.Reader) *lineReader {
	return &lineReader{bufio.NewReader(r), &sync.Mutex{}}
}

/*
ReadLine reads the next line without its line terminator. Returns io.EOF
if no more input is available.
*/
func (lr *lineReader) ReadLine() (string, error) {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	line, err := lr.r.ReadString('\n')

	if err == io.EOF && line != "" {
		err = nil
	}

	return strings.TrimRight(line, "\r\n"), err
}
