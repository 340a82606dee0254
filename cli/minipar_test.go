/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/minipar/config"
	"devt.de/krotik/minipar/interpreter"
)

const testProgram = `
name: program
children:
- name: seq
  children:
  - name: import
    value: lib.json
  - name: assign
    children:
    - {name: identifier, value: x}
    - {name: binop, value: "+", children: [{name: value, value: a}, {name: input}]}
  - name: assign
    children:
    - {name: identifier, value: l}
    - {name: list, children: [{name: value, value: "1"}, {name: value, value: "2"}]}
  - name: print
    children:
    - {name: value, value: '"x is"'}
    - {name: value, value: x}
`

const testLib = `
{"name": "program", "children": [{"name": "seq", "children": [
  {"name": "assign", "children": [{"name": "identifier", "value": "a"}, {"name": "value", "value": "40"}]}]}]}`

func writeTestFiles(t *testing.T, files map[string]string) string {
	dir, err := os.MkdirTemp("", "minipartest")
	errorutil.AssertOk(err)

	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	for name, content := range files {
		errorutil.AssertOk(os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	return dir
}

func TestRunCliProgram(t *testing.T) {
	config.LoadDefaultConfig()

	dir := writeTestFiles(t, map[string]string{
		"prog.yaml": testProgram,
		"lib.json":  testLib,
	})

	var out bytes.Buffer

	err := RunCliProgram([]string{"-loglevel", "error", "-dump", filepath.Join(dir, "prog.yaml")},
		strings.NewReader("2\n"), &out)

	if err != nil {
		t.Error(err)
		return
	}

	if res := out.String(); res != `
x is 42
Name Type Value
a    int  40
l    list [1, 2]
x    int  42
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	// Imports can be resolved from a different root

	out.Reset()

	err = RunCliProgram([]string{"-loglevel", "error", "-import-root", os.TempDir(),
		filepath.Join(dir, "prog.yaml")}, strings.NewReader("2\n"), &out)

	if !errors.Is(err, interpreter.ErrImportFailure) || out.String() != "" {
		t.Error("Unexpected result:", out.String(), err)
		return
	}
}

func TestRunCliProgramErrors(t *testing.T) {
	config.LoadDefaultConfig()

	dir := writeTestFiles(t, map[string]string{
		"prog.json": `
{"name": "program", "children": [{"name": "seq", "children": [
  {"name": "assign", "children": [{"name": "identifier", "value": "x"}, {"name": "value", "value": "1"}]},
  {"name": "print", "children": [{"name": "value", "value": "y"}]}]}]}`,
		"symbols.yaml": "y: float\n",
	})

	var out bytes.Buffer

	err := RunCliProgram([]string{"-loglevel", "error", "-dump",
		"-symbols", filepath.Join(dir, "symbols.yaml"), filepath.Join(dir, "prog.json")},
		strings.NewReader(""), &out)

	if err == nil || err.Error() != "MiniPar error in prog.json: Undeclared symbol (Unknown variable: y)" {
		t.Error("Unexpected result:", err)
		return
	}

	// The snapshot is still printed

	if res := out.String(); !strings.HasPrefix(res, `
Name Type  Value
x    int   1
`[1:]) || !strings.Contains(res, "y    float") {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	err = RunCliProgram([]string{"-symbols", filepath.Join(dir, "foo.yaml"), filepath.Join(dir, "prog.json")},
		strings.NewReader(""), &out)

	if err == nil || !strings.HasPrefix(err.Error(), "Could not read declaration table") {
		t.Error("Unexpected result:", err)
		return
	}

	err = RunCliProgram([]string{"-loglevel", "foo", filepath.Join(dir, "prog.json")},
		strings.NewReader(""), &out)

	if err == nil {
		t.Error("Invalid log level should cause an error")
		return
	}

	if err = RunCliProgram([]string{filepath.Join(dir, "bar.json")}, strings.NewReader(""), &out); err == nil {
		t.Error("Missing program file should cause an error")
		return
	}

	// Without a program file the usage is printed

	out.Reset()

	if err = RunCliProgram(nil, strings.NewReader(""), &out); err != nil ||
		!strings.Contains(out.String(), "run [options] <program file>") ||
		!strings.Contains(out.String(), "-dump") {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	if err = RunCliProgram([]string{"-foo"}, strings.NewReader(""), &out); err == nil {
		t.Error("Unknown flag should cause an error")
		return
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(strings.NewReader("")) {
		t.Error("A string reader is not a terminal")
		return
	}
}
