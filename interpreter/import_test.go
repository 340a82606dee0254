/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devt.de/krotik/ecal/util"
	"devt.de/krotik/minipar/parser"
)

const libDoc = `
name: program
children:
- name: seq
  children:
  - {name: assign, children: [{name: identifier, value: a}, {name: value, value: "5"}]}
  - {name: assign, children: [{name: identifier, value: b}, {name: value, value: "7"}]}
  - name: assign
    children:
    - {name: identifier, value: result}
    - {name: binop, value: "+", children: [{name: value, value: a}, {name: value, value: b}]}
  - name: def
    value: inc
    children:
    - {name: param, value: v}
    - name: block
      children:
      - {name: return, children: [{name: binop, value: "+", children: [{name: value, value: v}, {name: value, value: "1"}]}]}
`

const mainDoc = `
name: program
children:
- name: seq
  children:
  - {name: import, value: '"lib.yaml"'}
  - {name: assign, children: [{name: identifier, value: x}, {name: call, value: inc, children: [{name: value, value: result}]}]}
  - {name: print, children: [{name: value, value: x}]}
`

func TestImport(t *testing.T) {
	il := &util.MemoryImportLocator{Files: map[string]string{
		"lib.yaml": libDoc[1:],
	}}

	rtp, out := newTestProvider("", il)

	if err := rtp.Run(mainDoc[1:]); err != nil || out.String() != "13\n" {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	if res := rtp.Memory().String(); res != `
{
    a : 5
    b : 7
    result : 12
    x : 13
}`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	// Imports from the file system

	dir, err := os.MkdirTemp("", "minipar")
	if err != nil {
		t.Error(err)
		return
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "lib.yaml"), []byte(libDoc[1:]), 0660); err != nil {
		t.Error(err)
		return
	}

	rtp, out = newTestProvider("", &util.FileImportLocator{Root: dir})

	if err := rtp.Run(mainDoc[1:]); err != nil || out.String() != "13\n" {
		t.Error("Unexpected result:", out.String(), err)
		return
	}
}

func TestImportErrors(t *testing.T) {
	il := &util.MemoryImportLocator{Files: map[string]string{
		"broken.yaml":  "name: program\nchildren: [{}]",
		"invalid.yaml": "name: program\nchildren:\n- {name: foo}",
		"failing.yaml": "name: program\nchildren:\n- {name: seq, children: [{name: print, children: [{name: value, value: nothere}]}]}",
	}}

	runImport := func(path string) error {
		rtp, _ := newTestProvider("", il)
		return rtp.Execute(parser.NewASTNode(parser.NodePROGRAM, "",
			parser.NewASTNode(parser.NodeSEQ, "",
				parser.NewASTNode(parser.NodeIMPORT, path))))
	}

	err := runImport("missing.yaml")

	if !errors.Is(err, ErrImportFailure) || !strings.HasPrefix(err.Error(),
		"MiniPar error in test: Import failed (missing.yaml: ") {
		t.Error("Unexpected result:", err)
		return
	}

	err = runImport("broken.yaml")

	if !errors.Is(err, ErrImportFailure) || err.Error() !=
		"MiniPar error in test: Import failed (broken.yaml: Parse error in broken.yaml: Node without name (map[]) (Path:program))" {
		t.Error("Unexpected result:", err)
		return
	}

	err = runImport("invalid.yaml")

	if !errors.Is(err, ErrImportFailure) || err.Error() !=
		"MiniPar error in test: Import failed (invalid.yaml: MiniPar error in invalid.yaml: Unknown statement (Unknown node kind: foo))" {
		t.Error("Unexpected result:", err)
		return
	}

	err = runImport("failing.yaml")

	if !errors.Is(err, ErrImportFailure) || err.Error() !=
		"MiniPar error in test: Import failed (failing.yaml: MiniPar error in failing.yaml: Undeclared symbol (Unknown variable: nothere))" {
		t.Error("Unexpected result:", err)
		return
	}

	rtp, _ := newTestProvider("", nil)

	err = rtp.Execute(parser.NewASTNode(parser.NodePROGRAM, "",
		parser.NewASTNode(parser.NodeSEQ, "",
			parser.NewASTNode(parser.NodeIMPORT, "lib.yaml"))))

	if !errors.Is(err, ErrImportFailure) || err.Error() !=
		"MiniPar error in test: Import failed (lib.yaml: No import locator was specified)" {
		t.Error("Unexpected result:", err)
		return
	}
}
