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
	"bytes"
	"strings"

	"devt.de/krotik/ecal/util"
)

/*
testLogger collects diagnostics of test runs.
*/
var testLogger *util.MemoryLogger

/*
newTestProvider creates a runtime provider which reads from a given input
and writes into a buffer.
*/
func newTestProvider(input string, il util.ECALImportLocator) (*MiniParRuntimeProvider, *bytes.Buffer) {
	var out bytes.Buffer

	testLogger = util.NewMemoryLogger(100)

	rtp := NewMiniParRuntimeProvider("test", il, testLogger)
	rtp.SetOutput(&out)
	rtp.SetInput(strings.NewReader(input))

	return rtp, &out
}

/*
runProgram runs a given AST document in a new session.
*/
func runProgram(doc string, input string) (string, *MiniParRuntimeProvider, error) {
	rtp, out := newTestProvider(input, nil)

	err := rtp.Run(doc)

	return out.String(), rtp, err
}

/*
seqProgram wraps a list of statements into a program with a single seq block.
Statements must be indented by two spaces.
*/
func seqProgram(stmts string) string {
	return "name: program\nchildren:\n- name: seq\n  children:\n" + stmts
}
