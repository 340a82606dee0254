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
	"fmt"

	"devt.de/krotik/minipar/parser"
)

/*
newRuntimeError creates a new RuntimeError object.
*/
func (rtp *MiniParRuntimeProvider) newRuntimeError(t error, d string, node *parser.ASTNode) error {
	var line, pos int

	if node != nil {
		line, pos = node.Line(), node.Pos()
	}

	return &RuntimeError{rtp.Name, t, d, node, line, pos}
}

/*
RuntimeError is a runtime related error
*/
type RuntimeError struct {
	Source string          // Name of the source which was given to the parser
	Type   error           // Error type (to be used for equal checks)
	Detail string          // Details of this error
	Node   *parser.ASTNode // AST Node where the error occurred
	Line   int             // Line of the error
	Pos    int             // Position of the error
}

/*
Error returns a human-readable string representation of this error.
*/
func (re *RuntimeError) Error() string {
	ret := fmt.Sprintf("MiniPar error in %s: %v (%v)", re.Source, re.Type, re.Detail)

	if re.Line != 0 {
		ret = fmt.Sprintf("%s (Line:%d Pos:%d)", ret, re.Line, re.Pos)
	}

	return ret
}

/*
Unwrap returns the error type so errors.Is can be used on runtime errors.
*/
func (re *RuntimeError) Unwrap() error {
	return re.Type
}

/*
Runtime related error types
*/
var (
	ErrUndeclaredSymbol        = errors.New("Undeclared symbol")
	ErrTypeMismatch            = errors.New("Type mismatch")
	ErrIndexOutOfBounds        = errors.New("Index out of bounds")
	ErrUnknownOperator         = errors.New("Unknown operator")
	ErrUnknownStatement        = errors.New("Unknown statement")
	ErrChannelNotFound         = errors.New("Channel not found")
	ErrArityMismatch           = errors.New("Wrong number of arguments")
	ErrImportFailure           = errors.New("Import failed")
	ErrMalformedChannelPayload = errors.New("Malformed channel payload")
	ErrMalformedInput          = errors.New("Malformed input")
	ErrInvalidConstruct        = errors.New("Invalid construct")
)
