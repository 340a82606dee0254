/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import (
	"errors"
	"fmt"
)

/*
newParserError creates a new ParserError object.
*/
func newParserError(source string, t error, d string, path string) error {
	return &Error{source, t, d, path}
}

/*
Error models a parser related error.
*/
type Error struct {
	Source string // Name of the source which was given to the parser
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
	Path   string // Path to the node in the document which caused the error
}

/*
Error returns a human-readable string representation of this error.
*/
func (pe *Error) Error() string {
	var ret string

	if pe.Detail != "" {
		ret = fmt.Sprintf("Parse error in %s: %v (%v)", pe.Source, pe.Type, pe.Detail)
	} else {
		ret = fmt.Sprintf("Parse error in %s: %v", pe.Source, pe.Type)
	}

	if pe.Path != "" {
		return fmt.Sprintf("%s (Path:%s)", ret, pe.Path)
	}

	return ret
}

/*
Unwrap returns the error type of this error.
*/
func (pe *Error) Unwrap() error {
	return pe.Type
}

/*
Parser related error types
*/
var (
	ErrInvalidDocument = errors.New("Invalid document")
	ErrInvalidNode     = errors.New("Invalid node")
	ErrMissingName     = errors.New("Node without name")
	ErrUnexpectedRoot  = errors.New("Unexpected root node")
)
