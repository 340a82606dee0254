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
Package parser contains the AST model of MiniPar programs.

The MiniPar front end (lexer, parser and declaration checker) runs outside of
this module. It hands over a validated parse tree which is serialized as a
JSON or YAML document. Each node of the document has a name (the node kind),
an optional value, an optional source position and a list of children:

	{
	  "name"     : "assign",
	  "children" : [
	    { "name" : "identifier", "value" : "x" },
	    { "name" : "value", "value" : "42" }
	  ]
	}

Parse() decodes such a document into an ASTNode tree. ParseWithRuntime()
additionally decorates the tree with runtime components which can be used to
execute the program.
*/
package parser

/*
Known AST node kinds
*/
const (
	NodePROGRAM = "program" // Program root - children are SEQ or PAR blocks

	// Blocks

	NodeSEQ   = "seq"   // Sequential block
	NodePAR   = "par"   // Parallel block
	NodeBLOCK = "block" // Statement block of a control structure or function

	// Statements

	NodeASSIGN      = "assign"      // Assignment
	NodeINDEXASSIGN = "indexassign" // Assignment to a list element
	NodeCOMMENT     = "comment"     // Comment
	NodeCHANNEL     = "channel"     // Channel declaration
	NodeSEND        = "send"        // Channel send
	NodeRECEIVE     = "receive"     // Channel receive
	NodePRINT       = "print"       // Print statement
	NodeIF          = "if"          // If statement
	NodeWHILE       = "while"       // While loop
	NodeFOR         = "for"         // For loop
	NodeDEF         = "def"         // Function definition
	NodePARAM       = "param"       // Function parameter
	NodeRETURN      = "return"      // Return statement
	NodeCALL        = "call"        // Function call
	NodeIMPORT      = "import"      // Import of another program

	// Expressions

	NodeVALUE      = "value"      // Literal or variable reference
	NodeIDENTIFIER = "identifier" // Variable name
	NodeLIST       = "list"       // List literal
	NodeBINOP      = "binop"      // Binary operation
	NodeINDEX      = "index"      // List access
	NodeINPUT      = "input"      // External input
)

/*
Known binary operators
*/
const (
	OpPLUS  = "+"
	OpMINUS = "-"
	OpTIMES = "*"
	OpDIV   = "/"
	OpPOW   = "^"
	OpEQ    = "=="
	OpNEQ   = "!="
	OpGT    = ">"
	OpLT    = "<"
	OpGEQ   = ">="
	OpLEQ   = "<="
)

/*
Operators lists all binary operators in order of their definition.
*/
var Operators = []string{
	OpPLUS, OpMINUS, OpTIMES, OpDIV, OpPOW,
	OpEQ, OpNEQ, OpGT, OpLT, OpGEQ, OpLEQ,
}

/*
RelationalOperators lists all operators which compare two values.
*/
var RelationalOperators = map[string]bool{
	OpEQ:  true,
	OpNEQ: true,
	OpGT:  true,
	OpLT:  true,
	OpGEQ: true,
	OpLEQ: true,
}
