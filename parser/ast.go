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
	"bytes"
	"fmt"
	"strings"
)

/*
LexToken represents the token of an AST node as it was produced by the
front end.
*/
type LexToken struct {
	Val   string // Literal value of the token
	Lline int    // Line in the input this token appears
	Lpos  int    // Position in the input this token appears
}

/*
String returns a string representation of a token.
*/
func (t LexToken) String() string {
	if t.Lline == 0 {
		return fmt.Sprintf("%q", t.Val)
	}
	return fmt.Sprintf("%q (Line:%d Pos:%d)", t.Val, t.Lline, t.Lpos)
}

/*
ASTNode models a node in the AST.
*/
type ASTNode struct {
	Name     string     // Name of the node (node kind)
	Token    *LexToken  // Lexer token of this ASTNode
	Children []*ASTNode // Child nodes
	Runtime  Runtime    // Runtime component for this ASTNode
}

/*
NewASTNode creates a new AST node with a given kind and value.
*/
func NewASTNode(name string, val string, children ...*ASTNode) *ASTNode {
	return &ASTNode{name, &LexToken{Val: val}, children, nil}
}

/*
Val returns the literal value of this node or an empty string if the node
has no token.
*/
func (n *ASTNode) Val() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Val
}

/*
Line returns the line of this node in the source or 0 if it is not known.
*/
func (n *ASTNode) Line() int {
	if n.Token == nil {
		return 0
	}
	return n.Token.Lline
}

/*
Pos returns the position of this node in the source or 0 if it is not known.
*/
func (n *ASTNode) Pos() int {
	if n.Token == nil {
		return 0
	}
	return n.Token.Lpos
}

/*
Equals checks if this AST data equals another AST data. Returns also a message
describing what is the found difference. Runtime components are not compared.
*/
func (n *ASTNode) Equals(other *ASTNode, ignoreTokenPosition bool) (bool, string) {
	return n.equalsPath(n.Name, other, ignoreTokenPosition)
}

/*
equalsPath checks if this AST data equals another AST data while preserving the search path.
*/
func (n *ASTNode) equalsPath(path string, other *ASTNode, ignoreTokenPosition bool) (bool, string) {
	var res = true
	var msg = ""

	if n.Name != other.Name {
		res = false
		msg = fmt.Sprintf("Name is different %v vs %v\n", n.Name, other.Name)
	}

	if n.Val() != other.Val() {
		res = false
		msg += fmt.Sprintf("Value is different %q vs %q\n", n.Val(), other.Val())
	}

	if !ignoreTokenPosition && (n.Line() != other.Line() || n.Pos() != other.Pos()) {
		res = false
		msg += fmt.Sprintf("Position is different %v:%v vs %v:%v\n",
			n.Line(), n.Pos(), other.Line(), other.Pos())
	}

	if len(n.Children) != len(other.Children) {
		res = false
		msg += fmt.Sprintf("Number of children is different %v vs %v\n",
			len(n.Children), len(other.Children))

	} else {

		for i, child := range n.Children {

			// Check for nested differences

			if ok, cmsg := child.equalsPath(path+" > "+child.Name,
				other.Children[i], ignoreTokenPosition); !ok {
				return ok, cmsg
			}
		}
	}

	if msg != "" {
		var buf bytes.Buffer
		buf.WriteString("AST Nodes:\n")
		n.levelString(0, &buf, 1)
		buf.WriteString("vs\n")
		other.levelString(0, &buf, 1)
		msg = fmt.Sprintf("Path to difference: %v\n\n%v\n%v", path, msg, buf.String())
	}

	return res, msg
}

/*
String returns a string representation of this token.
*/
func (n *ASTNode) String() string {
	var buf bytes.Buffer
	n.levelString(0, &buf, -1)
	return buf.String()
}

/*
levelString function to recursively print the tree.
*/
func (n *ASTNode) levelString(indent int, buf *bytes.Buffer, printChildren int) {

	// Print current level

	buf.WriteString(strings.Repeat("  ", indent))

	if val := n.Val(); val != "" {
		buf.WriteString(fmt.Sprintf("%v: %v", n.Name, val))
	} else {
		buf.WriteString(n.Name)
	}

	buf.WriteString("\n")

	if printChildren == -1 || printChildren > 0 {

		if printChildren != -1 {
			printChildren--
		}

		// Print children

		for _, child := range n.Children {
			child.levelString(indent+1, buf, printChildren)
		}
	}
}

/*
ToJSONObject returns this ASTNode and all its children as a JSON object.
*/
func (n *ASTNode) ToJSONObject() map[string]interface{} {
	ret := make(map[string]interface{})

	ret["name"] = n.Name

	if n.Token != nil {
		if n.Token.Val != "" {
			ret["value"] = n.Token.Val
		}
		if n.Token.Lline != 0 {
			ret["line"] = n.Token.Lline
			ret["pos"] = n.Token.Lpos
		}
	}

	if len(n.Children) > 0 {
		var children []map[string]interface{}

		for _, child := range n.Children {
			children = append(children, child.ToJSONObject())
		}

		ret["children"] = children
	}

	return ret
}
