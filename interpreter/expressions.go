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
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"devt.de/krotik/minipar/parser"
)

/*
numberPattern matches numeric literals.
*/
var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Value Runtime
// =============

/*
valueRuntime is a literal or a reference to a variable.
*/
type valueRuntime struct {
	*baseRuntime
	expr
}

/*
valueRuntimeInst returns a new runtime component instance.
*/
func valueRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &valueRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *valueRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(0, 0)
	}

	return err
}

/*
Eval evaluate this runtime component. A string literal is written as a
display line and evaluates to 0.
*/
func (rt *valueRuntime) Eval() (interface{}, error) {
	val := rt.node.Val()

	if numberPattern.MatchString(val) {
		return strconv.ParseFloat(val, 64)
	}

	if isStringLiteral(val) {
		rt.rtp.out.WriteLine(unquote(val))
		return 0.0, nil
	}

	return rt.lookup(val)
}

/*
lookup returns the value of a variable.
*/
func (rt *baseRuntime) lookup(name string) (interface{}, error) {
	val, ok := rt.rtp.memory.Get(name)
	if !ok {
		return nil, rt.rtp.newRuntimeError(ErrUndeclaredSymbol,
			fmt.Sprintf("Unknown variable: %v", name), rt.node)
	}
	return val, nil
}

// Identifier Runtime
// ==================

/*
identifierRuntime is a reference to a variable.
*/
type identifierRuntime struct {
	*baseRuntime
	expr
}

/*
identifierRuntimeInst returns a new runtime component instance.
*/
func identifierRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &identifierRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *identifierRuntime) Validate() error {
	return rt.checkName()
}

/*
Eval evaluate this runtime component.
*/
func (rt *identifierRuntime) Eval() (interface{}, error) {
	return rt.lookup(rt.node.Val())
}

// List Runtime
// ============

/*
listRuntime builds a list value.
*/
type listRuntime struct {
	*baseRuntime
	expr
}

/*
listRuntimeInst returns a new runtime component instance.
*/
func listRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &listRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *listRuntime) Validate() error {
	err := rt.baseRuntime.Validate()

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkExpression(c)
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *listRuntime) Eval() (interface{}, error) {
	ret := make([]interface{}, 0, len(rt.node.Children))

	for _, c := range rt.node.Children {
		val, err := rt.rtp.evalNumber(c)
		if err != nil {
			return nil, err
		}
		ret = append(ret, val)
	}

	return ret, nil
}

// Binary Operation Runtime
// ========================

/*
binopRuntime is an arithmetic operation or a comparison.
*/
type binopRuntime struct {
	*baseRuntime
	expr
}

/*
binopRuntimeInst returns a new runtime component instance.
*/
func binopRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &binopRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *binopRuntime) Validate() error {
	err := rt.checkChildren(2, 2)

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkExpression(c)
		}
	}

	return err
}

/*
Eval evaluate this runtime component. Both operands are always evaluated.
Comparisons produce 1 or 0. Division by zero produces 0.
*/
func (rt *binopRuntime) Eval() (interface{}, error) {
	left, err := rt.rtp.evalNumber(rt.node.Children[0])
	if err != nil {
		return nil, err
	}

	right, err := rt.rtp.evalNumber(rt.node.Children[1])
	if err != nil {
		return nil, err
	}

	switch rt.node.Val() {
	case parser.OpPLUS:
		return left + right, nil
	case parser.OpMINUS:
		return left - right, nil
	case parser.OpTIMES:
		return left * right, nil
	case parser.OpDIV:
		if right == 0 {
			return 0.0, nil
		}
		return left / right, nil
	case parser.OpPOW:
		return math.Pow(left, right), nil
	case parser.OpEQ:
		return boolValue(left == right), nil
	case parser.OpNEQ:
		return boolValue(left != right), nil
	case parser.OpGT:
		return boolValue(left > right), nil
	case parser.OpLT:
		return boolValue(left < right), nil
	case parser.OpGEQ:
		return boolValue(left >= right), nil
	case parser.OpLEQ:
		return boolValue(left <= right), nil
	}

	return nil, rt.rtp.newRuntimeError(ErrUnknownOperator,
		fmt.Sprintf("Unknown operator: %v", rt.node.Val()), rt.node)
}

/*
boolValue converts a boolean into a number.
*/
func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Index Runtime
// =============

/*
indexRuntime reads an element of a list.
*/
type indexRuntime struct {
	*baseRuntime
	expr
}

/*
indexRuntimeInst returns a new runtime component instance.
*/
func indexRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &indexRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *indexRuntime) Validate() error {
	err := rt.checkChildren(2, 2)

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil {
		err = rt.checkKind(rt.node.Children[0], parser.NodeIDENTIFIER, parser.NodeVALUE)
	}

	if err == nil {
		err = rt.checkExpression(rt.node.Children[1])
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *indexRuntime) Eval() (interface{}, error) {
	name := rt.node.Children[0].Val()

	index, err := rt.rtp.evalNumber(rt.node.Children[1])
	if err != nil {
		return nil, err
	}

	val, err := rt.rtp.memory.Element(name, listIndex(index))
	if err != nil {
		return nil, rt.rtp.newRuntimeError(err, listErrorDetail(err, name, index), rt.node)
	}

	if _, ok := val.(float64); !ok {
		return nil, rt.rtp.newRuntimeError(ErrTypeMismatch,
			fmt.Sprintf("Element %v of list %v is not a number", FormatValue(index), name), rt.node)
	}

	return val, nil
}

// Input Runtime
// =============

/*
inputRuntime reads a number from the session input.
*/
type inputRuntime struct {
	*baseRuntime
	expr
}

/*
inputRuntimeInst returns a new runtime component instance.
*/
func inputRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &inputRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Eval evaluate this runtime component.
*/
func (rt *inputRuntime) Eval() (interface{}, error) {
	if rt.rtp.InputPrompt != "" {
		rt.rtp.out.WriteLine(rt.rtp.InputPrompt)
	}

	line, err := rt.rtp.in.ReadLine()
	if err != nil {
		detail := err.Error()
		if err == io.EOF {
			detail = "No more input"
		}
		return nil, rt.rtp.newRuntimeError(ErrMalformedInput, detail, rt.node)
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return nil, rt.rtp.newRuntimeError(ErrMalformedInput,
			fmt.Sprintf("Not a number: %q", line), rt.node)
	}

	return val, nil
}
