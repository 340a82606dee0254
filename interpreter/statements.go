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
	"math"
	"strconv"
	"strings"

	"devt.de/krotik/minipar/parser"
)

// Assign Runtime
// ==============

/*
assignRuntime binds the value of an expression to a name.
*/
type assignRuntime struct {
	*baseRuntime
	stmt
}

/*
assignRuntimeInst returns a new runtime component instance.
*/
func assignRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &assignRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *assignRuntime) Validate() error {
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
func (rt *assignRuntime) Eval() (interface{}, error) {
	val, err := rt.rtp.eval(rt.node.Children[1])

	if err == nil {
		rt.rtp.bind(rt.node.Children[0].Val(), copyValue(val))
	}

	return outcomeContinue, err
}

// Index Assign Runtime
// ====================

/*
indexAssignRuntime replaces an element of a list.
*/
type indexAssignRuntime struct {
	*baseRuntime
	stmt
}

/*
indexAssignRuntimeInst returns a new runtime component instance.
*/
func indexAssignRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &indexAssignRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *indexAssignRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(2, 2)
	}

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
Eval evaluate this runtime component.
*/
func (rt *indexAssignRuntime) Eval() (interface{}, error) {
	name := rt.node.Val()

	index, err := rt.rtp.evalNumber(rt.node.Children[0])
	if err != nil {
		return outcomeContinue, err
	}

	val, err := rt.rtp.evalNumber(rt.node.Children[1])
	if err != nil {
		return outcomeContinue, err
	}

	if err = rt.rtp.memory.SetElement(name, listIndex(index), val); err != nil {
		err = rt.rtp.newRuntimeError(err, listErrorDetail(err, name, index), rt.node)
	}

	return outcomeContinue, err
}

/*
listIndex converts a number into a list index. Numbers which are not integral
or outside the int range give -1 so the bounds check fails.
*/
func listIndex(index float64) int {
	if index != math.Trunc(index) || index < 0 || index > math.MaxInt32 {
		return -1
	}
	return int(index)
}

/*
listErrorDetail returns the error detail for a failed list access.
*/
func listErrorDetail(err error, name string, index float64) string {
	switch err {
	case ErrUndeclaredSymbol:
		return fmt.Sprintf("Unknown list: %v", name)
	case ErrTypeMismatch:
		return fmt.Sprintf("%v is not a list", name)
	}
	return fmt.Sprintf("Index %v of list %v", FormatValue(index), name)
}

// Comment Runtime
// ===============

/*
commentRuntime does nothing.
*/
type commentRuntime struct {
	*baseRuntime
	stmt
}

/*
commentRuntimeInst returns a new runtime component instance.
*/
func commentRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &commentRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Eval evaluate this runtime component.
*/
func (rt *commentRuntime) Eval() (interface{}, error) {
	return outcomeContinue, nil
}

// Channel Runtime
// ===============

/*
channelRuntime declares a channel between two participants.
*/
type channelRuntime struct {
	*baseRuntime
	stmt
}

/*
channelRuntimeInst returns a new runtime component instance.
*/
func channelRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &channelRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *channelRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(2, 2)
	}

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkKind(c, parser.NodeIDENTIFIER, parser.NodeVALUE)
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *channelRuntime) Eval() (interface{}, error) {
	name := rt.node.Val()
	p1, p2 := rt.node.Children[0].Val(), rt.node.Children[1].Val()

	rt.rtp.symbols.Declare(p1, TypePARTICIPANT)
	rt.rtp.symbols.Declare(p2, TypePARTICIPANT)
	rt.rtp.symbols.Declare(name, TypeCHANNEL)

	c := rt.rtp.channels.Declare(name, p1, p2)

	rt.rtp.Logger.LogInfo(fmt.Sprintf("Channel created: %v", c))

	return outcomeContinue, nil
}

/*
channel looks up the channel of a send or receive node.
*/
func (rt *baseRuntime) channel() (*Channel, error) {
	c, ok := rt.rtp.channels.Channel(rt.node.Val())
	if !ok {
		return nil, rt.rtp.newRuntimeError(ErrChannelNotFound,
			fmt.Sprintf("Unknown channel: %v", rt.node.Val()), rt.node)
	}
	return c, nil
}

// Send Runtime
// ============

/*
sendRuntime sends the value of an expression on a channel.
*/
type sendRuntime struct {
	*baseRuntime
	stmt
}

/*
sendRuntimeInst returns a new runtime component instance.
*/
func sendRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &sendRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *sendRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(1, 1)
	}

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil {
		err = rt.checkExpression(rt.node.Children[0])
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *sendRuntime) Eval() (interface{}, error) {
	c, err := rt.channel()
	if err != nil {
		return outcomeContinue, err
	}

	val, err := rt.rtp.evalNumber(rt.node.Children[0])
	if err != nil {
		return outcomeContinue, err
	}

	msg := strconv.FormatFloat(val, 'g', -1, 64)

	rt.rtp.Logger.LogDebug(fmt.Sprintf("Sending %v on channel %v", msg, c.Name))

	c.Send(msg)

	return outcomeContinue, nil
}

// Receive Runtime
// ===============

/*
receiveRuntime waits for a message on a channel and binds it to a name.
*/
type receiveRuntime struct {
	*baseRuntime
	stmt
}

/*
receiveRuntimeInst returns a new runtime component instance.
*/
func receiveRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &receiveRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *receiveRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(1, 1)
	}

	if err == nil {
		err = rt.checkKind(rt.node.Children[0], parser.NodeIDENTIFIER, parser.NodeVALUE)
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *receiveRuntime) Eval() (interface{}, error) {
	c, err := rt.channel()
	if err != nil {
		return outcomeContinue, err
	}

	target := rt.node.Children[0].Val()

	rt.rtp.Logger.LogDebug(fmt.Sprintf("Waiting for message on channel %v", c.Name))

	msg := c.Receive()

	val, err := strconv.ParseFloat(strings.TrimSpace(msg), 64)
	if err != nil {
		return outcomeContinue, rt.rtp.newRuntimeError(ErrMalformedChannelPayload,
			fmt.Sprintf("Received %q on channel %v", msg, c.Name), rt.node)
	}

	rt.rtp.Logger.LogDebug(fmt.Sprintf("Received %v on channel %v", msg, c.Name))

	rt.rtp.bind(target, val)

	return outcomeContinue, nil
}

// Print Runtime
// =============

/*
printRuntime writes a display line.
*/
type printRuntime struct {
	*baseRuntime
	stmt
}

/*
printRuntimeInst returns a new runtime component instance.
*/
func printRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &printRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *printRuntime) Validate() error {
	err := rt.baseRuntime.Validate()

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkExpression(c)
		}
	}

	return err
}

/*
Eval evaluate this runtime component. String literals are printed as they
are, all other arguments are evaluated.
*/
func (rt *printRuntime) Eval() (interface{}, error) {
	var parts []string

	for _, c := range rt.node.Children {

		if c.Name == parser.NodeVALUE && isStringLiteral(c.Val()) {
			parts = append(parts, unquote(c.Val()))
			continue
		}

		val, err := rt.rtp.eval(c)
		if err != nil {
			return outcomeContinue, err
		}

		parts = append(parts, FormatValue(val))
	}

	rt.rtp.out.WriteLine(strings.Join(parts, " "))

	return outcomeContinue, nil
}

/*
isStringLiteral checks if a given value is a double quoted string.
*/
func isStringLiteral(val string) bool {
	return len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`)
}

/*
unquote removes the surrounding quotes of a string literal.
*/
func unquote(val string) string {
	return val[1 : len(val)-1]
}

// Function Definition Runtime
// ===========================

/*
defRuntime registers a function.
*/
type defRuntime struct {
	*baseRuntime
	stmt
}

/*
defRuntimeInst returns a new runtime component instance.
*/
func defRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &defRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *defRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(1, -1)
	}

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil {
		last := len(rt.node.Children) - 1

		for i, c := range rt.node.Children {
			if err == nil {
				if i == last {
					err = rt.checkKind(c, parser.NodeBLOCK)
				} else {
					err = rt.checkKind(c, parser.NodePARAM)
				}
			}
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *defRuntime) Eval() (interface{}, error) {
	rt.rtp.Logger.LogDebug(fmt.Sprintf("Defining function %v", rt.node.Val()))
	rt.rtp.functions.Register(rt.node)
	return outcomeContinue, nil
}

// Parameter Runtime
// =================

/*
paramRuntime is a parameter of a function definition.
*/
type paramRuntime struct {
	*baseRuntime
}

/*
paramRuntimeInst returns a new runtime component instance.
*/
func paramRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &paramRuntime{newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *paramRuntime) Validate() error {
	return rt.checkName()
}

/*
Eval evaluate this runtime component.
*/
func (rt *paramRuntime) Eval() (interface{}, error) {
	return rt.node.Val(), nil
}

// Return Runtime
// ==============

/*
returnRuntime leaves the current function.
*/
type returnRuntime struct {
	*baseRuntime
	stmt
}

/*
returnRuntimeInst returns a new runtime component instance.
*/
func returnRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &returnRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *returnRuntime) Validate() error {
	err := rt.checkChildren(0, 1)

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil && len(rt.node.Children) == 1 {
		err = rt.checkExpression(rt.node.Children[0])
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *returnRuntime) Eval() (interface{}, error) {
	if len(rt.node.Children) == 0 {
		return outcomeReturn(0), nil
	}

	val, err := rt.rtp.evalNumber(rt.node.Children[0])
	if err != nil {
		return outcomeContinue, err
	}

	return outcomeReturn(val), nil
}

// Call Runtime
// ============

/*
callRuntime calls a function. It can be used as statement and as expression.
*/
type callRuntime struct {
	*baseRuntime
	stmt
	expr
}

/*
callRuntimeInst returns a new runtime component instance.
*/
func callRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &callRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *callRuntime) Validate() error {
	err := rt.checkName()

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
Eval evaluate this runtime component.
*/
func (rt *callRuntime) Eval() (interface{}, error) {
	res, err := rt.rtp.callFunction(rt.node)
	if err != nil {
		return nil, err
	}
	return res, nil
}
