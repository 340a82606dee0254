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

	"devt.de/krotik/minipar/parser"
)

/*
checkCondition checks that a given node is a comparison.
*/
func (rt *baseRuntime) checkCondition(node *parser.ASTNode) error {
	if node.Name != parser.NodeBINOP || !parser.RelationalOperators[node.Val()] {
		return rt.rtp.newRuntimeError(ErrTypeMismatch,
			fmt.Sprintf("Condition must be a comparison not %v", node.Name), node)
	}
	return nil
}

/*
evalCondition evaluates a condition.
*/
func (rt *baseRuntime) evalCondition(node *parser.ASTNode) (bool, error) {
	val, err := rt.rtp.evalNumber(node)
	return val != 0, err
}

// If Runtime
// ==========

/*
ifRuntime runs one of two blocks depending on a condition.
*/
type ifRuntime struct {
	*baseRuntime
	stmt
}

/*
ifRuntimeInst returns a new runtime component instance.
*/
func ifRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &ifRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *ifRuntime) Validate() error {
	err := rt.checkChildren(2, 3)

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil {
		err = rt.checkCondition(rt.node.Children[0])
	}

	for _, c := range rt.node.Children[1:] {
		if err == nil {
			err = rt.checkKind(c, parser.NodeBLOCK)
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *ifRuntime) Eval() (interface{}, error) {
	cond, err := rt.evalCondition(rt.node.Children[0])
	if err != nil {
		return outcomeContinue, err
	}

	if cond {
		return rt.rtp.exec(rt.node.Children[1])
	}

	if len(rt.node.Children) == 3 {
		return rt.rtp.exec(rt.node.Children[2])
	}

	return outcomeContinue, nil
}

// While Runtime
// =============

/*
whileRuntime runs a block as long as a condition holds.
*/
type whileRuntime struct {
	*baseRuntime
	stmt
}

/*
whileRuntimeInst returns a new runtime component instance.
*/
func whileRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &whileRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *whileRuntime) Validate() error {
	err := rt.checkChildren(2, 2)

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil {
		err = rt.checkCondition(rt.node.Children[0])
	}

	if err == nil {
		err = rt.checkKind(rt.node.Children[1], parser.NodeBLOCK)
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *whileRuntime) Eval() (interface{}, error) {
	for {
		cond, err := rt.evalCondition(rt.node.Children[0])
		if err != nil || !cond {
			return outcomeContinue, err
		}

		res, err := rt.rtp.exec(rt.node.Children[1])
		if err != nil || res.returned {
			return res, err
		}
	}
}

// For Runtime
// ===========

/*
forRuntime runs a block for each number of an inclusive range or for each
element of a list.
*/
type forRuntime struct {
	*baseRuntime
	stmt
}

/*
forRuntimeInst returns a new runtime component instance.
*/
func forRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &forRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *forRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(2, 3)
	}

	if err == nil {
		err = rt.baseRuntime.Validate()
	}

	if err == nil {
		last := len(rt.node.Children) - 1

		for _, c := range rt.node.Children[:last] {
			if err == nil {
				err = rt.checkExpression(c)
			}
		}

		if err == nil {
			err = rt.checkKind(rt.node.Children[last], parser.NodeBLOCK)
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *forRuntime) Eval() (interface{}, error) {
	if len(rt.node.Children) == 3 {
		return rt.evalRange()
	}
	return rt.evalList()
}

/*
evalRange runs the loop over an inclusive range. The start value is
truncated to an integer. Both bounds are evaluated once.
*/
func (rt *forRuntime) evalRange() (outcome, error) {
	start, err := rt.rtp.evalNumber(rt.node.Children[0])
	if err != nil {
		return outcomeContinue, err
	}

	end, err := rt.rtp.evalNumber(rt.node.Children[1])
	if err != nil {
		return outcomeContinue, err
	}

	for i := math.Trunc(start); i <= end; i++ {
		rt.rtp.bind(rt.node.Val(), i)

		res, err := rt.rtp.exec(rt.node.Children[2])
		if err != nil || res.returned {
			return res, err
		}
	}

	return outcomeContinue, nil
}

/*
evalList runs the loop over a copy of a list value.
*/
func (rt *forRuntime) evalList() (outcome, error) {
	iterable := rt.node.Children[0]

	val, err := rt.rtp.eval(iterable)
	if err != nil {
		return outcomeContinue, err
	}

	list, ok := val.([]interface{})
	if !ok {
		return outcomeContinue, rt.rtp.newRuntimeError(ErrTypeMismatch,
			fmt.Sprintf("Cannot iterate over %v", FormatValue(val)), iterable)
	}

	for _, e := range copyValue(list).([]interface{}) {
		f, ok := e.(float64)
		if !ok {
			return outcomeContinue, rt.rtp.newRuntimeError(ErrTypeMismatch,
				fmt.Sprintf("List element is not a number: %v", FormatValue(e)), iterable)
		}

		rt.rtp.bind(rt.node.Val(), f)

		res, err := rt.rtp.exec(rt.node.Children[1])
		if err != nil || res.returned {
			return res, err
		}
	}

	return outcomeContinue, nil
}
