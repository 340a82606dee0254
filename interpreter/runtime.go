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

	"devt.de/krotik/minipar/parser"
	"golang.org/x/sync/errgroup"
)

// Control outcome
// ===============

/*
outcome is the result of executing a statement. A return statement produces
an outcome which carries the return value up to the enclosing call.
*/
type outcome struct {
	returned bool
	value    float64
}

/*
outcomeContinue continues with the next statement.
*/
var outcomeContinue = outcome{}

/*
outcomeReturn leaves the current function with a given value.
*/
func outcomeReturn(val float64) outcome {
	return outcome{true, val}
}

/*
statementRuntime is a runtime component which can be executed as a
statement. Its Eval function returns an outcome.
*/
type statementRuntime interface {
	parser.Runtime
	statement()
}

/*
expressionRuntime is a runtime component which produces a value.
*/
type expressionRuntime interface {
	parser.Runtime
	expression()
}

type stmt struct{}

func (stmt) statement() {}

type expr struct{}

func (expr) expression() {}

// Base Runtime
// ============

/*
baseRuntime contains the fields and helpers shared by all runtime components.
*/
type baseRuntime struct {
	rtp  *MiniParRuntimeProvider
	node *parser.ASTNode
}

/*
newBaseRuntime returns a new baseRuntime instance.
*/
func newBaseRuntime(rtp *MiniParRuntimeProvider, node *parser.ASTNode) *baseRuntime {
	return &baseRuntime{rtp, node}
}

/*
Validate all child components.
*/
func (rt *baseRuntime) Validate() error {
	for _, c := range rt.node.Children {
		if err := c.Runtime.Validate(); err != nil {
			return err
		}
	}
	return nil
}

/*
checkChildren checks the number of children. Use -1 as max for no limit.
*/
func (rt *baseRuntime) checkChildren(min int, max int) error {
	l := len(rt.node.Children)

	if l < min || (max != -1 && l > max) {
		var expected string

		switch {
		case min == max:
			expected = fmt.Sprint(min)
		case max == -1:
			expected = fmt.Sprintf("at least %v", min)
		default:
			expected = fmt.Sprintf("%v to %v", min, max)
		}

		return rt.rtp.newRuntimeError(ErrInvalidConstruct,
			fmt.Sprintf("%v expects %v children got %v", rt.node.Name, expected, l), rt.node)
	}

	return nil
}

/*
checkStatement checks that a given node can be executed as a statement.
*/
func (rt *baseRuntime) checkStatement(node *parser.ASTNode) error {
	if _, ok := node.Runtime.(statementRuntime); !ok {
		return rt.rtp.newRuntimeError(ErrUnknownStatement,
			fmt.Sprintf("Cannot execute %v", node.Name), node)
	}
	return nil
}

/*
checkExpression checks that a given node produces a value.
*/
func (rt *baseRuntime) checkExpression(node *parser.ASTNode) error {
	if _, ok := node.Runtime.(expressionRuntime); !ok {
		return rt.rtp.newRuntimeError(ErrInvalidConstruct,
			fmt.Sprintf("Not an expression: %v", node.Name), node)
	}
	return nil
}

/*
checkKind checks that a given node has one of the given kinds.
*/
func (rt *baseRuntime) checkKind(node *parser.ASTNode, kinds ...string) error {
	for _, k := range kinds {
		if node.Name == k {
			return nil
		}
	}
	return rt.rtp.newRuntimeError(ErrInvalidConstruct,
		fmt.Sprintf("%v not allowed in %v", node.Name, rt.node.Name), node)
}

/*
checkName checks that this node carries a name in its value.
*/
func (rt *baseRuntime) checkName() error {
	if rt.node.Val() == "" {
		return rt.rtp.newRuntimeError(ErrInvalidConstruct,
			fmt.Sprintf("%v without name", rt.node.Name), rt.node)
	}
	return nil
}

// Invalid Runtime
// ===============

/*
invalidRuntime is used for unknown node kinds.
*/
type invalidRuntime struct {
	*baseRuntime
}

/*
invalidRuntimeInst returns a new runtime component instance.
*/
func invalidRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &invalidRuntime{newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *invalidRuntime) Validate() error {
	return rt.rtp.newRuntimeError(ErrUnknownStatement,
		fmt.Sprintf("Unknown node kind: %v", rt.node.Name), rt.node)
}

/*
Eval evaluate this runtime component.
*/
func (rt *invalidRuntime) Eval() (interface{}, error) {
	return nil, rt.Validate()
}

// Program Runtime
// ===============

/*
programRuntime is the root of a program. It runs its blocks in order.
*/
type programRuntime struct {
	*baseRuntime
}

/*
programRuntimeInst returns a new runtime component instance.
*/
func programRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &programRuntime{newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *programRuntime) Validate() error {
	err := rt.baseRuntime.Validate()

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkKind(c, parser.NodeSEQ, parser.NodePAR)
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *programRuntime) Eval() (interface{}, error) {
	rt.rtp.Logger.LogDebug(fmt.Sprintf("Executing program %v", rt.rtp.Name))

	for _, c := range rt.node.Children {
		res, err := rt.rtp.exec(c)

		if err != nil {
			return nil, err
		}

		if res.returned {
			return nil, rt.rtp.newRuntimeError(ErrInvalidConstruct,
				"Return outside of function", c)
		}
	}

	return nil, nil
}

// Sequential Block Runtime
// ========================

/*
seqRuntime runs its statements one after another.
*/
type seqRuntime struct {
	*baseRuntime
	stmt
}

/*
seqRuntimeInst returns a new runtime component instance.
*/
func seqRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &seqRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *seqRuntime) Validate() error {
	err := rt.baseRuntime.Validate()

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkStatement(c)
		}
	}

	return err
}

/*
Eval evaluate this runtime component.
*/
func (rt *seqRuntime) Eval() (interface{}, error) {
	if rt.node.Name == parser.NodeSEQ {
		rt.rtp.Logger.LogDebug("Executing seq block")
	}

	for _, c := range rt.node.Children {
		res, err := rt.rtp.exec(c)

		if err != nil || res.returned {
			return res, err
		}
	}

	return outcomeContinue, nil
}

// Parallel Block Runtime
// ======================

/*
parRuntime runs every child on its own goroutine and waits for all of them.
*/
type parRuntime struct {
	*baseRuntime
	stmt
}

/*
parRuntimeInst returns a new runtime component instance.
*/
func parRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &parRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *parRuntime) Validate() error {
	err := rt.baseRuntime.Validate()

	for _, c := range rt.node.Children {
		if err == nil {
			err = rt.checkStatement(c)
		}
	}

	return err
}

/*
Eval evaluate this runtime component. The first error of a child is returned
after all children have finished. A return from a child is passed on after
the join; the child with the lowest index wins.
*/
func (rt *parRuntime) Eval() (interface{}, error) {
	var g errgroup.Group

	rt.rtp.Logger.LogDebug(fmt.Sprintf("Executing par block with %v threads",
		len(rt.node.Children)))

	results := make([]outcome, len(rt.node.Children))

	for i, c := range rt.node.Children {
		i, c := i, c

		g.Go(func() error {
			res, err := rt.rtp.exec(c)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return outcomeContinue, err
	}

	for _, res := range results {
		if res.returned {
			return res, nil
		}
	}

	return outcomeContinue, nil
}
