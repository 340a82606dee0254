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
	"sort"
	"sync"

	"devt.de/krotik/minipar/parser"
)

/*
FunctionRegistry holds all function definitions of a session.
*/
type FunctionRegistry struct {
	funcs map[string]*parser.ASTNode
	lock  *sync.RWMutex
}

/*
NewFunctionRegistry creates a new function registry.
*/
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{make(map[string]*parser.ASTNode), &sync.RWMutex{}}
}

/*
Register stores a def node under its function name. A previous definition is
overwritten.
*/
func (fr *FunctionRegistry) Register(def *parser.ASTNode) {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	fr.funcs[def.Val()] = def
}

/*
Lookup returns the def node of a function.
*/
func (fr *FunctionRegistry) Lookup(name string) (*parser.ASTNode, bool) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	def, ok := fr.funcs[name]

	return def, ok
}

/*
Names returns the names of all functions in ascending order.
*/
func (fr *FunctionRegistry) Names() []string {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	var ret []string
	for k := range fr.funcs {
		ret = append(ret, k)
	}
	sort.Strings(ret)

	return ret
}

/*
callFunction executes a function call. Arguments are evaluated in the store
of the caller. The store is restored after the body ran, no matter how the
body was left.
*/
func (rtp *MiniParRuntimeProvider) callFunction(node *parser.ASTNode) (float64, error) {
	name := node.Val()

	def, ok := rtp.functions.Lookup(name)
	if !ok {
		return 0, rtp.newRuntimeError(ErrUndeclaredSymbol,
			fmt.Sprintf("Unknown function: %v", name), node)
	}

	params, body := def.Children[:len(def.Children)-1], def.Children[len(def.Children)-1]

	if len(params) != len(node.Children) {
		return 0, rtp.newRuntimeError(ErrArityMismatch,
			fmt.Sprintf("Function %v expects %v arguments but got %v",
				name, len(params), len(node.Children)), node)
	}

	args := make([]interface{}, len(node.Children))

	for i, arg := range node.Children {
		val, err := rtp.eval(arg)
		if err != nil {
			return 0, err
		}
		args[i] = copyValue(val)
	}

	frame := rtp.memory.Snapshot()
	defer rtp.memory.Restore(frame)

	for i, param := range params {
		rtp.bind(param.Val(), args[i])
	}

	rtp.Logger.LogDebug(fmt.Sprintf("Calling function %v", name))

	res, err := rtp.exec(body)
	if err != nil || !res.returned {
		return 0, err
	}

	return res.value, nil
}
