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
	"math"
	"sync"
)

/*
Type tags of the declaration table
*/
const (
	TypeINT         = "int"
	TypeFLOAT       = "float"
	TypeLIST        = "list"
	TypeCHANNEL     = "channel"
	TypePARTICIPANT = "participant"
)

/*
SymbolTable records a coarse type tag for every declared name. It is seeded
by the front end and only extended at runtime.
*/
type SymbolTable struct {
	symbols map[string]string
	lock    *sync.RWMutex
}

/*
NewSymbolTable creates a new declaration table with optional seed entries.
*/
func NewSymbolTable(seed map[string]string) *SymbolTable {
	st := &SymbolTable{make(map[string]string), &sync.RWMutex{}}

	for k, v := range seed {
		st.symbols[k] = v
	}

	return st
}

/*
Declare records a name with a given type tag if the name is not yet known.
Returns true if the name was added.
*/
func (st *SymbolTable) Declare(name string, tag string) bool {
	st.lock.Lock()
	defer st.lock.Unlock()

	if _, ok := st.symbols[name]; ok {
		return false
	}

	st.symbols[name] = tag

	return true
}

/*
Type returns the type tag of a given name.
*/
func (st *SymbolTable) Type(name string) (string, bool) {
	st.lock.RLock()
	defer st.lock.RUnlock()

	tag, ok := st.symbols[name]

	return tag, ok
}

/*
Snapshot returns a copy of the declaration table.
*/
func (st *SymbolTable) Snapshot() map[string]string {
	st.lock.RLock()
	defer st.lock.RUnlock()

	ret := make(map[string]string, len(st.symbols))
	for k, v := range st.symbols {
		ret[k] = v
	}

	return ret
}

/*
typeTag returns the type tag of a runtime value.
*/
func typeTag(v interface{}) string {
	if f, ok := v.(float64); ok {
		if f == math.Trunc(f) {
			return TypeINT
		}
		return TypeFLOAT
	}
	return TypeLIST
}
