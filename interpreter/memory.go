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
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

/*
ValueStore is the single name to value mapping of a session. It is shared by
all threads of control. Every operation on the store is atomic.
*/
type ValueStore struct {
	values map[string]interface{}
	lock   *sync.RWMutex
}

/*
NewValueStore creates a new empty value store.
*/
func NewValueStore() *ValueStore {
	return &ValueStore{make(map[string]interface{}), &sync.RWMutex{}}
}

/*
Get returns the value of a given name.
*/
func (vs *ValueStore) Get(name string) (interface{}, bool) {
	vs.lock.RLock()
	defer vs.lock.RUnlock()

	val, ok := vs.values[name]

	return val, ok
}

/*
Has checks if a value is bound to a given name.
*/
func (vs *ValueStore) Has(name string) bool {
	_, ok := vs.Get(name)
	return ok
}

/*
Set binds a value to a given name.
*/
func (vs *ValueStore) Set(name string, val interface{}) {
	vs.lock.Lock()
	defer vs.lock.Unlock()

	vs.values[name] = val
}

/*
Element returns an element of a list value. The index is checked against the
current length of the list.
*/
func (vs *ValueStore) Element(name string, index int) (interface{}, error) {
	vs.lock.RLock()
	defer vs.lock.RUnlock()

	list, err := vs.list(name, index)
	if err != nil {
		return nil, err
	}

	return list[index], nil
}

/*
SetElement replaces an element of a list value in place. The index is checked
against the current length of the list.
*/
func (vs *ValueStore) SetElement(name string, index int, val interface{}) error {
	vs.lock.Lock()
	defer vs.lock.Unlock()

	list, err := vs.list(name, index)
	if err == nil {
		list[index] = val
	}

	return err
}

/*
list looks up a list value and checks a given index. Caller must hold the lock.
*/
func (vs *ValueStore) list(name string, index int) ([]interface{}, error) {
	val, ok := vs.values[name]
	if !ok {
		return nil, ErrUndeclaredSymbol
	}

	list, ok := val.([]interface{})
	if !ok {
		return nil, ErrTypeMismatch
	}

	if index < 0 || index >= len(list) {
		return nil, ErrIndexOutOfBounds
	}

	return list, nil
}

/*
Snapshot returns a deep copy of the current content of the store.
*/
func (vs *ValueStore) Snapshot() map[string]interface{} {
	vs.lock.RLock()
	defer vs.lock.RUnlock()

	ret := make(map[string]interface{}, len(vs.values))

	for k, v := range vs.values {
		ret[k] = copyValue(v)
	}

	return ret
}

/*
Restore replaces the whole content of the store with a given snapshot.
*/
func (vs *ValueStore) Restore(snapshot map[string]interface{}) {
	vs.lock.Lock()
	defer vs.lock.Unlock()

	vs.values = make(map[string]interface{}, len(snapshot))

	for k, v := range snapshot {
		vs.values[k] = copyValue(v)
	}
}

/*
Keys returns all bound names in ascending order.
*/
func (vs *ValueStore) Keys() []string {
	vs.lock.RLock()
	defer vs.lock.RUnlock()

	ret := make([]string, 0, len(vs.values))
	for k := range vs.values {
		ret = append(ret, k)
	}
	sort.Strings(ret)

	return ret
}

/*
String returns a string representation of this value store.
*/
func (vs *ValueStore) String() string {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	for _, k := range vs.Keys() {
		v, _ := vs.Get(k)
		buf.WriteString(fmt.Sprintf("    %v : %v\n", k, FormatValue(v)))
	}

	buf.WriteString("}")

	return buf.String()
}

/*
copyValue copies a runtime value. Lists are cloned.
*/
func copyValue(v interface{}) interface{} {
	if list, ok := v.([]interface{}); ok {
		ret := make([]interface{}, len(list))
		for i, e := range list {
			ret[i] = copyValue(e)
		}
		return ret
	}
	return v
}

/*
FormatValue returns the display form of a runtime value. Numbers are shown
without a trailing fraction if they are integral, lists are shown as [a, b, c].
*/
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)

	case []interface{}:
		var buf bytes.Buffer

		buf.WriteString("[")
		for i, e := range val {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(FormatValue(e))
		}
		buf.WriteString("]")

		return buf.String()
	}

	return fmt.Sprint(v)
}
