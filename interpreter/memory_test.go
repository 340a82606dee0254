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
	"testing"
)

func TestValueStore(t *testing.T) {
	vs := NewValueStore()

	vs.Set("a", 1.0)
	vs.Set("l", []interface{}{1.0, 2.0})

	if !vs.Has("a") || vs.Has("b") {
		t.Error("Unexpected result")
		return
	}

	snap := vs.Snapshot()

	if err := vs.SetElement("l", 0, 5.0); err != nil {
		t.Error(err)
		return
	}
	vs.Set("b", 2.0)

	if res := vs.String(); res != `
{
    a : 1
    b : 2
    l : [5, 2]
}`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	// Snapshots are not affected by later changes

	if res := FormatValue(snap["l"]); res != "[1, 2]" || len(snap) != 2 {
		t.Error("Unexpected result:", res, snap)
		return
	}

	vs.Restore(snap)

	if res := vs.String(); res != `
{
    a : 1
    l : [1, 2]
}`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	// The restored content is independent of the snapshot

	snap["l"].([]interface{})[1] = 9.0

	if v, err := vs.Element("l", 1); err != nil || v != 2.0 {
		t.Error("Unexpected result:", v, err)
		return
	}

	if _, err := vs.Element("l", 2); err != ErrIndexOutOfBounds {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := vs.Element("a", 0); err != ErrTypeMismatch {
		t.Error("Unexpected result:", err)
		return
	}

	if err := vs.SetElement("x", 0, 1.0); err != ErrUndeclaredSymbol {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestFormatValue(t *testing.T) {

	if res := FormatValue(3.0); res != "3" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := FormatValue(-0.25); res != "-0.25" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := FormatValue([]interface{}{}); res != "[]" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := FormatValue([]interface{}{1.0, []interface{}{2.5}}); res != "[1, [2.5]]" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := FormatValue("foo"); res != "foo" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestSymbolTable(t *testing.T) {
	st := NewSymbolTable(map[string]string{"a": TypeFLOAT})

	if st.Declare("a", TypeINT) || !st.Declare("b", TypeLIST) {
		t.Error("Unexpected result")
		return
	}

	if tag, ok := st.Type("a"); !ok || tag != TypeFLOAT {
		t.Error("Unexpected result:", tag, ok)
		return
	}

	snap := st.Snapshot()
	st.Declare("c", TypeCHANNEL)

	if res := fmt.Sprint(snap); res != "map[a:float b:list]" {
		t.Error("Unexpected result:", res)
		return
	}

	if typeTag(2.0) != TypeINT || typeTag(2.5) != TypeFLOAT || typeTag([]interface{}{}) != TypeLIST {
		t.Error("Unexpected type tags")
		return
	}
}
