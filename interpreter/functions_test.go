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
	"errors"
	"fmt"
	"testing"
)

/*
Definition of a function sum(a, b) which returns a + b.
*/
const sumDef = `
  - name: def
    value: sum
    children:
    - {name: param, value: a}
    - {name: param, value: b}
    - name: block
      children:
      - name: return
        children:
        - {name: binop, value: "+", children: [{name: value, value: a}, {name: value, value: b}]}
`

func TestFunctionCall(t *testing.T) {

	out, rtp, err := runProgram(seqProgram(sumDef[1:]+`
  - {name: assign, children: [{name: identifier, value: r}, {name: call, value: sum, children: [{name: value, value: "2"}, {name: value, value: "3"}]}]}
  - {name: print, children: [{name: value, value: r}]}
  - {name: call, value: sum, children: [{name: value, value: "1"}, {name: value, value: "1"}]}
`[1:]), "")

	if err != nil || out != "5\n" {
		t.Error("Unexpected result:", out, err)
		return
	}

	if res := rtp.Memory().String(); res != `
{
    r : 5
}`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	if res := fmt.Sprint(rtp.Functions().Names()); res != "[sum]" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestFunctionIsolation(t *testing.T) {

	_, rtp, err := runProgram(seqProgram(`
  - {name: assign, children: [{name: identifier, value: x}, {name: value, value: "100"}]}
  - {name: assign, children: [{name: identifier, value: l}, {name: list, children: [{name: value, value: "1"}]}]}
  - name: def
    value: double
    children:
    - {name: param, value: v}
    - name: block
      children:
      - name: assign
        children:
        - {name: identifier, value: y}
        - {name: binop, value: "*", children: [{name: value, value: v}, {name: value, value: "2"}]}
      - {name: assign, children: [{name: identifier, value: x}, {name: value, value: "1"}]}
      - {name: indexassign, value: l, children: [{name: value, value: "0"}, {name: value, value: "7"}]}
      - name: return
        children:
        - {name: value, value: y}
  - {name: assign, children: [{name: identifier, value: r}, {name: call, value: double, children: [{name: value, value: x}]}]}
`[1:]), "")

	if err != nil {
		t.Error(err)
		return
	}

	if res := rtp.Memory().String(); res != `
{
    l : [1]
    r : 200
    x : 100
}`[1:] {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestFunctionFallThrough(t *testing.T) {

	out, _, err := runProgram(seqProgram(`
  - name: def
    value: noreturn
    children:
    - name: block
      children:
      - {name: assign, children: [{name: identifier, value: y}, {name: value, value: "5"}]}
  - name: def
    value: empty
    children:
    - name: block
      children:
      - {name: return}
  - {name: print, children: [{name: call, value: noreturn}, {name: call, value: empty}]}
`[1:]), "")

	if err != nil || out != "0 0\n" {
		t.Error("Unexpected result:", out, err)
		return
	}
}

func TestNestedReturn(t *testing.T) {

	out, _, err := runProgram(seqProgram(`
  - name: def
    value: firstabove
    children:
    - {name: param, value: limit}
    - name: block
      children:
      - name: for
        value: i
        children:
        - {name: value, value: "1"}
        - {name: value, value: "100"}
        - name: block
          children:
          - name: if
            children:
            - {name: binop, value: ">", children: [{name: value, value: i}, {name: value, value: limit}]}
            - name: block
              children:
              - {name: return, children: [{name: value, value: i}]}
      - {name: print, children: [{name: value, value: '"not reached"'}]}
  - {name: print, children: [{name: call, value: firstabove, children: [{name: value, value: "41"}]}]}
`[1:]), "")

	if err != nil || out != "42\n" {
		t.Error("Unexpected result:", out, err)
		return
	}
}

func TestRecursion(t *testing.T) {

	out, _, err := runProgram(seqProgram(`
  - name: def
    value: fact
    children:
    - {name: param, value: k}
    - name: block
      children:
      - name: if
        children:
        - {name: binop, value: "<=", children: [{name: value, value: k}, {name: value, value: "1"}]}
        - name: block
          children:
          - {name: return, children: [{name: value, value: "1"}]}
      - name: return
        children:
        - name: binop
          value: "*"
          children:
          - {name: value, value: k}
          - name: call
            value: fact
            children:
            - {name: binop, value: "-", children: [{name: value, value: k}, {name: value, value: "1"}]}
  - {name: print, children: [{name: call, value: fact, children: [{name: value, value: "5"}]}]}
`[1:]), "")

	if err != nil || out != "120\n" {
		t.Error("Unexpected result:", out, err)
		return
	}
}

func TestFunctionErrors(t *testing.T) {

	_, _, err := runProgram(seqProgram(`
  - {name: call, value: nothere}
`[1:]), "")

	if !errors.Is(err, ErrUndeclaredSymbol) || err.Error() !=
		"MiniPar error in test: Undeclared symbol (Unknown function: nothere)" {
		t.Error("Unexpected result:", err)
		return
	}

	_, _, err = runProgram(seqProgram(sumDef[1:]+`
  - {name: call, value: sum, children: [{name: value, value: "2"}]}
`[1:]), "")

	if !errors.Is(err, ErrArityMismatch) || err.Error() !=
		"MiniPar error in test: Wrong number of arguments (Function sum expects 2 arguments but got 1)" {
		t.Error("Unexpected result:", err)
		return
	}

	// Functions are registered when the definition is executed

	_, _, err = runProgram(seqProgram(`
  - {name: call, value: sum, children: [{name: value, value: "2"}, {name: value, value: "3"}]}
`[1:]+sumDef[1:]), "")

	if !errors.Is(err, ErrUndeclaredSymbol) {
		t.Error("Unexpected result:", err)
		return
	}

	// Errors inside a function restore the store

	_, rtp, err := runProgram(seqProgram(`
  - {name: assign, children: [{name: identifier, value: x}, {name: value, value: "1"}]}
  - name: def
    value: broken
    children:
    - name: block
      children:
      - {name: assign, children: [{name: identifier, value: x}, {name: value, value: "2"}]}
      - {name: print, children: [{name: value, value: nothere}]}
  - {name: call, value: broken}
`[1:]), "")

	if x, _ := rtp.Memory().Get("x"); !errors.Is(err, ErrUndeclaredSymbol) || x != 1.0 {
		t.Error("Unexpected result:", x, err)
		return
	}

	_, _, err = runProgram(seqProgram(`
  - name: def
    value: broken
    children:
    - {name: param, value: a}
`[1:]), "")

	if !errors.Is(err, ErrInvalidConstruct) || err.Error() !=
		"MiniPar error in test: Invalid construct (param not allowed in def)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestFunctionDouble(t *testing.T) {

	_, rtp, err := runProgram(seqProgram(`
  - name: def
    value: dobra
    children:
    - {name: param, value: n}
    - name: block
      children:
      - name: return
        children:
        - {name: binop, value: "*", children: [{name: value, value: n}, {name: value, value: "2"}]}
  - {name: assign, children: [{name: identifier, value: a}, {name: call, value: dobra, children: [{name: value, value: "3"}]}]}
  - {name: assign, children: [{name: identifier, value: b}, {name: call, value: dobra, children: [{name: value, value: "10"}]}]}
`[1:]), "")

	if err != nil {
		t.Error(err)
		return
	}

	a, _ := rtp.Memory().Get("a")
	b, _ := rtp.Memory().Get("b")

	if a != 6.0 || b != 20.0 {
		t.Error("Unexpected result:", a, b)
		return
	}

	// The parameter is not visible after the call

	if rtp.Memory().Has("n") {
		t.Error("Parameter should have been removed:", rtp.Memory())
		return
	}
}

func TestCallStatementResult(t *testing.T) {

	// The result of a call statement is discarded and does not leave the
	// calling function

	_, rtp, err := runProgram(seqProgram(`
  - name: def
    value: five
    children:
    - name: block
      children:
      - name: return
        children:
        - {name: value, value: "5"}
  - name: def
    value: two
    children:
    - name: block
      children:
      - {name: call, value: five}
      - name: return
        children:
        - {name: value, value: "2"}
  - {name: call, value: two}
  - {name: assign, children: [{name: identifier, value: r}, {name: call, value: two}]}
`[1:]), "")

	if err != nil {
		t.Error(err)
		return
	}

	if r, _ := rtp.Memory().Get("r"); r != 2.0 {
		t.Error("Unexpected result:", r)
		return
	}
}
