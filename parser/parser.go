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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"devt.de/krotik/common/errorutil"
	"gopkg.in/yaml.v3"
)

/*
Parse decodes a given AST document into an AST. The document can be given in
JSON or YAML notation. The root of the document must be a program node.
*/
func Parse(name string, input string) (*ASTNode, error) {
	var obj map[string]interface{}
	var err error

	trimmed := strings.TrimSpace(input)

	if trimmed == "" {
		return nil, newParserError(name, ErrInvalidDocument, "Empty document", "")
	}

	if strings.HasPrefix(trimmed, "{") {
		err = json.Unmarshal([]byte(trimmed), &obj)
	} else {
		err = yaml.Unmarshal([]byte(trimmed), &obj)
	}

	if err != nil {
		return nil, newParserError(name, ErrInvalidDocument, err.Error(), "")
	}

	ast, err := astFromObject(name, obj)

	if err == nil && ast.Name != NodePROGRAM {
		err = newParserError(name, ErrUnexpectedRoot,
			fmt.Sprintf("Expected %v got %v", NodePROGRAM, ast.Name), ast.Name)
	}

	if err != nil {
		return nil, err
	}

	return ast, nil
}

/*
ParseWithRuntime decodes a given AST document and decorates the resulting AST
with runtime components.
*/
func ParseWithRuntime(name string, input string, rp RuntimeProvider) (*ASTNode, error) {
	ast, err := Parse(name, input)

	if err == nil {
		AddRuntime(ast, rp)
	}

	return ast, err
}

/*
AddRuntime decorates a given AST and all its children with runtime components
from a given RuntimeProvider.
*/
func AddRuntime(ast *ASTNode, rp RuntimeProvider) {
	for _, child := range ast.Children {
		AddRuntime(child, rp)
	}
	ast.Runtime = rp.Runtime(ast)
}

/*
ASTFromJSONObject creates an AST from a JSON Object. The following nested map
structure is expected:

	{
		name     : <name of node>

		// Optional node information
		value    : <value of node>
		line     : <line of node>
		pos      : <pos of node>

		// Optional
		children : [ <child node>, ... ]
	}
*/
func ASTFromJSONObject(jsonAST map[string]interface{}) (*ASTNode, error) {
	return astFromObject("JSON object", jsonAST)
}

/*
astFromObject converts a decoded document into an AST. All errors in the
document are collected.
*/
func astFromObject(source string, obj map[string]interface{}) (*ASTNode, error) {
	ce := errorutil.NewCompositeError()

	var first error
	addError := func(err error) {
		if first == nil {
			first = err
		}
		ce.Add(err)
	}

	ast := nodeFromObject(source, obj, "", addError)

	if ce.HasErrors() {
		if len(ce.Errors) == 1 {
			return nil, first
		}
		return nil, ce
	}

	return ast, nil
}

/*
nodeFromObject converts a single node and its children.
*/
func nodeFromObject(source string, obj map[string]interface{}, path string,
	addError func(error)) *ASTNode {

	name, ok := obj["name"]
	if !ok || strings.TrimSpace(fmt.Sprint(name)) == "" {
		addError(newParserError(source, ErrMissingName, fmt.Sprint(obj), path))
		return nil
	}

	nodeName := fmt.Sprint(name)

	if path == "" {
		path = nodeName
	} else {
		path = path + " > " + nodeName
	}

	token := &LexToken{}

	if val, ok := obj["value"]; ok && val != nil {
		token.Val = valueString(val)
	}

	token.Lline = intFromObject(source, obj, "line", path, addError)
	token.Lpos = intFromObject(source, obj, "pos", path, addError)

	var children []*ASTNode

	if raw, ok := obj["children"]; ok && raw != nil {
		for _, c := range childObjects(source, raw, path, addError) {
			if child := nodeFromObject(source, c, path, addError); child != nil {
				children = append(children, child)
			}
		}
	}

	return &ASTNode{nodeName, token, children, nil}
}

/*
valueString converts a decoded node value into its literal text. Numbers are
written in plain decimal notation.
*/
func valueString(val interface{}) string {
	switch v := val.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}

	return fmt.Sprint(val)
}

/*
childObjects returns the child objects of a node. Decoded JSON produces lists
of interfaces, ToJSONObject produces lists of maps.
*/
func childObjects(source string, raw interface{}, path string,
	addError func(error)) []map[string]interface{} {

	var ret []map[string]interface{}

	switch list := raw.(type) {
	case []map[string]interface{}:
		ret = list

	case []interface{}:
		for _, item := range list {
			if m, ok := item.(map[string]interface{}); ok {
				ret = append(ret, m)
			} else {
				addError(newParserError(source, ErrInvalidNode,
					fmt.Sprintf("Child is not an object: %v", item), path))
			}
		}

	default:
		addError(newParserError(source, ErrInvalidNode,
			fmt.Sprintf("Children must be a list: %v", raw), path))
	}

	return ret
}

/*
intFromObject reads an optional integer value from a node object.
*/
func intFromObject(source string, obj map[string]interface{}, key string, path string,
	addError func(error)) int {

	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0
	}

	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}

	i, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		addError(newParserError(source, ErrInvalidNode,
			fmt.Sprintf("Value of %v is not a number: %v", key, raw), path))
	}

	return i
}
