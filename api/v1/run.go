/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/datautil"
	"devt.de/krotik/minipar/api"
	"devt.de/krotik/minipar/interpreter"
	"devt.de/krotik/minipar/parser"
)

/*
ResultCacheMaxSize is the maximum size for the result cache
*/
var ResultCacheMaxSize uint64

/*
ResultCacheMaxAge is the maximum age a result cache entry can have in seconds
*/
var ResultCacheMaxAge int64

/*
ResultCache is a cache for run results (by default no expiry and no limit)
*/
var ResultCache *datautil.MapCache

/*
EndpointRun is the run endpoint URL (rooted). Handles everything under run/...
*/
const EndpointRun = api.APIRoot + APIv1 + "/run/"

/*
RunEndpointInst creates a new endpoint handler.
*/
func RunEndpointInst() api.RestEndpointHandler {
	initResultCache()
	return &runEndpoint{}
}

/*
initResultCache creates the result cache if necessary.
*/
func initResultCache() {
	if ResultCache == nil {
		ResultCache = datautil.NewMapCache(ResultCacheMaxSize, ResultCacheMaxAge)
	}
}

/*
Handler object for program runs.
*/
type runEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandlePOST runs a program.

The body of the request is a JSON object:

	{
		program : <AST object or AST document as JSON or YAML string>
		name    : <optional name of the program>
		input   : <optional input lines>
		symbols : <optional declaration table { name : type tag }>
	}
*/
func (re *runEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "") {
		return
	}

	data := make(map[string]interface{})

	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "Could not decode request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	req, err := newRunRequest(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := req.run(nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ResultCache.Put(res.ID, res)

	writeResult(w, res)
}

/*
HandleGET returns the result of a previous run.
*/
func (re *runEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a run ID") {
		return
	}

	res, ok := ResultCache.Get(resources[0])
	if !ok {
		http.Error(w, "Unknown run ID", http.StatusBadRequest)
		return
	}

	writeResult(w, res.(*RunResult))
}

/*
HandleDELETE removes the result of a previous run.
*/
func (re *runEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a run ID") {
		return
	}

	if _, ok := ResultCache.Get(resources[0]); !ok {
		http.Error(w, "Unknown run ID", http.StatusBadRequest)
		return
	}

	ResultCache.Remove(resources[0])
}

/*
writeResult writes a run result as JSON.
*/
func writeResult(w http.ResponseWriter, res *RunResult) {
	w.Header().Set("content-type", "application/json; charset=utf-8")

	ret := json.NewEncoder(w)
	ret.Encode(res)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (re *runEndpoint) SwaggerDefs(s map[string]interface{}) {

	runID := []map[string]interface{}{
		{
			"name":        "id",
			"in":          "path",
			"description": "ID of a previous run.",
			"required":    true,
			"type":        "string",
		},
	}

	errorResponse := map[string]interface{}{
		"description": "Error response",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/Error",
		},
	}

	resultResponse := map[string]interface{}{
		"description": "The result of a program run.",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/RunResult",
		},
	}

	s["paths"].(map[string]interface{})["/v1/run"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Run a program.",
			"description": "The program is given as AST document. Runtime errors are part of the result.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "run",
					"in":          "body",
					"description": "Program and input of the run.",
					"required":    true,
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"program": map[string]interface{}{
								"description": "AST object or AST document as JSON or YAML string.",
							},
							"name": map[string]interface{}{
								"description": "Name of the program.",
								"type":        "string",
							},
							"input": map[string]interface{}{
								"description": "Input lines of the program.",
								"type":        "string",
							},
							"symbols": map[string]interface{}{
								"description": "Declaration table of the program.",
								"type":        "object",
							},
						},
					},
				},
			},
			"responses": map[string]interface{}{
				"200":     resultResponse,
				"default": errorResponse,
			},
		},
	}

	s["paths"].(map[string]interface{})["/v1/run/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return the result of a previous run.",
			"description": "Results are kept in a cache.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": runID,
			"responses": map[string]interface{}{
				"200":     resultResponse,
				"default": errorResponse,
			},
		},
		"delete": map[string]interface{}{
			"summary":     "Remove the result of a previous run.",
			"description": "The result is removed from the cache.",
			"produces": []string{
				"text/plain",
			},
			"parameters": runID,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The result was removed.",
				},
				"default": errorResponse,
			},
		},
	}

	s["definitions"].(map[string]interface{})["RunResult"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"description": "ID of the run.",
				"type":        "string",
			},
			"output": map[string]interface{}{
				"description": "Display lines of the run.",
				"type":        "array",
				"items": map[string]interface{}{
					"type": "string",
				},
			},
			"memory": map[string]interface{}{
				"description": "Values of the program after the run.",
				"type":        "object",
			},
			"symbols": map[string]interface{}{
				"description": "Declaration table after the run.",
				"type":        "object",
			},
			"channels": map[string]interface{}{
				"description": "Declared channels.",
				"type":        "array",
				"items": map[string]interface{}{
					"type": "string",
				},
			},
			"functions": map[string]interface{}{
				"description": "Defined functions.",
				"type":        "array",
				"items": map[string]interface{}{
					"type": "string",
				},
			},
			"error": map[string]interface{}{
				"description": "Runtime error which stopped the run.",
				"type":        "string",
			},
		},
	}
}

// Program runs
// ============

/*
RunResult is the result of a program run.
*/
type RunResult struct {
	ID        string                 `json:"id"`
	Output    []string               `json:"output"`
	Memory    map[string]interface{} `json:"memory"`
	Symbols   map[string]string      `json:"symbols"`
	Channels  []string               `json:"channels"`
	Functions []string               `json:"functions"`
	Error     string                 `json:"error"`
}

/*
runRequest is a request to run a program.
*/
type runRequest struct {
	name    string
	program string
	input   string
	symbols map[string]string
}

/*
newRunRequest creates a run request from a decoded JSON object.
*/
func newRunRequest(data map[string]interface{}) (*runRequest, error) {
	req := &runRequest{name: "api"}

	switch program := data["program"].(type) {
	case string:
		req.program = program

	case map[string]interface{}:
		doc, err := json.Marshal(program)
		if err != nil {
			return nil, err
		}
		req.program = string(doc)

	case nil:
		return nil, fmt.Errorf("Need a program")

	default:
		return nil, fmt.Errorf("Program must be an AST object or an AST document")
	}

	if name, ok := data["name"]; ok && name != nil {
		req.name = fmt.Sprint(name)
	}

	if input, ok := data["input"]; ok && input != nil {
		req.input = fmt.Sprint(input)
	}

	if symbols, ok := data["symbols"]; ok && symbols != nil {
		sm, ok := symbols.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("Symbols must be an object")
		}

		req.symbols = make(map[string]string)
		for k, v := range sm {
			req.symbols[k] = fmt.Sprint(v)
		}
	}

	return req, nil
}

/*
run runs the requested program in a new session. A given handler is called
for every display line. Returns an error if the program could not be decoded.
Runtime errors are part of the result.
*/
func (req *runRequest) run(lineHandler func(string)) (*RunResult, error) {
	rtp := api.NewRuntimeProvider(req.name)

	if req.symbols != nil {
		rtp.SetSymbols(interpreter.NewSymbolTable(req.symbols))
	}

	lc := &lineCollector{[]string{}, lineHandler}

	rtp.SetOutput(lc)
	rtp.SetInput(strings.NewReader(req.input))

	ast, err := parser.ParseWithRuntime(req.name, req.program, rtp)
	if err != nil {
		return nil, err
	}

	res := &RunResult{ID: fmt.Sprintf("%x", cryptutil.GenerateUUID())}

	if err := rtp.Execute(ast); err != nil {
		res.Error = err.Error()
		api.Logger.LogError(err)
	}

	res.Output = lc.lines
	res.Memory = jsonValues(rtp.Memory().Snapshot())
	res.Symbols = rtp.Symbols().Snapshot()
	res.Channels = nonNil(rtp.Channels().Names())
	res.Functions = nonNil(rtp.Functions().Names())

	return res, nil
}

/*
lineCollector collects display lines. The runtime passes every display line
in a single Write call.
*/
type lineCollector struct {
	lines   []string
	handler func(string)
}

/*
Write records a display line.
*/
func (lc *lineCollector) Write(p []byte) (int, error) {
	line := strings.TrimSuffix(string(p), "\n")

	lc.lines = append(lc.lines, line)

	if lc.handler != nil {
		lc.handler(line)
	}

	return len(p), nil
}

/*
jsonValues converts runtime values into values which can be encoded as JSON.
Numbers which have no JSON representation are given in their display form.
*/
func jsonValues(values map[string]interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(values))

	for k, v := range values {
		ret[k] = jsonValue(v)
	}

	return ret
}

func jsonValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return interpreter.FormatValue(val)
		}

	case []interface{}:
		ret := make([]interface{}, len(val))
		for i, e := range val {
			ret[i] = jsonValue(e)
		}
		return ret
	}

	return v
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
