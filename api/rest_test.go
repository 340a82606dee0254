/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/ecal/util"
	"devt.de/krotik/minipar/config"
	"devt.de/krotik/minipar/interpreter"
)

const TESTPORT = ":9595"

var lastRes []string

type testEndpoint struct {
	*DefaultEndpointHandler
}

/*
HandleGET records the given resources.
*/
func (te *testEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	lastRes = resources
	te.DefaultEndpointHandler.HandleGET(w, r, resources)
}

func (te *testEndpoint) SwaggerDefs(s map[string]interface{}) {
}

var testEndpointMap = map[string]RestEndpointInst{
	"/": func() RestEndpointHandler {
		return &testEndpoint{}
	},
}

func TestEndpointHandling(t *testing.T) {

	hs, wg := startServer()
	if hs == nil {
		return
	}
	defer func() {
		stopServer(hs, wg)
	}()

	queryURL := "http://localhost" + TESTPORT

	RegisterRestEndpoints(testEndpointMap)
	RegisterRestEndpoints(GeneralEndpointMap)

	lastRes = nil

	if res := sendTestRequest(queryURL, "GET", nil); res != "Method Not Allowed" {
		t.Error("Unexpected response:", res)
		return
	}

	if lastRes != nil {
		t.Error("Unexpected lastRes:", lastRes)
	}

	lastRes = nil

	if res := sendTestRequest(queryURL+"/foo/bar/", "GET", nil); res != "Method Not Allowed" {
		t.Error("Unexpected response:", res)
		return
	}

	if fmt.Sprint(lastRes) != "[foo bar]" {
		t.Error("Unexpected lastRes:", lastRes)
	}

	for _, method := range []string{"POST", "PUT", "DELETE", "UPDATE"} {
		if res := sendTestRequest(queryURL, method, nil); res != "Method Not Allowed" {
			t.Error("Unexpected response:", method, res)
			return
		}
	}

	// Test about endpoints

	ImportLocator = &util.MemoryImportLocator{Files: map[string]string{}}
	defer func() {
		ImportLocator = nil
	}()

	res := sendTestRequest(queryURL+"/minipar/about", "GET", nil)

	if !strings.HasPrefix(res, `
{
  "api_versions": [
    "v1"
  ],
  "engine": {
    "channel_base_port": 5000,
    "imports": true,
    "node_kinds": [
      "assign",
      "binop",
      "block",
      "call",
      "channel",`[1:]) || !strings.HasSuffix(res, fmt.Sprintf(`
    "operators": [
      "+",
      "-",
      "*",
      "/",
      "^",
      "==",
      "!=",
      ">",
      "<",
      ">=",
      "<="
    ]
  },
  "product": "MiniPar",
  "version": "%v"
}`, config.ProductVersion)) {
		t.Error("Unexpected response:", res)
		return
	}

	var about map[string]interface{}
	errorutil.AssertOk(json.Unmarshal([]byte(res), &about))

	engine := about["engine"].(map[string]interface{})

	if kinds := engine["node_kinds"].([]interface{}); len(kinds) != len(interpreter.NodeKinds()) ||
		fmt.Sprint(kinds[len(kinds)-1]) != "while" {
		t.Error("Unexpected node kinds:", kinds)
		return
	}

	res = sendTestRequest(queryURL+"/minipar/swagger.json", "GET", nil)

	if !strings.HasPrefix(res, `
{
  "basePath": "/minipar",
  "definitions": {
    "Engine": {
      "description": "Execution engine which is used for program runs.",`[1:]) ||
		!strings.Contains(res, `
    "Error": {
      "description": "A human readable error message.",
      "type": "string"
    }
  },
  "host": "localhost:9595",
  "info": {
    "description": "Run MiniPar programs and inspect their results.",
    "title": "MiniPar API",
    "version": "1.0.0"
  },
  "paths": {
    "/about": {
      "get": {`) || !strings.HasSuffix(res, `
  "produces": [
    "application/json"
  ],
  "schemes": [
    "http"
  ],
  "swagger": "2.0"
}`) {
		t.Error("Unexpected response:", res)
		return
	}
}

func TestNewRuntimeProvider(t *testing.T) {
	ChannelBasePort = 7000
	ImportLocator = &util.MemoryImportLocator{Files: map[string]string{}}

	defer func() {
		ChannelBasePort = 5000
		ImportLocator = nil
	}()

	rtp := NewRuntimeProvider("foo")

	if err := rtp.Run(`{"name": "program", "children": [{"name": "seq", "children": [
  {"name": "channel", "value": "c", "children": [
    {"name": "identifier", "value": "a"}, {"name": "identifier", "value": "b"}]}]}]}`); err != nil {
		t.Error(err)
		return
	}

	if c, _ := rtp.Channels().Channel("c"); c.Port != 7000 || rtp.ImportLocator != ImportLocator {
		t.Error("Unexpected result:", c)
		return
	}
}

/*
Send a request to a HTTP test server
*/
func sendTestRequest(url string, method string, content []byte) string {
	var req *http.Request
	var err error

	if content != nil {
		req, err = http.NewRequest(method, url, bytes.NewBuffer(content))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}

	if err != nil {
		panic(err)
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	bodyStr := strings.Trim(string(body), " \n")

	// Try json decoding first

	out := bytes.Buffer{}
	err = json.Indent(&out, []byte(bodyStr), "", "  ")
	if err == nil {
		return out.String()
	}

	// Just return the body

	return bodyStr
}

/*
Start a HTTP test server.
*/
func startServer() (*httputil.HTTPServer, *sync.WaitGroup) {
	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	go hs.RunHTTPServer(TESTPORT, &wg)

	wg.Wait()

	// Server is started

	if hs.LastError != nil {
		panic(hs.LastError)
	}

	return hs, &wg
}

/*
Stop a started HTTP test server.
*/
func stopServer(hs *httputil.HTTPServer, wg *sync.WaitGroup) {

	if hs.Running == true {

		wg.Add(1)

		// Server is shut down

		hs.Shutdown()

		wg.Wait()

	} else {

		panic("Server was not running as expected")
	}
}
