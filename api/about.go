/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package api contains general REST API definitions.

The REST API allows running MiniPar programs on a server. Programs are
submitted as AST documents. The API responds to GET, POST, PUT and DELETE
requests in JSON if the request was successful (Return code 200 OK) and plain
text in all other cases.

Common API definitions

/about

Endpoint which returns an object with version information and the features
of the execution engine.

	api_versions : List of available API versions e.g. [ "v1" ]
	product      : Name of the API provider (MiniPar)
	version      : Version of the API provider
	engine       : Execution engine of program runs
	    channel_base_port : Id of the first channel of a run
	    imports           : Flag if programs can import other programs
	    node_kinds        : AST node kinds which can be executed
	    operators         : Supported binary operators

/swagger.json

Dynamically generated swagger definition file. See: http://swagger.io
*/
package api

import (
	"encoding/json"
	"net/http"

	"devt.de/krotik/minipar/config"
	"devt.de/krotik/minipar/interpreter"
	"devt.de/krotik/minipar/parser"
)

/*
EndpointAbout is the about endpoint URL (rooted). Handles about/
*/
const EndpointAbout = APIRoot + "/about/"

/*
EndpointSwagger is the swagger endpoint URL (rooted). Handles swagger.json/
*/
const EndpointSwagger = APIRoot + "/swagger.json/"

/*
EngineInfo returns the features of the execution engine which is used for
program runs.
*/
func EngineInfo() map[string]interface{} {
	return map[string]interface{}{
		"channel_base_port": ChannelBasePort,
		"imports":           ImportLocator != nil,
		"node_kinds":        interpreter.NodeKinds(),
		"operators":         parser.Operators,
	}
}

// About endpoint
// ==============

/*
AboutEndpointInst creates a new endpoint handler.
*/
func AboutEndpointInst() RestEndpointHandler {
	return &aboutEndpoint{}
}

/*
Handler object for about operations.
*/
type aboutEndpoint struct {
	*DefaultEndpointHandler
}

/*
HandleGET returns the product version and the engine features.
*/
func (a *aboutEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	writeJSON(w, map[string]interface{}{
		"api_versions": []string{"v1"},
		"product":      "MiniPar",
		"version":      config.ProductVersion,
		"engine":       EngineInfo(),
	})
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (a *aboutEndpoint) SwaggerDefs(s map[string]interface{}) {

	stringList := func(desc string) map[string]interface{} {
		return map[string]interface{}{
			"description": desc,
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
		}
	}

	s["paths"].(map[string]interface{})["/about"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return information about the MiniPar server.",
			"description": "Returns API versions, product version and the features of the execution engine.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "About info object",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"api_versions": stringList("List of available API versions."),
							"product": map[string]interface{}{
								"description": "Product name of the REST API provider.",
								"type":        "string",
							},
							"version": map[string]interface{}{
								"description": "Version of the REST API provider.",
								"type":        "string",
							},
							"engine": map[string]interface{}{
								"$ref": "#/definitions/Engine",
							},
						},
					},
				},
				"default": map[string]interface{}{
					"description": "Error response",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/Error",
					},
				},
			},
		},
	}

	s["definitions"].(map[string]interface{})["Engine"] = map[string]interface{}{
		"description": "Execution engine which is used for program runs.",
		"type":        "object",
		"properties": map[string]interface{}{
			"channel_base_port": map[string]interface{}{
				"description": "Id of the first channel which is declared in a run.",
				"type":        "integer",
			},
			"imports": map[string]interface{}{
				"description": "Flag if programs can import other programs.",
				"type":        "boolean",
			},
			"node_kinds": stringList("AST node kinds which can be executed."),
			"operators":  stringList("Supported binary operators."),
		},
	}
}

// Swagger endpoint
// ================

/*
SwaggerEndpointInst creates a new endpoint handler.
*/
func SwaggerEndpointInst() RestEndpointHandler {
	return &swaggerEndpoint{}
}

/*
Handler object for swagger operations.
*/
type swaggerEndpoint struct {
	*DefaultEndpointHandler
}

/*
HandleGET collects the definitions of all registered endpoints.
*/
func (a *swaggerEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	data := map[string]interface{}{
		"swagger":  "2.0",
		"host":     APIHost,
		"schemes":  APISchemes,
		"basePath": APIRoot,
		"produces": []string{"application/json"},
		"info": map[string]interface{}{
			"title":       "MiniPar API",
			"description": "Run MiniPar programs and inspect their results.",
			"version":     APIVersion,
		},
		"paths": map[string]interface{}{},
		"definitions": map[string]interface{}{
			"Error": map[string]interface{}{
				"description": "A human readable error message.",
				"type":        "string",
			},
		},
	}

	for _, inst := range registered {
		inst().SwaggerDefs(data)
	}

	writeJSON(w, data)
}

/*
SwaggerDefs is used to describe the endpoint in swagger. The swagger endpoint
itself is not part of the definition.
*/
func (a *swaggerEndpoint) SwaggerDefs(s map[string]interface{}) {
}

/*
writeJSON writes a JSON response.
*/
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("content-type", "application/json; charset=utf-8")

	ret := json.NewEncoder(w)
	ret.SetEscapeHTML(false)
	ret.Encode(data)
}
