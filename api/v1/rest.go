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
Package v1 contains MiniPar REST API Version 1.

Run endpoint

/run

Run a program which is given as AST document. The result of a run can be
retrieved again with its id.

Run websocket endpoint

/runsock

Run programs over a websocket. Display lines are streamed while the program
is running.
*/
package v1

import (
	"net/http"
	"strings"

	"devt.de/krotik/minipar/api"
)

/*
APIv1 is the directory for version 1 of the API
*/
const APIv1 = "/v1"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointRun:     RunEndpointInst,
	EndpointRunSock: RunSockEndpointInst,
}

// Helper functions
// ================

/*
checkResources check given resources for a request.
*/
func checkResources(w http.ResponseWriter, resources []string, requiredMin int, requiredMax int, errorMsg string) bool {
	if len(resources) < requiredMin {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return false
	} else if len(resources) > requiredMax {
		http.Error(w, "Invalid resource specification: "+strings.Join(resources[requiredMax:], "/"), http.StatusBadRequest)
		return false
	}
	return true
}
