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
	"fmt"
	"net/http"

	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/minipar/api"
	"github.com/gorilla/websocket"
)

/*
EndpointRunSock is the websocket endpoint URL (rooted) for program runs.
*/
const EndpointRunSock = api.APIRoot + APIv1 + "/runsock/"

/*
sockUpgrader can upgrade normal requests to websocket communications
*/
var sockUpgrader = websocket.Upgrader{
	Subprotocols:    []string{"minipar-sock"},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

/*
RunSockEndpointInst creates a new endpoint handler.
*/
func RunSockEndpointInst() api.RestEndpointHandler {
	initResultCache()
	return &runSockEndpoint{}
}

/*
Handler object for websocket program runs.
*/
type runSockEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles websocket program runs. Each message on the websocket is
a run request (see the run endpoint). The client receives an output message
for each display line followed by a result message. A message with a close
attribute closes the connection.
*/
func (re *runSockEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	// Update the incomming connection to a websocket
	// If the upgrade fails then the client gets an HTTP error response.

	conn, err := sockUpgrader.Upgrade(w, r, nil)

	if err != nil {

		// We give details here on what went wrong

		w.Write([]byte(err.Error()))
		return
	}

	commID := fmt.Sprintf("%x", cryptutil.GenerateUUID())

	wc := api.NewWebsocketConnection(commID, conn)

	wc.Init()

	for {
		var fatal bool
		var data map[string]interface{}
		var req *runRequest
		var res *RunResult

		// Read websocket message

		if data, fatal, err = wc.ReadData(); err != nil {

			if fatal {
				break
			}

			wc.WriteMessage("error", map[string]interface{}{
				"error": err.Error(),
			})

			continue
		}

		if val, ok := data["close"]; ok && stringutil.IsTrueValue(fmt.Sprint(val)) {
			wc.Close("")
			return
		}

		if req, err = newRunRequest(data); err == nil {
			res, err = req.run(func(line string) {
				wc.WriteMessage("output", map[string]interface{}{
					"line": line,
				})
			})
		}

		if err != nil {
			wc.WriteMessage("error", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		ResultCache.Put(res.ID, res)

		wc.WriteMessage("result", res)
	}

	api.Logger.LogDebug(fmt.Sprintf("Websocket %v closed: %v", commID, err))

	wc.Close(err.Error())
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (re *runSockEndpoint) SwaggerDefs(s map[string]interface{}) {
	// No swagger definitions for this endpoint as it only handles websocket requests
}
