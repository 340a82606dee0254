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
	"testing"

	"github.com/gorilla/websocket"
)

func TestRunSockConnectionErrors(t *testing.T) {
	queryURL := "http://localhost" + TESTPORT + EndpointRunSock

	_, _, res := sendTestRequest(queryURL, "GET", nil)

	if res != `Bad Request
websocket: the client is not using the websocket protocol: 'upgrade' token not found in 'Connection' header` {
		t.Error("Unexpected response:", res)
		return
	}
}

func TestRunSock(t *testing.T) {
	queryURL := "ws://localhost" + TESTPORT + EndpointRunSock

	c, _, err := websocket.DefaultDialer.Dial(queryURL, nil)
	if err != nil {
		t.Error("Could not open websocket:", err)
		return
	}

	readMessage := func() (string, map[string]interface{}) {
		var msg map[string]interface{}

		_, message, err := c.ReadMessage()
		if err != nil {
			t.Error("Could not read message:", err)
			return "", nil
		}

		json.Unmarshal(message, &msg)
		payload, _ := msg["payload"].(map[string]interface{})

		return fmt.Sprint(msg["type"]), payload
	}

	if mt, payload := readMessage(); mt != "init_success" || len(payload) != 0 {
		t.Error("Unexpected response:", mt, payload)
		return
	}

	// Invalid messages are reported but keep the connection open

	if err = c.WriteMessage(websocket.TextMessage, []byte("buu")); err != nil {
		t.Error("Could not send message:", err)
		return
	}

	if mt, payload := readMessage(); mt != "error" ||
		fmt.Sprint(payload["error"]) != "invalid character 'b' looking for beginning of value" {
		t.Error("Unexpected response:", mt, payload)
		return
	}

	if err = c.WriteMessage(websocket.TextMessage, []byte(`{"input": "1"}`)); err != nil {
		t.Error("Could not send message:", err)
		return
	}

	if mt, payload := readMessage(); mt != "error" || fmt.Sprint(payload["error"]) != "Need a program" {
		t.Error("Unexpected response:", mt, payload)
		return
	}

	// Run a program

	if err = c.WriteMessage(websocket.TextMessage, []byte(testProgram)); err != nil {
		t.Error("Could not send message:", err)
		return
	}

	if mt, payload := readMessage(); mt != "output" || fmt.Sprint(payload["line"]) != "y is 20" {
		t.Error("Unexpected response:", mt, payload)
		return
	}

	mt, payload := readMessage()

	if mt != "result" || fmt.Sprint(payload["output"]) != "[y is 20]" ||
		fmt.Sprint(payload["memory"]) != "map[a:5 x:4 y:20]" || payload["error"] != "" {
		t.Error("Unexpected response:", mt, payload)
		return
	}

	// The result is also available from the run endpoint

	if _, ok := ResultCache.Get(fmt.Sprint(payload["id"])); !ok {
		t.Error("Result should be in the result cache:", payload["id"])
		return
	}

	if err = c.WriteMessage(websocket.TextMessage, []byte(`{"close": true}`)); err != nil {
		t.Error("Could not send message:", err)
		return
	}

	_, _, err = c.ReadMessage()

	if closeErr, ok := err.(*websocket.CloseError); !ok || closeErr.Code != websocket.CloseNormalClosure {
		t.Error("Unexpected close:", err)
		return
	}

	c.Close()
}
