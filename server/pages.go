/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

/*
RunPageSRC is the run page HTML as a text blob. The page sends AST documents
to the websocket run endpoint and shows the streamed display lines.
*/
const RunPageSRC = `
<!DOCTYPE html>
<html>
<head>
    <title>MiniPar Run</title>

    <meta name="viewport" content="width=device-width, initial-scale=1">

    <style>

        body {
            font-family: monospace;
            margin: 1em;
        }

        textarea {
            width: 100%;
            height: 20em;
        }

        #output {
            white-space: pre;
            background: #f0f0f0;
            padding: 0.5em;
            min-height: 10em;
        }

        .error {
            color: #b00000;
        }

    </style>

</head>
<body>

<h3>MiniPar</h3>

<p>Program (AST document in JSON or YAML notation):</p>
<textarea id="program"></textarea>

<p>Input (one value per line):</p>
<textarea id="input" style="height: 4em"></textarea>

<p><button id="run" disabled>Run</button></p>

<div id="output"></div>

<script>
(function () {

    var output = document.getElementById("output");
    var button = document.getElementById("run");

    function print(text, cls) {
        var line = document.createElement("div");
        line.textContent = text;
        if (cls) {
            line.className = cls;
        }
        output.appendChild(line);
    }

    var proto = window.location.protocol === "https:" ? "wss://" : "ws://";
    var sock = new WebSocket(proto + window.location.host + "/minipar/v1/runsock/", "minipar-sock");

    sock.onmessage = function (event) {
        var msg = JSON.parse(event.data);

        switch (msg.type) {
        case "init_success":
            button.disabled = false;
            break;

        case "output":
            print(msg.payload.line);
            break;

        case "result":
            if (msg.payload.error) {
                print(msg.payload.error, "error");
            }
            print("Run " + msg.payload.id + " finished");
            button.disabled = false;
            break;

        case "error":
            print(msg.payload.error, "error");
            button.disabled = false;
            break;
        }
    };

    sock.onclose = function () {
        print("Connection closed", "error");
        button.disabled = true;
    };

    button.onclick = function () {
        output.innerHTML = "";
        button.disabled = true;

        sock.send(JSON.stringify({
            name: "web",
            program: document.getElementById("program").value,
            input: document.getElementById("input").value
        }));
    };
}());
</script>

</body>
</html>
`
