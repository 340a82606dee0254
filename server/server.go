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
Package server contains the code for the MiniPar server.
*/
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/common/lockutil"
	"devt.de/krotik/ecal/util"
	"devt.de/krotik/minipar/api"
	v1 "devt.de/krotik/minipar/api/v1"
	"devt.de/krotik/minipar/config"
)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the server should not call os.Exit on a fatal error.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

/*
Base path for all file (used by unit tests)
*/
var basepath = ""

/*
StartServer runs the MiniPar server. The server uses config.Config for all its
configuration parameters. Programs which are run through the server resolve
their imports relative to the configured import root.
*/
func StartServer() {
	var err error
	var logger util.Logger

	print(fmt.Sprintf("MiniPar %v", config.ProductVersion))

	// Ensure we have a configuration - use the default configuration if nothing was set

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	// Setup logging of program diagnostics

	if logger, err = util.NewLogLevelLogger(util.NewStdOutLogger(),
		config.Str(config.LogLevel)); err != nil {

		fatal("Failed to create logger:", err)
		return
	}

	api.Logger = logger

	// Setup import resolution

	importRoot := filepath.Join(basepath, config.Str(config.ImportRoot))

	print("Resolving imports in ", importRoot)

	api.ImportLocator = &util.FileImportLocator{Root: importRoot}

	// Setting other API parameters

	api.APIHost = config.Str(config.HTTPHost) + ":" + config.Str(config.HTTPPort)
	api.ChannelBasePort = int(config.Int(config.ChannelBasePort))
	v1.ResultCacheMaxSize = uint64(config.Int(config.ResultCacheMaxSize))
	v1.ResultCacheMaxAge = config.Int(config.ResultCacheMaxAgeSeconds)

	// Register REST endpoints

	api.RegisterRestEndpoints(api.GeneralEndpointMap)
	api.RegisterRestEndpoints(v1.V1EndpointMap)

	// Register normal web server

	if config.Bool(config.EnableWebFolder) {
		webFolder := filepath.Join(basepath, config.Str(config.LocationWebFolder))

		print("Ensuring web folder: ", webFolder)

		ensurePath(webFolder)

		fs := http.FileServer(http.Dir(webFolder))

		api.HandleFunc("/", fs.ServeHTTP)

		// Write run page

		ensurePath(filepath.Join(webFolder, api.APIRoot))

		runFile := filepath.Join(webFolder, api.APIRoot, "run.html")

		print("Ensuring run page: ", runFile)

		if res, _ := fileutil.PathExists(runFile); !res {
			errorutil.AssertOk(os.WriteFile(runFile, []byte(RunPageSRC[1:]), 0644))
		}
	}

	// Start HTTP server and enable REST API

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	port := config.Str(config.HTTPPort)

	print("Starting server on: ", api.APIHost)

	go hs.RunHTTPServer(":"+port, &wg)

	// Wait until the server has started

	wg.Wait()

	// HTTP Server has started

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	// Create a lockfile so the server can be shut down

	lockFile := filepath.Join(basepath, config.Str(config.LockFile))

	lf := lockutil.NewLockFile(lockFile, time.Duration(2)*time.Second)

	lf.Start()

	go func() {

		// Check if the lockfile watcher is running and
		// call shutdown once it has finished

		for lf.WatcherRunning() {
			time.Sleep(time.Duration(1) * time.Second)
		}

		print("Lockfile was modified")

		hs.Shutdown()
	}()

	// Add to the wait group so we can wait for the shutdown

	wg.Add(1)

	print("Waiting for shutdown")
	wg.Wait()

	print("Shutting down")

	os.RemoveAll(lockFile)
}

/*
ensurePath ensures that a given relative path exists.
*/
func ensurePath(path string) {
	if res, _ := fileutil.PathExists(path); !res {
		if err := os.Mkdir(path, 0770); err != nil {
			fatal("Could not create directory:", err.Error())
			return
		}
	}
}
