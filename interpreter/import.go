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
	"fmt"
	"strings"

	"devt.de/krotik/minipar/parser"
)

// Import Runtime
// ==============

/*
importRuntime runs another program in the current session.
*/
type importRuntime struct {
	*baseRuntime
	stmt
}

/*
importRuntimeInst returns a new runtime component instance.
*/
func importRuntimeInst(rtp *MiniParRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &importRuntime{baseRuntime: newBaseRuntime(rtp, node)}
}

/*
Validate this node and all its child nodes.
*/
func (rt *importRuntime) Validate() error {
	err := rt.checkName()

	if err == nil {
		err = rt.checkChildren(0, 0)
	}

	return err
}

/*
Eval evaluate this runtime component. The imported program shares the
values, declarations, channels and functions of the importing program.
*/
func (rt *importRuntime) Eval() (interface{}, error) {
	var ast *parser.ASTNode
	var code string
	var err error

	path := strings.Trim(rt.node.Val(), `"`)

	if rt.rtp.ImportLocator == nil {
		err = fmt.Errorf("No import locator was specified")

	} else if code, err = rt.rtp.ImportLocator.Resolve(path); err == nil {
		irtp := rt.rtp.withSource(path)

		rt.rtp.Logger.LogDebug(fmt.Sprintf("Importing %v", path))

		if ast, err = parser.ParseWithRuntime(path, code, irtp); err == nil {
			err = irtp.Execute(ast)
		}
	}

	if err != nil {
		err = rt.rtp.newRuntimeError(ErrImportFailure,
			fmt.Sprintf("%v: %v", path, err), rt.node)
	}

	return outcomeContinue, err
}
