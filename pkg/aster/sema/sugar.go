// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sema

import (
	"github.com/consensys/go-aster/pkg/aster/ast"
)

// substituteSugarType carries alias sugar from an operator's arguments
// through to its result.  When some argument spells the same canonical type
// as the result, the result keeps that argument's spelling; otherwise the
// result type stands as declared.  Thus, with an alias Money for Field,
// adding two Money values yields Money rather than Field.
func substituteSugarType(result ast.Type, args []ast.Type) ast.Type {
	for _, arg := range args {
		if arg.Canonical().Equals(result.Canonical()) {
			return arg
		}
	}
	//
	return result
}
