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
	"fmt"

	"github.com/consensys/go-aster/pkg/aster/ast"
)

// Fixities of the marker operators, which are fixed by the language rather
// than declared.  Conditionals chain to the right ("a ? b : c ? d : e" means
// "a ? b : (c ? d : e)"), as do assignments, whilst a cast never chains at all
// (it applies immediately, see fold).
var (
	conditionalFixity = ast.NewFixity(100, ast.RIGHT_ASSOCIATIVE)
	assignmentFixity  = ast.NewFixity(90, ast.RIGHT_ASSOCIATIVE)
	castFixity        = ast.NewFixity(95, ast.NON_ASSOCIATIVE)
)

// Determine the fixity of an expression standing in operator position.  Each
// position is resolved at most once, so an unknown operator is diagnosed
// exactly once however many times folding consults it.
func (p *folder) fixityOf(op ast.Expr) ast.Fixity {
	if fixity, ok := p.fixities[op]; ok {
		return fixity
	}
	//
	fixity := p.computeFixity(op)
	p.fixities[op] = fixity
	//
	return fixity
}

func (p *folder) computeFixity(op ast.Expr) ast.Fixity {
	// Marker operators have fixed fixities, never looked up.
	switch marker := op.(type) {
	case *ast.Conditional:
		if marker.IsFolded() {
			panic("folded conditional in operator position")
		}
		//
		return conditionalFixity
	case *ast.Assign:
		if marker.IsFolded() {
			panic("folded assignment in operator position")
		}
		//
		return assignmentFixity
	case *ast.Cast:
		if marker.IsFolded() {
			panic("folded cast in operator position")
		}
		//
		return castFixity
	}
	// Otherwise, the node must name a declared infix operator.
	if name, ok := ast.OperatorName(op); ok {
		if fixity, ok := p.scope.LookupFixity(name); ok {
			return fixity
		}
		//
		p.errors = append(p.errors, p.srcmap.SyntaxErrors(op, fmt.Sprintf("unknown binary operator %s", name))...)
	} else {
		p.errors = append(p.errors, p.srcmap.SyntaxErrors(op, "unknown binary operator")...)
	}
	// Recovery: bind tightest and group left, so folding still terminates
	// with a usable tree.
	return ast.NewFixity(ast.MAX_PRECEDENCE, ast.LEFT_ASSOCIATIVE)
}
