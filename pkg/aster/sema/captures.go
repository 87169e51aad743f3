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

// ComputeCaptures determines the bindings a given closure captures from its
// surroundings, records them against the closure, and returns them in first
// reference order.  The closure must already have been checked, and any
// closure nested within it analysed beforehand, since its capture set is
// absorbed rather than its body re-walked.  A binding is captured when it is
// declared strictly outside the closure and is either mutable storage or
// local to some enclosing body; module-level immutables are resolved in place
// instead.
func ComputeCaptures(closure *ast.Closure) []ast.Binding {
	p := &captureAnalyser{
		scope: closure.Scope(),
		seen:  make(map[ast.Binding]bool),
	}
	//
	p.analyseItems(closure.Body)
	closure.SetCaptures(p.captures)
	//
	return p.captures
}

// captureAnalyser walks the body of a single closure, accumulating the
// bindings it captures.
type captureAnalyser struct {
	// Scope of the closure under analysis.
	scope *ast.Scope
	// Captured bindings, in first reference order.
	captures []ast.Binding
	// Bindings already captured.
	seen map[ast.Binding]bool
}

func (p *captureAnalyser) analyseItems(items []ast.Stmt) {
	for _, item := range items {
		switch s := item.(type) {
		case *ast.Local:
			if s.Variable.Initialiser != nil {
				p.analyseExpr(s.Variable.Initialiser)
			}
		case *ast.LocalFunction:
			// A local function reads its free variables when called, hence
			// contributes them to the enclosing closure.
			p.analyseItems(s.Function.Body)
		case ast.Expr:
			p.analyseExpr(s)
		}
	}
}

func (p *captureAnalyser) analyseExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Reference:
		p.consider(e.Binding)
	case *ast.Binary:
		p.analyseExpr(e.Op)
		p.analyseExpr(e.Args.Elements[0])
		p.analyseExpr(e.Args.Elements[1])
	case *ast.Assign:
		p.analyseExpr(e.Dest)
		p.analyseExpr(e.Src)
	case *ast.Cast:
		p.analyseExpr(e.Sub)
	case *ast.Conditional:
		p.analyseExpr(e.Cond)
		p.analyseExpr(e.Then)
		p.analyseExpr(e.Else)
	case *ast.Tuple:
		for _, element := range e.Elements {
			p.analyseExpr(element)
		}
	case *ast.Invoke:
		p.analyseExpr(e.Target)
		//
		for _, arg := range e.Args.Elements {
			p.analyseExpr(arg)
		}
	case *ast.MemberAccess:
		p.analyseExpr(e.Base)
	case *ast.SubscriptAccess:
		p.analyseExpr(e.Base)
		p.analyseExpr(e.Index)
	case *ast.ForceUnwrap:
		p.analyseExpr(e.Sub)
	case *ast.Closure:
		// Whatever a nested closure captures, this closure must also reach,
		// unless it is declared within this closure itself.
		for _, b := range e.Captures() {
			p.consider(b)
		}
	case *ast.Sequence:
		for _, element := range e.Elements {
			p.analyseExpr(element)
		}
	}
	// Remaining forms (constants, unresolved names and overloads) contribute
	// nothing.
}

// consider a single resolved binding for capture.
func (p *captureAnalyser) consider(b ast.Binding) {
	scope := b.Scope()
	// Only bindings declared strictly outside the closure can be captured.
	if scope == nil || !p.scope.IsDescendantOf(scope) {
		return
	}
	// Module-level immutables need no capture, since their value is fixed at
	// the point of use.
	if !isMutableStorage(b) && !scope.IsLocal() {
		return
	}
	//
	if !p.seen[b] {
		p.seen[b] = true
		p.captures = append(p.captures, b)
	}
}

// isMutableStorage determines whether a binding denotes storage whose
// contents can change underneath a closure.
func isMutableStorage(b ast.Binding) bool {
	if v, ok := b.(*ast.VariableBinding); ok {
		return v.IsSettable()
	}
	//
	return false
}

// ============================================================================
// Checker driver
// ============================================================================

// checkCaptures runs capture analysis over every closure within a checked
// declaration, innermost first, so that an outer closure always absorbs the
// capture sets of those nested within it.
func (c *Checker) checkCaptures(decl ast.Binding) {
	switch b := decl.(type) {
	case *ast.VariableBinding:
		if b.Initialiser != nil {
			c.captureExpr(b.Initialiser)
		}
	case *ast.FunctionBinding:
		c.captureItems(b.Body)
	case *ast.TypeBinding:
		for _, member := range b.MemberDecls {
			c.checkCaptures(member)
		}
	}
}

func (c *Checker) captureItems(items []ast.Stmt) {
	for _, item := range items {
		switch s := item.(type) {
		case *ast.Local:
			if s.Variable.Initialiser != nil {
				c.captureExpr(s.Variable.Initialiser)
			}
		case *ast.LocalFunction:
			c.captureItems(s.Function.Body)
		case ast.Expr:
			c.captureExpr(s)
		}
	}
}

func (c *Checker) captureExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Binary:
		c.captureExpr(e.Args.Elements[0])
		c.captureExpr(e.Args.Elements[1])
	case *ast.Assign:
		c.captureExpr(e.Dest)
		c.captureExpr(e.Src)
	case *ast.Cast:
		c.captureExpr(e.Sub)
	case *ast.Conditional:
		c.captureExpr(e.Cond)
		c.captureExpr(e.Then)
		c.captureExpr(e.Else)
	case *ast.Tuple:
		for _, element := range e.Elements {
			c.captureExpr(element)
		}
	case *ast.Invoke:
		c.captureExpr(e.Target)
		//
		for _, arg := range e.Args.Elements {
			c.captureExpr(arg)
		}
	case *ast.MemberAccess:
		c.captureExpr(e.Base)
	case *ast.SubscriptAccess:
		c.captureExpr(e.Base)
		c.captureExpr(e.Index)
	case *ast.ForceUnwrap:
		c.captureExpr(e.Sub)
	case *ast.Closure:
		c.captureItems(e.Body)
		//
		if !e.IsAnalysed() {
			ComputeCaptures(e)
		}
	case *ast.Sequence:
		for _, element := range e.Elements {
			c.captureExpr(element)
		}
	}
}
