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
	"github.com/consensys/go-aster/pkg/util/source"
)

// Checker drives semantic analysis of a module: declaring its bindings,
// resolving the types they denote, folding and resolving the expressions
// within them, and analysing the captures of any closures encountered along
// the way.  Checking rewrites the tree in place, replacing names with
// references and operator sequences with their folded forms, and records a
// type against every expression it visits.  Diagnostics accumulate rather
// than aborting, so a single pass reports as much as it can.
type Checker struct {
	srcmap *source.Maps[any]
	// Root scope, holding the standard prelude.
	builtin *ast.Scope
	// Scope of the module under check.
	module *ast.Scope
	// Prelude types, registered regardless of whether the standard
	// operators are.
	fieldType ast.Type
	boolType  ast.Type
	// Type determined for every expression checked so far.
	types map[ast.Expr]ast.Type
	// Bindings whose validation is currently in progress, for detecting
	// definitions which (directly or indirectly) refer to themselves.
	validating map[ast.Binding]bool
	// Whether the standard operators are registered, and optional types
	// available for weak reads.
	stdlib bool
	// Set once a weak read without optional support has been diagnosed, so
	// the condition is reported at most once.
	reportedNoOptionals bool
	// Diagnostics accumulated so far.
	errors []source.SyntaxError
}

// NewChecker constructs a checker over a given source mapping, optionally
// registering the standard prelude operators.
func NewChecker(srcmap *source.Map[any], stdlib bool) *Checker {
	srcmaps := source.NewSourceMaps[any]()
	srcmaps.Join(srcmap)
	//
	checker := &Checker{
		srcmap:     srcmaps,
		types:      make(map[ast.Expr]ast.Type),
		validating: make(map[ast.Binding]bool),
		stdlib:     stdlib,
	}
	//
	checker.registerPrelude()
	//
	return checker
}

// Join incorporates the source mapping of a further fragment (e.g. the next
// line of repl input), such that diagnostics against its nodes resolve to the
// right file.  The fragment must be joined before anything it contains is
// checked.
func (c *Checker) Join(srcmap *source.Map[any]) {
	c.srcmap.Join(srcmap)
}

// Check performs semantic analysis of an entire module, returning any
// diagnostics arising.  Declarations are registered up front, hence their
// order within the module does not matter.
func (c *Checker) Check(module *ast.Module) []source.SyntaxError {
	mark := len(c.errors)
	//
	c.module = ast.NewScope(ast.SCOPE_MODULE, c.builtin)
	//
	for _, decl := range module.Decls {
		c.declare(c.module, decl)
	}
	//
	for _, decl := range module.Decls {
		c.checkDeclaration(decl)
	}
	// Capture analysis runs once every body has been resolved.
	for _, decl := range module.Decls {
		c.checkCaptures(decl)
	}
	//
	return c.errors[mark:]
}

// CheckDeclaration declares and analyses a single top-level declaration, as
// arises when declarations are fed in one at a time (e.g. from the repl).
// Unlike Check, a declaration can only refer to those declared before it.
func (c *Checker) CheckDeclaration(decl ast.Binding) []source.SyntaxError {
	mark := len(c.errors)
	//
	c.declare(c.moduleScope(), decl)
	c.checkDeclaration(decl)
	c.checkCaptures(decl)
	//
	return c.errors[mark:]
}

// CheckExpr analyses a single standalone expression against the module scope,
// returning its resolved form and type along with any diagnostics arising.
func (c *Checker) CheckExpr(expr ast.Expr) (ast.Expr, ast.Type, []source.SyntaxError) {
	mark := len(c.errors)
	//
	nexpr, datatype := c.checkExpr(expr, c.moduleScope())
	c.captureExpr(nexpr)
	//
	return nexpr, datatype, c.errors[mark:]
}

// TypeOf returns the type recorded for a given expression during checking, or
// nil if the expression was never checked.
func (c *Checker) TypeOf(expr ast.Expr) ast.Type {
	return c.types[expr]
}

// Scope returns the scope in which top-level declarations of the module under
// check reside.
func (c *Checker) Scope() *ast.Scope {
	return c.moduleScope()
}

func (c *Checker) moduleScope() *ast.Scope {
	if c.module == nil {
		c.module = ast.NewScope(ast.SCOPE_MODULE, c.builtin)
	}
	//
	return c.module
}

// ============================================================================
// Declarations
// ============================================================================

// declare a binding within a given scope, diagnosing any clash with a binding
// already present.  The binding is declared even when it clashes, which
// limits knock-on errors from references to it.
func (c *Checker) declare(scope *ast.Scope, binding ast.Binding) {
	for _, existing := range scope.Bindings(binding.Name()) {
		if conflicts(existing, binding) {
			c.errors = append(c.errors, c.srcmap.SyntaxErrors(binding,
				fmt.Sprintf("%s already declared", binding.Name()))...)
			//
			break
		}
	}
	//
	scope.Declare(binding)
}

// conflicts determines whether two same-named declarations in one scope
// clash.  Functions overload each other, and an operator declaration coexists
// with the functions implementing it.
func conflicts(a ast.Binding, b ast.Binding) bool {
	_, aFn := a.(*ast.FunctionBinding)
	_, bFn := b.(*ast.FunctionBinding)
	//
	if aFn && bFn {
		return false
	}
	//
	_, aOp := a.(*ast.OperatorBinding)
	_, bOp := b.(*ast.OperatorBinding)
	//
	return aOp == bOp
}

// checkDeclaration fully analyses a declaration: its signature, and then any
// bodies hanging off it.  Bodies are never analysed through name resolution,
// only here, hence exactly once.
func (c *Checker) checkDeclaration(decl ast.Binding) {
	c.validate(decl)
	//
	switch b := decl.(type) {
	case *ast.FunctionBinding:
		c.checkFunctionBody(b)
	case *ast.TypeBinding:
		for _, member := range b.MemberDecls {
			c.checkDeclaration(member)
		}
	}
}

// checkFunctionBody analyses the body of a function against a fresh scope
// holding its parameters.  Trait requirements have no body, and member
// functions see their sibling members through the enclosing scope chain.
func (c *Checker) checkFunctionBody(b *ast.FunctionBinding) {
	if b.Body == nil || b.IsInvalid() {
		return
	}
	//
	scope := ast.NewScope(ast.SCOPE_FUNCTION, b.Scope())
	//
	for _, param := range b.Params {
		c.declare(scope, param)
	}
	//
	b.SetBodyScope(scope)
	c.checkItems(b.Body, scope)
}

// ============================================================================
// Validation
// ============================================================================

// validate brings a binding to its finalised (or invalid) state, resolving
// the types making up its signature.  Validation is demand driven: resolving
// a name validates its binding, hence a definition which refers to itself is
// caught here as a re-entrant validation.
func (c *Checker) validate(b ast.Binding) {
	if b.IsFinalised() || b.IsInvalid() {
		return
	}
	//
	if c.validating[b] {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(b,
			fmt.Sprintf("circular reference to %s", b.Name()))...)
		b.MarkInvalid()
		//
		return
	}
	//
	c.validating[b] = true
	defer delete(c.validating, b)
	//
	switch binding := b.(type) {
	case *ast.VariableBinding:
		c.validateVariable(binding, binding.Scope())
	case *ast.FunctionBinding:
		c.validateFunction(binding)
	case *ast.SubscriptBinding:
		c.validateSubscript(binding)
	case *ast.TypeBinding:
		c.validateType(binding)
	}
}

// validateVariable determines the type of a variable binding, either from its
// declared type or by inference from its initialiser, and applies whatever
// ownership wrapper its declaration carries.
func (c *Checker) validateVariable(b *ast.VariableBinding, scope *ast.Scope) {
	var datatype ast.Type
	// Weak storage is cleared behind the program's back, hence must be
	// reassignable.
	if b.Ownership == ast.OWNERSHIP_WEAK && b.Kind != ast.VAR_VAR {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(b, "weak declaration must be a var")...)
		b.MarkInvalid()
		//
		return
	}
	//
	switch {
	case b.DeclaredType != nil:
		datatype = c.resolveType(b.DeclaredType, scope)
		// Initialiser still analysed under a declared type.
		if b.Initialiser != nil {
			b.Initialiser, _ = c.checkExpr(b.Initialiser, scope)
		}
	case b.Initialiser != nil:
		var inferred ast.Type
		//
		b.Initialiser, inferred = c.checkExpr(b.Initialiser, scope)
		datatype = loadType(inferred)
	default:
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(b, "variable requires a type or initialiser")...)
		b.MarkInvalid()
		//
		return
	}
	//
	if ast.IsErrorType(datatype) {
		b.MarkInvalid()
		return
	}
	//
	switch b.Ownership {
	case ast.OWNERSHIP_WEAK:
		datatype = ast.NewWeakType(datatype)
	case ast.OWNERSHIP_UNOWNED:
		datatype = ast.NewUnownedType(datatype)
	case ast.OWNERSHIP_INOUT:
		datatype = ast.NewInOutType(datatype)
	}
	//
	b.Finalise(datatype)
}

// validateFunction resolves the signature of a function binding.  Parameters
// are finalised here, though they are only declared into a scope once the
// body itself is analysed.
func (c *Checker) validateFunction(b *ast.FunctionBinding) {
	params := make([]ast.Type, len(b.Params))
	ret := ast.Type(ast.NewTupleType())
	//
	for i, param := range b.Params {
		params[i] = c.validateParam(param, b.Scope())
	}
	//
	if b.DeclaredReturn != nil {
		ret = c.resolveType(b.DeclaredReturn, b.Scope())
	}
	//
	b.Finalise(ast.NewFunctionType(params, ret, b.Pure))
}

// validateSubscript resolves the signature of a subscript binding, which
// takes the shape of a function from its index to its element.
func (c *Checker) validateSubscript(b *ast.SubscriptBinding) {
	index := c.validateParam(b.Index, b.Scope())
	element := c.resolveType(b.DeclaredElement, b.Scope())
	//
	b.Finalise(ast.NewFunctionType([]ast.Type{index}, element, b.Pure))
}

// validateParam finalises a single parameter, whose declared type is always
// present.  Inout parameters keep their marker in the resulting signature.
func (c *Checker) validateParam(param *ast.VariableBinding, scope *ast.Scope) ast.Type {
	datatype := c.resolveType(param.DeclaredType, scope)
	//
	if param.Ownership == ast.OWNERSHIP_INOUT {
		datatype = ast.NewInOutType(datatype)
	}
	//
	param.Finalise(datatype)
	//
	return datatype
}

// validateType finalises the type a type declaration denotes.  For nominal
// declarations this builds the member scope and declares the members into it,
// without resolving their signatures (which happens on demand, permitting
// e.g. mutually recursive types).  For aliases the underlying type is
// resolved eagerly, which is where alias cycles surface.
func (c *Checker) validateType(b *ast.TypeBinding) {
	if b.Kind == ast.TYPE_ALIAS {
		underlying := c.resolveType(b.DeclaredUnderlying, b.Scope())
		//
		if ast.IsErrorType(underlying) {
			b.MarkInvalid()
			return
		}
		//
		b.Finalise(ast.NewAliasType(b.Name(), underlying))
		//
		return
	}
	// Nominal declaration.  Traits have value semantics here, since a trait
	// constrains its conformers rather than boxing them.
	members := ast.NewScope(ast.SCOPE_TYPE, b.Scope())
	members.SetOwner(b)
	//
	for _, member := range b.MemberDecls {
		c.declare(members, member)
	}
	//
	b.Finalise(ast.NewNamedType(b.Name(), b.Kind == ast.TYPE_CLASS, members))
}

// ============================================================================
// Types
// ============================================================================

// resolveType resolves a type as written in the source against a given scope,
// yielding the type it denotes.  Unknown or malformed spellings resolve to
// the error type, with a diagnostic raised at the spelling itself.
func (c *Checker) resolveType(t ast.Type, scope *ast.Scope) ast.Type {
	switch t := t.(type) {
	case *ast.NamedType:
		return c.resolveNamedType(t, scope)
	case *ast.OptionalType:
		element := c.resolveType(t.Element(), scope)
		//
		if ast.IsErrorType(element) {
			return element
		}
		//
		return ast.NewOptionalType(element)
	}
	// Already resolved (e.g. a synthesised type).
	return t
}

func (c *Checker) resolveNamedType(t *ast.NamedType, scope *ast.Scope) ast.Type {
	for _, binding := range scope.Lookup(t.Name()) {
		tb, ok := binding.(*ast.TypeBinding)
		//
		if !ok {
			continue
		}
		//
		c.validate(tb)
		//
		if tb.IsInvalid() {
			return ast.NewErrorType()
		}
		//
		return tb.DataType()
	}
	//
	c.errors = append(c.errors, c.srcmap.SyntaxErrors(t,
		fmt.Sprintf("unknown type %s", t.Name()))...)
	//
	return ast.NewErrorType()
}
