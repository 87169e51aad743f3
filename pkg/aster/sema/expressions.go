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

// checkExpr analyses a single expression against a given scope, returning its
// resolved form along with its type.  The returned expression replaces the
// one given (e.g. a name becomes a reference, a sequence becomes its folded
// form), hence callers must write it back into the enclosing node.  The type
// of every checked expression is recorded, and a node already checked (as
// arises when a rewrite installs a resolved node) simply reports its recorded
// type.
func (c *Checker) checkExpr(expr ast.Expr, scope *ast.Scope) (ast.Expr, ast.Type) {
	if datatype, ok := c.types[expr]; ok {
		return expr, datatype
	}
	//
	nexpr, datatype := c.checkExprInner(expr, scope)
	//
	if nexpr != nil {
		c.types[nexpr] = datatype
	}
	//
	return nexpr, datatype
}

func (c *Checker) checkExprInner(expr ast.Expr, scope *ast.Scope) (ast.Expr, ast.Type) {
	switch e := expr.(type) {
	case *ast.Constant:
		return e, c.fieldType
	case *ast.Name:
		return c.checkName(e, scope)
	case *ast.Reference:
		return e, c.typeOfReference(e.Binding, nil, false)
	case *ast.OverloadedReference:
		return e, ast.NewErrorType()
	case *ast.Sequence:
		return c.checkSequence(e, scope)
	case *ast.Binary:
		return c.checkBinary(e, scope)
	case *ast.Assign:
		return c.checkAssign(e, scope)
	case *ast.Cast:
		return c.checkCast(e, scope)
	case *ast.Conditional:
		return c.checkConditional(e, scope)
	case *ast.Tuple:
		return c.checkTuple(e, scope)
	case *ast.Invoke:
		return c.checkInvoke(e, scope)
	case *ast.MemberAccess:
		return c.checkMemberAccess(e, scope)
	case *ast.SubscriptAccess:
		return c.checkSubscriptAccess(e, scope)
	case *ast.ForceUnwrap:
		return c.checkForceUnwrap(e, scope)
	case *ast.Closure:
		return c.checkClosure(e, scope)
	}
	//
	panic(fmt.Sprintf("unknown expression %s", expr.Lisp().String(false)))
}

// checkName resolves a plain name against the scope chain.  A name resolving
// to a single binding becomes a reference to it, whilst several candidates
// (overloads, or trait members) become an overloaded placeholder whose
// resolution would require the surrounding application.
func (c *Checker) checkName(e *ast.Name, scope *ast.Scope) (ast.Expr, ast.Type) {
	candidates := valueCandidates(scope.Lookup(e.Ident))
	//
	if len(candidates) == 0 {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(e,
			fmt.Sprintf("unknown identifier %s", e.Ident))...)
		//
		return e, ast.NewErrorType()
	}
	//
	ref := c.buildRef(e, candidates)
	//
	if ref, ok := ref.(*ast.Reference); ok {
		return ref, c.typeOfReference(ref.Binding, nil, false)
	}
	//
	return ref, ast.NewErrorType()
}

// valueCandidates filters operator declarations out of a resolution result,
// leaving those bindings a value reference could denote.
func valueCandidates(bindings []ast.Binding) []ast.Binding {
	candidates := make([]ast.Binding, 0, len(bindings))
	//
	for _, b := range bindings {
		if _, ok := b.(*ast.OperatorBinding); !ok {
			candidates = append(candidates, b)
		}
	}
	//
	return candidates
}

// checkSequence folds an unparenthesised operator sequence into its tree
// form, and then analyses the result.
func (c *Checker) checkSequence(e *ast.Sequence, scope *ast.Scope) (ast.Expr, ast.Type) {
	folded, errs := FoldSequence(e, scope, c.srcmap)
	c.errors = append(c.errors, errs...)
	//
	if folded == nil {
		return e, ast.NewErrorType()
	}
	//
	return c.checkExpr(folded, scope)
}

// checkBinary analyses a folded binary application.  The operator name
// resolves to the function implementing it, and the result type is that
// function's return type, with any alias sugar on the operands carried
// through.
func (c *Checker) checkBinary(e *ast.Binary, scope *ast.Scope) (ast.Expr, ast.Type) {
	// Resolve the operator itself.  An operator without a visible
	// implementation was already diagnosed during folding, hence a
	// resolution failure here stays silent.
	if name, ok := e.Op.(*ast.Name); ok {
		if candidates := valueCandidates(scope.Lookup(name.Ident)); len(candidates) > 0 {
			e.Op = c.buildRef(name, candidates)
		}
	}
	//
	lhs, lhsType := c.checkExpr(e.Args.Elements[0], scope)
	rhs, rhsType := c.checkExpr(e.Args.Elements[1], scope)
	e.Args.Elements[0] = lhs
	e.Args.Elements[1] = rhs
	//
	ref, ok := e.Op.(*ast.Reference)
	if !ok {
		return e, ast.NewErrorType()
	}
	//
	signature, ok := loadType(c.typeOfReference(ref.Binding, nil, false)).(*ast.FunctionType)
	if !ok {
		return e, ast.NewErrorType()
	}
	//
	return e, substituteSugarType(signature.Return(), []ast.Type{loadType(lhsType), loadType(rhsType)})
}

// checkAssign analyses a folded assignment, requiring its destination to be
// an l-value.  An assignment is not itself a value, hence types as unit.
func (c *Checker) checkAssign(e *ast.Assign, scope *ast.Scope) (ast.Expr, ast.Type) {
	dest, destType := c.checkExpr(e.Dest, scope)
	src, _ := c.checkExpr(e.Src, scope)
	e.Dest, e.Src = dest, src
	//
	if !ast.IsLValueType(destType) && !ast.IsErrorType(destType) {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(e, "cannot assign to immutable expression")...)
	}
	//
	return e, ast.NewTupleType()
}

// checkCast analyses a folded cast.  A coercion takes its target type, whilst
// a type check produces a boolean.
func (c *Checker) checkCast(e *ast.Cast, scope *ast.Scope) (ast.Expr, ast.Type) {
	e.Sub, _ = c.checkExpr(e.Sub, scope)
	e.Target = c.resolveType(e.Target, scope)
	//
	if e.Kind == ast.CAST_CHECK {
		return e, c.boolType
	}
	//
	return e, e.Target
}

// checkConditional analyses a folded conditional, whose result takes the type
// of its then branch.
func (c *Checker) checkConditional(e *ast.Conditional, scope *ast.Scope) (ast.Expr, ast.Type) {
	var thenType ast.Type
	//
	e.Cond, _ = c.checkExpr(e.Cond, scope)
	e.Then, thenType = c.checkExpr(e.Then, scope)
	e.Else, _ = c.checkExpr(e.Else, scope)
	//
	return e, loadType(thenType)
}

func (c *Checker) checkTuple(e *ast.Tuple, scope *ast.Scope) (ast.Expr, ast.Type) {
	types := make([]ast.Type, len(e.Elements))
	//
	for i, element := range e.Elements {
		var datatype ast.Type
		//
		e.Elements[i], datatype = c.checkExpr(element, scope)
		types[i] = loadType(datatype)
	}
	//
	return e, ast.NewTupleType(types...)
}

// checkInvoke analyses a function application, requiring a target of function
// type applied to the right number of arguments.  Argument types are not
// themselves checked against the parameters.
func (c *Checker) checkInvoke(e *ast.Invoke, scope *ast.Scope) (ast.Expr, ast.Type) {
	target, targetType := c.checkExpr(e.Target, scope)
	e.Target = target
	//
	for i, arg := range e.Args.Elements {
		e.Args.Elements[i], _ = c.checkExpr(arg, scope)
	}
	//
	signature, ok := loadType(targetType).(*ast.FunctionType)
	//
	if !ok {
		if !ast.IsErrorType(targetType) {
			c.errors = append(c.errors, c.srcmap.SyntaxErrors(e, "cannot invoke non-function value")...)
		}
		//
		return e, ast.NewErrorType()
	}
	//
	if e.Args.Len() != len(signature.Params()) {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(e, "incorrect number of arguments")...)
	}
	//
	return e, signature.Return()
}

// checkMemberAccess analyses a member access, distinguishing a static access
// (whose base denotes a type) from an instance access (whose base is a
// value).
func (c *Checker) checkMemberAccess(e *ast.MemberAccess, scope *ast.Scope) (ast.Expr, ast.Type) {
	nbase, baseType := c.checkExpr(e.Base, scope)
	e.Base = nbase
	//
	if ast.IsErrorType(baseType) {
		return e, baseType
	}
	// Static member access arises when the base names a type directly.
	if ref, ok := nbase.(*ast.Reference); ok {
		if tb, ok := ref.Binding.(*ast.TypeBinding); ok {
			return c.checkStaticMember(e, tb)
		}
	}
	//
	receiver := loadType(baseType)
	candidates := instanceMembers(receiver, e.Name)
	//
	if len(candidates) == 0 {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(e,
			fmt.Sprintf("%s has no member %s", receiver.String(), e.Name))...)
		//
		return e, ast.NewErrorType()
	} else if len(candidates) > 1 {
		// Overloaded member, resolved only by a surrounding application.
		return e, ast.NewErrorType()
	}
	//
	e.Member = candidates[0]
	e.Direct = isDirect(candidates[0])
	// Note, the base type is passed unloaded so that an addressable base is
	// visible to the mutability rules.
	return e, c.typeOfReference(candidates[0], baseType, true)
}

func (c *Checker) checkStaticMember(e *ast.MemberAccess, tb *ast.TypeBinding) (ast.Expr, ast.Type) {
	var candidates []ast.Binding
	//
	if named, ok := tb.DataType().Canonical().(*ast.NamedType); ok && named.Members() != nil {
		for _, b := range named.Members().Bindings(e.Name) {
			if v, ok := b.(*ast.VariableBinding); ok && v.Static {
				candidates = append(candidates, b)
			}
		}
	}
	//
	if len(candidates) == 0 {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(e,
			fmt.Sprintf("%s has no member %s", tb.Name(), e.Name))...)
		//
		return e, ast.NewErrorType()
	}
	//
	e.Member = candidates[0]
	e.Direct = isDirect(candidates[0])
	// No receiver value is involved in a static access.
	return e, c.typeOfReference(candidates[0], nil, true)
}

// instanceMembers returns the members of a given receiver type matching a
// given name, excluding statics (which are only reachable through the type
// itself).
func instanceMembers(receiver ast.Type, name string) []ast.Binding {
	named, ok := receiver.Canonical().(*ast.NamedType)
	//
	if !ok || named.Members() == nil {
		return nil
	}
	//
	var candidates []ast.Binding
	//
	for _, b := range named.Members().Bindings(name) {
		if v, ok := b.(*ast.VariableBinding); ok && v.Static {
			continue
		}
		//
		candidates = append(candidates, b)
	}
	//
	return candidates
}

// checkSubscriptAccess analyses a subscript application against the subscript
// member of its base type.  The element is an l-value exactly when the
// subscript reference itself produces one.
func (c *Checker) checkSubscriptAccess(e *ast.SubscriptAccess, scope *ast.Scope) (ast.Expr, ast.Type) {
	nbase, baseType := c.checkExpr(e.Base, scope)
	e.Base = nbase
	e.Index, _ = c.checkExpr(e.Index, scope)
	//
	if ast.IsErrorType(baseType) {
		return e, baseType
	}
	//
	receiver := loadType(baseType)
	binding := subscriptMember(receiver)
	//
	if binding == nil {
		c.errors = append(c.errors, c.srcmap.SyntaxErrors(e,
			fmt.Sprintf("%s has no subscript", receiver.String()))...)
		//
		return e, ast.NewErrorType()
	}
	//
	e.Member = binding
	//
	signature := c.typeOfReference(binding, baseType, true)
	//
	if ast.IsErrorType(signature) {
		return e, signature
	}
	//
	return e, signature.(*ast.FunctionType).Return()
}

func subscriptMember(receiver ast.Type) *ast.SubscriptBinding {
	named, ok := receiver.Canonical().(*ast.NamedType)
	//
	if !ok || named.Members() == nil {
		return nil
	}
	//
	for _, b := range named.Members().Bindings(ast.SubscriptName) {
		if sb, ok := b.(*ast.SubscriptBinding); ok {
			return sb
		}
	}
	//
	return nil
}

// checkForceUnwrap analyses a forced unwrap, which strips one level of
// optionality.  A non-optional operand passes through unchanged, which covers
// the wrapper installed around forced casts.
func (c *Checker) checkForceUnwrap(e *ast.ForceUnwrap, scope *ast.Scope) (ast.Expr, ast.Type) {
	sub, subType := c.checkExpr(e.Sub, scope)
	e.Sub = sub
	//
	datatype := loadType(subType)
	//
	if opt, ok := datatype.Canonical().(*ast.OptionalType); ok {
		return e, opt.Element()
	}
	//
	return e, datatype
}

// checkClosure analyses a closure expression, building its scope and body.
// An undeclared return type is inferred from the final body item, defaulting
// to unit when that item is not an expression.
func (c *Checker) checkClosure(e *ast.Closure, enclosing *ast.Scope) (ast.Expr, ast.Type) {
	scope := ast.NewScope(ast.SCOPE_CLOSURE, enclosing)
	e.SetScope(scope)
	//
	params := make([]ast.Type, len(e.Params))
	//
	for i, param := range e.Params {
		params[i] = c.validateParam(param, enclosing)
		c.declare(scope, param)
	}
	//
	ret := c.checkItems(e.Body, scope)
	//
	if e.DeclaredReturn != nil {
		ret = c.resolveType(e.DeclaredReturn, enclosing)
	} else if ret == nil {
		ret = ast.NewTupleType()
	}
	//
	return e, ast.NewFunctionType(params, ret, false)
}

// checkItems analyses the items making up a function or closure body, in
// order, declaring locals as they are met.  The result is the type of the
// final item when that item is an expression, and nil otherwise.
func (c *Checker) checkItems(items []ast.Stmt, scope *ast.Scope) ast.Type {
	var last ast.Type
	//
	for i, item := range items {
		last = nil
		//
		switch s := item.(type) {
		case *ast.Local:
			// Initialiser resolved before the local is visible, hence a
			// local never refers to itself.
			c.validateVariable(s.Variable, scope)
			c.declare(scope, s.Variable)
		case *ast.LocalFunction:
			// Declared first, so the body can recurse.
			c.declare(scope, s.Function)
			c.validate(s.Function)
			c.checkFunctionBody(s.Function)
		case ast.Expr:
			var datatype ast.Type
			//
			items[i], datatype = c.checkExpr(s, scope)
			last = loadType(datatype)
		}
	}
	//
	return last
}

// loadType strips the l-value wrapper off a type, reflecting a read of the
// underlying storage.
func loadType(t ast.Type) ast.Type {
	if lval, ok := t.(*ast.LValueType); ok {
		return lval.Object()
	}
	//
	return t
}
