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
	"testing"

	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/aster/parser"
	"github.com/consensys/go-aster/pkg/util/source"
	"github.com/stretchr/testify/assert"
)

// Initialiser inference
func Test_Checker_01(t *testing.T) {
	module, _ := checkModule(t, "let x = 1")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, "Field", binding.Type().String())
}

// Declared type without initialiser
func Test_Checker_02(t *testing.T) {
	module, _ := checkModule(t, "let x : Field")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, "Field", binding.Type().String())
}

// Alias sugar carried through operator application
func Test_Checker_03(t *testing.T) {
	module, checker := checkModule(t,
		"alias Money = Field\nlet m : Money = 1\nfun f() -> Money { m + m }")
	//
	expr := lastBodyExpr(t, module.Decls[2])
	assert.Equal(t, "Money", checker.TypeOf(expr).String())
}

// Variable with neither type nor initialiser
func Test_Checker_04(t *testing.T) {
	checkFail(t, "var x", "variable requires a type or initialiser")
}

// Unknown declared type
func Test_Checker_05(t *testing.T) {
	checkFail(t, "let x : Banana", "unknown type Banana")
}

// Unknown identifier in initialiser
func Test_Checker_06(t *testing.T) {
	checkFail(t, "let x = y", "unknown identifier y")
}

// Variable defined in terms of itself
func Test_Checker_07(t *testing.T) {
	checkFail(t, "let x = x", "circular reference to x")
}

// Mutually circular variables reported once
func Test_Checker_08(t *testing.T) {
	checkFail(t, "let a = b\nlet b = a", "circular reference to a")
}

// Duplicate variable declaration
func Test_Checker_09(t *testing.T) {
	checkFail(t, "let x = 1\nlet x = 2", "x already declared")
}

// Function overloads coexist
func Test_Checker_10(t *testing.T) {
	checkModule(t, "fun f(x : Field) -> Field { x }\nfun f() -> Field { 1 }")
}

// Declared operator resolves through its implementing function
func Test_Checker_11(t *testing.T) {
	module, checker := checkModule(t,
		"infix operator <+> : 145 left\n"+
			"fun <+>(lhs : Field, rhs : Field) -> Field { lhs }\n"+
			"fun f() -> Field { 1 <+> 2 }")
	//
	expr := lastBodyExpr(t, module.Decls[2])
	assert.Equal(t, "Field", checker.TypeOf(expr).String())
}

// Duplicate operator declaration
func Test_Checker_12(t *testing.T) {
	checkFail(t, "infix operator <+> : 60 left\ninfix operator <+> : 70 left",
		"<+> already declared")
}

// Assignment to an immutable binding
func Test_Checker_13(t *testing.T) {
	checkFail(t, "let x = 1\nfun f() { x = 2 }", "cannot assign to immutable expression")
}

// Assignment to a mutable binding, which is itself unit typed
func Test_Checker_14(t *testing.T) {
	module, checker := checkModule(t, "var x = 1\nfun f() { x = 2 }")
	//
	expr := lastBodyExpr(t, module.Decls[1])
	assert.Equal(t, "()", checker.TypeOf(expr).String())
}

// Plain parameters are immutable
func Test_Checker_15(t *testing.T) {
	checkFail(t, "fun f(x : Field) { x = 1 }", "cannot assign to immutable expression")
}

// Inout parameters are settable
func Test_Checker_16(t *testing.T) {
	checkModule(t, "fun f(inout x : Field) { x = 1 }")
}

// Stored member read off a value base
func Test_Checker_17(t *testing.T) {
	module, checker := checkModule(t,
		"struct Point { var x : Field\nvar y : Field }\nfun f(p : Point) -> Field { p.x }")
	//
	expr := lastBodyExpr(t, module.Decls[1]).(*ast.MemberAccess)
	assert.NotNil(t, expr.Member)
	assert.True(t, expr.Direct)
	assert.Equal(t, "Field", checker.TypeOf(expr).String())
}

// Stored member through an inout base is settable
func Test_Checker_18(t *testing.T) {
	module, checker := checkModule(t,
		"struct Point { var x : Field }\nfun f(inout p : Point) { p.x = 1 }")
	//
	assign := lastBodyExpr(t, module.Decls[1]).(*ast.Assign)
	assert.Equal(t, "@lvalue Field", checker.TypeOf(assign.Dest).String())
}

// Stored member on a plain value base is not settable
func Test_Checker_19(t *testing.T) {
	checkFail(t, "struct Point { var x : Field }\nfun f(p : Point) { p.x = 1 }",
		"cannot assign to immutable expression")
}

// Members of a class are settable through any reference
func Test_Checker_20(t *testing.T) {
	checkModule(t, "class Box { var value : Field }\nfun f(b : Box) { b.value = 1 }")
}

// Reference semantics apply even through an immutable binding
func Test_Checker_21(t *testing.T) {
	checkModule(t, "class Box { var value : Field }\nlet box : Box\nfun f() { box.value = 1 }")
}

// Unknown member
func Test_Checker_22(t *testing.T) {
	checkFail(t, "struct Point { var x : Field }\nfun f(p : Point) { p.z }",
		"Point has no member z")
}

// Static members are reached through the type itself
func Test_Checker_23(t *testing.T) {
	checkModule(t, "struct Counter { static var count : Field = 0 }\nfun f() { Counter.count = 1 }")
}

// Static members are not visible on an instance
func Test_Checker_24(t *testing.T) {
	checkFail(t, "struct Counter { static var count : Field = 0 }\nfun f(c : Counter) { c.count }",
		"Counter has no member count")
}

// Non-mutating setter makes a computed member settable on a value base
func Test_Checker_25(t *testing.T) {
	checkModule(t,
		"struct Meta { var version : Field { get nonmutating set } }\nfun f(m : Meta) { m.version = 1 }")
}

// Default (mutating) setter requires an addressable base
func Test_Checker_26(t *testing.T) {
	checkFail(t,
		"struct Meta { var version : Field { get set } }\nfun f(m : Meta) { m.version = 1 }",
		"cannot assign to immutable expression")
}

// Get-only computed member is never settable
func Test_Checker_27(t *testing.T) {
	checkFail(t,
		"struct Meta { var version : Field { get } }\nfun f(inout m : Meta) { m.version = 1 }",
		"cannot assign to immutable expression")
}

// Weak member reads as an optional of its referent
func Test_Checker_28(t *testing.T) {
	module, checker := checkModule(t,
		"class Node { weak var next : Node }\nfun f(n : Node) -> Node { n.next! }")
	//
	force := lastBodyExpr(t, module.Decls[1]).(*ast.ForceUnwrap)
	assert.Equal(t, "@lvalue Node?", checker.TypeOf(force.Sub).String())
	assert.Equal(t, "Node", checker.TypeOf(force).String())
}

// Weak storage must be reassignable
func Test_Checker_29(t *testing.T) {
	checkFail(t, "class Node { weak let next : Node }", "weak declaration must be a var")
}

// Unowned member reads as its bare referent
func Test_Checker_30(t *testing.T) {
	module, checker := checkModule(t,
		"class Tree { unowned var parent : Tree }\nfun f(t : Tree) -> Tree { t.parent }")
	//
	expr := lastBodyExpr(t, module.Decls[1])
	assert.Equal(t, "@lvalue Tree", checker.TypeOf(expr).String())
}

// Without the standard prelude, no operators are declared
func Test_Checker_31(t *testing.T) {
	module, srcmap := parseForCheck(t, "let x = 1 + 2")
	errs := NewChecker(srcmap, false).Check(module)
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "unknown binary operator +", errs[0].Message())
}

// Without optional support, weak reads degrade (reported once)
func Test_Checker_32(t *testing.T) {
	module, srcmap := parseForCheck(t,
		"class Node { weak var next : Node }\nfun f(n : Node) { n.next; n.next }")
	errs := NewChecker(srcmap, false).Check(module)
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "optional intrinsics unavailable", errs[0].Message())
}

// Mutually circular aliases reported once
func Test_Checker_33(t *testing.T) {
	checkFail(t, "alias A = B\nalias B = A", "circular reference to A")
}

// Alias chains resolve, keeping their sugar
func Test_Checker_34(t *testing.T) {
	module, _ := checkModule(t, "alias A = Field\nalias B = A\nlet x : B = 1")
	//
	binding := module.Decls[2].(*ast.VariableBinding)
	assert.Equal(t, "B", binding.Type().String())
	assert.Equal(t, "Field", binding.Type().Canonical().String())
}

// Subscript element read
func Test_Checker_35(t *testing.T) {
	module, checker := checkModule(t,
		"struct Vec { subscript (i : Field) -> Field { get set } }\nfun f(v : Vec) -> Field { v[0] }")
	//
	expr := lastBodyExpr(t, module.Decls[1]).(*ast.SubscriptAccess)
	assert.NotNil(t, expr.Member)
	assert.Equal(t, "Field", checker.TypeOf(expr).String())
}

// Default (mutating) subscript setter requires an addressable base
func Test_Checker_36(t *testing.T) {
	checkFail(t,
		"struct Vec { subscript (i : Field) -> Field { get set } }\nfun f(v : Vec) { v[0] = 1 }",
		"cannot assign to immutable expression")
}

// Subscript element settable through an inout base
func Test_Checker_37(t *testing.T) {
	checkModule(t,
		"struct Vec { subscript (i : Field) -> Field { get set } }\nfun f(inout v : Vec) { v[0] = 1 }")
}

// Non-mutating accessors make a subscript settable on a value base
func Test_Checker_38(t *testing.T) {
	checkModule(t,
		"struct Grid { subscript (i : Field) -> Field { get nonmutating set } }\nfun f(g : Grid) { g[0] = 1 }")
}

// Subscripting a type without a subscript
func Test_Checker_39(t *testing.T) {
	checkFail(t, "fun f(x : Field) { x[0] }", "Field has no subscript")
}

// Applying a non-function value
func Test_Checker_40(t *testing.T) {
	checkFail(t, "let x = 1\nfun f() { x() }", "cannot invoke non-function value")
}

// Applying a function to the wrong number of arguments
func Test_Checker_41(t *testing.T) {
	checkFail(t, "fun g(x : Field) -> Field { x }\nfun f() -> Field { g(1, 2) }",
		"incorrect number of arguments")
}

// Overloaded application passes through unresolved
func Test_Checker_42(t *testing.T) {
	checkModule(t, "fun g(x : Field) -> Field { x }\nfun g() -> Field { 1 }\nfun f() { g(1) }")
}

// Closure with a declared return type
func Test_Checker_43(t *testing.T) {
	module, _ := checkModule(t, "let f = fun (x : Field) -> Field { x }")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, "(Field) -> Field", binding.Type().String())
}

// Closure return type inferred from its final item
func Test_Checker_44(t *testing.T) {
	module, _ := checkModule(t, "let f = fun (x : Field) { x + 1 }")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, "(Field) -> Field", binding.Type().String())
}

// Closure ending in a declaration is unit typed
func Test_Checker_45(t *testing.T) {
	module, _ := checkModule(t, "let f = fun () { let y = 1 }")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, "() -> ()", binding.Type().String())
}

// Local functions can recurse
func Test_Checker_46(t *testing.T) {
	checkModule(t, "fun f() -> Field { fun g(n : Field) -> Field { g(n) }; g(1) }")
}

// Local redeclaration within one body
func Test_Checker_47(t *testing.T) {
	checkFail(t, "fun f() { let x = 1; let x = 2 }", "x already declared")
}

// Trait requirements check without bodies, members dispatch dynamically
func Test_Checker_48(t *testing.T) {
	checkModule(t, "trait Shape { fun area() -> Field\nfun doubled() -> Field { area() + area() } }")
}

// Purity recorded in a function's signature
func Test_Checker_49(t *testing.T) {
	module, _ := checkModule(t, "pure fun sq(x : Field) -> Field { x * x }")
	//
	binding := module.Decls[0].(*ast.FunctionBinding)
	assert.Equal(t, "pure (Field) -> Field", binding.Signature().String())
}

// Standalone expressions fold and type directly
func Test_Checker_50(t *testing.T) {
	expr, datatype := checkExprFor(t, "1 + 2 * 3")
	//
	assert.Equal(t, "(+ 1 (* 2 3))", expr.Lisp().String(false))
	assert.Equal(t, "Field", datatype.String())
}

// Coercion takes its target type, type check produces a boolean
func Test_Checker_51(t *testing.T) {
	_, coerce := checkExprFor(t, "1 as Field")
	_, check := checkExprFor(t, "1 is Field")
	//
	assert.Equal(t, "Field", coerce.String())
	assert.Equal(t, "Bool", check.String())
}

// Conditional takes the type of its then branch
func Test_Checker_52(t *testing.T) {
	_, datatype := checkExprFor(t, "1 == 2 ? 3 : 4")
	//
	assert.Equal(t, "Field", datatype.String())
}

// Parameters live in the recorded body scope
func Test_Checker_53(t *testing.T) {
	module, checker := checkModule(t, "fun f(x : Field) -> Field { x }")
	//
	binding := module.Decls[0].(*ast.FunctionBinding)
	scope := binding.BodyScope()
	//
	assert.Len(t, scope.Bindings("x"), 1)
	assert.True(t, scope.IsDescendantOf(checker.Scope()))
}

// ============================================================================
// Framework
// ============================================================================

// parseForCheck parses a module, requiring this to succeed.
func parseForCheck(t *testing.T, input string) (*ast.Module, *source.Map[any]) {
	srcfile := source.NewSourceFile("test.aster", []byte(input))
	module, srcmap, errs := parser.Parse(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	//
	return module, srcmap
}

// checkModule parses and analyses a module against the standard prelude,
// requiring both to succeed.
func checkModule(t *testing.T, input string) (*ast.Module, *Checker) {
	module, srcmap := parseForCheck(t, input)
	checker := NewChecker(srcmap, true)
	//
	if errs := checker.Check(module); len(errs) > 0 {
		t.Fatalf("unexpected check errors: %v", errs)
	}
	//
	return module, checker
}

// checkFail parses and analyses a module against the standard prelude,
// requiring exactly one diagnostic carrying a given message.
func checkFail(t *testing.T, input string, msg string) {
	module, srcmap := parseForCheck(t, input)
	errs := NewChecker(srcmap, true).Check(module)
	//
	if len(errs) != 1 {
		t.Fatalf("expecting exactly one error, got %v", errs)
	}
	//
	assert.Equal(t, msg, errs[0].Message())
}

// checkExprFor parses and analyses a standalone expression, requiring this to
// succeed.
func checkExprFor(t *testing.T, input string) (ast.Expr, ast.Type) {
	srcfile := source.NewSourceFile("test.aster", []byte(input))
	expr, srcmap, errs := parser.ParseExpr(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	//
	nexpr, datatype, errs := NewChecker(srcmap, true).CheckExpr(expr)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected check errors: %v", errs)
	}
	//
	return nexpr, datatype
}

// lastBodyExpr returns the final (checked) item of a given function's body as
// an expression.
func lastBodyExpr(t *testing.T, decl ast.Binding) ast.Expr {
	fn, ok := decl.(*ast.FunctionBinding)
	//
	if !ok {
		t.Fatalf("not a function declaration")
	}
	//
	expr, ok := fn.Body[len(fn.Body)-1].(ast.Expr)
	//
	if !ok {
		t.Fatalf("final body item is not an expression")
	}
	//
	return expr
}
