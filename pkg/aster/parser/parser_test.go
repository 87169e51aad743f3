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
package parser

import (
	"testing"

	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/util/source"
	"github.com/stretchr/testify/assert"
)

// Operator declaration
func Test_Parser_01(t *testing.T) {
	module := parseModule(t, "infix operator <+> : 60 left")
	//
	binding := module.Decls[0].(*ast.OperatorBinding)
	assert.Equal(t, "<+>", binding.Name())
	assert.Equal(t, "60 left", binding.Fixity().String())
}

// Operator precedence out of range
func Test_Parser_02(t *testing.T) {
	parseFail(t, "infix operator <+> : 300 left", "invalid operator precedence")
}

// Unknown associativity
func Test_Parser_03(t *testing.T) {
	parseFail(t, "infix operator <+> : 60 sideways", "unknown associativity")
}

// Simple let with initialiser
func Test_Parser_04(t *testing.T) {
	module := parseModule(t, "let x = 10")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, "x", binding.Name())
	assert.Equal(t, ast.VAR_LET, binding.Kind)
	assert.Nil(t, binding.DeclaredType)
	assert.NotNil(t, binding.Initialiser)
}

// Declared type, no initialiser
func Test_Parser_05(t *testing.T) {
	module := parseModule(t, "var x : Field?")
	//
	binding := module.Decls[0].(*ast.VariableBinding)
	assert.Equal(t, ast.VAR_VAR, binding.Kind)
	assert.Equal(t, "Field?", binding.DeclaredType.String())
	assert.Nil(t, binding.Initialiser)
}

// Weak and unowned modifiers
func Test_Parser_06(t *testing.T) {
	module := parseModule(t, "weak var w : Node? unowned let u : Node = n")
	//
	w := module.Decls[0].(*ast.VariableBinding)
	u := module.Decls[1].(*ast.VariableBinding)
	assert.Equal(t, ast.OWNERSHIP_WEAK, w.Ownership)
	assert.Equal(t, ast.OWNERSHIP_UNOWNED, u.Ownership)
}

// Static only within a type body
func Test_Parser_07(t *testing.T) {
	parseFail(t, "static let x = 1", "static member outside type body")
}

// Computed variable, getter only
func Test_Parser_08(t *testing.T) {
	module := parseModule(t, "struct S { var v : Field { get } }")
	//
	typ := module.Decls[0].(*ast.TypeBinding)
	binding := typ.MemberDecls[0].(*ast.VariableBinding)
	assert.NotNil(t, binding.Getter)
	assert.Nil(t, binding.Setter)
	// Getters default to non-mutating
	assert.False(t, binding.Getter.IsMutating())
}

// Computed variable, accessor mutability defaults and overrides
func Test_Parser_09(t *testing.T) {
	module := parseModule(t, "struct S { var a : Field { get set } var b : Field { mutating get nonmutating set } }")
	//
	typ := module.Decls[0].(*ast.TypeBinding)
	a := typ.MemberDecls[0].(*ast.VariableBinding)
	b := typ.MemberDecls[1].(*ast.VariableBinding)
	// Setters default to mutating
	assert.False(t, a.Getter.IsMutating())
	assert.True(t, a.Setter.IsMutating())
	// Explicit modifiers override
	assert.True(t, b.Getter.IsMutating())
	assert.False(t, b.Setter.IsMutating())
}

// Accessor blocks rejected on let declarations
func Test_Parser_10(t *testing.T) {
	parseFail(t, "struct S { let v : Field { get } }", "'let' declaration cannot have accessors")
}

// Computed variables require a declared type
func Test_Parser_11(t *testing.T) {
	parseFail(t, "struct S { var v { get } }", "computed variable requires a declared type")
}

// Setter requires a getter
func Test_Parser_12(t *testing.T) {
	parseFail(t, "struct S { var v : Field { set } }", "setter requires a getter")
}

// Function declaration
func Test_Parser_13(t *testing.T) {
	module := parseModule(t, "pure fun add(x: Field, inout y: Field) -> Field { x + y }")
	//
	binding := module.Decls[0].(*ast.FunctionBinding)
	assert.Equal(t, "add", binding.Name())
	assert.True(t, binding.Pure)
	assert.Len(t, binding.Params, 2)
	assert.Equal(t, ast.OWNERSHIP_INOUT, binding.Params[1].Ownership)
	assert.Equal(t, "Field", binding.DeclaredReturn.String())
	assert.Len(t, binding.Body, 1)
}

// Operator implementations are functions with operator names
func Test_Parser_14(t *testing.T) {
	module := parseModule(t, "fun <+> (a: Field, b: Field) -> Field { a }")
	//
	binding := module.Decls[0].(*ast.FunctionBinding)
	assert.Equal(t, "<+>", binding.Name())
}

// Struct, class and trait declarations
func Test_Parser_15(t *testing.T) {
	module := parseModule(t, "struct P { var x : Field } class C { } trait T { fun f() -> Field }")
	//
	s := module.Decls[0].(*ast.TypeBinding)
	c := module.Decls[1].(*ast.TypeBinding)
	tr := module.Decls[2].(*ast.TypeBinding)
	assert.Equal(t, ast.TYPE_STRUCT, s.Kind)
	assert.Equal(t, ast.TYPE_CLASS, c.Kind)
	assert.Equal(t, ast.TYPE_TRAIT, tr.Kind)
	// Trait members may omit their bodies
	fn := tr.MemberDecls[0].(*ast.FunctionBinding)
	assert.Nil(t, fn.Body)
}

// Alias declaration
func Test_Parser_16(t *testing.T) {
	module := parseModule(t, "alias Distance = Field")
	//
	binding := module.Decls[0].(*ast.TypeBinding)
	assert.Equal(t, ast.TYPE_ALIAS, binding.Kind)
	assert.Equal(t, "Field", binding.DeclaredUnderlying.String())
}

// Subscript declaration
func Test_Parser_17(t *testing.T) {
	module := parseModule(t, "struct S { pure subscript(i: Field) -> Field { get set } }")
	//
	typ := module.Decls[0].(*ast.TypeBinding)
	binding := typ.MemberDecls[0].(*ast.SubscriptBinding)
	assert.True(t, binding.Pure)
	assert.Equal(t, "i", binding.Index.Name())
	assert.Equal(t, "Field", binding.DeclaredElement.String())
	assert.NotNil(t, binding.Getter)
	assert.NotNil(t, binding.Setter)
}

// Subscripts take exactly one parameter
func Test_Parser_18(t *testing.T) {
	parseFail(t, "struct S { subscript(i: Field, j: Field) -> Field { get } }", "subscript requires exactly one parameter")
}

// Binary chains come out flat, not folded
func Test_Parser_19(t *testing.T) {
	assert.Equal(t, "(seq 1 + 2 * 3)", parseExprLisp(t, "1 + 2 * 3"))
}

// Assignment marker
func Test_Parser_20(t *testing.T) {
	assert.Equal(t, "(seq x = 5)", parseExprLisp(t, "x = 5"))
}

// Conditional marker carries its pre-parsed branch
func Test_Parser_21(t *testing.T) {
	assert.Equal(t, "(seq a (ite _ b _) c)", parseExprLisp(t, "a ? b : c"))
}

// Nested conditionals associate to the right
func Test_Parser_22(t *testing.T) {
	assert.Equal(t, "(seq a (ite _ (seq b (ite _ c _) d) _) e)", parseExprLisp(t, "a ? b ? c : d : e"))
}

// Cast markers fill both the operator and operand slots
func Test_Parser_23(t *testing.T) {
	expr := parseExpr(t, "x as Field")
	//
	seq := expr.(*ast.Sequence)
	assert.Len(t, seq.Elements, 3)
	assert.Same(t, seq.Elements[1], seq.Elements[2])
	assert.Equal(t, "(seq x (as Field) (as Field))", expr.Lisp().String(false))
}

// Cast flavours
func Test_Parser_24(t *testing.T) {
	coerce := parseExpr(t, "x as Field").(*ast.Sequence).Elements[1].(*ast.Cast)
	force := parseExpr(t, "x as! Field").(*ast.Sequence).Elements[1].(*ast.Cast)
	check := parseExpr(t, "x is Field").(*ast.Sequence).Elements[1].(*ast.Cast)
	//
	assert.Equal(t, ast.CAST_COERCE, coerce.Kind)
	assert.Equal(t, ast.CAST_FORCE, force.Kind)
	assert.Equal(t, ast.CAST_CHECK, check.Kind)
}

// Postfix chains
func Test_Parser_25(t *testing.T) {
	assert.Equal(t, "(force (index ((get a b) c) d))", parseExprLisp(t, "a.b(c)[d]!"))
}

// Zero-argument calls
func Test_Parser_26(t *testing.T) {
	assert.Equal(t, "(f)", parseExprLisp(t, "f()"))
}

// Parenthesised groupings vanish from the tree
func Test_Parser_27(t *testing.T) {
	assert.Equal(t, "(seq (seq 1 + 2) * 3)", parseExprLisp(t, "(1 + 2) * 3"))
}

// Closure expressions
func Test_Parser_28(t *testing.T) {
	expr := parseExpr(t, "fun (x: Field) -> Field { x + 1 }")
	//
	closure := expr.(*ast.Closure)
	assert.Len(t, closure.Params, 1)
	assert.Equal(t, "Field", closure.DeclaredReturn.String())
	assert.Len(t, closure.Body, 1)
}

// Local declarations versus closure expressions
func Test_Parser_29(t *testing.T) {
	module := parseModule(t, "fun f() -> Field { fun g() -> Field { 1 }; let h = fun () { 2 }; g() }")
	//
	binding := module.Decls[0].(*ast.FunctionBinding)
	assert.Len(t, binding.Body, 3)
	//
	_, localFn := binding.Body[0].(*ast.LocalFunction)
	local, localVar := binding.Body[1].(*ast.Local)
	assert.True(t, localFn)
	assert.True(t, localVar)
	//
	_, isClosure := local.Variable.Initialiser.(*ast.Closure)
	assert.True(t, isClosure)
}

// Trailing semicolons are tolerated
func Test_Parser_30(t *testing.T) {
	module := parseModule(t, "fun f() { let y = 1; y + 2; }")
	//
	binding := module.Decls[0].(*ast.FunctionBinding)
	assert.Len(t, binding.Body, 2)
}

// Source spans
func Test_Parser_31(t *testing.T) {
	srcfile := source.NewSourceFile("test.aster", []byte("let x = 42"))
	module, srcmap, errs := Parse(srcfile)
	//
	assert.Empty(t, errs)
	// Binding covers the whole declaration
	span := srcmap.Get(module.Decls[0])
	assert.Equal(t, 0, span.Start())
	assert.Equal(t, 10, span.End())
	// Initialiser covers just the literal
	binding := module.Decls[0].(*ast.VariableBinding)
	span = srcmap.Get(binding.Initialiser)
	assert.Equal(t, 8, span.Start())
	assert.Equal(t, 10, span.End())
}

// Unknown declaration
func Test_Parser_32(t *testing.T) {
	parseFail(t, "foo", "unknown declaration")
}

// Trailing tokens after an expression
func Test_Parser_33(t *testing.T) {
	srcfile := source.NewSourceFile("test.aster", []byte("1 2"))
	_, _, errs := ParseExpr(srcfile)
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "unexpected trailing tokens", errs[0].Message())
}

// ============================================================================
// Framework
// ============================================================================

func parseModule(t *testing.T, input string) *ast.Module {
	srcfile := source.NewSourceFile("test.aster", []byte(input))
	module, _, errs := Parse(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	//
	return module
}

func parseFail(t *testing.T, input string, msg string) {
	srcfile := source.NewSourceFile("test.aster", []byte(input))
	_, _, errs := Parse(srcfile)
	//
	if len(errs) == 0 {
		t.Fatalf("expecting error %q", msg)
	}
	//
	assert.Equal(t, msg, errs[0].Message())
}

func parseExpr(t *testing.T, input string) ast.Expr {
	srcfile := source.NewSourceFile("test.aster", []byte(input))
	expr, _, errs := ParseExpr(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	//
	return expr
}

func parseExprLisp(t *testing.T, input string) string {
	return parseExpr(t, input).Lisp().String(false)
}
