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
	"math/big"
	"testing"

	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/aster/parser"
	"github.com/consensys/go-aster/pkg/util/source"
	"github.com/stretchr/testify/assert"
)

// Left associative chain
func Test_Folder_01(t *testing.T) {
	assert.Equal(t, "(- (- 1 2) 3)", foldString(t, "1 - 2 - 3"))
}

// Tighter operator on the right
func Test_Folder_02(t *testing.T) {
	assert.Equal(t, "(+ 1 (* 2 3))", foldString(t, "1 + 2 * 3"))
}

// Tighter operator on the left
func Test_Folder_03(t *testing.T) {
	assert.Equal(t, "(+ (* 1 2) 3)", foldString(t, "1 * 2 + 3"))
}

// Right associative chain
func Test_Folder_04(t *testing.T) {
	assert.Equal(t, "(** 2 (** 3 4))", foldString(t, "2 ** 3 ** 4"))
}

// Several precedence levels at once
func Test_Folder_05(t *testing.T) {
	assert.Equal(t, "(- (+ 1 (* 2 (** 3 4))) 5)", foldString(t, "1 + 2 * 3 ** 4 - 5"))
}

// Comparison binds looser than arithmetic
func Test_Folder_06(t *testing.T) {
	assert.Equal(t, "(== (+ 1 2) (* 3 4))", foldString(t, "1 + 2 == 3 * 4"))
}

// Logical operators bind loosest of all
func Test_Folder_07(t *testing.T) {
	assert.Equal(t, "(|| (&& (== 1 2) (== 3 4)) (== 5 6))", foldString(t, "1 == 2 && 3 == 4 || 5 == 6"))
}

// Conditional over a folded condition
func Test_Folder_08(t *testing.T) {
	assert.Equal(t, "(ite (== 1 2) 3 4)", foldString(t, "1 == 2 ? 3 : 4"))
}

// Conditionals nest towards the right
func Test_Folder_09(t *testing.T) {
	assert.Equal(t, "(ite 1 2 (ite 3 4 5))", foldString(t, "1 ? 2 : 3 ? 4 : 5"))
}

// Assignment binds looser than a conditional
func Test_Folder_10(t *testing.T) {
	assert.Equal(t, "(= x (ite 1 2 3))", foldString(t, "x = 1 ? 2 : 3"))
}

// Assignments nest towards the right
func Test_Folder_11(t *testing.T) {
	assert.Equal(t, "(= x (= y z))", foldString(t, "x = y = z"))
}

// Cast applies to the whole folded operand
func Test_Folder_12(t *testing.T) {
	assert.Equal(t, "(as (+ 1 2) Field)", foldString(t, "1 + 2 as Field"))
}

// Cast result usable as a further operand
func Test_Folder_13(t *testing.T) {
	assert.Equal(t, "(+ (as 1 Field) 2)", foldString(t, "1 as Field + 2"))
}

// Forced cast folds into a coercion under a forced unwrap
func Test_Folder_14(t *testing.T) {
	folded, errs := foldErrs(t, "1 as! Field")
	assert.Empty(t, errs)
	assert.Equal(t, "(force (as 1 Field))", folded.Lisp().String(false))
	//
	cast := folded.(*ast.ForceUnwrap).Sub.(*ast.Cast)
	assert.Equal(t, ast.CAST_COERCE, cast.Kind)
}

// Type check folds like any other cast
func Test_Folder_15(t *testing.T) {
	assert.Equal(t, "(is 1 Field)", foldString(t, "1 is Field"))
}

// Non-associative operators cannot chain, though folding recovers
func Test_Folder_16(t *testing.T) {
	folded, errs := foldErrs(t, "1 == 2 == 3")
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "operator is non-associative", errs[0].Message())
	assert.Equal(t, "(== (== 1 2) 3)", folded.Lisp().String(false))
}

// Every non-associative adjacency is reported
func Test_Folder_17(t *testing.T) {
	folded, errs := foldErrs(t, "1 == 2 == 3 == 4")
	//
	assert.Len(t, errs, 2)
	assert.Equal(t, "(== (== (== 1 2) 3) 4)", folded.Lisp().String(false))
}

// Equal precedence with conflicting associativity
func Test_Folder_18(t *testing.T) {
	srcfile := source.NewSourceFile("test.aster", []byte("1 + 2 <| 3"))
	expr, srcmap, errs := parser.ParseExpr(srcfile)
	assert.Empty(t, errs)
	//
	scope := NewChecker(srcmap, true).Scope()
	scope.Declare(ast.NewOperatorBinding("<|", ast.NewFixity(140, ast.RIGHT_ASSOCIATIVE)))
	//
	folded, errs := FoldSequence(expr.(*ast.Sequence), scope, sourceMapsOf(srcmap))
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "adjacent operators with conflicting associativity", errs[0].Message())
	assert.Equal(t, "(<| (+ 1 2) 3)", folded.Lisp().String(false))
}

// Unknown operator is diagnosed, then binds tightest
func Test_Folder_19(t *testing.T) {
	folded, errs := foldErrs(t, "1 <*> 2")
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "unknown binary operator <*>", errs[0].Message())
	assert.Equal(t, "(<*> 1 2)", folded.Lisp().String(false))
}

// Unknown operator diagnosed once, even when considered twice
func Test_Folder_20(t *testing.T) {
	folded, errs := foldErrs(t, "1 + 2 <*> 3")
	//
	assert.Len(t, errs, 1)
	assert.Equal(t, "(+ 1 (<*> 2 3))", folded.Lisp().String(false))
}

// Malformed sequences are rejected outright
func Test_Folder_21(t *testing.T) {
	srcfile := source.NewSourceFile("test.aster", []byte("1"))
	srcmap := source.NewSourceMap[any](*srcfile)
	scope := NewChecker(srcmap, true).Scope()
	//
	one := big.NewInt(1)
	seq := ast.NewSequence([]ast.Expr{ast.NewConstant(*one), ast.NewConstant(*one)})
	//
	assert.Panics(t, func() {
		_, _ = FoldSequence(seq, scope, sourceMapsOf(srcmap))
	})
}

// Folding is determined by the operator table alone
func Test_Folder_22(t *testing.T) {
	input := "a = 1 + 2 * 3 ** 4 == 5 ? 6 : 7"
	//
	assert.Equal(t, foldString(t, input), foldString(t, input))
}

// ============================================================================
// Framework
// ============================================================================

// foldString parses and folds a standalone expression against the standard
// prelude, requiring this to succeed, and returns its lisp rendering.
func foldString(t *testing.T, input string) string {
	folded, errs := foldErrs(t, input)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	//
	return folded.Lisp().String(false)
}

// foldErrs parses and folds a standalone expression against the standard
// prelude, returning the folded form along with any diagnostics arising.
func foldErrs(t *testing.T, input string) (ast.Expr, []source.SyntaxError) {
	srcfile := source.NewSourceFile("test.aster", []byte(input))
	expr, srcmap, errs := parser.ParseExpr(srcfile)
	//
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	//
	scope := NewChecker(srcmap, true).Scope()
	//
	return FoldSequence(expr.(*ast.Sequence), scope, sourceMapsOf(srcmap))
}

// sourceMapsOf wraps the source map of a single fragment in the plural form
// expected by the folder.
func sourceMapsOf(srcmap *source.Map[any]) *source.Maps[any] {
	srcmaps := source.NewSourceMaps[any]()
	srcmaps.Join(srcmap)
	//
	return srcmaps
}
