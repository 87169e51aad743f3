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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/assert"
)

// Bare constant
func Test_Eval_01(t *testing.T) {
	assert.Equal(t, fr.NewElement(7), evalFor(t, "7"))
}

// Arithmetic folds with its usual precedence
func Test_Eval_02(t *testing.T) {
	assert.Equal(t, fr.NewElement(23), evalFor(t, "3 + 4 * 5"))
}

// Exponentiation
func Test_Eval_03(t *testing.T) {
	assert.Equal(t, fr.NewElement(8), evalFor(t, "2 ** 3"))
}

// Subtraction wraps around the field modulus
func Test_Eval_04(t *testing.T) {
	var want fr.Element
	want.SetOne()
	want.Neg(&want)
	//
	assert.Equal(t, want, evalFor(t, "0 - 1"))
}

// Division is by field inverse
func Test_Eval_05(t *testing.T) {
	var (
		lhs  = fr.NewElement(10)
		rhs  = fr.NewElement(4)
		want fr.Element
	)
	//
	want.Div(&lhs, &rhs)
	//
	assert.Equal(t, want, evalFor(t, "10 / 4"))
}

// Division by zero does not evaluate
func Test_Eval_06(t *testing.T) {
	expr, _ := checkExprFor(t, "1 / 0")
	_, ok := EvalConstant(expr)
	//
	assert.False(t, ok)
}

// Coercions evaluate through to their operand
func Test_Eval_07(t *testing.T) {
	assert.Equal(t, fr.NewElement(7), evalFor(t, "7 as Field"))
}

// Non-arithmetic operators do not evaluate
func Test_Eval_08(t *testing.T) {
	expr, _ := checkExprFor(t, "1 == 2")
	_, ok := EvalConstant(expr)
	//
	assert.False(t, ok)
}

// ============================================================================
// Framework
// ============================================================================

// evalFor checks a standalone expression and evaluates it, requiring both to
// succeed.
func evalFor(t *testing.T, input string) fr.Element {
	expr, _ := checkExprFor(t, input)
	//
	element, ok := EvalConstant(expr)
	//
	if !ok {
		t.Fatalf("expression did not evaluate")
	}
	//
	return element
}
