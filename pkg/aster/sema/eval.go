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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/consensys/go-aster/pkg/aster/ast"
)

// EvalConstant attempts to evaluate a checked expression to a single element
// of the scalar field, applying the standard operators as field arithmetic.
// Hence subtraction wraps around the field modulus, and division is by field
// inverse (failing on a zero divisor).  Evaluation fails for anything beyond
// constants under the standard arithmetic operators.
func EvalConstant(expr ast.Expr) (fr.Element, bool) {
	var element fr.Element
	// Integer folding covers expressions whose operators agree with their
	// integer reading.
	if value := expr.AsConstant(); value != nil {
		element.SetBigInt(value)
		return element, true
	}
	//
	switch e := expr.(type) {
	case *ast.Cast:
		if e.Kind != ast.CAST_CHECK && e.Sub != nil {
			return EvalConstant(e.Sub)
		}
	case *ast.ForceUnwrap:
		return EvalConstant(e.Sub)
	case *ast.Binary:
		return evalBinary(e)
	}
	//
	return element, false
}

func evalBinary(e *ast.Binary) (fr.Element, bool) {
	var element fr.Element
	//
	name, ok := ast.OperatorName(e.Op)
	if !ok {
		return element, false
	}
	//
	lhs, lhsOk := EvalConstant(e.Lhs())
	rhs, rhsOk := EvalConstant(e.Rhs())
	//
	if !lhsOk || !rhsOk {
		return element, false
	}
	//
	switch name {
	case "+":
		element.Add(&lhs, &rhs)
	case "-":
		element.Sub(&lhs, &rhs)
	case "*":
		element.Mul(&lhs, &rhs)
	case "/":
		if rhs.IsZero() {
			return element, false
		}
		//
		element.Div(&lhs, &rhs)
	case "**":
		var exponent big.Int
		//
		rhs.BigInt(&exponent)
		element.Exp(lhs, &exponent)
	default:
		return element, false
	}
	//
	return element, true
}
