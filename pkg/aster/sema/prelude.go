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

// registerPrelude populates the builtin scope.  The Field and Bool types are
// always present, since expressions cannot be typed at all without them.  The
// standard operators (and, with them, optional support for weak reads) are
// only registered when the standard prelude is enabled.
func (c *Checker) registerPrelude() {
	c.builtin = ast.NewScope(ast.SCOPE_BUILTIN, nil)
	//
	field := ast.NewBuiltinTypeBinding("Field")
	boolean := ast.NewBuiltinTypeBinding("Bool")
	//
	c.builtin.Declare(field)
	c.builtin.Declare(boolean)
	//
	c.fieldType = field.DataType()
	c.boolType = boolean.DataType()
	//
	if !c.stdlib {
		return
	}
	// Exponentiation
	c.declareOperator("**", 160, ast.RIGHT_ASSOCIATIVE, c.fieldType, c.fieldType)
	// Multiplicative
	c.declareOperator("*", 150, ast.LEFT_ASSOCIATIVE, c.fieldType, c.fieldType)
	c.declareOperator("/", 150, ast.LEFT_ASSOCIATIVE, c.fieldType, c.fieldType)
	c.declareOperator("%", 150, ast.LEFT_ASSOCIATIVE, c.fieldType, c.fieldType)
	// Additive
	c.declareOperator("+", 140, ast.LEFT_ASSOCIATIVE, c.fieldType, c.fieldType)
	c.declareOperator("-", 140, ast.LEFT_ASSOCIATIVE, c.fieldType, c.fieldType)
	// Comparison (non-associative, so chains require parentheses)
	c.declareOperator("==", 130, ast.NON_ASSOCIATIVE, c.fieldType, c.boolType)
	c.declareOperator("!=", 130, ast.NON_ASSOCIATIVE, c.fieldType, c.boolType)
	c.declareOperator("<", 130, ast.NON_ASSOCIATIVE, c.fieldType, c.boolType)
	c.declareOperator("<=", 130, ast.NON_ASSOCIATIVE, c.fieldType, c.boolType)
	c.declareOperator(">", 130, ast.NON_ASSOCIATIVE, c.fieldType, c.boolType)
	c.declareOperator(">=", 130, ast.NON_ASSOCIATIVE, c.fieldType, c.boolType)
	// Logical
	c.declareOperator("&&", 120, ast.LEFT_ASSOCIATIVE, c.boolType, c.boolType)
	c.declareOperator("||", 110, ast.LEFT_ASSOCIATIVE, c.boolType, c.boolType)
}

// declareOperator registers a builtin infix operator: its fixity declaration,
// along with a finalised pure function implementing it over a given argument
// type.
func (c *Checker) declareOperator(name string, precedence uint8, assoc ast.Associativity, arg ast.Type, ret ast.Type) {
	lhs := ast.NewVariableBinding("lhs", ast.VAR_PARAM)
	rhs := ast.NewVariableBinding("rhs", ast.VAR_PARAM)
	lhs.Finalise(arg)
	rhs.Finalise(arg)
	//
	fn := ast.NewFunctionBinding(name, []*ast.VariableBinding{lhs, rhs}, nil, true)
	fn.Finalise(ast.NewFunctionType([]ast.Type{arg, arg}, ret, true))
	//
	c.builtin.Declare(ast.NewOperatorBinding(name, ast.NewFixity(precedence, assoc)))
	c.builtin.Declare(fn)
}
