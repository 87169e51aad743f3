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
package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Type_01(t *testing.T) {
	// Nominal equality is by name
	assert.True(t, fieldType().Equals(fieldType()))
	assert.False(t, fieldType().Equals(NewNamedType("Bool", false, nil)))
}

func Test_Type_02(t *testing.T) {
	// Aliases are sugar, hence never equal their underlying type
	distance := NewAliasType("Distance", fieldType())
	//
	assert.False(t, distance.Equals(fieldType()))
	assert.True(t, distance.Canonical().Equals(fieldType()))
}

func Test_Type_03(t *testing.T) {
	// Canonicalisation strips nested sugar
	distance := NewAliasType("Distance", fieldType())
	offset := NewAliasType("Offset", distance)
	//
	assert.True(t, offset.Canonical().Equals(fieldType()))
	assert.Equal(t, "Offset", offset.String())
}

func Test_Type_04(t *testing.T) {
	// Optionals compare elementwise, and canonicalise through
	opt := NewOptionalType(NewAliasType("Distance", fieldType()))
	//
	assert.True(t, opt.Equals(NewOptionalType(NewAliasType("Distance", fieldType()))))
	assert.False(t, opt.Equals(NewOptionalType(fieldType())))
	assert.True(t, opt.Canonical().Equals(NewOptionalType(fieldType())))
	assert.Equal(t, "Distance?", opt.String())
}

func Test_Type_05(t *testing.T) {
	// Reference semantics hold for classes, and survive alias sugar
	assert.True(t, counterType().HasReferenceSemantics())
	assert.False(t, fieldType().HasReferenceSemantics())
	assert.True(t, NewAliasType("Shared", counterType()).HasReferenceSemantics())
	assert.False(t, NewOptionalType(counterType()).HasReferenceSemantics())
}

func Test_Type_06(t *testing.T) {
	// The error type equals nothing, itself included
	err := NewErrorType()
	//
	assert.False(t, err.Equals(err))
	assert.False(t, err.Equals(fieldType()))
	assert.True(t, IsErrorType(err))
	assert.False(t, IsErrorType(fieldType()))
	assert.Equal(t, "<error>", err.String())
}

func Test_Type_07(t *testing.T) {
	// L-value wrappers
	lval := NewLValueType(fieldType())
	//
	assert.True(t, IsLValueType(lval))
	assert.False(t, IsLValueType(fieldType()))
	assert.Equal(t, "@lvalue Field", lval.String())
	assert.True(t, lval.Object().Equals(fieldType()))
}

func Test_Type_08(t *testing.T) {
	// Function types compare componentwise, including purity
	fn := NewFunctionType([]Type{fieldType(), fieldType()}, fieldType(), true)
	//
	assert.True(t, fn.Equals(NewFunctionType([]Type{fieldType(), fieldType()}, fieldType(), true)))
	assert.False(t, fn.Equals(NewFunctionType([]Type{fieldType(), fieldType()}, fieldType(), false)))
	assert.False(t, fn.Equals(NewFunctionType([]Type{fieldType()}, fieldType(), true)))
	assert.Equal(t, "pure (Field, Field) -> Field", fn.String())
}

func Test_Type_09(t *testing.T) {
	// Tuple types
	tuple := NewTupleType(fieldType(), counterType())
	//
	assert.Equal(t, 2, tuple.Len())
	assert.True(t, tuple.Element(1).Equals(counterType()))
	assert.Equal(t, "(Field, Counter)", tuple.String())
}

func Test_Type_10(t *testing.T) {
	// Ownership wrappers render as the user wrote them
	assert.Equal(t, "weak Counter", NewWeakType(counterType()).String())
	assert.Equal(t, "unowned Counter", NewUnownedType(counterType()).String())
	assert.Equal(t, "inout Field", NewInOutType(fieldType()).String())
	assert.Equal(t, "Field?", NewOptionalType(fieldType()).String())
}

// ============================================================================
// Framework
// ============================================================================

func fieldType() *NamedType {
	return NewNamedType("Field", false, nil)
}

func counterType() *NamedType {
	return NewNamedType("Counter", true, nil)
}
