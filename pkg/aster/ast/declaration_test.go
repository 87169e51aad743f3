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

func Test_Decl_01(t *testing.T) {
	// Immutable bindings are never settable
	x := NewVariableBinding("x", VAR_LET)
	assert.False(t, x.IsSettable())
	assert.True(t, x.HasStorage())
}

func Test_Decl_02(t *testing.T) {
	// Stored mutable bindings are settable
	x := NewVariableBinding("x", VAR_VAR)
	assert.True(t, x.IsSettable())
	assert.True(t, x.HasStorage())
}

func Test_Decl_03(t *testing.T) {
	// Computed variables are settable exactly when they have a setter
	x := NewVariableBinding("x", VAR_VAR)
	x.Getter = NewAccessor(ACCESSOR_GET, false)
	//
	assert.True(t, x.IsComputed())
	assert.False(t, x.HasStorage())
	assert.False(t, x.IsSettable())
	//
	x.Setter = NewAccessor(ACCESSOR_SET, true)
	assert.True(t, x.IsSettable())
}

func Test_Decl_04(t *testing.T) {
	// Parameters are settable only when inout
	x := NewVariableBinding("x", VAR_PARAM)
	assert.False(t, x.IsSettable())
	//
	x.Ownership = OWNERSHIP_INOUT
	assert.True(t, x.IsSettable())
}

func Test_Decl_05(t *testing.T) {
	// Derived facts are unavailable before finalisation
	x := NewVariableBinding("x", VAR_LET)
	assert.False(t, x.IsFinalised())
	assert.Panics(t, func() { x.Type() })
	//
	x.Finalise(NewNamedType("Field", false, nil))
	assert.True(t, x.IsFinalised())
	assert.Equal(t, "Field", x.Type().String())
}

func Test_Decl_06(t *testing.T) {
	// Contextual types narrow the finalised type when set
	x := NewVariableBinding("x", VAR_LET)
	x.Finalise(NewOptionalType(NewNamedType("Counter", true, nil)))
	//
	assert.Equal(t, "Counter?", x.ContextualType().String())
	//
	x.SetContextualType(NewNamedType("Counter", true, nil))
	assert.Equal(t, "Counter", x.ContextualType().String())
	assert.Equal(t, "Counter?", x.Type().String())
}

func Test_Decl_07(t *testing.T) {
	// Function signatures are unavailable before finalisation
	f := NewFunctionBinding("f", nil, nil, true)
	assert.Panics(t, func() { f.Signature() })
	//
	f.Finalise(NewFunctionType(nil, NewNamedType("Field", false, nil), true))
	assert.Equal(t, "pure () -> Field", f.Signature().String())
}

func Test_Decl_08(t *testing.T) {
	// Subscripts are settable exactly when they have a setter, and always
	// declared under the same name
	index := NewVariableBinding("i", VAR_PARAM)
	s := NewSubscriptBinding(index, NewNamedType("Field", false, nil), false)
	//
	assert.Equal(t, SubscriptName, s.Name())
	assert.False(t, s.IsSettable())
	//
	s.Setter = NewAccessor(ACCESSOR_SET, true)
	assert.True(t, s.IsSettable())
}

func Test_Decl_09(t *testing.T) {
	// Operator bindings are complete as declared
	op := NewOperatorBinding("<+>", NewFixity(60, LEFT_ASSOCIATIVE))
	//
	assert.True(t, op.IsFinalised())
	assert.Equal(t, "60 left", op.Fixity().String())
	assert.Equal(t, "100 right", NewFixity(100, RIGHT_ASSOCIATIVE).String())
	assert.Equal(t, "130 none", NewFixity(130, NON_ASSOCIATIVE).String())
}

func Test_Decl_10(t *testing.T) {
	// Builtin type bindings come finalised
	b := NewBuiltinTypeBinding("Field")
	assert.True(t, b.IsFinalised())
	assert.Equal(t, "Field", b.DataType().String())
	// User type bindings do not
	s := NewTypeBinding("Point", TYPE_STRUCT)
	assert.Panics(t, func() { s.DataType() })
}

func Test_Decl_11(t *testing.T) {
	// Invalid marks stick
	x := NewVariableBinding("x", VAR_LET)
	assert.False(t, x.IsInvalid())
	//
	x.MarkInvalid()
	assert.True(t, x.IsInvalid())
}
