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

func Test_Scope_01(t *testing.T) {
	// Declared names resolve in their own scope
	module := NewScope(SCOPE_MODULE, nil)
	x := NewVariableBinding("x", VAR_LET)
	module.Declare(x)
	//
	bindings := module.Lookup("x")
	assert.Equal(t, 1, len(bindings))
	assert.Same(t, x, bindings[0].(*VariableBinding))
	// Declaring records the declaring scope
	assert.Same(t, module, x.Scope())
}

func Test_Scope_02(t *testing.T) {
	// Inner declarations shadow outer ones wholesale
	module := NewScope(SCOPE_MODULE, nil)
	inner := NewScope(SCOPE_FUNCTION, module)
	outer := NewVariableBinding("x", VAR_LET)
	shadow := NewVariableBinding("x", VAR_VAR)
	//
	module.Declare(outer)
	inner.Declare(shadow)
	//
	bindings := inner.Lookup("x")
	assert.Equal(t, 1, len(bindings))
	assert.Same(t, shadow, bindings[0].(*VariableBinding))
}

func Test_Scope_03(t *testing.T) {
	// Overloads resolve together, in declaration order
	module := NewScope(SCOPE_MODULE, nil)
	f1 := NewFunctionBinding("f", nil, nil, false)
	f2 := NewFunctionBinding("f", nil, nil, false)
	//
	module.Declare(f1)
	module.Declare(f2)
	//
	bindings := module.Lookup("f")
	assert.Equal(t, 2, len(bindings))
	assert.Same(t, f1, bindings[0].(*FunctionBinding))
	assert.Same(t, f2, bindings[1].(*FunctionBinding))
}

func Test_Scope_04(t *testing.T) {
	// Unknown names resolve to nothing
	module := NewScope(SCOPE_MODULE, nil)
	assert.Nil(t, module.Lookup("nope"))
}

func Test_Scope_05(t *testing.T) {
	// Fixities resolve through enclosing scopes
	builtin := NewScope(SCOPE_BUILTIN, nil)
	module := NewScope(SCOPE_MODULE, builtin)
	body := NewScope(SCOPE_FUNCTION, module)
	//
	builtin.Declare(NewOperatorBinding("+", NewFixity(140, LEFT_ASSOCIATIVE)))
	module.Declare(NewOperatorBinding("<+>", NewFixity(60, RIGHT_ASSOCIATIVE)))
	//
	fixity, ok := body.LookupFixity("<+>")
	assert.True(t, ok)
	assert.Equal(t, uint8(60), fixity.Precedence)
	assert.Equal(t, RIGHT_ASSOCIATIVE, fixity.Associativity)
	//
	fixity, ok = body.LookupFixity("+")
	assert.True(t, ok)
	assert.Equal(t, uint8(140), fixity.Precedence)
	//
	_, ok = body.LookupFixity("<*>")
	assert.False(t, ok)
}

func Test_Scope_06(t *testing.T) {
	// Fixity lookup skips function implementations sharing the name
	module := NewScope(SCOPE_MODULE, nil)
	module.Declare(NewFunctionBinding("<+>", nil, nil, false))
	module.Declare(NewOperatorBinding("<+>", NewFixity(60, NON_ASSOCIATIVE)))
	//
	fixity, ok := module.LookupFixity("<+>")
	assert.True(t, ok)
	assert.Equal(t, NON_ASSOCIATIVE, fixity.Associativity)
}

func Test_Scope_07(t *testing.T) {
	// Ancestry is strict
	module := NewScope(SCOPE_MODULE, nil)
	body := NewScope(SCOPE_FUNCTION, module)
	closure := NewScope(SCOPE_CLOSURE, body)
	//
	assert.True(t, closure.IsDescendantOf(body))
	assert.True(t, closure.IsDescendantOf(module))
	assert.False(t, closure.IsDescendantOf(closure))
	assert.False(t, module.IsDescendantOf(closure))
}

func Test_Scope_08(t *testing.T) {
	// Locality holds within function and closure bodies only
	module := NewScope(SCOPE_MODULE, nil)
	members := NewScope(SCOPE_TYPE, module)
	body := NewScope(SCOPE_FUNCTION, module)
	closure := NewScope(SCOPE_CLOSURE, body)
	//
	assert.False(t, module.IsLocal())
	assert.False(t, members.IsLocal())
	assert.True(t, body.IsLocal())
	assert.True(t, closure.IsLocal())
}
