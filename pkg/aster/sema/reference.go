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

// typeOfReference determines the type of a reference to a given binding,
// wrapping it as an l-value whenever the reference denotes mutable storage.
// Here, base is the type of the receiver expression (nil when there is none,
// including static member access), and interfaceForm selects between the
// declared type and any narrower contextual type currently in force.  A
// subscript reference keeps its function shape, with the l-value wrapper
// applying to its result.
func (c *Checker) typeOfReference(b ast.Binding, base ast.Type, interfaceForm bool) ast.Type {
	datatype := c.typeOfRValue(b, interfaceForm)
	//
	if ast.IsErrorType(datatype) {
		return datatype
	}
	//
	switch binding := b.(type) {
	case *ast.VariableBinding:
		if producesLValue(binding, base) {
			datatype = ast.NewLValueType(datatype)
		}
	case *ast.SubscriptBinding:
		if subscriptProducesLValue(binding, base) {
			signature := datatype.(*ast.FunctionType)
			result := ast.NewLValueType(signature.Return())
			datatype = ast.NewFunctionType(signature.Params(), result, signature.IsPure())
		}
	}
	//
	return datatype
}

// typeOfRValue determines the type a plain read of a given binding produces,
// with storage qualifiers normalised away.  An invalid binding yields the
// error type, never a fault, so the surrounding expression still gets
// checked.
func (c *Checker) typeOfRValue(b ast.Binding, interfaceForm bool) ast.Type {
	c.validate(b)
	//
	if b.IsInvalid() {
		return ast.NewErrorType()
	}
	//
	switch binding := b.(type) {
	case *ast.VariableBinding:
		if interfaceForm {
			return c.normalise(b, binding.Type())
		}
		//
		return c.normalise(b, binding.ContextualType())
	case *ast.FunctionBinding:
		return binding.Signature()
	case *ast.SubscriptBinding:
		return binding.Signature()
	case *ast.TypeBinding:
		return binding.DataType()
	}
	//
	panic(fmt.Sprintf("unknown binding %s", b.Name()))
}

// Normalise storage-qualifier wrappers off a stored type: inout and l-value
// wrappers unwrap to their object (the reference is already an l-value at
// that point), weak storage reads as an optional of its referent, and
// unowned storage reads as the referent itself.  Without optional
// intrinsics, weak reads degrade to the bare referent.
func (c *Checker) normalise(b ast.Binding, t ast.Type) ast.Type {
	switch t := t.(type) {
	case *ast.InOutType:
		return t.Object()
	case *ast.LValueType:
		return t.Object()
	case *ast.WeakType:
		if !c.stdlib {
			c.reportMissingOptionals(b)
			return t.Referent()
		}
		//
		return ast.NewOptionalType(t.Referent())
	case *ast.UnownedType:
		return t.Referent()
	}
	//
	return t
}

func (c *Checker) reportMissingOptionals(b ast.Binding) {
	if c.reportedNoOptionals {
		return
	}
	//
	c.reportedNoOptionals = true
	c.errors = append(c.errors, c.srcmap.SyntaxErrors(b, "optional intrinsics unavailable")...)
}

// producesLValue implements the mutability rules for a variable reference
// with a given base (receiver) type, nil when there is none.
func producesLValue(b *ast.VariableBinding, base ast.Type) bool {
	// Never settable: never an l-value.
	if !b.IsSettable() {
		return false
	}
	// No receiver involved: a direct settable reference.
	if base == nil || b.Static {
		return true
	}
	// Mutating through a reference never requires an addressable base.
	if base.HasReferenceSemantics() || ast.IsLValueType(base) {
		return true
	}
	// Value-typed rvalue base: only a setter which leaves the receiver alone
	// can make this settable.
	return b.Setter != nil && !b.Setter.IsMutating()
}

// subscriptProducesLValue is the subscript analogue of producesLValue.  A
// subscript always has a receiver, and on a value-typed rvalue base both of
// its accessors must leave the receiver alone.
func subscriptProducesLValue(b *ast.SubscriptBinding, base ast.Type) bool {
	if !b.IsSettable() {
		return false
	}
	//
	if base.HasReferenceSemantics() || ast.IsLValueType(base) {
		return true
	}
	//
	return !b.Getter.IsMutating() && !b.Setter.IsMutating()
}

// buildRef constructs the reference node for a resolved name: a direct
// reference when resolution was unambiguous, otherwise an overloaded
// placeholder.  Bindings declared in traits always take the overloaded form,
// since their dispatch is resolved against the concrete receiver later.
func (c *Checker) buildRef(name *ast.Name, candidates []ast.Binding) ast.Expr {
	var ref ast.Expr
	//
	if len(candidates) == 1 && !inTraitContext(candidates[0]) {
		ref = ast.NewReference(name.Ident, candidates[0], isDirect(candidates[0]), name.Implicit())
	} else {
		ref = ast.NewOverloadedReference(name.Ident, candidates, name.Implicit())
	}
	// Reference stands where the name stood.
	c.srcmap.Copy(name, ref)
	//
	return ref
}

func inTraitContext(b ast.Binding) bool {
	scope := b.Scope()
	//
	return scope != nil && scope.Owner() != nil && scope.Owner().Kind == ast.TYPE_TRAIT
}

// Determine whether a binding's storage can be accessed directly, rather
// than through accessors.
func isDirect(b ast.Binding) bool {
	if v, ok := b.(*ast.VariableBinding); ok {
		return v.HasStorage()
	}
	//
	return true
}
