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
	"fmt"
	"strings"
)

// Type embodies the notion of type found at the Aster source level.  Types
// here retain their source spelling (e.g. alias sugar is not eagerly
// expanded), since reporting types as the user wrote them matters for
// diagnostics.  Structural questions are asked of the canonical form instead.
type Type interface {
	// Equals determines whether this type is structurally identical to
	// another, including any sugar (i.e. an alias is never equal to its
	// underlying type).
	Equals(Type) bool

	// Canonical returns this type with all alias sugar recursively removed.
	Canonical() Type

	// HasReferenceSemantics determines whether values of this type are
	// handles to shared storage (classes), rather than values copied on
	// assignment.
	HasReferenceSemantics() bool

	// Produce a string representation of this type.
	String() string
}

// IsErrorType checks whether a given type is the error type, indicating that
// something went wrong during checking and a diagnostic was already reported.
func IsErrorType(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok
}

// IsLValueType checks whether a given type is an l-value wrapper.
func IsLValueType(t Type) bool {
	_, ok := t.(*LValueType)
	return ok
}

// ============================================================================
// NamedType
// ============================================================================

// NamedType represents a nominal type, such as the builtin Field type or a
// user-declared struct, class or trait.
type NamedType struct {
	name string
	// Indicates whether values are shared handles (classes).
	reference bool
	// Scope holding member declarations (nil for builtins).
	members *Scope
}

var _ Type = (*NamedType)(nil)

// NewNamedType constructs a new nominal type with a given name.
func NewNamedType(name string, reference bool, members *Scope) *NamedType {
	return &NamedType{name, reference, members}
}

// Name returns the declared name of this type.
func (p *NamedType) Name() string {
	return p.name
}

// Members returns the scope holding this type's member declarations, or nil
// if it has none.
func (p *NamedType) Members() *Scope {
	return p.members
}

// Equals determines whether this type is structurally identical to another.
func (p *NamedType) Equals(other Type) bool {
	if o, ok := other.(*NamedType); ok {
		return p.name == o.name && p.reference == o.reference
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *NamedType) Canonical() Type {
	return p
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *NamedType) HasReferenceSemantics() bool {
	return p.reference
}

func (p *NamedType) String() string {
	return p.name
}

// ============================================================================
// AliasType
// ============================================================================

// AliasType represents sugar for some underlying type, as introduced by an
// alias declaration.  The sugar is retained so that types can be reported as
// the user spelled them.
type AliasType struct {
	name       string
	underlying Type
}

var _ Type = (*AliasType)(nil)

// NewAliasType constructs a new alias of a given underlying type.
func NewAliasType(name string, underlying Type) *AliasType {
	return &AliasType{name, underlying}
}

// Name returns the declared name of this alias.
func (p *AliasType) Name() string {
	return p.name
}

// Underlying returns the type this alias abbreviates.
func (p *AliasType) Underlying() Type {
	return p.underlying
}

// Equals determines whether this type is structurally identical to another.
// Observe that an alias is only ever equal to itself, never to its underlying
// type (that question is asked of the canonical forms).
func (p *AliasType) Equals(other Type) bool {
	if o, ok := other.(*AliasType); ok {
		return p.name == o.name && p.underlying.Equals(o.underlying)
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *AliasType) Canonical() Type {
	return p.underlying.Canonical()
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *AliasType) HasReferenceSemantics() bool {
	return p.underlying.HasReferenceSemantics()
}

func (p *AliasType) String() string {
	return p.name
}

// ============================================================================
// OptionalType
// ============================================================================

// OptionalType represents a value of some element type which may be absent.
type OptionalType struct {
	element Type
}

var _ Type = (*OptionalType)(nil)

// NewOptionalType constructs the optional of a given element type.
func NewOptionalType(element Type) *OptionalType {
	return &OptionalType{element}
}

// Element returns the type of the value held when present.
func (p *OptionalType) Element() Type {
	return p.element
}

// Equals determines whether this type is structurally identical to another.
func (p *OptionalType) Equals(other Type) bool {
	if o, ok := other.(*OptionalType); ok {
		return p.element.Equals(o.element)
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *OptionalType) Canonical() Type {
	return &OptionalType{p.element.Canonical()}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *OptionalType) HasReferenceSemantics() bool {
	return false
}

func (p *OptionalType) String() string {
	return fmt.Sprintf("%s?", p.element.String())
}

// ============================================================================
// LValueType
// ============================================================================

// LValueType marks a reference to mutable storage of some object type.  It
// only ever arises as the type of a reference expression (or the result of a
// subscript reference), never as a declared type.
type LValueType struct {
	object Type
}

var _ Type = (*LValueType)(nil)

// NewLValueType constructs an l-value over a given object type.
func NewLValueType(object Type) *LValueType {
	return &LValueType{object}
}

// Object returns the type of the storage being referred to.
func (p *LValueType) Object() Type {
	return p.object
}

// Equals determines whether this type is structurally identical to another.
func (p *LValueType) Equals(other Type) bool {
	if o, ok := other.(*LValueType); ok {
		return p.object.Equals(o.object)
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *LValueType) Canonical() Type {
	return &LValueType{p.object.Canonical()}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *LValueType) HasReferenceSemantics() bool {
	return false
}

func (p *LValueType) String() string {
	return fmt.Sprintf("@lvalue %s", p.object.String())
}

// ============================================================================
// InOutType
// ============================================================================

// InOutType marks a parameter whose storage is borrowed from the caller for
// the duration of a call.
type InOutType struct {
	object Type
}

var _ Type = (*InOutType)(nil)

// NewInOutType constructs an inout wrapper over a given object type.
func NewInOutType(object Type) *InOutType {
	return &InOutType{object}
}

// Object returns the type of the storage being borrowed.
func (p *InOutType) Object() Type {
	return p.object
}

// Equals determines whether this type is structurally identical to another.
func (p *InOutType) Equals(other Type) bool {
	if o, ok := other.(*InOutType); ok {
		return p.object.Equals(o.object)
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *InOutType) Canonical() Type {
	return &InOutType{p.object.Canonical()}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *InOutType) HasReferenceSemantics() bool {
	return false
}

func (p *InOutType) String() string {
	return fmt.Sprintf("inout %s", p.object.String())
}

// ============================================================================
// WeakType
// ============================================================================

// WeakType marks storage which does not keep its referent alive.  Reads from
// such storage produce an optional, since the referent may already be gone.
type WeakType struct {
	referent Type
}

var _ Type = (*WeakType)(nil)

// NewWeakType constructs a weak wrapper over a given referent type.
func NewWeakType(referent Type) *WeakType {
	return &WeakType{referent}
}

// Referent returns the type of the object being weakly referenced.
func (p *WeakType) Referent() Type {
	return p.referent
}

// Equals determines whether this type is structurally identical to another.
func (p *WeakType) Equals(other Type) bool {
	if o, ok := other.(*WeakType); ok {
		return p.referent.Equals(o.referent)
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *WeakType) Canonical() Type {
	return &WeakType{p.referent.Canonical()}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *WeakType) HasReferenceSemantics() bool {
	return false
}

func (p *WeakType) String() string {
	return fmt.Sprintf("weak %s", p.referent.String())
}

// ============================================================================
// UnownedType
// ============================================================================

// UnownedType marks storage which does not keep its referent alive, but whose
// reads assume the referent is still there.
type UnownedType struct {
	referent Type
}

var _ Type = (*UnownedType)(nil)

// NewUnownedType constructs an unowned wrapper over a given referent type.
func NewUnownedType(referent Type) *UnownedType {
	return &UnownedType{referent}
}

// Referent returns the type of the object being referenced.
func (p *UnownedType) Referent() Type {
	return p.referent
}

// Equals determines whether this type is structurally identical to another.
func (p *UnownedType) Equals(other Type) bool {
	if o, ok := other.(*UnownedType); ok {
		return p.referent.Equals(o.referent)
	}
	//
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *UnownedType) Canonical() Type {
	return &UnownedType{p.referent.Canonical()}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *UnownedType) HasReferenceSemantics() bool {
	return false
}

func (p *UnownedType) String() string {
	return fmt.Sprintf("unowned %s", p.referent.String())
}

// ============================================================================
// FunctionType
// ============================================================================

// FunctionType represents the type of something callable, including the
// function-shaped type of a subscript member.
type FunctionType struct {
	params []Type
	ret    Type
	// Indicates a function without side effects.
	pure bool
}

var _ Type = (*FunctionType)(nil)

// NewFunctionType constructs a function type over given parameter and return
// types.
func NewFunctionType(params []Type, ret Type, pure bool) *FunctionType {
	return &FunctionType{params, ret, pure}
}

// Params returns the parameter types of this function type.
func (p *FunctionType) Params() []Type {
	return p.params
}

// Return returns the return type of this function type.
func (p *FunctionType) Return() Type {
	return p.ret
}

// IsPure indicates whether this is the type of a pure function.
func (p *FunctionType) IsPure() bool {
	return p.pure
}

// Equals determines whether this type is structurally identical to another.
func (p *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	//
	if !ok || p.pure != o.pure || len(p.params) != len(o.params) {
		return false
	}
	//
	for i := range p.params {
		if !p.params[i].Equals(o.params[i]) {
			return false
		}
	}
	//
	return p.ret.Equals(o.ret)
}

// Canonical returns this type with all alias sugar removed.
func (p *FunctionType) Canonical() Type {
	params := make([]Type, len(p.params))
	//
	for i, t := range p.params {
		params[i] = t.Canonical()
	}
	//
	return &FunctionType{params, p.ret.Canonical(), p.pure}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *FunctionType) HasReferenceSemantics() bool {
	return false
}

func (p *FunctionType) String() string {
	var builder strings.Builder
	//
	if p.pure {
		builder.WriteString("pure ")
	}
	//
	builder.WriteString("(")
	//
	for i, t := range p.params {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(t.String())
	}
	//
	builder.WriteString(") -> ")
	builder.WriteString(p.ret.String())
	//
	return builder.String()
}

// ============================================================================
// TupleType
// ============================================================================

// TupleType represents a fixed-arity positional grouping of types, such as
// the argument group of a binary application.
type TupleType struct {
	elements []Type
}

var _ Type = (*TupleType)(nil)

// NewTupleType constructs a tuple type over given element types.
func NewTupleType(elements ...Type) *TupleType {
	return &TupleType{elements}
}

// Len returns the number of elements in this tuple type.
func (p *TupleType) Len() int {
	return len(p.elements)
}

// Element returns the ith element of this tuple type.
func (p *TupleType) Element(i int) Type {
	return p.elements[i]
}

// Equals determines whether this type is structurally identical to another.
func (p *TupleType) Equals(other Type) bool {
	o, ok := other.(*TupleType)
	//
	if !ok || len(p.elements) != len(o.elements) {
		return false
	}
	//
	for i := range p.elements {
		if !p.elements[i].Equals(o.elements[i]) {
			return false
		}
	}
	//
	return true
}

// Canonical returns this type with all alias sugar removed.
func (p *TupleType) Canonical() Type {
	elements := make([]Type, len(p.elements))
	//
	for i, t := range p.elements {
		elements[i] = t.Canonical()
	}
	//
	return &TupleType{elements}
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *TupleType) HasReferenceSemantics() bool {
	return false
}

func (p *TupleType) String() string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, t := range p.elements {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(t.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

// ============================================================================
// ErrorType
// ============================================================================

// ErrorType is the type given to anything whose real type could not be
// determined because a diagnostic was already reported.  It exists so that
// checking can continue without cascading failures.
type ErrorType struct{}

var _ Type = (*ErrorType)(nil)

// NewErrorType constructs the error type.
func NewErrorType() *ErrorType {
	return &ErrorType{}
}

// Equals determines whether this type is structurally identical to another.
// Observe the error type is never equal to anything, itself included, which
// prevents errors from accidentally satisfying type comparisons.
func (p *ErrorType) Equals(other Type) bool {
	return false
}

// Canonical returns this type with all alias sugar removed.
func (p *ErrorType) Canonical() Type {
	return p
}

// HasReferenceSemantics determines whether values of this type are shared
// handles.
func (p *ErrorType) HasReferenceSemantics() bool {
	return false
}

func (p *ErrorType) String() string {
	return "<error>"
}
