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
)

// Binding represents an association between a name, as found in a source
// file, and a concrete item (e.g. a variable, function, operator, etc).
// Bindings are created by the parser and subsequently finalised during
// checking, at which point their derived facts (types, signatures) become
// available.
type Binding interface {
	// Name returns the declared name of this binding.
	Name() string
	// Scope returns the scope in which this binding was declared, or nil if
	// it has not been declared yet.
	Scope() *Scope
	// IsFinalised determines whether this binding has been finalised or not.
	IsFinalised() bool
	// IsInvalid determines whether this binding was diagnosed as malformed
	// during finalisation.  Anything referring to an invalid binding takes
	// the error type without further diagnostics.
	IsInvalid() bool
	// MarkInvalid flags this binding as malformed.
	MarkInvalid()
	// Set the declaring scope of this binding (used by Scope.Declare).
	setScope(*Scope)
}

// ============================================================================
// Fixity
// ============================================================================

// Associativity determines how adjacent uses of operators at the same
// precedence level group.
type Associativity uint8

const (
	// LEFT_ASSOCIATIVE operators group towards the left.
	LEFT_ASSOCIATIVE Associativity = iota
	// RIGHT_ASSOCIATIVE operators group towards the right.
	RIGHT_ASSOCIATIVE
	// NON_ASSOCIATIVE operators do not group at all, and adjacent uses
	// require explicit parenthesisation.
	NON_ASSOCIATIVE
)

func (p Associativity) String() string {
	switch p {
	case LEFT_ASSOCIATIVE:
		return "left"
	case RIGHT_ASSOCIATIVE:
		return "right"
	case NON_ASSOCIATIVE:
		return "none"
	}
	// Should be unreachable
	panic("unknown associativity")
}

// MAX_PRECEDENCE is the highest precedence level an operator can have.
const MAX_PRECEDENCE uint8 = 255

// Fixity describes how an infix operator binds, namely its precedence level
// and its associativity.
type Fixity struct {
	Precedence    uint8
	Associativity Associativity
}

// NewFixity constructs a given fixity.
func NewFixity(precedence uint8, associativity Associativity) Fixity {
	return Fixity{precedence, associativity}
}

func (p Fixity) String() string {
	return fmt.Sprintf("%d %s", p.Precedence, p.Associativity)
}

// ============================================================================
// Accessor
// ============================================================================

// AccessorKind distinguishes getters from setters.
type AccessorKind uint8

const (
	// ACCESSOR_GET marks a getter.
	ACCESSOR_GET AccessorKind = iota
	// ACCESSOR_SET marks a setter.
	ACCESSOR_SET
)

// Accessor describes one half of a computed variable or subscript.  Only the
// signature is represented at this level; accessor bodies are checked
// elsewhere.  The mutating flag records whether invoking the accessor
// modifies the enclosing value (which only matters for value types).
type Accessor struct {
	kind     AccessorKind
	mutating bool
}

// NewAccessor constructs an accessor of a given kind.
func NewAccessor(kind AccessorKind, mutating bool) *Accessor {
	return &Accessor{kind, mutating}
}

// Kind returns the kind of this accessor.
func (p *Accessor) Kind() AccessorKind {
	return p.kind
}

// IsMutating determines whether invoking this accessor modifies the
// enclosing value.
func (p *Accessor) IsMutating() bool {
	return p.mutating
}

// ============================================================================
// VariableBinding
// ============================================================================

// VariableKind distinguishes the flavours of variable-like declaration.
type VariableKind uint8

const (
	// VAR_LET marks an immutable binding.
	VAR_LET VariableKind = iota
	// VAR_VAR marks a mutable binding.
	VAR_VAR
	// VAR_PARAM marks a function or closure parameter.
	VAR_PARAM
)

// Ownership describes how variable storage refers to its contents.
type Ownership uint8

const (
	// OWNERSHIP_STRONG is the default.
	OWNERSHIP_STRONG Ownership = iota
	// OWNERSHIP_WEAK storage does not keep its referent alive; reads yield
	// optionals.
	OWNERSHIP_WEAK
	// OWNERSHIP_UNOWNED storage does not keep its referent alive, but reads
	// assume it still is.
	OWNERSHIP_UNOWNED
	// OWNERSHIP_INOUT parameters borrow the caller's storage.
	OWNERSHIP_INOUT
)

// VariableBinding represents a let, var or parameter declaration, including
// struct / class / trait members.  Computed variables carry accessor
// signatures instead of storage.
type VariableBinding struct {
	name string
	Kind VariableKind
	// How this variable's storage refers to its contents.
	Ownership Ownership
	// Indicates a type member shared across all instances.
	Static bool
	// Type as written in the source (nil if omitted).
	DeclaredType Type
	// Accessors for computed variables (nil for stored variables).
	Getter *Accessor
	Setter *Accessor
	// Optional initialising expression.
	Initialiser Expr
	// Finalised type of this variable, with ownership wrappers applied.
	dataType Type
	// Narrowed form of the finalised type (nil if identical).
	contextual Type
	//
	scope     *Scope
	finalised bool
	invalid   bool
}

var _ Binding = (*VariableBinding)(nil)

// NewVariableBinding constructs a new variable binding of a given kind.
func NewVariableBinding(name string, kind VariableKind) *VariableBinding {
	return &VariableBinding{name: name, Kind: kind}
}

// Name returns the declared name of this binding.
func (p *VariableBinding) Name() string {
	return p.name
}

// Scope returns the scope in which this binding was declared.
func (p *VariableBinding) Scope() *Scope {
	return p.scope
}

// IsFinalised determines whether this binding has been finalised.
func (p *VariableBinding) IsFinalised() bool {
	return p.finalised
}

// IsInvalid determines whether this binding was diagnosed as malformed.
func (p *VariableBinding) IsInvalid() bool {
	return p.invalid
}

// MarkInvalid flags this binding as malformed.
func (p *VariableBinding) MarkInvalid() {
	p.invalid = true
}

// IsSettable determines whether this variable can ever be assigned after
// initialisation.
func (p *VariableBinding) IsSettable() bool {
	switch p.Kind {
	case VAR_LET:
		return false
	case VAR_PARAM:
		return p.Ownership == OWNERSHIP_INOUT
	}
	// Mutable, unless computed without a setter.
	if p.IsComputed() {
		return p.Setter != nil
	}
	//
	return true
}

// IsComputed determines whether this variable is backed by accessors rather
// than storage.
func (p *VariableBinding) IsComputed() bool {
	return p.Getter != nil
}

// HasStorage determines whether this variable is backed by storage.
func (p *VariableBinding) HasStorage() bool {
	return !p.IsComputed()
}

// Type returns the finalised type of this variable, with any ownership
// wrapper applied.  This will panic if the binding is unfinalised.
func (p *VariableBinding) Type() Type {
	if !p.finalised {
		panic(fmt.Sprintf("variable %s not yet finalised", p.name))
	}
	//
	return p.dataType
}

// ContextualType returns the narrowed form of this variable's type where one
// was determined, and its finalised type otherwise.
func (p *VariableBinding) ContextualType() Type {
	if p.contextual != nil {
		return p.contextual
	}
	//
	return p.Type()
}

// SetContextualType records a narrowed form of this variable's type.
func (p *VariableBinding) SetContextualType(t Type) {
	p.contextual = t
}

// Finalise this binding with its resolved, ownership-wrapped type.
func (p *VariableBinding) Finalise(dataType Type) {
	p.dataType = dataType
	p.finalised = true
}

func (p *VariableBinding) setScope(scope *Scope) {
	p.scope = scope
}

// ============================================================================
// FunctionBinding
// ============================================================================

// FunctionBinding represents a named function declaration, including operator
// implementations (whose name is the operator token itself).
type FunctionBinding struct {
	name string
	// Parameters, in declaration order.
	Params []*VariableBinding
	// Return type as written in the source (nil if omitted).
	DeclaredReturn Type
	// Indicates a function without side effects.
	Pure bool
	// Body items, in source order.
	Body []Stmt
	// Scope introduced for the parameters and body.
	bodyScope *Scope
	// Finalised signature of this function.
	signature *FunctionType
	//
	scope     *Scope
	finalised bool
	invalid   bool
}

var _ Binding = (*FunctionBinding)(nil)

// NewFunctionBinding constructs a new function binding with a given name.
func NewFunctionBinding(name string, params []*VariableBinding, ret Type, pure bool) *FunctionBinding {
	return &FunctionBinding{name: name, Params: params, DeclaredReturn: ret, Pure: pure}
}

// Name returns the declared name of this binding.
func (p *FunctionBinding) Name() string {
	return p.name
}

// Scope returns the scope in which this binding was declared.
func (p *FunctionBinding) Scope() *Scope {
	return p.scope
}

// BodyScope returns the scope introduced for this function's parameters and
// body.
func (p *FunctionBinding) BodyScope() *Scope {
	return p.bodyScope
}

// SetBodyScope records the scope introduced for this function's parameters
// and body.
func (p *FunctionBinding) SetBodyScope(scope *Scope) {
	p.bodyScope = scope
}

// IsFinalised determines whether this binding has been finalised.
func (p *FunctionBinding) IsFinalised() bool {
	return p.finalised
}

// IsInvalid determines whether this binding was diagnosed as malformed.
func (p *FunctionBinding) IsInvalid() bool {
	return p.invalid
}

// MarkInvalid flags this binding as malformed.
func (p *FunctionBinding) MarkInvalid() {
	p.invalid = true
}

// Signature returns the finalised signature of this function.  This will
// panic if the binding is unfinalised.
func (p *FunctionBinding) Signature() *FunctionType {
	if !p.finalised {
		panic(fmt.Sprintf("function %s not yet finalised", p.name))
	}
	//
	return p.signature
}

// Finalise this binding with its resolved signature.
func (p *FunctionBinding) Finalise(signature *FunctionType) {
	p.signature = signature
	p.finalised = true
}

func (p *FunctionBinding) setScope(scope *Scope) {
	p.scope = scope
}

// ============================================================================
// SubscriptBinding
// ============================================================================

// SubscriptName is the name under which subscript members are declared in
// their enclosing type's member scope, since subscripts have no source-level
// name of their own.
const SubscriptName = "subscript"

// SubscriptBinding represents a subscript member of a struct, class or trait.
// Its reference type is function shaped, from index to element.
type SubscriptBinding struct {
	// Index parameter.
	Index *VariableBinding
	// Element type as written in the source.
	DeclaredElement Type
	// Indicates a subscript without side effects.
	Pure bool
	// Accessors (the getter is mandatory).
	Getter *Accessor
	Setter *Accessor
	// Finalised function-shaped signature, from index to element.
	signature *FunctionType
	//
	scope     *Scope
	finalised bool
	invalid   bool
}

var _ Binding = (*SubscriptBinding)(nil)

// NewSubscriptBinding constructs a new subscript binding.
func NewSubscriptBinding(index *VariableBinding, element Type, pure bool) *SubscriptBinding {
	return &SubscriptBinding{Index: index, DeclaredElement: element, Pure: pure}
}

// Name returns the declared name of this binding.
func (p *SubscriptBinding) Name() string {
	return SubscriptName
}

// Scope returns the scope in which this binding was declared.
func (p *SubscriptBinding) Scope() *Scope {
	return p.scope
}

// IsFinalised determines whether this binding has been finalised.
func (p *SubscriptBinding) IsFinalised() bool {
	return p.finalised
}

// IsInvalid determines whether this binding was diagnosed as malformed.
func (p *SubscriptBinding) IsInvalid() bool {
	return p.invalid
}

// MarkInvalid flags this binding as malformed.
func (p *SubscriptBinding) MarkInvalid() {
	p.invalid = true
}

// IsSettable determines whether elements of this subscript can be assigned.
func (p *SubscriptBinding) IsSettable() bool {
	return p.Setter != nil
}

// Signature returns the finalised function-shaped signature of this
// subscript.  This will panic if the binding is unfinalised.
func (p *SubscriptBinding) Signature() *FunctionType {
	if !p.finalised {
		panic("subscript not yet finalised")
	}
	//
	return p.signature
}

// Finalise this binding with its resolved signature.
func (p *SubscriptBinding) Finalise(signature *FunctionType) {
	p.signature = signature
	p.finalised = true
}

func (p *SubscriptBinding) setScope(scope *Scope) {
	p.scope = scope
}

// ============================================================================
// OperatorBinding
// ============================================================================

// OperatorBinding represents an infix operator declaration, which associates
// a fixity with an operator token.  Implementations of the operator are
// separate function bindings sharing the same name.
type OperatorBinding struct {
	name   string
	fixity Fixity
	//
	scope   *Scope
	invalid bool
}

var _ Binding = (*OperatorBinding)(nil)

// NewOperatorBinding constructs a new operator binding with a given fixity.
func NewOperatorBinding(name string, fixity Fixity) *OperatorBinding {
	return &OperatorBinding{name: name, fixity: fixity}
}

// Name returns the operator token of this binding.
func (p *OperatorBinding) Name() string {
	return p.name
}

// Scope returns the scope in which this binding was declared.
func (p *OperatorBinding) Scope() *Scope {
	return p.scope
}

// IsFinalised determines whether this binding has been finalised.  Operator
// bindings are complete as declared, hence always finalised.
func (p *OperatorBinding) IsFinalised() bool {
	return true
}

// IsInvalid determines whether this binding was diagnosed as malformed.
func (p *OperatorBinding) IsInvalid() bool {
	return p.invalid
}

// MarkInvalid flags this binding as malformed.
func (p *OperatorBinding) MarkInvalid() {
	p.invalid = true
}

// Fixity returns the declared fixity of this operator.
func (p *OperatorBinding) Fixity() Fixity {
	return p.fixity
}

func (p *OperatorBinding) setScope(scope *Scope) {
	p.scope = scope
}

// ============================================================================
// TypeBinding
// ============================================================================

// TypeKind distinguishes the flavours of type declaration.
type TypeKind uint8

const (
	// TYPE_STRUCT marks a value type.
	TYPE_STRUCT TypeKind = iota
	// TYPE_CLASS marks a reference type.
	TYPE_CLASS
	// TYPE_TRAIT marks a trait, whose members require dynamic dispatch.
	TYPE_TRAIT
	// TYPE_ALIAS marks sugar for some other type.
	TYPE_ALIAS
	// TYPE_BUILTIN marks a type provided by the standard prelude.
	TYPE_BUILTIN
)

// TypeBinding represents a struct, class, trait, alias or builtin type
// declaration.
type TypeBinding struct {
	name string
	Kind TypeKind
	// Member declarations, in source order (structs, classes, traits).  The
	// member scope itself is built during checking, and lives on the
	// finalised named type.
	MemberDecls []Binding
	// Aliased type as written in the source (aliases only).
	DeclaredUnderlying Type
	// Finalised type this binding denotes.
	dataType Type
	//
	scope     *Scope
	finalised bool
	invalid   bool
}

var _ Binding = (*TypeBinding)(nil)

// NewTypeBinding constructs a new type binding of a given kind.
func NewTypeBinding(name string, kind TypeKind) *TypeBinding {
	return &TypeBinding{name: name, Kind: kind}
}

// NewBuiltinTypeBinding constructs a finalised binding for a prelude type.
func NewBuiltinTypeBinding(name string) *TypeBinding {
	p := &TypeBinding{name: name, Kind: TYPE_BUILTIN}
	p.Finalise(NewNamedType(name, false, nil))
	//
	return p
}

// Name returns the declared name of this binding.
func (p *TypeBinding) Name() string {
	return p.name
}

// Scope returns the scope in which this binding was declared.
func (p *TypeBinding) Scope() *Scope {
	return p.scope
}

// IsFinalised determines whether this binding has been finalised.
func (p *TypeBinding) IsFinalised() bool {
	return p.finalised
}

// IsInvalid determines whether this binding was diagnosed as malformed.
func (p *TypeBinding) IsInvalid() bool {
	return p.invalid
}

// MarkInvalid flags this binding as malformed.
func (p *TypeBinding) MarkInvalid() {
	p.invalid = true
}

// DataType returns the finalised type this binding denotes.  This will panic
// if the binding is unfinalised.
func (p *TypeBinding) DataType() Type {
	if !p.finalised {
		panic(fmt.Sprintf("type %s not yet finalised", p.name))
	}
	//
	return p.dataType
}

// Finalise this binding with the type it denotes.
func (p *TypeBinding) Finalise(dataType Type) {
	p.dataType = dataType
	p.finalised = true
}

func (p *TypeBinding) setScope(scope *Scope) {
	p.scope = scope
}
