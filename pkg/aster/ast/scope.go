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

// ScopeKind distinguishes the flavours of scope making up the scope tree.
type ScopeKind uint8

const (
	// SCOPE_BUILTIN holds the standard prelude, and encloses every module.
	SCOPE_BUILTIN ScopeKind = iota
	// SCOPE_MODULE holds the top-level declarations of a source file.
	SCOPE_MODULE
	// SCOPE_TYPE holds the members of a struct, class or trait.
	SCOPE_TYPE
	// SCOPE_FUNCTION holds the parameters and body items of a function.
	SCOPE_FUNCTION
	// SCOPE_CLOSURE holds the parameters and body items of a closure.
	SCOPE_CLOSURE
)

// Scope is one node of the lexical scope tree.  Scopes map names to the
// bindings declared under them, where a single name can have multiple
// bindings (e.g. function overloads).  Name resolution walks from a scope
// towards the root, stopping at the nearest scope declaring the name.
type Scope struct {
	kind      ScopeKind
	enclosing *Scope
	// Type binding owning this scope (member scopes only).
	owner *TypeBinding
	// Bindings declared in this scope, keyed by name.  Bindings sharing a
	// name are kept in declaration order.
	bindings map[string][]Binding
}

// NewScope constructs an empty scope nested within a given enclosing scope
// (or the root scope, if nil).
func NewScope(kind ScopeKind, enclosing *Scope) *Scope {
	return &Scope{
		kind:      kind,
		enclosing: enclosing,
		bindings:  make(map[string][]Binding),
	}
}

// Kind returns the kind of this scope.
func (p *Scope) Kind() ScopeKind {
	return p.kind
}

// Enclosing returns the scope enclosing this one, or nil for the root.
func (p *Scope) Enclosing() *Scope {
	return p.enclosing
}

// Owner returns the type binding owning this scope, or nil if this is not a
// member scope.
func (p *Scope) Owner() *TypeBinding {
	return p.owner
}

// SetOwner records the type binding owning this member scope.
func (p *Scope) SetOwner(owner *TypeBinding) {
	p.owner = owner
}

// Declare a binding under its name in this scope.  Whether multiple bindings
// of a given name are permitted is a question for validation, not for the
// scope itself.
func (p *Scope) Declare(binding Binding) {
	name := binding.Name()
	p.bindings[name] = append(p.bindings[name], binding)
	binding.setScope(p)
}

// Bindings returns all bindings declared directly in this scope under a given
// name, in declaration order.  Enclosing scopes are not consulted.
func (p *Scope) Bindings(name string) []Binding {
	return p.bindings[name]
}

// Lookup returns the bindings a given name resolves to from this scope.
// Resolution stops at the nearest scope declaring the name, hence inner
// declarations shadow outer ones wholesale.
func (p *Scope) Lookup(name string) []Binding {
	for scope := p; scope != nil; scope = scope.enclosing {
		if bindings := scope.bindings[name]; len(bindings) > 0 {
			return bindings
		}
	}
	// Unknown name
	return nil
}

// LookupFixity returns the declared fixity of a given infix operator, if any
// operator declaration for it is visible from this scope.
func (p *Scope) LookupFixity(name string) (Fixity, bool) {
	for scope := p; scope != nil; scope = scope.enclosing {
		for _, binding := range scope.bindings[name] {
			if op, ok := binding.(*OperatorBinding); ok {
				return op.Fixity(), true
			}
		}
	}
	// Unknown operator
	return Fixity{}, false
}

// IsDescendantOf determines whether a given scope is a strict ancestor of
// this one.  A scope is not its own ancestor.
func (p *Scope) IsDescendantOf(ancestor *Scope) bool {
	for scope := p.enclosing; scope != nil; scope = scope.enclosing {
		if scope == ancestor {
			return true
		}
	}
	//
	return false
}

// IsLocal determines whether this scope sits within a function or closure
// body, as opposed to holding module or type level declarations.
func (p *Scope) IsLocal() bool {
	switch p.kind {
	case SCOPE_FUNCTION, SCOPE_CLOSURE:
		return true
	}
	//
	if p.enclosing != nil {
		return p.enclosing.IsLocal()
	}
	//
	return false
}
