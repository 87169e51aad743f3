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
	"github.com/consensys/go-aster/pkg/util/source/sexp"
)

// Module represents the top-level declarations of a single source file, in
// declaration order.  A module is the unit of checking: its declarations all
// land in one module scope.
type Module struct {
	Decls []Binding
}

// NewModule constructs a module over given declarations.
func NewModule(decls []Binding) *Module {
	return &Module{decls}
}

// Lisp converts this module into its s-expression form.
func (p *Module) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("module")}
	//
	for _, decl := range p.Decls {
		elements = append(elements, sexp.NewSymbol(decl.Name()))
	}
	//
	return sexp.NewList(elements)
}
