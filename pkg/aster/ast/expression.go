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
	"math/big"

	"github.com/consensys/go-aster/pkg/util/source/sexp"
)

// Node provides common functionality shared between expressions and
// statement items, namely a debug representation in s-expression form.
type Node interface {
	// Lisp converts this node into its s-expression form.
	Lisp() sexp.SExp
}

// Expr represents an expression in the abstract syntax tree.
type Expr interface {
	Node
	// Implicit determines whether this expression was synthesised by the
	// checker rather than written in the source.
	Implicit() bool
	// AsConstant attempts to evaluate this expression as a constant value,
	// returning nil if this is not possible.
	AsConstant() *big.Int
}

// Stmt represents an item within a function or closure body.  Every
// expression is also a valid item.
type Stmt interface {
	Node
}

// ============================================================================
// Constant
// ============================================================================

// Constant represents a numeric literal.
type Constant struct {
	Val big.Int
}

var _ Expr = (*Constant)(nil)

// NewConstant constructs a constant from a given value.
func NewConstant(val big.Int) *Constant {
	return &Constant{val}
}

// Implicit implementation for the Expr interface.
func (p *Constant) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Constant) AsConstant() *big.Int {
	return &p.Val
}

// Lisp implementation for the Node interface.
func (p *Constant) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Val.String())
}

// ============================================================================
// Name
// ============================================================================

// Name represents an identifier or operator token which has not yet been
// resolved against the scope tree.
type Name struct {
	Ident    string
	implicit bool
}

var _ Expr = (*Name)(nil)

// NewName constructs an unresolved name.
func NewName(ident string) *Name {
	return &Name{ident, false}
}

// NewImplicitName constructs an unresolved name synthesised by the checker.
func NewImplicitName(ident string) *Name {
	return &Name{ident, true}
}

// Implicit implementation for the Expr interface.
func (p *Name) Implicit() bool {
	return p.implicit
}

// AsConstant implementation for the Expr interface.
func (p *Name) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *Name) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Ident)
}

// ============================================================================
// Reference
// ============================================================================

// Reference represents a name resolved to exactly one binding.  The direct
// flag records that the referred storage can be accessed without going
// through accessors.
type Reference struct {
	Ident   string
	Binding Binding
	Direct  bool
	//
	implicit bool
}

var _ Expr = (*Reference)(nil)

// NewReference constructs a reference to a given binding.
func NewReference(ident string, binding Binding, direct bool, implicit bool) *Reference {
	return &Reference{ident, binding, direct, implicit}
}

// Implicit implementation for the Expr interface.
func (p *Reference) Implicit() bool {
	return p.implicit
}

// AsConstant implementation for the Expr interface.
func (p *Reference) AsConstant() *big.Int {
	// Whether the referred binding is constant is a question of evaluation,
	// not of syntax.
	return nil
}

// Lisp implementation for the Node interface.
func (p *Reference) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Ident)
}

// ============================================================================
// OverloadedReference
// ============================================================================

// OverloadedReference represents a name resolved to several candidate
// bindings, or to a trait member requiring dynamic dispatch.  Selecting among
// the candidates is deferred until more typing information is available.
type OverloadedReference struct {
	Ident      string
	Candidates []Binding
	//
	implicit bool
}

var _ Expr = (*OverloadedReference)(nil)

// NewOverloadedReference constructs a reference to a given set of candidate
// bindings.
func NewOverloadedReference(ident string, candidates []Binding, implicit bool) *OverloadedReference {
	return &OverloadedReference{ident, candidates, implicit}
}

// Implicit implementation for the Expr interface.
func (p *OverloadedReference) Implicit() bool {
	return p.implicit
}

// AsConstant implementation for the Expr interface.
func (p *OverloadedReference) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *OverloadedReference) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Ident)
}

// ============================================================================
// Sequence
// ============================================================================

// Sequence represents a flat run of operands and infix operators exactly as
// parsed, before precedence has been applied.  Elements alternate between
// operands (even positions) and operators (odd positions), hence a
// well-formed sequence has odd length of at least three.
type Sequence struct {
	Elements []Expr
}

var _ Expr = (*Sequence)(nil)

// NewSequence constructs a sequence from given elements.
func NewSequence(elements []Expr) *Sequence {
	return &Sequence{elements}
}

// Implicit implementation for the Expr interface.
func (p *Sequence) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Sequence) AsConstant() *big.Int {
	// Sequences are constant only once folded.
	return nil
}

// Lisp implementation for the Node interface.
func (p *Sequence) Lisp() sexp.SExp {
	elements := make([]sexp.SExp, len(p.Elements)+1)
	elements[0] = sexp.NewSymbol("seq")
	//
	for i, e := range p.Elements {
		elements[i+1] = e.Lisp()
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Assign
// ============================================================================

// Assign represents an assignment.  Within an unfolded sequence it stands as
// a bare marker whose destination and source are both nil; folding completes
// it exactly once.
type Assign struct {
	Dest Expr
	Src  Expr
}

var _ Expr = (*Assign)(nil)

// NewAssignMarker constructs an assignment whose operands have yet to be
// determined by folding.
func NewAssignMarker() *Assign {
	return &Assign{nil, nil}
}

// IsFolded determines whether this assignment has received its operands.
func (p *Assign) IsFolded() bool {
	return p.Dest != nil
}

// Fold completes this assignment with its operands.  Folding the same
// assignment twice indicates a defect in the folder, hence panics.
func (p *Assign) Fold(dest Expr, src Expr) {
	if p.IsFolded() {
		panic("assignment folded twice")
	}
	//
	p.Dest = dest
	p.Src = src
}

// Implicit implementation for the Expr interface.
func (p *Assign) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Assign) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *Assign) Lisp() sexp.SExp {
	if !p.IsFolded() {
		return sexp.NewSymbol("=")
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("="), p.Dest.Lisp(), p.Src.Lisp(),
	})
}

// ============================================================================
// Cast
// ============================================================================

// CastKind distinguishes the flavours of cast expression.
type CastKind uint8

const (
	// CAST_COERCE marks a plain "as" coercion.
	CAST_COERCE CastKind = iota
	// CAST_FORCE marks a forced "as!" conversion.
	CAST_FORCE
	// CAST_CHECK marks an "is" type check.
	CAST_CHECK
)

func (p CastKind) String() string {
	switch p {
	case CAST_COERCE:
		return "as"
	case CAST_FORCE:
		return "as!"
	case CAST_CHECK:
		return "is"
	}
	// Should be unreachable
	panic("unknown cast kind")
}

// Cast represents a cast of an expression to a target type.  Within an
// unfolded sequence the cast stands in two adjacent positions, once as
// operator and once as trailing operand, with its subexpression nil; folding
// completes it exactly once.
type Cast struct {
	Kind   CastKind
	Sub    Expr
	Target Type
}

var _ Expr = (*Cast)(nil)

// NewCastMarker constructs a cast whose subexpression has yet to be
// determined by folding.
func NewCastMarker(kind CastKind, target Type) *Cast {
	return &Cast{kind, nil, target}
}

// IsFolded determines whether this cast has received its subexpression.
func (p *Cast) IsFolded() bool {
	return p.Sub != nil
}

// Fold completes this cast with its subexpression.  Folding the same cast
// twice indicates a defect in the folder, hence panics.
func (p *Cast) Fold(sub Expr) {
	if p.IsFolded() {
		panic("cast folded twice")
	}
	//
	p.Sub = sub
}

// Implicit implementation for the Expr interface.
func (p *Cast) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Cast) AsConstant() *big.Int {
	// Coercions preserve values, hence also constants.
	if p.Kind == CAST_COERCE && p.Sub != nil {
		return p.Sub.AsConstant()
	}
	//
	return nil
}

// Lisp implementation for the Node interface.
func (p *Cast) Lisp() sexp.SExp {
	kind := sexp.NewSymbol(p.Kind.String())
	target := sexp.NewSymbol(p.Target.String())
	//
	if !p.IsFolded() {
		return sexp.NewList([]sexp.SExp{kind, target})
	}
	//
	return sexp.NewList([]sexp.SExp{kind, p.Sub.Lisp(), target})
}

// ============================================================================
// Conditional
// ============================================================================

// Conditional represents a ternary conditional.  The parser pre-parses the
// branch between "?" and ":", hence within an unfolded sequence the
// conditional stands as a marker whose condition and alternative are nil;
// folding completes it exactly once.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

var _ Expr = (*Conditional)(nil)

// NewConditionalMarker constructs a conditional whose condition and
// alternative have yet to be determined by folding.
func NewConditionalMarker(then Expr) *Conditional {
	return &Conditional{nil, then, nil}
}

// IsFolded determines whether this conditional has received its condition
// and alternative.
func (p *Conditional) IsFolded() bool {
	return p.Cond != nil
}

// Fold completes this conditional with its condition and alternative.
// Folding the same conditional twice indicates a defect in the folder, hence
// panics.
func (p *Conditional) Fold(cond Expr, orelse Expr) {
	if p.IsFolded() {
		panic("conditional folded twice")
	}
	//
	p.Cond = cond
	p.Else = orelse
}

// Implicit implementation for the Expr interface.
func (p *Conditional) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Conditional) AsConstant() *big.Int {
	// Conditionals never fold, since constancy of the branches does not
	// determine which branch is taken.
	return nil
}

// Lisp implementation for the Node interface.
func (p *Conditional) Lisp() sexp.SExp {
	var cond, orelse sexp.SExp = sexp.NewSymbol("_"), sexp.NewSymbol("_")
	//
	if p.IsFolded() {
		cond, orelse = p.Cond.Lisp(), p.Else.Lisp()
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("ite"), cond, p.Then.Lisp(), orelse,
	})
}

// ============================================================================
// Tuple
// ============================================================================

// Tuple represents a parenthesised list of expressions, such as the argument
// list of a call.  Tuples synthesised by the checker (e.g. for the operands
// of a folded binary operator) are marked implicit when all their elements
// are.
type Tuple struct {
	Elements []Expr
	implicit bool
}

var _ Expr = (*Tuple)(nil)

// NewTuple constructs a tuple from given elements.
func NewTuple(elements []Expr) *Tuple {
	return &Tuple{elements, false}
}

// NewImplicitTuple constructs a checker-synthesised tuple, which counts as
// implicit exactly when all its elements are.
func NewImplicitTuple(elements []Expr) *Tuple {
	implicit := true
	//
	for _, e := range elements {
		implicit = implicit && e.Implicit()
	}
	//
	return &Tuple{elements, implicit}
}

// Len returns the number of elements in this tuple.
func (p *Tuple) Len() int {
	return len(p.Elements)
}

// Implicit implementation for the Expr interface.
func (p *Tuple) Implicit() bool {
	return p.implicit
}

// AsConstant implementation for the Expr interface.
func (p *Tuple) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *Tuple) Lisp() sexp.SExp {
	elements := make([]sexp.SExp, len(p.Elements)+1)
	elements[0] = sexp.NewSymbol("tuple")
	//
	for i, e := range p.Elements {
		elements[i+1] = e.Lisp()
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Binary
// ============================================================================

// Binary represents the application of a named infix operator to two
// operands, as produced by folding.  The operands are held in a synthesised
// two-element tuple, and the whole application counts as implicit exactly
// when its operator does.
type Binary struct {
	Op   Expr
	Args *Tuple
}

var _ Expr = (*Binary)(nil)

// NewBinary constructs a binary application of a given operator.
func NewBinary(op Expr, lhs Expr, rhs Expr) *Binary {
	return &Binary{op, NewImplicitTuple([]Expr{lhs, rhs})}
}

// Lhs returns the left operand.
func (p *Binary) Lhs() Expr {
	return p.Args.Elements[0]
}

// Rhs returns the right operand.
func (p *Binary) Rhs() Expr {
	return p.Args.Elements[1]
}

// Implicit implementation for the Expr interface.
func (p *Binary) Implicit() bool {
	return p.Op.Implicit()
}

// AsConstant implementation for the Expr interface.
func (p *Binary) AsConstant() *big.Int {
	name, ok := OperatorName(p.Op)
	if !ok {
		return nil
	}
	//
	lhs := p.Lhs().AsConstant()
	rhs := p.Rhs().AsConstant()
	//
	if lhs == nil || rhs == nil {
		return nil
	}
	//
	var val big.Int
	//
	switch name {
	case "+":
		val.Add(lhs, rhs)
	case "-":
		val.Sub(lhs, rhs)
	case "*":
		val.Mul(lhs, rhs)
	case "**":
		// Exponents must be sensible non-negative values.
		if rhs.Sign() < 0 || !rhs.IsUint64() {
			return nil
		}
		//
		val.Exp(lhs, rhs, nil)
	default:
		return nil
	}
	//
	return &val
}

// Lisp implementation for the Node interface.
func (p *Binary) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		p.Op.Lisp(), p.Lhs().Lisp(), p.Rhs().Lisp(),
	})
}

// ============================================================================
// Invoke
// ============================================================================

// Invoke represents the application of some callable expression to an
// argument tuple.
type Invoke struct {
	Target Expr
	Args   *Tuple
}

var _ Expr = (*Invoke)(nil)

// NewInvoke constructs an invocation of a given target.
func NewInvoke(target Expr, args *Tuple) *Invoke {
	return &Invoke{target, args}
}

// Implicit implementation for the Expr interface.
func (p *Invoke) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Invoke) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *Invoke) Lisp() sexp.SExp {
	elements := make([]sexp.SExp, len(p.Args.Elements)+1)
	elements[0] = p.Target.Lisp()
	//
	for i, e := range p.Args.Elements {
		elements[i+1] = e.Lisp()
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// MemberAccess
// ============================================================================

// MemberAccess represents the selection of a named member from a base
// expression, where the base can also denote a type (for static members).
// The member binding is determined during checking.
type MemberAccess struct {
	Base Expr
	Name string
	// Member this access was resolved to (nil before checking).
	Member Binding
	// Indicates the member's storage is accessed directly.
	Direct bool
}

var _ Expr = (*MemberAccess)(nil)

// NewMemberAccess constructs an access of a named member of a given base.
func NewMemberAccess(base Expr, name string) *MemberAccess {
	return &MemberAccess{base, name, nil, false}
}

// Implicit implementation for the Expr interface.
func (p *MemberAccess) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *MemberAccess) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *MemberAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("get"), p.Base.Lisp(), sexp.NewSymbol(p.Name),
	})
}

// ============================================================================
// SubscriptAccess
// ============================================================================

// SubscriptAccess represents the indexing of a base expression through its
// subscript member.  The subscript binding is determined during checking.
type SubscriptAccess struct {
	Base  Expr
	Index Expr
	// Subscript this access was resolved to (nil before checking).
	Member *SubscriptBinding
}

var _ Expr = (*SubscriptAccess)(nil)

// NewSubscriptAccess constructs an indexing of a given base.
func NewSubscriptAccess(base Expr, index Expr) *SubscriptAccess {
	return &SubscriptAccess{base, index, nil}
}

// Implicit implementation for the Expr interface.
func (p *SubscriptAccess) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *SubscriptAccess) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *SubscriptAccess) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("index"), p.Base.Lisp(), p.Index.Lisp(),
	})
}

// ============================================================================
// ForceUnwrap
// ============================================================================

// ForceUnwrap represents the postfix "!" operator, which converts an
// optional into its wrapped value on pain of a runtime fault.
type ForceUnwrap struct {
	Sub Expr
}

var _ Expr = (*ForceUnwrap)(nil)

// NewForceUnwrap constructs a forced unwrapping of a given subexpression.
func NewForceUnwrap(sub Expr) *ForceUnwrap {
	return &ForceUnwrap{sub}
}

// Implicit implementation for the Expr interface.
func (p *ForceUnwrap) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *ForceUnwrap) AsConstant() *big.Int {
	return p.Sub.AsConstant()
}

// Lisp implementation for the Node interface.
func (p *ForceUnwrap) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("force"), p.Sub.Lisp()})
}

// ============================================================================
// Closure
// ============================================================================

// Closure represents an anonymous function expression.  Closures carry their
// own scope, and (after analysis) the list of outer entities they capture.
type Closure struct {
	Params []*VariableBinding
	// Return type as written in the source (nil if omitted).
	DeclaredReturn Type
	Body           []Stmt
	//
	scope *Scope
	// Entities captured from enclosing scopes, in first-use order.
	captures []Binding
	analysed bool
}

var _ Expr = (*Closure)(nil)

// NewClosure constructs a closure with given parameters and body.
func NewClosure(params []*VariableBinding, body []Stmt) *Closure {
	return &Closure{Params: params, Body: body}
}

// Scope returns the scope introduced for this closure's parameters and body.
func (p *Closure) Scope() *Scope {
	return p.scope
}

// SetScope records the scope introduced for this closure's parameters and
// body.
func (p *Closure) SetScope(scope *Scope) {
	p.scope = scope
}

// Captures returns the entities this closure captures from enclosing scopes,
// in first-use order.  This will panic if capture analysis has not run.
func (p *Closure) Captures() []Binding {
	if !p.analysed {
		panic("closure captures not yet computed")
	}
	//
	return p.captures
}

// IsAnalysed determines whether capture analysis has run over this closure.
func (p *Closure) IsAnalysed() bool {
	return p.analysed
}

// SetCaptures records the entities this closure captures.  Analysing the
// same closure twice indicates a defect in the analysis, hence panics.
func (p *Closure) SetCaptures(captures []Binding) {
	if p.analysed {
		panic("closure captures computed twice")
	}
	//
	p.captures = captures
	p.analysed = true
}

// Implicit implementation for the Expr interface.
func (p *Closure) Implicit() bool {
	return false
}

// AsConstant implementation for the Expr interface.
func (p *Closure) AsConstant() *big.Int {
	return nil
}

// Lisp implementation for the Node interface.
func (p *Closure) Lisp() sexp.SExp {
	params := make([]sexp.SExp, len(p.Params))
	for i, param := range p.Params {
		params[i] = sexp.NewSymbol(param.Name())
	}
	//
	elements := []sexp.SExp{sexp.NewSymbol("fun"), sexp.NewList(params)}
	//
	for _, item := range p.Body {
		elements = append(elements, item.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Statement items
// ============================================================================

// Local represents a let or var declaration item within a function or
// closure body.
type Local struct {
	Variable *VariableBinding
}

var _ Stmt = (*Local)(nil)

// NewLocal constructs a local declaration item for a given variable.
func NewLocal(variable *VariableBinding) *Local {
	return &Local{variable}
}

// Lisp implementation for the Node interface.
func (p *Local) Lisp() sexp.SExp {
	keyword := "let"
	if p.Variable.Kind == VAR_VAR {
		keyword = "var"
	}
	//
	elements := []sexp.SExp{
		sexp.NewSymbol(keyword), sexp.NewSymbol(p.Variable.Name()),
	}
	//
	if p.Variable.Initialiser != nil {
		elements = append(elements, p.Variable.Initialiser.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// LocalFunction represents a function declaration item nested within a
// function or closure body.
type LocalFunction struct {
	Function *FunctionBinding
}

var _ Stmt = (*LocalFunction)(nil)

// NewLocalFunction constructs a local declaration item for a given function.
func NewLocalFunction(function *FunctionBinding) *LocalFunction {
	return &LocalFunction{function}
}

// Lisp implementation for the Node interface.
func (p *LocalFunction) Lisp() sexp.SExp {
	elements := []sexp.SExp{
		sexp.NewSymbol("fun"), sexp.NewSymbol(p.Function.Name()),
	}
	//
	for _, item := range p.Function.Body {
		elements = append(elements, item.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Helpers
// ============================================================================

// OperatorName extracts the operator token a given expression names, whether
// resolved or not.  This fails for expressions which do not name anything
// (e.g. a folded marker).
func OperatorName(expr Expr) (string, bool) {
	switch e := expr.(type) {
	case *Name:
		return e.Ident, true
	case *Reference:
		return e.Ident, true
	case *OverloadedReference:
		return e.Ident, true
	}
	//
	return "", false
}
