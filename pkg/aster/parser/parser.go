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
package parser

import (
	"math/big"

	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/util/source"
	"github.com/consensys/go-aster/pkg/util/source/lex"
)

// Parse accepts a given source file and parses it into a module, along with a
// source map locating every node created.  Observe the parser never applies
// operator precedence: binary chains come out as flat sequences, with markers
// for assignments, conditionals and casts (folding happens during checking).
func Parse(srcfile *source.File) (*ast.Module, *source.Map[any], []source.SyntaxError) {
	parser := NewParser(srcfile)
	// Parse declarations
	module, errs := parser.Parse()
	//
	return module, parser.srcmap, errs
}

// ParseExpr accepts a given source file holding a single expression, as
// entered at the REPL or passed to fold.
func ParseExpr(srcfile *source.File) (ast.Expr, *source.Map[any], []source.SyntaxError) {
	parser := NewParser(srcfile)
	// Parse expression
	expr, errs := parser.ParseExpr()
	//
	return expr, parser.srcmap, errs
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for the Aster surface language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[any]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[any](*srcfile)
	//
	return &Parser{srcfile, nil, srcmap, 0}
}

// Parse the given source file into a module, or some number of syntax errors.
func (p *Parser) Parse() (*ast.Module, []source.SyntaxError) {
	var (
		decls  []ast.Binding
		decl   ast.Binding
		errors []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(*p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		lookahead := p.lookahead()
		// Determine type of declaration
		switch lookahead.Kind {
		case KEYWORD_INFIX:
			decl, errors = p.parseOperatorDecl()
		case KEYWORD_LET, KEYWORD_VAR, KEYWORD_WEAK, KEYWORD_UNOWNED, KEYWORD_STATIC:
			decl, errors = p.parseVariableDecl(false)
		case KEYWORD_FUN:
			decl, errors = p.parseFunction(p.index, false, false)
		case KEYWORD_PURE:
			start := p.index
			p.match(KEYWORD_PURE)
			//
			decl, errors = p.parseFunction(start, true, false)
		case KEYWORD_STRUCT, KEYWORD_CLASS, KEYWORD_TRAIT:
			decl, errors = p.parseTypeDecl()
		case KEYWORD_ALIAS:
			decl, errors = p.parseAliasDecl()
		default:
			errors = p.syntaxErrors(lookahead, "unknown declaration")
		}
		//
		if len(errors) > 0 {
			return nil, errors
		}
		//
		decls = append(decls, decl)
	}
	// Done
	return ast.NewModule(decls), nil
}

// ParseExpr parses the given source file as a single expression, as entered
// at the REPL.
func (p *Parser) ParseExpr() (ast.Expr, []source.SyntaxError) {
	var (
		expr   ast.Expr
		errors []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(*p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Parse expression proper
	if expr, errors = p.parseExpression(); len(errors) > 0 {
		return nil, errors
	}
	// Ensure everything was consumed
	if lookahead := p.lookahead(); lookahead.Kind != END_OF {
		return nil, p.syntaxErrors(lookahead, "unexpected trailing tokens")
	}
	//
	return expr, nil
}

// ============================================================================
// Declarations
// ============================================================================

func (p *Parser) parseOperatorDecl() (*ast.OperatorBinding, []source.SyntaxError) {
	var (
		start = p.index
		prec  uint8
		assoc ast.Associativity
		errs  []source.SyntaxError
	)
	// Parse "infix operator" prefix
	if _, errs = p.expect(KEYWORD_INFIX); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(KEYWORD_OPERATOR); len(errs) > 0 {
		return nil, errs
	}
	// Parse operator token
	tok, errs := p.expect(OPERATOR)
	if len(errs) > 0 {
		return nil, errs
	}
	// Parse ": prec assoc"
	if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	} else if prec, errs = p.parsePrecedence(); len(errs) > 0 {
		return nil, errs
	} else if assoc, errs = p.parseAssociativity(); len(errs) > 0 {
		return nil, errs
	}
	//
	binding := ast.NewOperatorBinding(p.string(tok), ast.NewFixity(prec, assoc))
	// Record source mapping
	p.srcmap.Put(binding, p.spanOf(start, p.index-1))
	// Done
	return binding, nil
}

func (p *Parser) parsePrecedence() (uint8, []source.SyntaxError) {
	tok, errs := p.expect(NUMBER)
	//
	if len(errs) > 0 {
		return 0, errs
	}
	//
	val := p.number(tok)
	//
	if !val.IsUint64() || val.Uint64() > uint64(ast.MAX_PRECEDENCE) {
		return 0, p.syntaxErrors(tok, "invalid operator precedence")
	}
	//
	return uint8(val.Uint64()), nil
}

func (p *Parser) parseAssociativity() (ast.Associativity, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return 0, errs
	}
	//
	switch p.string(tok) {
	case "left":
		return ast.LEFT_ASSOCIATIVE, nil
	case "right":
		return ast.RIGHT_ASSOCIATIVE, nil
	case "none":
		return ast.NON_ASSOCIATIVE, nil
	}
	//
	return 0, p.syntaxErrors(tok, "unknown associativity")
}

func (p *Parser) parseVariableDecl(member bool) (*ast.VariableBinding, []source.SyntaxError) {
	var (
		start     = p.index
		static    bool
		ownership = ast.OWNERSHIP_STRONG
		kind      ast.VariableKind
		name      string
		errs      []source.SyntaxError
	)
	// Parse modifiers
	staticTok := p.lookahead()
	if p.match(KEYWORD_STATIC) {
		if !member {
			return nil, p.syntaxErrors(staticTok, "static member outside type body")
		}
		//
		static = true
	}
	//
	if p.match(KEYWORD_WEAK) {
		ownership = ast.OWNERSHIP_WEAK
	} else if p.match(KEYWORD_UNOWNED) {
		ownership = ast.OWNERSHIP_UNOWNED
	}
	// Parse "let" / "var"
	lookahead := p.lookahead()
	//
	switch {
	case p.match(KEYWORD_LET):
		kind = ast.VAR_LET
	case p.match(KEYWORD_VAR):
		kind = ast.VAR_VAR
	default:
		return nil, p.syntaxErrors(lookahead, "expecting a variable declaration")
	}
	// Parse name
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	//
	binding := ast.NewVariableBinding(name, kind)
	binding.Static = static
	binding.Ownership = ownership
	// Parse optional declared type
	if p.match(COLON) {
		if binding.DeclaredType, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
	}
	// Parse optional initialiser or accessor block
	lookahead = p.lookahead()
	//
	switch lookahead.Kind {
	case EQUALS:
		p.match(EQUALS)
		//
		if binding.Initialiser, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
	case LCURLY:
		if kind == ast.VAR_LET {
			return nil, p.syntaxErrors(lookahead, "'let' declaration cannot have accessors")
		} else if binding.DeclaredType == nil {
			return nil, p.syntaxErrors(lookahead, "computed variable requires a declared type")
		}
		//
		if binding.Getter, binding.Setter, errs = p.parseAccessorBlock(); len(errs) > 0 {
			return nil, errs
		}
	}
	// Record source mapping
	p.srcmap.Put(binding, p.spanOf(start, p.index-1))
	// Done
	return binding, nil
}

func (p *Parser) parseAccessorBlock() (*ast.Accessor, *ast.Accessor, []source.SyntaxError) {
	var (
		getter, setter *ast.Accessor
		errs           []source.SyntaxError
	)
	//
	if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, nil, errs
	}
	// Parse getter (mandatory, defaults non-mutating)
	mutating, given := p.parseAccessorModifiers()
	//
	if lookahead := p.lookahead(); lookahead.Kind == KEYWORD_SET {
		return nil, nil, p.syntaxErrors(lookahead, "setter requires a getter")
	} else if _, errs = p.expect(KEYWORD_GET); len(errs) > 0 {
		return nil, nil, errs
	}
	//
	if !given {
		mutating = false
	}
	//
	getter = ast.NewAccessor(ast.ACCESSOR_GET, mutating)
	// Parse optional setter (defaults mutating)
	if p.lookahead().Kind != RCURLY {
		mutating, given = p.parseAccessorModifiers()
		//
		if _, errs = p.expect(KEYWORD_SET); len(errs) > 0 {
			return nil, nil, errs
		}
		//
		if !given {
			mutating = true
		}
		//
		setter = ast.NewAccessor(ast.ACCESSOR_SET, mutating)
	}
	//
	if _, errs = p.expect(RCURLY); len(errs) > 0 {
		return nil, nil, errs
	}
	// Done
	return getter, setter, nil
}

// Parse a (possibly empty) run of "mutating" / "nonmutating" modifiers,
// returning the final value and whether any modifier was given at all.
func (p *Parser) parseAccessorModifiers() (bool, bool) {
	var mutating, given bool
	//
	for {
		if p.match(KEYWORD_MUTATING) {
			mutating, given = true, true
		} else if p.match(KEYWORD_NONMUTATING) {
			mutating, given = false, true
		} else {
			return mutating, given
		}
	}
}

func (p *Parser) parseFunction(start int, pure bool, trait bool) (*ast.FunctionBinding, []source.SyntaxError) {
	var (
		name   string
		params []*ast.VariableBinding
		ret    ast.Type
		errs   []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_FUN); len(errs) > 0 {
		return nil, errs
	}
	// Parse name (identifier, or operator token for operator implementations)
	lookahead := p.lookahead()
	//
	switch lookahead.Kind {
	case IDENTIFIER, OPERATOR:
		p.match(lookahead.Kind)
		name = p.string(lookahead)
	default:
		return nil, p.syntaxErrors(lookahead, "expecting a function name")
	}
	// Parse parameters and optional return type
	if params, errs = p.parseParams(); len(errs) > 0 {
		return nil, errs
	}
	//
	if p.match(RIGHTARROW) {
		if ret, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	binding := ast.NewFunctionBinding(name, params, ret, pure)
	// Parse body, which trait members may omit
	if !trait || p.lookahead().Kind == LCURLY {
		if binding.Body, errs = p.parseBody(); len(errs) > 0 {
			return nil, errs
		}
	}
	// Record source mapping
	p.srcmap.Put(binding, p.spanOf(start, p.index-1))
	// Done
	return binding, nil
}

func (p *Parser) parseParams() ([]*ast.VariableBinding, []source.SyntaxError) {
	var (
		params []*ast.VariableBinding
		errs   []source.SyntaxError
	)
	// Parse start of list
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Parse entries until end brace
	for p.lookahead().Kind != RBRACE {
		// look for ","
		if len(params) != 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		start := p.index
		inout := p.match(KEYWORD_INOUT)
		//
		name, errs := p.parseIdentifier()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs = p.expect(COLON); len(errs) > 0 {
			return nil, errs
		}
		//
		param := ast.NewVariableBinding(name, ast.VAR_PARAM)
		//
		if param.DeclaredType, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
		//
		if inout {
			param.Ownership = ast.OWNERSHIP_INOUT
		}
		// Record source mapping
		p.srcmap.Put(param, p.spanOf(start, p.index-1))
		//
		params = append(params, param)
	}
	// Advance past ")"
	p.match(RBRACE)
	//
	return params, nil
}

func (p *Parser) parseSubscript(start int, pure bool) (*ast.SubscriptBinding, []source.SyntaxError) {
	var (
		params  []*ast.VariableBinding
		element ast.Type
		errs    []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_SUBSCRIPT); len(errs) > 0 {
		return nil, errs
	}
	// Parse index parameter
	if params, errs = p.parseParams(); len(errs) > 0 {
		return nil, errs
	} else if len(params) != 1 {
		err := p.srcfile.SyntaxError(p.spanOf(start, p.index-1), "subscript requires exactly one parameter")
		return nil, []source.SyntaxError{*err}
	}
	// Parse element type
	if _, errs = p.expect(RIGHTARROW); len(errs) > 0 {
		return nil, errs
	} else if element, errs = p.parseType(); len(errs) > 0 {
		return nil, errs
	}
	//
	binding := ast.NewSubscriptBinding(params[0], element, pure)
	// Parse accessor block (mandatory for subscripts)
	if binding.Getter, binding.Setter, errs = p.parseAccessorBlock(); len(errs) > 0 {
		return nil, errs
	}
	// Record source mapping
	p.srcmap.Put(binding, p.spanOf(start, p.index-1))
	// Done
	return binding, nil
}

func (p *Parser) parseTypeDecl() (*ast.TypeBinding, []source.SyntaxError) {
	var (
		start  = p.index
		kind   ast.TypeKind
		name   string
		member ast.Binding
		errs   []source.SyntaxError
	)
	//
	switch {
	case p.match(KEYWORD_STRUCT):
		kind = ast.TYPE_STRUCT
	case p.match(KEYWORD_CLASS):
		kind = ast.TYPE_CLASS
	case p.match(KEYWORD_TRAIT):
		kind = ast.TYPE_TRAIT
	}
	// Parse name
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	}
	//
	binding := ast.NewTypeBinding(name, kind)
	// Parse member declarations until end of block
	if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.lookahead().Kind != RCURLY {
		lookahead := p.lookahead()
		//
		switch lookahead.Kind {
		case KEYWORD_LET, KEYWORD_VAR, KEYWORD_WEAK, KEYWORD_UNOWNED, KEYWORD_STATIC:
			member, errs = p.parseVariableDecl(true)
		case KEYWORD_FUN:
			member, errs = p.parseFunction(p.index, false, kind == ast.TYPE_TRAIT)
		case KEYWORD_SUBSCRIPT:
			member, errs = p.parseSubscript(p.index, false)
		case KEYWORD_PURE:
			mstart := p.index
			p.match(KEYWORD_PURE)
			// Purity can modify functions and subscripts alike
			if p.lookahead().Kind == KEYWORD_SUBSCRIPT {
				member, errs = p.parseSubscript(mstart, true)
			} else {
				member, errs = p.parseFunction(mstart, true, kind == ast.TYPE_TRAIT)
			}
		default:
			errs = p.syntaxErrors(lookahead, "expecting a member declaration")
		}
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		binding.MemberDecls = append(binding.MemberDecls, member)
	}
	// Advance past "}"
	p.match(RCURLY)
	// Record source mapping
	p.srcmap.Put(binding, p.spanOf(start, p.index-1))
	// Done
	return binding, nil
}

func (p *Parser) parseAliasDecl() (*ast.TypeBinding, []source.SyntaxError) {
	var (
		start = p.index
		name  string
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_ALIAS); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(EQUALS); len(errs) > 0 {
		return nil, errs
	}
	//
	binding := ast.NewTypeBinding(name, ast.TYPE_ALIAS)
	//
	if binding.DeclaredUnderlying, errs = p.parseType(); len(errs) > 0 {
		return nil, errs
	}
	// Record source mapping
	p.srcmap.Put(binding, p.spanOf(start, p.index-1))
	// Done
	return binding, nil
}

// ============================================================================
// Statements
// ============================================================================

func (p *Parser) parseBody() ([]ast.Stmt, []source.SyntaxError) {
	var (
		items []ast.Stmt
		item  ast.Stmt
		errs  []source.SyntaxError
	)
	// Parse start of block
	if _, errs = p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	// Parse items until end of block
	for p.lookahead().Kind != RCURLY {
		// look for ";" between items (trailing ";" tolerated)
		if len(items) != 0 {
			if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
				return nil, errs
			}
			//
			if p.lookahead().Kind == RCURLY {
				break
			}
		}
		//
		if item, errs = p.parseItem(); len(errs) > 0 {
			return nil, errs
		}
		//
		items = append(items, item)
	}
	// Advance past "}"
	p.match(RCURLY)
	//
	return items, nil
}

func (p *Parser) parseItem() (ast.Stmt, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	switch lookahead.Kind {
	case KEYWORD_LET, KEYWORD_VAR, KEYWORD_WEAK, KEYWORD_UNOWNED, KEYWORD_STATIC:
		variable, errs := p.parseVariableDecl(false)
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return ast.NewLocal(variable), nil
	case KEYWORD_FUN:
		// Distinguish nested function declarations from closure expressions,
		// which open their parameter list immediately.
		if !p.follows(KEYWORD_FUN, LBRACE) {
			fn, errs := p.parseFunction(p.index, false, false)
			//
			if len(errs) > 0 {
				return nil, errs
			}
			//
			return ast.NewLocalFunction(fn), nil
		}
	}
	// Otherwise, an expression item
	return p.parseExpression()
}

// ============================================================================
// Expressions
// ============================================================================

// Parse a single expression, producing a flat sequence node whenever one or
// more infix operator positions follow the leading operand.
func (p *Parser) parseExpression() (ast.Expr, []source.SyntaxError) {
	var (
		start    = p.index
		elements []ast.Expr
		rhs      ast.Expr
	)
	// Parse leading operand
	lhs, errs := p.parsePostfix()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	elements = append(elements, lhs)
	// Parse as many operator positions as follow
loop:
	for {
		lookahead := p.lookahead()
		//
		switch lookahead.Kind {
		case OPERATOR:
			// Unresolved operator use
			p.match(OPERATOR)
			//
			op := ast.NewName(p.string(lookahead))
			p.srcmap.Put(op, lookahead.Span)
			//
			if rhs, errs = p.parsePostfix(); len(errs) > 0 {
				return nil, errs
			}
			//
			elements = append(elements, op, rhs)
		case EQUALS:
			// Assignment marker, completed by folding
			p.match(EQUALS)
			//
			marker := ast.NewAssignMarker()
			p.srcmap.Put(marker, lookahead.Span)
			//
			if rhs, errs = p.parsePostfix(); len(errs) > 0 {
				return nil, errs
			}
			//
			elements = append(elements, marker, rhs)
		case QUESTION:
			// Conditional marker: the then-branch is parsed to completion
			// here, the condition and alternative are completed by folding.
			qstart := p.index
			p.match(QUESTION)
			//
			then, errs := p.parseExpression()
			if len(errs) > 0 {
				return nil, errs
			}
			//
			if _, errs = p.expect(COLON); len(errs) > 0 {
				return nil, errs
			}
			//
			marker := ast.NewConditionalMarker(then)
			p.srcmap.Put(marker, p.spanOf(qstart, p.index-1))
			//
			if rhs, errs = p.parsePostfix(); len(errs) > 0 {
				return nil, errs
			}
			//
			elements = append(elements, marker, rhs)
		case KEYWORD_AS, KEYWORD_AS_FORCE, KEYWORD_IS:
			// Cast marker, pushed twice: once as operator and once as the
			// following operand.  This makes the cast a right boundary
			// during folding.
			marker, errs := p.parseCastMarker()
			if len(errs) > 0 {
				return nil, errs
			}
			//
			elements = append(elements, marker, marker)
		default:
			break loop
		}
	}
	// A chain of length one is just the operand itself
	if len(elements) == 1 {
		return elements[0], nil
	}
	//
	seq := ast.NewSequence(elements)
	// Record source mapping
	p.srcmap.Put(seq, p.spanOf(start, p.index-1))
	// Done
	return seq, nil
}

func (p *Parser) parseCastMarker() (*ast.Cast, []source.SyntaxError) {
	var (
		start = p.index
		kind  ast.CastKind
	)
	//
	switch {
	case p.match(KEYWORD_AS):
		kind = ast.CAST_COERCE
	case p.match(KEYWORD_AS_FORCE):
		kind = ast.CAST_FORCE
	case p.match(KEYWORD_IS):
		kind = ast.CAST_CHECK
	}
	// Parse target type
	target, errs := p.parseType()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	marker := ast.NewCastMarker(kind, target)
	// Record source mapping
	p.srcmap.Put(marker, p.spanOf(start, p.index-1))
	// Done
	return marker, nil
}

func (p *Parser) parsePostfix() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	// Parse leading primary expression
	expr, errs := p.parsePrimary()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Parse as many postfix operations as follow
loop:
	for {
		switch p.lookahead().Kind {
		case DOT:
			p.match(DOT)
			//
			tok, errs := p.expect(IDENTIFIER)
			if len(errs) > 0 {
				return nil, errs
			}
			//
			expr = ast.NewMemberAccess(expr, p.string(tok))
		case LBRACE:
			args, errs := p.parseArgs()
			if len(errs) > 0 {
				return nil, errs
			}
			//
			expr = ast.NewInvoke(expr, ast.NewTuple(args))
		case LSQUARE:
			p.match(LSQUARE)
			//
			index, errs := p.parseExpression()
			if len(errs) > 0 {
				return nil, errs
			}
			//
			if _, errs = p.expect(RSQUARE); len(errs) > 0 {
				return nil, errs
			}
			//
			expr = ast.NewSubscriptAccess(expr, index)
		case BANG:
			p.match(BANG)
			//
			expr = ast.NewForceUnwrap(expr)
		default:
			break loop
		}
		// Record source mapping
		p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	}
	//
	return expr, nil
}

func (p *Parser) parseArgs() ([]ast.Expr, []source.SyntaxError) {
	var (
		args []ast.Expr
		errs []source.SyntaxError
	)
	// Parse start of list
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Parse entries until end brace
	for p.lookahead().Kind != RBRACE {
		// look for ","
		if len(args) != 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		arg, errs := p.parseExpression()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	// Advance past ")"
	p.match(RBRACE)
	//
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	switch lookahead.Kind {
	case NUMBER:
		p.match(NUMBER)
		//
		constant := ast.NewConstant(p.number(lookahead))
		p.srcmap.Put(constant, lookahead.Span)
		//
		return constant, nil
	case IDENTIFIER:
		p.match(IDENTIFIER)
		//
		name := ast.NewName(p.string(lookahead))
		p.srcmap.Put(name, lookahead.Span)
		//
		return name, nil
	case LBRACE:
		// Parenthesised grouping; vanishes from the tree
		p.match(LBRACE)
		//
		expr, errs := p.parseExpression()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		//
		return expr, nil
	case KEYWORD_FUN:
		return p.parseClosure()
	}
	//
	return nil, p.syntaxErrors(lookahead, "expecting an expression")
}

func (p *Parser) parseClosure() (ast.Expr, []source.SyntaxError) {
	var (
		start = p.index
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_FUN); len(errs) > 0 {
		return nil, errs
	}
	// Parse parameters
	params, errs := p.parseParams()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	closure := ast.NewClosure(params, nil)
	// Parse optional return type
	if p.match(RIGHTARROW) {
		if closure.DeclaredReturn, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
	}
	// Parse body
	if closure.Body, errs = p.parseBody(); len(errs) > 0 {
		return nil, errs
	}
	// Record source mapping
	p.srcmap.Put(closure, p.spanOf(start, p.index-1))
	// Done
	return closure, nil
}

// ============================================================================
// Types
// ============================================================================

func (p *Parser) parseType() (ast.Type, []source.SyntaxError) {
	var (
		typ  ast.Type
		errs []source.SyntaxError
	)
	//
	lookahead := p.lookahead()
	//
	switch lookahead.Kind {
	case IDENTIFIER:
		// Unresolved type spelling, resolved during checking
		p.match(IDENTIFIER)
		//
		named := ast.NewNamedType(p.string(lookahead), false, nil)
		p.srcmap.Put(named, lookahead.Span)
		//
		typ = named
	case LBRACE:
		p.match(LBRACE)
		//
		if typ, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
	default:
		return nil, p.syntaxErrors(lookahead, "expecting a type")
	}
	// Parse optional sugar
	for p.match(QUESTION) {
		typ = ast.NewOptionalType(typ)
	}
	//
	return typ, nil
}

// ============================================================================
// Helpers
// ============================================================================

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	start, end := token.Span.Start(), token.Span.End()
	return string(p.srcfile.Contents()[start:end])
}

// Get the text representing the given token as a number.
func (p *Parser) number(token lex.Token) big.Int {
	var number big.Int
	//
	number.SetString(p.string(token), 0)
	//
	return number
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.string(tok), nil
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows attempts to check what follows the current position.
func (p *Parser) follows(kinds ...uint) bool {
	for i, kind := range kinds {
		n := i + p.index
		if n >= len(p.tokens) {
			return false
		} else if p.tokens[n].Kind != kind {
			return false
		}
	}
	//
	return true
}

// SpanOf determines the span covering a given range of tokens, both ends
// inclusive.
func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
