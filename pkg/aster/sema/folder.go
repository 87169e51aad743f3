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
	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/util/source"
)

// FoldSequence folds a flat alternating operand/operator sequence into a
// single expression tree via precedence climbing, resolving operator fixities
// against the given scope.  Conflicts (adjacent non-associative operators,
// mixed associativity at equal precedence, unknown operators) are diagnosed
// and recovered from, so folding always produces a tree.
//
// The sequence must have odd length at least three, and every element must
// appear in the given source map (as arranged by the parser).  Violating
// either is a bug in the caller, not a property of the input program.
func FoldSequence(seq *ast.Sequence, scope *ast.Scope, srcmap *source.Maps[any]) (ast.Expr, []source.SyntaxError) {
	if len(seq.Elements) < 3 || len(seq.Elements)%2 == 0 {
		panic("malformed expression sequence")
	}
	//
	folder := newFolder(scope, srcmap)
	expr, rest := folder.fold(seq.Elements[0], seq.Elements[1:], 0)
	// Sanity check sequence fully consumed
	if len(rest) != 0 {
		panic("expression sequence not fully folded")
	}
	//
	return expr, folder.errors
}

// ============================================================================
// Folder
// ============================================================================

type folder struct {
	// Scope in which operator fixities are resolved.
	scope *ast.Scope
	// Source mapping, extended with every node folding creates.
	srcmap *source.Maps[any]
	// Fixities already determined, so each operator position is resolved (and,
	// when unknown, diagnosed) exactly once.
	fixities map[ast.Expr]ast.Fixity
	// Accumulated diagnostics.
	errors []source.SyntaxError
}

func newFolder(scope *ast.Scope, srcmap *source.Maps[any]) *folder {
	return &folder{scope, srcmap, make(map[ast.Expr]ast.Fixity), nil}
}

// Fold a prefix of the remaining (operator, operand) pairs into lhs, stopping
// at the first operator which binds more weakly than min.  Returns the folded
// expression together with whatever pairs remain for the caller.
func (p *folder) fold(lhs ast.Expr, rest []ast.Expr, min uint8) (ast.Expr, []ast.Expr) {
	// Extract leading operator, stopping if it binds too weakly.
	op1 := rest[0]
	fix1 := p.fixityOf(op1)
	//
	if fix1.Precedence < min {
		return lhs, rest
	}
	// Committed to op1: extract the provisional rhs.
	rhs := rest[1]
	rest = rest[2:]
	//
	for len(rest) > 0 {
		// A cast never extends beyond the type embedded in its marker, so it
		// applies immediately, without any associativity comparison.
		if _, ok := op1.(*ast.Cast); ok {
			lhs = p.makeBinOp(lhs, op1, rhs)
			//
			op1 = rest[0]
			fix1 = p.fixityOf(op1)
			//
			if fix1.Precedence < min {
				return lhs, rest
			}
			//
			rhs = rest[1]
			rest = rest[2:]
			//
			continue
		}
		// Peek the following operator.
		op2 := rest[0]
		fix2 := p.fixityOf(op2)
		//
		if fix2.Precedence < min {
			break
		}
		//
		switch {
		case fix1.Precedence > fix2.Precedence ||
			(fix1 == fix2 && fix1.Associativity == ast.LEFT_ASSOCIATIVE):
			// Binds tighter than what follows: apply immediately.
			lhs = p.makeBinOp(lhs, op1, rhs)
			op1, fix1 = op2, fix2
			rhs = rest[1]
			rest = rest[2:]
		case fix1.Precedence < fix2.Precedence:
			// What follows binds tighter: fold it into the rhs first, then
			// re-evaluate against whatever operator that leaves us at.
			rhs, rest = p.fold(rhs, rest, fix1.Precedence+1)
		case fix1 == fix2 && fix1.Associativity == ast.RIGHT_ASSOCIATIVE:
			// Right-associative chains fold right to left.
			rhs, rest = p.fold(rhs, rest, fix1.Precedence)
			lhs = p.makeBinOp(lhs, op1, rhs)
			//
			if len(rest) == 0 {
				return lhs, rest
			}
			// Start over with the new lhs.
			return p.fold(lhs, rest, min)
		default:
			// Equal precedence with conflicting (or no) associativity.
			if fix1.Associativity == ast.NON_ASSOCIATIVE {
				p.errors = append(p.errors, p.srcmap.SyntaxErrors(op1, "operator is non-associative")...)
			} else if fix2.Associativity == ast.NON_ASSOCIATIVE {
				p.errors = append(p.errors, p.srcmap.SyntaxErrors(op2, "operator is non-associative")...)
			} else {
				p.errors = append(p.errors, p.srcmap.SyntaxErrors(op1, "adjacent operators with conflicting associativity")...)
			}
			// Recover by binding the first pair to the left.
			lhs = p.makeBinOp(lhs, op1, rhs)
			//
			return p.fold(lhs, rest, min)
		}
	}
	// Final application.
	return p.makeBinOp(lhs, op1, rhs), rest
}

// Apply an operator to two operands, completing marker operators in place and
// building an application node for ordinary ones.  A nil operand indicates an
// upstream failure, which simply propagates.
func (p *folder) makeBinOp(lhs ast.Expr, op ast.Expr, rhs ast.Expr) ast.Expr {
	if lhs == nil || rhs == nil {
		return nil
	}
	//
	switch marker := op.(type) {
	case *ast.Conditional:
		marker.Fold(lhs, rhs)
		return marker
	case *ast.Assign:
		marker.Fold(lhs, rhs)
		return marker
	case *ast.Cast:
		// The marker occupies its own operand slot.
		if rhs != op {
			panic("cast marker separated from its operand slot")
		}
		//
		marker.Fold(lhs)
		// Forcedness moves from the cast onto a wrapping unwrap.
		if marker.Kind == ast.CAST_FORCE {
			marker.Kind = ast.CAST_COERCE
			wrapper := ast.NewForceUnwrap(marker)
			p.srcmap.Copy(marker, wrapper)
			//
			return wrapper
		}
		//
		return marker
	}
	// Ordinary infix application.
	binary := ast.NewBinary(op, lhs, rhs)
	// Record source mapping, spanning both operands.
	lhsSpan, rhsSpan := p.srcmap.Get(lhs), p.srcmap.Get(rhs)
	p.srcmap.Put(binary, source.NewSpan(lhsSpan.Start(), rhsSpan.End()))
	//
	return binary
}
