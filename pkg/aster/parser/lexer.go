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
	"github.com/consensys/go-aster/pkg/util/collection/array"
	"github.com/consensys/go-aster/pkg/util/source"
	"github.com/consensys/go-aster/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "// ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// LCURLY signals "{"
const LCURLY uint = 5

// RCURLY signals "}"
const RCURLY uint = 6

// LSQUARE signals "["
const LSQUARE uint = 7

// RSQUARE signals "]"
const RSQUARE uint = 8

// COMMA signals ","
const COMMA uint = 9

// SEMICOLON signals ";"
const SEMICOLON uint = 10

// COLON signals ":"
const COLON uint = 11

// DOT signals "."
const DOT uint = 12

// QUESTION signals "?"
const QUESTION uint = 13

// RIGHTARROW signals "->"
const RIGHTARROW uint = 14

// EQUALS signals a standalone "=" (assignment / initialiser)
const EQUALS uint = 15

// BANG signals a standalone "!" (force unwrap)
const BANG uint = 16

// NUMBER signals an integer number
const NUMBER uint = 17

// OPERATOR signals a maximal run of operator characters
const OPERATOR uint = 18

// IDENTIFIER signals a name
const IDENTIFIER uint = 19

// KEYWORD_LET signals an immutable variable declaration
const KEYWORD_LET uint = 20

// KEYWORD_VAR signals a mutable variable declaration
const KEYWORD_VAR uint = 21

// KEYWORD_FUN signals a function declaration or closure
const KEYWORD_FUN uint = 22

// KEYWORD_PURE signals a purity modifier
const KEYWORD_PURE uint = 23

// KEYWORD_STATIC signals a static member modifier
const KEYWORD_STATIC uint = 24

// KEYWORD_WEAK signals a weak ownership modifier
const KEYWORD_WEAK uint = 25

// KEYWORD_UNOWNED signals an unowned ownership modifier
const KEYWORD_UNOWNED uint = 26

// KEYWORD_INOUT signals an inout parameter modifier
const KEYWORD_INOUT uint = 27

// KEYWORD_STRUCT signals a struct declaration
const KEYWORD_STRUCT uint = 28

// KEYWORD_CLASS signals a class declaration
const KEYWORD_CLASS uint = 29

// KEYWORD_TRAIT signals a trait declaration
const KEYWORD_TRAIT uint = 30

// KEYWORD_ALIAS signals an alias declaration
const KEYWORD_ALIAS uint = 31

// KEYWORD_INFIX signals an operator fixity declaration
const KEYWORD_INFIX uint = 32

// KEYWORD_OPERATOR signals an operator fixity declaration
const KEYWORD_OPERATOR uint = 33

// KEYWORD_SUBSCRIPT signals a subscript declaration
const KEYWORD_SUBSCRIPT uint = 34

// KEYWORD_GET signals a getter within an accessor block
const KEYWORD_GET uint = 35

// KEYWORD_SET signals a setter within an accessor block
const KEYWORD_SET uint = 36

// KEYWORD_MUTATING signals a mutating accessor modifier
const KEYWORD_MUTATING uint = 37

// KEYWORD_NONMUTATING signals a non-mutating accessor modifier
const KEYWORD_NONMUTATING uint = 38

// KEYWORD_AS signals a coercion cast
const KEYWORD_AS uint = 39

// KEYWORD_AS_FORCE signals a forced cast "as!"
const KEYWORD_AS_FORCE uint = 40

// KEYWORD_IS signals a type check
const KEYWORD_IS uint = 41

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n'), lex.Unit('\r')))

// Rule for describing numbers
// A number is either a hexadecimal, binary, or decimal one.
// Allowing (and ignoring) '_' in the middle of a number for readability.
var (
	binaryStart = lex.Sequence(lex.String("0b"), lex.Within('0', '1'))
	binaryRest  = lex.Or(
		lex.Within('0', '1'),
		lex.Unit('_'),
	)

	decimalStart = lex.Within('0', '9')
	decimalRest  = lex.Or(
		lex.Within('0', '9'),
		lex.Unit('_'),
	)

	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	hexStart = lex.Sequence(lex.String("0x"), hexDigit)
	hexRest  = lex.Or(
		hexDigit,
		lex.Unit('_'),
	)

	number = lex.Or(
		lex.SequenceNullableLast(binaryStart, lex.Many(binaryRest)),
		lex.SequenceNullableLast(hexStart, lex.Many(hexRest)),
		lex.SequenceNullableLast(decimalStart, lex.Many(decimalRest)),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierChar lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, lex.Many(identifierChar))

// Rule for describing the characters operators are made of.  Observe that
// '.', '?' and ':' are punctuation, never part of an operator.
var operatorChar lex.Scanner[rune] = lex.Or(
	lex.Unit('+'), lex.Unit('-'), lex.Unit('*'), lex.Unit('/'),
	lex.Unit('%'), lex.Unit('<'), lex.Unit('>'), lex.Unit('='),
	lex.Unit('!'), lex.Unit('&'), lex.Unit('|'), lex.Unit('^'),
	lex.Unit('~'))

// Rule for describing operators as maximal runs of operator characters.
var operator lex.Scanner[rune] = lex.And(operatorChar, lex.Many(operatorChar))

// Comments start with '//'
var commentStart lex.Scanner[rune] = lex.Unit('/', '/')

// Comments continue until a newline or EOF.
var commentRest lex.Scanner[rune] = lex.Until('\n')

var comment lex.Scanner[rune] = lex.And(commentStart, commentRest)

// keyword matches a given keyword, provided it does not run straight into a
// longer identifier (e.g. "as" within "aster").
func keyword(word string) lex.Scanner[rune] {
	return lex.Word(word, identifierChar)
}

// lexing rules.  Observe the ordering here matters: comments before operator
// runs (since "//" is one), "->" and standalone "=" / "!" before operator
// runs, "as!" before "as", and all keywords before identifiers.
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.Unit('?'), QUESTION),
	lex.Rule(lex.Unit('-', '>'), RIGHTARROW),
	lex.Rule(lex.Word("=", operatorChar), EQUALS),
	lex.Rule(lex.Word("!", operatorChar), BANG),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(keyword("let"), KEYWORD_LET),
	lex.Rule(keyword("var"), KEYWORD_VAR),
	lex.Rule(keyword("fun"), KEYWORD_FUN),
	lex.Rule(keyword("pure"), KEYWORD_PURE),
	lex.Rule(keyword("static"), KEYWORD_STATIC),
	lex.Rule(keyword("weak"), KEYWORD_WEAK),
	lex.Rule(keyword("unowned"), KEYWORD_UNOWNED),
	lex.Rule(keyword("inout"), KEYWORD_INOUT),
	lex.Rule(keyword("struct"), KEYWORD_STRUCT),
	lex.Rule(keyword("class"), KEYWORD_CLASS),
	lex.Rule(keyword("trait"), KEYWORD_TRAIT),
	lex.Rule(keyword("alias"), KEYWORD_ALIAS),
	lex.Rule(keyword("infix"), KEYWORD_INFIX),
	lex.Rule(keyword("operator"), KEYWORD_OPERATOR),
	lex.Rule(keyword("subscript"), KEYWORD_SUBSCRIPT),
	lex.Rule(keyword("get"), KEYWORD_GET),
	lex.Rule(keyword("set"), KEYWORD_SET),
	lex.Rule(keyword("mutating"), KEYWORD_MUTATING),
	lex.Rule(keyword("nonmutating"), KEYWORD_NONMUTATING),
	lex.Rule(lex.String("as!"), KEYWORD_AS_FORCE),
	lex.Rule(keyword("as"), KEYWORD_AS),
	lex.Rule(keyword("is"), KEYWORD_IS),
	lex.Rule(operator, OPERATOR),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.
func Lex(srcfile source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+lexer.Remaining()
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Remove any whitespace
	tokens = array.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == WHITESPACE })
	// Remove any comments
	tokens = array.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == COMMENT })
	// Done
	return tokens, nil
}
