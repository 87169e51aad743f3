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
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/consensys/go-aster/pkg/aster"
	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/aster/parser"
	"github.com/consensys/go-aster/pkg/aster/sema"
	"github.com/consensys/go-aster/pkg/util/source"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "Start an interactive session.",
	Long: `Start an interactive session in which declarations accumulate into a
	single module scope, and expressions are folded, checked and (where
	constant) reduced to field elements.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		runRepl(!GetFlag(cmd, "no-stdlib"), historyPath(GetString(cmd, "history")))
	},
}

// repl holds the state threaded through an interactive session.  Declarations
// accumulate in the checker's module scope, whilst each fragment of input
// contributes its own source mapping.
type repl struct {
	checker *sema.Checker
	// Number of input fragments accepted so far, used to name them.
	fragments uint
}

// runRepl drives an interactive session until end-of-input.
func runRepl(stdlib bool, history string) {
	fmt.Printf("go-aster repl (language version %s)\n", aster.LangVersion)
	//
	ln := liner.NewLiner()
	//nolint:errcheck
	defer ln.Close()
	//
	ln.SetCtrlCAborts(true)
	loadHistory(ln, history)
	//
	session := &repl{newReplChecker(stdlib), 0}
	//
	for {
		input, ok := readInput(ln)
		if !ok {
			break
		}
		//
		if strings.TrimSpace(input) == "" {
			continue
		}
		//
		session.process(input)
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
	}
	//
	saveHistory(ln, history)
}

// newReplChecker constructs the checker holding the session scope.  Its
// initial source mapping covers no input at all, with each fragment joining
// its own as it arrives.
func newReplChecker(stdlib bool) *sema.Checker {
	srcfile := source.NewSourceFile("repl", []byte{})
	//
	return sema.NewChecker(source.NewSourceMap[any](*srcfile), stdlib)
}

// process parses, checks and reports a single input, which is either a
// declaration or an expression.
func (p *repl) process(input string) {
	p.fragments++
	//
	name := fmt.Sprintf("repl:%d", p.fragments)
	srcfile := source.NewSourceFile(name, []byte(input))
	//
	if opensDeclaration(input) {
		p.processDeclarations(srcfile)
	} else {
		p.processExpression(srcfile)
	}
}

// processDeclarations parses a fragment as a sequence of declarations, feeding
// each into the session scope in turn.
func (p *repl) processDeclarations(srcfile *source.File) {
	module, srcmap, errs := parser.Parse(srcfile)
	if len(errs) > 0 {
		reportErrors(errs)
		return
	}
	//
	p.checker.Join(srcmap)
	//
	for _, decl := range module.Decls {
		if errs := p.checker.CheckDeclaration(decl); len(errs) > 0 {
			reportErrors(errs)
			return
		}
		//
		fmt.Println(describeDeclaration(decl))
	}
}

// processExpression parses a fragment as a single expression, then folds,
// checks and (where constant) evaluates it.
func (p *repl) processExpression(srcfile *source.File) {
	expr, srcmap, errs := parser.ParseExpr(srcfile)
	if len(errs) > 0 {
		reportErrors(errs)
		return
	}
	//
	p.checker.Join(srcmap)
	//
	nexpr, datatype, errs := p.checker.CheckExpr(expr)
	if len(errs) > 0 {
		reportErrors(errs)
		return
	}
	//
	if element, ok := sema.EvalConstant(nexpr); ok {
		fmt.Printf("%s : %s\n", element.String(), datatype.String())
	} else {
		fmt.Printf("%s : %s\n", nexpr.Lisp().String(false), datatype.String())
	}
}

// describeDeclaration summarises a declaration in a single line, as echoed
// after it is accepted.
func describeDeclaration(decl ast.Binding) string {
	switch b := decl.(type) {
	case *ast.VariableBinding:
		return fmt.Sprintf("%s : %s", b.Name(), b.Type().String())
	case *ast.FunctionBinding:
		return fmt.Sprintf("%s : %s", b.Name(), b.Signature().String())
	case *ast.OperatorBinding:
		return fmt.Sprintf("infix operator %s : %s", b.Name(), b.Fixity().String())
	case *ast.TypeBinding:
		return fmt.Sprintf("type %s", b.Name())
	}
	//
	return decl.Name()
}

// ============================================================================
// Input handling
// ============================================================================

// declKeywords lists the keywords which can open a top-level declaration.
var declKeywords = []string{
	"alias", "class", "fun", "infix", "let", "pure", "static", "struct", "trait", "unowned", "var", "weak",
}

// opensDeclaration determines whether a fragment of input opens a declaration
// rather than an expression.  A fun introducing its parameter list directly is
// a closure, hence an expression.
func opensDeclaration(input string) bool {
	trimmed := strings.TrimSpace(input)
	fields := strings.Fields(trimmed)
	//
	if len(fields) == 0 || !slices.Contains(declKeywords, fields[0]) {
		return false
	}
	//
	if fields[0] == "fun" {
		rest := strings.TrimSpace(trimmed[3:])
		return !strings.HasPrefix(rest, "(")
	}
	//
	return true
}

// readInput reads one logical input from the user, continuing across lines
// while brackets remain open.  Reports false once the session is over.
func readInput(ln *liner.State) (string, bool) {
	var (
		builder strings.Builder
		depth   int
	)
	//
	for {
		var (
			line string
			err  error
		)
		//
		if builder.Len() == 0 {
			line, err = ln.Prompt("> ")
		} else {
			line, err = ln.Prompt("| ")
		}
		//
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl-C abandons the current input.
			return "", true
		case err != nil:
			// Ctrl-D (or a closed terminal) ends the session.
			fmt.Println()
			return "", false
		}
		//
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		//
		builder.WriteString(line)
		//
		if depth = bracketDepth(line, depth); depth <= 0 {
			return builder.String(), true
		}
	}
}

// bracketDepth updates a running bracket balance with a further line, ignoring
// anything behind a comment marker.
func bracketDepth(line string, depth int) int {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	//
	for _, c := range line {
		switch c {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		}
	}
	//
	return depth
}

// ============================================================================
// History
// ============================================================================

// historyPath determines where repl history lives, defaulting to a dotfile in
// the user's home directory.
func historyPath(flag string) string {
	if flag != "" {
		return flag
	}
	//
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	//
	return filepath.Join(home, ".aster_history")
}

// loadHistory loads any existing history into the line editor (best effort).
func loadHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}
	//
	if f, err := os.Open(path); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
}

// saveHistory writes the accumulated history back out (best effort).
func saveHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}
	//
	if f, err := os.Create(path); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().String("history", "", "specify history file (defaults to ~/.aster_history)")
}
