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
	"fmt"
	"os"

	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/aster/parser"
	"github.com/consensys/go-aster/pkg/aster/sema"
	"github.com/consensys/go-aster/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// foldCmd represents the fold command
var foldCmd = &cobra.Command{
	Use:   "fold [flags]",
	Short: "Fold a single expression and report its shape and type.",
	Long: `Fold a single expression against the standard prelude, printing the
	folded tree as an s-expression together with the type determined for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		input := GetString(cmd, "expr")
		//
		if input == "" {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		expr, datatype, ok := foldExpr(input, !GetFlag(cmd, "no-stdlib"))
		if !ok {
			os.Exit(1)
		}
		//
		fmt.Printf("%s : %s\n", expr.Lisp().String(false), datatype.String())
		// Reduce to a field element when requested
		if GetFlag(cmd, "eval") {
			if element, ok := sema.EvalConstant(expr); ok {
				fmt.Println(element.String())
			} else {
				fmt.Println("(not constant)")
			}
		}
	},
}

// foldExpr parses and checks a single expression held in a string, reporting
// any diagnostics arising.
func foldExpr(input string, stdlib bool) (ast.Expr, ast.Type, bool) {
	srcfile := source.NewSourceFile("expr", []byte(input))
	// Parse expression proper
	expr, srcmap, errs := parser.ParseExpr(srcfile)
	//
	if len(errs) > 0 {
		reportErrors(errs)
		return nil, nil, false
	}
	// Fold and check against a fresh module scope
	nexpr, datatype, errs := sema.NewChecker(srcmap, stdlib).CheckExpr(expr)
	//
	if len(errs) > 0 {
		reportErrors(errs)
		return nil, nil, false
	}
	//
	return nexpr, datatype, true
}

func init() {
	rootCmd.AddCommand(foldCmd)
	foldCmd.Flags().StringP("expr", "e", "", "specify expression to fold")
	foldCmd.Flags().Bool("eval", false, "reduce expression to a field element when constant")
}
