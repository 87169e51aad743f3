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
package aster

import (
	"github.com/consensys/go-aster/pkg/aster/ast"
	"github.com/consensys/go-aster/pkg/aster/parser"
	"github.com/consensys/go-aster/pkg/aster/sema"
	"github.com/consensys/go-aster/pkg/util"
	"github.com/consensys/go-aster/pkg/util/source"
)

// LangVersion identifies the version of the Aster language this front end
// implements, against which the --lang constraint of the check command is
// matched.
const LangVersion = "0.2.0"

// CheckFiles reads, parses and semantically analyses zero or more Aster
// source files.  An error here indicates a file could not be read, whilst
// problems with the files' contents are reported as syntax errors.
func CheckFiles(stdlib bool, filenames ...string) ([]*ast.Module, []source.SyntaxError, error) {
	srcfiles, err := source.ReadFiles(filenames...)
	//
	if err != nil {
		return nil, nil, err
	}
	//
	modules, errs := CheckSourceFiles(srcfiles, stdlib)
	//
	return modules, errs, nil
}

// CheckSourceFiles parses and semantically analyses a given set of source
// files.  Each file forms a module of its own, and files do not see each
// other's declarations.  Files which fail to check are dropped, with all
// diagnostics across all files reported together.
func CheckSourceFiles(srcfiles []source.File, stdlib bool) ([]*ast.Module, []source.SyntaxError) {
	var (
		modules []*ast.Module
		errors  []source.SyntaxError
	)
	//
	for i := range srcfiles {
		module, errs := CheckSourceFile(&srcfiles[i], stdlib)
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			modules = append(modules, module)
		}
	}
	//
	return modules, errors
}

// CheckSourceFile parses and semantically analyses exactly one source file.
// This is also a helper function for e.g. the testing environment.
func CheckSourceFile(srcfile *source.File, stdlib bool) (*ast.Module, []source.SyntaxError) {
	stats := util.NewPerfStats()
	// Parse file into a module
	module, srcmap, errs := parser.Parse(srcfile)
	// Check for parsing errors
	if len(errs) > 0 {
		return nil, errs
	}
	//
	stats.Log("Parsing " + srcfile.Filename())
	stats = util.NewPerfStats()
	// Analyse module declarations
	errs = sema.NewChecker(srcmap, stdlib).Check(module)
	//
	stats.Log("Checking " + srcfile.Filename())
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return module, nil
}
