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
package util

import (
	"fmt"
	"os"
	"testing"

	"github.com/consensys/go-aster/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the Aster test files are found.
const TestDir = "../../testdata"

// ErrorChecker runs the front end over a given source file, producing zero or
// more diagnostics.
type ErrorChecker func(source.File) []source.SyntaxError

// ReadSourceFile reads a given test file from the test directory, failing the
// test if this is not possible.
func ReadSourceFile(t *testing.T, test, ext string) *source.File {
	var filename = fmt.Sprintf("%s/%s.%s", TestDir, test, ext)
	// Read test file
	bytes, err := os.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	// Package up as source file
	return source.NewSourceFile(filename, bytes)
}

// Convert a diagnostic into a useful human readable string.
func errorToString(err source.SyntaxError) string {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := min(line.Length()-lineOffset, span.Length())
	// Print error + line number
	return fmt.Sprintf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
}
