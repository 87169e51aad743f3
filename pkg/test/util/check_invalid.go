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
	"errors"
	"fmt"
	"testing"

	"github.com/consensys/go-aster/pkg/util/source"
)

// CheckInvalid checks that a given source file fails to check, producing
// exactly the diagnostics its leading "//error" annotations describe.
// nolint
func CheckInvalid(t *testing.T, test, ext string, checker ErrorChecker) {
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := ReadSourceFile(t, test, ext)
	// Run front end over source file to produce errors
	actual := checker(*srcfile)
	// Extract expected errors for comparison
	expected, errs := ExtractAttributes(srcfile, extractExpectedError)
	//
	if len(errs) > 0 {
		// Report any errors encountered parsing the attributes themselves.
		t.Fatal(errors.Join(errs...))
	}
	// Check program did not check!
	checkExpectedErrors(t, srcfile, actual, expected)
}

func checkExpectedErrors(t *testing.T, srcfile *source.File, actual, expected []source.SyntaxError) {
	if len(actual) == 0 {
		t.Fatalf("Error %s should not have checked\n", srcfile.Filename())
	} else {
		error := false
		// Construct initial message
		msg := fmt.Sprintf("Error %s\n", srcfile.Filename())
		// Pad out with what received
		for i := 0; i < max(len(actual), len(expected)); i++ {
			if i < len(actual) && i < len(expected) {
				expected := expected[i]
				actual := actual[i]
				// Check whether message OK
				if expected.Message() == actual.Message() && expected.Span() == actual.Span() {
					continue
				}
			}
			// Indicate error arose
			error = true
			// actual
			if i < len(actual) {
				actual := actual[i]
				msg = fmt.Sprintf("%s unexpected error %s\n", msg, errorToString(actual))
			}
			// expected
			if i < len(expected) {
				expected := expected[i]
				msg = fmt.Sprintf("%s   expected error %s\n", msg, errorToString(expected))
			}
		}
		//
		if error {
			t.Fatal(msg)
		}
	}
}
