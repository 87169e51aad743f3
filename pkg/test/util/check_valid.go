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
	"testing"
)

// CheckValid checks that a given source file checks without producing any
// diagnostics.
func CheckValid(t *testing.T, test, ext string, checker ErrorChecker) {
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := ReadSourceFile(t, test, ext)
	// Run front end over source file
	errs := checker(*srcfile)
	// Check program checked!
	if len(errs) > 0 {
		msg := "Error " + srcfile.Filename() + "\n"
		//
		for _, err := range errs {
			msg = msg + " unexpected error " + errorToString(err)
		}
		//
		t.Fatal(msg)
	}
}
