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
package test

import (
	"testing"

	"github.com/consensys/go-aster/pkg/aster"
	"github.com/consensys/go-aster/pkg/test/util"
	"github.com/consensys/go-aster/pkg/util/source"
)

// ===================================================================
// Name Tests
// ===================================================================

func Test_Invalid_Name_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/name_invalid_01")
}

func Test_Invalid_Name_02(t *testing.T) {
	checkAsterInvalid(t, "invalid/name_invalid_02")
}

func Test_Invalid_Name_03(t *testing.T) {
	checkAsterInvalid(t, "invalid/name_invalid_03")
}

// ===================================================================
// Type Tests
// ===================================================================

func Test_Invalid_Type_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/type_invalid_01")
}

func Test_Invalid_Type_02(t *testing.T) {
	checkAsterInvalid(t, "invalid/type_invalid_02")
}

func Test_Invalid_Type_03(t *testing.T) {
	checkAsterInvalid(t, "invalid/type_invalid_03")
}

// ===================================================================
// Operator Tests
// ===================================================================

func Test_Invalid_Operator_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/operator_invalid_01")
}

func Test_Invalid_Operator_02(t *testing.T) {
	checkAsterInvalid(t, "invalid/operator_invalid_02")
}

func Test_Invalid_Operator_03(t *testing.T) {
	checkAsterInvalid(t, "invalid/operator_invalid_03")
}

func Test_Invalid_Conflict_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/conflict_invalid_01")
}

// ===================================================================
// LValue Tests
// ===================================================================

func Test_Invalid_LValue_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/lvalue_invalid_01")
}

func Test_Invalid_LValue_02(t *testing.T) {
	checkAsterInvalid(t, "invalid/lvalue_invalid_02")
}

func Test_Invalid_LValue_03(t *testing.T) {
	checkAsterInvalid(t, "invalid/lvalue_invalid_03")
}

// ===================================================================
// Member Tests
// ===================================================================

func Test_Invalid_Member_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/member_invalid_01")
}

func Test_Invalid_Member_02(t *testing.T) {
	checkAsterInvalid(t, "invalid/member_invalid_02")
}

func Test_Invalid_Member_03(t *testing.T) {
	checkAsterInvalid(t, "invalid/member_invalid_03")
}

// ===================================================================
// Call Tests
// ===================================================================

func Test_Invalid_Call_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/call_invalid_01")
}

func Test_Invalid_Call_02(t *testing.T) {
	checkAsterInvalid(t, "invalid/call_invalid_02")
}

func Test_Invalid_Subscript_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/subscript_invalid_01")
}

// ===================================================================
// Other Tests
// ===================================================================

func Test_Invalid_Stdlib_01(t *testing.T) {
	util.CheckInvalid(t, "invalid/stdlib_invalid_01", "aster", checkAsterFileNoStdlib)
}

func Test_Invalid_Parse_01(t *testing.T) {
	checkAsterInvalid(t, "invalid/parse_invalid_01")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkAsterInvalid(t *testing.T, test string) {
	util.CheckInvalid(t, test, "aster", checkAsterFile)
}

func checkAsterFileNoStdlib(srcfile source.File) []source.SyntaxError {
	_, errors := aster.CheckSourceFile(&srcfile, false)
	//
	return errors
}
