// Copyright 2025 The ocmf-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package eichrecht checks OCMF records against German calibration-law
// billing rules. The checks never fail hard; they collect typed issues with
// explicit severities and leave the pass/fail policy to the caller.
package eichrecht

import "fmt"

// Severity of a compliance issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies one compliance rule.
type IssueCode string

const (
	CodeNoReadings             IssueCode = "NO_READINGS"
	CodeBeginTx                IssueCode = "BEGIN_TX"
	CodeEndTx                  IssueCode = "END_TX"
	CodeMeterStatus            IssueCode = "METER_STATUS"
	CodeErrorFlags             IssueCode = "ERROR_FLAGS"
	CodeTimeSync               IssueCode = "TIME_SYNC"
	CodeCumulatedLossBegin     IssueCode = "CL_BEGIN"
	CodeCumulatedLossNegative  IssueCode = "CL_NEGATIVE"
	CodeSerialMismatch         IssueCode = "SERIAL_MISMATCH"
	CodeMeterSerialMissing     IssueCode = "METER_SERIAL_MISSING"
	CodeOBISMismatch           IssueCode = "OBIS_MISMATCH"
	CodeUnitMismatch           IssueCode = "UNIT_MISMATCH"
	CodeValueRegression        IssueCode = "VALUE_REGRESSION"
	CodeTimeRegression         IssueCode = "TIME_REGRESSION"
	CodeIDLevelInvalid         IssueCode = "ID_LEVEL_INVALID"
	CodePaginationInconsistent IssueCode = "PAGINATION_INCONSISTENT"
	CodeIDMismatch             IssueCode = "ID_MISMATCH"
)

// Issue is one finding from a compliance check. Produced, never mutated.
type Issue struct {
	Code     IssueCode
	Message  string
	Field    string
	Severity Severity
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("[%s] %s: %s (field %s)", i.Severity, i.Code, i.Message, i.Field)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
}

func issueError(code IssueCode, field, format string, args ...any) Issue {
	return Issue{Code: code, Message: fmt.Sprintf(format, args...), Field: field, Severity: SeverityError}
}

func issueWarning(code IssueCode, field, format string, args ...any) Issue {
	return Issue{Code: code, Message: fmt.Sprintf(format, args...), Field: field, Severity: SeverityWarning}
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
