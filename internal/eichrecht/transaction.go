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

package eichrecht

import "github.com/paul-ww/ocmf-go/internal/ocmf"

// CheckTransaction checks a begin/end record pair against the billing
// rules. The billing-relevant readings are the first reading of the begin
// record and the last reading of the end record.
func CheckTransaction(begin, end *ocmf.Payload, policy Policy) []Issue {
	if len(begin.RD) == 0 || len(end.RD) == 0 {
		return []Issue{issueError(CodeNoReadings, "RD", "both records of a transaction pair need readings")}
	}

	var issues []Issue
	first := begin.RD[0]
	last := end.RD[len(end.RD)-1]

	if first.TX != ocmf.TxBegin {
		issues = append(issues, issueError(CodeBeginTx, "TX", "begin record's first reading has TX=%q, expected B", first.TX))
	}
	if !last.TX.IsEnd() {
		issues = append(issues, issueError(CodeEndTx, "TX", "end record's last reading has TX=%q, expected an end reason", last.TX))
	}

	issues = append(issues, CheckReading(first, true)...)
	issues = append(issues, CheckReading(last, false)...)

	if policy.RequireMeterSerial && (begin.MS == "" || end.MS == "") {
		issues = append(issues, issueError(CodeMeterSerialMissing, "MS", "policy requires the meter serial (MS) on both records"))
	}
	if begin.SerialNumber() != end.SerialNumber() {
		issues = append(issues, issueError(CodeSerialMismatch, "GS/MS", "serial changed between records: %q vs %q", begin.SerialNumber(), end.SerialNumber()))
	}

	switch {
	case first.RI == nil || last.RI == nil:
		if (first.RI == nil) != (last.RI == nil) {
			issues = append(issues, issueError(CodeOBISMismatch, "RI", "only one billing reading names an OBIS register"))
		}
	case first.RI.String() != last.RI.String():
		issues = append(issues, issueError(CodeOBISMismatch, "RI", "OBIS register changed between readings: %s vs %s", first.RI, last.RI))
	}
	if first.RU != last.RU {
		issues = append(issues, issueError(CodeUnitMismatch, "RU", "unit changed between readings: %q vs %q", first.RU, last.RU))
	}

	if first.RV != nil && last.RV != nil && last.RV.Cmp(*first.RV) < 0 {
		issues = append(issues, issueError(CodeValueRegression, "RV", "end value %s is lower than begin value %s", last.RV, first.RV))
	}
	if last.TM.Before(first.TM) {
		issues = append(issues, issueError(CodeTimeRegression, "TM", "end reading predates begin reading: %s vs %s", last.TM, first.TM))
	}

	for _, p := range []*ocmf.Payload{begin, end} {
		if p.IL.IsErrorState() {
			issues = append(issues, issueError(CodeIDLevelInvalid, "IL", "identification level %q marks the assignment as unusable", p.IL))
			break
		}
	}

	if begin.PG != "" && end.PG != "" {
		if begin.PG.Context() != end.PG.Context() || end.PG.Number() != begin.PG.Number()+1 {
			issues = append(issues, issueError(CodePaginationInconsistent, "PG", "pagination %s -> %s is not consecutive", begin.PG, end.PG))
		}
	}

	if begin.ID != end.ID {
		msg := "identification data changed between records: %q vs %q"
		if policy.IDMismatchSeverity == SeverityError {
			issues = append(issues, issueError(CodeIDMismatch, "ID", msg, begin.ID, end.ID))
		} else {
			issues = append(issues, issueWarning(CodeIDMismatch, "ID", msg, begin.ID, end.ID))
		}
	}

	return issues
}

// ValidateTransactionPair reports whether the pair passes every
// error-severity check under the default policy. Warnings are ignored.
func ValidateTransactionPair(begin, end *ocmf.Payload) bool {
	return !HasErrors(CheckTransaction(begin, end, DefaultPolicy()))
}
