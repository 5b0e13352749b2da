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

// CheckReading checks a single billing-relevant reading. isBegin marks the
// opening reading of a transaction, which must start with zero cumulated
// loss.
func CheckReading(r ocmf.Reading, isBegin bool) []Issue {
	var issues []Issue

	if r.ST != ocmf.StatusOK {
		issues = append(issues, issueError(CodeMeterStatus, "ST", "meter status is %q, expected %q (OK)", r.ST, ocmf.StatusOK))
	}
	if r.EF != "" {
		issues = append(issues, issueError(CodeErrorFlags, "EF", "error flags set: %q", r.EF))
	}
	if r.TM.Status != ocmf.TimeSynchronized {
		issues = append(issues, issueWarning(CodeTimeSync, "TM", "meter time is not synchronized (status %q)", r.TM.Status))
	}
	if r.CL != nil {
		if isBegin && !r.CL.IsZero() {
			issues = append(issues, issueError(CodeCumulatedLossBegin, "CL", "cumulated loss must be 0 at transaction begin, got %s", r.CL))
		}
		if r.CL.IsNegative() {
			issues = append(issues, issueError(CodeCumulatedLossNegative, "CL", "cumulated loss is negative: %s", r.CL))
		}
	}

	return issues
}

// CheckPayload checks every reading of a single record. The first reading is
// treated as a transaction begin only when its TX says so.
func CheckPayload(p *ocmf.Payload, policy Policy) []Issue {
	if len(p.RD) == 0 {
		return []Issue{issueError(CodeNoReadings, "RD", "record contains no readings")}
	}

	var issues []Issue
	if policy.RequireMeterSerial && p.MS == "" {
		issues = append(issues, issueError(CodeMeterSerialMissing, "MS", "policy requires the meter serial (MS)"))
	}
	for i, r := range p.RD {
		isBegin := i == 0 && r.TX == ocmf.TxBegin
		issues = append(issues, CheckReading(r, isBegin)...)
	}
	return issues
}

// IsCompliant reports whether a single record passes all error-severity
// checks under the default policy.
func IsCompliant(p *ocmf.Payload) bool {
	return !HasErrors(CheckPayload(p, DefaultPolicy()))
}
