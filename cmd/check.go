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

package cmd

import (
	"fmt"

	"github.com/paul-ww/ocmf-go/internal/eichrecht"
	"github.com/paul-ww/ocmf-go/internal/format"
	"github.com/paul-ww/ocmf-go/internal/ocmf"
	"github.com/paul-ww/ocmf-go/internal/output"
	"github.com/spf13/cobra"
)

var (
	checkErrorsOnly bool
	checkPolicyFile string
)

var checkCmd = &cobra.Command{
	Use:   "check [begin] [end]",
	Short: "Check OCMF records against Eichrecht billing rules",
	Long: `Checks records against German calibration-law (Eichrecht) billing rules.
With one input every reading of the record is checked. With two inputs the
records are treated as a transaction begin/end pair and cross-checked
(serials, registers, value and time monotonicity, pagination).

Issues come with severities; warnings alone do not fail the check. A policy
file (--policy) can tune the configurable decisions.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkErrorsOnly, "errors-only", false, "Hide warning-severity issues")
	checkCmd.Flags().StringVar(&checkPolicyFile, "policy", "", "Policy file (YAML, TOML, or JSON)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	policy := eichrecht.DefaultPolicy()
	if checkPolicyFile != "" {
		p, err := eichrecht.LoadPolicy(checkPolicyFile)
		if err != nil {
			return err
		}
		policy = p
	}

	records := make([]*ocmf.OCMF, 0, len(args))
	for _, arg := range args {
		raw, err := format.ReadInput(arg)
		if err != nil {
			return err
		}
		rec, err := ocmf.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing record: %w", err)
		}
		records = append(records, rec)
	}

	var issues []eichrecht.Issue
	if len(records) == 2 {
		issues = eichrecht.CheckTransaction(records[0].Payload, records[1].Payload, policy)
	} else {
		issues = eichrecht.CheckPayload(records[0].Payload, policy)
	}

	if checkErrorsOnly {
		issues = filterErrors(issues)
	}

	output.PrintIssues(issues, outputOptions())
	if eichrecht.HasErrors(issues) {
		return fmt.Errorf("compliance check failed")
	}
	return nil
}

func filterErrors(issues []eichrecht.Issue) []eichrecht.Issue {
	filtered := make([]eichrecht.Issue, 0, len(issues))
	for _, i := range issues {
		if i.Severity == eichrecht.SeverityError {
			filtered = append(filtered, i)
		}
	}
	return filtered
}
