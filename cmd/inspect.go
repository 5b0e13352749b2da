// Copyright 2026 The ocmf-go Authors
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

	"github.com/paul-ww/ocmf-go/internal/crypto"
	"github.com/paul-ww/ocmf-go/internal/eichrecht"
	"github.com/paul-ww/ocmf-go/internal/format"
	"github.com/paul-ww/ocmf-go/internal/ocmf"
	"github.com/paul-ww/ocmf-go/internal/output"
	"github.com/spf13/cobra"
)

var (
	inspectKey        string
	inspectQRImage    bool
	inspectPolicyFile string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Decode, verify, and check a record in one pass",
	Long: `Runs the full pipeline on a single record: decode and display it, verify
its ECDSA signature (against --key or the embedded PK), and check it against
the Eichrecht billing rules. Exit code 0 only when the signature is valid and
no error-severity compliance issue is found. Without any key material the
signature step is skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectKey, "key", "", "Public key (file path, hex, or base64 DER)")
	inspectCmd.Flags().BoolVar(&inspectQRImage, "qr", false, "Treat input as an image file with a QR code")
	inspectCmd.Flags().StringVar(&inspectPolicyFile, "policy", "", "Policy file (YAML, TOML, or JSON)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := readRecordInput(args, inspectQRImage)
	if err != nil {
		return err
	}
	rec, err := ocmf.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}
	opts := outputOptions()
	output.PrintRecord(rec, opts)

	failed := false

	keyMaterial := inspectKey
	if keyMaterial == "" {
		keyMaterial = rec.Signature.PK
	} else if resolved, err := format.ReadInput(keyMaterial); err == nil {
		keyMaterial = resolved
	}
	if keyMaterial != "" {
		key, err := crypto.ParsePublicKey(keyMaterial)
		if err != nil {
			return fmt.Errorf("loading public key: %w", err)
		}
		ok, err := crypto.Verify(rec.RawPayload(), rec.Signature, key)
		if err != nil {
			return fmt.Errorf("verifying signature: %w", err)
		}
		output.PrintVerification(ok, opts)
		if !ok {
			failed = true
		}
	}

	policy := eichrecht.DefaultPolicy()
	if inspectPolicyFile != "" {
		p, err := eichrecht.LoadPolicy(inspectPolicyFile)
		if err != nil {
			return err
		}
		policy = p
	}
	issues := eichrecht.CheckPayload(rec.Payload, policy)
	output.PrintIssues(issues, opts)
	if eichrecht.HasErrors(issues) {
		failed = true
	}

	if failed {
		return fmt.Errorf("record failed verification or compliance checks")
	}
	return nil
}
