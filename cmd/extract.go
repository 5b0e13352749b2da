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

	"github.com/paul-ww/ocmf-go/internal/crypto"
	"github.com/paul-ww/ocmf-go/internal/format"
	"github.com/paul-ww/ocmf-go/internal/output"
	"github.com/paul-ww/ocmf-go/internal/transparency"
	"github.com/spf13/cobra"
)

var extractVerify bool

var extractCmd = &cobra.Command{
	Use:   "extract [input]",
	Short: "Extract OCMF records from a transparency XML container",
	Long: `Extracts the signed OCMF records from a transparency-software XML file,
together with the public keys the container ships. With --verify each record's
signature is checked against its container key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractVerify, "verify", false, "Verify each record against its container key")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	raw, err := format.ReadInput(input)
	if err != nil {
		return err
	}

	datasets, err := transparency.Parse([]byte(raw))
	if err != nil {
		return err
	}

	opts := outputOptions()
	output.PrintDatasets(datasets, opts)

	if !extractVerify {
		return nil
	}

	failed := 0
	for i, ds := range datasets {
		rec, err := ds.Record()
		if err != nil {
			return fmt.Errorf("parsing dataset %d: %w", i+1, err)
		}
		keyMaterial := ds.PublicKey
		if keyMaterial == "" {
			keyMaterial = rec.Signature.PK
		}
		if keyMaterial == "" {
			return fmt.Errorf("dataset %d has no public key to verify against", i+1)
		}
		key, err := crypto.ParsePublicKey(keyMaterial)
		if err != nil {
			return fmt.Errorf("loading key for dataset %d: %w", i+1, err)
		}
		ok, err := crypto.Verify(rec.RawPayload(), rec.Signature, key)
		if err != nil {
			return fmt.Errorf("verifying dataset %d: %w", i+1, err)
		}
		if !opts.JSON {
			fmt.Printf("  [%d] ", i+1)
		}
		output.PrintVerification(ok, opts)
		if !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d signatures failed verification", failed, len(datasets))
	}
	return nil
}
