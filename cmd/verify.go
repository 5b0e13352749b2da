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
	"github.com/paul-ww/ocmf-go/internal/ocmf"
	"github.com/paul-ww/ocmf-go/internal/output"
	"github.com/spf13/cobra"
)

var (
	verifyKey     string
	verifyQRImage bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [input]",
	Short: "Verify the ECDSA signature of an OCMF record",
	Long: `Verifies the detached ECDSA signature of an OCMF record against the meter's
public key. The key (--key) may be a PEM file, or hex/base64 DER key material,
either inline or in a file. Without --key the record's embedded PK field is
used if present. The signature is checked over the payload bytes exactly as
they appear in the input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyKey, "key", "", "Public key (file path, hex, or base64 DER)")
	verifyCmd.Flags().BoolVar(&verifyQRImage, "qr", false, "Treat input as an image file with a QR code")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	raw, err := readRecordInput(args, verifyQRImage)
	if err != nil {
		return err
	}

	rec, err := ocmf.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}

	keyMaterial := verifyKey
	if keyMaterial == "" {
		if rec.Signature.PK == "" {
			return fmt.Errorf("no public key: provide --key or use a record with an embedded PK")
		}
		keyMaterial = rec.Signature.PK
	} else {
		// --key may name a file holding the key material.
		if resolved, err := format.ReadInput(keyMaterial); err == nil {
			keyMaterial = resolved
		}
	}

	key, err := crypto.ParsePublicKey(keyMaterial)
	if err != nil {
		return fmt.Errorf("loading public key: %w", err)
	}

	ok, err := crypto.Verify(rec.RawPayload(), rec.Signature, key)
	if err != nil {
		return fmt.Errorf("verifying signature: %w", err)
	}

	output.PrintVerification(ok, outputOptions())
	if !ok {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}
