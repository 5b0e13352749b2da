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

// Package ocmf parses, validates and serializes OCMF (Open Charge Metering
// Format) records: "OCMF|<payload-json>|<signature-json>". The payload bytes
// as received are retained verbatim so that detached signatures stay
// verifiable after parsing.
package ocmf

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Header is the fixed first section of every OCMF record.
const Header = "OCMF"

// OCMF is a fully parsed record. Payload and Signature are validated;
// rawPayload holds the exact payload bytes from the wire.
type OCMF struct {
	Header    string
	Payload   *Payload
	Signature *Signature

	rawPayload []byte
}

// RawPayload returns the payload section exactly as received. These are the
// bytes the signature was computed over; re-serializing the parsed payload
// is not guaranteed to reproduce them.
func (o *OCMF) RawPayload() []byte { return o.rawPayload }

// Parse parses an OCMF record from its wire form. Surrounding whitespace is
// ignored and a fully hex-encoded record (as emitted by some transparency
// formats) is decoded transparently.
func Parse(input string) (*OCMF, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, newError(KindFormat, "", "empty input")
	}

	if !strings.HasPrefix(s, Header+"|") && isHexString(s) {
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return nil, wrapError(KindHexDecoding, "", err)
		}
		if !utf8.Valid(decoded) {
			return nil, newError(KindHexDecoding, "", "hex-decoded input is not valid UTF-8")
		}
		s = strings.TrimSpace(string(decoded))
	}

	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return nil, newError(KindFormat, "", "expected three sections separated by '|', got %d", len(parts))
	}
	if parts[0] != Header {
		return nil, newError(KindFormat, "", "header must be %q, got %q", Header, parts[0])
	}

	payload, err := ParsePayload([]byte(parts[1]))
	if err != nil {
		return nil, wrapError(KindPayload, "", err)
	}
	sig, err := ParseSignature([]byte(parts[2]))
	if err != nil {
		return nil, wrapError(KindSignature, "", err)
	}

	return &OCMF{
		Header:     Header,
		Payload:    payload,
		Signature:  sig,
		rawPayload: []byte(parts[1]),
	}, nil
}

// Serialize renders the record back to its wire form. When hexEncode is set
// the whole record is hex-encoded (lowercase), matching the encoding some
// backends expect inside transparency containers.
func (o *OCMF) Serialize(hexEncode bool) (string, error) {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return "", wrapError(KindPayload, "", err)
	}
	sig, err := json.Marshal(o.Signature)
	if err != nil {
		return "", wrapError(KindSignature, "", err)
	}
	s := Header + "|" + string(payload) + "|" + string(sig)
	if hexEncode {
		return hex.EncodeToString([]byte(s)), nil
	}
	return s, nil
}

// String renders the plain (non-hex) wire form, or an empty string if the
// record cannot be marshaled.
func (o *OCMF) String() string {
	s, err := o.Serialize(false)
	if err != nil {
		return ""
	}
	return s
}

func isHexString(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
