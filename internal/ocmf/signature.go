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

package ocmf

import "encoding/json"

// Signature is the third OCMF section. Only SD is mandatory; the other
// fields default per the OCMF specification when absent.
type Signature struct {
	SA SignatureMethod   `json:"SA,omitempty"` // algorithm, default ECDSA-secp256r1-SHA256
	SE SignatureEncoding `json:"SE,omitempty"` // data encoding, default hex
	SM string            `json:"SM,omitempty"` // mime type, default application/x-der
	SD string            `json:"SD"`           // signature data
	PK string            `json:"PK,omitempty"` // embedded public key (vendor extension)
}

// Method returns SA, defaulting when absent.
func (s *Signature) Method() SignatureMethod {
	if s.SA == "" {
		return DefaultSignatureMethod
	}
	return s.SA
}

// Encoding returns SE, defaulting to hex when absent.
func (s *Signature) Encoding() SignatureEncoding {
	if s.SE == "" {
		return EncodingHex
	}
	return s.SE
}

// MimeType returns SM, defaulting to application/x-der when absent.
func (s *Signature) MimeType() string {
	if s.SM == "" {
		return DefaultSignatureMimeType
	}
	return s.SM
}

// ParseSignature parses and validates the signature JSON section.
func ParseSignature(data []byte) (*Signature, error) {
	var s Signature
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, wrapError(KindSignature, "", err)
	}
	if s.SA != "" && !s.SA.Valid() {
		return nil, newError(KindSignature, "SA", "unknown signature algorithm %q", s.SA)
	}
	if s.SE != "" && !s.SE.Valid() {
		return nil, newError(KindSignature, "SE", "unknown signature encoding %q", s.SE)
	}
	if s.SD == "" {
		return nil, newError(KindSignature, "SD", "SD (Signature Data) is required")
	}
	return &s, nil
}
