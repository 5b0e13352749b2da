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

package crypto

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"

	"github.com/paul-ww/ocmf-go/internal/ocmf"
)

// DecodeSignatureData decodes SD according to the signature's SE encoding.
func DecodeSignatureData(sig *ocmf.Signature) ([]byte, error) {
	switch sig.Encoding() {
	case ocmf.EncodingHex:
		b, err := hex.DecodeString(sig.SD)
		if err != nil {
			return nil, ocmf.WrapError(ocmf.KindHexDecoding, "SD", err)
		}
		return b, nil
	case ocmf.EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(sig.SD)
		if err != nil {
			return nil, ocmf.WrapError(ocmf.KindBase64Decoding, "SD", err)
		}
		return b, nil
	default:
		return nil, ocmf.NewError(ocmf.KindSignature, "SE", "unknown signature encoding %q", sig.Encoding())
	}
}

// Verify checks the record's detached ECDSA signature over the payload bytes
// exactly as they appeared on the wire. It returns false only when the
// signature check itself fails; every precondition failure (unknown method,
// unsupported curve, key/method curve mismatch, undecodable data) is an
// error so that a broken setup is never mistaken for tampering.
func Verify(payload []byte, sig *ocmf.Signature, key *PublicKey) (bool, error) {
	method := sig.Method()
	if !method.Valid() {
		return false, ocmf.NewError(ocmf.KindVerification, "SA", "unknown signature method %q", method)
	}
	curve, ok := CurveByName(method.CurveName())
	if !ok {
		return false, ocmf.NewError(ocmf.KindVerification, "SA", "unknown curve %q", method.CurveName())
	}
	if key.Curve.Name != curve.Name {
		return false, ocmf.NewError(ocmf.KindVerification, "SA", "public key curve %s does not match signature method curve %s", key.Curve.Name, curve.Name)
	}
	if !curve.Supported() {
		return false, ocmf.NewError(ocmf.KindVerification, "SA", "signature verification over %s is not supported", curve.Name)
	}

	sigBytes, err := DecodeSignatureData(sig)
	if err != nil {
		return false, err
	}

	var digest []byte
	switch method.HashName() {
	case "SHA256":
		h := sha256.Sum256(payload)
		digest = h[:]
	case "SHA512":
		h := sha512.Sum512(payload)
		digest = h[:]
	default:
		return false, ocmf.NewError(ocmf.KindVerification, "SA", "unknown hash %q", method.HashName())
	}

	pub := &ecdsa.PublicKey{Curve: curve.Impl, X: key.X, Y: key.Y}
	return ecdsa.VerifyASN1(pub, digest, sigBytes), nil
}
