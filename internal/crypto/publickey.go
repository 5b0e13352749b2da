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
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"strings"

	"github.com/paul-ww/ocmf-go/internal/ocmf"
)

// idECPublicKey is the SPKI algorithm OID for elliptic curve keys.
var idECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

// PublicKey is a decoded meter public key. The stdlib SPKI parser only
// accepts the NIST curves, so the DER is parsed by hand here and the curve
// resolved against the OCMF curve registry.
type PublicKey struct {
	Curve *Curve
	X, Y  *big.Int
	Raw   []byte // DER SPKI as decoded from the input
}

// spki mirrors the SubjectPublicKeyInfo DER structure.
type spki struct {
	Algorithm struct {
		Algorithm  asn1.ObjectIdentifier
		NamedCurve asn1.ObjectIdentifier
	}
	PublicKey asn1.BitString
}

// ParsePublicKey decodes a meter public key from its transmission form:
// hex first (the usual OCMF encoding), then base64, then PEM. The decoded
// bytes are either a DER SubjectPublicKeyInfo or, from some legacy firmware,
// a bare 64-byte P-256 point without the uncompressed-point prefix.
func ParsePublicKey(material string) (*PublicKey, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "empty public key")
	}

	if strings.Contains(material, "-----BEGIN") {
		block, _ := pem.Decode([]byte(material))
		if block == nil {
			return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "malformed PEM block")
		}
		return parseDER(block.Bytes)
	}

	if der, err := hex.DecodeString(material); err == nil {
		return parseKeyBytes(der)
	}
	der, err := base64.StdEncoding.DecodeString(material)
	if err != nil {
		return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "public key is neither hex, base64 nor PEM")
	}
	return parseKeyBytes(der)
}

func parseKeyBytes(der []byte) (*PublicKey, error) {
	// Legacy firmware sends the raw X||Y point of a P-256 key.
	if len(der) == 64 {
		curve, _ := CurveByName("secp256r1")
		return pointKey(curve, append([]byte{0x04}, der...), der)
	}
	return parseDER(der)
}

func parseDER(der []byte) (*PublicKey, error) {
	var info spki
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil {
		return nil, ocmf.WrapError(ocmf.KindPublicKey, "PK", err)
	}
	if len(rest) != 0 {
		return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "trailing data after SubjectPublicKeyInfo")
	}
	if !info.Algorithm.Algorithm.Equal(idECPublicKey) {
		return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "not an EC public key (algorithm %v)", info.Algorithm.Algorithm)
	}
	curve, ok := CurveByOID(info.Algorithm.NamedCurve)
	if !ok {
		return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "unknown named curve OID %v", info.Algorithm.NamedCurve)
	}
	point := info.PublicKey.RightAlign()
	return pointKey(curve, point, der)
}

// pointKey splits an uncompressed EC point into its coordinates.
func pointKey(curve *Curve, point, raw []byte) (*PublicKey, error) {
	byteLen := (curve.KeySizeBits + 7) / 8
	if len(point) != 1+2*byteLen || point[0] != 0x04 {
		return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "expected uncompressed EC point of %d bytes for %s, got %d", 1+2*byteLen, curve.Name, len(point))
	}
	x := new(big.Int).SetBytes(point[1 : 1+byteLen])
	y := new(big.Int).SetBytes(point[1+byteLen:])
	if curve.Supported() {
		if !curve.Impl.IsOnCurve(x, y) {
			return nil, ocmf.NewError(ocmf.KindPublicKey, "PK", "point is not on curve %s", curve.Name)
		}
	}
	return &PublicKey{Curve: curve, X: x, Y: y, Raw: raw}, nil
}
