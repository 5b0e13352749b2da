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

// Package crypto verifies the detached ECDSA signatures of OCMF records and
// decodes the signing public keys. German metering hardware signs with NIST,
// Koblitz and Brainpool curves; the NIST curves come from crypto/elliptic,
// secp256k1 from decred and the Brainpool curves from ebfe/brainpool.
package crypto

import (
	"crypto/elliptic"
	"encoding/asn1"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ebfe/brainpool"
)

// Curve describes one named curve OCMF signature methods may reference.
// Impl is nil for curves that are recognized on the wire but not supported
// for verification (the 192-bit curves, long deprecated for new hardware).
type Curve struct {
	Name            string
	OID             asn1.ObjectIdentifier
	KeySizeBits     int
	BlockLengthBits int
	Impl            elliptic.Curve
}

// Supported reports whether signatures over this curve can be verified.
func (c *Curve) Supported() bool { return c != nil && c.Impl != nil }

var curves = []Curve{
	{Name: "secp192k1", OID: asn1.ObjectIdentifier{1, 3, 132, 0, 31}, KeySizeBits: 192, BlockLengthBits: 192},
	{Name: "secp256k1", OID: asn1.ObjectIdentifier{1, 3, 132, 0, 10}, KeySizeBits: 256, BlockLengthBits: 256, Impl: secp256k1.S256()},
	{Name: "secp192r1", OID: asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 1}, KeySizeBits: 192, BlockLengthBits: 192},
	{Name: "secp256r1", OID: asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}, KeySizeBits: 256, BlockLengthBits: 256, Impl: elliptic.P256()},
	{Name: "secp384r1", OID: asn1.ObjectIdentifier{1, 3, 132, 0, 34}, KeySizeBits: 384, BlockLengthBits: 384, Impl: elliptic.P384()},
	{Name: "secp521r1", OID: asn1.ObjectIdentifier{1, 3, 132, 0, 35}, KeySizeBits: 521, BlockLengthBits: 528, Impl: elliptic.P521()},
	{Name: "brainpool256r1", OID: asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 7}, KeySizeBits: 256, BlockLengthBits: 256, Impl: brainpool.P256r1()},
	{Name: "brainpool384r1", OID: asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 11}, KeySizeBits: 384, BlockLengthBits: 384, Impl: brainpool.P384r1()},
}

// curveAliases maps alternative spellings seen in SA values to canonical
// curve names. OCMF uses both brainpool256r1 and brainpoolP256r1.
var curveAliases = map[string]string{
	"brainpoolP256r1": "brainpool256r1",
	"brainpoolP384r1": "brainpool384r1",
}

// CurveByName resolves a curve by its SA component name.
func CurveByName(name string) (*Curve, bool) {
	if canonical, ok := curveAliases[name]; ok {
		name = canonical
	}
	for i := range curves {
		if curves[i].Name == name {
			return &curves[i], true
		}
	}
	return nil, false
}

// CurveByOID resolves a curve by the named-curve OID from a DER key.
func CurveByOID(oid asn1.ObjectIdentifier) (*Curve, bool) {
	for i := range curves {
		if curves[i].OID.Equal(oid) {
			return &curves[i], true
		}
	}
	return nil, false
}
