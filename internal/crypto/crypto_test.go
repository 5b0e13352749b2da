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
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ebfe/brainpool"
	"github.com/paul-ww/ocmf-go/internal/ocmf"
)

// Real KEBA KCP30 record: payload section, DER signature and SPKI key.
const (
	kebaPayload = `{"FV":"1.0","GI":"KEBA_KCP30","GS":"17619300","GV":"2.8.5","PG":"T32","IS":false,"IL":"NONE","IF":["RFID_NONE","OCPP_NONE","ISO15118_NONE","PLMN_NONE"],"IT":"NONE","ID":"","RD":[{"TM":"2019-08-13T10:03:15,000+0000 I","TX":"B","EF":"","ST":"G","RV":0.2596,"RI":"1-b:1.8.0","RU":"kWh"},{"TM":"2019-08-13T10:03:36,000+0000 R","TX":"E","EF":"","ST":"G","RV":0.2597,"RI":"1-b:1.8.0","RU":"kWh"}]}`
	kebaSigSD   = "304502200E2F107C987A300AC1695CA89EA149A8CDFA16188AF0A33EE64B67964AA943F9022100889A72B6D65364BEA8562E7F6A0253157ACFF84FE4929A93B5964D23C4265699"
	kebaKeyHex  = "3059301306072A8648CE3D020106082A8648CE3D030107034200043AEEB45C392357820A58FDFB0857BD77ADA31585C61C430531DFA53B440AFBFDD95AC887C658EA55260F808F55CA948DF235C2108A0D6DC7D4AB1A5E1A7955BE"

	// A secp192r1 key from a different vendor's charger.
	compleoKeyHex = "3049301306072a8648ce3d020106082a8648ce3d030101033200041e155ef46fbcc56005769c08d792127c006c242ccccd96bf7051b6fbc278497036659e7bae57f542776a17c7f8b28600"
)

func TestParsePublicKeyHex(t *testing.T) {
	key, err := ParsePublicKey(kebaKeyHex)
	if err != nil {
		t.Fatalf("ParsePublicKey() error: %v", err)
	}
	if key.Curve.Name != "secp256r1" {
		t.Errorf("Curve = %q, want secp256r1", key.Curve.Name)
	}
	if !key.Curve.Supported() {
		t.Error("secp256r1 key reported as unsupported")
	}
}

func TestParsePublicKeyBase64(t *testing.T) {
	der, err := hex.DecodeString(kebaKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	key, err := ParsePublicKey(base64.StdEncoding.EncodeToString(der))
	if err != nil {
		t.Fatalf("ParsePublicKey(base64) error: %v", err)
	}
	if key.Curve.Name != "secp256r1" {
		t.Errorf("Curve = %q, want secp256r1", key.Curve.Name)
	}
}

func TestParsePublicKeyRawPoint(t *testing.T) {
	// Legacy firmware sends just X||Y without the DER wrapping.
	raw := kebaKeyHex[len(kebaKeyHex)-128:]
	key, err := ParsePublicKey(raw)
	if err != nil {
		t.Fatalf("ParsePublicKey(raw point) error: %v", err)
	}
	if key.Curve.Name != "secp256r1" {
		t.Errorf("Curve = %q, want secp256r1", key.Curve.Name)
	}

	full, err := ParsePublicKey(kebaKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	if key.X.Cmp(full.X) != 0 || key.Y.Cmp(full.Y) != 0 {
		t.Error("raw point key differs from DER key coordinates")
	}
}

func TestParsePublicKeyPEM(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pemStr := "-----BEGIN PUBLIC KEY-----\n" + base64.StdEncoding.EncodeToString(der) + "\n-----END PUBLIC KEY-----\n"
	key, err := ParsePublicKey(pemStr)
	if err != nil {
		t.Fatalf("ParsePublicKey(PEM) error: %v", err)
	}
	if key.X.Cmp(priv.PublicKey.X) != 0 {
		t.Error("PEM key coordinates do not match the generated key")
	}
}

func TestParsePublicKeyUnsupportedCurve(t *testing.T) {
	key, err := ParsePublicKey(compleoKeyHex)
	if err != nil {
		t.Fatalf("ParsePublicKey() error: %v", err)
	}
	if key.Curve.Name != "secp192r1" {
		t.Errorf("Curve = %q, want secp192r1", key.Curve.Name)
	}
	if key.Curve.Supported() {
		t.Error("secp192r1 must be recognized but unsupported")
	}
}

func TestParsePublicKeyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not a key encoding", input: "!!not-hex-or-base64!!"},
		{name: "hex but not DER", input: "deadbeef"},
		{name: "point off curve", input: strings.Repeat("00", 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePublicKey(tt.input)
			if err == nil {
				t.Fatalf("ParsePublicKey(%q) expected error", tt.input)
			}
			if !ocmf.IsKind(err, ocmf.KindPublicKey) {
				t.Errorf("error kind = %v, want public key", err)
			}
		})
	}
}

func TestVerifyKebaRecord(t *testing.T) {
	key, err := ParsePublicKey(kebaKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig := &ocmf.Signature{SD: kebaSigSD}

	ok, err := Verify([]byte(kebaPayload), sig, key)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !ok {
		t.Error("Verify() = false for an authentic record")
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	key, err := ParsePublicKey(kebaKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig := &ocmf.Signature{SD: kebaSigSD}

	tampered := strings.Replace(kebaPayload, "0.2597", "0.2598", 1)
	ok, err := Verify([]byte(tampered), sig, key)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if ok {
		t.Error("Verify() = true for a tampered payload")
	}
}

func TestVerifyWrongKeySameCurve(t *testing.T) {
	// A different key on the right curve is a completed verification that
	// fails, not an error.
	_, keyHex := signWith(t, elliptic.P256(), asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}, []byte("unrelated"))
	key, err := ParsePublicKey(keyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig := &ocmf.Signature{SD: kebaSigSD}

	ok, err := Verify([]byte(kebaPayload), sig, key)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if ok {
		t.Error("Verify() = true with the wrong public key")
	}
}

func TestVerifyCurveMismatchIsError(t *testing.T) {
	// A secp192r1 key cannot satisfy the default secp256r1 method; that is
	// a setup error, not a failed verification.
	key, err := ParsePublicKey(compleoKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig := &ocmf.Signature{SD: kebaSigSD}

	_, err = Verify([]byte(kebaPayload), sig, key)
	if err == nil {
		t.Fatal("Verify() expected curve mismatch error")
	}
	if !ocmf.IsKind(err, ocmf.KindVerification) {
		t.Errorf("error kind = %v, want verification", err)
	}
}

func TestVerifyUnsupportedCurveIsError(t *testing.T) {
	key, err := ParsePublicKey(compleoKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig := &ocmf.Signature{SA: "ECDSA-secp192r1-SHA256", SD: kebaSigSD}

	_, err = Verify([]byte(kebaPayload), sig, key)
	if err == nil {
		t.Fatal("Verify() expected unsupported curve error")
	}
	if !ocmf.IsKind(err, ocmf.KindVerification) {
		t.Errorf("error kind = %v, want verification", err)
	}
}

// signWith produces a signature and matching key over payload for tests of
// the non-default curves and encodings.
func signWith(t *testing.T, curve elliptic.Curve, curveOID asn1.ObjectIdentifier, payload []byte) (sd []byte, keyHex string) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	digest := sha256.Sum256(payload)
	sd, err = ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatal(err)
	}

	byteLen := (curve.Params().BitSize + 7) / 8
	point := make([]byte, 1+2*byteLen)
	point[0] = 0x04
	priv.PublicKey.X.FillBytes(point[1 : 1+byteLen])
	priv.PublicKey.Y.FillBytes(point[1+byteLen:])

	var info spki
	info.Algorithm.Algorithm = idECPublicKey
	info.Algorithm.NamedCurve = curveOID
	info.PublicKey = asn1.BitString{Bytes: point, BitLength: 8 * len(point)}
	der, err := asn1.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	return sd, hex.EncodeToString(der)
}

func TestVerifyBrainpool(t *testing.T) {
	payload := []byte(`{"FV":"1.0","GS":"1","PG":"T1","IS":false,"RD":[]}`)
	sd, keyHex := signWith(t, brainpool.P256r1(), asn1.ObjectIdentifier{1, 3, 36, 3, 3, 2, 8, 1, 1, 7}, payload)

	key, err := ParsePublicKey(keyHex)
	if err != nil {
		t.Fatalf("ParsePublicKey(brainpool) error: %v", err)
	}
	if key.Curve.Name != "brainpool256r1" {
		t.Fatalf("Curve = %q, want brainpool256r1", key.Curve.Name)
	}

	sig := &ocmf.Signature{SA: "ECDSA-brainpool256r1-SHA256", SD: hex.EncodeToString(sd)}
	ok, err := Verify(payload, sig, key)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !ok {
		t.Error("Verify() = false for a freshly signed brainpool payload")
	}

	// The alias spelling resolves to the same curve.
	sig.SA = "ECDSA-brainpoolP256r1-SHA256"
	ok, err = Verify(payload, sig, key)
	if err != nil || !ok {
		t.Errorf("Verify() with alias spelling = %v, %v, want true, nil", ok, err)
	}
}

func TestVerifyBase64Encoding(t *testing.T) {
	payload := []byte(`{"FV":"1.0","GS":"1","PG":"T1","IS":false,"RD":[]}`)
	sd, keyHex := signWith(t, elliptic.P256(), asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}, payload)

	key, err := ParsePublicKey(keyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig := &ocmf.Signature{SE: ocmf.EncodingBase64, SD: base64.StdEncoding.EncodeToString(sd)}
	ok, err := Verify(payload, sig, key)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !ok {
		t.Error("Verify() = false with base64 signature encoding")
	}
}

func TestDecodeSignatureDataErrors(t *testing.T) {
	if _, err := DecodeSignatureData(&ocmf.Signature{SD: "zz"}); err == nil {
		t.Error("expected hex decoding error")
	} else if !ocmf.IsKind(err, ocmf.KindHexDecoding) {
		t.Errorf("error kind = %v, want hex decoding", err)
	}
	if _, err := DecodeSignatureData(&ocmf.Signature{SE: ocmf.EncodingBase64, SD: "!!"}); err == nil {
		t.Error("expected base64 decoding error")
	} else if !ocmf.IsKind(err, ocmf.KindBase64Decoding) {
		t.Errorf("error kind = %v, want base64 decoding", err)
	}
}

func TestCurveByName(t *testing.T) {
	for _, name := range []string{"secp192k1", "secp256k1", "secp192r1", "secp256r1", "secp384r1", "secp521r1", "brainpool256r1", "brainpool384r1"} {
		if _, ok := CurveByName(name); !ok {
			t.Errorf("CurveByName(%q) not found", name)
		}
	}
	if c, ok := CurveByName("brainpoolP384r1"); !ok || c.Name != "brainpool384r1" {
		t.Errorf("alias brainpoolP384r1 resolved to %v, %v", c, ok)
	}
	if _, ok := CurveByName("ed25519"); ok {
		t.Error("CurveByName accepted a non-OCMF curve")
	}
}
