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

import (
	"encoding/hex"
	"strings"
	"testing"
)

// kebaRecord is a real record produced by a KEBA KCP30 wallbox.
const kebaRecord = `OCMF|{"FV":"1.0","GI":"KEBA_KCP30","GS":"17619300","GV":"2.8.5","PG":"T32","IS":false,"IL":"NONE","IF":["RFID_NONE","OCPP_NONE","ISO15118_NONE","PLMN_NONE"],"IT":"NONE","ID":"","RD":[{"TM":"2019-08-13T10:03:15,000+0000 I","TX":"B","EF":"","ST":"G","RV":0.2596,"RI":"1-b:1.8.0","RU":"kWh"},{"TM":"2019-08-13T10:03:36,000+0000 R","TX":"E","EF":"","ST":"G","RV":0.2597,"RI":"1-b:1.8.0","RU":"kWh"}]}|{"SD":"304502200E2F107C987A300AC1695CA89EA149A8CDFA16188AF0A33EE64B67964AA943F9022100889A72B6D65364BEA8562E7F6A0253157ACFF84FE4929A93B5964D23C4265699"}`

func TestParseKebaRecord(t *testing.T) {
	rec, err := Parse(kebaRecord)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	p := rec.Payload
	if p.GI != "KEBA_KCP30" {
		t.Errorf("GI = %q, want KEBA_KCP30", p.GI)
	}
	if p.GS != "17619300" {
		t.Errorf("GS = %q, want 17619300", p.GS)
	}
	if string(p.PG) != "T32" {
		t.Errorf("PG = %q, want T32", p.PG)
	}
	if p.IS {
		t.Error("IS = true, want false")
	}
	if len(p.RD) != 2 {
		t.Fatalf("len(RD) = %d, want 2", len(p.RD))
	}
	if p.RD[0].TX != TxBegin || p.RD[1].TX != TxEnd {
		t.Errorf("TX sequence = %q, %q, want B, E", p.RD[0].TX, p.RD[1].TX)
	}
	if p.RD[0].RV == nil || p.RD[0].RV.String() != "0.2596" {
		t.Errorf("RD[0].RV = %v, want 0.2596", p.RD[0].RV)
	}
	if p.RD[1].TM.Status != TimeRelative {
		t.Errorf("RD[1].TM.Status = %q, want R", p.RD[1].TM.Status)
	}
	if rec.Signature.SD == "" {
		t.Error("Signature.SD is empty")
	}
	if rec.Signature.Method() != DefaultSignatureMethod {
		t.Errorf("Method() = %q, want default %q", rec.Signature.Method(), DefaultSignatureMethod)
	}
	if rec.Signature.Encoding() != EncodingHex {
		t.Errorf("Encoding() = %q, want hex", rec.Signature.Encoding())
	}
}

func TestParseRetainsRawPayload(t *testing.T) {
	rec, err := Parse(kebaRecord)
	if err != nil {
		t.Fatal(err)
	}
	wantRaw := strings.SplitN(kebaRecord, "|", 3)[1]
	if string(rec.RawPayload()) != wantRaw {
		t.Errorf("RawPayload() does not match the wire payload section")
	}
}

func TestParseHexEncodedRecord(t *testing.T) {
	encoded := hex.EncodeToString([]byte(kebaRecord))
	rec, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse(hex) unexpected error: %v", err)
	}
	if rec.Payload.GI != "KEBA_KCP30" {
		t.Errorf("GI = %q, want KEBA_KCP30", rec.Payload.GI)
	}
	// Uppercase hex must decode too.
	if _, err := Parse(strings.ToUpper(encoded)); err != nil {
		t.Errorf("Parse(upper hex) unexpected error: %v", err)
	}
}

func TestParseWhitespaceTolerance(t *testing.T) {
	if _, err := Parse("  " + kebaRecord + "\n"); err != nil {
		t.Errorf("Parse() with surrounding whitespace failed: %v", err)
	}
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
	}{
		{name: "empty", input: "", kind: KindFormat},
		{name: "whitespace only", input: "   ", kind: KindFormat},
		{name: "wrong header", input: "XXXX|{}|{}", kind: KindFormat},
		{name: "two sections", input: "OCMF|{}", kind: KindFormat},
		{name: "payload not json", input: "OCMF|not-json|{}", kind: KindPayload},
		{name: "signature not json", input: minimalRecordWithSig("not-json"), kind: KindSignature},
		{name: "signature missing SD", input: minimalRecordWithSig("{}"), kind: KindSignature},
		{name: "odd length hex blob", input: "ABC", kind: KindFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			if !IsKind(err, tt.kind) {
				t.Errorf("Parse(%q) error = %v, want kind %v", tt.input, err, tt.kind)
			}
		})
	}
}

func minimalRecordWithSig(sig string) string {
	return "OCMF|" + minimalPayload("[]") + "|" + sig
}

func TestSerializeRoundTrip(t *testing.T) {
	rec, err := Parse(kebaRecord)
	if err != nil {
		t.Fatal(err)
	}
	out, err := rec.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse of serialized record failed: %v\n%s", err, out)
	}

	a, b := rec.Payload, again.Payload
	if a.GI != b.GI || a.GS != b.GS || a.PG != b.PG || a.IS != b.IS {
		t.Errorf("payload metadata changed on round-trip")
	}
	if len(a.RD) != len(b.RD) {
		t.Fatalf("len(RD) changed: %d vs %d", len(a.RD), len(b.RD))
	}
	for i := range a.RD {
		ra, rb := a.RD[i], b.RD[i]
		if ra.TM.String() != rb.TM.String() || ra.TX != rb.TX || ra.ST != rb.ST {
			t.Errorf("RD[%d] changed on round-trip: %+v vs %+v", i, ra, rb)
		}
		if (ra.RV == nil) != (rb.RV == nil) || (ra.RV != nil && ra.RV.Cmp(*rb.RV) != 0) {
			t.Errorf("RD[%d].RV changed on round-trip", i)
		}
	}
	if rec.Signature.SD != again.Signature.SD {
		t.Errorf("signature data changed on round-trip")
	}
}

func TestSerializeHex(t *testing.T) {
	rec, err := Parse(kebaRecord)
	if err != nil {
		t.Fatal(err)
	}
	out, err := rec.Serialize(true)
	if err != nil {
		t.Fatalf("Serialize(hex) error: %v", err)
	}
	if strings.Contains(out, "|") {
		t.Error("hex serialization contains raw separator")
	}
	if _, err := Parse(out); err != nil {
		t.Errorf("reparse of hex serialization failed: %v", err)
	}
}
