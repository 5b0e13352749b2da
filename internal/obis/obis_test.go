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

package obis

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"with suffix", "01-00:B0.08.00*FF", "01-00:B0.08.00"},
		{"without suffix", "1-b:1.8.0", "1-b:1.8.0"},
		{"legacy with suffix", "1-0:1.8.0*198", "1-0:1.8.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.code); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsAccumulationRegister(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"01-00:B0.08.00*FF", true},
		{"01-00:B2.08.00*FF", true},
		{"01-00:B3.08.00", true},
		{"01-00:C0.08.00*1F", true},
		{"01-00:C3.08.00*FF", true},
		{"01-00:B4.08.00*FF", false}, // reserved range
		{"01-00:01.08.00*FF", false}, // standard IEC register
		{"01-00:00.08.06*FF", false},
		{"1-b:1.8.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsAccumulationRegister(tt.code); got != tt.want {
				t.Errorf("IsAccumulationRegister(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsTransactionRegister(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"01-00:B2.08.00*FF", true},
		{"01-00:B3.08.00*FF", true},
		{"01-00:C2.08.00", true},
		{"01-00:C3.08.00", true},
		{"01-00:B0.08.00*FF", false}, // life-of-device total
		{"01-00:B1.08.00*FF", false},
		{"01-00:C0.08.00*FF", false},
		{"01-00:C1.08.00*FF", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsTransactionRegister(tt.code); got != tt.want {
				t.Errorf("IsTransactionRegister(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsBillingRelevant(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"01-00:B2.08.00*FF", true},  // registry entry
		{"01-00:01.08.00*FF", true},  // standard IEC import total
		{"01-00:02.08.00", true},     // standard IEC export total
		{"1-b:1.8.0", true},          // legacy format
		{"01-00:00.08.06*FF", false}, // duration, not billable
		{"01-00:16.07.00", false},    // power
		{"1-b:9.9.9", false},         // unknown, no pattern match
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsBillingRelevant(tt.code); got != tt.want {
				t.Errorf("IsBillingRelevant(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantBase   string
		wantSuffix string
		wantErr    bool
	}{
		{"strict OCMF", "01-00:B2.08.00*FF", "01-00:B2.08.00", "FF", false},
		{"flexible legacy", "1-b:1.8.0", "1-b:1.8.0", "", false},
		{"flexible with suffix", "1-0:1.8.0*198", "1-0:1.8.0", "198", false},
		{"garbage", "not-an-obis", "", "", true},
		{"empty", "", "", "", true},
		{"missing group", "01-00:B2.08*FF", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Base != tt.wantBase || got.Suffix != tt.wantSuffix {
				t.Errorf("Parse(%q) = {%q %q}, want {%q %q}", tt.input, got.Base, got.Suffix, tt.wantBase, tt.wantSuffix)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup("01-00:B2.08.00*FF")
	if !ok {
		t.Fatal("expected registry entry for 01-00:B2.08.00")
	}
	if info.Category != CategoryImport {
		t.Errorf("Category = %q, want %q", info.Category, CategoryImport)
	}
	if !info.BillingRelevant {
		t.Error("expected billing-relevant entry")
	}

	if _, ok := Lookup("99-99:99.99.99"); ok {
		t.Error("unexpected registry entry for unknown code")
	}
}
