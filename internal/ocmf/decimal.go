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

import "github.com/shopspring/decimal"

// Decimal is an exact decimal number for meter values (RV, CL, LR).
// Billing values must not pass through float64; shopspring/decimal keeps
// the exact digits of the wire representation. Unlike the embedded type it
// marshals as a bare JSON number, matching the OCMF wire format.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal wraps a decimal.Decimal.
func NewDecimal(d decimal.Decimal) Decimal { return Decimal{d} }

// ParseDecimal parses a decimal from its string form.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{d}, nil
}

// MustDecimal parses a decimal and panics on malformed input. Test helper.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// Cmp compares d and other: -1 if d < other, 0 if equal, +1 if d > other.
func (d Decimal) Cmp(other Decimal) int { return d.Decimal.Cmp(other.Decimal) }

// IsNegative reports whether d < 0.
func (d Decimal) IsNegative() bool { return d.Decimal.IsNegative() }

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool { return d.Decimal.IsZero() }
