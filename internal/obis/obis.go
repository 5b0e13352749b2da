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

// Package obis classifies IEC 62056 OBIS meter register codes.
//
// OCMF v1.4.0+ reserves manufacturer-specific OBIS codes in the B/C range
// (Table 25) for billing-relevant accumulation registers. This package holds
// the static registry for those codes plus the common and legacy energy
// registers, and exposes the pattern fallbacks used when a code is not in
// the registry.
package obis

import (
	"fmt"
	"regexp"
	"strings"
)

// Category describes what an OBIS register measures.
type Category string

const (
	CategoryImport Category = "import"
	CategoryExport Category = "export"
	CategoryPower  Category = "power"
	CategoryOther  Category = "other"
)

// Info is the registry entry for a known OBIS code.
type Info struct {
	Code            string
	Description     string
	BillingRelevant bool
	Category        Category
}

var (
	// Strict OCMF format per spec Figure 1: zero-padded hex byte pairs with
	// a mandatory asterisk suffix, e.g. 01-0B:01.08.00*FF.
	strictPattern = regexp.MustCompile(`^[0-9A-F]{2}-[0-9A-F]{2}:[0-9A-F]{2}\.[0-9A-F]{2}\.[0-9A-F]{2}\*[0-9A-F]{2}$`)

	// Flexible IEC 62056-6-1/6-2 format, e.g. 1-b:1.8.0 or 1-0:1.8.0*198.
	flexiblePattern = regexp.MustCompile(`^[0-9A-Fa-f]{1,2}-[0-9A-Fa-f]{1,2}:[0-9A-Fa-f]{1,2}\.[0-9A-Fa-f]{1,2}\.[0-9A-Fa-f]{1,2}(\*[0-9A-Fa-f]{1,3})?$`)

	// Accumulation registers per Table 25: B0-B3 import, C0-C3 export.
	accumulationPattern = regexp.MustCompile(`^01-00:[BC][0-3]\.08\.00$`)

	// Transaction-scoped subset of the accumulation registers.
	transactionPattern = regexp.MustCompile(`^01-00:[BC][23]\.08\.00$`)

	// Standard IEC active energy import/export totals.
	legacyEnergyPattern = regexp.MustCompile(`^01-00:0[12]\.08\.00$`)
)

// registry maps normalized codes (no asterisk suffix) to their semantics.
// Built once at init, read-only afterwards.
var registry = map[string]Info{
	"01-00:B0.08.00": {"01-00:B0.08.00", "Total Import Mains Energy (energy at meter)", true, CategoryImport},
	"01-00:B1.08.00": {"01-00:B1.08.00", "Total Import Device Energy (energy at device/car)", true, CategoryImport},
	"01-00:B2.08.00": {"01-00:B2.08.00", "Transaction Import Mains Energy (session energy at meter)", true, CategoryImport},
	"01-00:B3.08.00": {"01-00:B3.08.00", "Transaction Import Device Energy (session energy at device)", true, CategoryImport},
	"01-00:C0.08.00": {"01-00:C0.08.00", "Total Export Mains Energy", true, CategoryExport},
	"01-00:C1.08.00": {"01-00:C1.08.00", "Total Export Device Energy", true, CategoryExport},
	"01-00:C2.08.00": {"01-00:C2.08.00", "Transaction Export Mains Energy", true, CategoryExport},
	"01-00:C3.08.00": {"01-00:C3.08.00", "Transaction Export Device Energy", true, CategoryExport},

	"01-00:00.08.06": {"01-00:00.08.06", "Charging duration (time-based)", false, CategoryOther},
	"01-00:01.08.00": {"01-00:01.08.00", "Active energy import (+A) total", true, CategoryImport},
	"01-00:02.08.00": {"01-00:02.08.00", "Active energy export (-A) total", true, CategoryExport},
	"01-00:16.07.00": {"01-00:16.07.00", "Sum active power (total)", false, CategoryPower},

	"1-b:1.8.0": {"1-b:1.8.0", "Active energy import (+A) - legacy format", true, CategoryImport},
	"1-b:2.8.0": {"1-b:2.8.0", "Active energy export (-A) - legacy format", true, CategoryExport},
}

// Normalize strips the asterisk suffix from an OBIS code.
func Normalize(code string) string {
	base, _, _ := strings.Cut(code, "*")
	return base
}

// Lookup returns the registry entry for a code, normalizing first.
func Lookup(code string) (Info, bool) {
	info, ok := registry[Normalize(code)]
	return info, ok
}

// IsAccumulationRegister reports whether the code names one of the Table 25
// accumulation registers (B0-B3, C0-C3).
func IsAccumulationRegister(code string) bool {
	return accumulationPattern.MatchString(Normalize(code))
}

// IsTransactionRegister reports whether the code names a transaction-scoped
// register (B2, B3, C2, C3) as opposed to a life-of-device total (B0, B1,
// C0, C1).
func IsTransactionRegister(code string) bool {
	return transactionPattern.MatchString(Normalize(code))
}

// IsBillingRelevant reports whether readings from this register may be used
// for invoicing. Registry lookup first, then the accumulation and standard
// IEC energy patterns as fallback for unknown codes.
func IsBillingRelevant(code string) bool {
	normalized := Normalize(code)
	if info, ok := registry[normalized]; ok {
		return info.BillingRelevant
	}
	if accumulationPattern.MatchString(normalized) {
		return true
	}
	return legacyEnergyPattern.MatchString(normalized)
}

// Code is a parsed OBIS code: the register identifier plus the optional
// asterisk suffix.
type Code struct {
	Base   string
	Suffix string
}

// Parse validates an OBIS code against the strict OCMF format or the
// flexible IEC 62056 format and splits off the asterisk suffix.
func Parse(s string) (Code, error) {
	if !strictPattern.MatchString(s) && !flexiblePattern.MatchString(s) {
		return Code{}, fmt.Errorf("invalid OBIS code %q", s)
	}
	base, suffix, _ := strings.Cut(s, "*")
	return Code{Base: base, Suffix: suffix}, nil
}

// String returns the wire representation, including the suffix if present.
func (c Code) String() string {
	if c.Suffix != "" {
		return c.Base + "*" + c.Suffix
	}
	return c.Base
}

// Info returns the registry entry for this code, if known.
func (c Code) Info() (Info, bool) { return Lookup(c.Base) }

// IsAccumulationRegister reports whether this is a Table 25 accumulation
// register.
func (c Code) IsAccumulationRegister() bool { return IsAccumulationRegister(c.Base) }

// IsTransactionRegister reports whether this is a transaction-scoped
// register.
func (c Code) IsTransactionRegister() bool { return IsTransactionRegister(c.Base) }

// IsBillingRelevant reports whether this register may be used for invoicing.
func (c Code) IsBillingRelevant() bool { return IsBillingRelevant(c.Base) }
