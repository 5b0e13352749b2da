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
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/paul-ww/ocmf-go/internal/obis"
)

// errorFlagsPattern: empty or any combination of 'E' (error) and 't'
// (tariff change during reading).
var errorFlagsPattern = regexp.MustCompile(`^[Et]*$`)

// Reading is one meter sample within a payload's RD sequence. Immutable
// once built by the payload parser.
type Reading struct {
	TM Timestamp     // time of reading, required
	TX ReadingReason // transaction context, "" when absent
	RV *Decimal      // reading value
	RI *obis.Code    // reading identification (OBIS code)
	RU Unit          // reading unit, "" when absent
	RT CurrentType   // AC/DC, "" when absent
	CL *Decimal      // cumulated cable loss
	EF string        // error flags, subset of {E, t}
	ST MeterStatus   // meter status, required
}

func (r Reading) MarshalJSON() ([]byte, error) {
	var ri string
	if r.RI != nil {
		ri = r.RI.String()
	}
	return json.Marshal(struct {
		TM string   `json:"TM"`
		TX string   `json:"TX,omitempty"`
		RV *Decimal `json:"RV,omitempty"`
		RI string   `json:"RI,omitempty"`
		RU string   `json:"RU,omitempty"`
		RT string   `json:"RT,omitempty"`
		CL *Decimal `json:"CL,omitempty"`
		EF string   `json:"EF,omitempty"`
		ST string   `json:"ST"`
	}{
		TM: r.TM.String(),
		TX: string(r.TX),
		RV: r.RV,
		RI: ri,
		RU: string(r.RU),
		RT: string(r.RT),
		CL: r.CL,
		EF: r.EF,
		ST: string(r.ST),
	})
}

// inheritableFields may be carried over from the previous reading when a
// reading omits them (OCMF reading inheritance).
var inheritableFields = []string{"TM", "TX", "RI", "RU", "RT", "EF", "ST"}

// applyReadingInheritance fills omitted inheritable fields from the
// preceding reading, in place.
func applyReadingInheritance(readings []map[string]json.RawMessage) {
	last := make(map[string]json.RawMessage)
	for _, rd := range readings {
		for _, field := range inheritableFields {
			if _, ok := rd[field]; ok {
				last[field] = rd[field]
				continue
			}
			if v, ok := last[field]; ok {
				rd[field] = v
			}
		}
	}
}

// parseReading builds and validates one reading. idx is its position in RD,
// used only for error context. The checks run as an ordered pipeline and the
// first violation is returned.
func parseReading(raw map[string]json.RawMessage, idx int) (Reading, error) {
	field := func(name string) string { return fmt.Sprintf("RD[%d].%s", idx, name) }
	var r Reading

	// TM: required timestamp.
	tm, ok := raw["TM"]
	if !ok {
		return r, newError(KindValidation, field("TM"), "TM (Time) is required")
	}
	var tmStr string
	if err := json.Unmarshal(tm, &tmStr); err != nil {
		return r, wrapError(KindValidation, field("TM"), err)
	}
	ts, err := ParseTimestamp(tmStr)
	if err != nil {
		return r, wrapError(KindValidation, field("TM"), err)
	}
	r.TM = ts

	// TX: optional reason code.
	if tx, ok := raw["TX"]; ok {
		var s string
		if err := json.Unmarshal(tx, &s); err != nil {
			return r, wrapError(KindValidation, field("TX"), err)
		}
		if !ReadingReason(s).Valid() {
			return r, newError(KindValidation, field("TX"), "unknown transaction reason %q", s)
		}
		r.TX = ReadingReason(s)
	}

	// RV: optional decimal value.
	if rv, ok := raw["RV"]; ok {
		d, err := decodeDecimal(rv)
		if err != nil {
			return r, wrapError(KindValidation, field("RV"), err)
		}
		r.RV = &d
	}

	// RI: optional OBIS code.
	if ri, ok := raw["RI"]; ok {
		var s string
		if err := json.Unmarshal(ri, &s); err != nil {
			return r, wrapError(KindValidation, field("RI"), err)
		}
		code, err := obis.Parse(s)
		if err != nil {
			return r, wrapError(KindValidation, field("RI"), err)
		}
		r.RI = &code
	}

	// RU: unit, conditional (see group check below).
	if ru, ok := raw["RU"]; ok {
		var s string
		if err := json.Unmarshal(ru, &s); err != nil {
			return r, wrapError(KindValidation, field("RU"), err)
		}
		if !Unit(s).Valid() {
			return r, newError(KindValidation, field("RU"), "unknown unit %q", s)
		}
		r.RU = Unit(s)
	}

	// RT: optional current type.
	if rt, ok := raw["RT"]; ok {
		var s string
		if err := json.Unmarshal(rt, &s); err != nil {
			return r, wrapError(KindValidation, field("RT"), err)
		}
		if !CurrentType(s).Valid() {
			return r, newError(KindValidation, field("RT"), "RT must be AC or DC, got %q", s)
		}
		r.RT = CurrentType(s)
	}

	// CL: optional cumulated loss.
	if cl, ok := raw["CL"]; ok {
		d, err := decodeDecimal(cl)
		if err != nil {
			return r, wrapError(KindValidation, field("CL"), err)
		}
		r.CL = &d
	}

	// EF: error flags string.
	if ef, ok := raw["EF"]; ok {
		var s string
		if err := json.Unmarshal(ef, &s); err != nil {
			return r, wrapError(KindValidation, field("EF"), err)
		}
		if !errorFlagsPattern.MatchString(s) {
			return r, newError(KindValidation, field("EF"), "EF may only contain 'E' and 't' flags, got %q", s)
		}
		r.EF = s
	}

	// ST: required meter status.
	st, ok := raw["ST"]
	if !ok {
		return r, newError(KindValidation, field("ST"), "ST (Status) is required")
	}
	var stStr string
	if err := json.Unmarshal(st, &stStr); err != nil {
		return r, wrapError(KindValidation, field("ST"), err)
	}
	if !MeterStatus(stStr).Valid() {
		return r, newError(KindValidation, field("ST"), "unknown meter status %q", stStr)
	}
	r.ST = MeterStatus(stStr)

	// RI and RU form a group: both present or both absent.
	if (r.RI != nil) != (r.RU != "") {
		return r, newError(KindValidation, field("RI"), "RI (Reading Identification) and RU (Reading Unit) must both be present or both absent")
	}

	// CL invariants: accumulation register only, zero at begin, never negative.
	if r.CL != nil {
		if r.RI == nil || !r.RI.IsAccumulationRegister() {
			return r, newError(KindValidation, field("CL"), "CL (Cumulated Loss) can only appear when RI indicates an accumulation register (B0-B3, C0-C3)")
		}
		if r.TX == TxBegin && !r.CL.IsZero() {
			return r, newError(KindValidation, field("CL"), "CL (Cumulated Loss) must be 0 when TX=B (transaction begin), got %s", r.CL)
		}
		if r.CL.IsNegative() {
			return r, newError(KindValidation, field("CL"), "CL (Cumulated Loss) must be non-negative, got %s", r.CL)
		}
	}

	return r, nil
}

// decodeDecimal accepts a JSON number or a quoted decimal string.
func decodeDecimal(raw json.RawMessage) (Decimal, error) {
	s := string(raw)
	if len(s) > 1 && s[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return Decimal{}, err
		}
	}
	return ParseDecimal(s)
}
