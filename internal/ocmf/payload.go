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
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var paginationPattern = regexp.MustCompile(`^[TF][1-9][0-9]*$`)

// Pagination is the PG token: transaction-scoped (T<n>) or fiscal-scoped
// (F<n>), n >= 1 with no leading zeros.
type Pagination string

// Context returns 'T' or 'F'.
func (p Pagination) Context() byte { return p[0] }

// Number returns the numeric part of the token.
func (p Pagination) Number() int {
	n, _ := strconv.Atoi(string(p[1:]))
	return n
}

// LossCompensation is the LC object: cable resistance parameters applied
// to compensate line losses.
type LossCompensation struct {
	LN string  `json:"LN,omitempty"` // naming, max 20 chars
	LI *int64  `json:"LI,omitempty"` // identification
	LR Decimal `json:"LR"`           // cable resistance
	LU Unit    `json:"LU"`           // resistance unit
}

// ExtraField is one vendor-extension key preserved verbatim for round-trip.
type ExtraField struct {
	Key   string
	Value json.RawMessage
}

// Payload is the middle OCMF section: session and device metadata plus the
// ordered reading sequence. Immutable once parsed.
type Payload struct {
	FV string // format version
	GI string // gateway identification
	GS string // gateway serial
	GV string // gateway version

	PG Pagination

	MV string // meter vendor
	MM string // meter model
	MS string // meter serial
	MF string // meter firmware

	IS bool                 // identification status
	IL AssignmentLevel      // identification level, "" when absent
	IF []IdentificationFlag // identification flags
	IT IdentificationType   // identification type, "" when absent (means NONE)
	ID string               // identification data
	TT string               // tariff text, max 250 chars

	CF string            // charge controller firmware, max 25 chars
	LC *LossCompensation // loss compensation

	CT string // charge point identification type
	CI string // charge point identification

	RD []Reading

	// Extra holds unknown payload keys (vendor extension ranges such as
	// U..Z) in input order, re-emitted verbatim on serialization.
	Extra []ExtraField
}

// EffectiveIT returns IT, defaulting to NONE when absent.
func (p *Payload) EffectiveIT() IdentificationType {
	if p.IT == "" {
		return ITNone
	}
	return p.IT
}

// SerialNumber returns the serial identifying the signing component:
// GS when present, MS otherwise.
func (p *Payload) SerialNumber() string {
	if p.GS != "" {
		return p.GS
	}
	return p.MS
}

type rawLossCompensation struct {
	LN *string          `json:"LN"`
	LI *json.RawMessage `json:"LI"`
	LR *json.RawMessage `json:"LR"`
	LU *string          `json:"LU"`
}

type rawPayload struct {
	FV json.RawMessage              `json:"FV"`
	GI *string                      `json:"GI"`
	GS *string                      `json:"GS"`
	GV *string                      `json:"GV"`
	PG *string                      `json:"PG"`
	MV *string                      `json:"MV"`
	MM *string                      `json:"MM"`
	MS *string                      `json:"MS"`
	MF *string                      `json:"MF"`
	IS *bool                        `json:"IS"`
	IL *string                      `json:"IL"`
	IF []string                     `json:"IF"`
	IT *string                      `json:"IT"`
	ID *string                      `json:"ID"`
	TT *string                      `json:"TT"`
	CF *string                      `json:"CF"`
	LC *rawLossCompensation         `json:"LC"`
	CT json.RawMessage              `json:"CT"`
	CI *string                      `json:"CI"`
	RD []map[string]json.RawMessage `json:"RD"`
}

var knownPayloadKeys = map[string]bool{
	"FV": true, "GI": true, "GS": true, "GV": true, "PG": true,
	"MV": true, "MM": true, "MS": true, "MF": true,
	"IS": true, "IL": true, "IF": true, "IT": true, "ID": true, "TT": true,
	"CF": true, "LC": true, "CT": true, "CI": true, "RD": true,
}

// ParsePayload parses and validates the payload JSON section. Validators run
// as an ordered pipeline (structural, field-level, cross-field, reading
// sequence); the first violated invariant is reported.
func ParsePayload(data []byte) (*Payload, error) {
	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, newError(KindValidation, typeErr.Field, "unexpected JSON type %s", typeErr.Value)
		}
		return nil, wrapError(KindValidation, "", err)
	}

	p := &Payload{}

	// FV may arrive as a JSON number from older firmware; coerce to string.
	if raw.FV != nil {
		fv, err := decodeFlexibleString(raw.FV)
		if err != nil {
			return nil, wrapError(KindValidation, "FV", err)
		}
		p.FV = fv
	}
	p.GI = deref(raw.GI)
	p.GS = deref(raw.GS)
	p.GV = deref(raw.GV)
	p.MV = deref(raw.MV)
	p.MM = deref(raw.MM)
	p.MS = deref(raw.MS)
	p.MF = deref(raw.MF)
	p.ID = deref(raw.ID)
	p.TT = deref(raw.TT)
	p.CF = deref(raw.CF)
	p.CI = deref(raw.CI)

	// PG: required pagination token.
	if raw.PG == nil {
		return nil, newError(KindValidation, "PG", "PG (Pagination) is required")
	}
	if !paginationPattern.MatchString(*raw.PG) {
		return nil, newError(KindValidation, "PG", "PG must be T<n> or F<n> with n >= 1 and no leading zero, got %q", *raw.PG)
	}
	p.PG = Pagination(*raw.PG)

	// IS: required identification status.
	if raw.IS == nil {
		return nil, newError(KindValidation, "IS", "IS (Identification Status) is required")
	}
	p.IS = *raw.IS

	// RD: required readings array.
	if raw.RD == nil {
		return nil, newError(KindValidation, "RD", "RD (Readings) is required")
	}

	if len(p.TT) > 250 {
		return nil, newError(KindValidation, "TT", "TT (Tariff Text) exceeds 250 characters")
	}
	if len(p.CF) > 25 {
		return nil, newError(KindValidation, "CF", "CF (Charge Controller Firmware) exceeds 25 characters")
	}

	// Either GS or MS must identify the signing component.
	if p.GS == "" && p.MS == "" {
		return nil, newError(KindValidation, "GS/MS", "either GS (Gateway Serial) or MS (Meter Serial) must be provided")
	}

	// IL: optional assignment level.
	if raw.IL != nil {
		if !AssignmentLevel(*raw.IL).Valid() {
			return nil, newError(KindValidation, "IL", "unknown identification level %q", *raw.IL)
		}
		p.IL = AssignmentLevel(*raw.IL)
	}

	// IF: flags must be known and must not mix method tables.
	if raw.IF != nil {
		flags := make([]IdentificationFlag, 0, len(raw.IF))
		for _, f := range raw.IF {
			flag := IdentificationFlag(f)
			if !flag.Valid() {
				return nil, newError(KindValidation, "IF", "unknown identification flag %q", f)
			}
			flags = append(flags, flag)
		}
		if err := validateFlagMixing(flags); err != nil {
			return nil, err
		}
		p.IF = flags
	}

	// IT and the ID format contract.
	if raw.IT != nil {
		if !IdentificationType(*raw.IT).Valid() {
			return nil, newError(KindValidation, "IT", "unknown identification type %q", *raw.IT)
		}
		p.IT = IdentificationType(*raw.IT)
	}
	if err := validateIdentificationData(p.EffectiveIT(), p.ID); err != nil {
		return nil, err
	}

	// CT: tolerate numbers and empty strings from vendor firmware.
	if raw.CT != nil {
		ct, err := decodeFlexibleString(raw.CT)
		if err != nil {
			return nil, wrapError(KindValidation, "CT", err)
		}
		if ct != "" && ct != "0" {
			p.CT = ct
		}
	}

	// LC: loss compensation block.
	if raw.LC != nil {
		lc, err := parseLossCompensation(raw.LC)
		if err != nil {
			return nil, err
		}
		p.LC = lc
	}

	// Readings: inheritance first, then per-reading validation.
	applyReadingInheritance(raw.RD)
	p.RD = make([]Reading, 0, len(raw.RD))
	for i, rd := range raw.RD {
		reading, err := parseReading(rd, i)
		if err != nil {
			return nil, err
		}
		p.RD = append(p.RD, reading)
	}

	// Transaction sequence state machine over RD.
	if err := validateTxSequence(p.RD); err != nil {
		return nil, err
	}

	extras, err := collectExtraFields(data)
	if err != nil {
		return nil, wrapError(KindValidation, "", err)
	}
	p.Extra = extras

	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// decodeFlexibleString accepts a JSON string or number and returns its
// string form.
func decodeFlexibleString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", string(raw))
	}
	return n.String(), nil
}

// validateFlagMixing enforces that IF flags come from a single method table,
// unless every flag is a *_NONE sentinel.
func validateFlagMixing(flags []IdentificationFlag) error {
	if len(flags) <= 1 {
		return nil
	}
	allNone := true
	for _, f := range flags {
		if !f.IsNone() {
			allNone = false
			break
		}
	}
	if allNone {
		return nil
	}
	categories := make(map[string]bool)
	for _, f := range flags {
		categories[f.Category()] = true
	}
	if len(categories) > 1 {
		names := make([]string, 0, len(categories))
		for c := range categories {
			names = append(names, c)
		}
		return newError(KindValidation, "IF", "IF (Identification Flags) cannot mix flags from different sources: %s", strings.Join(names, ", "))
	}
	return nil
}

// validateIdentificationData enforces the per-type ID format contract
// (OCMF Table 17).
func validateIdentificationData(it IdentificationType, id string) error {
	if it.IsNoAssignment() {
		if id != "" {
			return newError(KindValidation, "ID", "ID must be empty when IT=%s (no assignment type)", it)
		}
		return nil
	}
	if id == "" {
		return nil
	}
	if !it.matchesFormat(id) {
		return newError(KindValidation, "ID", "ID value %q does not match format for identification type %s", id, it)
	}
	return nil
}

func parseLossCompensation(raw *rawLossCompensation) (*LossCompensation, error) {
	lc := &LossCompensation{}
	if raw.LN != nil {
		if len(*raw.LN) > 20 {
			return nil, newError(KindValidation, "LC.LN", "LN (Loss Compensation Naming) exceeds 20 characters")
		}
		lc.LN = *raw.LN
	}
	if raw.LI != nil {
		var n int64
		if err := json.Unmarshal(*raw.LI, &n); err != nil {
			return nil, wrapError(KindValidation, "LC.LI", err)
		}
		lc.LI = &n
	}
	if raw.LR == nil {
		return nil, newError(KindValidation, "LC.LR", "LR (Loss Compensation Cable Resistance) is required")
	}
	lr, err := decodeDecimal(*raw.LR)
	if err != nil {
		return nil, wrapError(KindValidation, "LC.LR", err)
	}
	lc.LR = lr
	if raw.LU == nil {
		return nil, newError(KindValidation, "LC.LU", "LU (Loss Compensation Unit) is required")
	}
	if !Unit(*raw.LU).IsResistance() {
		return nil, newError(KindValidation, "LC.LU", "LU must be a resistance unit (mOhm or Ohm), got %q", *raw.LU)
	}
	lc.LU = Unit(*raw.LU)
	return lc, nil
}

// validateTxSequence runs the transaction state machine over RD.
//
// States: Mid (initial, no transaction observed), Begin, End.
// B enters Begin and is illegal from End; end reasons (E/L/R/A/P) enter End
// and are illegal from Mid; intermediate reasons (C/X/S/T) keep the state
// and are illegal from End. Single-reading payloads are exempt so that
// standalone begin/end records of a pair remain parseable.
func validateTxSequence(readings []Reading) error {
	if len(readings) < 2 {
		return nil
	}
	const (
		stateMid = iota
		stateBegin
		stateEnd
	)
	state := stateMid
	for i, r := range readings {
		field := fmt.Sprintf("RD[%d].TX", i)
		switch {
		case r.TX == "":
			continue
		case r.TX == TxBegin:
			if state == stateEnd {
				return newError(KindValidation, field, "TX=B (Begin) cannot appear after transaction end")
			}
			state = stateBegin
		case r.TX.IsEnd():
			if state == stateMid {
				return newError(KindValidation, field, "TX=%s (End) requires TX=B (Begin) first", r.TX)
			}
			state = stateEnd
		default: // C, X, S, T
			if state == stateEnd {
				return newError(KindValidation, field, "TX=%s cannot appear after transaction end", r.TX)
			}
		}
	}
	return nil
}

// collectExtraFields re-scans the payload JSON and captures unknown
// top-level keys, in input order, as raw values.
func collectExtraFields(data []byte) ([]ExtraField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}
	var extras []ExtraField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in payload object", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if !knownPayloadKeys[key] {
			extras = append(extras, ExtraField{Key: key, Value: value})
		}
	}
	return extras, nil
}

func (p *Payload) MarshalJSON() ([]byte, error) {
	wire := struct {
		FV string               `json:"FV,omitempty"`
		GI string               `json:"GI,omitempty"`
		GS string               `json:"GS,omitempty"`
		GV string               `json:"GV,omitempty"`
		PG string               `json:"PG"`
		MV string               `json:"MV,omitempty"`
		MM string               `json:"MM,omitempty"`
		MS string               `json:"MS,omitempty"`
		MF string               `json:"MF,omitempty"`
		IS bool                 `json:"IS"`
		IL string               `json:"IL,omitempty"`
		IF []IdentificationFlag `json:"IF,omitempty"`
		IT string               `json:"IT,omitempty"`
		ID string               `json:"ID,omitempty"`
		TT string               `json:"TT,omitempty"`
		CF string               `json:"CF,omitempty"`
		LC *LossCompensation    `json:"LC,omitempty"`
		CT string               `json:"CT,omitempty"`
		CI string               `json:"CI,omitempty"`
		RD []Reading            `json:"RD"`
	}{
		FV: p.FV, GI: p.GI, GS: p.GS, GV: p.GV,
		PG: string(p.PG),
		MV: p.MV, MM: p.MM, MS: p.MS, MF: p.MF,
		IS: p.IS,
		IL: string(p.IL), IF: p.IF, IT: string(p.IT), ID: p.ID, TT: p.TT,
		CF: p.CF, LC: p.LC,
		CT: p.CT, CI: p.CI,
		RD: p.RD,
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	return spliceExtraFields(b, p.Extra)
}

// spliceExtraFields appends preserved vendor-extension keys to a marshaled
// JSON object.
func spliceExtraFields(obj []byte, extras []ExtraField) ([]byte, error) {
	if len(extras) == 0 {
		return obj, nil
	}
	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1]) // drop closing brace
	for _, e := range extras {
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(e.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
