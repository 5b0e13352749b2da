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
	"regexp"
	"strings"
)

// MeterStatus is the meter state at the time of a reading (ST field).
type MeterStatus string

const (
	StatusNotPresent   MeterStatus = "N"
	StatusOK           MeterStatus = "G"
	StatusTimeout      MeterStatus = "T"
	StatusDisconnected MeterStatus = "D"
	StatusNotFound     MeterStatus = "R"
	StatusManipulated  MeterStatus = "M"
	StatusExchanged    MeterStatus = "X"
	StatusIncompatible MeterStatus = "I"
	StatusOutOfRange   MeterStatus = "O"
	StatusSubstitute   MeterStatus = "S"
	StatusOtherError   MeterStatus = "E"
	StatusReadError    MeterStatus = "F"
)

var meterStatuses = map[MeterStatus]bool{
	StatusNotPresent: true, StatusOK: true, StatusTimeout: true,
	StatusDisconnected: true, StatusNotFound: true, StatusManipulated: true,
	StatusExchanged: true, StatusIncompatible: true, StatusOutOfRange: true,
	StatusSubstitute: true, StatusOtherError: true, StatusReadError: true,
}

// Valid reports whether s is a known ST code.
func (s MeterStatus) Valid() bool { return meterStatuses[s] }

// TimeStatus is the synchronization state of a timestamp.
type TimeStatus string

const (
	TimeUnsynchronized TimeStatus = "U"
	TimeInformative    TimeStatus = "I"
	TimeSynchronized   TimeStatus = "S"
	TimeRelative       TimeStatus = "R"
)

// Valid reports whether s is a known time status flag.
func (s TimeStatus) Valid() bool {
	switch s {
	case TimeUnsynchronized, TimeInformative, TimeSynchronized, TimeRelative:
		return true
	}
	return false
}

// ReadingReason is the transaction context of a reading (TX field).
type ReadingReason string

const (
	TxBegin             ReadingReason = "B"
	TxCharging          ReadingReason = "C"
	TxException         ReadingReason = "X"
	TxEnd               ReadingReason = "E"
	TxTerminationLocal  ReadingReason = "L"
	TxTerminationRemote ReadingReason = "R"
	TxTerminationAbort  ReadingReason = "A"
	TxTerminationPower  ReadingReason = "P"
	TxSuspended         ReadingReason = "S"
	TxTariffChange      ReadingReason = "T"
)

var readingReasons = map[ReadingReason]bool{
	TxBegin: true, TxCharging: true, TxException: true, TxEnd: true,
	TxTerminationLocal: true, TxTerminationRemote: true,
	TxTerminationAbort: true, TxTerminationPower: true,
	TxSuspended: true, TxTariffChange: true,
}

// Valid reports whether r is a known TX code.
func (r ReadingReason) Valid() bool { return readingReasons[r] }

// IsEnd reports whether r terminates a transaction (E/L/R/A/P).
func (r ReadingReason) IsEnd() bool {
	switch r {
	case TxEnd, TxTerminationLocal, TxTerminationRemote, TxTerminationAbort, TxTerminationPower:
		return true
	}
	return false
}

// CurrentType is the AC/DC designation of a reading (RT field).
type CurrentType string

const (
	CurrentAC CurrentType = "AC"
	CurrentDC CurrentType = "DC"
)

// Valid reports whether c is AC or DC.
func (c CurrentType) Valid() bool { return c == CurrentAC || c == CurrentDC }

// Unit is a measurement unit for reading values (RU field).
type Unit string

const (
	UnitKWh  Unit = "kWh"
	UnitWh   Unit = "Wh"
	UnitMOhm Unit = "mOhm"
	UnitOhm  Unit = "Ohm"
	UnitSec  Unit = "sec"
	UnitMin  Unit = "min"
	UnitHour Unit = "h"
)

var units = map[Unit]bool{
	UnitKWh: true, UnitWh: true, UnitMOhm: true, UnitOhm: true,
	UnitSec: true, UnitMin: true, UnitHour: true,
}

// Valid reports whether u is a known OCMF unit.
func (u Unit) Valid() bool { return units[u] }

// IsResistance reports whether u is a resistance unit (the only units legal
// for loss compensation).
func (u Unit) IsResistance() bool { return u == UnitMOhm || u == UnitOhm }

// AssignmentLevel is the security level of the user assignment (IL field).
type AssignmentLevel string

const (
	LevelNone      AssignmentLevel = "NONE"
	LevelHearsay   AssignmentLevel = "HEARSAY"
	LevelTrusted   AssignmentLevel = "TRUSTED"
	LevelVerified  AssignmentLevel = "VERIFIED"
	LevelCertified AssignmentLevel = "CERTIFIED"
	LevelSecure    AssignmentLevel = "SECURE"
	LevelMismatch  AssignmentLevel = "MISMATCH"
	LevelInvalid   AssignmentLevel = "INVALID"
	LevelOutdated  AssignmentLevel = "OUTDATED"
	LevelUnknown   AssignmentLevel = "UNKNOWN"
)

var assignmentLevels = map[AssignmentLevel]bool{
	LevelNone: true, LevelHearsay: true, LevelTrusted: true,
	LevelVerified: true, LevelCertified: true, LevelSecure: true,
	LevelMismatch: true, LevelInvalid: true, LevelOutdated: true,
	LevelUnknown: true,
}

// Valid reports whether l is a known IL value.
func (l AssignmentLevel) Valid() bool { return assignmentLevels[l] }

// IsErrorState reports whether l indicates a failed or unverifiable user
// assignment, which disqualifies the record for billing.
func (l AssignmentLevel) IsErrorState() bool {
	switch l {
	case LevelMismatch, LevelInvalid, LevelOutdated, LevelUnknown:
		return true
	}
	return false
}

// IdentificationFlag is one entry of the IF array. Flags come from four
// method tables (RFID, OCPP, ISO 15118, PLMN) which must not be mixed.
type IdentificationFlag string

// flagCategories maps each known flag to its source table.
var flagCategories = map[IdentificationFlag]string{
	"RFID_NONE":      "RFID",
	"RFID_PLAIN":     "RFID",
	"RFID_RELATED":   "RFID",
	"RFID_PSK":       "RFID",
	"OCPP_NONE":      "OCPP",
	"OCPP_RS":        "OCPP",
	"OCPP_AUTH":      "OCPP",
	"OCPP_RS_TLS":    "OCPP",
	"OCPP_AUTH_TLS":  "OCPP",
	"OCPP_CACHE":     "OCPP",
	"OCPP_WHITELIST": "OCPP",
	"OCPP_CERTIFIED": "OCPP",
	"ISO15118_NONE":  "ISO15118",
	"ISO15118_PNC":   "ISO15118",
	"PLMN_NONE":      "PLMN",
	"PLMN_RING":      "PLMN",
	"PLMN_SMS":       "PLMN",
}

// Valid reports whether f is a known identification flag.
func (f IdentificationFlag) Valid() bool { _, ok := flagCategories[f]; return ok }

// Category returns the flag's source table name.
func (f IdentificationFlag) Category() string { return flagCategories[f] }

// IsNone reports whether f is a *_NONE sentinel, which may be mixed with
// flags from any table.
func (f IdentificationFlag) IsNone() bool { return strings.HasSuffix(string(f), "_NONE") }

// IdentificationType is the kind of user credential (IT field).
type IdentificationType string

const (
	ITNone        IdentificationType = "NONE"
	ITDenied      IdentificationType = "DENIED"
	ITUndefined   IdentificationType = "UNDEFINED"
	ITISO14443    IdentificationType = "ISO14443"
	ITISO15693    IdentificationType = "ISO15693"
	ITEMAID       IdentificationType = "EMAID"
	ITEVCCID      IdentificationType = "EVCCID"
	ITEVCOID      IdentificationType = "EVCOID"
	ITISO7812     IdentificationType = "ISO7812"
	ITCardTxnNr   IdentificationType = "CARD_TXN_NR"
	ITCentral     IdentificationType = "CENTRAL"
	ITCentral1    IdentificationType = "CENTRAL_1"
	ITCentral2    IdentificationType = "CENTRAL_2"
	ITLocal       IdentificationType = "LOCAL"
	ITLocal1      IdentificationType = "LOCAL_1"
	ITLocal2      IdentificationType = "LOCAL_2"
	ITPhoneNumber IdentificationType = "PHONE_NUMBER"
	ITKeyCode     IdentificationType = "KEY_CODE"
)

var identificationTypes = map[IdentificationType]bool{
	ITNone: true, ITDenied: true, ITUndefined: true, ITISO14443: true,
	ITISO15693: true, ITEMAID: true, ITEVCCID: true, ITEVCOID: true,
	ITISO7812: true, ITCardTxnNr: true, ITCentral: true, ITCentral1: true,
	ITCentral2: true, ITLocal: true, ITLocal1: true, ITLocal2: true,
	ITPhoneNumber: true, ITKeyCode: true,
}

// Valid reports whether t is a known IT value.
func (t IdentificationType) Valid() bool { return identificationTypes[t] }

// IsNoAssignment reports whether t forbids an ID value (NONE, DENIED,
// UNDEFINED).
func (t IdentificationType) IsNoAssignment() bool {
	return t == ITNone || t == ITDenied || t == ITUndefined
}

// ID format contracts per identification type (OCMF Table 17). Types missing
// here have no format defined and accept any string.
var (
	iso14443Pattern = regexp.MustCompile(`^[0-9a-fA-F]{8}$|^[0-9a-fA-F]{14}$`)
	iso15693Pattern = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)
	emaidPattern    = regexp.MustCompile(`^[A-Za-z0-9]{14,15}$`)
	evcoidPattern   = regexp.MustCompile(`^[A-Z]{2,3}-[A-Z0-9]{2,3}-[0-9]{6}-[0-9]$`)
	iso7812Pattern  = regexp.MustCompile(`^[0-9]{8,19}$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9][0-9]{4,14}$`) // E.164-style
)

// matchesFormat reports whether id satisfies the format contract for t.
// Returns true for types without a defined format.
func (t IdentificationType) matchesFormat(id string) bool {
	switch t {
	case ITISO14443:
		return iso14443Pattern.MatchString(id)
	case ITISO15693:
		return iso15693Pattern.MatchString(id)
	case ITEMAID:
		return emaidPattern.MatchString(id)
	case ITEVCCID:
		return len(id) <= 6
	case ITEVCOID:
		return evcoidPattern.MatchString(id)
	case ITISO7812:
		return iso7812Pattern.MatchString(id)
	case ITPhoneNumber:
		return phonePattern.MatchString(id)
	default:
		return true
	}
}

// ChargePointType is the charge point identification scheme (CT field).
// EVSEID and CBIDC are the spec-defined values; vendors ship other strings,
// which are passed through.
type ChargePointType string

const (
	CTEVSEID ChargePointType = "EVSEID"
	CTCBIDC  ChargePointType = "CBIDC"
)

// SignatureMethod is the SA field: ECDSA-<curve>-<hash>.
type SignatureMethod string

// DefaultSignatureMethod applies when SA is absent.
const DefaultSignatureMethod SignatureMethod = "ECDSA-secp256r1-SHA256"

var signatureMethods = map[SignatureMethod]bool{
	"ECDSA-secp192k1-SHA256":        true,
	"ECDSA-secp256k1-SHA256":        true,
	"ECDSA-secp192r1-SHA256":        true,
	"ECDSA-secp256r1-SHA256":        true,
	"ECDSA-brainpool256r1-SHA256":   true,
	"ECDSA-brainpoolP256r1-SHA256":  true,
	"ECDSA-secp384r1-SHA256":        true,
	"ECDSA-brainpool384r1-SHA256":   true,
	"ECDSA-secp521r1-SHA256":        true,
	"ECDSA-secp192k1-SHA512":        true,
	"ECDSA-secp256k1-SHA512":        true,
	"ECDSA-secp192r1-SHA512":        true,
	"ECDSA-secp256r1-SHA512":        true,
	"ECDSA-brainpool256r1-SHA512":   true,
	"ECDSA-brainpoolP256r1-SHA512":  true,
	"ECDSA-secp384r1-SHA512":        true,
	"ECDSA-brainpool384r1-SHA512":   true,
	"ECDSA-secp521r1-SHA512":        true,
}

// Valid reports whether m is a spec-defined signature method.
func (m SignatureMethod) Valid() bool { return signatureMethods[m] }

// CurveName returns the <curve> component of the method name.
func (m SignatureMethod) CurveName() string {
	parts := strings.Split(string(m), "-")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// HashName returns the <hash> component of the method name.
func (m SignatureMethod) HashName() string {
	parts := strings.Split(string(m), "-")
	if len(parts) != 3 {
		return ""
	}
	return parts[2]
}

// SignatureEncoding is the SE field: how SD (and an embedded PK) are encoded.
type SignatureEncoding string

const (
	EncodingHex    SignatureEncoding = "hex"
	EncodingBase64 SignatureEncoding = "base64"
)

// Valid reports whether e is a known signature encoding.
func (e SignatureEncoding) Valid() bool { return e == EncodingHex || e == EncodingBase64 }

// DefaultSignatureMimeType applies when SM is absent.
const DefaultSignatureMimeType = "application/x-der"
