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
	"errors"
	"fmt"
)

// Kind classifies an OCMF processing failure.
type Kind int

const (
	// KindFormat is a malformed three-part wire structure.
	KindFormat Kind = iota + 1
	// KindHexDecoding is a hex decode failure.
	KindHexDecoding
	// KindBase64Decoding is a base64 decode failure.
	KindBase64Decoding
	// KindPayload is a payload-section JSON or validation failure.
	KindPayload
	// KindSignature is a signature-section JSON or validation failure.
	KindSignature
	// KindValidation is a field or cross-field invariant violation.
	KindValidation
	// KindPublicKey is unparseable key material or a non-EC key.
	KindPublicKey
	// KindVerification means signature verification could not be attempted
	// (unsupported or mismatched algorithm/curve). A completed verification
	// that fails returns false, not this error.
	KindVerification
	// KindXML is a transparency-container parsing failure.
	KindXML
	// KindNotFound means no OCMF data was found in the given source.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindHexDecoding:
		return "hex decoding"
	case KindBase64Decoding:
		return "base64 decoding"
	case KindPayload:
		return "payload"
	case KindSignature:
		return "signature"
	case KindValidation:
		return "validation"
	case KindPublicKey:
		return "public key"
	case KindVerification:
		return "verification"
	case KindXML:
		return "xml"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is the structured error for all expected OCMF failure modes. Field
// names the offending JSON key (or key group like "GS/MS") when known.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s error [%s]: %s", e.Kind, e.Field, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an Error with a formatted message.
func newError(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// wrapError attaches a kind (and optionally a field) to an underlying cause.
func wrapError(kind Kind, field string, err error) *Error {
	return &Error{Kind: kind, Field: field, Err: err}
}

// IsKind reports whether err (or anything it wraps) is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	for {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
}

// NewError constructs a structured error. Exported for the sibling packages
// (crypto, transparency) that share the taxonomy.
func NewError(kind Kind, field, format string, args ...any) *Error {
	return newError(kind, field, format, args...)
}

// WrapError attaches kind and field to an underlying cause. Exported for the
// sibling packages that share the taxonomy.
func WrapError(kind Kind, field string, err error) *Error {
	return wrapError(kind, field, err)
}
