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

// Package format routes raw CLI input: it reads record material from files,
// stdin or arguments and detects what kind of container it is.
package format

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

type InputFormat string

const (
	// FormatOCMF is a plain pipe-delimited record.
	FormatOCMF InputFormat = "ocmf"
	// FormatHexOCMF is a record hex-encoded as a whole.
	FormatHexOCMF InputFormat = "hex-ocmf"
	// FormatXML is a transparency-software XML container.
	FormatXML     InputFormat = "xml"
	FormatUnknown InputFormat = "unknown"
)

// Detect auto-detects the input format.
//
// Detection order:
//  1. Plain record ("OCMF|" prefix)
//  2. XML container ("<" prefix)
//  3. Hex blob that decodes to a plain record
func Detect(input string) InputFormat {
	input = strings.TrimSpace(input)
	if input == "" {
		return FormatUnknown
	}

	if strings.HasPrefix(input, "OCMF|") {
		return FormatOCMF
	}
	if strings.HasPrefix(input, "<") {
		return FormatXML
	}

	if isHex(input) {
		b, err := hex.DecodeString(input)
		if err == nil && utf8.Valid(b) && strings.HasPrefix(strings.TrimSpace(string(b)), "OCMF|") {
			return FormatHexOCMF
		}
	}

	return FormatUnknown
}

func isHex(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
