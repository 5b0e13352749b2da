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
	"regexp"
	"time"
)

// OCMF timestamps use a comma (not a period) before the milliseconds and
// carry a trailing synchronization flag: "2019-08-13T10:03:15,000+0000 S".
const timestampLayout = "2006-01-02T15:04:05,000-0700"

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2},\d{3}[+-]\d{4} [UISR]$`)

// Timestamp is an OCMF timestamp: a point in time plus its synchronization
// status. Immutable once parsed.
type Timestamp struct {
	Time   time.Time
	Status TimeStatus
}

// ParseTimestamp parses the OCMF wire representation.
func ParseTimestamp(s string) (Timestamp, error) {
	if !timestampPattern.MatchString(s) {
		return Timestamp{}, newError(KindValidation, "TM", "timestamp %q does not match OCMF format 'YYYY-MM-DDThh:mm:ss,mmm±zzzz F'", s)
	}
	t, err := time.Parse(timestampLayout, s[:len(s)-2])
	if err != nil {
		return Timestamp{}, wrapError(KindValidation, "TM", err)
	}
	return Timestamp{Time: t, Status: TimeStatus(s[len(s)-1:])}, nil
}

// String returns the exact wire representation.
func (t Timestamp) String() string {
	return t.Time.Format(timestampLayout) + " " + string(t.Status)
}

// Before reports whether t is strictly earlier than other.
func (t Timestamp) Before(other Timestamp) bool { return t.Time.Before(other.Time) }

// IsZero reports whether the timestamp is unset.
func (t Timestamp) IsZero() bool { return t.Time.IsZero() }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
