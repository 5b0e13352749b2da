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

package eichrecht

import (
	"fmt"

	"github.com/spf13/viper"
)

// Policy holds the configurable compliance decisions. OCMF revisions
// disagree on whether an ID mismatch between paired records is an error;
// some market rules additionally demand the meter serial (MS) even when a
// gateway serial is present. Both are policy, not format.
type Policy struct {
	IDMismatchSeverity Severity
	RequireMeterSerial bool
}

// DefaultPolicy follows the latest OCMF revision: ID mismatch is a warning
// and GS alone satisfies the serial requirement.
func DefaultPolicy() Policy {
	return Policy{
		IDMismatchSeverity: SeverityWarning,
		RequireMeterSerial: false,
	}
}

// LoadPolicy reads a policy file (YAML, TOML or JSON, decided by the
// extension). Missing keys keep their defaults.
func LoadPolicy(path string) (Policy, error) {
	v := viper.New()
	v.SetDefault("id_mismatch_severity", string(SeverityWarning))
	v.SetDefault("require_meter_serial", false)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}

	p := DefaultPolicy()
	switch s := v.GetString("id_mismatch_severity"); s {
	case string(SeverityWarning):
		p.IDMismatchSeverity = SeverityWarning
	case string(SeverityError):
		p.IDMismatchSeverity = SeverityError
	default:
		return Policy{}, fmt.Errorf("id_mismatch_severity must be %q or %q, got %q", SeverityWarning, SeverityError, s)
	}
	p.RequireMeterSerial = v.GetBool("require_meter_serial")
	return p, nil
}
