// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package preset loads named spec values (the mainnet/minimal-style
// constants a chain config defines, e.g. SYNC_COMMITTEE_SIZE) from YAML
// documents, for use as the evaluation context of overlay derive-time size
// expressions.
package preset

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Values is a flat name -> value map suitable as a govaluate evaluation
// context. YAML integers decode as int, which govaluate does not accept
// directly; LoadBytes normalizes every numeric value to float64 so
// expressions like "SYNC_COMMITTEE_SIZE*2" evaluate correctly.
type Values map[string]any

// LoadFile reads and parses a preset YAML file from disk.
func LoadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes parses preset YAML content already in memory.
func LoadBytes(data []byte) (Values, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	values := make(Values, len(raw))
	for k, v := range raw {
		values[k] = normalize(v)
	}
	return values, nil
}

func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return v
	}
}

// Merge overlays other on top of v, returning a new Values with other's
// entries taking precedence. Neither input is mutated.
func (v Values) Merge(other Values) Values {
	out := make(Values, len(v)+len(other))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range other {
		out[k] = val
	}
	return out
}
