// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package preset

import "testing"

func TestLoadBytes(t *testing.T) {
	data := []byte(`
SYNC_COMMITTEE_SIZE: 512
SLOTS_PER_EPOCH: 32
CONFIG_NAME: mainnet
`)
	values, err := LoadBytes(data)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	f, ok := values["SYNC_COMMITTEE_SIZE"].(float64)
	if !ok || f != 512 {
		t.Errorf("SYNC_COMMITTEE_SIZE = %v, want float64(512)", values["SYNC_COMMITTEE_SIZE"])
	}
	if values["CONFIG_NAME"] != "mainnet" {
		t.Errorf("CONFIG_NAME = %v, want mainnet", values["CONFIG_NAME"])
	}
}

func TestMerge(t *testing.T) {
	base := Values{"A": float64(1), "B": float64(2)}
	override := Values{"B": float64(3), "C": float64(4)}
	merged := base.Merge(override)
	if merged["A"] != float64(1) || merged["B"] != float64(3) || merged["C"] != float64(4) {
		t.Errorf("merged = %v, want A:1 B:3 C:4", merged)
	}
	if base["B"] != float64(2) {
		t.Error("Merge must not mutate its receiver")
	}
}
