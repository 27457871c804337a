// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package chunkstore

import "fmt"

// Chunk is the fixed 32-byte unit of storage and hashing.
type Chunk [32]byte

// NewChunk copies b into a Chunk. b must be exactly 32 bytes.
func NewChunk(b []byte) (Chunk, error) {
	var c Chunk
	if len(b) != 32 {
		return c, fmt.Errorf("chunkstore: chunk must be exactly 32 bytes, got %d", len(b))
	}
	copy(c[:], b)
	return c, nil
}

// Bytes returns a copy of the chunk's 32 bytes.
func (c Chunk) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, c[:])
	return out
}
