// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

//go:build fasthash

package chunkstore

import hashtree "github.com/pk910/hashtree-bindings"

// init swaps DefaultHashFn for the SIMD-accelerated hashtree binding when
// the module is built with -tags fasthash, the same opt-in dynamic-ssz
// reserves for its cgo-backed FastHasherPool. Disabled by default since it
// pulls in a binding library whose batch-hashing entry point is tuned for
// many pairs at once, not this store's one-pair-at-a-time fallback path.
func init() {
	DefaultHashFn = func(left, right Chunk) Chunk {
		chunks := [][32]byte{[32]byte(left), [32]byte(right)}
		digests := make([][32]byte, 1)
		hashtree.Hash(digests, chunks)
		return Chunk(digests[0])
	}
}
