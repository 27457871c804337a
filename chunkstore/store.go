// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package chunkstore holds the sparse index-to-chunk mapping and the
// hashing operations (fill, refresh, validate) that keep it internally
// consistent with the SHA-256 pairing rule H(a||b) = SHA-256(a||b).
//
// It performs no path resolution of its own; that is the overlay
// package's job. chunkstore only ever sees raw tree indices.
package chunkstore

import (
	"fmt"
	"sort"

	"github.com/pk910/sszproof/treeindex"
)

// ChunkNotLoadedError is returned whenever an operation needs a chunk the
// store does not currently hold.
type ChunkNotLoadedError struct {
	Index uint64
}

func (e *ChunkNotLoadedError) Error() string {
	return fmt.Sprintf("chunkstore: chunk at index %d is not loaded", e.Index)
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithHashFn overrides the hash function a Store uses to combine children
// into a parent chunk. Defaults to DefaultHashFn (SHA-256).
func WithHashFn(fn HashFn) Option {
	return func(s *Store) {
		s.hashFn = fn
	}
}

// Store is a sparse mapping from global tree index to 32-byte chunk, with
// no required completeness. It is single-owner and not safe for concurrent
// mutation, per the spec's single-threaded concurrency model.
type Store struct {
	chunks map[uint64]Chunk
	hashFn HashFn
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		chunks: make(map[uint64]Chunk),
		hashFn: DefaultHashFn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert unconditionally sets the chunk at index i, returning whatever was
// previously stored there (and whether anything was).
func (s *Store) Insert(i uint64, chunk Chunk) (prior Chunk, hadPrior bool) {
	prior, hadPrior = s.chunks[i]
	s.chunks[i] = chunk
	return prior, hadPrior
}

// Get returns the chunk at index i, if loaded.
func (s *Store) Get(i uint64) (Chunk, bool) {
	c, ok := s.chunks[i]
	return c, ok
}

// Contains reports whether index i is loaded.
func (s *Store) Contains(i uint64) bool {
	_, ok := s.chunks[i]
	return ok
}

// Len returns the number of loaded chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

func (s *Store) sortedIndicesDesc() []uint64 {
	out := make([]uint64, 0, len(s.chunks))
	for idx := range s.chunks {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// Fill computes every ancestor chunk derivable from children currently
// present, without overwriting anything already loaded.
//
// Newly computed ancestors are appended to the back of the work queue so
// they are themselves considered for further ascent; the queue is a plain
// FIFO, which avoids the stale-length re-read pitfall a descending-order,
// append-in-place implementation is prone to.
func (s *Store) Fill() {
	queue := s.sortedIndicesDesc()
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == 0 {
			continue
		}
		parent := treeindex.ParentIndex(n)
		if s.Contains(parent) {
			continue
		}
		left, right := treeindex.ChildrenIndices(parent)
		lc, hasLeft := s.Get(left)
		rc, hasRight := s.Get(right)
		if !hasLeft || !hasRight {
			continue
		}
		s.chunks[parent] = s.hashFn(lc, rc)
		queue = append(queue, parent)
	}
}

// Refresh recomputes every ancestor chunk derivable from present children,
// overwriting stale values even where a chunk was already loaded. Used
// after SetBytes to repair hash consistency up to the root.
//
// Refresh is a no-op on an empty store (open question #5 in the design
// notes: never index into an empty node set).
func (s *Store) Refresh() {
	queue := s.sortedIndicesDesc()
	requeued := make(map[uint64]bool, len(queue))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == 0 {
			continue
		}
		parent := treeindex.ParentIndex(n)
		left, right := treeindex.ChildrenIndices(parent)
		lc, hasLeft := s.Get(left)
		rc, hasRight := s.Get(right)
		if !hasLeft || !hasRight {
			continue
		}
		s.chunks[parent] = s.hashFn(lc, rc)
		if !requeued[parent] {
			requeued[parent] = true
			queue = append(queue, parent)
		}
	}
}

// IsValid reports whether every present (left, right, parent) triple
// hashes consistently and the root (index 0) is present and equal to the
// supplied root. Returns false rather than panicking when the root is
// missing (open question #4).
func (s *Store) IsValid(root Chunk) bool {
	rootChunk, ok := s.Get(0)
	if !ok || rootChunk != root {
		return false
	}
	for n := range s.chunks {
		if n == 0 {
			continue
		}
		parent := treeindex.ParentIndex(n)
		parentChunk, hasParent := s.Get(parent)
		if !hasParent {
			continue
		}
		left, right := treeindex.ChildrenIndices(parent)
		lc, hasLeft := s.Get(left)
		rc, hasRight := s.Get(right)
		if !hasLeft || !hasRight {
			continue
		}
		if s.hashFn(lc, rc) != parentChunk {
			return false
		}
	}
	return true
}

// Root returns the chunk at index 0, the store's root, if loaded.
func (s *Store) Root() (Chunk, bool) {
	return s.Get(0)
}
