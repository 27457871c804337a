// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package proof ties an overlay.Type to a chunkstore.Store, providing the
// path-addressed read/write operations (GetBytes, SetBytes) and the
// serialization/extraction operations (Load, Extract) a partial merkle
// proof needs.
package proof

import (
	"encoding/binary"
	"sort"

	"github.com/pk910/sszproof/chunkstore"
	"github.com/pk910/sszproof/overlay"
	"github.com/pk910/sszproof/treeindex"
)

// Option configures a Proof at construction time.
type Option func(*options)

type options struct {
	verbose bool
	logCb   func(format string, args ...any)
}

// WithVerbose enables diagnostic logging of load and extract decisions.
func WithVerbose() Option {
	return func(o *options) { o.verbose = true }
}

// WithLogCb sets the callback verbose logging goes through.
func WithLogCb(logCb func(format string, args ...any)) Option {
	return func(o *options) { o.logCb = logCb }
}

func (o *options) logf(format string, args ...any) {
	if o.verbose && o.logCb != nil {
		o.logCb(format, args...)
	}
}

// Proof pairs an overlay.Type (the symbolic layout) with a chunkstore.Store
// (the sparse tree contents) it resolves paths against. Generics can't
// parameterize it by the overlaid Go type (Go has no const/integer
// generics to carry N, the vector/list length, through the type system),
// so Proof holds the overlay as a runtime overlay.Type interface value
// instead of being Proof[T].
type Proof struct {
	Store *chunkstore.Store
	Type  overlay.Type
	opts  options
}

// New creates a Proof over an empty store for the given overlay type.
func New(t overlay.Type, opts ...Option) *Proof {
	p := &Proof{Store: chunkstore.New(), Type: t}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// Load builds a Proof from a wire-format SerializedProof, inserting each
// chunk at its declared index. The chunk bytes must be exactly 32 times
// the number of indices; any other length is rejected as a
// MalformedProofError rather than silently truncated or zero-padded.
func Load(t overlay.Type, sp SerializedProof, opts ...Option) (*Proof, error) {
	if len(sp.Chunks) != 32*len(sp.Indices) {
		return nil, &MalformedProofError{NumIndices: len(sp.Indices), ChunksBytes: len(sp.Chunks)}
	}
	p := New(t, opts...)
	for i, idx := range sp.Indices {
		chunk, err := chunkstore.NewChunk(sp.Chunks[32*i : 32*i+32])
		if err != nil {
			return nil, err
		}
		p.Store.Insert(idx, chunk)
	}
	p.opts.logf("proof: loaded %d chunks", len(sp.Indices))
	return p, nil
}

// Fill completes every ancestor chunk derivable from the chunks currently
// present, without overwriting anything already loaded.
func (p *Proof) Fill() {
	p.Store.Fill()
}

// Refresh recomputes every ancestor chunk derivable from the chunks
// currently present, overwriting stale values. Call after SetBytes to
// repair hash consistency up to the root.
func (p *Proof) Refresh() {
	p.Store.Refresh()
}

// IsValid reports whether the proof's loaded chunks are hash-consistent
// with the given root.
func (p *Proof) IsValid(root [32]byte) bool {
	return p.Store.IsValid(chunkstore.Chunk(root))
}

// Root returns the chunk at tree index 0, if loaded.
func (p *Proof) Root() ([32]byte, bool) {
	c, ok := p.Store.Root()
	return [32]byte(c), ok
}

// GetBytes resolves path against the overlay and returns the addressed
// value's raw bytes, sliced out of the chunk at the resolved tree index.
func (p *Proof) GetBytes(path []overlay.PathElement) ([]byte, error) {
	if len(path) == 0 {
		return nil, &EmptyPathError{}
	}
	desc, err := p.Type.GetNode(path)
	if err != nil {
		return nil, err
	}
	chunk, ok := p.Store.Get(desc.Index)
	if !ok {
		return nil, &chunkstore.ChunkNotLoadedError{Index: desc.Index}
	}
	b := chunk.Bytes()
	return b[desc.Offset : desc.Offset+desc.Size], nil
}

// SetBytes resolves path against the overlay and writes value into the
// addressed slot of the chunk at the resolved tree index, merging with
// whatever else is packed into that chunk. The caller must call Refresh
// afterward to repair ancestor hashes before verifying IsValid.
func (p *Proof) SetBytes(path []overlay.PathElement, value []byte) error {
	if len(path) == 0 {
		return &EmptyPathError{}
	}
	desc, err := p.Type.GetNode(path)
	if err != nil {
		return err
	}
	if uint64(len(value)) != desc.Size {
		return &BytesLengthMismatchError{Want: desc.Size, Got: len(value)}
	}
	existing, _ := p.Store.Get(desc.Index)
	b := existing.Bytes()
	copy(b[desc.Offset:desc.Offset+desc.Size], value)
	chunk, err := chunkstore.NewChunk(b)
	if err != nil {
		return err
	}
	p.Store.Insert(desc.Index, chunk)
	return nil
}

// GetLen reads the length mix-in of a variable list addressed by path.
func (p *Proof) GetLen(path []overlay.PathElement) (uint64, error) {
	b, err := p.GetBytes(append(append([]overlay.PathElement{}, path...), overlay.Ident("len")))
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:8]), nil
}

// Extract computes the minimal sibling set needed to recompute the root
// from the given leaf indices and returns a SerializedProof carrying
// exactly those leaves plus that minimal set, in ascending index order.
// A sibling whose own children are already both present in the extracted
// set is never included, since a verifier can derive it on the fly.
func (p *Proof) Extract(leafIndices []uint64) (SerializedProof, error) {
	leaves := make(map[uint64]bool, len(leafIndices))
	for _, idx := range leafIndices {
		leaves[idx] = true
	}

	required := make(map[uint64]bool)
	computed := make(map[uint64]bool)
	for _, leaf := range leafIndices {
		cur := leaf
		for cur != 0 {
			sibling := treeindex.SiblingIndex(cur)
			parent := treeindex.ParentIndex(cur)
			if !leaves[sibling] {
				required[sibling] = true
			}
			computed[parent] = true
			cur = parent
		}
	}

	set := make(map[uint64]bool, len(leaves)+len(required))
	for idx := range leaves {
		set[idx] = true
	}
	for idx := range required {
		if !computed[idx] {
			set[idx] = true
		}
	}

	indices := make([]uint64, 0, len(set))
	for idx := range set {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	chunks := make([]byte, 0, 32*len(indices))
	for _, idx := range indices {
		c, ok := p.Store.Get(idx)
		if !ok {
			return SerializedProof{}, &chunkstore.ChunkNotLoadedError{Index: idx}
		}
		chunks = append(chunks, c.Bytes()...)
	}

	p.opts.logf("proof: extracted %d chunks for %d leaves", len(indices), len(leafIndices))
	return SerializedProof{Indices: indices, Chunks: chunks}, nil
}
