// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package proof

import (
	"bytes"
	"testing"

	"github.com/pk910/sszproof/chunkstore"
	"github.com/pk910/sszproof/overlay"
)

func chunkFromByte(b byte) chunkstore.Chunk {
	var c chunkstore.Chunk
	c[31] = b
	return c
}

// TestExtractRoundTrip corresponds to spec scenario S2: build a full
// FixedVector<Uint256,4> store (four chunks wide, so each element owns a
// leaf instead of sharing a packed chunk), extract a minimal proof for one
// leaf, load it back into a fresh Proof and confirm GetBytes and IsValid
// both work off the minimal set alone.
func TestExtractRoundTrip(t *testing.T) {
	v := overlay.NewFixedVector(overlay.Uint256, 4)
	p := New(v)

	c0, c1, c2, c3 := chunkFromByte(0), chunkFromByte(1), chunkFromByte(2), chunkFromByte(3)
	p.Store.Insert(3, c0)
	p.Store.Insert(4, c1)
	p.Store.Insert(5, c2)
	p.Store.Insert(6, c3)
	p.Fill()

	root, ok := p.Root()
	if !ok {
		t.Fatal("expected root to be derivable after Fill")
	}

	// Element 0 resolves to leaf index 3; its minimal proof is {3, 4, 2}:
	// leaf 3 itself, its sibling leaf 4, and node 2 (the collapsed sibling
	// subtree covering leaves 5 and 6).
	desc, err := v.GetNode([]overlay.PathElement{overlay.Idx(0)})
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if desc.Index != 3 {
		t.Fatalf("element 0 resolved to index %d, want 3", desc.Index)
	}

	sp, err := p.Extract([]uint64{desc.Index})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	wantIndices := []uint64{2, 3, 4}
	if len(sp.Indices) != len(wantIndices) {
		t.Fatalf("minimal proof indices = %v, want %v", sp.Indices, wantIndices)
	}
	for i, idx := range wantIndices {
		if sp.Indices[i] != idx {
			t.Errorf("minimal proof indices = %v, want %v", sp.Indices, wantIndices)
			break
		}
	}

	loaded, err := Load(v, sp)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := loaded.GetBytes([]overlay.PathElement{overlay.Idx(0)})
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if !bytes.Equal(got, c0.Bytes()) {
		t.Errorf("GetBytes(0) = %x, want %x", got, c0.Bytes())
	}

	// The extracted set alone is enough to derive node 1 and the root, but
	// Fill must run first to actually compute them.
	loaded.Fill()
	if !loaded.IsValid(root) {
		t.Fatal("loaded minimal proof should validate against the original root after Fill")
	}
}

// TestSetBytesThenRefresh corresponds to spec scenario S4: mutating a
// value through SetBytes leaves ancestor hashes stale until Refresh runs.
// Uses a 4-element Uint256 vector so each element owns its own leaf and
// ancestor nodes genuinely need recomputation, rather than all four
// elements sharing one packed chunk.
func TestSetBytesThenRefresh(t *testing.T) {
	v := overlay.NewFixedVector(overlay.Uint256, 4)
	p := New(v)

	for i := uint64(0); i < 4; i++ {
		val := make([]byte, 32)
		val[31] = byte(10 * (i + 1))
		if err := p.SetBytes([]overlay.PathElement{overlay.Idx(i)}, val); err != nil {
			t.Fatalf("SetBytes(%d): %v", i, err)
		}
	}
	p.Refresh()
	root, ok := p.Root()
	if !ok {
		t.Fatal("expected root after Refresh")
	}
	if !p.IsValid(root) {
		t.Fatal("proof should be valid after Refresh")
	}

	if err := p.SetBytes([]overlay.PathElement{overlay.Idx(2)}, append(make([]byte, 31), 99)); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	if p.IsValid(root) {
		t.Fatal("proof should be invalid before Refresh repairs ancestor hashes")
	}
	p.Refresh()
	newRoot, _ := p.Root()
	if newRoot == root {
		t.Fatal("root should change once the mutated leaf propagates")
	}
	if !p.IsValid(newRoot) {
		t.Fatal("proof should be valid against its own recomputed root after Refresh")
	}

	got, err := p.GetBytes([]overlay.PathElement{overlay.Idx(2)})
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if got[31] != 99 {
		t.Errorf("GetBytes(2)[31] = %d, want 99", got[31])
	}
}

// TestExtractMissingChunk corresponds to spec scenario S6: extracting a
// proof for a leaf that was never loaded (and cannot be derived) must
// fail with ChunkNotLoadedError, not panic or silently skip it.
func TestExtractMissingChunk(t *testing.T) {
	v := overlay.NewFixedVector(overlay.Uint64, 4)
	p := New(v)
	p.Store.Insert(2, chunkFromByte(1))

	_, err := p.Extract([]uint64{1})
	var notLoaded *chunkstore.ChunkNotLoadedError
	if err == nil {
		t.Fatal("expected ChunkNotLoadedError")
	}
	if e, ok := err.(*chunkstore.ChunkNotLoadedError); !ok {
		t.Fatalf("got %T, want *chunkstore.ChunkNotLoadedError", err)
	} else {
		notLoaded = e
	}
	if notLoaded.Index != 1 {
		t.Errorf("missing index = %d, want 1", notLoaded.Index)
	}
}

func TestGetBytesEmptyPath(t *testing.T) {
	v := overlay.NewFixedVector(overlay.Uint64, 4)
	p := New(v)
	_, err := p.GetBytes(nil)
	if _, ok := err.(*EmptyPathError); !ok {
		t.Fatalf("got %v (%T), want EmptyPathError", err, err)
	}
}

func TestSetBytesLengthMismatch(t *testing.T) {
	v := overlay.NewFixedVector(overlay.Uint64, 4)
	p := New(v)
	err := p.SetBytes([]overlay.PathElement{overlay.Idx(0)}, []byte{1, 2, 3})
	if _, ok := err.(*BytesLengthMismatchError); !ok {
		t.Fatalf("got %v (%T), want BytesLengthMismatchError", err, err)
	}
}

func TestLoadRejectsMismatchedChunkLength(t *testing.T) {
	v := overlay.NewFixedVector(overlay.Uint64, 4)
	_, err := Load(v, SerializedProof{Indices: []uint64{1, 2}, Chunks: make([]byte, 32)})
	if _, ok := err.(*MalformedProofError); !ok {
		t.Fatalf("got %v (%T), want MalformedProofError", err, err)
	}
}

func TestGetSetListLen(t *testing.T) {
	l := overlay.NewVariableList(overlay.Uint64, 8)
	p := New(l)
	if err := p.SetBytes([]overlay.PathElement{overlay.Ident("len")}, append([]byte{3, 0, 0, 0, 0, 0, 0, 0}, make([]byte, 24)...)); err != nil {
		t.Fatalf("SetBytes(len): %v", err)
	}
	n, err := p.GetLen(nil)
	if err != nil {
		t.Fatalf("GetLen: %v", err)
	}
	if n != 3 {
		t.Errorf("GetLen = %d, want 3", n)
	}
}
