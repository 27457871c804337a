// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package overlay implements the type-directed tree layout: given a
// symbolic access path (struct field names, collection indices, the
// reserved "len" identifier) it resolves the generalized tree index, byte
// offset, byte width, and subtree height the path lands on.
//
// Every supported shape — primitives, fixed vectors, variable lists, and
// generated structs — implements the same Type contract. Composite types
// resolve a path by computing where their own addressed child sits in
// their local frame (as if their own root were global index 0) and then
// shifting the child's reported index into that frame with
// treeindex.SubtreeIndexToGeneral; the outermost caller never has to know
// how deep the nesting goes.
package overlay

import "fmt"

// PathElementKind distinguishes a struct field name from a collection
// index within a PathElement.
type PathElementKind uint8

const (
	// PathElementIdent names a struct field, or the reserved "len"
	// identifier addressing a variable list's length mix-in.
	PathElementIdent PathElementKind = iota
	// PathElementIndex names a 0-based position within a vector or list.
	PathElementIndex
)

// PathElement is one step of a symbolic access path: either an identifier
// or a numeric index.
type PathElement struct {
	Kind  PathElementKind
	Ident string
	Index uint64
}

// Ident builds an identifier path element.
func Ident(name string) PathElement {
	return PathElement{Kind: PathElementIdent, Ident: name}
}

// Idx builds a numeric index path element.
func Idx(i uint64) PathElement {
	return PathElement{Kind: PathElementIndex, Index: i}
}

func (p PathElement) String() string {
	if p.Kind == PathElementIdent {
		return p.Ident
	}
	return fmt.Sprintf("[%d]", p.Index)
}

// NodeDescriptor is what a Type's GetNode resolves a path to: where in the
// tree the addressed bytes live, and enough context for a caller to
// descend further if the value itself is composite.
type NodeDescriptor struct {
	// Index is the tree index of the chunk containing the addressed bytes.
	Index uint64
	// Ident is the terminal path element that produced this descriptor,
	// kept for diagnostics and round-tripping.
	Ident PathElement
	// Size is the width in bytes of the addressed value.
	Size uint64
	// Offset is the byte offset within the chunk at Index.
	Offset uint64
	// Height is the height of the subtree rooted at Index, if the value is
	// itself composite; 0 for atomic leaves.
	Height uint64
	// IsList is true iff the subtree rooted at Index is a variable-length
	// list (and therefore carries a length mix-in).
	IsList bool
}

// Type is the capability every supported shape exposes: primitives, fixed
// vectors, variable lists, and generated structs.
type Type interface {
	// Height is the height of this type's own merkle subtree: 0 for
	// primitives, ceil(log2(numChunks)) for fixed vectors, that plus 1 for
	// variable lists (the length mix-in).
	Height() uint64
	// MinReprSize is the byte width of this type's minimal representation:
	// the primitive's width, or 32 for any composite with Height() > 0, or
	// the flat total width for a composite that fits in one chunk.
	MinReprSize() uint64
	// IsList reports whether this type is a variable-length list.
	IsList() bool
	// GetNode resolves path against this type, returning indices local to
	// this type's own frame (as if its own root were global index 0). A
	// caller holding this type nested inside another is responsible for
	// shifting the result with treeindex.SubtreeIndexToGeneral.
	GetNode(path []PathElement) (NodeDescriptor, error)
}
