// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import "github.com/pk910/sszproof/treeindex"

// FixedVector is a fixed-length homogeneous sequence, Vector[Elem, N] in
// SSZ terms. It never carries a length mix-in since its length is part of
// the type itself.
type FixedVector struct {
	Elem Type
	N    uint64
}

// NewFixedVector builds a FixedVector of n elements of type elem.
func NewFixedVector(elem Type, n uint64) *FixedVector {
	return &FixedVector{Elem: elem, N: n}
}

func (v *FixedVector) dataHeight() uint64 {
	return dataTreeHeightFor(v.Elem, v.N)
}

func (v *FixedVector) Height() uint64 {
	return v.dataHeight()
}

func (v *FixedVector) MinReprSize() uint64 {
	if v.dataHeight() == 0 {
		return v.N * v.Elem.MinReprSize()
	}
	return 32
}

func (v *FixedVector) IsList() bool { return false }

func (v *FixedVector) GetNode(path []PathElement) (NodeDescriptor, error) {
	height := v.dataHeight()
	if len(path) == 0 {
		return NodeDescriptor{Index: 0, Size: v.MinReprSize(), Offset: 0, Height: height, IsList: false}, nil
	}
	head := path[0]
	if head.Kind != PathElementIndex {
		return NodeDescriptor{}, &InvalidPathError{Element: head}
	}
	leaf, ipc, err := resolveElementLeaf(v.Elem, v.N, head.Index, height)
	if err != nil {
		return NodeDescriptor{}, err
	}
	if len(path) == 1 {
		return NodeDescriptor{
			Index:  leaf,
			Ident:  head,
			Size:   v.Elem.MinReprSize(),
			Offset: (head.Index % ipc) * v.Elem.MinReprSize(),
			Height: v.Elem.Height(),
			IsList: v.Elem.IsList(),
		}, nil
	}
	child, err := v.Elem.GetNode(path[1:])
	if err != nil {
		return NodeDescriptor{}, err
	}
	child.Index = treeindex.SubtreeIndexToGeneral(leaf, child.Index)
	return child, nil
}

var _ Type = (*FixedVector)(nil)
