// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import "github.com/pk910/sszproof/treeindex"

// lenMixinIndex is the local index, within a variable list's own frame,
// of the length mix-in node. The data subtree's root lives at local index
// 1; the length lives alongside it at index 2.
const lenMixinIndex = 2

// VariableList is a variable-length homogeneous sequence bounded by a
// maximum capacity N, List[Elem, N] in SSZ terms. Its own tree frame is
// {data-subtree-root, length} mixed in one level above the data.
type VariableList struct {
	Elem Type
	N    uint64
}

// NewVariableList builds a VariableList with maximum length n of elements
// of type elem.
func NewVariableList(elem Type, n uint64) *VariableList {
	return &VariableList{Elem: elem, N: n}
}

func (l *VariableList) dataHeight() uint64 {
	return dataTreeHeightFor(l.Elem, l.N)
}

func (l *VariableList) Height() uint64 {
	return l.dataHeight() + 1
}

func (l *VariableList) MinReprSize() uint64 { return 32 }

func (l *VariableList) IsList() bool { return true }

func (l *VariableList) GetNode(path []PathElement) (NodeDescriptor, error) {
	if len(path) == 0 {
		return NodeDescriptor{Index: 0, Size: 32, Offset: 0, Height: l.Height(), IsList: true}, nil
	}
	head := path[0]
	if head.Kind == PathElementIdent {
		if head.Ident != "len" {
			return NodeDescriptor{}, &InvalidPathError{Element: head}
		}
		if len(path) != 1 {
			return NodeDescriptor{}, &InvalidPathError{Element: path[1]}
		}
		return NodeDescriptor{Index: lenMixinIndex, Ident: head, Size: 32, Offset: 0, Height: 0}, nil
	}

	dataHeight := l.dataHeight()
	leafInData, ipc, err := resolveElementLeaf(l.Elem, l.N, head.Index, dataHeight)
	if err != nil {
		return NodeDescriptor{}, err
	}
	// The data subtree's own root sits at local index 1 of the list frame;
	// shift the in-data leaf index through that mix-in boundary.
	leaf := treeindex.SubtreeIndexToGeneral(1, leafInData)

	if len(path) == 1 {
		return NodeDescriptor{
			Index:  leaf,
			Ident:  head,
			Size:   l.Elem.MinReprSize(),
			Offset: (head.Index % ipc) * l.Elem.MinReprSize(),
			Height: l.Elem.Height(),
			IsList: l.Elem.IsList(),
		}, nil
	}
	child, err := l.Elem.GetNode(path[1:])
	if err != nil {
		return NodeDescriptor{}, err
	}
	child.Index = treeindex.SubtreeIndexToGeneral(leaf, child.Index)
	return child, nil
}

var _ Type = (*VariableList)(nil)
