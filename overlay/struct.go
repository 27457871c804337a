// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import "github.com/pk910/sszproof/treeindex"

// FieldSpec names one field of a struct overlay in declaration order.
type FieldSpec struct {
	Name string
	Type Type
}

// fieldLayout records where a field ended up: packed alongside siblings
// in a shared chunk, or occupying a composite slot of its own.
type fieldLayout struct {
	spec   FieldSpec
	slot   uint64 // slot index within the struct's own data tree
	packed bool
	offset uint64 // byte offset within the slot's chunk, when packed
}

// StructType is a generated struct overlay: fields are packed greedily,
// in declaration order, into 32-byte slots. A run of consecutive
// primitive fields shares a slot until the next one would overflow it; a
// composite field always starts (and alone occupies) its own slot. This
// mirrors how SSZ containers pack fixed-size fields into the merkle tree.
type StructType struct {
	fields []FieldSpec
	layout map[string]fieldLayout
	order  []string
	slots  uint64
	// flatSize is the total byte width when the whole struct fits in one
	// slot (slots == 1); MinReprSize degrades to 32 otherwise.
	flatSize uint64
}

// NewStructType builds a StructType from fields in declaration order.
func NewStructType(fields []FieldSpec) *StructType {
	st := &StructType{
		fields: fields,
		layout: make(map[string]fieldLayout, len(fields)),
	}
	st.pack()
	return st
}

func (st *StructType) pack() {
	var slot uint64
	var curOffset uint64
	inSlot := false

	flush := func() {
		if inSlot {
			slot++
			curOffset = 0
			inSlot = false
		}
	}

	for _, f := range st.fields {
		prim, isPrimitive := f.Type.(primitiveType)
		if !isPrimitive {
			flush()
			st.layout[f.Name] = fieldLayout{spec: f, slot: slot, packed: false}
			st.order = append(st.order, f.Name)
			slot++
			continue
		}
		width := prim.MinReprSize()
		if inSlot && curOffset+width > 32 {
			flush()
		}
		st.layout[f.Name] = fieldLayout{spec: f, slot: slot, packed: true, offset: curOffset}
		st.order = append(st.order, f.Name)
		curOffset += width
		inSlot = true
	}
	flush()

	st.slots = slot
	if st.slots == 0 {
		st.slots = 1
	}
	if st.slots == 1 && len(st.fields) > 0 {
		if fl, ok := st.layout[st.fields[len(st.fields)-1].Name]; ok && fl.packed {
			var total uint64
			for _, f := range st.fields {
				total += f.Type.MinReprSize()
			}
			st.flatSize = total
		}
	}
}

func (st *StructType) Height() uint64 {
	return treeindex.LogBaseTwo(treeindex.NextPowerOfTwo(st.slots))
}

func (st *StructType) MinReprSize() uint64 {
	if st.Height() == 0 && st.flatSize > 0 {
		return st.flatSize
	}
	return 32
}

func (st *StructType) IsList() bool { return false }

func (st *StructType) slotLocalIndex(slot uint64) uint64 {
	h := st.Height()
	if h == 0 {
		return 0
	}
	return treeindex.LeftMostLeaf(0, h) + slot
}

func (st *StructType) GetNode(path []PathElement) (NodeDescriptor, error) {
	height := st.Height()
	if len(path) == 0 {
		return NodeDescriptor{Index: 0, Size: st.MinReprSize(), Offset: 0, Height: height, IsList: false}, nil
	}
	head := path[0]
	if head.Kind != PathElementIdent {
		return NodeDescriptor{}, &InvalidPathError{Element: head}
	}
	fl, ok := st.layout[head.Ident]
	if !ok {
		return NodeDescriptor{}, &InvalidPathError{Element: head}
	}

	slotLocal := st.slotLocalIndex(fl.slot)

	if fl.packed {
		if len(path) != 1 {
			return NodeDescriptor{}, &InvalidPathError{Element: path[1]}
		}
		return NodeDescriptor{
			Index:  slotLocal,
			Ident:  head,
			Size:   fl.spec.Type.MinReprSize(),
			Offset: fl.offset,
			Height: 0,
		}, nil
	}

	if len(path) == 1 {
		child, err := fl.spec.Type.GetNode(nil)
		if err != nil {
			return NodeDescriptor{}, err
		}
		child.Index = treeindex.SubtreeIndexToGeneral(slotLocal, child.Index)
		child.Ident = head
		return child, nil
	}
	child, err := fl.spec.Type.GetNode(path[1:])
	if err != nil {
		return NodeDescriptor{}, err
	}
	child.Index = treeindex.SubtreeIndexToGeneral(slotLocal, child.Index)
	return child, nil
}

var _ Type = (*StructType)(nil)
