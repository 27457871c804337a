// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import "github.com/pk910/sszproof/treeindex"

// itemsPerChunkFor returns how many elements of elem share a single
// 32-byte chunk: 32/width for any element of height 0 (a primitive, or a
// composite whose whole value fits in one chunk), 1 for an element with
// a subtree of its own.
func itemsPerChunkFor(elem Type) uint64 {
	if elem.Height() == 0 {
		if w := elem.MinReprSize(); w > 0 && w <= 32 {
			return 32 / w
		}
	}
	return 1
}

// dataTreeHeightFor returns the height of the balanced data subtree needed
// to hold n elements of elem, each chunk holding itemsPerChunkFor(elem)
// elements. A zero-length collection still reserves one empty leaf.
func dataTreeHeightFor(elem Type, n uint64) uint64 {
	ipc := itemsPerChunkFor(elem)
	chunks := treeindex.CeilDiv(n, ipc)
	if chunks == 0 {
		chunks = 1
	}
	return treeindex.LogBaseTwo(treeindex.NextPowerOfTwo(chunks))
}

// resolveElementLeaf validates index p against bound n and returns the
// index of the leaf holding p within the data subtree of the given
// height, and itemsPerChunkFor(elem). The offset of p's slot within that
// chunk is left to the caller, which derives it from p and ipc.
func resolveElementLeaf(elem Type, n, p, height uint64) (leaf, ipc uint64, err error) {
	if p >= n {
		return 0, 0, &IndexOutOfBoundsError{Index: p, Bound: n}
	}
	ipc = itemsPerChunkFor(elem)
	leaf = treeindex.LeftMostLeaf(0, height) + p/ipc
	return leaf, ipc, nil
}
