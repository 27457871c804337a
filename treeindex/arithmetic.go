// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Package treeindex implements the pure integer arithmetic of the 0-indexed
// binary tree address space the overlay and chunk store are built on: index
// 0 is the root, parent(i) = (i-1)/2 for i>0, left(i) = 2i+1, right(i) = 2i+2.
//
// This is deliberately a different address space from the 1-indexed
// "generalized index" convention used elsewhere in the SSZ ecosystem (where
// the root is 1 and children are 2i/2i+1): every function here is total on
// the 0-indexed space and nothing outside this package needs to know the
// difference.
package treeindex

import "math/bits"

// ParentIndex returns the parent of node i. The parent of the root (0) is
// defined to be 0 itself; callers must not ascend past the root.
func ParentIndex(i uint64) uint64 {
	if i == 0 {
		return 0
	}
	return (i - 1) / 2
}

// ChildrenIndices returns the left and right children of node i.
func ChildrenIndices(i uint64) (left, right uint64) {
	return 2*i + 1, 2*i + 2
}

// ExpandTreeIndex returns the left child, right child, and parent of i.
func ExpandTreeIndex(i uint64) (left, right, parent uint64) {
	left, right = ChildrenIndices(i)
	parent = ParentIndex(i)
	return
}

// SiblingIndex returns the other child of i's parent. i must be > 0.
func SiblingIndex(i uint64) uint64 {
	if i%2 == 1 {
		return i + 1
	}
	return i - 1
}

// LeftMostLeaf returns the global index of the left-most leaf of the
// subtree rooted at the given global index and height.
func LeftMostLeaf(root, height uint64) uint64 {
	return ((root + 1) << height) - 1
}

// SubtreeIndexToGeneral translates a local, subtree-root-relative index
// (as if the subtree's own root were index 0) into a global index, given
// that the subtree is actually rooted at subtreeRoot.
//
// local is decomposed as (1<<d)-1+k for the unique depth d and in-row
// position k, and the result is (subtreeRoot+1)<<d - 1 + k: the subtree
// root's bit path is prefixed onto local's.
func SubtreeIndexToGeneral(subtreeRoot, local uint64) uint64 {
	d := uint(bits.Len64(local+1) - 1)
	k := local - (1<<d - 1)
	return ((subtreeRoot + 1) << d) - 1 + k
}

// NextPowerOfTwo returns the smallest power of two >= n. NextPowerOfTwo(0)
// is 1: an empty collection still occupies a single leaf slot.
func NextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << uint(bits.Len64(n-1))
}

// LogBaseTwo returns log2(n). n must be an exact power of two; the caller
// is responsible for that invariant.
func LogBaseTwo(n uint64) uint64 {
	return uint64(bits.TrailingZeros64(n))
}

// CeilDiv returns ceil(n/d). d must be > 0.
func CeilDiv(n, d uint64) uint64 {
	return (n + d - 1) / d
}
