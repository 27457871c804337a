// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import "fmt"

// InvalidPathError is returned when a path element does not apply to the
// type being resolved: an Ident against a vector, an Ident other than
// "len" against a list, an Index against a struct, an unknown field name,
// or a second element following a terminal primitive or "len".
type InvalidPathError struct {
	Element PathElement
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("overlay: invalid path element %s", e.Element)
}

// IndexOutOfBoundsError is returned when a numeric path element exceeds
// the bound of the vector or list it addresses.
type IndexOutOfBoundsError struct {
	Index uint64
	Bound uint64
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("overlay: index %d out of bounds (bound %d)", e.Index, e.Bound)
}
