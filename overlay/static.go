// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"fmt"
	"reflect"
)

// StaticField is the codegen-facing counterpart of a reflected struct
// field: a name and the same "sszproof" shape tag DeriveStruct reads,
// but resolved without any Go reflect.Type in hand. cmd/overlaygen emits
// calls built from these at compile time.
//
// Container element shapes are intentionally unsupported here: a static
// generator walking source text has no Go type to recurse into for a
// nested struct's own fields, unlike DeriveStruct which has a live
// reflect.Type. Structs with nested container fields must still go
// through DeriveStruct at runtime.
type StaticField struct {
	Name string
	Tag  string
}

// DeriveStatic builds a StructType from StaticField declarations, the
// same tag grammar as DeriveStruct but without reflection.
func DeriveStatic(fields []StaticField, opts ...DeriveOption) (*StructType, error) {
	cfg := resolveOptions(opts)
	specs := make([]FieldSpec, 0, len(fields))
	for _, f := range fields {
		shape := f.Tag
		if idx := indexByte(shape, ':'); idx >= 0 {
			shape = shape[:idx]
		}
		if shape == "container" {
			return nil, fmt.Errorf("overlay: static field %s: container shape requires DeriveStruct", f.Name)
		}
		ft, err := deriveFieldType(staticStructField(f.Name), f.Tag, cfg)
		if err != nil {
			return nil, fmt.Errorf("overlay: static field %s: %w", f.Name, err)
		}
		specs = append(specs, FieldSpec{Name: f.Name, Type: ft})
	}
	return NewStructType(specs), nil
}

// MustDeriveStatic is DeriveStatic for call sites (generated code) that
// treat a derivation failure as a build-time programmer error.
func MustDeriveStatic(name string, fields []StaticField) *StructType {
	st, err := DeriveStatic(fields)
	if err != nil {
		panic(fmt.Sprintf("overlay: static overlay %s: %v", name, err))
	}
	return st
}

func staticStructField(name string) reflect.StructField {
	return reflect.StructField{Name: name}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
