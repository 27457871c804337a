// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/casbin/govaluate"
)

// DeriveOption configures a DeriveStruct call.
type DeriveOption func(*deriveOptions)

type deriveOptions struct {
	specValues map[string]any
	verbose    bool
	logCb      func(format string, args ...any)
}

// WithSpecValues supplies the named values (e.g. SYNC_COMMITTEE_SIZE)
// that the size expressions of vector and list tags are evaluated against.
func WithSpecValues(values map[string]any) DeriveOption {
	return func(o *deriveOptions) {
		o.specValues = values
	}
}

// WithVerbose enables diagnostic logging of derivation decisions.
func WithVerbose() DeriveOption {
	return func(o *deriveOptions) {
		o.verbose = true
	}
}

// WithLogCb sets the callback derivation logs go through when WithVerbose
// is set. Defaults to a no-op.
func WithLogCb(logCb func(format string, args ...any)) DeriveOption {
	return func(o *deriveOptions) {
		o.logCb = logCb
	}
}

func (o *deriveOptions) logf(format string, args ...any) {
	if o.verbose && o.logCb != nil {
		o.logCb(format, args...)
	}
}

func resolveOptions(opts []DeriveOption) *deriveOptions {
	cfg := &deriveOptions{specValues: map[string]any{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// TypeCache memoizes DeriveStruct results per reflect.Type so repeated
// derivation of the same Go struct (e.g. across many proofs) does not
// re-walk its fields every time.
type TypeCache struct {
	mu    sync.RWMutex
	types map[reflect.Type]*StructType
}

// NewTypeCache creates an empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{types: make(map[reflect.Type]*StructType)}
}

var defaultCache = NewTypeCache()

func (c *TypeCache) getOrDerive(t reflect.Type, opts []DeriveOption) (*StructType, error) {
	c.mu.RLock()
	cached, ok := c.types[t]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	st, err := deriveStructType(t, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.types[t] = st
	c.mu.Unlock()
	return st, nil
}

// DeriveStruct reflects over v (a struct or pointer to struct) and builds
// a StructType from its exported fields, reading the `sszproof` struct tag,
// which carries both the shape and any vector length or list capacity
// expression. Results are memoized in the package-default TypeCache.
func DeriveStruct(v any, opts ...DeriveOption) (*StructType, error) {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("overlay: DeriveStruct requires a struct or pointer to struct, got %s", t.Kind())
	}
	return defaultCache.getOrDerive(t, opts)
}

func deriveStructType(t reflect.Type, opts []DeriveOption) (*StructType, error) {
	cfg := resolveOptions(opts)
	fields := make([]FieldSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		tag, ok := sf.Tag.Lookup("sszproof")
		if !ok || tag == "-" {
			continue
		}
		ft, err := deriveFieldType(sf, tag, cfg)
		if err != nil {
			return nil, fmt.Errorf("overlay: field %s: %w", sf.Name, err)
		}
		cfg.logf("derived field %s: height=%d size=%d", sf.Name, ft.Height(), ft.MinReprSize())
		fields = append(fields, FieldSpec{Name: sf.Name, Type: ft})
	}
	return NewStructType(fields), nil
}

// deriveFieldType parses one field's sszproof tag. Grammar:
//
//	sszproof:"<primitive>"
//	sszproof:"vector:<elemShape>:<n>"
//	sszproof:"list:<elemShape>:<maxExpr>"
//	sszproof:"container"   (nested struct field, recursed via reflection)
func deriveFieldType(sf reflect.StructField, tag string, cfg *deriveOptions) (Type, error) {
	parts := strings.SplitN(tag, ":", 3)
	shape := parts[0]

	switch shape {
	case "container":
		ft := sf.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		return deriveStructType(ft, []DeriveOption{WithSpecValues(cfg.specValues)})
	case "vector":
		if len(parts) != 3 {
			return nil, fmt.Errorf("vector tag requires elemShape:n, got %q", tag)
		}
		elem, err := parsePrimitive(parts[1])
		if err != nil {
			return nil, err
		}
		n, err := resolveSize(parts[2], cfg)
		if err != nil {
			return nil, err
		}
		return NewFixedVector(elem, n), nil
	case "list":
		if len(parts) != 3 {
			return nil, fmt.Errorf("list tag requires elemShape:maxExpr, got %q", tag)
		}
		elem, err := parsePrimitive(parts[1])
		if err != nil {
			return nil, err
		}
		n, err := resolveSize(parts[2], cfg)
		if err != nil {
			return nil, err
		}
		return NewVariableList(elem, n), nil
	default:
		return parsePrimitive(shape)
	}
}

func parsePrimitive(name string) (Primitive, error) {
	switch name {
	case "bool":
		return Bool, nil
	case "uint8":
		return Uint8, nil
	case "uint16":
		return Uint16, nil
	case "uint32":
		return Uint32, nil
	case "uint64":
		return Uint64, nil
	case "uint128":
		return Uint128, nil
	case "uint256":
		return Uint256, nil
	default:
		return Primitive{}, fmt.Errorf("unknown primitive shape %q", name)
	}
}

// resolveSize interprets expr as a literal integer first, falling back to
// a govaluate expression evaluated against cfg.specValues (mirroring the
// dynssz-size tag convention: plain numbers are literal, anything else is
// a named spec value or arithmetic expression over one).
func resolveSize(expr string, cfg *deriveOptions) (uint64, error) {
	if n, err := strconv.ParseUint(expr, 10, 64); err == nil {
		return n, nil
	}
	evaluable, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return 0, fmt.Errorf("invalid size expression %q: %w", expr, err)
	}
	result, err := evaluable.Evaluate(cfg.specValues)
	if err != nil {
		return 0, fmt.Errorf("evaluating size expression %q: %w", expr, err)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("size expression %q did not evaluate to a number", expr)
	}
	return uint64(f), nil
}
