// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"github.com/mtschema/bitpack/bperrors"
	"github.com/mtschema/bitpack/textcodec"
)

// Schema is a frozen, validated Declaration: fields are reordered so
// every dependency precedes its dependents, string patterns are
// pre-compiled, and the static (lower-bound) bit length is
// precomputed. A Schema is immutable and safe to share across
// goroutines; see Codec in the codec package for the compiled
// encoder/decoder built from one.
type Schema struct {
	Name       string
	Fields     []Field
	Metadata   Metadata
	StaticBits int

	patterns map[string]*textcodec.Matcher
	index    map[string]int
}

// FieldIndex returns the position of the named field in Fields, or -1
// if no such field exists.
func (s *Schema) FieldIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Pattern returns the compiled Matcher for a String field with a
// declared Pattern, or nil if the field has none.
func (s *Schema) Pattern(name string) *textcodec.Matcher {
	return s.patterns[name]
}

// Validate freezes a Declaration into a Schema: it checks every
// field's own constraints, checks dependency references exist and
// name Boolean fields, topologically orders fields so dependencies
// precede dependents (failing on a cycle), compiles string patterns,
// and precomputes the static bit length.
func Validate(name string, decl Declaration) (*Schema, error) {
	if len(decl.Fields) == 0 {
		return nil, bperrors.SchemaInvalid(name, "schema has no fields")
	}

	byName := make(map[string]Field, len(decl.Fields))
	for _, f := range decl.Fields {
		if f.Name == "" {
			return nil, bperrors.SchemaInvalid(name, "field has empty name")
		}
		if _, dup := byName[f.Name]; dup {
			return nil, bperrors.SchemaInvalid(name, "duplicate field %q", f.Name)
		}
		byName[f.Name] = f
	}

	patterns := make(map[string]*textcodec.Matcher)
	for _, f := range decl.Fields {
		if err := validateField(name, f); err != nil {
			return nil, err
		}
		if f.Kind == String && f.Pattern != "" {
			m, err := textcodec.Compile(f.Pattern)
			if err != nil {
				return nil, bperrors.SchemaInvalid(name, "field %q: invalid pattern: %v", f.Name, err)
			}
			patterns[f.Name] = m
		}
		for _, dep := range f.Dependencies {
			dependsOn, ok := byName[dep]
			if !ok {
				return nil, bperrors.SchemaInvalid(name, "field %q depends on undeclared field %q", f.Name, dep)
			}
			if dependsOn.Kind != Boolean {
				return nil, bperrors.SchemaInvalid(name, "field %q depends on non-boolean field %q", f.Name, dep)
			}
			if dep == f.Name {
				return nil, bperrors.SchemaInvalid(name, "field %q depends on itself", f.Name)
			}
		}
	}

	ordered, err := topologicalOrder(name, decl.Fields)
	if err != nil {
		return nil, err
	}

	s := &Schema{
		Name:     name,
		Fields:   ordered,
		Metadata: decl.Metadata,
		patterns: patterns,
		index:    make(map[string]int, len(ordered)),
	}
	for i, f := range ordered {
		s.index[f.Name] = i
	}
	s.StaticBits = staticBitLength(ordered, decl.Metadata)
	return s, nil
}

func validateField(schemaName string, f Field) error {
	switch f.Kind {
	case Integer:
		if f.Bits < 1 || f.Bits > 53 {
			return bperrors.SchemaInvalid(schemaName, "field %q: bits must be in [1,53], got %d", f.Name, f.Bits)
		}
	case Float16, Float32, Float64, Boolean:
		// no kind-specific structural fields to check
	case String, Blob:
		if f.MinLength != nil && *f.MinLength < 0 {
			return bperrors.SchemaInvalid(schemaName, "field %q: min_length must be >= 0", f.Name)
		}
		if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
			return bperrors.SchemaInvalid(schemaName, "field %q: min_length exceeds max_length", f.Name)
		}
		if f.Kind == Blob && f.Pattern != "" {
			return bperrors.SchemaInvalid(schemaName, "field %q: pattern is not valid on a blob field", f.Name)
		}
	default:
		return bperrors.SchemaInvalid(schemaName, "field %q: unknown kind %v", f.Name, f.Kind)
	}

	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return bperrors.SchemaInvalid(schemaName, "field %q: min exceeds max", f.Name)
	}
	if f.HasDefault {
		if err := checkDefaultValue(schemaName, f); err != nil {
			return err
		}
	}
	return nil
}

func checkDefaultValue(schemaName string, f Field) error {
	switch v := f.Default.(type) {
	case int64:
		if f.Kind != Integer {
			return bperrors.SchemaInvalid(schemaName, "field %q: integer default on non-integer field", f.Name)
		}
		lo, hi := int64RangeFor(f)
		if v < lo || v > hi {
			return bperrors.SchemaInvalid(schemaName, "field %q: default %d outside declared range [%d,%d]", f.Name, v, lo, hi)
		}
		if f.Min != nil && float64(v) < *f.Min {
			return bperrors.SchemaInvalid(schemaName, "field %q: default %d below min %v", f.Name, v, *f.Min)
		}
		if f.Max != nil && float64(v) > *f.Max {
			return bperrors.SchemaInvalid(schemaName, "field %q: default %d above max %v", f.Name, v, *f.Max)
		}
	case float64:
		if f.Kind != Float16 && f.Kind != Float32 && f.Kind != Float64 {
			return bperrors.SchemaInvalid(schemaName, "field %q: float default on non-float field", f.Name)
		}
		if f.Min != nil && v < *f.Min {
			return bperrors.SchemaInvalid(schemaName, "field %q: default %v below min %v", f.Name, v, *f.Min)
		}
		if f.Max != nil && v > *f.Max {
			return bperrors.SchemaInvalid(schemaName, "field %q: default %v above max %v", f.Name, v, *f.Max)
		}
	case bool:
		if f.Kind != Boolean {
			return bperrors.SchemaInvalid(schemaName, "field %q: boolean default on non-boolean field", f.Name)
		}
	case string:
		if f.Kind != String {
			return bperrors.SchemaInvalid(schemaName, "field %q: string default on non-string field", f.Name)
		}
		if f.MaxLength != nil && len(v) > *f.MaxLength {
			return bperrors.SchemaInvalid(schemaName, "field %q: default exceeds max_length", f.Name)
		}
		if f.MinLength != nil && len(v) < *f.MinLength {
			return bperrors.SchemaInvalid(schemaName, "field %q: default is shorter than min_length", f.Name)
		}
		if f.Pattern != "" {
			if m, err := textcodec.Compile(f.Pattern); err == nil && !m.Test(v) {
				return bperrors.SchemaInvalid(schemaName, "field %q: default does not match pattern", f.Name)
			}
		}
	case []byte:
		if f.Kind != Blob {
			return bperrors.SchemaInvalid(schemaName, "field %q: blob default on non-blob field", f.Name)
		}
	default:
		return bperrors.SchemaInvalid(schemaName, "field %q: default has unsupported type %T", f.Name, f.Default)
	}
	return nil
}

func int64RangeFor(f Field) (int64, int64) {
	return rangeMinMax(f.Bits, f.Signed)
}

// rangeMinMax mirrors bitbuf.RangeMin/RangeMax without importing
// bitbuf, which would create schema -> bitbuf -> schema cycle risk
// down the line; the arithmetic is the entire contract and is small
// enough to keep local.
func rangeMinMax(bits int, signed bool) (int64, int64) {
	if signed {
		return -(int64(1) << uint(bits-1)), (int64(1) << uint(bits-1)) - 1
	}
	return 0, (int64(1) << uint(bits)) - 1
}

func topologicalOrder(schemaName string, fields []Field) ([]Field, error) {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(fields))
	order := make([]Field, 0, len(fields))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return bperrors.SchemaInvalid(schemaName, "dependency cycle detected at field %q", name)
		}
		state[name] = visiting
		f := byName[name]
		for _, dep := range f.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, f)
		return nil
	}

	for _, f := range fields {
		if err := visit(f.Name); err != nil {
			return nil, err
		}
	}
	if len(order) != len(fields) {
		return nil, bperrors.SchemaInvalid(schemaName, "internal error ordering fields")
	}
	return order, nil
}
