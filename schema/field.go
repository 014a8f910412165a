// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package schema is the schema model: field declarations, the
// validator that freezes a declaration into an ordered, immutable
// Schema, and the static bit-length precomputation the codec compiler
// starts from.
package schema

// Kind is the primitive family of a field.
type Kind int

const (
	Integer Kind = iota
	Float16
	Float32
	Float64
	Boolean
	String
	Blob
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Boolean:
		return "Boolean"
	case String:
		return "String"
	case Blob:
		return "Blob"
	default:
		return "Unknown"
	}
}

// Field is one declared field of a schema, as the author writes it.
// Not every member applies to every Kind; see the per-kind rules in
// Validate.
type Field struct {
	Name string
	Kind Kind

	// Integer only.
	Bits   int
	Signed bool

	// Numeric kinds (Integer, Float16, Float32, Float64).
	Min, Max *float64

	// String, Blob.
	IncludeSize          *bool
	Pattern              string
	MinLength, MaxLength *int

	// Common modifiers, every kind.
	List         bool
	Optional     bool
	Dependencies []string
	Default      any
	HasDefault   bool
}

// Metadata is schema-level, not field-level.
type Metadata struct {
	Prefix   *uint8
	Repeated bool
}

// Declaration is the unvalidated input to Validate: an ordered field
// list plus optional metadata, exactly as an author writes it (field
// order here need not be a valid topological order; Validate rewrites
// it).
type Declaration struct {
	Fields   []Field
	Metadata Metadata
}

// Required reports whether a value for this field is mandatory in the
// value mapping passed to encode: true unless the field is optional or
// carries a default.
func (f Field) Required() bool {
	return !f.Optional && !f.HasDefault
}

// ListElementKind describes the element kind carried by a list field;
// identical to Kind since lists hold a sequence of the kind's own
// primitive value.
func (f Field) ListElementKind() Kind { return f.Kind }
