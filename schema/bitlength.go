// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

// Per-kind fixed wire widths, in bits, for a single non-list element.
const (
	float16Bits = 16
	float32Bits = 32
	float64Bits = 64
	booleanBits = 1
)

// staticBitLength computes the lower bound on the encoded size of a
// schema, in bits: the metadata prefix byte, one presence bit per
// optional field, one 16-bit count prefix per list field, and the
// natural fixed width of a field only when that field is guaranteed to
// be written regardless of value — which excludes any field gated by
// a dependency, since a dependency can skip it entirely. Variable-size
// contributions (string/blob payload bytes, list element payloads) are
// necessarily excluded: they depend on the value being encoded, not
// the schema alone.
func staticBitLength(fields []Field, meta Metadata) int {
	bits := 0
	if meta.Prefix != nil {
		bits += 8
	}
	for _, f := range fields {
		if f.Optional {
			bits++ // presence bit
		}
		if f.List {
			bits += 16 // u16 element count
			continue   // element payloads are value-dependent, excluded
		}
		if len(f.Dependencies) > 0 || f.Optional {
			continue // gated: not guaranteed present
		}
		switch f.Kind {
		case Integer:
			bits += f.Bits
		case Float16:
			bits += float16Bits
		case Float32:
			bits += float32Bits
		case Float64:
			bits += float64Bits
		case Boolean:
			bits += booleanBits
		case String, Blob:
			if includeSize(f) {
				bits += 16 // u16 length prefix; payload is value-dependent
			}
		}
	}
	return bits
}

func includeSize(f Field) bool {
	if f.IncludeSize == nil {
		return true
	}
	return *f.IncludeSize
}
