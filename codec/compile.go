// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package codec

import "github.com/mtschema/bitpack/schema"

// Compile builds a Codec from a validated schema.Schema. Compile does
// no further validation of its own: s is assumed to already have
// passed schema.Validate, so dependency names are guaranteed to
// resolve and fields are already in topological order.
func Compile(s *schema.Schema) (*Codec, error) {
	ops := make([]fieldOp, len(s.Fields))
	for i, f := range s.Fields {
		op := fieldOp{field: f, fieldIndex: i}
		if len(f.Dependencies) > 0 {
			op.depIndices = make([]int, len(f.Dependencies))
			for j, dep := range f.Dependencies {
				op.depIndices[j] = s.FieldIndex(dep)
			}
		}
		ops[i] = op
	}
	return &Codec{schema: s, ops: ops}, nil
}
