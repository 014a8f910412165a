// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package codec compiles a validated schema.Schema into a Codec: a
// fixed vector of fieldOp instructions built once at Compile time, then
// walked by Encode/Decode on every call. Dependency names are resolved
// to field indices once, at Compile time; each value written or read
// still dispatches on its field's Kind.
package codec

import "github.com/mtschema/bitpack/schema"

// fieldOp is one compiled step of a Codec's plan: the schema.Field it
// was built from, plus the dependency field indices resolved once at
// compile time so Encode/Decode never re-walk names by string.
type fieldOp struct {
	field      schema.Field
	fieldIndex int
	depIndices []int
}

// gated reports whether this field's presence on the wire depends on
// prior boolean fields rather than its own presence bit.
func (op fieldOp) gated() bool { return len(op.depIndices) > 0 }

// Codec is the compiled encoder/decoder for one schema.Schema. A
// Codec is immutable after Compile and safe to share across
// goroutines; callers create one bitbuf.Writer/Reader per
// Encode/Decode call, never sharing those across goroutines.
type Codec struct {
	schema *schema.Schema
	ops    []fieldOp
}

// Schema returns the schema.Schema this Codec was compiled from.
func (c *Codec) Schema() *schema.Schema { return c.schema }
