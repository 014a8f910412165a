// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package codec

import (
	"github.com/mtschema/bitpack/bitbuf"
	"github.com/mtschema/bitpack/bperrors"
	"github.com/mtschema/bitpack/schema"
)

// Decode walks the compiled plan in lockstep with Encode, reading one
// value at a time from r. The returned map carries one entry per field
// that was either present on the wire or fell back to its declared
// default: an absent optional or dependency-gated field with no
// default has no corresponding key at all.
func (c *Codec) Decode(r *bitbuf.Reader) (map[string]any, error) {
	if p := c.schema.Metadata.Prefix; p != nil {
		got, err := r.ReadUint8(true)
		if err != nil {
			return nil, err
		}
		if got != *p {
			return nil, bperrors.Malformed("", "prefix byte mismatch: got 0x%02x want 0x%02x", got, *p)
		}
	}

	out := make(map[string]any, len(c.ops))
	values := make([]any, len(c.ops))

	for i, op := range c.ops {
		f := op.field

		if op.gated() && !depsAllTrue(op, values) {
			if f.HasDefault {
				values[i] = f.Default
				out[f.Name] = f.Default
			} else {
				values[i] = nil
			}
			continue
		}

		if f.Optional {
			present, err := r.ReadBoolean(false, true)
			if err != nil {
				return nil, err
			}
			if !present {
				if f.HasDefault {
					values[i] = f.Default
					out[f.Name] = f.Default
				} else {
					values[i] = nil
				}
				continue
			}
		}

		var v any
		var err error
		if f.List {
			v, err = c.decodeList(r, f)
		} else {
			v, err = c.decodeScalar(r, f)
		}
		if err != nil {
			return nil, err
		}
		values[i] = v
		out[f.Name] = v
	}
	return out, nil
}

func (c *Codec) decodeList(r *bitbuf.Reader, f schema.Field) ([]any, error) {
	count, err := r.ReadUint16(true)
	if err != nil {
		return nil, err
	}
	list := make([]any, count)
	for i := range list {
		v, err := c.decodeScalar(r, f)
		if err != nil {
			return nil, err
		}
		list[i] = v
	}
	return list, nil
}

func (c *Codec) decodeScalar(r *bitbuf.Reader, f schema.Field) (any, error) {
	switch f.Kind {
	case schema.Integer:
		return r.ReadBits(f.Bits, f.Signed, true)

	case schema.Float16:
		return r.ReadFloat16(true)

	case schema.Float32:
		v, err := r.ReadFloat32(true)
		return float64(v), err

	case schema.Float64:
		return r.ReadFloat64(true)

	case schema.Boolean:
		return r.ReadBoolean(false, true)

	case schema.String:
		s, err := r.ReadString(includeSize(f), -1)
		if err != nil {
			return nil, err
		}
		if err := checkStringConstraints(c.schema, f, s); err != nil {
			return nil, err
		}
		return s, nil

	case schema.Blob:
		b, err := r.ReadBlob(includeSize(f), -1)
		if err != nil {
			return nil, err
		}
		if err := checkLength(f, len(b)); err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, bperrors.SchemaInvalid(f.Name, "unhandled field kind %v", f.Kind)
}
