// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package codec

import (
	"github.com/mtschema/bitpack/bitbuf"
	"github.com/mtschema/bitpack/bperrors"
	"github.com/mtschema/bitpack/schema"
)

// Encode walks the compiled plan once, writing one value at a time
// into a freshly allocated, growable bitbuf.Writer. value must supply
// an entry for every required field; optional fields and fields with a
// declared default may be omitted. The returned byte slice is the complete wire-format
// record, including the metadata prefix byte if the schema declares
// one.
func (c *Codec) Encode(value map[string]any) ([]byte, error) {
	w := bitbuf.NewWriter(0, true)
	if err := c.EncodeInto(w, value); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeInto writes value's wire-format record into w instead of a
// freshly allocated one, so a caller can supply its own fixed-capacity
// or reusable buffer (via bitbuf.WrapWriter) and read back the number
// of bytes written from w.Len(). Encode is the common case built on
// top of this with a growable writer.
func (c *Codec) EncodeInto(w *bitbuf.Writer, value map[string]any) error {
	if p := c.schema.Metadata.Prefix; p != nil {
		if err := w.WriteUint8(*p); err != nil {
			return err
		}
	}

	// values holds, per field index, the value actually used for that
	// field (nil for a gated-out or absent optional field), so later
	// dependency checks can read prior boolean fields without
	// re-deriving them from the value map.
	values := make([]any, len(c.ops))

	for i, op := range c.ops {
		f := op.field

		if op.gated() && !depsAllTrue(op, values) {
			values[i] = nil
			continue
		}

		v, given := value[f.Name]
		switch {
		case !given && f.Optional:
			// The presence bit reflects whether a value was supplied,
			// independent of whether the field also has a default;
			// decode fills the default back in when it reads false.
			if err := w.WriteBoolean(false, false); err != nil {
				return err
			}
			values[i] = nil
			continue
		case !given && f.HasDefault:
			v = f.Default
		case !given:
			return bperrors.Malformed(f.Name, "missing required value")
		case f.Optional:
			if err := w.WriteBoolean(true, false); err != nil {
				return err
			}
		}

		values[i] = v
		if f.List {
			if err := c.encodeList(w, f, v); err != nil {
				return err
			}
			continue
		}
		if err := c.encodeScalar(w, f, v); err != nil {
			return err
		}
	}
	return nil
}

func depsAllTrue(op fieldOp, values []any) bool {
	for _, di := range op.depIndices {
		b, ok := values[di].(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

func (c *Codec) encodeList(w *bitbuf.Writer, f schema.Field, v any) error {
	list, err := asList(f.Name, v)
	if err != nil {
		return err
	}
	if len(list) > 0xffff {
		return bperrors.OutOfRange(f.Name, "list length %d exceeds 16-bit count prefix", len(list))
	}
	if err := w.WriteUint16(uint16(len(list))); err != nil {
		return err
	}
	for _, elem := range list {
		if err := c.encodeScalar(w, f, elem); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeScalar(w *bitbuf.Writer, f schema.Field, v any) error {
	switch f.Kind {
	case schema.Integer:
		n, err := asInt64(f.Name, v)
		if err != nil {
			return err
		}
		if err := checkIntRange(f, n); err != nil {
			return err
		}
		return w.WriteBits(n, f.Bits, f.Signed)

	case schema.Float16:
		n, err := asFloat64(f.Name, v)
		if err != nil {
			return err
		}
		if err := checkFloatRange(f, n); err != nil {
			return err
		}
		return w.WriteFloat16(n)

	case schema.Float32:
		n, err := asFloat64(f.Name, v)
		if err != nil {
			return err
		}
		if err := checkFloatRange(f, n); err != nil {
			return err
		}
		return w.WriteFloat32(float32(n))

	case schema.Float64:
		n, err := asFloat64(f.Name, v)
		if err != nil {
			return err
		}
		if err := checkFloatRange(f, n); err != nil {
			return err
		}
		return w.WriteFloat64(n)

	case schema.Boolean:
		b, err := asBool(f.Name, v)
		if err != nil {
			return err
		}
		return w.WriteBoolean(b, false)

	case schema.String:
		s, err := asString(f.Name, v)
		if err != nil {
			return err
		}
		if err := checkStringConstraints(c.schema, f, s); err != nil {
			return err
		}
		return w.WriteString(s, includeSize(f))

	case schema.Blob:
		b, err := asBlob(f.Name, v)
		if err != nil {
			return err
		}
		if err := checkLength(f, len(b)); err != nil {
			return err
		}
		return w.WriteBlob(b, includeSize(f))
	}
	return bperrors.SchemaInvalid(f.Name, "unhandled field kind %v", f.Kind)
}

func includeSize(f schema.Field) bool {
	if f.IncludeSize == nil {
		return true
	}
	return *f.IncludeSize
}

func checkIntRange(f schema.Field, v int64) error {
	if f.Min != nil && float64(v) < *f.Min {
		return bperrors.OutOfRange(f.Name, "value %d below min %v", v, *f.Min)
	}
	if f.Max != nil && float64(v) > *f.Max {
		return bperrors.OutOfRange(f.Name, "value %d above max %v", v, *f.Max)
	}
	return nil
}

func checkFloatRange(f schema.Field, v float64) error {
	if f.Min != nil && v < *f.Min {
		return bperrors.OutOfRange(f.Name, "value %v below min %v", v, *f.Min)
	}
	if f.Max != nil && v > *f.Max {
		return bperrors.OutOfRange(f.Name, "value %v above max %v", v, *f.Max)
	}
	return nil
}

func checkLength(f schema.Field, n int) error {
	if f.MinLength != nil && n < *f.MinLength {
		return bperrors.OutOfRange(f.Name, "length %d below min_length %d", n, *f.MinLength)
	}
	if f.MaxLength != nil && n > *f.MaxLength {
		return bperrors.OutOfRange(f.Name, "length %d above max_length %d", n, *f.MaxLength)
	}
	return nil
}

func checkStringConstraints(s *schema.Schema, f schema.Field, text string) error {
	if err := checkLength(f, len(text)); err != nil {
		return err
	}
	if m := s.Pattern(f.Name); m != nil && !m.Test(text) {
		return bperrors.Malformed(f.Name, "value does not match declared pattern")
	}
	return nil
}
