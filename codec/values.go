// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package codec

import (
	"encoding/base64"
	"math"

	"github.com/mtschema/bitpack/bperrors"
)

// The value shape a Codec speaks at its boundary: map[string]any in,
// map[string]any out. Integer fields carry int64, float fields
// float64, string fields string, blob fields []byte, and list fields
// []any of the element's own shape. A value decoded from JSON arrives
// with looser typing than this — every number is float64 and there is
// no byte-slice representation — so integers also accept a whole
// float64 and blobs also accept a base64-encoded string.

func asInt64(field string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, bperrors.Malformed(field, "integer value %v has a fractional part", n)
		}
		return int64(n), nil
	}
	return 0, bperrors.Malformed(field, "expected an integer value, got %T", v)
}

func asFloat64(field string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, bperrors.Malformed(field, "expected a float value, got %T", v)
}

func asBool(field string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, bperrors.Malformed(field, "expected a boolean value, got %T", v)
	}
	return b, nil
}

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", bperrors.Malformed(field, "expected a string value, got %T", v)
	}
	return s, nil
}

func asBlob(field string, v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		decoded, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, bperrors.Malformed(field, "blob value is not valid base64: %v", err)
		}
		return decoded, nil
	}
	return nil, bperrors.Malformed(field, "expected a blob value, got %T", v)
}

func asList(field string, v any) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, bperrors.Malformed(field, "expected a list value, got %T", v)
	}
	return list, nil
}
