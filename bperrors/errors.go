// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package bperrors defines the error kinds raised by schema validation,
// encoding, and decoding.
package bperrors

import (
	stderrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for the five failure modes a codec call can raise.
const (
	CodeSchemaInvalid errors.ErrorCode = "BITPACK_SCHEMA_INVALID"
	CodeOutOfRange     errors.ErrorCode = "BITPACK_OUT_OF_RANGE"
	CodeMalformed      errors.ErrorCode = "BITPACK_MALFORMED"
	CodeOverflow        errors.ErrorCode = "BITPACK_OVERFLOW"
	CodeUnderflow       errors.ErrorCode = "BITPACK_UNDERFLOW"
)

// Error is the structured error type returned by this module. It wraps
// github.com/agilira/go-errors so callers can inspect the code and the
// field the error refers to without parsing a message string.
type Error struct {
	Base  *errors.Error
	Field string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Base.Code, e.Base.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Base.Code, e.Base.Message)
}

func (e *Error) Unwrap() error {
	return e.Base.Cause
}

func newErr(code errors.ErrorCode, field, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	var base *errors.Error
	if field != "" {
		base = errors.NewWithField(code, msg, "field", field)
	} else {
		base = errors.New(code, msg)
	}
	return &Error{Base: base, Field: field}
}

// SchemaInvalid reports a schema declaration that fails validation.
func SchemaInvalid(field, format string, args ...any) *Error {
	return newErr(CodeSchemaInvalid, field, format, args...)
}

// OutOfRange reports an encode-time value outside its field's legal range.
func OutOfRange(field, format string, args ...any) *Error {
	return newErr(CodeOutOfRange, field, format, args...)
}

// Malformed reports an encode- or decode-time structural failure (pattern
// mismatch, bad UTF-8, a variable-length integer with no terminator).
func Malformed(field, format string, args ...any) *Error {
	return newErr(CodeMalformed, field, format, args...)
}

// Overflow reports a write into a fixed-capacity buffer that would exceed
// its capacity.
func Overflow(field, format string, args ...any) *Error {
	return newErr(CodeOverflow, field, format, args...)
}

// Underflow reports a read past the end of the buffer.
func Underflow(field, format string, args ...any) *Error {
	return newErr(CodeUnderflow, field, format, args...)
}

// Is reports whether err carries the given code, matching errors.Is
// semantics without requiring callers to import agilira/go-errors directly.
func Is(err error, code errors.ErrorCode) bool {
	var bpe *Error
	if !stderrors.As(err, &bpe) {
		return false
	}
	return bpe.Base.Code == code
}
