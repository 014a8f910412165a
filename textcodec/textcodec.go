// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package textcodec is the external codec boundary named in the wire
// format design: a thin adapter over the platform's UTF-8 codec and a
// regex pattern matcher, the two collaborator interfaces the buffer
// primitive and schema validator treat as externally supplied.
package textcodec

import (
	"regexp"
	"unicode/utf8"
)

// Encode returns the UTF-8 bytes of text.
func Encode(text string) []byte {
	return []byte(text)
}

// EncodeInto writes as much of text's UTF-8 encoding into dst as fits,
// returning the number of bytes written and the number of bytes of text
// consumed. It never writes a partial rune.
func EncodeInto(text string, dst []byte) (written, read int) {
	for i, r := range text {
		n := utf8.RuneLen(r)
		if n < 0 {
			n = utf8.RuneLen(utf8.RuneError)
		}
		if written+n > len(dst) {
			return written, i
		}
		sz := utf8.EncodeRune(dst[written:], r)
		written += sz
	}
	return written, len(text)
}

// Decode validates and returns text decoded from UTF-8 bytes. ok is
// false if b contains an invalid UTF-8 byte sequence.
func Decode(b []byte) (text string, ok bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// Matcher is a compiled pattern, the regex collaborator interface named
// in the external interfaces design: Test reports whether text matches.
type Matcher struct {
	re *regexp.Regexp
}

// Compile compiles a regular expression pattern into a Matcher.
func Compile(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re}, nil
}

// Test reports whether text matches the compiled pattern.
func (m *Matcher) Test(text string) bool {
	return m.re.MatchString(text)
}

// Pattern returns the source pattern the matcher was compiled from.
func (m *Matcher) Pattern() string {
	return m.re.String()
}
