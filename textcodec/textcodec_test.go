// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package textcodec

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []string{"", "Hi", "héllo wörld", "日本語"}
	for _, s := range values {
		b := Encode(s)
		got, ok := Decode(b)
		if !ok {
			t.Fatalf("Decode(%q) failed", s)
		}
		if got != s {
			t.Errorf("round-trip(%q) = %q", s, got)
		}
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	if _, ok := Decode([]byte{0xff, 0xfe}); ok {
		t.Fatal("expected Decode to reject invalid UTF-8")
	}
}

func TestEncodeIntoTruncation(t *testing.T) {
	dst := make([]byte, 3)
	written, read := EncodeInto("Hiya", dst)
	if written != 3 || read != 3 {
		t.Errorf("EncodeInto truncation = (%d,%d), want (3,3)", written, read)
	}
}

func TestEncodeIntoMultibyteBoundary(t *testing.T) {
	// "é" is two UTF-8 bytes; a one-byte destination must stop before it
	// rather than writing a partial rune.
	dst := make([]byte, 1)
	written, read := EncodeInto("é", dst)
	if written != 0 || read != 0 {
		t.Errorf("EncodeInto multibyte boundary = (%d,%d), want (0,0)", written, read)
	}
}

func TestMatcherTest(t *testing.T) {
	m, err := Compile(`^[a-z]+$`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !m.Test("abc") {
		t.Error("Test(abc) = false, want true")
	}
	if m.Test("ABC") {
		t.Error("Test(ABC) = true, want false")
	}
}
