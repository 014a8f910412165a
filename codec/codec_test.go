// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package codec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/mtschema/bitpack/bitbuf"
	"github.com/mtschema/bitpack/schema"
)

func mustCompile(t *testing.T, name string, decl schema.Declaration) *Codec {
	t.Helper()
	s, err := schema.Validate(name, decl)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return c
}

func TestScenarioThreeBooleans(t *testing.T) {
	c := mustCompile(t, "bools", schema.Declaration{Fields: []schema.Field{
		{Name: "a", Kind: schema.Boolean},
		{Name: "b", Kind: schema.Boolean},
		{Name: "c", Kind: schema.Boolean},
	}})
	record, err := c.Encode(map[string]any{"a": true, "b": false, "c": true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(record, []byte{0b00000101}) {
		t.Errorf("Encode = %08b, want %08b", record, []byte{0b00000101})
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{"a": true, "b": false, "c": true}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("Decode = %v, want %v", value, want)
	}
}

func TestScenarioTwelveBitInteger(t *testing.T) {
	c := mustCompile(t, "n", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 12, Signed: false},
	}})
	record, err := c.Encode(map[string]any{"n": int64(0x123)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(record, []byte{0x23, 0x01}) {
		t.Errorf("Encode = %x, want %x", record, []byte{0x23, 0x01})
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["n"] != int64(0x123) {
		t.Errorf("Decode n = %v, want 0x123", value["n"])
	}
}

func TestScenarioString(t *testing.T) {
	c := mustCompile(t, "name", schema.Declaration{Fields: []schema.Field{
		{Name: "name", Kind: schema.String},
	}})
	record, err := c.Encode(map[string]any{"name": "Hi"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x02, 0x00, 'H', 'i'}
	if !bytes.Equal(record, want) {
		t.Errorf("Encode = %x, want %x", record, want)
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["name"] != "Hi" {
		t.Errorf("Decode name = %v, want Hi", value["name"])
	}
}

func TestScenarioIntegerList(t *testing.T) {
	c := mustCompile(t, "xs", schema.Declaration{Fields: []schema.Field{
		{Name: "xs", Kind: schema.Integer, Bits: 8, List: true},
	}})
	record, err := c.Encode(map[string]any{"xs": []any{int64(1), int64(2), int64(3)}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x03, 0x00, 0x01, 0x02, 0x03}
	if !bytes.Equal(record, want) {
		t.Errorf("Encode = %x, want %x", record, want)
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want2 := []any{int64(1), int64(2), int64(3)}
	if !reflect.DeepEqual(value["xs"], want2) {
		t.Errorf("Decode xs = %v, want %v", value["xs"], want2)
	}
}

func TestScenarioEmptyList(t *testing.T) {
	c := mustCompile(t, "xs", schema.Declaration{Fields: []schema.Field{
		{Name: "xs", Kind: schema.Integer, Bits: 8, List: true},
	}})
	record, err := c.Encode(map[string]any{"xs": []any{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(record, []byte{0x00, 0x00}) {
		t.Errorf("Encode = %x, want %x", record, []byte{0x00, 0x00})
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(value["xs"].([]any)) != 0 {
		t.Errorf("Decode xs = %v, want empty", value["xs"])
	}
}

func TestScenarioDependencyGating(t *testing.T) {
	c := mustCompile(t, "gated", schema.Declaration{Fields: []schema.Field{
		{Name: "f", Kind: schema.Boolean},
		{Name: "p", Kind: schema.String, Dependencies: []string{"f"}},
	}})
	record, err := c.Encode(map[string]any{"f": false})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(record, []byte{0b00000000}) {
		t.Errorf("Encode = %08b, want %08b", record, []byte{0b00000000})
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, present := value["p"]; present {
		t.Errorf("expected p absent from decoded value, got %v", value["p"])
	}
	if value["f"] != false {
		t.Errorf("f = %v, want false", value["f"])
	}
}

func TestGatedFieldMaterializesDefaultWhenSkipped(t *testing.T) {
	c := mustCompile(t, "gated", schema.Declaration{Fields: []schema.Field{
		{Name: "flag", Kind: schema.Boolean},
		{Name: "level", Kind: schema.Integer, Bits: 8, Dependencies: []string{"flag"}, Default: int64(9), HasDefault: true},
	}})
	record, err := c.Encode(map[string]any{"flag": false})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["level"] != int64(9) {
		t.Errorf("level = %v, want the default 9 filled in for a skipped gated field", value["level"])
	}
}

func TestOptionalWithDefaultRoundTrip(t *testing.T) {
	c := mustCompile(t, "optDefault", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 8, Optional: true, Default: int64(5), HasDefault: true},
	}})

	absent, err := c.Encode(map[string]any{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	value, err := c.Decode(bitbuf.NewReader(absent, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["n"] != int64(5) {
		t.Errorf("n = %v, want the default 5 filled in when absent", value["n"])
	}

	given, err := c.Encode(map[string]any{"n": int64(12)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	value, err = c.Decode(bitbuf.NewReader(given, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["n"] != int64(12) {
		t.Errorf("n = %v, want the explicitly supplied 12", value["n"])
	}
}

func TestIntegerOutOfDeclaredRangeRejectsEncode(t *testing.T) {
	min, max := 10.0, 20.0
	c := mustCompile(t, "bounded", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 8, Signed: false, Min: &min, Max: &max},
	}})
	if _, err := c.Encode(map[string]any{"n": int64(200)}); err == nil {
		t.Fatal("expected an OutOfRange error for a value outside the declared [min,max], even though it fits in 8 bits")
	}
	if _, err := c.Encode(map[string]any{"n": int64(15)}); err != nil {
		t.Errorf("Encode(15): %v, want success for a value inside [min,max]", err)
	}
}

func TestDependencyGatingEqualLengthWhenGivenExtraValue(t *testing.T) {
	c := mustCompile(t, "gated", schema.Declaration{Fields: []schema.Field{
		{Name: "flag", Kind: schema.Boolean},
		{Name: "n", Kind: schema.Integer, Bits: 8, Dependencies: []string{"flag"}},
	}})
	a, err := c.Encode(map[string]any{"flag": false})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := c.Encode(map[string]any{"flag": false, "n": int64(0)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(a) != len(b) {
		t.Errorf("len(a)=%d, len(b)=%d, want equal", len(a), len(b))
	}
}

func TestPrefixByteAndBitPacking(t *testing.T) {
	prefix := uint8(0x42)
	c := mustCompile(t, "framed", schema.Declaration{
		Fields: []schema.Field{
			{Name: "t", Kind: schema.Integer, Bits: 4, Signed: false},
			{Name: "flag", Kind: schema.Boolean},
		},
		Metadata: schema.Metadata{Prefix: &prefix},
	})
	record, err := c.Encode(map[string]any{"t": int64(5), "flag": true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(record) != 2 || record[0] != 0x42 {
		t.Fatalf("Encode = %x, want prefix 0x42 then one payload byte", record)
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["t"] != int64(5) || value["flag"] != true {
		t.Errorf("Decode = %v, want t=5 flag=true", value)
	}
}

func TestSizeLowerBound(t *testing.T) {
	c := mustCompile(t, "mixed", schema.Declaration{Fields: []schema.Field{
		{Name: "a", Kind: schema.Boolean},
		{Name: "n", Kind: schema.Integer, Bits: 10},
		{Name: "label", Kind: schema.String, Optional: true},
	}})
	record, err := c.Encode(map[string]any{"a": true, "n": int64(5), "label": "hey"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	floor := (c.Schema().StaticBits + 7) / 8
	if len(record) < floor {
		t.Errorf("len(record) = %d, below static floor %d", len(record), floor)
	}
}

func TestDefaultSubstitutionOnEncodeAndDecode(t *testing.T) {
	c := mustCompile(t, "withDefault", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 8, Default: int64(7), HasDefault: true},
	}})
	record, err := c.Encode(map[string]any{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(record, []byte{7}) {
		t.Errorf("Encode = %x, want the default value written", record)
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value["n"] != int64(7) {
		t.Errorf("Decode n = %v, want 7", value["n"])
	}
}

func TestOptionalAbsentRoundTrip(t *testing.T) {
	c := mustCompile(t, "opt", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 8, Optional: true},
	}})
	record, err := c.Encode(map[string]any{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	value, err := c.Decode(bitbuf.NewReader(record, true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, present := value["n"]; present {
		t.Errorf("expected n absent, got %v", value["n"])
	}
}

func TestOutOfRangeRejectsEncode(t *testing.T) {
	c := mustCompile(t, "n", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 4, Signed: false},
	}})
	if _, err := c.Encode(map[string]any{"n": int64(16)}); err == nil {
		t.Fatal("expected an OutOfRange error for a 4-bit field given 16")
	}
}

func TestMissingRequiredValueFails(t *testing.T) {
	c := mustCompile(t, "n", schema.Declaration{Fields: []schema.Field{
		{Name: "n", Kind: schema.Integer, Bits: 8},
	}})
	if _, err := c.Encode(map[string]any{}); err == nil {
		t.Fatal("expected an error for a missing required value")
	}
}
