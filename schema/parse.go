// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"gopkg.in/yaml.v3"

	"github.com/mtschema/bitpack/bperrors"
)

// yamlField mirrors the author-facing YAML shape of a field
// declaration: snake_case keys, singular nouns.
type yamlField struct {
	Name         string   `yaml:"name"`
	Kind         string   `yaml:"kind"`
	Bits         int      `yaml:"bits"`
	Signed       bool     `yaml:"signed"`
	Min          *float64 `yaml:"min"`
	Max          *float64 `yaml:"max"`
	Default      any      `yaml:"default"`
	List         bool     `yaml:"list"`
	Optional     bool     `yaml:"optional"`
	Dependencies []string `yaml:"dependencies"`
	IncludeSize  *bool    `yaml:"include_size"`
	Pattern      string   `yaml:"pattern"`
	MinLength    *int     `yaml:"min_length"`
	MaxLength    *int     `yaml:"max_length"`
}

type yamlMetadata struct {
	Prefix   *int `yaml:"prefix"`
	Repeated bool `yaml:"repeated"`
}

type yamlSchema struct {
	Fields   []yamlField  `yaml:"fields"`
	Metadata yamlMetadata `yaml:"metadata"`
}

// ParseTable parses a YAML document declaring a named table of
// schemas, one entry per top-level key, into unvalidated
// Declarations. Callers pass each Declaration to Validate before use.
func ParseTable(doc []byte) (map[string]Declaration, error) {
	var raw map[string]yamlSchema
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, bperrors.SchemaInvalid("", "parsing schema table: %v", err)
	}

	out := make(map[string]Declaration, len(raw))
	for name, ys := range raw {
		decl, err := toDeclaration(name, ys)
		if err != nil {
			return nil, err
		}
		out[name] = decl
	}
	return out, nil
}

func toDeclaration(schemaName string, ys yamlSchema) (Declaration, error) {
	fields := make([]Field, 0, len(ys.Fields))
	for _, yf := range ys.Fields {
		f, err := toField(schemaName, yf)
		if err != nil {
			return Declaration{}, err
		}
		fields = append(fields, f)
	}

	meta := Metadata{Repeated: ys.Metadata.Repeated}
	if ys.Metadata.Prefix != nil {
		if *ys.Metadata.Prefix < 0 || *ys.Metadata.Prefix > 0xff {
			return Declaration{}, bperrors.SchemaInvalid(schemaName, "metadata.prefix out of byte range: %d", *ys.Metadata.Prefix)
		}
		p := uint8(*ys.Metadata.Prefix)
		meta.Prefix = &p
	}

	return Declaration{Fields: fields, Metadata: meta}, nil
}

func toField(schemaName string, yf yamlField) (Field, error) {
	kind, err := parseKind(schemaName, yf.Name, yf.Kind)
	if err != nil {
		return Field{}, err
	}

	f := Field{
		Name:         yf.Name,
		Kind:         kind,
		Bits:         yf.Bits,
		Signed:       yf.Signed,
		Min:          yf.Min,
		Max:          yf.Max,
		List:         yf.List,
		Optional:     yf.Optional,
		Dependencies: yf.Dependencies,
		IncludeSize:  yf.IncludeSize,
		Pattern:      yf.Pattern,
		MinLength:    yf.MinLength,
		MaxLength:    yf.MaxLength,
	}

	if yf.Default != nil {
		v, err := normalizeDefault(schemaName, f.Name, kind, yf.Default)
		if err != nil {
			return Field{}, err
		}
		f.Default = v
		f.HasDefault = true
	}
	return f, nil
}

func parseKind(schemaName, fieldName, s string) (Kind, error) {
	switch s {
	case "integer":
		return Integer, nil
	case "float16":
		return Float16, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	case "boolean":
		return Boolean, nil
	case "string":
		return String, nil
	case "blob":
		return Blob, nil
	default:
		return 0, bperrors.SchemaInvalid(schemaName, "field %q: unknown kind %q", fieldName, s)
	}
}

// normalizeDefault converts a YAML-decoded scalar into the Go type
// Field.Default expects for its kind: yaml.v3 decodes plain integers
// as int, which must become int64 for Integer fields.
func normalizeDefault(schemaName, fieldName string, kind Kind, v any) (any, error) {
	switch kind {
	case Integer:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		}
	case Float16, Float32, Float64:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	case Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Blob:
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	return nil, bperrors.SchemaInvalid(schemaName, "field %q: default %v has wrong type for kind %s", fieldName, v, kind)
}
