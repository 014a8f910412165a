// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package bitpack is the public entry point: it parses a YAML table of
// schema declarations, validates and compiles every schema
// concurrently, and hands back a Registry of immutable Handles, one
// per schema name, each able to encode and decode values against its
// own compiled plan.
package bitpack

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mtschema/bitpack/bperrors"
	"github.com/mtschema/bitpack/bitbuf"
	"github.com/mtschema/bitpack/codec"
	"github.com/mtschema/bitpack/schema"
)

// Handle is a validated, compiled schema ready to encode and decode
// values. A Handle is immutable after DefineSchemas returns and is
// safe to call from multiple goroutines concurrently; each call opens
// its own bitbuf.Writer/Reader, never sharing one across goroutines.
type Handle struct {
	codec *codec.Codec
}

// Schema returns the validated schema.Schema backing this Handle.
func (h *Handle) Schema() *schema.Schema { return h.codec.Schema() }

// Encode serializes value into a freshly allocated wire-format record.
func (h *Handle) Encode(value map[string]any) ([]byte, error) {
	return h.codec.Encode(value)
}

// Decode parses a wire-format record back into a value mapping.
func (h *Handle) Decode(b []byte) (map[string]any, error) {
	r := bitbuf.NewReader(b, true)
	return h.codec.Decode(r)
}

// EncodeInto serializes value into buf instead of a freshly allocated
// record, so a caller that already owns suitably sized storage (a
// pooled buffer, a slice of a larger frame) can avoid the allocation
// Encode makes on every call. It returns the number of bytes written,
// or an Overflow error if buf is too small for the record.
func (h *Handle) EncodeInto(buf []byte, value map[string]any) (int, error) {
	w := bitbuf.WrapWriter(buf, false, false, true)
	if err := h.codec.EncodeInto(w, value); err != nil {
		return 0, err
	}
	return w.Len(), nil
}

// Registry is the set of Handles produced by DefineSchemas, keyed by
// schema name.
type Registry map[string]*Handle

// Lookup returns the named Handle, or ok=false if no schema by that
// name was defined.
func (r Registry) Lookup(name string) (*Handle, bool) {
	h, ok := r[name]
	return h, ok
}

// DefineSchemas parses a YAML document declaring a table of schemas,
// then validates and compiles every entry. Validation of independent
// schemas is fanned out across an errgroup.Group: each schema's
// validator runs its own DFS dependency walk and pattern compilation
// with no shared mutable state, so the fan-out is purely a throughput
// optimization over what would otherwise be a sequential loop. Every
// schema's goroutine runs to completion; the first validation failure
// is returned, and callers get a single error, not a partial Registry.
func DefineSchemas(doc []byte) (Registry, error) {
	decls, err := schema.ParseTable(doc)
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, bperrors.SchemaInvalid("", "schema table declares no schemas")
	}

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}

	handles := make([]*Handle, len(names))
	g, _ := errgroup.WithContext(context.Background())
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			s, err := schema.Validate(name, decls[name])
			if err != nil {
				return err
			}
			c, err := codec.Compile(s)
			if err != nil {
				return err
			}
			handles[i] = &Handle{codec: c}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reg := make(Registry, len(names))
	for i, name := range names {
		reg[name] = handles[i]
	}
	return reg, nil
}
