// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/mtschema/bitpack"
)

// loadHandle reads the schema table named by the --schema flag,
// compiles every schema in it, and returns the one named by --name.
func loadHandle() (*bitpack.Handle, error) {
	doc, err := os.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	reg, err := bitpack.DefineSchemas(doc)
	if err != nil {
		return nil, fmt.Errorf("defining schemas: %w", err)
	}

	h, ok := reg.Lookup(schemaName)
	if !ok {
		return nil, fmt.Errorf("schema table %s declares no schema named %q", schemaFile, schemaName)
	}
	return h, nil
}
