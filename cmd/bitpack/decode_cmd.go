// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decodes a bit-packed wire record into a JSON value mapping",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		h, err := loadHandle()
		requireNoError(err)

		var src io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			requireNoError(err)
			defer f.Close()
			src = f
		}

		record, err := io.ReadAll(src)
		requireNoError(err)

		value, err := h.Decode(record)
		requireNoError(err)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		requireNoError(enc.Encode(value))
	},
}
