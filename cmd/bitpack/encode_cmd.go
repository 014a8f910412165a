// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var encodeOut string

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "Output file for the encoded record (default stdout)")
}

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Encodes a JSON value mapping into a bit-packed wire record",
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

		var value map[string]any
		requireNoError(json.NewDecoder(src).Decode(&value))

		record, err := h.Encode(value)
		requireNoError(err)

		dst := os.Stdout
		if encodeOut != "" {
			f, err := os.Create(encodeOut)
			requireNoError(err)
			defer f.Close()
			dst = f
		}
		_, err = dst.Write(record)
		requireNoError(err)

		if encodeOut != "" {
			fmt.Fprintf(os.Stderr, "wrote %s (%s)\n", encodeOut, humanize.Bytes(uint64(len(record))))
		}
	},
}
