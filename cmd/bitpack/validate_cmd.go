// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates and compiles the named schema",
	Run: func(cmd *cobra.Command, args []string) {
		h, err := loadHandle()
		requireNoError(err)
		s := h.Schema()
		fmt.Printf("%s: ok, %d fields, %d static bits\n", s.Name, len(s.Fields), s.StaticBits)
	},
}
