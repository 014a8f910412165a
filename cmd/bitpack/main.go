// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

///////////////////////////////////////////////////////////////////////////////

var (
	schemaFile string
	schemaName string
)

func requireNoError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

func main() {
	rootCmd.PersistentFlags().StringVarP(&schemaFile, "schema", "s", "", "Path to a YAML schema table")
	rootCmd.PersistentFlags().StringVarP(&schemaName, "name", "n", "", "Schema name within the table")
	rootCmd.MarkPersistentFlagRequired("schema")
	rootCmd.MarkPersistentFlagRequired("name")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

var rootCmd = &cobra.Command{
	Use:   "bitpack",
	Short: "bitpack validates and round-trips bit-packed wire records",
	Long:  "bitpack validates and round-trips bit-packed wire records against a YAML schema table",
}
