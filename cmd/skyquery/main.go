// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command skyquery parses search-bar queries from the terminal.
//
// Useful for debugging what the portal search bar would do with a given
// input, without running the full service.
//
// Usage:
//
//	skyquery parse "ZTF21abfmbix"
//	skyquery parse --resolve "SN 2024abc"
//	skyquery parse --resolve --base-url https://api.fink-portal.org "Vesta"
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "skyquery",
		Short: "Parse sky search queries into normalized intents",
	}
	root.AddCommand(newParseCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
