// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSky/services/search/parser"
	"github.com/AleutianAI/AleutianSky/services/search/resolve"
)

// Flag values for the parse command.
var (
	parseResolve bool
	parseBaseURL string
	parseTimeout time.Duration
)

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [query...]",
		Short: "Parse a query and print the normalized intent as JSON",
		Long: `Parse runs the search-bar pipeline over the given query and prints
the normalized intent as indented JSON.

Without --resolve only the pure parsing stages run: pattern matching,
keyword extraction and coordinate recognition. With --resolve, unresolved
names cascade through the external name-resolution services.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParseCommand,
	}
	cmd.Flags().BoolVar(&parseResolve, "resolve", false, "Resolve names against external services")
	cmd.Flags().StringVar(&parseBaseURL, "base-url", "https://api.fink-portal.org", "Resolver endpoint base URL")
	cmd.Flags().DurationVar(&parseTimeout, "timeout", 5*time.Second, "Per-resolver-call timeout")
	return cmd
}

func runParseCommand(_ *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	in := parser.Parse(query)

	if parseResolve {
		memo, err := resolve.NewMemo(0, nil, logger)
		if err != nil {
			return fmt.Errorf("creating memo cache: %w", err)
		}
		client := resolve.NewClient(parseBaseURL, 0, logger)
		cascade := resolve.NewCascade(resolve.Resolvers{
			TNS:    resolve.NewTNSResolver(client),
			Simbad: resolve.NewSimbadResolver(client),
			SSO:    resolve.NewSSOResolver(client),
			ZTF:    resolve.NewZTFResolver(client),
		}, memo, logger)

		cascade.Enrich(context.Background(), in, parseTimeout)
		parser.Classify(in)
	}

	out, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding intent: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
