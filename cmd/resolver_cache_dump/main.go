// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// resolver_cache_dump inspects the search service's persisted resolver cache.
//
// The resolver cache persists normalized name-resolution answers (TNS,
// SIMBAD, SSODNET, ZTF identifier positions) in BadgerDB between service
// restarts. This tool opens the cache read-only and prints a human-readable
// summary: keys, TTL remaining, and the records of each entry.
//
// Usage:
//
//	resolver_cache_dump [--path /path/to/resolver/cache]
//
// If --path is not given, reads RESOLVER_CACHE_DIR from the environment,
// falling back to ~/.aleutian/cache/resolver/.
//
// Exit codes:
//
//	0 — success (including "empty cache" which prints a message and exits 0)
//	1 — error opening or reading the database
package main

import (
	"bytes"
	"encoding/gob"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/AleutianSky/services/search/resolve"
)

// cachedRecord mirrors the stored record layout in resolve/store.go. Gob
// matches by field name, so the shapes must stay in sync.
type cachedRecord struct {
	Name     string
	FullName string
	RA       float64
	Dec      float64
	HasPos   bool
}

func main() {
	pathFlag := flag.String("path", "", "Path to resolver BadgerDB directory (overrides RESOLVER_CACHE_DIR env var)")
	flag.Parse()

	dbPath := *pathFlag
	if dbPath == "" {
		dbPath = os.Getenv("RESOLVER_CACHE_DIR")
	}
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fatalf("cannot resolve home directory: %v", err)
		}
		dbPath = filepath.Join(home, ".aleutian", "cache", "resolver")
	}

	fmt.Printf("Resolver cache path: %s\n", dbPath)

	// Check existence before trying to open — gives a cleaner error message
	// than BadgerDB's "no such file or directory" buried in a long error.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Cache directory does not exist. The service has not yet persisted any resolver answers.")
		os.Exit(0)
	}

	opts := dgbadger.DefaultOptions(dbPath).
		WithLogger(nil). // suppress BadgerDB internal logs
		WithReadOnly(true)

	db, err := dgbadger.Open(opts)
	if err != nil {
		fatalf("open BadgerDB at %s: %v", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	type entry struct {
		key       string
		expiresAt time.Time
		hasExpiry bool
		records   []cachedRecord
		rawSize   int
		decodeErr error
	}

	var entries []entry

	err = db.View(func(txn *dgbadger.Txn) error {
		itOpts := dgbadger.DefaultIteratorOptions
		itOpts.PrefetchValues = true
		it := txn.NewIterator(itOpts)
		defer it.Close()

		prefix := []byte(resolve.StoreKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var e entry
			e.key = string(item.Key())

			// TTL: item.ExpiresAt() returns Unix seconds, 0 = no expiry.
			if expiresAt := item.ExpiresAt(); expiresAt > 0 {
				e.hasExpiry = true
				e.expiresAt = time.Unix(int64(expiresAt), 0)
			}

			raw, err := item.ValueCopy(nil)
			if err != nil {
				e.decodeErr = fmt.Errorf("copy value: %w", err)
				entries = append(entries, e)
				continue
			}
			e.rawSize = len(raw)

			var records []cachedRecord
			if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&records); err != nil {
				e.decodeErr = fmt.Errorf("gob decode: %w", err)
			} else {
				e.records = records
			}

			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		fatalf("read BadgerDB: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("\nNo resolver cache entries found.")
		fmt.Println("The service has opened the cache but no resolver lookup has an answer persisted yet.")
		os.Exit(0)
	}

	fmt.Printf("\nFound %d resolver cache entr%s:\n", len(entries), plural(len(entries), "y", "ies"))
	fmt.Println(strings.Repeat("─", 80))

	for i, e := range entries {
		fmt.Printf("\n[%d] Key:      %s\n", i+1, e.key)

		if e.hasExpiry {
			remaining := time.Until(e.expiresAt)
			if remaining < 0 {
				fmt.Printf("    TTL:      EXPIRED (%s ago)\n", (-remaining).Round(time.Second))
			} else {
				fmt.Printf("    TTL:      %s remaining (expires %s)\n",
					remaining.Round(time.Second),
					e.expiresAt.Format("2006-01-02 15:04:05 MST"),
				)
			}
		} else {
			fmt.Printf("    TTL:      no expiry set\n")
		}

		fmt.Printf("    Raw size: %d bytes\n", e.rawSize)

		if e.decodeErr != nil {
			fmt.Printf("    DECODE ERROR: %v\n", e.decodeErr)
			continue
		}

		fmt.Printf("    Records:  %d\n", len(e.records))
		for _, r := range e.records {
			name := r.Name
			if r.FullName != "" {
				name = fmt.Sprintf("%s (%s)", r.FullName, r.Name)
			}
			if r.HasPos {
				fmt.Printf("      - %s  ra=%.5f dec=%.5f\n", name, r.RA, r.Dec)
			} else {
				fmt.Printf("      - %s  (no position)\n", name)
			}
		}
	}
	fmt.Println()
}

// plural picks the singular or plural suffix for a count.
func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// fatalf prints an error to stderr and exits 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "resolver_cache_dump: "+format+"\n", args...)
	os.Exit(1)
}
