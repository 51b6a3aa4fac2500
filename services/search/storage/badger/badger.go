// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package badger wraps BadgerDB behind a small transaction-helper surface
// so callers never juggle raw Open options or forget to discard a txn.
//
// Thread Safety: DB is safe for concurrent use; transactions are
// per-goroutine.
package badger

import (
	"context"
	"fmt"

	dgbadger "github.com/dgraph-io/badger/v4"
)

// Config holds the options we actually vary between deployments.
type Config struct {
	// Path is the on-disk directory. Ignored when InMemory is set.
	Path string

	// InMemory runs the DB without any files (tests).
	InMemory bool

	// ReadOnly opens an existing DB without write access (inspection
	// tools).
	ReadOnly bool
}

// DefaultConfig returns an on-disk configuration with an empty path; the
// caller fills in Path before OpenDB.
func DefaultConfig() Config {
	return Config{}
}

// InMemoryConfig returns a configuration for an ephemeral in-memory DB.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// DB owns one BadgerDB instance.
type DB struct {
	db *dgbadger.DB
}

// OpenDB opens a BadgerDB instance with the given configuration.
//
// Description:
//
//	BadgerDB's own logger is silenced; callers log open/close at the
//	slog level they find appropriate.
func OpenDB(cfg Config) (*DB, error) {
	opts := dgbadger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithReadOnly(cfg.ReadOnly).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}
	db, err := dgbadger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: opening %q: %w", cfg.Path, err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying BadgerDB instance.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("badger: closing: %w", err)
	}
	return nil
}

// WithTxn runs fn inside a read-write transaction, committing on nil
// return. The context is checked before starting; BadgerDB itself does not
// take a context.
func (d *DB) WithTxn(ctx context.Context, fn func(txn *dgbadger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.Update(fn)
}

// WithReadTxn runs fn inside a read-only transaction.
func (d *DB) WithReadTxn(ctx context.Context, fn func(txn *dgbadger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

// Raw exposes the underlying handle for iteration-heavy tools (cache dump).
func (d *DB) Raw() *dgbadger.DB {
	return d.db
}
