// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

// =============================================================================
// BadgerStore — persisted resolver answers
// =============================================================================
//
// Name-resolution answers are slow to obtain (remote services, hundreds of
// milliseconds) but essentially static: a TNS designation does not move and
// an asteroid does not get renamed between restarts. This store persists
// normalized answers in BadgerDB so a service restart does not re-query the
// external resolvers for every recently-seen name.
//
// Design choices:
//
//	1. BadgerDB: answers are service infrastructure, not user data. The DB
//	   is embedded — no network call, no availability dependency.
//
//	2. The persisted key excludes the per-call timeout: the timeout shapes
//	   when to give up, not what the answer is. The in-process memo keeps
//	   the timeout in its key; the persisted tier stores the answer itself.
//
//	3. BadgerDB native TTL: expiry is enforced by BadgerDB's GC, not by
//	   application code. Expired keys return ErrKeyNotFound, which the
//	   store treats as a cache miss.
//
// Storage layout:
//
//	resolver/res/v1/{sha256(kind, name, reverse)}  →  gob-encoded []storedRecord
//	                                                  TTL: 24 hours

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	badgerstore "github.com/AleutianAI/AleutianSky/services/search/storage/badger"
)

// storeDefaultTTL is the default lifetime of a persisted answer. One day is
// long enough to absorb auto-suggest bursts and redeploys without serving
// stale designations indefinitely.
const storeDefaultTTL = 24 * time.Hour

// StoreKeyPrefix is prepended to the lookup hash to form the BadgerDB key.
// Versioned (v1) to allow future format changes without collision.
const StoreKeyPrefix = "resolver/res/v1/"

// errStoreMiss distinguishes "key not found" (a normal miss) from a genuine
// storage error inside Load.
var errStoreMiss = errors.New("store miss")

// Store persists resolver answers between service restarts.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Load retrieves a persisted answer.
	//
	// Returns (nil, false, nil) on miss (key absent or TTL expired).
	// Returns (nil, false, error) on storage failure.
	// Returns (records, true, nil) on hit; an empty non-nil slice is a
	// valid hit (the service answered and found nothing).
	Load(ctx context.Context, key string) ([]Record, bool, error)

	// Save persists an answer with the store's TTL. Persistence failure is
	// non-fatal to callers; the answer is simply re-fetched next time.
	Save(ctx context.Context, key string, records []Record) error
}

// storeKey builds the deterministic persisted key for one lookup.
func storeKey(kind Kind, name string, reverse bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\t%s\t%t\n", kind, name, reverse)
	return StoreKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// storedRecord is the gob-encoded form of a Record. Positions are flattened
// with an explicit presence flag because gob cannot round-trip a nil pointer
// distinctly from a zero value.
type storedRecord struct {
	Name     string
	FullName string
	RA       float64
	Dec      float64
	HasPos   bool
}

// BadgerStore implements Store backed by a BadgerDB instance.
//
// # Description
//
// Answers are gob-encoded as []storedRecord under the versioned key prefix.
// The DB is expected to be a service-global singleton opened at startup with
// its own path; this store does not own the DB lifecycle.
//
// # Thread Safety
//
// Safe for concurrent use. BadgerDB transactions are per-goroutine.
type BadgerStore struct {
	db     *badgerstore.DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewBadgerStore creates a BadgerStore over an opened DB.
//
// # Inputs
//
//   - db: Opened BadgerDB wrapper. Must not be nil.
//   - ttl: Lifetime for each persisted answer. Pass 0 for the default (24h).
//   - logger: Logger for hit/miss diagnostics. May be nil.
func NewBadgerStore(db *badgerstore.DB, ttl time.Duration, logger *slog.Logger) *BadgerStore {
	if db == nil {
		panic("NewBadgerStore: db must not be nil")
	}
	if ttl <= 0 {
		ttl = storeDefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerStore{db: db, ttl: ttl, logger: logger}
}

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context, key string) ([]Record, bool, error) {
	var raw []byte
	err := s.db.WithReadTxn(ctx, func(txn *dgbadger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return errStoreMiss
		}
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("copy value: %w", err)
		}
		return nil
	})

	if errors.Is(err, errStoreMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolver store load: %w", err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, false, fmt.Errorf("resolver store decode: %w", err)
	}
	s.logger.Debug("resolver store: hit", slog.Int("records", len(records)))
	return records, true, nil
}

// Save implements Store.
func (s *BadgerStore) Save(ctx context.Context, key string, records []Record) error {
	raw, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("resolver store encode: %w", err)
	}

	err = s.db.WithTxn(ctx, func(txn *dgbadger.Txn) error {
		entry := dgbadger.NewEntry([]byte(key), raw).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("resolver store save: %w", err)
	}

	s.logger.Debug("resolver store: saved",
		slog.Int("records", len(records)),
		slog.Duration("ttl", s.ttl),
	)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// encodeRecords serializes records using encoding/gob.
func encodeRecords(records []Record) ([]byte, error) {
	stored := make([]storedRecord, 0, len(records))
	for _, r := range records {
		sr := storedRecord{Name: r.Name, FullName: r.FullName}
		if r.RA != nil && r.Dec != nil {
			sr.RA, sr.Dec, sr.HasPos = *r.RA, *r.Dec, true
		}
		stored = append(stored, sr)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stored); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeRecords deserializes records from gob-encoded bytes.
func decodeRecords(data []byte) ([]Record, error) {
	var stored []storedRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&stored); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	records := make([]Record, 0, len(stored))
	for _, sr := range stored {
		r := Record{Name: sr.Name, FullName: sr.FullName}
		if sr.HasPos {
			ra, dec := sr.RA, sr.Dec
			r.RA, r.Dec = &ra, &dec
		}
		records = append(records, r)
	}
	return records, nil
}
