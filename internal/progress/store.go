// Scoutdeck - Startup Discovery Swipe Engine
// Copyright 2026 Scoutdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutdeck/scoutdeck

// Package progress persists the set of users who have exhausted their
// candidate pool at least once, for social-proof display. The set is
// append-only and deduplicated by user identifier: a user who completes the
// pool twice is counted once.
package progress

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/scoutdeck/scoutdeck/internal/metrics"
)

// completedKeyPrefix namespaces completion keys in BadgerDB.
const completedKeyPrefix = "completed:"

// Store records pool-completion progress.
type Store interface {
	// Append marks a user as having completed the pool. Returns true only on
	// the first append for that user; duplicates are no-ops.
	Append(ctx context.Context, userID string) (bool, error)

	// Contains reports whether a user has completed the pool.
	Contains(ctx context.Context, userID string) (bool, error)

	// Count returns the number of distinct completed users.
	Count(ctx context.Context) (int, error)
}

// BadgerStore implements Store on BadgerDB for persistence across restarts.
type BadgerStore struct {
	db *badger.DB
}

// Open opens a BadgerDB-backed progress store at path. An empty path selects
// an in-memory store, used in development and tests.
func Open(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open progress store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an existing BadgerDB handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Append marks a user as completed, once. The existence check and the write
// share one transaction so concurrent appends for the same user cannot both
// report first.
func (s *BadgerStore) Append(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(completedKeyPrefix + userID)
	added := false

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil // already recorded
		}
		if err != badger.ErrKeyNotFound {
			return fmt.Errorf("check completion: %w", err)
		}

		ts := strconv.FormatInt(time.Now().Unix(), 10)
		if err := txn.Set(key, []byte(ts)); err != nil {
			return fmt.Errorf("set completion: %w", err)
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if added {
		if n, err := s.Count(ctx); err == nil {
			metrics.CompletedUsers.Set(float64(n))
		}
	}
	return added, nil
}

// Contains reports whether a user has completed the pool.
func (s *BadgerStore) Contains(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(completedKeyPrefix + userID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// Count returns the number of distinct completed users via a keys-only scan.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(completedKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count, nil
}
