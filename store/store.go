// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store persists solved challenges and their results.
package store

import (
	"cmp"
	"slices"
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"
)

var recordPrefix = []byte("record")

// DroppedShare is the stored form of a share excluded from a challenge.
type DroppedShare struct {
	Key    string `serialize:"true"`
	Reason string `serialize:"true"`
}

// Record is the stored form of one submitted challenge and its result.
// Records are written once when the challenge is solved and never
// updated; the store does not recompute anything.
type Record struct {
	// ID is the challenge's content-addressed identifier.
	ID ids.ID `serialize:"true"`
	// Document is the challenge as submitted.
	Document []byte `serialize:"true"`
	// N and K are the declared share count and threshold.
	N uint32 `serialize:"true"`
	K uint32 `serialize:"true"`

	// Solved reports whether any subset agreement was reached. When
	// false the secret is empty and Agreeing is zero.
	Solved bool `serialize:"true"`
	// Secret is the recovered value in decimal.
	Secret string `serialize:"true"`
	// Faulty holds the identifiers flagged as corrupted, ascending.
	Faulty []uint64 `serialize:"true"`
	// Dropped holds the shares excluded before cracking.
	Dropped []DroppedShare `serialize:"true"`

	Combinations uint64 `serialize:"true"`
	Interpolated uint64 `serialize:"true"`
	Agreeing     uint64 `serialize:"true"`

	// SubmittedAt and SolvedAt are unix seconds.
	SubmittedAt uint64 `serialize:"true"`
	SolvedAt    uint64 `serialize:"true"`
}

// Confidence is the share of successfully interpolated subsets that
// agreed on the secret. It is derived here so the stored form never
// carries a float.
func (r *Record) Confidence() float64 {
	if r.Interpolated == 0 {
		return 0
	}
	return float64(r.Agreeing) / float64(r.Interpolated)
}

// Store is a keyed record collection over a database. All methods are
// safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records database.Database
}

func New(db database.Database) *Store {
	return &Store{
		records: prefixdb.New(recordPrefix, db),
	}
}

func (s *Store) Put(r *Record) error {
	bytes, err := Codec.Marshal(codecVersion, r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records.Put(r.ID[:], bytes)
}

// Get returns the record for the given id, or database.ErrNotFound.
func (s *Store) Get(id ids.ID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bytes, err := s.records.Get(id[:])
	if err != nil {
		return nil, err
	}
	r := &Record{}
	if _, err := Codec.Unmarshal(bytes, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) Delete(id ids.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records.Delete(id[:])
}

// List returns every record, most recently solved first. Records solved
// in the same second order by id.
func (s *Store) List() ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iter := s.records.NewIterator()
	defer iter.Release()

	var records []*Record
	for iter.Next() {
		r := &Record{}
		if _, err := Codec.Unmarshal(iter.Value(), r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *Record) int {
		if a.SolvedAt != b.SolvedAt {
			return cmp.Compare(b.SolvedAt, a.SolvedAt)
		}
		return a.ID.Compare(b.ID)
	})
	return records, nil
}

// Len returns the number of stored records.
func (s *Store) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iter := s.records.NewIterator()
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}
