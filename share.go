// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package shamir recovers the secret behind a threshold secret-sharing
// share set, tolerating and identifying corrupted shares.
//
// Shares arrive with their ordinates encoded in arbitrary bases between 2
// and 36. The radix package decodes them exactly, the lagrange package
// interpolates threshold-sized subsets at zero over exact rationals, and
// the cracker package drives a majority vote across every subset to find
// the secret and flag the shares inconsistent with it.
package shamir

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/math/set"
)

// Version is the canonical version of this module.
const Version = "v0.1.0"

var (
	ErrThresholdTooSmall = errors.New("threshold must be at least 2")
	ErrNotEnoughShares   = errors.New("not enough shares for reconstruction")
	ErrDuplicateShare    = errors.New("duplicate share identifier")
	ErrZeroIdentifier    = errors.New("share identifier must be positive")
	ErrMissingOrdinate   = errors.New("share ordinate is nil")
)

// Share is a single decoded data point of a threshold sharing instance.
// Shares are created by the challenge loader and never mutated afterward.
type Share struct {
	// X is the share's identifier, unique within its set.
	X uint64
	// Y is the exact decoded ordinate.
	Y *big.Int
	// Base is the radix the ordinate was declared in, in [2, 36].
	Base int
	// Raw is the ordinate as it appeared on the wire, kept for
	// diagnostics only.
	Raw string
}

func (s Share) String() string {
	return fmt.Sprintf("share x=%d base=%d value=%q", s.X, s.Base, s.Raw)
}

// ShareSet is every share of one instance together with the declared
// share count and the reconstruction threshold.
type ShareSet struct {
	// Declared is the share count the source claimed to provide. It is
	// informational; the authoritative count is len(Shares).
	Declared int
	// Threshold is the number of shares required for reconstruction.
	Threshold int
	// Shares holds the decoded shares.
	Shares []Share
}

// Validate checks the set's structural invariants: a threshold of at
// least 2, at least Threshold shares, and positive pairwise-distinct
// identifiers with non-nil ordinates.
func (s ShareSet) Validate() error {
	if s.Threshold < 2 {
		return fmt.Errorf("%w: got %d", ErrThresholdTooSmall, s.Threshold)
	}
	if len(s.Shares) < s.Threshold {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughShares, len(s.Shares), s.Threshold)
	}
	seen := set.NewSet[uint64](len(s.Shares))
	for _, share := range s.Shares {
		if share.X == 0 {
			return ErrZeroIdentifier
		}
		if share.Y == nil {
			return fmt.Errorf("%w: x=%d", ErrMissingOrdinate, share.X)
		}
		if seen.Contains(share.X) {
			return fmt.Errorf("%w: x=%d", ErrDuplicateShare, share.X)
		}
		seen.Add(share.X)
	}
	return nil
}

// IDs returns the set of share identifiers.
func (s ShareSet) IDs() set.Set[uint64] {
	ids := set.NewSet[uint64](len(s.Shares))
	for _, share := range s.Shares {
		ids.Add(share.X)
	}
	return ids
}
