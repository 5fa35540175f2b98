// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cracker recovers the secret behind a threshold share set by
// majority vote across every threshold-sized subset and flags the shares
// that never agree with the winning polynomial.
package cracker

import (
	"context"
	"math/big"
	"slices"

	"github.com/luxfi/math/set"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/luxfi/shamir"
	"github.com/luxfi/shamir/lagrange"

	safemath "github.com/luxfi/shamir/utils/math"
)

// Diagnostics counts what the vote saw.
type Diagnostics struct {
	// Combinations is the number of threshold-sized subsets considered.
	Combinations uint64
	// Interpolated is the number of subsets that produced an integral
	// secret candidate.
	Interpolated uint64
	// Agreeing is the number of subsets that produced the winning
	// secret.
	Agreeing uint64
}

// Result is the outcome of cracking one share set. It is created once
// and never mutated afterward.
type Result struct {
	// Secret is the recovered constant term, or nil when no subset
	// interpolated to an integer.
	Secret *big.Int
	// Faulty holds the identifiers of shares that appear in no subset
	// agreeing with the winning secret. Empty when there is no winner.
	Faulty set.Set[uint64]
	// Confidence is the fraction of successful subsets that agree with
	// the winning secret, in [0, 1]. Zero when no subset succeeded.
	Confidence float64
	// Diagnostics reports the vote's raw counts.
	Diagnostics Diagnostics
}

// FaultyIDs returns the faulty share identifiers in ascending order.
func (r *Result) FaultyIDs() []uint64 {
	ids := r.Faulty.List()
	slices.Sort(ids)
	return ids
}

// Cracker runs consensus cracking over share sets. The zero value
// evaluates subsets sequentially; setting Workers above 1 spreads the
// evaluation over that many goroutines without changing the result.
type Cracker struct {
	Workers int
}

// Crack enumerates every Threshold-sized subset of the set's shares,
// interpolates each at zero, and elects the most frequent integral
// secret. Subsets that fail to interpolate are discarded. Ties are
// broken toward the secret seen earliest in enumeration order, which is
// lexicographic over the input order, so the result is reproducible for
// a given input ordering.
//
// Crack returns an error only when the share set violates its structural
// invariants, the subset count overflows, or ctx is cancelled. Failing
// to reach consensus is reported in the Result, not as an error.
func (c *Cracker) Crack(ctx context.Context, shares shamir.ShareSet) (*Result, error) {
	if err := shares.Validate(); err != nil {
		return nil, err
	}

	n := len(shares.Shares)
	k := shares.Threshold
	combinations, err := safemath.Binomial(uint64(n), uint64(k))
	if err != nil {
		return nil, err
	}

	var (
		tallies      map[string]*tally
		interpolated uint64
	)
	if c.Workers > 1 {
		tallies, interpolated, err = c.voteParallel(ctx, shares.Shares, k)
	} else {
		tallies, interpolated, err = c.vote(ctx, shares.Shares, k)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Faulty: make(set.Set[uint64]),
		Diagnostics: Diagnostics{
			Combinations: combinations,
			Interpolated: interpolated,
		},
	}
	winner := pickWinner(tallies)
	if winner == nil {
		return result, nil
	}

	result.Secret = winner.secret
	result.Confidence = float64(winner.count) / float64(interpolated)
	result.Diagnostics.Agreeing = winner.count
	for _, share := range shares.Shares {
		if !winner.members.Contains(share.X) {
			result.Faulty.Add(share.X)
		}
	}
	return result, nil
}

// tally accumulates the evidence for one candidate secret.
type tally struct {
	secret *big.Int
	// count is the number of subsets that produced the secret.
	count uint64
	// members is the union of the share identifiers of those subsets.
	members set.Set[uint64]
	// first is the lowest enumeration index that produced the secret.
	first uint64
}

// vote evaluates every subset on the calling goroutine.
func (*Cracker) vote(ctx context.Context, shares []shamir.Share, k int) (map[string]*tally, uint64, error) {
	tallies := make(map[string]*tally)
	interpolated := uint64(0)

	generator := combin.NewCombinationGenerator(len(shares), k)
	combo := make([]int, k)
	for index := uint64(0); generator.Next(); index++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		generator.Combination(combo)
		secret, members, ok := evaluate(shares, combo)
		if !ok {
			continue
		}
		interpolated++
		record(tallies, secret, members, index)
	}
	return tallies, interpolated, nil
}

// voteParallel splits the enumeration across workers. Each worker keeps
// a private tally keyed by the global enumeration index of each subset;
// merging by summed counts, unioned members, and minimum first-seen
// index makes the outcome identical to the sequential vote no matter how
// subsets are scheduled.
func (c *Cracker) voteParallel(ctx context.Context, shares []shamir.Share, k int) (map[string]*tally, uint64, error) {
	type job struct {
		index uint64
		combo []int
	}

	workers := c.Workers
	eg, egCtx := errgroup.WithContext(ctx)
	jobs := make(chan job, workers)

	eg.Go(func() error {
		defer close(jobs)
		generator := combin.NewCombinationGenerator(len(shares), k)
		for index := uint64(0); generator.Next(); index++ {
			combo := make([]int, k)
			generator.Combination(combo)
			select {
			case jobs <- job{index: index, combo: combo}:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	locals := make([]map[string]*tally, workers)
	counts := make([]uint64, workers)
	for w := 0; w < workers; w++ {
		local := make(map[string]*tally)
		locals[w] = local
		eg.Go(func() error {
			for j := range jobs {
				if err := egCtx.Err(); err != nil {
					return err
				}
				secret, members, ok := evaluate(shares, j.combo)
				if !ok {
					continue
				}
				counts[w]++
				record(local, secret, members, j.index)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	tallies := make(map[string]*tally)
	interpolated := uint64(0)
	for w, local := range locals {
		interpolated += counts[w]
		for key, t := range local {
			existing, ok := tallies[key]
			if !ok {
				tallies[key] = t
				continue
			}
			existing.count += t.count
			existing.members.Union(t.members)
			existing.first = min(existing.first, t.first)
		}
	}
	return tallies, interpolated, nil
}

// evaluate interpolates one subset at zero. ok is false when the subset
// does not determine an integral secret.
func evaluate(shares []shamir.Share, combo []int) (*big.Int, []uint64, bool) {
	points := make([]lagrange.Point, len(combo))
	members := make([]uint64, len(combo))
	for i, index := range combo {
		share := shares[index]
		points[i] = lagrange.Point{X: share.X, Y: share.Y}
		members[i] = share.X
	}
	secret, err := lagrange.AtZero(points)
	if err != nil {
		return nil, nil, false
	}
	return secret, members, true
}

func record(tallies map[string]*tally, secret *big.Int, members []uint64, index uint64) {
	key := secret.String()
	t, ok := tallies[key]
	if !ok {
		t = &tally{
			secret:  secret,
			members: set.NewSet[uint64](len(members)),
			first:   index,
		}
		tallies[key] = t
	}
	t.count++
	t.first = min(t.first, index)
	for _, member := range members {
		t.members.Add(member)
	}
}

// pickWinner returns the tally with the highest count, breaking ties
// toward the lowest first-seen enumeration index. The (count, first)
// ordering is total because no two candidates share a first index, so
// map iteration order cannot leak into the outcome.
func pickWinner(tallies map[string]*tally) *tally {
	var winner *tally
	for _, t := range tallies {
		if winner == nil ||
			t.count > winner.count ||
			(t.count == winner.count && t.first < winner.first) {
			winner = t
		}
	}
	return winner
}
