// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cracker

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/shamir"

	safemath "github.com/luxfi/shamir/utils/math"
)

// polyShares samples an integer polynomial (coefficients low to high) at
// the given abscissas, then applies the corruption offsets.
func polyShares(coefficients []int64, xs []uint64, corrupt map[uint64]int64) []shamir.Share {
	shares := make([]shamir.Share, len(xs))
	for i, x := range xs {
		y := new(big.Int)
		bigX := new(big.Int).SetUint64(x)
		for j := len(coefficients) - 1; j >= 0; j-- {
			y.Mul(y, bigX)
			y.Add(y, big.NewInt(coefficients[j]))
		}
		y.Add(y, big.NewInt(corrupt[x]))
		shares[i] = shamir.Share{
			X:    x,
			Y:    y,
			Base: 10,
			Raw:  y.String(),
		}
	}
	return shares
}

func rawShares(points [][2]int64) []shamir.Share {
	shares := make([]shamir.Share, len(points))
	for i, p := range points {
		y := big.NewInt(p[1])
		shares[i] = shamir.Share{
			X:    uint64(p[0]),
			Y:    y,
			Base: 10,
			Raw:  y.String(),
		}
	}
	return shares
}

func TestCrackUnanimous(t *testing.T) {
	require := require.New(t)

	// f(x) = x^2 + 3
	set := shamir.ShareSet{
		Declared:  4,
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 4}, {2, 7}, {3, 12}, {6, 39}}),
	}

	cracker := &Cracker{}
	result, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Equal("3", result.Secret.String())
	require.Empty(result.FaultyIDs())
	require.Equal(float64(1), result.Confidence)
	require.Equal(Diagnostics{
		Combinations: 4,
		Interpolated: 4,
		Agreeing:     4,
	}, result.Diagnostics)
}

func TestCrackSingleCorruptedShare(t *testing.T) {
	require := require.New(t)

	// f(x) = 2x^2 - 3x + 7 with the x=4 ordinate rewritten from 27 to
	// 100. Four of the ten subsets keep the true polynomial, the other
	// integral ones scatter.
	set := shamir.ShareSet{
		Declared:  5,
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 6}, {2, 9}, {3, 16}, {4, 100}, {5, 42}}),
	}

	cracker := &Cracker{}
	result, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Equal("7", result.Secret.String())
	require.Equal([]uint64{4}, result.FaultyIDs())
	require.Equal(0.5, result.Confidence)
	require.Equal(Diagnostics{
		Combinations: 10,
		Interpolated: 8,
		Agreeing:     4,
	}, result.Diagnostics)
}

func TestCrackThreeCorruptedOfTen(t *testing.T) {
	require := require.New(t)

	// Degree-6 polynomial sampled at ten abscissas spread over two
	// residue classes mod 7; three ordinates are offset. Every subset
	// containing a corrupted share picks up a factor of 7 in its
	// Lagrange denominators, so only the all-genuine subset survives.
	set := shamir.ShareSet{
		Declared:  10,
		Threshold: 7,
		Shares: polyShares(
			[]int64{620347, -5, 3, 1, 0, 2, 1},
			[]uint64{1, 2, 8, 9, 15, 16, 22, 23, 29, 30},
			map[uint64]int64{1: 1, 15: 2, 29: 3},
		),
	}

	cracker := &Cracker{}
	result, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Equal("620347", result.Secret.String())
	require.Equal([]uint64{1, 15, 29}, result.FaultyIDs())
	require.Greater(result.Confidence, 0.5)
	require.Equal(Diagnostics{
		Combinations: 120,
		Interpolated: 1,
		Agreeing:     1,
	}, result.Diagnostics)
}

func TestCrackNoConsensus(t *testing.T) {
	require := require.New(t)

	// Every pair interpolates to a half-integer.
	set := shamir.ShareSet{
		Declared:  3,
		Threshold: 2,
		Shares:    rawShares([][2]int64{{1, 1}, {3, 2}, {5, 3}}),
	}

	cracker := &Cracker{}
	result, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Nil(result.Secret)
	require.Empty(result.FaultyIDs())
	require.Zero(result.Confidence)
	require.Equal(Diagnostics{
		Combinations: 3,
		Interpolated: 0,
		Agreeing:     0,
	}, result.Diagnostics)
}

func TestCrackTieBreaksToFirstSeen(t *testing.T) {
	require := require.New(t)

	// Four integral pairs with four distinct candidates; the winner
	// must be the candidate of the lexicographically first subset.
	set := shamir.ShareSet{
		Declared:  4,
		Threshold: 2,
		Shares:    rawShares([][2]int64{{1, 2}, {2, 4}, {3, 5}, {4, 7}}),
	}

	cracker := &Cracker{}
	result, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Equal("0", result.Secret.String())
	require.Equal([]uint64{3, 4}, result.FaultyIDs())
	require.Equal(0.25, result.Confidence)
	require.Equal(Diagnostics{
		Combinations: 6,
		Interpolated: 4,
		Agreeing:     1,
	}, result.Diagnostics)
}

func TestCrackExactThreshold(t *testing.T) {
	require := require.New(t)

	set := shamir.ShareSet{
		Declared:  3,
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 4}, {2, 7}, {3, 12}}),
	}

	cracker := &Cracker{}
	result, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Equal("3", result.Secret.String())
	require.Empty(result.FaultyIDs())
	require.Equal(float64(1), result.Confidence)
	require.Equal(uint64(1), result.Diagnostics.Combinations)
}

func TestCrackConfidenceDegrades(t *testing.T) {
	require := require.New(t)

	oneCorrupt := shamir.ShareSet{
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 6}, {2, 9}, {3, 16}, {4, 100}, {5, 42}}),
	}
	twoCorrupt := shamir.ShareSet{
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 6}, {2, 55}, {3, 16}, {4, 100}, {5, 42}}),
	}

	cracker := &Cracker{}
	first, err := cracker.Crack(context.Background(), oneCorrupt)
	require.NoError(err)
	second, err := cracker.Crack(context.Background(), twoCorrupt)
	require.NoError(err)

	require.Less(second.Confidence, first.Confidence)

	// With two corrupted shares the genuine subsets lose their
	// plurality and the first-seen candidate wins the all-ones tie.
	require.Equal("-131", second.Secret.String())
	require.Equal([]uint64{4, 5}, second.FaultyIDs())
	require.Equal(Diagnostics{
		Combinations: 10,
		Interpolated: 6,
		Agreeing:     1,
	}, second.Diagnostics)
}

func TestCrackIdempotent(t *testing.T) {
	require := require.New(t)

	set := shamir.ShareSet{
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 6}, {2, 9}, {3, 16}, {4, 100}, {5, 42}}),
	}

	cracker := &Cracker{}
	first, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	second, err := cracker.Crack(context.Background(), set)
	require.NoError(err)
	require.Equal(first, second)
}

func TestCrackParallelMatchesSequential(t *testing.T) {
	sets := map[string]shamir.ShareSet{
		"three corrupted of ten": {
			Threshold: 7,
			Shares: polyShares(
				[]int64{620347, -5, 3, 1, 0, 2, 1},
				[]uint64{1, 2, 8, 9, 15, 16, 22, 23, 29, 30},
				map[uint64]int64{1: 1, 15: 2, 29: 3},
			),
		},
		"single corrupted of five": {
			Threshold: 3,
			Shares:    rawShares([][2]int64{{1, 6}, {2, 9}, {3, 16}, {4, 100}, {5, 42}}),
		},
		"all candidates tied": {
			Threshold: 2,
			Shares:    rawShares([][2]int64{{1, 2}, {2, 4}, {3, 5}, {4, 7}}),
		},
	}
	for name, set := range sets {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			sequential, err := (&Cracker{}).Crack(context.Background(), set)
			require.NoError(err)
			parallel, err := (&Cracker{Workers: 4}).Crack(context.Background(), set)
			require.NoError(err)
			require.Equal(sequential, parallel)
		})
	}
}

func TestCrackInvalidSets(t *testing.T) {
	tests := []struct {
		name        string
		set         shamir.ShareSet
		expectedErr error
	}{
		{
			name: "threshold too small",
			set: shamir.ShareSet{
				Threshold: 1,
				Shares:    rawShares([][2]int64{{1, 4}, {2, 7}}),
			},
			expectedErr: shamir.ErrThresholdTooSmall,
		},
		{
			name: "not enough shares",
			set: shamir.ShareSet{
				Threshold: 3,
				Shares:    rawShares([][2]int64{{1, 4}, {2, 7}}),
			},
			expectedErr: shamir.ErrNotEnoughShares,
		},
		{
			name: "duplicate identifier",
			set: shamir.ShareSet{
				Threshold: 2,
				Shares:    rawShares([][2]int64{{1, 4}, {1, 7}}),
			},
			expectedErr: shamir.ErrDuplicateShare,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := (&Cracker{}).Crack(context.Background(), test.set)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestCrackSubsetCountOverflow(t *testing.T) {
	require := require.New(t)

	points := make([][2]int64, 70)
	for i := range points {
		points[i] = [2]int64{int64(i) + 1, int64(i)}
	}
	set := shamir.ShareSet{
		Threshold: 35,
		Shares:    rawShares(points),
	}

	_, err := (&Cracker{}).Crack(context.Background(), set)
	require.ErrorIs(err, safemath.ErrOverflow)
}

func TestCrackCancelledContext(t *testing.T) {
	set := shamir.ShareSet{
		Threshold: 3,
		Shares:    rawShares([][2]int64{{1, 4}, {2, 7}, {3, 12}, {6, 39}}),
	}
	for _, workers := range []int{0, 4} {
		t.Run(fmt.Sprintf("workers %d", workers), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := (&Cracker{Workers: workers}).Crack(ctx, set)
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}
