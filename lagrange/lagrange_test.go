// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lagrange

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtZero(t *testing.T) {
	tests := []struct {
		name        string
		points      []Point
		expected    int64
		expectedErr error
	}{
		{
			name: "quadratic",
			// f(x) = x^2 + 3
			points: []Point{
				{X: 1, Y: big.NewInt(4)},
				{X: 2, Y: big.NewInt(7)},
				{X: 3, Y: big.NewInt(12)},
			},
			expected: 3,
		},
		{
			name: "line",
			// f(x) = 3x + 1
			points: []Point{
				{X: 2, Y: big.NewInt(7)},
				{X: 5, Y: big.NewInt(16)},
			},
			expected: 1,
		},
		{
			name: "negative ordinates",
			// f(x) = -5x + 3
			points: []Point{
				{X: 1, Y: big.NewInt(-2)},
				{X: 2, Y: big.NewInt(-7)},
			},
			expected: 3,
		},
		{
			name: "cubic with large constant",
			// f(x) = 7x^3 - 2x^2 + 11x + 982451653
			points: []Point{
				{X: 2, Y: big.NewInt(982451723)},
				{X: 5, Y: big.NewInt(982452533)},
				{X: 9, Y: big.NewInt(982456693)},
				{X: 14, Y: big.NewInt(982470623)},
			},
			expected: 982451653,
		},
		{
			name: "not on an integer polynomial",
			points: []Point{
				{X: 1, Y: big.NewInt(1)},
				{X: 3, Y: big.NewInt(2)},
			},
			expectedErr: ErrNonIntegral,
		},
		{
			name: "single point",
			points: []Point{
				{X: 1, Y: big.NewInt(4)},
			},
			expectedErr: ErrInsufficientPoints,
		},
		{
			name:        "no points",
			points:      nil,
			expectedErr: ErrInsufficientPoints,
		},
		{
			name: "duplicate abscissa",
			points: []Point{
				{X: 1, Y: big.NewInt(4)},
				{X: 2, Y: big.NewInt(7)},
				{X: 1, Y: big.NewInt(9)},
			},
			expectedErr: ErrDuplicateAbscissa,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			value, err := AtZero(test.points)
			if test.expectedErr != nil {
				require.ErrorIs(err, test.expectedErr)
				return
			}
			require.NoError(err)
			require.Equal(big.NewInt(test.expected), value)
		})
	}
}

func TestAtZeroOrderIndependent(t *testing.T) {
	require := require.New(t)

	ordered := []Point{
		{X: 1, Y: big.NewInt(4)},
		{X: 2, Y: big.NewInt(7)},
		{X: 3, Y: big.NewInt(12)},
	}
	shuffled := []Point{ordered[2], ordered[0], ordered[1]}

	a, err := AtZero(ordered)
	require.NoError(err)
	b, err := AtZero(shuffled)
	require.NoError(err)
	require.Equal(a, b)
}

func TestAtZeroDoesNotMutateInputs(t *testing.T) {
	require := require.New(t)

	y := big.NewInt(4)
	points := []Point{
		{X: 1, Y: y},
		{X: 2, Y: big.NewInt(7)},
	}
	_, err := AtZero(points)
	require.NoError(err)
	require.Equal(big.NewInt(4), y)
}
