// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lagrange evaluates the unique polynomial through a set of
// integer points at zero, exactly, over rationals.
package lagrange

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/math/set"
)

var (
	ErrInsufficientPoints = errors.New("at least 2 points are required")
	ErrDuplicateAbscissa  = errors.New("duplicate x-coordinate")
	ErrNonIntegral        = errors.New("interpolation at zero is not an integer")
)

// Point is one (x, y) sample of the polynomial.
type Point struct {
	X uint64
	Y *big.Int
}

// AtZero returns f(0) for the unique polynomial f of degree len(points)-1
// passing through every point. All arithmetic is exact; if the rational
// result is not an integer the points do not lie on an integer
// polynomial of that degree and ErrNonIntegral is returned.
func AtZero(points []Point) (*big.Int, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientPoints, len(points))
	}
	seen := set.NewSet[uint64](len(points))
	for _, p := range points {
		if seen.Contains(p.X) {
			return nil, fmt.Errorf("%w: x=%d", ErrDuplicateAbscissa, p.X)
		}
		seen.Add(p.X)
	}

	// f(0) = sum_i y_i * prod_{j != i} (-x_j) / (x_i - x_j)
	sum := new(big.Rat)
	for i, p := range points {
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)
		xi := new(big.Int).SetUint64(p.X)
		scratch := new(big.Int)
		for j, q := range points {
			if i == j {
				continue
			}
			xj := scratch.SetUint64(q.X)
			numerator.Mul(numerator, new(big.Int).Neg(xj))
			denominator.Mul(denominator, new(big.Int).Sub(xi, xj))
		}
		term := new(big.Rat).SetFrac(new(big.Int).Mul(p.Y, numerator), denominator)
		sum.Add(sum, term)
	}

	if !sum.IsInt() {
		return nil, ErrNonIntegral
	}
	return new(big.Int).Set(sum.Num()), nil
}
