// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

// Binomial returns the number of k-element subsets of an n-element set.
// Unlike the gonum equivalent it reports overflow as an error instead of
// panicking, so callers can reject oversized inputs gracefully. The
// check is conservative: an intermediate product that exceeds 64 bits is
// reported as overflow even when the final value would fit.
func Binomial(n, k uint64) (uint64, error) {
	if k > n {
		return 0, nil
	}
	if k > n-k {
		k = n - k
	}

	// result holds C(n-k+i, i) after step i; each step multiplies by
	// (n-k+i) and divides exactly by i.
	result := uint64(1)
	for i := uint64(1); i <= k; i++ {
		v, err := Mul(result, n-k+i)
		if err != nil {
			return 0, err
		}
		result = v / i
	}
	return result, nil
}
