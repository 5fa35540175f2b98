// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package radix converts share ordinates between positional text in bases
// 2 through 36 and exact big integers.
package radix

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// MinBase is the smallest supported radix.
	MinBase = 2
	// MaxBase is the largest supported radix.
	MaxBase = 36
)

var (
	ErrInvalidBase      = errors.New("base must be between 2 and 36")
	ErrEmptyValue       = errors.New("empty value")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrDigitTooLarge    = errors.New("digit not valid under base")
	ErrNegativeValue    = errors.New("value must not be negative")
)

// Decode interprets text as a non-negative integer written in the given
// base and returns its exact value. Digits are the usual 0-9 followed by
// a-z for 10 through 35, case-insensitive. Leading and trailing
// whitespace is ignored; anything else unexpected is an error.
func Decode(text string, base int) (*big.Int, error) {
	if base < MinBase || base > MaxBase {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBase, base)
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) == 0 {
		return nil, ErrEmptyValue
	}

	value := new(big.Int)
	bigBase := big.NewInt(int64(base))
	digit := new(big.Int)
	for i, r := range trimmed {
		d, err := digitValue(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q at offset %d", err, r, i)
		}
		if d >= base {
			return nil, fmt.Errorf("%w: %q at offset %d in base %d", ErrDigitTooLarge, r, i, base)
		}
		value.Mul(value, bigBase)
		value.Add(value, digit.SetInt64(int64(d)))
	}
	return value, nil
}

// Encode renders a non-negative value in the given base using lowercase
// digits. It is the inverse of Decode for canonical (untrimmed,
// lowercase, no leading zeros) text.
func Encode(value *big.Int, base int) (string, error) {
	if base < MinBase || base > MaxBase {
		return "", fmt.Errorf("%w: got %d", ErrInvalidBase, base)
	}
	if value.Sign() < 0 {
		return "", fmt.Errorf("%w: got %s", ErrNegativeValue, value)
	}
	return value.Text(base), nil
}

func digitValue(r rune) (int, error) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), nil
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10, nil
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10, nil
	default:
		return 0, ErrInvalidCharacter
	}
}
