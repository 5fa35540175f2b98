// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides the JSON helpers the API surface relies on:
// numeric types that travel as strings and the RPC codec.
package json

import "strconv"

const Null = "null"

// Uint32 is a uint32 that is JSON marshaled as a string.
type Uint32 uint32

func (u Uint32) MarshalJSON() ([]byte, error) {
	return quote(strconv.FormatUint(uint64(u), 10)), nil
}

func (u *Uint32) UnmarshalJSON(b []byte) error {
	str, ok := unquote(b)
	if !ok {
		return nil
	}
	val, err := strconv.ParseUint(str, 10, 32)
	*u = Uint32(val)
	return err
}

// Uint64 is a uint64 that is JSON marshaled as a string.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return quote(strconv.FormatUint(uint64(u), 10)), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	str, ok := unquote(b)
	if !ok {
		return nil
	}
	val, err := strconv.ParseUint(str, 10, 64)
	*u = Uint64(val)
	return err
}

// Float64 is a float64 that is JSON marshaled as a string with four
// decimal places.
type Float64 float64

func (f Float64) MarshalJSON() ([]byte, error) {
	return quote(strconv.FormatFloat(float64(f), 'f', 4, 64)), nil
}

func (f *Float64) UnmarshalJSON(b []byte) error {
	str, ok := unquote(b)
	if !ok {
		return nil
	}
	val, err := strconv.ParseFloat(str, 64)
	*f = Float64(val)
	return err
}

func quote(s string) []byte {
	return []byte(`"` + s + `"`)
}

// unquote strips surrounding quotes when present and reports whether the
// input carries a value at all. JSON null leaves the target untouched.
func unquote(b []byte) (string, bool) {
	str := string(b)
	if str == Null {
		return "", false
	}
	if last := len(str) - 1; len(str) >= 2 && str[0] == '"' && str[last] == '"' {
		str = str[1:last]
	}
	return str, true
}
