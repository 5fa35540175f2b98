// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package challenge parses the serialized share-set documents the solver
// consumes.
//
// A challenge is a JSON object with a "keys" header declaring the share
// count n and the reconstruction threshold k, plus one member per share
// keyed by the share's decimal identifier:
//
//	{
//	    "keys": { "n": 4, "k": 3 },
//	    "1": { "base": "10", "value": "4" },
//	    "2": { "base": "2", "value": "111" }
//	}
//
// A missing or invalid header aborts parsing. Anything wrong with an
// individual share never does: the share is dropped with a recorded
// reason and the rest of the document proceeds.
package challenge

import (
	"cmp"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/shamir"
	"github.com/luxfi/shamir/radix"
)

const headerKey = "keys"

var (
	ErrMalformed     = errors.New("malformed challenge document")
	ErrMissingHeader = errors.New("missing keys header")
	ErrBadHeader     = errors.New("invalid keys header")
)

// Entry is one share as it appeared in the document, not yet decoded.
type Entry struct {
	X     uint64
	Base  string
	Value string
}

// Dropped records a share excluded from a challenge and why.
type Dropped struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Challenge is a parsed share-set document. Entries hold the shares
// whose keys and bodies were well-formed, ascending by identifier;
// decoding them is a separate step so that callers control logging and
// observe what was dropped.
type Challenge struct {
	N       int
	K       int
	Entries []Entry

	malformed []Dropped
}

// Parse reads a serialized challenge. Share members with a non-numeric
// key or a body that is not a {base, value} string object are set aside
// and surface as Dropped entries when the challenge is decoded.
func Parse(b []byte) (*Challenge, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	rawHeader, ok := doc[headerKey]
	if !ok {
		return nil, ErrMissingHeader
	}
	var header struct {
		N int `json:"n"`
		K int `json:"k"`
	}
	if err := json.Unmarshal(rawHeader, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if header.N <= 0 || header.K <= 0 {
		return nil, fmt.Errorf("%w: n=%d k=%d", ErrBadHeader, header.N, header.K)
	}

	c := &Challenge{
		N: header.N,
		K: header.K,
	}
	for key, raw := range doc {
		if key == headerKey {
			continue
		}
		x, err := strconv.ParseUint(key, 10, 64)
		if err != nil || x == 0 {
			c.malformed = append(c.malformed, Dropped{
				Key:    key,
				Reason: "share key is not a positive integer",
			})
			continue
		}
		var body struct {
			Base  string `json:"base"`
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			c.malformed = append(c.malformed, Dropped{
				Key:    key,
				Reason: "share entry is not a base/value object",
			})
			continue
		}
		c.Entries = append(c.Entries, Entry{
			X:     x,
			Base:  body.Base,
			Value: body.Value,
		})
	}

	// The document is a JSON object, so member order is not meaningful.
	// Sorting fixes the order everything downstream observes.
	slices.SortFunc(c.Entries, func(a, b Entry) int {
		return cmp.Compare(a.X, b.X)
	})
	slices.SortFunc(c.malformed, func(a, b Dropped) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return c, nil
}

// canonical is the form the content-addressed id hashes: the header and
// the well-formed entries, re-marshaled so the id is independent of the
// source document's formatting and member order. JSON escaping keeps the
// serialization injective; no base or value string can impersonate
// another entry's boundary.
type canonical struct {
	N       int     `json:"n"`
	K       int     `json:"k"`
	Entries []Entry `json:"entries"`
}

// ID returns the challenge's content-addressed identifier. Two documents
// with the same header and entries hash identically; any difference in
// content yields a different id.
func (c *Challenge) ID() ids.ID {
	bytes, err := json.Marshal(canonical{
		N:       c.N,
		K:       c.K,
		Entries: c.Entries,
	})
	if err != nil {
		// Ints, strings, and slices of them always marshal.
		panic(err)
	}
	return ids.ID(sha256.Sum256(bytes))
}

// Decode radix-decodes every entry into a ShareSet. Entries whose base
// or value does not decode are dropped: logged at Warn, reported in the
// returned list, and excluded from the set. The set is not validated
// here; dropping can leave fewer than K shares, which surfaces when the
// caller cracks it.
func (c *Challenge) Decode(logger log.Logger) (shamir.ShareSet, []Dropped) {
	dropped := slices.Clone(c.malformed)
	for _, d := range dropped {
		logger.Warn("dropping unparseable share",
			log.String("key", d.Key),
			log.String("reason", d.Reason),
		)
	}

	shares := make([]shamir.Share, 0, len(c.Entries))
	for _, e := range c.Entries {
		base, err := strconv.Atoi(strings.TrimSpace(e.Base))
		if err != nil {
			dropped = append(dropped, dropEntry(logger, e, fmt.Sprintf("base %q is not an integer", e.Base)))
			continue
		}
		y, err := radix.Decode(e.Value, base)
		if err != nil {
			dropped = append(dropped, dropEntry(logger, e, err.Error()))
			continue
		}
		shares = append(shares, shamir.Share{
			X:    e.X,
			Y:    y,
			Base: base,
			Raw:  e.Value,
		})
	}

	return shamir.ShareSet{
		Declared:  c.N,
		Threshold: c.K,
		Shares:    shares,
	}, dropped
}

func dropEntry(logger log.Logger, e Entry, reason string) Dropped {
	logger.Warn("dropping undecodable share",
		log.Uint64("x", e.X),
		log.String("reason", reason),
	)
	return Dropped{
		Key:    strconv.FormatUint(e.X, 10),
		Reason: reason,
	}
}
