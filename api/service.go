// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api exposes the solver over JSON-RPC: the shamir service, the
// HTTP server hosting it, and a typed client.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"

	"github.com/luxfi/cache"
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/shamir"
	"github.com/luxfi/shamir/challenge"
	"github.com/luxfi/shamir/cracker"
	"github.com/luxfi/shamir/metrics"
	"github.com/luxfi/shamir/store"
	"github.com/luxfi/shamir/utils/timer/mockable"

	avajson "github.com/luxfi/shamir/utils/json"
)

var errTooManyShares = errors.New("challenge exceeds configured share limit")

type Config struct {
	Log     log.Logger
	Store   *store.Store
	Metrics *metrics.Metrics
	// Workers is the solver parallelism used when a request carries no
	// override.
	Workers int
	// MaxShares bounds how many shares one challenge may carry.
	MaxShares int
	// CacheSize bounds the result cache fronting store reads.
	CacheSize int
}

// Service is the API service backing the shamir namespace.
type Service struct {
	Config
	solver  cracker.Cracker
	results *cache.LRU[ids.ID, *store.Record]

	clock     mockable.Clock
	startedAt time.Time
}

// NewService returns a new shamir API service.
// All of the fields in [config] must be set.
func NewService(config Config) *Service {
	s := &Service{
		Config:  config,
		solver:  cracker.Cracker{Workers: config.Workers},
		results: cache.NewLRU[ids.ID, *store.Record](max(config.CacheSize, 1)),
	}
	s.startedAt = s.clock.Time()
	return s
}

// NewHandler returns an http.Handler serving [service] under the
// "shamir" namespace.
func NewHandler(service *Service) (http.Handler, error) {
	codec := avajson.NewCodec()

	server := rpc.NewServer()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(service.Metrics.InterceptRequest)
	server.RegisterAfterFunc(service.Metrics.AfterRequest)
	return server, server.RegisterService(service, "shamir")
}

// DroppedShare describes a share excluded before cracking.
type DroppedShare struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// ChallengeResult is the wire form of a solved challenge record.
type ChallengeResult struct {
	ID     ids.ID         `json:"id"`
	N      avajson.Uint32 `json:"n"`
	K      avajson.Uint32 `json:"k"`
	Solved bool           `json:"solved"`
	// Secret is the recovered value in decimal. Empty when no consensus
	// was reached.
	Secret string `json:"secret,omitempty"`
	// Faulty holds the identifiers of corrupted shares, ascending.
	Faulty []avajson.Uint64 `json:"faulty,omitempty"`
	// Confidence is the fraction of interpolated subsets agreeing with
	// the secret, in [0, 1].
	Confidence   avajson.Float64 `json:"confidence"`
	Combinations avajson.Uint64  `json:"combinations"`
	Interpolated avajson.Uint64  `json:"interpolated"`
	Agreeing     avajson.Uint64  `json:"agreeing"`
	Dropped      []DroppedShare  `json:"dropped,omitempty"`
	SubmittedAt  avajson.Uint64  `json:"submittedAt"`
	SolvedAt     avajson.Uint64  `json:"solvedAt"`
}

// resultFromRecord shapes a stored record for the wire.
func resultFromRecord(r *store.Record) ChallengeResult {
	result := ChallengeResult{
		ID:           r.ID,
		N:            avajson.Uint32(r.N),
		K:            avajson.Uint32(r.K),
		Solved:       r.Solved,
		Secret:       r.Secret,
		Confidence:   avajson.Float64(r.Confidence()),
		Combinations: avajson.Uint64(r.Combinations),
		Interpolated: avajson.Uint64(r.Interpolated),
		Agreeing:     avajson.Uint64(r.Agreeing),
		SubmittedAt:  avajson.Uint64(r.SubmittedAt),
		SolvedAt:     avajson.Uint64(r.SolvedAt),
	}
	for _, x := range r.Faulty {
		result.Faulty = append(result.Faulty, avajson.Uint64(x))
	}
	for _, d := range r.Dropped {
		result.Dropped = append(result.Dropped, DroppedShare{
			Key:    d.Key,
			Reason: d.Reason,
		})
	}
	return result
}

// SolveArgs are the arguments for calling Solve.
type SolveArgs struct {
	// Challenge is the share-set document to solve.
	Challenge json.RawMessage `json:"challenge"`
	// Workers overrides the configured solver parallelism when above
	// zero.
	Workers avajson.Uint32 `json:"workers,omitempty"`
}

// Solve cracks the submitted challenge and persists the outcome. A
// resubmitted challenge is answered from the store without solving
// again.
func (s *Service) Solve(r *http.Request, args *SolveArgs, reply *ChallengeResult) error {
	s.Log.Debug("API called",
		log.String("service", "shamir"),
		log.String("method", "solve"),
	)

	parsed, err := challenge.Parse(args.Challenge)
	if err != nil {
		return err
	}
	if limit := s.MaxShares; len(parsed.Entries) > limit {
		return fmt.Errorf("%w: %d shares, limit %d", errTooManyShares, len(parsed.Entries), limit)
	}

	id := parsed.ID()
	switch record, err := s.cachedRecord(id); {
	case err == nil:
		*reply = resultFromRecord(record)
		return nil
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	submittedAt := s.clock.Unix()
	shares, dropped := parsed.Decode(s.Log)
	s.Metrics.SharesDropped.Add(float64(len(dropped)))

	solver := s.solver
	if args.Workers > 0 {
		solver.Workers = int(args.Workers)
	}

	s.Metrics.SolvesInFlight.Inc()
	start := time.Now()
	result, err := solver.Crack(r.Context(), shares)
	duration := time.Since(start)
	s.Metrics.SolvesInFlight.Dec()
	s.Metrics.SolveDuration.Observe(float64(duration))
	if err != nil {
		return err
	}

	s.Metrics.SubsetsAttempted.Add(float64(result.Diagnostics.Combinations))
	s.Metrics.SubsetsInterpolated.Add(float64(result.Diagnostics.Interpolated))

	record := &store.Record{
		ID:           id,
		Document:     args.Challenge,
		N:            uint32(parsed.N),
		K:            uint32(parsed.K),
		Combinations: result.Diagnostics.Combinations,
		Interpolated: result.Diagnostics.Interpolated,
		Agreeing:     result.Diagnostics.Agreeing,
		SubmittedAt:  submittedAt,
		SolvedAt:     s.clock.Unix(),
	}
	for _, d := range dropped {
		record.Dropped = append(record.Dropped, store.DroppedShare{
			Key:    d.Key,
			Reason: d.Reason,
		})
	}
	if result.Secret != nil {
		record.Solved = true
		record.Secret = result.Secret.String()
		record.Faulty = result.FaultyIDs()
		s.Metrics.ChallengesSolved.Inc()
		s.Metrics.FaultySharesFlagged.Add(float64(len(record.Faulty)))
		s.Log.Info("challenge solved",
			log.Stringer("challengeID", id),
			log.Int("faulty", len(record.Faulty)),
			log.Duration("duration", duration),
		)
	} else {
		s.Metrics.ChallengesUnsolved.Inc()
		s.Log.Warn("challenge reached no consensus",
			log.Stringer("challengeID", id),
			log.Duration("duration", duration),
		)
	}

	if err := s.Store.Put(record); err != nil {
		return err
	}
	s.results.Put(id, record)
	*reply = resultFromRecord(record)
	return nil
}

// cachedRecord returns the stored record for [id], preferring the LRU.
func (s *Service) cachedRecord(id ids.ID) (*store.Record, error) {
	if record, ok := s.results.Get(id); ok {
		return record, nil
	}
	record, err := s.Store.Get(id)
	if err != nil {
		return nil, err
	}
	s.results.Put(id, record)
	return record, nil
}

// GetResultArgs are the arguments for calling GetResult.
type GetResultArgs struct {
	ID ids.ID `json:"id"`
}

// GetResult returns the stored result of a previously solved challenge.
func (s *Service) GetResult(_ *http.Request, args *GetResultArgs, reply *ChallengeResult) error {
	s.Log.Debug("API called",
		log.String("service", "shamir"),
		log.String("method", "getResult"),
		log.Stringer("id", args.ID),
	)

	record, err := s.cachedRecord(args.ID)
	if err != nil {
		return err
	}
	*reply = resultFromRecord(record)
	return nil
}

// ChallengeSummary is one row of a challenge listing.
type ChallengeSummary struct {
	ID       ids.ID         `json:"id"`
	N        avajson.Uint32 `json:"n"`
	K        avajson.Uint32 `json:"k"`
	Solved   bool           `json:"solved"`
	SolvedAt avajson.Uint64 `json:"solvedAt"`
}

// ListChallengesReply is the listing of every stored challenge.
type ListChallengesReply struct {
	Challenges []ChallengeSummary `json:"challenges"`
}

// ListChallenges lists every stored challenge, most recently solved
// first.
func (s *Service) ListChallenges(_ *http.Request, _ *struct{}, reply *ListChallengesReply) error {
	s.Log.Debug("API called",
		log.String("service", "shamir"),
		log.String("method", "listChallenges"),
	)

	records, err := s.Store.List()
	if err != nil {
		return err
	}
	reply.Challenges = make([]ChallengeSummary, len(records))
	for i, r := range records {
		reply.Challenges[i] = ChallengeSummary{
			ID:       r.ID,
			N:        avajson.Uint32(r.N),
			K:        avajson.Uint32(r.K),
			Solved:   r.Solved,
			SolvedAt: avajson.Uint64(r.SolvedAt),
		}
	}
	return nil
}

// StatsReply aggregates what the store has seen over its lifetime.
type StatsReply struct {
	Challenges          avajson.Uint64 `json:"challenges"`
	Solved              avajson.Uint64 `json:"solved"`
	Unsolved            avajson.Uint64 `json:"unsolved"`
	SubsetsAttempted    avajson.Uint64 `json:"subsetsAttempted"`
	SubsetsInterpolated avajson.Uint64 `json:"subsetsInterpolated"`
	FaultySharesFlagged avajson.Uint64 `json:"faultySharesFlagged"`
	SharesDropped       avajson.Uint64 `json:"sharesDropped"`
}

// Stats sums solver activity across every stored record.
func (s *Service) Stats(_ *http.Request, _ *struct{}, reply *StatsReply) error {
	s.Log.Debug("API called",
		log.String("service", "shamir"),
		log.String("method", "stats"),
	)

	records, err := s.Store.List()
	if err != nil {
		return err
	}
	for _, r := range records {
		reply.Challenges++
		if r.Solved {
			reply.Solved++
		} else {
			reply.Unsolved++
		}
		reply.SubsetsAttempted += avajson.Uint64(r.Combinations)
		reply.SubsetsInterpolated += avajson.Uint64(r.Interpolated)
		reply.FaultySharesFlagged += avajson.Uint64(len(r.Faulty))
		reply.SharesDropped += avajson.Uint64(len(r.Dropped))
	}
	return nil
}

// HealthReply is a liveness summary.
type HealthReply struct {
	Healthy bool           `json:"healthy"`
	Records avajson.Uint64 `json:"records"`
	// Uptime is seconds since the service started.
	Uptime  avajson.Uint64 `json:"uptime"`
	Version string         `json:"version"`
}

// Health reports whether the service can reach its store.
func (s *Service) Health(_ *http.Request, _ *struct{}, reply *HealthReply) error {
	s.Log.Debug("API called",
		log.String("service", "shamir"),
		log.String("method", "health"),
	)

	n, err := s.Store.Len()
	if err != nil {
		return err
	}
	reply.Healthy = true
	reply.Records = avajson.Uint64(n)
	reply.Uptime = avajson.Uint64(s.clock.Time().Sub(s.startedAt) / time.Second)
	reply.Version = shamir.Version
	return nil
}
