// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics instruments the solve path and the API surface.
package metrics

import (
	metric "github.com/luxfi/metric"

	"github.com/luxfi/shamir/utils/wrappers"
)

// Metrics holds the solver instruments and the JSON-RPC interceptor.
// Instruments are updated by the API service; nothing in this repo
// reads them back.
type Metrics struct {
	metric.APIInterceptor

	// SolvesInFlight gauges solves currently executing.
	SolvesInFlight metric.Gauge
	// ChallengesSolved counts solves whose subsets reached consensus.
	ChallengesSolved metric.Counter
	// ChallengesUnsolved counts solves with no subset consensus.
	ChallengesUnsolved metric.Counter
	// SubsetsAttempted counts threshold-sized subsets enumerated.
	SubsetsAttempted metric.Counter
	// SubsetsInterpolated counts subsets that produced an integer.
	SubsetsInterpolated metric.Counter
	// FaultySharesFlagged counts shares classified as corrupted.
	FaultySharesFlagged metric.Counter
	// SharesDropped counts shares discarded before cracking.
	SharesDropped metric.Counter
	// SolveDuration observes wall time of a solve in nanoseconds.
	SolveDuration Averager
}

func New(registry metric.Registry) (*Metrics, error) {
	metricsInstance := metric.NewWithRegistry("shamir", registry)

	errs := wrappers.Errs{}
	m := &Metrics{
		SolvesInFlight: metricsInstance.NewGauge(
			"solves_inflight",
			"Number of solves currently executing",
		),
		ChallengesSolved: metricsInstance.NewCounter(
			"challenges_solved",
			"Number of challenges whose subsets reached consensus",
		),
		ChallengesUnsolved: metricsInstance.NewCounter(
			"challenges_unsolved",
			"Number of challenges with no subset consensus",
		),
		SubsetsAttempted: metricsInstance.NewCounter(
			"subsets_attempted",
			"Number of threshold-sized subsets enumerated",
		),
		SubsetsInterpolated: metricsInstance.NewCounter(
			"subsets_interpolated",
			"Number of subsets that interpolated to an integer secret",
		),
		FaultySharesFlagged: metricsInstance.NewCounter(
			"faulty_shares_flagged",
			"Number of shares classified as corrupted",
		),
		SharesDropped: metricsInstance.NewCounter(
			"shares_dropped",
			"Number of shares dropped before cracking",
		),
		SolveDuration: NewAveragerWithErrs(
			"solve_duration",
			"time (in ns) of a solve",
			registry,
			&errs,
		),
	}

	interceptor, err := metric.NewAPIInterceptor(registry)
	errs.Add(err)
	m.APIInterceptor = interceptor
	// Instruments created through the metrics instance are
	// self-registering.
	return m, errs.Err
}
