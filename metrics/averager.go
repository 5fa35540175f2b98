// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"strings"

	metric "github.com/luxfi/metric"

	"github.com/luxfi/shamir/utils/wrappers"
)

// Averager records a running count and sum so that the mean of an
// observed quantity can be derived at read time.
type Averager interface {
	Observe(float64)
}

type averager struct {
	count metric.Counter
	sum   metric.Gauge
}

func NewAverager(name, desc string, registry metric.Registry) (Averager, error) {
	errs := wrappers.Errs{}
	a := NewAveragerWithErrs(name, desc, registry, &errs)
	return a, errs.Err
}

func NewAveragerWithErrs(name, desc string, registry metric.Registry, errs *wrappers.Errs) Averager {
	metricsInstance := metric.NewWithRegistry("", registry)

	a := averager{
		count: metricsInstance.NewCounter(
			appendNamespace(name, "count"),
			"Total # of observations of "+desc,
		),
		sum: metricsInstance.NewGauge(
			appendNamespace(name, "sum"),
			"Sum of "+desc,
		),
	}

	return &a
}

func (a *averager) Observe(v float64) {
	a.count.Inc()
	a.sum.Add(v)
}

func appendNamespace(prefix, suffix string) string {
	switch {
	case len(prefix) == 0:
		return suffix
	case len(suffix) == 0:
		return prefix
	default:
		return strings.Join([]string{prefix, suffix}, "_")
	}
}
