// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/shamir"
	"github.com/luxfi/shamir/config"

	avajson "github.com/luxfi/shamir/utils/json"
)

func TestServerRoundTrip(t *testing.T) {
	require := require.New(t)

	service := newTestService(t, memdb.New())
	handler, err := NewHandler(service)
	require.NoError(err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	server := NewServer(log.NewNoOpLogger(), listener, config.DefaultConfig(), handler)

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- server.Dispatch()
	}()
	defer func() {
		require.NoError(server.Shutdown())
		require.ErrorIs(<-dispatched, http.ErrServerClosed)
		http.DefaultClient.CloseIdleConnections()
	}()

	client := NewClient("http://" + listener.Addr().String())
	ctx := context.Background()

	result, err := client.Solve(ctx, []byte(testChallenge))
	require.NoError(err)
	require.True(result.Solved)
	require.Equal("3", result.Secret)
	require.Empty(result.Faulty)
	require.Equal(avajson.Float64(1), result.Confidence)
	require.Equal(avajson.Uint64(4), result.Combinations)
	require.Equal(avajson.Uint64(4), result.Interpolated)
	require.Equal(avajson.Uint64(4), result.Agreeing)

	faulty, err := client.SolveWithWorkers(ctx, []byte(faultyChallenge), 4)
	require.NoError(err)
	require.True(faulty.Solved)
	require.Equal("79836264049851", faulty.Secret)
	require.Equal([]avajson.Uint64{2, 8}, faulty.Faulty)
	require.InDelta(float64(8)/float64(55), float64(faulty.Confidence), 1e-4)

	got, err := client.GetResult(ctx, result.ID)
	require.NoError(err)
	require.Equal(result, got)

	summaries, err := client.ListChallenges(ctx)
	require.NoError(err)
	require.Len(summaries, 2)
	var listedIDs []ids.ID
	for _, summary := range summaries {
		listedIDs = append(listedIDs, summary.ID)
	}
	require.Contains(listedIDs, result.ID)
	require.Contains(listedIDs, faulty.ID)

	stats, err := client.Stats(ctx)
	require.NoError(err)
	require.Equal(avajson.Uint64(2), stats.Challenges)
	require.Equal(avajson.Uint64(2), stats.Solved)
	require.Equal(avajson.Uint64(124), stats.SubsetsAttempted)
	require.Equal(avajson.Uint64(59), stats.SubsetsInterpolated)
	require.Equal(avajson.Uint64(2), stats.FaultySharesFlagged)

	health, err := client.Health(ctx)
	require.NoError(err)
	require.True(health.Healthy)
	require.Equal(avajson.Uint64(2), health.Records)
	require.Equal(shamir.Version, health.Version)

	_, err = client.Solve(ctx, []byte(`{}`))
	require.ErrorContains(err, "missing keys header")
}

func TestServerShutdown(t *testing.T) {
	require := require.New(t)

	service := newTestService(t, memdb.New())
	handler, err := NewHandler(service)
	require.NoError(err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	server := NewServer(log.NewNoOpLogger(), listener, config.DefaultConfig(), handler)

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- server.Dispatch()
	}()

	require.NoError(server.Shutdown())
	require.ErrorIs(<-dispatched, http.ErrServerClosed)
}
