// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/luxfi/ids"
	"github.com/luxfi/rpc"

	avajson "github.com/luxfi/shamir/utils/json"
)

// Client reaches the shamir service of an API server.
type Client struct {
	Requester rpc.EndpointRequester
}

// NewClient returns a client for the shamir endpoint of the server at
// [uri].
func NewClient(uri string) *Client {
	return &Client{Requester: rpc.NewEndpointRequester(
		uri + Endpoint,
	)}
}

// Solve submits a challenge document and returns the solved result.
func (c *Client) Solve(ctx context.Context, document []byte, options ...rpc.Option) (*ChallengeResult, error) {
	res := &ChallengeResult{}
	err := c.Requester.SendRequest(ctx, "shamir.solve", &SolveArgs{
		Challenge: document,
	}, res, options...)
	return res, err
}

// SolveWithWorkers is Solve with an explicit parallelism override.
func (c *Client) SolveWithWorkers(ctx context.Context, document []byte, workers int, options ...rpc.Option) (*ChallengeResult, error) {
	res := &ChallengeResult{}
	err := c.Requester.SendRequest(ctx, "shamir.solve", &SolveArgs{
		Challenge: document,
		Workers:   avajson.Uint32(workers),
	}, res, options...)
	return res, err
}

// GetResult returns the stored result for a challenge id.
func (c *Client) GetResult(ctx context.Context, id ids.ID, options ...rpc.Option) (*ChallengeResult, error) {
	res := &ChallengeResult{}
	err := c.Requester.SendRequest(ctx, "shamir.getResult", &GetResultArgs{
		ID: id,
	}, res, options...)
	return res, err
}

// ListChallenges returns a summary of every stored challenge.
func (c *Client) ListChallenges(ctx context.Context, options ...rpc.Option) ([]ChallengeSummary, error) {
	res := &ListChallengesReply{}
	err := c.Requester.SendRequest(ctx, "shamir.listChallenges", struct{}{}, res, options...)
	return res.Challenges, err
}

// Stats returns lifetime solver counters.
func (c *Client) Stats(ctx context.Context, options ...rpc.Option) (*StatsReply, error) {
	res := &StatsReply{}
	err := c.Requester.SendRequest(ctx, "shamir.stats", struct{}{}, res, options...)
	return res, err
}

// Health returns the service liveness summary.
func (c *Client) Health(ctx context.Context, options ...rpc.Option) (*HealthReply, error) {
	res := &HealthReply{}
	err := c.Requester.SendRequest(ctx, "shamir.health", struct{}{}, res, options...)
	return res, err
}
