package redis

// Package redis provides Redis-based adapters for the gqlgate service.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CallbackGuard marks OAuth callback tokens as used so each token can be
// exchanged with the identity provider at most once. Provider tokens are
// single-use anyway; the guard rejects a replayed token before it costs a
// provider round-trip.
type CallbackGuard struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// defaultTTL comfortably outlives the provider-side validity of a callback token.
const defaultTTL = 10 * time.Minute

// NewCallbackGuard creates a Redis-backed callback token guard.
func NewCallbackGuard(client redis.UniversalClient) *CallbackGuard {
	return &CallbackGuard{
		client: client,
		prefix: "oauth_token:",
		ttl:    defaultTTL,
	}
}

// NewCallbackGuardWithTTL creates a callback guard with a custom marker TTL.
func NewCallbackGuardWithTTL(client redis.UniversalClient, ttl time.Duration) *CallbackGuard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CallbackGuard{
		client: client,
		prefix: "oauth_token:",
		ttl:    ttl,
	}
}

// FirstUse records the token and reports whether this was its first use.
func (g *CallbackGuard) FirstUse(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, errors.New("token cannot be empty")
	}

	ok, err := g.client.SetNX(ctx, g.prefix+token, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}
