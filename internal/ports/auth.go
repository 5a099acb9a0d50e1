package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
)

// ExchangeResult carries the outcome of a completed OAuth token exchange.
type ExchangeResult struct {
	// SessionJWT is the provider-issued session token to set as a cookie.
	SessionJWT string
	Identity   domainauth.Identity
}

// IdentityProvider translates opaque credential strings into identities by
// delegating verification to the external identity provider.
type IdentityProvider interface {
	// ValidateSession verifies a session token, attempting local (offline)
	// verification before falling back to a remote provider call.
	ValidateSession(ctx context.Context, token string) (domainauth.Identity, error)

	// OAuthStartURL returns the provider's hosted OAuth start URL. Pure
	// construction from configuration; no network call.
	OAuthStartURL() string

	// ExchangeToken completes the OAuth flow by exchanging the callback token
	// for a session. Single network call, never retried.
	ExchangeToken(ctx context.Context, token string) (ExchangeResult, error)

	// RevokeSession invalidates a session at the provider.
	RevokeSession(ctx context.Context, token string) error
}

// CallbackGuard marks OAuth callback tokens as used so a token can only be
// exchanged once.
type CallbackGuard interface {
	// FirstUse records the token and reports whether this was its first use.
	FirstUse(ctx context.Context, token string) (bool, error)
}

// LoginRecord is the audit trail entry written after a successful login.
type LoginRecord struct {
	UserID     string
	SessionID  string
	RemoteAddr string
	CreatedAt  time.Time
}

// LoginAuditor persists login audit records.
type LoginAuditor interface {
	RecordLogin(ctx context.Context, rec LoginRecord) error
}
