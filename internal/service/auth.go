package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
	"github.com/gatelab/gqlgate/internal/ports"
)

// ErrTokenReplayed is returned when an OAuth callback token is presented a second time.
var ErrTokenReplayed = errors.New("oauth token already used")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Guard    ports.CallbackGuard // optional
	Auditor  ports.LoginAuditor  // optional
	Logger   *slog.Logger
}

// AuthService orchestrates credential validation and the OAuth login flow by
// coordinating the identity provider adapter, the callback token guard, and
// the login audit trail.
type AuthService struct {
	provider ports.IdentityProvider
	guard    ports.CallbackGuard
	auditor  ports.LoginAuditor
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		guard:    opts.Guard,
		auditor:  opts.Auditor,
		logger:   logger,
	}
}

// ValidateCredential validates a session token via the identity provider.
// Validation is stateless per request; identities are never cached by
// credential value.
func (s *AuthService) ValidateCredential(ctx context.Context, token string) (domainauth.Identity, error) {
	if token == "" {
		return domainauth.Identity{}, errors.New("no session token provided")
	}

	identity, err := s.provider.ValidateSession(ctx, token)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("validate session: %w", err)
	}
	return identity, nil
}

// SSOStartURL returns the provider's hosted OAuth start URL.
func (s *AuthService) SSOStartURL() string {
	return s.provider.OAuthStartURL()
}

// CompleteCallbackInput groups parameters for completing an OAuth callback.
type CompleteCallbackInput struct {
	Token      string
	RemoteAddr string
}

// CompleteCallbackResult contains the result of a completed OAuth callback.
type CompleteCallbackResult struct {
	SessionJWT string
	Identity   domainauth.Identity
}

// CompleteCallback exchanges the callback token for a session and records a
// login audit entry. The exchange is a single provider call; a replayed token
// is rejected before it reaches the provider.
func (s *AuthService) CompleteCallback(ctx context.Context, input CompleteCallbackInput) (*CompleteCallbackResult, error) {
	if input.Token == "" {
		return nil, errors.New("authentication token is required")
	}

	if s.guard != nil {
		first, err := s.guard.FirstUse(ctx, input.Token)
		if err != nil {
			// The guard is best-effort protection; the provider enforces
			// single use authoritatively.
			s.logger.WarnContext(ctx, "callback guard unavailable", "error", err)
		} else if !first {
			return nil, ErrTokenReplayed
		}
	}

	result, err := s.provider.ExchangeToken(ctx, input.Token)
	if err != nil {
		return nil, fmt.Errorf("exchange token: %w", err)
	}

	if s.auditor != nil {
		auditErr := s.auditor.RecordLogin(ctx, ports.LoginRecord{
			UserID:     result.Identity.UserID,
			SessionID:  result.Identity.SessionID,
			RemoteAddr: input.RemoteAddr,
			CreatedAt:  time.Now(),
		})
		if auditErr != nil {
			// Audit failures must not block a successful login.
			s.logger.WarnContext(ctx, "record login audit failed",
				"error", auditErr, "user_id", result.Identity.UserID)
		}
	}

	return &CompleteCallbackResult{
		SessionJWT: result.SessionJWT,
		Identity:   result.Identity,
	}, nil
}

// Logout revokes the session at the provider.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil // Nothing to revoke
	}
	if err := s.provider.RevokeSession(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
