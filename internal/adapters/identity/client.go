package identity

// Package identity is the client adapter for the external identity provider.
// It translates opaque session tokens into identities, delegating the actual
// verification: locally via the provider's JWKS, remotely via its REST API.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
	"github.com/gatelab/gqlgate/internal/ports"
)

// ErrNoLocalResult indicates local verification could not produce a result
// at all (the credential is not a compact JWT, or no verifier is configured),
// as opposed to a definitive invalid verdict. Both fall through to remote
// verification; the distinction is preserved for callers that log it.
var ErrNoLocalResult = errors.New("no local verification result")

// Client implements the IdentityProvider port against a hosted identity
// provider (Stytch-style REST API plus a JWKS endpoint).
type Client struct {
	projectID   string
	secret      string
	publicToken string
	redirectURL string
	baseURL     string
	httpClient  *http.Client

	// verifier is nil when local verification is disabled.
	verifier *gooidc.IDTokenVerifier
}

// Config holds configuration for the identity client.
type Config struct {
	ProjectID   string
	Secret      string
	PublicToken string
	RedirectURL string

	// BaseURL is the provider REST API root, e.g. https://test.stytch.com/v1.
	BaseURL string

	// JWKSURL enables local session JWT verification when non-empty.
	JWKSURL string

	// JWTIssuer is the expected issuer of provider session JWTs.
	JWTIssuer string

	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// NewClient creates a new identity provider client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("project ID is required")
	}
	if cfg.Secret == "" {
		return nil, errors.New("secret is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		projectID:   cfg.ProjectID,
		secret:      cfg.Secret,
		publicToken: cfg.PublicToken,
		redirectURL: cfg.RedirectURL,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:  httpClient,
	}

	if cfg.JWKSURL != "" {
		ctx := gooidc.ClientContext(context.Background(), httpClient)
		keySet := gooidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		c.verifier = gooidc.NewVerifier(cfg.JWTIssuer, keySet, &gooidc.Config{
			ClientID: cfg.ProjectID,
		})
	}

	return c, nil
}

// sessionClaims is the session-JWT claim shape issued by the provider.
type sessionClaims struct {
	Subject string `json:"sub"`
	Session struct {
		ID string `json:"id"`
	} `json:"https://stytch.com/session"`
}

// ValidateSession verifies a session token locally first, falling back to a
// remote provider call when local verification does not admit the token.
// The local-before-remote order is load-bearing: the common path (valid,
// unexpired session) resolves without a network round-trip, while the remote
// call remains authoritative for revocation.
func (c *Client) ValidateSession(ctx context.Context, token string) (domainauth.Identity, error) {
	if token == "" {
		return domainauth.Identity{}, errors.New("no session token provided")
	}

	id, localErr := c.validateLocal(ctx, token)
	if localErr == nil {
		return id, nil
	}

	id, remoteErr := c.validateRemote(ctx, token)
	if remoteErr != nil {
		if errors.Is(localErr, ErrNoLocalResult) {
			return domainauth.Identity{}, fmt.Errorf("remote verification: %w", remoteErr)
		}
		return domainauth.Identity{}, fmt.Errorf("local verification: %w; remote verification: %w", localErr, remoteErr)
	}
	return id, nil
}

// validateLocal verifies the token offline against the provider JWKS.
// Returns ErrNoLocalResult when no local verdict is possible.
func (c *Client) validateLocal(ctx context.Context, token string) (domainauth.Identity, error) {
	if c.verifier == nil {
		return domainauth.Identity{}, ErrNoLocalResult
	}
	// Opaque session tokens are not compact JWTs; only JWTs can be checked offline.
	if strings.Count(token, ".") != 2 {
		return domainauth.Identity{}, ErrNoLocalResult
	}

	idToken, err := c.verifier.Verify(ctx, token)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify session jwt: %w", err)
	}

	var claims sessionClaims
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse session jwt claims: %w", claimsErr)
	}
	if claims.Subject == "" || claims.Session.ID == "" {
		// Verified signature but not a session JWT we can resolve locally.
		return domainauth.Identity{}, ErrNoLocalResult
	}

	return domainauth.Identity{
		UserID:        claims.Subject,
		SessionID:     claims.Session.ID,
		Authenticated: true,
	}, nil
}

// sessionResponse is the provider response for session authentication.
type sessionResponse struct {
	Session struct {
		UserID    string `json:"user_id"`
		SessionID string `json:"session_id"`
	} `json:"session"`
}

// validateRemote authenticates the session via the provider API. Handles the
// cases local verification cannot resolve, most importantly revocation.
func (c *Client) validateRemote(ctx context.Context, token string) (domainauth.Identity, error) {
	var resp sessionResponse
	err := c.post(ctx, "/sessions/authenticate", map[string]string{"session_jwt": token}, &resp)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if resp.Session.UserID == "" {
		return domainauth.Identity{}, errors.New("provider response missing user_id")
	}

	return domainauth.Identity{
		UserID:        resp.Session.UserID,
		SessionID:     resp.Session.SessionID,
		Authenticated: true,
	}, nil
}

// OAuthStartURL builds the provider's hosted OAuth start URL from
// configuration. No network call; the only failure mode is misconfiguration,
// which the constructor already rejects.
func (c *Client) OAuthStartURL() string {
	q := url.Values{}
	q.Set("public_token", c.publicToken)
	q.Set("login_redirect_url", c.redirectURL)
	return c.baseURL + "/public/oauth/google/start?" + q.Encode()
}

// exchangeResponse is the provider response for OAuth token exchange.
type exchangeResponse struct {
	UserID     string `json:"user_id"`
	SessionJWT string `json:"session_jwt"`
	Session    struct {
		SessionID string `json:"session_id"`
	} `json:"session"`
}

// ExchangeToken exchanges an OAuth callback token for a session.
func (c *Client) ExchangeToken(ctx context.Context, token string) (ports.ExchangeResult, error) {
	if token == "" {
		return ports.ExchangeResult{}, errors.New("oauth token is required")
	}

	var resp exchangeResponse
	if err := c.post(ctx, "/oauth/authenticate", map[string]string{"token": token}, &resp); err != nil {
		return ports.ExchangeResult{}, fmt.Errorf("oauth authenticate: %w", err)
	}
	if resp.SessionJWT == "" {
		return ports.ExchangeResult{}, errors.New("provider response missing session_jwt")
	}

	return ports.ExchangeResult{
		SessionJWT: resp.SessionJWT,
		Identity: domainauth.Identity{
			UserID:        resp.UserID,
			SessionID:     resp.Session.SessionID,
			Authenticated: true,
		},
	}, nil
}

// RevokeSession invalidates the session at the provider.
func (c *Client) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil // Nothing to revoke
	}
	if err := c.post(ctx, "/sessions/revoke", map[string]string{"session_jwt": token}, nil); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// providerError is the provider API error body.
type providerError struct {
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// post issues an authenticated POST to the provider API and decodes the
// response into out when out is non-nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.projectID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call provider: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var pe providerError
		if json.Unmarshal(data, &pe) == nil && pe.ErrorType != "" {
			return fmt.Errorf("provider %s: %s", pe.ErrorType, pe.ErrorMessage)
		}
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("decode provider response: %w", decodeErr)
	}
	return nil
}
