package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
	"github.com/gatelab/gqlgate/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	ValidateCredential(ctx context.Context, token string) (domainauth.Identity, error)
	SSOStartURL() string
	CompleteCallback(ctx context.Context, input service.CompleteCallbackInput) (*service.CompleteCallbackResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers provides HTTP handlers for the OAuth login flow.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// GraphQLMount is where a completed login redirects to.
	GraphQLMount string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SSOStart redirects the browser to the provider's hosted OAuth start page.
// GET /auth/sso/google.
func (h *AuthHandlers) SSOStart(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Svc.SSOStartURL(), http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?token=<token>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		WriteError(w, http.StatusBadRequest, "No authentication token provided")
		return
	}

	result, err := h.Svc.CompleteCallback(r.Context(), service.CompleteCallbackInput{
		Token:      token,
		RemoteAddr: r.RemoteAddr,
	})
	if err != nil {
		if errors.Is(err, service.ErrTokenReplayed) {
			WriteError(w, http.StatusUnauthorized, "Authentication failed: token already used")
			return
		}
		h.logger().WarnContext(r.Context(), "oauth exchange failed", "error", err)
		WriteError(w, http.StatusUnauthorized, "Authentication failed: "+err.Error())
		return
	}

	h.setSessionCookie(w, r, result.SessionJWT)

	redirect := h.GraphQLMount
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

// Logout revokes the current session at the provider and clears the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := credentialFromRequest(r)
	if err := h.Svc.Logout(r.Context(), token); err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}

	h.clearCookie(w, r, "session")
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	token := credentialFromRequest(r)
	if token == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	identity, err := h.Svc.ValidateCredential(r.Context(), token)
	if err != nil {
		h.clearCookie(w, r, "session")
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user_id":       identity.UserID,
		"session_id":    identity.SessionID,
	})
}

// setSessionCookie writes the provider-issued session token as the session cookie.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
