package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
	"github.com/gatelab/gqlgate/internal/service"
)

type fakeAuthService struct {
	startURL    string
	callbackRes *service.CompleteCallbackResult
	callbackErr error
	validateID  domainauth.Identity
	validateErr error
	logoutErr   error

	exchangeCalls int
	revoked       []string
}

func (f *fakeAuthService) ValidateCredential(_ context.Context, token string) (domainauth.Identity, error) {
	if f.validateErr != nil {
		return domainauth.Identity{}, f.validateErr
	}
	return f.validateID, nil
}

func (f *fakeAuthService) SSOStartURL() string { return f.startURL }

func (f *fakeAuthService) CompleteCallback(_ context.Context, input service.CompleteCallbackInput) (*service.CompleteCallbackResult, error) {
	f.exchangeCalls++
	if f.callbackErr != nil {
		return nil, f.callbackErr
	}
	return f.callbackRes, nil
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	if token != "" {
		f.revoked = append(f.revoked, token)
	}
	return f.logoutErr
}

func TestSSOStartRedirectsToProvider(t *testing.T) {
	svc := &fakeAuthService{startURL: "https://idp.example.com/public/oauth/google/start?public_token=pt"}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.SSOStart(rec, httptest.NewRequest(http.MethodGet, "/auth/sso/google", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, svc.startURL, rec.Header().Get("Location"))
}

func TestCallbackMissingTokenNoProviderCall(t *testing.T) {
	svc := &fakeAuthService{}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No authentication token provided"}`, rec.Body.String())
	assert.Zero(t, svc.exchangeCalls)
}

func TestCallbackSuccessSetsCookieAndRedirects(t *testing.T) {
	svc := &fakeAuthService{callbackRes: &service.CompleteCallbackResult{
		SessionJWT: "new-session-jwt",
		Identity:   domainauth.Identity{UserID: "user-1", SessionID: "sess-1", Authenticated: true},
	}}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=cb-token", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/gql", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "session", c.Name)
	assert.Equal(t, "new-session-jwt", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.False(t, c.Secure, "plain http request")
}

func TestCallbackSecureCookieBehindProxy(t *testing.T) {
	svc := &fakeAuthService{callbackRes: &service.CompleteCallbackResult{SessionJWT: "jwt"}}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?token=cb-token", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestCallbackExchangeFailure(t *testing.T) {
	svc := &fakeAuthService{callbackErr: errors.New("provider rejected token")}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=bad", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication failed: provider rejected token"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestCallbackReplayedToken(t *testing.T) {
	svc := &fakeAuthService{callbackErr: service.ErrTokenReplayed}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=used", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication failed: token already used"}`, rec.Body.String())
}

func TestLogoutRevokesAndClearsCookie(t *testing.T) {
	svc := &fakeAuthService{}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "live-jwt"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"live-jwt"}, svc.revoked)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogoutWithoutSessionStillSucceeds(t *testing.T) {
	svc := &fakeAuthService{}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.revoked)
}

func TestStatusAuthenticated(t *testing.T) {
	svc := &fakeAuthService{validateID: domainauth.Identity{
		UserID: "user-1", SessionID: "sess-1", Authenticated: true,
	}}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "live-jwt"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"user_id":"user-1","session_id":"sess-1"}`, rec.Body.String())
}

func TestStatusInvalidSessionClearsCookie(t *testing.T) {
	svc := &fakeAuthService{validateErr: errors.New("expired")}
	h := &AuthHandlers{Svc: svc, GraphQLMount: "/gql", Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "stale-jwt"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Negative(t, rec.Result().Cookies()[0].MaxAge)
}

func TestStatusNoCredential(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}, GraphQLMount: "/gql", Logger: testLogger()}

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}
