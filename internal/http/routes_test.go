package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
	"github.com/gatelab/gqlgate/internal/graph"
)

// newTestServer assembles the full pipeline the way the bootstrap does.
func newTestServer(svc *fakeAuthService, enforce bool) http.Handler {
	resolver := graph.NewResolver(graph.AboutInfo{
		Env: "test", Version: "0.0.0", HostedAt: "local", Node: "test-node",
	})
	router := NewRouter(RouterServices{
		Auth:         svc,
		GraphQL:      graph.NewHandler(resolver),
		GraphQLMount: "/gql",
		Logger:       testLogger(),
	})
	guard := SessionGuard(SessionGuardOptions{
		Validator:    svc,
		Enforce:      enforce,
		GraphQLMount: "/gql",
		Logger:       testLogger(),
	})
	return Recover(testLogger())(guard(router))
}

func TestRouterGraphQLRequiresCredential(t *testing.T) {
	handler := newTestServer(&fakeAuthService{}, true)

	body := strings.NewReader(`{"query":"{ about { env } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/gql", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required for GraphQL endpoint"}`, rec.Body.String())
}

func TestRouterGraphQLWithValidSession(t *testing.T) {
	svc := &fakeAuthService{validateID: domainauth.Identity{
		UserID: "user-1", SessionID: "sess-1", Authenticated: true,
	}}
	handler := newTestServer(svc, true)

	body := strings.NewReader(`{"query":"{ about { env version } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/gql", body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "session", Value: "live-jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"about":{"env":"test","version":"0.0.0"}}}`, rec.Body.String())
}

func TestRouterGraphQLEnforcementOff(t *testing.T) {
	svc := &fakeAuthService{validateErr: errors.New("should not be called")}
	handler := newTestServer(svc, false)

	body := strings.NewReader(`{"query":"{ about { node } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/gql", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"about":{"node":"test-node"}}}`, rec.Body.String())
}

func TestRouterGraphiQLOnGet(t *testing.T) {
	svc := &fakeAuthService{validateID: domainauth.Identity{UserID: "u", Authenticated: true}}
	handler := newTestServer(svc, true)

	req := httptest.NewRequest(http.MethodGet, "/gql", nil)
	req.Header.Set("Authorization", "Bearer live-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "GraphiQL")
}

func TestRouterHealthz(t *testing.T) {
	handler := newTestServer(&fakeAuthService{}, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterReadyzDegraded(t *testing.T) {
	svc := &fakeAuthService{}
	router := NewRouter(RouterServices{
		Auth:         svc,
		GraphQLMount: "/gql",
		DB: PingerFunc(func(ctx context.Context) error {
			return errors.New("connection refused")
		}),
		Redis:  PingerFunc(func(ctx context.Context) error { return nil }),
		Logger: testLogger(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRouterReadyzHealthy(t *testing.T) {
	router := NewRouter(RouterServices{
		Auth:         &fakeAuthService{},
		GraphQLMount: "/gql",
		DB:           PingerFunc(func(ctx context.Context) error { return nil }),
		Logger:       testLogger(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, rec.Body.String())
}

func TestRouterRoot(t *testing.T) {
	handler := newTestServer(&fakeAuthService{}, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"gqlgate"}`, rec.Body.String())
}
