package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services and handlers needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	GraphQL      http.Handler
	GraphQLMount string
	CookieDomain string
	DB           Pinger // optional, readiness only
	Redis        Pinger // optional, readiness only
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. The authentication gate
// is applied by the caller around the returned handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mount := services.GraphQLMount
	if mount == "" {
		mount = "/gql"
	}

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		GraphQLMount: mount,
		Logger:       services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	readyHandlers := &ReadyHandlers{DB: services.DB, Redis: services.Redis, Logger: services.Logger}
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.HandleFunc("GET /readyz", readyHandlers.Ready)

	if services.GraphQL != nil {
		mux.Handle("POST "+mount, services.GraphQL)
		mux.Handle("GET "+mount, graphiqlHandler(mount))
	}

	mux.HandleFunc("GET /{$}", rootHandler)

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/sso/google", h.SSOStart)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// rootHandler identifies the service at the bare root path.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"service": "gqlgate"})
}
