package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":36016"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	// The host portion is reported by the about query.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:36016"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// GraphQLMount is the path prefix the GraphQL endpoint is served under.
	GraphQLMount string `env:"GRAPHQL_MOUNT" envDefault:"/gql"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.GraphQLMount == "" || !strings.HasPrefix(h.GraphQLMount, "/") {
		h.GraphQLMount = "/gql"
	}
	h.GraphQLMount = strings.TrimSuffix(h.GraphQLMount, "/")
	if h.GraphQLMount == "" {
		h.GraphQLMount = "/gql"
	}
}
