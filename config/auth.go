package config

import "strings"

// IdentityProviderConfig contains credentials and endpoints for the external
// identity provider that issues and verifies session tokens.
type IdentityProviderConfig struct {
	ProjectID   string `env:"PROJECT_ID"   envDefault:"project-test-aaffe74a-8bd3-4bfd-bf42-a6efb8755d32"`
	Secret      string `env:"SECRET"       envDefault:"secret-test-"`
	WorkspaceID string `env:"WORKSPACE_ID" envDefault:"organization-prod-7a9"`
	PublicToken string `env:"PUBLIC_TOKEN" envDefault:"public-token-test-da0"`
	RedirectURL string `env:"REDIRECT_URL" envDefault:"http://localhost:36016/auth/callback"`

	// BaseURL is the provider REST API root. Left empty it is derived from
	// the deployment environment as https://<env>.stytch.com/v1.
	BaseURL string `env:"BASE_URL"`

	// JWKSURL is the provider key set used for local (offline) session JWT
	// verification. Left empty it is derived from BaseURL; set to "off" to
	// disable local verification so every validation goes remote.
	JWKSURL string `env:"JWKS_URL"`

	// JWTIssuer is the expected issuer of provider session JWTs. Left empty
	// it is derived from the project ID.
	JWTIssuer string `env:"JWT_ISSUER"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Enforce controls whether the authentication gate is active. When false
	// every request is admitted with a synthetic anonymous identity; this is
	// a deliberate bypass for local/offline operation.
	Enforce bool `env:"AUTH_ENFORCE" envDefault:"true"`

	// Provider configuration for the external identity provider.
	Provider IdentityProviderConfig `envPrefix:"IDP_"`
}

// JWKSDisabled is the sentinel JWKSURL value that turns local verification off.
const JWKSDisabled = "off"

// Sanitize derives provider URLs that were not set explicitly.
func (a *AuthConfig) Sanitize(environment string) {
	if a.Provider.BaseURL == "" {
		a.Provider.BaseURL = "https://" + environment + ".stytch.com/v1"
	}
	a.Provider.BaseURL = strings.TrimSuffix(a.Provider.BaseURL, "/")

	if a.Provider.JWKSURL == "" {
		a.Provider.JWKSURL = a.Provider.BaseURL + "/sessions/jwks/" + a.Provider.ProjectID
	}
	if a.Provider.JWTIssuer == "" {
		a.Provider.JWTIssuer = "stytch.com/" + a.Provider.ProjectID
	}
}

// LocalVerificationEnabled reports whether offline session JWT verification
// is configured.
func (a AuthConfig) LocalVerificationEnabled() bool {
	return a.Provider.JWKSURL != JWKSDisabled
}
