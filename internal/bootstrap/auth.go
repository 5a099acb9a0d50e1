package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gatelab/gqlgate/config"
	"github.com/gatelab/gqlgate/internal/adapters/identity"
	redisadapter "github.com/gatelab/gqlgate/internal/adapters/redis"
	"github.com/gatelab/gqlgate/internal/data"
	"github.com/gatelab/gqlgate/internal/ports"
	"github.com/gatelab/gqlgate/internal/service"
)

// AuthDeps groups dependencies for building the auth service.
type AuthDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB               // optional, enables login auditing
	RedisClient redis.UniversalClient // optional, enables the callback token guard
	Logger      *slog.Logger
}

// BuildAuthService wires the identity provider client, callback guard, and
// login auditor into the auth service.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	provider := deps.Config.Auth.Provider

	jwksURL := provider.JWKSURL
	if !deps.Config.Auth.LocalVerificationEnabled() {
		jwksURL = ""
		if deps.Logger != nil {
			deps.Logger.Info("local session verification disabled, all validations go remote")
		}
	}

	client, err := identity.NewClient(identity.Config{
		ProjectID:   provider.ProjectID,
		Secret:      provider.Secret,
		PublicToken: provider.PublicToken,
		RedirectURL: provider.RedirectURL,
		BaseURL:     provider.BaseURL,
		JWKSURL:     jwksURL,
		JWTIssuer:   provider.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("build identity client: %w", err)
	}

	var guard ports.CallbackGuard
	if deps.RedisClient != nil {
		guard = redisadapter.NewCallbackGuard(deps.RedisClient)
	}

	var auditor ports.LoginAuditor
	if deps.DB != nil {
		auditor = data.NewLoginAuditRepo(deps.DB)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: client,
		Guard:    guard,
		Auditor:  auditor,
		Logger:   deps.Logger,
	}), nil
}
