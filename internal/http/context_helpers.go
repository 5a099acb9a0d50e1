package httpx

import (
	"context"

	domainauth "github.com/gatelab/gqlgate/internal/domain/auth"
)

// identityKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type identityKey struct{}

// SetIdentityInContext returns a child context that carries the given identity.
func SetIdentityInContext(ctx context.Context, id domainauth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentityFromContext returns the identity from context and a boolean indicating presence.
func GetIdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	if id, ok := ctx.Value(identityKey{}).(domainauth.Identity); ok {
		return id, true
	}
	return domainauth.Identity{}, false
}
