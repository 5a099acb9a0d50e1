package graph

import (
	"context"
	"time"
)

// AboutInfo holds the static service facts reported by the about query.
type AboutInfo struct {
	Env      string
	Version  string
	HostedAt string
	Node     string
}

// Resolver is the root query resolver.
type Resolver struct {
	info AboutInfo

	// delay simulates the lookup cost of the about record.
	delay time.Duration
}

// NewResolver creates the root resolver for the given service facts.
func NewResolver(info AboutInfo) *Resolver {
	return &Resolver{info: info, delay: 10 * time.Millisecond}
}

// About resolves the informational record. The only side effect is reading
// the current time.
func (r *Resolver) About(ctx context.Context) (*AboutResolver, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &AboutResolver{
		info:       r.info,
		serverTime: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// AboutResolver resolves the fields of the About type.
type AboutResolver struct {
	info       AboutInfo
	serverTime string
}

func (a *AboutResolver) Env() string      { return a.info.Env }
func (a *AboutResolver) Version() string  { return a.info.Version }
func (a *AboutResolver) HostedAt() string { return a.info.HostedAt }
func (a *AboutResolver) Node() string     { return a.info.Node }

// ServerTime returns the resolution wall-clock time in ISO-8601 form.
func (a *AboutResolver) ServerTime() string { return a.serverTime }
