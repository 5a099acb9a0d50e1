package auth

// Package auth contains domain-level types for authentication.
// It is pure and free of framework/adapter concerns.

// Identity is the fixed-shape record produced by a successful credential
// validation. It lives in the request context for a single request and is
// never persisted or shared across requests.
type Identity struct {
	UserID        string `json:"user_id"`
	SessionID     string `json:"session_id"`
	Authenticated bool   `json:"authenticated"`
}

// Anonymous returns the synthetic identity attached when enforcement is
// disabled. It is intentionally distinguishable from any real session in
// logs and telemetry.
func Anonymous() Identity {
	return Identity{
		UserID:        "anonymous",
		SessionID:     "none",
		Authenticated: true,
	}
}

// IsAnonymous reports whether the identity is the enforcement-disabled
// synthetic identity rather than a provider-validated session.
func (i Identity) IsAnonymous() bool {
	return i.UserID == "anonymous" && i.SessionID == "none"
}
