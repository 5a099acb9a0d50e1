package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymous(t *testing.T) {
	id := Anonymous()

	assert.Equal(t, "anonymous", id.UserID)
	assert.Equal(t, "none", id.SessionID)
	assert.True(t, id.Authenticated)
	assert.True(t, id.IsAnonymous())
}

func TestIsAnonymous_RealSession(t *testing.T) {
	id := Identity{UserID: "user-123", SessionID: "session-456", Authenticated: true}
	assert.False(t, id.IsAnonymous())
}
