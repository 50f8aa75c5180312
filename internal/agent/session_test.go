package agent

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionServiceLifecycle(t *testing.T) {
	svc := NewSessionService()

	session, err := svc.Create("snooscrape", "default_user", "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID)
	assert.False(t, session.Created.IsZero())

	_, err = svc.Create("snooscrape", "default_user", "s1")
	assert.Error(t, err, "duplicate session id must be rejected")

	// Same id under a different user is a different session.
	_, err = svc.Create("snooscrape", "other_user", "s1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete("snooscrape", "default_user", "s1"))
	assert.Error(t, svc.Delete("snooscrape", "default_user", "s1"), "double delete must fail")

	// Deleting one user's session leaves the other's intact.
	require.NoError(t, svc.Delete("snooscrape", "other_user", "s1"))
}

func TestNewSessionID(t *testing.T) {
	pattern := regexp.MustCompile(`^scrape_golang_\d{14}_[0-9a-f]{8}$`)

	a := NewSessionID("golang")
	b := NewSessionID("golang")

	assert.Regexp(t, pattern, a)
	assert.Regexp(t, pattern, b)
	assert.NotEqual(t, a, b, "ids must be unique even within one second")
}
