package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateLifecycle(t *testing.T) {
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := &Session{UserID: 1, Username: "ana", Role: RoleManager, IssuedAt: issued}

	var anon *Session
	assert.Equal(t, StateAnonymous, anon.State(issued))

	assert.Equal(t, StateAuthenticated, session.State(issued))
	assert.Equal(t, StateAuthenticated, session.State(issued.Add(7*time.Hour+59*time.Minute)))

	// Exactly at the TTL the session is already expired.
	assert.Equal(t, StateExpired, session.State(issued.Add(8*time.Hour)))
	assert.Equal(t, StateExpired, session.State(issued.Add(8*time.Hour+time.Minute)))
}

func TestSessionFailsClosedOnCorruptRecord(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	noIssue := &Session{UserID: 1, Username: "ana", Role: RoleAdmin}
	assert.Equal(t, StateExpired, noIssue.State(now))

	badRole := &Session{UserID: 1, Username: "ana", Role: Role("superuser"), IssuedAt: now}
	assert.Equal(t, StateExpired, badRole.State(now))
}

func TestSessionNearExpiry(t *testing.T) {
	issued := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := &Session{UserID: 1, Username: "ana", Role: RoleWorker, IssuedAt: issued}

	assert.False(t, session.NearExpiry(issued.Add(7*time.Hour+44*time.Minute)))
	assert.True(t, session.NearExpiry(issued.Add(7*time.Hour+46*time.Minute)))
	// An expired session is not "near" expiry, it is past it.
	assert.False(t, session.NearExpiry(issued.Add(9*time.Hour)))
}

func TestManagerBeginAndExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	mgr := NewManager()
	mgr.SetClock(func() time.Time { return now })

	assert.Equal(t, StateAnonymous, mgr.State())

	mgr.Begin(7, "ana", RoleManager)
	assert.Equal(t, StateAuthenticated, mgr.State())
	assert.Equal(t, 8*time.Hour, mgr.Remaining())

	now = now.Add(8*time.Hour + time.Minute)
	assert.Equal(t, StateExpired, mgr.State())
}

func TestManagerRefresh(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	mgr := NewManager()
	mgr.SetClock(func() time.Time { return now })

	require.ErrorIs(t, mgr.Refresh(), ErrNotAuthenticated)

	mgr.Begin(7, "ana", RoleManager)
	now = now.Add(7 * time.Hour)
	require.NoError(t, mgr.Refresh())
	assert.Equal(t, 8*time.Hour, mgr.Remaining())

	now = now.Add(8*time.Hour + time.Second)
	require.ErrorIs(t, mgr.Refresh(), ErrSessionExpired)

	mgr.Clear()
	assert.Equal(t, StateAnonymous, mgr.State())
	require.ErrorIs(t, mgr.Refresh(), ErrNotAuthenticated)
}
