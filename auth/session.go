package auth

import (
	"errors"
	"sync"
	"time"
)

// Session lifetime and warning thresholds.
const (
	SessionTTL       = 8 * time.Hour
	WarningThreshold = 15 * time.Minute
	CheckInterval    = 60 * time.Second
)

var (
	// ErrSessionExpired is returned for any operation on a session past
	// its TTL, and for sessions that cannot be positively validated.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated is returned when no session is present.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// SessionState is the current position in the Anonymous -> Authenticated ->
// Expired state machine.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StateAuthenticated
	StateExpired
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "anonymous"
	}
}

// Session records who is logged in and when the session was issued.
type Session struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

// State reports the session's position in the lifecycle at the given time.
// A zero IssuedAt means the session record is corrupt; fail closed.
func (s *Session) State(now time.Time) SessionState {
	if s == nil {
		return StateAnonymous
	}
	if s.IssuedAt.IsZero() || !ValidRole(string(s.Role)) {
		return StateExpired
	}
	if now.Sub(s.IssuedAt) >= SessionTTL {
		return StateExpired
	}
	return StateAuthenticated
}

// Remaining returns how long the session stays valid from now. Zero or
// negative means expired.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return SessionTTL - now.Sub(s.IssuedAt)
}

// NearExpiry reports whether the session is still valid but within the
// warning window.
func (s *Session) NearExpiry(now time.Time) bool {
	if s.State(now) != StateAuthenticated {
		return false
	}
	return s.Remaining(now) <= WarningThreshold
}

// Manager holds the current session for one client. The clock is injectable
// so expiry behavior can be driven deterministically in tests.
type Manager struct {
	mu      sync.Mutex
	session *Session
	clock   func() time.Time
}

// NewManager returns a Manager in the Anonymous state.
func NewManager() *Manager {
	return &Manager{clock: time.Now}
}

// SetClock overrides the time source.
func (m *Manager) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// Begin transitions Anonymous -> Authenticated for the given user.
func (m *Manager) Begin(userID uint, username string, role Role) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &Session{
		UserID:   userID,
		Username: username,
		Role:     role,
		IssuedAt: m.clock(),
	}
	return m.session
}

// Resume installs a previously persisted session record. Corrupt records are
// rejected so a later State check reports Expired rather than Authenticated.
func (m *Manager) Resume(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

// Current returns the active session, or nil when anonymous.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// State reports the manager's state at its clock's current time.
func (m *Manager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.State(m.clock())
}

// Remaining reports time left before expiry.
func (m *Manager) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0
	}
	return m.session.Remaining(m.clock())
}

// Refresh re-stamps IssuedAt to now, extending validity without
// re-authentication. Only a still-valid session can be refreshed.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNotAuthenticated
	}
	if m.session.State(m.clock()) != StateAuthenticated {
		return ErrSessionExpired
	}
	m.session.IssuedAt = m.clock()
	return nil
}

// Clear drops the session, returning to Anonymous.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}
