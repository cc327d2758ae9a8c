package session

import (
	"time"

	"github.com/FestivalLedger/FL-Backend/internal/token"
)

const (
	// CookieName is the fixed cookie key the session token lives under.
	CookieName = "session"

	// Duration is how long an issued session stays valid. Sessions are
	// never renewed in place; a new login reissues the token.
	Duration = 24 * time.Hour
)

// Options mirror the cookie attributes the manager sets. SameSite is the
// literal attribute value ("Lax").
type Options struct {
	HTTPOnly bool
	Secure   bool
	SameSite string
	Path     string
	MaxAge   int
}

// Store is the cookie-like key-value surface the manager operates on.
// Implementations must tolerate arbitrary content; the manager never
// assumes a stored value is well-formed.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string, opts Options)
	Delete(name string)
}

// Manager issues, destroys and validates stateless signed sessions.
// There is no server-side session table: the cookie value is the whole
// session, reconstructed and verified on every request.
type Manager struct {
	codec  *token.Codec
	secure bool
	now    func() time.Time
}

// NewManager builds a manager around a token codec. secure controls the
// cookie Secure attribute and should be true everywhere except local dev.
func NewManager(codec *token.Codec, secure bool) *Manager {
	return &Manager{codec: codec, secure: secure, now: time.Now}
}

// NewManagerAt returns a Manager with an injected clock.
func NewManagerAt(codec *token.Codec, secure bool, now func() time.Time) *Manager {
	return &Manager{codec: codec, secure: secure, now: now}
}

// Create signs a fresh payload expiring in 24 hours and stores it under
// the session cookie key.
func (m *Manager) Create(c Store, username string) {
	payload := token.Payload{
		Username: username,
		Exp:      m.now().Add(Duration).UnixMilli(),
	}

	c.Set(CookieName, m.codec.Sign(payload), Options{
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: "Lax",
		Path:     "/",
		MaxAge:   int(Duration.Seconds()),
	})
}

// Destroy removes the cookie entry outright. A leaked token stays valid
// until its embedded expiry; there is no revocation list.
func (m *Manager) Destroy(c Store) {
	c.Delete(CookieName)
}

// CurrentUser returns the authenticated username, or ("", false) when
// there is no usable session. Absent, tampered and expired cookies all
// resolve to the same negative result.
func (m *Manager) CurrentUser(c Store) (string, bool) {
	value, ok := c.Get(CookieName)
	if !ok {
		return "", false
	}

	payload, ok := m.codec.Verify(value)
	if !ok {
		return "", false
	}

	return payload.Username, true
}

// IsAuthenticated is the boolean view of CurrentUser.
func (m *Manager) IsAuthenticated(c Store) bool {
	_, ok := m.CurrentUser(c)
	return ok
}
