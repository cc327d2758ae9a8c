package auth

import (
	"github.com/FestivalLedger/FL-Backend/internal/session"
)

// Denial is a refused authorization carrying the user-facing message.
// A nil *Denial means the caller may proceed.
type Denial struct {
	Message string
}

// Policy implements the two role gates every mutating handler must pass
// before touching the store. Authentication failures and authorization
// failures carry different messages on purpose: the former is uniform,
// the latter names the missing privilege.
type Policy struct {
	Sessions *session.Manager
	Users    UserFinder
}

// RequireAuthenticated denies when there is no valid session.
func (p *Policy) RequireAuthenticated(c session.Store) *Denial {
	if !p.Sessions.IsAuthenticated(c) {
		return &Denial{Message: "Unauthorized. Please log in."}
	}
	return nil
}

// RequireSuperadmin denies unless the current session's user carries the
// superadmin role. No session, unknown user and insufficient role all
// produce the same denial.
func (p *Policy) RequireSuperadmin(c session.Store) *Denial {
	denied := &Denial{Message: "Only superadmin can perform this action."}

	username, ok := p.Sessions.CurrentUser(c)
	if !ok {
		return denied
	}

	user, err := p.Users.FindByUsername(username)
	if err != nil || user.Role != RoleSuperadmin {
		return denied
	}

	return nil
}
