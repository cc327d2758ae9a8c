package auth_test

import (
	"errors"
	"testing"

	"github.com/FestivalLedger/FL-Backend/internal/auth"
	"github.com/FestivalLedger/FL-Backend/internal/session"
	"github.com/FestivalLedger/FL-Backend/internal/token"
)

// mapStore implements session.Store over a plain map.
type mapStore map[string]string

func (s mapStore) Get(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

func (s mapStore) Set(name, value string, _ session.Options) { s[name] = value }

func (s mapStore) Delete(name string) { delete(s, name) }

// mockUsers implements auth.UserFinder without a database.
type mockUsers map[string]auth.User

func (m mockUsers) FindByUsername(username string) (auth.User, error) {
	user, ok := m[username]
	if !ok {
		return auth.User{}, errors.New("record not found")
	}
	return user, nil
}

func testPolicy(users mockUsers) (*auth.Policy, *session.Manager) {
	sessions := session.NewManager(token.NewCodec("test-secret"), false)
	return &auth.Policy{Sessions: sessions, Users: users}, sessions
}

func loggedInAs(sessions *session.Manager, username string) mapStore {
	store := mapStore{}
	sessions.Create(store, username)
	return store
}

// TestRequireAuthenticated verifies the authenticated/unauthenticated split.
func TestRequireAuthenticated(t *testing.T) {
	policy, sessions := testPolicy(mockUsers{})

	if denied := policy.RequireAuthenticated(loggedInAs(sessions, "accountant")); denied != nil {
		t.Errorf("expected valid session to pass, got denial %q", denied.Message)
	}

	if denied := policy.RequireAuthenticated(mapStore{}); denied == nil {
		t.Error("expected missing session to be denied")
	} else if denied.Message != "Unauthorized. Please log in." {
		t.Errorf("unexpected denial message: %q", denied.Message)
	}

	tampered := mapStore{session.CookieName: "not-a-token"}
	if denied := policy.RequireAuthenticated(tampered); denied == nil {
		t.Error("expected tampered session to be denied")
	}
}

// TestRequireSuperadmin_DeniesNonSuperadmins verifies that no session,
// unknown users and plain members are all denied with the same message,
// and that only the superadmin-role account passes.
func TestRequireSuperadmin_DeniesNonSuperadmins(t *testing.T) {
	policy, sessions := testPolicy(mockUsers{
		"superadmin": {Username: "superadmin", Role: auth.RoleSuperadmin},
		"accountant": {Username: "accountant", Role: auth.RoleMember},
	})

	const wantMessage = "Only superadmin can perform this action."

	cases := []struct {
		name  string
		store session.Store
	}{
		{"no session", mapStore{}},
		{"tampered session", mapStore{session.CookieName: "garbage"}},
		{"member user", loggedInAs(sessions, "accountant")},
		{"session for unknown user", loggedInAs(sessions, "ghost")},
	}

	for _, tc := range cases {
		denied := policy.RequireSuperadmin(tc.store)
		if denied == nil {
			t.Errorf("%s: expected denial", tc.name)
			continue
		}
		if denied.Message != wantMessage {
			t.Errorf("%s: unexpected denial message %q", tc.name, denied.Message)
		}
	}

	if denied := policy.RequireSuperadmin(loggedInAs(sessions, "superadmin")); denied != nil {
		t.Errorf("expected superadmin to pass, got denial %q", denied.Message)
	}
}

// TestRequireSuperadmin_RoleNotName verifies privilege follows the role
// column: a user who happens to hold the superadmin role under another
// name passes, and the reserved name without the role does not.
func TestRequireSuperadmin_RoleNotName(t *testing.T) {
	policy, sessions := testPolicy(mockUsers{
		"treasurer":  {Username: "treasurer", Role: auth.RoleSuperadmin},
		"superadmin": {Username: "superadmin", Role: auth.RoleMember},
	})

	if denied := policy.RequireSuperadmin(loggedInAs(sessions, "treasurer")); denied != nil {
		t.Errorf("expected superadmin-role user to pass, got %q", denied.Message)
	}

	if denied := policy.RequireSuperadmin(loggedInAs(sessions, "superadmin")); denied == nil {
		t.Error("expected member-role user to be denied despite the reserved name")
	}
}
