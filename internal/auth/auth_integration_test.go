package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/FestivalLedger/FL-Backend/internal/auth"
	"github.com/FestivalLedger/FL-Backend/internal/config"
	"github.com/FestivalLedger/FL-Backend/internal/db"
	"github.com/FestivalLedger/FL-Backend/internal/middleware"
	"github.com/FestivalLedger/FL-Backend/internal/session"
	"github.com/FestivalLedger/FL-Backend/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testConn is the shared database handle for all integration tests.
var testConn *gorm.DB

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	conn, err := db.Connect(databaseURL)
	if err != nil {
		fmt.Println("database unreachable, skipping integration tests:", err)
		os.Exit(m.Run())
	}
	testConn = conn
	dbAvailable = true

	// Set up auth tables (idempotent).
	auth.Init(conn)

	// Mount auth routes on a Chi router, matching production setup in
	// main.go. Plain-HTTP cookies: secure=false, as in local dev.
	sessions := session.NewManager(token.NewCodec(config.DefaultSessionSecret), false)
	handler := auth.NewHandler(conn, sessions)

	r := chi.NewRouter()
	r.Mount("/auth", handler.SetupRoutes(middleware.NewRateLimiter(100, 100)))

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// createTestUser inserts a unique user and registers a cleanup to remove
// it. Returns the username and plaintext password.
func createTestUser(t *testing.T, role auth.Role) (username, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username = fmt.Sprintf("testuser_%s", uuid.New().String()[:8])
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	user := auth.User{
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := testConn.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	t.Cleanup(func() {
		testConn.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	return username, password
}

// newClientWithJar returns an http.Client with a fresh cookie jar that
// automatically carries cookies between requests.
func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

// loginUser posts to /auth/login and returns the response. The client's
// cookie jar is populated with the session cookie on success.
func loginUser(t *testing.T, client *http.Client, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(testServer.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	return resp
}

// readBody reads and returns the response body as a string, draining and
// closing it.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestLoginReturnsSessionCookie verifies that POST /auth/login with valid
// credentials returns 200 and a Set-Cookie header carrying the signed
// session token.
func TestLoginReturnsSessionCookie(t *testing.T) {
	username, password := createTestUser(t, auth.RoleMember)
	client := newClientWithJar(t)

	resp := loginUser(t, client, username, password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, session.CookieName+"=") {
		t.Errorf("expected Set-Cookie to contain %q, got: %q", session.CookieName, setCookie)
	}
	if !strings.Contains(setCookie, "HttpOnly") {
		t.Errorf("expected an HttpOnly cookie, got: %q", setCookie)
	}
}

// TestLoginRejectsBadCredentials verifies unknown usernames and wrong
// passwords both get the same 401.
func TestLoginRejectsBadCredentials(t *testing.T) {
	username, _ := createTestUser(t, auth.RoleMember)
	client := newClientWithJar(t)

	wrongPass := readBody(t, loginUser(t, client, username, "wrong-password"))
	unknownUser := readBody(t, loginUser(t, client, "no-such-user", "whatever"))

	if !strings.Contains(wrongPass, "Invalid username or password") {
		t.Errorf("wrong password: unexpected body %q", wrongPass)
	}
	if !strings.Contains(unknownUser, "Invalid username or password") {
		t.Errorf("unknown user: unexpected body %q", unknownUser)
	}
}

// TestSessionPersistsAcrossRequests verifies that after login, GET /auth/me
// returns the logged-in user when the same cookie-jar client is used.
func TestSessionPersistsAcrossRequests(t *testing.T) {
	username, password := createTestUser(t, auth.RoleMember)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d; body: %s", meResp.StatusCode, meBody)
	}

	var me map[string]any
	if err := json.Unmarshal([]byte(meBody), &me); err != nil {
		t.Fatalf("invalid JSON body: %s", meBody)
	}
	if me["username"] != username {
		t.Errorf("expected username %q, got %v", username, me["username"])
	}
}

// TestLogoutClearsSession verifies that /auth/me stops working after
// /auth/logout with the same client.
func TestLogoutClearsSession(t *testing.T) {
	username, password := createTestUser(t, auth.RoleMember)
	client := newClientWithJar(t)

	readBody(t, loginUser(t, client, username, password))

	logoutResp, err := client.Post(testServer.URL+"/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /auth/logout: %v", err)
	}
	readBody(t, logoutResp)

	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me: %v", err)
	}
	readBody(t, meResp)

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", meResp.StatusCode)
	}
}

// TestResetPassword_SuperadminFlow verifies that a superadmin-role user can
// reset a member's password to their username, and that the reserved
// superadmin account is never resettable.
func TestResetPassword_SuperadminFlow(t *testing.T) {
	adminName, adminPass := createTestUser(t, auth.RoleSuperadmin)
	memberName, _ := createTestUser(t, auth.RoleMember)

	client := newClientWithJar(t)
	readBody(t, loginUser(t, client, adminName, adminPass))

	reset := func(target string) *http.Response {
		body, _ := json.Marshal(map[string]string{"username": target})
		resp, err := client.Post(testServer.URL+"/auth/reset-password", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST /auth/reset-password: %v", err)
		}
		return resp
	}

	resp := reset(memberName)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	// The member can now log in with their username as password.
	memberClient := newClientWithJar(t)
	loginResp := loginUser(t, memberClient, memberName, memberName)
	readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Errorf("expected member to log in with reset password, got %d", loginResp.StatusCode)
	}

	// The reserved account is refused even for a superadmin caller.
	saResp := reset(auth.SuperadminUsername)
	saBody := readBody(t, saResp)
	if saResp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for superadmin target, got %d", saResp.StatusCode)
	}
	if !strings.Contains(saBody, "Cannot reset superadmin password") {
		t.Errorf("unexpected body: %s", saBody)
	}
}

// TestResetPassword_MemberDenied verifies a plain member is refused with
// the authorization message.
func TestResetPassword_MemberDenied(t *testing.T) {
	memberName, memberPass := createTestUser(t, auth.RoleMember)
	otherName, _ := createTestUser(t, auth.RoleMember)

	client := newClientWithJar(t)
	readBody(t, loginUser(t, client, memberName, memberPass))

	body, _ := json.Marshal(map[string]string{"username": otherName})
	resp, err := client.Post(testServer.URL+"/auth/reset-password", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/reset-password: %v", err)
	}
	respBody := readBody(t, resp)

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
	if !strings.Contains(respBody, "Only superadmin can perform this action") {
		t.Errorf("unexpected body: %s", respBody)
	}
}
