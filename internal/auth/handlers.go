package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/FestivalLedger/FL-Backend/internal/session"
	"github.com/FestivalLedger/FL-Backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	DB       *gorm.DB
	Sessions *session.Manager
	Policy   *Policy
	Users    UserStore
}

func NewHandler(db *gorm.DB, sessions *session.Manager) *Handler {
	users := UserStore{DB: db}
	return &Handler{
		DB:       db,
		Sessions: sessions,
		Policy:   &Policy{Sessions: sessions, Users: users},
		Users:    users,
	}
}

// Login checks credentials and issues a session cookie. Unknown usernames
// and wrong passwords get the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format.")
		return
	}

	if creds.Username == "" || creds.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, err := h.Users.FindByUsername(creds.Username)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	h.Sessions.Create(session.FromRequest(w, r), user.Username)
	utils.RespondSuccess(w, "Login successful.")
}

// Logout destroys the session outright.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Destroy(session.FromRequest(w, r))
	utils.RespondSuccess(w, "Logout successful.")
}

type meResponse struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Me returns the current user. Runs behind the session middleware, so the
// username is always in context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized. Please log in.")
		return
	}

	user, err := h.Users.FindByUsername(username)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Couldn't find user.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, meResponse{Username: user.Username, Role: user.Role})
}

// ListUsers returns every non-superadmin account, for the superadmin panel.
// Non-superadmin callers receive an empty list rather than an error.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireSuperadmin(session.FromRequest(w, r)); denied != nil {
		utils.RespondJSON(w, http.StatusOK, []meResponse{})
		return
	}

	users, err := h.Users.ListMembers()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to list users. Please try again.")
		return
	}

	out := make([]meResponse, 0, len(users))
	for _, u := range users {
		out = append(out, meResponse{Username: u.Username, Role: u.Role})
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

// ResetPassword resets a member's password to their username. Superadmin
// only; the superadmin account itself is never resettable, regardless of
// who asks.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if denied := h.Policy.RequireSuperadmin(session.FromRequest(w, r)); denied != nil {
		utils.RespondError(w, http.StatusForbidden, denied.Message)
		return
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		utils.RespondError(w, http.StatusBadRequest, "Username is required.")
		return
	}

	if body.Username == SuperadminUsername {
		utils.RespondError(w, http.StatusForbidden, "Cannot reset superadmin password.")
		return
	}

	if _, err := h.Users.FindByUsername(body.Username); err != nil {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("User %q not found.", body.Username))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Username), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to reset password. Please try again.")
		return
	}

	if err := h.Users.UpdatePasswordHash(body.Username, string(hashed)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to reset password. Please try again.")
		return
	}

	utils.RespondSuccess(w, fmt.Sprintf("Password for %q has been reset to their username.", body.Username))
}
