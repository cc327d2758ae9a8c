package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role gates administrative actions. Privilege lives on the user row, not
// in the username, so accounts can be renamed without changing what they
// are allowed to do.
type Role string

const (
	RoleMember     Role = "member"
	RoleSuperadmin Role = "superadmin"
)

// SuperadminUsername is the reserved account seeded with RoleSuperadmin.
// Its password can never be reset through the API.
const SuperadminUsername = "superadmin"

type User struct {
	UserID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"user_id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;default:'member'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "app_auth.users" }
