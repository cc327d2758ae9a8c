package auth

import "gorm.io/gorm"

// UserFinder is the lookup surface the access policy needs. Kept narrow so
// policy tests can supply an in-memory implementation.
type UserFinder interface {
	FindByUsername(username string) (User, error)
}

// UserStore is the gorm-backed user repository.
type UserStore struct {
	DB *gorm.DB
}

func (s UserStore) FindByUsername(username string) (User, error) {
	var user User
	err := s.DB.First(&user, "username = ?", username).Error
	return user, err
}

// ListMembers returns every user except the reserved superadmin account.
func (s UserStore) ListMembers() ([]User, error) {
	var users []User
	err := s.DB.Where("username <> ?", SuperadminUsername).Order("username ASC").Find(&users).Error
	return users, err
}

// UpdatePasswordHash replaces a user's stored hash.
func (s UserStore) UpdatePasswordHash(username, hash string) error {
	return s.DB.Model(&User{}).Where("username = ?", username).Update("password_hash", hash).Error
}
