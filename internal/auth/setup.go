package auth

import (
	"log"

	"github.com/FestivalLedger/FL-Backend/internal/db"
	"gorm.io/gorm"
)

func Init(conn *gorm.DB) {
	if err := db.EnsureSchema(conn, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := conn.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension: ", err)
	}

	if err := conn.AutoMigrate(&User{}); err != nil {
		log.Fatal("Failed to auto-migrate auth tables: ", err)
	}

	// The reserved account always carries the superadmin role, even if the
	// row predates the role column.
	if err := conn.Model(&User{}).
		Where("username = ? AND role <> ?", SuperadminUsername, RoleSuperadmin).
		Update("role", RoleSuperadmin).Error; err != nil {
		log.Fatal("Failed to assert superadmin role: ", err)
	}
}
