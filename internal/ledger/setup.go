package ledger

import (
	"log"

	"github.com/FestivalLedger/FL-Backend/internal/db"
	"gorm.io/gorm"
)

func Init(conn *gorm.DB) {
	if err := db.EnsureSchema(conn, "ledger"); err != nil {
		log.Fatal("Failed to ensure schema ledger: ", err)
	}

	if err := conn.AutoMigrate(&Event{}, &Transaction{}); err != nil {
		log.Fatal("Failed to auto-migrate ledger tables: ", err)
	}
}
