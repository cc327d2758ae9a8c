package ledger

import "time"

type TransactionType string

const (
	TypeIncome      TransactionType = "income"
	TypeExpenditure TransactionType = "expenditure"
)

type PaymentMode string

const (
	PaymentCash PaymentMode = "cash"
	PaymentBank PaymentMode = "bank"
)

// Event is the root aggregate. Deleting an event cascades to its
// transactions, performed explicitly by the handler inside one database
// transaction.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"default:''" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`

	Transactions []Transaction `gorm:"foreignKey:EventID" json:"transactions,omitempty"`
}

func (Event) TableName() string { return "ledger.events" }

// Transaction is a single income or expenditure entry. Amount is always
// positive; direction is carried by Type. Date is an ISO-8601 day string,
// not a timestamp, so string order is date order.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        string          `gorm:"not null;index:idx_transactions_date;index:idx_transactions_date_type,priority:1" json:"date"`
	Name        string          `gorm:"not null" json:"name"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Type        TransactionType `gorm:"not null;index:idx_transactions_type;index:idx_transactions_date_type,priority:2" json:"type"`
	PaymentMode PaymentMode     `gorm:"not null;default:'cash'" json:"payment_mode"`
	Description string          `gorm:"default:''" json:"description"`
	EventID     uint            `gorm:"index:idx_transactions_event_id" json:"event_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Transaction) TableName() string { return "ledger.transactions" }
