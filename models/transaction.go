package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Income adds to the balance, expense subtracts.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single income or expense entry belonging to one user.
// UpdatedAt is refreshed by gorm on every mutation.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	UserID      uint            `gorm:"not null;index:idx_tx_user_date;index:idx_tx_user_type;index:idx_tx_user_category" json:"-"`
	Type        string          `gorm:"size:16;not null;index:idx_tx_user_type" json:"type"`
	Category    string          `gorm:"size:100;not null;index:idx_tx_user_category" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description string          `gorm:"size:200;not null" json:"description"`
	Date        time.Time       `gorm:"not null;index:idx_tx_user_date" json:"date"`
	Tags        []string        `gorm:"serializer:json" json:"tags,omitempty"`
	Attachments []Attachment    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"attachments,omitempty"`
}
