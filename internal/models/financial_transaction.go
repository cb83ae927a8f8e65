package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType loại phiếu
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// PaymentMethod hình thức thanh toán
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// FinancialTransaction phiếu thu/chi
type FinancialTransaction struct {
	BaseModel

	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Type            TransactionType `gorm:"size:20;not null;index" json:"type"`
	Category        *string         `gorm:"size:100" json:"category,omitempty"`
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null" json:"payment_method"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`

	// IsConfirmed chủ phòng khám đã duyệt
	IsConfirmed bool       `gorm:"default:false" json:"is_confirmed"`
	ConfirmedBy *uuid.UUID `gorm:"type:uuid" json:"confirmed_by,omitempty"`
}

// TableName trả về tên bảng
func (FinancialTransaction) TableName() string {
	return "financial_transactions"
}

// Confirm duyệt phiếu
func (t *FinancialTransaction) Confirm(actor uuid.UUID, now time.Time) {
	t.IsConfirmed = true
	t.ConfirmedBy = &actor
	t.MarkUpdated(actor, now)
}
