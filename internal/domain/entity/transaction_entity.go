package entity

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionWithOwner is a transaction joined with its owner's public fields.
type TransactionWithOwner struct {
	Transaction
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// PlatformTotals aggregates every transaction on the platform.
type PlatformTotals struct {
	Transactions int64
	Income       float64
	Expense      float64
}
