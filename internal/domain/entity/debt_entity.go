package entity

import "time"

type DebtType string

const (
	DebtGiven DebtType = "given" // lent to someone
	DebtTaken DebtType = "taken" // borrowed from someone
)

type DebtStatus string

const (
	DebtPending DebtStatus = "pending"
	DebtSettled DebtStatus = "settled"
)

type Debt struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        DebtType   `json:"type"`
	PersonName  string     `json:"person_name"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      DebtStatus `json:"status"`
	SettledDate *time.Time `json:"settled_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type DebtSummary struct {
	TotalGiven   float64 `json:"total_given"`
	TotalTaken   float64 `json:"total_taken"`
	PendingGiven float64 `json:"pending_given"`
	PendingTaken float64 `json:"pending_taken"`
	SettledGiven float64 `json:"settled_given"`
	SettledTaken float64 `json:"settled_taken"`
}

// Summarize folds debts into totals by type and status.
func Summarize(debts []*Debt) DebtSummary {
	var s DebtSummary
	for _, d := range debts {
		switch d.Type {
		case DebtGiven:
			s.TotalGiven += d.Amount
			if d.Status == DebtPending {
				s.PendingGiven += d.Amount
			} else {
				s.SettledGiven += d.Amount
			}
		case DebtTaken:
			s.TotalTaken += d.Amount
			if d.Status == DebtPending {
				s.PendingTaken += d.Amount
			} else {
				s.SettledTaken += d.Amount
			}
		}
	}
	return s
}
