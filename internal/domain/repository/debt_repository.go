package repository

import (
	"context"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

type DebtRepository interface {
	Create(ctx context.Context, d *entity.Debt) error
	GetByID(ctx context.Context, id string) (*entity.Debt, error)
	Update(ctx context.Context, d *entity.Debt) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns the user's debts, most recent date first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Debt, error)
}
