package repository

import (
	"context"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	Update(ctx context.Context, t *entity.Transaction) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns the user's transactions, most recent date first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error)
	ListAllWithOwner(ctx context.Context) ([]*entity.TransactionWithOwner, error)
	Totals(ctx context.Context) (entity.PlatformTotals, error)
}
