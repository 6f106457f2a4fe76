package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type TransactionRepository struct {
	mu    sync.RWMutex
	txs   map[string]*entity.Transaction
	users repository.UserRepository
}

// NewTransactionRepository needs the user repository to join owner fields.
func NewTransactionRepository(users repository.UserRepository) *TransactionRepository {
	return &TransactionRepository{txs: map[string]*entity.Transaction{}, users: users}
}

func (r *TransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TransactionRepository) Update(_ context.Context, t *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[t.ID]; !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	cp := *t
	r.txs[t.ID] = &cp
	return nil
}

func (r *TransactionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.txs, id)
	return nil
}

func (r *TransactionRepository) ListByUser(_ context.Context, userID string) ([]*entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Transaction{}
	for _, t := range r.txs {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *TransactionRepository) ListAllWithOwner(ctx context.Context) ([]*entity.TransactionWithOwner, error) {
	r.mu.RLock()
	all := make([]entity.Transaction, 0, len(r.txs))
	for _, t := range r.txs {
		all = append(all, *t)
	}
	r.mu.RUnlock()

	out := make([]*entity.TransactionWithOwner, 0, len(all))
	for _, t := range all {
		row := &entity.TransactionWithOwner{Transaction: t}
		if u, err := r.users.GetByID(ctx, t.UserID); err == nil {
			row.UserName, row.UserEmail = u.Name, u.Email
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *TransactionRepository) Totals(_ context.Context) (entity.PlatformTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tot entity.PlatformTotals
	for _, t := range r.txs {
		tot.Transactions++
		switch t.Type {
		case entity.TransactionIncome:
			tot.Income += t.Amount
		case entity.TransactionExpense:
			tot.Expense += t.Amount
		}
	}
	return tot, nil
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
