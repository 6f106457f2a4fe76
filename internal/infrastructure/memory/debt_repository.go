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

type DebtRepository struct {
	mu    sync.RWMutex
	debts map[string]*entity.Debt
}

func NewDebtRepository() *DebtRepository {
	return &DebtRepository{debts: map[string]*entity.Debt{}}
}

func (r *DebtRepository) Create(_ context.Context, d *entity.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	d.ID = uuid.NewString()
	d.CreatedAt, d.UpdatedAt = now, now
	cp := *d
	r.debts[d.ID] = &cp
	return nil
}

func (r *DebtRepository) GetByID(_ context.Context, id string) (*entity.Debt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.debts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *DebtRepository) Update(_ context.Context, d *entity.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.debts[d.ID]; !ok {
		return repository.ErrNotFound
	}
	d.UpdatedAt = time.Now()
	cp := *d
	r.debts[d.ID] = &cp
	return nil
}

func (r *DebtRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.debts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.debts, id)
	return nil
}

func (r *DebtRepository) ListByUser(_ context.Context, userID string) ([]*entity.Debt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Debt{}
	for _, d := range r.debts {
		if d.UserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

var _ repository.DebtRepository = (*DebtRepository)(nil)
