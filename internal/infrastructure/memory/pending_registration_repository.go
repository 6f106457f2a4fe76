package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type PendingRegistrationRepository struct {
	mu      sync.Mutex
	pending map[string]*entity.PendingRegistration
	now     func() time.Time
}

func NewPendingRegistrationRepository() *PendingRegistrationRepository {
	return &PendingRegistrationRepository{pending: map[string]*entity.PendingRegistration{}, now: time.Now}
}

// SetClock replaces the time source used to hide expired records.
func (r *PendingRegistrationRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *PendingRegistrationRepository) Supersede(_ context.Context, p *entity.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = r.now()
	}
	r.pending[p.Email] = &cp
	return nil
}

func (r *PendingRegistrationRepository) GetByEmail(_ context.Context, email string) (*entity.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[email]
	if !ok || p.Expired(r.now()) {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PendingRegistrationRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, email)
	return nil
}

func (r *PendingRegistrationRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for email, p := range r.pending {
		if p.Expired(now) {
			delete(r.pending, email)
			n++
		}
	}
	return n, nil
}

// Len reports how many records are held, expired or not.
func (r *PendingRegistrationRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

var _ repository.PendingRegistrationRepository = (*PendingRegistrationRepository)(nil)
