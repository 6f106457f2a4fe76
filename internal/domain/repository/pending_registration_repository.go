package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

// PendingRegistrationRepository stores staged sign-ups keyed by email.
type PendingRegistrationRepository interface {
	// Supersede inserts p, atomically replacing any record with the same email.
	Supersede(ctx context.Context, p *entity.PendingRegistration) error
	// GetByEmail returns ErrNotFound for absent records and for records whose
	// ExpiresAt has passed, even if they have not been swept yet.
	GetByEmail(ctx context.Context, email string) (*entity.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
