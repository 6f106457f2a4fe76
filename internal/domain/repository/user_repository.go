package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// List returns every identity, newest first.
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
