package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
)

type PlatformStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalTransactions int64   `json:"totalTransactions"`
	TotalIncome       float64 `json:"totalIncome"`
	TotalExpense      float64 `json:"totalExpense"`
	PlatformBalance   float64 `json:"platformBalance"`
}

// AdminService serves platform-wide aggregates. Callers must already hold
// the admin role.
type AdminService struct {
	Users        repository.UserRepository
	Transactions repository.TransactionRepository
	Cache        *Cache
	Search       UserSearcher
	Logger       *logrus.Logger
}

func NewAdminService(users repository.UserRepository, txs repository.TransactionRepository, cache *Cache, search UserSearcher, logger *logrus.Logger) *AdminService {
	return &AdminService{Users: users, Transactions: txs, Cache: cache, Search: search, Logger: logger}
}

func (s *AdminService) Stats(ctx context.Context) (PlatformStats, error) {
	var st PlatformStats
	if s.Cache.Get(ctx, KeyPlatformStats, &st) {
		return st, nil
	}
	users, err := s.Users.Count(ctx)
	if err != nil {
		return PlatformStats{}, apperror.Internal(err)
	}
	tot, err := s.Transactions.Totals(ctx)
	if err != nil {
		return PlatformStats{}, apperror.Internal(err)
	}
	st = PlatformStats{
		TotalUsers:        users,
		TotalTransactions: tot.Transactions,
		TotalIncome:       tot.Income,
		TotalExpense:      tot.Expense,
		PlatformBalance:   tot.Income - tot.Expense,
	}
	s.Cache.Set(ctx, KeyPlatformStats, st, PlatformTTL)
	return st, nil
}

func (s *AdminService) AllUsers(ctx context.Context) ([]*entity.User, error) {
	var cached []*entity.User
	if s.Cache.Get(ctx, KeyPlatformAllUsers, &cached) {
		return cached, nil
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Set(ctx, KeyPlatformAllUsers, users, PlatformTTL)
	return users, nil
}

func (s *AdminService) AllTransactions(ctx context.Context) ([]*entity.TransactionWithOwner, error) {
	var cached []*entity.TransactionWithOwner
	if s.Cache.Get(ctx, KeyPlatformAllTransactions, &cached) {
		return cached, nil
	}
	txs, err := s.Transactions.ListAllWithOwner(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Set(ctx, KeyPlatformAllTransactions, txs, PlatformTTL)
	return txs, nil
}

// UpdateUserStatus suspends or reactivates an account. An admin can never
// change their own status, whatever value is requested.
func (s *AdminService) UpdateUserStatus(ctx context.Context, actor *entity.User, targetID string, status entity.Status) (*entity.User, error) {
	if actor != nil && actor.ID == targetID {
		return nil, apperror.BadRequest("admin cannot change their own status")
	}
	if !status.Valid() {
		return nil, apperror.BadRequest("status must be active or suspended")
	}
	u, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal(err)
	}
	u.Status = status
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Del(ctx, KeyPlatformAllUsers)
	if s.Search != nil {
		if err := s.Search.Index(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("reindex user failed")
		}
	}
	return u, nil
}

func (s *AdminService) SearchUsers(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if s.Search == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "user search unavailable")
	}
	users, err := s.Search.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}
