package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
)

type DebtInput struct {
	Type        entity.DebtType
	PersonName  string
	Amount      float64
	Description string
	Date        time.Time
	DueDate     *time.Time
}

func (in DebtInput) validate() error {
	if in.Type != entity.DebtGiven && in.Type != entity.DebtTaken {
		return apperror.BadRequest("type must be given or taken")
	}
	if strings.TrimSpace(in.PersonName) == "" {
		return apperror.BadRequest("person name is required")
	}
	if in.Amount <= 0 {
		return apperror.BadRequest("amount must be positive")
	}
	return nil
}

type DebtService struct {
	Repo   repository.DebtRepository
	Cache  *Cache
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewDebtService(repo repository.DebtRepository, cache *Cache, logger *logrus.Logger) *DebtService {
	return &DebtService{Repo: repo, Cache: cache, Logger: logger, Now: time.Now}
}

// List returns the caller's debts, newest first.
func (s *DebtService) List(ctx context.Context, userID string) ([]*entity.Debt, error) {
	key := KeyUserDebts(userID)
	var cached []*entity.Debt
	if s.Cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	debts, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Set(ctx, key, debts, UserListTTL)
	return debts, nil
}

// Summary is computed from the store on every call.
func (s *DebtService) Summary(ctx context.Context, userID string) (entity.DebtSummary, error) {
	debts, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return entity.DebtSummary{}, apperror.Internal(err)
	}
	return entity.Summarize(debts), nil
}

func (s *DebtService) Create(ctx context.Context, userID string, in DebtInput) (*entity.Debt, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.Now()
	}
	d := &entity.Debt{
		UserID:      userID,
		Type:        in.Type,
		PersonName:  strings.TrimSpace(in.PersonName),
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		DueDate:     in.DueDate,
		Status:      entity.DebtPending,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Del(ctx, KeyUserDebts(userID))
	return d, nil
}

func (s *DebtService) owned(ctx context.Context, userID, id string) (*entity.Debt, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("debt not found")
		}
		return nil, apperror.Internal(err)
	}
	if d.UserID != userID {
		return nil, apperror.Forbidden("not your debt")
	}
	return d, nil
}

func (s *DebtService) save(ctx context.Context, d *entity.Debt) (*entity.Debt, error) {
	if err := s.Repo.Update(ctx, d); err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Del(ctx, KeyUserDebts(d.UserID))
	return d, nil
}

func (s *DebtService) Update(ctx context.Context, userID, id string, in DebtInput) (*entity.Debt, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	d, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	d.Type = in.Type
	d.PersonName = strings.TrimSpace(in.PersonName)
	d.Amount = in.Amount
	d.Description = in.Description
	d.DueDate = in.DueDate
	if !in.Date.IsZero() {
		d.Date = in.Date
	}
	return s.save(ctx, d)
}

// Settle marks a debt settled as of now. Settling twice keeps the first date.
func (s *DebtService) Settle(ctx context.Context, userID, id string) (*entity.Debt, error) {
	d, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if d.Status == entity.DebtSettled {
		return d, nil
	}
	now := s.Now()
	d.Status = entity.DebtSettled
	d.SettledDate = &now
	return s.save(ctx, d)
}

func (s *DebtService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("debt not found")
		}
		return apperror.Internal(err)
	}
	s.Cache.Del(ctx, KeyUserDebts(userID))
	return nil
}
