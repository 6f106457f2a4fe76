package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
)

type TransactionInput struct {
	Type        entity.TransactionType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
}

func (in TransactionInput) validate() error {
	if in.Type != entity.TransactionIncome && in.Type != entity.TransactionExpense {
		return apperror.BadRequest("type must be income or expense")
	}
	if in.Amount <= 0 {
		return apperror.BadRequest("amount must be positive")
	}
	if strings.TrimSpace(in.Category) == "" {
		return apperror.BadRequest("category is required")
	}
	return nil
}

type TransactionService struct {
	Repo     repository.TransactionRepository
	Cache    *Cache
	Receipts ReceiptStore
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewTransactionService(repo repository.TransactionRepository, cache *Cache, receipts ReceiptStore, logger *logrus.Logger) *TransactionService {
	return &TransactionService{Repo: repo, Cache: cache, Receipts: receipts, Logger: logger, Now: time.Now}
}

func (s *TransactionService) invalidate(ctx context.Context, userID string) {
	s.Cache.Del(ctx, KeyUserTransactions(userID), KeyPlatformStats, KeyPlatformAllTransactions)
}

// List returns the caller's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	key := KeyUserTransactions(userID)
	var cached []*entity.Transaction
	if s.Cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	txs, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.Cache.Set(ctx, key, txs, UserListTTL)
	return txs, nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (*entity.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.Now()
	}
	t := &entity.Transaction{
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Date:        in.Date,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, apperror.Internal(err)
	}
	s.invalidate(ctx, userID)
	return t, nil
}

// owned loads id and checks that userID owns it.
func (s *TransactionService) owned(ctx context.Context, userID, id string) (*entity.Transaction, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("transaction not found")
		}
		return nil, apperror.Internal(err)
	}
	if t.UserID != userID {
		return nil, apperror.Forbidden("not your transaction")
	}
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id string, in TransactionInput) (*entity.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Type = in.Type
	t.Amount = in.Amount
	t.Category = strings.TrimSpace(in.Category)
	t.Description = in.Description
	if !in.Date.IsZero() {
		t.Date = in.Date
	}
	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, apperror.Internal(err)
	}
	s.invalidate(ctx, userID)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("transaction not found")
		}
		return apperror.Internal(err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// AttachReceipt uploads a receipt file and records its URL on the transaction.
func (s *TransactionService) AttachReceipt(ctx context.Context, userID, id, filename, contentType string, r io.Reader) (*entity.Transaction, error) {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.Receipts == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "receipt storage unavailable")
	}
	url, err := s.Receipts.Upload(ctx, userID, filename, contentType, r)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	t.ReceiptURL = url
	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, apperror.Internal(err)
	}
	s.invalidate(ctx, userID)
	return t, nil
}
