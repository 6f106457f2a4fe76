package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

func TestAdminStatsCachedAndInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logger := helpers.NewDiscardLogger()
	admin := NewAdminService(f.users, f.txs, f.cache, nil, logger)
	txs := NewTransactionService(f.txs, f.cache, nil, logger)

	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)
	_, err := txs.Create(ctx, u.ID, TransactionInput{Type: entity.TransactionIncome, Amount: 100, Category: "pay"})
	require.NoError(t, err)
	_, err = txs.Create(ctx, u.ID, TransactionInput{Type: entity.TransactionExpense, Amount: 30, Category: "food"})
	require.NoError(t, err)

	st, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, PlatformStats{TotalUsers: 1, TotalTransactions: 2, TotalIncome: 100, TotalExpense: 30, PlatformBalance: 70}, st)
	assert.Equal(t, 30*time.Minute, f.kv.TTL(KeyPlatformStats))

	_, err = txs.Create(ctx, u.ID, TransactionInput{Type: entity.TransactionIncome, Amount: 5, Category: "tip"})
	require.NoError(t, err)
	st, err = admin.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.TotalTransactions)

	all, err := admin.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a@x.com", all[0].UserEmail)
}

func TestAdminUpdateUserStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	search := &fakeSearch{}
	s := NewAdminService(f.users, f.txs, f.cache, search, helpers.NewDiscardLogger())
	admin := f.createUser(t, "admin@x.com", "secret1", entity.RoleAdmin, entity.StatusActive)
	target := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)

	_, err := s.AllUsers(ctx)
	require.NoError(t, err)

	for _, st := range []entity.Status{entity.StatusSuspended, "banana", ""} {
		_, err = s.UpdateUserStatus(ctx, admin, admin.ID, st)
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
		assert.Equal(t, "admin cannot change their own status", apperror.From(err).Message)
	}

	_, err = s.UpdateUserStatus(ctx, admin, target.ID, "banana")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	_, err = s.UpdateUserStatus(ctx, admin, "ghost", entity.StatusSuspended)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	u, err := s.UpdateUserStatus(ctx, admin, target.ID, entity.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuspended, u.Status)
	assert.Equal(t, []string{target.ID}, search.indexed)

	users, err := s.AllUsers(ctx)
	require.NoError(t, err)
	for _, x := range users {
		if x.ID == target.ID {
			assert.Equal(t, entity.StatusSuspended, x.Status)
		}
	}
}

func TestAdminSearchUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := NewAdminService(f.users, f.txs, f.cache, nil, helpers.NewDiscardLogger()).SearchUsers(ctx, "a", 10)
	assert.Equal(t, http.StatusServiceUnavailable, apperror.StatusOf(err))

	search := &fakeSearch{results: []*entity.User{{ID: "u1"}}}
	got, err := NewAdminService(f.users, f.txs, f.cache, search, helpers.NewDiscardLogger()).SearchUsers(ctx, "a", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	search.err = errors.New("es down")
	_, err = NewAdminService(f.users, f.txs, f.cache, search, helpers.NewDiscardLogger()).SearchUsers(ctx, "a", 10)
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusOf(err))
}
