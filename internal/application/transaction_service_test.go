package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

type fakeReceipts struct {
	body string
	err  error
}

func (r *fakeReceipts) Upload(_ context.Context, userID, filename, _ string, body io.Reader) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	b, _ := io.ReadAll(body)
	r.body = string(b)
	return "https://storage.test/" + userID + "/" + filename, nil
}

func TestTransactionWritesInvalidateCaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewTransactionService(f.txs, f.cache, nil, helpers.NewDiscardLogger())

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = f.kv.Get(ctx, KeyUserTransactions("u1"))
	require.NoError(t, err, "list should be cached")

	require.NoError(t, f.kv.Set(ctx, KeyPlatformStats, "{}", time.Hour))
	require.NoError(t, f.kv.Set(ctx, KeyPlatformAllTransactions, "[]", time.Hour))

	tx, err := s.Create(ctx, "u1", TransactionInput{Type: entity.TransactionIncome, Amount: 10, Category: "salary"})
	require.NoError(t, err)
	for _, k := range []string{KeyUserTransactions("u1"), KeyPlatformStats, KeyPlatformAllTransactions} {
		_, err := f.kv.Get(ctx, k)
		assert.Error(t, err, k)
	}

	list, err = s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tx.ID, list[0].ID)
}

func TestTransactionOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := NewTransactionService(f.txs, f.cache, &fakeReceipts{}, helpers.NewDiscardLogger())

	tx, err := s.Create(ctx, "owner", TransactionInput{Type: entity.TransactionExpense, Amount: 5, Category: "food"})
	require.NoError(t, err)

	in := TransactionInput{Type: entity.TransactionExpense, Amount: 6, Category: "food"}
	_, err = s.Update(ctx, "intruder", tx.ID, in)
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(s.Delete(ctx, "intruder", tx.ID)))
	_, err = s.Update(ctx, "owner", "missing", in)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	updated, err := s.Update(ctx, "owner", tx.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 6.0, updated.Amount)

	require.NoError(t, s.Delete(ctx, "owner", tx.ID))
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(s.Delete(ctx, "owner", tx.ID)))
}

func TestTransactionValidation(t *testing.T) {
	f := newFixture(t)
	s := NewTransactionService(f.txs, f.cache, nil, helpers.NewDiscardLogger())
	for _, in := range []TransactionInput{
		{Type: "gift", Amount: 1, Category: "x"},
		{Type: entity.TransactionIncome, Amount: 0, Category: "x"},
		{Type: entity.TransactionIncome, Amount: 1, Category: " "},
	} {
		_, err := s.Create(context.Background(), "u1", in)
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	}
}

func TestAttachReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := &fakeReceipts{}
	s := NewTransactionService(f.txs, f.cache, rec, helpers.NewDiscardLogger())
	tx, err := s.Create(ctx, "u1", TransactionInput{Type: entity.TransactionExpense, Amount: 5, Category: "food"})
	require.NoError(t, err)

	got, err := s.AttachReceipt(ctx, "u1", tx.ID, "r.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/u1/r.png", got.ReceiptURL)
	assert.Equal(t, "png", rec.body)

	rec.err = errors.New("gcs down")
	_, err = s.AttachReceipt(ctx, "u1", tx.ID, "r.png", "image/png", strings.NewReader("png"))
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusOf(err))

	_, err = NewTransactionService(f.txs, f.cache, nil, helpers.NewDiscardLogger()).AttachReceipt(ctx, "u1", tx.ID, "r.png", "image/png", strings.NewReader("png"))
	assert.Equal(t, http.StatusServiceUnavailable, apperror.StatusOf(err))
}
