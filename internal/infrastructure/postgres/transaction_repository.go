package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const txColumns = `t.id, t.user_id, t.type, t.amount, t.category, t.description, t.date, t.receipt_url, t.created_at, t.updated_at`

func scanTx(row pgx.Row, extra ...any) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	dest := append([]any{&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Description,
		&t.Date, &t.ReceiptURL, &t.CreatedAt, &t.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, category, description, date, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, t.UserID, t.Type, t.Amount, t.Category, t.Description, t.Date, t.ReceiptURL)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return scanTx(r.pool.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions t WHERE t.id = $1`, id))
}

func (r *TransactionRepository) Update(ctx context.Context, t *entity.Transaction) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, description = $4, date = $5,
		    receipt_url = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, t.Type, t.Amount, t.Category, t.Description, t.Date, t.ReceiptURL, t.ID)
	return mapErr(row.Scan(&t.UpdatedAt))
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txColumns+` FROM transactions t
		WHERE t.user_id = $1
		ORDER BY t.date DESC
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []*entity.Transaction{}
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepository) ListAllWithOwner(ctx context.Context) ([]*entity.TransactionWithOwner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txColumns+`, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		ORDER BY t.date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.TransactionWithOwner{}
	for rows.Next() {
		var name, email string
		t, err := scanTx(rows, &name, &email)
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.TransactionWithOwner{Transaction: *t, UserName: name, UserEmail: email})
	}
	return out, rows.Err()
}

func (r *TransactionRepository) Totals(ctx context.Context) (entity.PlatformTotals, error) {
	var tot entity.PlatformTotals
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
	`).Scan(&tot.Transactions, &tot.Income, &tot.Expense)
	return tot, err
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)
