package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type DebtRepository struct {
	pool *pgxpool.Pool
}

func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

const debtColumns = `id, user_id, type, person_name, amount, description, date, due_date, status, settled_date, created_at, updated_at`

func scanDebt(row pgx.Row) (*entity.Debt, error) {
	d := &entity.Debt{}
	if err := row.Scan(&d.ID, &d.UserID, &d.Type, &d.PersonName, &d.Amount, &d.Description,
		&d.Date, &d.DueDate, &d.Status, &d.SettledDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (r *DebtRepository) Create(ctx context.Context, d *entity.Debt) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO debts (user_id, type, person_name, amount, description, date, due_date, status, settled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, d.UserID, d.Type, d.PersonName, d.Amount, d.Description, d.Date, d.DueDate, d.Status, d.SettledDate)
	return mapErr(row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt))
}

func (r *DebtRepository) GetByID(ctx context.Context, id string) (*entity.Debt, error) {
	return scanDebt(r.pool.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1`, id))
}

func (r *DebtRepository) Update(ctx context.Context, d *entity.Debt) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE debts
		SET type = $1, person_name = $2, amount = $3, description = $4, date = $5,
		    due_date = $6, status = $7, settled_date = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`, d.Type, d.PersonName, d.Amount, d.Description, d.Date, d.DueDate, d.Status, d.SettledDate, d.ID)
	return mapErr(row.Scan(&d.UpdatedAt))
}

func (r *DebtRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DebtRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Debt, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+debtColumns+` FROM debts WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []*entity.Debt{}
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ repository.DebtRepository = (*DebtRepository)(nil)
