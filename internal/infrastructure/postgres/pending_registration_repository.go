package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type PendingRegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewPendingRegistrationRepository(pool *pgxpool.Pool) *PendingRegistrationRepository {
	return &PendingRegistrationRepository{pool: pool}
}

// Supersede relies on the unique email index so concurrent initiations for one
// address collapse into a single row.
func (r *PendingRegistrationRepository) Supersede(ctx context.Context, p *entity.PendingRegistration) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO pending_registrations (email, name, password_hash, otp, otp_expires_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    password_hash = EXCLUDED.password_hash,
		    otp = EXCLUDED.otp,
		    otp_expires_at = EXCLUDED.otp_expires_at,
		    expires_at = EXCLUDED.expires_at,
		    created_at = now()
		RETURNING created_at
	`, p.Email, p.Name, p.PasswordHash, p.OTP, p.OTPExpiresAt, p.ExpiresAt)

	return row.Scan(&p.CreatedAt)
}

func (r *PendingRegistrationRepository) GetByEmail(ctx context.Context, email string) (*entity.PendingRegistration, error) {
	p := &entity.PendingRegistration{}
	err := r.pool.QueryRow(ctx, `
		SELECT email, name, password_hash, otp, otp_expires_at, expires_at, created_at
		FROM pending_registrations
		WHERE email = $1 AND expires_at > now()
	`, email).Scan(&p.Email, &p.Name, &p.PasswordHash, &p.OTP, &p.OTPExpiresAt, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *PendingRegistrationRepository) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM pending_registrations WHERE email = $1`, email)
	return err
}

func (r *PendingRegistrationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM pending_registrations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.PendingRegistrationRepository = (*PendingRegistrationRepository)(nil)
