package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

const (
	uniqueViolation = "23505"
	// malformed uuid literals in lookups
	invalidTextRepresentation = "22P02"
)

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return repository.ErrDuplicate
		case invalidTextRepresentation:
			return repository.ErrNotFound
		}
	}
	return err
}
