package main

import (
	"context"
	"flag"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/config"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	pginfra "github.com/oksasatya/go-finance-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

// seed upserts an active admin identity for local environments.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	email := flag.String("email", "admin@financetracker.local", "admin email")
	password := flag.String("password", "admin123", "admin password")
	name := flag.String("name", "Admin", "admin display name")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	id, err := upsertAdmin(ctx, pool, *name, *email, *password)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed admin")
	}
	logger.WithFields(logrus.Fields{"id": id, "email": *email}).Info("seeded admin user")
}

func upsertAdmin(ctx context.Context, pool *pgxpool.Pool, name, email, password string) (string, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", err
	}
	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    password_hash = EXCLUDED.password_hash,
		    role = EXCLUDED.role,
		    status = EXCLUDED.status,
		    updated_at = now()
		RETURNING id
	`, name, email, hash, entity.RoleAdmin, entity.StatusActive).Scan(&id)
	return id, err
}
