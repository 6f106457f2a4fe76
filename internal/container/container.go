package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/config"
	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
	"github.com/oksasatya/go-finance-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/go-finance-tracker/internal/infrastructure/oauth"
	pginfra "github.com/oksasatya/go-finance-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/go-finance-tracker/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-finance-tracker/internal/infrastructure/search"
	receipts "github.com/oksasatya/go-finance-tracker/internal/infrastructure/storage"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
	"github.com/oksasatya/go-finance-tracker/pkg/mailer"
)

// Container owns every component the API process builds at startup.
// Optional integrations stay nil when they are not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool *pgxpool.Pool
	// Redis is nil when KV_DRIVER=memory; the rate limiter then lets every request through.
	Redis  *redis.Client
	GCS    *storage.Client
	Rabbit *mailer.RabbitPublisher

	Users   repository.UserRepository
	Pending repository.PendingRegistrationRepository
	Txs     repository.TransactionRepository
	Debts   repository.DebtRepository
	KV      repository.KVStore

	JWT          *helpers.JWTManager
	Cache        *application.Cache
	Tokens       *application.TokenService
	Registration *application.RegistrationService
	Auth         *application.AuthService
	Gate         *application.AuthGate
	Transactions *application.TransactionService
	DebtService  *application.DebtService
	Admin        *application.AdminService
}

// New connects the configured backends and assembles the services.
// Record and KV stores are required; search, receipts, mail and Google
// sign-in are skipped with a warning when unavailable.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.initStores(ctx); err != nil {
		c.Close()
		return nil, err
	}

	jwt, err := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.JWT = jwt

	var searcher application.UserSearcher
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; user search disabled")
		} else {
			searcher = search.NewUserIndex(es, cfg.ESUsersIndex)
		}
	}

	var receiptStore application.ReceiptStore
	if cfg.GCSBucket != "" {
		gcs, err := receipts.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; receipt upload disabled")
		} else {
			c.GCS = gcs
			receiptStore = receipts.NewReceiptStore(gcs, cfg.GCSBucket)
		}
	}

	var queue mailer.Queue
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := mailer.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; otp emails will not be sent")
		} else {
			c.Rabbit = pub
			queue = pub
		}
	}
	notifier := mailer.NewOTPNotifier(queue, cfg.AppName, cfg.MailSendEnabled)

	var sink application.OTPDebugSink
	if cfg.IsDevelopment() && cfg.OTPDebugLog {
		sink = application.LogDebugSink{Logger: logger}
	}

	var providers []application.ExternalIdentityProvider
	if cfg.GoogleEnabled() {
		providers = append(providers, oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL))
	}

	c.Cache = application.NewCache(c.KV, logger)
	c.Tokens = application.NewTokenService(jwt, c.KV, c.Users, cfg.RefreshRecordTTL, logger)
	c.Registration = application.NewRegistrationService(c.Users, c.Pending, c.Tokens, c.Cache, notifier, sink, logger, cfg.OTPTTL, cfg.RegistrationTTL)
	c.Registration.Search = searcher
	c.Auth = application.NewAuthService(c.Users, c.Tokens, c.Cache, c.KV, searcher, logger, providers...)
	c.Gate = application.NewAuthGate(jwt, c.Users)
	c.Transactions = application.NewTransactionService(c.Txs, c.Cache, receiptStore, logger)
	c.DebtService = application.NewDebtService(c.Debts, c.Cache, logger)
	c.Admin = application.NewAdminService(c.Users, c.Txs, c.Cache, searcher, logger)
	return c, nil
}

func (c *Container) initStores(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StorageDriver {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
		c.Pending = pginfra.NewPendingRegistrationRepository(pool)
		c.Txs = pginfra.NewTransactionRepository(pool)
		c.Debts = pginfra.NewDebtRepository(pool)
	case "memory":
		users := memory.NewUserRepository()
		c.Users = users
		c.Pending = memory.NewPendingRegistrationRepository()
		c.Txs = memory.NewTransactionRepository(users)
		c.Debts = memory.NewDebtRepository()
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.KVDriver {
	case "redis":
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = rdb.Close()
			return fmt.Errorf("redis: %w", err)
		}
		c.Redis = rdb
		c.KV = redisstore.NewKVStore(rdb)
	case "memory":
		c.KV = memory.NewKVStore()
	default:
		return fmt.Errorf("unknown KV_DRIVER %q", cfg.KVDriver)
	}
	return nil
}

// RateLimitClient returns the redis client for the rate limiter, or an
// untyped nil when KV runs in memory.
func (c *Container) RateLimitClient() redis.UniversalClient {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
