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
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

// RegistrationService stages sign-ups behind a one-time code and promotes
// them to identities once the code is confirmed.
type RegistrationService struct {
	Users    repository.UserRepository
	Pending  repository.PendingRegistrationRepository
	Tokens   *TokenService
	Cache    *Cache
	Notifier Notifier
	Search   UserSearcher
	// DebugSink is nil outside development.
	DebugSink OTPDebugSink
	Logger    *logrus.Logger

	OTPTTL     time.Duration
	SessionTTL time.Duration

	Now     func() time.Time
	GenCode func() (string, error)
}

func NewRegistrationService(users repository.UserRepository, pending repository.PendingRegistrationRepository, tokens *TokenService, cache *Cache, notifier Notifier, sink OTPDebugSink, logger *logrus.Logger, otpTTL, sessionTTL time.Duration) *RegistrationService {
	return &RegistrationService{
		Users:      users,
		Pending:    pending,
		Tokens:     tokens,
		Cache:      cache,
		Notifier:   notifier,
		DebugSink:  sink,
		Logger:     logger,
		OTPTTL:     otpTTL,
		SessionTTL: sessionTTL,
		Now:        time.Now,
		GenCode:    helpers.GenOTPCode,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeginRegistration stages a pending record for email and sends its code.
// Any earlier pending record for the same email is superseded.
func (s *RegistrationService) BeginRegistration(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return "", apperror.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", apperror.Internal(err)
	}

	code, err := s.GenCode()
	if err != nil {
		return "", apperror.Internal(err)
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", apperror.Internal(err)
	}

	now := s.Now()
	p := &entity.PendingRegistration{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		OTP:          code,
		OTPExpiresAt: now.Add(s.OTPTTL),
		ExpiresAt:    now.Add(s.SessionTTL),
	}
	if err := s.Pending.Supersede(ctx, p); err != nil {
		return "", apperror.Internal(err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendRegistrationOTP(ctx, p.Name, email, code, p.OTPExpiresAt); err != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("registration otp delivery failed")
		}
	}
	if s.DebugSink != nil {
		s.DebugSink.OTPStaged(email, code)
	}
	return code, nil
}

// ConfirmRegistration promotes the pending record for email into an identity
// when otp matches inside its window.
func (s *RegistrationService) ConfirmRegistration(ctx context.Context, email, otp string) (*entity.User, TokenPair, error) {
	email = normalizeEmail(email)
	p, err := s.Pending.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, apperror.BadRequest("session expired")
		}
		return nil, TokenPair{}, apperror.Internal(err)
	}
	now := s.Now()
	if p.Expired(now) {
		return nil, TokenPair{}, apperror.BadRequest("session expired")
	}
	if !helpers.OTPEqual(p.OTP, strings.TrimSpace(otp)) || p.OTPExpired(now) {
		return nil, TokenPair{}, apperror.BadRequest("invalid or expired OTP")
	}

	u := &entity.User{
		Name:     p.Name,
		Email:    p.Email,
		Password: p.PasswordHash,
		Role:     entity.RoleUser,
		Status:   entity.StatusActive,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, apperror.Conflict("email already registered")
		}
		return nil, TokenPair{}, apperror.Internal(err)
	}
	if err := s.Pending.Delete(ctx, email); err != nil {
		s.Logger.WithError(err).WithField("email", email).Warn("delete pending registration failed")
	}
	s.Cache.Del(ctx, KeyPlatformAllUsers, KeyPlatformStats)
	if s.Search != nil {
		if err := s.Search.Index(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}

	pair, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// SweepExpired removes pending records whose session window has closed.
func (s *RegistrationService) SweepExpired(ctx context.Context) (int64, error) {
	return s.Pending.DeleteExpired(ctx, s.Now())
}

// RunSweeper calls SweepExpired every interval until ctx is done.
// onSwept, when set, receives the number of rows removed by each pass.
func (s *RegistrationService) RunSweeper(ctx context.Context, interval time.Duration, onSwept func(n int64)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpired(ctx)
			if err != nil {
				s.Logger.WithError(err).Warn("pending registration sweep failed")
				continue
			}
			if n > 0 {
				s.Logger.WithField("removed", n).Debug("pending registrations swept")
			}
			if onSwept != nil {
				onSwept(n)
			}
		}
	}
}
