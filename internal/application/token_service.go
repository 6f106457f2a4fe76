package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

type Token struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type TokenPair struct {
	Access  Token `json:"access"`
	Refresh Token `json:"refresh"`
}

func refreshKey(token string) string { return "refreshToken:" + token }

// TokenService signs token pairs and keeps the refresh token registry in the
// KV store. A refresh token is usable only while its record exists.
type TokenService struct {
	JWT       *helpers.JWTManager
	KV        repository.KVStore
	Users     repository.UserRepository
	RecordTTL time.Duration
	Logger    *logrus.Logger
}

func NewTokenService(jwt *helpers.JWTManager, kv repository.KVStore, users repository.UserRepository, recordTTL time.Duration, logger *logrus.Logger) *TokenService {
	return &TokenService{JWT: jwt, KV: kv, Users: users, RecordTTL: recordTTL, Logger: logger}
}

func (s *TokenService) Issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return TokenPair{}, apperror.Internal(err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role))
	if err != nil {
		return TokenPair{}, apperror.Internal(err)
	}
	if err := s.KV.Set(ctx, refreshKey(refresh), u.ID, s.RecordTTL); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("store refresh token record failed")
		return TokenPair{}, apperror.Internal(err)
	}
	return TokenPair{
		Access:  Token{Token: access, Expires: aexp},
		Refresh: Token{Token: refresh, Expires: rexp},
	}, nil
}

// Renew returns a new access token for a registered refresh token. The refresh
// token itself is not rotated.
func (s *TokenService) Renew(ctx context.Context, refresh string) (Token, error) {
	key := refreshKey(refresh)
	storedID, err := s.KV.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return Token{}, apperror.Unauthorized("invalid or expired refresh token")
		}
		return Token{}, apperror.Internal(err)
	}

	claims, err := s.JWT.ParseRefreshToken(refresh)
	if err != nil || claims.UserID != storedID {
		s.drop(ctx, key)
		return Token{}, apperror.Unauthorized("invalid refresh token")
	}

	u, err := s.Users.GetByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.drop(ctx, key)
		return Token{}, apperror.Unauthorized("invalid refresh token")
	case err != nil:
		return Token{}, apperror.Internal(err)
	case u.IsSuspended():
		s.drop(ctx, key)
		return Token{}, apperror.Unauthorized("account suspended")
	}

	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return Token{}, apperror.Internal(err)
	}
	return Token{Token: access, Expires: aexp}, nil
}

// Revoke deletes the refresh token record. It never fails the caller.
func (s *TokenService) Revoke(ctx context.Context, refresh string) {
	if refresh == "" {
		return
	}
	s.drop(ctx, refreshKey(refresh))
}

func (s *TokenService) drop(ctx context.Context, key string) {
	if err := s.KV.Del(ctx, key); err != nil {
		s.Logger.WithError(err).Warn("delete refresh token record failed")
	}
}
