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

const oauthStateTTL = 10 * time.Minute

func oauthStateKey(state string) string { return "oauth:state:" + state }

var errInvalidCredentials = apperror.Unauthorized("invalid credentials")

// AuthService covers direct registration, password login, the caller's
// profile and federated sign-in.
type AuthService struct {
	Users     repository.UserRepository
	Tokens    *TokenService
	Cache     *Cache
	KV        repository.KVStore
	Search    UserSearcher
	Providers map[string]ExternalIdentityProvider
	Logger    *logrus.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, cache *Cache, kv repository.KVStore, search UserSearcher, logger *logrus.Logger, providers ...ExternalIdentityProvider) *AuthService {
	s := &AuthService{
		Users:     users,
		Tokens:    tokens,
		Cache:     cache,
		KV:        kv,
		Search:    search,
		Providers: map[string]ExternalIdentityProvider{},
		Logger:    logger,
	}
	for _, p := range providers {
		s.Providers[p.Name()] = p
	}
	return s
}

// Register creates an identity without the code step.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, TokenPair, error) {
	email = normalizeEmail(email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, apperror.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, TokenPair{}, apperror.Internal(err)
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, apperror.Internal(err)
	}
	u := &entity.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Role:     entity.RoleUser,
		Status:   entity.StatusActive,
	}
	if err := s.create(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, errInvalidCredentials
		}
		return nil, TokenPair{}, apperror.Internal(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, errInvalidCredentials
	}
	if u.IsSuspended() {
		return nil, TokenPair{}, apperror.Forbidden("account suspended")
	}
	pair, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal(err)
	}
	return u, nil
}

// ChangePassword requires the current password whenever one is set. Accounts
// created through a federated provider may set their first password freely.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if u.HasPassword() {
		if current == "" {
			return apperror.BadRequest("current password is required")
		}
		if !helpers.CompareHashAndPassword(u.Password, current) {
			return apperror.Unauthorized("current password is incorrect")
		}
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return apperror.Internal(err)
	}
	u.Password = hash
	if err := s.Users.Update(ctx, u); err != nil {
		return apperror.Internal(err)
	}
	s.Cache.Del(ctx, KeyPlatformAllUsers)
	return nil
}

func (s *AuthService) provider(name string) (ExternalIdentityProvider, error) {
	p, ok := s.Providers[name]
	if !ok {
		return nil, apperror.NotFound("sign-in provider not available")
	}
	return p, nil
}

// BeginFederated returns the provider consent URL bound to a fresh state value.
func (s *AuthService) BeginFederated(ctx context.Context, providerName string) (string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	state, err := helpers.GenState()
	if err != nil {
		return "", apperror.Internal(err)
	}
	if err := s.KV.Set(ctx, oauthStateKey(state), providerName, oauthStateTTL); err != nil {
		return "", apperror.Internal(err)
	}
	return p.AuthCodeURL(state), nil
}

// CompleteFederated consumes state and signs the caller in with code.
func (s *AuthService) CompleteFederated(ctx context.Context, providerName, state, code string) (*entity.User, TokenPair, error) {
	if state == "" || code == "" {
		return nil, TokenPair{}, apperror.BadRequest("missing state or code")
	}
	stored, err := s.KV.Get(ctx, oauthStateKey(state))
	if err != nil || stored != providerName {
		return nil, TokenPair{}, apperror.BadRequest("invalid or expired state")
	}
	if err := s.KV.Del(ctx, oauthStateKey(state)); err != nil {
		s.Logger.WithError(err).Warn("delete oauth state failed")
	}
	return s.FederatedSignIn(ctx, providerName, code)
}

// FederatedSignIn links the external identity to an account by provider
// subject, then by verified email, and creates a passwordless account otherwise.
func (s *AuthService) FederatedSignIn(ctx context.Context, providerName, code string) (*entity.User, TokenPair, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return nil, TokenPair{}, err
	}
	ext, err := p.ResolveExternalIdentity(ctx, code)
	if err != nil {
		s.Logger.WithError(err).WithField("provider", providerName).Warn("resolve external identity failed")
		return nil, TokenPair{}, apperror.Unauthorized("could not verify external identity")
	}

	u, err := s.linkExternal(ctx, ext)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u.IsSuspended() {
		return nil, TokenPair{}, apperror.Forbidden("account suspended")
	}
	pair, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) linkExternal(ctx context.Context, ext *entity.ExternalIdentity) (*entity.User, error) {
	u, err := s.Users.GetByGoogleID(ctx, ext.Subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	// an email the provider has not verified never links or creates an account
	if !ext.EmailVerified {
		return nil, apperror.Unauthorized("external email not verified")
	}

	email := normalizeEmail(ext.Email)
	u, err = s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		u.GoogleID = ext.Subject
		if err := s.Users.Update(ctx, u); err != nil {
			return nil, apperror.Internal(err)
		}
		s.Cache.Del(ctx, KeyPlatformAllUsers)
		return u, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	name := strings.TrimSpace(ext.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	u = &entity.User{
		Name:     name,
		Email:    email,
		GoogleID: ext.Subject,
		Role:     entity.RoleUser,
		Status:   entity.StatusActive,
	}
	if err := s.create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) create(ctx context.Context, u *entity.User) error {
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperror.Conflict("email already registered")
		}
		return apperror.Internal(err)
	}
	s.Cache.Del(ctx, KeyPlatformAllUsers, KeyPlatformStats)
	if s.Search != nil {
		if err := s.Search.Index(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
	return nil
}
