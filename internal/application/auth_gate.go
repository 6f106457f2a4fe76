package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

// AuthGate resolves bearer tokens to active identities.
type AuthGate struct {
	JWT   *helpers.JWTManager
	Users repository.UserRepository
}

func NewAuthGate(jwt *helpers.JWTManager, users repository.UserRepository) *AuthGate {
	return &AuthGate{JWT: jwt, Users: users}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (g *AuthGate) Authenticate(ctx context.Context, header string) (*entity.User, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, apperror.Unauthorized("missing or malformed authorization header")
	}
	claims, err := g.JWT.ParseAccessToken(token)
	if err != nil {
		return nil, apperror.Unauthorized("token not valid")
	}
	u, err := g.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("user not found")
		}
		return nil, apperror.Internal(err)
	}
	if u.IsSuspended() {
		return nil, apperror.Forbidden("account suspended")
	}
	return u, nil
}

func (g *AuthGate) AuthorizeRole(u *entity.User, role entity.Role) error {
	if u == nil || u.Role != role {
		return apperror.Forbidden("insufficient role")
	}
	return nil
}
