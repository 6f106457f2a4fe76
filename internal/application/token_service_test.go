package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/pkg/apperror"
)

func TestIssueStoresRefreshRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)

	pair, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access.Token, pair.Refresh.Token)

	id, err := f.kv.Get(ctx, "refreshToken:"+pair.Refresh.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, 168*time.Hour, f.kv.TTL("refreshToken:"+pair.Refresh.Token))

	claims, err := f.jwt.ParseAccessToken(pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestIssueFailsWhenRegistryUnavailable(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)
	f.kv.Err = errors.New("kv down")

	_, err := f.tokens.Issue(context.Background(), u)
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusOf(err))
}

func TestRenewKeepsRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)
	pair, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		access, err := f.tokens.Renew(ctx, pair.Refresh.Token)
		require.NoError(t, err)
		claims, err := f.jwt.ParseAccessToken(access.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	}
}

func TestRenewAfterRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)
	pair, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)

	f.tokens.Revoke(ctx, pair.Refresh.Token)
	f.tokens.Revoke(ctx, pair.Refresh.Token)

	_, err = f.tokens.Renew(ctx, pair.Refresh.Token)
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
}

func TestRenewTamperedTokenDropsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)

	forged := "not.a.jwt"
	require.NoError(t, f.kv.Set(ctx, "refreshToken:"+forged, u.ID, time.Hour))

	_, err := f.tokens.Renew(ctx, forged)
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
	assert.Equal(t, "invalid refresh token", apperror.From(err).Message)

	_, err = f.kv.Get(ctx, "refreshToken:"+forged)
	assert.Error(t, err)

	_, err = f.tokens.Renew(ctx, forged)
	assert.Equal(t, "invalid or expired refresh token", apperror.From(err).Message)
}

func TestRenewRejectsAccessTokenAsRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)
	pair, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)
	require.NoError(t, f.kv.Set(ctx, "refreshToken:"+pair.Access.Token, u.ID, time.Hour))

	_, err = f.tokens.Renew(ctx, pair.Access.Token)
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
}

func TestRenewSuspendedUserDropsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "a@x.com", "secret1", entity.RoleUser, entity.StatusActive)
	pair, err := f.tokens.Issue(ctx, u)
	require.NoError(t, err)

	u.Status = entity.StatusSuspended
	require.NoError(t, f.users.Update(ctx, u))

	_, err = f.tokens.Renew(ctx, pair.Refresh.Token)
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
	_, err = f.kv.Get(ctx, "refreshToken:"+pair.Refresh.Token)
	assert.Error(t, err)
}

func TestRenewStoreOutageIsInternal(t *testing.T) {
	f := newFixture(t)
	f.kv.Err = errors.New("kv down")
	_, err := f.tokens.Renew(context.Background(), "whatever")
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusOf(err))
}
