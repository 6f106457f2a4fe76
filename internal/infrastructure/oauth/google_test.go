package oauth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestAuthCodeURLCarriesState(t *testing.T) {
	p := NewGoogleProvider("cid", "secret", "http://localhost/cb")
	u, err := url.Parse(p.AuthCodeURL("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", u.Query().Get("state"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost/cb", u.Query().Get("redirect_uri"))
}

func TestResolveExternalIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/token":
			_, _ = io.WriteString(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
		case strings.HasSuffix(r.URL.Path, "/userinfo"):
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{"id":"g-1","email":"ann@x.com","verified_email":true,"name":"Ann"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewGoogleProvider("cid", "secret", "http://localhost/cb")
	p.cfg.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.userinfoEndpoint = srv.URL + "/"

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	id, err := p.ResolveExternalIdentity(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, id.Provider)
	assert.Equal(t, "g-1", id.Subject)
	assert.Equal(t, "ann@x.com", id.Email)
	assert.True(t, id.EmailVerified)
}
