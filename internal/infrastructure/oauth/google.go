package oauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

const ProviderGoogle = "google"

var ErrMissingEmail = errors.New("provider did not return an email")

// GoogleProvider resolves identities through Google's authorization code flow.
type GoogleProvider struct {
	cfg *oauth2.Config
	// userinfoEndpoint overrides the API base path; empty uses Google's.
	userinfoEndpoint string
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}}
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ResolveExternalIdentity exchanges an authorization code and reads the userinfo profile.
func (p *GoogleProvider) ResolveExternalIdentity(ctx context.Context, code string) (*entity.ExternalIdentity, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	opts := []option.ClientOption{option.WithTokenSource(p.cfg.TokenSource(ctx, tok))}
	if p.userinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.userinfoEndpoint))
	}
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, ErrMissingEmail
	}
	verified := info.VerifiedEmail != nil && *info.VerifiedEmail
	return &entity.ExternalIdentity{
		Provider:      ProviderGoogle,
		Subject:       info.Id,
		Email:         info.Email,
		EmailVerified: verified,
		Name:          info.Name,
	}, nil
}
