package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

// Notifier delivers registration codes out of band.
type Notifier interface {
	SendRegistrationOTP(ctx context.Context, name, email, code string, expiresAt time.Time) error
}

// OTPDebugSink receives staged codes so local flows are not blocked by mail.
// It is wired only in development.
type OTPDebugSink interface {
	OTPStaged(email, code string)
}

// UserSearcher keeps and queries the identity search projection.
type UserSearcher interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]*entity.User, error)
}

// ReceiptStore persists receipt files and returns their public URL.
type ReceiptStore interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// ExternalIdentityProvider resolves a federated identity from a provider token.
type ExternalIdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	ResolveExternalIdentity(ctx context.Context, code string) (*entity.ExternalIdentity, error)
}
