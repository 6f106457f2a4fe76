package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

type fixture struct {
	now     time.Time
	kv      *memory.KVStore
	users   *memory.UserRepository
	pending *memory.PendingRegistrationRepository
	txs     *memory.TransactionRepository
	debts   *memory.DebtRepository
	jwt     *helpers.JWTManager
	cache   *Cache
	tokens  *TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }

	f.kv = memory.NewKVStore()
	f.kv.SetClock(clock)
	f.users = memory.NewUserRepository()
	f.pending = memory.NewPendingRegistrationRepository()
	f.pending.SetClock(clock)
	f.txs = memory.NewTransactionRepository(f.users)
	f.debts = memory.NewDebtRepository()

	jwt, err := helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	require.NoError(t, err)
	f.jwt = jwt

	logger := helpers.NewDiscardLogger()
	f.cache = NewCache(f.kv, logger)
	f.tokens = NewTokenService(jwt, f.kv, f.users, 168*time.Hour, logger)
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) createUser(t *testing.T, email, password string, role entity.Role, status entity.Status) *entity.User {
	t.Helper()
	hash := ""
	if password != "" {
		var err error
		hash, err = helpers.HashPassword(password)
		require.NoError(t, err)
	}
	u := &entity.User{Name: "U", Email: email, Password: hash, Role: role, Status: status}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

type recordedOTP struct{ email, code string }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []recordedOTP
	err  error
}

func (n *fakeNotifier) SendRegistrationOTP(_ context.Context, _, email, code string, _ time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, recordedOTP{email, code})
	return n.err
}

type fakeSink struct{ staged []recordedOTP }

func (s *fakeSink) OTPStaged(email, code string) { s.staged = append(s.staged, recordedOTP{email, code}) }

type fakeSearch struct {
	indexed []string
	results []*entity.User
	err     error
}

func (s *fakeSearch) Index(_ context.Context, u *entity.User) error {
	s.indexed = append(s.indexed, u.ID)
	return s.err
}

func (s *fakeSearch) Search(context.Context, string, int) ([]*entity.User, error) {
	return s.results, s.err
}
