package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/config"
	"github.com/oksasatya/go-finance-tracker/internal/container"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

type captureSink struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *captureSink) OTPStaged(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
}

func (s *captureSink) code(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

type testApp struct {
	c      *container.Container
	engine *gin.Engine
	sink   *captureSink
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	cfg.Env = "test"
	cfg.StorageDriver = "memory"
	cfg.KVDriver = "memory"
	cfg.MailSendEnabled = false
	cfg.ElasticsearchAddrs = ""
	cfg.GCSBucket = ""
	cfg.GoogleClientID = ""
	cfg.JWTAccessSecret = "access-secret"
	cfg.JWTRefreshSecret = "refresh-secret"

	ctx, cancel := context.WithCancel(context.Background())
	c, err := container.New(ctx, cfg, helpers.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	t.Cleanup(cancel)

	sink := &captureSink{codes: map[string]string{}}
	c.Registration.DebugSink = sink
	return &testApp{c: c, engine: NewEngine(c), sink: sink}
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

type authData struct {
	User   entity.User `json:"user"`
	Tokens struct {
		Access  struct{ Token string } `json:"access"`
		Refresh struct{ Token string } `json:"refresh"`
	} `json:"tokens"`
}

func (a *testApp) userWithToken(t *testing.T, email string, role entity.Role, status entity.Status) (*entity.User, string, string) {
	t.Helper()
	u := &entity.User{Name: "N", Email: email, Role: role, Status: status}
	require.NoError(t, a.c.Users.Create(context.Background(), u))
	pair, err := a.c.Tokens.Issue(context.Background(), u)
	require.NoError(t, err)
	return u, pair.Access.Token, pair.Refresh.Token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	code, env := app.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, _ = app.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestOTPRegistrationFlow(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/send-otp", "", gin.H{
		"name": "Ana", "email": "Ana@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"email":"ana@example.com"}`, string(env.Data))
	assert.NotContains(t, string(env.Data), "otp")

	otp := app.sink.code("ana@example.com")
	require.Len(t, otp, 6)

	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}
	code, env = app.do(t, http.MethodPost, "/api/v1/auth/verify-otp", "", gin.H{"email": "ana@example.com", "otp": wrong})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid or expired OTP", env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/auth/verify-otp", "", gin.H{"email": "ana@example.com", "otp": otp})
	require.Equal(t, http.StatusCreated, code)
	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ana@example.com", data.User.Email)
	assert.Equal(t, entity.RoleUser, data.User.Role)
	assert.Equal(t, entity.StatusActive, data.User.Status)
	require.NotEmpty(t, data.Tokens.Access.Token)
	require.NotEmpty(t, data.Tokens.Refresh.Token)

	code, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", data.Tokens.Access.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	// the pending record is consumed
	code, env = app.do(t, http.MethodPost, "/api/v1/auth/verify-otp", "", gin.H{"email": "ana@example.com", "otp": otp})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "session expired", env.Message)

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/send-otp", "", gin.H{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestSendOTPValidation(t *testing.T) {
	app := newTestApp(t)
	code, env := app.do(t, http.MethodPost, "/api/v1/auth/send-otp", "", gin.H{
		"name": "Ana", "email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}

func TestRefreshAndLogout(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Bo", "email": "bo@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "bo@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	refresh := data.Tokens.Refresh.Token

	code, env = app.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", gin.H{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, code)
	var renewed struct {
		Access struct{ Token string } `json:"access"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &renewed))
	assert.NotEmpty(t, renewed.Access.Token)

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/logout", "", gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "bo@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProtectedRoutes(t *testing.T) {
	app := newTestApp(t)

	code, _ := app.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	_, token, _ := app.userWithToken(t, "sus@example.com", entity.RoleUser, entity.StatusSuspended)
	code, env := app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "account suspended", env.Message)

	_, userToken, _ := app.userWithToken(t, "plain@example.com", entity.RoleUser, entity.StatusActive)
	code, _ = app.do(t, http.MethodGet, "/api/v1/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminStatusUpdate(t *testing.T) {
	app := newTestApp(t)
	admin, adminToken, _ := app.userWithToken(t, "admin@example.com", entity.RoleAdmin, entity.StatusActive)
	target, targetToken, _ := app.userWithToken(t, "target@example.com", entity.RoleUser, entity.StatusActive)

	// self-update is rejected even with an invalid status value
	code, env := app.do(t, http.MethodPut, "/api/v1/admin/users/"+admin.ID+"/status", adminToken, gin.H{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "admin cannot change their own status", env.Message)

	code, _ = app.do(t, http.MethodPut, "/api/v1/admin/users/"+target.ID+"/status", adminToken, gin.H{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = app.do(t, http.MethodPut, "/api/v1/admin/users/"+target.ID+"/status", adminToken, gin.H{"status": "suspended"})
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", targetToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = app.do(t, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"totalUsers":2`)

	code, _ = app.do(t, http.MethodGet, "/api/v1/admin/users/search?q=target", adminToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestTransactionsAndDebts(t *testing.T) {
	app := newTestApp(t)
	_, token, _ := app.userWithToken(t, "fin@example.com", entity.RoleUser, entity.StatusActive)
	_, otherToken, _ := app.userWithToken(t, "other@example.com", entity.RoleUser, entity.StatusActive)

	code, _ := app.do(t, http.MethodPost, "/api/v1/transactions", token, gin.H{"type": "gift", "amount": 10, "category": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := app.do(t, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"type": "income", "amount": 1500, "category": "salary", "date": "2025-03-01",
	})
	require.Equal(t, http.StatusCreated, code)
	var tx entity.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &tx))

	code, env = app.do(t, http.MethodGet, "/api/v1/transactions", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), tx.ID)

	code, _ = app.do(t, http.MethodDelete, "/api/v1/transactions/"+tx.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(t, http.MethodPost, "/api/v1/transactions/"+tx.ID+"/receipt", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = app.do(t, http.MethodPost, "/api/v1/debts", token, gin.H{
		"type": "given", "personName": "Ray", "amount": 40, "dueDate": "2025-04-01",
	})
	require.Equal(t, http.StatusCreated, code)
	var d entity.Debt
	require.NoError(t, json.Unmarshal(env.Data, &d))
	require.NotNil(t, d.DueDate)

	code, env = app.do(t, http.MethodPatch, "/api/v1/debts/"+d.ID+"/settle", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"status":"settled"`)

	code, env = app.do(t, http.MethodGet, "/api/v1/debts/summary", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"settled_given":40`)

	code, _ = app.do(t, http.MethodPost, "/api/v1/debts", token, gin.H{
		"type": "given", "personName": "Ray", "amount": 40, "date": "yesterday",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRequestIDEchoed(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
