package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// stubAccountRepo serves a fixed set of accounts to the auth middleware.
type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func (r *stubAccountRepo) Create(context.Context, *domain.Account) error { return nil }
func (r *stubAccountRepo) Update(context.Context, *domain.Account) error { return nil }

func (r *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if account, ok := r.accounts[id]; ok {
		return account, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAccountRepo) GetByHandle(context.Context, string) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubAccountRepo) GetByEmail(context.Context, string) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGuardedApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", 15)
	repo := &stubAccountRepo{accounts: map[string]*domain.Account{
		"acc-customer": {ID: "acc-customer", Handle: "jane", Role: domain.RoleCustomer},
	}}
	authMiddleware := auth.NewAuthMiddleware(tokens, repo)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), time.Second)
	app.Get("/guarded", authMiddleware.Handle, auth.RequireRole(domain.RoleBusiness), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "ok"})
	})

	token, _, err := tokens.GenerateToken("acc-customer", domain.RoleCustomer)
	require.NoError(t, err)
	return app, token
}

func decodeError(t *testing.T, resp *http.Response) errorEnvelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestRoleGuardReturnsForbidden(t *testing.T) {
	app, token := newGuardedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, apperrors.CodeForbidden, envelope.Error.Code)
}

func TestMissingTokenReturnsUnauthorized(t *testing.T) {
	app, _ := newGuardedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, apperrors.CodeUnauthorized, envelope.Error.Code)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/guarded", auth.RequireRole(domain.RoleBusiness), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, apperrors.CodeUnauthorized, envelope.Error.Code)
}

func TestRequestTimeoutReachesHandlerContext(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), time.Second)

	var hadDeadline bool
	app.Get("/timed", func(c *fiber.Ctx) error {
		_, hadDeadline = c.UserContext().Deadline()
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/timed", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, hadDeadline)
}
