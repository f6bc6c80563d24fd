package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/afriroots/afriroots-api/internal/api/http/handlers"
	"github.com/afriroots/afriroots-api/internal/auth"
	"github.com/afriroots/afriroots-api/internal/config"
	"github.com/afriroots/afriroots-api/internal/observability"
	"github.com/afriroots/afriroots-api/internal/repository"
	"github.com/afriroots/afriroots-api/internal/service"
)

type testServer struct {
	app      *fiber.App
	accounts *repository.MemoryAccountRepository
	tokens   *auth.TokenManager
	metrics  *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	accounts := repository.NewMemoryAccountRepository()
	content := repository.NewMemoryContentRepository()

	authService, err := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "router-test-secret",
		AccessTokenTTLMinutes: 60,
		PasswordAlgo:          "bcrypt",
		BcryptCost:            4,
		MinPasswordLength:     6,
	}, service.AuthDependencies{AccountRepo: accounts, Logger: logger})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("afriroots-api", "test", map[string]handlers.Pinger{
			"store": accounts,
		}, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Content:        handlers.NewContentHandler(service.NewContentService(content, nil)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), accounts),
	})
	return &testServer{app: app, accounts: accounts, tokens: authService.TokenManager(), metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, body string) (int, map[string]any) {
	return s.do(t, fiber.MethodPost, "/auth/register", body, "")
}

const scenarioBody = `{"email":"a@x.com","password":"secret1","role":"tourist"}`

func TestRegister_ReturnsTokenThenRejectsDuplicate(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.register(t, scenarioBody)
	require.Equal(t, fiber.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, body["expires_at"])

	status, body = srv.register(t, `{"email":"A@X.com","password":"other12","role":"creator"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "User already exists", body["msg"])
	assert.Equal(t, "DUPLICATE_ACCOUNT", body["code"])
	assert.Equal(t, 1, srv.accounts.Count())
}

func TestRegister_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]string{
		"malformed json": `{"email":`,
		"missing email":  `{"password":"secret1"}`,
		"bad email":      `{"email":"nope","password":"secret1"}`,
		"short password": `{"email":"a@x.com","password":"abc"}`,
		"unknown role":   `{"email":"a@x.com","password":"secret1","role":"admin"}`,
		"bad phone":      `{"email":"a@x.com","password":"secret1","phone":"12"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := srv.register(t, payload)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_FAILED", body["code"])
		})
	}
	assert.Equal(t, 0, srv.accounts.Count())
}

func TestLogin_Flow(t *testing.T) {
	srv := newTestServer(t)
	status, regBody := srv.register(t, scenarioBody)
	require.Equal(t, fiber.StatusOK, status)

	status, wrong := srv.do(t, fiber.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid Credentials", wrong["msg"])

	status, unknown := srv.do(t, fiber.MethodPost, "/auth/login", `{"email":"b@x.com","password":"secret1"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, wrong, unknown)

	status, ok := srv.do(t, fiber.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, fiber.StatusOK, status)

	regID, err := srv.tokens.Verify(regBody["token"].(string))
	require.NoError(t, err)
	loginID, err := srv.tokens.Verify(ok["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, regID, loginID)

	status, me := srv.do(t, fiber.MethodGet, "/auth/me", "", ok["token"].(string))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, regID, me["id"])
	assert.Equal(t, "a@x.com", me["email"])
	assert.Equal(t, "visitor", me["role"])
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, fiber.MethodGet, "/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, _ = srv.do(t, fiber.MethodPost, "/content", `{"title":"t","body":"b"}`, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestContent_CreateListGet(t *testing.T) {
	srv := newTestServer(t)
	_, reg := srv.register(t, `{"email":"creator@x.com","password":"secret1","role":"creator"}`)
	token := reg["token"].(string)

	status, created := srv.do(t, fiber.MethodPost, "/content",
		`{"title":"Harvest song","body":"Lyrics...","tribe":"Yoruba","language":"yo"}`, token)
	require.Equal(t, fiber.StatusCreated, status)
	item := created["data"].(map[string]any)
	id := item["id"].(string)
	assert.Equal(t, "Yoruba", item["tribe"])

	_, _ = srv.do(t, fiber.MethodPost, "/content", `{"title":"Other","body":"text","tribe":"Zulu"}`, token)

	status, list := srv.do(t, fiber.MethodGet, "/content?tribe=Yoruba", "", "")
	require.Equal(t, fiber.StatusOK, status)
	data := list["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, id, data[0].(map[string]any)["id"])

	status, got := srv.do(t, fiber.MethodGet, "/content/"+id, "", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Harvest song", got["data"].(map[string]any)["title"])

	status, missing := srv.do(t, fiber.MethodGet, "/content/does-not-exist", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", missing["code"])
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, live := srv.do(t, fiber.MethodGet, "/health/live", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", live["status"])

	status, ready := srv.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", ready["dependencies"].(map[string]any)["store"])

	status, unknown := srv.do(t, fiber.MethodGet, "/nope", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", unknown["code"])

	status, metrics := srv.do(t, fiber.MethodGet, "/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, metrics["requests"])
}

func TestRegister_MultibytePasswordOverBcryptLimit(t *testing.T) {
	srv := newTestServer(t)

	// 40 characters, 80 bytes.
	password := strings.Repeat("é", 40)
	status, body := srv.register(t, fmt.Sprintf(`{"email":"a@x.com","password":%q}`, password))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, "must be no longer than 72 bytes", body["details"].(map[string]any)["password"])
	assert.Equal(t, 0, srv.accounts.Count())
}

func TestMetrics_ErrorKeysFollowRoutes(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 100; i++ {
		status, _ := srv.do(t, fiber.MethodGet, fmt.Sprintf("/nope/%d", i), "", "")
		require.Equal(t, fiber.StatusNotFound, status)
		status, _ = srv.do(t, fiber.MethodGet, "/content/"+uuid.NewString(), "", "")
		require.Equal(t, fiber.StatusNotFound, status)
	}

	snap := srv.metrics.Snapshot()
	assert.LessOrEqual(t, len(snap.Errors), 2)
	assert.LessOrEqual(t, len(snap.Requests), 2)
	assert.Equal(t, int64(100), snap.Errors["/content/:id|GET|NOT_FOUND"])
}
