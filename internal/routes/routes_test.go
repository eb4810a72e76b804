package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/finflow/internal/auth"
	"github.com/valeriaulyamaeva/finflow/internal/database/memory"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
)

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newClient(t *testing.T, opts Options) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	opts.Logger = logger

	tokens := auth.NewTokens("test-secret")
	router, err := SetupRouter(service.NewServices(memory.New(), tokens), tokens, opts)
	require.NoError(t, err)
	return &client{t: t, router: router}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *client) decode(rec *httptest.ResponseRecorder, dst any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

// signUp registers and logs in, leaving the token on the client.
func (c *client) signUp(name, email string) string {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/register", map[string]any{"name": name, "email": email, "password": "123456"})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var user map[string]any
	c.decode(rec, &user)

	rec = c.do(http.MethodPost, "/api/login", map[string]any{"email": email, "password": "123456"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct{ Token string }
	c.decode(rec, &login)
	require.NotEmpty(c.t, login.Token)
	c.token = login.Token
	return user["id"].(string)
}

func (c *client) create(path string, body map[string]any) map[string]any {
	c.t.Helper()
	rec := c.do(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out map[string]any
	c.decode(rec, &out)
	return out
}

func (c *client) message(rec *httptest.ResponseRecorder) string {
	c.t.Helper()
	var out struct{ Message string }
	c.decode(rec, &out)
	return out.Message
}

func (c *client) balance(accountID string) float64 {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/api/accounts", nil)
	require.Equal(c.t, http.StatusOK, rec.Code)
	var accounts []map[string]any
	c.decode(rec, &accounts)
	for _, a := range accounts {
		if a["id"] == accountID {
			return a["balance"].(float64)
		}
	}
	c.t.Fatalf("account %s not listed", accountID)
	return 0
}

func TestAliceScenario(t *testing.T) {
	c := newClient(t, Options{})
	userID := c.signUp("Alice", "alice@example.com")

	account := c.create("/api/accounts", map[string]any{"name": "Conta Corrente", "type": "checking", "balance": 2000})
	assert.Equal(t, float64(2000), account["balance"])
	assert.Equal(t, userID, account["userId"])

	salary := c.create("/api/category", map[string]any{"name": "Salário", "type": "income"})
	c.create("/api/category", map[string]any{"name": "Alimentação", "type": "expense"})

	transaction := c.create("/api/transaction", map[string]any{
		"amount":     2000,
		"date":       "2025-08-07T00:00:00.000Z",
		"type":       "income",
		"title":      "Salário de Agosto",
		"accountId":  account["id"],
		"categoryId": salary["id"],
	})
	assert.Equal(t, "2025-08-07T00:00:00.000Z", transaction["date"])
	assert.Equal(t, float64(2000), transaction["amount"])
	assert.Nil(t, transaction["description"])
	assert.Contains(t, transaction, "description")
	_, err := time.Parse("2006-01-02T15:04:05.000Z", transaction["createdAt"].(string))
	assert.NoError(t, err)

	assert.Equal(t, float64(4000), c.balance(account["id"].(string)))

	rec := c.do(http.MethodGet, "/api/transactions?startDate=2025-08-01&endDate=2025-08-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	c.decode(rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, transaction["id"], listed[0]["id"])

	rec = c.do(http.MethodDelete, "/api/transaction/"+transaction["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, float64(2000), c.balance(account["id"].(string)))
}

func TestTransactionRules(t *testing.T) {
	c := newClient(t, Options{})
	c.signUp("Alice", "alice@example.com")
	account := c.create("/api/accounts", map[string]any{"name": "Main", "type": "checking"})
	food := c.create("/api/category", map[string]any{"name": "Food", "type": "expense"})
	salary := c.create("/api/category", map[string]any{"name": "Salary", "type": "income"})

	rec := c.do(http.MethodPost, "/api/transaction", map[string]any{
		"amount": 10, "date": "2025-08-07", "type": "income", "title": "x",
		"accountId": account["id"], "categoryId": food["id"],
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgTypeMismatch, c.message(rec))

	rec = c.do(http.MethodPost, "/api/transaction", map[string]any{
		"amount": 10, "date": "2025-08-07", "type": "expense", "title": "x",
		"accountId": account["id"], "categoryId": "missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.MsgCategoryNotFound, c.message(rec))

	rec = c.do(http.MethodPost, "/api/transaction", map[string]any{
		"amount": 10, "date": "yesterday", "type": "expense", "title": "x",
		"accountId": account["id"], "categoryId": food["id"],
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/transaction", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, c.message(rec), "'amount'")

	assert.Equal(t, float64(0), c.balance(account["id"].(string)))

	transaction := c.create("/api/transaction", map[string]any{
		"amount": 100, "date": "2025-08-07T10:00:00Z", "type": "income", "title": "Bonus",
		"description": "Q2", "accountId": account["id"], "categoryId": salary["id"],
	})
	assert.Equal(t, "Q2", transaction["description"])
	assert.Equal(t, float64(100), c.balance(account["id"].(string)))

	rec = c.do(http.MethodPatch, "/api/transaction/"+transaction["id"].(string), map[string]any{
		"amount": 40, "type": "expense", "categoryId": food["id"],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(-40), c.balance(account["id"].(string)))

	rec = c.do(http.MethodGet, "/api/transactions?type=transfer", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = c.do(http.MethodGet, "/api/transactions?startDate=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthAndOwnership(t *testing.T) {
	c := newClient(t, Options{})

	rec := c.do(http.MethodGet, "/api/accounts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.MsgUnauthorized, c.message(rec))

	c.signUp("Alice", "alice@example.com")
	account := c.create("/api/accounts", map[string]any{"name": "Main", "type": "checking"})
	category := c.create("/api/category", map[string]any{"name": "Food", "type": "expense"})
	budget := c.create("/api/budget", map[string]any{"amount": 500, "month": 8, "year": 2025, "categoryId": category["id"]})
	goal := c.create("/api/goal", map[string]any{"name": "Trip", "target": 5000, "deadline": "2026-12-31"})
	assert.Equal(t, "2026-12-31T00:00:00.000Z", goal["deadline"])

	c.signUp("Bob", "bob@example.com")
	for _, path := range []string{
		"/api/account/" + account["id"].(string),
		"/api/category/" + category["id"].(string),
		"/api/budget/" + budget["id"].(string),
		"/api/goal/" + goal["id"].(string),
	} {
		rec := c.do(http.MethodPatch, path, map[string]any{"name": "Mine"})
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		rec = c.do(http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec = c.do(http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUsers(t *testing.T) {
	c := newClient(t, Options{})
	id := c.signUp("Alice", "alice@example.com")

	rec := c.do(http.MethodPost, "/api/register", map[string]any{"name": "Other", "email": "alice@example.com", "password": "abcdef"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgEmailTaken, c.message(rec))

	rec = c.do(http.MethodPost, "/api/register", map[string]any{"name": "Short", "email": "short@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/login", map[string]any{"email": "alice@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.MsgInvalidCredentials, c.message(rec))

	rec = c.do(http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	c.decode(rec, &users)
	require.Len(t, users, 1)
	assert.Equal(t, map[string]any{"id": id, "name": "Alice", "email": "alice@example.com"}, users[0])

	rec = c.do(http.MethodGet, "/api/user/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodDelete, "/api/user/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodGet, "/api/user/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.MsgUserNotFound, c.message(rec))
}

func TestDeleteAllRoutes(t *testing.T) {
	c := newClient(t, Options{})
	c.signUp("Alice", "alice@example.com")
	c.create("/api/accounts", map[string]any{"name": "A", "type": "checking"})
	c.create("/api/category", map[string]any{"name": "Food", "type": "expense"})

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/accounts", nil).Code)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/categories/all", nil).Code)

	rec := c.do(http.MethodGet, "/api/categories", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealthDocsAndRateLimit(t *testing.T) {
	c := newClient(t, Options{Limiter: middleware.NewMemoryLimiter(5, time.Minute)})

	rec := c.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/docs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = c.do(http.MethodGet, "/health", nil)
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "Rate limit exceeded, retry in 1 minute", c.message(last))
}

func TestTokenOfDeletedUserIsUnauthorized(t *testing.T) {
	c := newClient(t, Options{})
	id := c.signUp("Alice", "alice@example.com")

	rec := c.do(http.MethodDelete, "/api/user/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = c.do(http.MethodPost, "/api/accounts", map[string]any{"name": "Main", "type": "checking"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.MsgUnauthorized, c.message(rec))

	rec = c.do(http.MethodGet, "/api/transactions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransactionDescriptionCanBeCleared(t *testing.T) {
	c := newClient(t, Options{})
	c.signUp("Alice", "alice@example.com")
	account := c.create("/api/accounts", map[string]any{"name": "Main", "type": "checking"})
	salary := c.create("/api/category", map[string]any{"name": "Salary", "type": "income"})
	transaction := c.create("/api/transaction", map[string]any{
		"amount": 100, "date": "2025-08-07", "type": "income", "title": "Bonus",
		"description": "Q2", "accountId": account["id"], "categoryId": salary["id"],
	})
	path := "/api/transaction/" + transaction["id"].(string)

	rec := c.do(http.MethodPatch, path, map[string]any{"title": "Bonus Q2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out map[string]any
	c.decode(rec, &out)
	assert.Equal(t, "Q2", out["description"])

	rec = c.do(http.MethodPatch, path, map[string]any{"description": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out = nil
	c.decode(rec, &out)
	assert.Contains(t, out, "description")
	assert.Nil(t, out["description"])
	assert.Equal(t, "Bonus Q2", out["title"])
}

func TestCategoryTypeChangeRejectedWhileUsed(t *testing.T) {
	c := newClient(t, Options{})
	c.signUp("Alice", "alice@example.com")
	account := c.create("/api/accounts", map[string]any{"name": "Main", "type": "checking"})
	salary := c.create("/api/category", map[string]any{"name": "Salary", "type": "income"})
	c.create("/api/transaction", map[string]any{
		"amount": 100, "date": "2025-08-07", "type": "income", "title": "Bonus",
		"accountId": account["id"], "categoryId": salary["id"],
	})

	rec := c.do(http.MethodPatch, "/api/category/"+salary["id"].(string), map[string]any{"type": "expense"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgCategoryTypeLocked, c.message(rec))
}
