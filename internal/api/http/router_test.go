package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apphttp "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/repository/memory"
	"github.com/spec-kit/marketplace-service/internal/service"
)

type envelope struct {
	ResponseType string          `json:"responseType"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
}

type testServer struct {
	app *fiber.App
	db  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := memory.New()
	loc := time.FixedZone("KST", 9*60*60)
	tokens := auth.NewTokenManager([]byte("router-test-key"), time.Hour)
	metrics := observability.NewMetrics("marketplace_test")
	logger := zap.NewNop()

	members := service.NewMemberService(service.MemberDependencies{
		MemberRepo: db.Members(),
		StoreRepo:  db.Stores(),
		Tokens:     tokens,
		Metrics:    metrics,
		Logger:     logger,
		BcryptCost: 4,
	})
	stores := service.NewStoreService(service.StoreDependencies{StoreRepo: db.Stores()})
	menus := service.NewMenuService(service.MenuDependencies{MenuRepo: db.Menus(), StoreRepo: db.Stores()})
	boards := service.NewBoardService(service.BoardDependencies{BoardRepo: db.Boards()})
	orders := service.NewOrderService(service.OrderDependencies{
		OrderRepo: db.Orders(),
		MenuRepo:  db.Menus(),
		StoreRepo: db.Stores(),
		Metrics:   metrics,
		Location:  loc,
	})

	app := fiber.New()
	apphttp.RegisterMiddlewares(app, apphttp.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          5 * time.Second,
		CORSAllowOrigins: "*",
	})
	apphttp.RegisterRoutes(app, apphttp.RouteConfig{
		Health:  handlers.NewHealthHandler("marketplace-service", "test", nil),
		Members: handlers.NewMemberHandler(members),
		Stores:  handlers.NewStoreHandler(stores),
		Menus:   handlers.NewMenuHandler(menus),
		Boards:  handlers.NewBoardHandler(boards),
		Orders:  handlers.NewOrderHandler(orders),
		Gate:    auth.NewGate(tokens, db.Members()),
		Metrics: metrics,
	})
	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *testServer) register(t *testing.T, userID, role string) {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/member/register", "", map[string]any{
		"userid": userID, "userpw": "pw-" + userID, "name": userID, "role": role,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)
}

func (s *testServer) login(t *testing.T, userID string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/member/login", "", map[string]any{
		"userid": userID, "userpw": "pw-" + userID,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (s *testServer) seedAdmin(t *testing.T, userID string) string {
	t.Helper()
	hash, err := auth.HashPassword("pw-"+userID, 4)
	require.NoError(t, err)
	require.NoError(t, s.db.Members().Create(context.Background(), &domain.Member{
		UserID: userID, PasswordHash: hash, Name: userID, Role: domain.RoleAdmin,
	}))
	return s.login(t, userID)
}

func dataID(t *testing.T, env envelope) int64 {
	t.Helper()
	var data struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotZero(t, data.ID)
	return data.ID
}

func TestRouter_OrderAndSalesFlow(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "chef", "OWNER")
	ownerToken := s.login(t, "chef")
	s.register(t, "diner", "")
	dinerToken := s.login(t, "diner")
	adminToken := s.seedAdmin(t, "root")

	_, env := s.do(t, http.MethodPost, "/api/store/create", ownerToken, map[string]any{
		"category": "korean", "name": "Bibim House", "openH": 9, "closedH": 21,
	})
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)
	storeID := dataID(t, env)

	_, env = s.do(t, http.MethodPost, "/api/menu/create", ownerToken, map[string]any{
		"title": "Bibimbap", "price": 12000,
	})
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)
	menuID := dataID(t, env)

	status, env := s.do(t, http.MethodPost, "/api/order/create", dinerToken, map[string]any{
		"storeId": storeID, "menuId": menuID, "quantity": 3, "totalPrice": 1,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)
	var order struct {
		TotalPrice int64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, int64(36000), order.TotalPrice)

	month := time.Now().In(time.FixedZone("KST", 9*60*60)).Format("2006-01")
	_, env = s.do(t, http.MethodPost, "/api/order/sales", adminToken, map[string]any{"storeId": storeID, "month": month})
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)
	var sales struct {
		MenuSalesList []map[string]any `json:"menuSalesList"`
		TotalAmount   int64            `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sales))
	assert.Equal(t, int64(36000), sales.TotalAmount)
	assert.Len(t, sales.MenuSalesList, 1)

	_, env = s.do(t, http.MethodPost, "/api/order/sales", adminToken, map[string]any{"storeId": storeID, "month": "1999-01"})
	require.Equal(t, "SUCCESS", env.ResponseType, env.Message)
	assert.JSONEq(t, `{"storeId":`+jsonInt(storeID)+`,"storeName":"Bibim House","month":"1999-01","menuSalesList":[],"totalAmount":0}`, string(env.Data))

	status, env = s.do(t, http.MethodPost, "/api/order/sales", ownerToken, map[string]any{"storeId": storeID, "month": month})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ERROR", env.ResponseType)
	assert.NotEmpty(t, env.Message)
}

func TestRouter_MenuStoreMismatchIsRejected(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "chef", "OWNER")
	s.register(t, "rival", "OWNER")
	s.register(t, "diner", "USER")
	chef, rival, diner := s.login(t, "chef"), s.login(t, "rival"), s.login(t, "diner")

	_, env := s.do(t, http.MethodPost, "/api/store/create", chef, map[string]any{"name": "One"})
	storeOne := dataID(t, env)
	_, env = s.do(t, http.MethodPost, "/api/store/create", rival, map[string]any{"name": "Two"})
	storeTwo := dataID(t, env)
	_, env = s.do(t, http.MethodPost, "/api/menu/create", chef, map[string]any{"storeId": storeOne, "title": "Soup", "price": 8000})
	menuID := dataID(t, env)

	status, env := s.do(t, http.MethodPost, "/api/order/create", diner, map[string]any{
		"storeId": storeTwo, "menuId": menuID, "quantity": 1,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ERROR", env.ResponseType)
	assert.Equal(t, 0, s.db.OrderCount())
}

func TestRouter_TokenHandling(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/order/list", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ERROR", env.ResponseType)
	assert.Equal(t, "invalid token", env.Message)

	status, env = s.do(t, http.MethodGet, "/api/order/list", "forged.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "ERROR", env.ResponseType)

	status, env = s.do(t, http.MethodGet, "/api/store/all", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SUCCESS", env.ResponseType)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouter_LoginFailure(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "diner", "USER")

	status, env := s.do(t, http.MethodPost, "/api/member/login", "", map[string]any{"userid": "diner", "userpw": "wrong"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ERROR", env.ResponseType)
	assert.Equal(t, "user id or password does not match", env.Message)
}

func TestRouter_TransportErrors(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/member/register", bytes.NewBufferString("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, env := s.do(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ERROR", env.ResponseType)

	status, env = s.do(t, http.MethodGet, "/api/store/info/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ERROR", env.ResponseType)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "marketplace_test_http_requests_total")
}

func jsonInt(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
