package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

type fakeMembers map[string]*domain.Member

func (f fakeMembers) GetByUserID(_ context.Context, userID string) (*domain.Member, error) {
	if m, ok := f[userID]; ok {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

type brokenMembers struct{}

func (brokenMembers) GetByUserID(context.Context, string) (*domain.Member, error) {
	return nil, errors.New("connection reset")
}

// gateApp mounts the gate in front of an open and a member-only route.
func gateApp(tokens *TokenManager, members MemberLookup) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	gate := NewGate(tokens, members)
	app.Use(gate.Handle)
	app.Get("/open", func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"subject": identity.Subject, "role": identity.Role})
	})
	app.Get("/members-only", RequireMember(), func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.JSON(fiber.Map{"memberId": identity.MemberID})
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestGate_NoHeaderPassesAnonymously(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	app := gateApp(tokens, fakeMembers{})

	status, body := doGet(t, app, "/open", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["anonymous"])
}

func TestGate_ValidTokenAttachesIdentity(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	members := fakeMembers{"alice": {ID: 7, UserID: "alice", Role: domain.RoleOwner}}
	app := gateApp(tokens, members)

	token, _, err := tokens.Issue("alice")
	require.NoError(t, err)

	status, body := doGet(t, app, "/open", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["subject"])
	assert.Equal(t, "OWNER", body["role"])

	status, body = doGet(t, app, "/members-only", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 7, body["memberId"])
}

func TestGate_InvalidTokenIsUnauthorized(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	app := gateApp(tokens, fakeMembers{"alice": {ID: 1, UserID: "alice", Role: domain.RoleUser}})

	status, body := doGet(t, app, "/open", "Bearer nonsense")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, body["code"])

	foreign, _, err := NewTokenManager([]byte("other-key"), time.Hour).Issue("alice")
	require.NoError(t, err)
	status, _ = doGet(t, app, "/open", "Bearer "+foreign)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGate_UnknownMemberIsUnauthorized(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	app := gateApp(tokens, fakeMembers{})

	token, _, err := tokens.Issue("ghost")
	require.NoError(t, err)

	status, body := doGet(t, app, "/open", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, body["code"])
}

func TestGate_LookupFailureIsInternal(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	app := gateApp(tokens, brokenMembers{})

	token, _, err := tokens.Issue("alice")
	require.NoError(t, err)

	status, body := doGet(t, app, "/open", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apperrors.CodeInternal, body["code"])
}

func TestRequireMember_AnonymousGetsInvalidToken(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	app := gateApp(tokens, fakeMembers{})

	status, body := doGet(t, app, "/members-only", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, apperrors.CodeInvalidToken, body["code"])
}

func TestGate_PreflightSkipsTokenCheck(t *testing.T) {
	tokens := NewTokenManager([]byte("gate-key"), time.Hour)
	app := fiber.New()
	gate := NewGate(tokens, brokenMembers{})
	app.Use(gate.Handle)
	reached := false
	app.Options("/members-only", func(c *fiber.Ctx) error {
		reached = true
		_, ok := IdentityFromContext(c)
		assert.False(t, ok)
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/members-only", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer x")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.True(t, reached)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
