package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// MemberLookup resolves a token subject to its member record.
type MemberLookup interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Member, error)
}

// Gate validates bearer tokens and attaches the caller identity.
//
// Requests without an Authorization header pass through anonymously; protected
// routes reject them with RequireMember. A header that is present but carries
// an invalid token, or one whose member no longer exists, is rejected with 401.
type Gate struct {
	tokens  *TokenManager
	members MemberLookup
}

// NewGate constructs the gate middleware.
func NewGate(tokens *TokenManager, members MemberLookup) *Gate {
	return &Gate{tokens: tokens, members: members}
}

// Handle is the fiber handler.
func (g *Gate) Handle(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.TrimSpace(header) == "" {
		return c.Next()
	}

	subject, err := g.tokens.Authenticate(header)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	member, err := g.members.GetByUserID(c.UserContext(), subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewUnauthorized("member not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(identityKey, &domain.Identity{
		Subject:  member.UserID,
		MemberID: member.ID,
		Role:     member.Role,
	})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// RequireMember rejects anonymous requests with an INVALID_TOKEN envelope.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewInvalidToken()
		}
		return c.Next()
	}
}
