package auth

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = time.Hour

const signingKeySize = 32

// GenerateSigningKey returns a random HS256 key. Tokens signed with it die with the process.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, signingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

// TokenManager issues and validates signed, time-limited identity tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for iat, exp and validation.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a manager around an already provisioned key.
func NewTokenManager(key []byte, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tm := &TokenManager{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for subject that expires after the configured TTL.
func (tm *TokenManager) Issue(subject string) (string, time.Time, error) {
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, fmt.Errorf("issue token: empty subject")
	}
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate reports whether token carries a valid signature and has not expired.
func (tm *TokenManager) Validate(token string) bool {
	_, err := tm.parse(token)
	return err == nil
}

// SubjectOf returns the token subject or an INVALID_TOKEN error.
func (tm *TokenManager) SubjectOf(token string) (string, error) {
	claims, err := tm.parse(token)
	if err != nil {
		return "", apperrors.NewInvalidToken()
	}
	return claims.Subject, nil
}

// Authenticate extracts the bearer token from an Authorization header value
// and returns its subject. Every failure is reported as INVALID_TOKEN.
func (tm *TokenManager) Authenticate(header string) (string, error) {
	token, ok := bearerToken(header)
	if !ok {
		return "", apperrors.NewInvalidToken()
	}
	return tm.SubjectOf(token)
}

func (tm *TokenManager) parse(tokenStr string) (*jwt.RegisteredClaims, error) {
	if tokenStr == "" {
		return nil, jwt.ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return tm.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
