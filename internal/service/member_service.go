package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/policy"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

const errBadCredentials = "user id or password does not match"

// LoginThrottle locks a login id after repeated failures.
type LoginThrottle interface {
	Locked(ctx context.Context, subject string) (bool, error)
	RecordFailure(ctx context.Context, subject string) error
	Reset(ctx context.Context, subject string) error
}

// MemberService coordinates registration, login, profiles and points.
type MemberService struct {
	members    repository.MemberRepository
	stores     repository.StoreRepository
	tokens     *auth.TokenManager
	throttle   LoginThrottle
	metrics    *observability.Metrics
	logger     *zap.Logger
	bcryptCost int
	// decoyHash stands in for the stored hash of an unknown login id.
	decoyHash  func() string
}

// MemberDependencies bundles collaborators for the member service.
type MemberDependencies struct {
	MemberRepo repository.MemberRepository
	StoreRepo  repository.StoreRepository
	Tokens     *auth.TokenManager
	Throttle   LoginThrottle
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	BcryptCost int
}

// RegisterInput describes a new account.
type RegisterInput struct {
	UserID   string
	Password string
	Name     string
	Birth    string
	Phone    string
	Email    string
	Address  string
	Role     string
}

// ProfileInput describes profile changes. An empty Password keeps the current one.
type ProfileInput struct {
	Password string
	Name     string
	Birth    string
	Phone    string
	Email    string
	Address  string
}

// LoginResult is returned on a successful login. StoreID is zero unless the
// member owns a store.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	MemberID  int64
	StoreID   int64
	Role      domain.Role
}

// NewMemberService constructs the service.
func NewMemberService(deps MemberDependencies) *MemberService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cost := deps.BcryptCost
	decoyHash := sync.OnceValue(func() string {
		hash, err := auth.HashPassword("decoy-password", cost)
		if err != nil {
			return ""
		}
		return hash
	})
	return &MemberService{
		members:    deps.MemberRepo,
		stores:     deps.StoreRepo,
		tokens:     deps.Tokens,
		throttle:   deps.Throttle,
		metrics:    deps.Metrics,
		logger:     logger,
		bcryptCost: cost,
		decoyHash:  decoyHash,
	}
}

// Register creates an account. Only USER and OWNER can be self-assigned.
func (s *MemberService) Register(ctx context.Context, input RegisterInput) (*domain.Member, error) {
	userID := strings.TrimSpace(input.UserID)
	name := strings.TrimSpace(input.Name)
	if userID == "" || input.Password == "" || name == "" {
		return nil, apperrors.NewValidationError("userid, password and name are required", nil)
	}

	role := domain.RoleUser
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := domain.ParseRole(strings.TrimSpace(input.Role))
		if !ok || parsed == domain.RoleAdmin {
			return nil, apperrors.NewValidationError("role must be USER or OWNER", map[string]any{"role": input.Role})
		}
		role = parsed
	}

	if _, err := s.members.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.NewValidationError("userid already registered", map[string]any{"userid": userID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	member := &domain.Member{
		UserID:       userID,
		PasswordHash: hash,
		Name:         name,
		Birth:        strings.TrimSpace(input.Birth),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        strings.TrimSpace(input.Email),
		Address:      strings.TrimSpace(input.Address),
		Role:         role,
	}
	if err := s.members.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError("userid already registered", map[string]any{"userid": userID})
		}
		return nil, err
	}
	return member, nil
}

// Login verifies credentials and issues a token.
func (s *MemberService) Login(ctx context.Context, userID, password string) (*LoginResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return nil, apperrors.NewValidationError("userid and password are required", nil)
	}

	if s.throttle != nil {
		locked, err := s.throttle.Locked(ctx, userID)
		if err != nil {
			s.logger.Warn("login throttle unavailable", zap.Error(err))
		} else if locked {
			s.metrics.RecordLogin("locked")
			return nil, apperrors.NewRateLimited("too many failed logins, try again later")
		}
	}

	member, err := s.members.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if member == nil {
		_ = auth.ComparePassword(s.decoyHash(), password)
		s.recordFailure(ctx, userID)
		return nil, apperrors.NewValidationError(errBadCredentials, nil)
	}
	if auth.ComparePassword(member.PasswordHash, password) != nil {
		s.recordFailure(ctx, userID)
		return nil, apperrors.NewValidationError(errBadCredentials, nil)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, userID); err != nil {
			s.logger.Warn("login throttle reset failed", zap.Error(err))
		}
	}

	token, expiresAt, err := s.tokens.Issue(member.UserID)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		MemberID:  member.ID,
		Role:      member.Role,
	}
	if member.Role.Is(domain.RoleOwner) && s.stores != nil {
		store, err := s.stores.GetByOwner(ctx, member.ID)
		switch {
		case err == nil:
			result.StoreID = store.ID
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, err
		}
	}

	s.metrics.RecordLogin("success")
	return result, nil
}

func (s *MemberService) recordFailure(ctx context.Context, userID string) {
	s.metrics.RecordLogin("failure")
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, userID); err != nil {
		s.logger.Warn("login throttle update failed", zap.Error(err))
	}
}

// Profile returns the caller's member record.
func (s *MemberService) Profile(ctx context.Context, identity *domain.Identity) (*domain.Member, error) {
	return s.load(ctx, identity, identity.MemberIDOrZero(), policy.ActionRead)
}

// UpdateProfile changes the caller's profile fields.
func (s *MemberService) UpdateProfile(ctx context.Context, identity *domain.Identity, input ProfileInput) (*domain.Member, error) {
	member, err := s.load(ctx, identity, identity.MemberIDOrZero(), policy.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		member.Name = name
	}
	member.Birth = strings.TrimSpace(input.Birth)
	member.Phone = strings.TrimSpace(input.Phone)
	member.Email = strings.TrimSpace(input.Email)
	member.Address = strings.TrimSpace(input.Address)
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		member.PasswordHash = hash
	}

	if err := s.members.UpdateProfile(ctx, member); err != nil {
		return nil, notFound(err, "member", member.ID)
	}
	return member, nil
}

// ChargePoint adds amount to the caller's balance and returns the new balance.
func (s *MemberService) ChargePoint(ctx context.Context, identity *domain.Identity, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.NewValidationError("amount must be positive", map[string]any{"amount": amount})
	}
	memberID := identity.MemberIDOrZero()
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryPoint, OwnerID: memberID}, requesterOf(identity), policy.ActionCreate); err != nil {
		return 0, err
	}
	point, err := s.members.AddPoint(ctx, memberID, amount)
	if err != nil {
		return 0, notFound(err, "member", memberID)
	}
	return point, nil
}

// Point returns the caller's balance.
func (s *MemberService) Point(ctx context.Context, identity *domain.Identity) (int64, error) {
	memberID := identity.MemberIDOrZero()
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryPoint, OwnerID: memberID}, requesterOf(identity), policy.ActionRead); err != nil {
		return 0, err
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return 0, notFound(err, "member", memberID)
	}
	return member.Point, nil
}

// SetPoint overwrites the balance of the member with login id userID.
func (s *MemberService) SetPoint(ctx context.Context, identity *domain.Identity, userID string, point int64) error {
	if point < 0 {
		return apperrors.NewValidationError("point must not be negative", map[string]any{"point": point})
	}
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryPoint}, requesterOf(identity), policy.ActionUpdate); err != nil {
		return err
	}
	target, err := s.members.GetByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return notFound(err, "member", userID)
	}
	return notFound(s.members.SetPoint(ctx, target.ID, point), "member", userID)
}

func (s *MemberService) load(ctx context.Context, identity *domain.Identity, memberID int64, action policy.Action) (*domain.Member, error) {
	if err := policy.Authorize(policy.Resource{Category: policy.CategoryMember, OwnerID: memberID}, requesterOf(identity), action); err != nil {
		return nil, err
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, notFound(err, "member", memberID)
	}
	return member, nil
}
