package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

type fakeThrottle struct {
	max      int
	failures map[string]int
	err      error
}

func newFakeThrottle(max int) *fakeThrottle {
	return &fakeThrottle{max: max, failures: map[string]int{}}
}

func (f *fakeThrottle) Locked(_ context.Context, subject string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.failures[subject] >= f.max, nil
}

func (f *fakeThrottle) RecordFailure(_ context.Context, subject string) error {
	f.failures[subject]++
	return nil
}

func (f *fakeThrottle) Reset(_ context.Context, subject string) error {
	delete(f.failures, subject)
	return nil
}

func TestMemberService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	member, err := f.members.Register(ctx, RegisterInput{UserID: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, member.Role)
	assert.NotEqual(t, "secret", member.PasswordHash)

	result, err := f.members.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, member.ID, result.MemberID)
	assert.Zero(t, result.StoreID)

	subject, err := f.tokens.Authenticate("Bearer " + result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestMemberService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.members.Register(ctx, RegisterInput{UserID: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)

	cases := map[string]RegisterInput{
		"duplicate":      {UserID: "alice", Password: "x", Name: "Other"},
		"missing userid": {Password: "x", Name: "Bob"},
		"missing name":   {UserID: "bob", Password: "x"},
		"admin role":     {UserID: "bob", Password: "x", Name: "Bob", Role: "ADMIN"},
		"unknown role":   {UserID: "bob", Password: "x", Name: "Bob", Role: "CHEF"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.members.Register(ctx, input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestMemberService_LoginReturnsOwnerStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.members.Register(ctx, RegisterInput{UserID: "chef", Password: "pw", Name: "Chef", Role: "owner"})
	require.NoError(t, err)
	first, err := f.members.Login(ctx, "chef", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, first.Role)
	assert.Zero(t, first.StoreID)

	identity := &domain.Identity{Subject: "chef", MemberID: first.MemberID, Role: domain.RoleOwner}
	store := f.store(t, identity, "Chef's Table")

	second, err := f.members.Login(ctx, "chef", "pw")
	require.NoError(t, err)
	assert.Equal(t, store.ID, second.StoreID)
}

func TestMemberService_LoginFailureIsIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, RegisterInput{UserID: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)

	_, wrongPassword := f.members.Login(ctx, "alice", "nope")
	_, unknownUser := f.members.Login(ctx, "mallory", "nope")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrValidation)
	assert.ErrorIs(t, unknownUser, apperrors.ErrValidation)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestMemberService_LoginUnknownUserStillComparesHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.members.Register(ctx, RegisterInput{UserID: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)

	decoyCalls := 0
	decoy := f.members.decoyHash
	f.members.decoyHash = func() string {
		decoyCalls++
		return decoy()
	}

	_, err = f.members.Login(ctx, "mallory", "secret")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 1, decoyCalls)

	_, err = f.members.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 1, decoyCalls)

	hash := decoy()
	require.NotEmpty(t, hash)
	assert.NoError(t, auth.ComparePassword(hash, "decoy-password"))
}

func TestMemberService_LoginThrottle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	throttle := newFakeThrottle(2)
	f.members.throttle = throttle

	_, err := f.members.Register(ctx, RegisterInput{UserID: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)

	_, err = f.members.Login(ctx, "alice", "bad")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = f.members.Login(ctx, "alice", "bad")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.members.Login(ctx, "alice", "secret")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, apperrors.CodeRateLimited, domainErr.Code)

	delete(throttle.failures, "alice")
	_, err = f.members.Login(ctx, "alice", "secret")
	require.NoError(t, err)
}

func TestMemberService_LoginThrottleFailsOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	throttle := newFakeThrottle(1)
	throttle.err = errors.New("redis down")
	f.members.throttle = throttle

	_, err := f.members.Register(ctx, RegisterInput{UserID: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)
	_, err = f.members.Login(ctx, "alice", "secret")
	assert.NoError(t, err)
}

func TestMemberService_ProfileAndPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.member(t, "admin", domain.RoleAdmin)
	alice := f.member(t, "alice", domain.RoleUser)

	profile, err := f.members.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.UserID)

	updated, err := f.members.UpdateProfile(ctx, alice, ProfileInput{Name: "Alice Kim", Phone: "010-1234-5678", Password: "new-pw"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Kim", updated.Name)
	_, err = f.members.Login(ctx, "alice", "new-pw")
	require.NoError(t, err)

	balance, err := f.members.ChargePoint(ctx, alice, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)
	balance, err = f.members.ChargePoint(ctx, alice, 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(6500), balance)

	_, err = f.members.ChargePoint(ctx, alice, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.ErrorIs(t, f.members.SetPoint(ctx, alice, "alice", 1_000_000), apperrors.ErrForbidden)
	require.NoError(t, f.members.SetPoint(ctx, admin, "alice", 100))
	assert.ErrorIs(t, f.members.SetPoint(ctx, admin, "ghost", 100), apperrors.ErrNotFound)

	point, err := f.members.Point(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(100), point)
}
