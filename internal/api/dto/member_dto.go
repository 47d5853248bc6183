package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RegisterRequest payload for new members.
type RegisterRequest struct {
	UserID   string `json:"userid"`
	Password string `json:"userpw"`
	Name     string `json:"name"`
	Birth    string `json:"birth"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	UserID   string `json:"userid"`
	Password string `json:"userpw"`
}

// LoginResponse is returned on successful login. StoreID is null for members without a store.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	StoreID   *int64    `json:"storeId"`
	Role      string    `json:"role"`
}

// ProfileRequest payload for profile updates; an empty password keeps the current one.
type ProfileRequest struct {
	Password string `json:"userpw"`
	Name     string `json:"name"`
	Birth    string `json:"birth"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// MemberResponse is the public view of a member; the password hash never leaves the service.
type MemberResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userid"`
	Name      string    `json:"name"`
	Birth     string    `json:"birth"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	Point     int64     `json:"point"`
	CreatedAt time.Time `json:"createdAt"`
}

// PointRequest charges or sets points. UserID is only read by the admin set endpoint.
type PointRequest struct {
	UserID string `json:"userid,omitempty"`
	Point  int64  `json:"point"`
}

// PointResponse reports a balance.
type PointResponse struct {
	Point int64 `json:"point"`
}

// NewMemberResponse maps a member.
func NewMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Birth:     m.Birth,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		Role:      string(m.Role),
		Point:     m.Point,
		CreatedAt: m.CreatedAt,
	}
}
