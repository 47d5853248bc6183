package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// MemberHandler exposes /api/member endpoints.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler constructs handler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Register handles POST /api/member/register.
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	member, err := h.members.Register(c.UserContext(), service.RegisterInput{
		UserID:   req.UserID,
		Password: req.Password,
		Name:     req.Name,
		Birth:    req.Birth,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return success(c, dto.NewMemberResponse(member), "member registered")
}

// Login handles POST /api/member/login.
func (h *MemberHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.members.Login(c.UserContext(), req.UserID, req.Password)
	if err != nil {
		return err
	}
	resp := dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Role:      string(result.Role),
	}
	if result.StoreID != 0 {
		resp.StoreID = &result.StoreID
	}
	return success(c, resp, "login succeeded")
}

// Logout handles POST /api/member/logout. Tokens are stateless; clients discard them.
func (h *MemberHandler) Logout(c *fiber.Ctx) error {
	return success(c, nil, "logout succeeded")
}

// Profile handles GET /api/member/info.
func (h *MemberHandler) Profile(c *fiber.Ctx) error {
	member, err := h.members.Profile(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return success(c, dto.NewMemberResponse(member), "member found")
}

// UpdateProfile handles POST /api/member/info.
func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	member, err := h.members.UpdateProfile(c.UserContext(), identity(c), service.ProfileInput{
		Password: req.Password,
		Name:     req.Name,
		Birth:    req.Birth,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return success(c, dto.NewMemberResponse(member), "member updated")
}

// ChargePoint handles POST /api/member/point/add.
func (h *MemberHandler) ChargePoint(c *fiber.Ctx) error {
	var req dto.PointRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	point, err := h.members.ChargePoint(c.UserContext(), identity(c), req.Point)
	if err != nil {
		return err
	}
	return success(c, dto.PointResponse{Point: point}, "points charged")
}

// Point handles GET /api/member/point/info.
func (h *MemberHandler) Point(c *fiber.Ctx) error {
	point, err := h.members.Point(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return success(c, dto.PointResponse{Point: point}, "points found")
}

// SetPoint handles POST /api/member/point/info.
func (h *MemberHandler) SetPoint(c *fiber.Ctx) error {
	var req dto.PointRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.members.SetPoint(c.UserContext(), identity(c), req.UserID, req.Point); err != nil {
		return err
	}
	return success(c, nil, "points updated")
}
