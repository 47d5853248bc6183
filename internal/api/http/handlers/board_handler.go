package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// BoardHandler exposes /api/board endpoints.
type BoardHandler struct {
	boards *service.BoardService
}

// NewBoardHandler constructs handler.
func NewBoardHandler(boards *service.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// List handles GET /api/board?category=.
func (h *BoardHandler) List(c *fiber.Ctx) error {
	posts, err := h.boards.List(c.UserContext(), identity(c), c.Query("category"))
	if err != nil {
		return err
	}
	return success(c, dto.NewBoardResponses(posts), "posts found")
}

// Get handles GET /api/board/:id.
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.boards.Get(c.UserContext(), identity(c), id)
	if err != nil {
		return err
	}
	return success(c, dto.NewBoardResponse(post), "post found")
}

// Create handles POST /api/board.
func (h *BoardHandler) Create(c *fiber.Ctx) error {
	var req dto.BoardRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.boards.Create(c.UserContext(), identity(c), req.Category, service.PostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return success(c, dto.NewBoardResponse(post), "post created")
}

// Update handles POST /api/board/update/:id.
func (h *BoardHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.BoardRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.boards.Update(c.UserContext(), identity(c), id, service.PostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return success(c, dto.NewBoardResponse(post), "post updated")
}

// Delete handles GET /api/board/delete/:id.
func (h *BoardHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.boards.Delete(c.UserContext(), identity(c), id); err != nil {
		return err
	}
	return success(c, nil, "post deleted")
}
