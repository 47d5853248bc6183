package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// MenuHandler exposes /api/menu endpoints.
type MenuHandler struct {
	menus *service.MenuService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(menus *service.MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

// Create handles POST /api/menu/create.
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	input, closeFile, err := menuInput(c)
	if err != nil {
		return err
	}
	defer closeFile()

	menu, err := h.menus.Create(c.UserContext(), identity(c), input)
	if err != nil {
		return err
	}
	return success(c, dto.NewMenuResponse(menu), "menu registered")
}

// Get handles GET /api/menu/info/:id.
func (h *MenuHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	menu, err := h.menus.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, dto.NewMenuResponse(menu), "menu found")
}

// ListByStore handles GET /api/menu/store/:storeId.
func (h *MenuHandler) ListByStore(c *fiber.Ctx) error {
	storeID, err := paramID(c, "storeId")
	if err != nil {
		return err
	}
	menus, err := h.menus.ListByStore(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return success(c, dto.NewMenuResponses(menus), "menus found")
}

// Update handles POST /api/menu/info/:id.
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	input, closeFile, err := menuInput(c)
	if err != nil {
		return err
	}
	defer closeFile()

	menu, err := h.menus.Update(c.UserContext(), identity(c), id, input)
	if err != nil {
		return err
	}
	return success(c, dto.NewMenuResponse(menu), "menu updated")
}

// Delete handles GET /api/menu/delete/:id.
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.menus.Delete(c.UserContext(), identity(c), id); err != nil {
		return err
	}
	return success(c, nil, "menu deleted")
}

func menuInput(c *fiber.Ctx) (service.MenuInput, func(), error) {
	var req dto.MenuRequest
	if err := bind(c, &req); err != nil {
		return service.MenuInput{}, func() {}, err
	}
	upload, closeFile, err := thumbnail(c)
	if err != nil {
		return service.MenuInput{}, closeFile, err
	}
	return service.MenuInput{
		StoreID:   req.StoreID,
		Title:     req.Title,
		Content:   req.Content,
		Price:     req.Price,
		Thumbnail: upload,
	}, closeFile, nil
}
